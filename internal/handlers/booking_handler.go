package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/venue-booking/internal/dto"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/venue-booking/internal/usecase/booking"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type bookingCreator interface {
	Execute(ctx context.Context, in ucBooking.CreateBookingInput) (*ucBooking.CreateBookingResult, error)
}

type bookingLister interface {
	Execute(ctx context.Context, in ucBooking.ListBookingsInput) (*ucBooking.ListBookingsResult, error)
}

type bookingGetter interface {
	Execute(ctx context.Context, id string, actor ucBooking.Actor) (*models.Booking, error)
}

type bookingStatusUpdater interface {
	Execute(ctx context.Context, in ucBooking.UpdateStatusInput) (*ucBooking.StatusResult, error)
}

type bookingCanceller interface {
	Execute(ctx context.Context, in ucBooking.CancelInput) (*ucBooking.StatusResult, error)
}

type bookingPayer interface {
	Execute(ctx context.Context, in ucBooking.PayInput) (*ucBooking.PaymentResult, error)
}

type bookingRefunder interface {
	Execute(ctx context.Context, in ucBooking.RefundInput) (*ucBooking.PaymentResult, error)
}

type bookingUpdater interface {
	Execute(ctx context.Context, in ucBooking.UpdateBookingInput) (*ucBooking.UpdateBookingResult, error)
}

type BookingUseCases struct {
	Create       bookingCreator
	List         bookingLister
	Get          bookingGetter
	UpdateStatus bookingStatusUpdater
	Cancel       bookingCanceller
	PayDeposit   bookingPayer
	PayRemaining bookingPayer
	Refund       bookingRefunder
	Update       bookingUpdater
}

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	uc     BookingUseCases
	events EventDispatcher
}

func NewBookingHandler(uc BookingUseCases, events EventDispatcher) *BookingHandler {
	return &BookingHandler{uc: uc, events: dispatcherOrNoop(events)}
}

// ======================================================
// REQUESTS
// ======================================================

// ServiceLineRequest is one entry of "services". Clients send either a plain
// service id or an object keyed by serviceId (or id).
type ServiceLineRequest struct {
	ServiceID string   `json:"serviceId"`
	ID        string   `json:"id"`
	Price     *float64 `json:"price"`

	Date      *string `json:"date"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Duration  *int    `json:"duration" binding:"omitempty,min=0"`

	LocationType      string   `json:"locationType"`
	LocationAddress   *string  `json:"locationAddress"`
	LocationLatitude  *float64 `json:"locationLatitude"`
	LocationLongitude *float64 `json:"locationLongitude"`

	Notes *string `json:"notes"`
}

func (s *ServiceLineRequest) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*s = ServiceLineRequest{ServiceID: id}
		return nil
	}

	type plain ServiceLineRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = ServiceLineRequest(p)
	if s.ServiceID == "" {
		s.ServiceID = s.ID
	}
	return nil
}

func (s ServiceLineRequest) line() ucBooking.ServiceLine {
	return ucBooking.ServiceLine{
		ServiceID:         s.ServiceID,
		Price:             s.Price,
		Date:              s.Date,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Duration:          s.Duration,
		LocationType:      s.LocationType,
		LocationAddress:   s.LocationAddress,
		LocationLatitude:  s.LocationLatitude,
		LocationLongitude: s.LocationLongitude,
		Notes:             s.Notes,
	}
}

type CreateBookingRequest struct {
	VenueID   *string `json:"venueId"`
	Date      string  `json:"date"`
	EventDate string  `json:"eventDate"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`

	Location          *string  `json:"location"`
	LocationAddress   *string  `json:"locationAddress"`
	LocationLatitude  *float64 `json:"locationLatitude"`
	LocationLongitude *float64 `json:"locationLongitude"`

	Services   []ServiceLineRequest `json:"services" binding:"dive"`
	ServiceIDs []string             `json:"serviceIds"`

	TotalAmount   *float64 `json:"totalAmount"`
	Discount      *float64 `json:"discount"`
	CardID        *string  `json:"cardId"`
	PaymentMethod string   `json:"paymentMethod"`

	Notes      *string `json:"notes"`
	GuestCount *int    `json:"guestCount" binding:"omitempty,min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PayRequest struct {
	CardID *string `json:"cardId"`
}

type RescheduleRequest struct {
	Date        *string  `json:"date"`
	StartTime   *string  `json:"startTime"`
	EndTime     *string  `json:"endTime"`
	TotalAmount *float64 `json:"totalAmount" binding:"omitempty,min=0"`
	Discount    *float64 `json:"discount"`
	Notes       *string  `json:"notes"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	lines := make([]ucBooking.ServiceLine, 0, len(req.Services))
	for _, s := range req.Services {
		lines = append(lines, s.line())
	}

	res, err := h.uc.Create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		CustomerID:        actorFrom(c).ID,
		VenueID:           req.VenueID,
		Date:              req.Date,
		EventDate:         req.EventDate,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Location:          req.Location,
		LocationAddress:   req.LocationAddress,
		LocationLatitude:  req.LocationLatitude,
		LocationLongitude: req.LocationLongitude,
		Services:          lines,
		ServiceIDs:        req.ServiceIDs,
		TotalAmount:       req.TotalAmount,
		Discount:          req.Discount,
		CardID:            req.CardID,
		PaymentMethod:     req.PaymentMethod,
		Notes:             req.Notes,
		GuestCount:        req.GuestCount,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.events.Dispatch(res.Events...)
	httpresp.Created(c, "Booking created successfully", res.Booking)
}

func (h *BookingHandler) List(c *gin.Context) {
	page, limit := pageParams(c, 10, 100)

	res, err := h.uc.List.Execute(c.Request.Context(), ucBooking.ListBookingsInput{
		Actor:  actorFrom(c),
		Status: strings.TrimSpace(c.Query("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, dto.BookingList(res.Items), res.Total, res.Page, res.Limit)
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.uc.Get.Execute(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	res, err := h.uc.UpdateStatus.Execute(c.Request.Context(), ucBooking.UpdateStatusInput{
		BookingID: c.Param("id"),
		Actor:     actorFrom(c),
		Status:    req.Status,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.events.Dispatch(res.Events...)
	httpresp.OK(c, res.Booking)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	res, err := h.uc.Cancel.Execute(c.Request.Context(), ucBooking.CancelInput{
		BookingID: c.Param("id"),
		Actor:     actorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.events.Dispatch(res.Events...)
	httpresp.OK(c, res.Booking)
}

func (h *BookingHandler) PayDeposit(c *gin.Context) {
	h.pay(c, h.uc.PayDeposit)
}

func (h *BookingHandler) PayRemaining(c *gin.Context) {
	h.pay(c, h.uc.PayRemaining)
}

func (h *BookingHandler) pay(c *gin.Context, uc bookingPayer) {
	var req PayRequest
	// The body is optional; without a card the payment is recorded offline.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailed(c, err)
			return
		}
	}

	res, err := uc.Execute(c.Request.Context(), ucBooking.PayInput{
		BookingID: c.Param("id"),
		Actor:     actorFrom(c),
		CardID:    req.CardID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.events.Dispatch(res.Events...)
	httpresp.OK(c, gin.H{"booking": res.Booking, "payment": res.Payment})
}

func (h *BookingHandler) Refund(c *gin.Context) {
	res, err := h.uc.Refund.Execute(c.Request.Context(), ucBooking.RefundInput{
		BookingID: c.Param("id"),
		Actor:     actorFrom(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.events.Dispatch(res.Events...)
	httpresp.OK(c, gin.H{"booking": res.Booking, "payment": res.Payment})
}

// Reschedule is the admin edit of date, time, amounts and notes.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	res, err := h.uc.Update.Execute(c.Request.Context(), ucBooking.UpdateBookingInput{
		BookingID:   c.Param("id"),
		Actor:       actorFrom(c),
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		TotalAmount: req.TotalAmount,
		Discount:    req.Discount,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.events.Dispatch(res.Events...)
	httpresp.OK(c, res.Booking)
}
