package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/metrics"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	"github.com/BruksfildServices01/venue-booking/internal/payment"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	CustomerID string

	VenueID   *string
	Date      string
	EventDate string
	StartTime *string
	EndTime   *string

	Location          *string
	LocationAddress   *string
	LocationLatitude  *float64
	LocationLongitude *float64

	Services   []ServiceLine
	ServiceIDs []string

	TotalAmount   *float64
	Discount      *float64
	CardID        *string
	PaymentMethod string

	Notes      *string
	GuestCount *int
}

type CreateBookingResult struct {
	Booking *models.Booking
	Events  domain.Events
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo    domain.Repository
	charger charger
	cache   SlotCache
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	gateway payment.Gateway,
	currency string,
	cache SlotCache,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:    repo,
		charger: charger{gateway: gateway, currency: currency},
		cache:   cache,
		audit:   audit,
		now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingResult, error) {

	// --------------------------------------------------
	// 1. Date and time
	// --------------------------------------------------
	date, rawDate, err := resolveDate(in.Date, in.EventDate)
	if err != nil {
		return nil, err
	}
	if err := validateRange(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Venue
	// --------------------------------------------------
	var venue *models.Venue
	if id := domain.OptionalID(in.VenueID); id != nil {
		venue, err = uc.repo.GetVenue(ctx, *id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFound("Venue")
		}
		if err != nil {
			return nil, err
		}
		if !venue.IsActive {
			return nil, httperr.Validation("venue_inactive", "venue is not active")
		}
	}

	// --------------------------------------------------
	// 3. Services (explicit list wins over venue bundle)
	// --------------------------------------------------
	lines, err := mergeServices(in.Services, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 && venue != nil {
		lines = venueDefaults(venue)
	}

	notes := firstNonEmpty(in.Notes)
	if notes == nil && in.GuestCount != nil {
		n := fmt.Sprintf("Guest count: %d", *in.GuestCount)
		notes = &n
	}

	b := &models.Booking{
		CustomerID:        in.CustomerID,
		Date:              date,
		EventDate:         rawDate,
		StartTime:         firstNonEmpty(in.StartTime),
		EndTime:           firstNonEmpty(in.EndTime),
		Location:          in.Location,
		LocationAddress:   in.LocationAddress,
		LocationLatitude:  in.LocationLatitude,
		LocationLongitude: in.LocationLongitude,
		Status:            string(domain.InitialStatus()),
		PaymentStatus:     domain.PaymentPending,
		Notes:             notes,
		GuestCount:        in.GuestCount,
	}
	if venue != nil {
		b.VenueID = &venue.ID
	}

	// --------------------------------------------------
	// 4. Line items
	// --------------------------------------------------
	prices := make([]float64, 0, len(lines))
	for _, line := range lines {
		item, err := uc.buildLineItem(ctx, line, venue, b)
		if err != nil {
			return nil, err
		}
		b.Services = append(b.Services, *item)
		prices = append(prices, item.Price)
	}

	// --------------------------------------------------
	// 5. Type
	// --------------------------------------------------
	bookingType, err := domain.Classify(venue != nil, len(b.Services) > 0)
	if err != nil {
		return nil, err
	}
	b.BookingType = string(bookingType)

	// --------------------------------------------------
	// 6. Amounts
	// --------------------------------------------------
	var venuePrice *float64
	if venue != nil {
		venuePrice = &venue.Price
	}
	discount := 0.0
	if in.Discount != nil {
		discount = *in.Discount
	}

	amounts, err := domain.ComputeAmounts(domain.AmountsInput{
		VenuePrice:     venuePrice,
		ServicePrices:  prices,
		RequestedTotal: in.TotalAmount,
		Discount:       discount,
	})
	if err != nil {
		return nil, err
	}
	applyAmounts(b, amounts)

	// --------------------------------------------------
	// 7. Card and payment method
	// --------------------------------------------------
	card, err := resolveCard(ctx, uc.repo, in.CustomerID, in.CardID)
	if err != nil {
		return nil, err
	}

	method, err := domain.NormalizePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if method == nil && card != nil {
		m := domain.MethodCreditCard
		method = &m
	}
	b.PaymentMethod = method

	// --------------------------------------------------
	// 8. Persist
	// --------------------------------------------------
	b.BookingNumber, err = domain.NewBookingNumber(uc.now())
	if err != nil {
		return nil, err
	}

	var (
		charge  *payment.Charge
		deposit *models.Payment
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if venue != nil {
			if err := tx.LockVenue(ctx, venue.ID); err != nil {
				return err
			}
			if err := checkVenueHoliday(ctx, tx, venue.ID, date); err != nil {
				return err
			}
			if err := checkVenueConflict(ctx, tx, venue.ID, date, domain.RangeOf(b.StartTime, b.EndTime), ""); err != nil {
				return err
			}
		}

		for i := range b.Services {
			item := &b.Services[i]
			if err := checkServiceDay(ctx, tx, item, *item.Date); err != nil {
				return err
			}
		}

		// 9. Deposit charged up front when a card was given
		if card != nil && b.DepositAmount > 0 {
			email, err := payerEmail(ctx, tx, in.CustomerID)
			if err != nil {
				return err
			}
			charge, err = uc.charger.charge(ctx, card, email, b, models.PaymentKindDeposit, b.DepositAmount)
			if err != nil {
				return err
			}
			domain.MarkDepositPaid(b)
		}

		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}

		if charge != nil {
			deposit = &models.Payment{
				BookingID:     b.ID,
				Amount:        b.DepositAmount,
				Method:        domain.MethodCreditCard,
				Status:        domain.PaymentPaid,
				Kind:          models.PaymentKindDeposit,
				TransactionID: charge.TransactionID,
				CardID:        &card.ID,
			}
			if err := tx.CreatePayment(ctx, deposit); err != nil {
				return err
			}
		}

		// 10. Venue counter
		if venue != nil {
			return tx.IncrementVenueClients(ctx, venue.ID)
		}
		return nil
	})

	if err != nil {
		uc.charger.compensate(ctx, b, charge)
		if httperr.IsExclusionConflict(err) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	if deposit != nil {
		b.Payments = append(b.Payments, *deposit)
	}

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	invalidateSlots(ctx, uc.cache, b.VenueID, date)
	metrics.IncBookingCreated(b.BookingType)

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(in.CustomerID),
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"bookingNumber": b.BookingNumber,
			"bookingType":   b.BookingType,
			"finalAmount":   b.FinalAmount,
		},
	})

	var events domain.Events
	events.Add(domain.Event{
		Type:          domain.EventBookingCreated,
		UserID:        b.CustomerID,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Title:         "Booking created",
		Message:       fmt.Sprintf("Your booking %s has been created.", b.BookingNumber),
		Category:      "BOOKING",
		Data:          map[string]any{"finalAmount": b.FinalAmount, "depositAmount": b.DepositAmount},
	})
	if deposit != nil {
		events.Add(depositEvent(b))
	}

	return &CreateBookingResult{Booking: b, Events: events}, nil
}

// buildLineItem validates one service against the booking and fills the
// fields it inherits from it.
func (uc *CreateBooking) buildLineItem(
	ctx context.Context,
	line ServiceLine,
	venue *models.Venue,
	b *models.Booking,
) (*models.BookingService, error) {

	svc, err := uc.repo.GetService(ctx, line.ServiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFound("Service")
	}
	if err != nil {
		return nil, err
	}

	if !svc.IsActive {
		return nil, httperr.Validation("service_inactive", fmt.Sprintf("service %s is not active", svc.Name))
	}
	if svc.RequiresVenue && venue == nil {
		return nil, httperr.Validation(
			"service_requires_venue",
			fmt.Sprintf("service %s requires a venue to be selected", svc.Name),
		)
	}

	locationType := strings.ToLower(strings.TrimSpace(line.LocationType))
	if locationType != "" && !domain.ValidLocationType(locationType) {
		return nil, httperr.Validation(
			"invalid_location_type",
			fmt.Sprintf("invalid location type %q for service %s", line.LocationType, svc.Name),
		)
	}

	switch {
	case locationType == domain.LocationVenue && venue == nil:
		return nil, httperr.Validation(
			"venue_required",
			fmt.Sprintf("cannot book service %s at venue without selecting a venue", svc.Name),
		)
	case locationType == domain.LocationVenue && !svc.WorksInVenues:
		return nil, httperr.Validation(
			"service_not_in_venues",
			fmt.Sprintf("service %s does not work in venues", svc.Name),
		)
	case domain.IsExternal(locationType) && !svc.WorksExternal:
		return nil, httperr.Validation(
			"service_not_external",
			fmt.Sprintf("service %s does not support external bookings", svc.Name),
		)
	}

	// Venue rules apply only to an explicit location; the default is
	// filled in for storage after they passed.
	if locationType == "" && venue != nil {
		locationType = domain.LocationVenue
	}

	price := svc.Price
	if line.Price != nil && *line.Price > 0 {
		price = *line.Price
	}

	date := b.Date
	if d := firstNonEmpty(line.Date); d != nil {
		if date, err = domain.ParseDate(*d); err != nil {
			return nil, err
		}
	}

	item := &models.BookingService{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Price:       price,
		Date:        &date,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Duration:    line.Duration,

		LocationType:      locationType,
		LocationAddress:   line.LocationAddress,
		LocationLatitude:  line.LocationLatitude,
		LocationLongitude: line.LocationLongitude,

		Notes: firstNonEmpty(line.Notes, b.Notes),
	}

	if line.StartTime != nil || line.EndTime != nil {
		if err := validateRange(line.StartTime, line.EndTime); err != nil {
			return nil, err
		}
		item.StartTime = firstNonEmpty(line.StartTime)
		item.EndTime = firstNonEmpty(line.EndTime)
	}

	if locationType != domain.LocationVenue {
		if item.LocationAddress == nil {
			item.LocationAddress = firstNonEmpty(b.LocationAddress, b.Location)
		}
		if item.LocationLatitude == nil {
			item.LocationLatitude = b.LocationLatitude
		}
		if item.LocationLongitude == nil {
			item.LocationLongitude = b.LocationLongitude
		}
	}

	return item, nil
}

func applyAmounts(b *models.Booking, a domain.Amounts) {
	b.TotalAmount = a.TotalAmount
	b.Discount = a.Discount
	b.FinalAmount = a.FinalAmount
	b.DepositAmount = a.DepositAmount
	b.RemainingAmount = a.RemainingAmount
}
