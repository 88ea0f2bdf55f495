package booking

import (
	"context"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ListBookingsInput struct {
	Actor  Actor
	Status string
	Page   int
	Limit  int
}

type ListBookingsResult struct {
	Items []models.Booking
	Total int64
	Page  int
	Limit int
}

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Execute lists bookings newest first. Non admins only ever see their own.
func (uc *ListBookings) Execute(ctx context.Context, in ListBookingsInput) (*ListBookingsResult, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := in.Page
	if page < 1 {
		page = 1
	}

	f := domain.ListFilter{Limit: limit, Offset: (page - 1) * limit}
	if !in.Actor.IsAdmin() {
		f.CustomerID = in.Actor.ID
	}

	if in.Status != "" {
		s, ok := domain.StatusFilter(in.Status)
		if !ok {
			return nil, httperr.Validation("invalid_status", "invalid booking status filter")
		}
		f.Status = s
	}

	items, total, err := uc.repo.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ListBookingsResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}
