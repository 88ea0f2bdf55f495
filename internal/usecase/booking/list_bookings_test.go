package booking

import (
	"context"
	"testing"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

func TestListBookings(t *testing.T) {
	f := newFixture()
	venue := f.repo.addVenue(models.Venue{Name: "Hall", Price: 100, IsActive: true})
	ctx := context.Background()

	mine := f.venueBooking(t, venue.ID, "09:00", "10:00", nil)
	f.venueBooking(t, venue.ID, "10:00", "11:00", nil)
	if _, err := f.creator().Execute(ctx, CreateBookingInput{
		CustomerID: "cust-2",
		VenueID:    &venue.ID,
		Date:       "2026-06-01",
		StartTime:  ptr("12:00"),
		EndTime:    ptr("13:00"),
	}); err != nil {
		t.Fatal(err)
	}

	for _, to := range []string{"CONFIRMED", "IN_PROGRESS"} {
		if _, err := NewUpdateBookingStatus(f.repo, nil, nil).Execute(ctx, UpdateStatusInput{
			BookingID: mine.ID,
			Actor:     f.adminActor(),
			Status:    to,
		}); err != nil {
			t.Fatal(err)
		}
	}

	uc := NewListBookings(f.repo)

	tests := []struct {
		name   string
		in     ListBookingsInput
		total  int64
		items  int
		limit  int
		status string
	}{
		{name: "customer sees own", in: ListBookingsInput{Actor: f.customerActor()}, total: 2, items: 2, limit: 10},
		{name: "admin sees all", in: ListBookingsInput{Actor: f.adminActor()}, total: 3, items: 3, limit: 10},
		{name: "active maps to in progress", in: ListBookingsInput{Actor: f.customerActor(), Status: "active"}, total: 1, items: 1, limit: 10},
		{name: "pending filter", in: ListBookingsInput{Actor: f.adminActor(), Status: "pending"}, total: 2, items: 2, limit: 10},
		{name: "paged", in: ListBookingsInput{Actor: f.adminActor(), Page: 2, Limit: 2}, total: 3, items: 1, limit: 2},
		{name: "limit capped", in: ListBookingsInput{Actor: f.adminActor(), Limit: 1000}, total: 3, items: 3, limit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(ctx, tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if out.Total != tt.total || len(out.Items) != tt.items || out.Limit != tt.limit {
				t.Errorf("total=%d items=%d limit=%d", out.Total, len(out.Items), out.Limit)
			}
		})
	}

	_, err := uc.Execute(ctx, ListBookingsInput{Actor: f.adminActor(), Status: "sleeping"})
	assertCode(t, err, "invalid_status")
}

func TestGetBooking(t *testing.T) {
	f := newFixture()
	venue := f.repo.addVenue(models.Venue{Name: "Hall", Price: 100, IsActive: true})
	b := f.venueBooking(t, venue.ID, "09:00", "10:00", &f.card.ID)
	uc := NewGetBooking(f.repo)
	ctx := context.Background()

	got, err := uc.Execute(ctx, b.ID, f.customerActor())
	if err != nil {
		t.Fatal(err)
	}
	if got.BookingNumber != b.BookingNumber || len(got.Payments) != 1 {
		t.Errorf("booking = %+v", got)
	}

	if _, err := uc.Execute(ctx, b.ID, f.adminActor()); err != nil {
		t.Errorf("admin read: %v", err)
	}

	_, err = uc.Execute(ctx, b.ID, Actor{ID: "cust-2", Role: models.RoleCustomer})
	if !httperr.IsKind(err, httperr.KindForbidden) {
		t.Errorf("stranger read err = %v", err)
	}

	_, err = uc.Execute(ctx, "missing", f.adminActor())
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("missing err = %v", err)
	}
}
