package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/venue-booking/internal/models"
)

// ErrNotFound is returned by repositories when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ServiceSlot is an existing line item of a service together with the time
// range of its parent booking.
type ServiceSlot struct {
	BookingID    string
	Start        *string
	End          *string
	BookingStart *string
	BookingEnd   *string
}

// Range resolves the line item's own range, defaulting to its booking.
func (s ServiceSlot) Range() TimeRange {
	r := RangeOf(s.Start, s.End)
	if r.Bounded() {
		return r
	}
	return RangeOf(s.BookingStart, s.BookingEnd)
}

type ListFilter struct {
	CustomerID string
	Status     Status
	Limit      int
	Offset     int
}

type Repository interface {
	// -------- Transaction --------
	// Transaction runs fn against a repository bound to one database
	// transaction. Returning an error rolls it back.
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	// -------- Venue --------
	GetVenue(ctx context.Context, id string) (*models.Venue, error)

	// LockVenue takes a row lock on the venue for the rest of the transaction.
	LockVenue(ctx context.Context, id string) error

	IncrementVenueClients(ctx context.Context, id string) error

	ListVenueHolidays(ctx context.Context, venueID string) ([]models.VenueHoliday, error)

	// ListVenueBookings returns non cancelled bookings of a venue in
	// [dayStart, dayEnd), skipping excludeID when set.
	ListVenueBookings(
		ctx context.Context,
		venueID string,
		dayStart time.Time,
		dayEnd time.Time,
		excludeID string,
	) ([]models.Booking, error)

	// -------- Service --------
	GetService(ctx context.Context, id string) (*models.Service, error)

	ListServiceHolidays(ctx context.Context, serviceID string) ([]models.ServiceHoliday, error)

	ListServiceSlots(
		ctx context.Context,
		serviceID string,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]ServiceSlot, error)

	// -------- User / Card --------
	GetUser(ctx context.Context, id string) (*models.User, error)

	GetCard(ctx context.Context, id string) (*models.CreditCard, error)

	// -------- Booking --------
	CreateBooking(ctx context.Context, b *models.Booking) error

	GetBooking(ctx context.Context, id string) (*models.Booking, error)

	ListBookings(ctx context.Context, f ListFilter) ([]models.Booking, int64, error)

	// SaveSchedule persists date, time, amount and notes changes.
	SaveSchedule(ctx context.Context, b *models.Booking) error

	// -------- Payment state (compare and set) --------
	// Each returns false when the booking was not in the expected state.
	// A non nil method also replaces the booking payment method.
	MarkDepositPaid(ctx context.Context, bookingID string, method *string) (bool, error)

	MarkRemainingPaid(ctx context.Context, bookingID string) (bool, error)

	UpdateStatus(ctx context.Context, bookingID string, from, to Status) (bool, error)

	MarkRefunded(ctx context.Context, bookingID string) error

	// -------- Payment ledger --------
	CreatePayment(ctx context.Context, p *models.Payment) error

	LatestPaidPayment(ctx context.Context, bookingID string) (*models.Payment, error)

	// UpdatePaymentStatus moves a payment from one status to another and
	// returns false when it was no longer in from.
	UpdatePaymentStatus(ctx context.Context, paymentID, from, to string) (bool, error)
}

// MatchVenueHoliday returns the first holiday covering day.
func MatchVenueHoliday(holidays []models.VenueHoliday, day time.Time) *models.VenueHoliday {
	for i := range holidays {
		if HolidayMatches(holidays[i].Date, holidays[i].IsRecurring, day) {
			return &holidays[i]
		}
	}
	return nil
}

func MatchServiceHoliday(holidays []models.ServiceHoliday, day time.Time) *models.ServiceHoliday {
	for i := range holidays {
		if HolidayMatches(holidays[i].Date, holidays[i].IsRecurring, day) {
			return &holidays[i]
		}
	}
	return nil
}
