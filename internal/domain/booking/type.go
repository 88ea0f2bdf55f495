package booking

import "github.com/BruksfildServices01/venue-booking/internal/httperr"

type Type string

const (
	TypeVenueOnly    Type = "VENUE_ONLY"
	TypeServicesOnly Type = "SERVICES_ONLY"
	TypeMixed        Type = "MIXED"
)

var ErrEmptyBooking = httperr.Validation(
	"empty_booking",
	"booking must include a venue or at least one service",
)

// Classify derives the booking type. Venue ids must already be normalized,
// so hasVenue is a plain presence flag here.
func Classify(hasVenue, hasServices bool) (Type, error) {
	switch {
	case hasVenue && hasServices:
		return TypeMixed, nil
	case hasVenue:
		return TypeVenueOnly, nil
	case hasServices:
		return TypeServicesOnly, nil
	default:
		return "", ErrEmptyBooking
	}
}
