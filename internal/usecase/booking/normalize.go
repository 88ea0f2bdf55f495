package booking

import (
	"strings"
	"time"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

// ServiceLine is one requested service. Only ServiceID is required; every
// other field overrides what the line item would inherit from the booking.
type ServiceLine struct {
	ServiceID string
	Price     *float64

	Date      *string
	StartTime *string
	EndTime   *string
	Duration  *int

	LocationType      string
	LocationAddress   *string
	LocationLatitude  *float64
	LocationLongitude *float64

	Notes *string
}

// resolveDate prefers date over eventDate.
func resolveDate(date, eventDate string) (time.Time, string, error) {
	raw := strings.TrimSpace(date)
	if raw == "" {
		raw = strings.TrimSpace(eventDate)
	}
	d, err := domain.ParseDate(raw)
	return d, raw, err
}

// ErrServiceIDRequired rejects an explicit line without a service id.
var ErrServiceIDRequired = httperr.Validation("service_id_required", "service id is required for each service")

// mergeServices appends serviceIds that the explicit list does not already
// name. Explicit lines are kept as sent, repeats included, since each may
// carry its own time or location.
func mergeServices(lines []ServiceLine, ids []string) ([]ServiceLine, error) {
	seen := make(map[string]bool, len(lines)+len(ids))
	out := make([]ServiceLine, 0, len(lines)+len(ids))

	for _, l := range lines {
		l.ServiceID = strings.TrimSpace(l.ServiceID)
		if l.ServiceID == "" {
			return nil, ErrServiceIDRequired
		}
		seen[l.ServiceID] = true
		out = append(out, l)
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, ServiceLine{ServiceID: id})
	}
	return out, nil
}

// venueDefaults turns the venue's active bundled services into lines
// priced from the catalog.
func venueDefaults(v *models.Venue) []ServiceLine {
	var out []ServiceLine
	for _, s := range v.Services {
		if !s.IsActive {
			continue
		}
		price := s.Price
		out = append(out, ServiceLine{ServiceID: s.ID, Price: &price})
	}
	return out
}

func firstNonEmpty(vals ...*string) *string {
	for _, v := range vals {
		if v != nil && strings.TrimSpace(*v) != "" {
			return v
		}
	}
	return nil
}
