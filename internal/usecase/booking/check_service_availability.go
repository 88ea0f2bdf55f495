package booking

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
)

type ServiceAvailabilityInput struct {
	ServiceID string
	Date      string
	StartTime *string
	EndTime   *string
}

type ServiceAvailability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type CheckServiceAvailability struct {
	repo domain.Repository
}

func NewCheckServiceAvailability(repo domain.Repository) *CheckServiceAvailability {
	return &CheckServiceAvailability{repo: repo}
}

func (uc *CheckServiceAvailability) Execute(
	ctx context.Context,
	in ServiceAvailabilityInput,
) (*ServiceAvailability, error) {

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if err := validateRange(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFound("Service")
	}
	if err != nil {
		return nil, err
	}

	holidays, err := uc.repo.ListServiceHolidays(ctx, svc.ID)
	if err != nil {
		return nil, err
	}
	if h := domain.MatchServiceHoliday(holidays, date); h != nil {
		reason := h.Reason
		if reason == "" {
			reason = "service is not available on this date"
		}
		return &ServiceAvailability{Available: false, Reason: reason}, nil
	}

	start, end := domain.DayBounds(date)
	slots, err := uc.repo.ListServiceSlots(ctx, svc.ID, start, end)
	if err != nil {
		return nil, err
	}

	want := domain.RangeOf(in.StartTime, in.EndTime)
	if !want.Bounded() {
		// Without a requested slot any booking that day makes the service busy.
		if len(slots) > 0 {
			return &ServiceAvailability{Available: false, Reason: "service is already booked on this date"}, nil
		}
		return &ServiceAvailability{Available: true}, nil
	}

	for _, s := range slots {
		if want.Overlaps(s.Range()) {
			return &ServiceAvailability{Available: false, Reason: "service is already booked for this time slot"}, nil
		}
	}

	return &ServiceAvailability{Available: true}, nil
}
