package booking

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/venue-booking/internal/cache"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/logger"
)

type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

type VenueSlots struct {
	Date          string           `json:"date"`
	WorkingHours  domain.TimeRange `json:"workingHours"`
	IsHoliday     bool             `json:"isHoliday"`
	HolidayReason string           `json:"holidayReason,omitempty"`
	Slots         []Slot           `json:"slots"`
}

type GetVenueSlots struct {
	repo  domain.Repository
	cache SlotCache
}

func NewGetVenueSlots(repo domain.Repository, cache SlotCache) *GetVenueSlots {
	return &GetVenueSlots{repo: repo, cache: cache}
}

func (uc *GetVenueSlots) Execute(
	ctx context.Context,
	venueID string,
	rawDate string,
) (*VenueSlots, error) {

	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return nil, err
	}
	day := dayKey(date)
	key := cache.VenueSlotsKey(venueID, day)

	if uc.cache != nil {
		var cached VenueSlots
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Get().WithField("key", key).WithError(err).Warn("slot cache read failed")
		}
	}

	venue, err := uc.repo.GetVenue(ctx, venueID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFound("Venue")
	}
	if err != nil {
		return nil, err
	}

	hours := domain.WorkingHours(venue.WorkingHoursStart, venue.WorkingHoursEnd)
	out := &VenueSlots{
		Date:         day,
		WorkingHours: hours,
		Slots:        []Slot{},
	}

	holidays, err := uc.repo.ListVenueHolidays(ctx, venue.ID)
	if err != nil {
		return nil, err
	}
	if h := domain.MatchVenueHoliday(holidays, date); h != nil {
		out.IsHoliday = true
		out.HolidayReason = h.Reason
	}

	start, end := domain.DayBounds(date)
	bookings, err := uc.repo.ListVenueBookings(ctx, venue.ID, start, end, "")
	if err != nil {
		return nil, err
	}

	booked := make([]domain.TimeRange, 0, len(bookings))
	for _, b := range bookings {
		booked = append(booked, domain.RangeOf(b.StartTime, b.EndTime))
	}

	for _, slot := range domain.HourlySlots(hours) {
		available := !out.IsHoliday
		for _, r := range booked {
			if !available {
				break
			}
			if slot.Overlaps(r) {
				available = false
			}
		}
		out.Slots = append(out.Slots, Slot{Start: slot.Start, End: slot.End, Available: available})
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, out); err != nil {
			logger.Get().WithField("key", key).WithError(err).Warn("slot cache write failed")
		}
	}

	return out, nil
}
