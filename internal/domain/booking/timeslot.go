package booking

import (
	"fmt"
	"regexp"
	"time"
)

const (
	DefaultOpen  = "09:00"
	DefaultClose = "22:00"
)

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidHHMM reports whether s is a 24h HH:MM clock value.
func ValidHHMM(s string) bool {
	return hhmm.MatchString(s)
}

func minutes(s string) (int, bool) {
	if !ValidHHMM(s) {
		return 0, false
	}
	return int(s[0]-'0')*600 + int(s[1]-'0')*60 + int(s[3]-'0')*10 + int(s[4]-'0'), true
}

func clock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ======================================================
// TIME RANGE
// ======================================================

// TimeRange is a half open [Start, End) interval of HH:MM values.
// A range missing a bound carries no time constraint.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func RangeOf(start, end *string) TimeRange {
	var r TimeRange
	if start != nil {
		r.Start = *start
	}
	if end != nil {
		r.End = *end
	}
	return r
}

func (r TimeRange) bounds() (int, int, bool) {
	s, ok1 := minutes(r.Start)
	e, ok2 := minutes(r.End)
	return s, e, ok1 && ok2
}

// Bounded reports whether both ends are valid clock values.
func (r TimeRange) Bounded() bool {
	_, _, ok := r.bounds()
	return ok
}

// Valid reports a bounded range with start strictly before end.
func (r TimeRange) Valid() bool {
	s, e, ok := r.bounds()
	return ok && s < e
}

// Overlaps applies the half open rule. Touching ranges do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	as, ae, ok1 := r.bounds()
	bs, be, ok2 := o.bounds()
	if !ok1 || !ok2 {
		return false
	}
	return !(ae <= bs || as >= be)
}

// ConflictsWith checks a requested range against an existing one: the new
// start falls inside it, the new end falls inside it, or it sits fully
// inside the request.
func (r TimeRange) ConflictsWith(existing TimeRange) bool {
	ns, ne, ok1 := r.bounds()
	es, ee, ok2 := existing.bounds()
	if !ok1 || !ok2 {
		return false
	}

	startInside := ns >= es && ns < ee
	endInside := ne > es && ne <= ee
	covers := ns <= es && ne >= ee

	return startInside || endInside || covers
}

// ======================================================
// WORKING HOURS
// ======================================================

// WorkingHours resolves nullable opening hours, falling back to 09:00-22:00.
func WorkingHours(start, end *string) TimeRange {
	r := TimeRange{Start: DefaultOpen, End: DefaultClose}
	if start != nil && *start != "" {
		r.Start = *start
	}
	if end != nil && *end != "" {
		r.End = *end
	}
	return r
}

// HourlySlots splits working hours into one hour slots. The last slot never
// runs past closing time.
func HourlySlots(hours TimeRange) []TimeRange {
	s, e, ok := hours.bounds()
	if !ok {
		return nil
	}

	var slots []TimeRange
	for cur := s; cur+60 <= e; cur += 60 {
		slots = append(slots, TimeRange{Start: clock(cur), End: clock(cur + 60)})
	}
	return slots
}

// ======================================================
// HOLIDAYS
// ======================================================

// HolidayMatches compares calendar days in UTC. Recurring holidays match
// the same month and day of any year.
func HolidayMatches(holiday time.Time, recurring bool, day time.Time) bool {
	h := holiday.UTC()
	d := day.UTC()
	if recurring {
		return h.Month() == d.Month() && h.Day() == d.Day()
	}
	return h.Year() == d.Year() && h.YearDay() == d.YearDay()
}
