package booking

import (
	"strings"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
)

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusActive     Status = "ACTIVE"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// ===============================
// Payment Status
// ===============================

const (
	PaymentPending  = "PENDING"
	PaymentPaid     = "PAID"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusActive, StatusCancelled},
	StatusInProgress: {StatusActive, StatusCompleted, StatusCancelled},
	StatusActive:     {StatusInProgress, StatusCompleted, StatusCancelled},
}

func InitialStatus() Status {
	return StatusPending
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusActive, StatusCompleted, StatusCancelled:
		return s, true
	}
	return "", false
}

// StatusFilter maps the listing query value used by the apps onto a stored
// status. "active" means a booking that is currently running.
func StatusFilter(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", false
	case "active":
		return StatusInProgress, true
	}
	return ParseStatus(raw)
}

// CanTransition validates a status change.
func CanTransition(from, to Status) error {
	if from == to {
		return httperr.Validation("invalid_status_transition", "booking is already "+string(to))
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.Validation(
		"invalid_status_transition",
		"cannot change booking status from "+string(from)+" to "+string(to),
	)
}

// CanCancel allows cancellation from every non terminal state.
func CanCancel(current Status) error {
	if current.Terminal() {
		return httperr.Validation("invalid_state", "booking is already "+strings.ToLower(string(current)))
	}
	return nil
}
