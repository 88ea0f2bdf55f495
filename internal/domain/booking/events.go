package booking

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingUpdated   EventType = "booking.updated"
	EventStatusChanged    EventType = "booking.status_changed"
	EventBalanceDue       EventType = "booking.balance_due"
	EventDepositPaid      EventType = "payment.deposit_paid"
	EventRemainingPaid    EventType = "payment.remaining_paid"
	EventBookingCancelled EventType = "booking.cancelled"
	EventPaymentRefunded  EventType = "payment.refunded"
)

// Event is an outbound side effect produced by a booking operation. The
// caller hands these to a dispatcher once the write has committed.
type Event struct {
	Type          EventType      `json:"type"`
	UserID        string         `json:"userId"`
	BookingID     string         `json:"bookingId"`
	BookingNumber string         `json:"bookingNumber"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	Category      string         `json:"category"`
	Data          map[string]any `json:"data,omitempty"`
}

// Events collects the side effects of one operation.
type Events []Event

func (e *Events) Add(ev Event) {
	*e = append(*e, ev)
}
