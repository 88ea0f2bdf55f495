package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type memStore struct {
	mu    sync.Mutex
	saved []*models.Notification
	fail  bool
}

func (s *memStore) Save(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("db down")
	}
	s.saved = append(s.saved, n)
	return nil
}

type memPublisher struct {
	mu     sync.Mutex
	sent   []domain.Event
	fail   bool
	closed bool
}

func (p *memPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.sent = append(p.sent, ev)
	return nil
}

func (p *memPublisher) Close() error {
	p.closed = true
	return nil
}

func balanceDue() domain.Event {
	return domain.Event{
		Type:          domain.EventBalanceDue,
		UserID:        "cust-1",
		BookingID:     "b-1",
		BookingNumber: "BK-1-ABC",
		Title:         "Pay remaining balance",
		Message:       "Please pay 70.00",
		Category:      "PAYMENT",
		Data:          map[string]any{"remainingAmount": 70.0, "link": "/booking/b-1/pay"},
	}
}

func TestDispatcherStoresAndPublishes(t *testing.T) {
	store := &memStore{}
	pub := &memPublisher{}
	d := NewDispatcher(store, pub, 10)

	d.Dispatch(balanceDue(), domain.Event{Type: domain.EventBookingCancelled, UserID: "cust-1", BookingID: "b-2"})
	d.Close()

	if len(store.saved) != 2 || len(pub.sent) != 2 {
		t.Fatalf("saved=%d sent=%d", len(store.saved), len(pub.sent))
	}
	if !pub.closed {
		t.Error("publisher not closed")
	}

	n := store.saved[0]
	if n.UserID != "cust-1" || n.Type != "booking.balance_due" || n.Category != "PAYMENT" || n.Link != "/booking/b-1/pay" {
		t.Errorf("notification = %+v", n)
	}
	var meta map[string]any
	if err := json.Unmarshal(n.Metadata, &meta); err != nil {
		t.Fatal(err)
	}
	if meta["bookingNumber"] != "BK-1-ABC" || meta["remainingAmount"] != 70.0 {
		t.Errorf("metadata = %v", meta)
	}

	if store.saved[1].Link != "/booking/b-2" {
		t.Errorf("default link = %q", store.saved[1].Link)
	}
}

func TestDispatcherFailuresDoNotBlock(t *testing.T) {
	store := &memStore{fail: true}
	pub := &memPublisher{}
	d := NewDispatcher(store, pub, 1)

	d.Dispatch(balanceDue())
	d.Close()
	d.Close()

	// storing failed but the broker still got the event
	if len(pub.sent) != 1 {
		t.Errorf("sent = %d", len(pub.sent))
	}
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(balanceDue())
	d.Close()
}

func TestNewPublisher(t *testing.T) {
	p, err := NewPublisher(configFor("none"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(NoopPublisher); !ok {
		t.Errorf("publisher = %T", p)
	}

	if _, err := NewPublisher(configFor("carrier-pigeon")); err == nil {
		t.Error("unknown broker accepted")
	}
}
