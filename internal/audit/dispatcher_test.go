package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type memStore struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *memStore) Log(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("db down")
	}
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcherDeliversOnClose(t *testing.T) {
	store := &memStore{}
	d := NewDispatcher(store, 10)

	d.Dispatch(Event{Action: "booking_created", Entity: "booking", EntityID: Ref("b-1")})
	d.Dispatch(Event{Action: "booking_cancelled", Entity: "booking", EntityID: Ref("b-1")})
	d.Close()

	if len(store.events) != 2 {
		t.Fatalf("got %d events, want 2", len(store.events))
	}
	if store.events[0].Action != "booking_created" || *store.events[1].EntityID != "b-1" {
		t.Errorf("unexpected events %+v", store.events)
	}
}

func TestDispatcherSurvivesStoreErrors(t *testing.T) {
	store := &memStore{fail: true}
	d := NewDispatcher(store, 1)
	d.Dispatch(Event{Action: "x"})
	d.Close()
	d.Close()
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "ignored"})
	d.Close()
}

func TestRef(t *testing.T) {
	if Ref("") != nil {
		t.Error("empty id should be nil")
	}
	if r := Ref("a"); r == nil || *r != "a" {
		t.Errorf("Ref(a) = %v", r)
	}
}
