package audit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/venue-booking/internal/logger"
)

type Event struct {
	ActorID  *string
	Action   string
	Entity   string
	EntityID *string
	Metadata any
}

// Dispatcher writes audit entries on a background worker. A full queue drops
// the entry so the request path never waits on auditing. A nil dispatcher
// discards everything.
type Dispatcher struct {
	store Store
	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(store Store, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	d := &Dispatcher{
		store: store,
		queue: make(chan Event, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.store.Log(ctx, ev); err != nil {
			logger.Get().WithFields(logrus.Fields{
				"action": ev.Action,
				"entity": ev.Entity,
			}).WithError(err).Error("audit write failed")
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		logger.Get().WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close drains queued entries and stops the worker.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

// Ref is a helper for optional id fields.
func Ref(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
