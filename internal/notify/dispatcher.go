package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/logger"
	"github.com/BruksfildServices01/venue-booking/internal/metrics"
)

// Dispatcher stores and publishes booking events off the request path. A
// failed store or publish is logged and counted, never retried.
type Dispatcher struct {
	store     Store
	publisher Publisher
	queue     chan domain.Event
	wg        sync.WaitGroup
	once      sync.Once
}

func NewDispatcher(store Store, publisher Publisher, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	d := &Dispatcher{
		store:     store,
		publisher: publisher,
		queue:     make(chan domain.Event, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log := logger.Get().WithFields(logrus.Fields{
		"event":      ev.Type,
		"booking_id": ev.BookingID,
		"user_id":    ev.UserID,
	})

	if d.store != nil {
		if err := d.store.Save(ctx, toNotification(ev)); err != nil {
			metrics.IncNotificationFailed("store")
			log.WithError(err).Error("notification store failed")
		}
	}

	if err := d.publisher.Publish(ctx, ev); err != nil {
		metrics.IncNotificationFailed("publish")
		log.WithError(err).Error("notification publish failed")
	}
}

// Dispatch queues events in order. A full queue drops the rest.
func (d *Dispatcher) Dispatch(events ...domain.Event) {
	if d == nil {
		return
	}
	for _, ev := range events {
		select {
		case d.queue <- ev:
		default:
			metrics.IncNotificationFailed("queue")
			logger.Get().WithField("event", ev.Type).Warn("notification queue full, dropping event")
		}
	}
}

// Close drains queued events, then closes the publisher.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
		if err := d.publisher.Close(); err != nil {
			logger.Get().WithError(err).Warn("notification publisher close failed")
		}
	})
}
