package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/venue-booking/internal/config"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
)

func configFor(broker string) config.NotifyConfig {
	return config.NotifyConfig{Broker: broker}
}

func TestKafkaPublisher(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev domain.Event
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Type != domain.EventBalanceDue || ev.BookingID != "b-1" {
			return errors.New("unexpected payload")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newKafkaPublisher(producer, "booking-notifications")

	if err := p.Publish(context.Background(), balanceDue()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Publish(context.Background(), balanceDue()); !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("err = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRabbitPublishing(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	msg, err := publishing(balanceDue(), now)
	if err != nil {
		t.Fatal(err)
	}

	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" {
		t.Errorf("delivery = %d %s", msg.DeliveryMode, msg.ContentType)
	}
	if msg.Type != "booking.balance_due" || msg.Headers["booking_id"] != "b-1" {
		t.Errorf("routing metadata = %s %v", msg.Type, msg.Headers)
	}
	if msg.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp not UTC: %v", msg.Timestamp)
	}

	var ev domain.Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.UserID != "cust-1" || ev.Data["remainingAmount"] != 70.0 {
		t.Errorf("body = %+v", ev)
	}
}
