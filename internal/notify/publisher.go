package notify

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/venue-booking/internal/config"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
)

// Publisher hands events to the email/SMS workers behind a broker.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
	Close() error
}

// NewPublisher picks the broker named in the config. "none" keeps
// notifications in the database only.
func NewPublisher(cfg config.NotifyConfig) (Publisher, error) {
	switch cfg.Broker {
	case "", "none":
		return NoopPublisher{}, nil
	case "rabbitmq":
		return NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	case "kafka":
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	return nil, fmt.Errorf("notify: unknown broker %q", cfg.Broker)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
