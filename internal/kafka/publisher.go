package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/merch-api/internal/config"
	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher returns a no-op publisher when Kafka is disabled. Writes are
// asynchronous; delivery failures are only logged.
func NewPublisher(lc fx.Lifecycle, conf *config.Config) usecase.EventPublisher {
	if !conf.Kafka.Enabled {
		return usecase.NopPublisher{}
	}

	log := logger.MustNamed("kafka")
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(conf.Kafka.Brokers...),
		Topic:                  conf.Kafka.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warnw("publish catalog events", "count", len(messages), "error", err)
			}
		},
	}

	p := newPublisher(writer, conf.Kafka.Topic)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return writer.Close()
		},
	})
	return p
}

func newPublisher(writer messageWriter, topic string) *publisher {
	return &publisher{writer: writer, topic: topic}
}

func (p *publisher) Publish(ctx context.Context, event models.CatalogEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type),
		Value: value,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("write to %s: %w", p.topic, err)
	}
	return nil
}
