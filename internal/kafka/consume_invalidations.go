package kafka

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/merch-api/internal/config"
	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
)

// StartConsumeInvalidations drops the local cache entries named by catalog
// events that other instances publish.
func StartConsumeInvalidations(
	sd fx.Shutdowner,
	lc fx.Lifecycle,
	conf *config.Config,
	invalidator usecase.Invalidator,
	origin usecase.InstanceID,
) error {
	if !conf.Kafka.Enabled {
		logger.Infow(context.Background(), "kafka consumer is disabled in configuration")
		return nil
	}

	// every instance needs every event, so the group defaults to one per instance
	groupID := conf.Kafka.GroupID
	if groupID == "" {
		groupID = "merch-api-" + string(origin)
	}

	return startKafkaConsumer(consumerOptions{
		sd: sd,
		lc: lc,
		readerConf: kafka.ReaderConfig{
			Brokers:     conf.Kafka.Brokers,
			GroupID:     groupID,
			GroupTopics: []string{conf.Kafka.Topic},
			StartOffset: kafka.LastOffset,
		},
		maxWorkers:     conf.Kafka.Workers,
		consumeTimeout: 10 * time.Second,
		handler: func(ctx context.Context, msg kafka.Message) error {
			return handleCatalogEvent(ctx, invalidator, origin, msg.Value)
		},
	})
}

func handleCatalogEvent(ctx context.Context, invalidator usecase.Invalidator, origin usecase.InstanceID, value []byte) error {
	var event models.CatalogEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return models.NewValidationError("failed to unmarshal catalog event: %v", err)
	}

	if event.Type != models.EventCatalogInvalidated {
		logger.Debugw(ctx, "ignoring catalog event", "type", event.Type)
		return nil
	}
	// already applied locally before publishing
	if event.Origin == string(origin) {
		return nil
	}
	if len(event.Routes) == 0 {
		return models.NewValidationError("catalog event from %s has no prefixes", event.Origin)
	}

	deleted := invalidator.InvalidateLocal(ctx, event.Routes...)
	logger.Infow(ctx, "applied remote invalidation",
		"origin", event.Origin,
		"prefixes", event.Routes,
		"deleted", deleted,
	)
	return nil
}
