package usecase

import (
	"context"
	"time"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
)

// InstanceID identifies this process in published catalog events.
type InstanceID string

// EventPublisher fans catalog events out to other instances.
type EventPublisher interface {
	Publish(ctx context.Context, event models.CatalogEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.CatalogEvent) error {
	return nil
}

type Invalidator interface {
	// Invalidate drops every cached query under routes and notifies other
	// instances. It never fails: stale entries expire with their TTL.
	Invalidate(ctx context.Context, routes ...string)
	// InvalidateLocal only drops entries from the local view of the cache.
	InvalidateLocal(ctx context.Context, routes ...string) int64
}

type invalidator struct {
	cache     *ResultCache
	publisher EventPublisher
	origin    InstanceID
}

func NewInvalidator(cache *ResultCache, publisher EventPublisher, origin InstanceID) Invalidator {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &invalidator{
		cache:     cache,
		publisher: publisher,
		origin:    origin,
	}
}

func (i *invalidator) Invalidate(ctx context.Context, routes ...string) {
	i.InvalidateLocal(ctx, routes...)

	event := models.CatalogEvent{
		Type:       models.EventCatalogInvalidated,
		Routes:     routes,
		Origin:     string(i.origin),
		OccurredAt: time.Now(),
	}
	if err := i.publisher.Publish(ctx, event); err != nil {
		logger.Warnw(ctx, "publish invalidation", "routes", routes, "error", err)
	}
}

func (i *invalidator) InvalidateLocal(ctx context.Context, routes ...string) int64 {
	var total int64
	for _, route := range routes {
		n, err := i.cache.Evict(ctx, route)
		if err != nil {
			logger.Warnw(ctx, "invalidate cache", "route", route, "error", err)
			continue
		}
		total += n
	}
	logger.Debugw(ctx, "cache invalidated", "routes", routes, "deleted", total)
	return total
}
