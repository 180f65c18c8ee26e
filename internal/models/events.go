package models

import (
	"time"
)

const EventCatalogInvalidated = "catalog.invalidated"

// CatalogEvent tells other instances which cached routes went stale.
type CatalogEvent struct {
	Type       string    `json:"type"`
	Routes     []string  `json:"prefixes"`
	Origin     string    `json:"origin"`
	OccurredAt time.Time `json:"occurred_at"`
}
