package services

import (
	"context"

	"service-catalog/internal/events"
)

// EventPublisher delivers catalog mutations to the bus. Implemented by
// *kafka.Producer; a failed publish fails the request that caused it.
type EventPublisher interface {
	PublishCatalogEvent(ctx context.Context, event events.Event) error
}
