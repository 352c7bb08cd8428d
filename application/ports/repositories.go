// Package ports declares the interfaces the application layer needs from
// infrastructure. Implementations live under infrastructure/.
package ports

import (
	"context"

	"studyforge/domain/core/entities"
	"studyforge/domain/core/valueobjects"
	"studyforge/domain/events"
)

// ItemRepository persists learning items. The core treats the item record as
// its serialization contract and performs no file or network I/O itself.
type ItemRepository interface {
	// FindByID loads a single item; NotFound if the id is unknown.
	FindByID(ctx context.Context, id valueobjects.ItemID) (*entities.Item, error)

	// FindAll loads every persisted item.
	FindAll(ctx context.Context) ([]*entities.Item, error)

	// Save persists one item, creating or overwriting its record.
	Save(ctx context.Context, item *entities.Item) error

	// SaveAll persists the full pool in one operation.
	SaveAll(ctx context.Context, items []*entities.Item) error
}

// EventPublisher forwards domain events to the outside world
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, evts []events.DomainEvent) error
}
