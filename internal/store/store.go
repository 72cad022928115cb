// Package store provides the item arena: it owns every Item and assigns its identity.
package store

import (
	"context"

	"github.com/abgdnv/itemshop/internal/item"
	"github.com/google/uuid"
)

// ItemStore is an interface for item storage operations.
// Items are returned by pointer; the store is the single owner of each Item.
type ItemStore interface {
	// FindByID retrieves a single item by its unique identifier.
	// Returns ErrItemNotFound if no item exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error)

	// FindByIDs returns the items for the given IDs in the same order.
	// Returns ErrItemNotFound if any of the IDs is unknown.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*item.Item, error)

	// Create adds a new item and assigns it a fresh ID.
	Create(ctx context.Context, name string, price float64, stock int32) (*item.Item, error)

	// DeleteByID removes an item by its ID.
	// Returns ErrItemNotFound if no item exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
