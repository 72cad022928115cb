package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/abgdnv/itemshop/internal/errors"
	"github.com/abgdnv/itemshop/internal/item"
	"github.com/google/uuid"
)

// InMemory implements ItemStore using an in-memory map.
type InMemory struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*item.Item
	newID func() uuid.UUID
}

// NewInMemoryStore creates a new instance of ItemStore
func NewInMemoryStore() *InMemory {
	return &InMemory{
		items: make(map[uuid.UUID]*item.Item),
		newID: uuid.New,
	}
}

// FindByID retrieves an item by its ID.
func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, errors.ErrItemNotFound
	}
	return it, nil
}

// FindByIDs retrieves the items for ids, keeping their order.
func (s *InMemory) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*item.Item, 0, len(ids))
	for _, id := range ids {
		it, ok := s.items[id]
		if !ok {
			return nil, fmt.Errorf("item %s: %w", id, errors.ErrItemNotFound)
		}
		list = append(list, it)
	}
	return list, nil
}

// Create creates a new item and returns it.
func (s *InMemory) Create(_ context.Context, name string, price float64, stock int32) (*item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	if id == uuid.Nil {
		return nil, fmt.Errorf("failed to assign item ID")
	}
	if _, exists := s.items[id]; exists {
		return nil, fmt.Errorf("duplicate item ID %s", id)
	}
	it := item.New(id, name, price, stock)
	s.items[id] = it

	return it, nil
}

// DeleteByID deletes an item by its ID.
func (s *InMemory) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return errors.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}
