package store

import (
	"context"
	"sync"
	"testing"

	perrors "github.com/abgdnv/itemshop/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ItemStoreSuite is a test suite for the in-memory ItemStore implementation.
type ItemStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ItemStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
}

func TestItemStore(t *testing.T) {
	suite.Run(t, new(ItemStoreSuite))
}

func (s *ItemStoreSuite) TestCreateAndFindByID() {
	// 1. Create a new item
	created, err := s.store.Create(s.ctx, "Widget", 9.99, 5)
	require.NoError(s.T(), err)
	require.NotEqual(s.T(), uuid.Nil, created.ID(), "Created item ID should not be nil")

	// 2. Fetch the item by ID
	fetched, err := s.store.FindByID(s.ctx, created.ID())
	require.NoError(s.T(), err)

	// 3. The store hands out the same entity, not a copy
	require.Same(s.T(), created, fetched)
	require.Equal(s.T(), "Widget", fetched.Name())
	require.Equal(s.T(), 9.99, fetched.Price())
	require.Equal(s.T(), int32(5), fetched.Stock())
}

func (s *ItemStoreSuite) TestCreate_IdenticalFieldsGetDistinctIDs() {
	first, err := s.store.Create(s.ctx, "Widget", 9.99, 5)
	require.NoError(s.T(), err)
	second, err := s.store.Create(s.ctx, "Widget", 9.99, 5)
	require.NoError(s.T(), err)

	assert.NotEqual(s.T(), first.ID(), second.ID())
}

func (s *ItemStoreSuite) TestCreate_NilID() {
	s.store.newID = func() uuid.UUID { return uuid.Nil }

	_, err := s.store.Create(s.ctx, "Widget", 1, 1)

	require.Error(s.T(), err)
}

func (s *ItemStoreSuite) TestCreate_DuplicateID() {
	fixed := uuid.New()
	s.store.newID = func() uuid.UUID { return fixed }
	_, err := s.store.Create(s.ctx, "Widget", 1, 1)
	require.NoError(s.T(), err)

	_, err = s.store.Create(s.ctx, "Gadget", 1, 1)

	require.Error(s.T(), err)
}

func (s *ItemStoreSuite) TestFindByID_NotFound() {
	_, err := s.store.FindByID(s.ctx, uuid.New())
	require.ErrorIs(s.T(), err, perrors.ErrItemNotFound)
}

func (s *ItemStoreSuite) TestFindByIDs() {
	a, _ := s.store.Create(s.ctx, "A", 1, 1)
	b, _ := s.store.Create(s.ctx, "B", 2, 2)

	items, err := s.store.FindByIDs(s.ctx, []uuid.UUID{b.ID(), a.ID()})

	require.NoError(s.T(), err)
	require.Len(s.T(), items, 2)
	assert.Equal(s.T(), "B", items[0].Name())
	assert.Equal(s.T(), "A", items[1].Name())

	_, err = s.store.FindByIDs(s.ctx, []uuid.UUID{a.ID(), uuid.New()})
	require.ErrorIs(s.T(), err, perrors.ErrItemNotFound)
}

func (s *ItemStoreSuite) TestDeleteByID() {
	created, _ := s.store.Create(s.ctx, "Widget", 1, 1)

	require.NoError(s.T(), s.store.DeleteByID(s.ctx, created.ID()))

	_, err := s.store.FindByID(s.ctx, created.ID())
	require.ErrorIs(s.T(), err, perrors.ErrItemNotFound)
	require.ErrorIs(s.T(), s.store.DeleteByID(s.ctx, created.ID()), perrors.ErrItemNotFound)
}

func (s *ItemStoreSuite) TestConcurrentCreate() {
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Create(s.ctx, "Widget", 1, 1)
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	assert.Len(s.T(), s.store.items, 50)
}
