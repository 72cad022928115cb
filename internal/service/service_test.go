package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	shoperrors "github.com/abgdnv/itemshop/internal/errors"
	"github.com/abgdnv/itemshop/internal/item"
	"github.com/abgdnv/itemshop/internal/shop"
	"github.com/abgdnv/itemshop/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// mockItemStore is a mock implementation of the ItemStore interface
type mockItemStore struct {
	item  *item.Item
	items []*item.Item
	error error
}

func (m *mockItemStore) FindByID(_ context.Context, _ uuid.UUID) (*item.Item, error) {
	return m.item, m.error
}

func (m *mockItemStore) FindByIDs(_ context.Context, _ []uuid.UUID) ([]*item.Item, error) {
	return m.items, m.error
}

func (m *mockItemStore) Create(_ context.Context, _ string, _ float64, _ int32) (*item.Item, error) {
	return m.item, m.error
}

func (m *mockItemStore) DeleteByID(_ context.Context, _ uuid.UUID) error {
	return m.error
}

func ptr[T any](v T) *T {
	return &v
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, capacity int, logger *slog.Logger) *Service {
	t.Helper()
	sh, err := shop.New(capacity)
	require.NoError(t, err)
	return NewService(store.NewInMemoryStore(), sh, logger)
}

func createItem(t *testing.T, s *Service, name string) *ItemDto {
	t.Helper()
	dto, err := s.Create(context.Background(), ItemCreateDto{Name: ptr(name), Price: ptr(1.5), Stock: ptr(int32(3))})
	require.NoError(t, err)
	return dto
}

func stockItems(t *testing.T, s *Service, names ...string) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		dto := createItem(t, s, name)
		ids[i] = uuid.MustParse(dto.ID)
		_, err := s.Stock(context.Background(), ids[i])
		require.NoError(t, err)
	}
	return ids
}

func slotNames(view *ShelfDto) []string {
	names := make([]string, len(view.Slots))
	for i, slot := range view.Slots {
		if slot == nil {
			names[i] = "_"
			continue
		}
		names[i] = slot.Name
	}
	return names
}

func Test_Service_CreateAndFind(t *testing.T) {
	// given
	s := newTestService(t, 3, discardLogger())
	ctx := context.Background()

	// when
	created, err := s.Create(ctx, ItemCreateDto{Name: ptr("Widget"), Price: ptr(9.99), Stock: ptr(int32(5))})
	require.NoError(t, err)
	found, err := s.FindByID(ctx, uuid.MustParse(created.ID))

	// then
	require.NoError(t, err)
	assert.Equal(t, &ItemDto{ID: created.ID, Name: "Widget", Price: 9.99, Stock: 5}, found)
}

func Test_Service_Create_StoreError(t *testing.T) {
	// given
	storeErr := errors.New("store error")
	sh, _ := shop.New(1)
	s := NewService(&mockItemStore{error: storeErr}, sh, discardLogger())

	// when
	created, err := s.Create(context.Background(), ItemCreateDto{Name: ptr("A"), Price: ptr(1.0), Stock: ptr(int32(1))})

	// then
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, created)
}

func Test_Service_FindByID_NotFound(t *testing.T) {
	s := newTestService(t, 1, discardLogger())

	found, err := s.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shoperrors.ErrItemNotFound)
	assert.Nil(t, found)
}

func Test_Service_Update(t *testing.T) {
	// given
	s := newTestService(t, 1, discardLogger())
	created := createItem(t, s, "Old")
	id := uuid.MustParse(created.ID)

	// when
	updated, err := s.Update(context.Background(), id, ItemUpdateDto{Name: ptr("New"), Price: ptr(-2.0), Stock: ptr(int32(-1))})

	// then
	require.NoError(t, err)
	assert.Equal(t, &ItemDto{ID: created.ID, Name: "New", Price: -2.0, Stock: -1}, updated)

	_, err = s.Update(context.Background(), uuid.New(), ItemUpdateDto{Name: ptr("x"), Price: ptr(0.0), Stock: ptr(int32(0))})
	assert.ErrorIs(t, err, shoperrors.ErrItemNotFound)
}

func Test_Service_Details(t *testing.T) {
	// given
	s := newTestService(t, 1, discardLogger())
	created, err := s.Create(context.Background(), ItemCreateDto{Name: ptr("Widget"), Price: ptr(10.0), Stock: ptr(int32(0))})
	require.NoError(t, err)

	// when
	details, err := s.Details(context.Background(), uuid.MustParse(created.ID))

	// then
	require.NoError(t, err)
	assert.Equal(t, "Name: Widget\nPrice: 10.0\nStock: 0\n", details)
}

func Test_Service_Stock(t *testing.T) {
	testCases := []struct {
		name      string
		capacity  int
		prepare   func(t *testing.T, s *Service) uuid.UUID
		wantSlot  int
		expectErr error
	}{
		{
			name:     "Success - first empty slot",
			capacity: 3,
			prepare: func(t *testing.T, s *Service) uuid.UUID {
				stockItems(t, s, "A")
				return uuid.MustParse(createItem(t, s, "B").ID)
			},
			wantSlot: 1,
		},
		{
			name:     "Error - shop full",
			capacity: 1,
			prepare: func(t *testing.T, s *Service) uuid.UUID {
				stockItems(t, s, "A")
				return uuid.MustParse(createItem(t, s, "B").ID)
			},
			wantSlot:  -1,
			expectErr: shoperrors.ErrShopFull,
		},
		{
			name:     "Error - already stocked",
			capacity: 2,
			prepare: func(t *testing.T, s *Service) uuid.UUID {
				return stockItems(t, s, "A")[0]
			},
			wantSlot:  -1,
			expectErr: shoperrors.ErrAlreadyStocked,
		},
		{
			name:     "Error - unknown item",
			capacity: 2,
			prepare: func(_ *testing.T, _ *Service) uuid.UUID {
				return uuid.New()
			},
			wantSlot:  -1,
			expectErr: shoperrors.ErrItemNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := newTestService(t, tc.capacity, discardLogger())
			id := tc.prepare(t, s)
			// when
			slot, err := s.Stock(context.Background(), id)
			// then
			assert.Equal(t, tc.wantSlot, slot)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func Test_Service_Remove_CompactsShelf(t *testing.T) {
	// given
	s := newTestService(t, 5, discardLogger())
	ids := stockItems(t, s, "A", "B", "C")

	// when
	err := s.Remove(context.Background(), ids[1])

	// then
	require.NoError(t, err)
	view, err := s.Shelf(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "_", "_", "_"}, slotNames(view))
	assert.Equal(t, 2, view.Occupied)
	assert.Equal(t, 5, view.Capacity)
}

func Test_Service_Remove_NotStocked(t *testing.T) {
	// given
	var logs bytes.Buffer
	s := newTestService(t, 3, slog.New(slog.NewJSONHandler(&logs, nil)))
	stockItems(t, s, "A")
	loose := uuid.MustParse(createItem(t, s, "Loose").ID)

	// when
	err := s.Remove(context.Background(), loose)

	// then
	require.ErrorIs(t, err, shoperrors.ErrNotStocked)
	assert.Contains(t, logs.String(), `"msg":"Not stocked"`)
	assert.Contains(t, logs.String(), `"level":"WARN"`)
	view, _ := s.Shelf(context.Background())
	assert.Equal(t, []string{"A", "_", "_"}, slotNames(view))
}

func Test_Service_Remove_Twice(t *testing.T) {
	// given
	s := newTestService(t, 2, discardLogger())
	ids := stockItems(t, s, "A")
	require.NoError(t, s.Remove(context.Background(), ids[0]))

	// when
	err := s.Remove(context.Background(), ids[0])

	// then
	assert.ErrorIs(t, err, shoperrors.ErrNotStocked)
}

func Test_Service_Remove_UnknownItem(t *testing.T) {
	s := newTestService(t, 2, discardLogger())

	err := s.Remove(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shoperrors.ErrItemNotFound)
}

func Test_Service_DeleteByID(t *testing.T) {
	// given
	s := newTestService(t, 3, discardLogger())
	ids := stockItems(t, s, "A", "B")
	loose := uuid.MustParse(createItem(t, s, "Loose").ID)

	// when
	require.NoError(t, s.DeleteByID(context.Background(), ids[0]))
	require.NoError(t, s.DeleteByID(context.Background(), loose))

	// then
	view, err := s.Shelf(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "_", "_"}, slotNames(view))
	_, err = s.FindByID(context.Background(), ids[0])
	assert.ErrorIs(t, err, shoperrors.ErrItemNotFound)
	assert.ErrorIs(t, s.DeleteByID(context.Background(), ids[0]), shoperrors.ErrItemNotFound)
}

func Test_Service_Shelf_Empty(t *testing.T) {
	s := newTestService(t, 2, discardLogger())

	view, err := s.Shelf(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &ShelfDto{Capacity: 2, Occupied: 0, Slots: []*ItemDto{nil, nil}}, view)
}

func Test_Service_Shelf_StoreError(t *testing.T) {
	// given
	storeErr := errors.New("store error")
	sh, _ := shop.New(2)
	require.NoError(t, sh.Set(0, uuid.New()))
	s := NewService(&mockItemStore{error: storeErr}, sh, discardLogger())

	// when
	view, err := s.Shelf(context.Background())

	// then
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, view)
}

func Test_Service_RecordsSpans(t *testing.T) {
	// given
	recorder := tracetest.NewSpanRecorder()
	tp := tracesdk.NewTracerProvider(tracesdk.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	s := newTestService(t, 2, discardLogger())
	id := uuid.MustParse(createItem(t, s, "A").ID)

	// when
	_, err := s.Stock(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, s.Remove(context.Background(), id))
	require.Error(t, s.Remove(context.Background(), id))

	// then
	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "shop.stock", spans[0].Name())
	assert.Equal(t, "shop.remove", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
	assert.Equal(t, "shop.remove", spans[2].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)
	assert.True(t, strings.Contains(spans[2].Status().Description, "not stocked"))
}
