// Package service provides the item and shelf business logic of the shop.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	shoperrors "github.com/abgdnv/itemshop/internal/errors"
	"github.com/abgdnv/itemshop/internal/item"
	"github.com/abgdnv/itemshop/internal/shop"
	"github.com/abgdnv/itemshop/internal/store"
	"github.com/abgdnv/itemshop/pkg/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/abgdnv/itemshop/internal/service"

// ShopService defines the operations on items and on the shop shelf.
type ShopService interface {
	// Create adds a new item. The item is not stocked.
	Create(ctx context.Context, dto ItemCreateDto) (*ItemDto, error)

	// FindByID retrieves a single item by its unique identifier.
	// Returns ErrItemNotFound if no item exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*ItemDto, error)

	// Update overwrites name, price and stock of an item.
	// Returns ErrItemNotFound if no item exists with the given ID.
	Update(ctx context.Context, id uuid.UUID, dto ItemUpdateDto) (*ItemDto, error)

	// Details renders the item details text.
	Details(ctx context.Context, id uuid.UUID) (string, error)

	// DeleteByID takes the item off the shelf, if it is there, and forgets it.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// Stock places the item into the first empty slot and returns that slot.
	// Returns ErrShopFull or ErrAlreadyStocked when it cannot be placed.
	Stock(ctx context.Context, id uuid.UUID) (int, error)

	// Remove takes the item off the shelf and closes the gap.
	// Returns ErrNotStocked when the shelf does not hold it.
	Remove(ctx context.Context, id uuid.UUID) error

	// Shelf returns the current slot view.
	Shelf(ctx context.Context) (*ShelfDto, error)
}

// ItemCreateDto is the payload for a new item. Fields are pointers so that
// a missing field can be told apart from a zero value.
type ItemCreateDto struct {
	Name  *string  `json:"name"  validate:"required"`
	Price *float64 `json:"price" validate:"required"`
	Stock *int32   `json:"stock" validate:"required"`
}

// ItemUpdateDto carries the values applied through the item setters.
type ItemUpdateDto ItemCreateDto

// ItemDto represents the data transfer object for an item.
type ItemDto struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int32   `json:"stock"`
}

// ShelfDto is the slot view of the shop; empty slots are null.
type ShelfDto struct {
	Capacity int        `json:"capacity"`
	Occupied int        `json:"occupied"`
	Slots    []*ItemDto `json:"slots"`
}

// Service implements ShopService. Every call runs under one mutex because
// neither Item nor Shop is safe for concurrent use.
type Service struct {
	mu     sync.Mutex
	store  store.ItemStore
	shop   *shop.Shop
	logger *slog.Logger
	tracer trace.Tracer
}

// NewService creates a new instance of ShopService over the given store and shelf.
func NewService(store store.ItemStore, shop *shop.Shop, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		shop:   shop,
		logger: logger.With("component", "service"),
		tracer: otel.Tracer(tracerName),
	}
}

func (s *Service) Create(ctx context.Context, dto ItemCreateDto) (*ItemDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.store.Create(ctx, *dto.Name, *dto.Price, *dto.Stock)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return toDto(it), nil
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*ItemDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item by ID %s: %w", id, err)
	}
	return toDto(it), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, dto ItemUpdateDto) (*ItemDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update item with ID %s: %w", id, err)
	}
	it.SetName(*dto.Name)
	it.SetPrice(*dto.Price)
	it.SetStock(*dto.Stock)
	return toDto(it), nil
}

func (s *Service) Details(ctx context.Context, id uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.store.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to fetch item by ID %s: %w", id, err)
	}
	var b bytes.Buffer
	if err := it.WriteDetails(&b); err != nil {
		return "", fmt.Errorf("failed to render details of item %s: %w", id, err)
	}
	return b.String(), nil
}

func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := s.tracer.Start(ctx, "shop.delete", trace.WithAttributes(attribute.String("item.id", id.String())))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete item with ID %s: %w", id, err)
	}
	if rmErr := it.Remove(s.shop); rmErr != nil && !errors.Is(rmErr, shoperrors.ErrNotStocked) {
		return fmt.Errorf("failed to unstock item %s: %w", id, rmErr)
	}
	metrics.ShelfOccupied.Set(float64(s.shop.Len()))
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item with ID %s: %w", id, err)
	}
	return nil
}

func (s *Service) Stock(ctx context.Context, id uuid.UUID) (slot int, err error) {
	ctx, span := s.tracer.Start(ctx, "shop.stock", trace.WithAttributes(attribute.String("item.id", id.String())))
	defer func() {
		recordShelfOperation("stock", err)
		endSpan(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.FindByID(ctx, id); err != nil {
		return -1, fmt.Errorf("failed to stock item %s: %w", id, err)
	}
	slot, err = s.shop.Stock(id)
	if err != nil {
		return -1, fmt.Errorf("failed to stock item %s: %w", id, err)
	}
	span.SetAttributes(attribute.Int("shop.slot", slot))
	metrics.ShelfOccupied.Set(float64(s.shop.Len()))
	return slot, nil
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := s.tracer.Start(ctx, "shop.remove", trace.WithAttributes(attribute.String("item.id", id.String())))
	defer func() {
		recordShelfOperation("remove", err)
		endSpan(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to remove item %s: %w", id, err)
	}
	if err := it.Remove(s.shop); err != nil {
		if errors.Is(err, shoperrors.ErrNotStocked) {
			s.logger.WarnContext(ctx, item.NotStockedNotice, "ID", id)
		}
		return fmt.Errorf("failed to remove item %s: %w", id, err)
	}
	metrics.ShelfOccupied.Set(float64(s.shop.Len()))
	return nil
}

func (s *Service) Shelf(ctx context.Context) (*ShelfDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.shop.Slots()
	ids := make([]uuid.UUID, 0, len(slots))
	for _, id := range slots {
		if id != shop.Empty {
			ids = append(ids, id)
		}
	}
	items, err := s.store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shelf items: %w", err)
	}

	view := &ShelfDto{
		Capacity: s.shop.Capacity(),
		Occupied: len(items),
		Slots:    make([]*ItemDto, len(slots)),
	}
	next := 0
	for i, id := range slots {
		if id == shop.Empty {
			continue
		}
		view.Slots[i] = toDto(items[next])
		next++
	}
	return view, nil
}

// toDto converts an item.Item to an ItemDto.
func toDto(it *item.Item) *ItemDto {
	return &ItemDto{
		ID:    it.ID().String(),
		Name:  it.Name(),
		Price: it.Price(),
		Stock: it.Stock(),
	}
}

func recordShelfOperation(operation string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, shoperrors.ErrNotStocked):
		result = "not_stocked"
	case errors.Is(err, shoperrors.ErrShopFull):
		result = "full"
	case errors.Is(err, shoperrors.ErrAlreadyStocked):
		result = "already_stocked"
	case errors.Is(err, shoperrors.ErrItemNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.ShelfOperations.WithLabelValues(operation, result).Inc()
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
