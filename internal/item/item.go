// Package item provides the Item entity: a named, priced, stocked thing that
// can take itself off a shelf.
package item

import (
	"fmt"
	"io"
	"os"

	shoperrors "github.com/abgdnv/itemshop/internal/errors"
	"github.com/google/uuid"
)

// NotStockedNotice is the user-facing notice for a removal that found nothing.
const NotStockedNotice = "Not stocked"

// Shelf is the slot sequence an Item can be removed from.
// Slots returns the current ordered slots; uuid.Nil marks an empty slot.
// RemoveAt empties the slot at index and shifts every later slot left by one,
// leaving the last slot empty.
type Shelf interface {
	Slots() []uuid.UUID
	RemoveAt(index int) error
}

// Item is identified by the ID assigned when it was created, never by its field values.
type Item struct {
	id    uuid.UUID
	name  string
	price float64
	stock int32
}

// New creates an Item with the given identity.
func New(id uuid.UUID, name string, price float64, stock int32) *Item {
	return &Item{
		id:    id,
		name:  name,
		price: price,
		stock: stock,
	}
}

func (i *Item) ID() uuid.UUID {
	return i.id
}

func (i *Item) Name() string {
	return i.name
}

func (i *Item) SetName(name string) {
	i.name = name
}

func (i *Item) Price() float64 {
	return i.price
}

func (i *Item) SetPrice(price float64) {
	i.price = price
}

func (i *Item) Stock() int32 {
	return i.stock
}

func (i *Item) SetStock(stock int32) {
	i.stock = stock
}

// WriteDetails writes name, price and stock to w, one per line.
func (i *Item) WriteDetails(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Name: %s\nPrice: %s\nStock: %d\n", i.name, FormatPrice(i.price), i.stock)
	return err
}

// PrintDetails writes the item details to standard output.
func (i *Item) PrintDetails() {
	_ = i.WriteDetails(os.Stdout)
}

// Remove takes the item off the shelf and closes the gap it leaves.
// The shelf is matched by identity; if the item occupies several slots the last one is removed.
// Returns ErrNotStocked, without touching the shelf, when the item is not on it.
func (i *Item) Remove(shelf Shelf) error {
	if i.id == uuid.Nil {
		return shoperrors.ErrNotStocked
	}
	location := -1
	for idx, id := range shelf.Slots() {
		if id == i.id {
			location = idx
		}
	}
	if location < 0 {
		return shoperrors.ErrNotStocked
	}
	if err := shelf.RemoveAt(location); err != nil {
		return fmt.Errorf("failed to remove item %s at slot %d: %w", i.id, location, err)
	}
	return nil
}
