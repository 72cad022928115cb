// Package shop provides the fixed-capacity shelf that holds item handles.
package shop

import (
	"fmt"
	"slices"

	shoperrors "github.com/abgdnv/itemshop/internal/errors"
	"github.com/google/uuid"
)

// Empty marks a slot that holds no item.
var Empty = uuid.Nil

// Shop is an ordered, fixed-capacity sequence of slots. Each slot holds the
// ID of an item or Empty. Shop is not safe for concurrent use.
type Shop struct {
	slots []uuid.UUID
}

// New creates a shop with capacity empty slots.
func New(capacity int) (*Shop, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("invalid shop capacity %d: must be at least 1", capacity)
	}
	return &Shop{slots: make([]uuid.UUID, capacity)}, nil
}

// Capacity returns the number of slots; it never changes.
func (s *Shop) Capacity() int {
	return len(s.slots)
}

// Len returns the number of occupied slots.
func (s *Shop) Len() int {
	n := 0
	for _, id := range s.slots {
		if id != Empty {
			n++
		}
	}
	return n
}

// Slots returns a copy of the slot sequence.
func (s *Shop) Slots() []uuid.UUID {
	return slices.Clone(s.slots)
}

// At returns the ID held by the slot at index.
func (s *Shop) At(index int) (uuid.UUID, error) {
	if err := s.checkIndex(index); err != nil {
		return Empty, err
	}
	return s.slots[index], nil
}

// Set overwrites the slot at index in place. Passing Empty clears it.
func (s *Shop) Set(index int, id uuid.UUID) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.slots[index] = id
	return nil
}

// IndexOf returns the last slot holding id, or -1.
func (s *Shop) IndexOf(id uuid.UUID) int {
	if id == Empty {
		return -1
	}
	for i, slot := range slices.Backward(s.slots) {
		if slot == id {
			return i
		}
	}
	return -1
}

// Stock places id into the first empty slot and returns that slot's index.
func (s *Shop) Stock(id uuid.UUID) (int, error) {
	if id == Empty {
		return -1, fmt.Errorf("cannot stock an item without ID: %w", shoperrors.ErrItemNotFound)
	}
	if slices.Contains(s.slots, id) {
		return -1, shoperrors.ErrAlreadyStocked
	}
	idx := slices.Index(s.slots, Empty)
	if idx < 0 {
		return -1, shoperrors.ErrShopFull
	}
	s.slots[idx] = id
	return idx, nil
}

// RemoveAt removes the slot at index and shifts every later slot one position
// left. The last slot becomes Empty; the capacity is unchanged.
func (s *Shop) RemoveAt(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	copy(s.slots[index:], s.slots[index+1:])
	s.slots[len(s.slots)-1] = Empty
	return nil
}

func (s *Shop) checkIndex(index int) error {
	if index < 0 || index >= len(s.slots) {
		return fmt.Errorf("slot %d of %d: %w", index, len(s.slots), shoperrors.ErrSlotOutOfRange)
	}
	return nil
}
