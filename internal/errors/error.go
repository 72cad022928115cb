// Package errors provides custom error types for item and shop operations.
package errors

import "errors"

var ErrItemNotFound = errors.New("item not found")

// ErrNotStocked is returned when an item is removed from a shop that does not hold it.
var ErrNotStocked = errors.New("not stocked")

var ErrAlreadyStocked = errors.New("item already stocked")
var ErrShopFull = errors.New("shop is full")
var ErrSlotOutOfRange = errors.New("slot index out of range")
