package packing

import (
	"errors"
	"fmt"
)

var (
	// ErrOversizedItem is returned when an item is heavier than an empty bin can hold.
	ErrOversizedItem = errors.New("item weight exceeds bin capacity")
	// ErrInvalidWeight is returned when an item weight is not a finite positive number.
	ErrInvalidWeight = errors.New("item weight must be a finite positive number")
	// ErrIndexInvariant is returned when the load index disagrees with the bins it orders.
	ErrIndexInvariant = errors.New("load index out of sync with bins")
	// ErrInvalidConfiguration is returned for a non-positive capacity, an epsilon outside (0, 1)
	// or an unknown algorithm.
	ErrInvalidConfiguration = errors.New("invalid packing configuration")
)

// ItemError ties a packing failure to the item that caused it.
type ItemError struct {
	Ordinal int
	Weight  float64
	Err     error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d (weight %g): %v", e.Ordinal, e.Weight, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *ItemError) Unwrap() error { return e.Err }

func itemError(it Item, err error) error {
	return &ItemError{Ordinal: it.Ordinal, Weight: it.Weight, Err: err}
}
