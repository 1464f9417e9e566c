package packing

import (
	"fmt"
	"math"
	"sort"
)

// Item is a weight identified by its position in the caller's input.
type Item struct {
	Ordinal int
	Weight  float64
}

// NewItems numbers weights by position and rejects non-positive, NaN or
// infinite weights.
func NewItems(weights []float64) ([]Item, error) {
	items := make([]Item, len(weights))
	for i, w := range weights {
		it := Item{Ordinal: i, Weight: w}
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			return nil, itemError(it, ErrInvalidWeight)
		}
		items[i] = it
	}
	return items, nil
}

// sortDecreasing orders items by non-increasing weight, keeping input order
// among equal weights.
func sortDecreasing(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Weight > items[j].Weight
	})
}

// ValidateCapacity rejects capacities that are not finite and positive.
func ValidateCapacity(capacity float64) error {
	if math.IsNaN(capacity) || math.IsInf(capacity, 0) || capacity <= 0 {
		return fmt.Errorf("%w: capacity must be a finite positive number, got %g", ErrInvalidConfiguration, capacity)
	}
	return nil
}

// ValidateEpsilon rejects epsilon values outside the open interval (0, 1).
func ValidateEpsilon(epsilon float64) error {
	if math.IsNaN(epsilon) || epsilon <= 0 || epsilon >= 1 {
		return fmt.Errorf("%w: epsilon must lie in (0, 1), got %g", ErrInvalidConfiguration, epsilon)
	}
	return nil
}

// TotalWeight sums weights in input order.
func TotalWeight(weights []float64) float64 {
	var total float64
	for _, w := range weights {
		total += w
	}
	return total
}

// LowerBound returns ceil(total weight / capacity), the fewest bins any
// packing can use. Before rounding up, the quotient is reduced by the
// worst-case rounding error of summing n weights (n ulps of the quotient), so
// three items of 0.1 at capacity 0.3 need one bin, not two.
func LowerBound(weights []float64, capacity float64) int {
	if capacity <= 0 || len(weights) == 0 {
		return 0
	}
	q := TotalWeight(weights) / capacity
	slack := float64(len(weights)+1) * q * 0x1p-52
	return int(math.Ceil(q - slack))
}

func prepare(weights []float64, decreasing bool) ([]Item, error) {
	items, err := NewItems(weights)
	if err != nil {
		return nil, err
	}
	if decreasing {
		sortDecreasing(items)
	}
	return items, nil
}
