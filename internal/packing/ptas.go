package packing

import "fmt"

// PTAS packs in two phases. Items heavier than LargeThreshold are packed
// first, in descending order, with Almost-Worst-Fit; the remaining small items
// then continue into the same bins, in input order.
//
// Smaller epsilon lowers the threshold, so more items are treated as large.
func PTAS(weights []float64, capacity, epsilon float64) ([]*Bin, error) {
	if err := ValidateEpsilon(epsilon); err != nil {
		return nil, err
	}
	set, err := NewSet(capacity)
	if err != nil {
		return nil, err
	}
	items, err := NewItems(weights)
	if err != nil {
		return nil, err
	}

	large, small := Partition(items, LargeThreshold(capacity, epsilon))
	sortDecreasing(large)
	if err := set.AlmostWorstFit(large); err != nil {
		return nil, fmt.Errorf("pack large items: %w", err)
	}
	if err := set.AlmostWorstFit(small); err != nil {
		return nil, fmt.Errorf("pack small items: %w", err)
	}
	return set.Bins(), nil
}

// LargeThreshold returns epsilon/2 of the capacity. Items strictly heavier
// are large.
func LargeThreshold(capacity, epsilon float64) float64 {
	return epsilon / 2 * capacity
}

// Partition splits items around threshold, keeping relative order in both halves.
func Partition(items []Item, threshold float64) (large, small []Item) {
	for _, it := range items {
		if it.Weight > threshold {
			large = append(large, it)
		} else {
			small = append(small, it)
		}
	}
	return large, small
}
