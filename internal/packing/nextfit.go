package packing

// NextFit keeps a single current bin and opens a new one whenever the item
// does not fit. Closed bins are never revisited, so the pass is O(n).
//
// Sorting does not reliably help: the Next-Fit worst case depends on
// alternating large and small items, and descending order can still leave
// every bin barely over half full.
func NextFit(weights []float64, capacity float64, decreasing bool) ([]*Bin, error) {
	if err := ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	items, err := prepare(weights, decreasing)
	if err != nil {
		return nil, err
	}

	var (
		bins    []*Bin
		current *Bin
	)
	for _, it := range items {
		if current != nil && current.TryAdd(it.Ordinal, it.Weight) {
			continue
		}
		b, err := openBin(len(bins), capacity, it)
		if err != nil {
			return nil, err
		}
		bins = append(bins, b)
		current = b
	}
	return bins, nil
}
