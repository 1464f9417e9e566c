package packing

import (
	"fmt"
	"math"
)

// FirstFit packs every item into the earliest opened bin that has room. A
// tournament tree over bin loads finds that bin in O(log m).
func FirstFit(weights []float64, capacity float64, decreasing bool) ([]*Bin, error) {
	if err := ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	items, err := prepare(weights, decreasing)
	if err != nil {
		return nil, err
	}

	var (
		bins  []*Bin
		loads loadTree
	)
	for _, it := range items {
		w := it.Weight
		pos := loads.first(func(load float64) bool { return fits(capacity, load, w) })
		if pos >= 0 {
			b := bins[pos]
			if !b.TryAdd(it.Ordinal, w) {
				return nil, itemError(it, fmt.Errorf("%w: bin %d rejected item", ErrIndexInvariant, b.ID()))
			}
			loads.set(pos, b.Load())
			continue
		}
		b, err := openBin(len(bins), capacity, it)
		if err != nil {
			return nil, err
		}
		bins = append(bins, b)
		loads.push(b.Load())
	}
	return bins, nil
}

// loadTree is a complete binary tree whose leaves are bin loads in creation
// order and whose inner nodes hold the minimum load below them. Unused leaves
// are +Inf.
type loadTree struct {
	mins   []float64
	leaves int
	n      int
}

// first returns the position of the leftmost load accepted by ok, or -1.
// ok must be monotone: if it accepts a load it accepts every smaller load.
func (t *loadTree) first(ok func(load float64) bool) int {
	if t.n == 0 || !ok(t.mins[1]) {
		return -1
	}
	i := 1
	for i < t.leaves {
		if ok(t.mins[2*i]) {
			i = 2 * i
		} else {
			i = 2*i + 1
		}
	}
	return i - t.leaves
}

func (t *loadTree) set(pos int, load float64) {
	i := pos + t.leaves
	t.mins[i] = load
	for i > 1 {
		i /= 2
		t.mins[i] = math.Min(t.mins[2*i], t.mins[2*i+1])
	}
}

func (t *loadTree) push(load float64) {
	if t.n == t.leaves {
		t.grow()
	}
	t.set(t.n, load)
	t.n++
}

func (t *loadTree) grow() {
	leaves := 1
	if t.leaves > 0 {
		leaves = 2 * t.leaves
	}
	mins := make([]float64, 2*leaves)
	for i := range mins {
		mins[i] = math.Inf(1)
	}
	for pos := 0; pos < t.n; pos++ {
		mins[leaves+pos] = t.mins[t.leaves+pos]
	}
	for i := leaves - 1; i >= 1; i-- {
		mins[i] = math.Min(mins[2*i], mins[2*i+1])
	}
	t.mins, t.leaves = mins, leaves
}
