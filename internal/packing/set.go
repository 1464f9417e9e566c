package packing

import (
	"fmt"

	"github.com/eugenenazirov/binpack/internal/loadindex"
)

// Set holds the bins of one packing run together with the load index that
// orders them. Heuristics that consult the index run as methods on a Set, so
// a later pass can keep packing into the bins an earlier pass opened.
//
// A Set is not safe for concurrent use.
type Set struct {
	capacity float64
	bins     []*Bin
	index    *loadindex.Index
}

// NewSet returns an empty Set for bins of the given capacity.
func NewSet(capacity float64) (*Set, error) {
	if err := ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	return &Set{
		capacity: capacity,
		index:    loadindex.New(),
	}, nil
}

// Capacity returns the capacity shared by every bin in the set.
func (s *Set) Capacity() float64 { return s.capacity }

// Len returns the number of open bins.
func (s *Set) Len() int { return len(s.bins) }

// Bins returns the bins in creation order.
func (s *Set) Bins() []*Bin {
	out := make([]*Bin, len(s.bins))
	copy(out, s.bins)
	return out
}

// open creates a bin holding it and indexes it.
func (s *Set) open(it Item) (*Bin, error) {
	b, err := openBin(len(s.bins), s.capacity, it)
	if err != nil {
		return nil, err
	}
	s.bins = append(s.bins, b)
	s.index.Insert(b.Load(), b.ID())
	return b, nil
}

// resolve maps an index entry back to its bin and checks the entry is current.
func (s *Set) resolve(e loadindex.Entry) (*Bin, error) {
	if e.BinID < 0 || e.BinID >= len(s.bins) {
		return nil, fmt.Errorf("%w: entry references unknown bin %d", ErrIndexInvariant, e.BinID)
	}
	b := s.bins[e.BinID]
	if b.Load() != e.Load {
		return nil, fmt.Errorf("%w: bin %d has load %g, index holds %g", ErrIndexInvariant, b.ID(), b.Load(), e.Load)
	}
	return b, nil
}

// place adds it to b and re-keys b in the index. It reports false when the
// item does not fit. Neither b nor the index changes unless it is placed.
func (s *Set) place(b *Bin, it Item) (bool, error) {
	if !b.HasRoom(it.Weight) {
		return false, nil
	}
	prev := b.Load()
	if !s.index.Remove(prev, b.ID()) {
		return false, itemError(it, fmt.Errorf("%w: bin %d missing at load %g", ErrIndexInvariant, b.ID(), prev))
	}
	b.TryAdd(it.Ordinal, it.Weight)
	s.index.Insert(b.Load(), b.ID())
	return true, nil
}

// placeAt tries the bin behind e, if any.
func (s *Set) placeAt(e loadindex.Entry, ok bool, it Item) (bool, error) {
	if !ok {
		return false, nil
	}
	b, err := s.resolve(e)
	if err != nil {
		return false, itemError(it, err)
	}
	return s.place(b, it)
}

// Verify checks that every bin respects its capacity and has exactly one
// current entry in the index.
func (s *Set) Verify() error {
	if s.index.Len() != len(s.bins) {
		return fmt.Errorf("%w: %d entries for %d bins", ErrIndexInvariant, s.index.Len(), len(s.bins))
	}
	for _, b := range s.bins {
		if b.Load() > s.capacity {
			return fmt.Errorf("%w: bin %d load %g exceeds capacity %g", ErrIndexInvariant, b.ID(), b.Load(), s.capacity)
		}
		if !s.index.Contains(b.Load(), b.ID()) {
			return fmt.Errorf("%w: bin %d not indexed at load %g", ErrIndexInvariant, b.ID(), b.Load())
		}
		if _, ok := s.index.ExactLookup(b.Load()); !ok {
			return fmt.Errorf("%w: no entry at load %g", ErrIndexInvariant, b.Load())
		}
	}
	return nil
}
