package packing

import (
	"fmt"
	"math"

	"github.com/eugenenazirov/binpack/internal/loadindex"
)

// maxExactSearch bounds the descending exact-load scan Best-Fit uses for
// small integral capacities.
const maxExactSearch = 64

// chooser picks the bin an item of weight w should try first.
type chooser func(w float64) (loadindex.Entry, bool)

// WorstFit packs every item into the least-loaded open bin, opening a new bin
// when even that one lacks room.
func WorstFit(weights []float64, capacity float64, decreasing bool) ([]*Bin, error) {
	return packWith(weights, capacity, decreasing, (*Set).WorstFit)
}

// BestFit packs every item into the fullest open bin that still has room.
func BestFit(weights []float64, capacity float64, decreasing bool) ([]*Bin, error) {
	return packWith(weights, capacity, decreasing, (*Set).BestFit)
}

// AlmostWorstFit packs every item into the second least-loaded open bin,
// opening a new bin when there is no such bin or it lacks room.
func AlmostWorstFit(weights []float64, capacity float64, decreasing bool) ([]*Bin, error) {
	return packWith(weights, capacity, decreasing, (*Set).AlmostWorstFit)
}

func packWith(weights []float64, capacity float64, decreasing bool, pass func(*Set, []Item) error) ([]*Bin, error) {
	set, err := NewSet(capacity)
	if err != nil {
		return nil, err
	}
	items, err := prepare(weights, decreasing)
	if err != nil {
		return nil, err
	}
	if err := pass(set, items); err != nil {
		return nil, err
	}
	return set.Bins(), nil
}

// WorstFit continues packing items into s using the emptiest bin.
func (s *Set) WorstFit(items []Item) error {
	return s.fill(items, false, func(float64) (loadindex.Entry, bool) {
		return s.index.Min()
	})
}

// AlmostWorstFit continues packing items into s using the second emptiest bin.
func (s *Set) AlmostWorstFit(items []Item) error {
	return s.fill(items, false, func(float64) (loadindex.Entry, bool) {
		return s.index.SecondMin()
	})
}

// BestFit continues packing items into s using the tightest bin with room.
// Among bins with equal load the earliest opened wins.
func (s *Set) BestFit(items []Item) error {
	pick := s.tightestOrdered
	if s.integral(items) {
		pick = s.tightestExact
	}
	return s.fill(items, true, pick)
}

// fill places each item into the bin chosen by pick, or a new bin. When
// mustFit is set a chosen bin that rejects the item is an index invariant
// violation rather than a reason to open a bin.
func (s *Set) fill(items []Item, mustFit bool, pick chooser) error {
	for _, it := range items {
		e, ok := pick(it.Weight)
		placed, err := s.placeAt(e, ok, it)
		if err != nil {
			return err
		}
		if placed {
			continue
		}
		if ok && mustFit {
			return itemError(it, fmt.Errorf("%w: bin %d rejected item", ErrIndexInvariant, e.BinID))
		}
		if _, err := s.open(it); err != nil {
			return err
		}
	}
	return nil
}

// tightestOrdered finds the largest load that still leaves room for w.
// capacity-w is rounded, so the hit is stepped down while it overshoots and
// stepped up while loads just above it still fit.
func (s *Set) tightestOrdered(w float64) (loadindex.Entry, bool) {
	target := s.capacity - w
	e, ok := s.index.AtMost(target)
	for ok && !fits(s.capacity, e.Load, w) {
		prev, found := s.index.PredecessorBelow(e.Load)
		if !found {
			ok = false
			break
		}
		e, ok = s.index.ExactLookup(prev.Load)
	}
	for next, found := s.index.Above(target); found && fits(s.capacity, next.Load, w); next, found = s.index.Above(next.Load) {
		e, ok = next, true
	}
	return e, ok
}

// tightestExact scans integral loads downwards from capacity-w.
func (s *Set) tightestExact(w float64) (loadindex.Entry, bool) {
	for load := s.capacity - w; load > 0; load-- {
		if e, ok := s.index.ExactLookup(load); ok {
			return e, true
		}
	}
	return loadindex.Entry{}, false
}

func (s *Set) integral(items []Item) bool {
	if s.capacity > maxExactSearch || !isWhole(s.capacity) {
		return false
	}
	for _, it := range items {
		if !isWhole(it.Weight) {
			return false
		}
	}
	for _, b := range s.bins {
		if !isWhole(b.Load()) {
			return false
		}
	}
	return true
}

func isWhole(v float64) bool {
	return v == math.Trunc(v)
}
