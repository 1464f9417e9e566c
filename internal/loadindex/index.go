package loadindex

import (
	"math"

	"github.com/google/btree"
)

const degree = 32

// Entry references an open bin by its current load.
type Entry struct {
	Load  float64
	BinID int
}

func less(a, b Entry) bool {
	if a.Load != b.Load {
		return a.Load < b.Load
	}
	return a.BinID < b.BinID
}

// Index is an ordered multiset of bin loads. Entries are ordered by load and
// then by bin id, so bins sharing a load stay distinct and removable.
//
// Index is not safe for concurrent use.
type Index struct {
	tree *btree.BTreeG[Entry]
}

// New returns an empty Index.
func New() *Index {
	return &Index{tree: btree.NewG(degree, less)}
}

// Len reports the number of entries.
func (x *Index) Len() int {
	return x.tree.Len()
}

// Insert adds (load, binID). It returns false if the exact pair was already present.
func (x *Index) Insert(load float64, binID int) bool {
	_, replaced := x.tree.ReplaceOrInsert(Entry{Load: load, BinID: binID})
	return !replaced
}

// Remove deletes the exact (load, binID) pair and reports whether it existed.
func (x *Index) Remove(load float64, binID int) bool {
	_, ok := x.tree.Delete(Entry{Load: load, BinID: binID})
	return ok
}

// Contains reports whether the exact (load, binID) pair is present.
func (x *Index) Contains(load float64, binID int) bool {
	return x.tree.Has(Entry{Load: load, BinID: binID})
}

// Min returns the entry with the smallest load.
func (x *Index) Min() (Entry, bool) {
	return x.tree.Min()
}

// SecondMin returns the second entry in key order. When two bins share the
// minimum load the result carries that same load.
func (x *Index) SecondMin() (Entry, bool) {
	var (
		out   Entry
		found bool
		seen  int
	)
	x.tree.Ascend(func(e Entry) bool {
		seen++
		if seen == 2 {
			out, found = e, true
			return false
		}
		return true
	})
	return out, found
}

// PredecessorBelow returns the entry with the largest load strictly less than
// load. Among equal loads the highest bin id is returned.
func (x *Index) PredecessorBelow(load float64) (Entry, bool) {
	return x.descendFrom(Entry{Load: load, BinID: math.MinInt})
}

// AtMost returns the entry with the largest load not exceeding load. Among
// equal loads the lowest bin id is returned.
func (x *Index) AtMost(load float64) (Entry, bool) {
	e, ok := x.descendFrom(Entry{Load: load, BinID: math.MaxInt})
	if !ok {
		return Entry{}, false
	}
	return x.ExactLookup(e.Load)
}

// Above returns the entry with the smallest load strictly greater than load.
// Among equal loads the lowest bin id is returned.
func (x *Index) Above(load float64) (Entry, bool) {
	var (
		out   Entry
		found bool
	)
	x.tree.AscendGreaterOrEqual(Entry{Load: load, BinID: math.MaxInt}, func(e Entry) bool {
		if e.Load > load {
			out, found = e, true
			return false
		}
		return true
	})
	return out, found
}

// ExactLookup returns the entry with the lowest bin id whose load equals load.
func (x *Index) ExactLookup(load float64) (Entry, bool) {
	var (
		out   Entry
		found bool
	)
	x.tree.AscendGreaterOrEqual(Entry{Load: load, BinID: math.MinInt}, func(e Entry) bool {
		if e.Load == load {
			out, found = e, true
		}
		return false
	})
	return out, found
}

// Ascend calls fn for every entry in key order until fn returns false.
func (x *Index) Ascend(fn func(Entry) bool) {
	x.tree.Ascend(fn)
}

func (x *Index) descendFrom(pivot Entry) (Entry, bool) {
	var (
		out   Entry
		found bool
	)
	x.tree.DescendLessOrEqual(pivot, func(e Entry) bool {
		out, found = e, true
		return false
	})
	return out, found
}
