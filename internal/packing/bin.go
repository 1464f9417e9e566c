package packing

// Placement records an item stored in a bin.
type Placement struct {
	Ordinal int
	Weight  float64
}

// Bin accumulates items against a fixed capacity. Its load never exceeds the
// capacity and always equals the sum of its item weights in placement order.
type Bin struct {
	id       int
	capacity float64
	load     float64
	items    []Placement
}

func newBin(id int, capacity float64) *Bin {
	return &Bin{id: id, capacity: capacity}
}

// ID returns the bin's creation index within its run.
func (b *Bin) ID() int { return b.id }

// Load returns the sum of the weights placed so far.
func (b *Bin) Load() float64 { return b.load }

// Capacity returns the bin capacity.
func (b *Bin) Capacity() float64 { return b.capacity }

// Len returns the number of items in the bin.
func (b *Bin) Len() int { return len(b.items) }

// Items returns a copy of the placed items in placement order.
func (b *Bin) Items() []Placement {
	out := make([]Placement, len(b.items))
	copy(out, b.items)
	return out
}

// ResidualCapacity returns the space left if weight were added. A negative
// result means the item does not fit.
func (b *Bin) ResidualCapacity(weight float64) float64 {
	return residual(b.capacity, b.load, weight)
}

// HasRoom reports whether weight fits into the bin.
func (b *Bin) HasRoom(weight float64) bool {
	return b.ResidualCapacity(weight) >= 0
}

// TryAdd appends the item if it fits and reports whether it did.
func (b *Bin) TryAdd(ordinal int, weight float64) bool {
	if !b.HasRoom(weight) {
		return false
	}
	b.load += weight
	b.items = append(b.items, Placement{Ordinal: ordinal, Weight: weight})
	return true
}

func residual(capacity, load, weight float64) float64 {
	return capacity - (load + weight)
}

func fits(capacity, load, weight float64) bool {
	return residual(capacity, load, weight) >= 0
}

// openBin creates bin id and places it into it. An item that does not fit an
// empty bin can never be placed.
func openBin(id int, capacity float64, it Item) (*Bin, error) {
	b := newBin(id, capacity)
	if !b.TryAdd(it.Ordinal, it.Weight) {
		return nil, itemError(it, ErrOversizedItem)
	}
	return b, nil
}
