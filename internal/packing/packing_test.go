package packing

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"
)

type packFunc func(weights []float64, capacity float64, decreasing bool) ([]*Bin, error)

func heuristics() map[string]packFunc {
	return map[string]packFunc{
		"NextFit":        NextFit,
		"FirstFit":       FirstFit,
		"WorstFit":       WorstFit,
		"BestFit":        BestFit,
		"AlmostWorstFit": AlmostWorstFit,
		"PTAS": func(weights []float64, capacity float64, _ bool) ([]*Bin, error) {
			return PTAS(weights, capacity, 0.5)
		},
	}
}

func TestHeuristicsScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pack       packFunc
		items      []float64
		capacity   float64
		decreasing bool
		wantLoads  []float64
	}{
		{
			name:       "BestFitDecreasingIntegral",
			pack:       BestFit,
			items:      []float64{6, 5, 4, 3, 2, 1},
			capacity:   10,
			decreasing: true,
			wantLoads:  []float64{10, 10, 1},
		},
		{
			name:       "BestFitDecreasingOrdered",
			pack:       BestFit,
			items:      []float64{60, 50, 40, 30, 20, 10},
			capacity:   100,
			decreasing: true,
			wantLoads:  []float64{100, 100, 10},
		},
		{
			name:       "BestFitSortsBeforePacking",
			pack:       BestFit,
			items:      []float64{1, 2, 3, 4, 5, 6},
			capacity:   10,
			decreasing: true,
			wantLoads:  []float64{10, 10, 1},
		},
		{
			name:       "WorstFitUsesEmptiestBin",
			pack:       WorstFit,
			items:      []float64{6, 5, 4, 3, 2, 1},
			capacity:   10,
			decreasing: true,
			wantLoads:  []float64{9, 9, 3},
		},
		{
			name:      "FirstFitUsesEarliestBin",
			pack:      FirstFit,
			items:     []float64{2, 5, 4, 3},
			capacity:  10,
			wantLoads: []float64{10, 4},
		},
		{
			name:      "WorstFitDiffersFromFirstFit",
			pack:      WorstFit,
			items:     []float64{2, 5, 4, 3},
			capacity:  10,
			wantLoads: []float64{7, 7},
		},
		{
			name:       "AlmostWorstFitUsesSecondEmptiest",
			pack:       AlmostWorstFit,
			items:      []float64{6, 5, 4, 3, 2, 1},
			capacity:   10,
			decreasing: true,
			wantLoads:  []float64{10, 8, 3},
		},
		{
			name:      "NextFitNeverRevisits",
			pack:      NextFit,
			items:     []float64{9, 8, 9, 2, 1, 1},
			capacity:  10,
			wantLoads: []float64{9, 8, 9, 4},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			bins, err := tc.pack(tc.items, tc.capacity, tc.decreasing)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := loadsOf(bins); !slices.Equal(got, tc.wantLoads) {
				t.Fatalf("expected loads %v, got %v", tc.wantLoads, got)
			}
			assertValidPacking(t, tc.items, tc.capacity, bins)
		})
	}
}

func TestPTASScenario(t *testing.T) {
	t.Parallel()

	items := []float64{0.6, 0.6, 0.3, 0.3}
	large, small := Partition(mustItems(t, items), LargeThreshold(1, 0.5))
	if len(large) != 4 || len(small) != 0 {
		t.Fatalf("expected every item above 0.25 to be large, got %d large and %d small", len(large), len(small))
	}
	large, small = Partition(mustItems(t, items), 0.3)
	if len(large) != 2 || len(small) != 2 {
		t.Fatalf("expected 2 large and 2 small items at threshold 0.3, got %d and %d", len(large), len(small))
	}
	if large[0].Ordinal != 0 || small[0].Ordinal != 2 {
		t.Fatalf("expected partitions to keep input order, got %+v and %+v", large, small)
	}

	first, err := PTAS(items, 1, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidPacking(t, items, 1, first)

	want := [][]int{{0}, {1, 2}, {3}}
	if got := ordinalsOf(first); !slices.EqualFunc(got, want, slices.Equal[[]int]) {
		t.Fatalf("expected ordinals %v, got %v", want, got)
	}

	again, err := PTAS(items, 1, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.EqualFunc(ordinalsOf(again), ordinalsOf(first), slices.Equal[[]int]) {
		t.Fatalf("expected deterministic result")
	}
}

func TestPTASPacksLargeItemsFirst(t *testing.T) {
	t.Parallel()

	// 0.1 is small for epsilon 0.5 and must not open the first bin.
	bins, err := PTAS([]float64{0.1, 0.3, 0.7}, 1, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ordinalsOf(bins)[0]; got[0] != 2 {
		t.Fatalf("expected the heaviest large item to open bin 0, got %v", got)
	}
	assertValidPacking(t, []float64{0.1, 0.3, 0.7}, 1, bins)
}

func TestSingleFullItem(t *testing.T) {
	t.Parallel()

	for name, pack := range heuristics() {
		name, pack := name, pack
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, decreasing := range []bool{false, true} {
				bins, err := pack([]float64{10}, 10, decreasing)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(bins) != 1 || bins[0].Len() != 1 || bins[0].Load() != 10 {
					t.Fatalf("expected a single full bin, got %v", loadsOf(bins))
				}
			}
		})
	}
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	for name, pack := range heuristics() {
		bins, err := pack(nil, 1, true)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if len(bins) != 0 {
			t.Fatalf("%s: expected no bins, got %d", name, len(bins))
		}
	}
}

func TestNextFitWithinTwiceOptimal(t *testing.T) {
	t.Parallel()

	var items []float64
	for i := 0; i < 100; i++ {
		items = append(items, 0.5+0.01, 0.001)
	}

	inputs := map[string][]float64{
		"crafted":   items,
		"generated": NextFitWorstCase(100, 1),
	}
	for name, input := range inputs {
		bins, err := NextFit(input, 1, false)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		opt := LowerBound(input, 1)
		if len(bins) > 2*opt {
			t.Fatalf("%s: next fit used %d bins, more than twice the optimum %d", name, len(bins), opt)
		}
		assertValidPacking(t, input, 1, bins)
	}
}

func TestWorstCaseGenerators(t *testing.T) {
	t.Parallel()

	nf := NextFitWorstCase(5, 1)
	if len(nf) != 6 || nf[0] != 0.5 || nf[1] != 0.1 {
		t.Fatalf("unexpected next fit worst case %v", nf)
	}
	ff := FirstFitWorstCase(9, 7)
	if len(ff) != 9 || ff[0] >= ff[3] || ff[3] >= ff[6] {
		t.Fatalf("unexpected first fit worst case %v", ff)
	}
	if NextFitWorstCase(0, 1) != nil || FirstFitWorstCase(-1, 1) != nil {
		t.Fatalf("expected nil for non-positive sizes")
	}

	bins, err := FirstFit(FirstFitWorstCase(300, 1), 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt := LowerBound(FirstFitWorstCase(300, 1), 1); len(bins) < opt {
		t.Fatalf("first fit used %d bins, below lower bound %d", len(bins), opt)
	}
}

func TestRandomInputsKeepInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		items := randomWeights(rng, 500)
		for name, pack := range heuristics() {
			for _, decreasing := range []bool{false, true} {
				bins, err := pack(items, 1, decreasing)
				if err != nil {
					t.Fatalf("round %d %s: unexpected error: %v", round, name, err)
				}
				assertValidPacking(t, items, 1, bins)
			}
		}
	}
}

func TestIndexStaysConsistentAfterEveryPlacement(t *testing.T) {
	t.Parallel()

	passes := map[string]func(*Set, []Item) error{
		"WorstFit":       (*Set).WorstFit,
		"BestFit":        (*Set).BestFit,
		"AlmostWorstFit": (*Set).AlmostWorstFit,
	}
	rng := rand.New(rand.NewSource(11))
	items := mustItems(t, randomWeights(rng, 300))

	for name, pass := range passes {
		set, err := NewSet(1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, it := range items {
			if err := pass(set, []Item{it}); err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			if err := set.Verify(); err != nil {
				t.Fatalf("%s: after item %d: %v", name, it.Ordinal, err)
			}
			for _, b := range set.Bins() {
				e, ok := set.index.ExactLookup(b.Load())
				if !ok || set.bins[e.BinID].Load() != b.Load() {
					t.Fatalf("%s: stale entry for bin %d", name, b.ID())
				}
			}
		}
	}
}

func TestBestFitSearchStrategiesAgree(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	weights := make([]float64, 400)
	for i := range weights {
		weights[i] = float64(1 + rng.Intn(10))
	}
	items := mustItems(t, weights)

	exact, _ := NewSet(10)
	if !exact.integral(items) {
		t.Fatalf("expected integral search for whole weights")
	}
	if err := exact.BestFit(items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ordered, _ := NewSet(10)
	if err := ordered.fill(items, true, ordered.tightestOrdered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.EqualFunc(ordinalsOf(exact.Bins()), ordinalsOf(ordered.Bins()), slices.Equal[[]int]) {
		t.Fatalf("search strategies placed items differently")
	}
}

func TestBestFitFractionalLoads(t *testing.T) {
	t.Parallel()

	// 0.1+0.2+0.4 rounds to 0.7000000000000001, above 1-0.3, yet 0.3 still fits.
	bins, err := BestFit([]float64{0.1, 0.2, 0.4, 0.3}, 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) != 1 || bins[0].Len() != 4 {
		t.Fatalf("expected one full bin, got loads %v", loadsOf(bins))
	}

	rng := rand.New(rand.NewSource(19))
	for round := 0; round < 300; round++ {
		weights := make([]float64, 4+rng.Intn(20))
		for i := range weights {
			weights[i] = float64(1+rng.Intn(9)) / 10
		}
		got, err := BestFit(weights, 1, false)
		if err != nil {
			t.Fatalf("round %d: unexpected error: %v", round, err)
		}
		want := linearBestFit(weights, 1)
		if !slices.EqualFunc(ordinalsOf(got), want, slices.Equal[[]int]) {
			t.Fatalf("round %d: %v packed as %v, expected %v", round, weights, ordinalsOf(got), want)
		}
	}
}

// linearBestFit scans every bin for the fullest one with room, earliest on ties.
func linearBestFit(weights []float64, capacity float64) [][]int {
	var bins []*Bin
	for i, w := range weights {
		best := -1
		for j, b := range bins {
			if b.HasRoom(w) && (best < 0 || b.Load() > bins[best].Load()) {
				best = j
			}
		}
		if best < 0 {
			bins = append(bins, newBin(len(bins), capacity))
			best = len(bins) - 1
		}
		bins[best].TryAdd(i, w)
	}
	return ordinalsOf(bins)
}

func TestPlaceLeavesBinUntouchedOnMissingEntry(t *testing.T) {
	t.Parallel()

	set, err := NewSet(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := set.WorstFit([]Item{{Ordinal: 0, Weight: 5}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set.index.Remove(5, 0)

	placed, err := set.place(set.bins[0], Item{Ordinal: 1, Weight: 2})
	if placed || !errors.Is(err, ErrIndexInvariant) {
		t.Fatalf("expected ErrIndexInvariant without placement, got placed=%v err=%v", placed, err)
	}
	if b := set.bins[0]; b.Load() != 5 || b.Len() != 1 {
		t.Fatalf("expected bin to keep load 5 and one item, got %v and %d", b.Load(), b.Len())
	}
	if set.index.Len() != 0 {
		t.Fatalf("expected index to be left as it was, got %d entries", set.index.Len())
	}
}

func TestSetContinuesAcrossPasses(t *testing.T) {
	t.Parallel()

	set, err := NewSet(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := set.BestFit([]Item{{Ordinal: 0, Weight: 7}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := set.WorstFit([]Item{{Ordinal: 1, Weight: 3}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 1 || set.Bins()[0].Load() != 10 {
		t.Fatalf("expected the second pass to fill the first bin, got %v", loadsOf(set.Bins()))
	}
	if err := set.Verify(); err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
}

func TestOversizedItemFailsFast(t *testing.T) {
	t.Parallel()

	for name, pack := range heuristics() {
		for _, decreasing := range []bool{false, true} {
			_, err := pack([]float64{0.5, 1.5, 0.2}, 1, decreasing)
			if !errors.Is(err, ErrOversizedItem) {
				t.Fatalf("%s: expected ErrOversizedItem, got %v", name, err)
			}
			var itemErr *ItemError
			if !errors.As(err, &itemErr) || itemErr.Ordinal != 1 || itemErr.Weight != 1.5 {
				t.Fatalf("%s: expected item 1 in error, got %v", name, err)
			}
		}
	}
}

func TestInvalidWeights(t *testing.T) {
	t.Parallel()

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		for name, pack := range heuristics() {
			if _, err := pack([]float64{0.5, bad}, 1, false); !errors.Is(err, ErrInvalidWeight) {
				t.Fatalf("%s: expected ErrInvalidWeight for %v, got %v", name, bad, err)
			}
		}
	}
}

func TestInvalidConfiguration(t *testing.T) {
	t.Parallel()

	for _, capacity := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		for name, pack := range heuristics() {
			if _, err := pack([]float64{0.5}, capacity, false); !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("%s: expected ErrInvalidConfiguration for capacity %v, got %v", name, capacity, err)
			}
		}
	}
	for _, eps := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
		if _, err := PTAS([]float64{0.5}, 1, eps); !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("expected ErrInvalidConfiguration for epsilon %v, got %v", eps, err)
		}
	}
}

func TestStaleIndexIsDetected(t *testing.T) {
	t.Parallel()

	set, err := NewSet(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := set.WorstFit([]Item{{Ordinal: 0, Weight: 5}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set.bins[0].load = 7

	if err := set.Verify(); !errors.Is(err, ErrIndexInvariant) {
		t.Fatalf("expected Verify to report ErrIndexInvariant, got %v", err)
	}
	err = set.BestFit([]Item{{Ordinal: 1, Weight: 2}})
	if !errors.Is(err, ErrIndexInvariant) {
		t.Fatalf("expected ErrIndexInvariant, got %v", err)
	}
}

func TestLowerBound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		items    []float64
		capacity float64
		want     int
	}{
		{items: nil, capacity: 1, want: 0},
		{items: []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, capacity: 1, want: 1},
		{items: []float64{6, 5, 4, 3, 2, 1}, capacity: 10, want: 3},
		{items: []float64{0.6, 0.6, 0.3, 0.3}, capacity: 1, want: 2},
		{items: []float64{0.1, 0.1, 0.1}, capacity: 0.3, want: 1},
		{items: []float64{0.5, 0.5000000001}, capacity: 1, want: 2},
	}
	for _, tc := range cases {
		if got := LowerBound(tc.items, tc.capacity); got != tc.want {
			t.Fatalf("LowerBound(%v, %v): expected %d, got %d", tc.items, tc.capacity, tc.want, got)
		}
	}
}

func assertValidPacking(t *testing.T, items []float64, capacity float64, bins []*Bin) {
	t.Helper()

	seen := make([]int, len(items))
	for _, b := range bins {
		var sum float64
		for _, p := range b.Items() {
			if p.Ordinal < 0 || p.Ordinal >= len(items) {
				t.Fatalf("bin %d holds unknown ordinal %d", b.ID(), p.Ordinal)
			}
			if items[p.Ordinal] != p.Weight {
				t.Fatalf("bin %d: ordinal %d has weight %v, input says %v", b.ID(), p.Ordinal, p.Weight, items[p.Ordinal])
			}
			seen[p.Ordinal]++
			sum += p.Weight
		}
		if sum != b.Load() {
			t.Fatalf("bin %d: load %v drifted from item sum %v", b.ID(), b.Load(), sum)
		}
		if sum > capacity {
			t.Fatalf("bin %d: load %v exceeds capacity %v", b.ID(), sum, capacity)
		}
	}
	for ordinal, count := range seen {
		if count != 1 {
			t.Fatalf("ordinal %d placed %d times", ordinal, count)
		}
	}
	if opt := LowerBound(items, capacity); len(bins) < opt {
		t.Fatalf("used %d bins, below lower bound %d", len(bins), opt)
	}
}

func loadsOf(bins []*Bin) []float64 {
	out := make([]float64, len(bins))
	for i, b := range bins {
		out[i] = b.Load()
	}
	return out
}

func ordinalsOf(bins []*Bin) [][]int {
	out := make([][]int, len(bins))
	for i, b := range bins {
		for _, p := range b.Items() {
			out[i] = append(out[i], p.Ordinal)
		}
	}
	return out
}

func mustItems(t *testing.T, weights []float64) []Item {
	t.Helper()

	items, err := NewItems(weights)
	if err != nil {
		t.Fatalf("NewItems: %v", err)
	}
	return items
}

func randomWeights(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		w := 0.0
		for w == 0 {
			w = rng.Float64()
		}
		out[i] = w
	}
	return out
}

func BenchmarkBestFitDecreasing(b *testing.B) {
	items := randomWeights(rand.New(rand.NewSource(1)), 100_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BestFit(items, 1, true); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkFirstFit(b *testing.B) {
	items := randomWeights(rand.New(rand.NewSource(1)), 100_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FirstFit(items, 1, false); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkPTAS(b *testing.B) {
	items := randomWeights(rand.New(rand.NewSource(1)), 100_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := PTAS(items, 1, 0.1); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
