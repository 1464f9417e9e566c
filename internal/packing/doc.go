// Package packing implements online bin-packing heuristics over a fixed bin
// capacity: Next-Fit, First-Fit, Worst-Fit, Best-Fit, Almost-Worst-Fit and a
// two-phase PTAS driver built on Almost-Worst-Fit.
//
// Every heuristic either places each item into exactly one bin without
// exceeding the capacity or fails with a typed error (ItemError wrapping
// ErrOversizedItem, ErrInvalidWeight or ErrIndexInvariant, or
// ErrInvalidConfiguration). A run is single-threaded; independent runs may
// execute concurrently because they share no state.
package packing
