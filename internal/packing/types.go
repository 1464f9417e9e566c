package packing

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Algorithm names a packing heuristic.
type Algorithm string

const (
	AlgorithmNextFit        Algorithm = "next-fit"
	AlgorithmFirstFit       Algorithm = "first-fit"
	AlgorithmWorstFit       Algorithm = "worst-fit"
	AlgorithmBestFit        Algorithm = "best-fit"
	AlgorithmAlmostWorstFit Algorithm = "almost-worst-fit"
	AlgorithmPTAS           Algorithm = "ptas"
)

// Algorithms lists every supported heuristic.
func Algorithms() []Algorithm {
	return []Algorithm{
		AlgorithmNextFit,
		AlgorithmFirstFit,
		AlgorithmWorstFit,
		AlgorithmBestFit,
		AlgorithmAlmostWorstFit,
		AlgorithmPTAS,
	}
}

// ParseAlgorithm resolves a case-insensitive algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	candidate := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	for _, alg := range Algorithms() {
		if alg == candidate {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfiguration, name)
}

// Request describes a single packing run. Capacity and Epsilon are always
// explicit; Epsilon is only read by the PTAS driver.
type Request struct {
	Algorithm  Algorithm
	Items      []float64
	Capacity   float64
	Decreasing bool
	Epsilon    float64
}

// Result carries the bins produced by a run and its summary.
type Result struct {
	Bins   []*Bin
	Report Report
}

// Report summarises a run the way an experiment log records it.
type Report struct {
	Algorithm  Algorithm
	Decreasing bool
	Epsilon    float64
	Capacity   float64
	Items      int
	Elapsed    time.Duration
	BinsUsed   int
	// Optimum is LowerBound of the input, ceil(total/capacity) less the
	// rounding error of the summation.
	Optimum int
	Ratio   float64
}

// Packer describes the behaviour required from a packing service.
type Packer interface {
	Pack(req Request) (Result, error)
	Compare(ctx context.Context, req Request) ([]Result, error)
}
