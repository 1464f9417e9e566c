package packing

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type packer struct {
	clock func() time.Time
}

// Option configures the Packer returned by New.
type Option func(*packer)

// WithClock overrides the time source used to measure runs, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(p *packer) {
		p.clock = clock
	}
}

// New creates a Packer that dispatches to the heuristics in this package.
func New(opts ...Option) Packer {
	p := &packer{clock: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *packer) Pack(req Request) (Result, error) {
	if _, err := ParseAlgorithm(string(req.Algorithm)); err != nil {
		return Result{}, err
	}

	start := p.clock()
	bins, err := run(req)
	elapsed := p.clock().Sub(start)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Bins:   bins,
		Report: NewReport(req, bins, elapsed),
	}, nil
}

// Compare runs every heuristic over the same items, in both orders where the
// order is a choice. Runs share only the read-only input, so they execute
// concurrently; results follow Algorithms() order, unsorted before sorted.
func (p *packer) Compare(ctx context.Context, req Request) ([]Result, error) {
	var variants []Request
	for _, alg := range Algorithms() {
		v := req
		v.Algorithm = alg
		if alg == AlgorithmPTAS {
			variants = append(variants, v)
			continue
		}
		v.Decreasing = false
		variants = append(variants, v)
		v.Decreasing = true
		variants = append(variants, v)
	}

	results := make([]Result, len(variants))
	g, ctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.Pack(v)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func run(req Request) ([]*Bin, error) {
	switch req.Algorithm {
	case AlgorithmNextFit:
		return NextFit(req.Items, req.Capacity, req.Decreasing)
	case AlgorithmFirstFit:
		return FirstFit(req.Items, req.Capacity, req.Decreasing)
	case AlgorithmWorstFit:
		return WorstFit(req.Items, req.Capacity, req.Decreasing)
	case AlgorithmBestFit:
		return BestFit(req.Items, req.Capacity, req.Decreasing)
	case AlgorithmAlmostWorstFit:
		return AlmostWorstFit(req.Items, req.Capacity, req.Decreasing)
	default:
		return PTAS(req.Items, req.Capacity, req.Epsilon)
	}
}
