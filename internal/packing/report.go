package packing

import "time"

// NewReport summarises bins produced for req. Optimum is the ceil(total/capacity)
// lower bound and Ratio is BinsUsed/Optimum, or zero for an empty input.
func NewReport(req Request, bins []*Bin, elapsed time.Duration) Report {
	r := Report{
		Algorithm:  req.Algorithm,
		Decreasing: req.Decreasing,
		Capacity:   req.Capacity,
		Items:      len(req.Items),
		Elapsed:    elapsed,
		BinsUsed:   len(bins),
		Optimum:    LowerBound(req.Items, req.Capacity),
	}
	if req.Algorithm == AlgorithmPTAS {
		r.Epsilon = req.Epsilon
		r.Decreasing = true
	}
	if r.Optimum > 0 {
		r.Ratio = float64(r.BinsUsed) / float64(r.Optimum)
	}
	return r
}
