package api

import (
	"time"

	"github.com/eugenenazirov/binpack/internal/packing"
	"github.com/eugenenazirov/binpack/internal/storage"
)

type settingsRequest struct {
	Capacity *float64 `json:"capacity"`
	Epsilon  *float64 `json:"epsilon"`
}

type packRequest struct {
	Algorithm  string    `json:"algorithm"`
	Items      []float64 `json:"items"`
	Decreasing bool      `json:"decreasing"`
	Capacity   *float64  `json:"capacity,omitempty"`
	Epsilon    *float64  `json:"epsilon,omitempty"`
}

type compareRequest struct {
	Items    []float64 `json:"items"`
	Capacity *float64  `json:"capacity,omitempty"`
	Epsilon  *float64  `json:"epsilon,omitempty"`
}

type settingsResponse struct {
	Capacity  float64   `json:"capacity"`
	Epsilon   float64   `json:"epsilon"`
	UpdatedAt time.Time `json:"updatedAt"`
	Message   string    `json:"message,omitempty"`
}

type algorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
}

type placementBody struct {
	Ordinal int     `json:"ordinal"`
	Weight  float64 `json:"weight"`
}

type binBody struct {
	ID    int             `json:"id"`
	Load  float64         `json:"load"`
	Items []placementBody `json:"items"`
}

type reportBody struct {
	Algorithm  string  `json:"algorithm"`
	Decreasing bool    `json:"decreasing"`
	Epsilon    float64 `json:"epsilon,omitempty"`
	Capacity   float64 `json:"capacity"`
	Items      int     `json:"n"`
	ElapsedMs  float64 `json:"elapsedMs"`
	BinsUsed   int     `json:"binsUsed"`
	Optimum    int     `json:"optimum"`
	Ratio      float64 `json:"ratio"`
}

type runBody struct {
	ID         string     `json:"id,omitempty"`
	RecordedAt time.Time  `json:"recordedAt"`
	Report     reportBody `json:"report"`
}

type packResponse struct {
	Run  runBody   `json:"run"`
	Bins []binBody `json:"bins"`
}

type compareResponse struct {
	Runs []runBody `json:"runs"`
}

type worstCaseResponse struct {
	Heuristic string    `json:"heuristic"`
	Capacity  float64   `json:"capacity"`
	Items     []float64 `json:"items"`
}

type runsResponse struct {
	Runs []runBody `json:"runs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func toBinBodies(bins []*packing.Bin) []binBody {
	out := make([]binBody, len(bins))
	for i, b := range bins {
		items := b.Items()
		body := binBody{
			ID:    b.ID(),
			Load:  b.Load(),
			Items: make([]placementBody, len(items)),
		}
		for j, p := range items {
			body.Items[j] = placementBody{Ordinal: p.Ordinal, Weight: p.Weight}
		}
		out[i] = body
	}
	return out
}

func toRunBody(run storage.Run) runBody {
	r := run.Report
	return runBody{
		ID:         run.ID,
		RecordedAt: run.RecordedAt,
		Report: reportBody{
			Algorithm:  string(r.Algorithm),
			Decreasing: r.Decreasing,
			Epsilon:    r.Epsilon,
			Capacity:   r.Capacity,
			Items:      r.Items,
			ElapsedMs:  float64(r.Elapsed) / float64(time.Millisecond),
			BinsUsed:   r.BinsUsed,
			Optimum:    r.Optimum,
			Ratio:      r.Ratio,
		},
	}
}
