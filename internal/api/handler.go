package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/binpack/internal/packing"
	"github.com/eugenenazirov/binpack/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultMaxItems = 1_000_000

// Handler wires packer and storage dependencies into HTTP handlers.
type Handler struct {
	packer  packing.Packer
	storage storage.Storage
	logger  *zap.Logger

	clock    func() time.Time
	maxItems int

	mu                sync.RWMutex
	settingsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxItems caps the number of items accepted per request.
func WithMaxItems(limit int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.maxItems = limit
		}
	}
}

// WithLogger sets the logger used to record completed runs.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(p packing.Packer, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		packer:   p,
		storage:  store,
		logger:   zap.NewNop(),
		maxItems: defaultMaxItems,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.settingsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	_ = r
	algs := packing.Algorithms()
	names := make([]string, len(algs))
	for i, alg := range algs {
		names[i] = string(alg)
	}
	writeJSON(w, http.StatusOK, algorithmsResponse{Algorithms: names})
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	_ = r
	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.settingsBody(settings, ""))
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	current, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if req.Capacity != nil {
		current.Capacity = *req.Capacity
	}
	if req.Epsilon != nil {
		current.Epsilon = *req.Epsilon
	}

	if err := h.storage.SetSettings(current); err != nil {
		if errors.Is(err, storage.ErrInvalidSettings) {
			writeError(w, http.StatusBadRequest, "Invalid settings", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markSettingsUpdated()

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.settingsBody(settings, "Settings updated successfully"))
}

func (h *Handler) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	alg, err := packing.ParseAlgorithm(req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid algorithm", err.Error())
		return
	}

	packReq, ok := h.buildRequest(w, req.Items, req.Capacity, req.Epsilon)
	if !ok {
		return
	}
	packReq.Algorithm = alg
	packReq.Decreasing = req.Decreasing

	result, err := h.packer.Pack(packReq)
	if err != nil {
		writePackingError(w, err)
		return
	}

	run := h.record(result.Report)
	writeJSON(w, http.StatusOK, packResponse{
		Run:  run,
		Bins: toBinBodies(result.Bins),
	})
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	packReq, ok := h.buildRequest(w, req.Items, req.Capacity, req.Epsilon)
	if !ok {
		return
	}

	results, err := h.packer.Compare(r.Context(), packReq)
	if err != nil {
		writePackingError(w, err)
		return
	}

	runs := make([]runBody, len(results))
	for i, res := range results {
		runs[i] = h.record(res.Report)
	}
	writeJSON(w, http.StatusOK, compareResponse{Runs: runs})
}

func (h *Handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			writeError(w, http.StatusBadRequest, "Invalid request", "limit must be a non-negative integer")
			return
		}
		limit = value
	}

	runs, err := h.storage.RecentRuns(limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	out := make([]runBody, len(runs))
	for i, run := range runs {
		out[i] = toRunBody(run)
	}
	writeJSON(w, http.StatusOK, runsResponse{Runs: out})
}

func (h *Handler) handleWorstCase(w http.ResponseWriter, r *http.Request) {
	var generate func(int, float64) []float64
	heuristic := r.PathValue("heuristic")
	switch packing.Algorithm(heuristic) {
	case packing.AlgorithmNextFit:
		generate = packing.NextFitWorstCase
	case packing.AlgorithmFirstFit:
		generate = packing.FirstFitWorstCase
	default:
		writeError(w, http.StatusNotFound, "Unknown workload",
			"worst-case inputs exist for next-fit and first-fit only")
		return
	}

	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "n must be a positive integer")
		return
	}
	if n > h.maxItems {
		writeError(w, http.StatusRequestEntityTooLarge, "Too many items",
			"a single request may contain at most "+strconv.Itoa(h.maxItems)+" items")
		return
	}

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, worstCaseResponse{
		Heuristic: heuristic,
		Capacity:  settings.Capacity,
		Items:     generate(n, settings.Capacity),
	})
}

// buildRequest resolves items and defaults shared by pack and compare. It
// writes the error response itself and reports false when the request is
// rejected.
func (h *Handler) buildRequest(w http.ResponseWriter, items []float64, capacity, epsilon *float64) (packing.Request, bool) {
	if len(items) > h.maxItems {
		writeError(w, http.StatusRequestEntityTooLarge, "Too many items",
			"a single request may contain at most "+strconv.Itoa(h.maxItems)+" items")
		return packing.Request{}, false
	}

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return packing.Request{}, false
	}

	req := packing.Request{
		Items:    items,
		Capacity: settings.Capacity,
		Epsilon:  settings.Epsilon,
	}
	if capacity != nil {
		req.Capacity = *capacity
	}
	if epsilon != nil {
		req.Epsilon = *epsilon
	}
	return req, true
}

func (h *Handler) record(report packing.Report) runBody {
	h.logger.Info("packing run completed",
		zap.String("algorithm", string(report.Algorithm)),
		zap.Bool("decreasing", report.Decreasing),
		zap.Int("items", report.Items),
		zap.Int("bins_used", report.BinsUsed),
		zap.Int("optimum", report.Optimum),
		zap.Float64("ratio", report.Ratio),
		zap.Duration("elapsed", report.Elapsed),
	)

	run, err := h.storage.RecordRun(report)
	if err != nil {
		h.logger.Warn("failed to record run", zap.Error(err))
		return toRunBody(storage.Run{RecordedAt: h.clock(), Report: report})
	}
	return toRunBody(run)
}

func (h *Handler) settingsBody(settings storage.Settings, message string) settingsResponse {
	return settingsResponse{
		Capacity:  settings.Capacity,
		Epsilon:   settings.Epsilon,
		UpdatedAt: h.currentSettingsUpdatedAt(),
		Message:   message,
	}
}

func (h *Handler) currentSettingsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settingsUpdatedAt
}

func (h *Handler) markSettingsUpdated() {
	h.mu.Lock()
	h.settingsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func writePackingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, packing.ErrInvalidConfiguration):
		writeError(w, http.StatusBadRequest, "Invalid configuration", err.Error())
	case errors.Is(err, packing.ErrInvalidWeight):
		writeError(w, http.StatusBadRequest, "Invalid item", err.Error())
	case errors.Is(err, packing.ErrOversizedItem):
		writeError(w, http.StatusUnprocessableEntity, "Cannot pack item", err.Error(),
			"Every item weight must be at most the bin capacity")
	case errors.Is(err, packing.ErrIndexInvariant):
		writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
