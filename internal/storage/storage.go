package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eugenenazirov/binpack/internal/packing"
)

const (
	defaultCapacity    = 1.0
	defaultEpsilon     = 0.5
	defaultHistorySize = 100
)

var (
	// ErrInvalidSettings indicates the provided settings violate validation rules.
	ErrInvalidSettings = errors.New("capacity must be positive and epsilon must lie in (0, 1)")
)

// Settings are the packing parameters applied when a request omits them.
type Settings struct {
	Capacity float64
	Epsilon  float64
}

// Run is a recorded packing report.
type Run struct {
	ID         string
	RecordedAt time.Time
	Report     packing.Report
}

// Storage provides access to default settings and the history of runs.
type Storage interface {
	GetSettings() (Settings, error)
	SetSettings(settings Settings) error
	RecordRun(report packing.Report) (Run, error)
	RecentRuns(limit int) ([]Run, error)
}

// MemoryStorage keeps settings and a bounded run history in-memory and guards
// access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	settings Settings
	runs     []Run
	limit    int
	clock    func() time.Time
}

// NewMemoryStorage initialises storage with the default settings. historySize
// bounds the number of runs kept; non-positive values select the default.
func NewMemoryStorage(historySize int) *MemoryStorage {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &MemoryStorage{
		settings: DefaultSettings(),
		limit:    historySize,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// DefaultSettings returns the built-in capacity and epsilon.
func DefaultSettings() Settings {
	return Settings{Capacity: defaultCapacity, Epsilon: defaultEpsilon}
}

// GetSettings returns the current settings.
func (s *MemoryStorage) GetSettings() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings, nil
}

// SetSettings validates and stores the provided settings.
func (s *MemoryStorage) SetSettings(settings Settings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	return nil
}

// RecordRun stores report under a fresh identifier, evicting the oldest run
// once the history is full.
func (s *MemoryStorage) RecordRun(report packing.Report) (Run, error) {
	run := Run{
		ID:         uuid.NewString(),
		RecordedAt: s.clock(),
		Report:     report,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)
	if over := len(s.runs) - s.limit; over > 0 {
		s.runs = append(s.runs[:0:0], s.runs[over:]...)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first. A non-positive limit
// returns the whole history.
func (s *MemoryStorage) RecentRuns(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.runs) {
		limit = len(s.runs)
	}
	out := make([]Run, 0, limit)
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

func validateSettings(settings Settings) error {
	if err := packing.ValidateCapacity(settings.Capacity); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := packing.ValidateEpsilon(settings.Epsilon); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}
