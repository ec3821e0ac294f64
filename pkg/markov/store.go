package markov

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"
)

// persistedModel is the serialized representation of a Model. Successor
// sequences are packed into strings, which keeps duplicates (and therefore
// observed frequencies) intact across a round trip.
type persistedModel struct {
	Order       int               `json:"order"`
	Transitions map[string]string `json:"transitions"`
	StartStates []string          `json:"start_states"`
}

// Store persists a single model at an explicit path. The path is injected by
// the caller; the library never discovers a cache file by convention.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore returns a Store persisting to the given path.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Path returns the location the Store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load restores a persisted model built with the requested chain order.
// A missing file, an unreadable file, a deserialization failure, and a
// stored order different from the requested one are all reported as a plain
// cache miss: the caller rebuilds and resaves, never fails.
func (s *Store) Load(order int) (*Model, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Debug("model cache miss", "path", s.path, "error", err)
		return nil, false
	}

	var p persistedModel
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Debug("model cache unreadable, rebuild required", "path", s.path, "error", err)
		return nil, false
	}

	if p.Order != order {
		s.logger.Debug("cached model order mismatch, rebuild required",
			"path", s.path, "cached_order", p.Order, "requested_order", order)
		return nil, false
	}

	// A file can deserialize and still break the model invariants: every
	// state must have at least one successor, and StartStates must be
	// non-empty whenever the table is. Such content is as unusable as a
	// corrupt file, so it degrades to a miss too.
	for state, succ := range p.Transitions {
		if len(succ) == 0 {
			s.logger.Debug("cached model has a state with no successors, rebuild required",
				"path", s.path, "state", state)
			return nil, false
		}
	}
	if len(p.Transitions) > 0 && len(p.StartStates) == 0 {
		s.logger.Debug("cached model has no start states, rebuild required", "path", s.path)
		return nil, false
	}

	m := &Model{
		Order:       p.Order,
		Transitions: make(map[string][]rune, len(p.Transitions)),
		StartStates: p.StartStates,
	}
	for state, succ := range p.Transitions {
		m.Transitions[state] = []rune(succ)
	}
	m.finalize()
	return m, true
}

// Save overwrites any previously persisted model unconditionally. The write
// is atomic so a crash mid-save cannot leave a truncated cache behind.
func (s *Store) Save(m *Model) error {
	p := persistedModel{
		Order:       m.Order,
		Transitions: make(map[string]string, len(m.Transitions)),
		StartStates: m.StartStates,
	}
	for state, succ := range m.Transitions {
		p.Transitions[state] = string(succ)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}

	s.logger.Info("model saved", "path", s.path, "states", len(m.Transitions))
	return nil
}
