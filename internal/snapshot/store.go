package snapshot

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/charleira/b3penny/internal/metrics"
	"github.com/charleira/b3penny/internal/model"
)

// Store reads the two snapshot files. It holds no cache: the only writer is
// the external collection process, and each load must observe its latest
// whole-file replacement.
type Store struct {
	stocksPath      string
	derivativesPath string
	logger          *slog.Logger
	metrics         *metrics.Metrics
}

// New creates a Store over the given snapshot file paths.
func New(stocksPath, derivativesPath string, logger *slog.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		stocksPath:      stocksPath,
		derivativesPath: derivativesPath,
		logger:          logger,
		metrics:         m,
	}
}

// LoadEquities reads the current equity snapshot. The second return value is
// false when the snapshot is absent (missing, unreadable, or unparseable).
func (s *Store) LoadEquities() (*model.EquitySnapshot, bool) {
	var snap model.EquitySnapshot
	if !s.load(s.stocksPath, "stocks", &snap) {
		return nil, false
	}
	// A payload without an equity list is not a snapshot.
	if snap.Stocks == nil {
		s.logger.Warn("stocks snapshot has no equity list", "path", s.stocksPath)
		s.count("stocks", "absent")
		return nil, false
	}
	s.count("stocks", "ok")
	return &snap, true
}

// LoadDerivatives reads the current derivatives snapshot. Absence is normal:
// the collection script only writes it when exchange data was available.
func (s *Store) LoadDerivatives() (*model.DerivativesSnapshot, bool) {
	var snap model.DerivativesSnapshot
	if !s.load(s.derivativesPath, "derivatives", &snap) {
		return nil, false
	}
	if snap.Options == nil {
		s.logger.Warn("derivatives snapshot has no options list", "path", s.derivativesPath)
		s.count("derivatives", "absent")
		return nil, false
	}
	s.count("derivatives", "ok")
	return &snap, true
}

// load reads and parses one snapshot file into dst. Missing files are
// expected before the first regeneration and log at debug; a file that
// exists but cannot be parsed logs a warning so operators can tell the two
// apart, but callers see both as absence.
func (s *Store) load(path, file string, dst any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("snapshot file missing", "file", file, "path", path)
		} else {
			s.logger.Warn("snapshot file unreadable", "file", file, "path", path, "error", err)
		}
		s.count(file, "absent")
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("snapshot file unparseable", "file", file, "path", path, "error", err)
		s.count(file, "absent")
		return false
	}

	return true
}

func (s *Store) count(file, outcome string) {
	if s.metrics != nil {
		s.metrics.SnapshotLoads.WithLabelValues(file, outcome).Inc()
	}
}
