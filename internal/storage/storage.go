package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/haskel/alpool/internal/active"
)

// Snapshot is the persisted state of an experiment run: the committed
// partition, the metric tables and the open label requests, enough to
// resume label collection or regenerate reports without recomputing.
type Snapshot struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`

	Dataset      string   `json:"dataset"`
	Targets      []string `json:"targets,omitempty"`

	TrainIndices   []int `json:"train_indices"`
	TestIndices    []int `json:"test_indices"`
	IgnoredIndices []int `json:"ignored_indices,omitempty"`

	PendingQueries []PendingQuery `json:"pending_queries,omitempty"`

	Results  []active.RoundResult `json:"results"`
	Baseline []active.RoundResult `json:"baseline,omitempty"`
}

// PendingQuery mirrors an open label request.
type PendingQuery struct {
	Tag     string `json:"tag"`
	Indices []int  `json:"indices"`
}

const (
	currentVersion   = 1
	snapshotFileName = "alpool_run.json"
)

// Store persists snapshots under a data directory, one run per dir.
type Store struct {
	dataDir string
	logger  *slog.Logger

	mu sync.Mutex
}

// New creates a Store rooted at dataDir. The directory is created on
// first save.
func New(dataDir string, logger *slog.Logger) *Store {
	return &Store{dataDir: dataDir, logger: logger}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return filepath.Join(s.dataDir, snapshotFileName)
}

// Load reads the snapshot from disk. A missing file is not an error:
// it returns (nil, nil) so callers can start fresh.
func (s *Store) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no existing snapshot, starting fresh", "path", s.Path())
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var snap Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version > currentVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported %d", snap.Version, currentVersion)
	}

	s.logger.Info("loaded snapshot",
		"path", s.Path(),
		"rounds", len(snap.Results),
		"train", len(snap.TrainIndices),
	)
	return &snap, nil
}

// Save writes the snapshot atomically: encode to a temp file in the same
// directory, then rename over the target.
func (s *Store) Save(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}

	snap.Version = currentVersion
	snap.UpdatedAt = time.Now()

	tempPath := s.Path() + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, s.Path()); err != nil {
		os.Remove(tempPath)
		return err
	}

	s.logger.Debug("saved snapshot", "path", s.Path(), "rounds", len(snap.Results))
	return nil
}

// Capture builds a snapshot of the controller's current state.
func Capture(c *active.Controller, datasetPath string, targets []string) *Snapshot {
	snap := &Snapshot{
		Dataset:        datasetPath,
		Targets:        targets,
		TrainIndices:   c.TrainIndices(),
		TestIndices:    c.TestIndices(),
		IgnoredIndices: c.IgnoredIndices(),
		Results:        c.Results(),
		Baseline:       c.BaselineResults(),
	}
	for _, q := range c.Queries() {
		snap.PendingQueries = append(snap.PendingQueries, PendingQuery{Tag: q.Tag, Indices: q.Indices})
	}
	return snap
}
