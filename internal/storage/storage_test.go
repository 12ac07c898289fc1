package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/haskel/alpool/internal/active"
	"github.com/haskel/alpool/internal/logger"
)

func TestLoadMissingFile(t *testing.T) {
	s := New(t.TempDir(), logger.Nop())

	snap, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap != nil {
		t.Fatal("missing snapshot must load as nil")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "data"), logger.Nop())

	in := &Snapshot{
		Dataset:      "pool.csv",
		Targets:      []string{"density"},
		TrainIndices: []int{3, 1, 4},
		TestIndices:  []int{5, 9},
		PendingQueries: []PendingQuery{
			{Tag: "batch #1", Indices: []int{2, 6}},
		},
		Results: []active.RoundResult{
			{Round: 1, NumTraining: 3, NumTest: 2, MAE: 0.5, RMSE: 0.7, R2: 0.9},
		},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out == nil {
		t.Fatal("saved snapshot must load back")
	}
	if out.Version != currentVersion {
		t.Errorf("Version = %d, want %d", out.Version, currentVersion)
	}
	if out.UpdatedAt.IsZero() {
		t.Error("UpdatedAt must be stamped on save")
	}
	if out.Dataset != "pool.csv" || len(out.TrainIndices) != 3 || out.TrainIndices[0] != 3 {
		t.Errorf("snapshot fields corrupted: %+v", out)
	}
	if len(out.PendingQueries) != 1 || out.PendingQueries[0].Tag != "batch #1" {
		t.Errorf("pending queries corrupted: %+v", out.PendingQueries)
	}
	if out.Results[0].MAE != 0.5 {
		t.Errorf("results corrupted: %+v", out.Results)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, logger.Nop())

	if err := s.Save(&Snapshot{Dataset: "x.csv"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != snapshotFileName {
		t.Fatalf("data dir contents = %v, want only %s", entries, snapshotFileName)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, logger.Nop())

	content := `{"version": 99, "dataset": "x.csv"}`
	if err := os.WriteFile(s.Path(), []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Load(); err == nil {
		t.Fatal("newer snapshot version must be rejected")
	}
}
