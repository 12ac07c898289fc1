package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haskel/alpool/internal/config"
	"github.com/haskel/alpool/internal/logger"
)

func writeTestPool(t *testing.T, n int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(11))

	var sb strings.Builder
	sb.WriteString("f1,f2,f3,target\n")
	for i := 0; i < n; i++ {
		a, b, c := rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()
		y := 3*a - 2*b + 0.5*c + 0.05*rng.NormFloat64()
		fmt.Fprintf(&sb, "%f,%f,%f,%f\n", a, b, c, y)
	}

	path := filepath.Join(t.TempDir(), "pool.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("failed to write pool: %v", err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Dataset.Path = writeTestPool(t, 80)
	cfg.Dataset.Targets = []string{"target"}
	cfg.Split = config.SplitConfig{TrainSize: 15, TestSize: 15, BatchSize: 5, Seed: 7}
	cfg.Search.Rounds = 2
	cfg.Search.NEvaluation = 2
	cfg.Search.NEnsemble = 2
	cfg.Model.Type = "linear"
	cfg.Baseline.NEvaluation = 2
	return cfg
}

func TestRunnerFullRun(t *testing.T) {
	r, err := New(testConfig(t), logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var events []RoundEvent
	if err := r.Run(context.Background(), func(e RoundEvent) {
		events = append(events, e)
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d round events, want 2", len(events))
	}
	if events[0].Result.NumTraining != 15 || events[1].Result.NumTraining != 20 {
		t.Errorf("training sizes = %d, %d, want 15, 20",
			events[0].Result.NumTraining, events[1].Result.NumTraining)
	}
	for _, e := range events {
		if len(e.Batch) != 5 {
			t.Errorf("round %d batch size = %d, want 5", e.Round, len(e.Batch))
		}
	}

	ctrl := r.Controller()
	if len(ctrl.Queries()) != 0 {
		t.Errorf("all requests should be answered, still open: %v", ctrl.Queries())
	}
	if got := len(ctrl.TrainIndices()); got != 25 {
		t.Errorf("final training set size = %d, want 25", got)
	}
	if got := len(ctrl.BaselineResults()); got != 2 {
		t.Errorf("baseline rows = %d, want 2", got)
	}

	// Regression on a noisy linear pool should be clearly better than a
	// mean predictor.
	results := ctrl.Results()
	if last := results[len(results)-1]; last.R2 < 0.5 {
		t.Errorf("final R2 = %f, expected a decent linear fit", last.R2)
	}
}

func TestRunnerBaselineDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Baseline.Enabled = false

	r, err := New(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(r.Controller().BaselineResults()); got != 0 {
		t.Errorf("baseline rows = %d, want 0 when disabled", got)
	}
}

func TestRunnerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New(testConfig(t), logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Run(ctx, nil); err == nil {
		t.Fatal("cancelled run must return the context error")
	}
}

func TestRunnerRequiresDataset(t *testing.T) {
	cfg := config.Default()
	if _, err := New(cfg, logger.Nop()); err == nil {
		t.Fatal("missing dataset path must fail")
	}
}
