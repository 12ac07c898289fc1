package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/alpool/internal/experiment"
	"github.com/haskel/alpool/internal/monitor"
	"github.com/haskel/alpool/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulated active-learning experiment",
	Long: `Run the configured number of active-learning rounds against a fully
labeled dataset. The dataset's labels act as the oracle: every label
request is answered immediately from ground truth, so the resulting
metric curves show how the selection strategy would have performed.

The run state (partition, metric tables, open requests) is persisted
as a snapshot under the data directory for later reporting.`,
	Example: `  alpool run -c config.yaml
  alpool run -c config.yaml --rounds 25
  alpool run -c config.yaml --no-baseline`,
	RunE: runRun,
}

var (
	runRounds     int
	runNoBaseline bool
)

func init() {
	runCmd.Flags().IntVar(&runRounds, "rounds", 0, "override the number of search rounds")
	runCmd.Flags().BoolVar(&runNoBaseline, "no-baseline", false, "skip the random-sampling baseline replay")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runRounds > 0 {
		cfg.Search.Rounds = runRounds
	}
	if runNoBaseline {
		cfg.Baseline.Enabled = false
	}

	log := buildLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.Enabled {
		probe, err := monitor.NewMemoryProbe(time.Duration(cfg.Monitoring.IntervalMS)*time.Millisecond, log)
		if err != nil {
			log.Warn("memory probe unavailable", "error", err)
		} else {
			probe.Start(ctx)
			defer probe.Stop()
		}
	}

	runner, err := experiment.New(cfg, log)
	if err != nil {
		return err
	}
	log.Info("experiment starting",
		"dataset", cfg.Dataset.Path,
		"pool", runner.Dataset().Size(),
		"rounds", cfg.Search.Rounds,
	)

	start := time.Now()
	runErr := runner.Run(ctx, func(e experiment.RoundEvent) {
		log.Info("round complete",
			"round", e.Round,
			"num_training", e.Result.NumTraining,
			"mae", fmt.Sprintf("%.4f", e.Result.MAE),
			"r2", fmt.Sprintf("%.4f", e.Result.R2),
		)
	})

	// Persist whatever completed, even on an interrupted run.
	store := storage.New(cfg.Output.DataDir, log)
	snap := storage.Capture(runner.Controller(), cfg.Dataset.Path, cfg.Dataset.Targets)
	if err := store.Save(snap); err != nil {
		log.Error("failed to save snapshot", "error", err)
	}

	if runErr != nil {
		return runErr
	}

	log.Info("experiment finished",
		"rounds", runner.Controller().Round(),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"snapshot", store.Path(),
	)

	fmt.Println(renderResults("Active learning", runner.Controller().Results()))
	if baseline := runner.Controller().BaselineResults(); len(baseline) > 0 {
		fmt.Println(renderResults("Random baseline", baseline))
	}
	return nil
}
