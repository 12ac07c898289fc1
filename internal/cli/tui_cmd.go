package cli

import (
	"github.com/spf13/cobra"

	"github.com/haskel/alpool/internal/cli/tui"
	"github.com/haskel/alpool/internal/experiment"
	"github.com/haskel/alpool/internal/logger"
	"github.com/haskel/alpool/internal/storage"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run an experiment with a live dashboard",
	Long: `Run the configured experiment while watching round-by-round metrics
in an interactive terminal dashboard. The snapshot is saved on exit,
whether the run finished or was cancelled.`,
	Example: `  alpool tui -c config.yaml
  alpool tui -c config.yaml --data-dir data`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Structured log output would fight the dashboard for the terminal.
	log := logger.Nop()

	runner, err := experiment.New(cfg, log)
	if err != nil {
		return err
	}

	tuiErr := tui.Run(tui.Config{
		Runner: runner,
		Rounds: cfg.Search.Rounds,
	})

	store := storage.New(cfg.Output.DataDir, log)
	snap := storage.Capture(runner.Controller(), cfg.Dataset.Path, cfg.Dataset.Targets)
	if err := store.Save(snap); err != nil {
		return err
	}
	return tuiErr
}
