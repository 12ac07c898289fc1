package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/alpool/internal/config"
	"github.com/haskel/alpool/internal/logger"
)

var (
	// Global flags
	cfgFile string
	dataDir string
	verbose bool

	// Version info (set from main)
	Version = "0.1.0"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "alpool",
	Short: "Pool-based batch-mode active learning for regression",
	Long: `Alpool selects which candidates from a large unlabeled pool are worth
labeling next. Each round it trains an ensemble of surrogate regressors,
scores every candidate by expected model change with a batch-diversity
penalty, and requests labels for the best batch. A random-sampling
baseline curve is tracked for comparison.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override output data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

// loadConfig resolves the effective configuration from the config file
// and global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Output.DataDir = dataDir
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Logging.Level, logger.Format(cfg.Logging.Format))
}
