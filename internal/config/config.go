package config

// Config is the full experiment configuration.
type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset"`
	Split      SplitConfig      `yaml:"split"`
	Search     SearchConfig     `yaml:"search"`
	Baseline   BaselineConfig   `yaml:"baseline"`
	Model      ModelConfig      `yaml:"model"`
	Output     OutputConfig     `yaml:"output"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DatasetConfig points at the candidate pool.
type DatasetConfig struct {
	// Path to a CSV file with a header row.
	Path string `yaml:"path"`
	// Targets names the label columns; every other column is a feature.
	Targets []string `yaml:"targets"`
}

// SplitConfig sizes the initial partition and the per-round budget.
type SplitConfig struct {
	TrainSize int   `yaml:"train_size"`
	TestSize  int   `yaml:"test_size"`
	BatchSize int   `yaml:"batch_size"`
	Seed      int64 `yaml:"seed"`
}

// SearchConfig drives the selection rounds.
type SearchConfig struct {
	// Rounds is how many search/label cycles the run command executes.
	Rounds int `yaml:"rounds"`

	NEvaluation int `yaml:"n_evaluation"`

	// Ensemble policy: bootstrap, kfold, shuffle
	Ensemble  string `yaml:"ensemble"`
	NEnsemble int    `yaml:"n_ensemble"`

	// Normalize: off, auto
	Normalize         string `yaml:"normalize"`
	NormalizeInternal bool   `yaml:"normalize_internal"`

	Seed               int64   `yaml:"seed"`
	PenaltyCoefficient float64 `yaml:"penalty_coefficient"`
	PenaltyDecay       float64 `yaml:"penalty_decay"`

	// Per-fit training options passed through to the model.
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
	L2           float64 `yaml:"l2"`
}

// BaselineConfig drives the random-sampling comparison curve.
type BaselineConfig struct {
	Enabled     bool  `yaml:"enabled"`
	NEvaluation int   `yaml:"n_evaluation"`
	Seed        int64 `yaml:"seed"`
}

// ModelConfig configures the built-in surrogate model factory.
type ModelConfig struct {
	// Type: linear, ridge_rff
	Type string `yaml:"type"`

	// Features is the random-feature width for ridge_rff.
	Features  int     `yaml:"features"`
	Bandwidth float64 `yaml:"bandwidth"`
	Ridge     float64 `yaml:"ridge"`

	LearningRate float64 `yaml:"learning_rate"`
	Seed         int64   `yaml:"seed"`
}

// OutputConfig controls run-state persistence.
type OutputConfig struct {
	DataDir string `yaml:"data_dir"`
}

// MonitoringConfig controls the in-process memory probe.
type MonitoringConfig struct {
	Enabled    bool `yaml:"enabled"`
	IntervalMS int  `yaml:"interval_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
