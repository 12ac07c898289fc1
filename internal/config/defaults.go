package config

func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:    "",
			Targets: nil,
		},
		Split: SplitConfig{
			TrainSize: 100,
			TestSize:  100,
			BatchSize: 10,
			Seed:      90,
		},
		Search: SearchConfig{
			Rounds:             10,
			NEvaluation:        3,
			Ensemble:           "bootstrap",
			NEnsemble:          4,
			Normalize:          "auto",
			NormalizeInternal:  false,
			Seed:               90,
			PenaltyCoefficient: 1.0,
			PenaltyDecay:       0.0,
			Epochs:             0,
			LearningRate:       0.0,
			L2:                 0.0,
		},
		Baseline: BaselineConfig{
			Enabled:     true,
			NEvaluation: 3,
			Seed:        90,
		},
		Model: ModelConfig{
			Type:         "ridge_rff",
			Features:     128,
			Bandwidth:    1.0,
			Ridge:        1e-3,
			LearningRate: 0.001,
			Seed:         1,
		},
		Output: OutputConfig{
			DataDir: "data",
		},
		Monitoring: MonitoringConfig{
			Enabled:    false,
			IntervalMS: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
