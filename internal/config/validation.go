package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Split.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("split: %w", err))
	}

	if err := c.Search.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("search: %w", err))
	}

	if err := c.Baseline.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("baseline: %w", err))
	}

	if err := c.Model.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("model: %w", err))
	}

	if err := c.Monitoring.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("monitoring: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}

func (s *SplitConfig) Validate() error {
	var errs []error

	if s.TrainSize < 1 {
		errs = append(errs, fmt.Errorf("train_size must be positive, got %d", s.TrainSize))
	}
	if s.TestSize < 1 {
		errs = append(errs, fmt.Errorf("test_size must be positive, got %d", s.TestSize))
	}
	if s.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", s.BatchSize))
	}

	return errors.Join(errs...)
}

func (s *SearchConfig) Validate() error {
	var errs []error

	if s.Rounds < 0 {
		errs = append(errs, fmt.Errorf("rounds must be non-negative, got %d", s.Rounds))
	}
	if s.NEvaluation < 1 {
		errs = append(errs, fmt.Errorf("n_evaluation must be at least 1, got %d", s.NEvaluation))
	}
	if s.NEnsemble < 1 {
		errs = append(errs, fmt.Errorf("n_ensemble must be at least 1, got %d", s.NEnsemble))
	}

	switch s.Ensemble {
	case "bootstrap", "kfold", "shuffle":
	default:
		errs = append(errs, fmt.Errorf("ensemble must be one of bootstrap, kfold, shuffle, got %q", s.Ensemble))
	}

	switch s.Normalize {
	case "off", "auto":
	default:
		errs = append(errs, fmt.Errorf("normalize must be off or auto, got %q", s.Normalize))
	}

	if s.PenaltyDecay < 0 || s.PenaltyDecay >= 1 {
		errs = append(errs, fmt.Errorf("penalty_decay must be in [0,1), got %f", s.PenaltyDecay))
	}

	return errors.Join(errs...)
}

func (b *BaselineConfig) Validate() error {
	if b.Enabled && b.NEvaluation < 1 {
		return fmt.Errorf("n_evaluation must be at least 1, got %d", b.NEvaluation)
	}
	return nil
}

func (m *ModelConfig) Validate() error {
	var errs []error

	switch m.Type {
	case "linear", "ridge_rff":
	default:
		errs = append(errs, fmt.Errorf("type must be linear or ridge_rff, got %q", m.Type))
	}

	if m.Type == "ridge_rff" {
		if m.Features < 1 {
			errs = append(errs, fmt.Errorf("features must be positive, got %d", m.Features))
		}
		if m.Bandwidth <= 0 {
			errs = append(errs, fmt.Errorf("bandwidth must be positive, got %f", m.Bandwidth))
		}
		if m.Ridge < 0 {
			errs = append(errs, fmt.Errorf("ridge must be non-negative, got %f", m.Ridge))
		}
	}

	return errors.Join(errs...)
}

func (m *MonitoringConfig) Validate() error {
	if m.Enabled && m.IntervalMS < 100 {
		return fmt.Errorf("interval_ms must be at least 100, got %d", m.IntervalMS)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error, got %q", l.Level)
	}
	switch l.Format {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("format must be text or json, got %q", l.Format)
	}
}
