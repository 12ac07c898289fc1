package config

import "testing"

func TestValidateSplit(t *testing.T) {
	cfg := Default()
	cfg.Split.TrainSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero train size")
	}

	cfg = Default()
	cfg.Split.BatchSize = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative batch size")
	}
}

func TestValidateSearch(t *testing.T) {
	cfg := Default()
	cfg.Search.NEvaluation = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero n_evaluation")
	}

	cfg = Default()
	cfg.Search.Normalize = "zscore"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown normalize mode")
	}

	cfg = Default()
	cfg.Search.PenaltyDecay = 1.0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for penalty decay of 1")
	}
}

func TestValidateModel(t *testing.T) {
	cfg := Default()
	cfg.Model.Type = "forest"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown model type")
	}

	cfg = Default()
	cfg.Model.Features = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero feature width")
	}

	// Linear ignores the RFF knobs entirely.
	cfg = Default()
	cfg.Model.Type = "linear"
	cfg.Model.Features = 0
	cfg.Model.Bandwidth = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("linear model must not validate RFF fields: %v", err)
	}
}

func TestValidateMonitoring(t *testing.T) {
	cfg := Default()
	cfg.Monitoring.Enabled = true
	cfg.Monitoring.IntervalMS = 10
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sub-100ms probe interval")
	}

	cfg = Default()
	cfg.Monitoring.Enabled = false
	cfg.Monitoring.IntervalMS = 10
	if err := cfg.Validate(); err != nil {
		t.Errorf("interval is irrelevant while disabled: %v", err)
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log format")
	}
}
