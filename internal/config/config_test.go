package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Split.TrainSize != 100 || cfg.Split.TestSize != 100 {
		t.Errorf("expected default split 100/100, got %d/%d", cfg.Split.TrainSize, cfg.Split.TestSize)
	}

	if cfg.Split.BatchSize != 10 {
		t.Errorf("expected default batch size 10, got %d", cfg.Split.BatchSize)
	}

	if cfg.Search.Ensemble != "bootstrap" {
		t.Errorf("expected default ensemble bootstrap, got %s", cfg.Search.Ensemble)
	}

	if cfg.Model.Type != "ridge_rff" {
		t.Errorf("expected default model ridge_rff, got %s", cfg.Model.Type)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	content := `
dataset:
  path: "pool.csv"
  targets: ["density"]

split:
  train_size: 50
  batch_size: 5

search:
  ensemble: "kfold"
  n_ensemble: 6

logging:
  level: "debug"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Dataset.Path != "pool.csv" {
		t.Errorf("expected dataset path pool.csv, got %s", cfg.Dataset.Path)
	}

	if len(cfg.Dataset.Targets) != 1 || cfg.Dataset.Targets[0] != "density" {
		t.Errorf("expected targets [density], got %v", cfg.Dataset.Targets)
	}

	if cfg.Split.TrainSize != 50 || cfg.Split.BatchSize != 5 {
		t.Errorf("expected split 50/5, got %d/%d", cfg.Split.TrainSize, cfg.Split.BatchSize)
	}

	if cfg.Search.Ensemble != "kfold" || cfg.Search.NEnsemble != 6 {
		t.Errorf("expected kfold/6 ensemble, got %s/%d", cfg.Search.Ensemble, cfg.Search.NEnsemble)
	}

	// Defaults are preserved for unspecified values
	if cfg.Split.TestSize != 100 {
		t.Errorf("expected default test size 100, got %d", cfg.Split.TestSize)
	}

	if cfg.Search.NEvaluation != 3 {
		t.Errorf("expected default n_evaluation 3, got %d", cfg.Search.NEvaluation)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	content := `
search:
  ensemble: "jackknife"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected validation error for unknown ensemble policy")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault with empty path: %v", err)
	}
	if cfg.Split.TrainSize != 100 {
		t.Errorf("expected default config, got train size %d", cfg.Split.TrainSize)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	os.Setenv("ALPOOL_TEST_DATASET", "from_env.csv")
	defer os.Unsetenv("ALPOOL_TEST_DATASET")

	content := `
dataset:
  path: "${ALPOOL_TEST_DATASET}"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Dataset.Path != "from_env.csv" {
		t.Errorf("expected env-substituted path, got %s", cfg.Dataset.Path)
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("ALPOOL_TEST_VAR", "test_value")
	defer os.Unsetenv("ALPOOL_TEST_VAR")

	if got := expandEnv([]byte("value: ${ALPOOL_TEST_VAR}")); string(got) != "value: test_value" {
		t.Errorf("expected substituted value, got %q", got)
	}

	os.Unsetenv("ALPOOL_NONEXISTENT_VAR")
	input := "value: ${ALPOOL_NONEXISTENT_VAR}"
	if got := expandEnv([]byte(input)); string(got) != input {
		t.Errorf("unset variables must stay untouched, got %q", got)
	}

	plain := "value: plain_text"
	if got := expandEnv([]byte(plain)); string(got) != plain {
		t.Errorf("plain text must pass through, got %q", got)
	}
}
