package model

import (
	"fmt"
	"math/rand"
)

// Config holds model configuration.
type Config struct {
	Type ModelType

	// RidgeRFF params
	Features  int
	Bandwidth float64

	// Shared regression params
	Ridge        float64
	LearningRate float64

	// Seed for weight initialization. Each Create() draws a fresh
	// sub-seed so repeated instances differ but the sequence is
	// reproducible.
	Seed int64
}

// DefaultConfig returns default model configuration.
func DefaultConfig() Config {
	return Config{
		Type:         ModelTypeRidgeRFF,
		Features:     128,
		Bandwidth:    1.0,
		Ridge:        1e-3,
		LearningRate: 0.001,
		Seed:         1,
	}
}

// StdFactory creates the built-in surrogate regressors.
type StdFactory struct {
	config Config
	rng    *rand.Rand
}

// NewFactory creates a new model factory.
func NewFactory(cfg Config) (*StdFactory, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("unknown model type: %s", cfg.Type)
	}
	if cfg.Type == ModelTypeRidgeRFF {
		if cfg.Features < 1 {
			return nil, fmt.Errorf("ridge_rff requires at least 1 feature, got %d", cfg.Features)
		}
		if cfg.Bandwidth <= 0 {
			return nil, fmt.Errorf("ridge_rff bandwidth must be positive, got %f", cfg.Bandwidth)
		}
	}
	if cfg.Ridge < 0 {
		return nil, fmt.Errorf("ridge penalty must be non-negative, got %f", cfg.Ridge)
	}
	return &StdFactory{
		config: cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Create creates a fresh model with independent random weights.
func (f *StdFactory) Create() (Model, error) {
	switch f.config.Type {
	case ModelTypeLinear:
		return NewLinearLeastSquares(f.config.Ridge, f.config.LearningRate), nil

	case ModelTypeRidgeRFF:
		return NewRandomFeatureRidge(f.config, f.rng.Int63()), nil

	default:
		return nil, fmt.Errorf("unknown model type: %s", f.config.Type)
	}
}
