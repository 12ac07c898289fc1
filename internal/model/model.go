package model

import "gonum.org/v1/gonum/mat"

// ModelType represents the type of surrogate regressor.
type ModelType string

const (
	ModelTypeLinear   ModelType = "linear"
	ModelTypeRidgeRFF ModelType = "ridge_rff"
)

// IsValid checks if the model type is valid.
func (m ModelType) IsValid() bool {
	switch m {
	case ModelTypeLinear, ModelTypeRidgeRFF:
		return true
	}
	return false
}

// String returns string representation.
func (m ModelType) String() string {
	return string(m)
}

// TrainConfig carries per-fit training options. Models interpret the
// fields they understand and ignore the rest, so external adapters can
// pass it through unchanged.
type TrainConfig struct {
	// Epochs bounds iterative trainers. Closed-form models ignore it.
	Epochs int
	// LearningRate overrides the model's configured rate for this fit.
	LearningRate float64
	// L2 overrides the ridge penalty for this fit.
	L2 float64
}

// Model is a trainable regressor. A fresh instance is created per
// training run; Fit must fully train the model before returning.
//
// Representation returns the model's penultimate (linear) feature map for
// the given inputs. It must be deterministic for a fixed trained model
// and fixed input, and its first dimension must equal the input's row
// count.
type Model interface {
	Fit(x, y *mat.Dense, cfg TrainConfig) error
	Predict(x *mat.Dense) (*mat.Dense, error)
	Representation(x *mat.Dense) (*mat.Dense, error)
}

// LearningRater is implemented by models that expose a training-rate
// signal. The selection engine folds the mean observed rate into the
// batch correlation penalty when available.
type LearningRater interface {
	LearningRate() float64
}

// Factory creates fresh model instances with independent random weights.
type Factory interface {
	Create() (Model, error)
}
