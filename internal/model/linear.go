package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearLeastSquares fits an affine map from inputs to outputs by
// regularized least squares. Its Representation is the input itself:
// for a linear model the inputs are the penultimate layer.
type LinearLeastSquares struct {
	ridge float64
	lr    float64

	beta *mat.Dense // (inputDim+1) x outputs, bias in last row
}

// NewLinearLeastSquares builds an unfitted linear model.
func NewLinearLeastSquares(ridge, lr float64) *LinearLeastSquares {
	return &LinearLeastSquares{ridge: ridge, lr: lr}
}

// Fit solves the normal equations over bias-augmented inputs.
func (m *LinearLeastSquares) Fit(x, y *mat.Dense, cfg TrainConfig) error {
	xr, _ := x.Dims()
	yr, yc := y.Dims()
	if xr != yr {
		return fmt.Errorf("row mismatch: %d inputs, %d labels", xr, yr)
	}

	ridge := m.ridge
	if cfg.L2 > 0 {
		ridge = cfg.L2
	}
	if cfg.LearningRate > 0 {
		m.lr = cfg.LearningRate
	}

	aug := augment(x)
	_, ac := aug.Dims()

	var gram mat.Dense
	gram.Mul(aug.T(), aug)
	for i := 0; i < ac; i++ {
		gram.Set(i, i, gram.At(i, i)+ridge)
	}

	var rhs mat.Dense
	rhs.Mul(aug.T(), y)

	beta := mat.NewDense(ac, yc, nil)
	if err := beta.Solve(&gram, &rhs); err != nil {
		return fmt.Errorf("least squares solve failed: %w", err)
	}
	m.beta = beta
	return nil
}

// Predict applies the fitted affine map.
func (m *LinearLeastSquares) Predict(x *mat.Dense) (*mat.Dense, error) {
	if m.beta == nil {
		return nil, fmt.Errorf("model not fitted")
	}
	aug := augment(x)
	var out mat.Dense
	out.Mul(aug, m.beta)
	rows, cols := out.Dims()
	res := mat.NewDense(rows, cols, nil)
	res.Copy(&out)
	return res, nil
}

// Representation returns a copy of the inputs.
func (m *LinearLeastSquares) Representation(x *mat.Dense) (*mat.Dense, error) {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Copy(x)
	return out, nil
}

// LearningRate reports the configured training rate.
func (m *LinearLeastSquares) LearningRate() float64 {
	return m.lr
}

func augment(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, x.At(i, j))
		}
		out.Set(i, cols, 1)
	}
	return out
}
