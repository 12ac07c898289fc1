package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// RandomFeatureRidge is a two-stage regressor: a fixed random Fourier
// feature map followed by a ridge-regression readout. The feature map is
// the model's linear (penultimate) layer and is what Representation
// exposes. Weights are drawn at construction, so every instance from the
// factory behaves like a freshly initialized network.
type RandomFeatureRidge struct {
	features  int
	bandwidth float64
	ridge     float64
	lr        float64
	seed      int64

	// Lazily sampled on first use, once the input width is known.
	w *mat.Dense // inputDim x features
	b []float64  // features

	beta *mat.Dense // features x outputs, nil until fitted
}

// NewRandomFeatureRidge builds an unfitted model with the given weight seed.
func NewRandomFeatureRidge(cfg Config, seed int64) *RandomFeatureRidge {
	return &RandomFeatureRidge{
		features:  cfg.Features,
		bandwidth: cfg.Bandwidth,
		ridge:     cfg.Ridge,
		lr:        cfg.LearningRate,
		seed:      seed,
	}
}

// Fit solves the regularized least-squares readout over the feature map.
func (m *RandomFeatureRidge) Fit(x, y *mat.Dense, cfg TrainConfig) error {
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

	phi := m.featureMap(x)

	var gram mat.Dense
	gram.Mul(phi.T(), phi)
	for i := 0; i < m.features; i++ {
		gram.Set(i, i, gram.At(i, i)+ridge)
	}

	var rhs mat.Dense
	rhs.Mul(phi.T(), y)

	beta := mat.NewDense(m.features, yc, nil)
	if err := beta.Solve(&gram, &rhs); err != nil {
		return fmt.Errorf("ridge solve failed: %w", err)
	}
	m.beta = beta
	return nil
}

// Predict maps inputs through the feature map and the fitted readout.
func (m *RandomFeatureRidge) Predict(x *mat.Dense) (*mat.Dense, error) {
	if m.beta == nil {
		return nil, fmt.Errorf("model not fitted")
	}
	phi := m.featureMap(x)
	var out mat.Dense
	out.Mul(phi, m.beta)
	rows, cols := out.Dims()
	res := mat.NewDense(rows, cols, nil)
	res.Copy(&out)
	return res, nil
}

// Representation returns the random Fourier feature map for x.
func (m *RandomFeatureRidge) Representation(x *mat.Dense) (*mat.Dense, error) {
	return m.featureMap(x), nil
}

// LearningRate reports the configured training rate.
func (m *RandomFeatureRidge) LearningRate() float64 {
	return m.lr
}

func (m *RandomFeatureRidge) featureMap(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	m.ensureWeights(cols)

	var proj mat.Dense
	proj.Mul(x, m.w)

	scale := math.Sqrt(2 / float64(m.features))
	phi := mat.NewDense(rows, m.features, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < m.features; j++ {
			phi.Set(i, j, scale*math.Cos(proj.At(i, j)+m.b[j]))
		}
	}
	return phi
}

func (m *RandomFeatureRidge) ensureWeights(inputDim int) {
	if m.w != nil {
		if r, _ := m.w.Dims(); r != inputDim {
			panic(fmt.Sprintf("model: input width changed from %d to %d", r, inputDim))
		}
		return
	}
	rng := rand.New(rand.NewSource(m.seed))
	w := mat.NewDense(inputDim, m.features, nil)
	for i := 0; i < inputDim; i++ {
		for j := 0; j < m.features; j++ {
			w.Set(i, j, rng.NormFloat64()/m.bandwidth)
		}
	}
	b := make([]float64, m.features)
	for j := range b {
		b[j] = rng.Float64() * 2 * math.Pi
	}
	m.w = w
	m.b = b
}
