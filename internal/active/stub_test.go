package active

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/haskel/alpool/internal/model"
)

// stubModel regresses each output column on the row sum of the features.
// It is deliberately crude: cheap to fit, deterministic, and different
// ensemble resamples yield different coefficients, which is all the
// selection tests need.
type stubModel struct {
	coef []float64
	rate float64
}

func (m *stubModel) Fit(x, y *mat.Dense, _ model.TrainConfig) error {
	n, _ := x.Dims()
	yn, w := y.Dims()
	if n != yn {
		return fmt.Errorf("stub: %d feature rows but %d label rows", n, yn)
	}
	m.coef = make([]float64, w)
	var ss float64
	sums := make([]float64, n)
	for i := 0; i < n; i++ {
		sums[i] = rowSum(x, i)
		ss += sums[i] * sums[i]
	}
	if ss == 0 {
		ss = 1
	}
	for k := 0; k < w; k++ {
		var sy float64
		for i := 0; i < n; i++ {
			sy += sums[i] * y.At(i, k)
		}
		m.coef[k] = sy / ss
	}
	return nil
}

func (m *stubModel) Predict(x *mat.Dense) (*mat.Dense, error) {
	if m.coef == nil {
		return nil, fmt.Errorf("stub: predict before fit")
	}
	n, _ := x.Dims()
	out := mat.NewDense(n, len(m.coef), nil)
	for i := 0; i < n; i++ {
		s := rowSum(x, i)
		for k, c := range m.coef {
			out.Set(i, k, c*s)
		}
	}
	return out, nil
}

func (m *stubModel) Representation(x *mat.Dense) (*mat.Dense, error) {
	n, d := x.Dims()
	out := mat.NewDense(n, d, nil)
	out.Copy(x)
	return out, nil
}

func (m *stubModel) LearningRate() float64 { return m.rate }

func rowSum(x *mat.Dense, i int) float64 {
	var s float64
	for _, v := range x.RawRowView(i) {
		s += v
	}
	return s
}

type stubFactory struct {
	created int
}

func (f *stubFactory) Create() (model.Model, error) {
	f.created++
	return &stubModel{rate: 0.05}, nil
}

// newTestPool builds a deterministic random feature matrix and row-sum
// derived ground-truth labels for the whole pool.
func newTestPool(n, d int) (*mat.Dense, [][]float64) {
	rng := rand.New(rand.NewSource(7))
	pool := mat.NewDense(n, d, nil)
	labels := make([][]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			pool.Set(i, j, rng.NormFloat64())
		}
		labels[i] = []float64{2*rowSum(pool, i) + 0.1*rng.NormFloat64()}
	}
	return pool, labels
}

func labelsFor(labels [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = labels[idx]
	}
	return out
}
