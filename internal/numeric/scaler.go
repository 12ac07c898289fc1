package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler transforms feature/label matrices column-wise. Implementations
// must be reusable: Fit (via FitTransform) establishes the parameters,
// Transform and InverseTransform apply them to any matrix with the same
// column count.
type Scaler interface {
	FitTransform(m *mat.Dense) *mat.Dense
	Transform(m *mat.Dense) *mat.Dense
	InverseTransform(m *mat.Dense) *mat.Dense
}

// StandardScaler centers each column to zero mean and scales it to unit
// variance (population variance, matching the usual preprocessing
// convention). Constant columns are centered but left unscaled.
type StandardScaler struct {
	mean []float64
	std  []float64
}

// NewStandardScaler returns an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-column mean and standard deviation.
func (s *StandardScaler) Fit(m *mat.Dense) {
	rows, cols := m.Dims()
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		mean := stat.Mean(col, nil)

		var ss float64
		for _, v := range col {
			d := v - mean
			ss += d * d
		}
		std := 0.0
		if rows > 0 {
			std = ss / float64(rows)
		}
		std = sqrtOrOne(std)

		s.mean[j] = mean
		s.std[j] = std
	}
}

// FitTransform fits the scaler on m and returns the transformed copy.
func (s *StandardScaler) FitTransform(m *mat.Dense) *mat.Dense {
	s.Fit(m)
	return s.Transform(m)
}

// Transform applies (x - mean) / std column-wise and returns a new matrix.
func (s *StandardScaler) Transform(m *mat.Dense) *mat.Dense {
	s.checkFitted(m)
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (m.At(i, j)-s.mean[j])/s.std[j])
		}
	}
	return out
}

// InverseTransform applies x*std + mean column-wise and returns a new matrix.
func (s *StandardScaler) InverseTransform(m *mat.Dense) *mat.Dense {
	s.checkFitted(m)
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(i, j)*s.std[j]+s.mean[j])
		}
	}
	return out
}

func (s *StandardScaler) checkFitted(m *mat.Dense) {
	if s.mean == nil {
		panic("numeric: scaler used before Fit")
	}
	if _, cols := m.Dims(); cols != len(s.mean) {
		panic(fmt.Sprintf("numeric: scaler fitted on %d columns, got %d", len(s.mean), cols))
	}
}

func sqrtOrOne(variance float64) float64 {
	if variance <= 0 {
		return 1
	}
	return math.Sqrt(variance)
}
