package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MAE returns the mean absolute error between truth and prediction,
// averaged over all entries (uniform average across output columns).
func MAE(truth, pred *mat.Dense) float64 {
	checkSameShape(truth, pred)
	rows, cols := truth.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sum += math.Abs(truth.At(i, j) - pred.At(i, j))
		}
	}
	return sum / float64(rows*cols)
}

// RMSE returns the root mean squared error between truth and prediction.
func RMSE(truth, pred *mat.Dense) float64 {
	checkSameShape(truth, pred)
	rows, cols := truth.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := truth.At(i, j) - pred.At(i, j)
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(rows*cols))
}

// R2 returns the coefficient of determination, uniform-averaged across
// output columns. A constant truth column scores 1 when matched exactly
// and 0 otherwise.
func R2(truth, pred *mat.Dense) float64 {
	checkSameShape(truth, pred)
	rows, cols := truth.Dims()

	col := make([]float64, rows)
	var total float64
	for j := 0; j < cols; j++ {
		mat.Col(col, j, truth)
		mean := stat.Mean(col, nil)

		var ssRes, ssTot float64
		for i := 0; i < rows; i++ {
			r := truth.At(i, j) - pred.At(i, j)
			ssRes += r * r
			d := truth.At(i, j) - mean
			ssTot += d * d
		}

		switch {
		case ssTot > 0:
			total += 1 - ssRes/ssTot
		case ssRes == 0:
			total += 1
		}
	}
	return total / float64(cols)
}

// MeanStd returns the arithmetic mean and population standard deviation.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean = stat.Mean(xs, nil)
	var ss float64
	for _, v := range xs {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)))
}

func checkSameShape(a, b *mat.Dense) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		panic(fmt.Sprintf("numeric: shape mismatch (%dx%d vs %dx%d)", ar, ac, br, bc))
	}
}
