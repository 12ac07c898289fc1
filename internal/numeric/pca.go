package numeric

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ProjectPCA projects m onto its first k principal components and returns
// the (rows x k) score matrix.
func ProjectPCA(m *mat.Dense, k int) (*mat.Dense, error) {
	rows, cols := m.Dims()
	if k < 1 || k > cols {
		return nil, fmt.Errorf("pca: component count %d out of range [1,%d]", k, cols)
	}
	if rows < 2 {
		return nil, fmt.Errorf("pca: need at least 2 rows, got %d", rows)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, fmt.Errorf("pca: decomposition failed")
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	// Center before projecting; PrincipalComponents centers internally
	// but does not return the centered data.
	means := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		means[j] = stat.Mean(col, nil)
	}
	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, m.At(i, j)-means[j])
		}
	}

	var scores mat.Dense
	scores.Mul(centered, vectors.Slice(0, cols, 0, k))

	out := mat.NewDense(rows, k, nil)
	out.Copy(&scores)
	return out, nil
}
