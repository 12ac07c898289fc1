package numeric

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Rows materializes the given rows of m into a fresh matrix. Views are
// built on demand from index sets so large pools are never duplicated
// wholesale; only the working subset is copied.
func Rows(m *mat.Dense, indices []int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		out.SetRow(i, m.RawRowView(idx))
	}
	return out
}

// FromRows builds a dense matrix from a ragged-checked slice of rows.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows given")
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("rows must have at least one column")
	}
	out := mat.NewDense(len(rows), cols, nil)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(r), cols)
		}
		out.SetRow(i, r)
	}
	return out, nil
}

// RowNorm returns the Euclidean norm of row i of m.
func RowNorm(m *mat.Dense, i int) float64 {
	return mat.Norm(m.RowView(i), 2)
}
