package active

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/haskel/alpool/internal/numeric"
)

// selectBatch greedily picks batchSize candidate positions maximizing the
// expected gradient change of each pick, penalized by correlation with
// everything already in the batch. Deviations are (candidates x members),
// representation is (candidates x features); returned positions index
// those rows. With standardize set, every correlation term is
// column-standardized before it joins the accumulator, same as the
// deviations and representation it combines with.
func selectBatch(deviations, rep *mat.Dense, batchSize int, alpha, decay float64, standardize bool, logger *slog.Logger) []int {
	m, members := deviations.Dims()
	repRows, _ := rep.Dims()
	if repRows != m {
		panic("active: deviation and representation row counts disagree")
	}

	// Per-member running correlation penalty, updated once per pick.
	penalties := make([]*mat.Dense, members)

	picked := make([]int, 0, batchSize)
	inBatch := make(map[int]bool, batchSize)
	var initialRanking []int

	coeff := alpha
	for len(picked) < batchSize {
		scores := make([]float64, m)
		for i := 0; i < m; i++ {
			if inBatch[i] {
				scores[i] = math.Inf(-1)
				continue
			}
			ri := rep.RawRowView(i)
			var total float64
			for j := 0; j < members; j++ {
				var norm float64
				if penalties[j] == nil {
					norm = math.Abs(deviations.At(i, j)) * numeric.RowNorm(rep, i)
				} else {
					d := len(ri)
					change := make([]float64, d)
					dev := deviations.At(i, j)
					for k := 0; k < d; k++ {
						change[k] = dev*ri[k] - coeff*penalties[j].At(i, k)
					}
					norm = vecNorm(change)
				}
				total += norm
			}
			scores[i] = total / float64(members)
		}

		if initialRanking == nil {
			initialRanking = topPositions(scores, batchSize)
		}

		best := argmax(scores)
		picked = append(picked, best)
		inBatch[best] = true

		for j := 0; j < members; j++ {
			term := correlationTerm(deviations, rep, best, j)
			if standardize {
				term = numeric.NewStandardScaler().FitTransform(term)
			}
			if penalties[j] == nil {
				penalties[j] = term
			} else {
				penalties[j].Add(penalties[j], term)
			}
		}
		coeff *= 1 - decay
	}

	if decayedIntoInitial(picked, initialRanking) {
		logger.Warn("correlation penalty left the initial ranking unchanged; candidates may be weakly coupled",
			"batch", batchSize)
	}
	return picked
}

// correlationTerm computes, for ensemble member j, each candidate's
// gradient-correlation with the candidate just added to the batch:
// (d_pick . x_pick) projected through every candidate's representation.
func correlationTerm(deviations, rep *mat.Dense, pick, j int) *mat.Dense {
	m, d := rep.Dims()
	pickRow := rep.RawRowView(pick)

	dstar := make([]float64, d)
	dev := deviations.At(pick, j)
	for k := 0; k < d; k++ {
		dstar[k] = dev * pickRow[k]
	}

	term := mat.NewDense(m, d, nil)
	for i := 0; i < m; i++ {
		ri := rep.RawRowView(i)
		var dot float64
		for k := 0; k < d; k++ {
			dot += dstar[k] * ri[k]
		}
		row := term.RawRowView(i)
		for k := 0; k < d; k++ {
			row[k] = dot * ri[k]
		}
	}
	return term
}

func vecNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func argmax(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}

// topPositions returns the positions of the k largest scores.
func topPositions(scores []float64, k int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	if k > len(order) {
		k = len(order)
	}
	return order[:k]
}

func decayedIntoInitial(picked, initial []int) bool {
	set := make(map[int]bool, len(initial))
	for _, i := range initial {
		set[i] = true
	}
	for _, p := range picked {
		if !set[p] {
			return false
		}
	}
	return true
}
