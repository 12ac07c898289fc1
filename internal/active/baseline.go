package active

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/haskel/alpool/internal/model"
	"github.com/haskel/alpool/internal/numeric"
)

// BaselineOptions controls the random-sampling baseline replay.
type BaselineOptions struct {
	// NEvaluation mirrors SearchOptions.NEvaluation.
	NEvaluation int
	// Normalize mirrors SearchOptions.Normalize.
	Normalize Normalization
	// Seed drives the random training-set draws.
	Seed int64
	// Train is passed through to every model fit.
	Train model.TrainConfig
}

// DefaultBaselineOptions returns the standard baseline settings.
func DefaultBaselineOptions() BaselineOptions {
	return BaselineOptions{
		NEvaluation: 3,
		Normalize:   NormalizeAuto(),
		Seed:        90,
	}
}

// RandomSearch replays every completed search round not yet covered by
// the baseline table: for each, it draws a uniformly random training set
// of the same size from the non-test pool, trains and evaluates fresh
// models against the held-out test set, and appends a baseline row.
//
// labels must hold ground truth for the whole pool, aligned with it. The
// call reports false without error when no rounds have completed yet.
func (c *Controller) RandomSearch(labels [][]float64, opts BaselineOptions) (bool, error) {
	if opts.NEvaluation < 1 {
		return false, fmt.Errorf("n_evaluation must be at least 1, got %d", opts.NEvaluation)
	}
	if len(c.results) == 0 {
		c.logger.Warn("no completed rounds to replay; run a search first")
		return false, nil
	}
	if len(c.results) == len(c.baseline) {
		c.logger.Debug("baseline table already up to date", "rounds", len(c.baseline))
		return true, nil
	}

	n := c.PoolSize()
	if len(labels) != n {
		return false, fmt.Errorf("ground-truth labels cover %d candidates, pool has %d", len(labels), n)
	}
	yAll, err := numeric.FromRows(labels)
	if err != nil {
		return false, fmt.Errorf("ground-truth labels: %w", err)
	}
	if _, width := yAll.Dims(); c.labelDim > 0 && width != c.labelDim {
		return false, fmt.Errorf("ground-truth label width %d does not match deposited width %d", width, c.labelDim)
	}

	xScaler, yScaler, err := opts.Normalize.scalers()
	if err != nil {
		return false, err
	}
	pool := c.pool
	if xScaler != nil {
		pool = xScaler.FitTransform(c.pool)
	}

	// Test indices stay fixed; training sets are drawn from the rest.
	inTest := make(map[int]bool, len(c.testIdx))
	for _, i := range c.testIdx {
		inTest[i] = true
	}
	candidates := make([]int, 0, n-len(c.testIdx))
	for i := 0; i < n; i++ {
		if !inTest[i] {
			candidates = append(candidates, i)
		}
	}
	xTe := numeric.Rows(pool, c.testIdx)
	yTe := numeric.Rows(yAll, c.testIdx)

	rng := rand.New(rand.NewSource(opts.Seed))
	replayed := 0
	for _, row := range c.results[len(c.baseline):] {
		size := row.NumTraining
		if size > len(candidates) {
			return false, fmt.Errorf("round %d trained on %d points but only %d non-test candidates exist",
				row.Round, size, len(candidates))
		}
		sample := numeric.SampleWithoutReplacement(rng, len(candidates), size)
		trainIdx := make([]int, size)
		for i, p := range sample {
			trainIdx[i] = candidates[p]
		}
		xTr := numeric.Rows(pool, trainIdx)
		yTr := numeric.Rows(yAll, trainIdx)
		if yScaler != nil {
			yTr = yScaler.FitTransform(yTr)
		}

		eval, err := c.evaluateBaseline(opts, xTr, yTr, xTe, yTe, yScaler)
		if err != nil {
			return false, fmt.Errorf("baseline round %d: %w", row.Round, err)
		}
		c.appendResultRow(&c.baseline, row.Round, size, eval)
		replayed++
	}

	c.logger.Info("baseline replay complete", "rounds", replayed, "total", len(c.baseline))
	return true, nil
}

func (c *Controller) evaluateBaseline(opts BaselineOptions, xTr, yTr, xTe, yTe *mat.Dense, yScaler numeric.Scaler) (*evaluationResult, error) {
	res := &evaluationResult{
		maes:  make([]float64, 0, opts.NEvaluation),
		rmses: make([]float64, 0, opts.NEvaluation),
		r2s:   make([]float64, 0, opts.NEvaluation),
	}
	for it := 0; it < opts.NEvaluation; it++ {
		mdl, err := c.factory.Create()
		if err != nil {
			return nil, fmt.Errorf("evaluation %d: create model: %w", it, err)
		}
		if err := mdl.Fit(xTr, yTr, opts.Train); err != nil {
			return nil, fmt.Errorf("evaluation %d: fit: %w", it, err)
		}
		pred, err := mdl.Predict(xTe)
		if err != nil {
			return nil, fmt.Errorf("evaluation %d: predict test: %w", it, err)
		}
		if yScaler != nil {
			pred = yScaler.InverseTransform(pred)
		}
		res.maes = append(res.maes, numeric.MAE(yTe, pred))
		res.rmses = append(res.rmses, numeric.RMSE(yTe, pred))
		res.r2s = append(res.r2s, numeric.R2(yTe, pred))
	}
	return res, nil
}
