package active

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/haskel/alpool/internal/model"
	"github.com/haskel/alpool/internal/numeric"
)

// EnsemblePolicy selects how the deviation-estimation ensemble resamples
// the training set.
type EnsemblePolicy string

const (
	// EnsembleBootstrap draws training-set-sized samples with replacement.
	EnsembleBootstrap EnsemblePolicy = "bootstrap"
	// EnsembleKFold uses the train portions of shuffled k-fold splits.
	EnsembleKFold EnsemblePolicy = "kfold"
	// EnsembleShuffle uses repeated shuffle splits holding out one point.
	EnsembleShuffle EnsemblePolicy = "shuffle"
)

// IsValid checks if the policy is valid.
func (p EnsemblePolicy) IsValid() bool {
	switch p {
	case EnsembleBootstrap, EnsembleKFold, EnsembleShuffle:
		return true
	}
	return false
}

type normalizeMode int

const (
	normalizeOff normalizeMode = iota
	normalizeAuto
	normalizeCustom
)

// Normalization is the closed set of input-scaling choices for a round:
// off, fresh standard scalers, or a caller-supplied scaler pair.
type Normalization struct {
	mode normalizeMode
	x, y numeric.Scaler
}

// NormalizeOff disables input/label scaling.
func NormalizeOff() Normalization {
	return Normalization{mode: normalizeOff}
}

// NormalizeAuto standardizes features and labels with fresh scalers.
func NormalizeAuto() Normalization {
	return Normalization{mode: normalizeAuto}
}

// NormalizeCustom applies the given feature and label scalers.
func NormalizeCustom(x, y numeric.Scaler) Normalization {
	return Normalization{mode: normalizeCustom, x: x, y: y}
}

func (n Normalization) scalers() (x, y numeric.Scaler, err error) {
	switch n.mode {
	case normalizeOff:
		return nil, nil, nil
	case normalizeAuto:
		return numeric.NewStandardScaler(), numeric.NewStandardScaler(), nil
	case normalizeCustom:
		if n.x == nil || n.y == nil {
			return nil, nil, fmt.Errorf("custom normalization requires both a feature and a label scaler")
		}
		return n.x, n.y, nil
	default:
		return nil, nil, fmt.Errorf("unknown normalization mode")
	}
}

// SearchOptions controls one active-learning search round.
type SearchOptions struct {
	// NEvaluation is how many times the evaluation model is retrained to
	// estimate metric spread and the pool-wide prediction.
	NEvaluation int
	// Ensemble picks the resampling policy for the deviation ensemble.
	// Forced to bootstrap when NEnsemble is 1.
	Ensemble EnsemblePolicy
	// NEnsemble is the deviation-ensemble size.
	NEnsemble int
	// Normalize selects input/label scaling for the round.
	Normalize Normalization
	// NormalizeInternal additionally standardizes the internal deviation
	// and representation matrices used for scoring.
	NormalizeInternal bool
	// Seed drives the round's resampling.
	Seed int64
	// PenaltyCoefficient scales the batch correlation penalty when no
	// model exposes a learning rate; the mean observed learning rate
	// takes precedence otherwise.
	PenaltyCoefficient float64
	// PenaltyDecay geometrically shrinks the penalty coefficient with
	// each pick within a batch. Zero keeps it constant, matching the
	// published B-EMCM formulation.
	PenaltyDecay float64
	// Train is passed through to every model fit in the round.
	Train model.TrainConfig
}

// DefaultSearchOptions returns the standard search settings.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		NEvaluation:        3,
		Ensemble:           EnsembleBootstrap,
		NEnsemble:          4,
		Normalize:          NormalizeAuto(),
		Seed:               90,
		PenaltyCoefficient: 1.0,
	}
}

func (o SearchOptions) validate() error {
	if o.NEvaluation < 1 {
		return fmt.Errorf("n_evaluation must be at least 1, got %d", o.NEvaluation)
	}
	if o.NEnsemble < 1 {
		return fmt.Errorf("n_ensemble must be at least 1, got %d", o.NEnsemble)
	}
	if !o.Ensemble.IsValid() {
		return fmt.Errorf("unknown ensemble policy %q (valid: bootstrap, kfold, shuffle)", o.Ensemble)
	}
	if o.PenaltyDecay < 0 || o.PenaltyDecay >= 1 {
		return fmt.Errorf("penalty decay must be in [0,1), got %f", o.PenaltyDecay)
	}
	return nil
}

// Search runs one evaluation-and-selection round and opens a label
// request for the selected batch. It returns the chosen candidates'
// original pool indices.
//
// All previously requested labels must have been deposited (or ignored)
// first; otherwise the call fails and state is unchanged.
func (c *Controller) Search(opts SearchOptions) ([]int, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !c.ledger.Empty() {
		return nil, fmt.Errorf("%w: %d labels still owed across %d requests",
			ErrPendingQueries, c.ledger.PendingCount(), len(c.ledger.Queries()))
	}
	if len(c.trainIdx) == 0 || len(c.testIdx) == 0 {
		return nil, fmt.Errorf("no committed train/test data; call Initialize and Deposit first")
	}
	if len(c.unlabeled) < c.cfg.BatchSize {
		return nil, fmt.Errorf("only %d unlabeled candidates left, need %d for a batch",
			len(c.unlabeled), c.cfg.BatchSize)
	}

	xScaler, yScaler, err := opts.Normalize.scalers()
	if err != nil {
		return nil, err
	}

	xTr, yTr := c.trainMatrices()
	xTe, yTe := c.testMatrices()

	// The feature scaler is fitted on the whole pool so train, test and
	// candidate features live in one scale.
	pool := c.pool
	if xScaler != nil {
		pool = xScaler.FitTransform(c.pool)
		xTr = xScaler.Transform(xTr)
		xTe = xScaler.Transform(xTe)
		yTr = yScaler.FitTransform(yTr)
	}

	nEnsemble := opts.NEnsemble
	policy := opts.Ensemble
	if nEnsemble == 1 && policy != EnsembleBootstrap {
		c.logger.Debug("ensemble size 1 forces bootstrap resampling", "requested", string(policy))
		policy = EnsembleBootstrap
	}

	// Evaluation phase: repeated fresh trainings estimate the metric
	// spread, the pool-wide prediction and the latent representation.
	eval, err := c.runEvaluations(opts, xTr, yTr, xTe, yTe, pool, yScaler)
	if err != nil {
		return nil, err
	}

	rep := eval.representation
	if opts.NormalizeInternal {
		rep = numeric.NewStandardScaler().FitTransform(rep)
	}

	alpha := opts.PenaltyCoefficient
	if len(eval.learningRates) > 0 {
		alpha, _ = numeric.MeanStd(eval.learningRates)
	}

	deviations, err := c.runEnsemble(opts, policy, nEnsemble, xTr, yTr, pool, yScaler, eval.poolPred)
	if err != nil {
		return nil, err
	}
	if opts.NormalizeInternal {
		deviations = numeric.NewStandardScaler().FitTransform(deviations)
	}

	positions := selectBatch(deviations, rep, c.cfg.BatchSize, alpha, opts.PenaltyDecay, opts.NormalizeInternal, c.logger)

	// Commit the round. Chosen positions index into the unlabeled subset
	// and are mapped back to original pool indices here.
	batch := make([]int, len(positions))
	for i, p := range positions {
		batch[i] = c.unlabeled[p]
	}

	c.yPred = eval.poolPred
	c.appendResultRow(&c.results, c.round+1, len(c.trainIdx), eval)
	c.round++

	tag := fmt.Sprintf("batch #%d", c.round)
	c.ledger.Open(tag, batch)
	c.removeFromUnlabeled(batch)
	c.checkPartition()

	c.logger.Info("search round complete",
		"round", c.round,
		"train_size", len(c.trainIdx),
		"batch", len(batch),
		"mae", c.results[len(c.results)-1].MAE,
	)
	return batch, nil
}

// evaluationResult aggregates the evaluation phase of a round.
type evaluationResult struct {
	maes, rmses, r2s []float64
	poolPred         *mat.Dense // mean pool-wide prediction, N x labelDim
	representation   *mat.Dense // from the repetition with lowest MAE
	learningRates    []float64
}

// runEvaluations trains NEvaluation fresh models, evaluating each on the
// test set and predicting the whole pool. The representation of the
// repetition with the lowest MAE is kept: repetitions need not converge
// to the same feature ordering, so they are never averaged.
func (c *Controller) runEvaluations(opts SearchOptions, xTr, yTr, xTe, yTe, pool *mat.Dense, yScaler numeric.Scaler) (*evaluationResult, error) {
	n := c.PoolSize()
	res := &evaluationResult{
		maes:  make([]float64, 0, opts.NEvaluation),
		rmses: make([]float64, 0, opts.NEvaluation),
		r2s:   make([]float64, 0, opts.NEvaluation),
	}
	xU := numeric.Rows(pool, c.unlabeled)

	var sum *mat.Dense
	bestMAE := math.Inf(1)

	for it := 0; it < opts.NEvaluation; it++ {
		mdl, err := c.factory.Create()
		if err != nil {
			return nil, fmt.Errorf("evaluation %d: create model: %w", it, err)
		}
		if err := mdl.Fit(xTr, yTr, opts.Train); err != nil {
			return nil, fmt.Errorf("evaluation %d: fit: %w", it, err)
		}

		tePred, err := mdl.Predict(xTe)
		if err != nil {
			return nil, fmt.Errorf("evaluation %d: predict test: %w", it, err)
		}
		if yScaler != nil {
			tePred = yScaler.InverseTransform(tePred)
		}
		mae := numeric.MAE(yTe, tePred)
		res.maes = append(res.maes, mae)
		res.rmses = append(res.rmses, numeric.RMSE(yTe, tePred))
		res.r2s = append(res.r2s, numeric.R2(yTe, tePred))

		poolPred, err := mdl.Predict(pool)
		if err != nil {
			return nil, fmt.Errorf("evaluation %d: predict pool: %w", it, err)
		}
		if yScaler != nil {
			poolPred = yScaler.InverseTransform(poolPred)
		}
		if rows, _ := poolPred.Dims(); rows != n {
			panic(fmt.Sprintf("active: pool prediction covers %d of %d candidates", rows, n))
		}
		if sum == nil {
			sum = poolPred
		} else {
			sum.Add(sum, poolPred)
		}

		rep, err := mdl.Representation(xU)
		if err != nil {
			return nil, fmt.Errorf("evaluation %d: representation: %w", it, err)
		}
		if rows, _ := rep.Dims(); rows != len(c.unlabeled) {
			panic(fmt.Sprintf("active: representation has %d rows for %d unlabeled candidates", rows, len(c.unlabeled)))
		}
		if mae < bestMAE {
			bestMAE = mae
			res.representation = rep
		}

		if lr, ok := mdl.(model.LearningRater); ok {
			res.learningRates = append(res.learningRates, lr.LearningRate())
		}
	}

	sum.Scale(1/float64(opts.NEvaluation), sum)
	res.poolPred = sum
	return res, nil
}

// runEnsemble trains one model per resample and stacks the deviations of
// each member's unlabeled-pool prediction from the round's aggregated
// prediction into an (unlabeled x ensemble) matrix.
func (c *Controller) runEnsemble(opts SearchOptions, policy EnsemblePolicy, nEnsemble int, xTr, yTr, pool *mat.Dense, yScaler numeric.Scaler, poolPred *mat.Dense) (*mat.Dense, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	nTrain, _ := xTr.Dims()

	var splits [][]int
	switch policy {
	case EnsembleKFold:
		sets, err := numeric.KFoldTrainSets(rng, nTrain, nEnsemble)
		if err != nil {
			return nil, err
		}
		splits = sets
	case EnsembleShuffle:
		sets, err := numeric.ShuffleSplits(rng, nTrain, nTrain-1, nEnsemble)
		if err != nil {
			return nil, err
		}
		splits = sets
	case EnsembleBootstrap:
		// Drawn lazily below.
	}

	m := len(c.unlabeled)
	xU := numeric.Rows(pool, c.unlabeled)
	deviations := mat.NewDense(m, nEnsemble, nil)

	for j := 0; j < nEnsemble; j++ {
		var sample []int
		if splits != nil {
			sample = splits[j]
		} else {
			sample = numeric.Bootstrap(rng, nTrain)
		}
		xb := numeric.Rows(xTr, sample)
		yb := numeric.Rows(yTr, sample)

		mdl, err := c.factory.Create()
		if err != nil {
			return nil, fmt.Errorf("ensemble %d: create model: %w", j, err)
		}
		if err := mdl.Fit(xb, yb, opts.Train); err != nil {
			return nil, fmt.Errorf("ensemble %d: fit: %w", j, err)
		}

		pred, err := mdl.Predict(xU)
		if err != nil {
			return nil, fmt.Errorf("ensemble %d: predict unlabeled: %w", j, err)
		}
		if yScaler != nil {
			pred = yScaler.InverseTransform(pred)
		}
		if rows, _ := pred.Dims(); rows != m {
			panic(fmt.Sprintf("active: ensemble prediction has %d rows for %d unlabeled candidates", rows, m))
		}

		for i, poolIdx := range c.unlabeled {
			deviations.Set(i, j, poolPred.At(poolIdx, 0)-pred.At(i, 0))
		}
	}
	return deviations, nil
}

func (c *Controller) appendResultRow(table *[]RoundResult, round, trainSize int, eval *evaluationResult) {
	mae, maeStd := numeric.MeanStd(eval.maes)
	rmse, rmseStd := numeric.MeanStd(eval.rmses)
	r2, r2Std := numeric.MeanStd(eval.r2s)
	*table = append(*table, RoundResult{
		Round:       round,
		NumTraining: trainSize,
		NumTest:     len(c.testIdx),
		MAE:         mae,
		MAEStd:      maeStd,
		RMSE:        rmse,
		RMSEStd:     rmseStd,
		R2:          r2,
		R2Std:       r2Std,
	})
}
