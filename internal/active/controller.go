package active

import (
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/haskel/alpool/internal/model"
)

// Config holds controller configuration.
type Config struct {
	// TrainSize is the absolute size of the initial training set.
	TrainSize int
	// TestSize is the absolute size of the held-out test set, fixed for
	// all rounds.
	TestSize int
	// BatchSize is how many candidates each search round selects.
	BatchSize int
}

// DefaultConfig returns default controller configuration.
func DefaultConfig() Config {
	return Config{
		TrainSize: 100,
		TestSize:  100,
		BatchSize: 10,
	}
}

// Validate checks the configuration against the pool size.
func (c Config) Validate(poolSize int) error {
	if c.TrainSize < 1 {
		return fmt.Errorf("train size must be positive, got %d", c.TrainSize)
	}
	if c.TestSize < 1 {
		return fmt.Errorf("test size must be positive, got %d", c.TestSize)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.TrainSize >= poolSize || c.TestSize >= poolSize || c.TrainSize+c.TestSize >= poolSize {
		return fmt.Errorf("train size (%d) and test size (%d) and their sum must each be less than the pool size (%d)",
			c.TrainSize, c.TestSize, poolSize)
	}
	return nil
}

// Controller runs pool-based batch-mode active learning for regression.
// It owns the labeled/unlabeled partition of an immutable candidate pool
// and the ledger of outstanding label requests, and drives B-EMCM batch
// selection rounds against a caller-supplied model factory.
//
// Not safe for concurrent use: Initialize, Deposit, Ignore, Search and
// RandomSearch all read-modify-write shared state and must be called
// sequentially by one goroutine.
type Controller struct {
	factory model.Factory
	pool    *mat.Dense
	cfg     Config
	logger  *slog.Logger

	ledger    *Ledger
	trainIdx  []int
	testIdx   []int
	unlabeled []int // pool order; holds only unrequested candidates
	ignored   []int // withdrawn from requests, never labeled or reselectable
	yTrain    [][]float64
	yTest     [][]float64
	labelDim  int // 0 until the first deposit fixes it

	round    int
	yPred    *mat.Dense // pool-wide prediction, refreshed by each Search
	results  []RoundResult
	baseline []RoundResult
}

// New creates a controller over the given candidate pool. The pool is
// held by reference and must not be mutated afterwards.
func New(factory model.Factory, pool *mat.Dense, cfg Config, logger *slog.Logger) (*Controller, error) {
	if factory == nil {
		return nil, fmt.Errorf("model factory is required")
	}
	if pool == nil {
		return nil, fmt.Errorf("candidate pool is required")
	}
	rows, cols := pool.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("candidate pool is empty")
	}
	if err := cfg.Validate(rows); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	unlabeled := make([]int, rows)
	for i := range unlabeled {
		unlabeled[i] = i
	}

	return &Controller{
		factory:   factory,
		pool:      pool,
		cfg:       cfg,
		logger:    logger,
		ledger:    NewLedger(),
		unlabeled: unlabeled,
	}, nil
}

// PoolSize returns the number of candidates in the pool.
func (c *Controller) PoolSize() int {
	rows, _ := c.pool.Dims()
	return rows
}

// Initialize draws the initial train/test split and opens label requests
// for both. Calling it again while those requests are still open is
// idempotent: the same pending indices are returned with a warning.
// Calling it after the split has been committed is an error.
func (c *Controller) Initialize(seed int64) (train, test []int, err error) {
	if !c.ledger.Empty() {
		pendingTrain := c.ledger.PendingFor(TagInitialTrain)
		pendingTest := c.ledger.PendingFor(TagTestSet)
		if len(pendingTrain) > 0 || len(pendingTest) > 0 {
			c.logger.Warn("already initialized; outstanding labels still owed, returning the same pending indices",
				"pending_train", len(pendingTrain),
				"pending_test", len(pendingTest),
			)
			return pendingTrain, pendingTest, nil
		}
	}
	if len(c.trainIdx) != 0 {
		return nil, nil, ErrAlreadyInitialized
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(c.PoolSize())
	train = append([]int(nil), perm[:c.cfg.TrainSize]...)
	test = append([]int(nil), perm[c.cfg.TrainSize:c.cfg.TrainSize+c.cfg.TestSize]...)

	c.ledger.Open(TagInitialTrain, train)
	c.ledger.Open(TagTestSet, test)
	c.removeFromUnlabeled(append(append([]int(nil), train...), test...))

	c.logger.Debug("initialized train/test split",
		"train_size", len(train),
		"test_size", len(test),
		"seed", seed,
	)
	return train, test, nil
}

// Deposit reconciles labeled data against open label requests. Any
// subset of pending indices may be supplied, spanning multiple requests;
// matched indices are committed to the train or test store according to
// the request that owns them. Returns whether any commit occurred.
//
// The call validates everything before mutating, so a returned error
// means the partition state is unchanged.
func (c *Controller) Deposit(indices []int, labels [][]float64) (bool, error) {
	if len(indices) != len(labels) {
		return false, fmt.Errorf("got %d indices but %d labels", len(indices), len(labels))
	}
	if len(indices) == 0 {
		return false, fmt.Errorf("nothing to deposit")
	}

	width := len(labels[0])
	if width == 0 {
		return false, fmt.Errorf("labels must be at least 1-dimensional")
	}
	for i, l := range labels {
		if len(l) != width {
			return false, fmt.Errorf("label %d has %d dimensions, want %d", i, len(l), width)
		}
	}
	if c.labelDim != 0 && width != c.labelDim {
		return false, fmt.Errorf("label dimension %d does not match previously deposited dimension %d", width, c.labelDim)
	}

	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if _, dup := seen[idx]; dup {
			return false, fmt.Errorf("duplicate index %d; duplicates would bias training", idx)
		}
		seen[idx] = struct{}{}
	}

	if c.ledger.Empty() {
		c.logger.Warn("deposit ignored: no open label requests")
		return false, nil
	}

	matched := 0
	for _, idx := range indices {
		if c.ledger.Owns(idx) {
			matched++
		}
	}
	if matched == 0 {
		return false, ErrNoMatch
	}

	for pos, idx := range indices {
		tag, ok := c.ledger.Resolve(idx)
		if !ok {
			continue
		}
		label := append([]float64(nil), labels[pos]...)
		if tag == TagTestSet {
			c.testIdx = append(c.testIdx, idx)
			c.yTest = append(c.yTest, label)
		} else {
			c.trainIdx = append(c.trainIdx, idx)
			c.yTrain = append(c.yTrain, label)
		}
	}
	c.labelDim = width

	c.checkPartition()

	c.logger.Debug("labels deposited",
		"matched", matched,
		"train_total", len(c.trainIdx),
		"test_total", len(c.testIdx),
		"still_pending", c.ledger.PendingCount(),
	)
	return true, nil
}

// Ignore withdraws the given indices from every open label request
// without committing them anywhere. The indices stay out of the
// labeled partition and will not be requested or selected again: an
// explicit stuck state for candidates that turned out infeasible to
// label.
func (c *Controller) Ignore(indices []int) error {
	if c.ledger.Empty() {
		return ErrNoOpenQueries
	}
	for _, idx := range indices {
		if _, ok := c.ledger.Resolve(idx); ok {
			c.ignored = append(c.ignored, idx)
		}
	}
	c.logger.Debug("indices withdrawn from open label requests", "ignored_total", len(c.ignored))
	return nil
}

// Queries returns snapshots of all open label requests.
func (c *Controller) Queries() []Query {
	return c.ledger.Queries()
}

// Round returns the number of completed search rounds.
func (c *Controller) Round() int {
	return c.round
}

// TrainIndices returns the committed training indices in deposit order.
func (c *Controller) TrainIndices() []int {
	return append([]int(nil), c.trainIdx...)
}

// TestIndices returns the committed test indices in deposit order.
func (c *Controller) TestIndices() []int {
	return append([]int(nil), c.testIdx...)
}

// UnlabeledIndices returns the remaining unrequested indices in pool order.
func (c *Controller) UnlabeledIndices() []int {
	return append([]int(nil), c.unlabeled...)
}

// IgnoredIndices returns indices withdrawn via Ignore. They belong to no
// partition set and are never requested again.
func (c *Controller) IgnoredIndices() []int {
	return append([]int(nil), c.ignored...)
}

// YTrain returns the committed training labels, aligned with TrainIndices.
func (c *Controller) YTrain() [][]float64 {
	return copyLabels(c.yTrain)
}

// YTest returns the committed test labels, aligned with TestIndices.
func (c *Controller) YTest() [][]float64 {
	return copyLabels(c.yTest)
}

// YPred returns the latest pool-wide prediction (first output column),
// or nil before the first completed search round. It is refreshed
// wholesale by every Search call and stale once a new round starts.
func (c *Controller) YPred() []float64 {
	if c.yPred == nil {
		return nil
	}
	rows, _ := c.yPred.Dims()
	out := make([]float64, rows)
	mat.Col(out, 0, c.yPred)
	return out
}

// Results returns the active-learning results table.
func (c *Controller) Results() []RoundResult {
	return append([]RoundResult(nil), c.results...)
}

// BaselineResults returns the random-sampling baseline table.
func (c *Controller) BaselineResults() []RoundResult {
	return append([]RoundResult(nil), c.baseline...)
}

// trainMatrices materializes the committed training set. Views are built
// from the index sets on demand rather than cached, so memory stays
// bounded by the working set.
func (c *Controller) trainMatrices() (x, y *mat.Dense) {
	return c.materialize(c.trainIdx, c.yTrain)
}

func (c *Controller) testMatrices() (x, y *mat.Dense) {
	return c.materialize(c.testIdx, c.yTest)
}

func (c *Controller) materialize(indices []int, labels [][]float64) (x, y *mat.Dense) {
	_, cols := c.pool.Dims()
	x = mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		x.SetRow(i, c.pool.RawRowView(idx))
	}
	y = mat.NewDense(len(labels), c.labelDim, nil)
	for i, l := range labels {
		y.SetRow(i, l)
	}
	return x, y
}

// removeFromUnlabeled drops the given indices from the unrequested set,
// preserving pool order.
func (c *Controller) removeFromUnlabeled(indices []int) {
	drop := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		drop[idx] = struct{}{}
	}
	kept := c.unlabeled[:0]
	for _, idx := range c.unlabeled {
		if _, gone := drop[idx]; !gone {
			kept = append(kept, idx)
		}
	}
	c.unlabeled = kept
}

// checkPartition asserts the core bookkeeping invariant: train, test,
// unlabeled, pending and ignored sets are pairwise disjoint (guaranteed
// by construction) and together cover the pool, and the label stores
// stay aligned with their index sets.
func (c *Controller) checkPartition() {
	if len(c.trainIdx) != len(c.yTrain) {
		panic(fmt.Sprintf("active: %d train indices but %d train labels", len(c.trainIdx), len(c.yTrain)))
	}
	if len(c.testIdx) != len(c.yTest) {
		panic(fmt.Sprintf("active: %d test indices but %d test labels", len(c.testIdx), len(c.yTest)))
	}
	total := len(c.trainIdx) + len(c.testIdx) + len(c.unlabeled) + c.ledger.PendingCount() + len(c.ignored)
	if total != c.PoolSize() {
		panic(fmt.Sprintf("active: partition accounts for %d of %d pool indices", total, c.PoolSize()))
	}
}

func copyLabels(labels [][]float64) [][]float64 {
	out := make([][]float64, len(labels))
	for i, l := range labels {
		out[i] = append([]float64(nil), l...)
	}
	return out
}
