// Package experiment wires a fully labeled dataset into a simulated
// active-learning run: the dataset's labels play the oracle, answering
// every label request the controller opens.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haskel/alpool/internal/active"
	"github.com/haskel/alpool/internal/config"
	"github.com/haskel/alpool/internal/dataset"
	"github.com/haskel/alpool/internal/model"
)

// RoundEvent reports one completed search round.
type RoundEvent struct {
	Round  int
	Batch  []int
	Result active.RoundResult
}

// Runner owns one simulated run over a dataset.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	ds     *dataset.Dataset
	ctrl   *active.Controller
}

// New loads the dataset and assembles the controller.
func New(cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("dataset.path is required")
	}

	ds, err := dataset.LoadCSV(cfg.Dataset.Path, cfg.Dataset.Targets)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	factory, err := model.NewFactory(modelConfig(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("failed to build model factory: %w", err)
	}

	ctrl, err := active.New(factory, ds.X, active.Config{
		TrainSize: cfg.Split.TrainSize,
		TestSize:  cfg.Split.TestSize,
		BatchSize: cfg.Split.BatchSize,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Runner{cfg: cfg, logger: logger, ds: ds, ctrl: ctrl}, nil
}

// Controller exposes the underlying controller for reporting.
func (r *Runner) Controller() *active.Controller { return r.ctrl }

// Dataset exposes the loaded pool.
func (r *Runner) Dataset() *dataset.Dataset { return r.ds }

// Run executes the configured number of rounds, answering every label
// request from the dataset's ground truth. onRound, if non-nil, is
// invoked after each completed round.
func (r *Runner) Run(ctx context.Context, onRound func(RoundEvent)) error {
	train, test, err := r.ctrl.Initialize(r.cfg.Split.Seed)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if err := r.answer(train); err != nil {
		return err
	}
	if err := r.answer(test); err != nil {
		return err
	}

	opts := r.searchOptions()
	for round := 1; round <= r.cfg.Search.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := r.ctrl.Search(opts)
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		if err := r.answer(batch); err != nil {
			return err
		}

		if onRound != nil {
			results := r.ctrl.Results()
			onRound(RoundEvent{
				Round:  round,
				Batch:  batch,
				Result: results[len(results)-1],
			})
		}
	}

	if r.cfg.Baseline.Enabled {
		ok, err := r.ctrl.RandomSearch(r.ds.Y, r.baselineOptions())
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		if !ok {
			r.logger.Warn("baseline replay skipped")
		}
	}

	return nil
}

// answer deposits ground-truth labels for the requested indices.
func (r *Runner) answer(indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	if _, err := r.ctrl.Deposit(indices, r.ds.Labels(indices)); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}

func (r *Runner) searchOptions() active.SearchOptions {
	s := r.cfg.Search
	opts := active.SearchOptions{
		NEvaluation:        s.NEvaluation,
		Ensemble:           active.EnsemblePolicy(s.Ensemble),
		NEnsemble:          s.NEnsemble,
		NormalizeInternal:  s.NormalizeInternal,
		Seed:               s.Seed,
		PenaltyCoefficient: s.PenaltyCoefficient,
		PenaltyDecay:       s.PenaltyDecay,
		Train: model.TrainConfig{
			Epochs:       s.Epochs,
			LearningRate: s.LearningRate,
			L2:           s.L2,
		},
	}
	if s.Normalize == "off" {
		opts.Normalize = active.NormalizeOff()
	} else {
		opts.Normalize = active.NormalizeAuto()
	}
	return opts
}

func (r *Runner) baselineOptions() active.BaselineOptions {
	opts := active.BaselineOptions{
		NEvaluation: r.cfg.Baseline.NEvaluation,
		Seed:        r.cfg.Baseline.Seed,
		Train: model.TrainConfig{
			Epochs:       r.cfg.Search.Epochs,
			LearningRate: r.cfg.Search.LearningRate,
			L2:           r.cfg.Search.L2,
		},
	}
	if r.cfg.Search.Normalize == "off" {
		opts.Normalize = active.NormalizeOff()
	} else {
		opts.Normalize = active.NormalizeAuto()
	}
	return opts
}

func modelConfig(m config.ModelConfig) model.Config {
	return model.Config{
		Type:         model.ModelType(m.Type),
		Features:     m.Features,
		Bandwidth:    m.Bandwidth,
		Ridge:        m.Ridge,
		LearningRate: m.LearningRate,
		Seed:         m.Seed,
	}
}
