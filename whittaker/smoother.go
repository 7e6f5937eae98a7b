// Package whittaker implements the Whittaker–Eilers smoother: penalized least
// squares with a banded difference penalty, cross validation over the
// smoothing strength and batch smoothing of many series.
package whittaker

import (
	"time"

	"github.com/YuminosukeSato/scismooth/core/banded"
	"github.com/YuminosukeSato/scismooth/core/model"
	"github.com/YuminosukeSato/scismooth/pkg/errors"
	"github.com/YuminosukeSato/scismooth/pkg/log"
)

// Smoother owns a configuration and the factored system built from it.
//
// All methods are safe for concurrent use. Solves run against an immutable
// snapshot taken under a read lock; updates take the write lock, bump the
// version and leave the rebuild to the next read.
type Smoother struct {
	state *model.StateManager

	// guarded by state
	cfg  Config
	op   *banded.DifferenceOperator // nil after an order change
	snap *snapshot

	logger log.Logger
	nJobs  int
	grid   LambdaGrid
	stride int
}

var _ model.StatefulSmoother = (*Smoother)(nil)

// snapshot is everything a solve needs. It is never mutated once published.
type snapshot struct {
	cfg     Config
	op      *banded.DifferenceOperator
	sys     *banded.System
	version uint64
}

// New creates a Smoother for series of the given length and factors its
// system immediately.
//
//	s, err := whittaker.New(2e4, 2, len(y), whittaker.WithWeights(w))
//	z, err := s.Smooth(y)
func New(lambda float64, order, length int, opts ...Option) (*Smoother, error) {
	set := defaultSettings()
	for _, opt := range opts {
		opt(set)
	}
	cfg := Config{
		Lambda:  lambda,
		Order:   order,
		Length:  length,
		XInput:  set.xInput,
		Weights: set.weights,
	}
	return newSmoother("whittaker.New", cfg, set)
}

// NewFromConfig creates a Smoother from cfg. WithXInput and WithWeights
// override the corresponding fields of cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Smoother, error) {
	set := defaultSettings()
	for _, opt := range opts {
		opt(set)
	}
	cfg = cfg.clone()
	if set.xInput != nil {
		cfg.XInput = set.xInput
	}
	if set.weights != nil {
		cfg.Weights = set.weights
	}
	return newSmoother("whittaker.NewFromConfig", cfg, set)
}

func newSmoother(op string, cfg Config, set *settings) (*Smoother, error) {
	if set.optionErr != nil {
		return nil, errors.Wrap(set.optionErr, op)
	}
	if err := cfg.validate(op); err != nil {
		return nil, err
	}
	logger := set.logger
	if logger == nil {
		logger = log.GetLoggerWithName("whittaker")
	}

	s := &Smoother{
		state:  model.NewStateManager(),
		cfg:    cfg,
		logger: logger,
		nJobs:  set.nJobs,
		grid:   set.grid,
		stride: set.stride,
	}
	if _, err := s.snapshot(); err != nil {
		return nil, err
	}
	return s, nil
}

// snapshot returns the current snapshot, rebuilding it first if an update
// made it stale.
func (s *Smoother) snapshot() (*snapshot, error) {
	var snap *snapshot
	_ = s.state.WithState(func(stale bool) error {
		if !stale {
			snap = s.snap
		}
		return nil
	})
	if snap != nil {
		return snap, nil
	}

	err := s.state.Rebuild(func(stale bool) error {
		if !stale {
			snap = s.snap
			return nil
		}
		built, err := s.build()
		if err != nil {
			return err
		}
		s.snap = built
		snap = built
		return nil
	})
	return snap, err
}

// build assembles and factors the system for s.cfg. Called with the write lock held.
func (s *Smoother) build() (*snapshot, error) {
	start := time.Now()
	cfg := s.cfg
	if s.op == nil {
		op, err := banded.NewDifferenceOperator(cfg.Length, cfg.Order, cfg.XInput)
		if err != nil {
			return nil, err
		}
		s.op = op
	}
	sys, err := banded.Assemble(cfg.Weights, s.op, cfg.Lambda)
	if err != nil {
		s.logger.Error("system rebuild failed", err,
			log.LambdaKey, cfg.Lambda,
			log.OrderKey, cfg.Order,
			log.DataLengthKey, cfg.Length,
		)
		return nil, err
	}
	s.logger.Debug("system rebuilt",
		log.OperationKey, log.OperationRebuild,
		log.VersionKey, s.state.VersionLocked(),
		log.LambdaKey, cfg.Lambda,
		log.OrderKey, cfg.Order,
		log.DataLengthKey, cfg.Length,
		log.BandwidthKey, sys.Bandwidth(),
		log.WeightedKey, cfg.Weights != nil,
		log.UniformKey, cfg.XInput == nil,
		log.PivotRatioKey, sys.Factor().PivotRatio(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return &snapshot{cfg: cfg, op: s.op, sys: sys, version: s.state.VersionLocked()}, nil
}

// Smooth returns the smoothed series z solving (W + λ·DᵗD)·z = W·y.
//
// y must have the configured length. NaN or Inf is rejected except at
// positions whose weight is zero; those are interpolated.
func (s *Smoother) Smooth(y []float64) ([]float64, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.smooth("Smoother.Smooth", y)
}

func (snap *snapshot) validateY(op string, y []float64) error {
	if len(y) != snap.cfg.Length {
		return errors.NewLengthMismatchError(op, "y", snap.cfg.Length, len(y))
	}
	return errors.CheckFinite(op, "y", y, snap.cfg.Weights)
}

func (snap *snapshot) smooth(op string, y []float64) ([]float64, error) {
	if err := snap.validateY(op, y); err != nil {
		return nil, err
	}
	return snap.sys.Solve(y)
}

// Lambda returns the configured smoothing strength.
func (s *Smoother) Lambda() float64 {
	var v float64
	_ = s.state.WithState(func(bool) error { v = s.cfg.Lambda; return nil })
	return v
}

// Order returns the configured difference order.
func (s *Smoother) Order() int {
	var v int
	_ = s.state.WithState(func(bool) error { v = s.cfg.Order; return nil })
	return v
}

// Length returns the series length the smoother accepts.
func (s *Smoother) Length() int {
	var v int
	_ = s.state.WithState(func(bool) error { v = s.cfg.Length; return nil })
	return v
}

// XInput returns a copy of the sample positions, or nil for even spacing.
func (s *Smoother) XInput() []float64 {
	var v []float64
	_ = s.state.WithState(func(bool) error { v = cloneFloats(s.cfg.XInput); return nil })
	return v
}

// Weights returns a copy of the weights, or nil for unit weights.
func (s *Smoother) Weights() []float64 {
	var v []float64
	_ = s.state.WithState(func(bool) error { v = cloneFloats(s.cfg.Weights); return nil })
	return v
}

// Config returns a copy of the current configuration.
func (s *Smoother) Config() Config {
	var v Config
	_ = s.state.WithState(func(bool) error { v = s.cfg.clone(); return nil })
	return v
}

// Version returns the configuration version. It starts at 1 and grows by one
// with every successful update.
func (s *Smoother) Version() uint64 {
	return s.state.Version()
}

// UpdateLambda replaces λ. The system is rebuilt on the next read; the
// difference operator is reused.
func (s *Smoother) UpdateLambda(lambda float64) error {
	if err := validateLambda("Smoother.UpdateLambda", lambda); err != nil {
		return err
	}
	return s.state.WithStateMut(func() error {
		s.cfg.Lambda = lambda
		return nil
	})
}

// UpdateOrder replaces the difference order. Both the operator and the
// system are rebuilt on the next read.
func (s *Smoother) UpdateOrder(order int) error {
	return s.state.WithStateMut(func() error {
		if err := validateOrder("Smoother.UpdateOrder", order, s.cfg.Length); err != nil {
			return err
		}
		s.cfg.Order = order
		s.op = nil
		return nil
	})
}

// UpdateWeights replaces the weights; nil restores unit weights. The slice is
// copied. The system is rebuilt on the next read.
func (s *Smoother) UpdateWeights(weights []float64) error {
	weights = cloneFloats(weights)
	return s.state.WithStateMut(func() error {
		if err := validateWeights("Smoother.UpdateWeights", weights, s.cfg.Length); err != nil {
			return err
		}
		s.cfg.Weights = weights
		return nil
	})
}
