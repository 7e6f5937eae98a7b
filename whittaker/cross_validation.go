package whittaker

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scismooth/core/banded"
	"github.com/YuminosukeSato/scismooth/core/parallel"
	"github.com/YuminosukeSato/scismooth/metrics"
	"github.com/YuminosukeSato/scismooth/pkg/errors"
	"github.com/YuminosukeSato/scismooth/pkg/log"
)

// minLeverageComplement floors 1-h so residuals stay finite as λ → 0.
const minLeverageComplement = 1e-12

// CrossValidationResult is one smoothing run together with its
// cross-validation error.
type CrossValidationResult struct {
	// Lambda is the smoothing strength of the run.
	Lambda float64
	// Smoothed is the full-length smoothed series.
	Smoothed []float64
	// CrossValidationError is the root-mean-square leave-one-out residual,
	// weighted by the sample weights.
	CrossValidationError float64
	// SerialCorrelation is the lag-1 autocorrelation of the residuals y-z.
	// Values near 1 suggest the run followed correlated noise.
	SerialCorrelation float64
}

// OptimisedSmoothResult holds every run of a λ sweep in sweep order.
type OptimisedSmoothResult struct {
	ValidationResults []CrossValidationResult
	// OptimalIndex points at the run with the smallest error; ties go to the
	// smaller λ.
	OptimalIndex int
}

// Optimal returns the run with the smallest cross-validation error.
func (r *OptimisedSmoothResult) Optimal() CrossValidationResult {
	return r.ValidationResults[r.OptimalIndex]
}

// All returns every run in sweep order.
func (r *OptimisedSmoothResult) All() []CrossValidationResult {
	return r.ValidationResults
}

// SmoothAndCrossValidate smooths y at the configured λ and reports the
// leave-one-out cross-validation error. Leverages come from the banded
// factorization, so no dense hat matrix is formed.
func (s *Smoother) SmoothAndCrossValidate(y []float64) (*CrossValidationResult, error) {
	const op = "Smoother.SmoothAndCrossValidate"
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := snap.validateY(op, y); err != nil {
		return nil, err
	}
	return crossValidate(snap.sys, snap.cfg.Weights, y)
}

// crossValidate solves sys for y and scores the fit. y is assumed validated.
func crossValidate(sys *banded.System, weights, y []float64) (*CrossValidationResult, error) {
	z, err := sys.Solve(y)
	if err != nil {
		return nil, err
	}
	cve, serial, err := score(sys, weights, y, z)
	if err != nil {
		return nil, err
	}
	return &CrossValidationResult{
		Lambda:               sys.Lambda(),
		Smoothed:             z,
		CrossValidationError: cve,
		SerialCorrelation:    serial,
	}, nil
}

// score returns the cross-validation error and the residual serial
// correlation of the fit z of y.
func score(sys *banded.System, weights, y, z []float64) (cve, serial float64, err error) {
	h := sys.Leverage()
	n := len(y)
	loo := make([]float64, n)
	resid := make([]float64, n)
	for i := 0; i < n; i++ {
		if weights != nil && weights[i] == 0 {
			continue
		}
		resid[i] = y[i] - z[i]
		loo[i] = resid[i] / math.Max(1-h[i], minLeverageComplement)
	}

	var wv *mat.VecDense
	if weights != nil {
		wv = mat.NewVecDense(n, weights)
	}
	cve, err = metrics.WeightedRMS(mat.NewVecDense(n, loo), wv)
	if err != nil {
		return 0, 0, err
	}
	serial, err = metrics.SerialCorrelation(mat.NewVecDense(n, resid), wv)
	if err != nil {
		return 0, 0, err
	}
	return cve, serial, nil
}

// subsample keeps every stride-th sample. The sub-problem's λ is rescaled so
// that the fidelity/penalty balance matches the full series: with even
// spacing a plain difference grows by stride per order; with x positions the
// divided differences already account for spacing.
type subsample struct {
	op      *banded.DifferenceOperator
	weights []float64
	index   []int
	scale   float64
}

func newSubsample(cfg Config, stride int) (*subsample, bool) {
	m := (cfg.Length + stride - 1) / stride
	if m <= cfg.Order {
		return nil, false
	}
	index := make([]int, m)
	for j := range index {
		index[j] = j * stride
	}

	var x, w []float64
	if cfg.XInput != nil {
		x = make([]float64, m)
		for j, i := range index {
			x[j] = cfg.XInput[i]
		}
	}
	observed := m
	if cfg.Weights != nil {
		w = make([]float64, m)
		observed = 0
		for j, i := range index {
			w[j] = cfg.Weights[i]
			if w[j] != 0 {
				observed++
			}
		}
	}
	// fewer than order observations leave a polynomial the penalty cannot see
	if observed < cfg.Order {
		return nil, false
	}

	op, err := banded.NewDifferenceOperator(m, cfg.Order, x)
	if err != nil {
		return nil, false
	}
	scale := 1.0
	if cfg.XInput == nil {
		scale = math.Pow(float64(stride), -2*float64(cfg.Order))
	}
	return &subsample{op: op, weights: w, index: index, scale: scale}, true
}

func (sub *subsample) pick(y []float64) []float64 {
	out := make([]float64, len(sub.index))
	for j, i := range sub.index {
		out[j] = y[i]
	}
	return out
}

// SmoothOptimal smooths y at every λ of the configured grid and returns all
// runs with the index of the one with the smallest cross-validation error.
// The smoother's own λ is not changed.
//
// With breakSerialCorrelation the error of each run is measured on every
// stride-th sample only (see WithSerialCorrelationStride), which stops
// correlated noise from pulling the optimum towards interpolation. The
// smoothed series are always full length. If the subsampled series is too
// short for the order, the uncorrected error is used and a
// SerialCorrelationFallbackWarning is emitted.
//
// Candidates run concurrently; the first failure aborts the sweep.
func (s *Smoother) SmoothOptimal(y []float64, breakSerialCorrelation bool) (*OptimisedSmoothResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	res, _, err := s.sweep("Smoother.SmoothOptimal", snap, y, breakSerialCorrelation)
	return res, err
}

// sweep evaluates every grid λ against snap. It also returns the subsample
// used for scoring, nil when no correction applies.
func (s *Smoother) sweep(op string, snap *snapshot, y []float64, breakSerialCorrelation bool) (*OptimisedSmoothResult, *subsample, error) {
	start := time.Now()
	if err := snap.validateY(op, y); err != nil {
		return nil, nil, err
	}

	var sub *subsample
	if breakSerialCorrelation {
		var ok bool
		if sub, ok = newSubsample(snap.cfg, s.stride); !ok {
			// SetupLogger already routes errors.Warn into zerolog
			errors.Warn(errors.NewSerialCorrelationFallbackWarning(snap.cfg.Length, s.stride, snap.cfg.Order))
		}
	}

	stride := 1
	if sub != nil {
		stride = s.stride
	}

	lambdas := s.grid.Values()
	results := make([]CrossValidationResult, len(lambdas))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(parallel.Workers(s.nJobs))
	for i, lambda := range lambdas {
		i, lambda := i, lambda
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			run, err := snap.evaluate(lambda, y, sub)
			if err != nil {
				return err
			}
			results[i] = *run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("lambda sweep aborted", err, log.OperationKey, log.OperationSmoothOptimal)
		return nil, nil, err
	}

	result := &OptimisedSmoothResult{
		ValidationResults: results,
		OptimalIndex:      optimalIndex(results),
	}
	best := result.Optimal()
	s.logger.Debug("lambda sweep finished",
		log.OperationKey, log.OperationSmoothOptimal,
		log.CandidatesKey, len(lambdas),
		log.StrideKey, stride,
		log.OptimalLambdaKey, best.Lambda,
		log.CVErrorKey, best.CrossValidationError,
		log.SerialCorrelationKey, best.SerialCorrelation,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, sub, nil
}

// evaluate smooths y at lambda, reusing the snapshot's operator.
func (snap *snapshot) evaluate(lambda float64, y []float64, sub *subsample) (*CrossValidationResult, error) {
	sys, err := banded.Assemble(snap.cfg.Weights, snap.op, lambda)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return crossValidate(sys, snap.cfg.Weights, y)
	}

	z, err := sys.Solve(y)
	if err != nil {
		return nil, err
	}
	_, serial, err := score(sys, snap.cfg.Weights, y, z)
	if err != nil {
		return nil, err
	}

	subSys, err := banded.Assemble(sub.weights, sub.op, lambda*sub.scale)
	if err != nil {
		return nil, err
	}
	ySub := sub.pick(y)
	zSub, err := subSys.Solve(ySub)
	if err != nil {
		return nil, err
	}
	cve, _, err := score(subSys, sub.weights, ySub, zSub)
	if err != nil {
		return nil, err
	}
	return &CrossValidationResult{
		Lambda:               lambda,
		Smoothed:             z,
		CrossValidationError: cve,
		SerialCorrelation:    serial,
	}, nil
}

// optimalIndex returns the index of the smallest finite error, preferring the
// smaller λ on ties. NaN errors never win.
func optimalIndex(results []CrossValidationResult) int {
	best := -1
	for i, r := range results {
		e := r.CrossValidationError
		if math.IsNaN(e) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		if e < b.CrossValidationError || (e == b.CrossValidationError && r.Lambda < b.Lambda) {
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return best
}
