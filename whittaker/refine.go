package whittaker

import (
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/scismooth/pkg/errors"
	"github.com/YuminosukeSato/scismooth/pkg/log"
)

const (
	// refineEvaluations caps the objective evaluations of RefineOptimal.
	refineEvaluations = 60
	// refineSimplexSize is the initial simplex edge in decades of λ.
	refineSimplexSize = 0.5
)

// RefineOptimal runs SmoothOptimal and then searches log10(λ) continuously
// around the best grid candidate with Nelder–Mead, staying inside the grid
// range. It returns the better of the grid optimum and the refined λ.
//
// The returned result is a single run; its Lambda need not be a grid value.
// The smoother's own λ is not changed.
func (s *Smoother) RefineOptimal(y []float64, breakSerialCorrelation bool) (*CrossValidationResult, error) {
	start := time.Now()
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	sweep, sub, err := s.sweep("Smoother.RefineOptimal", snap, y, breakSerialCorrelation)
	if err != nil {
		return nil, err
	}
	best := sweep.Optimal()

	lo, hi := math.Log10(s.grid.Min), math.Log10(s.grid.Max)
	clamp := func(v float64) float64 { return errors.ClipValue(v, lo, hi) }

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			run, err := snap.evaluate(math.Pow(10, clamp(x[0])), y, sub)
			if err != nil || math.IsNaN(run.CrossValidationError) {
				return math.Inf(1)
			}
			return run.CrossValidationError
		},
	}
	settings := &optimize.Settings{FuncEvaluations: refineEvaluations}
	method := &optimize.NelderMead{SimplexSize: refineSimplexSize}

	res, err := optimize.Minimize(problem, []float64{math.Log10(best.Lambda)}, settings, method)
	if err != nil {
		s.logger.Warn("lambda refinement stopped early", err,
			log.OperationKey, log.OperationRefineOptimal,
			log.OptimalLambdaKey, best.Lambda,
		)
	}
	if res == nil || !(res.F < best.CrossValidationError) {
		s.logRefined(best, 0, start)
		return &best, nil
	}

	refined, err := snap.evaluate(math.Pow(10, clamp(res.X[0])), y, sub)
	if err != nil || !(refined.CrossValidationError < best.CrossValidationError) {
		s.logRefined(best, res.FuncEvaluations, start)
		return &best, nil
	}
	s.logRefined(*refined, res.FuncEvaluations, start)
	return refined, nil
}

func (s *Smoother) logRefined(r CrossValidationResult, evaluations int, start time.Time) {
	s.logger.Debug("lambda refined",
		log.OperationKey, log.OperationRefineOptimal,
		log.OptimalLambdaKey, r.Lambda,
		log.CVErrorKey, r.CrossValidationError,
		log.EvaluationsKey, evaluations,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
}
