package whittaker

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/scismooth/pkg/errors"
	"github.com/YuminosukeSato/scismooth/pkg/log"
)

// DefaultSerialCorrelationStride is the subsampling stride used when
// SmoothOptimal is asked to break serial correlation.
const DefaultSerialCorrelationStride = 5

// DefaultLambdaGrid spans 1e-2..1e8 in half-decade steps.
var DefaultLambdaGrid = LambdaGrid{Min: 1e-2, Max: 1e8, Steps: 21}

// LambdaGrid is a geometric sequence of candidate λ values.
type LambdaGrid struct {
	Min   float64
	Max   float64
	Steps int
}

// Validate checks 0 < Min < Max, both finite, and Steps >= 2.
func (g LambdaGrid) Validate() error {
	if !(g.Min > 0) || math.IsInf(g.Min, 0) {
		return errors.NewInvalidLambdaError("LambdaGrid.Validate", g.Min)
	}
	if !(g.Max > g.Min) || math.IsInf(g.Max, 0) {
		return errors.NewInvalidLambdaError("LambdaGrid.Validate", g.Max)
	}
	if g.Steps < 2 {
		return errors.Newf("LambdaGrid.Validate: at least 2 steps are required, got %d", g.Steps)
	}
	return nil
}

// Values returns the candidates in ascending order. The endpoints are exact.
func (g LambdaGrid) Values() []float64 {
	values := floats.LogSpan(make([]float64, g.Steps), g.Min, g.Max)
	values[0] = g.Min
	values[g.Steps-1] = g.Max
	return values
}

// settings collects everything an Option can change.
type settings struct {
	xInput    []float64
	weights   []float64
	logger    log.Logger
	nJobs     int
	grid      LambdaGrid
	stride    int
	optionErr error
}

func defaultSettings() *settings {
	return &settings{
		nJobs:  -1,
		grid:   DefaultLambdaGrid,
		stride: DefaultSerialCorrelationStride,
	}
}

// Option configures a Smoother.
type Option func(*settings)

// WithXInput sets the sample positions. The slice is copied.
func WithXInput(x []float64) Option {
	return func(s *settings) {
		s.xInput = cloneFloats(x)
	}
}

// WithWeights sets per-sample weights. The slice is copied.
func WithWeights(w []float64) Option {
	return func(s *settings) {
		s.weights = cloneFloats(w)
	}
}

// WithLogger sets the logger. The default is the "whittaker" component of log.GetLogger.
func WithLogger(l log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithNJobs sets the number of goroutines used by SmoothOptimal and
// SmoothParallel. Values below 1 mean one per CPU.
func WithNJobs(n int) Option {
	return func(s *settings) {
		s.nJobs = n
	}
}

// WithLambdaGrid sets the λ candidates searched by SmoothOptimal.
func WithLambdaGrid(minLambda, maxLambda float64, steps int) Option {
	return func(s *settings) {
		g := LambdaGrid{Min: minLambda, Max: maxLambda, Steps: steps}
		if err := g.Validate(); err != nil {
			s.optionErr = err
			return
		}
		s.grid = g
	}
}

// WithSerialCorrelationStride sets the subsampling stride of the serial
// correlation correction. It must be at least 2.
func WithSerialCorrelationStride(stride int) Option {
	return func(s *settings) {
		if stride < 2 {
			s.optionErr = errors.Newf("WithSerialCorrelationStride: stride must be at least 2, got %d", stride)
			return
		}
		s.stride = stride
	}
}
