// Package log defines standard attribute keys for smoothing operations.
//
// Keys follow a hierarchical naming convention ("smoother.lambda",
// "cv.error") so that log output can be filtered by prefix.

package log

// Smoother configuration
const (
	// LambdaKey records the smoothing parameter λ of a solve or candidate.
	LambdaKey = "smoother.lambda"

	// OrderKey records the order of the difference penalty.
	OrderKey = "smoother.order"

	// VersionKey records the configuration version of a smoother.
	VersionKey = "smoother.version"

	// WeightedKey is true when per-sample weights are configured.
	WeightedKey = "smoother.weighted"

	// UniformKey is true when no x coordinates are configured.
	UniformKey = "smoother.uniform"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "whittaker", "banded"
	ComponentKey = "component"

	// OperationKey names the public operation being performed.
	OperationKey = "operation"
)

// Data shape
const (
	// DataLengthKey records the number of samples in a series.
	DataLengthKey = "data.length"

	// BandwidthKey records the half-bandwidth of a banded system.
	BandwidthKey = "data.bandwidth"
)

// Cross validation
const (
	// CVErrorKey records a cross-validation error.
	CVErrorKey = "cv.error"

	// CandidatesKey records the number of λ values in a sweep.
	CandidatesKey = "cv.candidates"

	// OptimalLambdaKey records the λ chosen by a sweep.
	OptimalLambdaKey = "cv.optimal_lambda"

	// StrideKey records the subsampling stride of the serial-correlation correction.
	StrideKey = "cv.stride"

	// SerialCorrelationKey records the lag-1 autocorrelation of residuals.
	SerialCorrelationKey = "cv.serial_correlation"
)

// Batch smoothing
const (
	// BatchSizeKey records the number of series in a batch.
	BatchSizeKey = "batch.size"

	// BatchFailedKey records how many series of a batch failed.
	BatchFailedKey = "batch.failed"

	// WorkersKey records the number of workers used.
	WorkersKey = "batch.workers"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// PivotRatioKey records max/min pivot spread of a factorization.
	PivotRatioKey = "perf.pivot_ratio"

	// EvaluationsKey records objective evaluations of a refinement.
	EvaluationsKey = "perf.evaluations"
)

// Error and warning context
const (
	// ErrorTypeKey categorizes the type of error or warning.
	// Examples: "SingularSystemError", "IllConditionedWarning"
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Populated by the zerolog backend for errors created by cockroachdb/errors.
	StacktraceKey = "error.stacktrace"

	// ErrorDetailKey holds the structured fields of a typed error.
	ErrorDetailKey = "error.detail"
)

// Standard operation names.
const (
	OperationSmooth         = "smooth"
	OperationCrossValidate  = "smooth_and_cross_validate"
	OperationSmoothOptimal  = "smooth_optimal"
	OperationRefineOptimal  = "refine_optimal"
	OperationSmoothParallel = "smooth_parallel"
	OperationRebuild        = "rebuild"
)
