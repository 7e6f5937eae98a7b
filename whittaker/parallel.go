package whittaker

import (
	"fmt"
	"time"

	"github.com/YuminosukeSato/scismooth/core/parallel"
	"github.com/YuminosukeSato/scismooth/pkg/errors"
	"github.com/YuminosukeSato/scismooth/pkg/log"
)

// sequentialBatchThreshold is the batch size up to which SmoothParallel does
// not start goroutines.
const sequentialBatchThreshold = 4

// BatchResult is the outcome for one series of a batch.
type BatchResult struct {
	Smoothed []float64
	Err      error
}

// SmoothParallel smooths every series of batch against the same factored
// system. Results are in batch order. A failing series (wrong length,
// non-finite values, a panic) only sets Err of its own entry.
//
// All series see the configuration that was current when the call started.
func (s *Smoother) SmoothParallel(batch [][]float64) []BatchResult {
	start := time.Now()
	results := make([]BatchResult, len(batch))

	snap, err := s.snapshot()
	if err != nil {
		for i := range results {
			results[i].Err = err
		}
		s.logger.Error("batch smoothing failed", err, log.OperationKey, log.OperationSmoothParallel)
		return results
	}

	workers := parallel.Workers(s.nJobs)
	parallel.ParallelizeWithThreshold(len(batch), sequentialBatchThreshold, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			op := fmt.Sprintf("Smoother.SmoothParallel[%d]", i)
			var z []float64
			err := errors.SafeExecute(op, func() error {
				var err error
				z, err = snap.smooth(op, batch[i])
				return err
			})
			results[i] = BatchResult{Smoothed: z, Err: err}
		}
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Debug("batch smoothed",
		log.OperationKey, log.OperationSmoothParallel,
		log.BatchSizeKey, len(batch),
		log.BatchFailedKey, failed,
		log.WorkersKey, workers,
		log.VersionKey, snap.version,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return results
}
