// Package scismooth provides Whittaker–Eilers smoothing and interpolation for Go,
// designed for backend services that clean up noisy or gappy series.
//
// The smoother solves the penalized least squares problem
//
//	(W + λ·DᵗD)·z = W·y
//
// where W holds per-sample weights and D is a difference operator of a chosen
// order. The system is banded, so a series of n samples costs O(n·order²).
//
// # Features
//
// - Banded Cholesky solver: factor once, smooth many series
// - Arbitrary sample positions via divided differences
// - Interpolation: a zero weight marks a missing sample
// - Leave-one-out cross validation without forming the hat matrix
// - λ sweep with optional serial correlation correction and refinement
// - Concurrent batch smoothing with per-series errors
//
// # Installation
//
//	go get github.com/YuminosukeSato/scismooth
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scismooth/whittaker"
//	)
//
//	func main() {
//	    y := []float64{1.1, 1.9, 3.1, 3.91, 5.0, 6.02, 7.01, 7.7, 9.0, 10.0}
//
//	    s, err := whittaker.New(2e4, 2, len(y))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    z, err := s.Smooth(y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(z)
//	}
//
// Choosing λ by cross validation:
//
//	res, err := s.SmoothOptimal(y, true)
//	best := res.Optimal()
//	fmt.Println(best.Lambda, best.CrossValidationError)
//
// # Packages
//
//   - whittaker: the Smoother, cross validation, λ search and batch smoothing
//   - core/banded: difference operators, banded assembly, Cholesky and selected inverse
//   - core/model: versioned state shared by smoothers
//   - core/parallel: parallel processing utilities
//   - metrics: residual metrics (RSS, RMSE, weighted RMS, serial correlation)
//   - datasets: sample series for examples and benchmarks
//   - pkg/errors: typed errors and warnings
//   - pkg/log: structured logging on zerolog
//
// # Error Handling
//
// Every failure is a typed error that matches a sentinel with errors.Is:
//
//	_, err := s.Smooth(y)
//	if errors.Is(err, errors.ErrNonFiniteInput) {
//	    // give the sample a zero weight instead
//	}
//
// # License
//
// scismooth is released under the MIT License.
package scismooth
