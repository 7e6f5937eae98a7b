package whittaker

import (
	"math"

	"github.com/YuminosukeSato/scismooth/core/banded"
	"github.com/YuminosukeSato/scismooth/pkg/errors"
)

// Config holds the parameters of a Smoother.
//
// XInput and Weights are optional. A nil XInput means evenly spaced samples
// 0..Length-1 with a plain difference penalty. A nil Weights means every
// sample has weight 1. A zero weight marks a missing sample, which the
// smoother interpolates.
type Config struct {
	// Lambda is the smoothing strength, finite and >= 0.
	Lambda float64
	// Order is the difference order of the penalty, 1 <= Order < Length.
	Order int
	// Length is the number of samples in every series.
	Length int
	// XInput are the sample positions, strictly increasing and finite.
	XInput []float64
	// Weights are per-sample weights, finite and >= 0.
	Weights []float64
}

// Validate checks the configuration without building anything.
func (c Config) Validate() error {
	return c.validate("Config.Validate")
}

func (c Config) validate(op string) error {
	if err := validateLambda(op, c.Lambda); err != nil {
		return err
	}
	if err := validateOrder(op, c.Order, c.Length); err != nil {
		return err
	}
	if c.XInput != nil {
		if len(c.XInput) != c.Length {
			return errors.NewLengthMismatchError(op, "x_input", c.Length, len(c.XInput))
		}
		if err := banded.ValidateXInput(op, c.XInput); err != nil {
			return err
		}
	}
	return validateWeights(op, c.Weights, c.Length)
}

func validateLambda(op string, lambda float64) error {
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return errors.NewInvalidLambdaError(op, lambda)
	}
	return nil
}

func validateOrder(op string, order, length int) error {
	if order < 1 || order >= length {
		return errors.NewInvalidOrderError(op, order, length)
	}
	return nil
}

func validateWeights(op string, weights []float64, length int) error {
	if weights == nil {
		return nil
	}
	if len(weights) != length {
		return errors.NewLengthMismatchError(op, "weights", length, len(weights))
	}
	if err := errors.CheckFinite(op, "weights", weights, nil); err != nil {
		return err
	}
	for i, w := range weights {
		if w < 0 {
			return errors.NewInvalidWeightError(op, i, w)
		}
	}
	return nil
}

// clone returns a copy that shares no slices with c.
func (c Config) clone() Config {
	c.XInput = cloneFloats(c.XInput)
	c.Weights = cloneFloats(c.Weights)
	return c
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
