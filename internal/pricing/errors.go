// Package pricing implements the quantitative core of prop pricing: devigging, multi-book
// consensus, monotonic probability curves, fair market line solving and edge sizing.
package pricing

import "errors"

var (
	// ErrInvalidInput indicates input that cannot be priced (empty quotes, zero odds,
	// zero total weight, empty curve points). It is fatal for the market.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConvergenceFailure indicates an iterative solver ran out of budget. Callers
	// recover by falling back to a simpler method.
	ErrConvergenceFailure = errors.New("convergence failure")
)

const (
	// MinProbability and MaxProbability bound every curve evaluation
	MinProbability = 0.01
	MaxProbability = 0.99
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
