package pricing

import (
	"errors"
	"fmt"
	"math"
)

// Method selects the devig algorithm
type Method string

const (
	MethodMultiplicative Method = "multiplicative"
	MethodShin           Method = "shin"
)

const (
	shinMaxIterations  = 100
	shinTolerance      = 1e-8
	shinMaxZ           = 0.2
	shinDerivativeStep = 1e-7
)

// ParseMethod converts a config string to a Method
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodMultiplicative, MethodShin:
		return Method(s), nil
	case "":
		return MethodMultiplicative, nil
	default:
		return "", fmt.Errorf("%w: unknown devig method %q", ErrInvalidInput, s)
	}
}

// DevigResult holds vig-free probabilities for a two-way quote.
// POver + PUnder == 1.
type DevigResult struct {
	POver      float64 `json:"p_over"`
	PUnder     float64 `json:"p_under"`
	VigRemoved float64 `json:"vig_removed"`
	Method     Method  `json:"method"`
	ShinZ      float64 `json:"shin_z,omitempty"`
	FellBack   bool    `json:"fell_back,omitempty"`
}

// Devig removes the bookmaker margin from a two-way American odds quote.
//
// Multiplicative normalizes both implied probabilities by their sum.
// Shin solves for the insider-trading share z in [0, 0.2] such that the Shin-implied
// probabilities sum to one. A Shin solve that does not converge returns
// ErrConvergenceFailure; see DevigWithFallback.
func Devig(americanOver, americanUnder int, method Method) (DevigResult, error) {
	rawOver, err := ImpliedProbability(americanOver)
	if err != nil {
		return DevigResult{}, fmt.Errorf("over price: %w", err)
	}
	rawUnder, err := ImpliedProbability(americanUnder)
	if err != nil {
		return DevigResult{}, fmt.Errorf("under price: %w", err)
	}

	switch method {
	case MethodMultiplicative, "":
		return multiplicative(rawOver, rawUnder), nil
	case MethodShin:
		return shin(rawOver, rawUnder)
	default:
		return DevigResult{}, fmt.Errorf("%w: unknown devig method %q", ErrInvalidInput, method)
	}
}

// DevigWithFallback runs Devig and, when the Shin solve fails to converge, returns the
// multiplicative result with FellBack set. Invalid input is still returned as an error.
func DevigWithFallback(americanOver, americanUnder int, method Method) (DevigResult, error) {
	result, err := Devig(americanOver, americanUnder, method)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, ErrConvergenceFailure) {
		return DevigResult{}, err
	}
	result, err = Devig(americanOver, americanUnder, MethodMultiplicative)
	if err != nil {
		return DevigResult{}, err
	}
	result.FellBack = true
	return result, nil
}

func multiplicative(rawOver, rawUnder float64) DevigResult {
	vigSum := rawOver + rawUnder
	pOver := rawOver / vigSum
	return DevigResult{
		POver:      pOver,
		PUnder:     1 - pOver,
		VigRemoved: vigSum - 1,
		Method:     MethodMultiplicative,
	}
}

// shin steps z toward the root of sum(p_i(z)) - 1 with a Newton step, clamped to
// [0, shinMaxZ]. The total is strictly decreasing in z, so a root pinned outside the
// clamp (extreme or negative vig) never meets the tolerance.
func shin(rawOver, rawUnder float64) (DevigResult, error) {
	vigSum := rawOver + rawUnder
	total := func(z float64) float64 {
		return shinProbability(z, rawOver, vigSum) + shinProbability(z, rawUnder, vigSum)
	}

	z := 0.0
	for i := 0; i < shinMaxIterations; i++ {
		residual := total(z) - 1
		if math.Abs(residual) < shinTolerance {
			pOver := shinProbability(z, rawOver, vigSum)
			pUnder := shinProbability(z, rawUnder, vigSum)
			pOver /= pOver + pUnder
			return DevigResult{
				POver:      pOver,
				PUnder:     1 - pOver,
				VigRemoved: vigSum - 1,
				Method:     MethodShin,
				ShinZ:      z,
			}, nil
		}

		slope := (total(z+shinDerivativeStep) - total(z)) / shinDerivativeStep
		if slope >= 0 || math.IsNaN(slope) {
			break
		}
		next := clamp(z-residual/slope, 0, shinMaxZ)
		if next == z {
			break
		}
		z = next
	}

	return DevigResult{}, fmt.Errorf("%w: shin z did not converge for vig %.4f", ErrConvergenceFailure, vigSum-1)
}

func shinProbability(z, raw, vigSum float64) float64 {
	return (math.Sqrt(z*z+4*(1-z)*raw*raw/vigSum) - z) / (2 * (1 - z))
}
