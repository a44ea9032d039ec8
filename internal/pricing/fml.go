package pricing

import (
	"fmt"
	"math"
)

const (
	fmlTolerance      = 0.001
	fmlMaxIterations  = 50
	fmlDerivativeStep = 0.1
	fmlMinMargin      = 0.5
	fmlMethod         = "bisection"
)

// Interval is a closed range of lines
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// FairMarketLineResult is the line where a curve implies a 50/50 split
type FairMarketLineResult struct {
	Line               float64  `json:"line"`
	Confidence         float64  `json:"confidence"`
	ConfidenceInterval Interval `json:"confidence_interval"`
	Method             string   `json:"method"`
	Iterations         int      `json:"iterations"`
	Converged          bool     `json:"converged"`
}

// SolveFairMarketLine bisects curve(line) - 0.5 over the search interval. The curve is
// monotonic by construction so no sign change is checked; the best midpoint is returned
// even when the iteration budget runs out.
//
// Confidence comes from the central-difference slope at the solution: a flat curve
// near 0.5 constrains the line poorly, giving low confidence and a wide interval.
func SolveFairMarketLine(curve Curve, search Interval) (FairMarketLineResult, error) {
	if curve == nil {
		return FairMarketLineResult{}, fmt.Errorf("%w: curve is required", ErrInvalidInput)
	}
	if search.Upper < search.Lower || math.IsNaN(search.Lower) || math.IsNaN(search.Upper) {
		return FairMarketLineResult{}, fmt.Errorf("%w: search interval [%v, %v]", ErrInvalidInput, search.Lower, search.Upper)
	}

	lo, hi := search.Lower, search.Upper
	mid := (lo + hi) / 2
	result := FairMarketLineResult{Method: fmlMethod}
	for i := 0; i < fmlMaxIterations; i++ {
		mid = (lo + hi) / 2
		diff := curve.Evaluate(mid) - 0.5
		result.Iterations = i + 1
		if math.Abs(diff) < fmlTolerance || (hi-lo)/2 < fmlTolerance {
			result.Converged = true
			break
		}
		// P(over) falls as the line rises
		if diff > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	derivative := (curve.Evaluate(mid+fmlDerivativeStep) - curve.Evaluate(mid-fmlDerivativeStep)) / (2 * fmlDerivativeStep)
	slope := math.Abs(derivative)

	margin := math.Max(fmlMinMargin, search.Upper-search.Lower)
	if slope > 0 {
		margin = math.Max(fmlMinMargin, 2/slope)
	}

	result.Line = mid
	result.Confidence = math.Min(1, slope*10)
	result.ConfidenceInterval = Interval{Lower: mid - margin, Upper: mid + margin}
	return result, nil
}
