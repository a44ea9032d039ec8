package pricing

import (
	"fmt"
	"math"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

// Blend mixes a market curve and a model curve point by point:
// p = alpha*pMarket + (1-alpha)*pModel. Alpha is clamped to [0, 1]. A convex mix of two
// non-increasing curves is non-increasing, so the result keeps the curve invariant.
// The sample covers the union of both curves' ranges.
func Blend(market, model *ProbabilityCurve, alpha float64) (*ProbabilityCurve, error) {
	if market == nil || model == nil {
		return nil, fmt.Errorf("%w: blend requires both curves", ErrInvalidInput)
	}
	if math.IsNaN(alpha) {
		return nil, fmt.Errorf("%w: blend alpha is NaN", ErrInvalidInput)
	}
	alpha = clamp(alpha, 0, 1)

	lineRange := unionRange(market.Range(), model.Range())
	if err := lineRange.Validate(); err != nil {
		return nil, fmt.Errorf("%w: blend range: %v", ErrInvalidInput, err)
	}

	return newCurve(func(line float64) float64 {
		return alpha*market.Evaluate(line) + (1-alpha)*model.Evaluate(line)
	}, nil, lineRange), nil
}

func unionRange(a, b models.LineRange) models.LineRange {
	return models.LineRange{
		Min:  math.Min(a.Min, b.Min),
		Max:  math.Max(a.Max, b.Max),
		Step: math.Min(a.Step, b.Step),
	}
}
