package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// ImpliedProbability converts an American price to its raw implied probability,
// vig included.
// American +150 → 0.40
// American -150 → 0.60
func ImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: american odds cannot be 0", ErrInvalidInput)
	}
	if american > 0 {
		return 100.0 / (float64(american) + 100.0), nil
	}
	return float64(-american) / (float64(-american) + 100.0), nil
}

// Payout returns the net profit per unit staked at an American price
// American +150 → 1.50
// American -200 → 0.50
func Payout(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: american odds cannot be 0", ErrInvalidInput)
	}
	if american > 0 {
		return float64(american) / 100.0, nil
	}
	return 100.0 / float64(-american), nil
}

// AmericanToDecimalOdds converts American odds to decimal odds rounded to four places
// American +150 → 2.5
// American -110 → 1.9091
func AmericanToDecimalOdds(american int) (decimal.Decimal, error) {
	if american == 0 {
		return decimal.Zero, fmt.Errorf("%w: american odds cannot be 0", ErrInvalidInput)
	}
	odds := decimal.NewFromInt(int64(american))
	if american > 0 {
		return odds.Div(hundred).Add(one).Round(4), nil
	}
	return hundred.Div(odds.Neg()).Add(one).Round(4), nil
}

// ProbabilityToAmerican converts a fair probability to the American price that breaks
// even at that probability, rounded half away from zero.
// 0.50 → -100
// 0.40 → +150
func ProbabilityToAmerican(probability float64) (int, error) {
	if probability <= 0 || probability >= 1 {
		return 0, fmt.Errorf("%w: probability must be between 0 and 1, got %v", ErrInvalidInput, probability)
	}
	p := decimal.NewFromFloat(probability)
	if probability >= 0.5 {
		price := hundred.Mul(p).Div(one.Sub(p)).Neg()
		return int(price.Round(0).IntPart()), nil
	}
	price := hundred.Mul(one.Sub(p)).Div(p)
	return int(price.Round(0).IntPart()), nil
}
