package pricing

import (
	"fmt"
	"math"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

const (
	// MinActionableEdge is the absolute edge at or below which a side is not reported
	MinActionableEdge = 0.01
	// MaxKellyFraction caps the recommended bankroll fraction
	MaxKellyFraction = 0.25
)

// ModelProbability is a probability read off a fitted or blended curve
type ModelProbability float64

// MarketProbability is a single book's devigged probability
type MarketProbability float64

// EdgeCalculation prices one side of one book's quote against the model curve.
// FairProbability is the model's view; NoVigProbability is the book's own devigged view
// and is informational only. Edge is measured against ImpliedProbability, the
// break-even probability of MarketPrice.
type EdgeCalculation struct {
	Book               string            `json:"book"`
	Line               float64           `json:"line"`
	Side               models.Side       `json:"side"`
	MarketPrice        int               `json:"market_price"`
	FairProbability    ModelProbability  `json:"fair_probability"`
	NoVigProbability   MarketProbability `json:"no_vig_probability"`
	ImpliedProbability float64           `json:"implied_probability"`
	Edge               float64           `json:"edge"`
	ExpectedValue      float64           `json:"expected_value"`
	KellyFraction      float64           `json:"kelly_fraction"`
	FairPrice          int               `json:"fair_price"`
}

// CalculateEdges compares every quoted side against the curve and returns the sides
// whose absolute edge exceeds MinActionableEdge.
func CalculateEdges(quotes []models.BookQuote, curve Curve, method Method) ([]EdgeCalculation, error) {
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no quotes", ErrInvalidInput)
	}
	if curve == nil {
		return nil, fmt.Errorf("%w: curve is required", ErrInvalidInput)
	}

	edges := make([]EdgeCalculation, 0, len(quotes)*2)
	for _, q := range quotes {
		devig, err := DevigWithFallback(q.OverPrice, q.UnderPrice, method)
		if err != nil {
			return nil, fmt.Errorf("book %s: %w", q.Book, err)
		}

		pOver := curve.Evaluate(q.Line)
		sides := []struct {
			side   models.Side
			price  int
			model  float64
			market float64
		}{
			{models.SideOver, q.OverPrice, pOver, devig.POver},
			{models.SideUnder, q.UnderPrice, 1 - pOver, devig.PUnder},
		}

		for _, s := range sides {
			calc, err := priceSide(q, s.side, s.price, s.model, s.market)
			if err != nil {
				return nil, fmt.Errorf("book %s: %w", q.Book, err)
			}
			if calc.Edge > MinActionableEdge || calc.Edge < -MinActionableEdge {
				edges = append(edges, calc)
			}
		}
	}
	return edges, nil
}

func priceSide(q models.BookQuote, side models.Side, price int, model, market float64) (EdgeCalculation, error) {
	implied, err := ImpliedProbability(price)
	if err != nil {
		return EdgeCalculation{}, err
	}
	payout, err := Payout(price)
	if err != nil {
		return EdgeCalculation{}, err
	}
	fairPrice, err := ProbabilityToAmerican(model)
	if err != nil {
		return EdgeCalculation{}, err
	}

	return EdgeCalculation{
		Book:               q.Book,
		Line:               q.Line,
		Side:               side,
		MarketPrice:        price,
		FairProbability:    ModelProbability(model),
		NoVigProbability:   MarketProbability(market),
		ImpliedProbability: implied,
		Edge:               model - implied,
		ExpectedValue:      ExpectedValue(model, payout),
		KellyFraction:      KellyFraction(model, payout),
		FairPrice:          fairPrice,
	}, nil
}

// ExpectedValue is the expected profit per unit staked: p*payout - (1-p)
func ExpectedValue(p, payout float64) float64 {
	return p*payout - (1 - p)
}

// KellyFraction is the full-Kelly stake (p*(payout+1) - 1) / payout, clamped to
// [0, MaxKellyFraction]
func KellyFraction(p, payout float64) float64 {
	kelly := (p*(payout+1) - 1) / payout
	if payout <= 0 || math.IsNaN(kelly) {
		return 0
	}
	return clamp(kelly, 0, MaxKellyFraction)
}
