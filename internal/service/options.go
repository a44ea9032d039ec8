// Package service runs the full pricing pipeline for player prop markets.
package service

import (
	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/montecarlo"
	"github.com/akashjainn/propsage-sub000/internal/pricing"
)

// Options is the caller-owned configuration of a PricingService
type Options struct {
	// BlendAlpha is the market curve's share of a blended curve
	BlendAlpha float64
	// MinBooks is how many distinct books must quote a market before its curve is used
	MinBooks            int
	LineRange           *models.LineRange
	ConfidenceThreshold float64
	DevigMethod         pricing.Method
	BookWeights         []models.BookWeight
	MonteCarlo          montecarlo.Options
}

// DefaultOptions returns the stock pipeline settings
func DefaultOptions() Options {
	return Options{
		BlendAlpha:          0.6,
		MinBooks:            2,
		ConfidenceThreshold: 0.5,
		DevigMethod:         pricing.MethodMultiplicative,
		MonteCarlo:          montecarlo.DefaultOptions(),
	}
}
