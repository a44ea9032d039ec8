package distribution

import (
	"fmt"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

// Family selects which Distribution a prediction is expressed in
type Family string

const (
	FamilyNormal  Family = "normal"
	FamilyPoisson Family = "poisson"
)

// Baseline is the league-typical outcome for a market before player adjustments
type Baseline struct {
	Mean   float64
	Std    float64
	Family Family
}

type sportBaselines struct {
	markets  map[models.Market]Baseline
	fallback Baseline
}

var baselines = map[models.Sport]sportBaselines{
	models.SportBasketball: {
		markets: map[models.Market]Baseline{
			models.MarketPoints:   {Mean: 15.5, Std: 6.5, Family: FamilyNormal},
			models.MarketRebounds: {Mean: 5.5, Std: 2.8, Family: FamilyNormal},
			models.MarketAssists:  {Mean: 4.0, Std: 2.3, Family: FamilyNormal},
			models.MarketThrees:   {Mean: 1.8, Std: 1.3, Family: FamilyPoisson},
			models.MarketPRA:      {Mean: 25.0, Std: 8.5, Family: FamilyNormal},
			models.MarketSteals:   {Mean: 0.9, Std: 0.9, Family: FamilyPoisson},
			models.MarketBlocks:   {Mean: 0.6, Std: 0.8, Family: FamilyPoisson},
		},
		fallback: Baseline{Mean: 10, Std: 5, Family: FamilyNormal},
	},
	models.SportFootball: {
		markets: map[models.Market]Baseline{
			models.MarketPassingYards:   {Mean: 235, Std: 55, Family: FamilyNormal},
			models.MarketRushingYards:   {Mean: 55, Std: 25, Family: FamilyNormal},
			models.MarketReceivingYards: {Mean: 50, Std: 25, Family: FamilyNormal},
			models.MarketReceptions:     {Mean: 4.5, Std: 2.2, Family: FamilyNormal},
			models.MarketPassingTDs:     {Mean: 1.6, Std: 1.0, Family: FamilyPoisson},
			models.MarketTouchdowns:     {Mean: 0.5, Std: 0.7, Family: FamilyPoisson},
		},
		fallback: Baseline{Mean: 40, Std: 20, Family: FamilyNormal},
	},
	models.SportBaseball: {
		markets: map[models.Market]Baseline{
			models.MarketStrikeouts:  {Mean: 5.5, Std: 2.2, Family: FamilyPoisson},
			models.MarketHits:        {Mean: 1.0, Std: 0.9, Family: FamilyPoisson},
			models.MarketTotalBases:  {Mean: 1.6, Std: 1.3, Family: FamilyNormal},
			models.MarketHomeRuns:    {Mean: 0.15, Std: 0.4, Family: FamilyPoisson},
			models.MarketHitsAllowed: {Mean: 5.5, Std: 2.2, Family: FamilyPoisson},
		},
		fallback: Baseline{Mean: 1.5, Std: 1.2, Family: FamilyNormal},
	},
}

// BaselineFor returns the baseline for a market, falling back to the sport default
// when the market has no entry of its own
func BaselineFor(sport models.Sport, market models.Market) (Baseline, error) {
	table, ok := baselines[sport]
	if !ok {
		return Baseline{}, fmt.Errorf("%w: %q", models.ErrUnknownSport, sport)
	}
	if b, ok := table.markets[market]; ok {
		return b, nil
	}
	return table.fallback, nil
}
