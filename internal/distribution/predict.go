package distribution

import (
	"math"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

// League reference points the feature adjustments are scaled against
const (
	leagueUsageRate       = 0.22
	leagueMinutes         = 34.0
	leagueDefensiveRating = 112.0
	leaguePace            = 100.0
	leagueTargetShare     = 0.18
	leagueAirYardsShare   = 0.25
	leagueStrikeoutRate   = 0.225
)

// Adjustment records one multiplicative change applied to a baseline
type Adjustment struct {
	Name       string  `json:"name"`
	MeanFactor float64 `json:"mean_factor"`
	StdFactor  float64 `json:"std_factor"`
}

// OutcomeDistribution is a player's predicted stat distribution for one market
type OutcomeDistribution struct {
	PlayerID     string        `json:"player_id"`
	Sport        models.Sport  `json:"sport"`
	Market       models.Market `json:"market"`
	Mean         float64       `json:"mean"`
	Std          float64       `json:"std"`
	Family       Family        `json:"family"`
	Distribution Distribution  `json:"-"`
	Adjustments  []Adjustment  `json:"adjustments,omitempty"`
}

// ProbabilityOver is P(X > line) under the predicted distribution
func (o OutcomeDistribution) ProbabilityOver(line float64) float64 {
	return ProbabilityOver(line, o.Distribution)
}

type outcome struct {
	mean        float64
	std         float64
	adjustments []Adjustment
}

func (o *outcome) apply(name string, meanFactor, stdFactor float64) {
	if math.IsNaN(meanFactor) || math.IsNaN(stdFactor) {
		return
	}
	o.mean *= meanFactor
	o.std *= stdFactor
	o.adjustments = append(o.adjustments, Adjustment{Name: name, MeanFactor: meanFactor, StdFactor: stdFactor})
}

// PredictPlayerOutcome starts from the sport's baseline for market and applies every
// adjustment whose feature is present. Mean and std are floored at 0.1 and 0.05.
func PredictPlayerOutcome(playerID string, market models.Market, features *models.PlayerFeatures, sport models.Sport) (OutcomeDistribution, error) {
	baseline, err := BaselineFor(sport, market)
	if err != nil {
		return OutcomeDistribution{}, err
	}

	o := &outcome{mean: baseline.Mean, std: baseline.Std}
	if features != nil {
		switch sport {
		case models.SportBasketball:
			adjustBasketball(o, features)
		case models.SportFootball:
			adjustFootball(o, market, features)
		case models.SportBaseball:
			adjustBaseball(o, market, features)
		}
		if q := features.InjuryProbability; q != nil {
			risk := clamp(*q, 0, 1)
			o.apply("injury", 1-0.5*risk, 1+0.5*risk)
		}
	}

	mean := math.Max(o.mean, minMean)
	std := math.Max(o.std, minStd)
	result := OutcomeDistribution{
		PlayerID:    playerID,
		Sport:       sport,
		Market:      market,
		Mean:        mean,
		Std:         std,
		Family:      baseline.Family,
		Adjustments: o.adjustments,
	}
	switch baseline.Family {
	case FamilyPoisson:
		result.Distribution = Poisson{Lambda: mean}
	default:
		result.Distribution = Normal{Mu: mean, Sigma: std}
	}
	return result, nil
}

func adjustBasketball(o *outcome, f *models.PlayerFeatures) {
	if f.UsageRate != nil || f.MinutesProjected != nil {
		usage, minutes := leagueUsageRate, leagueMinutes
		if f.UsageRate != nil {
			usage = *f.UsageRate
		}
		if f.MinutesProjected != nil {
			minutes = *f.MinutesProjected
		}
		factor := clamp((usage/leagueUsageRate)*(minutes/leagueMinutes), 0.5, 1.8)
		o.apply("usage_minutes", factor, math.Sqrt(factor))
	}
	if r := f.OpponentDefensiveRating; r != nil && *r > 0 {
		o.apply("opponent_defense", clamp(*r/leagueDefensiveRating, 0.85, 1.15), 1)
	}
	if p := f.Pace; p != nil && *p > 0 {
		o.apply("pace", clamp(*p/leaguePace, 0.9, 1.1), 1)
	}
	if limit := f.MinutesRestriction; limit != nil && *limit > 0 {
		minutes := leagueMinutes
		if f.MinutesProjected != nil && *f.MinutesProjected > 0 {
			minutes = *f.MinutesProjected
		}
		if *limit < minutes {
			factor := *limit / minutes
			o.apply("minutes_restriction", factor, math.Sqrt(factor))
		}
	}
}

func adjustFootball(o *outcome, market models.Market, f *models.PlayerFeatures) {
	receiving := market == models.MarketReceivingYards || market == models.MarketReceptions || market == models.MarketTouchdowns
	passing := market == models.MarketPassingYards || market == models.MarketPassingTDs

	if s := f.TargetShare; s != nil && receiving {
		o.apply("target_share", clamp(*s/leagueTargetShare, 0.4, 2.0), 1)
	}
	if s := f.AirYardsShare; s != nil && market == models.MarketReceivingYards {
		o.apply("air_yards", clamp(1+(*s-leagueAirYardsShare), 0.8, 1.25), 1)
	}
	if e := f.OpponentEfficiency; e != nil && *e > 0 {
		o.apply("opponent_efficiency", clamp(*e, 0.8, 1.2), 1)
	}
	if w := f.WeatherImpact; w != nil {
		severity := clamp(*w, 0, 1)
		switch {
		case passing || market == models.MarketReceivingYards:
			o.apply("weather", 1-0.15*severity, 1)
		case market == models.MarketRushingYards:
			o.apply("weather", 1+0.05*severity, 1)
		}
	}
	// Spread is from the player's team: favorites lean on the run late, underdogs throw.
	if s := f.PointSpread; s != nil {
		switch {
		case market == models.MarketRushingYards:
			o.apply("game_script", clamp(1-0.01*(*s), 0.85, 1.15), 1)
		case passing || receiving:
			o.apply("game_script", clamp(1+0.01*(*s), 0.85, 1.15), 1)
		}
	}
}

func adjustBaseball(o *outcome, market models.Market, f *models.PlayerFeatures) {
	k := f.OpponentStrikeoutRate
	if k == nil {
		return
	}
	rate := clamp(*k, 0, 0.6)
	switch market {
	case models.MarketStrikeouts:
		o.apply("opponent_strikeouts", clamp(rate/leagueStrikeoutRate, 0.7, 1.4), 1)
	case models.MarketHits, models.MarketTotalBases, models.MarketHomeRuns, models.MarketHitsAllowed:
		contact := (1 - rate) / (1 - leagueStrikeoutRate)
		o.apply("contact", clamp(contact, 0.7, 1.4), 1)
	}
}
