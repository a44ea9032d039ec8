package models

// PlayerFeatures is a sport specific bag of optional signals. A nil field means the
// signal is unavailable and its adjustment is skipped.
type PlayerFeatures struct {
	// Basketball
	UsageRate               *float64 `json:"usage_rate,omitempty"`
	MinutesProjected        *float64 `json:"minutes_projected,omitempty"`
	OpponentDefensiveRating *float64 `json:"opponent_defensive_rating,omitempty"`
	Pace                    *float64 `json:"pace,omitempty"`
	MinutesRestriction      *float64 `json:"minutes_restriction,omitempty"`

	// Any sport
	InjuryProbability *float64 `json:"injury_probability,omitempty"`

	// Football
	TargetShare        *float64 `json:"target_share,omitempty"`
	AirYardsShare      *float64 `json:"air_yards_share,omitempty"`
	OpponentEfficiency *float64 `json:"opponent_efficiency,omitempty"`
	WeatherImpact      *float64 `json:"weather_impact,omitempty"`
	PointSpread        *float64 `json:"point_spread,omitempty"`

	// Baseball
	OpponentStrikeoutRate *float64 `json:"opponent_strikeout_rate,omitempty"`
}

// Float returns a pointer to v, for building features in code and tests
func Float(v float64) *float64 {
	return &v
}
