package models

import "time"

// PlayerPrior is an externally supplied baseline belief about a player's stat line
type PlayerPrior struct {
	PlayerID  string    `json:"player_id"`
	Market    Market    `json:"market"`
	Mu        float64   `json:"mu"`
	Sigma     float64   `json:"sigma" validate:"gt=0"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewsEvidence is a qualitative signal (injury note, lineup change, clip) with a
// quantitative nudge to the prior. DeltaSigma is a fractional change to sigma.
type NewsEvidence struct {
	ID          string    `json:"id" validate:"required"`
	Source      string    `json:"source,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Weight      float64   `json:"weight" validate:"gte=0,lte=1"`
	DeltaMu     float64   `json:"delta_mu"`
	DeltaSigma  float64   `json:"delta_sigma"`
	PublishedAt time.Time `json:"published_at"`
}
