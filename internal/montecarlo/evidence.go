// Package montecarlo prices a prop line by simulating a player's stat from a prior
// nudged by news evidence.
package montecarlo

import (
	"math"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

const (
	// MinEvidenceWeight is the weight below which evidence is treated as noise
	MinEvidenceWeight = 0.05

	maxMuShiftSigmas = 3.0
	minSigmaFactor   = 0.5
	maxSigmaFactor   = 2.0
	minSigma         = 0.05
)

// EvidenceAdjustment is a prior after evidence has been folded in
type EvidenceAdjustment struct {
	Mu      float64               `json:"mu"`
	Sigma   float64               `json:"sigma"`
	Applied []models.NewsEvidence `json:"applied"`
}

// ApplyEvidenceAdjustments adds sum(weight*DeltaMu) to the prior mean and scales sigma
// by 1 + sum(weight*DeltaSigma). Weights are clamped to [0, 1] and items under
// MinEvidenceWeight are skipped. The mean shift is bounded to three prior sigmas and
// the sigma multiplier to [0.5, 2].
func ApplyEvidenceAdjustments(prior models.PlayerPrior, evidence []models.NewsEvidence) EvidenceAdjustment {
	sigma := math.Max(prior.Sigma, minSigma)

	var muShift, sigmaShift float64
	applied := make([]models.NewsEvidence, 0, len(evidence))
	for _, e := range evidence {
		if math.IsNaN(e.Weight) || math.IsNaN(e.DeltaMu) || math.IsNaN(e.DeltaSigma) {
			continue
		}
		w := math.Max(0, math.Min(1, e.Weight))
		if w < MinEvidenceWeight {
			continue
		}
		muShift += w * e.DeltaMu
		sigmaShift += w * e.DeltaSigma
		applied = append(applied, e)
	}

	if len(applied) == 0 {
		return EvidenceAdjustment{Mu: prior.Mu, Sigma: sigma, Applied: applied}
	}

	maxShift := maxMuShiftSigmas * sigma
	muShift = math.Max(-maxShift, math.Min(maxShift, muShift))
	factor := math.Max(minSigmaFactor, math.Min(maxSigmaFactor, 1+sigmaShift))

	return EvidenceAdjustment{
		Mu:      prior.Mu + muShift,
		Sigma:   math.Max(sigma*factor, minSigma),
		Applied: applied,
	}
}
