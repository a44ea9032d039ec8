package pricing

import (
	"fmt"
	"math"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

const (
	defaultBookWeight      = 1.0
	consensusDisagreement  = 10.0
	minConsensusConfidence = 0.1
	maxConsensusConfidence = 1.0
)

// BookProbability is one book's devigged view of a line
type BookProbability struct {
	Book  string      `json:"book"`
	Line  float64     `json:"line"`
	Devig DevigResult `json:"devig"`
}

// ConsensusResult is the weighted cross-book probability for a line
type ConsensusResult struct {
	POverConsensus  float64 `json:"p_over_consensus"`
	PUnderConsensus float64 `json:"p_under_consensus"`
	Confidence      float64 `json:"confidence"`
	Line            float64 `json:"line"`
	Books           int     `json:"books"`
}

// CalculateConsensus combines devigged probabilities across books into a weighted mean.
// Books without a configured weight count 1.0. Confidence is exp(-10 * weighted variance
// of POver) clamped to [0.1, 1.0], so cross-book disagreement lowers it.
func CalculateConsensus(books []BookProbability, weights []models.BookWeight) (ConsensusResult, error) {
	if len(books) == 0 {
		return ConsensusResult{}, fmt.Errorf("%w: no book probabilities", ErrInvalidInput)
	}

	weightByBook := make(map[string]float64, len(weights))
	for _, w := range weights {
		if w.Weight < 0 || math.IsNaN(w.Weight) {
			return ConsensusResult{}, fmt.Errorf("%w: book %s has negative weight %v", ErrInvalidInput, w.Book, w.Weight)
		}
		weightByBook[w.Book] = w.Weight
	}

	resolved := make([]float64, len(books))
	var totalWeight, sumOver, sumUnder, sumLine float64
	for i, b := range books {
		w, ok := weightByBook[b.Book]
		if !ok {
			w = defaultBookWeight
		}
		resolved[i] = w
		totalWeight += w
		sumOver += w * b.Devig.POver
		sumUnder += w * b.Devig.PUnder
		sumLine += w * b.Line
	}
	if totalWeight <= 0 {
		return ConsensusResult{}, fmt.Errorf("%w: total book weight is zero", ErrInvalidInput)
	}

	meanOver := sumOver / totalWeight
	var variance float64
	for i, b := range books {
		diff := b.Devig.POver - meanOver
		variance += resolved[i] * diff * diff
	}
	variance /= totalWeight

	return ConsensusResult{
		POverConsensus:  meanOver,
		PUnderConsensus: sumUnder / totalWeight,
		Confidence:      clamp(math.Exp(-consensusDisagreement*variance), minConsensusConfidence, maxConsensusConfidence),
		Line:            sumLine / totalWeight,
		Books:           len(books),
	}, nil
}
