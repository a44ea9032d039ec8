package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

func bookAt(book string, line, pOver float64) BookProbability {
	return BookProbability{
		Book:  book,
		Line:  line,
		Devig: DevigResult{POver: pOver, PUnder: 1 - pOver, Method: MethodMultiplicative},
	}
}

func TestCalculateConsensus(t *testing.T) {
	tests := []struct {
		name           string
		books          []BookProbability
		weights        []models.BookWeight
		wantOver       float64
		wantConfidence float64
		wantLine       float64
	}{
		{
			name:           "single book",
			books:          []BookProbability{bookAt("draftkings", 20.5, 0.55)},
			wantOver:       0.55,
			wantConfidence: 1.0,
			wantLine:       20.5,
		},
		{
			name:           "agreeing books",
			books:          []BookProbability{bookAt("draftkings", 20.5, 0.52), bookAt("fanduel", 20.5, 0.52)},
			wantOver:       0.52,
			wantConfidence: 1.0,
			wantLine:       20.5,
		},
		{
			name:           "disagreement lowers confidence",
			books:          []BookProbability{bookAt("draftkings", 20.5, 0.3), bookAt("fanduel", 20.5, 0.7)},
			wantOver:       0.5,
			wantConfidence: math.Exp(-0.4),
			wantLine:       20.5,
		},
		{
			name:           "extreme disagreement floors confidence",
			books:          []BookProbability{bookAt("draftkings", 20.5, 0.01), bookAt("fanduel", 20.5, 0.99)},
			wantOver:       0.5,
			wantConfidence: math.Exp(-10 * 0.2401),
			wantLine:       20.5,
		},
		{
			name:  "weighted toward sharp book",
			books: []BookProbability{bookAt("pinnacle", 20, 0.6), bookAt("fanduel", 21, 0.4)},
			weights: []models.BookWeight{
				{Book: "pinnacle", Weight: 3},
				{Book: "fanduel", Weight: 1},
			},
			wantOver:       0.55,
			wantConfidence: math.Exp(-10 * 0.0075),
			wantLine:       20.25,
		},
		{
			name:           "unlisted book defaults to unit weight",
			books:          []BookProbability{bookAt("pinnacle", 20, 0.6), bookAt("caesars", 20, 0.4)},
			weights:        []models.BookWeight{{Book: "pinnacle", Weight: 1}},
			wantOver:       0.5,
			wantConfidence: math.Exp(-0.1),
			wantLine:       20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateConsensus(tt.books, tt.weights)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantOver, result.POverConsensus, 1e-9)
			assert.InDelta(t, 1-tt.wantOver, result.PUnderConsensus, 1e-9)
			assert.InDelta(t, math.Max(0.1, tt.wantConfidence), result.Confidence, 1e-9)
			assert.InDelta(t, tt.wantLine, result.Line, 1e-9)
			assert.Equal(t, len(tt.books), result.Books)
		})
	}
}

func TestCalculateConsensusErrors(t *testing.T) {
	_, err := CalculateConsensus(nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	books := []BookProbability{bookAt("draftkings", 20.5, 0.5)}
	_, err = CalculateConsensus(books, []models.BookWeight{{Book: "draftkings", Weight: -1}})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = CalculateConsensus(books, []models.BookWeight{{Book: "draftkings", Weight: 0}})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
