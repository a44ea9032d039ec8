package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

func blendFixtures(t *testing.T) (*ProbabilityCurve, *ProbabilityCurve) {
	t.Helper()
	market, err := BuildProbabilityCurve([]CurvePoint{{Line: 18, POver: 0.7}, {Line: 22, POver: 0.3}}, testRange)
	require.NoError(t, err)
	model, err := BuildProbabilityCurve([]CurvePoint{{Line: 20, POver: 0.8}, {Line: 26, POver: 0.2}},
		models.LineRange{Min: 10, Max: 30, Step: 1})
	require.NoError(t, err)
	return market, model
}

func TestBlendWeights(t *testing.T) {
	market, model := blendFixtures(t)

	tests := []struct {
		name  string
		alpha float64
	}{
		{name: "market only", alpha: 1},
		{name: "model only", alpha: 0},
		{name: "even mix", alpha: 0.5},
		{name: "market heavy", alpha: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blended, err := Blend(market, model, tt.alpha)
			require.NoError(t, err)
			for _, line := range []float64{12, 19, 20, 21.5, 24, 29} {
				want := tt.alpha*market.Evaluate(line) + (1-tt.alpha)*model.Evaluate(line)
				assert.InDelta(t, want, blended.Evaluate(line), 1e-12)
			}
		})
	}
}

func TestBlendClampsAlphaAndKeepsMonotonic(t *testing.T) {
	market, model := blendFixtures(t)

	blended, err := Blend(market, model, 1.7)
	require.NoError(t, err)
	assert.InDelta(t, market.Evaluate(21), blended.Evaluate(21), 1e-12)

	blended, err = Blend(market, model, 0.4)
	require.NoError(t, err)
	assert.Equal(t, models.LineRange{Min: 10, Max: 30, Step: 0.5}, blended.Range())
	assert.Empty(t, blended.Points())
	for i := 1; i < len(blended.Probabilities); i++ {
		assert.LessOrEqual(t, blended.Probabilities[i], blended.Probabilities[i-1]+1e-12)
	}
}

func TestBlendRequiresBothCurves(t *testing.T) {
	market, _ := blendFixtures(t)
	_, err := Blend(market, nil, 0.5)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestBlendRejectsOversizedUnion(t *testing.T) {
	fine, err := BuildProbabilityCurve([]CurvePoint{{Line: 5, POver: 0.6}, {Line: 9, POver: 0.4}},
		models.LineRange{Min: 0, Max: 10, Step: 0.01})
	require.NoError(t, err)
	wide, err := BuildProbabilityCurve([]CurvePoint{{Line: 500, POver: 0.6}, {Line: 900, POver: 0.4}},
		models.LineRange{Min: 0, Max: 5000, Step: 1})
	require.NoError(t, err)

	_, err = Blend(fine, wide, 0.5)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
