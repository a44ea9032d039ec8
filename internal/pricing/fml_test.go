package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveFairMarketLineStraddlingPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []CurvePoint
		search Interval
	}{
		{
			name:   "symmetric pair",
			points: []CurvePoint{{Line: 18, POver: 0.7}, {Line: 22, POver: 0.3}},
			search: Interval{Lower: 15, Upper: 30},
		},
		{
			name:   "noisy ladder",
			points: noisyPoints(),
			search: Interval{Lower: 15, Upper: 27},
		},
		{
			name:   "wide search",
			points: []CurvePoint{{Line: 240.5, POver: 0.62}, {Line: 250.5, POver: 0.41}},
			search: Interval{Lower: 100, Upper: 400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve, err := BuildProbabilityCurve(tt.points, testRange)
			require.NoError(t, err)

			result, err := SolveFairMarketLine(curve, tt.search)
			require.NoError(t, err)

			assert.InDelta(t, 0.5, curve.Evaluate(result.Line), 0.01)
			assert.Equal(t, "bisection", result.Method)
			assert.True(t, result.Converged)
			assert.Less(t, result.ConfidenceInterval.Lower, result.Line)
			assert.Greater(t, result.ConfidenceInterval.Upper, result.Line)
			assert.GreaterOrEqual(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 1.0)
		})
	}
}

func TestSolveFairMarketLineSymmetricCurve(t *testing.T) {
	curve, err := BuildProbabilityCurve([]CurvePoint{{Line: 18, POver: 0.7}, {Line: 22, POver: 0.3}}, testRange)
	require.NoError(t, err)

	result, err := SolveFairMarketLine(curve, Interval{Lower: 15, Upper: 30})
	require.NoError(t, err)

	assert.InDelta(t, 20.0, result.Line, 0.05)
	// slope near 0.5 is about -0.106 per point
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
	margin := result.ConfidenceInterval.Upper - result.Line
	assert.InDelta(t, 2/0.1059, margin, 0.2)
}

func TestSolveFairMarketLineFlatCurve(t *testing.T) {
	curve, err := BuildProbabilityCurve([]CurvePoint{{Line: 20, POver: 0.6}}, testRange)
	require.NoError(t, err)

	result, err := SolveFairMarketLine(curve, Interval{Lower: 15, Upper: 25})
	require.NoError(t, err)

	assert.InDelta(t, 25.0, result.Line, 0.01)
	assert.Equal(t, 0.0, result.Confidence)
	assert.InDelta(t, 10.0, result.ConfidenceInterval.Upper-result.Line, 1e-9)
}

func TestSolveFairMarketLineBudgetExhausted(t *testing.T) {
	curve, err := BuildProbabilityCurve([]CurvePoint{{Line: 0, POver: 0.7}}, testRange)
	require.NoError(t, err)

	result, err := SolveFairMarketLine(curve, Interval{Lower: -1e20, Upper: 1e20})
	require.NoError(t, err)
	assert.False(t, result.Converged)
	assert.Equal(t, 50, result.Iterations)
}

func TestSolveFairMarketLineInvalidInterval(t *testing.T) {
	curve, err := BuildProbabilityCurve(noisyPoints(), testRange)
	require.NoError(t, err)

	_, err = SolveFairMarketLine(curve, Interval{Lower: 30, Upper: 10})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = SolveFairMarketLine(nil, Interval{Lower: 10, Upper: 30})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
