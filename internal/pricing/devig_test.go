package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevigMultiplicative(t *testing.T) {
	tests := []struct {
		name      string
		over      int
		under     int
		wantOver  float64
		wantVig   float64
		tolerance float64
	}{
		{
			name:      "Standard -110/-110",
			over:      -110,
			under:     -110,
			wantOver:  0.5,
			wantVig:   0.0476,
			tolerance: 0.0001,
		},
		{
			name:      "Heavy favorite -200/+170",
			over:      -200,
			under:     170,
			wantOver:  0.6429,
			wantVig:   0.0370,
			tolerance: 0.0001,
		},
		{
			name:      "Asymmetric -120/-110",
			over:      -120,
			under:     -110,
			wantOver:  0.5101,
			wantVig:   0.0693,
			tolerance: 0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Devig(tt.over, tt.under, MethodMultiplicative)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantOver, result.POver, tt.tolerance)
			assert.InDelta(t, 1-tt.wantOver, result.PUnder, tt.tolerance)
			assert.InDelta(t, tt.wantVig, result.VigRemoved, tt.tolerance)
			assert.Equal(t, MethodMultiplicative, result.Method)
			assert.False(t, result.FellBack)
		})
	}
}

func TestDevigMultiplicativeSumsToOne(t *testing.T) {
	prices := []int{-1000, -500, -250, -150, -115, -110, -105, -101, 100, 105, 120, 150, 200, 400, 900}
	for _, over := range prices {
		for _, under := range prices {
			result, err := Devig(over, under, MethodMultiplicative)
			require.NoError(t, err)

			assert.InDelta(t, 1.0, result.POver+result.PUnder, 1e-12, "over %d under %d", over, under)
			assert.Greater(t, result.POver, 0.0)
			assert.Less(t, result.POver, 1.0)
			assert.Greater(t, result.PUnder, 0.0)
			assert.Less(t, result.PUnder, 1.0)
		}
	}
}

func TestDevigZeroOddsIsInvalidInput(t *testing.T) {
	_, err := Devig(0, -110, MethodMultiplicative)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = Devig(-110, 0, MethodShin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDevigUnknownMethod(t *testing.T) {
	_, err := Devig(-110, -110, Method("power"))
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDevigShin(t *testing.T) {
	result, err := Devig(-110, -110, MethodShin)
	require.NoError(t, err)
	assert.Equal(t, MethodShin, result.Method)
	assert.InDelta(t, 0.5, result.POver, 1e-9)
	assert.InDelta(t, 0.0476, result.ShinZ, 0.0001)
	assert.InDelta(t, 1.0, result.POver+result.PUnder, 1e-12)

	// Shin shifts probability toward the favorite relative to multiplicative
	shin, err := Devig(-200, 170, MethodShin)
	require.NoError(t, err)
	mult, err := Devig(-200, 170, MethodMultiplicative)
	require.NoError(t, err)
	assert.Greater(t, shin.POver, mult.POver)
	assert.InDelta(t, 0.6481, shin.POver, 0.0005)
	assert.GreaterOrEqual(t, shin.ShinZ, 0.0)
	assert.LessOrEqual(t, shin.ShinZ, 0.2)
}

func TestDevigShinConvergenceFailure(t *testing.T) {
	tests := []struct {
		name  string
		over  int
		under int
	}{
		{name: "Negative vig +110/+110", over: 110, under: 110},
		{name: "Extreme vig -1000/-1000", over: -1000, under: -1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Devig(tt.over, tt.under, MethodShin)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConvergenceFailure))
			assert.False(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestDevigWithFallback(t *testing.T) {
	result, err := DevigWithFallback(110, 110, MethodShin)
	require.NoError(t, err)
	assert.True(t, result.FellBack)
	assert.Equal(t, MethodMultiplicative, result.Method)
	assert.InDelta(t, 0.5, result.POver, 1e-12)

	result, err = DevigWithFallback(-110, -110, MethodShin)
	require.NoError(t, err)
	assert.False(t, result.FellBack)
	assert.Equal(t, MethodShin, result.Method)

	_, err = DevigWithFallback(0, 110, MethodShin)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("shin")
	require.NoError(t, err)
	assert.Equal(t, MethodShin, m)

	m, err = ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodMultiplicative, m)

	_, err = ParseMethod("additive")
	assert.Error(t, err)
}
