package distribution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErfMatchesStandardLibrary(t *testing.T) {
	for x := -4.0; x <= 4.0; x += 0.25 {
		assert.InDelta(t, math.Erf(x), erf(x), 2e-7, "erf(%v)", x)
	}
}

func TestLnGammaMatchesStandardLibrary(t *testing.T) {
	for _, z := range []float64{0.3, 0.5, 1, 1.5, 2, 3.2, 6.9, 7, 10.5, 42, 180} {
		want, _ := math.Lgamma(z)
		assert.InDelta(t, want, lnGamma(z), 1e-9, "lnGamma(%v)", z)
	}
}

func TestProbabilityOver(t *testing.T) {
	tests := []struct {
		name  string
		dist  Distribution
		line  float64
		want  float64
		delta float64
	}{
		{name: "normal at mean", dist: Normal{Mu: 20, Sigma: 5}, line: 20, want: 0.5, delta: 1e-7},
		{name: "normal above mean", dist: Normal{Mu: 20, Sigma: 5}, line: 20.5, want: 0.4602, delta: 1e-4},
		{name: "normal far below", dist: Normal{Mu: 20, Sigma: 5}, line: -10, want: 1, delta: 1e-6},
		{name: "poisson half line", dist: Poisson{Lambda: 1.6}, line: 1.5, want: 0.4751, delta: 1e-4},
		{name: "poisson negative line", dist: Poisson{Lambda: 1.6}, line: -0.5, want: 1, delta: 1e-12},
		{name: "negative binomial", dist: NegativeBinomial{R: 3.2, P: 4.0 / 9}, line: 4.5, want: 1 - 0.63965, delta: 1e-4},
		{name: "lognormal median", dist: LogNormal{Mu: math.Log(19.4), Sigma: 0.25}, line: 19.4, want: 0.5, delta: 1e-7},
		{name: "lognormal floors line", dist: LogNormal{Mu: 0, Sigma: 1}, line: -3, want: 1 - normalCDF(math.Log(0.01)), delta: 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ProbabilityOver(tt.line, tt.dist), tt.delta)
		})
	}
}

func TestCDFIsNonDecreasing(t *testing.T) {
	dists := []Distribution{
		Normal{Mu: 20, Sigma: 5},
		LogNormal{Mu: 3, Sigma: 0.3},
		Poisson{Lambda: 5.5},
		NegativeBinomial{R: 3.2, P: 0.44},
	}
	for _, d := range dists {
		prev := 0.0
		for x := -2.0; x <= 60; x += 0.5 {
			cdf := d.CDF(x)
			assert.GreaterOrEqual(t, cdf, prev-1e-12, "%s at %v", d, x)
			assert.LessOrEqual(t, cdf, 1.0)
			prev = cdf
		}
	}
}

func TestDegenerateParametersAreFloored(t *testing.T) {
	p := ProbabilityOver(20.5, Normal{Mu: 20, Sigma: 0})
	assert.False(t, math.IsNaN(p))
	assert.Less(t, p, 0.01)

	p = ProbabilityOver(0.5, Poisson{Lambda: 0})
	assert.False(t, math.IsNaN(p))
	assert.InDelta(t, 1-math.Exp(-minMean), p, 1e-12)
}

func TestNewLogNormalFromMoments(t *testing.T) {
	d := NewLogNormalFromMoments(20, 5)
	assert.InDelta(t, 2.96542, d.Mu, 1e-5)
	assert.InDelta(t, 0.24622, d.Sigma, 1e-5)
	assert.InDelta(t, 20, d.Mean(), 1e-9)
}

func TestNewNegativeBinomialFromMoments(t *testing.T) {
	d := NewNegativeBinomialFromMoments(4, 3)
	nb, ok := d.(NegativeBinomial)
	if assert.True(t, ok) {
		assert.InDelta(t, 3.2, nb.R, 1e-9)
		assert.InDelta(t, 4.0/9, nb.P, 1e-9)
		assert.InDelta(t, 4, nb.Mean(), 1e-9)
	}

	// not over-dispersed
	d = NewNegativeBinomialFromMoments(4, 1.5)
	assert.Equal(t, Poisson{Lambda: 4}, d)
}
