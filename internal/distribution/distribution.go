// Package distribution models a player's stat outcome as a probability distribution and
// evaluates over/under probabilities against it.
package distribution

import (
	"fmt"
	"math"
)

const (
	minMean   = 0.1
	minStd    = 0.05
	minLogArg = 0.01
)

// Distribution is a closed set of outcome distributions. Only types in this package
// implement it, so CDF dispatch cannot fall through to an unknown variant.
type Distribution interface {
	// CDF returns P(X <= x)
	CDF(x float64) float64
	Mean() float64
	fmt.Stringer
	sealed()
}

// Normal is a Gaussian outcome with mean Mu and standard deviation Sigma
type Normal struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// LogNormal is an outcome whose natural log is Normal(Mu, Sigma)
type LogNormal struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// Poisson is a count outcome with rate Lambda
type Poisson struct {
	Lambda float64 `json:"lambda"`
}

// NegativeBinomial counts failures before the R-th success with success probability P.
// Its variance exceeds its mean, which suits over-dispersed counting stats.
type NegativeBinomial struct {
	R float64 `json:"r"`
	P float64 `json:"p"`
}

func (Normal) sealed()           {}
func (LogNormal) sealed()        {}
func (Poisson) sealed()          {}
func (NegativeBinomial) sealed() {}

// CDF uses the Abramowitz-Stegun error function
func (d Normal) CDF(x float64) float64 {
	return normalCDF((x - d.Mu) / math.Max(d.Sigma, minStd))
}

func (d Normal) Mean() float64 { return d.Mu }

func (d Normal) String() string {
	return fmt.Sprintf("Normal(mu=%.3f, sigma=%.3f)", d.Mu, d.Sigma)
}

// CDF evaluates the Normal CDF on ln(x), with x floored at 0.01
func (d LogNormal) CDF(x float64) float64 {
	return normalCDF((math.Log(math.Max(minLogArg, x)) - d.Mu) / math.Max(d.Sigma, minStd))
}

func (d LogNormal) Mean() float64 {
	return math.Exp(d.Mu + d.Sigma*d.Sigma/2)
}

func (d LogNormal) String() string {
	return fmt.Sprintf("LogNormal(mu=%.3f, sigma=%.3f)", d.Mu, d.Sigma)
}

// CDF sums the probability mass recursively up to floor(x)
func (d Poisson) CDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	lambda := math.Max(d.Lambda, minMean)
	n := int(math.Floor(x))

	term := math.Exp(-lambda)
	sum := term
	for k := 1; k <= n; k++ {
		term *= lambda / float64(k)
		sum += term
		if term < 1e-15 && float64(k) > lambda {
			break
		}
	}
	return math.Min(sum, 1)
}

func (d Poisson) Mean() float64 { return d.Lambda }

func (d Poisson) String() string {
	return fmt.Sprintf("Poisson(lambda=%.3f)", d.Lambda)
}

// CDF sums Gamma-ratio probability terms up to floor(x)
func (d NegativeBinomial) CDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	r := math.Max(d.R, minStd)
	p := clamp(d.P, 1e-9, 1-1e-9)
	n := int(math.Floor(x))

	logBase := r*math.Log(p) - lnGamma(r)
	logQ := math.Log(1 - p)
	mean := r * (1 - p) / p
	var sum float64
	for k := 0; k <= n; k++ {
		kf := float64(k)
		term := math.Exp(logBase + lnGamma(kf+r) - lnGamma(kf+1) + kf*logQ)
		sum += term
		if term < 1e-15 && kf > mean {
			break
		}
	}
	return math.Min(sum, 1)
}

func (d NegativeBinomial) Mean() float64 {
	return d.R * (1 - d.P) / d.P
}

func (d NegativeBinomial) String() string {
	return fmt.Sprintf("NegativeBinomial(r=%.3f, p=%.3f)", d.R, d.P)
}

// ProbabilityOver returns P(X > line) = 1 - CDF(line)
func ProbabilityOver(line float64, dist Distribution) float64 {
	return clamp(1-dist.CDF(line), 0, 1)
}

// NewLogNormalFromMoments matches a LogNormal to an outcome's mean and standard deviation
func NewLogNormalFromMoments(mean, std float64) LogNormal {
	mean = math.Max(mean, minMean)
	std = math.Max(std, minStd)
	variance := math.Log(1 + (std*std)/(mean*mean))
	return LogNormal{
		Mu:    math.Log(mean) - variance/2,
		Sigma: math.Sqrt(variance),
	}
}

// NewNegativeBinomialFromMoments matches a NegativeBinomial to an outcome's mean and
// standard deviation. Counts with variance at or below the mean are not over-dispersed
// and get a Poisson instead.
func NewNegativeBinomialFromMoments(mean, std float64) Distribution {
	mean = math.Max(mean, minMean)
	variance := std * std
	if variance <= mean {
		return Poisson{Lambda: mean}
	}
	return NegativeBinomial{
		R: mean * mean / (variance - mean),
		P: mean / variance,
	}
}
