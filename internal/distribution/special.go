package distribution

import "math"

// Abramowitz and Stegun 7.1.26
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911
)

// stirlingShift is the argument below which lnGamma recurses upward before applying
// the asymptotic series
const stirlingShift = 7.0

// erf has absolute error below 1.5e-7
func erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1
		x = -x
	}
	t := 1 / (1 + erfP*x)
	poly := ((((erfA5*t+erfA4)*t+erfA3)*t+erfA2)*t + erfA1) * t
	return sign * (1 - poly*math.Exp(-x*x))
}

func normalCDF(z float64) float64 {
	return 0.5 * (1 + erf(z/math.Sqrt2))
}

// lnGamma is the Stirling series for ln(Gamma(z)), z > 0
func lnGamma(z float64) float64 {
	var shift float64
	for z < stirlingShift {
		shift -= math.Log(z)
		z++
	}
	inv := 1 / z
	inv2 := inv * inv
	series := inv * (1.0/12 - inv2*(1.0/360-inv2*(1.0/1260-inv2/1680)))
	return shift + (z-0.5)*math.Log(z) - z + 0.5*math.Log(2*math.Pi) + series
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
