package pricing

import (
	"fmt"
	"math"
	"sort"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

// Curve evaluates P(over) at a line
type Curve interface {
	Evaluate(line float64) float64
}

// CurvePoint is an observed or model-implied P(over) at a line
type CurvePoint struct {
	Line  float64 `json:"line"`
	POver float64 `json:"p_over"`
}

// ProbabilityCurve is a monotonic non-increasing P(over) curve. Lines and Probabilities
// are a sample over the build range for inspection and plotting; Evaluate does not use
// them. A curve is never mutated after construction.
type ProbabilityCurve struct {
	Lines         []float64 `json:"lines"`
	Probabilities []float64 `json:"probabilities"`

	evaluate  func(float64) float64
	knots     []knot
	lineRange models.LineRange
}

type knot struct {
	line   float64
	logit  float64
	weight float64
}

// BuildProbabilityCurve fits a monotonic curve to points by isotonic regression in logit
// space. Adjacent knots that violate the non-increasing order are pooled into their
// weighted mean and the scan steps back one position until no violation remains.
// A single point yields a constant curve.
func BuildProbabilityCurve(points []CurvePoint, lineRange models.LineRange) (*ProbabilityCurve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no curve points", ErrInvalidInput)
	}
	if err := lineRange.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	knots := make([]knot, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Line) || math.IsNaN(p.POver) {
			return nil, fmt.Errorf("%w: curve point is NaN", ErrInvalidInput)
		}
		knots = append(knots, knot{
			line:   p.Line,
			logit:  logit(clamp(p.POver, MinProbability, MaxProbability)),
			weight: 1,
		})
	}
	sort.SliceStable(knots, func(i, j int) bool { return knots[i].line < knots[j].line })
	knots = poolAdjacentViolators(knots)

	return newCurve(func(line float64) float64 {
		return sigmoid(interpolateLogit(knots, line))
	}, knots, lineRange), nil
}

// Evaluate returns P(over) at line, clamped to [0.01, 0.99]
func (c *ProbabilityCurve) Evaluate(line float64) float64 {
	return clamp(c.evaluate(line), MinProbability, MaxProbability)
}

// Range returns the line range the sample was drawn over
func (c *ProbabilityCurve) Range() models.LineRange {
	return c.lineRange
}

// Points returns the pooled knots of a fitted curve. Blended curves have none.
func (c *ProbabilityCurve) Points() []CurvePoint {
	points := make([]CurvePoint, len(c.knots))
	for i, k := range c.knots {
		points[i] = CurvePoint{Line: k.line, POver: sigmoid(k.logit)}
	}
	return points
}

func newCurve(evaluate func(float64) float64, knots []knot, lineRange models.LineRange) *ProbabilityCurve {
	c := &ProbabilityCurve{
		evaluate:  evaluate,
		knots:     knots,
		lineRange: lineRange,
	}
	c.Lines = lineRange.Grid()
	c.Probabilities = make([]float64, len(c.Lines))
	for i, line := range c.Lines {
		c.Probabilities[i] = c.Evaluate(line)
	}
	return c
}

func poolAdjacentViolators(knots []knot) []knot {
	i := 0
	for i < len(knots)-1 {
		a, b := knots[i], knots[i+1]
		// equal lines are pooled too so interpolation never divides by zero
		if b.logit <= a.logit && b.line != a.line {
			i++
			continue
		}
		w := a.weight + b.weight
		knots[i] = knot{
			line:   (a.line*a.weight + b.line*b.weight) / w,
			logit:  (a.logit*a.weight + b.logit*b.weight) / w,
			weight: w,
		}
		knots = append(knots[:i+1], knots[i+2:]...)
		if i > 0 {
			i--
		}
	}
	return knots
}

func interpolateLogit(knots []knot, line float64) float64 {
	n := len(knots)
	if line <= knots[0].line {
		return knots[0].logit
	}
	if line >= knots[n-1].line {
		return knots[n-1].logit
	}
	j := sort.Search(n, func(i int) bool { return knots[i].line >= line })
	lo, hi := knots[j-1], knots[j]
	t := (line - lo.line) / (hi.line - lo.line)
	return lo.logit + t*(hi.logit-lo.logit)
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
