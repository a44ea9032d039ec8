package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/akashjainn/propsage-sub000/internal/distribution"
	"github.com/akashjainn/propsage-sub000/internal/logger"
	"github.com/akashjainn/propsage-sub000/internal/metrics"
	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/montecarlo"
	"github.com/akashjainn/propsage-sub000/internal/pricing"
)

// CurveSource names which curve a fair line was solved on
type CurveSource string

const (
	CurveSourceMarket CurveSource = "market"
	CurveSourceModel  CurveSource = "model"
	CurveSourceBlend  CurveSource = "blend"
)

// Derived line ranges pad the quoted lines by a quarter of their magnitude (at least two
// points) and are sampled in about forty steps.
const (
	derivedRangePadding = 0.25
	derivedRangeMinPad  = 2.0
	derivedRangeSteps   = 40.0
)

// MarketPricing is the full pricing of one market
type MarketPricing struct {
	MarketID       string                            `json:"market_id"`
	PlayerID       string                            `json:"player_id"`
	PlayerName     string                            `json:"player_name,omitempty"`
	Sport          models.Sport                      `json:"sport"`
	Market         models.Market                     `json:"market"`
	MainLine       float64                           `json:"main_line"`
	LineRange      models.LineRange                  `json:"line_range"`
	Books          []pricing.BookProbability         `json:"books"`
	Consensus      *pricing.ConsensusResult          `json:"consensus,omitempty"`
	Model          *distribution.OutcomeDistribution `json:"model,omitempty"`
	CurveSource    CurveSource                       `json:"curve_source"`
	Curve          []pricing.CurvePoint              `json:"curve"`
	FairLine       pricing.FairMarketLineResult      `json:"fair_line"`
	Edges          []pricing.EdgeCalculation         `json:"edges"`
	MonteCarlo     *montecarlo.PricingResult         `json:"monte_carlo,omitempty"`
	DevigFallbacks int                               `json:"devig_fallbacks"`
	Actionable     bool                              `json:"actionable"`
	PricedAt       time.Time                         `json:"priced_at"`
}

// PricingService prices single markets
type PricingService struct {
	opts          Options
	logger        *logrus.Logger
	pricingLogger *logger.PricingLogger
	cache         *ResultCache
	now           func() time.Time
}

// NewPricingService creates a new pricing service
func NewPricingService(opts Options, log *logrus.Logger) *PricingService {
	return &PricingService{
		opts:          opts,
		logger:        log,
		pricingLogger: logger.NewPricingLogger(log),
		now:           time.Now,
	}
}

// WithCache enables result caching
func (s *PricingService) WithCache(c *ResultCache) *PricingService {
	s.cache = c
	return s
}

// Options returns the service configuration
func (s *PricingService) Options() Options {
	return s.opts
}

// MarketID returns req.ID, or a stable ID derived from the market key when unset
func MarketID(req *models.MarketRequest) string {
	if req.ID != "" {
		return req.ID
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(req.Key())).String()
}

// PriceMarket runs the pipeline for one market: devig every quote, build consensus on
// the main line, fit market and model curves, solve the fair line on the chosen curve,
// price edges against it, and run the Monte Carlo path when a prior is supplied.
func (s *PricingService) PriceMarket(ctx context.Context, req *models.MarketRequest) (*MarketPricing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	start := s.now()
	marketID := MarketID(req)

	var cacheKey string
	if s.cache != nil {
		key, err := Fingerprint(req)
		if err != nil {
			return nil, err
		}
		cacheKey = key
		if cached, ok := s.cache.Get(cacheKey); ok {
			s.logger.WithField("market_id", marketID).Debug("Using cached pricing")
			return cached, nil
		}
	}

	result, err := s.price(ctx, marketID, req)
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordMarketPriced(string(req.Sport), status, s.now().Sub(start).Seconds())
	if err != nil {
		s.pricingLogger.LogMarketFailed(marketID, req.Key(), err)
		return nil, err
	}

	result.PricedAt = s.now()
	s.pricingLogger.LogMarketPriced(marketID, req.Key(), result.FairLine.Line, result.FairLine.Confidence,
		string(result.CurveSource), len(distinctBooks(req.Quotes)), len(result.Edges), float64(s.now().Sub(start).Microseconds())/1000)

	if s.cache != nil {
		s.cache.Set(cacheKey, result)
	}
	return result, nil
}

func (s *PricingService) price(ctx context.Context, marketID string, req *models.MarketRequest) (*MarketPricing, error) {
	result := &MarketPricing{
		MarketID:   marketID,
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		Sport:      req.Sport,
		Market:     req.Market,
	}

	books, fallbacks, err := s.devigQuotes(marketID, req.Quotes)
	if err != nil {
		return nil, err
	}
	result.Books = books
	result.DevigFallbacks = fallbacks

	mainLine, _ := models.MainLine(req.Quotes)
	result.MainLine = mainLine
	consensus, err := pricing.CalculateConsensus(booksAtLine(books, mainLine), s.opts.BookWeights)
	if err != nil {
		return nil, fmt.Errorf("consensus: %w", err)
	}
	result.Consensus = &consensus

	lineRange := s.resolveLineRange(req)
	result.LineRange = lineRange

	bookCount := len(distinctBooks(req.Quotes))
	var marketCurve, modelCurve *pricing.ProbabilityCurve
	if bookCount >= s.opts.MinBooks {
		marketCurve, err = s.buildMarketCurve(books, lineRange)
		if err != nil {
			return nil, fmt.Errorf("market curve: %w", err)
		}
	}
	if req.Features != nil || marketCurve == nil {
		outcome, err := distribution.PredictPlayerOutcome(req.PlayerID, req.Market, req.Features, req.Sport)
		if err != nil {
			return nil, fmt.Errorf("outcome model: %w", err)
		}
		result.Model = &outcome
		modelCurve, err = buildModelCurve(outcome, lineRange)
		if err != nil {
			return nil, fmt.Errorf("model curve: %w", err)
		}
	}

	curve, source, err := s.chooseCurve(marketCurve, modelCurve)
	if err != nil {
		return nil, err
	}
	result.CurveSource = source
	result.Curve = sampledPoints(curve)

	fml, err := pricing.SolveFairMarketLine(curve, pricing.Interval{Lower: lineRange.Min, Upper: lineRange.Max})
	if err != nil {
		return nil, fmt.Errorf("fair line: %w", err)
	}
	result.FairLine = fml
	metrics.RecordFairLine(string(req.Sport), string(req.Market), string(source), fml.Confidence)

	edges, err := pricing.CalculateEdges(req.Quotes, curve, s.opts.DevigMethod)
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}
	result.Edges = edges
	for _, e := range edges {
		if e.Edge > 0 {
			metrics.RecordEdgeFound(string(e.Side))
			s.pricingLogger.LogEdgeFound(marketID, e.Book, string(e.Side), e.Line, e.Edge, e.KellyFraction, e.MarketPrice, e.FairPrice)
		}
	}

	if req.Prior != nil {
		mc, err := s.simulate(ctx, marketID, mainLine, req)
		if err != nil {
			return nil, fmt.Errorf("monte carlo: %w", err)
		}
		result.MonteCarlo = mc
	}

	result.Actionable = marketCurve != nil && fml.Confidence >= s.opts.ConfidenceThreshold
	return result, nil
}

func (s *PricingService) devigQuotes(marketID string, quotes []models.BookQuote) ([]pricing.BookProbability, int, error) {
	books := make([]pricing.BookProbability, 0, len(quotes))
	fallbacks := 0
	for _, q := range quotes {
		devig, err := pricing.DevigWithFallback(q.OverPrice, q.UnderPrice, s.opts.DevigMethod)
		if err != nil {
			return nil, 0, fmt.Errorf("devig %s: %w", q.Book, err)
		}
		if devig.FellBack {
			fallbacks++
			metrics.RecordDevigFallback()
			s.pricingLogger.LogDevigFallback(marketID, q.Book, q.OverPrice, q.UnderPrice)
		}
		books = append(books, pricing.BookProbability{Book: q.Book, Line: q.Line, Devig: devig})
	}
	return books, fallbacks, nil
}

// buildMarketCurve takes the weighted consensus at each quoted line as a curve point
func (s *PricingService) buildMarketCurve(books []pricing.BookProbability, lineRange models.LineRange) (*pricing.ProbabilityCurve, error) {
	byLine := make(map[float64][]pricing.BookProbability)
	for _, b := range books {
		byLine[b.Line] = append(byLine[b.Line], b)
	}
	lines := make([]float64, 0, len(byLine))
	for line := range byLine {
		lines = append(lines, line)
	}
	sort.Float64s(lines)

	points := make([]pricing.CurvePoint, 0, len(lines))
	for _, line := range lines {
		c, err := pricing.CalculateConsensus(byLine[line], s.opts.BookWeights)
		if err != nil {
			// every book at this line carries zero weight
			if errors.Is(err, pricing.ErrInvalidInput) {
				continue
			}
			return nil, err
		}
		points = append(points, pricing.CurvePoint{Line: line, POver: c.POverConsensus})
	}
	return pricing.BuildProbabilityCurve(points, lineRange)
}

func buildModelCurve(outcome distribution.OutcomeDistribution, lineRange models.LineRange) (*pricing.ProbabilityCurve, error) {
	grid := lineRange.Grid()
	points := make([]pricing.CurvePoint, len(grid))
	for i, line := range grid {
		points[i] = pricing.CurvePoint{Line: line, POver: outcome.ProbabilityOver(line)}
	}
	return pricing.BuildProbabilityCurve(points, lineRange)
}

func (s *PricingService) chooseCurve(market, model *pricing.ProbabilityCurve) (*pricing.ProbabilityCurve, CurveSource, error) {
	switch {
	case market != nil && model != nil:
		blended, err := pricing.Blend(market, model, s.opts.BlendAlpha)
		if err != nil {
			return nil, "", fmt.Errorf("blend: %w", err)
		}
		return blended, CurveSourceBlend, nil
	case market != nil:
		return market, CurveSourceMarket, nil
	case model != nil:
		return model, CurveSourceModel, nil
	default:
		return nil, "", fmt.Errorf("%w: no curve could be built", pricing.ErrInvalidInput)
	}
}

func (s *PricingService) simulate(ctx context.Context, marketID string, line float64, req *models.MarketRequest) (*montecarlo.PricingResult, error) {
	opts := s.opts.MonteCarlo
	if opts.Seed != 0 && opts.Source == nil && opts.SourceFactory == nil {
		opts.Seed = marketSeed(opts.Seed, marketID)
	}
	start := s.now()
	mc, err := montecarlo.MonteCarloFairValue(ctx, line, *req.Prior, req.Evidence, opts)
	if err != nil {
		return nil, err
	}
	metrics.RecordSimulation(mc.Simulations, s.now().Sub(start).Seconds())
	s.pricingLogger.LogSimulation(marketID, mc.Simulations, len(mc.EvidenceApplied), mc.FairLine, mc.POver)
	return &mc, nil
}

// marketSeed mixes the configured seed with the market so batch results do not depend
// on which worker prices which market
func marketSeed(seed int64, marketID string) int64 {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(marketID))
	mixed := seed ^ int64(binary.BigEndian.Uint64(id[:8]))
	if mixed == 0 {
		return seed
	}
	return mixed
}

// resolveLineRange prefers the request's range, then the configured range when it
// covers every quoted line, then a range derived around the quotes
func (s *PricingService) resolveLineRange(req *models.MarketRequest) models.LineRange {
	if req.LineRange != nil {
		return *req.LineRange
	}
	lines := models.Lines(req.Quotes)
	lo, hi := lines[0], lines[len(lines)-1]
	if r := s.opts.LineRange; r != nil && r.Validate() == nil && r.Contains(lo) && r.Contains(hi) {
		return *r
	}
	return deriveLineRange(lo, hi)
}

func deriveLineRange(lo, hi float64) models.LineRange {
	center := (lo + hi) / 2
	pad := math.Max(derivedRangeMinPad, math.Max(hi-lo, math.Abs(center)*derivedRangePadding))
	low := math.Max(0, lo-pad)
	high := hi + pad
	step := roundStep((high - low) / derivedRangeSteps)
	return models.LineRange{Min: math.Floor(low/step) * step, Max: math.Ceil(high/step) * step, Step: step}
}

// roundStep snaps a raw step to 0.5 or a whole number
func roundStep(raw float64) float64 {
	if raw <= 0.5 {
		return 0.5
	}
	return math.Ceil(raw)
}

func sampledPoints(curve *pricing.ProbabilityCurve) []pricing.CurvePoint {
	points := make([]pricing.CurvePoint, len(curve.Lines))
	for i, line := range curve.Lines {
		points[i] = pricing.CurvePoint{Line: line, POver: curve.Probabilities[i]}
	}
	return points
}

func booksAtLine(books []pricing.BookProbability, line float64) []pricing.BookProbability {
	out := make([]pricing.BookProbability, 0, len(books))
	for _, b := range books {
		if b.Line == line {
			out = append(out, b)
		}
	}
	return out
}

func distinctBooks(quotes []models.BookQuote) map[string]bool {
	books := make(map[string]bool, len(quotes))
	for _, q := range quotes {
		books[q.Book] = true
	}
	return books
}
