package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/pricing"
)

const (
	DefaultSimulations   = 50000
	DefaultReservoirSize = 2000

	// ctx is polled once per this many draws
	cancelCheckInterval = 4096
)

// Options configures a simulation run. Source, when set, drives a single partition and
// Workers is ignored since a RandomSource need not be safe for concurrent use.
// Otherwise each of Workers partitions draws from SourceFactory(i), or from a
// math/rand source seeded with Seed+i.
type Options struct {
	Simulations   int
	ReservoirSize int
	Workers       int
	Seed          int64
	Source        RandomSource
	SourceFactory func(partition int) RandomSource
}

// DefaultOptions returns single-worker options with the default sample sizes
func DefaultOptions() Options {
	return Options{
		Simulations:   DefaultSimulations,
		ReservoirSize: DefaultReservoirSize,
		Workers:       1,
	}
}

// PricingResult summarizes a simulated stat distribution against a market line
type PricingResult struct {
	MarketLine         float64               `json:"market_line"`
	FairLine           float64               `json:"fair_line"`
	Edge               float64               `json:"edge"`
	POver              float64               `json:"p_over"`
	Mu                 float64               `json:"mu"`
	Sigma              float64               `json:"sigma"`
	ConfidenceInterval [2]float64            `json:"confidence_interval"`
	EvidenceApplied    []models.NewsEvidence `json:"evidence_applied"`
	Simulations        int                   `json:"simulations"`
}

type partitionResult struct {
	over int
	res  *reservoir
}

// MonteCarloFairValue adjusts prior by evidence, simulates the stat from
// Normal(mu, sigma) and reads the fair line (median) and 90% interval off a reservoir
// sample. Edge is P(over marketLine) - 0.5.
func MonteCarloFairValue(ctx context.Context, marketLine float64, prior models.PlayerPrior, evidence []models.NewsEvidence, opts Options) (PricingResult, error) {
	if math.IsNaN(marketLine) || math.IsInf(marketLine, 0) {
		return PricingResult{}, fmt.Errorf("%w: market line %v", pricing.ErrInvalidInput, marketLine)
	}
	if math.IsNaN(prior.Mu) || math.IsNaN(prior.Sigma) {
		return PricingResult{}, fmt.Errorf("%w: prior is NaN", pricing.ErrInvalidInput)
	}
	opts = withDefaults(opts)

	adj := ApplyEvidenceAdjustments(prior, evidence)
	sources, sizes := partition(opts)

	parts := make([]partitionResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i := range sources {
		i := i
		g.Go(func() error {
			p, err := simulatePartition(gctx, sources[i], sizes[i], opts.ReservoirSize, adj.Mu, adj.Sigma, marketLine)
			if err != nil {
				return err
			}
			parts[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PricingResult{}, err
	}

	over := 0
	reservoirs := make([]*reservoir, len(parts))
	for i, p := range parts {
		over += p.over
		reservoirs[i] = p.res
	}
	sample := reservoirs[0].items
	if len(reservoirs) > 1 {
		sample = mergeReservoirs(reservoirs, opts.ReservoirSize, sources[0])
	}
	sort.Float64s(sample)

	pOver := float64(over) / float64(opts.Simulations)
	return PricingResult{
		MarketLine:         marketLine,
		FairLine:           percentile(sample, 0.5),
		Edge:               pOver - 0.5,
		POver:              pOver,
		Mu:                 adj.Mu,
		Sigma:              adj.Sigma,
		ConfidenceInterval: [2]float64{percentile(sample, 0.05), percentile(sample, 0.95)},
		EvidenceApplied:    adj.Applied,
		Simulations:        opts.Simulations,
	}, nil
}

func withDefaults(opts Options) Options {
	if opts.Simulations <= 0 {
		opts.Simulations = DefaultSimulations
	}
	if opts.ReservoirSize <= 0 {
		opts.ReservoirSize = DefaultReservoirSize
	}
	if opts.Workers <= 0 || opts.Source != nil {
		opts.Workers = 1
	}
	if opts.Workers > opts.Simulations {
		opts.Workers = opts.Simulations
	}
	if opts.Seed == 0 && opts.Source == nil && opts.SourceFactory == nil {
		opts.Seed = time.Now().UnixNano()
	}
	return opts
}

func partition(opts Options) ([]RandomSource, []int) {
	sources := make([]RandomSource, opts.Workers)
	sizes := make([]int, opts.Workers)
	per, extra := opts.Simulations/opts.Workers, opts.Simulations%opts.Workers
	for i := range sources {
		sizes[i] = per
		if i < extra {
			sizes[i]++
		}
		switch {
		case opts.Source != nil:
			sources[i] = opts.Source
		case opts.SourceFactory != nil:
			sources[i] = opts.SourceFactory(i)
		default:
			sources[i] = rand.New(rand.NewSource(opts.Seed + int64(i)))
		}
	}
	return sources, sizes
}

func simulatePartition(ctx context.Context, src RandomSource, n, reservoirSize int, mu, sigma, line float64) (partitionResult, error) {
	normal := newNormalSampler(src)
	res := newReservoir(reservoirSize, src)
	over := 0
	for i := 0; i < n; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return partitionResult{}, err
			}
		}
		x := mu + sigma*normal.next()
		if x > line {
			over++
		}
		res.add(x)
	}
	return partitionResult{over: over, res: res}, nil
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
