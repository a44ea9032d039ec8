package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/akashjainn/propsage-sub000/internal/logger"
	"github.com/akashjainn/propsage-sub000/internal/metrics"
	"github.com/akashjainn/propsage-sub000/internal/models"
)

// BatchStatus is the outcome of one market in a batch
type BatchStatus string

const (
	BatchStatusSuccess BatchStatus = "success"
	BatchStatusFailure BatchStatus = "failure"
)

// MarketPricer prices a single market
type MarketPricer interface {
	PriceMarket(ctx context.Context, req *models.MarketRequest) (*MarketPricing, error)
}

// BatchResult reports one market's outcome. Error is set only on failure.
type BatchResult struct {
	MarketID  string         `json:"market_id"`
	MarketKey string         `json:"market_key"`
	Status    BatchStatus    `json:"status"`
	Error     string         `json:"error,omitempty"`
	Pricing   *MarketPricing `json:"pricing,omitempty"`
	err       error
}

// Err returns the failure cause
func (r BatchResult) Err() error {
	return r.err
}

// BatchReport is the outcome of a whole batch. Results are in request order.
type BatchReport struct {
	BatchID    string        `json:"batch_id"`
	Trigger    string        `json:"trigger"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Results    []BatchResult `json:"results"`
}

// BatchPricer prices many independent markets on a bounded worker pool. A market that
// fails, or panics, is reported in its BatchResult and never stops the rest.
type BatchPricer struct {
	pricer        MarketPricer
	workers       int
	logger        *logrus.Logger
	pricingLogger *logger.PricingLogger
}

// NewBatchPricer creates a new batch pricer
func NewBatchPricer(pricer MarketPricer, workers int, log *logrus.Logger) *BatchPricer {
	if workers <= 0 {
		workers = 1
	}
	return &BatchPricer{
		pricer:        pricer,
		workers:       workers,
		logger:        log,
		pricingLogger: logger.NewPricingLogger(log),
	}
}

// PriceAll prices every request. Cancelling ctx fails the markets not yet priced.
func (b *BatchPricer) PriceAll(ctx context.Context, reqs []*models.MarketRequest, trigger string) *BatchReport {
	report := &BatchReport{
		BatchID:   uuid.New().String(),
		Trigger:   trigger,
		StartedAt: time.Now(),
		Results:   make([]BatchResult, len(reqs)),
	}
	stats := NewBatchStats(len(reqs))

	b.logger.WithFields(logrus.Fields{
		"batch_id": report.BatchID,
		"markets":  len(reqs),
		"workers":  b.workers,
		"trigger":  trigger,
	}).Info("Starting batch pricing")

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			report.Results[i] = b.priceOne(ctx, req)
			if report.Results[i].Status == BatchStatusSuccess {
				stats.RecordSuccess(report.Results[i].Pricing)
			} else {
				stats.RecordFailure()
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.Finish()
	report.FinishedAt = time.Now()
	report.Succeeded = stats.Succeeded
	report.Failed = stats.Failed

	metrics.RecordBatch(trigger, stats.Failed, stats.Duration.Seconds())
	b.pricingLogger.LogBatchCompleted(report.BatchID, stats.Total, stats.Succeeded, stats.Failed,
		float64(stats.Duration.Microseconds())/1000)
	b.logger.Debug(stats.String())
	return report
}

func (b *BatchPricer) priceOne(ctx context.Context, req *models.MarketRequest) (result BatchResult) {
	if req == nil {
		return failed(result, fmt.Errorf("nil market request"))
	}
	result.MarketID = MarketID(req)
	result.MarketKey = req.Key()

	defer func() {
		if r := recover(); r != nil {
			result = failed(result, fmt.Errorf("panic pricing market: %v", r))
			b.pricingLogger.LogMarketFailed(result.MarketID, result.MarketKey, result.err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return failed(result, err)
	}
	priced, err := b.pricer.PriceMarket(ctx, req)
	if err != nil {
		return failed(result, err)
	}
	result.Status = BatchStatusSuccess
	result.Pricing = priced
	return result
}

func failed(result BatchResult, err error) BatchResult {
	result.Status = BatchStatusFailure
	result.Error = err.Error()
	result.Pricing = nil
	result.err = err
	return result
}
