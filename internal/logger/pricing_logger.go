package logger

import (
	"github.com/sirupsen/logrus"
)

// PricingLogger provides dedicated logging for market pricing.
type PricingLogger struct {
	*logrus.Entry
}

// NewPricingLogger creates a new pricing logger.
func NewPricingLogger(baseLogger *logrus.Logger) *PricingLogger {
	return &PricingLogger{
		Entry: baseLogger.WithField("component", "pricing"),
	}
}

// LogMarketPriced logs a successfully priced market.
func (pl *PricingLogger) LogMarketPriced(marketID, marketKey string, fairLine, confidence float64, curveSource string, books, edges int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"market_id":    marketID,
		"market_key":   marketKey,
		"fair_line":    fairLine,
		"confidence":   confidence,
		"curve_source": curveSource,
		"books":        books,
		"edges":        edges,
		"duration_ms":  durationMs,
	}).Info("Market priced")
}

// LogDevigFallback logs a Shin solve that fell back to multiplicative devig.
func (pl *PricingLogger) LogDevigFallback(marketID, book string, overPrice, underPrice int) {
	pl.WithFields(logrus.Fields{
		"market_id":   marketID,
		"book":        book,
		"over_price":  overPrice,
		"under_price": underPrice,
	}).Warn("Shin devig did not converge, using multiplicative")
}

// LogMarketFailed logs a market that could not be priced.
func (pl *PricingLogger) LogMarketFailed(marketID, marketKey string, err error) {
	pl.WithFields(logrus.Fields{
		"market_id":  marketID,
		"market_key": marketKey,
	}).WithError(err).Error("Market pricing failed")
}

// LogEdgeFound logs an actionable edge.
func (pl *PricingLogger) LogEdgeFound(marketID, book, side string, line, edge, kelly float64, marketPrice, fairPrice int) {
	pl.WithFields(logrus.Fields{
		"market_id":    marketID,
		"book":         book,
		"side":         side,
		"line":         line,
		"edge":         edge,
		"kelly":        kelly,
		"market_price": marketPrice,
		"fair_price":   fairPrice,
	}).Info("Edge found")
}

// LogSimulation logs a Monte Carlo fair value run.
func (pl *PricingLogger) LogSimulation(marketID string, simulations, evidenceApplied int, fairLine, pOver float64) {
	pl.WithFields(logrus.Fields{
		"market_id":        marketID,
		"simulations":      simulations,
		"evidence_applied": evidenceApplied,
		"fair_line":        fairLine,
		"p_over":           pOver,
	}).Debug("Monte Carlo fair value computed")
}

// LogBatchCompleted logs the outcome of a batch.
func (pl *PricingLogger) LogBatchCompleted(batchID string, total, succeeded, failed int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"batch_id":    batchID,
		"total":       total,
		"succeeded":   succeeded,
		"failed":      failed,
		"duration_ms": durationMs,
	}).Info("Batch pricing completed")
}
