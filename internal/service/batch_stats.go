package service

import (
	"fmt"
	"sync"
	"time"
)

// BatchStats tracks counts across a batch while workers report into it
type BatchStats struct {
	mu             sync.RWMutex
	StartTime      time.Time
	Duration       time.Duration
	Total          int
	Succeeded      int
	Failed         int
	DevigFallbacks int
	Edges          int
	Actionable     int
}

// NewBatchStats creates a new stats tracker
func NewBatchStats(total int) *BatchStats {
	return &BatchStats{
		StartTime: time.Now(),
		Total:     total,
	}
}

// RecordSuccess counts a priced market
func (m *BatchStats) RecordSuccess(p *MarketPricing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Succeeded++
	m.DevigFallbacks += p.DevigFallbacks
	m.Edges += len(p.Edges)
	if p.Actionable {
		m.Actionable++
	}
}

// RecordFailure counts a market that could not be priced
func (m *BatchStats) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failed++
}

// Finish stamps the batch duration
func (m *BatchStats) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// SuccessRate is the share of markets priced, in percent
func (m *BatchStats) SuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Total == 0 {
		return 0
	}
	return float64(m.Succeeded) / float64(m.Total) * 100
}

// String returns a formatted string representation of the stats
func (m *BatchStats) String() string {
	rate := m.SuccessRate()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf(
		"BatchStats{Total=%d, Succeeded=%d (%.1f%%), Failed=%d, Actionable=%d, Edges=%d, DevigFallbacks=%d, Duration=%v}",
		m.Total,
		m.Succeeded,
		rate,
		m.Failed,
		m.Actionable,
		m.Edges,
		m.DevigFallbacks,
		m.Duration,
	)
}
