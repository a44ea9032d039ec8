package models

import (
	"fmt"
	"math"
)

// Side represents the side of a two-way prop (OVER or UNDER)
type Side string

const (
	SideOver  Side = "OVER"
	SideUnder Side = "UNDER"
)

// Sport identifies which outcome model prices a market
type Sport string

const (
	SportBasketball Sport = "basketball"
	SportFootball   Sport = "football"
	SportBaseball   Sport = "baseball"
)

// Market identifies the stat a prop is written on
type Market string

// Basketball markets
const (
	MarketPoints   Market = "points"
	MarketRebounds Market = "rebounds"
	MarketAssists  Market = "assists"
	MarketThrees   Market = "threes"
	MarketPRA      Market = "pra"
	MarketSteals   Market = "steals"
	MarketBlocks   Market = "blocks"
)

// Football markets
const (
	MarketPassingYards   Market = "passing_yards"
	MarketRushingYards   Market = "rushing_yards"
	MarketReceivingYards Market = "receiving_yards"
	MarketReceptions     Market = "receptions"
	MarketPassingTDs     Market = "passing_tds"
	MarketTouchdowns     Market = "touchdowns"
)

// Baseball markets
const (
	MarketStrikeouts  Market = "strikeouts"
	MarketHits        Market = "hits"
	MarketTotalBases  Market = "total_bases"
	MarketHomeRuns    Market = "home_runs"
	MarketHitsAllowed Market = "hits_allowed"
)

// MarketsFor lists the markets quoted for a sport
func MarketsFor(sport Sport) []Market {
	switch sport {
	case SportBasketball:
		return []Market{MarketPoints, MarketRebounds, MarketAssists, MarketThrees, MarketPRA, MarketSteals, MarketBlocks}
	case SportFootball:
		return []Market{MarketPassingYards, MarketRushingYards, MarketReceivingYards, MarketReceptions, MarketPassingTDs, MarketTouchdowns}
	case SportBaseball:
		return []Market{MarketStrikeouts, MarketHits, MarketTotalBases, MarketHomeRuns, MarketHitsAllowed}
	default:
		return nil
	}
}

// LineRange is an inclusive grid of lines used for curve sampling and solving
type LineRange struct {
	Min  float64 `json:"min" mapstructure:"min"`
	Max  float64 `json:"max" mapstructure:"max"`
	Step float64 `json:"step" mapstructure:"step"`
}

// MaxGridPoints bounds the number of lines a LineRange may expand to
const MaxGridPoints = 10000

// Validate checks the range is well formed and its grid stays under MaxGridPoints
func (r LineRange) Validate() error {
	for _, v := range []float64{r.Min, r.Max, r.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("line range values must be finite, got %+v", r)
		}
	}
	if r.Step <= 0 {
		return fmt.Errorf("line range step must be positive, got %v", r.Step)
	}
	if r.Max < r.Min {
		return fmt.Errorf("line range max %v is below min %v", r.Max, r.Min)
	}
	if points := (r.Max-r.Min)/r.Step + 1; points > MaxGridPoints {
		return fmt.Errorf("line range spans %.0f lines, limit is %d", points, MaxGridPoints)
	}
	return nil
}

// Contains reports whether line lies inside the range
func (r LineRange) Contains(line float64) bool {
	return line >= r.Min && line <= r.Max
}

// Grid returns every line from Min to Max stepping by Step. Lines are computed by index
// so the grid does not accumulate floating point drift.
func (r LineRange) Grid() []float64 {
	if r.Validate() != nil {
		return nil
	}
	n := int((r.Max-r.Min)/r.Step+1e-9) + 1
	lines := make([]float64, n)
	for i := range lines {
		lines[i] = r.Min + float64(i)*r.Step
	}
	return lines
}

// MarketRequest carries everything needed to price one player prop market
type MarketRequest struct {
	ID         string          `json:"id"`
	PlayerID   string          `json:"player_id" validate:"required"`
	PlayerName string          `json:"player_name,omitempty"`
	Sport      Sport           `json:"sport" validate:"required,oneof=basketball football baseball"`
	Market     Market          `json:"market" validate:"required"`
	Quotes     []BookQuote     `json:"quotes" validate:"dive"`
	Features   *PlayerFeatures `json:"features,omitempty"`
	Prior      *PlayerPrior    `json:"prior,omitempty"`
	Evidence   []NewsEvidence  `json:"evidence,omitempty" validate:"dive"`
	LineRange  *LineRange      `json:"line_range,omitempty"`
}

// Key returns a human readable identifier for logging
func (r *MarketRequest) Key() string {
	return fmt.Sprintf("%s:%s:%s", r.Sport, r.PlayerID, r.Market)
}
