package models

import (
	"sort"
	"time"
)

// BookQuote is a two-sided over/under quote from one sportsbook.
// Prices are American odds and are never zero.
type BookQuote struct {
	Book       string    `json:"book" validate:"required"`
	Line       float64   `json:"line"`
	OverPrice  int       `json:"over_price" validate:"required,ne=0"`
	UnderPrice int       `json:"under_price" validate:"required,ne=0"`
	Timestamp  time.Time `json:"timestamp"`
}

// BookWeight is the trust weight given to a sportsbook when building consensus.
type BookWeight struct {
	Book   string  `json:"book" mapstructure:"name" validate:"required"`
	Weight float64 `json:"weight" mapstructure:"weight" validate:"gte=0"`
}

// Lines returns the distinct quoted lines in ascending order
func Lines(quotes []BookQuote) []float64 {
	seen := make(map[float64]bool, len(quotes))
	lines := make([]float64, 0, len(quotes))
	for _, q := range quotes {
		if seen[q.Line] {
			continue
		}
		seen[q.Line] = true
		lines = append(lines, q.Line)
	}
	sort.Float64s(lines)
	return lines
}

// MainLine returns the line quoted by the most books. Ties go to the lower line.
func MainLine(quotes []BookQuote) (float64, bool) {
	if len(quotes) == 0 {
		return 0, false
	}
	counts := make(map[float64]int, len(quotes))
	for _, q := range quotes {
		counts[q.Line]++
	}
	best, bestCount := 0.0, 0
	for _, line := range Lines(quotes) {
		if counts[line] > bestCount {
			best, bestCount = line, counts[line]
		}
	}
	return best, true
}

// QuotesAtLine filters quotes to those on the given line
func QuotesAtLine(quotes []BookQuote, line float64) []BookQuote {
	out := make([]BookQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.Line == line {
			out = append(out, q)
		}
	}
	return out
}
