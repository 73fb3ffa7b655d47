// Package reports implements the aggregation engine behind the dashboard.
// Every report is a pure read over the entity packages: grouped frequencies,
// dense time buckets, and revenue ratios, all returned as ordered slices.
package reports

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// DateFormat labels per-day buckets, e.g. "Jan 02 2006".
	DateFormat = "Jan 02 2006"
	// MonthFormat labels per-month buckets, e.g. "Jan 2006".
	MonthFormat = "Jan 2006"
)

// epsilon replaces a zero denominator in ratio reports so groups without
// subscriptions yield zero instead of dividing by zero.
var epsilon = decimal.NewFromFloat(0.0001)

// EntityCount is one row of a grouped frequency report.
type EntityCount struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// EntityAmount is one row of a ratio or margin report.
type EntityAmount struct {
	ID    uint            `json:"id"`
	Title string          `json:"title"`
	Value decimal.Decimal `json:"value"`
}

// LabeledCount is one bucket of a dated histogram.
type LabeledCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LabeledAmount is one bucket of a dated sum.
type LabeledAmount struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// WeekdayRow is one weekday of the weekday-by-hour heatmap.
type WeekdayRow struct {
	Day   string  `json:"day"`
	Hours [24]int `json:"hours"`
}

// Engine runs reports against a fixed window, search predicate and reference
// time. The reference time is captured at construction so every derived
// metric inside one dashboard render agrees on "now".
type Engine struct {
	db     *gorm.DB
	logger *slog.Logger
	start  time.Time
	end    time.Time
	search string
	now    time.Time
}

// NewEngine builds an engine for the given window and search predicate.
func NewEngine(db *gorm.DB, logger *slog.Logger, start, end time.Time, search string) *Engine {
	return &Engine{
		db:     db,
		logger: logger,
		start:  start,
		end:    end,
		search: search,
		now:    time.Now().UTC(),
	}
}

// sortCountsDesc orders a frequency report by descending count; rows with
// equal counts keep their ascending-id insertion order.
func sortCountsDesc(rows []EntityCount) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
}

// sortAmountsDesc orders an amount report by descending value; ties keep
// their ascending-id insertion order.
func sortAmountsDesc(rows []EntityAmount) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value.GreaterThan(rows[j].Value)
	})
}

// eachDay calls fn once per calendar day from start to end inclusive. A start
// after end yields no calls.
func eachDay(start, end time.Time, fn func(day time.Time)) {
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		fn(day)
	}
}
