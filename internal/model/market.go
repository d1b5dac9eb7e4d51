package model

import "time"

// HistoryRange is a provider lookback window.
type HistoryRange string

const (
	Range1mo HistoryRange = "1mo"
	Range3mo HistoryRange = "3mo"
	Range6mo HistoryRange = "6mo"
	Range1y  HistoryRange = "1y"
	Range2y  HistoryRange = "2y"
)

// Scoring defaults for fundamentals the provider did not return.
const (
	DefaultBeta          = 1.0
	DefaultDividendYield = 0.0
	DefaultEPSGrowth     = 0.0
)

// TickerSnapshot holds the fundamentals fetched for one symbol.
// A nil field means the provider did not return it.
type TickerSnapshot struct {
	Symbol             string
	DisplayName        string
	CurrentPrice       *float64
	Beta               *float64
	DividendYield      *float64
	EPSQuarterlyGrowth *float64
}

// ScoringInputs holds the fundamentals the scorer consumes, defaults applied.
type ScoringInputs struct {
	Beta          float64
	EPSGrowth     float64
	DividendYield float64
}

// ScoringInputs resolves missing fields to their documented defaults.
func (s *TickerSnapshot) ScoringInputs() ScoringInputs {
	in := ScoringInputs{
		Beta:          DefaultBeta,
		EPSGrowth:     DefaultEPSGrowth,
		DividendYield: DefaultDividendYield,
	}
	if s == nil {
		return in
	}
	if s.Beta != nil {
		in.Beta = *s.Beta
	}
	if s.EPSQuarterlyGrowth != nil {
		in.EPSGrowth = *s.EPSQuarterlyGrowth
	}
	if s.DividendYield != nil {
		in.DividendYield = *s.DividendYield
	}
	return in
}

// Price returns the current price. There is no default for a missing price.
func (s *TickerSnapshot) Price() (float64, bool) {
	if s == nil || s.CurrentPrice == nil {
		return 0, false
	}
	return *s.CurrentPrice, true
}

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds daily closes, oldest first.
type PriceSeries struct {
	Symbol string
	Range  HistoryRange
	Points []PricePoint
}

// Closes returns the close prices aligned with Dates.
func (p *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		closes[i] = pt.Close
	}
	return closes
}

// Dates returns the bar dates aligned with Closes.
func (p *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(p.Points))
	for i, pt := range p.Points {
		dates[i] = pt.Date
	}
	return dates
}

// MarketData is everything collected for one evaluation pass.
// MA50 and MA200 are aligned with History.Points and hold NaN where undefined.
type MarketData struct {
	Snapshot  TickerSnapshot
	History   PriceSeries
	MA50      []float64
	MA200     []float64
	Warnings  []string
	FetchedAt time.Time
}

// Float returns a pointer to v. Providers use it for optional fields.
func Float(v float64) *float64 { return &v }
