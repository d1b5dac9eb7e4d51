package dashboard

import (
	"fmt"
	"time"

	"WheelSentinel/internal/calculator"
	"WheelSentinel/internal/model"
)

// Chart series names, in drawing order.
const (
	SeriesClose = "Close"
	SeriesMA50  = "50MA"
	SeriesMA200 = "200MA"
)

const notAvailable = "N/A"

// Metric is one labelled headline value.
type Metric struct {
	Label string
	Value string
}

// Series is one named line on the chart. NaN entries are gaps.
type Series struct {
	Name   string
	Values []float64
}

// Chart holds the price and moving average lines on one shared time axis.
type Chart struct {
	Dates  []time.Time
	Series []Series
}

// Advisory is the recommendation block, tagged with its severity.
type Advisory struct {
	Severity model.Severity
	Title    string
	Lines    []string
}

// Row is one line of the summary table.
type Row struct {
	Indicator string
	Value     string
}

// View is everything one evaluation pass hands to a Sink.
type View struct {
	Title        string
	Ticker       string
	Metrics      []Metric
	Chart        Chart
	Score        float64
	ScoreText    string
	Advisory     Advisory
	Table        []Row
	Warnings     []string
	EvaluationID string
	Footer       string
}

// BuildView lays out the evaluation for presentation.
func BuildView(data *model.MarketData, ev *model.Evaluation) *View {
	snap := &data.Snapshot
	in := snap.ScoringInputs()

	name := snap.DisplayName
	if name == "" {
		name = notAvailable
	}

	v := &View{
		Title:  fmt.Sprintf("%s (%s)", name, ev.Ticker),
		Ticker: ev.Ticker,
		Metrics: []Metric{
			{Label: "Price", Value: formatPrice(snap.CurrentPrice)},
			{Label: "Beta", Value: formatOptional(snap.Beta)},
			{Label: "Dividend Yield", Value: formatPercent(in.DividendYield)},
		},
		Chart: Chart{
			Dates: data.History.Dates(),
			Series: []Series{
				{Name: SeriesClose, Values: data.History.Closes()},
				{Name: SeriesMA50, Values: data.MA50},
				{Name: SeriesMA200, Values: data.MA200},
			},
		},
		Score:     ev.Score,
		ScoreText: fmt.Sprintf("%.1f / 100", ev.Score),
		Advisory: Advisory{
			Severity: ev.Recommendation.Severity,
			Title:    ev.Recommendation.Title,
			Lines:    ev.Recommendation.Lines,
		},
		Table: []Row{
			{Indicator: "IV Rank", Value: fmt.Sprintf("%d", ev.Inputs.IVRank)},
			{Indicator: "OI/Liquidity", Value: fmt.Sprintf("%d", ev.Inputs.OIScore)},
			{Indicator: "Beta", Value: formatOptional(snap.Beta)},
			{Indicator: "EPS Growth", Value: formatPercent(in.EPSGrowth)},
			{Indicator: "Dividend Yield", Value: formatPercent(in.DividendYield)},
		},
		Warnings:     data.Warnings,
		EvaluationID: ev.ID,
		Footer:       "Wheel Strategy Analyzer | market data via " + sourceLabel(data),
	}
	return v
}

// RangeSummary describes where the last close sits in the charted range.
// ok is false when the chart has no prices.
func (v *View) RangeSummary() (string, bool) {
	if len(v.Chart.Series) == 0 {
		return "", false
	}
	closes := v.Chart.Series[0].Values
	low, high, ok := calculator.PriceRange(closes)
	if !ok {
		return "", false
	}
	last, _ := calculator.LastDefined(closes)
	pos := calculator.Position(last, low, high)
	return fmt.Sprintf("range %.2f - %.2f, last close %.2f at %.0f%% of range", low, high, last, pos*100), true
}

func sourceLabel(data *model.MarketData) string {
	if data.History.Range != "" {
		return string(data.History.Range) + " daily history"
	}
	return "provider"
}

func formatPrice(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("$%.2f", *v)
}

func formatOptional(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}
