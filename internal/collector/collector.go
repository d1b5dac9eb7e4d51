package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"WheelSentinel/internal/calculator"
	"WheelSentinel/internal/model"
	"WheelSentinel/internal/telemetry"
)

// Collector orchestrates data fetching and moving average computation.
type Collector struct {
	Fetcher Fetcher
	Range   model.HistoryRange
	log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, rng model.HistoryRange, log zerolog.Logger) *Collector {
	if rng == "" {
		rng = model.Range6mo
	}
	return &Collector{
		Fetcher: fetcher,
		Range:   rng,
		log:     log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// Collect fetches the snapshot and price history for ticker and derives the moving averages.
// Provider failures never abort the pass: a failed snapshot leaves every field missing,
// a failed or empty history leaves the series and both averages empty.
func (c *Collector) Collect(ctx context.Context, ticker string) *model.MarketData {
	ctx, span := telemetry.Start(ctx, "collector.Collect",
		attribute.String("ticker", ticker),
		attribute.String("source", c.Fetcher.Name()))
	defer span.End()

	data := &model.MarketData{FetchedAt: time.Now()}

	snap, err := c.Fetcher.FetchSnapshot(ctx, ticker)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("snapshot fetch failed, treating all fundamentals as missing")
		span.RecordError(err)
		data.Warnings = append(data.Warnings, fmt.Sprintf("fundamentals unavailable: %v", err))
		snap = &model.TickerSnapshot{Symbol: ticker}
	}
	if snap == nil {
		c.log.Warn().Str("ticker", ticker).Msg("provider returned no snapshot, treating all fundamentals as missing")
		data.Warnings = append(data.Warnings, "fundamentals unavailable: no snapshot returned")
		snap = &model.TickerSnapshot{Symbol: ticker}
	}
	if snap.Symbol == "" {
		snap.Symbol = ticker
	}
	data.Snapshot = *snap
	c.warnMissing(data)

	history, err := c.Fetcher.FetchHistory(ctx, ticker, c.Range)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("history fetch failed, rendering empty chart")
		span.RecordError(err)
		data.Warnings = append(data.Warnings, fmt.Sprintf("price history unavailable: %v", err))
		history = nil
	}
	if history == nil {
		history = &model.PriceSeries{Symbol: ticker, Range: c.Range}
	}
	data.History = *history

	if len(data.History.Points) == 0 {
		if err == nil {
			c.log.Warn().Str("ticker", ticker).Msg("provider returned no price history")
			data.Warnings = append(data.Warnings, "no price history returned")
		}
		data.MA50 = []float64{}
		data.MA200 = []float64{}
		return data
	}

	closes := data.History.Closes()
	data.MA50 = calculator.MovingAverage(closes, calculator.MAShortWindow)
	data.MA200 = calculator.MovingAverage(closes, calculator.MALongWindow)

	c.log.Debug().
		Str("ticker", ticker).
		Int("bars", len(closes)).
		Msg("market data collected")
	return data
}

func (c *Collector) warnMissing(data *model.MarketData) {
	snap := &data.Snapshot
	missing := []struct {
		field   string
		absent  bool
		handled string
	}{
		{"currentPrice", snap.CurrentPrice == nil, "strikes suppressed"},
		{"beta", snap.Beta == nil, "using 1.0"},
		{"dividendYield", snap.DividendYield == nil, "using 0"},
		{"earningsQuarterlyGrowth", snap.EPSQuarterlyGrowth == nil, "using 0"},
	}
	for _, m := range missing {
		if !m.absent {
			continue
		}
		c.log.Debug().Str("ticker", snap.Symbol).Str("field", m.field).Msg("fundamental missing, " + m.handled)
	}
}
