package collector

import (
	"context"

	"WheelSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
// FetchSnapshot may leave individual fields nil instead of failing the call.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, symbol string) (*model.TickerSnapshot, error)
	FetchHistory(ctx context.Context, symbol string, rng model.HistoryRange) (*model.PriceSeries, error)
	Name() string
}
