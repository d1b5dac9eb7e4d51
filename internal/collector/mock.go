package collector

import (
	"context"
	"time"

	"WheelSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Set the Err fields to simulate provider failures.
type MockFetcher struct {
	Snapshot    *model.TickerSnapshot
	Closes      []float64
	Bars        int // generated bars when Closes is nil
	Price       float64
	SnapshotErr error
	HistoryErr  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSnapshot(_ context.Context, symbol string) (*model.TickerSnapshot, error) {
	if m.SnapshotErr != nil {
		return nil, m.SnapshotErr
	}
	if m.Snapshot != nil {
		snap := *m.Snapshot
		snap.Symbol = symbol
		return &snap, nil
	}
	return &model.TickerSnapshot{
		Symbol:       symbol,
		DisplayName:  symbol + " Mock Corp",
		CurrentPrice: model.Float(m.Price),
	}, nil
}

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string, rng model.HistoryRange) (*model.PriceSeries, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	closes := m.Closes
	if closes == nil {
		closes = generateMockCloses(m.Price, m.Bars)
	}
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return &model.PriceSeries{Symbol: symbol, Range: rng, Points: points}, nil
}

func generateMockCloses(basePrice float64, count int) []float64 {
	closes := make([]float64, count)
	for i := 0; i < count; i++ {
		closes[i] = basePrice * (1 + float64(i-count/2)*0.001)
	}
	return closes
}
