package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"WheelSentinel/internal/collector"
	"WheelSentinel/internal/model"
	"WheelSentinel/internal/strategy"
)

func newTestAnalyzer(f collector.Fetcher) *Analyzer {
	return New(collector.NewCollector(f, model.Range6mo, zerolog.Nop()), zerolog.Nop())
}

func TestAnalyze_FullPass(t *testing.T) {
	f := &collector.MockFetcher{
		Snapshot: &model.TickerSnapshot{
			DisplayName:  "Apple Inc.",
			CurrentPrice: model.Float(100),
			Beta:         model.Float(1.2),
		},
		Bars:  126,
		Price: 100,
	}
	ev, view, err := newTestAnalyzer(f).Analyze(context.Background(), "  aapl ", model.DefaultUserInputs())
	if err != nil {
		t.Fatal(err)
	}
	if ev.Ticker != "AAPL" || view.Ticker != "AAPL" {
		t.Errorf("expected normalized ticker AAPL, got %q/%q", ev.Ticker, view.Ticker)
	}
	if ev.ID == "" || view.EvaluationID != ev.ID {
		t.Error("expected evaluation id on both evaluation and view")
	}
	if ev.EvaluatedAt.IsZero() {
		t.Error("expected evaluation timestamp")
	}
	want := strategy.Score(model.DefaultUserInputs(), model.ScoringInputs{Beta: 1.2})
	if ev.Score != want {
		t.Errorf("expected score %v, got %v", want, ev.Score)
	}
	if len(view.Chart.Dates) != 126 {
		t.Errorf("expected 126 chart points, got %d", len(view.Chart.Dates))
	}
}

func TestAnalyze_FetchFailureIsNotFatal(t *testing.T) {
	f := &collector.MockFetcher{
		SnapshotErr: errors.New("dns failure"),
		HistoryErr:  errors.New("dns failure"),
	}
	ev, view, err := newTestAnalyzer(f).Analyze(context.Background(), "NVDA", model.DefaultUserInputs())
	if err != nil {
		t.Fatalf("fetch failure must not abort the pass: %v", err)
	}
	want := strategy.Score(model.DefaultUserInputs(), model.ScoringInputs{Beta: 1.0})
	if ev.Score != want {
		t.Errorf("expected all-default score %v, got %v", want, ev.Score)
	}
	if len(view.Warnings) != 2 {
		t.Errorf("expected two warnings, got %v", view.Warnings)
	}
	if view.Metrics[0].Value != "N/A" {
		t.Errorf("expected N/A price, got %s", view.Metrics[0].Value)
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	a := newTestAnalyzer(&collector.MockFetcher{Price: 10})
	tests := []struct {
		name   string
		ticker string
		in     model.UserInputs
	}{
		{"empty ticker", "   ", model.DefaultUserInputs()},
		{"iv rank high", "NVDA", model.UserInputs{IVRank: 101, OIScore: 70}},
		{"oi score negative", "NVDA", model.UserInputs{IVRank: 40, OIScore: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := a.Analyze(context.Background(), tt.ticker, tt.in)
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAnalyze_DistinctIDs(t *testing.T) {
	a := newTestAnalyzer(&collector.MockFetcher{Price: 10, Bars: 5})
	ev1, _, _ := a.Analyze(context.Background(), "X", model.DefaultUserInputs())
	ev2, _, _ := a.Analyze(context.Background(), "X", model.DefaultUserInputs())
	if ev1.ID == ev2.ID {
		t.Error("expected a fresh id per pass")
	}
	if ev1.Score != ev2.Score {
		t.Error("expected identical scores for identical inputs")
	}
}
