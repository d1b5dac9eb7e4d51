package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"WheelSentinel/internal/calculator"
	"WheelSentinel/internal/model"
	"WheelSentinel/internal/strategy"
)

func marketData(closes []float64, snap model.TickerSnapshot) *model.MarketData {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return &model.MarketData{
		Snapshot: snap,
		History:  model.PriceSeries{Symbol: snap.Symbol, Range: model.Range6mo, Points: points},
		MA50:     calculator.MovingAverage(closes, calculator.MAShortWindow),
		MA200:    calculator.MovingAverage(closes, calculator.MALongWindow),
	}
}

func rising(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)*0.5
	}
	return out
}

func nvdaSnapshot() model.TickerSnapshot {
	return model.TickerSnapshot{
		Symbol:             "NVDA",
		DisplayName:        "NVIDIA Corporation",
		CurrentPrice:       model.Float(123),
		Beta:               model.Float(1.7),
		DividendYield:      model.Float(0.0003),
		EPSQuarterlyGrowth: model.Float(1.68),
	}
}

func TestBuildView_Layout(t *testing.T) {
	snap := nvdaSnapshot()
	data := marketData(rising(126), snap)
	ev := strategy.Evaluate(&snap, model.DefaultUserInputs())
	v := BuildView(data, ev)

	wantMetrics := []Metric{
		{"Price", "$123.00"},
		{"Beta", "1.70"},
		{"Dividend Yield", "0.03%"},
	}
	if len(v.Metrics) != len(wantMetrics) {
		t.Fatalf("expected %d metrics, got %d", len(wantMetrics), len(v.Metrics))
	}
	for i, m := range wantMetrics {
		if v.Metrics[i] != m {
			t.Errorf("metric %d: expected %+v, got %+v", i, m, v.Metrics[i])
		}
	}

	wantRows := []Row{
		{"IV Rank", "40"},
		{"OI/Liquidity", "70"},
		{"Beta", "1.70"},
		{"EPS Growth", "168.00%"},
		{"Dividend Yield", "0.03%"},
	}
	if len(v.Table) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(v.Table))
	}
	for i, r := range wantRows {
		if v.Table[i] != r {
			t.Errorf("row %d: expected %+v, got %+v", i, r, v.Table[i])
		}
	}

	if len(v.Chart.Series) != 3 {
		t.Fatalf("expected 3 series, got %d", len(v.Chart.Series))
	}
	for i, name := range []string{SeriesClose, SeriesMA50, SeriesMA200} {
		s := v.Chart.Series[i]
		if s.Name != name {
			t.Errorf("series %d: expected %s, got %s", i, name, s.Name)
		}
		if len(s.Values) != len(v.Chart.Dates) {
			t.Errorf("series %s not aligned with dates", s.Name)
		}
	}

	if want := fmt.Sprintf("%.1f / 100", ev.Score); v.ScoreText != want {
		t.Errorf("expected score text %q, got %q", want, v.ScoreText)
	}
	if v.Advisory.Severity != ev.Recommendation.Severity {
		t.Errorf("advisory severity %s does not match recommendation %s", v.Advisory.Severity, ev.Recommendation.Severity)
	}
}

func TestBuildView_MissingFields(t *testing.T) {
	snap := model.TickerSnapshot{Symbol: "ZZZ"}
	data := marketData(nil, snap)
	data.Warnings = []string{"fundamentals unavailable"}
	v := BuildView(data, strategy.Evaluate(&snap, model.DefaultUserInputs()))

	if v.Metrics[0].Value != "N/A" || v.Metrics[1].Value != "N/A" {
		t.Errorf("expected N/A price and beta, got %+v", v.Metrics)
	}
	if v.Metrics[2].Value != "0.00%" {
		t.Errorf("expected default dividend 0.00%%, got %s", v.Metrics[2].Value)
	}
	if v.Table[2].Value != "N/A" || v.Table[3].Value != "0.00%" {
		t.Errorf("unexpected table %+v", v.Table)
	}
	if v.Title != "N/A (ZZZ)" {
		t.Errorf("unexpected title %q", v.Title)
	}
	if len(v.Warnings) != 1 {
		t.Errorf("expected warnings carried over, got %v", v.Warnings)
	}
	if _, ok := v.RangeSummary(); ok {
		t.Error("expected no range summary without prices")
	}
}

func TestRangeSummary(t *testing.T) {
	snap := nvdaSnapshot()
	v := BuildView(marketData([]float64{10, 20, 15}, snap), strategy.Evaluate(&snap, model.DefaultUserInputs()))
	got, ok := v.RangeSummary()
	if !ok {
		t.Fatal("expected summary")
	}
	if got != "range 10.00 - 20.00, last close 15.00 at 50% of range" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestTerminalSink_Render(t *testing.T) {
	snap := nvdaSnapshot()
	v := BuildView(marketData(rising(126), snap), strategy.Evaluate(&snap, model.DefaultUserInputs()))
	v.EvaluationID = "eval-1"

	var buf bytes.Buffer
	if err := NewTerminalSink(&buf, false).Render(context.Background(), v); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"NVIDIA Corporation (NVDA)",
		"Price: $123.00",
		"Wheel suitability: " + v.ScoreText,
		"legend: Close, 50MA",
		"insufficient history: 200MA",
		"OI/Liquidity",
		"eval eval-1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTerminalSink_EmptyHistory(t *testing.T) {
	snap := model.TickerSnapshot{Symbol: "ZZZ"}
	v := BuildView(marketData([]float64{}, snap), strategy.Evaluate(&snap, model.DefaultUserInputs()))

	var buf bytes.Buffer
	if err := NewTerminalSink(&buf, false).Render(context.Background(), v); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(no price history)") {
		t.Errorf("expected empty chart notice, got:\n%s", buf.String())
	}
}

type recordingSink struct {
	calls int
	err   error
}

func (r *recordingSink) Render(context.Context, *View) error {
	r.calls++
	return r.err
}

func TestMultiSink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	if err := (MultiSink{a, b}).Render(context.Background(), &View{}); err != nil {
		t.Fatal(err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("expected each sink called once, got %d/%d", a.calls, b.calls)
	}

	failing := &recordingSink{err: errors.New("boom")}
	after := &recordingSink{}
	if err := (MultiSink{failing, after}).Render(context.Background(), &View{}); err == nil {
		t.Error("expected error")
	}
	if after.calls != 0 {
		t.Error("expected rendering to stop at the first error")
	}
}
