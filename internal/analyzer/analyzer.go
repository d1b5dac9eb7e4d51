// Package analyzer runs one evaluation pass: collect, score, recommend, lay out.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"WheelSentinel/internal/collector"
	"WheelSentinel/internal/dashboard"
	"WheelSentinel/internal/logger"
	"WheelSentinel/internal/model"
	"WheelSentinel/internal/strategy"
	"WheelSentinel/internal/telemetry"
)

// Analyzer serializes evaluation passes; a pass finishes before the next one starts.
type Analyzer struct {
	mu        sync.Mutex
	collector *collector.Collector
	log       zerolog.Logger
	now       func() time.Time
}

// New creates an Analyzer over the given collector.
func New(col *collector.Collector, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		collector: col,
		log:       logger.Component(log, "analyzer"),
		now:       time.Now,
	}
}

// NormalizeTicker trims and upper-cases a free-text ticker.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Analyze runs a full pass for ticker. It only fails on invalid caller input;
// provider problems surface as warnings on the returned view.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, in model.UserInputs) (*model.Evaluation, *dashboard.View, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, nil, fmt.Errorf("%w: ticker is required", model.ErrInvalidInput)
	}
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	id := uuid.NewString()
	ctx, span := telemetry.Start(ctx, "analyzer.Analyze",
		attribute.String("evaluation_id", id),
		attribute.String("ticker", ticker),
		attribute.Int("iv_rank", in.IVRank),
		attribute.Int("oi_score", in.OIScore))
	defer telemetry.End(span, nil)

	start := a.now()
	data := a.collector.Collect(ctx, ticker)

	ev := strategy.Evaluate(&data.Snapshot, in)
	ev.ID = id
	ev.Ticker = ticker
	ev.EvaluatedAt = a.now()

	view := dashboard.BuildView(data, ev)

	span.SetAttributes(
		attribute.Float64("score", ev.Score),
		attribute.String("band", string(ev.Recommendation.Band)))

	a.log.Info().
		Str("evaluation_id", id).
		Str("ticker", ticker).
		Int("iv_rank", in.IVRank).
		Int("oi_score", in.OIScore).
		Float64("raw", ev.Raw).
		Float64("score", ev.Score).
		Str("band", string(ev.Recommendation.Band)).
		Int("bars", len(data.History.Points)).
		Int("warnings", len(data.Warnings)).
		Dur("elapsed", ev.EvaluatedAt.Sub(start)).
		Msg("evaluation complete")

	return ev, view, nil
}
