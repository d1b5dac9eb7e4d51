package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"WheelSentinel/internal/analyzer"
	"WheelSentinel/internal/collector"
	"WheelSentinel/internal/dashboard"
	"WheelSentinel/internal/model"
)

type captureSink struct {
	views []*dashboard.View
}

func (c *captureSink) Render(_ context.Context, v *dashboard.View) error {
	c.views = append(c.views, v)
	return nil
}

func newTestScheduler(sink dashboard.Sink) *Scheduler {
	f := &collector.MockFetcher{Price: 100, Bars: 60}
	a := analyzer.New(collector.NewCollector(f, model.Range6mo, zerolog.Nop()), zerolog.Nop())
	return NewScheduler(context.Background(), a, sink, model.DefaultUserInputs(), zerolog.Nop())
}

func TestParseWheelArgs(t *testing.T) {
	defaults := model.DefaultUserInputs()
	tests := []struct {
		name       string
		args       []string
		wantTicker string
		wantIn     model.UserInputs
		wantErr    bool
	}{
		{"ticker only", []string{"nvda"}, "NVDA", model.UserInputs{IVRank: 40, OIScore: 70}, false},
		{"iv rank", []string{"AAPL", "55"}, "AAPL", model.UserInputs{IVRank: 55, OIScore: 70}, false},
		{"both", []string{"spy", "0", "100"}, "SPY", model.UserInputs{IVRank: 0, OIScore: 100}, false},
		{"no ticker", nil, "", model.UserInputs{}, true},
		{"not a number", []string{"AAPL", "high"}, "", model.UserInputs{}, true},
		{"out of range", []string{"AAPL", "40", "101"}, "", model.UserInputs{}, true},
		{"too many", []string{"AAPL", "1", "2", "3"}, "", model.UserInputs{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticker, in, err := ParseWheelArgs(tt.args, defaults)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if ticker != tt.wantTicker || in != tt.wantIn {
				t.Errorf("expected %s %+v, got %s %+v", tt.wantTicker, tt.wantIn, ticker, in)
			}
		})
	}
}

func TestHandleCommand(t *testing.T) {
	s := newTestScheduler(&captureSink{})
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"wheel", "/wheel nvda 40 70", "Wheel suitability"},
		{"wheel with bot suffix", "/wheel@wheel_bot AAPL", "(AAPL)"},
		{"wheel missing ticker", "/wheel", "ticker is required"},
		{"wheel bad slider", "/wheel NVDA 150", "iv rank must be within 0-100"},
		{"help", "/help", "/wheel TICKER"},
		{"empty", "   ", "/wheel TICKER"},
		{"unknown", "/fund", "unknown command: /fund"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.HandleCommand(context.Background(), tt.command)
			if !strings.Contains(got, tt.want) {
				t.Errorf("reply to %q missing %q:\n%s", tt.command, tt.want, got)
			}
		})
	}
}

func TestRunNow(t *testing.T) {
	sink := &captureSink{}
	s := newTestScheduler(sink)

	s.RunNow()
	if len(sink.views) != 0 {
		t.Fatal("expected nothing rendered without a watch task")
	}

	if err := s.RegisterWatch(WatchJob{Spec: "0 30 16 * * 1-5", Ticker: " tsla ", Inputs: model.DefaultUserInputs()}); err != nil {
		t.Fatal(err)
	}
	s.RunNow()
	if len(sink.views) != 1 {
		t.Fatalf("expected one rendered view, got %d", len(sink.views))
	}
	if sink.views[0].Ticker != "TSLA" {
		t.Errorf("expected TSLA, got %s", sink.views[0].Ticker)
	}
}

func TestRegisterWatch_Invalid(t *testing.T) {
	s := newTestScheduler(&captureSink{})
	if err := s.RegisterWatch(WatchJob{Spec: "not a cron", Ticker: "NVDA"}); err == nil {
		t.Error("expected error for bad cron spec")
	}
	if err := s.RegisterWatch(WatchJob{Spec: "0 30 16 * * 1-5", Ticker: ""}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty ticker, got %v", err)
	}
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(&captureSink{})
	s.Start()
	s.Stop()
}
