package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"WheelSentinel/internal/analyzer"
	"WheelSentinel/internal/dashboard"
	"WheelSentinel/internal/logger"
	"WheelSentinel/internal/model"
	"WheelSentinel/internal/notifier"
)

// ErrUnknownCommand is returned for text that is not a bot command.
var ErrUnknownCommand = errors.New("unknown command")

// WatchJob describes the scheduled evaluation pushed to the sink.
type WatchJob struct {
	Spec   string
	Ticker string
	Inputs model.UserInputs
}

// Scheduler runs the watch job on a cron schedule and answers bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer *analyzer.Analyzer
	Sink     dashboard.Sink
	Defaults model.UserInputs
	Ctx      context.Context
	log      zerolog.Logger
	watch    *WatchJob
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// NewScheduler creates a new Scheduler. Overlapping runs of the same job are skipped.
func NewScheduler(ctx context.Context, a *analyzer.Analyzer, sink dashboard.Sink, defaults model.UserInputs, log zerolog.Logger) *Scheduler {
	log = logger.Component(log, "scheduler")
	cl := cronLogger{log: log}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Analyzer: a,
		Sink:     sink,
		Defaults: defaults,
		Ctx:      ctx,
		log:      log,
	}
}

// RegisterWatch schedules the watch job.
func (s *Scheduler) RegisterWatch(job WatchJob) error {
	job.Ticker = analyzer.NormalizeTicker(job.Ticker)
	if job.Ticker == "" {
		return fmt.Errorf("register watch task: %w: ticker is required", model.ErrInvalidInput)
	}
	if _, err := s.Cron.AddFunc(job.Spec, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	s.watch = &job
	s.log.Info().Str("cron", job.Spec).Str("ticker", job.Ticker).Msg("watch task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the watch job immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.watchTask()
}

func (s *Scheduler) watchTask() {
	if s.watch == nil {
		s.log.Warn().Msg("no watch task registered")
		return
	}
	s.log.Info().Str("ticker", s.watch.Ticker).Msg("running watch task")
	_, view, err := s.Analyzer.Analyze(s.Ctx, s.watch.Ticker, s.watch.Inputs)
	if err != nil {
		s.log.Error().Err(err).Str("ticker", s.watch.Ticker).Msg("watch evaluation failed")
		return
	}
	if err := s.Sink.Render(s.Ctx, view); err != nil {
		s.log.Error().Err(err).Str("ticker", s.watch.Ticker).Msg("render watch result")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	// Commands in groups arrive as /wheel@botname.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/wheel":
		ticker, in, err := ParseWheelArgs(fields[1:], s.Defaults)
		if err != nil {
			return notifier.FormatError(err)
		}
		_, view, err := s.Analyzer.Analyze(ctx, ticker, in)
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatView(view)
	case "/help", "/start":
		return notifier.HelpText
	default:
		return notifier.FormatError(fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0]))
	}
}

// ParseWheelArgs parses "TICKER [ivRank] [oiScore]". Omitted scores fall back to defaults.
func ParseWheelArgs(args []string, defaults model.UserInputs) (string, model.UserInputs, error) {
	in := defaults
	if len(args) == 0 {
		return "", in, fmt.Errorf("%w: ticker is required", model.ErrInvalidInput)
	}
	if len(args) > 3 {
		return "", in, fmt.Errorf("%w: expected at most 3 arguments, got %d", model.ErrInvalidInput, len(args))
	}

	targets := []struct {
		name string
		dst  *int
	}{
		{"ivRank", &in.IVRank},
		{"oiScore", &in.OIScore},
	}
	for i, arg := range args[1:] {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return "", in, fmt.Errorf("%w: %s must be an integer, got %q", model.ErrInvalidInput, targets[i].name, arg)
		}
		*targets[i].dst = v
	}
	if err := in.Validate(); err != nil {
		return "", in, err
	}
	return analyzer.NormalizeTicker(args[0]), in, nil
}
