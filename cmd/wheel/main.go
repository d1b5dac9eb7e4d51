package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"WheelSentinel/internal/analyzer"
	"WheelSentinel/internal/collector"
	"WheelSentinel/internal/config"
	"WheelSentinel/internal/dashboard"
	"WheelSentinel/internal/logger"
	"WheelSentinel/internal/model"
	"WheelSentinel/internal/notifier"
	"WheelSentinel/internal/scheduler"
	"WheelSentinel/internal/telemetry"
)

// options are the parsed command line flags.
type options struct {
	ConfigPath string
	Ticker     string
	IVRank     int
	OIScore    int
	Bot        bool

	set map[string]bool
}

// parseFlags parses args. Only flags given explicitly override config defaults,
// so an out-of-range value still reaches input validation.
func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	o := &options{set: map[string]bool{}}
	fs.StringVar(&o.ConfigPath, "config", defaultCfg, "path to the YAML config file")
	fs.StringVar(&o.Ticker, "ticker", "", "ticker to evaluate (default from config)")
	fs.IntVar(&o.IVRank, "iv-rank", model.DefaultIVRank, "IV rank 0-100 (default from config)")
	fs.IntVar(&o.OIScore, "oi-score", model.DefaultOIScore, "open interest / liquidity score 0-100 (default from config)")
	fs.BoolVar(&o.Bot, "bot", false, "run the Telegram bot and watch job instead of a one-shot dashboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// inputs applies explicitly set flags on top of the configured defaults.
func (o *options) inputs(defaults model.UserInputs) model.UserInputs {
	in := defaults
	if o.set["iv-rank"] {
		in.IVRank = o.IVRank
	}
	if o.set["oi-score"] {
		in.OIScore = o.OIScore
	}
	return in
}

// symbol returns the -ticker flag, or the configured default when it is unset.
func (o *options) symbol(fallback string) string {
	if o.Ticker != "" {
		return o.Ticker
	}
	return fallback
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	validate := cfg.Validate
	if opts.Bot {
		validate = cfg.ValidateBot
	}
	if err := validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	shutdownTracing, err := telemetry.Init(cfg.Tracing.Enabled, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("init tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn().Err(err).Msg("flush traces")
		}
	}()

	fetcher := newFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")

	col := collector.NewCollector(fetcher, model.HistoryRange(cfg.DataSource.HistoryRange), log)
	an := analyzer.New(col, log)

	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	terminal := dashboard.NewTerminalSink(os.Stdout, color)

	if opts.Bot {
		runBot(cfg, an, terminal, log)
		return
	}

	in := opts.inputs(cfg.DefaultInputs())
	if err := runOnce(context.Background(), an, terminal, opts.symbol(cfg.Defaults.Ticker), in); err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		log.Error().Err(err).Msg("render dashboard")
		os.Exit(1)
	}
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	timeout := time.Duration(cfg.DataSource.TimeoutSeconds) * time.Second
	if cfg.DataSource.Provider == config.ProviderREST {
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, timeout)
	}
	f := collector.NewYahooFetcher(cfg.Proxy, timeout)
	if cfg.DataSource.BaseURL != "" {
		f.BaseURL = cfg.DataSource.BaseURL
	}
	return f
}

func runOnce(ctx context.Context, an *analyzer.Analyzer, sink dashboard.Sink, ticker string, in model.UserInputs) error {
	_, view, err := an.Analyze(ctx, ticker, in)
	if err != nil {
		return err
	}
	return sink.Render(ctx, view)
}

func runBot(cfg *config.Config, an *analyzer.Analyzer, terminal dashboard.Sink, log zerolog.Logger) {
	log.Info().Msg("WheelSentinel bot starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	sink := dashboard.MultiSink{terminal, notifier.NewTelegramSink(tn)}

	sched := scheduler.NewScheduler(ctx, an, sink, cfg.DefaultInputs(), log)
	if cfg.Watch.Enabled {
		if err := sched.RegisterWatch(scheduler.WatchJob{
			Spec:   cfg.Watch.Cron,
			Ticker: cfg.Watch.Ticker,
			Inputs: cfg.DefaultInputs(),
		}); err != nil {
			log.Fatal().Err(err).Msg("register watch task")
		}
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)

	if os.Getenv("RUN_ON_START") == "true" {
		if cfg.Watch.Enabled {
			log.Info().Msg("RUN_ON_START enabled, executing watch task now")
			go sched.RunNow()
		} else {
			log.Warn().Msg("RUN_ON_START ignored, watch is disabled")
		}
	}

	log.Info().Msg("WheelSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
}
