package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alejandrodnm/ironcondor/config"
	"github.com/alejandrodnm/ironcondor/internal/adapters/alpaca"
	"github.com/alejandrodnm/ironcondor/internal/adapters/alphavantage"
	"github.com/alejandrodnm/ironcondor/internal/adapters/archive"
	"github.com/alejandrodnm/ironcondor/internal/adapters/notify"
	"github.com/alejandrodnm/ironcondor/internal/adapters/storage"
	"github.com/alejandrodnm/ironcondor/internal/adapters/yahoo"
	"github.com/alejandrodnm/ironcondor/internal/application/engine"
	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: $IRONCONDOR_CONFIG, ./config/config.yaml, ~/.config/ironcondor/config.yaml)")
	symbols := flag.String("symbol", "", "comma separated symbols (default: watchlist)")
	intervalFlag := flag.String("interval", "", "monthly|weekly|daily (overrides config)")
	confidenceFlag := flag.String("confidence", "", "50%|60%|70%|80%|90%|99% (overrides config)")
	strategyFlag := flag.String("strategy", "", "equal|independent (overrides config)")
	watchMode := flag.Bool("watch", false, "run the watchlist on the configured cron schedule")
	purge := flag.Bool("purge", false, "delete every cached document of the interval and exit")
	rebuilds := flag.Int("rebuilds", 0, "print the last N rebuilds and exit")
	probabilities := flag.Bool("probabilities", false, "print the percentile table of each symbol")
	table := flag.Bool("table", false, "print full table (default: compact 1-line)")
	dryRun := flag.Bool("dry-run", false, "read history from the local archive, no network")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, path, err := config.LoadOrDefault(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *intervalFlag != "" {
		cfg.Engine.Interval = *intervalFlag
	}
	if *confidenceFlag != "" {
		cfg.Engine.Confidence = *confidenceFlag
	}
	if *strategyFlag != "" {
		cfg.Engine.Strategy = *strategyFlag
	}
	if *dryRun {
		cfg.History.Source = "archive"
		cfg.Price.Source = "offline"
	}
	setupLogger(cfg.Log)

	interval, err := domain.ParseInterval(cfg.Engine.Interval)
	if err != nil {
		slog.Error("invalid interval", "err", err)
		os.Exit(2)
	}

	slog.Info("ironcondor starting",
		"config", path,
		"history", cfg.History.Source,
		"price", cfg.Price.Source,
		"interval", interval,
		"dry_run", *dryRun,
		"watch", *watchMode,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	notifier := notify.NewConsole(*table)

	if *rebuilds > 0 {
		records, err := store.RecentRebuilds(ctx, *rebuilds)
		if err != nil {
			slog.Error("failed to read rebuilds", "err", err)
			os.Exit(1)
		}
		notifier.PrintRebuilds(records)
		return
	}

	history, err := newHistoryProvider(cfg)
	if err != nil {
		slog.Error("failed to build history provider", "err", err)
		os.Exit(1)
	}
	prices, err := newPriceProvider(cfg)
	if err != nil {
		slog.Error("failed to build price provider", "err", err)
		os.Exit(1)
	}

	engCfg := engine.DefaultConfig()
	engCfg.Location = cfg.Location()
	engCfg.Workers = cfg.Engine.Workers
	eng := engine.New(engCfg, history, prices, store)

	if *purge {
		n, err := eng.Purge(ctx, interval)
		if err != nil {
			slog.Error("purge failed", "err", err)
			os.Exit(1)
		}
		slog.Info("purged documents", "interval", interval, "deleted", n)
		return
	}

	reqs, err := buildRequests(cfg, interval, *symbols)
	if err != nil {
		slog.Error("invalid request", "err", err)
		os.Exit(2)
	}

	if *watchMode {
		if err := runWatch(ctx, cfg.Watch.Cron, eng, notifier, reqs); err != nil {
			slog.Error("watch exited with error", "err", err)
			os.Exit(1)
		}
		slog.Info("ironcondor stopped cleanly")
		return
	}

	results := eng.PredictMany(ctx, reqs)
	if err := notifier.Notify(ctx, results); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if *probabilities {
		printProbabilities(ctx, store, notifier, results)
	}

	for _, r := range results {
		if r.Err != nil {
			os.Exit(1)
		}
	}
}

// newHistoryProvider elige el proveedor de series según config. Con el archivo
// habilitado las series descargadas se guardan también en Parquet.
func newHistoryProvider(cfg *config.Config) (ports.HistoryProvider, error) {
	var provider ports.HistoryProvider
	switch cfg.History.Source {
	case "alphavantage":
		if cfg.History.APIKey == "" {
			return nil, fmt.Errorf("history: alphavantage requires ALPHAVANTAGE_API_KEY")
		}
		provider = alphavantage.NewClient(cfg.History.BaseURL, cfg.History.APIKey, cfg.History.RequestsPerMinute)
	case "alpaca":
		provider = alpaca.NewProvider(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.AlpacaHistoryStart())
	case "archive":
		return archive.NewParquet(cfg.Archive.Dir), nil
	default:
		return nil, fmt.Errorf("history: unknown source %q", cfg.History.Source)
	}

	if cfg.Archive.Enabled {
		provider = archive.NewRecorder(provider, archive.NewParquet(cfg.Archive.Dir))
	}
	return provider, nil
}

func newPriceProvider(cfg *config.Config) (ports.PriceProvider, error) {
	switch cfg.Price.Source {
	case "yahoo":
		return yahoo.NewPriceClient(cfg.Price.BaseURL), nil
	case "alpaca":
		return alpaca.NewProvider(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.AlpacaHistoryStart()), nil
	case "offline":
		return offlinePrice{}, nil
	default:
		return nil, fmt.Errorf("price: unknown source %q", cfg.Price.Source)
	}
}

// offlinePrice devuelve 0: el engine usa el último cierre del documento.
type offlinePrice struct{}

func (offlinePrice) FetchLastPrice(context.Context, string) (float64, error) { return 0, nil }

func buildRequests(cfg *config.Config, interval domain.Interval, symbols string) ([]domain.PredictRequest, error) {
	confidence, err := domain.ParseConfidence(cfg.Engine.Confidence)
	if err != nil {
		return nil, err
	}
	strategy, err := domain.ParseStrategy(cfg.Engine.Strategy)
	if err != nil {
		return nil, err
	}

	list := cfg.Watch.Symbols
	if symbols != "" {
		list = nil
		for _, s := range strings.Split(symbols, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no symbols: %w", domain.ErrInvalidRequest)
	}

	reqs := make([]domain.PredictRequest, 0, len(list))
	for _, s := range list {
		reqs = append(reqs, domain.PredictRequest{
			Symbol:     strings.ToUpper(s),
			Interval:   interval,
			Confidence: confidence,
			Strategy:   strategy,
		})
	}
	return reqs, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
