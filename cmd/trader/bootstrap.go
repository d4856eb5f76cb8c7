package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"titan-trader/internal/broker/brokerobs"
	"titan-trader/internal/broker/kite"
	"titan-trader/internal/engine"
	"titan-trader/internal/engine/engineobs"
	"titan-trader/internal/interfaces"
	"titan-trader/internal/logger"
	"titan-trader/internal/marketdata"
	"titan-trader/internal/store"
	"titan-trader/internal/trace"
	"titan-trader/internal/tradelog"
	"titan-trader/internal/universe"
)

// initializeSystem loads the environment and brings up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// compressOldLogs gzips journal files past the configured retention window.
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// loadUniverse optionally refreshes the scrip master, then loads it. A failed
// refresh falls back to the local copy.
func loadUniverse(ctx context.Context, cfg *store.Config) (*universe.Universe, error) {
	if cfg.Universe.RefreshURL != "" {
		fetcher := universe.NewFetcher(cfg.Universe.RefreshURL, 30*time.Second)
		if err := fetcher.Refresh(ctx, cfg.Universe.ScripMasterCSV); err != nil {
			logger.Warn(ctx, "Scrip master refresh failed - using local copy", "error", err)
		}
	}
	return universe.Load(ctx, cfg.Universe.ScripMasterCSV, cfg.Universe.MaxTokens)
}

// initializeBroker builds the order client wrapped with observability.
func initializeBroker(ctx context.Context, cfg *store.Config) interfaces.Broker {
	brk := kite.NewClient(kite.Params{
		Mode:        cfg.Mode,
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		Exchange:    cfg.Exchange,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}
	return brokerobs.Wrap(brk)
}

// pipeline holds the wired tick-to-decision chain.
type pipeline struct {
	cache    *marketdata.PriceCache
	ingestor *marketdata.Ingestor
	agg      *marketdata.Aggregator
	comps    engine.Components
	eng      interfaces.Engine
	feed     interfaces.Feed
}

// buildPipeline wires cache, engine, aggregator, ingestor and feed. Ticks flow
// feed → ingestor → cache + aggregator; closed bars flow into the engine.
func buildPipeline(cfg *store.Config, uni *universe.Universe, brk interfaces.Broker) *pipeline {
	cache := marketdata.NewPriceCache()
	comps := engine.New(cfg, cache, brk, uni.Symbol)
	eng := engineobs.Wrap(comps.Engine)

	agg := marketdata.NewAggregator(
		time.Duration(cfg.BarMinutes)*time.Minute,
		eng.OnBarClose,
	)
	ing := marketdata.NewIngestor(cache, 0, agg.Add)
	feed := kite.NewFeed(
		os.Getenv("KITE_API_KEY"),
		os.Getenv("KITE_ACCESS_TOKEN"),
		ing.OnTick,
	)

	return &pipeline{
		cache:    cache,
		ingestor: ing,
		agg:      agg,
		comps:    comps,
		eng:      eng,
		feed:     feed,
	}
}
