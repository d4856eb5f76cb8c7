package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"titan-trader/internal/eod"
	"titan-trader/internal/logger"
	"titan-trader/internal/store"
	"titan-trader/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	compressOldLogs(ctx)

	uni, err := loadUniverse(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load instrument universe", err)
		os.Exit(1)
	}

	brk := initializeBroker(ctx, cfg)
	p := buildPipeline(cfg, uni, brk)

	go p.ingestor.Run(ctx)
	go p.agg.Run(ctx)
	go p.comps.Executor.Run(ctx)

	if err := p.feed.Subscribe(ctx, uni.Tokens()); err != nil {
		logger.ErrorWithErr(ctx, "Failed to set feed subscription", err)
		os.Exit(1)
	}
	if err := p.feed.Start(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Failed to start market data feed", err)
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	// SIGHUP is the panic button: halt all order flow and liquidate.
	panicc := make(chan os.Signal, 1)
	signal.Notify(panicc, syscall.SIGHUP)

	poll := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer poll.Stop()
	eodTick := time.NewTicker(60 * time.Second)
	defer eodTick.Stop()

	logger.Info(ctx, "Trader started",
		"mode", cfg.Mode,
		"universe", uni.Len(),
		"bar_minutes", cfg.BarMinutes,
		"poll_seconds", cfg.PollSeconds,
	)

	feedStatus := p.feed.Status()
	for {
		select {
		case <-poll.C:
			stats := p.eng.Recompute(ctx)
			closed := p.eng.EvaluateExits(ctx)
			logger.Debug(ctx, "Poll pass",
				"net_profit", stats.NetProfit,
				"roi", stats.ROI,
				"closed", closed,
				"feed", p.feed.Status(),
				"dropped_ticks", p.ingestor.Dropped(),
			)
			if s := p.feed.Status(); s != feedStatus {
				if cfg.Alerts.FeedReconnect {
					logger.Warn(ctx, "Alert", "event", "feed_status", "status", s)
				}
				feedStatus = s
			}
		case <-panicc:
			logger.Warn(ctx, "Panic signal received")
			p.eng.TriggerPanic(ctx)
		case <-eodTick.C:
			if ok, _ := eod.ShouldRunNow(); ok {
				if path, err := eod.SummarizeToday(); err == nil && path != "" {
					logger.Info(ctx, "EOD summary written", "path", path)
				}
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			p.feed.Stop(ctx)
			p.agg.Flush(ctx)
			if path, err := eod.SummarizeToday(); err == nil && path != "" {
				logger.Info(ctx, "EOD summary written", "path", path)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}
