package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"market-signal-bot/internal/feed"
	"market-signal-bot/internal/gateway"
	"market-signal-bot/internal/logger"
	"market-signal-bot/internal/macro"
	"market-signal-bot/internal/news"
	"market-signal-bot/internal/pipeline"
	"market-signal-bot/internal/scheduler"
	"market-signal-bot/internal/sentiment"
	"market-signal-bot/internal/store"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()
	must(logger.Init())

	cfg, err := store.LoadConfig("config.yaml")
	must(err)

	catalog, err := cfg.Catalog()
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	must(os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755))
	gw, err := gateway.NewSQLiteGateway(cfg.Database.SQLitePath)
	must(err)

	deps := pipeline.Deps{
		Catalog: catalog,
		Filter:  news.NewFilter(cfg.FilterConfig(), sentiment.NewAnalyzer()),
		Phrases: cfg.RiskPhrases,
		Quotes:  feed.NewYahooClient(),
		Gateway: gw,
	}
	if cfg.NewsAPIKey != "" {
		deps.News = feed.NewNewsAPIClient(cfg.NewsAPIKey, cfg.News.PageSize)
	} else {
		logger.Warn(ctx, "NEWS_API_KEY not set, news stage disabled")
	}
	if cfg.MetalsAPIKey != "" {
		deps.Metals = feed.NewMetalsClient(cfg.MetalsAPIKey)
	} else {
		logger.Warn(ctx, "METALS_API_KEY not set, metals spot feed disabled")
	}
	if cfg.Macro.FREDEnabled && cfg.FREDAPIKey != "" {
		deps.Fred = macro.NewFREDClient(cfg.FREDAPIKey)
	}
	if cfg.Macro.ScrapeEnabled {
		deps.Scraper = macro.NewScraper(0)
	}

	pipe, err := pipeline.New(deps)
	must(err)

	sched := scheduler.New(ctx, pipe, cfg.Schedule.MaxRetries)
	must(sched.Register(cfg.Schedule.CycleCron))
	sched.Start()

	if cfg.Schedule.RunOnStart {
		go sched.RunNow()
	}

	logger.Info(ctx, "Collector started", "cron", cfg.Schedule.CycleCron)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	logger.Info(ctx, "Shutting down")
	sched.Stop()
	cancel()
	if err := gw.Close(); err != nil {
		logger.ErrorWithErr(context.Background(), "Gateway close failed", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = logger.Shutdown(shutdownCtx)
}
