// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surgical-viz-client/internal/config"
	"surgical-viz-client/internal/domain/ports/adapter"
	"surgical-viz-client/internal/domain/ports/repository"
	"surgical-viz-client/internal/infra/adapters/backend"
	"surgical-viz-client/internal/infra/cache"
	"surgical-viz-client/internal/infra/logging"
	"surgical-viz-client/internal/infra/metrics"
	"surgical-viz-client/internal/infra/notify"
	red "surgical-viz-client/internal/infra/redis"
	"surgical-viz-client/internal/infra/web"
	"surgical-viz-client/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted ids)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Result cache ----
	var resultCache repository.ResultCache
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		resultCache = red.NewResultCache(redisClient, cfg.Redis.TTL, int64(cfg.Cache.HistoryLimit))
		logger.Info().Str("addr", cfg.Redis.URL).Msg("result cache: redis")
	default:
		resultCache = cache.NewMemory(cfg.Cache.HistoryLimit)
		logger.Info().Msg("result cache: in-memory")
	}

	// ---- Notifications ----
	var extra []adapter.NotificationSink
	if cfg.Notify.Telegram.Token != "" && cfg.Notify.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegramSink(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.ChatID, logger)
		if err != nil {
			log.Fatalf("telegram sink: %v", err)
		}
		extra = append(extra, tg)
		logger.Info().Int64("chat_id", cfg.Notify.Telegram.ChatID).Msg("notifications: telegram fan-out enabled")
	}
	feed := notify.NewFeed(cfg.Notify.FeedSize, logger, extra...)

	// ---- Backend client ----
	client, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout, logger)
	if err != nil {
		log.Fatalf("backend client: %v", err)
	}

	// ---- Orchestrator ----
	vizUC := usecase.NewVisualizationUseCase(client, resultCache, feed, cfg.Poll.Interval, logger)

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- HTTP API for the UI layer ----
	srv := web.NewServer(vizUC, resultCache, feed, logger, cfg.Runtime.Dev)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Web.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	vizUC.Cancel()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = server.Shutdown(shutCtx)
	cancel()
}
