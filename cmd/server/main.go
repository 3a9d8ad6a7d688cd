package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/angel-codi/fxnow/internal/adapter/cache"
	httpRouter "github.com/angel-codi/fxnow/internal/adapter/http"
	"github.com/angel-codi/fxnow/internal/adapter/upstream"
	"github.com/angel-codi/fxnow/internal/config"
	"github.com/angel-codi/fxnow/internal/metrics"
	"github.com/angel-codi/fxnow/internal/service"
	"github.com/angel-codi/fxnow/pkg/logger"
)

const refreshTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	log.Info().Msg("starting fxnow server")

	if cfg.Upstream.BOKAPIKey == "" {
		log.Warn().Msg("BOK_API_KEY is not set, national-bank history will stay pending")
	}
	if cfg.Upstream.EximAPIKey == "" {
		log.Warn().Msg("EXIM_API_KEY is not set, official-rate proxy will answer CONFIG_ERROR")
	}

	appMetrics := metrics.NewMetrics()

	up := cfg.Upstream
	midMarket := upstream.NewMidMarket(up.MidMarketBaseURL, up.Timeout, up.RetryNum, up.RetryDelay, log)
	ecos := upstream.NewECOS(up.ECOSBaseURL, up.BOKAPIKey, up.Timeout, up.RetryNum, up.RetryDelay, log)
	eximbank := upstream.NewEximbank(up.EximBaseURL, up.EximAPIKey, up.Timeout, up.RetryNum, up.RetryDelay, log)
	frankfurter := upstream.NewFrankfurter(up.FrankfurterBaseURL, up.Timeout, up.RetryNum, up.RetryDelay, log)

	historyCache := cache.NewMemoryCache(cfg.Cache.TTL, log)

	rateService := service.NewRateService(midMarket, log, appMetrics)
	historyResolver := service.NewHistoryResolver(ecos, frankfurter, historyCache, log, appMetrics)
	controller := service.NewController(rateService, historyResolver, log, appMetrics)

	handler := httpRouter.NewHandler(controller, log, appMetrics)
	proxy := httpRouter.NewProxyHandler(ecos, eximbank, log, appMetrics)
	router := httpRouter.NewRouter(handler, proxy, log, appMetrics)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		if err := controller.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("rate refresh failed")
		}

		if err := historyCache.ClearExpired(ctx); err != nil {
			log.Error().Err(err).Msg("failed to clear expired cache entries")
		}
	}

	// Warm the table and snapshot before the first request lands.
	go refresh()

	// Overlapping refreshes must not interleave writes; a tick that fires
	// mid-refresh is skipped.
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(cfg.Refresh.Schedule, refresh); err != nil {
		log.Error().Err(err).Str("schedule", cfg.Refresh.Schedule).Msg("invalid refresh schedule")
		os.Exit(1)
	}
	scheduler.Start()

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exited")
}
