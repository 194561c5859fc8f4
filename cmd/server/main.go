package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"RTMonitor/internal/advisor"
	"RTMonitor/internal/bias"
	"RTMonitor/internal/collector"
	"RTMonitor/internal/config"
	"RTMonitor/internal/engine"
	"RTMonitor/internal/notifier"
	"RTMonitor/internal/scheduler"
	"RTMonitor/internal/server"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Info().Msg("RTMonitor starting")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	useMock := os.Getenv("USE_MOCK_DATA") == "true"
	if err := cfg.Validate(useMock); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	// Fetcher
	var fetcher collector.Fetcher
	if useMock {
		fetcher = collector.NewMockFetcher()
	} else {
		fetcher = collector.NewOandaFetcher(cfg.Oanda.BaseURL, cfg.Oanda.APIKey, cfg.Oanda.AccountID, cfg.Proxy)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	// Bias store: sqlite takes precedence, then the JSON file.
	var biasCache *bias.Cache
	switch {
	case cfg.Bias.SQLitePath != "":
		provider, err := bias.NewSQLiteProvider(cfg.Bias.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("bias sqlite unavailable, labels disabled")
		} else {
			defer provider.Close()
			biasCache = bias.NewCache(provider)
		}
	case cfg.Bias.FilePath != "":
		biasCache = bias.NewCache(bias.NewFileProvider(cfg.Bias.FilePath))
	}

	// Advisor
	var adv engine.Advisor
	if cfg.Advisor.Enabled {
		adv = advisor.NewClient(cfg.Advisor.OpenAIKey, cfg.Advisor.Model)
		log.Info().Str("model", cfg.Advisor.Model).Msg("advisor enabled")
	}

	eng := engine.New(fetcher, adv, engine.DefaultSlots(cfg.RTM.IncludeLegacyH4), cfg.RTM.CandleCount)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// HTTP API
	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: server.New(eng, fetcher, biasCache, cfg.Categories()).Router(),
	}
	go func() {
		log.Info().Str("addr", cfg.Server.ListenAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	// Position scan and bot commands, only when Telegram is configured.
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched := scheduler.NewScheduler(ctx, eng, fetcher, tn)
		if err := sched.RegisterAll(cfg.Schedule.PositionsCron); err != nil {
			log.Fatal().Err(err).Msg("register cron tasks")
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")

		if os.Getenv("RUN_ON_START") == "true" {
			go sched.RunScanNow()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("RTMonitor stopped")
}
