// File: cmd/app/main.go
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

	"yt-podcast-bot/internal/application"
	"yt-podcast-bot/internal/config"
	"yt-podcast-bot/internal/domain/ports/adapter"
	"yt-podcast-bot/internal/infra/adapters/downloader"
	tele "yt-podcast-bot/internal/infra/adapters/telegram"
	"yt-podcast-bot/internal/infra/adapters/uploader"
	httpapi "yt-podcast-bot/internal/infra/http"
	"yt-podcast-bot/internal/infra/i18n"
	"yt-podcast-bot/internal/infra/logging"
	"yt-podcast-bot/internal/infra/memory"
	"yt-podcast-bot/internal/infra/metrics"
	red "yt-podcast-bot/internal/infra/redis"
	"yt-podcast-bot/internal/infra/sched"
	"yt-podcast-bot/internal/infra/worker"
	"yt-podcast-bot/internal/usecase"

	"github.com/joho/godotenv"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	envPath := flag.String("env", ".env", "optional dotenv file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted tokens)")
	drainTimeout := flag.Duration("drain-timeout", 2*time.Minute, "how long shutdown waits for in-flight jobs")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("dotenv: %w", err)
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	translator, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Language)
	if err != nil {
		return fmt.Errorf("i18n: %w", err)
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	go redisClient.ExportPoolStats(ctx, 15*time.Second)

	// ---- Repositories ----
	broker := red.NewQueueBroker(redisClient)
	tokenRepo := red.NewTokenRepo(redisClient)
	jobRepo := red.NewJobRepo(redisClient, broker)
	dialogueRepo := memory.NewDialogueRepo()
	linkLimiter := red.NewLinkLimiter(redisClient)

	// ---- Use cases ----
	tokenUC := usecase.NewTokenUseCase(tokenRepo, logger, cfg.Runtime.Dev)
	jobUC := usecase.NewJobUseCase(jobRepo, tokenRepo, logger)
	dialogueUC := usecase.NewDialogueUseCase(dialogueRepo, tokenUC, jobUC, logger)

	// ---- Media adapters ----
	if err := os.MkdirAll(cfg.Downloader.CacheDir, 0o755); err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	ytdlp := downloader.NewYtDlp(cfg.Downloader, logger)
	pocketCasts := uploader.NewPocketCasts(cfg.Uploader, logger)
	janitor := sched.NewCacheJanitor(cfg.Downloader.SweepInterval, cfg.Downloader.CacheRetention, ytdlp, logger)
	go func() { _ = janitor.Run(ctx) }()

	// ---- Facade ----
	facade := application.NewBotFacade(tokenUC, dialogueUC, ytdlp, translator, logger)

	// ---- Telegram ----
	var gateway adapter.TelegramBotAdapter
	var botAdapter *tele.RealTelegramBotAdapter
	if cfg.Bot.Mode == "noop" {
		logger.Warn().Msg("bot.mode=noop: not connecting to Telegram, outgoing messages are logged")
		gateway = tele.NewNoopBotAdapter(logger)
	} else {
		if cfg.Bot.Mode != "polling" {
			logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
		}
		botAdapter, err = tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, linkLimiter, translator, logger)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		gateway = botAdapter
		botAdapter.PublishCommands(ctx)
		go func() {
			if err := botAdapter.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- Workers ----
	processor := worker.NewJobProcessor(jobRepo, tokenRepo, ytdlp, pocketCasts, gateway, translator, cfg.Queue.NotifyFailures, logger)
	pool := worker.NewPool(cfg.Queue.Workers, processor, broker, cfg.Queue.BrokerRetryDelay, logger)
	pool.Start(ctx)

	// ---- HTTP health + metrics ----
	server := httpapi.NewServer(&cfg.Admin, redisClient.Ping, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	// stop taking new updates, let admitted jobs finish, then unblock idle workers
	cancel()
	if botAdapter != nil {
		botAdapter.StopPolling()
	}
	if !pool.Drain(*drainTimeout) {
		logger.Warn().Int("busy", pool.Busy()).Msg("drain timed out; cancelling jobs in progress")
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
	if err := redisClient.Close(); err != nil {
		logger.Warn().Err(err).Msg("redis close")
	}
	pool.Stop()
	logger.Info().Msg("bye")
	return nil
}
