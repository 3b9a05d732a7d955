package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/noahxzhu/homework-notify/internal/config"
	"github.com/noahxzhu/homework-notify/internal/logger"
	"github.com/noahxzhu/homework-notify/internal/model"
	"github.com/noahxzhu/homework-notify/internal/notify"
	"github.com/noahxzhu/homework-notify/internal/practicum"
	"github.com/noahxzhu/homework-notify/internal/pushover"
	"github.com/noahxzhu/homework-notify/internal/storage"
	"github.com/noahxzhu/homework-notify/internal/telegram"
	"github.com/noahxzhu/homework-notify/internal/web"
	"github.com/noahxzhu/homework-notify/internal/worker"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Console-only logger until the config tells us where the log file lives
	log := slog.New(logger.NewConsoleHandler(os.Stdout, slog.LevelInfo, false))

	flags := config.NewFlagSet("homework-bot")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		log.Error("Failed to parse flags", "error", err)
		return 2
	}

	// Load Config
	cfg, err := config.Load(flags)
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Critical(log, "Missing required environment variables", "missing", cfgErr.Missing)
		} else {
			logger.Critical(log, "Failed to load config", "error", err)
		}
		return 1
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		return 1
	}
	defer closer.Close()
	slog.SetDefault(log)

	w, err := newWorker(cfg, log)
	if err != nil {
		logger.Critical(log, "Failed to start", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init Web Server
	var httpServer *http.Server
	if cfg.Server.Addr != "" {
		httpServer = &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           web.NewServer(w.store, w, log),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info("Starting status API", "addr", cfg.Server.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("HTTP server error", "error", err)
				stop()
			}
		}()
	}

	runErr := w.Start(ctx)

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", "error", err)
		}
	}

	if runErr != nil {
		logger.Critical(log, "Worker stopped", "error", runErr)
		return 1
	}
	log.Info("Bot exited")
	return 0
}

type app struct {
	*worker.Worker
	store *storage.Store
}

func newWorker(cfg *config.Config, log *slog.Logger) (*app, error) {
	schedule, err := worker.ParseSchedule(cfg.Poll.Schedule)
	if err != nil {
		return nil, err
	}
	policy, err := worker.ParseSendFailurePolicy(cfg.Poll.OnSendFailure)
	if err != nil {
		return nil, err
	}

	fetcher := practicum.NewClient(
		cfg.Practicum.Endpoint,
		cfg.Credentials.PracticumToken,
		&http.Client{Timeout: cfg.Practicum.Timeout},
	)

	tg, err := telegram.NewClient(cfg.Credentials.TelegramToken, cfg.Credentials.TelegramChatID, telegram.Options{
		APIServer: cfg.Telegram.APIServer,
		HTTP:      &http.Client{Timeout: cfg.Telegram.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	notifiers := notify.Multi{tg}
	if cfg.Credentials.PushoverEnabled() {
		po := pushover.NewClient(cfg.Credentials.PushoverToken, cfg.Credentials.PushoverUser)
		po.HTTP = &http.Client{Timeout: cfg.Telegram.Timeout}
		notifiers = append(notifiers, notify.BestEffort(po, log))
		log.Info("Pushover mirror enabled")
	}

	store := storage.NewStore(model.Snapshot{})
	w := worker.NewWorker(fetcher, notify.WithLogging(notifiers, log), store, worker.Options{
		Schedule:      schedule,
		MaxCycles:     cfg.Poll.MaxCycles,
		OnSendFailure: policy,
		Logger:        log,
	})
	return &app{Worker: w, store: store}, nil
}
