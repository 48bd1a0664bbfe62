package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/handiism/setlist-stats/internal/analysis"
	"github.com/handiism/setlist-stats/internal/config"
	"github.com/handiism/setlist-stats/internal/server"
)

func main() {
	var (
		inputFlag  = flag.String("input", "", "Setlist CSV file path or http(s) URL")
		configFlag = flag.String("config", "", "Path to config file (.json, .yaml or .yml)")
		listenFlag = flag.String("listen", "", "Listen address (overrides config)")
		countFlag  = flag.String("count", "", "Play count mode: shows or rows (overrides config)")
		levelFlag  = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*levelFlag)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			logger.Error("load config", "path", *configFlag, "error", err)
			os.Exit(1)
		}
	}
	if *inputFlag != "" {
		settings.InputPath = *inputFlag
	}
	if *listenFlag != "" {
		settings.ListenAddress = *listenFlag
	}
	if *countFlag != "" {
		settings.PlayCount = *countFlag
	}
	if err := settings.Validate(); err != nil {
		logger.Error("invalid settings", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	manager := analysis.NewManager(settings, func(event analysis.ProgressEvent) {
		switch event.Level {
		case analysis.LevelError:
			logger.Error(event.Message)
		case analysis.LevelWarning:
			logger.Warn(event.Message)
		case analysis.LevelVerbose:
			logger.Debug(event.Message)
		default:
			logger.Info(event.Message)
		}
	})
	if err := manager.Load(ctx); err != nil {
		logger.Error("load setlists", "input", settings.InputPath, "error", err)
		os.Exit(1)
	}

	svc := server.New(manager.Table(), logger, settings.TopSongs)
	srv := &http.Server{
		Addr:              settings.ListenAddress,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", settings.ListenAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
}
