package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	blobstoreimpl "github.com/overmindlabs/overmind/external/blobstore"
	completionimpl "github.com/overmindlabs/overmind/external/completion"
	configloader "github.com/overmindlabs/overmind/external/config"
	notifyimpl "github.com/overmindlabs/overmind/external/notify"
	repositoryimpl "github.com/overmindlabs/overmind/external/repository"
	transcriberimpl "github.com/overmindlabs/overmind/external/transcriber"
	"github.com/overmindlabs/overmind/internal/analysis"
	"github.com/overmindlabs/overmind/internal/config"
	"github.com/overmindlabs/overmind/internal/httpapi"
	"github.com/overmindlabs/overmind/internal/meeting"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching http server")
	runServer(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	blobstoreimpl.RegisterDI(injector)
	completionimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	notifyimpl.RegisterDI(injector)
	analysis.RegisterDI(injector)
	meeting.RegisterDI(injector)
	httpapi.RegisterDI(injector)

	return injector
}

func runServer(injector do.Injector) {
	server, err := do.Invoke[*httpapi.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http server", "error", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
		if err := server.Shutdown(context.Background()); err != nil {
			slog.Error("http shutdown failed", "error", err)
		}
		<-done
	case <-done:
	}
}
