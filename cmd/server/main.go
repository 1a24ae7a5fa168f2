package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/documind/docrouter/internal/bootstrap"
	"github.com/documind/docrouter/internal/config"
	"github.com/documind/docrouter/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("docrouter", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// The classification subscriber runs next to the HTTP server: the
	// record store is session-scoped, so processing must share its
	// process.
	subscriberDone := make(chan error, 1)
	go func() {
		subscriberDone <- app.Queue.SubscribeClassificationRequested(ctx, func(handlerCtx context.Context, jobID string) error {
			processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
			defer cancel()
			return app.ClassifyUC.Process(processCtx, jobID)
		})
	}()

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		slog.Info("http_listening", "port", cfg.APIPort)
		serverDone <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http_server_failed", "error", err)
		}
	case err := <-subscriberDone:
		if err != nil {
			slog.Error("subscriber_failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http_shutdown_failed", "error", err)
	}
}
