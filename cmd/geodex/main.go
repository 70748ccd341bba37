// Command geodex serves the location resolution and nearby-amenity HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/app"
	"github.com/kailas-cloud/geodex/internal/config"
	logpkg "github.com/kailas-cloud/geodex/internal/logger"
	"github.com/kailas-cloud/geodex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "geodex: load config for %q: %v\n", env, err)
		os.Exit(2)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "geodex: create logger: %v\n", err)
		os.Exit(2)
	}

	code := 0
	if err := run(env, cfg, logger); err != nil {
		logger.Error("geodex exited with error", zap.Error(err))
		code = 1
	}
	_ = logger.Sync()
	os.Exit(code)
}

// run serves until SIGINT/SIGTERM or a listener failure, then drains in-flight
// requests for http.shutdown_sec.
func run(env string, cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting geodex",
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("geodata_url", cfg.Geodata.BaseURL),
	)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTP.Port),
		Handler:           a.Handler(),
		ReadTimeout:       seconds(cfg.HTTP.ReadTimeoutSec),
		ReadHeaderTimeout: seconds(cfg.HTTP.ReadTimeoutSec),
		WriteTimeout:      seconds(cfg.HTTP.WriteTimeoutSec),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received, draining")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), seconds(cfg.HTTP.ShutdownSec))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
