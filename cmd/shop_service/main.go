// Package main runs the item shop HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/itemshop/internal/app"
	"github.com/abgdnv/itemshop/internal/config"
	"github.com/abgdnv/itemshop/pkg/bootstrap"
	"github.com/abgdnv/itemshop/pkg/config/configloader"
	"github.com/abgdnv/itemshop/pkg/server"
	"github.com/abgdnv/itemshop/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const serviceName = "shop"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, sets up tracing and starts the HTTP and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName, config.Defaults())
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to create tracer provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down tracer provider", slog.String("error", err.Error()))
		}
	}()

	deps, err := app.SetupDependencies(cfg.Shop.Capacity, logger)
	if err != nil {
		return err
	}
	httpServer := app.SetupHttpServer(deps, cfg, serviceName)
	logger.Info("Shop ready", slog.Int("capacity", cfg.Shop.Capacity))

	g, gCtx := errgroup.WithContext(ctx)

	serve(gCtx, g, logger, "HTTP", httpServer, cfg.Shutdown.Timeout)
	if cfg.PProf.Enabled {
		serve(gCtx, g, logger, "pprof", server.NewPprofServer(cfg.PProf.Addr), cfg.Shutdown.Timeout)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// serve starts srv and shuts it down gracefully once ctx is cancelled.
func serve(ctx context.Context, g *errgroup.Group, logger *slog.Logger, name string, srv *http.Server, shutdownTimeout time.Duration) {
	g.Go(func() error {
		logger.Info(name+" server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server failed: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down " + name + " server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
