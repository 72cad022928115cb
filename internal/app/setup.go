// Package app contains the application setup for the shop service.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/itemshop/internal/config"
	"github.com/abgdnv/itemshop/internal/service"
	"github.com/abgdnv/itemshop/internal/shop"
	"github.com/abgdnv/itemshop/internal/store"
	"github.com/abgdnv/itemshop/internal/transport/rest"
	"github.com/abgdnv/itemshop/pkg/metrics"
	"github.com/abgdnv/itemshop/pkg/server"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	ShopService service.ShopService
	Logger      *slog.Logger
}

// SetupDependencies builds the item store and a shelf of the given capacity.
func SetupDependencies(capacity int, logger *slog.Logger) (*Dependencies, error) {
	sh, err := shop.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}
	return &Dependencies{
		ShopService: service.NewService(store.NewInMemoryStore(), sh, logger),
		Logger:      logger,
	}, nil
}

// SetupHttpHandler initializes the router and routes for the shop service.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	mux.Use(metrics.Middleware)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the shop service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	shopHandler := rest.NewHandler(deps.ShopService, deps.Logger)
	shopHandler.RegisterRoutes(mux)
	mux.Handle(metrics.Path, metrics.Handler())
}

// SetupHttpServer creates and configures an HTTP server for the shop service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config, serviceName string) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, serviceName, mux)
}
