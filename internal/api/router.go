package api

import (
	"context"
	"net/http"

	"fleet-transition-service/internal/api/handlers"
	"fleet-transition-service/internal/config"
	"fleet-transition-service/internal/ports"

	"go.uber.org/zap"
)

// Dependencies of the HTTP API. Store and Ping are optional.
type Deps struct {
	Source   ports.ReferenceSource
	Store    ports.RunStore
	Defaults config.ScenarioConfig
	Ping     func(ctx context.Context) error
	Logger   *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{Ping: deps.Ping}
	ships := &handlers.ShipHandler{Source: deps.Source}
	optimizations := &handlers.OptimizationHandler{
		Source:   deps.Source,
		Store:    deps.Store,
		Defaults: deps.Defaults,
	}

	mux.HandleFunc("/health", health.Health)
	mux.HandleFunc("/ships", ships.List)
	mux.HandleFunc("/optimizations", optimizations.Create)
	mux.HandleFunc("/optimizations/{id}", optimizations.Get)

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return loggingMiddleware(logger, mux)
}
