package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"fleet-transition-service/internal/api/dto"
	"fleet-transition-service/internal/config"
	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/milp"
	"fleet-transition-service/internal/ports"
	"fleet-transition-service/internal/services"
)

// Request bodies beyond this size are rejected.
const maxBodyBytes = 1 << 20

type OptimizationHandler struct {
	Source   ports.ReferenceSource
	Store    ports.RunStore // nil disables run lookup
	Defaults config.ScenarioConfig
}

// Create runs one synchronous fleet optimization.
func (h *OptimizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizationRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	svcReq, err := h.serviceRequest(req)
	if err != nil {
		writeServiceError(w, r, "optimize fleet", err)
		return
	}

	report, err := services.OptimizeFleet(r.Context(), svcReq, h.Source, h.Store)
	if err != nil {
		writeServiceError(w, r, "optimize fleet", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewOptimizationResponse(report))
}

// Get returns a stored run by id.
func (h *OptimizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Store == nil {
		writeError(w, r, http.StatusNotImplemented, "run storage is not configured")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "run id is required")
		return
	}

	report, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrRunNotFound) {
			writeError(w, r, http.StatusNotFound, "run not found")
			return
		}
		writeServiceError(w, r, "get run", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewOptimizationResponse(report))
}

// serviceRequest overlays the request on the configured defaults.
func (h *OptimizationHandler) serviceRequest(req dto.OptimizationRequest) (services.OptimizeFleetRequest, error) {
	scenario := h.Defaults.Scenario()
	if req.DiscountRate != nil {
		scenario.DiscountRate = *req.DiscountRate
	}
	if hz := req.Horizon; hz != nil {
		if hz.FirstYear != 0 {
			scenario.Horizon.FirstYear = hz.FirstYear
			scenario.Horizon.BaseYear = hz.FirstYear
		}
		if hz.BaseYear != 0 {
			scenario.Horizon.BaseYear = hz.BaseYear
		}
		if hz.LastYear != 0 {
			scenario.Horizon.LastYear = hz.LastYear
		}
		if hz.DecisionStep != 0 {
			scenario.Horizon.DecisionStep = hz.DecisionStep
		}
	}
	if req.Alternatives != nil {
		scenario.Alternatives = make([]domain.FuelKind, 0, len(req.Alternatives))
		for _, f := range req.Alternatives {
			scenario.Alternatives = append(scenario.Alternatives, domain.NormalizeFuel(f))
		}
	}

	prices, err := h.Defaults.Prices.Resolve(config.PricesConfig{
		Source:    req.PriceSource,
		CO2:       req.CO2Prices,
		Primary:   req.PrimaryPrices,
		Secondary: req.SecondaryPrices,
	})
	if err != nil {
		return services.OptimizeFleetRequest{}, err
	}

	return services.OptimizeFleetRequest{
		Scenario:         scenario,
		CO2:              prices.CO2,
		Primary:          prices.Primary,
		Secondary:        prices.Secondary,
		IncludeEmissions: req.IncludeEmissions || h.Defaults.IncludeEmissions,
		Solver:           milp.Options{MaxNodes: h.Defaults.Solver.MaxNodes},
	}, nil
}
