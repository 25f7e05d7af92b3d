package handlers

import (
	"net/http"

	"fleet-transition-service/internal/api/dto"
	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/ports"
)

// ShipHandler exposes the fleet as seen by the optimizer.
type ShipHandler struct {
	Source ports.ReferenceSource
}

func (h *ShipHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ref, err := h.Source.LoadReferenceData(r.Context())
	if err != nil {
		writeServiceError(w, r, "list ships", err)
		return
	}

	res := dto.ListShipsResponse{Ships: make([]dto.ShipResponse, 0, len(ref.Ships))}
	for _, s := range ref.Ships {
		res.Ships = append(res.Ships, dto.ShipResponse{
			Class:            domain.NormalizeName(s.Class),
			Voyages:          s.Voyages,
			PowerKW:          s.PowerKW,
			EnergyPerKmMJ:    s.EnergyPerKmMJ,
			VoyageDistanceKm: s.VoyageDistanceKm,
			VoyageEnergyMJ:   s.Route.VoyageEnergyMJ,
			ECAShare:         s.Route.ECAShare(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
