package matches

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"regresa/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Lookup evita importar los paquetes lostpets y sightings.
type Lookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// RegisterRoutes debe llamarse después de montar /pets/lost y /sightings.
func RegisterRoutes(r chi.Router, svc *Service, lostPets, sightings Lookup, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"module": "matches"})

	r.Get("/pets/lost/{petID}/matches", listMatchesByLostPetHandler(svc, lostPets, log))
	r.Get("/sightings/{sightingID}/matches", listMatchesBySightingHandler(svc, sightings, log))
}

type matchResponse struct {
	ID         string    `json:"id"`
	LostPetID  string    `json:"lostPetId"`
	SightingID string    `json:"sightingId"`
	Confidence float64   `json:"confidence"`
	Status     Status    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// listMatchesByLostPetHandler godoc
// @Summary Coincidencias de una mascota perdida
// @Description Coincidencias registradas por el análisis de imagen para el reporte, de mayor a menor confianza. Todas quedan en estado `pending`.
// @Tags matches
// @Produce json
// @Param petID path string true "ID del reporte de mascota perdida"
// @Success 200 {array} matchResponse
// @Failure 404 {object} errorResponse "lost pet not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /pets/lost/{petID}/matches [get]
func listMatchesByLostPetHandler(svc *Service, lostPets Lookup, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")

		ok, err := lostPets.Exists(r.Context(), petID)
		if err != nil {
			log.Error("lookup lost pet failed", map[string]any{"error": err, "lost_pet_id": petID})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "lost pet not found"})
			return
		}

		items, err := svc.ListByLostPet(r.Context(), petID)
		if err != nil {
			log.Error("list matches failed", map[string]any{"error": err, "lost_pet_id": petID})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// listMatchesBySightingHandler godoc
// @Summary Coincidencias de un avistamiento
// @Description Coincidencias registradas para el avistamiento, de mayor a menor confianza.
// @Tags matches
// @Produce json
// @Param sightingID path string true "ID del avistamiento"
// @Success 200 {array} matchResponse
// @Failure 404 {object} errorResponse "sighting not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /sightings/{sightingID}/matches [get]
func listMatchesBySightingHandler(svc *Service, sightings Lookup, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sightingID := chi.URLParam(r, "sightingID")

		ok, err := sightings.Exists(r.Context(), sightingID)
		if err != nil {
			log.Error("lookup sighting failed", map[string]any{"error": err, "sighting_id": sightingID})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "sighting not found"})
			return
		}

		items, err := svc.ListBySighting(r.Context(), sightingID)
		if err != nil {
			log.Error("list matches failed", map[string]any{"error": err, "sighting_id": sightingID})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func toResponses(items []Match) []matchResponse {
	out := make([]matchResponse, 0, len(items))
	for _, m := range items {
		out = append(out, matchResponse{
			ID:         m.ID,
			LostPetID:  m.LostPetID,
			SightingID: m.SightingID,
			Confidence: m.Confidence,
			Status:     m.Status,
			Notes:      m.Notes,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
