// Package stats calcula los totales del tablero. No se persisten.
package stats

import (
	"context"
	"encoding/json"
	"net/http"

	"regresa/internal/domain/lostpets"
	"regresa/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

type LostPetCounter interface {
	CountByStatus(ctx context.Context, status lostpets.Status) (int, error)
}

type SightingCounter interface {
	Count(ctx context.Context) (int, error)
}

// Snapshot. ActiveCases == TotalLost siempre.
type Snapshot struct {
	TotalLost      int `json:"totalLost"`
	TotalFound     int `json:"totalFound"`
	TotalSightings int `json:"totalSightings"`
	ActiveCases    int `json:"activeCases"`
}

type Service struct {
	lost      LostPetCounter
	sightings SightingCounter
}

func NewService(lost LostPetCounter, sightings SightingCounter) *Service {
	return &Service{lost: lost, sightings: sightings}
}

// Get corre los tres conteos en paralelo. No hay consistencia entre ellos.
func (s *Service) Get(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.lost.CountByStatus(gctx, lostpets.StatusLost)
		snap.TotalLost = n
		return err
	})
	g.Go(func() error {
		n, err := s.lost.CountByStatus(gctx, lostpets.StatusFound)
		snap.TotalFound = n
		return err
	})
	g.Go(func() error {
		n, err := s.sightings.Count(gctx)
		snap.TotalSightings = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap.ActiveCases = snap.TotalLost
	return snap, nil
}

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	r.Get("/stats", getStatsHandler(svc, log.With(map[string]any{"module": "stats"})))
}

type errorResponse struct {
	Error string `json:"error"`
}

// getStatsHandler godoc
// @Summary Estadísticas
// @Description Totales de casos abiertos, encontrados y avistamientos. `activeCases` es igual a `totalLost`.
// @Tags stats
// @Produce json
// @Success 200 {object} Snapshot
// @Failure 500 {object} errorResponse "internal error"
// @Router /stats [get]
func getStatsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Get(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			log.Error("stats failed", map[string]any{"error": err})
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(errorResponse{Error: "internal error"})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(snap)
	}
}
