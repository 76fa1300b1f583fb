// Package fallback implementa repositorios para cuando no hay store:
// las lecturas devuelven datos fijos de ejemplo y las escrituras fallan
// con storage.ErrUnavailable.
package fallback

import (
	"context"
	"strings"
	"time"

	"regresa/internal/domain/lostpets"
	"regresa/internal/domain/matches"
	"regresa/internal/domain/report"
	"regresa/internal/domain/sightings"
	"regresa/internal/platform/metrics"
	"regresa/internal/ports/storage"
)

// Totales fijos del tablero en modo degradado.
const (
	TotalLost  = 12
	TotalFound = 8
)

var seedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// LostPets devuelve los casos de ejemplo, más reciente primero.
func LostPets() []lostpets.LostPet {
	mk := func(id, name, typ, breed, desc, loc string, age time.Duration) lostpets.LostPet {
		return lostpets.LostPet{
			ID:          id,
			Name:        name,
			Type:        typ,
			Breed:       breed,
			Description: desc,
			Location:    loc,
			Contact:     report.Contact{},
			Status:      lostpets.StatusLost,
			CreatedAt:   seedTime.Add(-age),
			UpdatedAt:   seedTime.Add(-age),
		}
	}
	return []lostpets.LostPet{
		mk("1", "Max", "perro", "Golden Retriever", "Golden Retriever, amigable y juguetón", "Parque Central", 0),
		mk("2", "Luna", "gato", "Siamés", "Gata siamesa, collar rojo con cascabel", "Zona Norte", time.Hour),
		mk("3", "Charlie", "perro", "Beagle", "Beagle, se asusta fácilmente con ruidos fuertes", "Centro Ciudad", 2*time.Hour),
	}
}

func Sightings() []sightings.Sighting {
	mk := func(id, typ, desc, loc string, age time.Duration) sightings.Sighting {
		return sightings.Sighting{
			ID:          id,
			AnimalType:  typ,
			Description: desc,
			Kind:        sightings.KindSoloAnimal,
			Location:    loc,
			CreatedAt:   seedTime.Add(-age),
		}
	}
	return []sightings.Sighting{
		mk("1", "perro", "Perro pequeño corriendo cerca del parque", "Plaza Mayor", 0),
		mk("2", "gato", "Gato negro subido a un árbol", "Jardín Botánico", time.Hour),
		mk("3", "otro", "Mascota desconocida en la zona comercial", "Centro Comercial", 2*time.Hour),
	}
}

// -------------------------
// Lost pets
// -------------------------

type LostPetRepo struct {
	metrics *metrics.Metrics
}

func NewLostPetRepo(m *metrics.Metrics) *LostPetRepo {
	return &LostPetRepo{metrics: m}
}

func (r *LostPetRepo) Create(context.Context, lostpets.LostPet) error { return storage.ErrUnavailable }
func (r *LostPetRepo) Update(context.Context, lostpets.LostPet) error { return storage.ErrUnavailable }
func (r *LostPetRepo) Delete(context.Context, string) error           { return storage.ErrUnavailable }

func (r *LostPetRepo) GetByID(_ context.Context, id string) (lostpets.LostPet, error) {
	r.metrics.FallbackRead("lost_pets")
	for _, p := range LostPets() {
		if p.ID == id {
			return p, nil
		}
	}
	// Sin store no se puede afirmar que el id no exista.
	return lostpets.LostPet{}, storage.ErrUnavailable
}

func (r *LostPetRepo) List(_ context.Context, filter lostpets.ListFilter) ([]lostpets.LostPet, error) {
	r.metrics.FallbackRead("lost_pets")

	status := filter.Status
	if status == "" {
		status = lostpets.StatusLost
	}
	loc := strings.ToLower(filter.Location)

	out := make([]lostpets.LostPet, 0)
	for _, p := range LostPets() {
		if p.Status != status {
			continue
		}
		if filter.Type != "" && !strings.EqualFold(p.Type, filter.Type) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(p.Location), loc) {
			continue
		}
		if filter.WithImageOnly && !p.HasImage() {
			continue
		}
		out = append(out, p)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *LostPetRepo) ListByOwner(context.Context, string) ([]lostpets.LostPet, error) {
	r.metrics.FallbackRead("lost_pets")
	return []lostpets.LostPet{}, nil
}

func (r *LostPetRepo) CountByStatus(_ context.Context, status lostpets.Status) (int, error) {
	r.metrics.FallbackRead("stats")
	switch status {
	case lostpets.StatusLost:
		return TotalLost, nil
	case lostpets.StatusFound:
		return TotalFound, nil
	default:
		return 0, nil
	}
}

// -------------------------
// Sightings
// -------------------------

type SightingRepo struct {
	metrics *metrics.Metrics
}

func NewSightingRepo(m *metrics.Metrics) *SightingRepo {
	return &SightingRepo{metrics: m}
}

func (r *SightingRepo) Create(context.Context, sightings.Sighting) error {
	return storage.ErrUnavailable
}
func (r *SightingRepo) Delete(context.Context, string) error { return storage.ErrUnavailable }

func (r *SightingRepo) GetByID(_ context.Context, id string) (sightings.Sighting, error) {
	r.metrics.FallbackRead("sightings")
	for _, s := range Sightings() {
		if s.ID == id {
			return s, nil
		}
	}
	return sightings.Sighting{}, storage.ErrUnavailable
}

func (r *SightingRepo) List(_ context.Context, limit int) ([]sightings.Sighting, error) {
	r.metrics.FallbackRead("sightings")
	out := Sightings()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SightingRepo) ListByReporter(context.Context, string) ([]sightings.Sighting, error) {
	r.metrics.FallbackRead("sightings")
	return []sightings.Sighting{}, nil
}

func (r *SightingRepo) Count(context.Context) (int, error) {
	r.metrics.FallbackRead("stats")
	return len(Sightings()), nil
}

// LatestSince: los datos de ejemplo nunca caen en la ventana de matching.
func (r *SightingRepo) LatestSince(context.Context, time.Time) (sightings.Sighting, error) {
	return sightings.Sighting{}, sightings.ErrNotFound
}

// -------------------------
// Matches
// -------------------------

type MatchRepo struct {
	metrics *metrics.Metrics
}

func NewMatchRepo(m *metrics.Metrics) *MatchRepo {
	return &MatchRepo{metrics: m}
}

func (r *MatchRepo) Create(context.Context, matches.Match) error { return storage.ErrUnavailable }

func (r *MatchRepo) ListByLostPet(context.Context, string) ([]matches.Match, error) {
	r.metrics.FallbackRead("matches")
	return []matches.Match{}, nil
}

func (r *MatchRepo) ListBySighting(context.Context, string) ([]matches.Match, error) {
	r.metrics.FallbackRead("matches")
	return []matches.Match{}, nil
}

func (r *MatchRepo) DeleteByLostPet(context.Context, string) (int, error) {
	return 0, storage.ErrUnavailable
}

func (r *MatchRepo) DeleteBySighting(context.Context, string) (int, error) {
	return 0, storage.ErrUnavailable
}

var (
	_ lostpets.Repository  = (*LostPetRepo)(nil)
	_ sightings.Repository = (*SightingRepo)(nil)
	_ matches.Repository   = (*MatchRepo)(nil)
)
