package memory

import (
	"context"
	"sort"
	"sync"

	"regresa/internal/domain/matches"
)

type matchRepo struct {
	mu    sync.RWMutex
	byID  map[string]matches.Match
	pairs map[[2]string]string // (lost_pet_id, sighting_id) -> id
}

func NewMatchRepo() matches.Repository {
	return &matchRepo{
		byID:  make(map[string]matches.Match),
		pairs: make(map[[2]string]string),
	}
}

func (r *matchRepo) Create(ctx context.Context, m matches.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]string{m.LostPetID, m.SightingID}
	if _, exists := r.pairs[key]; exists {
		return matches.ErrDuplicate
	}
	r.byID[m.ID] = m
	r.pairs[key] = m.ID
	return nil
}

func (r *matchRepo) ListByLostPet(ctx context.Context, lostPetID string) ([]matches.Match, error) {
	return r.list(func(m matches.Match) bool { return m.LostPetID == lostPetID }), nil
}

func (r *matchRepo) ListBySighting(ctx context.Context, sightingID string) ([]matches.Match, error) {
	return r.list(func(m matches.Match) bool { return m.SightingID == sightingID }), nil
}

func (r *matchRepo) DeleteByLostPet(ctx context.Context, lostPetID string) (int, error) {
	return r.deleteWhere(func(m matches.Match) bool { return m.LostPetID == lostPetID }), nil
}

func (r *matchRepo) DeleteBySighting(ctx context.Context, sightingID string) (int, error) {
	return r.deleteWhere(func(m matches.Match) bool { return m.SightingID == sightingID }), nil
}

func (r *matchRepo) list(keep func(matches.Match) bool) []matches.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matches.Match, 0)
	for _, m := range r.byID {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence == out[j].Confidence {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func (r *matchRepo) deleteWhere(match func(matches.Match) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, m := range r.byID {
		if match(m) {
			delete(r.byID, id)
			delete(r.pairs, [2]string{m.LostPetID, m.SightingID})
			n++
		}
	}
	return n
}
