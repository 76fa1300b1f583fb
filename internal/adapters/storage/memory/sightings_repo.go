package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"regresa/internal/domain/sightings"
)

type sightingRepo struct {
	mu   sync.RWMutex
	byID map[string]sightings.Sighting
}

func NewSightingRepo() sightings.Repository {
	return &sightingRepo{
		byID: make(map[string]sightings.Sighting),
	}
}

func (r *sightingRepo) Create(ctx context.Context, s sightings.Sighting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("sighting id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("sighting already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *sightingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return sightings.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *sightingRepo) GetByID(ctx context.Context, id string) (sightings.Sighting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return sightings.Sighting{}, sightings.ErrNotFound
	}
	return s, nil
}

// sorted asume el lock tomado.
func (r *sightingRepo) sorted() []sightings.Sighting {
	out := make([]sightings.Sighting, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *sightingRepo) List(ctx context.Context, limit int) ([]sightings.Sighting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.sorted()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *sightingRepo) ListByReporter(ctx context.Context, reporterUserID string) ([]sightings.Sighting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sightings.Sighting, 0)
	for _, s := range r.sorted() {
		if s.ReporterUserID == reporterUserID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *sightingRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *sightingRepo) LatestSince(ctx context.Context, since time.Time) (sightings.Sighting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  sightings.Sighting
		found bool
	)
	for _, s := range r.byID {
		if s.CreatedAt.Before(since) {
			continue
		}
		if !found || s.CreatedAt.After(best.CreatedAt) {
			best, found = s, true
		}
	}
	if !found {
		return sightings.Sighting{}, sightings.ErrNotFound
	}
	return best, nil
}
