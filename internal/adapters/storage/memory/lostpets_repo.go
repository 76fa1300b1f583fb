package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"regresa/internal/domain/lostpets"
)

type lostPetRepo struct {
	mu   sync.RWMutex
	byID map[string]lostpets.LostPet
}

func NewLostPetRepo() lostpets.Repository {
	return &lostPetRepo{
		byID: make(map[string]lostpets.LostPet),
	}
}

func (r *lostPetRepo) Create(ctx context.Context, p lostpets.LostPet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("lost pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("lost pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *lostPetRepo) Update(ctx context.Context, p lostpets.LostPet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return lostpets.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *lostPetRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return lostpets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *lostPetRepo) GetByID(ctx context.Context, id string) (lostpets.LostPet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return lostpets.LostPet{}, lostpets.ErrNotFound
	}
	return p, nil
}

func (r *lostPetRepo) List(ctx context.Context, filter lostpets.ListFilter) ([]lostpets.LostPet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := filter.Status
	if status == "" {
		status = lostpets.StatusLost
	}
	loc := strings.ToLower(filter.Location)

	out := make([]lostpets.LostPet, 0)
	for _, p := range r.byID {
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

	sortNewestFirst(out)

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *lostPetRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]lostpets.LostPet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lostpets.LostPet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *lostPetRepo) CountByStatus(ctx context.Context, status lostpets.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.byID {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

// created_at DESC; a igual fecha, id para que el orden sea determinístico.
func sortNewestFirst(items []lostpets.LostPet) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
