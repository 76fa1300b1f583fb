package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"regresa/internal/domain/lostpets"
	"regresa/internal/domain/matches"
	"regresa/internal/domain/sightings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLostPetRepo_ListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewLostPetRepo()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	seed := []lostpets.LostPet{
		{ID: "a", Type: "perro", Location: "Parque Central", Status: lostpets.StatusLost, ImageURL: "u", CreatedAt: base},
		{ID: "b", Type: "gato", Location: "Zona Norte", Status: lostpets.StatusLost, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Type: "perro", Location: "Centro", Status: lostpets.StatusFound, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d", Type: "perro", Location: "parque sur", Status: lostpets.StatusLost, ImageURL: "u", CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, p := range seed {
		require.NoError(t, repo.Create(ctx, p))
	}

	got, err := repo.List(ctx, lostpets.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "a"}, ids(got))

	got, _ = repo.List(ctx, lostpets.ListFilter{Type: "PERRO", Location: "parque"})
	assert.Equal(t, []string{"d", "a"}, ids(got))

	got, _ = repo.List(ctx, lostpets.ListFilter{Status: lostpets.StatusFound})
	assert.Equal(t, []string{"c"}, ids(got))

	got, _ = repo.List(ctx, lostpets.ListFilter{WithImageOnly: true, Limit: 1})
	assert.Equal(t, []string{"d"}, ids(got))

	n, _ := repo.CountByStatus(ctx, lostpets.StatusLost)
	assert.Equal(t, 3, n)
}

func TestLostPetRepo_NotFound(t *testing.T) {
	repo := NewLostPetRepo()
	_, err := repo.GetByID(context.Background(), "x")
	assert.ErrorIs(t, err, lostpets.ErrNotFound)
	assert.ErrorIs(t, repo.Update(context.Background(), lostpets.LostPet{ID: "x"}), lostpets.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "x"), lostpets.ErrNotFound)
}

func TestSightingRepo_LatestSince(t *testing.T) {
	ctx := context.Background()
	repo := NewSightingRepo()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, sightings.Sighting{
			ID:        fmt.Sprintf("s%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	s, err := repo.LatestSince(ctx, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "s2", s.ID)

	_, err = repo.LatestSince(ctx, base.Add(time.Hour))
	assert.ErrorIs(t, err, sightings.ErrNotFound)

	list, _ := repo.List(ctx, 2)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].ID)
}

func TestMatchRepo_UniquePairAndCascade(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepo()

	require.NoError(t, repo.Create(ctx, matches.Match{ID: "m1", LostPetID: "p", SightingID: "s", Confidence: 0.7}))
	assert.ErrorIs(t, repo.Create(ctx, matches.Match{ID: "m2", LostPetID: "p", SightingID: "s"}), matches.ErrDuplicate)
	require.NoError(t, repo.Create(ctx, matches.Match{ID: "m3", LostPetID: "p", SightingID: "s2", Confidence: 0.9}))

	got, _ := repo.ListByLostPet(ctx, "p")
	require.Len(t, got, 2)
	assert.Equal(t, "m3", got[0].ID)

	n, _ := repo.DeleteBySighting(ctx, "s")
	assert.Equal(t, 1, n)
	// El par vuelve a estar libre.
	assert.NoError(t, repo.Create(ctx, matches.Match{ID: "m4", LostPetID: "p", SightingID: "s"}))
}

func ids(items []lostpets.LostPet) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}
