package firestore

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regresa/internal/domain/lostpets"
	"regresa/internal/domain/matches"
	"regresa/internal/domain/report"
	"regresa/internal/domain/sightings"
)

// Requiere el emulador: gcloud emulators firestore start, con
// FIRESTORE_EMULATOR_HOST apuntando a él.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	c, err := Open(ctx, "regresa-test-"+uuid.NewString()[:8], "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLostPetsRepo_Roundtrip(t *testing.T) {
	c := newEmulatorClient(t)
	ctx := context.Background()
	repo := NewLostPetsRepo(c)

	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	pets := []lostpets.LostPet{
		{ID: uuid.NewString(), Name: "Max", Type: "perro", Location: "Parque Central", ImageURL: "https://img/max", Status: lostpets.StatusLost, CreatedAt: base, UpdatedAt: base},
		{ID: uuid.NewString(), Name: "Luna", Type: "gato", Location: "Zona Norte", Status: lostpets.StatusLost, CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)},
		{ID: uuid.NewString(), Name: "Toby", Type: "perro", Location: "Centro", Status: lostpets.StatusFound, CreatedAt: base.Add(2 * time.Minute), UpdatedAt: base.Add(2 * time.Minute)},
	}
	pets[0].Contact = report.Contact{Name: "Ana", Phone: "555-0101"}
	pets[0].Coordinates = &report.Coordinates{Lat: -34.6, Lng: -58.4}
	for _, p := range pets {
		require.NoError(t, repo.Create(ctx, p))
	}

	got, err := repo.GetByID(ctx, pets[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Contact.Name)
	require.NotNil(t, got.Coordinates)
	assert.InDelta(t, -34.6, got.Coordinates.Lat, 1e-9)

	lost, err := repo.List(ctx, lostpets.ListFilter{Status: lostpets.StatusLost})
	require.NoError(t, err)
	require.Len(t, lost, 2)
	assert.Equal(t, "Luna", lost[0].Name)

	withImage, err := repo.List(ctx, lostpets.ListFilter{Status: lostpets.StatusLost, WithImageOnly: true})
	require.NoError(t, err)
	require.Len(t, withImage, 1)
	assert.Equal(t, "Max", withImage[0].Name)

	byLoc, err := repo.List(ctx, lostpets.ListFilter{Status: lostpets.StatusLost, Location: "norte"})
	require.NoError(t, err)
	require.Len(t, byLoc, 1)

	n, err := repo.CountByStatus(ctx, lostpets.StatusFound)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, pets[1].ID))
	_, err = repo.GetByID(ctx, pets[1].ID)
	assert.ErrorIs(t, err, lostpets.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, pets[1].ID), lostpets.ErrNotFound)
}

func TestSightingsRepo_LatestSince(t *testing.T) {
	c := newEmulatorClient(t)
	ctx := context.Background()
	repo := NewSightingsRepo(c)

	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	old := sightings.Sighting{ID: uuid.NewString(), Description: "perro", Kind: sightings.KindSoloAnimal, Location: "Plaza", CreatedAt: base}
	recent := sightings.Sighting{ID: uuid.NewString(), Description: "gato", Kind: sightings.KindInDanger, Location: "Jardín", CreatedAt: base.Add(10 * time.Minute)}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, recent))

	got, err := repo.LatestSince(ctx, base.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, recent.ID, got.ID)

	_, err = repo.LatestSince(ctx, base.Add(time.Hour))
	assert.ErrorIs(t, err, sightings.ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMatchesRepo_UniquePairAndCleanup(t *testing.T) {
	c := newEmulatorClient(t)
	ctx := context.Background()
	repo := NewMatchesRepo(c)

	m := matches.Match{ID: uuid.NewString(), LostPetID: "p1", SightingID: "s1", Confidence: 0.8, Status: matches.StatusPending, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, m))

	dup := m
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Create(ctx, dup), matches.ErrDuplicate)

	require.NoError(t, repo.Create(ctx, matches.Match{ID: uuid.NewString(), LostPetID: "p2", SightingID: "s1", Confidence: 0.9, Status: matches.StatusPending, CreatedAt: time.Now().UTC()}))

	bySighting, err := repo.ListBySighting(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, bySighting, 2)
	assert.Equal(t, "p2", bySighting[0].LostPetID)

	n, err := repo.DeleteBySighting(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
