package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"regresa/internal/domain/lostpets"
	"regresa/internal/domain/matches"
	"regresa/internal/domain/report"
	"regresa/internal/domain/sightings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// openTestDB levanta Postgres 16 en un contenedor, o usa TEST_PG_DSN si está.
// Sin PG_INTEGRATION=1 (ni TEST_PG_DSN) el test se saltea.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" && os.Getenv("PG_INTEGRATION") != "1" {
		t.Skip("set PG_INTEGRATION=1 or TEST_PG_DSN to run postgres integration tests")
	}

	ctx := context.Background()
	if dsn == "" {
		pgC, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("regresa"),
			postgres.WithUsername("regresa"),
			postgres.WithPassword("regresa"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

		dsn, err = pgC.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `TRUNCATE matches, sightings, lost_pets`)
	require.NoError(t, err)
	return db
}

func TestIntegration_LostPetsRoundTripAndFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewLostPetsRepo(db)
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mk := func(name, typ, loc, img string, offset time.Duration) lostpets.LostPet {
		return lostpets.LostPet{
			ID:          uuid.NewString(),
			Name:        name,
			Type:        typ,
			Color:       "negro",
			Description: "desc",
			Location:    loc,
			ImageURL:    img,
			Coordinates: &report.Coordinates{Lat: -34.6, Lng: -58.4},
			Contact:     report.Contact{Phone: "1", Preferred: report.ContactPhone},
			Status:      lostpets.StatusLost,
			CreatedAt:   base.Add(offset),
			UpdatedAt:   base.Add(offset),
		}
	}
	a := mk("Max", "perro", "Parque Central", "https://img/a", 0)
	b := mk("Luna", "gato", "Zona Norte", "", time.Hour)
	c := mk("Rocky", "perro", "Parque 100%", "https://img/c", 2*time.Hour)
	for _, p := range []lostpets.LostPet{a, b, c} {
		require.NoError(t, repo.Create(ctx, p))
	}

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Max", got.Name)
	require.NotNil(t, got.Coordinates)
	assert.InDelta(t, -34.6, got.Coordinates.Lat, 1e-9)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, lostpets.ErrNotFound)

	list, err := repo.List(ctx, lostpets.ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	list, _ = repo.List(ctx, lostpets.ListFilter{Type: "PERRO", WithImageOnly: true})
	assert.Len(t, list, 2)

	list, _ = repo.List(ctx, lostpets.ListFilter{Location: "100%"})
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)

	a.Status = lostpets.StatusFound
	a.UpdatedAt = base.Add(3 * time.Hour)
	require.NoError(t, repo.Update(ctx, a))

	n, err := repo.CountByStatus(ctx, lostpets.StatusFound)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIntegration_MatchesUniqueAndCascade(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	pets := NewLostPetsRepo(db)
	sights := NewSightingsRepo(db)
	ms := NewMatchesRepo(db)

	p := lostpets.LostPet{
		ID: uuid.NewString(), Name: "Max", Type: "perro", Color: "dorado", Description: "d",
		Status: lostpets.StatusLost, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, pets.Create(ctx, p))

	s := sightings.Sighting{
		ID: uuid.NewString(), Description: "d", Location: "Plaza Mayor",
		Kind: sightings.KindSoloAnimal, CreatedAt: now,
	}
	require.NoError(t, sights.Create(ctx, s))

	latest, err := sights.LatestSince(ctx, now.Add(-5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, s.ID, latest.ID)

	m := matches.Match{ID: uuid.NewString(), LostPetID: p.ID, SightingID: s.ID, Confidence: 0.8, Status: matches.StatusPending, CreatedAt: now}
	require.NoError(t, ms.Create(ctx, m))

	m.ID = uuid.NewString()
	assert.ErrorIs(t, ms.Create(ctx, m), matches.ErrDuplicate)

	require.NoError(t, pets.Delete(ctx, p.ID))
	left, err := ms.ListBySighting(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}
