// Package store elige una sola vez, al arrancar, de dónde salen los
// repositorios: un store conectado o el modo degradado con datos fijos.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gfirestore "cloud.google.com/go/firestore"

	"regresa/internal/adapters/storage/fallback"
	"regresa/internal/adapters/storage/firestore"
	"regresa/internal/adapters/storage/memory"
	"regresa/internal/adapters/storage/postgres"
	"regresa/internal/config"
	"regresa/internal/domain/lostpets"
	"regresa/internal/domain/matches"
	"regresa/internal/domain/sightings"
	"regresa/internal/platform/logger"
	"regresa/internal/platform/metrics"
)

type Mode string

const (
	ModeConnected Mode = "connected"
	ModeDegraded  Mode = "degraded"
)

type Handle struct {
	Mode   Mode
	Driver string

	LostPets  lostpets.Repository
	Sightings sightings.Repository
	Matches   matches.Repository

	closers []func() error
}

func (h *Handle) Degraded() bool { return h.Mode == ModeDegraded }

func (h *Handle) Close() error {
	var errs []error
	for _, c := range h.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory arma un Handle conectado a repositorios en memoria.
func Memory() *Handle {
	return &Handle{
		Mode:      ModeConnected,
		Driver:    config.DriverMemory,
		LostPets:  memory.NewLostPetRepo(),
		Sightings: memory.NewSightingRepo(),
		Matches:   memory.NewMatchRepo(),
	}
}

// Degraded arma un Handle con los repositorios de fallback.
func Degraded(m *metrics.Metrics) *Handle {
	return &Handle{
		Mode:      ModeDegraded,
		LostPets:  fallback.NewLostPetRepo(m),
		Sightings: fallback.NewSightingRepo(m),
		Matches:   fallback.NewMatchRepo(m),
	}
}

// Open conecta según cfg.Driver. Si no hay driver o la conexión falla,
// devuelve un Handle degradado: el servicio arranca igual.
func Open(ctx context.Context, cfg config.StoreConfig, log logger.Logger, m *metrics.Metrics) *Handle {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"module": "store"})

	var (
		h   *Handle
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		h, err = openPostgres(ctx, cfg)
	case config.DriverFirestore:
		h, err = openFirestore(ctx, cfg)
	case config.DriverMemory:
		h = Memory()
	case "":
		err = config.ErrNoStore
	default:
		err = fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if err != nil {
		log.Warn("store unavailable, serving fallback data", map[string]any{
			"driver": cfg.Driver,
			"error":  err,
		})
		return Degraded(m)
	}

	log.Info("store connected", map[string]any{"driver": h.Driver})
	return h
}

func openPostgres(ctx context.Context, cfg config.StoreConfig) (*Handle, error) {
	db, err := postgres.Open(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return postgresHandle(db), nil
}

func postgresHandle(db *sql.DB) *Handle {
	return &Handle{
		Mode:      ModeConnected,
		Driver:    config.DriverPostgres,
		LostPets:  postgres.NewLostPetsRepo(db),
		Sightings: postgres.NewSightingsRepo(db),
		Matches:   postgres.NewMatchesRepo(db),
		closers:   []func() error{db.Close},
	}
}

func openFirestore(ctx context.Context, cfg config.StoreConfig) (*Handle, error) {
	client, err := firestore.Open(ctx, cfg.FirestoreProject, cfg.FirestoreCredentials)
	if err != nil {
		return nil, err
	}
	return firestoreHandle(client), nil
}

func firestoreHandle(client *gfirestore.Client) *Handle {
	return &Handle{
		Mode:      ModeConnected,
		Driver:    config.DriverFirestore,
		LostPets:  firestore.NewLostPetsRepo(client),
		Sightings: firestore.NewSightingsRepo(client),
		Matches:   firestore.NewMatchesRepo(client),
		closers:   []func() error{client.Close},
	}
}
