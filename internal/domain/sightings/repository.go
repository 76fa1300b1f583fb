package sightings

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s Sighting) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Sighting, error)
	// List devuelve por created_at DESC. Limit <= 0 = sin límite.
	List(ctx context.Context, limit int) ([]Sighting, error)
	ListByReporter(ctx context.Context, reporterUserID string) ([]Sighting, error)
	Count(ctx context.Context) (int, error)
	// LatestSince devuelve el avistamiento más reciente con created_at >= since,
	// o ErrNotFound si no hay ninguno.
	LatestSince(ctx context.Context, since time.Time) (Sighting, error)
}
