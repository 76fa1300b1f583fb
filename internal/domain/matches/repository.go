package matches

import "context"

type Repository interface {
	// Create devuelve ErrDuplicate si el par (lost_pet_id, sighting_id) ya existe.
	Create(ctx context.Context, m Match) error
	// ListByLostPet / ListBySighting devuelven por confidence DESC, created_at DESC.
	ListByLostPet(ctx context.Context, lostPetID string) ([]Match, error)
	ListBySighting(ctx context.Context, sightingID string) ([]Match, error)
	DeleteByLostPet(ctx context.Context, lostPetID string) (int, error)
	DeleteBySighting(ctx context.Context, sightingID string) (int, error)
}
