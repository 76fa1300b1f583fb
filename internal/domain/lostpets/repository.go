package lostpets

import "context"

type Repository interface {
	Create(ctx context.Context, p LostPet) error
	Update(ctx context.Context, p LostPet) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (LostPet, error)

	// List devuelve por created_at DESC. Limit <= 0 = sin límite.
	List(ctx context.Context, filter ListFilter) ([]LostPet, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]LostPet, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

type ListFilter struct {
	Status Status // vacío = lost

	Type     string // igualdad case-insensitive
	Location string // substring case-insensitive

	WithImageOnly bool
	Limit         int
}
