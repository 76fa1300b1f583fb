package matches

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidScore = errors.New("confidence must be within [0,1]")
	ErrDuplicate    = errors.New("match already recorded")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	LostPetID  string
	SightingID string
	Confidence float64
	Notes      string
}

// Record guarda una coincidencia en estado pending.
func (s *Service) Record(ctx context.Context, in RecordInput) (Match, error) {
	lostPetID := strings.TrimSpace(in.LostPetID)
	sightingID := strings.TrimSpace(in.SightingID)
	if lostPetID == "" || sightingID == "" {
		return Match{}, fmt.Errorf("%w: lostPetId and sightingId are required", ErrInvalidInput)
	}
	if math.IsNaN(in.Confidence) || in.Confidence < 0 || in.Confidence > 1 {
		return Match{}, ErrInvalidScore
	}

	m := Match{
		ID:         uuid.NewString(),
		LostPetID:  lostPetID,
		SightingID: sightingID,
		Confidence: in.Confidence,
		Status:     StatusPending,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Match{}, err
	}
	return m, nil
}

func (s *Service) ListByLostPet(ctx context.Context, lostPetID string) ([]Match, error) {
	return s.repo.ListByLostPet(ctx, strings.TrimSpace(lostPetID))
}

func (s *Service) ListBySighting(ctx context.Context, sightingID string) ([]Match, error) {
	return s.repo.ListBySighting(ctx, strings.TrimSpace(sightingID))
}

func (s *Service) DeleteByLostPet(ctx context.Context, lostPetID string) (int, error) {
	return s.repo.DeleteByLostPet(ctx, lostPetID)
}

func (s *Service) DeleteBySighting(ctx context.Context, sightingID string) (int, error) {
	return s.repo.DeleteBySighting(ctx, sightingID)
}
