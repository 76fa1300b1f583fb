package sightings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"regresa/internal/domain/report"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("sighting not found")
	ErrForbidden    = errors.New("forbidden")
)

const (
	DefaultListLimit = 50
)

// MatchCleaner borra las coincidencias de un avistamiento al eliminarlo.
type MatchCleaner interface {
	DeleteBySighting(ctx context.Context, sightingID string) (int, error)
}

type Service struct {
	repo    Repository
	matches MatchCleaner
	now     func() time.Time
}

func NewService(repo Repository, matches MatchCleaner) *Service {
	return &Service{
		repo:    repo,
		matches: matches,
		now:     time.Now,
	}
}

type CreateInput struct {
	LostPetID   string
	AnimalType  string
	Size        string
	Color       string
	Description string
	Kind        Kind
	Location    string
	Coordinates *report.Coordinates
	ImageURL    string
	Contact     report.Contact
	SightedAt   *time.Time
}

func (s *Service) Create(ctx context.Context, reporterUserID string, in CreateInput) (Sighting, error) {
	switch {
	case strings.TrimSpace(in.Description) == "":
		return Sighting{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	case strings.TrimSpace(in.Location) == "":
		return Sighting{}, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	kind := Kind(strings.ToLower(strings.TrimSpace(string(in.Kind))))
	if !kind.Valid() {
		return Sighting{}, fmt.Errorf("%w: sightingType must be one of solo-animal, resembles-lost, with-owner, in-danger", ErrInvalidInput)
	}
	if in.Coordinates != nil && !in.Coordinates.Valid() {
		return Sighting{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}

	lostPetID := strings.TrimSpace(in.LostPetID)
	if lostPetID != "" {
		if _, err := uuid.Parse(lostPetID); err != nil {
			return Sighting{}, fmt.Errorf("%w: lostPetId is invalid", ErrInvalidInput)
		}
	}

	now := s.now()
	if in.SightedAt != nil && in.SightedAt.After(now) {
		return Sighting{}, fmt.Errorf("%w: sightingDate is in the future", ErrInvalidInput)
	}

	sg := Sighting{
		ID:             uuid.NewString(),
		ReporterUserID: strings.TrimSpace(reporterUserID),
		LostPetID:      lostPetID,
		AnimalType:     strings.ToLower(strings.TrimSpace(in.AnimalType)),
		Size:           strings.TrimSpace(in.Size),
		Color:          strings.TrimSpace(in.Color),
		Description:    strings.TrimSpace(in.Description),
		Kind:           kind,
		Location:       strings.TrimSpace(in.Location),
		Coordinates:    in.Coordinates,
		ImageURL:       strings.TrimSpace(in.ImageURL),
		Contact:        in.Contact.Normalize(),
		SightedAt:      in.SightedAt,
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, sg); err != nil {
		return Sighting{}, err
	}
	return sg, nil
}

// List: limit < 0 = DefaultListLimit, limit == 0 = lista vacía sin consultar.
func (s *Service) List(ctx context.Context, limit int) ([]Sighting, error) {
	if limit == 0 {
		return []Sighting{}, nil
	}
	if limit < 0 {
		limit = DefaultListLimit
	}
	return s.repo.List(ctx, limit)
}

func (s *Service) GetByID(ctx context.Context, id string) (Sighting, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Sighting{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Exists responde si el avistamiento existe; ErrNotFound no es error acá.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ListByReporter(ctx context.Context, reporterUserID string) ([]Sighting, error) {
	reporterUserID = strings.TrimSpace(reporterUserID)
	if reporterUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByReporter(ctx, reporterUserID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// LatestWithin busca el avistamiento más reciente creado en la ventana
// [now-window, now]. ok=false si no hay ninguno.
func (s *Service) LatestWithin(ctx context.Context, window time.Duration) (string, bool, error) {
	sg, err := s.repo.LatestSince(ctx, s.now().Add(-window))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return sg.ID, true, nil
}

// Delete borra el avistamiento y sus coincidencias. Si tiene reporter, solo él puede.
func (s *Service) Delete(ctx context.Context, id, actorUserID string) error {
	sg, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sg.ReporterUserID != "" && strings.TrimSpace(actorUserID) != sg.ReporterUserID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, sg.ID); err != nil {
		return err
	}
	if s.matches != nil {
		if _, err := s.matches.DeleteBySighting(ctx, sg.ID); err != nil {
			return fmt.Errorf("delete matches for sighting %s: %w", sg.ID, err)
		}
	}
	return nil
}
