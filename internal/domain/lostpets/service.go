package lostpets

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
	ErrNotFound     = errors.New("lost pet not found")
	ErrForbidden    = errors.New("forbidden")
)

const (
	DefaultListLimit = 50
)

// MatchCleaner borra las coincidencias de una mascota al eliminarla.
// Interfaz local para no importar el paquete matches (rompe ciclos).
type MatchCleaner interface {
	DeleteByLostPet(ctx context.Context, lostPetID string) (int, error)
}

type Service struct {
	repo    Repository
	matches MatchCleaner
	now     func() time.Time
}

// NewService crea el servicio. matches puede ser nil (sin cascada).
func NewService(repo Repository, matches MatchCleaner) *Service {
	return &Service{
		repo:    repo,
		matches: matches,
		now:     time.Now,
	}
}

type CreateInput struct {
	Name        string
	Type        string
	Breed       string
	Color       string
	Size        string
	Age         string
	Description string
	Location    string
	Coordinates *report.Coordinates
	ImageURL    string
	Contact     report.Contact
}

func invalid(field string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (LostPet, error) {
	// Nombres de campo tal como los manda el formulario.
	switch {
	case strings.TrimSpace(in.Name) == "":
		return LostPet{}, invalid("petName")
	case strings.TrimSpace(in.Type) == "":
		return LostPet{}, invalid("petType")
	case strings.TrimSpace(in.Color) == "":
		return LostPet{}, invalid("petColor")
	case strings.TrimSpace(in.Description) == "":
		return LostPet{}, invalid("description")
	case in.Contact.IsEmpty():
		return LostPet{}, invalid("contactInfo")
	}
	if in.Coordinates != nil && !in.Coordinates.Valid() {
		return LostPet{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}

	now := s.now()
	p := LostPet{
		ID:          uuid.NewString(),
		OwnerUserID: strings.TrimSpace(ownerUserID),
		Name:        strings.TrimSpace(in.Name),
		Type:        normalizeType(in.Type),
		Breed:       strings.TrimSpace(in.Breed),
		Color:       strings.TrimSpace(in.Color),
		Size:        strings.TrimSpace(in.Size),
		Age:         strings.TrimSpace(in.Age),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Coordinates: in.Coordinates,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Contact:     in.Contact.Normalize(),
		Status:      StatusLost,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return LostPet{}, err
	}
	return p, nil
}

// List aplica los defaults de consulta:
// status vacío = lost, limit < 0 = DefaultListLimit, limit == 0 = lista vacía.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]LostPet, error) {
	if filter.Status == "" {
		filter.Status = StatusLost
	}
	if !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	if filter.Limit == 0 {
		return []LostPet{}, nil
	}
	if filter.Limit < 0 {
		filter.Limit = DefaultListLimit
	}
	filter.Type = normalizeType(filter.Type)
	filter.Location = strings.TrimSpace(filter.Location)

	return s.repo.List(ctx, filter)
}

// ListCandidates devuelve los casos abiertos con imagen, más recientes primero,
// acotados a max (max <= 0 = sin tope).
func (s *Service) ListCandidates(ctx context.Context, max int) ([]LostPet, error) {
	return s.repo.List(ctx, ListFilter{
		Status:        StatusLost,
		WithImageOnly: true,
		Limit:         max,
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (LostPet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return LostPet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]LostPet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) CountByStatus(ctx context.Context, status Status) (int, error) {
	return s.repo.CountByStatus(ctx, status)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string
	Type        *string
	Breed       *string
	Color       *string
	Size        *string
	Age         *string
	Description *string
	Location    *string
	ImageURL    *string

	Coordinates *report.Coordinates
	Contact     *report.Contact
}

// Update aplica un PATCH. actorUserID vacío no puede editar reportes con dueño.
func (s *Service) Update(ctx context.Context, id, actorUserID string, in UpdateInput) (LostPet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return LostPet{}, err
	}
	if err := canModify(p, actorUserID); err != nil {
		return LostPet{}, err
	}

	// Campos requeridos no pueden quedar vacíos.
	required := []struct {
		field string
		val   *string
		dst   *string
	}{
		{"petName", in.Name, &p.Name},
		{"petColor", in.Color, &p.Color},
		{"description", in.Description, &p.Description},
	}
	for _, r := range required {
		if r.val == nil {
			continue
		}
		v := strings.TrimSpace(*r.val)
		if v == "" {
			return LostPet{}, invalid(r.field)
		}
		*r.dst = v
	}

	if in.Type != nil {
		v := normalizeType(*in.Type)
		if v == "" {
			return LostPet{}, invalid("petType")
		}
		p.Type = v
	}
	optional := []struct {
		val *string
		dst *string
	}{
		{in.Breed, &p.Breed},
		{in.Size, &p.Size},
		{in.Age, &p.Age},
		{in.Location, &p.Location},
		{in.ImageURL, &p.ImageURL},
	}
	for _, o := range optional {
		if o.val != nil {
			*o.dst = strings.TrimSpace(*o.val)
		}
	}

	if in.Coordinates != nil {
		if !in.Coordinates.Valid() {
			return LostPet{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
		}
		c := *in.Coordinates
		p.Coordinates = &c
	}
	if in.Contact != nil {
		if in.Contact.IsEmpty() {
			return LostPet{}, invalid("contactInfo")
		}
		p.Contact = in.Contact.Normalize()
	}

	p.UpdatedAt = s.touch(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return LostPet{}, err
	}
	return p, nil
}

// MarkFound pasa el caso a found. Idempotente: si ya estaba found no escribe
// ni falla. No existe la transición inversa.
func (s *Service) MarkFound(ctx context.Context, id, actorUserID string) (LostPet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return LostPet{}, err
	}
	if err := canModify(p, actorUserID); err != nil {
		return LostPet{}, err
	}
	if p.Status == StatusFound {
		return p, nil
	}

	p.Status = StatusFound
	p.UpdatedAt = s.touch(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return LostPet{}, err
	}
	return p, nil
}

// Delete elimina el reporte y, si hay MatchCleaner, sus coincidencias.
func (s *Service) Delete(ctx context.Context, id, actorUserID string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := canModify(p, actorUserID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	if s.matches != nil {
		if _, err := s.matches.DeleteByLostPet(ctx, p.ID); err != nil {
			return fmt.Errorf("delete matches for lost pet %s: %w", p.ID, err)
		}
	}
	return nil
}

// touch garantiza updated_at >= created_at aunque el reloj retroceda.
func (s *Service) touch(p LostPet) time.Time {
	now := s.now()
	if now.Before(p.CreatedAt) {
		return p.CreatedAt
	}
	if now.Before(p.UpdatedAt) {
		return p.UpdatedAt
	}
	return now
}

func canModify(p LostPet, actorUserID string) error {
	if p.OwnerUserID == "" {
		return nil
	}
	if strings.TrimSpace(actorUserID) != p.OwnerUserID {
		return ErrForbidden
	}
	return nil
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// Exists responde si el reporte existe; ErrNotFound no es error acá.
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
