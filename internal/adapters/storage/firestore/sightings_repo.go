package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"regresa/internal/domain/sightings"
)

type sightingDoc struct {
	UserID       string     `firestore:"userId,omitempty"`
	LostPetID    string     `firestore:"lostPetId,omitempty"`
	AnimalType   string     `firestore:"animalType"`
	AnimalSize   string     `firestore:"animalSize"`
	AnimalColor  string     `firestore:"animalColor"`
	Description  string     `firestore:"description"`
	SightingType string     `firestore:"sightingType"`
	Location     string     `firestore:"location"`
	Coordinates  *coordsDoc `firestore:"coordinates,omitempty"`
	ImageURL     string     `firestore:"imageUrl"`
	ReporterName string     `firestore:"reporterName"`
	ContactInfo  contactDoc `firestore:"contactInfo"`
	SightedAt    *time.Time `firestore:"sightedAt,omitempty"`
	CreatedAt    time.Time  `firestore:"createdAt"`
}

type SightingsRepo struct {
	client *firestore.Client
}

func NewSightingsRepo(client *firestore.Client) *SightingsRepo {
	return &SightingsRepo{client: client}
}

func (r *SightingsRepo) col() *firestore.CollectionRef {
	return r.client.Collection(colSightings)
}

func (r *SightingsRepo) Create(ctx context.Context, s sightings.Sighting) error {
	_, err := r.col().Doc(s.ID).Create(ctx, sightingDoc{
		UserID:       s.ReporterUserID,
		LostPetID:    s.LostPetID,
		AnimalType:   s.AnimalType,
		AnimalSize:   s.Size,
		AnimalColor:  s.Color,
		Description:  s.Description,
		SightingType: string(s.Kind),
		Location:     s.Location,
		Coordinates:  toCoordsDoc(s.Coordinates),
		ImageURL:     s.ImageURL,
		ReporterName: s.Contact.Name,
		ContactInfo:  toContactDoc(s.Contact),
		SightedAt:    s.SightedAt,
		CreatedAt:    s.CreatedAt,
	})
	return err
}

func (r *SightingsRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return sightings.ErrNotFound
	}
	return err
}

func (r *SightingsRepo) GetByID(ctx context.Context, id string) (sightings.Sighting, error) {
	if strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		return sightings.Sighting{}, sightings.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return sightings.Sighting{}, sightings.ErrNotFound
		}
		return sightings.Sighting{}, err
	}
	return fromSightingSnap(snap)
}

func (r *SightingsRepo) List(ctx context.Context, limit int) ([]sightings.Sighting, error) {
	q := r.col().OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.all(ctx, q)
}

func (r *SightingsRepo) ListByReporter(ctx context.Context, reporterUserID string) ([]sightings.Sighting, error) {
	return r.all(ctx, r.col().Where("userId", "==", reporterUserID).OrderBy("createdAt", firestore.Desc))
}

func (r *SightingsRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.col().Query)
}

func (r *SightingsRepo) LatestSince(ctx context.Context, since time.Time) (sightings.Sighting, error) {
	items, err := r.all(ctx, r.col().
		Where("createdAt", ">=", since).
		OrderBy("createdAt", firestore.Desc).
		Limit(1))
	if err != nil {
		return sightings.Sighting{}, err
	}
	if len(items) == 0 {
		return sightings.Sighting{}, sightings.ErrNotFound
	}
	return items[0], nil
}

func (r *SightingsRepo) all(ctx context.Context, q firestore.Query) ([]sightings.Sighting, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]sightings.Sighting, 0, len(snaps))
	for _, s := range snaps {
		sg, err := fromSightingSnap(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, nil
}

func fromSightingSnap(s *firestore.DocumentSnapshot) (sightings.Sighting, error) {
	var d sightingDoc
	if err := s.DataTo(&d); err != nil {
		return sightings.Sighting{}, err
	}
	return sightings.Sighting{
		ID:             s.Ref.ID,
		ReporterUserID: d.UserID,
		LostPetID:      d.LostPetID,
		AnimalType:     d.AnimalType,
		Size:           d.AnimalSize,
		Color:          d.AnimalColor,
		Description:    d.Description,
		Kind:           sightings.Kind(d.SightingType),
		Location:       d.Location,
		Coordinates:    d.Coordinates.toDomain(),
		ImageURL:       d.ImageURL,
		Contact:        d.ContactInfo.toDomain(d.ReporterName),
		SightedAt:      d.SightedAt,
		CreatedAt:      d.CreatedAt,
	}, nil
}
