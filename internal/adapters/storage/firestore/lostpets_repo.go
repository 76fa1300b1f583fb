package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"regresa/internal/domain/lostpets"
)

type lostPetDoc struct {
	UserID      string     `firestore:"userId,omitempty"`
	PetName     string     `firestore:"petName"`
	PetType     string     `firestore:"petType"`
	PetBreed    string     `firestore:"petBreed"`
	PetColor    string     `firestore:"petColor"`
	PetSize     string     `firestore:"petSize"`
	PetAge      string     `firestore:"petAge"`
	Description string     `firestore:"description"`
	Location    string     `firestore:"location"`
	Coordinates *coordsDoc `firestore:"coordinates,omitempty"`
	ImageURL    string     `firestore:"imageUrl"`
	HasImage    bool       `firestore:"hasImage"`
	OwnerName   string     `firestore:"ownerName"`
	ContactInfo contactDoc `firestore:"contactInfo"`
	Status      string     `firestore:"status"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt"`
}

type LostPetsRepo struct {
	client *firestore.Client
}

func NewLostPetsRepo(client *firestore.Client) *LostPetsRepo {
	return &LostPetsRepo{client: client}
}

func (r *LostPetsRepo) col() *firestore.CollectionRef {
	return r.client.Collection(colLostPets)
}

func (r *LostPetsRepo) Create(ctx context.Context, p lostpets.LostPet) error {
	_, err := r.col().Doc(p.ID).Create(ctx, toLostPetDoc(p))
	return err
}

func (r *LostPetsRepo) Update(ctx context.Context, p lostpets.LostPet) error {
	// Set solo no distingue un doc inexistente.
	if _, err := r.col().Doc(p.ID).Get(ctx); err != nil {
		if isNotFound(err) {
			return lostpets.ErrNotFound
		}
		return err
	}
	_, err := r.col().Doc(p.ID).Set(ctx, toLostPetDoc(p))
	return err
}

func (r *LostPetsRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return lostpets.ErrNotFound
	}
	return err
}

func (r *LostPetsRepo) GetByID(ctx context.Context, id string) (lostpets.LostPet, error) {
	if strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		return lostpets.LostPet{}, lostpets.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return lostpets.LostPet{}, lostpets.ErrNotFound
		}
		return lostpets.LostPet{}, err
	}
	return fromLostPetSnap(snap)
}

// List filtra status, tipo e imagen en el query. location es substring y
// Firestore no lo soporta: se filtra acá y el límite se aplica después.
func (r *LostPetsRepo) List(ctx context.Context, filter lostpets.ListFilter) ([]lostpets.LostPet, error) {
	status := filter.Status
	if status == "" {
		status = lostpets.StatusLost
	}

	q := r.col().Where("status", "==", string(status))
	if filter.Type != "" {
		q = q.Where("petType", "==", strings.ToLower(filter.Type))
	}
	if filter.WithImageOnly {
		q = q.Where("hasImage", "==", true)
	}
	q = q.OrderBy("createdAt", firestore.Desc)

	loc := strings.ToLower(strings.TrimSpace(filter.Location))
	if loc == "" && filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	out := make([]lostpets.LostPet, 0, len(snaps))
	for _, s := range snaps {
		p, err := fromLostPetSnap(s)
		if err != nil {
			return nil, err
		}
		if loc != "" && !strings.Contains(strings.ToLower(p.Location), loc) {
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *LostPetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]lostpets.LostPet, error) {
	snaps, err := r.col().
		Where("userId", "==", ownerUserID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]lostpets.LostPet, 0, len(snaps))
	for _, s := range snaps {
		p, err := fromLostPetSnap(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *LostPetsRepo) CountByStatus(ctx context.Context, status lostpets.Status) (int, error) {
	return count(ctx, r.col().Where("status", "==", string(status)))
}

func toLostPetDoc(p lostpets.LostPet) lostPetDoc {
	return lostPetDoc{
		UserID:      p.OwnerUserID,
		PetName:     p.Name,
		PetType:     p.Type,
		PetBreed:    p.Breed,
		PetColor:    p.Color,
		PetSize:     p.Size,
		PetAge:      p.Age,
		Description: p.Description,
		Location:    p.Location,
		Coordinates: toCoordsDoc(p.Coordinates),
		ImageURL:    p.ImageURL,
		HasImage:    p.HasImage(),
		OwnerName:   p.Contact.Name,
		ContactInfo: toContactDoc(p.Contact),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromLostPetSnap(s *firestore.DocumentSnapshot) (lostpets.LostPet, error) {
	var d lostPetDoc
	if err := s.DataTo(&d); err != nil {
		return lostpets.LostPet{}, err
	}
	return lostpets.LostPet{
		ID:          s.Ref.ID,
		OwnerUserID: d.UserID,
		Name:        d.PetName,
		Type:        d.PetType,
		Breed:       d.PetBreed,
		Color:       d.PetColor,
		Size:        d.PetSize,
		Age:         d.PetAge,
		Description: d.Description,
		Location:    d.Location,
		Coordinates: d.Coordinates.toDomain(),
		ImageURL:    d.ImageURL,
		Contact:     d.ContactInfo.toDomain(d.OwnerName),
		Status:      lostpets.Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}
