package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"regresa/internal/domain/matches"
)

type matchDoc struct {
	MatchID    string    `firestore:"id"`
	LostPetID  string    `firestore:"lostPetId"`
	SightingID string    `firestore:"sightingId"`
	Confidence float64   `firestore:"confidence"`
	Status     string    `firestore:"status"`
	Notes      string    `firestore:"notes"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

type MatchesRepo struct {
	client *firestore.Client
}

func NewMatchesRepo(client *firestore.Client) *MatchesRepo {
	return &MatchesRepo{client: client}
}

func (r *MatchesRepo) col() *firestore.CollectionRef {
	return r.client.Collection(colMatches)
}

// Create usa el par como id del documento: Create falla con AlreadyExists
// si ya existe y eso da la unicidad.
func (r *MatchesRepo) Create(ctx context.Context, m matches.Match) error {
	_, err := r.col().Doc(m.LostPetID+"_"+m.SightingID).Create(ctx, matchDoc{
		MatchID:    m.ID,
		LostPetID:  m.LostPetID,
		SightingID: m.SightingID,
		Confidence: m.Confidence,
		Status:     string(m.Status),
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
	})
	if isAlreadyExists(err) {
		return matches.ErrDuplicate
	}
	return err
}

func (r *MatchesRepo) ListByLostPet(ctx context.Context, lostPetID string) ([]matches.Match, error) {
	return r.all(ctx, r.col().Where("lostPetId", "==", lostPetID))
}

func (r *MatchesRepo) ListBySighting(ctx context.Context, sightingID string) ([]matches.Match, error) {
	return r.all(ctx, r.col().Where("sightingId", "==", sightingID))
}

func (r *MatchesRepo) DeleteByLostPet(ctx context.Context, lostPetID string) (int, error) {
	return deleteWhere(ctx, r.client, r.col().Where("lostPetId", "==", lostPetID))
}

func (r *MatchesRepo) DeleteBySighting(ctx context.Context, sightingID string) (int, error) {
	return deleteWhere(ctx, r.client, r.col().Where("sightingId", "==", sightingID))
}

// all ordena en memoria: evita un índice compuesto por cada filtro.
func (r *MatchesRepo) all(ctx context.Context, q firestore.Query) ([]matches.Match, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]matches.Match, 0, len(snaps))
	for _, s := range snaps {
		var d matchDoc
		if err := s.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, matches.Match{
			ID:         d.MatchID,
			LostPetID:  d.LostPetID,
			SightingID: d.SightingID,
			Confidence: d.Confidence,
			Status:     matches.Status(d.Status),
			Notes:      d.Notes,
			CreatedAt:  d.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence == out[j].Confidence {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Confidence > out[j].Confidence
	})
	return out, nil
}
