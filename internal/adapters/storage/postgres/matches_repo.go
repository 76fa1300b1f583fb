package postgres

import (
	"context"
	"database/sql"

	"regresa/internal/domain/matches"
)

type MatchesRepo struct {
	db *sql.DB
}

func NewMatchesRepo(db *sql.DB) *MatchesRepo {
	return &MatchesRepo{db: db}
}

func (r *MatchesRepo) Create(ctx context.Context, m matches.Match) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (
			id, lost_pet_id, sighting_id,
			confidence, status, notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		m.ID,
		m.LostPetID,
		m.SightingID,
		m.Confidence,
		string(m.Status),
		m.Notes,
		m.CreatedAt,
	)
	if isUniqueViolation(err) {
		return matches.ErrDuplicate
	}
	return err
}

func (r *MatchesRepo) ListByLostPet(ctx context.Context, lostPetID string) ([]matches.Match, error) {
	if !validID(lostPetID) {
		return []matches.Match{}, nil
	}
	return r.query(ctx, `
		SELECT id, lost_pet_id, sighting_id, confidence, status, notes, created_at
		FROM matches
		WHERE lost_pet_id = $1
		ORDER BY confidence DESC, created_at DESC
	`, lostPetID)
}

func (r *MatchesRepo) ListBySighting(ctx context.Context, sightingID string) ([]matches.Match, error) {
	if !validID(sightingID) {
		return []matches.Match{}, nil
	}
	return r.query(ctx, `
		SELECT id, lost_pet_id, sighting_id, confidence, status, notes, created_at
		FROM matches
		WHERE sighting_id = $1
		ORDER BY confidence DESC, created_at DESC
	`, sightingID)
}

// Con ON DELETE CASCADE normalmente no queda nada que borrar.
func (r *MatchesRepo) DeleteByLostPet(ctx context.Context, lostPetID string) (int, error) {
	if !validID(lostPetID) {
		return 0, nil
	}
	return r.exec(ctx, `DELETE FROM matches WHERE lost_pet_id = $1`, lostPetID)
}

func (r *MatchesRepo) DeleteBySighting(ctx context.Context, sightingID string) (int, error) {
	if !validID(sightingID) {
		return 0, nil
	}
	return r.exec(ctx, `DELETE FROM matches WHERE sighting_id = $1`, sightingID)
}

func (r *MatchesRepo) exec(ctx context.Context, q string, args ...any) (int, error) {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *MatchesRepo) query(ctx context.Context, q string, args ...any) ([]matches.Match, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matches.Match, 0)
	for rows.Next() {
		var (
			m      matches.Match
			status string
		)
		if err := rows.Scan(&m.ID, &m.LostPetID, &m.SightingID, &m.Confidence, &status, &m.Notes, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Status = matches.Status(status)
		out = append(out, m)
	}
	return out, rows.Err()
}
