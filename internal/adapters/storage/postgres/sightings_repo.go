package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"regresa/internal/domain/report"
	"regresa/internal/domain/sightings"
)

type SightingsRepo struct {
	db *sql.DB
}

func NewSightingsRepo(db *sql.DB) *SightingsRepo {
	return &SightingsRepo{db: db}
}

const sightingColumns = `
	id, reporter_user_id, lost_pet_id,
	animal_type, animal_size, animal_color, description, sighting_type,
	location, lat, lng, image_url,
	reporter_name, contact_phone, contact_email, preferred_contact,
	sighted_at, created_at`

func (r *SightingsRepo) Create(ctx context.Context, s sightings.Sighting) error {
	lat, lng := coords(s.Coordinates)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sightings (`+sightingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		s.ID,
		nullString(s.ReporterUserID),
		nullString(s.LostPetID),
		s.AnimalType,
		s.Size,
		s.Color,
		s.Description,
		string(s.Kind),
		s.Location,
		lat,
		lng,
		nullString(s.ImageURL),
		s.Contact.Name,
		s.Contact.Phone,
		s.Contact.Email,
		string(s.Contact.Preferred),
		nullTime(s.SightedAt),
		s.CreatedAt,
	)
	return err
}

func (r *SightingsRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return sightings.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM sightings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sightings.ErrNotFound
	}
	return nil
}

func (r *SightingsRepo) GetByID(ctx context.Context, id string) (sightings.Sighting, error) {
	if !validID(id) {
		return sightings.Sighting{}, sightings.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+sightingColumns+` FROM sightings WHERE id = $1`, id)
	s, err := scanSighting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sightings.Sighting{}, sightings.ErrNotFound
	}
	return s, err
}

func (r *SightingsRepo) List(ctx context.Context, limit int) ([]sightings.Sighting, error) {
	if limit > 0 {
		return r.query(ctx, `
			SELECT `+sightingColumns+`
			FROM sightings
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		`, limit)
	}
	return r.query(ctx, `SELECT `+sightingColumns+` FROM sightings ORDER BY created_at DESC, id DESC`)
}

func (r *SightingsRepo) ListByReporter(ctx context.Context, reporterUserID string) ([]sightings.Sighting, error) {
	reporterUserID = strings.TrimSpace(reporterUserID)
	if reporterUserID == "" {
		return []sightings.Sighting{}, nil
	}
	return r.query(ctx, `
		SELECT `+sightingColumns+`
		FROM sightings
		WHERE reporter_user_id = $1
		ORDER BY created_at DESC
	`, reporterUserID)
}

func (r *SightingsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM sightings`).Scan(&n)
	return n, err
}

func (r *SightingsRepo) LatestSince(ctx context.Context, since time.Time) (sightings.Sighting, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sightingColumns+`
		FROM sightings
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT 1
	`, since)
	s, err := scanSighting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sightings.Sighting{}, sightings.ErrNotFound
	}
	return s, err
}

func (r *SightingsRepo) query(ctx context.Context, q string, args ...any) ([]sightings.Sighting, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sightings.Sighting, 0)
	for rows.Next() {
		s, err := scanSighting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSighting(sc scanner) (sightings.Sighting, error) {
	var (
		s                          sightings.Sighting
		reporter, lostPetID, image sql.NullString
		lat, lng                   sql.NullFloat64
		kind, prefCon              string
		sightedAt                  sql.NullTime
	)
	if err := sc.Scan(
		&s.ID,
		&reporter,
		&lostPetID,
		&s.AnimalType,
		&s.Size,
		&s.Color,
		&s.Description,
		&kind,
		&s.Location,
		&lat,
		&lng,
		&image,
		&s.Contact.Name,
		&s.Contact.Phone,
		&s.Contact.Email,
		&prefCon,
		&sightedAt,
		&s.CreatedAt,
	); err != nil {
		return sightings.Sighting{}, err
	}

	s.ReporterUserID = reporter.String
	s.LostPetID = lostPetID.String
	s.ImageURL = image.String
	s.Kind = sightings.Kind(kind)
	s.Contact.Preferred = report.ContactChannel(prefCon)
	s.Coordinates = fromNullCoords(lat, lng)
	if sightedAt.Valid {
		t := sightedAt.Time
		s.SightedAt = &t
	}
	return s, nil
}
