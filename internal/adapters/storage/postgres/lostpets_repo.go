package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"regresa/internal/domain/lostpets"
	"regresa/internal/domain/report"

	"github.com/google/uuid"
)

type LostPetsRepo struct {
	db *sql.DB
}

func NewLostPetsRepo(db *sql.DB) *LostPetsRepo {
	return &LostPetsRepo{db: db}
}

const lostPetColumns = `
	id, owner_user_id,
	pet_name, pet_type, pet_breed, pet_color, pet_size, pet_age,
	description, location, lat, lng, image_url,
	owner_name, contact_phone, contact_email, preferred_contact,
	status, created_at, updated_at`

func (r *LostPetsRepo) Create(ctx context.Context, p lostpets.LostPet) error {
	lat, lng := coords(p.Coordinates)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lost_pets (`+lostPetColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		p.ID,
		nullString(p.OwnerUserID),
		p.Name,
		p.Type,
		p.Breed,
		p.Color,
		p.Size,
		p.Age,
		p.Description,
		p.Location,
		lat,
		lng,
		nullString(p.ImageURL),
		p.Contact.Name,
		p.Contact.Phone,
		p.Contact.Email,
		string(p.Contact.Preferred),
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *LostPetsRepo) Update(ctx context.Context, p lostpets.LostPet) error {
	lat, lng := coords(p.Coordinates)
	res, err := r.db.ExecContext(ctx, `
		UPDATE lost_pets
		SET
			pet_name = $2,
			pet_type = $3,
			pet_breed = $4,
			pet_color = $5,
			pet_size = $6,
			pet_age = $7,
			description = $8,
			location = $9,
			lat = $10,
			lng = $11,
			image_url = $12,
			owner_name = $13,
			contact_phone = $14,
			contact_email = $15,
			preferred_contact = $16,
			status = $17,
			updated_at = $18
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Type,
		p.Breed,
		p.Color,
		p.Size,
		p.Age,
		p.Description,
		p.Location,
		lat,
		lng,
		nullString(p.ImageURL),
		p.Contact.Name,
		p.Contact.Phone,
		p.Contact.Email,
		string(p.Contact.Preferred),
		string(p.Status),
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return lostpets.ErrNotFound
	}
	return nil
}

func (r *LostPetsRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return lostpets.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM lost_pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return lostpets.ErrNotFound
	}
	return nil
}

func (r *LostPetsRepo) GetByID(ctx context.Context, id string) (lostpets.LostPet, error) {
	if !validID(id) {
		return lostpets.LostPet{}, lostpets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+lostPetColumns+` FROM lost_pets WHERE id = $1`, id)
	p, err := scanLostPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return lostpets.LostPet{}, lostpets.ErrNotFound
	}
	return p, err
}

func (r *LostPetsRepo) List(ctx context.Context, filter lostpets.ListFilter) ([]lostpets.LostPet, error) {
	status := filter.Status
	if status == "" {
		status = lostpets.StatusLost
	}

	where := []string{"status = $1"}
	args := []any{string(status)}

	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("lower(pet_type) = lower($%d)", len(args)))
	}
	if filter.Location != "" {
		args = append(args, "%"+escapeLike(filter.Location)+"%")
		where = append(where, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if filter.WithImageOnly {
		where = append(where, "image_url IS NOT NULL AND image_url <> ''")
	}

	q := `SELECT ` + lostPetColumns + ` FROM lost_pets WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.query(ctx, q, args...)
}

func (r *LostPetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]lostpets.LostPet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return []lostpets.LostPet{}, nil
	}
	return r.query(ctx, `
		SELECT `+lostPetColumns+`
		FROM lost_pets
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
	`, ownerUserID)
}

func (r *LostPetsRepo) CountByStatus(ctx context.Context, status lostpets.Status) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM lost_pets WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

func (r *LostPetsRepo) query(ctx context.Context, q string, args ...any) ([]lostpets.LostPet, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]lostpets.LostPet, 0)
	for rows.Next() {
		p, err := scanLostPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLostPet(s scanner) (lostpets.LostPet, error) {
	var (
		p               lostpets.LostPet
		owner, image    sql.NullString
		lat, lng        sql.NullFloat64
		status, prefCon string
	)
	if err := s.Scan(
		&p.ID,
		&owner,
		&p.Name,
		&p.Type,
		&p.Breed,
		&p.Color,
		&p.Size,
		&p.Age,
		&p.Description,
		&p.Location,
		&lat,
		&lng,
		&image,
		&p.Contact.Name,
		&p.Contact.Phone,
		&p.Contact.Email,
		&prefCon,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return lostpets.LostPet{}, err
	}

	p.OwnerUserID = owner.String
	p.ImageURL = image.String
	p.Contact.Preferred = report.ContactChannel(prefCon)
	p.Status = lostpets.Status(status)
	p.Coordinates = fromNullCoords(lat, lng)
	return p, nil
}

func coords(c *report.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return nullFloat(&c.Lat), nullFloat(&c.Lng)
}

func fromNullCoords(lat, lng sql.NullFloat64) *report.Coordinates {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &report.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
}

// Los ids son UUID en la base; un id con otro formato no existe.
func validID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
