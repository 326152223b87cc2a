package repositories

import (
	"context"

	"invoptimizer/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Location, error)
	All(ctx context.Context) ([]*models.Location, error)
}

type locationRepo struct {
	db DBTX
}

func NewLocationRepository(db DBTX) LocationRepository {
	return &locationRepo{db: db}
}

const locationColumns = `id, name, address, city, state, zip_code, contact_person, contact_email, contact_phone, created_at, updated_at`
const locationOrder = ` FROM locations ORDER BY name ASC, id ASC`

func (r *locationRepo) Create(ctx context.Context, location *models.Location) error {
	query := `
		INSERT INTO locations (id, name, address, city, state, zip_code, contact_person, contact_email, contact_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, location.ID, location.Name, location.Address, location.City, location.State,
		location.ZipCode, location.ContactPerson, location.ContactEmail, location.ContactPhone)
	return err
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	location := &models.Location{}
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	if err := pgxscan.Get(ctx, r.db, location, query, id); err != nil {
		return nil, notFound(err)
	}
	return location, nil
}

func (r *locationRepo) Update(ctx context.Context, location *models.Location) error {
	query := `
		UPDATE locations
		SET name = $1, address = $2, city = $3, state = $4, zip_code = $5,
			contact_person = $6, contact_email = $7, contact_phone = $8, updated_at = NOW()
		WHERE id = $9
	`
	tag, err := r.db.Exec(ctx, query, location.Name, location.Address, location.City, location.State, location.ZipCode,
		location.ContactPerson, location.ContactEmail, location.ContactPhone, location.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *locationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *locationRepo) List(ctx context.Context, limit, offset int) ([]*models.Location, error) {
	query := `SELECT ` + locationColumns + locationOrder + ` LIMIT $1 OFFSET $2`
	var locations []*models.Location
	if err := pgxscan.Select(ctx, r.db, &locations, query, limit, offset); err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepo) All(ctx context.Context) ([]*models.Location, error) {
	var locations []*models.Location
	if err := pgxscan.Select(ctx, r.db, &locations, `SELECT `+locationColumns+locationOrder); err != nil {
		return nil, err
	}
	return locations, nil
}
