package facility

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectFacility = `SELECT id, title, slug, description, image, location, capacity, is_active,
	created_at, updated_at FROM facilities`

// Repository provides access to the facility storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new facility repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFacility(s scanner) (models.Facility, error) {
	var f models.Facility
	err := s.Scan(&f.ID, &f.Title, &f.Slug, &f.Description, &f.Image, &f.Location, &f.Capacity, &f.IsActive,
		&f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]models.Facility, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing facilities: %w", err)
	}
	defer rows.Close()

	var facilities []models.Facility
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		facilities = append(facilities, f)
	}
	return facilities, rows.Err()
}

// List lists every facility, most recently created first.
func (r *Repository) List(ctx context.Context) ([]models.Facility, error) {
	return r.list(ctx, selectFacility+" ORDER BY created_at DESC, id DESC")
}

// ListActive lists active facilities in insertion order; limit <= 0 means no limit.
func (r *Repository) ListActive(ctx context.Context, limit int) ([]models.Facility, error) {
	q := selectFacility + " WHERE is_active = 1 ORDER BY id ASC"
	if limit > 0 {
		return r.list(ctx, q+" LIMIT ?", limit)
	}
	return r.list(ctx, q)
}

// Search lists active facilities whose title or description contains term.
func (r *Repository) Search(ctx context.Context, term string) ([]models.Facility, error) {
	like := database.Like(term)
	return r.list(ctx, selectFacility+
		` WHERE is_active = 1 AND (title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\') ORDER BY id ASC`,
		like, like)
}

// FindByID finds a facility by its ID.
func (r *Repository) FindByID(ctx context.Context, id int) (models.Facility, error) {
	f, err := scanFacility(r.DB.QueryRowContext(ctx, selectFacility+" WHERE id = ?", id))
	return f, database.NotFound(err, "facility")
}

// FindBySlug finds a facility by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (models.Facility, error) {
	f, err := scanFacility(r.DB.QueryRowContext(ctx, selectFacility+" WHERE slug = ?", slug))
	return f, database.NotFound(err, "facility")
}

// Create inserts a facility and sets its ID.
func (r *Repository) Create(ctx context.Context, f *models.Facility) error {
	now := database.Now()
	f.CreatedAt, f.UpdatedAt = now, now
	res, err := r.DB.ExecContext(ctx, `INSERT INTO facilities
		(title, slug, description, image, location, capacity, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Title, f.Slug, f.Description, f.Image, f.Location, f.Capacity, f.IsActive, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating facility: %w", err)
	}
	id, _ := res.LastInsertId()
	f.ID = int(id)
	return nil
}

// Update writes every editable column of f.
func (r *Repository) Update(ctx context.Context, f *models.Facility) error {
	f.UpdatedAt = database.Now()
	res, err := r.DB.ExecContext(ctx, `UPDATE facilities SET
		title = ?, slug = ?, description = ?, image = ?, location = ?, capacity = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		f.Title, f.Slug, f.Description, f.Image, f.Location, f.Capacity, f.IsActive, f.UpdatedAt, f.ID)
	if err != nil {
		return fmt.Errorf("error updating facility: %w", err)
	}
	return database.CheckAffected(res, "facility")
}

// Delete removes a facility.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM facilities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting facility: %w", err)
	}
	return database.CheckAffected(res, "facility")
}
