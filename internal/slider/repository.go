package slider

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectSlider = `SELECT id, title, description, link, image, "order", is_active, created_at FROM sliders`

// Repository provides access to the slider storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new slider repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSlider(s scanner) (models.Slider, error) {
	var sl models.Slider
	err := s.Scan(&sl.ID, &sl.Title, &sl.Description, &sl.Link, &sl.Image, &sl.Order, &sl.IsActive, &sl.CreatedAt)
	return sl, err
}

func (r *Repository) list(ctx context.Context, query string) ([]models.Slider, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing sliders: %w", err)
	}
	defer rows.Close()

	var sliders []models.Slider
	for rows.Next() {
		sl, err := scanSlider(rows)
		if err != nil {
			return nil, err
		}
		sliders = append(sliders, sl)
	}
	return sliders, rows.Err()
}

// List lists every slider by order.
func (r *Repository) List(ctx context.Context) ([]models.Slider, error) {
	return r.list(ctx, selectSlider+` ORDER BY "order" ASC, created_at DESC`)
}

// ListActive lists active sliders by ascending order.
func (r *Repository) ListActive(ctx context.Context) ([]models.Slider, error) {
	return r.list(ctx, selectSlider+` WHERE is_active = 1 ORDER BY "order" ASC, id ASC`)
}

// FindByID finds a slider by its ID.
func (r *Repository) FindByID(ctx context.Context, id int) (models.Slider, error) {
	sl, err := scanSlider(r.DB.QueryRowContext(ctx, selectSlider+" WHERE id = ?", id))
	return sl, database.NotFound(err, "slider")
}

// Create inserts a slider and sets its ID.
func (r *Repository) Create(ctx context.Context, sl *models.Slider) error {
	sl.CreatedAt = database.Now()
	res, err := r.DB.ExecContext(ctx, `INSERT INTO sliders (title, description, link, image, "order", is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sl.Title, sl.Description, sl.Link, sl.Image, sl.Order, sl.IsActive, sl.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating slider: %w", err)
	}
	id, _ := res.LastInsertId()
	sl.ID = int(id)
	return nil
}

// Update writes every editable column of sl.
func (r *Repository) Update(ctx context.Context, sl *models.Slider) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE sliders SET title = ?, description = ?, link = ?, image = ?, "order" = ?, is_active = ?
		WHERE id = ?`,
		sl.Title, sl.Description, sl.Link, sl.Image, sl.Order, sl.IsActive, sl.ID)
	if err != nil {
		return fmt.Errorf("error updating slider: %w", err)
	}
	return database.CheckAffected(res, "slider")
}

// Delete removes a slider.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sliders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting slider: %w", err)
	}
	return database.CheckAffected(res, "slider")
}
