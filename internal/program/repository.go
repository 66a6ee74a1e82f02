package program

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectProgram = "SELECT id, name, slug, degree, description FROM program_studies"

// Repository provides access to the program study storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new program study repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]models.ProgramStudy, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing program studies: %w", err)
	}
	defer rows.Close()

	var programs []models.ProgramStudy
	for rows.Next() {
		var p models.ProgramStudy
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Degree, &p.Description); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// List lists all program studies by name.
func (r *Repository) List(ctx context.Context) ([]models.ProgramStudy, error) {
	return r.list(ctx, selectProgram+" ORDER BY name ASC, id ASC")
}

// Search lists program studies whose name or description contains term.
func (r *Repository) Search(ctx context.Context, term string) ([]models.ProgramStudy, error) {
	like := database.Like(term)
	return r.list(ctx, selectProgram+
		` WHERE name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' ORDER BY name ASC`, like, like)
}

// FindByID finds a program study by its ID.
func (r *Repository) FindByID(ctx context.Context, id int) (models.ProgramStudy, error) {
	var p models.ProgramStudy
	err := r.DB.QueryRowContext(ctx, selectProgram+" WHERE id = ?", id).Scan(&p.ID, &p.Name, &p.Slug, &p.Degree, &p.Description)
	return p, database.NotFound(err, "program study")
}

// FindBySlug finds a program study by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (models.ProgramStudy, error) {
	var p models.ProgramStudy
	err := r.DB.QueryRowContext(ctx, selectProgram+" WHERE slug = ?", slug).Scan(&p.ID, &p.Name, &p.Slug, &p.Degree, &p.Description)
	return p, database.NotFound(err, "program study")
}

// Create inserts a program study and sets its ID.
func (r *Repository) Create(ctx context.Context, p *models.ProgramStudy) error {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO program_studies (name, slug, degree, description) VALUES (?, ?, ?, ?)",
		p.Name, p.Slug, p.Degree, p.Description)
	if err != nil {
		return fmt.Errorf("error creating program study: %w", err)
	}
	id, _ := res.LastInsertId()
	p.ID = int(id)
	return nil
}

// Update writes every column of p.
func (r *Repository) Update(ctx context.Context, p *models.ProgramStudy) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE program_studies SET name = ?, slug = ?, degree = ?, description = ? WHERE id = ?",
		p.Name, p.Slug, p.Degree, p.Description, p.ID)
	if err != nil {
		return fmt.Errorf("error updating program study: %w", err)
	}
	return database.CheckAffected(res, "program study")
}

// Delete removes a program study.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM program_studies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting program study: %w", err)
	}
	return database.CheckAffected(res, "program study")
}
