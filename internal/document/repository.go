package document

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectDocument = "SELECT id, title, slug, description, file_path, category, is_public, created_at FROM documents"

// Repository provides access to the document storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new document repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (models.Document, error) {
	var d models.Document
	err := s.Scan(&d.ID, &d.Title, &d.Slug, &d.Description, &d.FilePath, &d.Category, &d.IsPublic, &d.CreatedAt)
	return d, err
}

func (r *Repository) list(ctx context.Context, query string) ([]models.Document, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// List lists every document, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Document, error) {
	return r.list(ctx, selectDocument+" ORDER BY created_at DESC, id DESC")
}

// ListPublic lists public documents, newest first.
func (r *Repository) ListPublic(ctx context.Context) ([]models.Document, error) {
	return r.list(ctx, selectDocument+" WHERE is_public = 1 ORDER BY created_at DESC, id DESC")
}

// FindByID finds a document by its ID.
func (r *Repository) FindByID(ctx context.Context, id int) (models.Document, error) {
	d, err := scanDocument(r.DB.QueryRowContext(ctx, selectDocument+" WHERE id = ?", id))
	return d, database.NotFound(err, "document")
}

// Create inserts a document and sets its ID.
func (r *Repository) Create(ctx context.Context, d *models.Document) error {
	d.CreatedAt = database.Now()
	res, err := r.DB.ExecContext(ctx, `INSERT INTO documents (title, slug, description, file_path, category, is_public, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Title, d.Slug, d.Description, d.FilePath, d.Category, d.IsPublic, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating document: %w", err)
	}
	id, _ := res.LastInsertId()
	d.ID = int(id)
	return nil
}

// Update writes every editable column of d.
func (r *Repository) Update(ctx context.Context, d *models.Document) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE documents SET title = ?, slug = ?, description = ?, file_path = ?, category = ?, is_public = ?
		WHERE id = ?`,
		d.Title, d.Slug, d.Description, d.FilePath, d.Category, d.IsPublic, d.ID)
	if err != nil {
		return fmt.Errorf("error updating document: %w", err)
	}
	return database.CheckAffected(res, "document")
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	return database.CheckAffected(res, "document")
}
