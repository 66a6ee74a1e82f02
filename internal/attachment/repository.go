package attachment

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

// Repository provides access to the attachment storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new attachment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a new attachment record into the database.
func (r *Repository) Create(ctx context.Context, attachment *models.Attachment) error {
	attachment.CreatedAt = database.Now()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO attachments (filename, unique_filename, mime_type, size, created_at) VALUES (?, ?, ?, ?, ?)",
		attachment.Filename, attachment.UniqueFilename, attachment.MimeType, attachment.Size, attachment.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving attachment: %w", err)
	}
	id, _ := res.LastInsertId()
	attachment.ID = int(id)
	return nil
}

// List lists uploaded files for the media library, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Attachment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, filename, unique_filename, COALESCE(mime_type, ''), size, created_at FROM attachments ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.Filename, &a.UniqueFilename, &a.MimeType, &a.Size, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
