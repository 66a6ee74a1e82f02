package setting

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectSetting = `SELECT id, key, value, type, "group", label FROM settings`

// Repository provides access to the settings table.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// Find finds a setting by key.
func (r *Repository) Find(ctx context.Context, key string) (models.Setting, error) {
	var s models.Setting
	err := r.DB.QueryRowContext(ctx, selectSetting+" WHERE key = ?", key).
		Scan(&s.ID, &s.Key, &s.Value, &s.Type, &s.Group, &s.Label)
	return s, database.NotFound(err, "setting")
}

// List lists all settings by group and key.
func (r *Repository) List(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.DB.QueryContext(ctx, selectSetting+` ORDER BY "group" ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing settings: %w", err)
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.Type, &s.Group, &s.Label); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Upsert stores value under key, creating the setting when missing.
func (r *Repository) Upsert(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("error saving setting %q: %w", key, err)
	}
	return nil
}

// Define creates a setting with its metadata unless the key already exists.
func (r *Repository) Define(ctx context.Context, s models.Setting) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO settings (key, value, type, "group", label) VALUES (?, ?, ?, ?, ?) ON CONFLICT(key) DO NOTHING`,
		s.Key, s.Value, s.Type, s.Group, s.Label)
	if err != nil {
		return fmt.Errorf("error defining setting %q: %w", s.Key, err)
	}
	return nil
}
