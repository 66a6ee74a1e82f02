package event

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectEvent = `SELECT id, title, slug, description, start_date, end_date, location, image,
	is_published, created_at, updated_at FROM events`

// Repository provides access to the event storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new event repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (models.Event, error) {
	var e models.Event
	err := s.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.StartDate, &e.EndDate, &e.Location, &e.Image,
		&e.IsPublished, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// List lists every event, most recently created first.
func (r *Repository) List(ctx context.Context) ([]models.Event, error) {
	return r.list(ctx, selectEvent+" ORDER BY created_at DESC, id DESC")
}

// ListPublished lists published events by ascending start date. A non-nil
// from keeps only events starting at or after it; limit <= 0 means no limit.
func (r *Repository) ListPublished(ctx context.Context, from *time.Time, limit int) ([]models.Event, error) {
	q := selectEvent + " WHERE is_published = 1"
	var args []any
	if from != nil {
		q += " AND start_date >= ?"
		args = append(args, database.Normalize(*from))
	}
	q += " ORDER BY start_date ASC, id ASC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return r.list(ctx, q, args...)
}

// Recent lists published events by descending start date.
func (r *Repository) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	return r.list(ctx, selectEvent+" WHERE is_published = 1 ORDER BY start_date DESC, id DESC LIMIT ?", limit)
}

// Search lists published events whose title or description contains term.
func (r *Repository) Search(ctx context.Context, term string) ([]models.Event, error) {
	like := database.Like(term)
	return r.list(ctx, selectEvent+
		` WHERE is_published = 1 AND (title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\') ORDER BY start_date ASC`,
		like, like)
}

// FindByID finds an event by its ID.
func (r *Repository) FindByID(ctx context.Context, id int) (models.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx, selectEvent+" WHERE id = ?", id))
	return e, database.NotFound(err, "event")
}

// FindBySlug finds an event by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (models.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx, selectEvent+" WHERE slug = ?", slug))
	return e, database.NotFound(err, "event")
}

func normalizeDates(e *models.Event) {
	e.StartDate = database.Normalize(e.StartDate)
	if e.EndDate != nil {
		end := database.Normalize(*e.EndDate)
		e.EndDate = &end
	}
}

// Create inserts an event and sets its ID.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	normalizeDates(e)
	now := database.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	res, err := r.DB.ExecContext(ctx, `INSERT INTO events
		(title, slug, description, start_date, end_date, location, image, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.Slug, e.Description, e.StartDate, e.EndDate, e.Location, e.Image, e.IsPublished, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	id, _ := res.LastInsertId()
	e.ID = int(id)
	return nil
}

// Update writes every editable column of e.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	normalizeDates(e)
	e.UpdatedAt = database.Now()
	res, err := r.DB.ExecContext(ctx, `UPDATE events SET
		title = ?, slug = ?, description = ?, start_date = ?, end_date = ?, location = ?, image = ?,
		is_published = ?, updated_at = ? WHERE id = ?`,
		e.Title, e.Slug, e.Description, e.StartDate, e.EndDate, e.Location, e.Image, e.IsPublished, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	return database.CheckAffected(res, "event")
}

// Delete removes an event.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	return database.CheckAffected(res, "event")
}

// Stats counts events; upcoming is relative to now.
func (r *Repository) Stats(ctx context.Context, now time.Time) (models.EventStats, error) {
	var s models.EventStats
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN start_date >= ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(is_published), 0) FROM events`, database.Normalize(now)).Scan(&s.Total, &s.Upcoming, &s.Published)
	if err != nil {
		return s, fmt.Errorf("error counting events: %w", err)
	}
	return s, nil
}
