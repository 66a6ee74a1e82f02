// Package dashboard gathers the figures of the admin dashboard.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/models"
)

// Counts is the number of records of each content type.
type Counts struct {
	Articles       int `json:"articles"`
	Events         int `json:"events"`
	Facilities     int `json:"facilities"`
	Pages          int `json:"pages"`
	ProgramStudies int `json:"program_studies"`
	Users          int `json:"users"`
	Documents      int `json:"documents"`
	Sliders        int `json:"sliders"`
}

type Repository struct {
	DB *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// Counts counts the records of every content type in one query.
func (r *Repository) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.DB.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM articles),
		(SELECT COUNT(*) FROM events),
		(SELECT COUNT(*) FROM facilities),
		(SELECT COUNT(*) FROM pages),
		(SELECT COUNT(*) FROM program_studies),
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM documents),
		(SELECT COUNT(*) FROM sliders)`).
		Scan(&c.Articles, &c.Events, &c.Facilities, &c.Pages, &c.ProgramStudies, &c.Users, &c.Documents, &c.Sliders)
	if err != nil {
		return c, fmt.Errorf("error counting content: %w", err)
	}
	return c, nil
}

// RecentUsers lists the most recently registered users.
func (r *Repository) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, username, display_name, role FROM users ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// RecentArticles lists the newest articles, drafts included.
func (r *Repository) RecentArticles(ctx context.Context, limit int) ([]models.Article, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, title, slug, is_published, created_at
		FROM articles ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.IsPublished, &a.CreatedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
