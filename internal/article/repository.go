package article

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectArticle = `SELECT a.id, a.title, a.slug, a.content, a.image, a.is_published, a.layout,
	a.user_id, a.category_id, a.meta_title, a.meta_description, a.meta_keywords,
	a.created_at, a.updated_at, c.name, c.slug, u.username, u.display_name
FROM articles a
LEFT JOIN categories c ON c.id = a.category_id
LEFT JOIN users u ON u.id = a.user_id`

const newestFirst = " ORDER BY a.created_at DESC, a.id DESC"

// DefaultPerPage is the page size of the public article index.
const DefaultPerPage = 9

// Repository provides access to the article storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new article repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(s scanner) (models.Article, error) {
	var a models.Article
	var catName, catSlug, username, displayName sql.NullString
	err := s.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.Image, &a.IsPublished, &a.Layout,
		&a.UserID, &a.CategoryID, &a.MetaTitle, &a.MetaDescription, &a.MetaKeywords,
		&a.CreatedAt, &a.UpdatedAt, &catName, &catSlug, &username, &displayName)
	if err != nil {
		return a, err
	}
	if a.CategoryID != nil && catName.Valid {
		a.Category = &models.Category{ID: *a.CategoryID, Name: catName.String, Slug: catSlug.String}
	}
	if a.UserID != nil && username.Valid {
		a.Author = &models.User{ID: *a.UserID, Username: username.String, DisplayName: displayName.String}
	}
	return a, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]models.Article, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// List lists every article, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Article, error) {
	return r.query(ctx, selectArticle+newestFirst)
}

// Latest lists published articles, newest first, optionally restricted to a category.
func (r *Repository) Latest(ctx context.Context, categoryID *int, limit int) ([]models.Article, error) {
	q := selectArticle + " WHERE a.is_published = 1"
	var args []any
	if categoryID != nil {
		q += " AND a.category_id = ?"
		args = append(args, *categoryID)
	}
	q += newestFirst + " LIMIT ?"
	args = append(args, limit)
	return r.query(ctx, q, args...)
}

// Related lists other published articles of the same category.
func (r *Repository) Related(ctx context.Context, a models.Article, limit int) ([]models.Article, error) {
	q := selectArticle + " WHERE a.is_published = 1 AND a.id != ?"
	args := []any{a.ID}
	if a.CategoryID != nil {
		q += " AND a.category_id = ?"
		args = append(args, *a.CategoryID)
	} else {
		q += " AND a.category_id IS NULL"
	}
	q += newestFirst + " LIMIT ?"
	args = append(args, limit)
	return r.query(ctx, q, args...)
}

// Filter narrows the public article index.
type Filter struct {
	Search       string
	CategorySlug string
	Page         int
	PerPage      int
}

// Paged is one page of a listing.
type Paged struct {
	Data        []models.Article `json:"data"`
	CurrentPage int              `json:"current_page"`
	LastPage    int              `json:"last_page"`
	PerPage     int              `json:"per_page"`
	Total       int              `json:"total"`
}

// ListPublished lists published articles matching the filter, newest first.
func (r *Repository) ListPublished(ctx context.Context, f Filter) (Paged, error) {
	if f.PerPage <= 0 {
		f.PerPage = DefaultPerPage
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	where := []string{"a.is_published = 1"}
	var args []any
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, `(a.title LIKE ? ESCAPE '\' OR a.content LIKE ? ESCAPE '\')`)
		args = append(args, database.Like(s), database.Like(s))
	}
	if f.CategorySlug != "" {
		where = append(where, "c.slug = ?")
		args = append(args, f.CategorySlug)
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM articles a LEFT JOIN categories c ON c.id = a.category_id"+cond, args...).Scan(&total)
	if err != nil {
		return Paged{}, fmt.Errorf("error counting articles: %w", err)
	}

	data, err := r.query(ctx, selectArticle+cond+newestFirst+" LIMIT ? OFFSET ?",
		append(args, f.PerPage, (f.Page-1)*f.PerPage)...)
	if err != nil {
		return Paged{}, err
	}

	last := (total + f.PerPage - 1) / f.PerPage
	if last < 1 {
		last = 1
	}
	return Paged{Data: data, CurrentPage: f.Page, LastPage: last, PerPage: f.PerPage, Total: total}, nil
}

// Search lists published articles whose title or content contains term.
func (r *Repository) Search(ctx context.Context, term string) ([]models.Article, error) {
	like := database.Like(term)
	return r.query(ctx, selectArticle+
		` WHERE a.is_published = 1 AND (a.title LIKE ? ESCAPE '\' OR a.content LIKE ? ESCAPE '\')`+newestFirst,
		like, like)
}

// FindByID finds an article by its ID.
func (r *Repository) FindByID(ctx context.Context, id int) (models.Article, error) {
	a, err := scanArticle(r.DB.QueryRowContext(ctx, selectArticle+" WHERE a.id = ?", id))
	return a, database.NotFound(err, "article")
}

// FindBySlug finds an article by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (models.Article, error) {
	a, err := scanArticle(r.DB.QueryRowContext(ctx, selectArticle+" WHERE a.slug = ?", slug))
	return a, database.NotFound(err, "article")
}

// SlugTaken reports whether another article already uses slug.
func (r *Repository) SlugTaken(ctx context.Context, slug string, exceptID int) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE slug = ? AND id != ?", slug, exceptID).Scan(&n)
	return n > 0, err
}

// Create inserts a new article and sets its ID.
func (r *Repository) Create(ctx context.Context, a *models.Article) error {
	now := database.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	} else {
		a.CreatedAt = database.Normalize(a.CreatedAt)
	}
	a.UpdatedAt = a.CreatedAt
	if a.Layout == "" {
		a.Layout = "default"
	}

	res, err := r.DB.ExecContext(ctx, `INSERT INTO articles
		(title, slug, content, image, is_published, layout, user_id, category_id,
		 meta_title, meta_description, meta_keywords, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Slug, a.Content, a.Image, a.IsPublished, a.Layout, a.UserID, a.CategoryID,
		a.MetaTitle, a.MetaDescription, a.MetaKeywords, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating article: %w", err)
	}
	id, _ := res.LastInsertId()
	a.ID = int(id)
	return nil
}

// Update writes every editable column of a.
func (r *Repository) Update(ctx context.Context, a *models.Article) error {
	a.UpdatedAt = database.Now()
	res, err := r.DB.ExecContext(ctx, `UPDATE articles SET
		title = ?, slug = ?, content = ?, image = ?, is_published = ?, layout = ?, category_id = ?,
		meta_title = ?, meta_description = ?, meta_keywords = ?, updated_at = ?
		WHERE id = ?`,
		a.Title, a.Slug, a.Content, a.Image, a.IsPublished, a.Layout, a.CategoryID,
		a.MetaTitle, a.MetaDescription, a.MetaKeywords, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("error updating article: %w", err)
	}
	return database.CheckAffected(res, "article")
}

// Delete removes an article.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting article: %w", err)
	}
	return database.CheckAffected(res, "article")
}

// Stats counts articles by publication state.
func (r *Repository) Stats(ctx context.Context) (models.ArticleStats, error) {
	var s models.ArticleStats
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(is_published), 0) FROM articles").Scan(&s.Total, &s.Published)
	if err != nil {
		return s, fmt.Errorf("error counting articles: %w", err)
	}
	s.Draft = s.Total - s.Published
	return s, nil
}
