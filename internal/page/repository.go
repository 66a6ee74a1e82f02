package page

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectPage = `SELECT id, title, slug, content, blocks, editor_mode, is_published, layout,
	meta_title, meta_description, current_revision_id, created_at, updated_at FROM pages`

// Repository provides access to the page storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new page repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(s scanner) (models.Page, error) {
	var p models.Page
	var blocks sql.NullString
	err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &blocks, &p.EditorMode, &p.IsPublished, &p.Layout,
		&p.MetaTitle, &p.MetaDescription, &p.CurrentRevisionID, &p.CreatedAt, &p.UpdatedAt)
	if blocks.Valid && blocks.String != "" {
		p.Blocks = []byte(blocks.String)
	}
	return p, err
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]models.Page, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// List lists all pages, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Page, error) {
	return r.list(ctx, selectPage+" ORDER BY created_at DESC, id DESC")
}

// Search lists published pages whose title or content contains term.
func (r *Repository) Search(ctx context.Context, term string) ([]models.Page, error) {
	like := database.Like(term)
	return r.list(ctx, selectPage+
		` WHERE is_published = 1 AND (title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\') ORDER BY title ASC`,
		like, like)
}

// ListPublished lists published pages by title; used by the menu editor.
func (r *Repository) ListPublished(ctx context.Context) ([]models.Page, error) {
	return r.list(ctx, selectPage+" WHERE is_published = 1 ORDER BY title ASC")
}

// FindByID finds a page by its ID.
func (r *Repository) FindByID(ctx context.Context, id int) (models.Page, error) {
	p, err := scanPage(r.DB.QueryRowContext(ctx, selectPage+" WHERE id = ?", id))
	return p, database.NotFound(err, "page")
}

// FindBySlug finds a page by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (models.Page, error) {
	p, err := scanPage(r.DB.QueryRowContext(ctx, selectPage+" WHERE slug = ?", slug))
	return p, database.NotFound(err, "page")
}

// SlugTaken reports whether another page already uses slug.
func (r *Repository) SlugTaken(ctx context.Context, slug string, exceptID int) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?", slug, exceptID).Scan(&n)
	return n > 0, err
}

func nullableBlocks(p *models.Page) any {
	if len(p.Blocks) == 0 {
		return nil
	}
	return string(p.Blocks)
}

// Create creates a new page and its initial revision in a transaction.
func (r *Repository) Create(ctx context.Context, page *models.Page, revision *models.Revision) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	now := database.Now()
	page.CreatedAt, page.UpdatedAt = now, now
	res, err := tx.ExecContext(ctx, `INSERT INTO pages
		(title, slug, content, blocks, editor_mode, is_published, layout, meta_title, meta_description,
		 current_revision_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, -1, ?, ?)`,
		page.Title, page.Slug, page.Content, nullableBlocks(page), page.EditorMode, page.IsPublished, page.Layout,
		page.MetaTitle, page.MetaDescription, page.CreatedAt, page.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating page: %w", err)
	}
	pageID, _ := res.LastInsertId()
	page.ID = int(pageID)

	revision.Content = page.Content
	if err := insertRevision(ctx, tx, revision, page.ID); err != nil {
		return err
	}
	page.CurrentRevisionID = revision.ID

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// Update writes the page and, when its content changed, records a new revision.
func (r *Repository) Update(ctx context.Context, page *models.Page, revision *models.Revision) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var previous string
	err = tx.QueryRowContext(ctx, "SELECT content FROM pages WHERE id = ?", page.ID).Scan(&previous)
	if err != nil {
		return database.NotFound(err, "page")
	}

	page.UpdatedAt = database.Now()
	_, err = tx.ExecContext(ctx, `UPDATE pages SET
		title = ?, slug = ?, content = ?, blocks = ?, editor_mode = ?, is_published = ?, layout = ?,
		meta_title = ?, meta_description = ?, updated_at = ?
		WHERE id = ?`,
		page.Title, page.Slug, page.Content, nullableBlocks(page), page.EditorMode, page.IsPublished, page.Layout,
		page.MetaTitle, page.MetaDescription, page.UpdatedAt, page.ID)
	if err != nil {
		return fmt.Errorf("error updating page: %w", err)
	}

	if previous != page.Content {
		revision.Content = page.Content
		if err := insertRevision(ctx, tx, revision, page.ID); err != nil {
			return err
		}
		page.CurrentRevisionID = revision.ID
	}

	return tx.Commit()
}

func insertRevision(ctx context.Context, tx *sql.Tx, revision *models.Revision, pageID int) error {
	res, err := tx.ExecContext(ctx, "INSERT INTO revisions (page_id, author_id, comment, content, created_at) VALUES (?, ?, ?, ?, ?)",
		pageID, revision.AuthorID, revision.Comment, revision.Content, database.Now())
	if err != nil {
		return fmt.Errorf("error creating revision: %w", err)
	}
	revisionID, _ := res.LastInsertId()
	revision.ID = int(revisionID)
	revision.PageID = pageID

	_, err = tx.ExecContext(ctx, "UPDATE pages SET current_revision_id = ? WHERE id = ?", revisionID, pageID)
	if err != nil {
		return fmt.Errorf("error updating page with revision ID: %w", err)
	}
	return nil
}

// GetRevisionContent gets the content of a specific revision of a page.
func (r *Repository) GetRevisionContent(ctx context.Context, pageID, revisionID int) (string, error) {
	var content string
	err := r.DB.QueryRowContext(ctx, "SELECT content FROM revisions WHERE id = ? AND page_id = ?", revisionID, pageID).Scan(&content)
	return content, database.NotFound(err, "revision")
}

// ListRevisions lists the revisions of a page, newest first.
func (r *Repository) ListRevisions(ctx context.Context, pageID int) ([]models.Revision, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT r.id, r.page_id, r.author_id, COALESCE(u.display_name, ''), r.comment, r.created_at
		FROM revisions r LEFT JOIN users u ON u.id = r.author_id
		WHERE r.page_id = ? ORDER BY r.id DESC`, pageID)
	if err != nil {
		return nil, fmt.Errorf("error listing revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		var rev models.Revision
		if err := rows.Scan(&rev.ID, &rev.PageID, &rev.AuthorID, &rev.Author, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

// Delete removes a page together with its revisions.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting page: %w", err)
	}
	return database.CheckAffected(res, "page")
}
