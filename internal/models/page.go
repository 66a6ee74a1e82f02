package models

import (
	"encoding/json"
	"time"
)

// Editor modes of a page.
const (
	EditorModeEditor  = "editor"
	EditorModeBuilder = "builder"
)

// Page is a standalone page, written either in the rich editor or assembled
// from blocks in the page builder.
type Page struct {
	ID                int             `json:"id"`
	Title             string          `json:"title"`
	Slug              string          `json:"slug"`
	Content           string          `json:"content"`
	Blocks            json.RawMessage `json:"blocks"`
	EditorMode        string          `json:"editor_mode"`
	IsPublished       bool            `json:"is_published"`
	Layout            string          `json:"layout"`
	MetaTitle         *string         `json:"meta_title"`
	MetaDescription   *string         `json:"meta_description"`
	CurrentRevisionID int             `json:"current_revision_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Revision represents a version of a page's content.
type Revision struct {
	ID        int       `json:"id"`
	PageID    int       `json:"page_id"`
	Content   string    `json:"content"`
	AuthorID  *int      `json:"author_id"`
	Author    string    `json:"author"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
