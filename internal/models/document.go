package models

import "time"

// Document is a downloadable file.
type Document struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	FilePath    string    `json:"file_path"`
	Category    *string   `json:"category"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}
