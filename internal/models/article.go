package models

import "time"

// Category groups articles.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Article is a news item.
type Article struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	Image           *string   `json:"image"`
	IsPublished     bool      `json:"is_published"`
	Layout          string    `json:"layout"`
	UserID          *int      `json:"user_id"`
	CategoryID      *int      `json:"category_id"`
	MetaTitle       *string   `json:"meta_title"`
	MetaDescription *string   `json:"meta_description"`
	MetaKeywords    *string   `json:"meta_keywords"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Author   *User     `json:"user,omitempty"`
	Category *Category `json:"category,omitempty"`
}

// ArticleStats summarises articles for the admin index.
type ArticleStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
}
