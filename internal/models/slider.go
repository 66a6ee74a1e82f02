package models

import "time"

// Slider is one image of the home page carousel.
type Slider struct {
	ID          int       `json:"id"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Link        *string   `json:"link"`
	Image       string    `json:"image"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
