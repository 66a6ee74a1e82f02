package models

import "time"

// Event is an agenda entry.
type Event struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
	Image       *string    `json:"image"`
	IsPublished bool       `json:"is_published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventStats summarises events for the admin index.
type EventStats struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Published int `json:"published"`
}
