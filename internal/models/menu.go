package models

import "time"

// Menu is a named navigation menu placed at a location of the site layout.
type Menu struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location"`
	IsActive  bool      `json:"is_active"`
	ItemCount int       `json:"items_count"`
	CreatedAt time.Time `json:"created_at"`
}

// MenuItem is a single navigation link. LinkableType and LinkableID point at
// the article or page the URL was derived from, if any.
type MenuItem struct {
	ID           int         `json:"id"`
	MenuID       int         `json:"menu_id"`
	ParentID     *int        `json:"parent_id"`
	Title        string      `json:"title"`
	URL          *string     `json:"url"`
	Order        int         `json:"order"`
	Target       *string     `json:"target"`
	Icon         *string     `json:"icon"`
	LinkableType *string     `json:"linkable_type"`
	LinkableID   *int        `json:"linkable_id"`
	Children     []*MenuItem `json:"children,omitempty"`
}
