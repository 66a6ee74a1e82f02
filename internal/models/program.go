package models

// ProgramStudy is an academic programme offered by the faculty.
type ProgramStudy struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Degree      string `json:"degree"`
	Description string `json:"description"`
}
