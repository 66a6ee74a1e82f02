package models

import "time"

// Attachment represents an uploaded file.
type Attachment struct {
	ID             int       `json:"id"`
	Filename       string    `json:"filename"`
	UniqueFilename string    `json:"unique_filename"`
	MimeType       string    `json:"mime_type"`
	Size           int64     `json:"size"`
	CreatedAt      time.Time `json:"created_at"`
}
