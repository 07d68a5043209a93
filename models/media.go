package models

import "time"

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Media struct {
	ID           int       `json:"id" db:"id"`
	Filename     string    `json:"filename" db:"filename"`
	OriginalName string    `json:"original_name" db:"original_name"`
	MimeType     string    `json:"mime_type" db:"mime_type"`
	Size         int64     `json:"size" db:"size"`
	URL          string    `json:"url" db:"url"`
	StorageKey   string    `json:"-" db:"storage_key"`
	UploadedByID int       `json:"uploaded_by_id" db:"uploaded_by_id"`
	TeamID       *int      `json:"team_id,omitempty" db:"team_id"`
	Type         MediaType `json:"type" db:"type"`
	Description  string    `json:"description" db:"description"`
	Tags         []string  `json:"tags" db:"tags"`
	IsPublic     bool      `json:"is_public" db:"is_public"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	UploadedBy *User `json:"uploaded_by,omitempty" db:"-"`
}
