package models

import "time"

// Resource is an uploaded study file. The blob itself lives in the file
// store under the resource ID; this record carries the metadata.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MimeType    *string   `json:"mime_type"`
	SizeBytes   *int64    `json:"size_bytes"`
	FolderID    string    `json:"folder"`
	Tags        []string  `json:"tags"`
	UploadedBy  int64     `json:"uploaded_by"`
	Views       int64     `json:"views"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
