package models

import "time"

const (
	FolderTypeSemester = "semester"
	FolderTypeCourse   = "course"
	FolderTypeTopic    = "topic"
	FolderTypeCustom   = "custom"
)

// Folder is a node in the organization tree. Path caches the names of all
// ancestors, root first, for breadcrumb display.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	ParentID  *string   `json:"parent_folder"`
	Path      []string  `json:"path"`
	Order     int32     `json:"order"`
	Icon      string    `json:"icon"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
