// Package models contains domain types for the filedesk backend.
package models

import "time"

// Kind distinguishes files from folders.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// FileRecord is a listed file or folder entry.
// Folder membership is structural: a record belongs to every folder whose
// path is a prefix of its own.
type FileRecord struct {
	ID         string    `json:"id" yaml:"id" msgpack:"id"`
	Name       string    `json:"name" yaml:"name" msgpack:"name"`
	Kind       Kind      `json:"type" yaml:"type" msgpack:"type"`
	Size       int64     `json:"size" yaml:"size" msgpack:"size"`
	MimeType   string    `json:"mimeType,omitempty" yaml:"mimeType,omitempty" msgpack:"mimeType,omitempty"`
	Extension  string    `json:"extension,omitempty" yaml:"extension,omitempty" msgpack:"extension,omitempty"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt" msgpack:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt" yaml:"modifiedAt" msgpack:"modifiedAt"`
	Path       string    `json:"path" yaml:"path" msgpack:"path"`
}

// IsFolder reports whether the record is a folder.
func (r FileRecord) IsFolder() bool {
	return r.Kind == KindFolder
}

// LocalFile describes a file selected on the client. Only its metadata
// ever reaches the server.
type LocalFile struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType,omitempty"`
}

// Breadcrumb is one step of the navigation trail.
type Breadcrumb struct {
	Name string `json:"name" msgpack:"name"`
	Path string `json:"path" msgpack:"path"`
}
