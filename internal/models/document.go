package models

import "time"

// Document is an entry of the document manager.
type Document struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	FileName     string    `json:"fileName" yaml:"fileName"`
	FileSize     int64     `json:"fileSize" yaml:"fileSize"`
	MimeType     string    `json:"mimeType" yaml:"mimeType"`
	UploadDate   time.Time `json:"uploadDate" yaml:"uploadDate"`
	LastModified time.Time `json:"lastModified" yaml:"lastModified"`
	Tags         []string  `json:"tags" yaml:"tags"`
	Category     Label     `json:"category" yaml:"category"`
	Status       Label     `json:"status" yaml:"status"`
	UploadedBy   string    `json:"uploadedBy" yaml:"uploadedBy"`
	Version      int       `json:"version" yaml:"version"`
	FilePath     string    `json:"filePath" yaml:"filePath"`
}

// Label is a colored tag used for document categories and statuses.
type Label struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// DocumentFilter narrows the document list. Zero values are ignored.
type DocumentFilter struct {
	SearchTerm string
	Category   string
	DateFrom   *time.Time
	DateTo     *time.Time
	Tags       []string
}

// DocumentPatch holds the updatable document fields. Nil fields are kept.
type DocumentPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Category    *Label   `json:"category,omitempty"`
	Status      *Label   `json:"status,omitempty"`
}

// DocumentStats summarizes the document collection.
type DocumentStats struct {
	TotalDocuments  int    `json:"totalDocuments"`
	TotalSize       string `json:"totalSize"`
	RecentUploads   int    `json:"recentUploads"`
	CategoriesCount int    `json:"categoriesCount"`
}
