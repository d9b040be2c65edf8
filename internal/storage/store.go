// Package storage holds the record collection behind the file manager.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/filedesk/backend/internal/fileutil"
	"github.com/filedesk/backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("duplicate record id")
	ErrInvalidPath = errors.New("record path must start with /")
	ErrInvalidName = errors.New("invalid record name")
)

// Store is the record collection. Reads return copies; each write is
// applied atomically.
type Store interface {
	// List returns a snapshot of all records in insertion order.
	List(ctx context.Context) ([]models.FileRecord, error)
	Get(ctx context.Context, id string) (models.FileRecord, error)
	// Append adds all records or none of them.
	Append(ctx context.Context, records ...models.FileRecord) error
	// Remove deletes the record with the given id. Removing an unknown id
	// is not an error; removed reports whether anything was deleted.
	Remove(ctx context.Context, id string) (removed bool, err error)
	// Rename changes a record's name and last path segment. Renaming a
	// folder moves every record below it.
	Rename(ctx context.Context, id, name string) (models.FileRecord, error)
	Close() error
}

// NewFileRecord builds the record for an uploaded local file placed in
// folder. Missing MIME types are derived from the name.
func NewFileRecord(file models.LocalFile, folder string, now time.Time) models.FileRecord {
	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = fileutil.MimeType(file.Name)
	}
	size := file.Size
	if size < 0 {
		size = 0
	}
	return models.FileRecord{
		ID:         uuid.New().String(),
		Name:       file.Name,
		Kind:       models.KindFile,
		Size:       size,
		MimeType:   mimeType,
		Extension:  fileutil.Extension(file.Name),
		CreatedAt:  now,
		ModifiedAt: now,
		Path:       fileutil.Join(folder, file.Name),
	}
}

// NewFolderRecord builds an empty folder named name inside parent.
func NewFolderRecord(name, parent string, now time.Time) models.FileRecord {
	return models.FileRecord{
		ID:         uuid.New().String(),
		Name:       name,
		Kind:       models.KindFolder,
		CreatedAt:  now,
		ModifiedAt: now,
		Path:       fileutil.Join(parent, name),
	}
}

// validate checks the structural invariants of a record.
func validate(r models.FileRecord) error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidName)
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, r.Path)
	}
	if r.Size < 0 {
		return fmt.Errorf("record %s: negative size %d", r.ID, r.Size)
	}
	if r.Kind == models.KindFolder && r.Size != 0 {
		return fmt.Errorf("folder %s: size must be 0", r.ID)
	}
	if r.ModifiedAt.Before(r.CreatedAt) {
		return fmt.Errorf("record %s: modifiedAt before createdAt", r.ID)
	}
	return nil
}

// renamed applies a rename to r and returns the old and new paths.
func renamed(r models.FileRecord, name string, now time.Time) (models.FileRecord, string, string) {
	oldPath := r.Path
	r.Name = name
	r.Path = fileutil.Join(fileutil.Parent(oldPath), name)
	if r.Kind == models.KindFile {
		r.Extension = fileutil.Extension(name)
		r.MimeType = fileutil.MimeType(name)
	}
	if now.After(r.ModifiedAt) {
		r.ModifiedAt = now
	}
	return r, oldPath, r.Path
}

// isBelow reports whether path lies inside the folder at dir.
func isBelow(path, dir string) bool {
	return strings.HasPrefix(path, dir+"/")
}
