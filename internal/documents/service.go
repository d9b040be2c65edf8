// Package documents implements the document manager: a small catalogue of
// uploaded documents with categories, statuses and tags.
package documents

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/filedesk/backend/internal/events"
	"github.com/filedesk/backend/internal/fileutil"
	"github.com/filedesk/backend/internal/logging"
	"github.com/filedesk/backend/internal/metrics"
	"github.com/filedesk/backend/internal/models"
	"github.com/filedesk/backend/internal/storage"
	"github.com/filedesk/backend/internal/upload"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown document ids.
var ErrNotFound = errors.New("document not found")

// CurrentUser is recorded as the uploader of new documents.
const CurrentUser = "Utilisateur actuel"

var (
	DefaultCategory = models.Label{ID: "1", Name: "Général", Color: "#757575"}
	ReviewStatus    = models.Label{ID: "2", Name: "En révision", Color: "#FFC107"}
)

// Categories offered by the upload form.
var categories = []models.Label{
	{ID: "1", Name: "Rapports", Color: "#2196F3"},
	{ID: "2", Name: "Présentations", Color: "#FF9800"},
	{ID: "3", Name: "Documentation", Color: "#9C27B0"},
}

// Metadata is what the uploader fills in next to the file.
type Metadata struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	Category    *models.Label `json:"category"`
}

// Service holds the document collection, newest uploads first.
type Service struct {
	mu        sync.RWMutex
	docs      []models.Document
	uploads   *upload.Manager
	publisher events.Publisher
	now       func() time.Time
	log       *zap.Logger
}

// NewService creates a service over seed. uploads drives Upload; publisher
// may be nil.
func NewService(seed []models.Document, uploads *upload.Manager, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	docs := make([]models.Document, len(seed))
	for i, d := range seed {
		docs[i] = clone(d)
	}
	s := &Service{
		docs:      docs,
		uploads:   uploads,
		publisher: publisher,
		now:       time.Now,
		log:       logging.Named("documents"),
	}
	metrics.SetRecords("documents", len(docs))
	return s
}

// List returns the documents matching f in collection order.
func (s *Service) List(f models.DocumentFilter) []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Document, 0, len(s.docs))
	for _, d := range s.docs {
		if matches(d, f) {
			out = append(out, clone(d))
		}
	}
	return out
}

func matches(d models.Document, f models.DocumentFilter) bool {
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		hit := strings.Contains(strings.ToLower(d.Title), term) ||
			strings.Contains(strings.ToLower(d.Description), term) ||
			slices.ContainsFunc(d.Tags, func(tag string) bool {
				return strings.Contains(strings.ToLower(tag), term)
			})
		if !hit {
			return false
		}
	}
	if f.Category != "" && d.Category.ID != f.Category {
		return false
	}
	if f.DateFrom != nil && d.UploadDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && d.UploadDate.After(*f.DateTo) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(tag string) bool {
		return slices.Contains(d.Tags, tag)
	}) {
		return false
	}
	return true
}

// Get returns a document by id.
func (s *Service) Get(id string) (models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return clone(s.docs[i]), nil
}

// Delete removes a document and reports whether it existed.
func (s *Service) Delete(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.docs = slices.Delete(s.docs, i, i+1)
	n := len(s.docs)
	s.mu.Unlock()

	metrics.SetRecords("documents", n)
	s.log.Info("document deleted", zap.String("id", id))
	s.publisher.Publish(events.Event{Type: events.EventDocumentDeleted, ID: id})
	return true
}

// Update merges patch into a document and bumps its modification time.
func (s *Service) Update(id string, patch models.DocumentPatch) (models.Document, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	d := &s.docs[i]
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Tags != nil {
		d.Tags = slices.Clone(patch.Tags)
	}
	if patch.Category != nil {
		d.Category = *patch.Category
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	d.LastModified = s.now()
	updated := clone(*d)
	s.mu.Unlock()

	s.publisher.Publish(events.Event{Type: events.EventDocumentUpdated, ID: id, Data: updated})
	return updated, nil
}

// Upload starts a simulated transfer of file. The document is added in
// front of the collection when the transfer completes.
func (s *Service) Upload(file models.LocalFile, meta Metadata) models.UploadTask {
	return s.uploads.Start(file, "/documents", func(ctx context.Context, f models.LocalFile) (string, error) {
		doc := s.newDocument(f, meta)

		s.mu.Lock()
		s.docs = slices.Insert(s.docs, 0, doc)
		n := len(s.docs)
		s.mu.Unlock()

		metrics.SetRecords("documents", n)
		s.log.Info("document added", zap.String("id", doc.ID), zap.String("file", f.Name))
		s.publisher.Publish(events.Event{Type: events.EventDocumentCreated, ID: doc.ID, Data: clone(doc)})
		return doc.ID, nil
	})
}

func (s *Service) newDocument(f models.LocalFile, meta Metadata) models.Document {
	now := s.now()
	title := meta.Title
	if title == "" {
		title = f.Name
	}
	category := DefaultCategory
	if meta.Category != nil {
		category = *meta.Category
	}
	tags := slices.Clone(meta.Tags)
	if tags == nil {
		tags = []string{}
	}
	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = fileutil.MimeType(f.Name)
	}
	size := f.Size
	if size < 0 {
		size = 0
	}
	return models.Document{
		ID:           uuid.New().String(),
		Title:        title,
		Description:  meta.Description,
		FileName:     f.Name,
		FileSize:     size,
		MimeType:     mimeType,
		UploadDate:   now,
		LastModified: now,
		Tags:         tags,
		Category:     category,
		Status:       ReviewStatus,
		UploadedBy:   CurrentUser,
		Version:      1,
		FilePath:     "/documents/" + f.Name,
	}
}

// Stats summarizes the collection as of now.
func (s *Service) Stats(now time.Time) models.DocumentStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	recent := 0
	cats := make(map[string]struct{})
	cutoff := now.Add(-storage.RecentWindow)
	for _, d := range s.docs {
		total += d.FileSize
		if !d.UploadDate.Before(cutoff) {
			recent++
		}
		cats[d.Category.ID] = struct{}{}
	}

	return models.DocumentStats{
		TotalDocuments:  len(s.docs),
		TotalSize:       fileutil.FormatFileSize(total),
		RecentUploads:   recent,
		CategoriesCount: len(cats),
	}
}

// Categories returns the categories offered for new documents.
func (s *Service) Categories() []models.Label {
	return slices.Clone(categories)
}

// Len returns the number of documents.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *Service) indexOf(id string) int {
	return slices.IndexFunc(s.docs, func(d models.Document) bool { return d.ID == id })
}

func clone(d models.Document) models.Document {
	d.Tags = slices.Clone(d.Tags)
	return d
}
