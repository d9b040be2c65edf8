// fixtures.go - Shared records for tests
package testutil

import (
	"time"

	"github.com/filedesk/backend/internal/models"
)

// Day parses a YYYY-MM-DD date at midnight UTC and panics on bad input.
func Day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleRecords returns the demo listing: three root folders and five
// files, ids "1" to "8".
func SampleRecords() []models.FileRecord {
	return []models.FileRecord{
		Folder("1", "Documents", "/Documents", Day("2024-01-15"), Day("2024-01-20")),
		Folder("2", "Images", "/Images", Day("2024-01-10"), Day("2024-01-25")),
		File("3", "rapport-2024.pdf", "/rapport-2024.pdf", 2453678, Day("2024-01-18")),
		File("4", "presentation.pptx", "/presentation.pptx", 5678234, Day("2024-01-22")),
		File("5", "photo-profile.jpg", "/photo-profile.jpg", 1234567, Day("2024-01-08")),
		File("6", "config.json", "/config.json", 2048, Day("2024-01-24")),
		File("7", "video-demo.mp4", "/video-demo.mp4", 15678234, Day("2024-01-14")),
		Folder("8", "Projets", "/Projets", Day("2024-01-01"), Day("2024-01-26")),
	}
}

// NestedRecords extends SampleRecords with records inside /Documents.
func NestedRecords() []models.FileRecord {
	return append(SampleRecords(),
		Folder("9", "Archives", "/Documents/Archives", Day("2024-02-01"), Day("2024-02-01")),
		File("10", "notes.txt", "/Documents/notes.txt", 512, Day("2024-02-02")),
		File("11", "old.zip", "/Documents/Archives/old.zip", 4096, Day("2024-02-03")),
	)
}

// File builds a file record created and modified at t.
func File(id, name, path string, size int64, t time.Time) models.FileRecord {
	ext := ""
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			ext = name[i+1:]
			break
		}
	}
	return models.FileRecord{
		ID:         id,
		Name:       name,
		Kind:       models.KindFile,
		Size:       size,
		Extension:  ext,
		CreatedAt:  t,
		ModifiedAt: t,
		Path:       path,
	}
}

// Folder builds a folder record.
func Folder(id, name, path string, created, modified time.Time) models.FileRecord {
	return models.FileRecord{
		ID:         id,
		Name:       name,
		Kind:       models.KindFolder,
		CreatedAt:  created,
		ModifiedAt: modified,
		Path:       path,
	}
}
