package fileutil

import (
	"testing"

	"github.com/filedesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"rapport-2024.pdf":  "pdf",
		"Photo.JPG":         "jpg",
		"archive.tar.gz":    "gz",
		"README":            "",
		"trailing.":         "",
		".env":              "env",
		"presentation.pptx": "pptx",
	}
	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		kind models.Kind
		want string
	}{
		{"Documents", models.KindFolder, "folder"},
		{"photo.png", models.KindFolder, "folder"},
		{"photo-profile.jpg", models.KindFile, "image"},
		{"rapport.pdf", models.KindFile, "file-text"},
		{"budget.xlsx", models.KindFile, "sheet"},
		{"slides.pptx", models.KindFile, "presentation"},
		{"config.json", models.KindFile, "code"},
		{"backup.7z", models.KindFile, "archive"},
		{"video-demo.mp4", models.KindFile, "video"},
		{"song.flac", models.KindFile, "music"},
		{"unknown.xyz", models.KindFile, "file"},
		{"noext", models.KindFile, "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IconFor(tt.name, tt.kind))
		})
	}
}

func TestCategoryIconsAreDistinct(t *testing.T) {
	seen := map[string]Category{}
	for c := CategoryGeneric; c <= CategoryAudio; c++ {
		icon := c.Icon()
		if prev, ok := seen[icon]; ok {
			t.Fatalf("categories %d and %d share icon %q", prev, c, icon)
		}
		seen[icon] = c
	}
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "image/jpeg", MimeType("a.jpeg"))
	assert.Equal(t, "application/pdf", MimeType("a.PDF"))
	assert.Equal(t, "video/mp4", MimeType("clip.mp4"))
	assert.Equal(t, "application/octet-stream", MimeType("data.bin"))
	assert.Equal(t, "application/octet-stream", MimeType("Makefile"))
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("x.webp"))
	assert.True(t, IsImage("x.SVG"))
	assert.False(t, IsImage("x.pdf"))
	assert.False(t, IsImage("jpg"))
}
