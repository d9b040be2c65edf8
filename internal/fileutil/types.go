package fileutil

import (
	"strings"

	"github.com/filedesk/backend/internal/models"
)

// Category groups files by what they hold. Every category maps to exactly
// one icon name.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryFolder
	CategoryImage
	CategoryDocument
	CategorySpreadsheet
	CategoryPresentation
	CategoryCode
	CategoryArchive
	CategoryVideo
	CategoryAudio
)

// Icon returns the icon name the front ends render for the category.
func (c Category) Icon() string {
	switch c {
	case CategoryFolder:
		return "folder"
	case CategoryImage:
		return "image"
	case CategoryDocument:
		return "file-text"
	case CategorySpreadsheet:
		return "sheet"
	case CategoryPresentation:
		return "presentation"
	case CategoryCode:
		return "code"
	case CategoryArchive:
		return "archive"
	case CategoryVideo:
		return "video"
	case CategoryAudio:
		return "music"
	case CategoryGeneric:
		return "file"
	}
	return "file"
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return c.Icon()
}

// Extension returns the lower-cased text after the last dot of name, or ""
// when name has no dot or ends with one.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// CategoryOf classifies a record by kind and extension.
func CategoryOf(name string, kind models.Kind) Category {
	if kind == models.KindFolder {
		return CategoryFolder
	}

	switch Extension(name) {
	case "jpg", "jpeg", "png", "gif", "svg", "webp":
		return CategoryImage
	case "pdf", "doc", "docx", "txt":
		return CategoryDocument
	case "xls", "xlsx", "csv":
		return CategorySpreadsheet
	case "ppt", "pptx":
		return CategoryPresentation
	case "js", "ts", "jsx", "tsx", "html", "css", "json":
		return CategoryCode
	case "zip", "rar", "7z":
		return CategoryArchive
	case "mp4", "avi", "mov":
		return CategoryVideo
	case "mp3", "wav", "flac":
		return CategoryAudio
	default:
		return CategoryGeneric
	}
}

// IconFor is shorthand for CategoryOf(name, kind).Icon().
func IconFor(name string, kind models.Kind) string {
	return CategoryOf(name, kind).Icon()
}

// IsImage reports whether name has an image extension.
func IsImage(name string) bool {
	return CategoryOf(name, models.KindFile) == CategoryImage
}

const defaultMimeType = "application/octet-stream"

// MimeType guesses a MIME type from the file name.
func MimeType(name string) string {
	switch Extension(name) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "svg":
		return "image/svg+xml"
	case "webp":
		return "image/webp"
	case "pdf":
		return "application/pdf"
	case "txt":
		return "text/plain"
	case "csv":
		return "text/csv"
	case "json":
		return "application/json"
	case "doc":
		return "application/msword"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "zip":
		return "application/zip"
	case "mp4":
		return "video/mp4"
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	default:
		return defaultMimeType
	}
}
