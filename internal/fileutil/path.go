package fileutil

import (
	"strings"

	"github.com/filedesk/backend/internal/models"
)

// RootName is the display name of the root breadcrumb.
const RootName = "Racine"

// Breadcrumbs builds the navigation trail for path, starting with the root.
// Empty segments are dropped, so "", "/" and "//" all yield the root only.
func Breadcrumbs(path string) []models.Breadcrumb {
	crumbs := []models.Breadcrumb{{Name: RootName, Path: "/"}}

	current := ""
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		current += "/" + part
		crumbs = append(crumbs, models.Breadcrumb{Name: part, Path: current})
	}
	return crumbs
}

// Join places name inside folder. The root folder is "/" or "".
func Join(folder, name string) string {
	folder = strings.TrimRight(folder, "/")
	return folder + "/" + name
}

// NormalizeFolder makes folder absolute and strips trailing slashes, keeping
// "/" for the root.
func NormalizeFolder(folder string) string {
	folder = "/" + strings.Trim(folder, "/")
	return folder
}

// Parent returns the folder containing path.
func Parent(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i <= 0 {
		return "/"
	}
	return path[:i]
}

// ValidName reports whether name can be used as a single path segment.
func ValidName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && name != "." && name != ".." && !strings.Contains(name, "/")
}
