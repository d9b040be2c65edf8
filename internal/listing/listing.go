// Package listing derives the filtered, sorted view of a record collection.
package listing

import (
	"slices"
	"strings"

	"github.com/filedesk/backend/internal/models"
)

// Query holds every input of the view besides the collection itself.
type Query struct {
	Search string
	Path   string
	SortBy models.SortKey
	Order  models.SortOrder
}

// DefaultQuery lists the root folder by name, ascending.
func DefaultQuery() Query {
	return Query{Path: "/", SortBy: models.SortByName, Order: models.SortAsc}
}

// ParseSortKey maps user input to a sort key, falling back to name.
func ParseSortKey(s string) models.SortKey {
	switch k := models.SortKey(strings.ToLower(s)); k {
	case models.SortByName, models.SortBySize, models.SortByModified, models.SortByType:
		return k
	default:
		return models.SortByName
	}
}

// ParseSortOrder maps user input to a sort order, falling back to asc.
func ParseSortOrder(s string) models.SortOrder {
	if models.SortOrder(strings.ToLower(s)) == models.SortDesc {
		return models.SortDesc
	}
	return models.SortAsc
}

// Apply returns the records whose name contains q.Search (case-insensitive)
// and whose path starts with q.Path, ordered by q.SortBy.
//
// Ascending order is stable with respect to records. Descending order is
// the exact reverse of ascending, ties included. records is not modified.
func Apply(records []models.FileRecord, q Query) []models.FileRecord {
	search := strings.ToLower(q.Search)

	out := make([]models.FileRecord, 0, len(records))
	for _, r := range records {
		if !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		if !strings.HasPrefix(r.Path, q.Path) {
			continue
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, comparator(q.SortBy))
	if q.Order == models.SortDesc {
		slices.Reverse(out)
	}
	return out
}

func comparator(key models.SortKey) func(a, b models.FileRecord) int {
	switch key {
	case models.SortBySize:
		return func(a, b models.FileRecord) int {
			switch {
			case a.Size < b.Size:
				return -1
			case a.Size > b.Size:
				return 1
			}
			return 0
		}
	case models.SortByModified:
		return func(a, b models.FileRecord) int {
			return a.ModifiedAt.Compare(b.ModifiedAt)
		}
	case models.SortByType:
		return func(a, b models.FileRecord) int {
			return strings.Compare(string(a.Kind), string(b.Kind))
		}
	default:
		return func(a, b models.FileRecord) int {
			return strings.Compare(a.Name, b.Name)
		}
	}
}
