package listing

import (
	"slices"
	"strings"
	"testing"

	"github.com/filedesk/backend/internal/models"
	"github.com/filedesk/backend/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ids(records []models.FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApply_DefaultQueryListsEverythingByName(t *testing.T) {
	got := Apply(testutil.SampleRecords(), DefaultQuery())
	want := []string{"1", "2", "8", "6", "5", "4", "3", "7"}
	if diff := cmp.Diff(want, ids(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_SearchIsCaseInsensitive(t *testing.T) {
	q := DefaultQuery()
	q.Search = "PHOTO"
	got := Apply(testutil.SampleRecords(), q)
	assert.Equal(t, []string{"5"}, ids(got))

	q.Search = "o"
	for _, r := range Apply(testutil.SampleRecords(), q) {
		assert.Contains(t, strings.ToLower(r.Name), "o")
	}
}

func TestApply_EmptySearchKeepsAll(t *testing.T) {
	records := testutil.SampleRecords()
	assert.Len(t, Apply(records, Query{}), len(records))
}

func TestApply_PathPrefix(t *testing.T) {
	records := testutil.NestedRecords()
	q := DefaultQuery()
	q.Path = "/Documents"

	got := Apply(records, q)
	assert.NotEmpty(t, got)
	for _, r := range got {
		assert.True(t, strings.HasPrefix(r.Path, "/Documents"), r.Path)
	}
	assert.ElementsMatch(t, []string{"1", "9", "10", "11"}, ids(got))
}

func TestApply_SizeDescIsReverseOfAsc(t *testing.T) {
	records := testutil.SampleRecords()
	asc := Apply(records, Query{SortBy: models.SortBySize, Order: models.SortAsc})
	desc := Apply(records, Query{SortBy: models.SortBySize, Order: models.SortDesc})

	assert.True(t, slices.IsSortedFunc(asc, func(a, b models.FileRecord) int {
		return int(a.Size - b.Size)
	}))

	reversed := slices.Clone(asc)
	slices.Reverse(reversed)
	if diff := cmp.Diff(ids(reversed), ids(desc)); diff != "" {
		t.Errorf("desc is not the reverse of asc (-want +got):\n%s", diff)
	}
	// folders tie on size 0 and keep collection order ascending
	assert.Equal(t, []string{"1", "2", "8"}, ids(asc[:3]))
}

func TestApply_SortByModified(t *testing.T) {
	got := Apply(testutil.SampleRecords(), Query{SortBy: models.SortByModified, Order: models.SortDesc})
	assert.Equal(t, "8", got[0].ID)
	assert.Equal(t, "5", got[len(got)-1].ID)
}

func TestApply_SortByType(t *testing.T) {
	got := Apply(testutil.SampleRecords(), Query{SortBy: models.SortByType})
	assert.Equal(t, []string{"3", "4", "5", "6", "7", "1", "2", "8"}, ids(got))
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	records := testutil.SampleRecords()
	before := slices.Clone(records)
	Apply(records, Query{SortBy: models.SortBySize, Order: models.SortDesc})
	if diff := cmp.Diff(before, records); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
}

func TestApply_EmptyCollection(t *testing.T) {
	assert.Empty(t, Apply(nil, DefaultQuery()))
}

func TestParseSortKey(t *testing.T) {
	tests := map[string]models.SortKey{
		"name":     models.SortByName,
		"SIZE":     models.SortBySize,
		"modified": models.SortByModified,
		"type":     models.SortByType,
		"":         models.SortByName,
		"color":    models.SortByName,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseSortKey(in), in)
	}
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, models.SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, models.SortDesc, ParseSortOrder("DESC"))
	assert.Equal(t, models.SortAsc, ParseSortOrder("asc"))
	assert.Equal(t, models.SortAsc, ParseSortOrder("sideways"))
}
