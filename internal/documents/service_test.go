package documents

import (
	"strings"
	"testing"
	"time"

	"github.com/filedesk/backend/internal/models"
	"github.com/filedesk/backend/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newService(t *testing.T) (*Service, *upload.Manager) {
	t.Helper()
	seed, err := DefaultSeed()
	require.NoError(t, err)

	uploads := upload.NewManager(upload.Options{
		TickInterval: 2 * time.Millisecond,
		Deadline:     time.Second,
		Increment:    func() float64 { return 50 },
	})
	t.Cleanup(uploads.Close)
	return NewService(seed, uploads, nil), uploads
}

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func docIDs(docs []models.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestDefaultSeed(t *testing.T) {
	docs, err := DefaultSeed()
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "Rapport Annuel 2024", docs[0].Title)
	assert.Equal(t, []string{"rapport", "finance", "2024"}, docs[0].Tags)
	assert.Equal(t, "Présentations", docs[1].Category.Name)
	assert.Equal(t, 2, docs[1].Version)
}

func TestParseSeed_Errors(t *testing.T) {
	_, err := ParseSeed(strings.NewReader("documents:\n  - title: no id\n"))
	assert.Error(t, err)

	_, err = ParseSeed(strings.NewReader("documents:\n  - id: a\n  - id: a\n"))
	assert.Error(t, err)

	docs, err := ParseSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestService_List(t *testing.T) {
	s, _ := newService(t)

	tests := []struct {
		name   string
		filter models.DocumentFilter
		want   []string
	}{
		{name: "no filter", want: []string{"1", "2", "3"}},
		{name: "search title", filter: models.DocumentFilter{SearchTerm: "MANUEL"}, want: []string{"3"}},
		{name: "search description", filter: models.DocumentFilter{SearchTerm: "financier"}, want: []string{"1"}},
		{name: "search tag", filter: models.DocumentFilter{SearchTerm: "alph"}, want: []string{"2"}},
		{name: "category", filter: models.DocumentFilter{Category: "3"}, want: []string{"3"}},
		{name: "date from", filter: models.DocumentFilter{DateFrom: day("2024-01-12")}, want: []string{"1", "2"}},
		{name: "date to inclusive", filter: models.DocumentFilter{DateTo: day("2024-01-12")}, want: []string{"2", "3"}},
		{name: "any tag", filter: models.DocumentFilter{Tags: []string{"finance", "manuel"}}, want: []string{"1", "3"}},
		{name: "tags exact", filter: models.DocumentFilter{Tags: []string{"fin"}}, want: []string{}},
		{
			name:   "combined",
			filter: models.DocumentFilter{SearchTerm: "rapport", Category: "2"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, docIDs(s.List(tt.filter)))
		})
	}
}

func TestService_ListReturnsCopies(t *testing.T) {
	s, _ := newService(t)
	docs := s.List(models.DocumentFilter{})
	docs[0].Tags[0] = "changed"

	d, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "rapport", d.Tags[0])
}

func TestService_GetAndDelete(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.True(t, s.Delete("2"))
	assert.False(t, s.Delete("2"))
	assert.Equal(t, 2, s.Len())

	_, err = s.Get("2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update(t *testing.T) {
	s, _ := newService(t)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	title := "Rapport 2024 (final)"
	status := models.Label{ID: "1", Name: "Publié", Color: "#4CAF50"}
	d, err := s.Update("2", models.DocumentPatch{Title: &title, Status: &status, Tags: []string{"final"}})
	require.NoError(t, err)

	assert.Equal(t, title, d.Title)
	assert.Equal(t, "Présentation du nouveau projet Alpha", d.Description)
	assert.Equal(t, status, d.Status)
	assert.Equal(t, []string{"final"}, d.Tags)
	assert.Equal(t, fixed, d.LastModified)

	_, err = s.Update("missing", models.DocumentPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UploadPrependsDocument(t *testing.T) {
	s, uploads := newService(t)

	task := s.Upload(models.LocalFile{Name: "budget.xlsx", Size: 4096}, Metadata{Tags: []string{"finance"}})
	uploads.Wait()

	got, ok := uploads.Get(task.ID)
	require.True(t, ok)
	require.Equal(t, models.UploadStatusCompleted, got.Status)

	docs := s.List(models.DocumentFilter{})
	require.Len(t, docs, 4)
	d := docs[0]
	assert.Equal(t, got.RecordID, d.ID)
	assert.Equal(t, "budget.xlsx", d.Title)
	assert.Equal(t, "budget.xlsx", d.FileName)
	assert.Equal(t, int64(4096), d.FileSize)
	assert.Equal(t, DefaultCategory, d.Category)
	assert.Equal(t, ReviewStatus, d.Status)
	assert.Equal(t, CurrentUser, d.UploadedBy)
	assert.Equal(t, 1, d.Version)
	assert.Equal(t, "/documents/budget.xlsx", d.FilePath)
	assert.Equal(t, []string{"finance"}, d.Tags)
}

func TestService_UploadKeepsMetadata(t *testing.T) {
	s, uploads := newService(t)
	cat := s.Categories()[2]

	s.Upload(models.LocalFile{Name: "guide.pdf", Size: 1}, Metadata{
		Title:       "Guide",
		Description: "Guide interne",
		Category:    &cat,
	})
	uploads.Wait()

	d := s.List(models.DocumentFilter{})[0]
	assert.Equal(t, "Guide", d.Title)
	assert.Equal(t, "Guide interne", d.Description)
	assert.Equal(t, cat, d.Category)
	assert.Equal(t, "application/pdf", d.MimeType)
	assert.NotNil(t, d.Tags)
}

func TestService_Stats(t *testing.T) {
	s, _ := newService(t)

	st := s.Stats(*day("2024-01-20"))
	assert.Equal(t, 3, st.TotalDocuments)
	assert.Equal(t, "8.93 MB", st.TotalSize)
	assert.Equal(t, 1, st.RecentUploads)
	assert.Equal(t, 3, st.CategoriesCount)

	s.Delete("3")
	st = s.Stats(*day("2030-01-01"))
	assert.Equal(t, 2, st.TotalDocuments)
	assert.Zero(t, st.RecentUploads)
	assert.Equal(t, 2, st.CategoriesCount)
}

func TestService_Categories(t *testing.T) {
	s, _ := newService(t)
	cats := s.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, "Rapports", cats[0].Name)

	cats[0].Name = "changed"
	assert.Equal(t, "Rapports", s.Categories()[0].Name)
}
