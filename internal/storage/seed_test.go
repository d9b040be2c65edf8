package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/filedesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	records, err := DefaultSeed()
	require.NoError(t, err)
	require.Len(t, records, 8)

	folders := 0
	for _, r := range records {
		if r.IsFolder() {
			folders++
			assert.Zero(t, r.Size, r.Name)
		}
		assert.Equal(t, "/"+r.Name, r.Path)
	}
	assert.Equal(t, 3, folders)
	assert.Equal(t, "rapport-2024.pdf", records[2].Name)
	assert.Equal(t, int64(2453678), records[2].Size)

	_, err = NewMemoryStore(records...)
	assert.NoError(t, err)
}

func TestParseSeed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr string
	}{
		{name: "empty document", input: "", want: 0},
		{
			name: "single folder",
			input: `files:
  - id: a
    name: A
    type: folder
    createdAt: 2024-01-01T00:00:00Z
    modifiedAt: 2024-01-01T00:00:00Z
    path: /A`,
			want: 1,
		},
		{
			name: "unknown kind",
			input: `files:
  - id: a
    name: A
    type: link
    path: /A`,
			wantErr: "unknown type",
		},
		{
			name: "unknown field",
			input: `files:
  - id: a
    colour: red`,
			wantErr: "parsing seed",
		},
		{
			name: "relative path",
			input: `files:
  - id: a
    name: A
    type: file
    path: A`,
			wantErr: "must start with /",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeed(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestLoadSeed(t *testing.T) {
	records, err := LoadSeed("")
	require.NoError(t, err)
	assert.Len(t, records, 8)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `files:
  - id: x
    name: x.txt
    type: file
    size: 3
    createdAt: 2024-03-01T00:00:00Z
    modifiedAt: 2024-03-01T00:00:00Z
    path: /x.txt
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	records, err = LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.KindFile, records[0].Kind)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
