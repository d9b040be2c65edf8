package upload

import (
	"errors"
	"testing"

	"github.com/filedesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLimitValidator(t *testing.T) {
	v := LimitValidator(10*1024*1024, []string{".pdf", "PNG", " .mp4 ", ""})

	tests := []struct {
		name    string
		file    models.LocalFile
		wantErr bool
	}{
		{"allowed pdf", models.LocalFile{Name: "a.pdf", Size: 1024}, false},
		{"allowed upper-case ext", models.LocalFile{Name: "a.PNG", Size: 1}, false},
		{"exactly at limit", models.LocalFile{Name: "a.mp4", Size: 10 * 1024 * 1024}, false},
		{"over limit", models.LocalFile{Name: "a.mp4", Size: 10*1024*1024 + 1}, true},
		{"disallowed type", models.LocalFile{Name: "a.exe", Size: 1}, true},
		{"no extension", models.LocalFile{Name: "README", Size: 1}, true},
		{"empty name", models.LocalFile{Name: "", Size: 1}, true},
		{"slash in name", models.LocalFile{Name: "a/b.pdf", Size: 1}, true},
		{"negative size", models.LocalFile{Name: "a.pdf", Size: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrRejected))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLimitValidator_NoLimits(t *testing.T) {
	v := LimitValidator(0, nil)
	assert.NoError(t, v(models.LocalFile{Name: "anything.bin", Size: 1 << 40}))
}
