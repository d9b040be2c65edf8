package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/filedesk/backend/internal/fileutil"
	"github.com/filedesk/backend/internal/models"
)

// ErrRejected wraps every validator refusal.
var ErrRejected = errors.New("upload rejected")

// Validator decides whether a local file may be uploaded.
type Validator func(file models.LocalFile) error

// LimitValidator refuses files larger than maxSize bytes (0 disables the
// check) and files whose extension is not in allowed (empty allows all).
// Extensions are compared without the leading dot, case-insensitively.
func LimitValidator(maxSize int64, allowed []string) Validator {
	exts := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts[ext] = struct{}{}
		}
	}

	return func(file models.LocalFile) error {
		if !fileutil.ValidName(file.Name) {
			return fmt.Errorf("%w: invalid file name %q", ErrRejected, file.Name)
		}
		if file.Size < 0 {
			return fmt.Errorf("%w: negative size", ErrRejected)
		}
		if maxSize > 0 && file.Size > maxSize {
			return fmt.Errorf("%w: %s exceeds the %s limit", ErrRejected,
				fileutil.FormatFileSize(file.Size), humanize.IBytes(uint64(maxSize)))
		}
		if len(exts) > 0 {
			if _, ok := exts[fileutil.Extension(file.Name)]; !ok {
				return fmt.Errorf("%w: file type .%s not allowed", ErrRejected, fileutil.Extension(file.Name))
			}
		}
		return nil
	}
}
