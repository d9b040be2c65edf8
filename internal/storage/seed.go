package storage

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/filedesk/backend/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Files []models.FileRecord `yaml:"files"`
}

// DefaultSeed returns the built-in demo records.
func DefaultSeed() ([]models.FileRecord, error) {
	return ParseSeed(bytes.NewReader(defaultSeed))
}

// LoadSeed reads seed records from a YAML file. An empty path selects the
// built-in records.
func LoadSeed(path string) ([]models.FileRecord, error) {
	if path == "" {
		return DefaultSeed()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	return ParseSeed(f)
}

// ParseSeed decodes and validates seed records.
func ParseSeed(r io.Reader) ([]models.FileRecord, error) {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}

	for i, rec := range seed.Files {
		if rec.Kind != models.KindFile && rec.Kind != models.KindFolder {
			return nil, fmt.Errorf("seed record %d (%s): unknown type %q", i, rec.ID, rec.Kind)
		}
		if err := validate(rec); err != nil {
			return nil, fmt.Errorf("seed record %d: %w", i, err)
		}
	}
	return seed.Files, nil
}
