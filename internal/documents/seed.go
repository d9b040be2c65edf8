package documents

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/filedesk/backend/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in demo documents.
func DefaultSeed() ([]models.Document, error) {
	return ParseSeed(bytes.NewReader(defaultSeed))
}

// ParseSeed decodes a YAML list of documents.
func ParseSeed(r io.Reader) ([]models.Document, error) {
	var seed struct {
		Documents []models.Document `yaml:"documents"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing document seed: %w", err)
	}

	ids := make(map[string]struct{}, len(seed.Documents))
	for i, d := range seed.Documents {
		if d.ID == "" {
			return nil, fmt.Errorf("document %d: empty id", i)
		}
		if _, ok := ids[d.ID]; ok {
			return nil, fmt.Errorf("document %d: duplicate id %s", i, d.ID)
		}
		ids[d.ID] = struct{}{}
	}
	return seed.Documents, nil
}
