package main

import (
	"bytes"
	"testing"

	"github.com/filedesk/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "filedesk dev (built unknown)\n", out.String())
}

func TestOpenStore(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendDuckDB} {
		t.Run(backend, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Storage.Backend = backend
			cfg.Storage.DuckDBPath = ""

			store, err := openStore(t.Context(), cfg)
			require.NoError(t, err)
			defer store.Close()

			records, err := store.List(t.Context())
			require.NoError(t, err)
			assert.Len(t, records, 8)
		})
	}
}

func TestOpenStoreMissingSeed(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.SeedFile = t.TempDir() + "/missing.yaml"

	_, err := openStore(t.Context(), cfg)
	assert.Error(t, err)
}
