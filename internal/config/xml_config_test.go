package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("STORE_BACKEND", "")
}

func TestLoadConfig_WritesDefaultWhenMissing(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.xml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<FileDesk>")
	assert.Contains(t, string(data), "<TickIntervalMs>200</TickIntervalMs>")

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Uploads, again.Uploads)
	assert.Equal(t, cfg.Storage.Backend, again.Storage.Backend)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.xml")
	content := `<FileDesk>
  <Storage>
    <Backend>duckdb</Backend>
    <SeedFile>seed.yaml</SeedFile>
  </Storage>
  <Uploads>
    <DeadlineMs>500</DeadlineMs>
  </Uploads>
</FileDesk>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendDuckDB, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "seed.yaml"), cfg.Storage.SeedFile)
	assert.Empty(t, cfg.Storage.DuckDBPath)
	assert.Equal(t, 500*time.Millisecond, cfg.Deadline())
	assert.Equal(t, 200*time.Millisecond, cfg.TickInterval())
	assert.Equal(t, 8089, cfg.Server.Port)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_BACKEND", "DuckDB")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.xml"))
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, BackendDuckDB, cfg.Storage.Backend)
	assert.Equal(t, "0.0.0.0:9191", cfg.GetServerAddr())
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := map[string]string{
		"malformed":                 `<FileDesk><Server>`,
		"backend":                   `<FileDesk><Storage><Backend>redis</Backend></Storage></FileDesk>`,
		"quota":                     `<FileDesk><Storage><Quota>lots</Quota></Storage></FileDesk>`,
		"max size":                  `<FileDesk><Uploads><MaxFileSize>big</MaxFileSize></Uploads></FileDesk>`,
		"bad port":                  `<FileDesk><Server><Port>70000</Port></Server></FileDesk>`,
		"zero cleanup interval":     `<FileDesk><Uploads><CleanupIntervalSeconds>0</CleanupIntervalSeconds></Uploads></FileDesk>`,
		"negative cleanup interval": `<FileDesk><Uploads><CleanupIntervalSeconds>-5</CleanupIntervalSeconds></Uploads></FileDesk>`,
		"negative cleanup delay":    `<FileDesk><Uploads><CleanupDelaySeconds>-1</CleanupDelaySeconds></Uploads></FileDesk>`,
		"quota overflow":            `<FileDesk><Storage><Quota>10 EiB</Quota></Storage></FileDesk>`,
		"max size overflow":         `<FileDesk><Uploads><MaxFileSize>16EiB</MaxFileSize></Uploads></FileDesk>`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".xml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestSizes(t *testing.T) {
	cfg := DefaultConfig()

	quota, err := cfg.QuotaBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000_000), quota)

	limit, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(10<<20), limit)

	cfg.Storage.Quota = ""
	quota, err = cfg.QuotaBytes()
	require.NoError(t, err)
	assert.Zero(t, quota)
}

func TestAllowedExtensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Uploads.AllowedExtensions = " .PDF, txt,,.docx "
	assert.Equal(t, []string{"pdf", "txt", "docx"}, cfg.AllowedExtensions())

	cfg.Uploads.AllowedExtensions = ""
	assert.Empty(t, cfg.AllowedExtensions())
}
