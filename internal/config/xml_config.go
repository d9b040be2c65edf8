// Package config provides XML-based configuration management.
package config

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	BackendMemory = "memory"
	BackendDuckDB = "duckdb"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"FileDesk"`

	Server  ServerConfig  `xml:"Server"`
	Storage StorageConfig `xml:"Storage"`
	Uploads UploadsConfig `xml:"Uploads"`
	Logging LoggingConfig `xml:"Logging"`
	Metrics MetricsConfig `xml:"Metrics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port                   int    `xml:"Port"`
	BindAddress            string `xml:"BindAddress"`
	EnableCORS             bool   `xml:"EnableCORS"`
	AllowOrigins           string `xml:"AllowOrigins"`
	ReadTimeout            int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout           int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout            int    `xml:"IdleTimeoutSeconds"`
	ShutdownTimeout        int    `xml:"ShutdownTimeoutSeconds"`
	BodyLimit              string `xml:"BodyLimit"`
	WebSocketMaxMessageKiB int    `xml:"WebSocketMaxMessageSizeKB"`
}

// StorageConfig selects and seeds the record store
type StorageConfig struct {
	Backend       string `xml:"Backend"`    // memory or duckdb
	DuckDBPath    string `xml:"DuckDBPath"` // empty keeps DuckDB in memory
	DuckDBThreads int    `xml:"DuckDBThreads"`
	SeedFile      string `xml:"SeedFile"` // empty uses the built-in records
	Quota         string `xml:"Quota"`
}

// UploadsConfig tunes the upload simulator
type UploadsConfig struct {
	TickIntervalMs         int     `xml:"TickIntervalMs"`
	DeadlineMs             int     `xml:"DeadlineMs"`
	MaxIncrement           float64 `xml:"MaxIncrement"`
	CleanupDelaySeconds    int     `xml:"CleanupDelaySeconds"`
	CleanupIntervalSeconds int     `xml:"CleanupIntervalSeconds"`
	EnforceLimits          bool    `xml:"EnforceLimits"`
	MaxFileSize            string  `xml:"MaxFileSize"`
	AllowedExtensions      string  `xml:"AllowedExtensions"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level                string `xml:"Level"`
	Format               string `xml:"Format"` // json or console
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `xml:"Enabled"`
	Path    string `xml:"Path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:                   8089,
			BindAddress:            "0.0.0.0",
			EnableCORS:             true,
			AllowOrigins:           "*",
			ReadTimeout:            30,
			WriteTimeout:           30,
			IdleTimeout:            120,
			ShutdownTimeout:        10,
			BodyLimit:              "1M",
			WebSocketMaxMessageKiB: 64,
		},
		Storage: StorageConfig{
			Backend:       BackendMemory,
			DuckDBThreads: 2,
			Quota:         "10 GB",
		},
		Uploads: UploadsConfig{
			TickIntervalMs:         200,
			DeadlineMs:             3000,
			MaxIncrement:           20,
			CleanupDelaySeconds:    3,
			CleanupIntervalSeconds: 1,
			EnforceLimits:          false,
			MaxFileSize:            "10MiB",
			AllowedExtensions:      ".pdf,.doc,.docx,.ppt,.pptx,.xls,.xlsx,.txt",
		},
		Logging: LoggingConfig{
			Level:                "info",
			Format:               "json",
			EnableRequestLogging: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		return config, config.Validate()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- FileDesk Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be defaulted.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendDuckDB:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Uploads.CleanupIntervalSeconds <= 0 {
		return fmt.Errorf("invalid cleanup interval %ds", c.Uploads.CleanupIntervalSeconds)
	}
	if c.Uploads.CleanupDelaySeconds < 0 {
		return fmt.Errorf("invalid cleanup delay %ds", c.Uploads.CleanupDelaySeconds)
	}
	if _, err := c.QuotaBytes(); err != nil {
		return err
	}
	if _, err := c.MaxFileSizeBytes(); err != nil {
		return err
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Storage.SeedFile != "" && !filepath.IsAbs(c.Storage.SeedFile) {
		c.Storage.SeedFile = filepath.Join(configDir, c.Storage.SeedFile)
	}
	if c.Storage.DuckDBPath != "" && !filepath.IsAbs(c.Storage.DuckDBPath) {
		c.Storage.DuckDBPath = filepath.Join(configDir, c.Storage.DuckDBPath)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// TickInterval returns the upload progress tick.
func (c *AppConfig) TickInterval() time.Duration {
	return time.Duration(c.Uploads.TickIntervalMs) * time.Millisecond
}

// Deadline returns the forced completion delay of an upload.
func (c *AppConfig) Deadline() time.Duration {
	return time.Duration(c.Uploads.DeadlineMs) * time.Millisecond
}

// CleanupDelay returns how long finished uploads stay visible.
func (c *AppConfig) CleanupDelay() time.Duration {
	return time.Duration(c.Uploads.CleanupDelaySeconds) * time.Second
}

// CleanupInterval returns how often finished uploads are swept.
func (c *AppConfig) CleanupInterval() time.Duration {
	return time.Duration(c.Uploads.CleanupIntervalSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

// QuotaBytes parses the storage quota. An empty quota means unlimited (0).
func (c *AppConfig) QuotaBytes() (int64, error) {
	return parseSize("Quota", c.Storage.Quota)
}

// MaxFileSizeBytes parses the upload size limit. An empty value means no
// limit (0).
func (c *AppConfig) MaxFileSizeBytes() (int64, error) {
	return parseSize("MaxFileSize", c.Uploads.MaxFileSize)
}

// AllowedExtensions returns the upload extension allowlist, lower-cased and
// without leading dots.
func (c *AppConfig) AllowedExtensions() []string {
	var out []string
	for _, ext := range strings.Split(c.Uploads.AllowedExtensions, ",") {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

func parseSize(field, value string) (int64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("invalid %s %q: too large", field, value)
	}
	return int64(n), nil
}
