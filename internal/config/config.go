// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// docsage.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.docsage/config.toml
//   - ~/.docsage/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docsage configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend connection configuration
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Query defaults
	Query QueryConfig `toml:"query" json:"query"`

	// Local transcript cache configuration
	Cache CacheConfig `toml:"cache" json:"cache"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// BackendConfig contains the document-QA backend connection settings.
type BackendConfig struct {
	// URL is the base URL of the backend API server.
	URL string `toml:"url" json:"url"`
	// RequestTimeoutSecs bounds plain request/response calls.
	RequestTimeoutSecs int `toml:"request_timeout_secs" json:"request_timeout_secs"`
	// StreamIdleTimeoutSecs bounds the wait for the first streamed byte.
	StreamIdleTimeoutSecs int `toml:"stream_idle_timeout_secs" json:"stream_idle_timeout_secs"`
}

// QueryConfig contains retrieval defaults sent with each question.
type QueryConfig struct {
	// TopK is the number of chunks retrieved per question.
	TopK int `toml:"top_k" json:"top_k"`
}

// CacheConfig contains the offline transcript cache settings.
type CacheConfig struct {
	// Enabled turns the local transcript cache on or off.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the sqlite database path (empty = ~/.docsage/transcripts.db).
	Path string `toml:"path" json:"path"`
	// MaxSessions bounds the cache; oldest sessions are pruned first.
	MaxSessions int `toml:"max_sessions" json:"max_sessions"`
}

// UIConfig contains user interface settings.
type UIConfig struct {
	// Theme selects the color theme: "dark", "light", or "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowSources toggles source citations under bot answers
	ShowSources bool `toml:"show_sources" json:"show_sources"`
	// CompactMode reduces padding for small terminals
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			URL:                   "http://127.0.0.1:8000",
			RequestTimeoutSecs:    30,
			StreamIdleTimeoutSecs: 10,
		},

		Query: QueryConfig{
			TopK: 5,
		},

		Cache: CacheConfig{
			Enabled:     true,
			Path:        "",
			MaxSessions: 200,
		},

		UI: UIConfig{
			Theme:       "auto",
			ShowSources: true,
			CompactMode: false,
		},
	}
}

// ClientConfig converts the loaded configuration into the API client's
// configuration.
func (c *Config) ClientConfig() *api.ClientConfig {
	return &api.ClientConfig{
		BaseURL:       c.Backend.URL,
		Timeout:       time.Duration(c.Backend.RequestTimeoutSecs) * time.Second,
		StreamTimeout: time.Duration(c.Backend.StreamIdleTimeoutSecs) * time.Second,
		TopK:          c.Query.TopK,
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the docsage configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docsage"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finalize(cfg)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finalize(cfg)
		}
	}

	return finalize(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finalize(cfg)
}

func finalize(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.Backend.URL == "" {
		cfg.Backend.URL = defaults.Backend.URL
	}
	if cfg.Backend.RequestTimeoutSecs == 0 {
		cfg.Backend.RequestTimeoutSecs = defaults.Backend.RequestTimeoutSecs
	}
	if cfg.Backend.StreamIdleTimeoutSecs == 0 {
		cfg.Backend.StreamIdleTimeoutSecs = defaults.Backend.StreamIdleTimeoutSecs
	}

	if cfg.Query.TopK == 0 {
		cfg.Query.TopK = defaults.Query.TopK
	}

	if cfg.Cache.MaxSessions == 0 {
		cfg.Cache.MaxSessions = defaults.Cache.MaxSessions
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# docsage configuration file")
	fmt.Fprintln(file, "# Generated by docsage - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file. The write is atomic so a
// crash mid-save cannot truncate an existing config.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported variables:
//   - DOCSAGE_BACKEND_URL: overrides backend.url
//   - DOCSAGE_TIMEOUT_SECS: overrides backend.request_timeout_secs
//   - DOCSAGE_TOP_K: overrides query.top_k
//   - DOCSAGE_CACHE: set to "0" or "false" to disable the transcript cache
//   - DOCSAGE_CACHE_PATH: overrides cache.path
//   - DOCSAGE_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if backendURL := os.Getenv("DOCSAGE_BACKEND_URL"); backendURL != "" {
		c.Backend.URL = backendURL
	}

	if secs := os.Getenv("DOCSAGE_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.Backend.RequestTimeoutSecs = n
		}
	}

	if topK := os.Getenv("DOCSAGE_TOP_K"); topK != "" {
		if n, err := strconv.Atoi(topK); err == nil && n > 0 {
			c.Query.TopK = n
		}
	}

	if cache := os.Getenv("DOCSAGE_CACHE"); cache != "" {
		c.Cache.Enabled = cache != "0" && strings.ToLower(cache) != "false"
	}

	if path := os.Getenv("DOCSAGE_CACHE_PATH"); path != "" {
		c.Cache.Path = path
	}

	if theme := os.Getenv("DOCSAGE_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL %q, must include scheme and host", c.Backend.URL),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("unsupported scheme %q, must be http or https", u.Scheme),
		})
	}

	if c.Backend.RequestTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.request_timeout_secs",
			Message: "timeout cannot be negative",
		})
	}
	if c.Backend.StreamIdleTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.stream_idle_timeout_secs",
			Message: "timeout cannot be negative",
		})
	}

	if c.Query.TopK < 1 || c.Query.TopK > 50 {
		errs = append(errs, ValidationError{
			Field:   "query.top_k",
			Message: fmt.Sprintf("top_k %d out of range, must be 1-50", c.Query.TopK),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme %q, must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
