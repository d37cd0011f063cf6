package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"cloudproxy/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains store roots and auxiliary directories.
type Paths struct {
	OriginalStore string `toml:"original_store"`
	RebuiltStore  string `toml:"rebuilt_store"`
	LogDir        string `toml:"log_dir"`
	LockDir       string `toml:"lock_dir"`
}

// Processing bounds a single adaptation cycle.
type Processing struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Adaptation describes how to reach the adaptation service.
type Adaptation struct {
	Transport             string `toml:"transport"`
	URL                   string `toml:"url"`
	Socket                string `toml:"socket"`
	APIKey                string `toml:"api_key"`
	ConnectTimeoutSeconds int    `toml:"connect_timeout_seconds"`
}

// Journal controls the SQLite cycle journal.
type Journal struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`
	RetentionDays int    `toml:"retention_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Request holds the per-invocation values supplied by the calling gateway.
// They are never read from the configuration file.
type Request struct {
	FileID           string `toml:"-"`
	InputPath        string `toml:"-"`
	OutputPath       string `toml:"-"`
	ReturnConfigPath string `toml:"-"`
}

// Config encapsulates all configuration values for cloudproxy.
//
// Configuration sections by subsystem:
//   - Paths: original/rebuilt store roots, log and lock directories
//   - Processing: the per-cycle timeout
//   - Adaptation: transport and endpoint of the adaptation service
//   - Journal: SQLite record of finished cycles
//   - Logging: log format and level
//   - Request: per-invocation values from env/flags
type Config struct {
	Paths      Paths      `toml:"paths"`
	Processing Processing `toml:"processing"`
	Adaptation Adaptation `toml:"adaptation"`
	Journal    Journal    `toml:"journal"`
	Logging    Logging    `toml:"logging"`
	Request    Request    `toml:"-"`
}

// ProcessingTimeout returns the configured cycle deadline duration.
func (c *Config) ProcessingTimeout() time.Duration {
	return time.Duration(c.Processing.TimeoutSeconds) * time.Second
}

// ConnectTimeout returns the adaptation connect timeout.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Adaptation.ConnectTimeoutSeconds) * time.Second
}

// JournalRetention returns how long journal rows are kept; zero keeps them forever.
func (c *Config) JournalRetention() time.Duration {
	return time.Duration(c.Journal.RetentionDays) * 24 * time.Hour
}

// ReturnConfigPathSpecified reports whether the gateway passed a return
// configuration path.
func (c *Config) ReturnConfigPathSpecified() bool {
	return strings.TrimSpace(c.Request.ReturnConfigPath) != ""
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Environment
// overrides are applied after the file is decoded. The returned config has
// all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "", "parse config", resolvedPath, err)
		}
	}

	if err := cfg.applyEnvironment(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cloudproxy.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the store roots and auxiliary directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OriginalStore, c.Paths.RebuiltStore, c.Paths.LockDir}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	if c.Journal.Enabled {
		dirs = append(dirs, filepath.Dir(c.Journal.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
