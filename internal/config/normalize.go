package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cloudproxy/internal/services"
)

// Environment variable names honoured on top of the configuration file.
const (
	EnvOriginalStore     = "ORIGINAL_STORE_PATH"
	EnvRebuiltStore      = "REBUILT_STORE_PATH"
	EnvProcessingTimeout = "PROCESSING_TIMEOUT_SECONDS"
	EnvAdaptationURL     = "ADAPTATION_SERVICE_URL"
	EnvAdaptationSocket  = "ADAPTATION_SERVICE_SOCKET"
	EnvAdaptationAPIKey  = "ADAPTATION_API_KEY"
	EnvFileID            = "FILE_ID"
	EnvInputPath         = "INPUT_FILEPATH"
	EnvOutputPath        = "OUTPUT_FILEPATH"
	EnvReturnConfigPath  = "RETURN_CONFIG_FILEPATH"
)

func (c *Config) applyEnvironment() error {
	overrides := []struct {
		name   string
		target *string
	}{
		{EnvOriginalStore, &c.Paths.OriginalStore},
		{EnvRebuiltStore, &c.Paths.RebuiltStore},
		{EnvAdaptationURL, &c.Adaptation.URL},
		{EnvAdaptationSocket, &c.Adaptation.Socket},
		{EnvAdaptationAPIKey, &c.Adaptation.APIKey},
		{EnvFileID, &c.Request.FileID},
		{EnvInputPath, &c.Request.InputPath},
		{EnvOutputPath, &c.Request.OutputPath},
		{EnvReturnConfigPath, &c.Request.ReturnConfigPath},
	}
	for _, o := range overrides {
		if value, ok := os.LookupEnv(o.name); ok && strings.TrimSpace(value) != "" {
			*o.target = strings.TrimSpace(value)
		}
	}

	if value, ok := os.LookupEnv(EnvProcessingTimeout); ok && strings.TrimSpace(value) != "" {
		seconds, err := ParseSeconds(value)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "", EnvProcessingTimeout, "", err)
		}
		c.Processing.TimeoutSeconds = seconds
	}
	return nil
}

// ParseSeconds accepts either a whole number of seconds ("90") or a Go
// duration ("1m30s") and returns whole seconds.
func ParseSeconds(value string) (int, error) {
	value = strings.TrimSpace(value)
	if seconds, err := strconv.Atoi(value); err == nil {
		return seconds, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return int(d / time.Second), nil
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAdaptation()
	c.normalizeLogging()
	if c.Journal.RetentionDays < 0 {
		c.Journal.RetentionDays = 0
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OriginalStore, err = expandPath(strings.TrimSpace(c.Paths.OriginalStore)); err != nil {
		return fmt.Errorf("paths.original_store: %w", err)
	}
	if c.Paths.RebuiltStore, err = expandPath(strings.TrimSpace(c.Paths.RebuiltStore)); err != nil {
		return fmt.Errorf("paths.rebuilt_store: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = defaultLockDir
	}
	if c.Paths.LockDir, err = expandPath(c.Paths.LockDir); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAdaptation() {
	c.Adaptation.Transport = strings.ToLower(strings.TrimSpace(c.Adaptation.Transport))
	if c.Adaptation.Transport == "" {
		c.Adaptation.Transport = defaultTransport
	}
	c.Adaptation.URL = strings.TrimRight(strings.TrimSpace(c.Adaptation.URL), "/")
	c.Adaptation.Socket = strings.TrimSpace(c.Adaptation.Socket)
	c.Adaptation.APIKey = strings.TrimSpace(c.Adaptation.APIKey)
	if c.Adaptation.ConnectTimeoutSeconds <= 0 {
		c.Adaptation.ConnectTimeoutSeconds = defaultConnectTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
