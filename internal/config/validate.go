package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cloudproxy/internal/services"
)

// Validate ensures the service-level configuration is usable. Request values
// are checked separately by Request.Validate once flags have been applied.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return services.Wrap(services.ErrConfiguration, "", "", "", err)
	}
	if err := c.validateProcessing(); err != nil {
		return services.Wrap(services.ErrConfiguration, "", "", "", err)
	}
	if err := c.validateAdaptation(); err != nil {
		return services.Wrap(services.ErrConfiguration, "", "", "", err)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OriginalStore) == "" {
		return errors.New("paths.original_store must be set")
	}
	if strings.TrimSpace(c.Paths.RebuiltStore) == "" {
		return errors.New("paths.rebuilt_store must be set")
	}
	if c.Paths.OriginalStore == c.Paths.RebuiltStore {
		return errors.New("paths.original_store and paths.rebuilt_store must differ")
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if c.Processing.TimeoutSeconds <= 0 {
		return errors.New("processing.timeout_seconds must be positive")
	}
	if c.Processing.TimeoutSeconds > maxTimeoutSeconds {
		return fmt.Errorf("processing.timeout_seconds must not exceed %d", maxTimeoutSeconds)
	}
	if c.Adaptation.ConnectTimeoutSeconds > maxTimeoutSeconds {
		return fmt.Errorf("adaptation.connect_timeout_seconds must not exceed %d", maxTimeoutSeconds)
	}
	if c.Journal.RetentionDays > maxRetentionDays {
		return fmt.Errorf("journal.retention_days must not exceed %d", maxRetentionDays)
	}
	if c.Logging.RetentionDays > maxRetentionDays {
		return fmt.Errorf("logging.retention_days must not exceed %d", maxRetentionDays)
	}
	return nil
}

func (c *Config) validateAdaptation() error {
	switch c.Adaptation.Transport {
	case TransportHTTP:
		if c.Adaptation.URL == "" {
			return errors.New("adaptation.url must be set when adaptation.transport is http")
		}
		if !strings.HasPrefix(c.Adaptation.URL, "http://") && !strings.HasPrefix(c.Adaptation.URL, "https://") {
			return fmt.Errorf("adaptation.url %q must use http or https", c.Adaptation.URL)
		}
	case TransportRPC:
		if c.Adaptation.Socket == "" {
			return errors.New("adaptation.socket must be set when adaptation.transport is rpc")
		}
	default:
		return fmt.Errorf("adaptation.transport: unsupported value %q", c.Adaptation.Transport)
	}
	return nil
}

// Validate checks the per-invocation values. The file id is deliberately not
// validated; malformed ids are replaced during the cycle.
func (r Request) Validate() error {
	if strings.TrimSpace(r.InputPath) == "" {
		return services.Wrap(services.ErrConfiguration, "", "", "input file path must be set", nil)
	}
	info, err := os.Stat(r.InputPath)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "", "", fmt.Sprintf("input file %q is not accessible", r.InputPath), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrConfiguration, "", "", fmt.Sprintf("input file %q is a directory", r.InputPath), nil)
	}
	if strings.TrimSpace(r.OutputPath) == "" {
		return services.Wrap(services.ErrConfiguration, "", "", "output file path must be set", nil)
	}
	return nil
}
