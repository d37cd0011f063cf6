package main

import (
	"errors"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cloudproxy/internal/config"
	"cloudproxy/internal/services"
)

// requestFlags holds the per-invocation values given on the command line.
// Non-empty values take precedence over the environment.
type requestFlags struct {
	fileID       string
	input        string
	output       string
	returnConfig string
	timeout      string
}

type commandContext struct {
	configFlag *string
	request    *requestFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, request *requestFlags) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		request:    request,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			if !errors.Is(err, services.ErrConfiguration) {
				err = services.Wrap(services.ErrConfiguration, "", "load config", "", err)
			}
			c.configErr = err
			return
		}
		if err := c.applyRequestFlags(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) applyRequestFlags(cfg *config.Config) error {
	if c.request == nil {
		return nil
	}
	overrides := []struct {
		value  string
		target *string
	}{
		{c.request.fileID, &cfg.Request.FileID},
		{c.request.input, &cfg.Request.InputPath},
		{c.request.output, &cfg.Request.OutputPath},
		{c.request.returnConfig, &cfg.Request.ReturnConfigPath},
	}
	for _, o := range overrides {
		if value := strings.TrimSpace(o.value); value != "" {
			*o.target = value
		}
	}
	if value := strings.TrimSpace(c.request.timeout); value != "" {
		seconds, err := config.ParseSeconds(value)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "", "--timeout", "", err)
		}
		cfg.Processing.TimeoutSeconds = seconds
		return cfg.Validate()
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
