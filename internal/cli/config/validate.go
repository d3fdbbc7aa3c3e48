package config

import (
	"errors"
	"fmt"
)

var outputModes = map[string]bool{"auto": true, "text": true, "markdown": true, "json": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Settings.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !outputModes[c.OutputFormat] {
		errs = append(errs, fmt.Errorf("invalid output format %q\nHint: use one of auto, text, markdown, json", c.OutputFormat))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must not be negative, got %s", c.Server.ShutdownTimeout))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required\nHint: set server.addr in leapdoi.yaml or pass --addr"))
	}
	return errors.Join(errs...)
}
