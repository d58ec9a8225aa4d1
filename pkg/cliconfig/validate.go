package cliconfig

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the merged configuration.
func (c *CLIConfig) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("apiUrl %q must be an http or https URL", c.APIURL)
	}
	if c.Timeout < 0 || c.Timeout > 3600 {
		return fmt.Errorf("timeout %d is out of range (0-3600)", c.Timeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat)
	}
	return nil
}
