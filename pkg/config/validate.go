package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Provider.BaseURL == "" {
		errs = append(errs, fmt.Errorf("provider.base_url is required"))
	}

	if c.Provider.AnonKey == "" && c.Provider.AnonKeyFile == "" {
		errs = append(errs, fmt.Errorf("provider.anon_key or provider.anon_key_file is required"))
	}

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	if c.Gate.SessionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("gate.session_timeout must be > 0, got %v", c.Gate.SessionTimeout))
	}

	// A default locale named outside the locale list would make every
	// locale redirect bounce.
	if c.Gate.DefaultLocale != "" && len(c.Gate.Locales) > 0 {
		found := false
		for _, l := range c.Gate.Locales {
			if l == c.Gate.DefaultLocale {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("gate.default_locale %q is not in gate.locales %v", c.Gate.DefaultLocale, c.Gate.Locales))
		}
	}

	for i, p := range c.Gate.ExcludedPrefixes {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("gate.excluded_prefixes[%d] must start with \"/\", got %q", i, p))
		}
	}

	return errors.Join(errs...)
}
