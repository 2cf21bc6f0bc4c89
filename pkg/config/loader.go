package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, EDGEAUTH_CONFIG env, ./config.yaml, /etc/edgeauth/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. EDGEAUTH_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/edgeauth/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("EDGEAUTH_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/edgeauth/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps EDGEAUTH_* environment variables to config
// fields. Env values win over the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EDGEAUTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("EDGEAUTH_UPSTREAM_URL"); v != "" {
		cfg.Server.UpstreamURL = v
	}
	if v := os.Getenv("EDGEAUTH_PROVIDER_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("EDGEAUTH_ANON_KEY"); v != "" {
		cfg.Provider.AnonKey = v
	}
	if v := os.Getenv("EDGEAUTH_PROJECT_REF"); v != "" {
		cfg.Provider.ProjectRef = v
	}
	if v := os.Getenv("EDGEAUTH_DEFAULT_LOCALE"); v != "" {
		cfg.Gate.DefaultLocale = v
	}
	if v := os.Getenv("EDGEAUTH_LOCALES"); v != "" {
		cfg.Gate.Locales = splitList(v)
	}
	if v := os.Getenv("EDGEAUTH_SESSION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Gate.SessionTimeout = d
		}
	}
}

// splitList splits a comma-separated env value into trimmed items.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolveFileReferences reads _file fields and populates the
// corresponding value fields. The file content is trimmed of
// surrounding whitespace; an already-set value field wins.
func resolveFileReferences(cfg *Config) error {
	if cfg.Provider.AnonKeyFile != "" && cfg.Provider.AnonKey == "" {
		val, err := readSecretFile(cfg.Provider.AnonKeyFile)
		if err != nil {
			return fmt.Errorf("provider.anon_key_file: %w", err)
		}
		cfg.Provider.AnonKey = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
