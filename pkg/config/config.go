// Package config provides unified configuration for the edgeauth
// server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (EDGEAUTH_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the edgeauth server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Provider      ProviderConfig      `yaml:"provider"`
	Gate          GateConfig          `yaml:"gate"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 60s
	UpstreamURL  string        `yaml:"upstream_url"`  // application origin the gate fronts; optional
}

// ProviderConfig holds identity provider settings.
type ProviderConfig struct {
	BaseURL     string        `yaml:"base_url"`      // required
	AnonKey     string        `yaml:"anon_key"`      // required (directly or via anon_key_file)
	AnonKeyFile string        `yaml:"anon_key_file"` // _file variant for anon_key
	ProjectRef  string        `yaml:"project_ref"`   // optional; enables project-scoped cookie names
	Timeout     time.Duration `yaml:"timeout"`       // default: 10s
}

// GateConfig holds request gate settings.
type GateConfig struct {
	Locales          []string      `yaml:"locales"`           // default: [en, ar]
	DefaultLocale    string        `yaml:"default_locale"`    // default: "en"
	LoginPath        string        `yaml:"login_path"`        // default: "/auth/login"
	DashboardPath    string        `yaml:"dashboard_path"`    // default: "/dashboard"
	PublicRoutes     []string      `yaml:"public_routes"`     // defaults per gate.DefaultConfig
	ExcludedPrefixes []string      `yaml:"excluded_prefixes"` // defaults per gate.DefaultConfig
	SessionTimeout   time.Duration `yaml:"session_timeout"`   // default: 5s
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in. Gate
// route and locale defaults are left empty here; the gate package
// fills its own defaults so the two never drift.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Provider: ProviderConfig{
			Timeout: 10 * time.Second,
		},
		Gate: GateConfig{
			SessionTimeout: 5 * time.Second,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
