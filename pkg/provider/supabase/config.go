package supabase

import "time"

// Config holds configuration for the Supabase provider adapter.
type Config struct {
	// BaseURL is the project URL (e.g., "https://abcdefgh.supabase.co").
	BaseURL string

	// AnonKey is the project's public API key, sent as the apikey header
	// on every request.
	AnonKey string

	// ProjectRef is the project reference used in cookie names
	// (sb-<ref>-auth-token.*). Optional; the unscoped cookie names are
	// always recognized.
	ProjectRef string

	// Timeout for individual HTTP requests. Defaults to 10s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(baseURL, anonKey string) Config {
	return Config{
		BaseURL: baseURL,
		AnonKey: anonKey,
		Timeout: 10 * time.Second,
	}
}
