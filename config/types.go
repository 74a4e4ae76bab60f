package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDb    TMDbConfig    `mapstructure:"tmdb"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDbConfig holds TMDb API connection details
type TMDbConfig struct {
	APIKey               string `mapstructure:"api_key"`
	BaseURL              string `mapstructure:"base_url"`
	ImageBaseURL         string `mapstructure:"image_base_url"`
	PlaceholderPosterURL string `mapstructure:"placeholder_poster_url"`
	TrailerBaseURL       string `mapstructure:"trailer_base_url"`
}

// HTTPConfig contains retry, timeout and TLS settings for outgoing requests
type HTTPConfig struct {
	UserAgent             string        `mapstructure:"user_agent"`
	MaxAttempts           int           `mapstructure:"max_attempts"`
	BaseDelay             time.Duration `mapstructure:"base_delay"`
	MaxDelay              time.Duration `mapstructure:"max_delay"`
	RequestTimeout        time.Duration `mapstructure:"request_timeout"`
	ConnectTimeout        time.Duration `mapstructure:"connect_timeout"`
	AcceptAllCertificates bool          `mapstructure:"accept_all_certificates"`
	TLSProtocols          []string      `mapstructure:"tls_protocols"`
	EnrichmentConcurrency int           `mapstructure:"enrichment_concurrency"`
}

// FilterConfig contains the default filter and named presets.
// Preset names are case-insensitive and stored lowercased.
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default_expression"`
	Presets           map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
