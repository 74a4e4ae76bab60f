package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/s0up4200/moviescout/tmdb"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MOVIESCOUT_TMDB_API_KEY
const EnvPrefix = "MOVIESCOUT"

// Load loads the configuration from file and environment. Without an
// explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".moviescout"))
		}

		// Check /etc
		v.AddConfigPath("/etc/moviescout/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so environment overrides are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	// TMDb defaults
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.image_base_url", tmdb.DefaultImageBaseURL)
	v.SetDefault("tmdb.placeholder_poster_url", tmdb.DefaultPlaceholderPosterURL)
	v.SetDefault("tmdb.trailer_base_url", tmdb.DefaultTrailerBaseURL)

	// HTTP defaults
	v.SetDefault("http.user_agent", tmdb.DefaultUserAgent)
	v.SetDefault("http.max_attempts", tmdb.DefaultMaxAttempts)
	v.SetDefault("http.base_delay", tmdb.DefaultBaseDelay)
	v.SetDefault("http.max_delay", tmdb.DefaultMaxDelay)
	v.SetDefault("http.request_timeout", tmdb.DefaultRequestTimeout)
	v.SetDefault("http.connect_timeout", tmdb.DefaultConnectTimeout)
	v.SetDefault("http.accept_all_certificates", false)
	v.SetDefault("http.tls_protocols", []string{})
	v.SetDefault("http.enrichment_concurrency", 1)

	// Filter defaults
	v.SetDefault("filter.default_expression", "")
	v.SetDefault("filter.presets", map[string]string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TMDb.APIKey == "" || cfg.TMDb.APIKey == "your-api-key-here" {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key")
	}

	if cfg.TMDb.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url is required")
	}

	if cfg.HTTP.MaxAttempts < 1 {
		return fmt.Errorf("http.max_attempts must be at least 1, got %d", cfg.HTTP.MaxAttempts)
	}

	if cfg.HTTP.EnrichmentConcurrency < 1 {
		return fmt.Errorf("http.enrichment_concurrency must be at least 1, got %d", cfg.HTTP.EnrichmentConcurrency)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	// The client re-validates; this catches bad TLS names at load time
	clientCfg := cfg.ClientConfig()
	if err := clientCfg.Validate(); err != nil {
		return err
	}

	return nil
}

// ClientConfig converts the loaded settings into a tmdb.Config
func (c *Config) ClientConfig() tmdb.Config {
	return tmdb.Config{
		APIKey:                c.TMDb.APIKey,
		BaseURL:               c.TMDb.BaseURL,
		ImageBaseURL:          c.TMDb.ImageBaseURL,
		PlaceholderPosterURL:  c.TMDb.PlaceholderPosterURL,
		TrailerBaseURL:        c.TMDb.TrailerBaseURL,
		EnrichmentConcurrency: c.HTTP.EnrichmentConcurrency,
		HTTP: tmdb.HTTPConfig{
			UserAgent:      c.HTTP.UserAgent,
			MaxAttempts:    c.HTTP.MaxAttempts,
			BaseDelay:      c.HTTP.BaseDelay,
			MaxDelay:       c.HTTP.MaxDelay,
			RequestTimeout: c.HTTP.RequestTimeout,
			Transport: tmdb.TransportConfig{
				AcceptAllCertificates: c.HTTP.AcceptAllCertificates,
				EnabledProtocols:      c.HTTP.TLSProtocols,
				ConnectTimeout:        c.HTTP.ConnectTimeout,
			},
		},
	}
}
