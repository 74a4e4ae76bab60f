package tmdb

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultBaseURL              = "https://api.themoviedb.org/3"
	DefaultImageBaseURL         = "https://image.tmdb.org/t/p/w500"
	DefaultPlaceholderPosterURL = "https://via.placeholder.com/300x450?text=No+Image"
	DefaultTrailerBaseURL       = "https://www.youtube.com/watch?v="
	DefaultUserAgent            = "moviescout/1.0"

	DefaultMaxAttempts    = 3
	DefaultBaseDelay      = time.Second
	DefaultMaxDelay       = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultConnectTimeout = 30 * time.Second
)

// Config holds everything the client needs. It is built once at start and
// treated as immutable afterwards.
type Config struct {
	APIKey               string
	BaseURL              string
	ImageBaseURL         string
	PlaceholderPosterURL string
	TrailerBaseURL       string

	// EnrichmentConcurrency bounds how many movies are enriched at once.
	// 1 enriches strictly one movie after another.
	EnrichmentConcurrency int

	HTTP HTTPConfig
}

// HTTPConfig configures the retrying executor
type HTTPConfig struct {
	UserAgent      string
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration
	Transport      TransportConfig
}

// TransportConfig is the TLS and dial configuration of the underlying transport
type TransportConfig struct {
	// AcceptAllCertificates disables certificate verification. Off unless
	// explicitly enabled.
	AcceptAllCertificates bool
	// EnabledProtocols restricts TLS versions, e.g. "TLSv1.2", "TLSv1.3".
	// Empty keeps the Go defaults.
	EnabledProtocols []string
	ConnectTimeout   time.Duration
}

// DefaultConfig returns a Config with every field except APIKey populated
func DefaultConfig() Config {
	return Config{
		BaseURL:               DefaultBaseURL,
		ImageBaseURL:          DefaultImageBaseURL,
		PlaceholderPosterURL:  DefaultPlaceholderPosterURL,
		TrailerBaseURL:        DefaultTrailerBaseURL,
		EnrichmentConcurrency: 1,
		HTTP:                  DefaultHTTPConfig(),
	}
}

// DefaultHTTPConfig returns the default retry and transport settings
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		UserAgent:      DefaultUserAgent,
		MaxAttempts:    DefaultMaxAttempts,
		BaseDelay:      DefaultBaseDelay,
		MaxDelay:       DefaultMaxDelay,
		RequestTimeout: DefaultRequestTimeout,
		Transport: TransportConfig{
			ConnectTimeout: DefaultConnectTimeout,
		},
	}
}

// Validate checks the configuration and returns an error wrapping
// ErrInvalidConfig on the first problem found
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if c.ImageBaseURL == "" {
		return fmt.Errorf("%w: image base URL is required", ErrInvalidConfig)
	}
	if c.EnrichmentConcurrency < 1 {
		return fmt.Errorf("%w: enrichment concurrency must be at least 1", ErrInvalidConfig)
	}
	return c.HTTP.Validate()
}

// Validate checks the executor settings
func (c *HTTPConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1", ErrInvalidConfig)
	}
	if c.BaseDelay < 0 || c.MaxDelay < 0 {
		return fmt.Errorf("%w: retry delays must not be negative", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	if _, _, err := tlsVersionRange(c.Transport.EnabledProtocols); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
