package tmdb

import "net/http"

// Option configures an Executor or a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options shared by Executor and Client.
type clientOptions struct {
	httpClient *http.Client
	observer   Observer
}

// WithHTTPClient replaces the client built from TransportConfig.
// RequestTimeout is not applied to a custom client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithObserver sets the hook that receives attempt and enrichment events.
func WithObserver(observer Observer) Option {
	return func(o *clientOptions) {
		if observer != nil {
			o.observer = observer
		}
	}
}

func applyOptions(opts []Option) clientOptions {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
