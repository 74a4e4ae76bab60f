package tmdb

import (
	"context"
	"io"
)

// API defines the operations consumers rely on
type API interface {
	// Search returns the enriched first page of results for query
	Search(ctx context.Context, query string) ([]Movie, error)

	// FetchBytes streams the body found at rawURL, e.g. a poster image
	FetchBytes(ctx context.Context, rawURL string) (io.ReadCloser, error)

	// TrailerURL returns the YouTube trailer link of a movie, or "" when there is none
	TrailerURL(ctx context.Context, movieID int64) (string, error)

	// Genres returns the genre names of a movie in source order
	Genres(ctx context.Context, movieID int64) ([]string, error)

	// IsPlaceholder reports whether a poster URL stands in for a missing poster
	IsPlaceholder(posterURL string) bool
}

var _ API = (*Client)(nil)
