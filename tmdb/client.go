package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Client searches TMDb and enriches every hit with its trailer and genres
type Client struct {
	cfg      Config
	executor *Executor
	observer Observer
	logger   zerolog.Logger
}

// NewClient creates a new TMDb client. Unless WithObserver is given, attempt
// and enrichment events are logged through logger.
func NewClient(cfg Config, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure base URL doesn't have trailing slash
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	o := applyOptions(opts)
	if o.observer == nil {
		o.observer = NewLogObserver(logger)
	}

	executor, err := newExecutor(cfg.HTTP, o)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:      cfg,
		executor: executor,
		observer: o.observer,
		logger:   logger,
	}, nil
}

// Search runs a movie search and returns the first results page in source
// order. A failed search call or a malformed results page fails the whole
// search. Failed trailer or genre lookups only leave that movie without a
// trailer or genres. Every result is validated before the first lookup
// is sent, so a malformed page fails without any lookup traffic.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &InputError{Field: "query", Reason: "must not be empty"}
	}

	params := url.Values{}
	params.Set("query", query)

	var response searchResponse
	if err := c.getJSON(ctx, "search", c.endpoint("/search/movie", params), &response); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	if response.Results == nil {
		return nil, fmt.Errorf("failed to search movies: %w", &ParseError{
			Endpoint: "search",
			Index:    -1,
			Field:    "results",
			Err:      errMissing,
		})
	}

	movies := make([]Movie, len(response.Results))
	for i, raw := range response.Results {
		movie, err := c.toMovie(i, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to search movies: %w", err)
		}
		movies[i] = movie
	}

	if err := c.enrichAll(ctx, movies); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	c.logger.Debug().
		Str("query", query).
		Int("count", len(movies)).
		Msg("Retrieved movies from TMDb")

	return movies, nil
}

// enrichAll fills in trailers and genres in place. At most
// EnrichmentConcurrency movies are in flight; each one writes only its own slot.
func (c *Client) enrichAll(ctx context.Context, movies []Movie) error {
	if len(movies) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.EnrichmentConcurrency)

	for i := range movies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.enrich(gctx, &movies[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// lookups swallow their own errors, cancellation included
	return ctx.Err()
}

// enrich runs both lookups for one movie. Each failure is reported and
// degrades only its own field.
func (c *Client) enrich(ctx context.Context, movie *Movie) {
	trailer, err := c.TrailerURL(ctx, movie.ID)
	if err != nil {
		c.reportEnrichmentFailure(ctx, movie, StageTrailer, err)
	} else {
		movie.TrailerURL = trailer
	}

	genres, err := c.Genres(ctx, movie.ID)
	if err != nil {
		c.reportEnrichmentFailure(ctx, movie, StageGenres, err)
	} else {
		movie.Genres = genres
	}
}

func (c *Client) reportEnrichmentFailure(ctx context.Context, movie *Movie, stage EnrichmentStage, err error) {
	if ctx.Err() != nil {
		return
	}
	c.observer.OnEnrichmentFailure(EnrichmentEvent{
		MovieID: movie.ID,
		Title:   movie.Title,
		Stage:   stage,
		Err:     err,
	})
}

// TrailerURL returns the watch URL of the first YouTube trailer of a movie.
// It returns "" without error when the movie has no such video.
func (c *Client) TrailerURL(ctx context.Context, movieID int64) (string, error) {
	var response videosResponse
	if err := c.getJSON(ctx, "videos", c.endpoint(moviePath(movieID)+"/videos", nil), &response); err != nil {
		return "", fmt.Errorf("failed to get trailer for movie %d: %w", movieID, err)
	}

	if response.Results == nil {
		return "", &ParseError{Endpoint: "videos", Index: -1, Field: "results", Err: errMissing}
	}

	for i, v := range response.Results {
		if !strings.EqualFold(v.Type, "Trailer") || !strings.EqualFold(v.Site, "YouTube") {
			continue
		}
		if v.Key == nil || *v.Key == "" {
			return "", &ParseError{Endpoint: "videos", Index: i, Field: "key", Err: errMissing}
		}
		return c.cfg.TrailerBaseURL + *v.Key, nil
	}

	return "", nil
}

// Genres returns the genre names of a movie in the order TMDb lists them
func (c *Client) Genres(ctx context.Context, movieID int64) ([]string, error) {
	var response detailsResponse
	if err := c.getJSON(ctx, "details", c.endpoint(moviePath(movieID), nil), &response); err != nil {
		return nil, fmt.Errorf("failed to get genres for movie %d: %w", movieID, err)
	}

	if response.Genres == nil {
		return nil, &ParseError{Endpoint: "details", Index: -1, Field: "genres", Err: errMissing}
	}

	names := make([]string, 0, len(response.Genres))
	for i, g := range response.Genres {
		if g.Name == nil {
			return nil, &ParseError{Endpoint: "details", Index: i, Field: "name", Err: errMissing}
		}
		names = append(names, *g.Name)
	}

	return names, nil
}

// FetchBytes streams the body at rawURL. The caller must close the reader.
// Executor errors are returned as is.
func (c *Client) FetchBytes(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, &InputError{Field: "url", Reason: "must not be empty"}
	}
	return c.executor.Execute(ctx, rawURL, KindStream)
}

// IsPlaceholder reports whether posterURL is the placeholder used for
// movies without a poster
func (c *Client) IsPlaceholder(posterURL string) bool {
	return posterURL == c.cfg.PlaceholderPosterURL
}

// toMovie validates the mandatory fields of one search result
func (c *Client) toMovie(index int, raw rawMovie) (Movie, error) {
	missing := func(field string) error {
		return &ParseError{Endpoint: "search", Index: index, Field: field, Err: errMissing}
	}

	switch {
	case raw.ID == nil:
		return Movie{}, missing("id")
	case raw.Title == nil:
		return Movie{}, missing("title")
	case raw.Overview == nil:
		return Movie{}, missing("overview")
	case raw.VoteAverage == nil:
		return Movie{}, missing("vote_average")
	}

	posterURL := c.cfg.PlaceholderPosterURL
	if raw.PosterPath != nil && *raw.PosterPath != "" {
		posterURL = c.cfg.ImageBaseURL + *raw.PosterPath
	}

	return Movie{
		ID:        *raw.ID,
		Title:     *raw.Title,
		Overview:  *raw.Overview,
		PosterURL: posterURL,
		Rating:    *raw.VoteAverage,
		Genres:    []string{},
	}, nil
}

// getJSON executes a text request and decodes the body into v
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, v any) error {
	body, err := c.executor.Execute(ctx, rawURL, KindText)
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &ParseError{Endpoint: endpoint, Index: -1, Err: err}
	}
	return nil
}

// endpoint builds an API URL carrying the API key
func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)
	return c.cfg.BaseURL + path + "?" + params.Encode()
}

func moviePath(movieID int64) string {
	return "/movie/" + strconv.FormatInt(movieID, 10)
}
