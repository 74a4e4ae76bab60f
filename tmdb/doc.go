// Package tmdb provides a client for searching The Movie Database (TMDb).
//
// A search returns the first page of matching movies. Every hit is enriched
// with a YouTube trailer link and its genre names, fetched through two extra
// calls per movie, and returned as a Movie in the order TMDb ranked it.
//
// # Architecture
//
//   - Executor: performs GET requests with bounded retry and exponential backoff
//   - Client: composes the search, videos and details calls into Movie records
//   - Observer: receives one event per HTTP attempt and per failed enrichment
//   - Errors: structured error types for input, status, parse and retry failures
//
// # Usage
//
//	cfg := tmdb.DefaultConfig()
//	cfg.APIKey = "your-api-key"
//
//	client, err := tmdb.NewClient(cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	movies, err := client.Search(ctx, "blade runner")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	poster, err := client.FetchBytes(ctx, movies[0].PosterURL)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer poster.Close()
//
// # Retries
//
// Each request gets HTTPConfig.MaxAttempts attempts (3 by default). Before
// attempt n+1 the executor waits BaseDelay * 2^(n-1). Non-success statuses,
// timeouts, refused or reset connections and TLS handshake failures are
// retried. Malformed URLs, DNS lookups that found no host, cancelled contexts
// and unrecognised transport errors fail at once.
//
// # Error Handling
//
//   - InputError: blank query or URL, malformed URL (errors.Is ErrInvalidInput)
//   - StatusError: non-success HTTP status, with IsNotFound/IsUnauthorized
//   - ParseError: invalid JSON or a missing mandatory field (errors.Is ErrMalformedResponse)
//   - RetryError: every attempt failed; unwraps to the last cause
//
// Trailer and genre lookups never fail a search. A movie whose lookup failed
// has no TrailerURL or an empty Genres slice, the same as a movie that has
// none; the failure is visible only through Observer.OnEnrichmentFailure.
package tmdb
