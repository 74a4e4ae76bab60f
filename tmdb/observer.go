package tmdb

import (
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Outcome classifies a single HTTP attempt
type Outcome int

const (
	// OutcomeSuccess means the attempt produced a usable body
	OutcomeSuccess Outcome = iota
	// OutcomeRetryable means the attempt failed in a way a later attempt may fix
	OutcomeRetryable
	// OutcomeFatal means the attempt failed and retrying cannot help
	OutcomeFatal
)

// String returns the string representation of an Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// AttemptEvent describes one HTTP attempt made by the executor
type AttemptEvent struct {
	URL         string // api_key is redacted
	Attempt     int
	MaxAttempts int
	Outcome     Outcome
	StatusCode  int
	Err         error
	Duration    time.Duration
	// NextDelay is the pause before the following attempt, zero when none follows
	NextDelay time.Duration
}

// EnrichmentStage names the lookup that failed
type EnrichmentStage string

const (
	StageTrailer EnrichmentStage = "trailer"
	StageGenres  EnrichmentStage = "genres"
)

// EnrichmentEvent describes an enrichment lookup that failed and was degraded
type EnrichmentEvent struct {
	MovieID int64
	Title   string
	Stage   EnrichmentStage
	Err     error
}

// Observer receives diagnostics from the executor and the client.
// Implementations must be safe for concurrent use.
type Observer interface {
	OnAttempt(AttemptEvent)
	OnEnrichmentFailure(EnrichmentEvent)
}

// NopObserver discards all events
type NopObserver struct{}

func (NopObserver) OnAttempt(AttemptEvent)             {}
func (NopObserver) OnEnrichmentFailure(EnrichmentEvent) {}

// LogObserver writes events to a zerolog logger
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates an Observer backed by logger
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// OnAttempt logs successes at debug and failures at warn
func (o *LogObserver) OnAttempt(e AttemptEvent) {
	evt := o.logger.Debug()
	if e.Outcome != OutcomeSuccess {
		evt = o.logger.Warn().Err(e.Err)
	}

	evt = evt.
		Str("url", e.URL).
		Int("attempt", e.Attempt).
		Int("max_attempts", e.MaxAttempts).
		Stringer("outcome", e.Outcome).
		Dur("duration", e.Duration)
	if e.StatusCode != 0 {
		evt = evt.Int("status", e.StatusCode)
	}
	if e.NextDelay > 0 {
		evt = evt.Dur("retry_in", e.NextDelay)
	}
	evt.Msg("TMDb request attempt")
}

// OnEnrichmentFailure logs the degraded lookup at warn
func (o *LogObserver) OnEnrichmentFailure(e EnrichmentEvent) {
	o.logger.Warn().
		Err(e.Err).
		Int64("movie_id", e.MovieID).
		Str("title", e.Title).
		Str("stage", string(e.Stage)).
		Msg("Failed to enrich movie, continuing without it")
}

// redactURL masks the api_key query parameter so URLs can be logged
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("api_key") == "" {
		return raw
	}
	q.Set("api_key", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
