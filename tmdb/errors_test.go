package tmdb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	tests := []struct {
		name         string
		err          *StatusError
		wantMsg      string
		notFound     bool
		unauthorized bool
	}{
		{
			name:    "server error with body",
			err:     &StatusError{StatusCode: 500, Body: "oops"},
			wantMsg: "tmdb API error: status 500: oops",
		},
		{
			name:     "not found",
			err:      &StatusError{StatusCode: 404},
			wantMsg:  "tmdb API error: status 404",
			notFound: true,
		},
		{
			name:         "unauthorized",
			err:          &StatusError{StatusCode: 401},
			wantMsg:      "tmdb API error: status 401",
			unauthorized: true,
		},
		{
			name:         "forbidden",
			err:          &StatusError{StatusCode: 403},
			wantMsg:      "tmdb API error: status 403",
			unauthorized: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.notFound, tt.err.IsNotFound())
			assert.Equal(t, tt.unauthorized, tt.err.IsUnauthorized())
		})
	}
}

func TestRetryErrorUnwrapsLastCause(t *testing.T) {
	cause := &StatusError{StatusCode: 502}
	err := fmt.Errorf("failed to search movies: %w", &RetryError{Attempts: 3, Err: cause})

	assert.Equal(t, "failed to search movies: all 3 attempts failed: tmdb API error: status 502", err.Error())

	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Same(t, cause, statusErr)
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ParseError
		wantMsg string
	}{
		{
			name:    "missing field on element",
			err:     &ParseError{Endpoint: "search", Index: 2, Field: "title", Err: errMissing},
			wantMsg: `malformed search response at result 2: field "title": missing or null`,
		},
		{
			name:    "top level field",
			err:     &ParseError{Endpoint: "videos", Index: -1, Field: "results", Err: errMissing},
			wantMsg: `malformed videos response: field "results": missing or null`,
		},
		{
			name:    "decode failure",
			err:     &ParseError{Endpoint: "details", Index: -1, Err: errors.New("unexpected end of JSON input")},
			wantMsg: "malformed details response: unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrMalformedResponse)
			assert.ErrorIs(t, tt.err, tt.err.Err)
		})
	}
}

func TestInputError(t *testing.T) {
	err := &InputError{Field: "url", Value: "ftp://x", Reason: "scheme must be http or https"}
	assert.Equal(t, `invalid url "ftp://x": scheme must be http or https`, err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrMalformedResponse)

	blank := &InputError{Field: "query", Reason: "must not be empty"}
	assert.Equal(t, "invalid query: must not be empty", blank.Error())
}
