package tmdb

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ResponseKind selects how Execute hands back the response body
type ResponseKind int

const (
	// KindText reads the whole body before returning
	KindText ResponseKind = iota
	// KindStream returns the live body; the caller must close it
	KindStream
)

// maxErrorBody bounds how much of a failed response is kept in a StatusError
const maxErrorBody = 512

// Executor performs GET requests with bounded retry and exponential backoff.
// It holds no per-request state and is safe for concurrent use.
type Executor struct {
	cfg        HTTPConfig
	httpClient *http.Client
	observer   Observer
}

// pooledTransport hides CloseIdleConnections from http.Client. retryablehttp
// calls it after every failed request, which would drop keep-alive
// connections that concurrent lookups are still using.
type pooledTransport struct {
	http.RoundTripper
}

// NewExecutor creates an Executor from cfg
func NewExecutor(cfg HTTPConfig, opts ...Option) (*Executor, error) {
	return newExecutor(cfg, applyOptions(opts))
}

func newExecutor(cfg HTTPConfig, o clientOptions) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := o.httpClient
	if httpClient == nil {
		var err error
		httpClient, err = newHTTPClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	observer := o.observer
	if observer == nil {
		observer = NopObserver{}
	}

	transport := httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	shared := *httpClient
	shared.Transport = pooledTransport{transport}

	return &Executor{
		cfg:        cfg,
		httpClient: &shared,
		observer:   observer,
	}, nil
}

// Execute performs a GET against rawURL. Malformed URLs fail with an
// InputError before any network call. Non-success statuses and transient
// transport failures are retried; once attempts run out a RetryError carrying
// the last cause is returned. Other failures are returned immediately.
func (e *Executor) Execute(ctx context.Context, rawURL string, kind ResponseKind) (io.ReadCloser, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	state := &call{executor: e, url: redactURL(rawURL)}
	client := &retryablehttp.Client{
		HTTPClient:     e.httpClient,
		RetryWaitMin:   e.cfg.BaseDelay,
		RetryWaitMax:   e.cfg.MaxDelay,
		RetryMax:       e.cfg.MaxAttempts - 1,
		RequestLogHook: state.beforeAttempt,
		CheckRetry:     state.checkRetry,
		Backoff:        exponentialBackoff,
		ErrorHandler:   state.giveUp,
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if kind == KindStream {
		return resp.Body, nil
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

// delay returns the pause that follows the given 1-based attempt
func (e *Executor) delay(attempt int) time.Duration {
	return exponentialBackoff(e.cfg.BaseDelay, e.cfg.MaxDelay, attempt-1, nil)
}

// call tracks one logical request across its attempts. A new call is made
// for every Execute so concurrent requests never share it.
type call struct {
	executor *Executor
	url      string
	attempt  int
	started  time.Time
	lastErr  error
	fatal    bool
}

func (c *call) beforeAttempt(_ retryablehttp.Logger, _ *http.Request, i int) {
	c.attempt = i + 1
	c.started = time.Now()
}

func (c *call) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	outcome, cause := classify(ctx, resp, err, c.url)
	c.lastErr = cause

	event := AttemptEvent{
		URL:         c.url,
		Attempt:     c.attempt,
		MaxAttempts: c.executor.cfg.MaxAttempts,
		Outcome:     outcome,
		Err:         cause,
		Duration:    time.Since(c.started),
	}
	if resp != nil {
		event.StatusCode = resp.StatusCode
	}

	switch outcome {
	case OutcomeSuccess:
		c.executor.observer.OnAttempt(event)
		return false, nil
	case OutcomeRetryable:
		if c.attempt < c.executor.cfg.MaxAttempts {
			event.NextDelay = c.executor.delay(c.attempt)
		}
		c.executor.observer.OnAttempt(event)
		return true, nil
	default:
		c.fatal = true
		c.executor.observer.OnAttempt(event)
		return false, cause
	}
}

// giveUp maps the end of an unsuccessful loop onto the error taxonomy
func (c *call) giveUp(resp *http.Response, _ error, numTries int) (*http.Response, error) {
	if resp != nil {
		resp.Body.Close()
	}
	if c.fatal {
		return nil, c.lastErr
	}
	return nil, &RetryError{
		URL:      c.url,
		Attempts: numTries,
		Err:      c.lastErr,
	}
}

// classify turns the result of one attempt into an Outcome and its cause
func classify(ctx context.Context, resp *http.Response, err error, redactedURL string) (Outcome, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return OutcomeFatal, ctxErr
	}

	if err != nil {
		// *url.Error carries the raw request URL, api_key included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactedURL
		}
		wrapped := fmt.Errorf("request failed: %w", err)
		if isTransient(err) {
			return OutcomeRetryable, wrapped
		}
		return OutcomeFatal, wrapped
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return OutcomeRetryable, &StatusError{
			URL:        redactedURL,
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp.Body),
		}
	}

	return OutcomeSuccess, nil
}

// isTransient reports whether a transport error is worth another attempt:
// timeouts, refused or reset connections, and TLS handshake failures.
func isTransient(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTimeout || dnsErr.IsTemporary
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return true
	}

	return isHandshakeFailure(err)
}

func isHandshakeFailure(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}

// exponentialBackoff waits base * 2^attemptNum, capped at limit when limit > 0
func exponentialBackoff(base, limit time.Duration, attemptNum int, _ *http.Response) time.Duration {
	if attemptNum < 0 {
		attemptNum = 0
	}
	if attemptNum > 30 {
		attemptNum = 30
	}
	wait := base << uint(attemptNum)
	if limit > 0 && (wait > limit || wait < 0) {
		wait = limit
	}
	return wait
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &InputError{Field: "url", Reason: "must not be empty"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return &InputError{Field: "url", Value: redactURL(raw), Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &InputError{Field: "url", Value: redactURL(raw), Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return &InputError{Field: "url", Value: redactURL(raw), Reason: "missing host"}
	}
	return nil
}

func readErrorBody(body io.Reader) string {
	if body == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return strings.TrimSpace(string(b))
}
