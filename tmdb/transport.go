package tmdb

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

var tlsProtocols = map[string]uint16{
	"tlsv1":   tls.VersionTLS10,
	"tlsv1.0": tls.VersionTLS10,
	"tlsv1.1": tls.VersionTLS11,
	"tlsv1.2": tls.VersionTLS12,
	"tlsv1.3": tls.VersionTLS13,
}

// tlsVersionRange maps protocol names onto a min/max version pair.
// An empty set returns zeros, which lets crypto/tls pick its defaults.
func tlsVersionRange(protocols []string) (minVersion, maxVersion uint16, err error) {
	for _, p := range protocols {
		v, ok := tlsProtocols[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return 0, 0, fmt.Errorf("unknown TLS protocol %q", p)
		}
		if minVersion == 0 || v < minVersion {
			minVersion = v
		}
		if v > maxVersion {
			maxVersion = v
		}
	}
	return minVersion, maxVersion, nil
}

// newHTTPClient builds the shared client used for every attempt. Timeout
// bounds a single attempt, not the retry budget.
func newHTTPClient(cfg HTTPConfig) (*http.Client, error) {
	minVersion, maxVersion, err := tlsVersionRange(cfg.Transport.EnabledProtocols)
	if err != nil {
		return nil, err
	}

	connectTimeout := cfg.Transport.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connectTimeout,
		ExpectContinueTimeout: time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: minVersion,
			MaxVersion: maxVersion,
			// #nosec G402 -- opt-in via accept_all_certificates
			InsecureSkipVerify: cfg.Transport.AcceptAllCertificates,
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.RequestTimeout,
	}, nil
}
