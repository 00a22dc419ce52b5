// Package netx holds the outbound HTTP plumbing used by the link metadata
// fetcher: a client whose transport waits on a shared rate limiter, and body
// decoding for compressed responses.
package netx

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"
)

// MaxBodyBytes caps how much of a response body ReadBody returns.
const MaxBodyBytes = 2 << 20

// UserAgent is sent on every request made through NewClient.
const UserAgent = "sharebox/1.0 (+link preview)"

// LimitedTransport waits for a limiter token before each round trip.
type LimitedTransport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

func (t *LimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewClient returns a client with the given timeout whose requests share
// limiter. A nil limiter disables rate limiting.
func NewClient(timeout time.Duration, limiter *rate.Limiter) *http.Client {
	return &http.Client{
		Transport: &LimitedTransport{
			Base: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
			Limiter: limiter,
		},
		Timeout: timeout,
	}
}

// NewLimiter builds a token bucket; perSecond <= 0 means unlimited.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// ReadBody reads and decompresses resp.Body, up to MaxBodyBytes.
func ReadBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	default:
		reader = resp.Body
	}
	return io.ReadAll(io.LimitReader(reader, MaxBodyBytes))
}
