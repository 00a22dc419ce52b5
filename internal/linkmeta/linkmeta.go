// Package linkmeta guesses product details (title, description, image,
// price, category) from a pasted product URL. Every field of the result is
// advisory; callers decide what to copy into a form.
//
// A Chain tries its strategies in order and returns the first usable result:
// the Microlink metadata API, then a reader service returning page text, then
// the page's own HTML meta tags.
package linkmeta

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/models"
)

var (
	// ErrInvalidURL is returned for input that cannot be turned into a URL.
	ErrInvalidURL = fmt.Errorf("please enter a valid product URL: %w", common.ErrInvalidURL)
	// ErrUnavailable is returned when no strategy produced usable metadata.
	ErrUnavailable = errors.New("could not fetch product details from this link")
)

// Fetcher turns a product URL into metadata.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (models.LinkMetadata, error)
}

// Strategy is one way of obtaining metadata for an already normalized URL.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, url string) (models.LinkMetadata, error)
}

type Chain struct {
	strategies []Strategy
	log        logging.Logger
}

func NewChain(log logging.Logger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, log: log}
}

// Fetch normalizes rawURL and runs the strategies in order.
func (c *Chain) Fetch(ctx context.Context, rawURL string) (models.LinkMetadata, error) {
	u := NormalizeURL(rawURL)
	if u == "" {
		return models.LinkMetadata{}, ErrInvalidURL
	}

	for _, s := range c.strategies {
		m, err := s.Fetch(ctx, u)
		if err != nil {
			c.log.Debug(ctx, "metadata strategy failed", "strategy", s.Name(), "url", u, "error", err)
			continue
		}
		c.log.Debug(ctx, "metadata strategy succeeded", "strategy", s.Name(), "url", u)
		return m, nil
	}
	return models.LinkMetadata{}, ErrUnavailable
}

// Disabled is a Fetcher for offline use; it always reports ErrUnavailable.
type Disabled struct{}

func (Disabled) Fetch(_ context.Context, rawURL string) (models.LinkMetadata, error) {
	if NormalizeURL(rawURL) == "" {
		return models.LinkMetadata{}, ErrInvalidURL
	}
	return models.LinkMetadata{}, ErrUnavailable
}

var errEmpty = errors.New("no usable metadata")

func get(ctx context.Context, client *http.Client, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return resp, nil
}

// NewDefaultChain wires the three built-in strategies over one client.
// Empty endpoints fall back to the public services.
func NewDefaultChain(client *http.Client, microlinkEndpoint, readerEndpoint string, log logging.Logger) *Chain {
	if microlinkEndpoint == "" {
		microlinkEndpoint = DefaultMicrolinkEndpoint
	}
	if readerEndpoint == "" {
		readerEndpoint = DefaultReaderEndpoint
	}
	return NewChain(log,
		&Microlink{Endpoint: microlinkEndpoint, Client: client},
		&Reader{Endpoint: readerEndpoint, Client: client},
		&HTML{Client: client},
	)
}
