package linkmeta

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/netx"
)

// DefaultReaderEndpoint is the public Jina reader service.
const DefaultReaderEndpoint = "https://r.jina.ai/"

// Reader asks a reader service for the page as plain text and picks the
// title and description lines heuristically. It never yields an image.
type Reader struct {
	Endpoint string
	Client   *http.Client
}

func (r *Reader) Name() string { return "reader" }

func (r *Reader) Fetch(ctx context.Context, pageURL string) (models.LinkMetadata, error) {
	target := strings.TrimPrefix(strings.TrimPrefix(pageURL, "https://"), "http://")

	resp, err := get(ctx, r.Client, strings.TrimSuffix(r.Endpoint, "/")+"/http://"+target, "text/plain")
	if err != nil {
		return models.LinkMetadata{}, err
	}
	defer resp.Body.Close()

	body, err := netx.ReadBody(resp)
	if err != nil {
		return models.LinkMetadata{}, fmt.Errorf("failed to read body: %w", err)
	}

	text := string(body)
	meta := models.LinkMetadata{
		Title:       titleFromText(text),
		Description: descriptionFromText(text),
	}
	if meta.Title == "" && meta.Description == "" {
		return models.LinkMetadata{}, errEmpty
	}
	return complete(meta, text, pageURL), nil
}
