package linkmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/netx"
)

// DefaultMicrolinkEndpoint is the public Microlink API.
const DefaultMicrolinkEndpoint = "https://api.microlink.io/"

// Microlink queries a Microlink-compatible metadata API.
type Microlink struct {
	Endpoint string
	Client   *http.Client
}

type microlinkAsset struct {
	URL string `json:"url"`
}

type microlinkPayload struct {
	Status string `json:"status"`
	Data   *struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Image       *microlinkAsset `json:"image"`
		Logo        *microlinkAsset `json:"logo"`
	} `json:"data"`
}

func (m *Microlink) Name() string { return "microlink" }

func (m *Microlink) Fetch(ctx context.Context, pageURL string) (models.LinkMetadata, error) {
	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("meta", "true")
	q.Set("screenshot", "false")

	resp, err := get(ctx, m.Client, m.Endpoint+"?"+q.Encode(), "application/json")
	if err != nil {
		return models.LinkMetadata{}, err
	}
	defer resp.Body.Close()

	body, err := netx.ReadBody(resp)
	if err != nil {
		return models.LinkMetadata{}, fmt.Errorf("failed to read body: %w", err)
	}

	var payload microlinkPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.LinkMetadata{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	if payload.Status != "success" || payload.Data == nil {
		return models.LinkMetadata{}, fmt.Errorf("microlink status %q", payload.Status)
	}

	d := payload.Data
	meta := models.LinkMetadata{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
	}
	switch {
	case d.Image != nil && d.Image.URL != "":
		meta.ImageURL = d.Image.URL
	case d.Logo != nil:
		meta.ImageURL = d.Logo.URL
	}
	if meta.Empty() {
		return models.LinkMetadata{}, errEmpty
	}
	return complete(meta, "", pageURL), nil
}
