package linkmeta

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/netx"
	"golang.org/x/net/html"
)

// HTML fetches the page itself and reads its Open Graph and standard meta
// tags.
type HTML struct {
	Client *http.Client
}

func (h *HTML) Name() string { return "html" }

func (h *HTML) Fetch(ctx context.Context, pageURL string) (models.LinkMetadata, error) {
	resp, err := get(ctx, h.Client, pageURL, "text/html,application/xhtml+xml")
	if err != nil {
		return models.LinkMetadata{}, err
	}
	defer resp.Body.Close()

	body, err := netx.ReadBody(resp)
	if err != nil {
		return models.LinkMetadata{}, fmt.Errorf("failed to read body: %w", err)
	}

	tags, err := parseMeta(body)
	if err != nil {
		return models.LinkMetadata{}, err
	}

	meta := models.LinkMetadata{
		Title:       first(tags["og:title"], tags["twitter:title"], tags["title"]),
		Description: first(tags["og:description"], tags["twitter:description"], tags["description"]),
		ImageURL:    resolve(pageURL, first(tags["og:image"], tags["twitter:image"])),
		Price:       strings.Replace(first(tags["product:price:amount"], tags["og:price:amount"]), ",", ".", 1),
	}
	if meta.Empty() {
		return models.LinkMetadata{}, errEmpty
	}
	return complete(meta, "", pageURL), nil
}

// parseMeta collects <meta> contents keyed by property or name (lowercased)
// and the document <title> under "title". The first occurrence wins.
func parseMeta(body []byte) (map[string]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	tags := map[string]string{}
	put := func(key, value string) {
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			return
		}
		if _, ok := tags[key]; !ok {
			tags[key] = value
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				var key, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "property", "name":
						if key == "" {
							key = attr.Val
						}
					case "content":
						content = attr.Val
					}
				}
				put(key, content)
			case "title":
				if n.FirstChild != nil {
					put("title", n.FirstChild.Data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tags, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolve makes ref absolute against base; unusable refs become "".
func resolve(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return models.SafeHTTPURL(b.ResolveReference(r).String())
}
