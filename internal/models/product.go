package models

import (
	"net/url"
	"strings"
)

// DefaultCategory is assigned when a record carries no category.
const DefaultCategory = "other"

// Categories is the vocabulary offered to interactive input. The engine does
// not enforce it.
var Categories = []string{"electronics", "fashion", "home", "beauty", "sports", "other"}

// Product is a single catalog listing.
type Product struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Category      string   `json:"category"`
	Likes         int      `json:"likes"`
	Comments      []string `json:"comments"`
	ImageData     string   `json:"imageData"`
	ImageURL      string   `json:"imageUrl"`
	SourceURL     string   `json:"sourceUrl"`
	OwnerUsername string   `json:"ownerUsername"`
	CreatedAt     string   `json:"createdAt"`
}

// Clone returns a deep copy; Comments is never shared.
func (p Product) Clone() Product {
	c := p
	c.Comments = make([]string, len(p.Comments))
	copy(c.Comments, p.Comments)
	return c
}

// ImageSource returns the embedded image when present, else the remote URL.
func (p Product) ImageSource() string {
	if p.ImageData != "" {
		return p.ImageData
	}
	return p.ImageURL
}

// SafeSourceURL returns SourceURL only when it is an absolute http(s) URL.
func (p Product) SafeSourceURL() string {
	return SafeHTTPURL(p.SourceURL)
}

// SafeHTTPURL returns the normalized form of raw if it is an http or https
// URL with a host, otherwise "".
func SafeHTTPURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// ProductInput carries interactively entered product fields, as typed.
type ProductInput struct {
	Title       string
	Description string
	Price       string
	Category    string
}

// ProductDraft is the pending add-product form, including values filled in
// by the metadata collaborator.
type ProductDraft struct {
	SourceURL   string
	Title       string
	Description string
	Price       string
	Category    string
	// PrefetchedImageURL is remembered from the last successful autofill.
	PrefetchedImageURL string
}

// Input returns the validator view of the draft.
func (d ProductDraft) Input() ProductInput {
	return ProductInput{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Price:       strings.TrimSpace(d.Price),
		Category:    strings.TrimSpace(d.Category),
	}
}
