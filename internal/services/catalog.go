// Package services contains the application services behind the sharebox
// CLI. CatalogService turns user actions (save a profile, add or like a
// product, import a file) into store transitions and marks the view dirty
// after every change.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/linkmeta"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/reconcile"
	"github.com/dmitrijs2005/sharebox/internal/store"
	"github.com/dmitrijs2005/sharebox/internal/validate"
	"github.com/dmitrijs2005/sharebox/internal/view"
	"github.com/google/uuid"
)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrNoUsername         = errors.New("set your username in the profile before adding products")
	ErrNoSavedProfile     = errors.New("no saved profile selected")
	ErrURLRequired        = errors.New("paste a product URL first")
	ErrAutofillInProgress = errors.New("auto fill already in progress")
	ErrCommentRequired    = errors.New("comment text is required")
)

// Marker is notified after every state change.
type Marker interface {
	MarkDirty()
}

// ProfileInput carries the editable profile fields. An empty AvatarData
// keeps the current avatar.
type ProfileInput struct {
	Username   string
	Bio        string
	AvatarData string
}

// CatalogService defines the user-facing catalog operations.
//
// Mutating methods return the validation sentinels of this package or of
// package validate for rejected input; in that case nothing changed.
type CatalogService interface {
	SaveProfile(ctx context.Context, in ProfileInput) (models.Profile, error)
	SwitchProfile(ctx context.Context, id string) (bool, error)
	NewProfile(ctx context.Context) (models.Profile, error)
	DeleteProfile(ctx context.Context) (models.Profile, error)

	Autofill(ctx context.Context, draft *models.ProductDraft) error
	AddProduct(ctx context.Context, draft *models.ProductDraft, imageData string) (models.Product, error)
	LikeProduct(ctx context.Context, id string) error
	DeleteProduct(ctx context.Context, id string) error
	AddComment(ctx context.Context, id, text string) error

	SetFilter(patch models.FilterPatch) models.Filter
	OpenDetail(id string) bool
	CloseDetail()
	ToggleTheme(ctx context.Context) (models.Theme, error)

	Export() (data []byte, fileName string, err error)
	Import(ctx context.Context, data []byte) (models.MergeResult, error)

	View() models.ViewModel
}

type catalogService struct {
	store    *store.Store
	rec      *reconcile.Reconciler
	fetcher  linkmeta.Fetcher
	marker   Marker
	log      logging.Logger
	fetching atomic.Bool

	newID func() string
	now   func() string
}

// NewCatalogService constructs a CatalogService over an initialized store.
func NewCatalogService(s *store.Store, fetcher linkmeta.Fetcher, marker Marker, log logging.Logger) CatalogService {
	return &catalogService{
		store:   s,
		rec:     reconcile.New(s),
		fetcher: fetcher,
		marker:  marker,
		log:     log,
		newID:   uuid.NewString,
		now:     models.Now,
	}
}

// changed marks the view dirty and passes err through.
func (c *catalogService) changed(err error) error {
	c.marker.MarkDirty()
	return err
}

func (c *catalogService) SaveProfile(ctx context.Context, in ProfileInput) (models.Profile, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return models.Profile{}, ErrUsernameRequired
	}

	current := c.store.Snapshot().Profile
	next := models.Profile{
		ID:         current.ID,
		Username:   username,
		Bio:        strings.TrimSpace(in.Bio),
		AvatarData: current.AvatarData,
		CreatedAt:  current.CreatedAt,
	}
	if next.ID == "" {
		next.ID = c.newID()
	}
	if next.CreatedAt == "" {
		next.CreatedAt = c.now()
	}
	if in.AvatarData != "" {
		next.AvatarData = in.AvatarData
	}

	c.log.Info(ctx, "profile saved", "id", next.ID, "username", next.Username)
	return next, c.changed(c.store.SetActiveProfile(ctx, next))
}

// SwitchProfile activates a listed profile. An empty id activates a fresh
// unsaved profile; an unknown id changes nothing and reports false.
func (c *catalogService) SwitchProfile(ctx context.Context, id string) (bool, error) {
	if id == "" {
		_, err := c.NewProfile(ctx)
		return true, err
	}
	ok, err := c.store.UseProfile(ctx, id)
	if !ok {
		return false, err
	}
	return true, c.changed(err)
}

func (c *catalogService) NewProfile(ctx context.Context) (models.Profile, error) {
	p, err := c.store.ResetActiveProfile(ctx)
	return p, c.changed(err)
}

// DeleteProfile removes the active saved profile and returns it.
func (c *catalogService) DeleteProfile(ctx context.Context) (models.Profile, error) {
	current := c.store.Snapshot().Profile
	if current.ID == "" || !current.HasUsername() {
		return models.Profile{}, ErrNoSavedProfile
	}
	c.log.Info(ctx, "profile deleted", "id", current.ID, "username", current.Username)
	return current, c.changed(c.store.RemoveActiveProfile(ctx))
}

// Autofill fills draft from the metadata of draft.SourceURL. Title,
// description and category are replaced when the metadata has them, the price
// only when the draft has none. On failure draft is left untouched.
func (c *catalogService) Autofill(ctx context.Context, draft *models.ProductDraft) error {
	rawURL := strings.TrimSpace(draft.SourceURL)
	if rawURL == "" {
		return ErrURLRequired
	}
	if !c.fetching.CompareAndSwap(false, true) {
		return ErrAutofillInProgress
	}
	defer c.fetching.Store(false)

	meta, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		c.log.Warn(ctx, "auto fill failed", "url", rawURL, "error", err)
		return fmt.Errorf("auto fill: %w", err)
	}

	if meta.Title != "" {
		draft.Title = meta.Title
	}
	if meta.Description != "" {
		draft.Description = meta.Description
	}
	if meta.Price != "" && strings.TrimSpace(draft.Price) == "" {
		draft.Price = meta.Price
	}
	if meta.Category != "" {
		draft.Category = meta.Category
	}
	draft.PrefetchedImageURL = meta.ImageURL
	if meta.SourceURL != "" {
		draft.SourceURL = meta.SourceURL
	} else {
		draft.SourceURL = rawURL
	}
	return nil
}

// AddProduct validates draft, stores it as a new product owned by the active
// profile and clears the draft. A non-empty imageData wins over the
// prefetched image URL.
func (c *catalogService) AddProduct(ctx context.Context, draft *models.ProductDraft, imageData string) (models.Product, error) {
	owner := c.store.Snapshot().Profile
	if !owner.HasUsername() {
		return models.Product{}, ErrNoUsername
	}

	in := draft.Input()
	if err := validate.ProductInput(in); err != nil {
		return models.Product{}, err
	}
	price, err := validate.ParsePrice(in.Price)
	if err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		ID:            c.newID(),
		Title:         in.Title,
		Description:   in.Description,
		Price:         price,
		Category:      in.Category,
		Comments:      []string{},
		ImageData:     imageData,
		SourceURL:     strings.TrimSpace(draft.SourceURL),
		OwnerUsername: owner.Username,
		CreatedAt:     c.now(),
	}
	if imageData == "" {
		p.ImageURL = draft.PrefetchedImageURL
	}

	if err := c.store.AddProduct(ctx, p); err != nil {
		return p, c.changed(err)
	}
	*draft = models.ProductDraft{}
	c.log.Info(ctx, "product added", "id", p.ID, "owner", p.OwnerUsername)
	return p, c.changed(nil)
}

func (c *catalogService) LikeProduct(ctx context.Context, id string) error {
	return c.changed(c.store.LikeProduct(ctx, id))
}

func (c *catalogService) DeleteProduct(ctx context.Context, id string) error {
	c.log.Info(ctx, "product deleted", "id", id)
	return c.changed(c.store.RemoveProduct(ctx, id))
}

// AddComment stores the trimmed text; blank comments are rejected.
func (c *catalogService) AddComment(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrCommentRequired
	}
	return c.changed(c.store.AddComment(ctx, id, text))
}

func (c *catalogService) SetFilter(patch models.FilterPatch) models.Filter {
	f := c.store.SetFilter(patch)
	c.marker.MarkDirty()
	return f
}

func (c *catalogService) OpenDetail(id string) bool {
	if !c.store.SelectProduct(id) {
		return false
	}
	c.marker.MarkDirty()
	return true
}

func (c *catalogService) CloseDetail() {
	c.store.CloseDetail()
	c.marker.MarkDirty()
}

func (c *catalogService) ToggleTheme(ctx context.Context) (models.Theme, error) {
	next := c.store.Snapshot().Theme.Toggle()
	return next, c.changed(c.store.SetTheme(ctx, next))
}

// Export returns the pretty-printed dataset and its suggested file name.
func (c *catalogService) Export() ([]byte, string, error) {
	data, err := c.rec.ExportJSON()
	if err != nil {
		return nil, "", err
	}
	return data, reconcile.ExportFileName(c.now()), nil
}

func (c *catalogService) Import(ctx context.Context, data []byte) (models.MergeResult, error) {
	res, err := c.rec.MergeJSON(ctx, data)
	if errors.Is(err, common.ErrInvalidDocument) {
		return res, err
	}
	c.log.Info(ctx, "import merged",
		"products_added", res.ProductsAdded, "products_skipped", res.ProductsSkipped,
		"profiles_added", res.ProfilesAdded, "profiles_skipped", res.ProfilesSkipped)
	return res, c.changed(err)
}

func (c *catalogService) View() models.ViewModel {
	return view.Compose(c.store.Snapshot())
}
