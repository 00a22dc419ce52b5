// Package reconcile exports the catalog as one JSON document and merges
// imported documents back into a store.
//
// Products and profiles merge differently. An imported product whose id is
// already taken is kept under a fresh id; an imported profile whose id or
// username (case-insensitively) is taken is skipped.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/normalize"
	"github.com/dmitrijs2005/sharebox/internal/store"
	"github.com/google/uuid"
)

// Store is the part of store.Store the reconciler needs.
type Store interface {
	Snapshot() models.Snapshot
	Batch(ctx context.Context, fn func(st *store.State) []string) error
}

type Reconciler struct {
	store Store
	newID func() string
	now   func() string
}

func New(s Store) *Reconciler {
	return &Reconciler{store: s, newID: uuid.NewString, now: models.Now}
}

// Export returns the current dataset as a transportable document.
func (r *Reconciler) Export() models.ExportDocument {
	snap := r.store.Snapshot()
	return models.ExportDocument{
		ExportedAt: r.now(),
		Profile:    snap.Profile,
		Profiles:   snap.Profiles,
		Products:   snap.Products,
	}
}

// ExportJSON renders Export with two-space indentation.
func (r *Reconciler) ExportJSON() ([]byte, error) {
	b, err := json.MarshalIndent(r.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return b, nil
}

// ExportFileName is the suggested download name for an export made at now.
func ExportFileName(now string) string {
	day := now
	if len(day) > 10 {
		day = day[:10]
	}
	return fmt.Sprintf("%s-data-%s.json", common.AppName, day)
}

// MergeJSON decodes b and merges it. Bytes that are not JSON are rejected with
// common.ErrInvalidDocument and storage is left untouched.
func (r *Reconciler) MergeJSON(ctx context.Context, b []byte) (models.MergeResult, error) {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return models.MergeResult{}, fmt.Errorf("%w: %v", common.ErrInvalidDocument, err)
	}
	return r.Merge(ctx, raw)
}

// Merge folds an already-decoded document into the store. raw is either an
// export document or a bare product array; anything else merges nothing.
// Imported products are appended after the existing ones.
func (r *Reconciler) Merge(ctx context.Context, raw any) (models.MergeResult, error) {
	rawProducts, rawProfiles := split(raw)

	var res models.MergeResult
	err := r.store.Batch(ctx, func(st *store.State) []string {
		res.ProductsAdded, res.ProductsSkipped = r.mergeProducts(st, rawProducts)
		res.ProfilesAdded, res.ProfilesSkipped = r.mergeProfiles(st, rawProfiles)

		var touched []string
		if res.ProductsAdded > 0 {
			touched = append(touched, common.KeyProducts)
		}
		if res.ProfilesAdded > 0 {
			touched = append(touched, common.KeyProfiles)
		}
		if !st.Profile.HasUsername() && len(st.Profiles) > 0 {
			st.Profile = st.Profiles[0]
			touched = append(touched, common.KeyProfile)
		}
		return touched
	})
	if err != nil {
		return res, fmt.Errorf("failed to save import: %w", err)
	}
	return res, nil
}

// split extracts the product and profile records from an import document.
// A single "profile" is used only when "profiles" is not an array.
func split(raw any) (products, profiles []any) {
	switch doc := raw.(type) {
	case []any:
		return doc, nil
	case map[string]any:
		products, _ = doc["products"].([]any)
		if list, ok := doc["profiles"].([]any); ok {
			profiles = list
		} else if p, ok := doc["profile"]; ok && p != nil {
			profiles = []any{p}
		}
	}
	return products, profiles
}

func (r *Reconciler) mergeProducts(st *store.State, raw []any) (added, skipped int) {
	seen := make(map[string]struct{}, len(st.Products)+len(raw))
	for _, p := range st.Products {
		seen[p.ID] = struct{}{}
	}

	for _, item := range raw {
		p := normalize.Product(item)
		if p == nil {
			skipped++
			continue
		}
		if _, taken := seen[p.ID]; taken {
			p.ID = r.uniqueID(seen)
		}
		seen[p.ID] = struct{}{}
		st.Products = append(st.Products, *p)
		added++
	}
	return added, skipped
}

func (r *Reconciler) mergeProfiles(st *store.State, raw []any) (added, skipped int) {
	ids := make(map[string]struct{}, len(st.Profiles))
	names := make(map[string]struct{}, len(st.Profiles))
	for _, p := range st.Profiles {
		ids[p.ID] = struct{}{}
		names[strings.ToLower(p.Username)] = struct{}{}
	}

	for _, item := range raw {
		p := normalize.Profile(item)
		if p == nil || !p.HasUsername() {
			skipped++
			continue
		}
		name := strings.ToLower(p.Username)
		_, idTaken := ids[p.ID]
		_, nameTaken := names[name]
		if idTaken || nameTaken {
			skipped++
			continue
		}
		st.Profiles = append(st.Profiles, *p)
		ids[p.ID] = struct{}{}
		names[name] = struct{}{}
		added++
	}
	return added, skipped
}

func (r *Reconciler) uniqueID(seen map[string]struct{}) string {
	for {
		id := r.newID()
		if _, taken := seen[id]; !taken {
			return id
		}
	}
}

// Summary is the human-readable import report.
func Summary(res models.MergeResult) string {
	return fmt.Sprintf("Import complete. Products added %d, skipped %d. Profiles added %d, skipped %d.",
		res.ProductsAdded, res.ProductsSkipped, res.ProfilesAdded, res.ProfilesSkipped)
}
