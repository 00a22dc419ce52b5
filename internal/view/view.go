// Package view derives what the presentation layer shows from a store
// snapshot: the filtered, searched and sorted product list, dashboard
// statistics and the open detail record. Every function is pure and works on
// copies.
package view

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/models"
)

// VisibleProducts applies the snapshot filter to its products.
func VisibleProducts(snap models.Snapshot) []models.Product {
	f := snap.Filter
	query := strings.ToLower(strings.TrimSpace(f.SearchTerm))

	out := make([]models.Product, 0, len(snap.Products))
	for _, p := range snap.Products {
		if f.Category != models.CategoryAll && f.Category != "" && p.Category != f.Category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Description), query) {
			continue
		}
		if f.OwnerOnly && (!snap.Profile.HasUsername() || p.OwnerUsername != snap.Profile.Username) {
			continue
		}
		out = append(out, p.Clone())
	}

	sort.SliceStable(out, less(f.SortBy, out))
	return out
}

func less(key models.SortKey, ps []models.Product) func(i, j int) bool {
	switch key {
	case models.SortPriceAsc:
		return func(i, j int) bool { return ps[i].Price < ps[j].Price }
	case models.SortPriceDesc:
		return func(i, j int) bool { return ps[i].Price > ps[j].Price }
	case models.SortLikesDesc:
		return func(i, j int) bool { return ps[i].Likes > ps[j].Likes }
	default:
		return func(i, j int) bool {
			a, _ := models.ParseTimestamp(ps[i].CreatedAt)
			b, _ := models.ParseTimestamp(ps[j].CreatedAt)
			return a.After(b)
		}
	}
}

// DashboardStats aggregates over the whole collection, ignoring the filter.
// On a likes tie the first product in collection order is the most liked.
func DashboardStats(products []models.Product) models.Stats {
	st := models.Stats{CategoryCounts: map[string]int{}}
	for i := range products {
		p := products[i]
		st.TotalProducts++
		st.TotalLikes += p.Likes

		if st.MostLiked == nil || p.Likes > st.MostLiked.Likes {
			c := p.Clone()
			st.MostLiked = &c
		}

		category := p.Category
		if category == "" {
			category = models.DefaultCategory
		}
		st.CategoryCounts[category]++
	}
	return st
}

// Compose builds the full view model for one redraw.
func Compose(snap models.Snapshot) models.ViewModel {
	vm := models.ViewModel{
		Theme:    snap.Theme,
		Profile:  snap.Profile,
		Profiles: snap.Profiles,
		Filter:   snap.Filter,
		Visible:  VisibleProducts(snap),
		Stats:    DashboardStats(snap.Products),
	}
	if snap.SelectedProductID != "" {
		for _, p := range snap.Products {
			if p.ID == snap.SelectedProductID {
				c := p.Clone()
				vm.Selected = &c
				break
			}
		}
	}
	return vm
}
