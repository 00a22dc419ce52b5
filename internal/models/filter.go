package models

// SortKey selects the ordering of the visible product list.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortLikesDesc SortKey = "likes-desc"
)

// CategoryAll is the category filter sentinel that keeps every product.
const CategoryAll = "all"

// Filter holds the current filter, search and sort criteria.
type Filter struct {
	Category   string
	SearchTerm string
	SortBy     SortKey
	OwnerOnly  bool
}

// DefaultFilter returns the criteria in effect on startup.
func DefaultFilter() Filter {
	return Filter{Category: CategoryAll, SortBy: SortNewest}
}

// FilterPatch is a partial Filter; nil fields are left unchanged.
type FilterPatch struct {
	Category   *string
	SearchTerm *string
	SortBy     *SortKey
	OwnerOnly  *bool
}

// Apply merges the non-nil fields of p into f.
func (p FilterPatch) Apply(f Filter) Filter {
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.SearchTerm != nil {
		f.SearchTerm = *p.SearchTerm
	}
	if p.SortBy != nil {
		f.SortBy = *p.SortBy
	}
	if p.OwnerOnly != nil {
		f.OwnerOnly = *p.OwnerOnly
	}
	return f
}

// Theme is the persisted presentation theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps anything other than "dark" to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
