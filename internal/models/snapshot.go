package models

// Snapshot is a deep, read-only copy of the collection store state.
type Snapshot struct {
	Profile           Profile
	Profiles          []Profile
	Products          []Product
	Filter            Filter
	Theme             Theme
	SelectedProductID string
}

// Stats is the dashboard aggregate over the whole product collection.
type Stats struct {
	TotalProducts int
	TotalLikes    int
	// MostLiked is nil when there are no products.
	MostLiked      *Product
	CategoryCounts map[string]int
}

// ViewModel is everything the presentation layer needs for one redraw.
type ViewModel struct {
	Theme    Theme
	Profile  Profile
	Profiles []Profile
	Filter   Filter
	Visible  []Product
	Stats    Stats
	// Selected is the product open in the detail view, if any.
	Selected *Product
}

// ExportDocument is the transportable form of the whole dataset.
type ExportDocument struct {
	ExportedAt string    `json:"exportedAt"`
	Profile    Profile   `json:"profile"`
	Profiles   []Profile `json:"profiles"`
	Products   []Product `json:"products"`
}

// MergeResult summarizes one import.
type MergeResult struct {
	ProductsAdded   int
	ProductsSkipped int
	ProfilesAdded   int
	ProfilesSkipped int
}

// LinkMetadata is the best-effort guess returned by the metadata
// collaborator. Every field may be empty.
type LinkMetadata struct {
	Title       string
	Description string
	ImageURL    string
	// Price is kept as text, as extracted from the page.
	Price     string
	Category  string
	SourceURL string
}

// Empty reports whether the metadata carries nothing usable.
func (m LinkMetadata) Empty() bool {
	return m.Title == "" && m.Description == "" && m.ImageURL == ""
}
