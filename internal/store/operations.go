package store

import (
	"context"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/models"
)

// SetActiveProfile replaces the active profile and upserts it into the list
// by id: replaced in place when the id exists, prepended otherwise.
func (s *Store) SetActiveProfile(ctx context.Context, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Profile = p
	if i := indexProfile(s.state.Profiles, p.ID); i >= 0 {
		s.state.Profiles[i] = p
	} else {
		s.state.Profiles = append([]models.Profile{p}, s.state.Profiles...)
	}
	return s.persist(ctx, common.KeyProfile, common.KeyProfiles)
}

// UseProfile makes a listed profile active without touching the list. An
// unknown id reports false and changes nothing.
func (s *Store) UseProfile(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexProfile(s.state.Profiles, id)
	if i < 0 {
		return false, nil
	}
	s.state.Profile = s.state.Profiles[i]
	return true, s.persist(ctx, common.KeyProfile)
}

// ResetActiveProfile activates a fresh unsaved profile. It is not listed
// until it is saved through SetActiveProfile.
func (s *Store) ResetActiveProfile(ctx context.Context) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Profile = s.newProfile()
	return s.state.Profile, s.persist(ctx, common.KeyProfile)
}

// RemoveActiveProfile drops the active profile from the list. The first
// remaining profile becomes active, or a fresh empty one.
func (s *Store) RemoveActiveProfile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.state.Profile.ID
	kept := s.state.Profiles[:0:0]
	for _, p := range s.state.Profiles {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.state.Profiles = kept

	if len(kept) > 0 {
		s.state.Profile = kept[0]
	} else {
		s.state.Profile = s.newProfile()
	}
	return s.persist(ctx, common.KeyProfiles, common.KeyProfile)
}

// AddProduct prepends p.
func (s *Store) AddProduct(ctx context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = p.Clone()
	s.state.Products = append([]models.Product{p}, s.state.Products...)
	return s.persist(ctx, common.KeyProducts)
}

// RemoveProduct deletes the product with id and closes its detail view if it
// was open. Absent ids are a no-op.
func (s *Store) RemoveProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexProduct(s.state.Products, id)
	if i < 0 {
		return nil
	}
	s.state.Products = append(s.state.Products[:i:i], s.state.Products[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	return s.persist(ctx, common.KeyProducts)
}

// LikeProduct adds exactly one like. Absent ids are a no-op.
func (s *Store) LikeProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexProduct(s.state.Products, id)
	if i < 0 {
		return nil
	}
	s.state.Products[i].Likes++
	return s.persist(ctx, common.KeyProducts)
}

// AddComment appends text verbatim. Absent ids are a no-op.
func (s *Store) AddComment(ctx context.Context, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexProduct(s.state.Products, id)
	if i < 0 {
		return nil
	}
	p := &s.state.Products[i]
	p.Comments = append(p.Comments, text)
	return s.persist(ctx, common.KeyProducts)
}

// SetFilter merges patch into the current criteria. Filters are not persisted.
func (s *Store) SetFilter(patch models.FilterPatch) models.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = patch.Apply(s.filter)
	return s.filter
}

// SelectProduct opens the detail view for id. Unknown ids report false.
func (s *Store) SelectProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexProduct(s.state.Products, id) < 0 {
		return false
	}
	s.selected = id
	return true
}

func (s *Store) CloseDetail() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
}

func (s *Store) SetTheme(ctx context.Context, t models.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = models.ParseTheme(string(t))
	return s.persist(ctx, common.KeyTheme)
}

// Batch runs fn against the live state under the store lock and then
// persists, in one write, the keys fn reports as touched.
func (s *Store) Batch(ctx context.Context, fn func(st *State) []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := fn(&s.state)
	if s.selected != "" && indexProduct(s.state.Products, s.selected) < 0 {
		s.selected = ""
	}
	return s.persist(ctx, keys...)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make([]models.Profile, len(s.state.Profiles))
	copy(profiles, s.state.Profiles)

	products := make([]models.Product, len(s.state.Products))
	for i, p := range s.state.Products {
		products[i] = p.Clone()
	}

	return models.Snapshot{
		Profile:           s.state.Profile,
		Profiles:          profiles,
		Products:          products,
		Filter:            s.filter,
		Theme:             s.theme,
		SelectedProductID: s.selected,
	}
}
