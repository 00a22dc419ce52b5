// Package store holds the in-memory catalog state (active profile, profile
// list, product list, filter, theme, open detail) and persists it, one JSON
// document per key, to an injected kv.Repository.
//
// Every exported method is a single atomic transition. The in-memory state is
// authoritative for the session: a failed write is returned to the caller but
// does not roll the transition back.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/normalize"
	"github.com/dmitrijs2005/sharebox/internal/repositories/kv"
)

// State is the mutable part of the store handed to Batch callbacks.
type State struct {
	Profile  models.Profile
	Profiles []models.Profile
	Products []models.Product
}

type Store struct {
	mu   sync.Mutex
	repo kv.Repository
	log  logging.Logger

	state    State
	filter   models.Filter
	theme    models.Theme
	selected string

	newProfile func() models.Profile
}

// New returns an empty store. Call Init to load persisted data.
func New(repo kv.Repository, log logging.Logger) *Store {
	s := &Store{
		repo:       repo,
		log:        log,
		filter:     models.DefaultFilter(),
		theme:      models.ThemeLight,
		newProfile: models.NewEmptyProfile,
	}
	s.state = State{
		Profile:  s.newProfile(),
		Profiles: []models.Profile{},
		Products: []models.Product{},
	}
	return s
}

// Init loads every key from the backing. A key that cannot be read or parsed
// is logged and replaced by its default; loading continues.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := normalize.Profiles(s.load(ctx, common.KeyProfiles))

	rawProfile := s.load(ctx, common.KeyProfile)
	profile, profiles := recoverActiveProfile(rawProfile, profiles, s.newProfile)

	s.state = State{
		Profile:  profile,
		Profiles: profiles,
		Products: normalize.Products(s.load(ctx, common.KeyProducts)),
	}

	theme, _ := s.load(ctx, common.KeyTheme).(string)
	s.theme = models.ParseTheme(theme)

	return s.persist(ctx, common.KeyProfile, common.KeyProfiles)
}

// recoverActiveProfile resolves the stored active profile against the list:
// by id first, then by exact username, otherwise the stored profile is kept
// and inserted at the front of the list when it has a username.
func recoverActiveProfile(raw any, profiles []models.Profile, empty func() models.Profile) (models.Profile, []models.Profile) {
	stored := normalize.Profile(raw)
	if stored == nil {
		return empty(), profiles
	}

	var active models.Profile
	switch {
	case normalize.StoredID(raw) != "":
		active = *stored
		if i := indexProfile(profiles, stored.ID); i >= 0 {
			active = profiles[i]
		}
	case stored.HasUsername():
		active = *stored
		for _, p := range profiles {
			if p.Username == stored.Username {
				active = p
				break
			}
		}
	default:
		return empty(), profiles
	}

	if active.HasUsername() && indexProfile(profiles, active.ID) < 0 {
		profiles = append([]models.Profile{active}, profiles...)
	}
	return active, profiles
}

// load reads and decodes key. Missing, unreadable or malformed values yield nil.
func (s *Store) load(ctx context.Context, key string) any {
	b, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "failed to read stored key, using default", "key", key, "error", err)
		return nil
	}
	if len(b) == 0 {
		return nil
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		s.log.Warn(ctx, "corrupt stored key, using default", "key", key, "error", err)
		return nil
	}
	return raw
}

// persist writes the named keys in one batch. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		b, err := json.Marshal(s.value(key))
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		values[key] = b
	}
	if err := s.repo.SetMany(ctx, values); err != nil {
		s.log.Error(ctx, "failed to persist state", "keys", keys, "error", err)
		return fmt.Errorf("failed to persist %v: %w", keys, err)
	}
	return nil
}

func (s *Store) value(key string) any {
	switch key {
	case common.KeyProfile:
		return s.state.Profile
	case common.KeyProfiles:
		return s.state.Profiles
	case common.KeyProducts:
		return s.state.Products
	case common.KeyTheme:
		return s.theme
	default:
		return nil
	}
}

func indexProfile(profiles []models.Profile, id string) int {
	for i := range profiles {
		if profiles[i].ID == id {
			return i
		}
	}
	return -1
}

func indexProduct(products []models.Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
