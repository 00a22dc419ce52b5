package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/repositories/kv"
	"github.com/dmitrijs2005/sharebox/internal/store"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Reconciler, *store.Store, *kv.MemoryRepository) {
	t.Helper()
	repo := kv.NewMemoryRepository()
	s := store.New(repo, logging.Nop())
	require.NoError(t, s.Init(context.Background()))
	return New(s), s, repo
}

// sequence returns generated ids in order, after which it panics.
func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		if i >= len(ids) {
			panic("id sequence exhausted")
		}
		id := ids[i]
		i++
		return id
	}
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func productIDs(s *store.Store) []string {
	var out []string
	for _, p := range s.Snapshot().Products {
		out = append(out, p.ID)
	}
	return out
}

func TestMerge_BareArrayAppendsAndCountsSkips(t *testing.T) {
	r, s, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, s.AddProduct(ctx, models.Product{ID: "own", Title: "Mine", Description: "Mine too"}))

	res, err := r.Merge(ctx, decode(t, `[
		{"id":"a","title":"Desk lamp","description":"Warm light"},
		{"id":"b","title":"","description":"No title"},
		"junk",
		{"id":"c","title":"Chair","description":"Oak chair"}
	]`))
	require.NoError(t, err)

	assert.Equal(t, models.MergeResult{ProductsAdded: 2, ProductsSkipped: 2}, res)
	assert.Equal(t, []string{"own", "a", "c"}, productIDs(s))
}

func TestMerge_ProductIDCollisionRenames(t *testing.T) {
	r, s, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, s.AddProduct(ctx, models.Product{ID: "a", Title: "Mine", Description: "Mine too"}))
	r.newID = sequence("a", "dup", "fresh-1", "fresh-2")

	res, err := r.Merge(ctx, decode(t, `[
		{"id":"a","title":"Desk lamp","description":"Warm light"},
		{"id":"dup","title":"Chair","description":"Oak chair"},
		{"id":"dup","title":"Chair","description":"Same id again"}
	]`))
	require.NoError(t, err)

	assert.Equal(t, 3, res.ProductsAdded)
	// The regenerated "a" collides again, so the first import takes "dup";
	// both imported "dup" records then need fresh ids.
	assert.Equal(t, []string{"a", "dup", "fresh-1", "fresh-2"}, productIDs(s))

	ids := map[string]bool{}
	for _, id := range productIDs(s) {
		require.False(t, ids[id], "duplicate id %s", id)
		ids[id] = true
	}
}

func TestMerge_ProfilesRejectOnCollision(t *testing.T) {
	r, s, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, s.SetActiveProfile(ctx, models.Profile{ID: "p1", Username: "Ana"}))

	res, err := r.Merge(ctx, decode(t, `{
		"profiles": [
			{"id":"p1","username":"Someone"},
			{"id":"p2","username":"ana"},
			{"id":"p3","username":""},
			{"id":"p4","username":"bob"},
			{"id":"p5","username":"BOB"}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, models.MergeResult{ProfilesAdded: 1, ProfilesSkipped: 4}, res)
	snap := s.Snapshot()
	require.Len(t, snap.Profiles, 2)
	assert.Equal(t, "bob", snap.Profiles[1].Username)
	assert.Equal(t, "p1", snap.Profile.ID)
}

func TestMerge_SingularProfileAndActivation(t *testing.T) {
	r, s, repo := setup(t)
	ctx := context.Background()

	res, err := r.Merge(ctx, decode(t, `{"profile":{"id":"p9","username":"zed"},"products":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProfilesAdded)

	snap := s.Snapshot()
	assert.Equal(t, "zed", snap.Profile.Username, "first profile becomes active when none has a username")

	b, err := repo.Get(ctx, common.KeyProfile)
	require.NoError(t, err)
	var active models.Profile
	require.NoError(t, json.Unmarshal(b, &active))
	assert.Equal(t, "p9", active.ID)
}

func TestMerge_SingularProfileIgnoredWhenProfilesPresent(t *testing.T) {
	r, s, _ := setup(t)

	res, err := r.Merge(context.Background(), decode(t, `{"profile":{"id":"x","username":"solo"},"profiles":[]}`))
	require.NoError(t, err)
	assert.Equal(t, models.MergeResult{}, res)
	assert.Empty(t, s.Snapshot().Profiles)
}

func TestMerge_UnknownShapesMergeNothing(t *testing.T) {
	r, s, _ := setup(t)
	for _, doc := range []string{`42`, `"text"`, `null`, `{"products":{"id":"a"}}`} {
		res, err := r.Merge(context.Background(), decode(t, doc))
		require.NoError(t, err, doc)
		assert.Equal(t, models.MergeResult{}, res, doc)
	}
	assert.Empty(t, s.Snapshot().Products)
}

func TestMergeJSON_InvalidBytesLeaveStorageUntouched(t *testing.T) {
	r, _, repo := setup(t)
	before, err := repo.List(context.Background())
	require.NoError(t, err)

	_, err = r.MergeJSON(context.Background(), []byte(`{"products": [`))
	require.ErrorIs(t, err, common.ErrInvalidDocument)

	after, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExportThenImportIntoEmptyStore(t *testing.T) {
	src, s, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, s.SetActiveProfile(ctx, models.Profile{ID: "p1", Username: "ana", CreatedAt: "2024-01-01T00:00:00.000Z"}))
	for i := range 3 {
		require.NoError(t, s.AddProduct(ctx, models.Product{
			ID: fmt.Sprintf("id-%d", i), Title: fmt.Sprintf("Item %d", i), Description: "Some words",
			Price: float64(i + 1), Category: "home", Comments: []string{"c"}, OwnerUsername: "ana",
			CreatedAt: "2024-01-01T00:00:00.000Z",
		}))
	}
	src.now = func() string { return "2024-06-01T12:00:00.000Z" }

	b, err := src.ExportJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  \"exportedAt\": \"2024-06-01T12:00:00.000Z\"")

	dst, target, _ := setup(t)
	res, err := dst.MergeJSON(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, models.MergeResult{ProductsAdded: 3, ProfilesAdded: 1}, res)

	if diff := cmp.Diff(s.Snapshot().Products, target.Snapshot().Products); diff != "" {
		t.Errorf("products mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "ana", target.Snapshot().Profile.Username)
}

func TestExportFileNameAndSummary(t *testing.T) {
	assert.Equal(t, "sharebox-data-2024-06-01.json", ExportFileName("2024-06-01T12:00:00.000Z"))
	assert.Equal(t,
		"Import complete. Products added 2, skipped 1. Profiles added 0, skipped 3.",
		Summary(models.MergeResult{ProductsAdded: 2, ProductsSkipped: 1, ProfilesSkipped: 3}))
}

func TestMerge_ReimportSameDocument(t *testing.T) {
	r, s, _ := setup(t)
	ctx := context.Background()
	doc := []byte(`{
		"products": [
			{"id":"a","title":"Desk lamp","description":"Warm light"},
			{"id":"b","title":"Chair","description":"Oak chair"}
		],
		"profiles": [
			{"id":"p1","username":"ana"},
			{"id":"p2","username":"bob"}
		]
	}`)

	first, err := r.MergeJSON(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, models.MergeResult{ProductsAdded: 2, ProfilesAdded: 2}, first)

	second, err := r.MergeJSON(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, models.MergeResult{ProductsAdded: 2, ProfilesSkipped: 2}, second)

	ids := productIDs(s)
	require.Len(t, ids, 4)
	seen := map[string]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, s.Snapshot().Profiles, 2)
}
