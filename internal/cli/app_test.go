package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/sharebox/internal/linkmeta"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/repositories/kv"
	"github.com/dmitrijs2005/sharebox/internal/services"
	"github.com/dmitrijs2005/sharebox/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	meta models.LinkMetadata
	err  error
}

func (f stubFetcher) Fetch(context.Context, string) (models.LinkMetadata, error) {
	return f.meta, f.err
}

func newTestApp(t *testing.T, script string, fetcher linkmeta.Fetcher) (*App, *bytes.Buffer) {
	t.Helper()
	s := store.New(kv.NewMemoryRepository(), logging.Nop())
	require.NoError(t, s.Init(context.Background()))

	var out bytes.Buffer
	a := NewApp(strings.NewReader(script), &out, 0, logging.Nop(), func(m services.Marker) services.CatalogService {
		return services.NewCatalogService(s, fetcher, m, logging.Nop())
	})
	return a, &out
}

func mustExec(t *testing.T, a *App, line string) {
	t.Helper()
	require.NoError(t, a.Exec(context.Background(), line), line)
}

func TestApp_ScriptedSession(t *testing.T) {
	printed := capturePrint(t)
	script := strings.Join([]string{
		"profile ana Loves lamps",
		"add",
		"",
		"Desk lamp",
		"Warm light lamp",
		"19.5",
		"home",
		"",
		"exit",
	}, "\n")
	a, out := newTestApp(t, script, linkmeta.Disabled{})
	require.False(t, a.Interactive())

	a.Run(context.Background())

	vm := a.svc.View()
	assert.Equal(t, "ana", vm.Profile.Username)
	assert.Equal(t, "Loves lamps", vm.Profile.Bio)
	require.Len(t, vm.Visible, 1)
	assert.Equal(t, "Desk lamp", vm.Visible[0].Title)
	assert.Equal(t, 19.5, vm.Visible[0].Price)

	assert.Contains(t, out.String(), "Profile @ana saved.")
	assert.Contains(t, out.String(), `Added "Desk lamp"`)
	assert.Contains(t, strings.Join(*printed, ""), "Bye!")
}

func TestApp_RedrawsOncePerCommand(t *testing.T) {
	a, out := newTestApp(t, "", linkmeta.Disabled{})
	ctx := context.Background()

	for range 3 {
		a.svc.SetFilter(models.FilterPatch{})
	}
	_, err := a.svc.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Empty(t, out.String(), "nothing drawn before the frame")

	a.Flush()
	assert.Equal(t, 1, strings.Count(out.String(), "Products 0"))

	a.Flush()
	assert.Equal(t, 1, strings.Count(out.String(), "Products 0"), "idle frame draws nothing")

	mustExec(t, a, "list")
	assert.Equal(t, 2, strings.Count(out.String(), "Products 0"))
}

func TestApp_AutofillThenAdd(t *testing.T) {
	fetcher := stubFetcher{meta: models.LinkMetadata{
		Title: "Gaming Laptop", Description: "Fast laptop with a big screen", ImageURL: "https://img.example/l.png",
		Price: "999.99", Category: "electronics", SourceURL: "https://shop.example/laptop",
	}}
	// The add form keeps every prefilled value.
	a, out := newTestApp(t, "\n\n\n\n\n\n", fetcher)

	mustExec(t, a, "profile ana")
	mustExec(t, a, "url shop.example/laptop")
	assert.Contains(t, out.String(), "Details filled from the link")
	assert.Contains(t, a.Status(), "draft")

	mustExec(t, a, "add")
	vm := a.svc.View()
	require.Len(t, vm.Visible, 1)
	p := vm.Visible[0]
	assert.Equal(t, "Gaming Laptop", p.Title)
	assert.Equal(t, 999.99, p.Price)
	assert.Equal(t, "https://img.example/l.png", p.ImageURL)
	assert.Equal(t, "https://shop.example/laptop", p.SourceURL)
	assert.NotContains(t, a.Status(), "draft")
}

func TestApp_AutofillFailureWarnsAndKeepsDraft(t *testing.T) {
	a, out := newTestApp(t, "", stubFetcher{err: linkmeta.ErrUnavailable})

	a.SetDraft(models.ProductDraft{Title: "Typed"})
	mustExec(t, a, "url shop.example/x")

	assert.Contains(t, out.String(), "Could not fetch product details")
	assert.Equal(t, "Typed", a.draft.Title)
}

func TestApp_AddRejectedKeepsDraft(t *testing.T) {
	a, _ := newTestApp(t, "", linkmeta.Disabled{})
	mustExec(t, a, "profile ana")

	a.SetDraft(models.ProductDraft{Title: "Lamp", Description: "short", Price: "abc", Category: "home"})
	err := a.AddDraft(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "Lamp", a.draft.Title)
	assert.Empty(t, a.svc.View().Visible)
}

func addProduct(t *testing.T, a *App, title string) models.Product {
	t.Helper()
	a.SetDraft(models.ProductDraft{Title: title, Description: "A description", Price: "10", Category: "home"})
	require.NoError(t, a.AddDraft(context.Background(), ""))
	for _, p := range a.svc.View().Visible {
		if p.Title == title {
			return p
		}
	}
	t.Fatalf("product %q not added", title)
	return models.Product{}
}

func TestApp_ProductCommandsResolvePrefixes(t *testing.T) {
	a, out := newTestApp(t, "", linkmeta.Disabled{})
	ctx := context.Background()
	mustExec(t, a, "profile ana")
	lamp := addProduct(t, a, "Desk lamp")

	ref := lamp.ID[:6]
	mustExec(t, a, "like "+ref)
	mustExec(t, a, "comment "+ref+" lovely  light")
	mustExec(t, a, "show "+ref)

	vm := a.svc.View()
	require.NotNil(t, vm.Selected)
	assert.Equal(t, 1, vm.Selected.Likes)
	assert.Equal(t, []string{"lovely light"}, vm.Selected.Comments)
	assert.Contains(t, out.String(), "1. lovely light")

	mustExec(t, a, "close")
	assert.Nil(t, a.svc.View().Selected)
	mustExec(t, a, "show "+ref)

	assert.ErrorIs(t, a.Exec(ctx, "like zzz"), ErrNoSuchProduct)
	assert.ErrorIs(t, a.Exec(ctx, "like"), ErrUsage)

	mustExec(t, a, "delete "+lamp.ID)
	assert.Nil(t, a.svc.View().Selected)
	assert.Empty(t, a.svc.View().Visible)
}

func TestApp_ExecArgsKeepsWhitespace(t *testing.T) {
	a, _ := newTestApp(t, "", linkmeta.Disabled{})
	ctx := context.Background()
	mustExec(t, a, "profile ana")
	lamp := addProduct(t, a, "Desk lamp")

	require.NoError(t, a.ExecArgs(ctx, "comment", lamp.ID, "so  bright"))
	require.True(t, a.svc.OpenDetail(lamp.ID))
	assert.Equal(t, []string{"so  bright"}, a.svc.View().Selected.Comments)

	assert.ErrorContains(t, a.ExecArgs(ctx, "nope"), "unknown command: nope")
}

func TestResolve(t *testing.T) {
	ids := []string{"abc1", "abc2", "abd"}

	got, err := resolve(ids, "abd", ErrNoSuchProduct)
	require.NoError(t, err)
	assert.Equal(t, "abd", got)

	got, err = resolve(ids, "abc2", ErrNoSuchProduct)
	require.NoError(t, err)
	assert.Equal(t, "abc2", got)

	_, err = resolve(ids, "abc", ErrNoSuchProduct)
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = resolve(ids, "x", ErrNoSuchProfile)
	assert.ErrorIs(t, err, ErrNoSuchProfile)

	_, err = resolve(ids, " ", ErrNoSuchProduct)
	assert.ErrorIs(t, err, ErrNoSuchProduct)
}

func TestApp_Filter(t *testing.T) {
	a, _ := newTestApp(t, "", linkmeta.Disabled{})
	ctx := context.Background()

	mustExec(t, a, "filter category home")
	mustExec(t, a, "filter search desk lamp")
	mustExec(t, a, "filter sort price-desc")
	mustExec(t, a, "filter mine on")
	assert.Equal(t, models.Filter{Category: "home", SearchTerm: "desk lamp", SortBy: models.SortPriceDesc, OwnerOnly: true}, a.svc.View().Filter)

	mustExec(t, a, "filter reset")
	assert.Equal(t, models.DefaultFilter(), a.svc.View().Filter)

	for _, bad := range []string{"filter", "filter sort cheapest", "filter mine maybe", "filter color red"} {
		assert.ErrorIs(t, a.Exec(ctx, bad), ErrUsage, bad)
	}
}

func TestApp_Profiles(t *testing.T) {
	a, out := newTestApp(t, "", linkmeta.Disabled{})
	ctx := context.Background()

	mustExec(t, a, "profile ana")
	ana := a.svc.View().Profile
	mustExec(t, a, "switch new")
	mustExec(t, a, "profile bob")

	mustExec(t, a, "switch "+ana.ID[:8])
	assert.Equal(t, "ana", a.svc.View().Profile.Username)
	assert.ErrorIs(t, a.Exec(ctx, "switch nobody"), ErrNoSuchProfile)

	mustExec(t, a, "profiles")
	assert.Contains(t, out.String(), "* "+ana.ID+"  @ana")

	mustExec(t, a, "delprofile")
	assert.Equal(t, "bob", a.svc.View().Profile.Username)
	assert.Len(t, a.svc.View().Profiles, 1)

	mustExec(t, a, "newprofile")
	assert.ErrorIs(t, a.Exec(ctx, "delprofile"), services.ErrNoSavedProfile)
}

func TestApp_ThemeToggle(t *testing.T) {
	a, out := newTestApp(t, "", linkmeta.Disabled{})
	mustExec(t, a, "theme")
	assert.Equal(t, models.ThemeDark, a.svc.View().Theme)
	assert.Contains(t, out.String(), "Switched to the dark theme.")
}

func TestApp_ExportImport(t *testing.T) {
	dir := t.TempDir()
	src, _ := newTestApp(t, "", linkmeta.Disabled{})
	mustExec(t, src, "profile ana")
	addProduct(t, src, "Desk lamp")
	addProduct(t, src, "Chair")

	mustExec(t, src, "export "+dir)
	matches, err := filepath.Glob(filepath.Join(dir, "sharebox-data-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	dst, out := newTestApp(t, "", linkmeta.Disabled{})
	mustExec(t, dst, "import "+matches[0])
	assert.Contains(t, out.String(), "Import complete. Products added 2, skipped 0. Profiles added 1, skipped 0.")
	assert.Equal(t, "ana", dst.svc.View().Profile.Username)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0o600))
	assert.EqualError(t, dst.Exec(context.Background(), "import "+bad), "could not import file: it is not valid JSON")

	assert.Error(t, dst.Exec(context.Background(), "import "+filepath.Join(dir, "missing.json")))
}
