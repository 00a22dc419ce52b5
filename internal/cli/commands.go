package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/filex"
	"github.com/dmitrijs2005/sharebox/internal/linkmeta"
	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/reconcile"
	"github.com/dmitrijs2005/sharebox/internal/services"
)

// List requests a redraw of the product list.
func (a *App) List(ctx context.Context, args []string) error {
	a.sched.MarkDirty()
	return nil
}

// Stats prints the dashboard only.
func (a *App) Stats(ctx context.Context, args []string) error {
	fmt.Fprintln(a.out, Dashboard(a.styles(), a.svc.View().Stats))
	return nil
}

// Show opens the detail view of a product.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <id>")
	}
	id, err := a.productID(args[0])
	if err != nil {
		return err
	}
	if !a.svc.OpenDetail(id) {
		return ErrNoSuchProduct
	}
	return nil
}

// CloseDetail closes the open product.
func (a *App) CloseDetail(ctx context.Context, args []string) error {
	a.svc.CloseDetail()
	return nil
}

// Profile saves the active profile. With arguments the first one is the
// username and the rest the bio; without, the fields are prompted for.
func (a *App) Profile(ctx context.Context, args []string) error {
	current := a.svc.View().Profile
	in := services.ProfileInput{Username: current.Username, Bio: current.Bio}

	if len(args) > 0 {
		in.Username = args[0]
		in.Bio = strings.Join(args[1:], " ")
	} else {
		var err error
		if in.Username, err = GetWithDefault(a.reader, "Username", current.Username, a.prompts); err != nil {
			return err
		}
		if in.Bio, err = GetWithDefault(a.reader, "Bio", current.Bio, a.prompts); err != nil {
			return err
		}
		path, err := GetSimpleText(a.reader, "Avatar image path (optional)", a.prompts)
		if err != nil {
			return err
		}
		if in.AvatarData, err = services.ReadImageDataURL(path, services.MaxAvatarBytes); err != nil {
			return err
		}
	}

	p, err := a.svc.SaveProfile(ctx, in)
	if err != nil {
		return err
	}
	a.notify(NoticeSuccess, fmt.Sprintf("Profile @%s saved.", p.Username))
	return nil
}

func (a *App) Profiles(ctx context.Context, args []string) error {
	vm := a.svc.View()
	fmt.Fprintln(a.out, ProfileList(a.styles(), vm.Profile, vm.Profiles))
	return nil
}

// Switch activates a saved profile; "new" starts a fresh one.
func (a *App) Switch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("switch <profile id>|new")
	}
	if args[0] == "new" {
		return a.NewProfile(ctx, nil)
	}
	id, err := a.profileID(args[0])
	if err != nil {
		return err
	}
	ok, err := a.svc.SwitchProfile(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoSuchProfile
	}
	a.notify(NoticeSuccess, "Switched to @"+a.svc.View().Profile.Username+".")
	return nil
}

func (a *App) NewProfile(ctx context.Context, args []string) error {
	if _, err := a.svc.NewProfile(ctx); err != nil {
		return err
	}
	a.notify(NoticeSuccess, "Started a new profile. Save it with 'profile'.")
	return nil
}

// DeleteProfile removes the active profile, asking first on a terminal.
func (a *App) DeleteProfile(ctx context.Context, args []string) error {
	current := a.svc.View().Profile
	if a.interactive && current.HasUsername() {
		answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete profile @%s? (y/N)", current.Username), a.prompts)
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			return nil
		}
	}
	p, err := a.svc.DeleteProfile(ctx)
	if err != nil {
		return err
	}
	a.notify(NoticeSuccess, fmt.Sprintf("Profile @%s deleted.", p.Username))
	return nil
}

// Autofill fills the draft from a product link.
func (a *App) Autofill(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usage("url [link]")
	}
	if len(args) == 1 {
		a.draft.SourceURL = args[0]
	}
	if err := a.autofill(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, DraftSummary(a.styles(), a.draft))
	return nil
}

// autofill reports collaborator failures as a warning; the draft is left as
// typed and the user can continue manually.
func (a *App) autofill(ctx context.Context) error {
	err := a.svc.Autofill(ctx, &a.draft)
	switch {
	case err == nil:
		a.notify(NoticeSuccess, "Details filled from the link. Review them before adding.")
		return nil
	case errors.Is(err, linkmeta.ErrUnavailable), errors.Is(err, common.ErrInvalidURL):
		a.notify(NoticeWarning, "Could not fetch product details. Enter them manually.")
		return nil
	default:
		return err
	}
}

// Add walks through the product form, prefilled from the draft, and adds
// the product.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return usage("add")
	}

	link, err := GetWithDefault(a.reader, "Product link (optional)", a.draft.SourceURL, a.prompts)
	if err != nil {
		return err
	}
	if link != a.draft.SourceURL {
		a.draft.SourceURL = link
		if link != "" {
			if err := a.autofill(ctx); err != nil {
				return err
			}
		}
	}

	d := &a.draft
	if d.Title, err = GetWithDefault(a.reader, "Title", d.Title, a.prompts); err != nil {
		return err
	}
	if d.Description, err = GetWithDefault(a.reader, "Description", d.Description, a.prompts); err != nil {
		return err
	}
	if d.Price, err = GetWithDefault(a.reader, "Price", d.Price, a.prompts); err != nil {
		return err
	}
	categoryPrompt := "Category (" + strings.Join(models.Categories, ", ") + ")"
	if d.Category, err = GetWithDefault(a.reader, categoryPrompt, d.Category, a.prompts); err != nil {
		return err
	}
	imagePath, err := GetSimpleText(a.reader, "Image file path (optional)", a.prompts)
	if err != nil {
		return err
	}
	return a.AddDraft(ctx, imagePath)
}

// AddDraft adds the current draft as a product. On rejection the draft is
// kept so the user can fix it.
func (a *App) AddDraft(ctx context.Context, imagePath string) error {
	imageData, err := services.ReadImageDataURL(imagePath, services.MaxProductImageBytes)
	if err != nil {
		return err
	}
	p, err := a.svc.AddProduct(ctx, &a.draft, imageData)
	if err != nil {
		return err
	}
	a.notify(NoticeSuccess, fmt.Sprintf("Added %q (%s).", p.Title, shortID(p.ID)))
	return nil
}

// Draft prints the pending form.
func (a *App) Draft(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		a.draft = models.ProductDraft{}
		return nil
	}
	fmt.Fprintln(a.out, DraftSummary(a.styles(), a.draft))
	return nil
}

func (a *App) Like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("like <id>")
	}
	id, err := a.productID(args[0])
	if err != nil {
		return err
	}
	return a.svc.LikeProduct(ctx, id)
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <id>")
	}
	id, err := a.productID(args[0])
	if err != nil {
		return err
	}
	if err := a.svc.DeleteProduct(ctx, id); err != nil {
		return err
	}
	a.notify(NoticeSuccess, "Product deleted.")
	return nil
}

// Comment adds a comment; the text is prompted for when not given.
func (a *App) Comment(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("comment <id> [text]")
	}
	id, err := a.productID(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")
	if text == "" {
		if text, err = GetSimpleText(a.reader, "Comment", a.prompts); err != nil {
			return err
		}
	}
	return a.svc.AddComment(ctx, id, text)
}

var sortKeys = map[string]models.SortKey{
	string(models.SortNewest):    models.SortNewest,
	string(models.SortPriceAsc):  models.SortPriceAsc,
	string(models.SortPriceDesc): models.SortPriceDesc,
	string(models.SortLikesDesc): models.SortLikesDesc,
}

// Filter changes one criterion of the product list.
func (a *App) Filter(ctx context.Context, args []string) error {
	const help = "filter category <name>|search [text]|sort newest|price-asc|price-desc|likes-desc|mine on|off|reset"
	if len(args) == 0 {
		return usage(help)
	}

	var patch models.FilterPatch
	switch args[0] {
	case "category":
		category := models.CategoryAll
		if len(args) > 1 {
			category = args[1]
		}
		patch.Category = &category
	case "search":
		term := strings.Join(args[1:], " ")
		patch.SearchTerm = &term
	case "sort":
		if len(args) != 2 {
			return usage(help)
		}
		key, ok := sortKeys[args[1]]
		if !ok {
			return usage(help)
		}
		patch.SortBy = &key
	case "mine":
		if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
			return usage(help)
		}
		on := args[1] == "on"
		patch.OwnerOnly = &on
	case "reset":
		d := models.DefaultFilter()
		patch = models.FilterPatch{Category: &d.Category, SearchTerm: &d.SearchTerm, SortBy: &d.SortBy, OwnerOnly: &d.OwnerOnly}
	default:
		return usage(help)
	}
	a.svc.SetFilter(patch)
	return nil
}

func (a *App) Theme(ctx context.Context, args []string) error {
	t, err := a.svc.ToggleTheme(ctx)
	if err != nil {
		return err
	}
	a.notify(NoticeSuccess, fmt.Sprintf("Switched to the %s theme.", t))
	return nil
}

// Export writes the dataset to args[0], or to the suggested file name in the
// working directory. A directory target gets the suggested name inside it.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usage("export [path]")
	}
	data, name, err := a.svc.Export()
	if err != nil {
		return err
	}

	path := name
	if len(args) == 1 {
		path = args[0]
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			path = filepath.Join(path, name)
		}
	}
	if err := filex.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}
	a.notify(NoticeSuccess, "Exported to "+path+".")
	return nil
}

// Import merges the export or product array stored at args[0].
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("import <path>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", args[0], err)
	}
	res, err := a.svc.Import(ctx, data)
	if errors.Is(err, common.ErrInvalidDocument) {
		return errors.New("could not import file: it is not valid JSON")
	}
	if err != nil {
		return err
	}
	a.notify(NoticeSuccess, reconcile.Summary(res))
	return nil
}
