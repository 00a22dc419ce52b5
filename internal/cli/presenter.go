package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/fatih/color"
)

// shortIDLen is how many id characters the product list shows.
const shortIDLen = 8

// Presenter renders view models as styled text.
type Presenter struct {
	out io.Writer
}

func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// Render writes the whole screen: header, dashboard, filter line, product
// list and the open detail card, if any.
func (p *Presenter) Render(vm models.ViewModel) {
	fmt.Fprintln(p.out, p.Screen(vm))
}

func (p *Presenter) Screen(vm models.ViewModel) string {
	st := stylesFor(vm.Theme)
	parts := []string{
		p.header(st, vm),
		Dashboard(st, vm.Stats),
		filterLine(st, vm.Filter),
		ProductList(st, vm.Visible),
	}
	if vm.Selected != nil {
		parts = append(parts, Detail(st, *vm.Selected))
	}
	return strings.Join(parts, "\n")
}

func (p *Presenter) header(st styles, vm models.ViewModel) string {
	who := "no profile"
	if vm.Profile.HasUsername() {
		who = "@" + vm.Profile.Username
	}
	return st.header.Render("sharebox") + " " + st.muted.Render(fmt.Sprintf("%s · %d saved profiles · %s theme", who, len(vm.Profiles), vm.Theme))
}

// Dashboard renders the aggregate statistics line.
func Dashboard(st styles, s models.Stats) string {
	line := fmt.Sprintf("Products %d · Likes %d", s.TotalProducts, s.TotalLikes)
	if s.MostLiked != nil {
		line += fmt.Sprintf(" · Most liked: %s (%d)", s.MostLiked.Title, s.MostLiked.Likes)
	}

	categories := make([]string, 0, len(s.CategoryCounts))
	for c := range s.CategoryCounts {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	counts := make([]string, 0, len(categories))
	for _, c := range categories {
		counts = append(counts, fmt.Sprintf("%s %d", c, s.CategoryCounts[c]))
	}
	if len(counts) > 0 {
		line += "\n" + st.muted.Render(strings.Join(counts, ", "))
	}
	return line
}

func filterLine(st styles, f models.Filter) string {
	mine := "off"
	if f.OwnerOnly {
		mine = "on"
	}
	return st.muted.Render(fmt.Sprintf("category %s · search %q · sort %s · mine %s", f.Category, f.SearchTerm, f.SortBy, mine))
}

// ProductList renders one block per product.
func ProductList(st styles, products []models.Product) string {
	if len(products) == 0 {
		return st.muted.Render("No products match the current filter.")
	}
	var b strings.Builder
	for i, p := range products {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s  %s\n",
			st.muted.Render(shortID(p.ID)),
			st.title.Render(p.Title),
			st.price.Render(formatPrice(p.Price)),
			st.muted.Render(p.Category),
			st.likes.Render(fmt.Sprintf("♥ %d", p.Likes)),
		)
		fmt.Fprintf(&b, "          %s", st.muted.Render(fmt.Sprintf("%d comments · by %s · %s", len(p.Comments), owner(p), day(p.CreatedAt))))
	}
	return b.String()
}

// Detail renders the full product card.
func Detail(st styles, p models.Product) string {
	lines := []string{
		st.title.Render(p.Title) + "  " + st.price.Render(formatPrice(p.Price)),
		st.muted.Render(fmt.Sprintf("%s · by %s · %s · id %s", p.Category, owner(p), day(p.CreatedAt), p.ID)),
		"",
		p.Description,
		"",
		st.likes.Render(fmt.Sprintf("♥ %d likes", p.Likes)),
	}
	if u := p.SafeSourceURL(); u != "" {
		lines = append(lines, "Source: "+u)
	}
	if img := imageLabel(p); img != "" {
		lines = append(lines, "Image: "+img)
	}
	if len(p.Comments) == 0 {
		lines = append(lines, st.muted.Render("No comments yet."))
	} else {
		lines = append(lines, fmt.Sprintf("Comments (%d):", len(p.Comments)))
		for i, c := range p.Comments {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, c))
		}
	}
	return st.card.Render(strings.Join(lines, "\n"))
}

// ProfileList renders the saved profiles, marking the active one.
func ProfileList(st styles, active models.Profile, profiles []models.Profile) string {
	if len(profiles) == 0 {
		return st.muted.Render("No saved profiles.")
	}
	var b strings.Builder
	for i, pr := range profiles {
		if i > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("%s  @%s", pr.ID, pr.Username)
		if pr.Bio != "" {
			line += "  " + st.muted.Render(pr.Bio)
		}
		if pr.ID == active.ID {
			b.WriteString(st.active.Render("* ") + line)
		} else {
			b.WriteString("  " + line)
		}
	}
	return b.String()
}

// DraftSummary renders the pending add-product form.
func DraftSummary(st styles, d models.ProductDraft) string {
	lines := []string{
		"Title:       " + d.Title,
		"Description: " + d.Description,
		"Price:       " + d.Price,
		"Category:    " + d.Category,
		"Source:      " + d.SourceURL,
	}
	if d.PrefetchedImageURL != "" {
		lines = append(lines, "Image:       "+d.PrefetchedImageURL)
	}
	return st.card.Render(strings.Join(lines, "\n"))
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func owner(p models.Product) string {
	if p.OwnerUsername == "" {
		return "unknown"
	}
	return "@" + p.OwnerUsername
}

func day(ts string) string {
	t, ok := models.ParseTimestamp(ts)
	if !ok {
		return "unknown date"
	}
	return t.Format("2006-01-02")
}

func imageLabel(p models.Product) string {
	if p.ImageData != "" {
		return fmt.Sprintf("embedded (%d KB)", len(p.ImageData)*3/4/1024)
	}
	return models.SafeHTTPURL(p.ImageURL)
}

var (
	successText = color.New(color.FgGreen).SprintFunc()
	warnText    = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorText   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Notice kinds.
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notify writes a one-line colored notice.
func Notify(w io.Writer, kind, msg string) {
	switch kind {
	case NoticeSuccess:
		fmt.Fprintln(w, successText("✓ ")+msg)
	case NoticeWarning:
		fmt.Fprintln(w, warnText("! ")+msg)
	default:
		fmt.Fprintln(w, errorText("✗ ")+msg)
	}
}
