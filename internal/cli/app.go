package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/dmitrijs2005/sharebox/internal/render"
	"github.com/dmitrijs2005/sharebox/internal/services"
)

var (
	ErrUsage         = errors.New("usage")
	ErrNoSuchProduct = errors.New("no product with that id")
	ErrNoSuchProfile = errors.New("no saved profile with that id")
	ErrAmbiguousID   = errors.New("id prefix matches more than one record")
)

func usage(text string) error {
	return fmt.Errorf("%w: %s", ErrUsage, text)
}

// App is the text front end. Every state change marks the scheduler dirty;
// Flush runs the pending redraw, so a burst of changes from one command
// produces a single screen.
type App struct {
	svc    services.CatalogService
	frames *render.FrameClock
	sched  *render.Scheduler
	pres   *Presenter
	log    logging.Logger

	reader      *bufio.Reader
	out         io.Writer
	prompts     io.Writer
	interactive bool

	draft   models.ProductDraft
	closeFn func() error
}

// NewApp wires the presenter and the redraw scheduler. build receives the
// scheduler as the service's change marker.
func NewApp(in io.Reader, out io.Writer, renderDelay time.Duration, log logging.Logger,
	build func(marker services.Marker) services.CatalogService) *App {
	a := &App{
		frames:      render.NewFrameClock(),
		pres:        NewPresenter(out),
		log:         log,
		reader:      bufio.NewReader(in),
		out:         out,
		prompts:     io.Discard,
		interactive: interactive(in),
	}
	if a.interactive {
		a.prompts = out
	}
	a.sched = render.NewScheduler(a.frames, renderDelay, a.redraw)
	a.svc = build(a.sched)
	return a
}

// Run starts the REPL and blocks until EOF or exit.
func (a *App) Run(ctx context.Context) {
	if a.interactive {
		printlnFn("Welcome to sharebox (type 'help' for commands)")
	}
	a.sched.MarkDirty()
	a.Flush()
	runREPL(ctx, a, a.reader)
}

// Exec runs one command line, as typed at the prompt, and flushes the
// resulting redraw.
func (a *App) Exec(ctx context.Context, line string) error {
	return exec(ctx, a, line)
}

// ExecArgs runs the named command with args passed through unsplit, so an
// argument may carry its own whitespace.
func (a *App) ExecArgs(ctx context.Context, name string, args ...string) error {
	return execArgs(ctx, a, name, args)
}

// Flush runs the redraw queued since the last frame, if any.
func (a *App) Flush() {
	a.frames.RunFrame()
}

func (a *App) redraw() {
	a.pres.Render(a.svc.View())
}

func (a *App) styles() styles {
	return stylesFor(a.svc.View().Theme)
}

func (a *App) notify(kind, msg string) {
	Notify(a.out, kind, msg)
}

// Status is shown in the prompt.
func (a *App) Status() string {
	vm := a.svc.View()
	s := "no profile"
	if vm.Profile.HasUsername() {
		s = "@" + vm.Profile.Username
	}
	if a.draft != (models.ProductDraft{}) {
		s += " draft"
	}
	return s
}

func (a *App) Interactive() bool {
	return a.interactive
}

// SetDraft replaces the pending add-product form.
func (a *App) SetDraft(d models.ProductDraft) {
	a.draft = d
}

// CurrentDraft returns a copy of the pending add-product form.
func (a *App) CurrentDraft() models.ProductDraft {
	return a.draft
}

// resolve maps ref to one of ids: an exact match wins, otherwise ref must be
// the prefix of exactly one id.
func resolve(ids []string, ref string, notFound error) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", notFound
	}
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
	}
	var match string
	for _, id := range ids {
		if strings.HasPrefix(id, ref) && id != match {
			if match != "" {
				return "", ErrAmbiguousID
			}
			match = id
		}
	}
	if match == "" {
		return "", notFound
	}
	return match, nil
}

// productID resolves ref against the visible products and the open detail.
func (a *App) productID(ref string) (string, error) {
	vm := a.svc.View()
	ids := make([]string, 0, len(vm.Visible)+1)
	for _, p := range vm.Visible {
		ids = append(ids, p.ID)
	}
	if vm.Selected != nil {
		ids = append(ids, vm.Selected.ID)
	}
	return resolve(ids, ref, ErrNoSuchProduct)
}

func (a *App) profileID(ref string) (string, error) {
	vm := a.svc.View()
	ids := make([]string, 0, len(vm.Profiles))
	for _, p := range vm.Profiles {
		ids = append(ids, p.ID)
	}
	return resolve(ids, ref, ErrNoSuchProfile)
}
