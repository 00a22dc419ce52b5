// Package cli provides the interactive sharebox command-line front end.
//
// App wires the catalog service to a text presenter. Every state change marks
// a render.Scheduler dirty; the scheduler runs on a frame clock that the REPL
// ticks after each command, so one command redraws the screen at most once.
//
// Commands:
//   - Profiles: profile, profiles, switch, newprofile, delprofile
//   - Products: url (autofill the draft), add, draft, like, delete, comment
//   - View: list, stats, show, close, filter, theme
//   - Data files: export, import
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Prompts are printed only when stdin is a terminal, so command scripts can
// be piped in.
package cli
