package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type handler func(ctx context.Context, args []string) error

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Status() string
	Interactive() bool
	Flush()

	List(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	CloseDetail(ctx context.Context, args []string) error

	Profile(ctx context.Context, args []string) error
	Profiles(ctx context.Context, args []string) error
	Switch(ctx context.Context, args []string) error
	NewProfile(ctx context.Context, args []string) error
	DeleteProfile(ctx context.Context, args []string) error

	Autofill(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Draft(ctx context.Context, args []string) error
	Like(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error

	Filter(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  (l)ist                        show the product list
  stats                         show the dashboard
  show <id> | close             open or close a product
  profile [username [bio]]      save the active profile
  profiles                      list saved profiles
  switch <id>|new               change the active profile
  newprofile | delprofile       start a new profile or delete the active one
  url [link]                    fill the product draft from a link
  add | draft [clear]           add a product from the draft, show or clear it
  like <id> | delete <id>       like or delete a product
  comment <id> [text]           comment on a product
  filter <criterion> ...        category, search, sort, mine or reset
  theme                         toggle light and dark
  export [path] | import <path> save or merge a data file
  exit | quit                   leave the program`

func commandTable(a execIface) map[string]handler {
	return map[string]handler{
		"l":          a.List,
		"list":       a.List,
		"stats":      a.Stats,
		"show":       a.Show,
		"close":      a.CloseDetail,
		"profile":    a.Profile,
		"profiles":   a.Profiles,
		"switch":     a.Switch,
		"newprofile": a.NewProfile,
		"delprofile": a.DeleteProfile,
		"url":        a.Autofill,
		"add":        a.Add,
		"draft":      a.Draft,
		"like":       a.Like,
		"delete":     a.Delete,
		"comment":    a.Comment,
		"filter":     a.Filter,
		"theme":      a.Theme,
		"export":     a.Export,
		"import":     a.Import,
	}
}

// runREPL starts a simple read–eval–print loop for the sharebox CLI.
//
// It reads a line, parses the first token as the command and dispatches to
// a. Errors returned by handlers are printed and the loop continues. After
// every command the pending redraw, if any, is flushed. The loop exits on EOF
// or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	commands := commandTable(a)
	for {
		if a.Interactive() {
			printlnFn(fmt.Sprintf("sharebox (%s) > ", a.Status()))
		}
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		run, ok := commands[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := run(ctx, args); err != nil {
			printlnFn(errorText("error: ") + err.Error())
		}
		a.Flush()
	}
}

// exec runs a single command line as the REPL would, then flushes.
func exec(ctx context.Context, a execIface, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	return execArgs(ctx, a, parts[0], parts[1:])
}

// execArgs runs the named command with already split arguments, then flushes.
func execArgs(ctx context.Context, a execIface, name string, args []string) error {
	run, ok := commandTable(a)[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	err := run(ctx, args)
	a.Flush()
	return err
}
