package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	calls   []string
	flushes int
	fail    error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.fail
}

func (f *fakeExec) Status() string    { return "status" }
func (f *fakeExec) Interactive() bool { return false }
func (f *fakeExec) Flush()            { f.flushes++ }

func (f *fakeExec) List(_ context.Context, a []string) error    { return f.record("list", a) }
func (f *fakeExec) Stats(_ context.Context, a []string) error   { return f.record("stats", a) }
func (f *fakeExec) Show(_ context.Context, a []string) error    { return f.record("show", a) }
func (f *fakeExec) CloseDetail(_ context.Context, a []string) error {
	return f.record("close", a)
}
func (f *fakeExec) Profile(_ context.Context, a []string) error { return f.record("profile", a) }
func (f *fakeExec) Profiles(_ context.Context, a []string) error {
	return f.record("profiles", a)
}
func (f *fakeExec) Switch(_ context.Context, a []string) error { return f.record("switch", a) }
func (f *fakeExec) NewProfile(_ context.Context, a []string) error {
	return f.record("newprofile", a)
}
func (f *fakeExec) DeleteProfile(_ context.Context, a []string) error {
	return f.record("delprofile", a)
}
func (f *fakeExec) Autofill(_ context.Context, a []string) error { return f.record("url", a) }
func (f *fakeExec) Add(_ context.Context, a []string) error      { return f.record("add", a) }
func (f *fakeExec) Draft(_ context.Context, a []string) error    { return f.record("draft", a) }
func (f *fakeExec) Like(_ context.Context, a []string) error     { return f.record("like", a) }
func (f *fakeExec) Delete(_ context.Context, a []string) error   { return f.record("delete", a) }
func (f *fakeExec) Comment(_ context.Context, a []string) error  { return f.record("comment", a) }
func (f *fakeExec) Filter(_ context.Context, a []string) error   { return f.record("filter", a) }
func (f *fakeExec) Theme(_ context.Context, a []string) error    { return f.record("theme", a) }
func (f *fakeExec) Export(_ context.Context, a []string) error   { return f.record("export", a) }
func (f *fakeExec) Import(_ context.Context, a []string) error   { return f.record("import", a) }

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesAndFlushes(t *testing.T) {
	out := capturePrint(t)

	input := strings.Join([]string{
		"help",
		"l",
		"",
		"like abc",
		"close",
		"comment abc very nice",
		"filter sort price-asc",
		"foobar",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"list", "like abc", "close", "comment abc very nice", "filter sort price-asc"}, exec.calls)
	assert.Equal(t, 5, exec.flushes, "one flush per dispatched command")

	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "Available commands")
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{fail: errors.New("boom")}
	runREPL(context.Background(), exec, bufio.NewReader(strings.NewReader("theme\nstats")))

	assert.Equal(t, []string{"theme", "stats"}, exec.calls)
	assert.Contains(t, strings.Join(*out, ""), "error: boom")
}

func TestExec(t *testing.T) {
	exec := &fakeExec{}
	require.NoError(t, execLine(exec, "show  abc "))
	require.NoError(t, execLine(exec, "   "))
	assert.Equal(t, []string{"show abc"}, exec.calls)
	assert.Equal(t, 1, exec.flushes)

	assert.EqualError(t, execLine(exec, "dance"), "unknown command: dance")
}

func execLine(a execIface, line string) error {
	return exec(context.Background(), a, line)
}
