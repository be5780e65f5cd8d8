package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/catvote/internal/client/models"
)

type fakeExec struct {
	calls []string
	err   error
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeExec) Gallery(_ context.Context, limit int) error { return f.record("gallery %d", limit) }
func (f *fakeExec) Votes(context.Context) error                { return f.record("votes") }
func (f *fakeExec) Vote(_ context.Context, imageID string, v models.VoteValue) error {
	return f.record("vote %s %s", imageID, v)
}
func (f *fakeExec) Retry(_ context.Context, imageID string) error  { return f.record("retry %s", imageID) }
func (f *fakeExec) Status(_ context.Context, imageID string) error { return f.record("status %s", imageID) }
func (f *fakeExec) Refresh(context.Context) error                  { return f.record("refresh") }
func (f *fakeExec) WhoAmI(context.Context) error                   { return f.record("whoami") }
func (f *fakeExec) NewID(_ context.Context, token string) error    { return f.record("newid %q", token) }
func (f *fakeExec) ResetID(context.Context) error                  { return f.record("resetid") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()

	var lines []string
	origPrint, origTerm := printlnFn, isTerminal
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	isTerminal = func() bool { return false }
	t.Cleanup(func() { printlnFn, isTerminal = origPrint, origTerm })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"gallery",
		"gallery 5",
		"up abc",
		"down 2",
		"retry abc",
		"status abc",
		"votes",
		"refresh",
		"whoami",
		"newid",
		"newid tok-1",
		"resetid",
		"",
		"exit",
		"votes",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() {}, input)

	assert.Equal(t, []string{
		"gallery 0",
		"gallery 5",
		"vote abc up",
		"vote 2 down",
		"retry abc",
		"status abc",
		"votes",
		"refresh",
		"whoami",
		`newid ""`,
		`newid "tok-1"`,
		"resetid",
	}, exec.calls, "nothing runs after exit")
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader("up\nstatus\nretry\ngallery x\ngallery -1\nfoobar\nquit\n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() {}, input)

	assert.Empty(t, exec.calls)
	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "Usage: up <image>")
	assert.Contains(t, joined, "Usage: status <image>")
	assert.Contains(t, joined, "Usage: retry <image>")
	assert.Contains(t, joined, "Usage: gallery [n]")
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_PrintsCommandErrors(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{err: errors.New("service unavailable")}
	runREPL(context.Background(), exec, func() {}, strings.NewReader("refresh\n"))

	assert.Equal(t, []string{"refresh"}, exec.calls)
	assert.Contains(t, strings.Join(*out, ""), "Error: service unavailable")
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	// An input that never ends: the loop must still return.
	runREPL(ctx, exec, func() {}, blockingReader{})
	assert.Empty(t, exec.calls)
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestRunREPL_PromptsBeforeEveryLineOnTerminal(t *testing.T) {
	captureOutput(t)
	isTerminal = func() bool { return true }

	prompts := 0
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() { prompts++ }, strings.NewReader("votes\nrefresh\n"))

	assert.Equal(t, []string{"votes", "refresh"}, exec.calls)
	assert.Equal(t, 3, prompts, "one per line plus the one that meets EOF")
}
