package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/catvote/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// isTerminal is a test seam reporting whether the prompt should be shown.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Gallery(ctx context.Context, limit int) error
	Votes(ctx context.Context) error
	Vote(ctx context.Context, imageID string, value models.VoteValue) error
	Retry(ctx context.Context, imageID string) error
	Status(ctx context.Context, imageID string) error
	Refresh(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	NewID(ctx context.Context, token string) error
	ResetID(ctx context.Context) error
}

const helpText = `Available commands:
  gallery [n]       list n images with your votes
  votes             list your votes
  up <image>        vote an image up (a gallery number works too)
  down <image>      vote an image down
  retry <image>     resubmit a failed vote
  status <image>    show the voting state of an image
  refresh           reload your votes from the service
  whoami            show your anonymous voter id
  newid [token]     switch to the given or a fresh voter id
  resetid           forget the voter id; a new one is made on next use
  exit | quit       leave the program`

// runREPL reads commands line by line from in and dispatches them to a
// until EOF, "exit"/"quit" or cancellation of ctx. Command errors are
// printed and the loop goes on. prompt is called before every line when
// stdin is a terminal.
func runREPL(ctx context.Context, a execIface, prompt func(), in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	interactive := isTerminal()

	for {
		if interactive {
			prompt()
		}

		var line string
		select {
		case <-ctx.Done():
			return
		case l, ok := <-lines:
			if !ok {
				return
			}
			line = l
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help", "h", "?":
			printlnFn(helpText)

		case "gallery", "g":
			limit := 0
			if len(args) > 0 {
				if limit, err = strconv.Atoi(args[0]); err != nil || limit <= 0 {
					printlnFn("Usage: gallery [n], n > 0")
					continue
				}
			}
			err = a.Gallery(ctx, limit)

		case "votes", "l", "list":
			err = a.Votes(ctx)

		case "up", "down":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <image>", cmd))
				continue
			}
			value, _ := models.ParseVoteValue(cmd)
			err = a.Vote(ctx, args[0], value)

		case "retry":
			if len(args) != 1 {
				printlnFn("Usage: retry <image>")
				continue
			}
			err = a.Retry(ctx, args[0])

		case "status":
			if len(args) != 1 {
				printlnFn("Usage: status <image>")
				continue
			}
			err = a.Status(ctx, args[0])

		case "refresh", "sync":
			err = a.Refresh(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "newid":
			token := ""
			if len(args) > 0 {
				token = args[0]
			}
			err = a.NewID(ctx, token)

		case "resetid":
			err = a.ResetID(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
