package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Guard(ctx context.Context, fn func(context.Context) error) error

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Show(ctx context.Context) error
	Generate(ctx context.Context) error
	History(ctx context.Context) error
	View(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Edit(ctx context.Context) error
	Export(ctx context.Context) error
	Navigate(ctx context.Context, section string) error
	Reset(ctx context.Context) error
	State(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: login, nav <section>, state, reset, exit"
	helpLoggedIn  = "Available commands: profile, show, generate, history, view <id>, delete <id>, edit, export, nav <section>, logout, state, reset, exit"
)

// runREPL starts a simple read–eval–print loop for the covy CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a', each under a.Guard. Unknown commands are
// reported back to the user. The loop exits on EOF, when ctx is done or
// when the user types "exit" or "quit". The prompt is printed only when
// interactive is set.
//
// Any errors returned by command handlers are ignored here; the components
// have already told the user about them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer, interactive bool) {
	for ctx.Err() == nil {
		if interactive {
			fmt.Fprintf(w, "covy %s> ", statusFn())
		}
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		run := func(fn func(context.Context) error) { _ = a.Guard(ctx, fn) }

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpAnonymous)
			}

		case "login":
			run(a.Login)
		case "logout":
			run(a.Logout)
		case "profile":
			run(a.EditProfile)
		case "show":
			run(a.Show)
		case "generate":
			run(a.Generate)
		case "history":
			run(a.History)
		case "edit":
			run(a.Edit)
		case "export":
			run(a.Export)
		case "reset":
			run(a.Reset)
		case "state":
			run(a.State)

		case "view", "delete":
			id, ok := parseID(args)
			if !ok {
				fmt.Fprintf(w, "Usage: %s <id>\n", cmd)
				continue
			}
			if cmd == "view" {
				run(func(ctx context.Context) error { return a.View(ctx, id) })
			} else {
				run(func(ctx context.Context) error { return a.Delete(ctx, id) })
			}

		case "nav":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: nav <login|profile|generate|history>")
				continue
			}
			run(func(ctx context.Context) error {
				err := a.Navigate(ctx, args[0])
				if err != nil {
					fmt.Fprintln(w, err)
				}
				return err
			})

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
