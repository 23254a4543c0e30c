package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Open(ctx context.Context, path string) error
	Back(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Prefs(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
	Routes(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the SkyTrack shell.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sky> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: open <path>, back, routes, whoami, prefs, reset, logout, exit")
			} else {
				printlnFn("Available commands: open <path>, back, routes, login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "o", "open":
			if len(parts) < 2 {
				printlnFn("Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, parts[1])

		case "back":
			_ = a.Back(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "prefs":
			_ = a.Prefs(ctx, parts[1:])

		case "reset":
			_ = a.Reset(ctx)

		case "routes":
			_ = a.Routes(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
