package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Profile(ctx context.Context) error
	Instructions(ctx context.Context) error
	AddDevice(ctx context.Context) error
	RemoveDevice(ctx context.Context, name string) error
	Toggle(ctx context.Context, name string) error
	Brightness(ctx context.Context, name, value string) error
	Color(ctx context.Context, name, value string) error
	All(ctx context.Context, args []string) error
	Flush(ctx context.Context) error
}

// privateCommands need an authenticated session.
var privateCommands = map[string]bool{
	"logout":     true,
	"profile":    true,
	"add":        true,
	"remove":     true,
	"toggle":     true,
	"brightness": true,
	"color":      true,
	"all":        true,
	"flush":      true,
}

const (
	publicHelp  = "Available commands: dashboard, signup, login, instructions, exit"
	privateHelp = "Available commands: dashboard, profile, add, remove <name>, toggle <name>, " +
		"brightness <name> <0-100>, color <name> <#hex>, all on|off|brightness <n>|color <#hex>, " +
		"flush, instructions, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
//
// The loop exits on EOF or when the user types "exit" or "quit". Commands
// that need a session print "please log in first" when there is none.
// Errors returned by handlers are ignored here; handlers report their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("homelights %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if privateCommands[cmd] && !a.isLoggedIn() {
			printlnFn("please log in first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(privateHelp)
			} else {
				printlnFn(publicHelp)
			}

		case "signup", "register":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "dashboard", "whoami", "ls":
			_ = a.Dashboard(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "instructions":
			_ = a.Instructions(ctx)

		case "add":
			_ = a.AddDevice(ctx)

		case "remove", "rm":
			if len(args) != 1 {
				printlnFn("usage: remove <name>")
				continue
			}
			_ = a.RemoveDevice(ctx, args[0])

		case "toggle":
			if len(args) != 1 {
				printlnFn("usage: toggle <name>")
				continue
			}
			_ = a.Toggle(ctx, args[0])

		case "brightness":
			if len(args) != 2 {
				printlnFn("usage: brightness <name> <0-100>")
				continue
			}
			_ = a.Brightness(ctx, args[0], args[1])

		case "color":
			if len(args) != 2 {
				printlnFn("usage: color <name> <#hex>")
				continue
			}
			_ = a.Color(ctx, args[0], args[1])

		case "all":
			_ = a.All(ctx, args)

		case "flush":
			_ = a.Flush(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
