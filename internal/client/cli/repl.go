package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printFn and printlnFn are test seams for REPL output. In tests, replace
// them with stubs.
var (
	printFn   = fmt.Print
	printlnFn = fmt.Println
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	checkSession(ctx context.Context)
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	List(ctx context.Context, term string) error
	Show(ctx context.Context, ref string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, ref string) error
	Delete(ctx context.Context, ref string) error
}

const (
	helpLoggedOut = "Available commands: login, status, exit"
	helpLoggedIn  = "Available commands: (l)ist [term], show <id>, add, edit <id>, delete <id>, status, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the JobTracker CLI.
//
// Before every prompt it lets the session check run, so a session ended by
// a 401 (or by its token running out) drops the user straight back into the
// login prompt. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help            show available commands
//	  - login           authenticate
//	  - status          show session and connectivity
//	  - exit | quit     leave the program
//
//	Logged in, additionally:
//	  - list | l [term] list jobs, optionally filtered
//	  - show <id>       show one job (a unique id prefix is enough)
//	  - add             create a job
//	  - edit <id>       update a job
//	  - delete <id>     delete a job
//	  - logout          log out
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		a.checkSession(ctx)

		printFn(fmt.Sprintf("jt %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "logout", "l", "list", "show", "add", "edit", "delete":
			if !a.isLoggedIn() {
				printlnFn("Please log in first (type 'login')")
				continue
			}
			runAuthenticated(ctx, a, cmd, args)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func runAuthenticated(ctx context.Context, a execIface, cmd string, args []string) {
	needID := func(usage string) (string, bool) {
		if len(args) == 0 {
			printlnFn("Usage:", usage)
			return "", false
		}
		return args[0], true
	}

	switch cmd {
	case "logout":
		_ = a.Logout(ctx)

	case "l", "list":
		_ = a.List(ctx, strings.Join(args, " "))

	case "show":
		if id, ok := needID("show <id>"); ok {
			_ = a.Show(ctx, id)
		}

	case "add":
		_ = a.Add(ctx)

	case "edit":
		if id, ok := needID("edit <id>"); ok {
			_ = a.Edit(ctx, id)
		}

	case "delete":
		if id, ok := needID("delete <id>"); ok {
			_ = a.Delete(ctx, id)
		}
	}
}
