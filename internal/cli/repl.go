package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	AddAccount(ctx context.Context) error
	ListAccounts(ctx context.Context) error
	ShowAccount(ctx context.Context) error
	SearchAccounts(ctx context.Context) error
	DeleteAccount(ctx context.Context) error

	ListProjects(ctx context.Context) error
	AddProject(ctx context.Context) error
	ListServices(ctx context.Context) error
	AddService(ctx context.Context) error
	DeleteProject(ctx context.Context) error
	DeleteService(ctx context.Context) error

	Sync(ctx context.Context) error
	Restore(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Preferences(ctx context.Context) error
	Expiring(ctx context.Context) error
	Export(ctx context.Context) error
}

const helpText = `Available commands:
  add, list, show, search, del        accounts
  projects, addproject, delproject    projects
  services, addservice, delservice    project services
  sync, restore                       cloud backup
  passwd, prefs, expiring, export     settings and reports
  exit | quit`

// runREPL starts a simple read–eval–print loop for the vault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vault> %s > ", statusFn()))
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
			printlnFn(helpText)

		case "add":
			_ = a.AddAccount(ctx)

		case "list", "l":
			_ = a.ListAccounts(ctx)

		case "show":
			_ = a.ShowAccount(ctx)

		case "search":
			_ = a.SearchAccounts(ctx)

		case "del":
			_ = a.DeleteAccount(ctx)

		case "projects":
			_ = a.ListProjects(ctx)

		case "addproject":
			_ = a.AddProject(ctx)

		case "services":
			_ = a.ListServices(ctx)

		case "addservice":
			_ = a.AddService(ctx)

		case "delproject":
			_ = a.DeleteProject(ctx)

		case "delservice":
			_ = a.DeleteService(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "restore":
			_ = a.Restore(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "prefs":
			_ = a.Preferences(ctx)

		case "expiring":
			_ = a.Expiring(ctx)

		case "export":
			_ = a.Export(ctx)

		case "exit", "quit":
			return

		default:
			printlnFn(fmt.Sprintf("Unknown command: %s (try 'help')", cmd))
		}
	}
}
