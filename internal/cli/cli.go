// Package cli implements the command-line surface. Every command loads the
// list, applies one operation through the todo package, and persists before
// printing. The interactive session is the tui command.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"godo/internal/config"
	"godo/internal/exitcode"
	"godo/internal/logging"
	"godo/internal/storage"
	"godo/internal/term"
	"godo/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// env carries the resolved dependencies every command needs.
type env struct {
	cfg    *config.Config
	store  *storage.Store
	logger *log.Logger
	stdin  io.Reader
	out    io.Writer
	errOut io.Writer
}

// Run parses arguments, dispatches to a command, and returns the process
// exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("godo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	file := fs.String("file", "", "Task file path (overrides config)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		printUsage(errOut)
		return exitcode.UserError
	}
	if *help {
		printUsage(out)
		return exitcode.OK
	}
	if *showVersion {
		fmt.Fprintf(out, "godo %s\n", Version)
		return exitcode.OK
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if *file != "" {
		cfg.TodoFile = *file
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	e := &env{
		cfg:    cfg,
		store:  storage.New(cfg.TodoFile),
		logger: logging.New(cfg),
		stdin:  stdin,
		out:    out,
		errOut: errOut,
	}

	// Bare invocation opens the interactive session on a terminal and
	// prints the list when output is piped.
	command := "list"
	if term.IsTerminal(out) {
		command = "tui"
	}
	remaining := fs.Args()
	if len(remaining) > 0 {
		command = remaining[0]
		remaining = remaining[1:]
	}

	switch command {
	case "add":
		return e.add(remaining)
	case "list", "ls":
		return e.list(remaining)
	case "complete", "done":
		return e.complete(remaining)
	case "delete", "rm":
		return e.delete(remaining)
	case "edit":
		return e.edit(remaining)
	case "priority":
		return e.priority(remaining)
	case "clear":
		return e.clear(remaining)
	case "stats":
		return e.stats(remaining)
	case "export":
		return e.export(remaining)
	case "import":
		return e.importCmd(remaining)
	case "tui", "interactive":
		return e.tui(ctx, remaining)
	case "version":
		fmt.Fprintf(out, "godo %s\n", Version)
		return exitcode.OK
	case "help":
		printUsage(out)
		return exitcode.OK
	default:
		fmt.Fprintf(errOut, "error: unknown command: %s\n", command)
		printUsage(errOut)
		return exitcode.UserError
	}
}

// fail reports err and maps it to an exit code.
func (e *env) fail(err error) int {
	fmt.Fprintf(e.errOut, "error: %s\n", err)

	var ve *todo.ValidationError
	if errors.As(err, &ve) {
		return exitcode.UserError
	}
	var nf *todo.NotFoundError
	if errors.As(err, &nf) {
		return exitcode.NotFound
	}
	var se *storage.StorageError
	if errors.As(err, &se) {
		return exitcode.Storage
	}
	return exitcode.Internal
}

// load wraps Store.Load with logging.
func (e *env) load() (*todo.List, error) {
	list, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	e.logger.Debug("loaded task file", "path", e.store.Path(), "tasks", len(list.Tasks))
	return list, nil
}

// save wraps Store.Save with logging.
func (e *env) save(list *todo.List) error {
	if err := e.store.Save(list); err != nil {
		return err
	}
	e.logger.Debug("saved task file", "path", e.store.Path(), "tasks", len(list.Tasks))
	return nil
}

// confirm prompts on stderr and reads a y/N answer from stdin.
func (e *env) confirm(prompt string) bool {
	fmt.Fprintf(e.errOut, "%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(e.stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return strings.HasPrefix(answer, "y")
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `godo - a todo list manager

Usage:
  godo [flags] <command> [command flags] [args]

Commands:
  add <text...>        Add a task (--priority N, --due D)
  list                 List tasks (--filter all|completed|pending, --detailed)
  complete <id>        Mark a task completed
  delete <id>          Delete a task (--force skips confirmation)
  edit <id> <text...>  Replace a task description
  priority <id> <p>    Set priority 1-5, or "none" to clear
  clear                Remove all completed tasks (--force)
  stats                Show statistics
  export               Export tasks (--format json|markdown|csv|text, --output F)
  import <file>        Import tasks from a JSON export (--merge)
  tui                  Interactive terminal session (alias: interactive)
  version              Print version
  help                 Show this help

Flags:
  --file PATH          Task file (default todos.json, env GODO_FILE)
  --log-level LEVEL    Diagnostic verbosity (env GODO_LOG_LEVEL)
`)
}
