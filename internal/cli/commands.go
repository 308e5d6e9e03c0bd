package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"godo/internal/exitcode"
	"godo/internal/export"
	"godo/internal/todo"
	"godo/internal/ui"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (e *env) usageError(msg string) int {
	fmt.Fprintf(e.errOut, "error: %s\n", msg)
	return exitcode.UserError
}

// parseID converts a positional argument into a task ID.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func (e *env) add(args []string) int {
	fs := newFlagSet("add")
	priority := fs.Int("priority", 0, "Priority 1-5")
	due := fs.String("due", "", "Due date (YYYY-MM-DD, today, tomorrow)")
	if err := fs.Parse(args); err != nil {
		return e.usageError(err.Error())
	}
	if fs.NArg() == 0 {
		return e.usageError("add requires a task description")
	}

	text := strings.Join(fs.Args(), " ")
	text, suffix := todo.ParsePrioritySuffix(text)
	p := suffix
	if *priority != 0 {
		p = todo.Priority(*priority)
	}

	dueDate, err := todo.ParseDueDate(*due, time.Now())
	if err != nil {
		return e.usageError(err.Error())
	}

	list, err := e.load()
	if err != nil {
		return e.fail(err)
	}
	t, err := list.AddFull(text, "", dueDate, p)
	if err != nil {
		return e.fail(err)
	}
	if err := e.save(list); err != nil {
		return e.fail(err)
	}

	fmt.Fprintf(e.out, "Added task #%d: %s\n", t.ID, t.Description)
	return exitcode.OK
}

func (e *env) list(args []string) int {
	fs := newFlagSet("list")
	filterName := fs.String("filter", e.cfg.DefaultFilter, "Filter: all, completed, pending")
	detailed := fs.Bool("detailed", false, "Show details and due dates")
	if err := fs.Parse(args); err != nil {
		return e.usageError(err.Error())
	}

	filter, err := todo.ParseFilter(*filterName)
	if err != nil {
		return e.usageError(err.Error())
	}

	list, err := e.load()
	if err != nil {
		return e.fail(err)
	}

	tasks := list.Filtered(filter)
	if len(tasks) == 0 {
		fmt.Fprintln(e.out, "No tasks.")
		return exitcode.OK
	}

	now := time.Now()
	for _, t := range tasks {
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}
		line := fmt.Sprintf("%s #%d %s", checkbox, t.ID, t.Description)
		if t.Priority != nil {
			line += fmt.Sprintf(" (P%d)", *t.Priority)
		}
		if *detailed {
			if due := t.FormatDue(now); due != "" {
				line += " due " + due
			}
		}
		fmt.Fprintln(e.out, line)
		if *detailed && t.Details != "" {
			fmt.Fprintf(e.out, "      %s\n", t.Details)
		}
	}
	return exitcode.OK
}

// mutate runs op against the loaded list and saves on success.
func (e *env) mutate(op func(*todo.List) error) int {
	list, err := e.load()
	if err != nil {
		return e.fail(err)
	}
	if err := op(list); err != nil {
		return e.fail(err)
	}
	if err := e.save(list); err != nil {
		return e.fail(err)
	}
	return exitcode.OK
}

func (e *env) complete(args []string) int {
	if len(args) != 1 {
		return e.usageError("complete requires exactly one task id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return e.usageError(err.Error())
	}
	code := e.mutate(func(l *todo.List) error { return l.Complete(id) })
	if code == exitcode.OK {
		fmt.Fprintf(e.out, "Completed task #%d\n", id)
	}
	return code
}

func (e *env) delete(args []string) int {
	fs := newFlagSet("delete")
	force := fs.Bool("force", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return e.usageError(err.Error())
	}
	if fs.NArg() != 1 {
		return e.usageError("delete requires exactly one task id")
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return e.usageError(err.Error())
	}

	list, err := e.load()
	if err != nil {
		return e.fail(err)
	}
	t := list.Get(id)
	if t == nil {
		return e.fail(&todo.NotFoundError{ID: id})
	}

	if e.cfg.ConfirmDelete && !*force {
		if !e.confirm(fmt.Sprintf("Delete task #%d (%s)?", id, t.Description)) {
			fmt.Fprintln(e.out, "Cancelled.")
			return exitcode.OK
		}
	}

	if err := list.Delete(id); err != nil {
		return e.fail(err)
	}
	if err := e.save(list); err != nil {
		return e.fail(err)
	}
	fmt.Fprintf(e.out, "Deleted task #%d\n", id)
	return exitcode.OK
}

func (e *env) edit(args []string) int {
	if len(args) < 2 {
		return e.usageError("edit requires a task id and the new description")
	}
	id, err := parseID(args[0])
	if err != nil {
		return e.usageError(err.Error())
	}
	text := strings.Join(args[1:], " ")
	code := e.mutate(func(l *todo.List) error { return l.Edit(id, text) })
	if code == exitcode.OK {
		fmt.Fprintf(e.out, "Updated task #%d\n", id)
	}
	return code
}

func (e *env) priority(args []string) int {
	if len(args) != 2 {
		return e.usageError("priority requires a task id and a level (1-5 or none)")
	}
	id, err := parseID(args[0])
	if err != nil {
		return e.usageError(err.Error())
	}

	var p *int
	arg := strings.ToLower(strings.TrimSpace(args[1]))
	if arg != "none" && arg != "0" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return e.usageError(fmt.Sprintf("invalid priority %q", args[1]))
		}
		p = todo.Priority(n)
	}

	code := e.mutate(func(l *todo.List) error { return l.SetPriority(id, p) })
	if code == exitcode.OK {
		if p == nil {
			fmt.Fprintf(e.out, "Cleared priority on task #%d\n", id)
		} else {
			fmt.Fprintf(e.out, "Set task #%d to priority %d\n", id, *p)
		}
	}
	return code
}

func (e *env) clear(args []string) int {
	fs := newFlagSet("clear")
	force := fs.Bool("force", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return e.usageError(err.Error())
	}

	list, err := e.load()
	if err != nil {
		return e.fail(err)
	}
	completed := len(list.Filtered(todo.FilterCompleted))
	if completed == 0 {
		fmt.Fprintln(e.out, "No completed tasks to clear.")
		return exitcode.OK
	}

	if e.cfg.ConfirmDelete && !*force {
		if !e.confirm(fmt.Sprintf("Remove %d completed task(s)?", completed)) {
			fmt.Fprintln(e.out, "Cancelled.")
			return exitcode.OK
		}
	}

	removed := list.ClearCompleted()
	if err := e.save(list); err != nil {
		return e.fail(err)
	}
	fmt.Fprintf(e.out, "Cleared %d completed task(s)\n", removed)
	return exitcode.OK
}

func (e *env) stats(args []string) int {
	if len(args) != 0 {
		return e.usageError("stats takes no arguments")
	}
	list, err := e.load()
	if err != nil {
		return e.fail(err)
	}

	s := list.Summarize()
	fmt.Fprintf(e.out, "Total:     %d\n", s.Total)
	fmt.Fprintf(e.out, "Completed: %d (%.0f%%)\n", s.Completed, s.Rate)
	fmt.Fprintf(e.out, "Pending:   %d\n", s.Pending)
	for p := 1; p <= 5; p++ {
		if s.ByPriority[p] > 0 {
			fmt.Fprintf(e.out, "P%d:        %d\n", p, s.ByPriority[p])
		}
	}
	if s.OldestPending != nil {
		fmt.Fprintf(e.out, "Oldest pending: #%d %s (since %s)\n",
			s.OldestPending.ID, s.OldestPending.Description,
			s.OldestPending.CreatedAt.Format("2006-01-02"))
	}
	return exitcode.OK
}

func (e *env) export(args []string) int {
	fs := newFlagSet("export")
	formatName := fs.String("format", "json", "Format: json, markdown, csv, text")
	output := fs.String("output", "", "Write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return e.usageError(err.Error())
	}

	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return e.usageError(err.Error())
	}

	list, err := e.load()
	if err != nil {
		return e.fail(err)
	}

	w := e.out
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(e.errOut, "error: %s\n", err)
			return exitcode.Storage
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, list, format); err != nil {
		fmt.Fprintf(e.errOut, "error: %s\n", err)
		return exitcode.Storage
	}
	if *output != "" {
		fmt.Fprintf(e.out, "Exported %d task(s) to %s\n", len(list.Tasks), *output)
	}
	return exitcode.OK
}

func (e *env) importCmd(args []string) int {
	fs := newFlagSet("import")
	merge := fs.Bool("merge", false, "Merge into the existing list instead of replacing it")
	if err := fs.Parse(args); err != nil {
		return e.usageError(err.Error())
	}
	if fs.NArg() != 1 {
		return e.usageError("import requires exactly one file argument")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(e.errOut, "error: %s\n", err)
		return exitcode.Storage
	}
	defer f.Close()

	incoming, err := export.Import(f)
	if err != nil {
		return e.fail(err)
	}

	var list *todo.List
	var added int
	if *merge {
		list, err = e.load()
		if err != nil {
			return e.fail(err)
		}
		added = list.Merge(incoming)
	} else {
		list = todo.NewList()
		added = list.Merge(incoming)
	}

	if err := e.save(list); err != nil {
		return e.fail(err)
	}
	fmt.Fprintf(e.out, "Imported %d task(s)\n", added)
	return exitcode.OK
}

func (e *env) tui(ctx context.Context, args []string) int {
	if len(args) != 0 {
		return e.usageError("tui takes no arguments")
	}
	if err := ui.Run(ctx, e.store, e.cfg); err != nil {
		return e.fail(err)
	}
	return exitcode.OK
}
