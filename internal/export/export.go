// Package export renders the task list in interchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"godo/internal/todo"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatText     Format = "text"
)

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("invalid format %q, must be one of: json, markdown, csv, text", s)
}

// Write renders list to w in the given format. JSON output round-trips
// through Import; the other formats are one-way.
func Write(w io.Writer, list *todo.List, format Format) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(list))
		return err
	case FormatCSV:
		return writeCSV(w, list)
	case FormatText:
		_, err := io.WriteString(w, Text(list))
		return err
	default:
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	}
}

// Markdown renders the list as a checklist grouped by completion.
func Markdown(list *todo.List) string {
	var b strings.Builder
	b.WriteString("# Todo List\n\n")
	if len(list.Tasks) == 0 {
		b.WriteString("No tasks.\n")
		return b.String()
	}

	b.WriteString("## Pending\n\n")
	for t := range list.Seq(todo.FilterPending) {
		fmt.Fprintf(&b, "- [ ] [#%d] %s", t.ID, t.Description)
		if t.Priority != nil {
			fmt.Fprintf(&b, " _(P%d)_", *t.Priority)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n## Completed\n\n")
	for t := range list.Seq(todo.FilterCompleted) {
		fmt.Fprintf(&b, "- [x] [#%d] %s\n", t.ID, t.Description)
	}
	return b.String()
}

// Text renders one task per line with a status tag.
func Text(list *todo.List) string {
	var b strings.Builder
	for _, t := range list.Tasks {
		status := "[TODO]"
		if t.Completed {
			status = "[DONE]"
		}
		fmt.Fprintf(&b, "%s #%d: %s\n", status, t.ID, t.Description)
	}
	return b.String()
}

const timeLayout = "2006-01-02 15:04:05"

func writeCSV(w io.Writer, list *todo.List) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "description", "priority", "completed", "created_at", "completed_at"}); err != nil {
		return err
	}
	for _, t := range list.Tasks {
		priority := ""
		if t.Priority != nil {
			priority = fmt.Sprintf("%d", *t.Priority)
		}
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.UTC().Format(timeLayout)
		}
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Description,
			priority,
			fmt.Sprintf("%t", t.Completed),
			t.CreatedAt.UTC().Format(timeLayout),
			completedAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import parses a JSON export produced by Write (or a raw task file). Every
// incoming task is validated before it can reach storage: a task with an
// empty description or an out-of-range priority rejects the whole import.
func Import(r io.Reader) (*todo.List, error) {
	var list todo.List
	dec := json.NewDecoder(r)
	if err := dec.Decode(&list); err != nil {
		return nil, &todo.ValidationError{Field: "import", Err: fmt.Errorf("parse import file: %w", err)}
	}
	for i := range list.Tasks {
		list.Tasks[i].Description = strings.TrimSpace(list.Tasks[i].Description)
		if err := list.Tasks[i].Validate(); err != nil {
			return nil, fmt.Errorf("import file task %d: %w", list.Tasks[i].ID, err)
		}
	}
	return &list, nil
}
