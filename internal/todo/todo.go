package todo

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// SchemaVersion is the current persisted document version.
const SchemaVersion = 1

// Task represents a single todo entry.
type Task struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	Details     string     `json:"details,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    *int       `json:"priority,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// IsOverdue reports whether the task has a due date in the past and is not
// completed.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now)
}

// IsDueSoon reports whether the task is due within the next 24 hours.
func (t Task) IsDueSoon(now time.Time) bool {
	if t.Completed || t.DueDate == nil || t.IsOverdue(now) {
		return false
	}
	return t.DueDate.Sub(now) <= 24*time.Hour
}

// FormatDue renders the due date for display: "Today", "Tomorrow", or a
// short month-day form. Empty string when there is no due date.
func (t Task) FormatDue(now time.Time) string {
	if t.DueDate == nil {
		return ""
	}
	due := t.DueDate.UTC()
	today := now.UTC().Truncate(24 * time.Hour)
	day := due.Truncate(24 * time.Hour)
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.Add(24 * time.Hour)):
		return "Tomorrow"
	default:
		return due.Format("Jan 02")
	}
}

// List is the full ordered collection of tasks plus the next-ID counter.
// Insertion order is preserved; it is not necessarily ID order after
// deletions.
type List struct {
	SchemaVersion int    `json:"schema_version"`
	NextID        int    `json:"next_id"`
	Tasks         []Task `json:"tasks"`
}

// NewList returns an empty list with the counter at 1.
func NewList() *List {
	return &List{
		SchemaVersion: SchemaVersion,
		NextID:        1,
		Tasks:         []Task{},
	}
}

// Filter selects a subset of tasks for listing.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// ParseFilter converts a user-supplied filter name.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "pending", "open":
		return FilterPending, nil
	}
	return "", &ValidationError{
		Field: "filter",
		Err:   fmt.Errorf("invalid filter %q, must be one of: all, completed, pending", s),
	}
}

// Next returns the filter that follows in the fixed cycle
// all -> completed -> pending -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterCompleted
	case FilterCompleted:
		return FilterPending
	default:
		return FilterAll
	}
}

// Matches reports whether the task is visible under the filter.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}

// Seq returns a lazy, restartable sequence of the tasks matching the
// filter, in collection order. An empty result is not an error.
func (l *List) Seq(f Filter) iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, t := range l.Tasks {
			if !f.Matches(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Filtered collects the matching tasks into a slice.
func (l *List) Filtered(f Filter) []Task {
	var out []Task
	for t := range l.Seq(f) {
		out = append(out, t)
	}
	return out
}

// Get returns the task with the given ID, or nil if absent.
func (l *List) Get(id int) *Task {
	for i := range l.Tasks {
		if l.Tasks[i].ID == id {
			return &l.Tasks[i]
		}
	}
	return nil
}

// Add validates and appends a new pending task, assigning the next ID.
func (l *List) Add(description string, priority *int) (Task, error) {
	return l.AddFull(description, "", nil, priority)
}

// AddFull is Add with the optional details and due date fields.
func (l *List) AddFull(description, details string, due *time.Time, priority *int) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, &ValidationError{Field: "description", Err: fmt.Errorf("must not be empty")}
	}
	if err := checkPriority(priority); err != nil {
		return Task{}, err
	}

	t := Task{
		ID:          l.NextID,
		Description: description,
		Details:     strings.TrimSpace(details),
		Priority:    priority,
		CreatedAt:   time.Now().UTC(),
		DueDate:     due,
	}
	l.Tasks = append(l.Tasks, t)
	l.NextID++
	return t, nil
}

// Complete marks the task as done. Completing an already-completed task is
// a no-op success.
func (l *List) Complete(id int) error {
	t := l.Get(id)
	if t == nil {
		return &NotFoundError{ID: id}
	}
	if t.Completed {
		return nil
	}
	now := time.Now().UTC()
	t.Completed = true
	t.CompletedAt = &now
	return nil
}

// Reopen marks a completed task as pending again. Reopening a pending task
// is a no-op success.
func (l *List) Reopen(id int) error {
	t := l.Get(id)
	if t == nil {
		return &NotFoundError{ID: id}
	}
	t.Completed = false
	t.CompletedAt = nil
	return nil
}

// Delete removes the task. Its ID is retired and never reused.
func (l *List) Delete(id int) error {
	for i := range l.Tasks {
		if l.Tasks[i].ID == id {
			l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

// Edit replaces the description, preserving everything else.
func (l *List) Edit(id int, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return &ValidationError{Field: "description", Err: fmt.Errorf("must not be empty")}
	}
	t := l.Get(id)
	if t == nil {
		return &NotFoundError{ID: id}
	}
	t.Description = description
	return nil
}

// SetPriority sets or, with nil, clears the priority.
func (l *List) SetPriority(id int, priority *int) error {
	if err := checkPriority(priority); err != nil {
		return err
	}
	t := l.Get(id)
	if t == nil {
		return &NotFoundError{ID: id}
	}
	t.Priority = priority
	return nil
}

// SetDetails sets or, with an empty string, clears the details text.
func (l *List) SetDetails(id int, details string) error {
	t := l.Get(id)
	if t == nil {
		return &NotFoundError{ID: id}
	}
	t.Details = strings.TrimSpace(details)
	return nil
}

// SetDueDate sets or, with nil, clears the due date.
func (l *List) SetDueDate(id int, due *time.Time) error {
	t := l.Get(id)
	if t == nil {
		return &NotFoundError{ID: id}
	}
	t.DueDate = due
	return nil
}

// ClearCompleted removes every completed task and returns how many were
// removed. The retired IDs are not reused.
func (l *List) ClearCompleted() int {
	kept := l.Tasks[:0]
	removed := 0
	for _, t := range l.Tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	l.Tasks = kept
	return removed
}

// Merge appends every task from other with freshly assigned IDs and returns
// how many were imported.
func (l *List) Merge(other *List) int {
	for _, t := range other.Tasks {
		t.ID = l.NextID
		l.Tasks = append(l.Tasks, t)
		l.NextID++
	}
	return len(other.Tasks)
}

// Stats summarizes the list for the stats command.
type Stats struct {
	Total         int
	Completed     int
	Pending       int
	Rate          float64 // completion percentage
	ByPriority    [6]int  // index 0 counts tasks with no priority
	OldestPending *Task
}

// Summarize computes aggregate statistics over the list.
func (l *List) Summarize() Stats {
	s := Stats{Total: len(l.Tasks)}
	for i := range l.Tasks {
		t := &l.Tasks[i]
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
			if s.OldestPending == nil || t.CreatedAt.Before(s.OldestPending.CreatedAt) {
				s.OldestPending = t
			}
		}
		if t.Priority == nil {
			s.ByPriority[0]++
		} else if *t.Priority >= 1 && *t.Priority <= 5 {
			s.ByPriority[*t.Priority]++
		}
	}
	if s.Total > 0 {
		s.Rate = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}

func checkPriority(p *int) error {
	if p == nil {
		return nil
	}
	if *p < 1 || *p > 5 {
		return &ValidationError{
			Field: "priority",
			Err:   fmt.Errorf("must be between 1 and 5, got %d", *p),
		}
	}
	return nil
}

// Validate checks the boundary invariants on a single task: a non-empty
// description and, when present, a priority inside [1,5]. Tasks built by Add
// always pass; externally sourced tasks must be checked before they are
// stored.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return &ValidationError{Field: "description", Err: fmt.Errorf("must not be empty")}
	}
	return checkPriority(t.Priority)
}

// Priority is a convenience for building *int priority values.
func Priority(p int) *int {
	return &p
}
