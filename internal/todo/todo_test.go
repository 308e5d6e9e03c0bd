package todo

import (
	"errors"
	"testing"
	"time"
)

func TestAddAssignsSequentialIDs(t *testing.T) {
	l := NewList()
	for i, desc := range []string{"Buy milk", "Fix bug", "Write docs"} {
		task, err := l.Add(desc, nil)
		if err != nil {
			t.Fatalf("Add(%q) failed: %v", desc, err)
		}
		if task.ID != i+1 {
			t.Errorf("Add(%q) got ID %d, want %d", desc, task.ID, i+1)
		}
	}
	if l.NextID != 4 {
		t.Errorf("NextID = %d, want 4", l.NextID)
	}
}

func TestAddTrimsDescription(t *testing.T) {
	l := NewList()
	task, err := l.Add("  trim me  ", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if task.Description != "trim me" {
		t.Errorf("Description = %q, want %q", task.Description, "trim me")
	}
}

func TestAddRejectsEmptyDescription(t *testing.T) {
	l := NewList()
	for _, desc := range []string{"", "   ", "\t\n"} {
		if _, err := l.Add(desc, nil); err == nil {
			t.Errorf("Add(%q) succeeded, want validation error", desc)
		} else {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Add(%q) error = %T, want *ValidationError", desc, err)
			}
		}
	}
	if len(l.Tasks) != 0 {
		t.Errorf("list has %d tasks after rejected adds, want 0", len(l.Tasks))
	}
}

func TestAddPriorityRange(t *testing.T) {
	l := NewList()
	for p := 1; p <= 5; p++ {
		if _, err := l.Add("task", Priority(p)); err != nil {
			t.Errorf("Add with priority %d failed: %v", p, err)
		}
	}
	for _, p := range []int{0, 6, -1, 100} {
		_, err := l.Add("task", Priority(p))
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Add with priority %d error = %v, want *ValidationError", p, err)
		}
	}
}

func TestIDsNeverReused(t *testing.T) {
	l := NewList()
	a, _ := l.Add("first", nil)
	b, _ := l.Add("second", nil)
	if err := l.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := l.Delete(b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	c, _ := l.Add("third", nil)
	if c.ID != 3 {
		t.Errorf("new task got ID %d, want 3 (deleted IDs must not be reused)", c.ID)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	l := NewList()
	task, _ := l.Add("task", nil)

	if err := l.Complete(task.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	first := l.Get(task.ID).CompletedAt
	if first == nil {
		t.Fatal("CompletedAt not set after Complete")
	}

	if err := l.Complete(task.ID); err != nil {
		t.Fatalf("second Complete failed: %v", err)
	}
	if got := l.Get(task.ID).CompletedAt; !got.Equal(*first) {
		t.Error("second Complete changed CompletedAt")
	}
}

func TestReopenClearsCompletion(t *testing.T) {
	l := NewList()
	task, _ := l.Add("task", nil)
	l.Complete(task.ID)

	if err := l.Reopen(task.ID); err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	got := l.Get(task.ID)
	if got.Completed || got.CompletedAt != nil {
		t.Errorf("after Reopen: Completed=%v CompletedAt=%v, want pending with no timestamp",
			got.Completed, got.CompletedAt)
	}
}

func TestOperationsOnMissingID(t *testing.T) {
	l := NewList()
	l.Add("only", nil)

	tests := []struct {
		name string
		op   func() error
	}{
		{"Complete", func() error { return l.Complete(99) }},
		{"Reopen", func() error { return l.Reopen(99) }},
		{"Delete", func() error { return l.Delete(99) }},
		{"Edit", func() error { return l.Edit(99, "new") }},
		{"SetPriority", func() error { return l.SetPriority(99, Priority(3)) }},
		{"SetDetails", func() error { return l.SetDetails(99, "d") }},
		{"SetDueDate", func() error { return l.SetDueDate(99, nil) }},
	}
	for _, tc := range tests {
		err := tc.op()
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("%s(99) error = %v, want *NotFoundError", tc.name, err)
		}
		if nf != nil && nf.ID != 99 {
			t.Errorf("%s(99) reported ID %d", tc.name, nf.ID)
		}
	}
	if len(l.Tasks) != 1 || l.Tasks[0].Description != "only" {
		t.Error("failed operations modified the list")
	}
}

func TestEditPreservesOtherFields(t *testing.T) {
	l := NewList()
	task, _ := l.Add("old", Priority(2))
	l.Complete(task.ID)

	if err := l.Edit(task.ID, "new"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	got := l.Get(task.ID)
	if got.Description != "new" {
		t.Errorf("Description = %q, want %q", got.Description, "new")
	}
	if !got.Completed || got.Priority == nil || *got.Priority != 2 {
		t.Error("Edit changed fields other than the description")
	}
}

func TestSetPriorityClearWithNil(t *testing.T) {
	l := NewList()
	task, _ := l.Add("task", Priority(5))
	if err := l.SetPriority(task.ID, nil); err != nil {
		t.Fatalf("SetPriority(nil) failed: %v", err)
	}
	if l.Get(task.ID).Priority != nil {
		t.Error("priority not cleared")
	}
}

func TestSetPriorityRejectsOutOfRange(t *testing.T) {
	l := NewList()
	task, _ := l.Add("task", nil)
	err := l.SetPriority(task.ID, Priority(9))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("SetPriority(9) error = %v, want *ValidationError", err)
	}
	if l.Get(task.ID).Priority != nil {
		t.Error("rejected SetPriority modified the task")
	}
}

func TestFilterPartition(t *testing.T) {
	l := NewList()
	a, _ := l.Add("a", nil)
	l.Add("b", nil)
	c, _ := l.Add("c", nil)
	l.Complete(a.ID)
	l.Complete(c.ID)

	all := l.Filtered(FilterAll)
	done := l.Filtered(FilterCompleted)
	pending := l.Filtered(FilterPending)

	if len(all) != 3 || len(done) != 2 || len(pending) != 1 {
		t.Fatalf("got %d/%d/%d tasks for all/completed/pending, want 3/2/1",
			len(all), len(done), len(pending))
	}
	if len(done)+len(pending) != len(all) {
		t.Error("completed and pending do not partition the full list")
	}
	for _, task := range done {
		if !task.Completed {
			t.Errorf("task #%d in completed filter is pending", task.ID)
		}
	}
	for _, task := range pending {
		if task.Completed {
			t.Errorf("task #%d in pending filter is completed", task.ID)
		}
	}
}

func TestFilterCycle(t *testing.T) {
	f := FilterAll
	want := []Filter{FilterCompleted, FilterPending, FilterAll}
	for _, w := range want {
		f = f.Next()
		if f != w {
			t.Fatalf("Next() = %q, want %q", f, w)
		}
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"all", FilterAll, false},
		{"", FilterAll, false},
		{"COMPLETED", FilterCompleted, false},
		{"done", FilterCompleted, false},
		{"pending", FilterPending, false},
		{"open", FilterPending, false},
		{"bogus", "", true},
	}
	for _, tc := range tests {
		got, err := ParseFilter(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFilter(%q) succeeded, want error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseFilter(%q) = %q, %v, want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestSeqIsRestartable(t *testing.T) {
	l := NewList()
	l.Add("a", nil)
	l.Add("b", nil)

	seq := l.Seq(FilterAll)
	for range 2 {
		n := 0
		for range seq {
			n++
		}
		if n != 2 {
			t.Fatalf("iteration yielded %d tasks, want 2", n)
		}
	}
}

func TestClearCompleted(t *testing.T) {
	l := NewList()
	a, _ := l.Add("a", nil)
	l.Add("b", nil)
	c, _ := l.Add("c", nil)
	l.Complete(a.ID)
	l.Complete(c.ID)

	if removed := l.ClearCompleted(); removed != 2 {
		t.Errorf("ClearCompleted removed %d, want 2", removed)
	}
	if len(l.Tasks) != 1 || l.Tasks[0].Description != "b" {
		t.Errorf("remaining tasks = %v, want only b", l.Tasks)
	}
	if next, _ := l.Add("d", nil); next.ID != 4 {
		t.Errorf("task added after clear got ID %d, want 4", next.ID)
	}
}

func TestMergeReassignsIDs(t *testing.T) {
	l := NewList()
	l.Add("mine", nil)

	other := NewList()
	other.Add("theirs 1", Priority(3))
	other.Add("theirs 2", nil)

	if added := l.Merge(other); added != 2 {
		t.Fatalf("Merge added %d, want 2", added)
	}
	if len(l.Tasks) != 3 {
		t.Fatalf("list has %d tasks, want 3", len(l.Tasks))
	}
	if l.Tasks[1].ID != 2 || l.Tasks[2].ID != 3 {
		t.Errorf("imported tasks got IDs %d, %d, want 2, 3", l.Tasks[1].ID, l.Tasks[2].ID)
	}
	if l.Tasks[1].Priority == nil || *l.Tasks[1].Priority != 3 {
		t.Error("Merge dropped the imported priority")
	}
}

func TestSummarize(t *testing.T) {
	l := NewList()
	a, _ := l.Add("a", Priority(1))
	l.Add("b", Priority(1))
	l.Add("c", nil)
	l.Add("d", Priority(5))
	l.Complete(a.ID)

	s := l.Summarize()
	if s.Total != 4 || s.Completed != 1 || s.Pending != 3 {
		t.Errorf("counts = %d/%d/%d, want 4/1/3", s.Total, s.Completed, s.Pending)
	}
	if s.Rate != 25 {
		t.Errorf("Rate = %v, want 25", s.Rate)
	}
	if s.ByPriority[1] != 2 || s.ByPriority[5] != 1 || s.ByPriority[0] != 1 {
		t.Errorf("ByPriority = %v", s.ByPriority)
	}
	if s.OldestPending == nil || s.OldestPending.Description != "b" {
		t.Errorf("OldestPending = %v, want b", s.OldestPending)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := NewList().Summarize()
	if s.Total != 0 || s.Rate != 0 || s.OldestPending != nil {
		t.Errorf("empty list stats = %+v", s)
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{"valid", Task{ID: 1, Description: "ok"}, false},
		{"valid with priority", Task{ID: 1, Description: "ok", Priority: Priority(3)}, false},
		{"empty description", Task{ID: 1, Description: "   "}, true},
		{"priority too high", Task{ID: 1, Description: "ok", Priority: Priority(9)}, true},
		{"priority zero", Task{ID: 1, Description: "ok", Priority: Priority(0)}, true},
	}
	for _, tc := range tests {
		err := tc.task.Validate()
		if tc.wantErr {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("%s: Validate() = %v, want *ValidationError", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: Validate() failed: %v", tc.name, err)
		}
	}
}

func TestDueHelpers(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	soon := now.Add(6 * time.Hour)
	far := now.Add(72 * time.Hour)

	overdue := Task{DueDate: &past}
	if !overdue.IsOverdue(now) || overdue.IsDueSoon(now) {
		t.Error("past due date should be overdue, not due-soon")
	}

	dueSoon := Task{DueDate: &soon}
	if dueSoon.IsOverdue(now) || !dueSoon.IsDueSoon(now) {
		t.Error("due within 24h should be due-soon, not overdue")
	}

	dueFar := Task{DueDate: &far}
	if dueFar.IsOverdue(now) || dueFar.IsDueSoon(now) {
		t.Error("due in 3 days should be neither overdue nor due-soon")
	}

	done := Task{Completed: true, DueDate: &past}
	if done.IsOverdue(now) {
		t.Error("completed task must never be overdue")
	}
}

func TestFormatDue(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	today := time.Date(2026, 8, 24, 23, 59, 59, 0, time.UTC)
	tomorrow := time.Date(2026, 8, 25, 23, 59, 59, 0, time.UTC)
	later := time.Date(2026, 9, 10, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		due  *time.Time
		want string
	}{
		{nil, ""},
		{&today, "Today"},
		{&tomorrow, "Tomorrow"},
		{&later, "Sep 10"},
	}
	for _, tc := range tests {
		got := Task{DueDate: tc.due}.FormatDue(now)
		if got != tc.want {
			t.Errorf("FormatDue(%v) = %q, want %q", tc.due, got, tc.want)
		}
	}
}
