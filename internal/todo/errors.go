package todo

import "fmt"

// ValidationError reports user input that was rejected at the boundary.
// Nothing is stored when a ValidationError is returned.
type ValidationError struct {
	Field string // which input was bad (description, priority, due_date)
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an operation on an ID that is not in the list.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}
