// Package exitcode defines process exit codes.
package exitcode

const (
	// OK means the command succeeded.
	OK = 0
	// UserError means bad user input (usage, validation).
	UserError = 1
	// NotFound means the referenced task does not exist.
	NotFound = 2
	// Storage means loading or saving the task file failed.
	Storage = 3
	// Internal means an unexpected failure.
	Internal = 4
)
