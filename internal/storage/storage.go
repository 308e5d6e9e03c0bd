// Package storage persists the task list to a single JSON document.
//
// Saves are atomic: the document is written to a temporary file in the
// target directory and renamed over the destination, so a reader never
// observes a partially written file. Loads validate the document against an
// embedded JSON Schema (draft 2020-12), falling back to minimal structural
// checks if the schema cannot be compiled.
package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"godo/internal/todo"
)

//go:embed schema.json
var schemaJSON string

// StorageError reports an I/O or integrity failure on load or save.
type StorageError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store reads and writes the task file at a fixed path.
type Store struct {
	path string
}

// New returns a store bound to path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store is bound to.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted list. A missing file is not an error: it yields
// an empty list with the counter at 1. An unreadable or invalid file is a
// *StorageError; the caller must not proceed as if the list were empty.
func (s *Store) Load() (*todo.List, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return todo.NewList(), nil
		}
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}

	if err := validateDocument(data); err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}

	var list todo.List
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: fmt.Errorf("parse task file: %w", err)}
	}

	if err := checkIntegrity(&list); err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}
	repairNextID(&list)
	return &list, nil
}

// Save atomically replaces the persisted state with list.
func (s *Store) Save(list *todo.List) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: fmt.Errorf("marshal task file: %w", err)}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".godo-*.json")
	if err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

// NextIdentifier returns the ID the next Add will receive.
func (s *Store) NextIdentifier(list *todo.List) int {
	repairNextID(list)
	return list.NextID
}

// validateDocument checks the raw document against the embedded schema,
// with a minimal structural fallback if compilation fails.
func validateDocument(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("godo.schema.json", strings.NewReader(schemaJSON)); err != nil {
		return validateMinimal(data)
	}
	schema, err := compiler.Compile("godo.schema.json")
	if err != nil {
		return validateMinimal(data)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse task file: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid task file: %s", firstCause(ve))
		}
		return fmt.Errorf("invalid task file: %w", err)
	}
	return nil
}

// firstCause walks to a leaf validation error for a readable message.
func firstCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := strings.TrimPrefix(ve.InstanceLocation, "/")
	if loc == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s: %s", strings.ReplaceAll(loc, "/", "."), ve.Message)
}

// validateMinimal performs the structural checks that do not need a schema.
func validateMinimal(data []byte) error {
	var list todo.List
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse task file: %w", err)
	}
	if list.SchemaVersion != todo.SchemaVersion {
		return fmt.Errorf("unsupported schema_version %d, want %d", list.SchemaVersion, todo.SchemaVersion)
	}
	for i, t := range list.Tasks {
		if t.ID < 1 {
			return fmt.Errorf("tasks[%d]: id must be positive", i)
		}
		if strings.TrimSpace(t.Description) == "" {
			return fmt.Errorf("tasks[%d]: description must not be empty", i)
		}
		if t.Priority != nil && (*t.Priority < 1 || *t.Priority > 5) {
			return fmt.Errorf("tasks[%d]: priority must be between 1 and 5, got %d", i, *t.Priority)
		}
	}
	return nil
}

// checkIntegrity rejects documents that violate the ID uniqueness invariant.
func checkIntegrity(list *todo.List) error {
	seen := make(map[int]struct{}, len(list.Tasks))
	for _, t := range list.Tasks {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// repairNextID moves a stale counter past the maximum assigned ID. Needed
// for hand-edited files; the counter never moves backward.
func repairNextID(list *todo.List) {
	if list.NextID < 1 {
		list.NextID = 1
	}
	for _, t := range list.Tasks {
		if t.ID >= list.NextID {
			list.NextID = t.ID + 1
		}
	}
}
