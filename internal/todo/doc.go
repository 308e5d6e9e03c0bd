// Package todo holds the task data model and the operations over it.
//
// The persisted file format (todos.json) is a single JSON document:
//
//	{
//	  "schema_version": 1,
//	  "next_id": 4,
//	  "tasks": [
//	    {
//	      "id": 1,
//	      "description": "Buy milk",
//	      "details": "Optional notes",
//	      "completed": false,
//	      "priority": 3,
//	      "created_at": "2024-01-01T00:00:00Z",
//	      "completed_at": "2024-01-02T00:00:00Z",
//	      "due_date": "2024-01-03T23:59:59Z"
//	    }
//	  ]
//	}
//
// # Identifiers
//
// IDs are positive integers assigned from the next_id counter. The counter
// only moves forward: deleting a task retires its ID permanently, so next_id
// is persisted rather than derived from the current maximum.
//
// # Priority Range
//
//   - 1: lowest priority
//   - 5: highest priority
//   - absent: no priority
//
// # Operations
//
// All mutating operations validate first and leave the list untouched on
// failure. Failures are reported as *ValidationError (bad input) or
// *NotFoundError (unknown ID); callers distinguish them with errors.As.
package todo
