// Package engine executes command text against a database and returns
// tabular results.
package engine

import (
	"context"
	"errors"
)

// ErrUnavailable is reported when a command is dispatched without an engine.
var ErrUnavailable = errors.New("query engine unavailable")

// Engine runs one command. Implementations do no client-side parsing; all
// syntax checking is left to the database.
type Engine interface {
	Execute(ctx context.Context, command string) (Result, error)
}

// Func adapts a function to the Engine interface.
type Func func(ctx context.Context, command string) (Result, error)

// Execute calls f.
func (f Func) Execute(ctx context.Context, command string) (Result, error) {
	return f(ctx, command)
}

// Result is the tabular outcome of a command. Rows hold one value per
// column, in column order; nil is SQL NULL.
type Result struct {
	Columns   []string
	Rows      [][]any
	Truncated bool
}

// Empty reports whether the result has no rows.
func (r Result) Empty() bool {
	return len(r.Rows) == 0
}

// Value returns the value of column name in row i.
func (r Result) Value(i int, name string) (any, bool) {
	if i < 0 || i >= len(r.Rows) {
		return nil, false
	}
	for j, c := range r.Columns {
		if c == name {
			if j >= len(r.Rows[i]) {
				return nil, false
			}
			return r.Rows[i][j], true
		}
	}
	return nil, false
}
