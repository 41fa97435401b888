// Package statement collects committed input lines into a pending SQL
// statement until a line ends with the statement terminator.
//
// A blank line committed while nothing is pending is ignored: an empty
// Enter at a blank prompt never submits anything.
//
// Only the first line of a statement can carry a prompt echo. It is
// stripped when the line starts with the full prompt, trailing space
// included, or is the bare trimmed prompt. Every other line is queued
// as typed, apart from surrounding whitespace.
package statement

import (
	"strings"
	"unicode"
)

// Terminator ends a statement when it is the last character of a trimmed line.
const Terminator = ';'

// Accumulator holds the lines of a statement that has not been submitted yet.
type Accumulator struct {
	prompt string
	lines  []string
}

// New returns an accumulator that strips an echo of prompt from the first
// line of each statement.
func New(prompt string) *Accumulator {
	return &Accumulator{prompt: prompt}
}

// CommitLine trims line, drops a prompt echo from the first line of a
// statement and queues it when anything is left.
func (a *Accumulator) CommitLine(line string) {
	if len(a.lines) == 0 {
		line = a.stripEcho(line)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	a.lines = append(a.lines, line)
}

func (a *Accumulator) stripEcho(line string) string {
	bare := strings.TrimSpace(a.prompt)
	if bare == "" {
		return line
	}
	if strings.HasPrefix(line, a.prompt) {
		return line[len(a.prompt):]
	}
	lead := strings.TrimLeftFunc(line, unicode.IsSpace)
	if strings.HasPrefix(lead, a.prompt) {
		return lead[len(a.prompt):]
	}
	if strings.TrimSpace(lead) == bare {
		return ""
	}
	return line
}

// IsTerminated reports whether the most recently queued line ends with the
// terminator.
func (a *Accumulator) IsTerminated() bool {
	if len(a.lines) == 0 {
		return false
	}
	last := a.lines[len(a.lines)-1]
	return last[len(last)-1] == Terminator
}

// Empty reports whether no line is pending.
func (a *Accumulator) Empty() bool {
	return len(a.lines) == 0
}

// Len returns the number of pending lines.
func (a *Accumulator) Len() int {
	return len(a.lines)
}

// Drain joins the pending lines with single spaces and clears them.
func (a *Accumulator) Drain() string {
	stmt := strings.Join(a.lines, " ")
	a.lines = nil
	return stmt
}

// Cancel discards the pending lines.
func (a *Accumulator) Cancel() {
	a.lines = nil
}
