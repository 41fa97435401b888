// Package terminal provides the display surface the dispatcher writes to.
package terminal

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

// Screen forwards output to a writer and keeps a model of what is visible:
// finished lines plus the line the cursor is on. It understands the small
// subset of control sequences the dispatcher emits: CR, LF, BS, ESC[K and
// ESC[nD. Other escape sequences (colors) pass through and are not modelled.
type Screen struct {
	mu    sync.Mutex
	w     io.Writer
	crlf  bool
	lines []string
	line  []rune
	col   int // rune index in line
	esc   []rune
	inEsc bool
	err   error
}

// Option configures a Screen.
type Option func(*Screen)

// WithCRLF translates LF to CRLF on the way out, for terminals in raw mode.
func WithCRLF() Option {
	return func(s *Screen) { s.crlf = true }
}

// NewScreen returns a screen writing to w.
func NewScreen(w io.Writer, opts ...Option) *Screen {
	s := &Screen{w: w}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write renders text. Write errors are kept and reported by Err.
func (s *Screen) Write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := text
	if s.crlf {
		out = strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\n", "\r\n")
	}
	if s.w != nil && s.err == nil {
		_, s.err = io.WriteString(s.w, out)
	}
	for _, r := range text {
		s.feed(r)
	}
}

// Err returns the first error from the underlying writer.
func (s *Screen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CurrentLineText returns the full text of the line holding the cursor.
func (s *Screen) CurrentLineText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.line)
}

// CursorColumn returns the display column of the cursor.
func (s *Screen) CursorColumn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return runewidth.StringWidth(string(s.line[:s.col]))
}

// Lines returns every finished line followed by the current one.
func (s *Screen) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.lines)+1)
	out = append(out, s.lines...)
	return append(out, string(s.line))
}

// Transcript returns Lines joined with newlines.
func (s *Screen) Transcript() string {
	return strings.Join(s.Lines(), "\n")
}

func (s *Screen) feed(r rune) {
	if s.inEsc {
		s.esc = append(s.esc, r)
		if len(s.esc) == 1 && r != '[' {
			s.inEsc = false
			return
		}
		if len(s.esc) > 1 && r >= 0x40 && r <= 0x7e {
			s.applyCSI(string(s.esc[1:]))
			s.inEsc = false
		}
		return
	}
	switch r {
	case 0x1b:
		s.inEsc = true
		s.esc = s.esc[:0]
	case '\r':
		s.col = 0
	case '\n':
		s.lines = append(s.lines, string(s.line))
		s.line = nil
		s.col = 0
	case '\b':
		s.back(1)
	default:
		if s.col < len(s.line) {
			s.line[s.col] = r
		} else {
			s.line = append(s.line, r)
		}
		s.col++
	}
}

func (s *Screen) applyCSI(seq string) {
	final := seq[len(seq)-1]
	arg := seq[:len(seq)-1]
	switch final {
	case 'K':
		if arg == "" || arg == "0" {
			s.line = s.line[:s.col]
		}
	case 'D':
		n := 1
		if v, err := strconv.Atoi(arg); err == nil && v > 0 {
			n = v
		}
		s.back(n)
	}
}

// back moves the cursor left by n display columns.
func (s *Screen) back(n int) {
	for n > 0 && s.col > 0 {
		n -= max(1, runewidth.RuneWidth(s.line[s.col-1]))
		s.col--
	}
}
