package history

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
)

// Store receives every command pushed to the ring.
type Store interface {
	Append(command string) error
}

// File keeps history as one command per line.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a history file at path. The file is created on first Append.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Load pushes up to limit of the most recent stored commands onto r, oldest
// first. A missing file is not an error. limit <= 0 loads everything.
func (f *File) Load(r *Ring, limit int) (int, error) {
	fh, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = fh.Close() }()

	var lines []string
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("read history: %w", err)
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	for _, line := range lines {
		r.Push(line)
	}
	return len(lines), nil
}

// Append adds command to the end of the file.
func (f *File) Append(command string) error {
	command = strings.ReplaceAll(command, "\n", " ")
	f.mu.Lock()
	defer f.mu.Unlock()
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if _, err := fmt.Fprintln(fh, command); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write history: %w", err)
	}
	return fh.Close()
}
