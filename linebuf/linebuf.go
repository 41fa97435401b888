// Package linebuf holds the text and cursor of the input line being composed.
package linebuf

import "github.com/mattn/go-runewidth"

// Buffer is the editable part of one visual input line. The prompt is not
// part of the buffer; callers pass its width as the origin column.
//
// Invariant: 0 <= cursor <= len(buf).
type Buffer struct {
	buf    []rune
	cursor int
}

// Text returns the typed text.
func (b *Buffer) Text() string {
	return string(b.buf)
}

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Cursor returns the rune offset of the cursor.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// AtEnd reports whether the cursor sits after the last rune.
func (b *Buffer) AtEnd() bool {
	return b.cursor == len(b.buf)
}

// Column returns the display column of the cursor for a line whose editable
// region starts at origin.
func (b *Buffer) Column(origin int) int {
	return origin + runewidth.StringWidth(string(b.buf[:b.cursor]))
}

// Tail returns the text after the cursor.
func (b *Buffer) Tail() string {
	return string(b.buf[b.cursor:])
}

// Insert puts r at the cursor and advances the cursor by one.
func (b *Buffer) Insert(r rune) {
	b.buf = append(b.buf, 0)
	copy(b.buf[b.cursor+1:], b.buf[b.cursor:])
	b.buf[b.cursor] = r
	b.cursor++
}

// Backspace removes the rune before the cursor when the cursor column is
// past floor, measured from origin. It returns the removed rune and whether
// anything was deleted.
func (b *Buffer) Backspace(origin, floor int) (rune, bool) {
	if b.cursor == 0 || b.Column(origin) <= floor {
		return 0, false
	}
	r := b.buf[b.cursor-1]
	b.buf = append(b.buf[:b.cursor-1], b.buf[b.cursor:]...)
	b.cursor--
	return r, true
}

// Delete removes the rune under the cursor.
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.buf) {
		return false
	}
	b.buf = append(b.buf[:b.cursor], b.buf[b.cursor+1:]...)
	return true
}

// Replace swaps the whole text for value and moves the cursor to the end.
func (b *Buffer) Replace(value string) {
	b.buf = []rune(value)
	b.cursor = len(b.buf)
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.buf = nil
	b.cursor = 0
}

// Left moves the cursor one rune left.
func (b *Buffer) Left() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return true
}

// Right moves the cursor one rune right.
func (b *Buffer) Right() bool {
	if b.cursor >= len(b.buf) {
		return false
	}
	b.cursor++
	return true
}

// Home moves the cursor to the start of the text.
func (b *Buffer) Home() {
	b.cursor = 0
}

// End moves the cursor past the last rune.
func (b *Buffer) End() {
	b.cursor = len(b.buf)
}

// KillToStart deletes everything before the cursor.
func (b *Buffer) KillToStart() bool {
	if b.cursor == 0 {
		return false
	}
	b.buf = append(b.buf[:0], b.buf[b.cursor:]...)
	b.cursor = 0
	return true
}
