// Package history records submitted commands and supports recalling them
// into the input line.
package history

// Ring is an append-only record of submitted commands. Index 0 is the most
// recent entry. Entries are never changed or removed.
type Ring struct {
	entries []string // oldest first
}

// NewRing returns an empty ring.
func NewRing() *Ring {
	return &Ring{}
}

// Push records command as the most recent entry. Duplicates are kept.
func (r *Ring) Push(command string) {
	r.entries = append(r.entries, command)
}

// Len returns the number of entries.
func (r *Ring) Len() int {
	return len(r.entries)
}

// At returns the entry i steps back from the most recent one.
func (r *Ring) At(i int) string {
	return r.entries[len(r.entries)-1-i]
}

// Cursor tracks the entry currently recalled into the input line. Index -1
// means the user is editing a live line.
type Cursor struct {
	Index int
}

// Live returns a cursor that is not browsing history.
func Live() Cursor {
	return Cursor{Index: -1}
}

// Browsing reports whether the cursor points at an entry.
func (c Cursor) Browsing() bool {
	return c.Index >= 0
}

// Previous steps one entry further into the past. When no older entry
// exists it returns current and c unchanged.
func (r *Ring) Previous(c Cursor, current string) (string, Cursor) {
	if c.Index+1 >= r.Len() {
		return current, c
	}
	c.Index++
	return r.At(c.Index), c
}

// Next steps one entry towards the present. Leaving the newest entry yields
// the empty line; at the live line it returns current and c unchanged.
func (r *Ring) Next(c Cursor, current string) (string, Cursor) {
	if c.Index < 0 {
		return current, c
	}
	c.Index--
	if c.Index < 0 {
		return "", c
	}
	return r.At(c.Index), c
}
