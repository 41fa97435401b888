package history

import (
	"testing"

	"github.com/bawdo/sqlterm/internal/testutil"
)

func TestPushMostRecentFirst(t *testing.T) {
	t.Parallel()
	r := NewRing()
	r.Push("A")
	r.Push("B")
	r.Push("B")
	testutil.AssertEqual(t, r.Len(), 3)
	testutil.AssertEqual(t, r.At(0), "B")
	testutil.AssertEqual(t, r.At(1), "B")
	testutil.AssertEqual(t, r.At(2), "A")
}

func TestRecallWalk(t *testing.T) {
	t.Parallel()
	r := NewRing()
	r.Push("A")
	r.Push("B")

	c := Live()
	line := "draft"
	steps := []struct {
		up    bool
		want  string
		index int
	}{
		{true, "B", 0},
		{true, "A", 1},
		{true, "A", 1},
		{false, "B", 0},
		{false, "", -1},
		{false, "", -1},
	}
	for i, s := range steps {
		if s.up {
			line, c = r.Previous(c, line)
		} else {
			line, c = r.Next(c, line)
		}
		if line != s.want || c.Index != s.index {
			t.Fatalf("step %d: expected (%q, %d), got (%q, %d)", i, s.want, s.index, line, c.Index)
		}
	}
}

func TestRecallEmptyRing(t *testing.T) {
	t.Parallel()
	r := NewRing()
	line, c := r.Previous(Live(), "typed")
	testutil.AssertEqual(t, line, "typed")
	testutil.AssertEqual(t, c.Browsing(), false)
	line, c = r.Next(c, "typed")
	testutil.AssertEqual(t, line, "typed")
	testutil.AssertEqual(t, c.Index, -1)
}
