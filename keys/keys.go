// Package keys decodes a terminal byte stream into key events.
package keys

import (
	"bufio"
	"context"
	"io"
	"unicode"
	"unicode/utf8"
)

// Kind identifies a decoded key.
type Kind int

const (
	Rune Kind = iota
	Enter
	Backspace
	Delete
	Left
	Right
	Home
	End
	Up
	Down
	Tab
	KillLine
	Interrupt
	EOF
)

var kindNames = [...]string{
	Rune:      "rune",
	Enter:     "enter",
	Backspace: "backspace",
	Delete:    "delete",
	Left:      "left",
	Right:     "right",
	Home:      "home",
	End:       "end",
	Up:        "up",
	Down:      "down",
	Tab:       "tab",
	KillLine:  "kill-line",
	Interrupt: "interrupt",
	EOF:       "eof",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is a single key press. R is only meaningful for Rune events.
type Event struct {
	Kind Kind
	R    rune
}

// Of returns a Rune event for r.
func Of(r rune) Event {
	return Event{Kind: Rune, R: r}
}

// Type returns the Rune events for every character of s, for tests and
// scripted input.
func Type(s string) []Event {
	events := make([]Event, 0, len(s))
	for _, r := range s {
		events = append(events, Of(r))
	}
	return events
}

// Read decodes r until it fails or ctx is done and sends each event to
// out. out is closed when Read returns. A Read blocked inside r only
// notices ctx once r returns.
func Read(ctx context.Context, r io.Reader, out chan<- Event) {
	defer close(out)
	br := bufio.NewReader(r)
	lastWasCR := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		if lastWasCR {
			lastWasCR = false
			if b == '\n' {
				continue
			}
		}
		ev, ok, err := decode(br, b)
		if err != nil {
			return
		}
		if !ok {
			continue
		}
		lastWasCR = b == '\r'
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// decode turns the byte b, plus whatever sequence it starts, into an event.
// ok is false for bytes that map to no key.
func decode(br *bufio.Reader, b byte) (Event, bool, error) {
	switch b {
	case 0x1b:
		return readEscape(br)
	case '\r', '\n':
		return Event{Kind: Enter}, true, nil
	case 0x7f, 0x08:
		return Event{Kind: Backspace}, true, nil
	case 0x01:
		return Event{Kind: Home}, true, nil
	case 0x05:
		return Event{Kind: End}, true, nil
	case 0x15:
		return Event{Kind: KillLine}, true, nil
	case 0x03:
		return Event{Kind: Interrupt}, true, nil
	case 0x04:
		return Event{Kind: EOF}, true, nil
	case 0x09:
		return Event{Kind: Tab}, true, nil
	}
	if b < 0x20 {
		return Event{}, false, nil
	}
	if b < utf8.RuneSelf {
		return Of(rune(b)), true, nil
	}
	_ = br.UnreadByte()
	rn, _, err := br.ReadRune()
	if err != nil {
		return Event{}, false, err
	}
	return Of(rn), true, nil
}

// readEscape decodes the sequence after ESC. An ESC that arrived on its own,
// or is followed by anything but '[' or 'O', is dropped and the next byte is
// left for the caller.
func readEscape(br *bufio.Reader) (Event, bool, error) {
	if br.Buffered() == 0 {
		return Event{}, false, nil
	}
	b, err := br.ReadByte()
	if err != nil {
		return Event{}, false, err
	}
	switch b {
	case '[':
		return readCSI(br)
	case 'O':
		return readSS3(br)
	}
	_ = br.UnreadByte()
	return Event{}, false, nil
}

var csiKeys = map[string]Kind{
	"A":  Up,
	"B":  Down,
	"C":  Right,
	"D":  Left,
	"H":  Home,
	"1~": Home,
	"7~": Home,
	"F":  End,
	"4~": End,
	"8~": End,
	"3~": Delete,
}

func readCSI(br *bufio.Reader) (Event, bool, error) {
	seq := []byte{}
	for {
		b, err := br.ReadByte()
		if err != nil {
			return Event{}, false, err
		}
		seq = append(seq, b)
		if b == '~' || unicode.IsLetter(rune(b)) {
			break
		}
		if len(seq) > 8 {
			return Event{}, false, nil
		}
	}
	kind, ok := csiKeys[string(seq)]
	return Event{Kind: kind}, ok, nil
}

var ss3Keys = map[byte]Kind{
	'A': Up,
	'B': Down,
	'C': Right,
	'D': Left,
	'H': Home,
	'F': End,
}

func readSS3(br *bufio.Reader) (Event, bool, error) {
	b, err := br.ReadByte()
	if err != nil {
		return Event{}, false, err
	}
	kind, ok := ss3Keys[b]
	return Event{Kind: kind}, ok, nil
}
