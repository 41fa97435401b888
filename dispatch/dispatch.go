// Package dispatch turns key events into SQL statements, runs them against
// an engine and writes the results back to the display surface.
//
// The Dispatcher is a state machine:
//
//	Idle          prompt shown, nothing pending
//	Continuation  an unterminated statement is pending
//	Executing     a statement is running; keys are dropped
//	Done          the session is closed
//
// All state is touched from one goroutine. Only the engine call runs
// concurrently, and its Outcome is handed back through Completions so the
// owning goroutine can apply it with Complete. Run does both.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"pkt.systems/pslog"

	"github.com/bawdo/sqlterm/engine"
	"github.com/bawdo/sqlterm/history"
	"github.com/bawdo/sqlterm/keys"
	"github.com/bawdo/sqlterm/linebuf"
	"github.com/bawdo/sqlterm/render"
	"github.com/bawdo/sqlterm/statement"
)

// DefaultPrompt is the primary prompt.
const DefaultPrompt = "sqlterm# "

// State is the dispatcher mode.
type State int

const (
	Idle State = iota
	Continuation
	Executing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Continuation:
		return "continuation"
	case Executing:
		return "executing"
	case Done:
		return "done"
	}
	return "unknown"
}

// Surface is where the dispatcher draws prompts, echo and results.
type Surface interface {
	Write(text string)
}

// Renderer formats the outcome of a command.
type Renderer interface {
	Render(res engine.Result, err error) string
}

// Outcome is the result of one dispatched command.
type Outcome struct {
	Command string
	Result  engine.Result
	Err     error
	Elapsed time.Duration
}

// Options configures a Dispatcher.
type Options struct {
	Prompt             string // defaults to DefaultPrompt
	ContinuationPrompt string // shown while a statement is pending
	SkipFailedHistory  bool   // failed commands are recorded unless set
	ShowTiming         bool
	History            *history.Ring
	Store              history.Store // receives every recorded command
	Logger             pslog.Logger
}

// Dispatcher owns one interactive session's input state.
type Dispatcher struct {
	engine   engine.Engine
	surface  Surface
	renderer Renderer
	opts     Options
	log      pslog.Logger

	state       State
	line        linebuf.Buffer
	pending     *statement.Accumulator
	ring        *history.Ring
	cursor      history.Cursor
	completions chan Outcome
}

// New returns a dispatcher in the Idle state. A nil renderer renders plain
// text. A nil engine makes every command fail with engine.ErrUnavailable.
func New(eng engine.Engine, surface Surface, renderer Renderer, opts Options) *Dispatcher {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.History == nil {
		opts.History = history.NewRing()
	}
	if opts.Logger == nil {
		opts.Logger = pslog.NewWithOptions(io.Discard, pslog.Options{
			Mode:     pslog.ModeStructured,
			NoColor:  true,
			MinLevel: pslog.ErrorLevel,
		})
	}
	if renderer == nil {
		renderer = render.Renderer{}
	}
	return &Dispatcher{
		engine:      eng,
		surface:     surface,
		renderer:    renderer,
		opts:        opts,
		log:         opts.Logger,
		pending:     statement.New(opts.Prompt),
		ring:        opts.History,
		cursor:      history.Live(),
		completions: make(chan Outcome, 1),
	}
}

// State returns the current mode.
func (d *Dispatcher) State() State { return d.state }

// Line returns the text being edited.
func (d *Dispatcher) Line() string { return d.line.Text() }

// CursorColumn returns the display column of the input cursor, prompt included.
func (d *Dispatcher) CursorColumn() int {
	return d.line.Column(runewidth.StringWidth(d.Prompt()))
}

// PendingLines returns how many lines the unterminated statement holds.
func (d *Dispatcher) PendingLines() int { return d.pending.Len() }

// Cursor returns the history cursor.
func (d *Dispatcher) Cursor() history.Cursor { return d.cursor }

// History returns the ring of submitted commands.
func (d *Dispatcher) History() *history.Ring { return d.ring }

// Prompt returns the prompt for the current mode.
func (d *Dispatcher) Prompt() string {
	if d.pending.Empty() {
		return d.opts.Prompt
	}
	return d.opts.ContinuationPrompt
}

// Completions delivers the outcome of the command in flight.
func (d *Dispatcher) Completions() <-chan Outcome { return d.completions }

// Start draws the first prompt.
func (d *Dispatcher) Start() {
	d.surface.Write(d.Prompt())
}

// Run draws the prompt and processes events until the session is closed,
// the event stream ends or ctx is cancelled. A command still running when
// the stream ends is waited for and rendered.
func (d *Dispatcher) Run(ctx context.Context, events <-chan keys.Event) error {
	d.Start()
	for d.state != Done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				events = nil
				if d.state != Executing {
					d.close()
				}
				continue
			}
			d.HandleKey(ctx, ev)
		case out := <-d.completions:
			d.Complete(out)
			if events == nil {
				d.close()
			}
		}
	}
	return nil
}

// HandleKey applies one key event. While Executing every key is dropped,
// Interrupt included: a running command cannot be cancelled and the state
// stays Executing until its Outcome is applied.
func (d *Dispatcher) HandleKey(ctx context.Context, ev keys.Event) {
	switch d.state {
	case Done:
		return
	case Executing:
		if ev.Kind == keys.Interrupt {
			d.log.Info("interrupt ignored", "reason", "query in flight")
		} else {
			d.log.Debug("key dropped", "key", ev.Kind.String())
		}
		return
	}

	switch ev.Kind {
	case keys.Rune:
		d.insert(ev.R)
	case keys.Enter:
		d.enter(ctx)
	case keys.Backspace:
		d.backspace()
	case keys.Delete:
		if d.line.Delete() {
			d.redraw()
		}
	case keys.Left:
		if d.line.Left() {
			d.redraw()
		}
	case keys.Right:
		if d.line.Right() {
			d.redraw()
		}
	case keys.Home:
		d.line.Home()
		d.redraw()
	case keys.End:
		d.line.End()
		d.redraw()
	case keys.KillLine:
		if d.line.KillToStart() {
			d.redraw()
		}
	case keys.Up:
		d.recall(d.ring.Previous)
	case keys.Down:
		d.recall(d.ring.Next)
	case keys.Interrupt:
		d.interrupt()
	case keys.EOF:
		if d.line.Len() == 0 {
			d.close()
		} else if d.line.Delete() {
			d.redraw()
		}
	}
}

// Complete applies the outcome of the command in flight: it records the
// command, renders the result and returns to Idle.
func (d *Dispatcher) Complete(out Outcome) {
	if out.Err == nil || !d.opts.SkipFailedHistory {
		d.record(out.Command)
	}
	if out.Err != nil {
		d.log.Info("command failed", "err", out.Err, "elapsed", out.Elapsed)
	} else {
		d.log.Debug("command done", "rows", len(out.Result.Rows), "elapsed", out.Elapsed)
	}

	d.surface.Write(d.format(out))
	d.line.Clear()
	d.cursor = history.Live()
	if d.state == Executing {
		d.setState(Idle)
	}
	if d.state != Done {
		d.Start()
	}
}

func (d *Dispatcher) format(out Outcome) string {
	text := d.renderer.Render(out.Result, out.Err)
	if d.opts.ShowTiming {
		text += render.Elapsed(out.Elapsed)
	}
	return text
}

func (d *Dispatcher) insert(r rune) {
	d.cursor = history.Live()
	atEnd := d.line.AtEnd()
	d.line.Insert(r)
	if atEnd {
		d.surface.Write(string(r))
		return
	}
	d.redraw()
}

func (d *Dispatcher) backspace() {
	origin := runewidth.StringWidth(d.Prompt())
	floor := origin
	if d.state == Continuation {
		floor = 0
	}
	r, ok := d.line.Backspace(origin, floor)
	if !ok {
		return
	}
	if d.line.AtEnd() {
		d.surface.Write(fmt.Sprintf("\x1b[%dD\x1b[K", max(1, runewidth.RuneWidth(r))))
		return
	}
	d.redraw()
}

// recall replaces the line with a history entry. It does nothing while a
// statement is pending.
func (d *Dispatcher) recall(step func(history.Cursor, string) (string, history.Cursor)) {
	if !d.pending.Empty() {
		return
	}
	text, c := step(d.cursor, d.line.Text())
	if c == d.cursor {
		return
	}
	d.cursor = c
	d.line.Replace(text)
	d.redraw()
}

func (d *Dispatcher) enter(ctx context.Context) {
	text := d.line.Text()
	d.surface.Write("\n")
	d.line.Clear()
	d.pending.CommitLine(text)

	if !d.pending.IsTerminated() {
		if d.pending.Empty() {
			d.setState(Idle)
		} else {
			d.setState(Continuation)
		}
		d.Start()
		return
	}

	command := d.pending.Drain()
	d.cursor = history.Live()
	d.setState(Executing)
	d.log.Debug("dispatch", "command", command)
	go func() {
		d.completions <- d.invoke(ctx, command)
	}()
}

// invoke runs command on the engine. Panics are turned into failures so a
// broken engine can never leave the session in Executing.
func (d *Dispatcher) invoke(ctx context.Context, command string) (out Outcome) {
	out.Command = command
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.Result = engine.Result{}
			out.Err = fmt.Errorf("engine panic: %v", r)
		}
		out.Elapsed = time.Since(start)
	}()
	if d.engine == nil {
		out.Err = engine.ErrUnavailable
		return out
	}
	out.Result, out.Err = d.engine.Execute(ctx, command)
	return out
}

func (d *Dispatcher) interrupt() {
	d.pending.Cancel()
	d.line.Clear()
	d.cursor = history.Live()
	d.surface.Write("^C\n")
	d.setState(Idle)
	d.Start()
}

func (d *Dispatcher) close() {
	d.pending.Cancel()
	d.line.Clear()
	d.surface.Write("\n")
	d.setState(Done)
}

func (d *Dispatcher) record(command string) {
	if strings.TrimSpace(command) == "" {
		return
	}
	d.ring.Push(command)
	if d.opts.Store == nil {
		return
	}
	if err := d.opts.Store.Append(command); err != nil {
		d.log.Warn("history append failed", "err", err)
	}
}

func (d *Dispatcher) redraw() {
	var b strings.Builder
	b.WriteString("\r\x1b[K")
	b.WriteString(d.Prompt())
	b.WriteString(d.line.Text())
	if tail := d.line.Tail(); tail != "" {
		fmt.Fprintf(&b, "\x1b[%dD", runewidth.StringWidth(tail))
	}
	d.surface.Write(b.String())
}

func (d *Dispatcher) setState(s State) {
	if d.state == s {
		return
	}
	d.log.Debug("state", "from", d.state.String(), "to", s.String())
	d.state = s
}
