package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bawdo/sqlterm/statement"
)

// ScriptResult summarizes a RunScript call.
type ScriptResult struct {
	Statements int
	Failed     int
}

// RunScript executes the statements read from r one after another and
// writes each result to the surface. Lines are accumulated exactly as in
// interactive mode, except that lines holding only a "--" comment are
// skipped. A trailing statement without a terminator is run at EOF.
// History is not touched.
func (d *Dispatcher) RunScript(ctx context.Context, r io.Reader) (ScriptResult, error) {
	var res ScriptResult
	acc := statement.New(d.opts.Prompt)
	run := func(command string) {
		out := d.invoke(ctx, command)
		res.Statements++
		if out.Err != nil {
			res.Failed++
			d.log.Info("script statement failed", "statement", res.Statements, "err", out.Err)
		}
		d.surface.Write(d.format(out))
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		acc.CommitLine(line)
		if acc.IsTerminated() {
			run(acc.Drain())
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("read script: %w", err)
	}
	if !acc.Empty() {
		run(acc.Drain())
	}
	return res, nil
}
