package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/bawdo/sqlterm"
	"github.com/bawdo/sqlterm/internal/config"
	"github.com/bawdo/sqlterm/terminal"
)

// ErrStatementsFailed is returned by script runs with at least one failed
// statement.
var ErrStatementsFailed = errors.New("statements failed")

func logOptions(level string) (pslog.Options, bool) {
	opts := pslog.Options{Mode: pslog.ModeConsole}
	switch strings.ToLower(level) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "info":
		opts.MinLevel = pslog.InfoLevel
	case "warn":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		return opts, false
	}
	return opts, true
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sqlterm",
		Short:         "Interactive SQL terminal",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runInteractive,
	}
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(newExecCmd())
	return root
}

// setup loads the configuration and replaces the context logger with one
// honouring log_level.
func setup(cmd *cobra.Command) (context.Context, config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, config.Config{}, err
	}
	opts, ok := logOptions(cfg.LogLevel)
	if !ok {
		return nil, config.Config{}, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	ctx := pslog.ContextWithLogger(cmd.Context(), newLogger(opts))
	return ctx, cfg, nil
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	ctx, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if !terminal.IsTerminal(os.Stdin) {
		pslog.Ctx(ctx).Debug("stdin is not a terminal, running as script")
		return runScript(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	sess, err := sqlterm.Open(ctx, cfg, cmd.OutOrStdout(), terminal.WithCRLF())
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	restore, err := terminal.MakeRaw(os.Stdin)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer restore()

	sess.Screen.Write(banner(cfg))
	err = sess.Interactive(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func banner(cfg config.Config) string {
	return fmt.Sprintf("Welcome to sqlterm! Statements end with ';'.\nConnected to %s. Ctrl-D quits.\n\n", cfg.Engine)
}

func runScript(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	sess, err := sqlterm.Open(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	res, err := sess.Script(ctx, in)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d: %w", res.Failed, res.Statements, ErrStatementsFailed)
	}
	return nil
}
