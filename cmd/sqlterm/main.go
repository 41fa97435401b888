// sqlterm is an interactive SQL terminal for PostgreSQL, MySQL and SQLite.
//
// Settings come from flags, SQLTERM_* environment variables, DATABASE_URL
// and an optional YAML file passed with --config.
//
// Usage:
//
//	sqlterm --engine postgres --dsn postgres://localhost/app
//	sqlterm exec schema.sql
package main

import (
	"context"
	"log"
	"os"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := newLogger(pslog.Options{Mode: pslog.ModeConsole, MinLevel: pslog.ErrorLevel})
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("sqlterm failed")
		return 1
	}
	return 0
}

func newLogger(opts pslog.Options) pslog.Logger {
	return pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(opts),
	)
}
