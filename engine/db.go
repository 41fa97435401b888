package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrUnknownKind is returned by Open for an unsupported database kind.
var ErrUnknownKind = errors.New("unknown engine")

var driverName = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

// Kinds lists the supported database kinds.
func Kinds() []string {
	return []string{"mysql", "postgres", "sqlite"}
}

// MaxRows caps how many rows a single command returns.
const MaxRows = 1000

// DB is an Engine backed by a database/sql handle. It holds a single
// connection so session state (transactions, temp tables, :memory: SQLite)
// survives between commands.
type DB struct {
	db   *sql.DB
	kind string
	dsn  string
}

// Open connects to the database of the given kind and verifies it with a ping.
func Open(ctx context.Context, kind, dsn string) (*DB, error) {
	driver, ok := driverName[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &DB{db: db, kind: kind, dsn: dsn}, nil
}

// Kind returns the database kind the handle was opened with.
func (d *DB) Kind() string {
	return d.kind
}

// Close releases the handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Execute runs command and collects at most MaxRows rows.
func (d *DB) Execute(ctx context.Context, command string) (Result, error) {
	rows, err := d.db.QueryContext(ctx, command)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = rows.Close() }()
	return collect(rows)
}

func collect(rows *sql.Rows) (Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("columns: %w", err)
	}

	res := Result{Columns: columns}
	for rows.Next() {
		if len(res.Rows) >= MaxRows {
			res.Truncated = true
			break
		}
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, fmt.Errorf("scan: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("rows: %w", err)
	}
	return res, nil
}
