package engine

import (
	"context"
	"fmt"

	"github.com/bawdo/sqlterm/internal/quoting"
)

// SeedTable is the demo table created by Seed.
const SeedTable = "test"

const seedTitle = "Hello world"

var seedKey = map[string]string{
	"postgres": "serial PRIMARY KEY",
	"mysql":    "INT AUTO_INCREMENT PRIMARY KEY",
	"sqlite":   "INTEGER PRIMARY KEY AUTOINCREMENT",
}

// SeedStatements returns the DDL and insert that create the demo table.
func SeedStatements(kind string) []string {
	table := quoting.Ident(kind, SeedTable)
	return []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id %s, title varchar(255) NOT NULL)", table, seedKey[kind]),
		fmt.Sprintf("INSERT INTO %s (title) VALUES (%s)", table, quoting.Literal(kind, seedTitle)),
	}
}

// Seed creates the demo table and inserts one row.
func (d *DB) Seed(ctx context.Context) error {
	for _, stmt := range SeedStatements(d.kind) {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}
