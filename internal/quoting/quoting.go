// Package quoting quotes identifiers and string literals per SQL dialect.
package quoting

import "strings"

// DoubleQuote quotes a SQL identifier using double quotes (PostgreSQL, SQLite, ANSI SQL).
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes a SQL identifier using backticks (MySQL).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Ident quotes name for the given database kind.
func Ident(kind, name string) string {
	if kind == "mysql" {
		return Backtick(name)
	}
	return DoubleQuote(name)
}

// Literal renders s as a single-quoted string literal for the given kind.
// MySQL also treats backslash as an escape character.
func Literal(kind, s string) string {
	if kind == "mysql" {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
