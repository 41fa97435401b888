package statement

import (
	"testing"

	"github.com/bawdo/sqlterm/internal/testutil"
)

func TestSingleLineTerminated(t *testing.T) {
	t.Parallel()
	a := New("sqlterm# ")
	a.CommitLine("select 1;")
	testutil.AssertEqual(t, a.IsTerminated(), true)
	testutil.AssertEqual(t, a.Drain(), "select 1;")
	testutil.AssertEqual(t, a.Empty(), true)
}

func TestMultiLineJoinedWithSpace(t *testing.T) {
	t.Parallel()
	a := New("sqlterm# ")
	a.CommitLine("select")
	testutil.AssertEqual(t, a.IsTerminated(), false)
	a.CommitLine("   1;  ")
	testutil.AssertEqual(t, a.IsTerminated(), true)
	testutil.AssertEqual(t, a.Len(), 2)
	testutil.AssertEqual(t, a.Drain(), "select 1;")
}

func TestBlankLineIgnored(t *testing.T) {
	t.Parallel()
	a := New("sqlterm# ")
	a.CommitLine("   ")
	testutil.AssertEqual(t, a.Empty(), true)
	testutil.AssertEqual(t, a.IsTerminated(), false)

	a.CommitLine("select 1")
	a.CommitLine("")
	testutil.AssertEqual(t, a.Len(), 1)
	testutil.AssertEqual(t, a.IsTerminated(), false)
}

func TestPromptEchoStripped(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line string
		want string
	}{
		{"sqlterm# select 1;", "select 1;"},
		{"  sqlterm#   select 2;", "select 2;"},
		{"select 3;", "select 3;"},
	}
	for _, tt := range tests {
		a := New("sqlterm# ")
		a.CommitLine(tt.line)
		testutil.AssertEqual(t, a.Drain(), tt.want)
	}
}

func TestSymbolPromptKeepsSQL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		prompt string
		line   string
		want   string
	}{
		{"> ", ">= 1;", ">= 1;"},
		{"> ", "> select 1;", "select 1;"},
		{"> ", ">", ""},
		{"=> ", "= 1;", "= 1;"},
		{"=> ", "=>1;", "=>1;"},
		{"=> ", "=> select 1;", "select 1;"},
		{"-> ", "->> 'a';", "->> 'a';"},
		{"-> ", "-> 'a';", "'a';"},
		{"-> ", "->", ""},
	}
	for _, tt := range tests {
		a := New(tt.prompt)
		a.CommitLine(tt.line)
		testutil.AssertEqual(t, a.Drain(), tt.want)
	}
}

func TestContinuationLinesNeverStripped(t *testing.T) {
	t.Parallel()
	tests := []struct {
		prompt string
		next   string
		want   string
	}{
		{"> ", ">= 10;", "where n >= 10;"},
		{"> ", "> 10;", "where n > 10;"},
		{"=> ", "=> 10;", "where n => 10;"},
		{"sqlterm# ", "sqlterm# ;", "where n sqlterm# ;"},
	}
	for _, tt := range tests {
		a := New(tt.prompt)
		a.CommitLine("where n")
		a.CommitLine(tt.next)
		testutil.AssertEqual(t, a.IsTerminated(), true)
		testutil.AssertEqual(t, a.Drain(), tt.want)
	}
}

func TestPromptEchoAloneIsBlank(t *testing.T) {
	t.Parallel()
	a := New("sqlterm# ")
	a.CommitLine("sqlterm# ")
	testutil.AssertEqual(t, a.Empty(), true)
}

func TestEmptyPromptKeepsLine(t *testing.T) {
	t.Parallel()
	a := New("")
	a.CommitLine("# not a prompt;")
	testutil.AssertEqual(t, a.Drain(), "# not a prompt;")
}

func TestTerminatorMustBeLast(t *testing.T) {
	t.Parallel()
	a := New("")
	a.CommitLine("select ';' as semi")
	testutil.AssertEqual(t, a.IsTerminated(), false)
	a.CommitLine("from t ;")
	testutil.AssertEqual(t, a.IsTerminated(), true)
}

func TestCancel(t *testing.T) {
	t.Parallel()
	a := New("")
	a.CommitLine("select")
	a.Cancel()
	testutil.AssertEqual(t, a.Empty(), true)
	testutil.AssertEqual(t, a.Drain(), "")
}
