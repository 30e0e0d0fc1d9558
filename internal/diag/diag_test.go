package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.uber.org/multierr"

	"github.com/tangzhangming/kestrel/internal/i18n"
	"github.com/tangzhangming/kestrel/internal/token"
)

func pos(line, col int) token.Position {
	return token.Position{Filename: "test.kes", Line: line, Column: col, Offset: col - 1}
}

func TestEveryIDHasMessage(t *testing.T) {
	for id := range infos {
		msg := i18n.T(string(id))
		assert.NotEqual(t, string(id), msg, "missing english message for %s", id)
	}
}

func TestDiagnoseLevels(t *testing.T) {
	e := NewEngine()
	e.Diagnose(pos(1, 1), ExpectedDecl)
	e.Diagnose(pos(1, 5), SameLineWithoutSemi)
	e.Diagnose(pos(2, 1), PreviousGetSet, "getter")

	require.Len(t, e.Diagnostics(), 3)
	assert.Equal(t, 1, e.ErrorCount())
	assert.Equal(t, 1, e.WarningCount())
	assert.True(t, e.HasErrors())
	assert.Equal(t, []ID{ExpectedDecl, SameLineWithoutSemi, PreviousGetSet}, e.IDs())
	assert.Equal(t, LevelNote, e.Diagnostics()[2].Level)
	assert.Equal(t, "W0001", e.Diagnostics()[1].Code)
}

func TestDiagnoseFormatsArgs(t *testing.T) {
	e := NewEngine()
	d := e.Diagnose(pos(1, 1), UnimplementedStaticVar, " in classes")
	assert.Equal(t, "static variables not yet supported in classes", d.Message)
	assert.Contains(t, d.Error(), "test.kes:1:1: error:")
}

func TestFixItChaining(t *testing.T) {
	e := NewEngine()
	kw := token.NewSpan(pos(1, 1), pos(1, 7))
	d := e.Diagnose(pos(1, 1), DeclNotStatic).Highlight(kw).FixItRemove(kw).FixItInsert(pos(1, 20), ";")

	require.Len(t, d.FixIts, 2)
	assert.Equal(t, FixRemove, d.FixIts[0].Kind)
	assert.Equal(t, FixInsert, d.FixIts[1].Kind)
	assert.Equal(t, ";", d.FixIts[1].Text)
	assert.Equal(t, d.FixIts[1].Range.Start, d.FixIts[1].Range.End)
	assert.Len(t, d.Ranges, 1)
}

func TestMaxErrors(t *testing.T) {
	e := NewEngine()
	e.SetMaxErrors(2)
	for i := 0; i < 5; i++ {
		e.Diagnose(pos(i+1, 1), ExpectedDecl)
	}
	e.Diagnose(pos(9, 1), SameLineWithoutSemi)

	assert.Equal(t, 5, e.ErrorCount())
	assert.Equal(t, 3, e.Dropped())
	assert.Len(t, e.Diagnostics(), 3)
}

func TestErrCombinesErrorsOnly(t *testing.T) {
	e := NewEngine()
	assert.NoError(t, e.Err())

	e.Diagnose(pos(1, 1), ExpectedDecl)
	e.Diagnose(pos(1, 4), SameLineWithoutSemi)
	e.Diagnose(pos(2, 1), ExtraRBrace)

	errs := multierr.Errors(e.Err())
	require.Len(t, errs, 2)
	assert.Contains(t, errs[1].Error(), "extraneous '}'")
}

func TestOnDiagnoseCallback(t *testing.T) {
	e := NewEngine()
	var seen []ID
	e.OnDiagnose = func(d *Diagnostic) { seen = append(seen, d.ID) }
	e.Diagnose(pos(1, 1), ExpectedType)
	assert.Equal(t, []ID{ExpectedType}, seen)

	e.Clear()
	assert.Empty(t, e.Diagnostics())
	assert.False(t, e.HasErrors())
}

func TestFindSimilar(t *testing.T) {
	names := []string{"weak", "unowned", "transparent", "exported"}
	tests := []struct {
		name string
		want string
	}{
		{"waek", "weak"},
		{"Exported", "exported"},
		{"transparnt", "transparent"},
		{"banana", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FindSimilar(tt.name, names, 2), tt.name)
	}
}

func TestFormatterPlain(t *testing.T) {
	src := "struct S {\n  static var x: Int\n}\n"
	e := NewEngine()
	e.Diagnose(pos(2, 3), DeclNotStatic).FixItRemove(token.NewSpan(pos(2, 3), pos(2, 10)))

	f := NewFormatter()
	f.SetColors(false)
	var buf bytes.Buffer
	f.FormatAll(&buf, e.Diagnostics(), src)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "error[E0200]: declaration cannot be marked 'static'"))
	assert.Contains(t, out, "--> test.kes:2:3")
	assert.Contains(t, out, "2 |   static var x: Int")
	assert.Contains(t, out, "= fix: remove this")
	assert.NotContains(t, out, "\x1b[")
}

func TestToLSP(t *testing.T) {
	e := NewEngine()
	d := e.Diagnose(pos(3, 5), SameLineWithoutSemi)
	ld := ToLSP(d)

	assert.Equal(t, protocol.DiagnosticSeverityWarning, ld.Severity)
	assert.Equal(t, uint32(2), ld.Range.Start.Line)
	assert.Equal(t, uint32(4), ld.Range.Start.Character)
	assert.Equal(t, Source, ld.Source)

	params := PublishParams("/tmp/a.kes", e.Diagnostics())
	assert.Equal(t, "file:///tmp/a.kes", string(params.URI))
	assert.Len(t, params.Diagnostics, 1)
}

func TestFixItEdits(t *testing.T) {
	e := NewEngine()
	d := e.Diagnose(pos(1, 1), ExpectedLParenDestructor).FixItInsert(pos(1, 11), "()")
	edits := FixItEdits(d)
	require.Len(t, edits, 1)
	assert.Equal(t, "()", edits[0].NewText)
	assert.Equal(t, edits[0].Range.Start, edits[0].Range.End)
}
