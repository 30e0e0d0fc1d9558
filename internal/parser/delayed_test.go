package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/token"
)

const delayedSource = `func outer() -> Int {
  func inner() -> Int { return 1 }
  return inner()
}
struct S {
  var v: Int { get { return 1 } set { } }
  init() { }
  func m(x: Int) { if x { return } }
}
`

func findFunc(t *testing.T, a *ast.Arena, name string) *ast.FuncDecl {
	t.Helper()
	var found *ast.FuncDecl
	a.Each(func(d ast.Decl) {
		if fd, ok := d.(*ast.FuncDecl); ok && fd.Name == name {
			found = fd
		}
	})
	if found == nil {
		t.Fatalf("func %s not found", name)
	}
	return found
}

func TestDelayedBodiesMatchEagerParse(t *testing.T) {
	eager, eagerFile := parseLibrary(t, delayedSource)
	checkNoDiagnostics(t, eager)

	opts := DefaultOptions()
	opts.DelayBodies = true
	p, file := parseWith(t, delayedSource, opts)
	checkNoDiagnostics(t, p)

	outer := findFunc(t, file.Arena, "outer")
	if outer.BodyKind != ast.BodyDelayed || outer.Body != nil {
		t.Fatalf("expected outer body to be delayed, got %s", outer.BodyKind)
	}
	if !p.State().HasDelayedBody(outer.ID) {
		t.Fatal("expected a checkpoint for outer")
	}
	if !outer.BodyRange.Start.IsValid() || !outer.BodyRange.Start.Before(outer.BodyRange.End) {
		t.Errorf("unexpected body range %v", outer.BodyRange)
	}

	// outer、getter、setter、init、m，以及随后展开的 inner
	if n := p.ParseDelayedBodies(); n != 6 {
		t.Errorf("expected 6 delayed bodies, got %d", n)
	}
	if len(p.State().DelayedBodies()) != 0 {
		t.Error("expected no checkpoints left")
	}
	checkNoDiagnostics(t, p)

	if diff := cmp.Diff(ast.Dump(eagerFile), ast.Dump(file)); diff != "" {
		t.Errorf("delayed parse differs from eager parse (-eager +delayed):\n%s", diff)
	}
}

func TestParseDelayedBodyOnce(t *testing.T) {
	opts := DefaultOptions()
	opts.DelayBodies = true
	p, file := parseWith(t, `func f() { return }`, opts)

	fd := ast.As[*ast.FuncDecl](file.Arena, file.Decls[0])
	if !p.ParseDelayedBody(fd.ID) {
		t.Fatal("expected the body to be parsed")
	}
	if fd.BodyKind != ast.BodyParsed || fd.Body == nil || len(fd.Body.Items) != 1 {
		t.Errorf("unexpected body after delayed parse: %s", fd.BodyKind)
	}
	if p.ParseDelayedBody(fd.ID) {
		t.Error("checkpoint must be consumed by the first parse")
	}
	if p.ParseDelayedBody(ast.NoDecl) {
		t.Error("expected false for a decl without checkpoint")
	}
}

func TestDelayedBodyKeepsScope(t *testing.T) {
	opts := DefaultOptions()
	opts.DelayBodies = true
	p, file := parseWith(t, "struct S {\n  func f(a: Int) { var b = a }\n}", opts)

	f := findFunc(t, file.Arena, "f")
	if !p.ParseDelayedBody(f.ID) {
		t.Fatal("expected the body to be parsed")
	}
	checkNoDiagnostics(t, p)

	if p.Scope() != nil {
		t.Error("expected the scope chain to be restored after delayed parsing")
	}
	b := f.Body.Items[1].Decl
	if v := ast.As[*ast.VarDecl](file.Arena, b); v == nil || v.Context != f.BodyContext {
		t.Error("expected local var in the function body context")
	}
}

func TestShouldDelayPredicate(t *testing.T) {
	opts := DefaultOptions()
	opts.DelayBodies = true
	opts.ShouldDelay = func(fn ast.AbstractFunction, attrs *ast.DeclAttributes, body token.Span) bool {
		return fn.Value().Name != "skip"
	}
	p, file := parseWith(t, "func skip() { return }\nfunc keep() { return }", opts)
	checkNoDiagnostics(t, p)

	skip := findFunc(t, file.Arena, "skip")
	keep := findFunc(t, file.Arena, "keep")
	if skip.BodyKind != ast.BodySkipped {
		t.Errorf("expected skip body to be skipped, got %s", skip.BodyKind)
	}
	if keep.BodyKind != ast.BodyDelayed {
		t.Errorf("expected keep body to be delayed, got %s", keep.BodyKind)
	}
	if p.ParseDelayedBody(skip.ID) {
		t.Error("skipped body has no checkpoint")
	}
	if n := p.ParseDelayedBodies(); n != 1 {
		t.Errorf("expected 1 delayed body, got %d", n)
	}
}

func TestUnbalancedDelayedBody(t *testing.T) {
	opts := DefaultOptions()
	opts.DelayBodies = true
	p, file := parseWith(t, "func f() {\n  var x = 1\n  x\nstruct S {}", opts)

	f := findFunc(t, file.Arena, "f")
	if f.BodyKind != ast.BodyDelayed {
		t.Fatalf("expected delayed body, got %s", f.BodyKind)
	}
	var kinds []ast.DeclKind
	for _, id := range file.Decls {
		kinds = append(kinds, file.Arena.Decl(id).Kind())
	}
	if diff := cmp.Diff([]ast.DeclKind{ast.KindFunc, ast.KindStruct}, kinds); diff != "" {
		t.Errorf("expected the struct after the unbalanced body to survive (-want +got):\n%s", diff)
	}
	p.ParseDelayedBodies()
	if f.BodyKind != ast.BodyParsed {
		t.Errorf("expected parsed body, got %s", f.BodyKind)
	}
}

// ============================================================================
// 代码补全
// ============================================================================

func completionOptions(src, at string) Options {
	opts := DefaultOptions()
	opts.CodeCompletionOffset = strings.Index(src, at)
	return opts
}

func TestCodeCompletionTopLevelDecl(t *testing.T) {
	src := "import Foundation\nfunc f(a: Int) {}\nstruct After {}\n"
	p, file := parseWith(t, src, completionOptions(src, "Int"))

	if diff := cmp.Diff([]ast.DeclKind{ast.KindImport}, declKinds(file.Arena, file.Decls)); diff != "" {
		t.Fatalf("expected parsing to stop at the completion point (-want +got):\n%s", diff)
	}
	if !p.State().HasDelayedDecl() {
		t.Fatal("expected a delayed decl")
	}
	dd := p.State().DelayedDecl()
	if !dd.TopLevel || dd.Context != file.Context {
		t.Errorf("expected a top-level delayed decl in the module, got %+v", dd)
	}
	if !dd.Flags.Has(AllowTopLevel) {
		t.Error("expected top-level flags to be recorded")
	}

	decls := p.ParseDelayedDecl()
	if len(decls) != 1 {
		t.Fatalf("expected 1 decl from the second pass, got %d", len(decls))
	}
	fd := ast.As[*ast.FuncDecl](file.Arena, decls[0])
	if fd == nil || fd.Name != "f" {
		t.Errorf("expected func f, got %v", file.Arena.Decl(decls[0]))
	}
	if p.State().HasDelayedDecl() {
		t.Error("delayed decl must be consumed")
	}
	if p.ParseDelayedDecl() != nil {
		t.Error("expected nil without a delayed decl")
	}
}

func TestSecondPassEndsWithDelayedDecl(t *testing.T) {
	src := "func f(a: Int) {}\n"
	p, _ := parseWith(t, src, completionOptions(src, "Int"))
	if !p.codeCompletionFirstPass() {
		t.Fatal("expected the first pass before reparsing")
	}

	if decls := p.ParseDelayedDecl(); len(decls) != 1 {
		t.Fatalf("expected 1 decl from the second pass, got %d", len(decls))
	}
	if !p.codeCompletionFirstPass() {
		t.Error("expected first-pass mode to be restored after the second pass")
	}
}

func TestCodeCompletionMemberDecl(t *testing.T) {
	src := "struct S {\n  var x: Int\n  func g() { return }\n}\n"
	p, file := parseWith(t, src, completionOptions(src, "Int"))

	if len(file.Decls) != 1 {
		t.Fatalf("expected struct S to be parsed, got %v", declKinds(file.Arena, file.Decls))
	}
	s := ast.As[*ast.StructDecl](file.Arena, file.Decls[0])

	if !p.State().HasDelayedDecl() {
		t.Fatal("expected a delayed member decl")
	}
	dd := p.State().DelayedDecl()
	if dd.TopLevel {
		t.Error("member decl must not be top-level")
	}
	if owner := file.Arena.Owner(dd.Context); owner != ast.Decl(s) {
		t.Errorf("expected the delayed decl to belong to struct S, got %v", owner)
	}
	if !dd.Flags.Has(HasContainerType) {
		t.Error("expected member flags to be recorded")
	}

	// 第一遍中函数体只记录检查点
	g := findFunc(t, file.Arena, "g")
	if g.BodyKind != ast.BodyDelayed {
		t.Errorf("expected delayed body in the completion pass, got %s", g.BodyKind)
	}
	if !p.ParseDelayedBody(g.ID) || g.BodyKind != ast.BodyParsed {
		t.Error("expected the delayed body to be parsed")
	}

	p.ParseDelayedDecl()
	if p.State().HasDelayedDecl() {
		t.Error("delayed decl must be consumed")
	}
}

func TestCodeCompletionInsideBodyIsDelayed(t *testing.T) {
	src := "func f() {\n  var x = 1\n}\nfunc g() {}\n"
	p, file := parseWith(t, src, completionOptions(src, "1"))

	if diff := cmp.Diff([]ast.DeclKind{ast.KindFunc, ast.KindFunc}, declKinds(file.Arena, file.Decls)); diff != "" {
		t.Fatalf("decl kinds mismatch (-want +got):\n%s", diff)
	}
	if p.State().HasDelayedDecl() {
		t.Error("completion inside a body must not delay the whole decl")
	}
	f := findFunc(t, file.Arena, "f")
	if !p.State().HasDelayedBody(f.ID) {
		t.Error("expected the body containing the completion point to be delayed")
	}
}
