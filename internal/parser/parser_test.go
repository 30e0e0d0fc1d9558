package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/lexer"
	"github.com/tangzhangming/kestrel/internal/token"
)

func parseWith(t *testing.T, input string, opts Options) (*Parser, *ast.SourceFile) {
	t.Helper()
	p := New(input, "test.kes", opts)
	return p, p.Parse()
}

func parseLibrary(t *testing.T, input string) (*Parser, *ast.SourceFile) {
	t.Helper()
	return parseWith(t, input, DefaultOptions())
}

func checkNoDiagnostics(t *testing.T, p *Parser) {
	t.Helper()
	for _, d := range p.Diagnostics().Diagnostics() {
		t.Errorf("unexpected diagnostic: %s %s", d.ID, d.Message)
	}
}

func checkHasDiagnostics(t *testing.T, p *Parser, ids ...diag.ID) {
	t.Helper()
	for _, id := range ids {
		if !p.Diagnostics().Has(id) {
			t.Errorf("expected diagnostic %s, got %v", id, p.Diagnostics().IDs())
		}
	}
}

func declKinds(a *ast.Arena, ids []ast.DeclID) []ast.DeclKind {
	out := make([]ast.DeclKind, len(ids))
	for i, id := range ids {
		out[i] = a.Decl(id).Kind()
	}
	return out
}

// declForms 顶层声明形式的数量：变量、访问器与枚举成员属于各自的绑定或分组
func declForms(a *ast.Arena, ids []ast.DeclID) int {
	n := 0
	for _, id := range ids {
		switch d := a.Decl(id).(type) {
		case *ast.VarDecl, *ast.EnumElementDecl:
			continue
		case *ast.FuncDecl:
			if d.Accessor != ast.NotAccessor {
				continue
			}
		}
		n++
	}
	return n
}

func findVar(t *testing.T, a *ast.Arena, ids []ast.DeclID, name string) *ast.VarDecl {
	t.Helper()
	for _, id := range ids {
		if v := ast.As[*ast.VarDecl](a, id); v != nil && v.Name == name {
			return v
		}
	}
	t.Fatalf("var %s not found", name)
	return nil
}

func members(t *testing.T, a *ast.Arena, id ast.DeclID) []ast.DeclID {
	t.Helper()
	nom, ok := a.Decl(id).(ast.NominalDecl)
	if !ok {
		t.Fatalf("expected nominal decl, got %s", a.Decl(id).Kind())
	}
	return nom.Nominal().Members
}

// ============================================================================
// 合法声明
// ============================================================================

func TestParseValidDeclarations(t *testing.T) {
	tests := []struct {
		input string
		kinds []ast.DeclKind
	}{
		{`import Foundation`, []ast.DeclKind{ast.KindImport}},
		{`import struct Swift.Int`, []ast.DeclKind{ast.KindImport}},
		{`@exported import Foundation`, []ast.DeclKind{ast.KindImport}},
		{"extension Int : Printable {\n  func describe() -> String { return \"int\" }\n}", []ast.DeclKind{ast.KindExtension}},
		{`typealias Index = Int`, []ast.DeclKind{ast.KindTypeAlias}},
		{`enum Color { case Red, Green, Blue }`, []ast.DeclKind{ast.KindEnum}},
		{`enum E { case A = 1, B = 2 }`, []ast.DeclKind{ast.KindEnum}},
		{`struct Point<T: Numeric> { var x: T; var y: T }`, []ast.DeclKind{ast.KindStruct}},
		{"class Node {\n  var next: Node\n  init() {}\n  destructor() {}\n}", []ast.DeclKind{ast.KindClass}},
		{"protocol Shape : Printable {\n  typealias Unit\n  func area() -> Double\n}", []ast.DeclKind{ast.KindProtocol}},
		{`func add(a: Int, b: Int) -> Int { return a + b }`, []ast.DeclKind{ast.KindFunc}},
		{`func curried(a: Int)(b: Int) -> Int { return a }`, []ast.DeclKind{ast.KindFunc}},
		{`func ==<T>(a: T, b: T) -> Bool { return true }`, []ast.DeclKind{ast.KindFunc}},
		{`struct Buffer { subscript(i: Int) -> Int { get { return i } set { } } }`, []ast.DeclKind{ast.KindStruct}},
		{`struct S { static func make() -> S { return S() } }`, []ast.DeclKind{ast.KindStruct}},
		{`var count = 0`, []ast.DeclKind{ast.KindPatternBinding, ast.KindVar}},
		{`var a, b: Int`, []ast.DeclKind{ast.KindPatternBinding, ast.KindVar, ast.KindPatternBinding, ast.KindVar}},
		{`var x: Int { get { return 1 } set(v) { } }`, []ast.DeclKind{ast.KindPatternBinding, ast.KindFunc, ast.KindFunc, ast.KindVar}},
		{`operator infix +++ { associativity left precedence 150 }`, []ast.DeclKind{ast.KindInfixOperator}},
		{`operator prefix ~~ {}`, []ast.DeclKind{ast.KindPrefixOperator}},
		{`operator postfix ++ {}`, []ast.DeclKind{ast.KindPostfixOperator}},
		{`@final class Base {}`, []ast.DeclKind{ast.KindClass}},
		{`@asmname="kestrel_print" func print(s: String)`, []ast.DeclKind{ast.KindFunc}},
	}

	for _, tt := range tests {
		p, file := parseLibrary(t, tt.input)
		checkNoDiagnostics(t, p)

		got := declKinds(file.Arena, file.Decls)
		if diff := cmp.Diff(tt.kinds, got); diff != "" {
			t.Errorf("%q: decl kinds mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestDeclarationSequenceFormCount(t *testing.T) {
	input := `
import Foundation
extension Int {
  func twice() -> Int { return self }
}
typealias Index = Int
enum Color { case Red, Green }
struct Point { var x: Int }
class Node {
  init() {}
  destructor() {}
  subscript(i: Int) -> Int { get { return i } }
}
protocol Shape { func area() -> Double }
func main() {}
var total: Int { get { return 0 } set { } }
operator infix <=> {}
`
	p, file := parseLibrary(t, input)
	checkNoDiagnostics(t, p)

	if n := declForms(file.Arena, file.Decls); n != 10 {
		t.Errorf("expected 10 top-level forms, got %d: %v", n, declKinds(file.Arena, file.Decls))
	}
	if file.HasTopLevelCode {
		t.Error("library file must not have top-level code")
	}
}

func TestDeclRangeReparse(t *testing.T) {
	input := `import Foundation
@final class Node<T> : Base {
  var value: T
  init(value: T) { }
}
enum E { case A = 1, B = 2 }
operator infix +++ { associativity left precedence 150 }
func ==<T>(a: T, b: T) -> Bool { return true }
extension Node { func describe() -> String { return "node" } }
typealias Alias = Node<Int>
protocol P { func f() }
`
	p, file := parseLibrary(t, input)
	checkNoDiagnostics(t, p)

	for _, id := range file.Decls {
		d := file.Arena.Decl(id)
		r := d.Base().Range

		// Range 的终点是最后一个 Token 的起点
		l := lexer.New(input, "test.kes")
		l.Restore(stateAt(r.End))
		end := l.Next().EndPos().Offset
		text := input[r.Start.Offset:end]

		p2, file2 := parseLibrary(t, text)
		checkNoDiagnostics(t, p2)
		if len(file2.Decls) != 1 {
			t.Errorf("%q: expected 1 decl on reparse, got %d", text, len(file2.Decls))
			continue
		}

		want := ast.DumpDecl(file.Arena, id)
		got := ast.DumpDecl(file2.Arena, file2.Decls[0])
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%q: reparse mismatch (-want +got):\n%s", text, diff)
		}
	}
}

// ============================================================================
// 属性
// ============================================================================

func TestParseDeclAttributes(t *testing.T) {
	tests := []struct {
		input string
		diags []diag.ID
		want  []ast.DeclAttrKind
	}{
		{`@weak var x: Int`, nil, []ast.DeclAttrKind{ast.AttrWeak}},
		{`@weak @weak var x: Int`, []diag.ID{diag.DuplicateAttribute}, []ast.DeclAttrKind{ast.AttrWeak}},
		{`@weak @unowned var x: Int`, []diag.ID{diag.DuplicateAttribute}, []ast.DeclAttrKind{ast.AttrWeak}},
		{`@unowned @weak var x: Int`, []diag.ID{diag.DuplicateAttribute}, []ast.DeclAttrKind{ast.AttrUnowned}},
		{`@final, @transparent var x: Int`, nil, []ast.DeclAttrKind{ast.AttrFinal, ast.AttrTransparent}},
		{`@resilient @fragile var x: Int`, []diag.ID{diag.DuplicateAttribute}, []ast.DeclAttrKind{ast.AttrResilient}},
		{`@prefix @postfix var x: Int`, []diag.ID{diag.CannotCombineAttribute}, []ast.DeclAttrKind{ast.AttrPrefix}},
		{`@inout var x: Int`, []diag.ID{diag.TypeAttributeAppliedToDecl}, nil},
		{`@foo @weak var x: Int`, []diag.ID{diag.UnknownAttribute}, []ast.DeclAttrKind{ast.AttrWeak}},
		{`@foo="bar", @final var x: Int`, []diag.ID{diag.UnknownAttribute}, []ast.DeclAttrKind{ast.AttrFinal}},
	}

	for _, tt := range tests {
		p, file := parseLibrary(t, tt.input)

		got := p.Diagnostics().IDs()
		if diff := cmp.Diff(tt.diags, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%q: diagnostics mismatch (-want +got):\n%s", tt.input, diff)
		}

		v := findVar(t, file.Arena, file.Decls, "x")
		if diff := cmp.Diff(tt.want, v.Attrs.Kinds()); diff != "" {
			t.Errorf("%q: attributes mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestUnknownAttributeSuggestion(t *testing.T) {
	p, file := parseLibrary(t, `@fnial func f() {}`)

	ds := p.Diagnostics().Filter(diag.UnknownAttribute)
	if len(ds) != 1 {
		t.Fatalf("expected 1 unknown attribute diagnostic, got %v", p.Diagnostics().IDs())
	}
	if hint := strings.Join(ds[0].Hints, " "); !strings.Contains(hint, "final") {
		t.Errorf("expected hint to mention final, got %q", hint)
	}
	if len(file.Decls) != 1 || file.Arena.Decl(file.Decls[0]).Kind() != ast.KindFunc {
		t.Errorf("expected the func to survive, got %v", declKinds(file.Arena, file.Decls))
	}
}

func TestUnknownTypeAttributeContinues(t *testing.T) {
	p, file := parseLibrary(t, `var x: @foo @inout Int`)
	if diff := cmp.Diff([]diag.ID{diag.UnknownAttribute}, p.Diagnostics().IDs()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	pb := ast.As[*ast.PatternBindingDecl](file.Arena, file.Decls[0])
	typed, ok := pb.Pattern.(*ast.TypedPattern)
	if !ok {
		t.Fatalf("expected a typed pattern, got %v", pb.Pattern)
	}
	attributed, ok := typed.Type.(*ast.AttributedTypeRepr)
	if !ok || !attributed.Attrs.Has(ast.TypeAttrInOut) {
		t.Errorf("expected @inout to be kept after the unknown attribute, got %v", typed.Type)
	}
}

func TestAsmNameAttribute(t *testing.T) {
	tests := []struct {
		input string
		diag  diag.ID
		name  string
	}{
		{`@asmname="print_int" func f()`, "", "print_int"},
		{`@asmname func f() {}`, diag.AsmnameExpectedEquals, ""},
		{`@asmname=1 func f() {}`, diag.AsmnameExpectedString, ""},
	}

	for _, tt := range tests {
		p, file := parseLibrary(t, tt.input)
		if tt.diag != "" {
			checkHasDiagnostics(t, p, tt.diag)
		} else {
			checkNoDiagnostics(t, p)
		}
		if len(file.Decls) == 0 {
			t.Errorf("%q: no decls", tt.input)
			continue
		}
		fd := ast.As[*ast.FuncDecl](file.Arena, file.Decls[0])
		if fd == nil {
			t.Errorf("%q: expected func", tt.input)
			continue
		}
		if fd.Attrs.AsmName != tt.name {
			t.Errorf("%q: expected asmname %q, got %q", tt.input, tt.name, fd.Attrs.AsmName)
		}
	}
}

// ============================================================================
// 运算符声明
// ============================================================================

func TestParseInfixOperator(t *testing.T) {
	tests := []struct {
		input string
		assoc ast.Associativity
		prec  uint8
		diag  diag.ID
	}{
		{`operator infix +++ {}`, ast.AssocNone, 100, ""},
		{`operator infix +++ { associativity left precedence 150 }`, ast.AssocLeft, 150, ""},
		{`operator infix +++ { precedence 20 associativity right }`, ast.AssocRight, 20, ""},
		{`operator infix +++ { associativity none }`, ast.AssocNone, 100, ""},
		{`operator infix +++ { precedence 0x10 }`, ast.AssocNone, 16, ""},
		{`operator infix +++ { precedence 999 }`, ast.AssocNone, 255, diag.InvalidInfixPrecedence},
	}

	for _, tt := range tests {
		p, file := parseLibrary(t, tt.input)
		if tt.diag != "" {
			checkHasDiagnostics(t, p, tt.diag)
		} else {
			checkNoDiagnostics(t, p)
		}

		if len(file.Decls) != 1 {
			t.Fatalf("%q: expected 1 decl, got %d", tt.input, len(file.Decls))
		}
		op := ast.As[*ast.InfixOperatorDecl](file.Arena, file.Decls[0])
		if op == nil {
			t.Fatalf("%q: expected infix operator", tt.input)
		}
		if op.Name != "+++" {
			t.Errorf("%q: expected name +++, got %s", tt.input, op.Name)
		}
		if op.Associativity != tt.assoc {
			t.Errorf("%q: expected associativity %s, got %s", tt.input, tt.assoc, op.Associativity)
		}
		if op.Precedence != tt.prec {
			t.Errorf("%q: expected precedence %d, got %d", tt.input, tt.prec, op.Precedence)
		}
	}
}

func TestOperatorDeclErrors(t *testing.T) {
	tests := []struct {
		input  string
		diag   diag.ID
		nDecls int
	}{
		{`operator infix +++ { associativity up }`, diag.UnknownInfixAssociativity, 0},
		{`operator infix +++ { associativity }`, diag.ExpectedInfixAssociativity, 0},
		{`operator infix +++ { precedence high }`, diag.ExpectedInfixPrecedence, 0},
		{`operator infix +++ { associativity left associativity right }`, diag.OperatorAssociativityRedecl, 0},
		{`operator infix +++ { precedence 1 precedence 2 }`, diag.OperatorPrecedenceRedecl, 0},
		{`operator infix +++ { fixity left }`, diag.UnknownOperatorAttribute, 0},
		{`operator infix +++ { 12 }`, diag.ExpectedOperatorAttribute, 0},
		{`operator prefix ~~ { precedence 1 }`, diag.UnknownOperatorAttribute, 0},
		{`operator infix foo {}`, diag.ExpectedOperatorName, 0},
		{`operator infix +++`, diag.ExpectedLBraceAfterOperator, 0},
		{`operator postfix ! {}`, diag.CustomOperatorPostfixExclaim, 1},
		{`@final operator prefix ~~ {}`, diag.OperatorAttributes, 1},
		{`struct S { operator infix +++ {} }`, diag.OperatorDeclInnerScope, 1},
	}

	for _, tt := range tests {
		p, file := parseLibrary(t, tt.input)
		checkHasDiagnostics(t, p, tt.diag)
		if len(file.Decls) != tt.nDecls {
			t.Errorf("%q: expected %d decls, got %v", tt.input, tt.nDecls, declKinds(file.Arena, file.Decls))
		}
	}

	// 内层作用域的运算符声明被丢弃
	_, file := parseLibrary(t, `struct S { operator infix +++ {} }`)
	if ms := members(t, file.Arena, file.Decls[0]); len(ms) != 0 {
		t.Errorf("expected no members, got %v", declKinds(file.Arena, ms))
	}
}

// ============================================================================
// 枚举
// ============================================================================

func TestParseEnumCaseRawValues(t *testing.T) {
	p, file := parseLibrary(t, `enum E { case A = 1, B = 2 }`)
	checkNoDiagnostics(t, p)

	ms := members(t, file.Arena, file.Decls[0])
	want := []ast.DeclKind{ast.KindEnumCase, ast.KindEnumElement, ast.KindEnumElement}
	if diff := cmp.Diff(want, declKinds(file.Arena, ms)); diff != "" {
		t.Fatalf("member kinds mismatch (-want +got):\n%s", diff)
	}

	group := ast.As[*ast.EnumCaseDecl](file.Arena, ms[0])
	if len(group.Elements) != 2 {
		t.Fatalf("expected 2 elements in case group, got %d", len(group.Elements))
	}
	for i, wantRaw := range []string{"1", "2"} {
		elt := ast.As[*ast.EnumElementDecl](file.Arena, group.Elements[i])
		if _, ok := elt.RawValue.(*ast.IntegerLiteralExpr); !ok {
			t.Errorf("element %s: expected integer literal raw value, got %T", elt.Name, elt.RawValue)
			continue
		}
		if elt.RawValue.String() != wantRaw {
			t.Errorf("element %s: expected raw value %s, got %s", elt.Name, wantRaw, elt.RawValue)
		}
	}
}

func TestEnumCaseErrors(t *testing.T) {
	tests := []struct {
		input string
		diag  diag.ID
	}{
		{`enum E { case A = x }`, diag.NonliteralEnumCaseRawValue},
		{`enum E { case A, case B }`, diag.ExpectedIdentAfterCaseComma},
		{`enum E { case A: }`, diag.CaseOutsideOfSwitch},
		{`struct S { case A }`, diag.DisallowedEnumElement},
		{`enum E { case A = }`, diag.ExpectedExprEnumCaseRawValue},
	}

	for _, tt := range tests {
		p, file := parseLibrary(t, tt.input)
		checkHasDiagnostics(t, p, tt.diag)
		if len(file.Decls) != 1 {
			t.Errorf("%q: expected the nominal decl to survive, got %v", tt.input, declKinds(file.Arena, file.Decls))
		}
	}
}

func TestEnumCaseWithArgumentType(t *testing.T) {
	p, file := parseLibrary(t, "enum Shape {\n  case Circle(Double), Rect(Double, Double)\n}")
	checkNoDiagnostics(t, p)

	ms := members(t, file.Arena, file.Decls[0])
	for _, id := range ms {
		elt := ast.As[*ast.EnumElementDecl](file.Arena, id)
		if elt == nil {
			continue
		}
		if elt.ArgType == nil {
			t.Errorf("element %s: expected argument type", elt.Name)
		}
	}
}

// ============================================================================
// 访问器
// ============================================================================

func setterParam(t *testing.T, a *ast.Arena, v *ast.VarDecl) *ast.NamedPattern {
	t.Helper()
	set := ast.As[*ast.FuncDecl](a, v.Setter)
	if set == nil {
		t.Fatalf("var %s has no setter", v.Name)
	}
	tuple, ok := set.Params[len(set.Params)-1].(*ast.TuplePattern)
	if !ok || len(tuple.Elements) != 1 {
		t.Fatalf("unexpected setter params: %v", set.Params)
	}
	typed, ok := tuple.Elements[0].Pattern.(*ast.TypedPattern)
	if !ok {
		t.Fatalf("expected typed value pattern, got %T", tuple.Elements[0].Pattern)
	}
	named, ok := typed.Sub.(*ast.NamedPattern)
	if !ok {
		t.Fatalf("expected named value pattern, got %T", typed.Sub)
	}
	return named
}

func TestParseGetSet(t *testing.T) {
	p, file := parseLibrary(t, "var x: Int { get { return 1 } set(v) { } }\nvar y: Int { get { return 1 } }")
	checkNoDiagnostics(t, p)
	a := file.Arena

	x := findVar(t, a, file.Decls, "x")
	if !x.IsComputed() || x.Setter == ast.NoDecl {
		t.Fatalf("expected settable computed var x")
	}

	get := ast.As[*ast.FuncDecl](a, x.Getter)
	if get.Accessor != ast.Getter || get.Storage != x.ID {
		t.Errorf("unexpected getter: accessor=%s storage=%d", get.Accessor, get.Storage)
	}
	if get.Body == nil || len(get.Body.Items) != 1 {
		t.Fatalf("expected getter body with one item")
	}
	ret, ok := get.Body.Items[0].Stmt.(*ast.ReturnStmt)
	if !ok || ret.Result == nil || ret.Result.String() != "1" {
		t.Errorf("expected getter to return 1, got %v", get.Body.Items[0].Stmt)
	}

	v := setterParam(t, a, x)
	if v.Name != "v" || v.Implicit {
		t.Errorf("expected explicit setter parameter v, got %s (implicit=%v)", v.Name, v.Implicit)
	}

	y := findVar(t, a, file.Decls, "y")
	if !y.IsComputed() {
		t.Fatal("expected computed var y")
	}
	if y.Setter != ast.NoDecl {
		t.Error("expected getter-only var y")
	}
}

func TestSetterDefaultValueName(t *testing.T) {
	p, file := parseLibrary(t, `var x: Int { get { return 1 } set { } }`)
	checkNoDiagnostics(t, p)

	x := findVar(t, file.Arena, file.Decls, "x")
	v := setterParam(t, file.Arena, x)
	if v.Name != "value" || !v.Implicit {
		t.Errorf("expected implicit value parameter, got %s (implicit=%v)", v.Name, v.Implicit)
	}
	if vd := ast.As[*ast.VarDecl](file.Arena, v.Var); vd == nil || !vd.Implicit {
		t.Error("expected implicit value var decl")
	}
}

func TestImplicitGetter(t *testing.T) {
	p, file := parseLibrary(t, "var x: Int {\n  var y = 1\n  return y\n}")
	checkNoDiagnostics(t, p)

	x := findVar(t, file.Arena, file.Decls, "x")
	if !x.IsComputed() {
		t.Fatal("expected computed var")
	}
	get := ast.As[*ast.FuncDecl](file.Arena, x.Getter)
	if get.BodyKind != ast.BodyParsed || len(get.Body.Items) != 3 {
		t.Errorf("expected parsed getter body with pattern binding, var and return, got %d items", len(get.Body.Items))
	}
}

func TestAccessorsInSourceOrder(t *testing.T) {
	p, file := parseLibrary(t, `var x: Int { set { } get { return 1 } }`)
	checkNoDiagnostics(t, p)

	a := file.Arena
	want := []ast.DeclKind{ast.KindPatternBinding, ast.KindFunc, ast.KindFunc, ast.KindVar}
	if diff := cmp.Diff(want, declKinds(a, file.Decls)); diff != "" {
		t.Fatalf("decl kinds mismatch (-want +got):\n%s", diff)
	}
	first := ast.As[*ast.FuncDecl](a, file.Decls[1])
	second := ast.As[*ast.FuncDecl](a, file.Decls[2])
	if first.Accessor != ast.Setter || second.Accessor != ast.Getter {
		t.Errorf("expected setter before getter, got %s, %s", first.Accessor, second.Accessor)
	}
}

func TestGetSetErrors(t *testing.T) {
	tests := []struct {
		input    string
		diags    []diag.ID
		computed bool
	}{
		{`var x: Int { get { return 1 } get { return 2 } }`, []diag.ID{diag.DuplicateGetSet, diag.PreviousGetSet}, true},
		{`var x: Int { get { return 1 } set { } set { } }`, []diag.ID{diag.DuplicateGetSet, diag.PreviousGetSet}, true},
		{`var x: Int { set { } }`, []diag.ID{diag.VarSetWithoutGet}, false},
		{`var x { get { return 1 } }`, []diag.ID{diag.GetSetMissingType}, true},
		{`var x: Int { get { return 1 } } = 1`, []diag.ID{diag.GetSetInit}, true},
		{`var x: Int { get return 1 }`, []diag.ID{diag.ExpectedLBraceGetSet}, false},
		{`var x: Int { get { return 1 } set(1) { } }`, []diag.ID{diag.ExpectedSetName}, true},
		{`var x: Int { get { return 1 } set(v { } }`, []diag.ID{diag.ExpectedRParenSetName}, true},
	}

	for _, tt := range tests {
		p, file := parseLibrary(t, tt.input)
		checkHasDiagnostics(t, p, tt.diags...)

		x := findVar(t, file.Arena, file.Decls, "x")
		if x.IsComputed() != tt.computed {
			t.Errorf("%q: expected computed=%v, got %v", tt.input, tt.computed, x.IsComputed())
		}
	}
}

func TestDuplicateGetterLastWins(t *testing.T) {
	_, file := parseLibrary(t, `var x: Int { get { return 1 } get { return 2 } }`)

	x := findVar(t, file.Arena, file.Decls, "x")
	get := ast.As[*ast.FuncDecl](file.Arena, x.Getter)
	ret := get.Body.Items[0].Stmt.(*ast.ReturnStmt)
	if ret.Result.String() != "2" {
		t.Errorf("expected the second getter to win, got return %s", ret.Result)
	}
}

func TestMultipleBindingsWithGetSet(t *testing.T) {
	p, _ := parseLibrary(t, `var a = 1, b: Int { get { return 1 } }`)
	checkHasDiagnostics(t, p, diag.DisallowedVarMultipleGetSet)

	p, _ = parseLibrary(t, `var a, b: Int { get { return 1 } }`)
	checkHasDiagnostics(t, p, diag.GetSetCannotBeImplied)
}

func TestTypePropagatesToEarlierBindings(t *testing.T) {
	p, file := parseLibrary(t, `var a, b, c: Int`)
	checkNoDiagnostics(t, p)

	for _, id := range file.Decls {
		pbd := ast.As[*ast.PatternBindingDecl](file.Arena, id)
		if pbd == nil {
			continue
		}
		if _, ok := pbd.Pattern.(*ast.TypedPattern); !ok {
			t.Errorf("expected typed pattern, got %s", pbd.Pattern)
		}
	}
}

// ============================================================================
// 函数、下标与构造器
// ============================================================================

func TestGenericOperatorSplit(t *testing.T) {
	p, file := parseLibrary(t, `func ==<T>(a: T, b: T) -> Bool { return true }`)
	checkNoDiagnostics(t, p)

	fd := ast.As[*ast.FuncDecl](file.Arena, file.Decls[0])
	if fd.Name != "==" {
		t.Errorf("expected operator name ==, got %q", fd.Name)
	}
	if !fd.IsOperator() {
		t.Error("expected operator func")
	}
	if fd.Generics == nil || len(fd.Generics.Params) != 1 {
		t.Fatalf("expected one generic parameter, got %v", fd.Generics)
	}
	param := ast.As[*ast.GenericTypeParamDecl](file.Arena, fd.Generics.Params[0])
	if param.Name != "T" {
		t.Errorf("expected generic parameter T, got %s", param.Name)
	}
	if param.Context != fd.BodyContext {
		t.Error("expected generic parameter to be reparented into the function")
	}
}

func TestMethodImplicitSelf(t *testing.T) {
	p, file := parseLibrary(t, "struct S {\n  func f(x: Int) {}\n  static func g() {}\n}\nfunc h() {}")
	checkNoDiagnostics(t, p)
	a := file.Arena

	ms := members(t, a, file.Decls[0])
	f := ast.As[*ast.FuncDecl](a, ms[0])
	if f.ImplicitSelf == ast.NoDecl || len(f.Params) != 2 {
		t.Errorf("expected self plus one parameter tuple, got %d params", len(f.Params))
	}
	g := ast.As[*ast.FuncDecl](a, ms[1])
	if !g.Static {
		t.Error("expected static method")
	}

	h := ast.As[*ast.FuncDecl](a, file.Decls[1])
	if h.ImplicitSelf != ast.NoDecl || len(h.Params) != 1 {
		t.Errorf("free function must not have self, got %d params", len(h.Params))
	}
}

func TestFunctionDeclErrors(t *testing.T) {
	tests := []struct {
		input string
		diag  diag.ID
	}{
		{`func f()`, diag.FuncDeclWithoutBrace},
		{`static func f() {}`, diag.StaticFuncDeclGlobalScope},
		{`func f {}`, diag.ExpectedLParen},
		{`protocol P { func f() {} }`, diag.DisallowedFuncDef},
		{`func outer() { func +(a: Int) {} }`, diag.FuncDeclNonglobalOperator},
		{`init() {}`, diag.InitializerDeclWrongScope},
		{`protocol P { init() }`, diag.InitializerDeclWrongScope},
		{`class C { init {} }`, diag.ExpectedLParen},
		{`class C { init() }`, diag.ExpectedLBrace},
		{`class C { destructor {} }`, diag.ExpectedLParenDestructor},
		{`class C { destructor(x: Int) {} }`, diag.DestructorParamNonemptyTuple},
		{`class C { destructor() }`, diag.ExpectedLBrace},
		{`struct S { destructor() {} }`, diag.DestructorDeclOutsideClass},
		{`subscript(i: Int) -> Int { get { return i } }`, diag.SubscriptDeclWrongScope},
		{`struct S { subscript i: Int -> Int {} }`, diag.ExpectedLParenSubscript},
		{`struct S { subscript(i: Int) Int {} }`, diag.ExpectedArrowSubscript},
		{`struct S { subscript(i: Int) -> {} }`, diag.ExpectedTypeSubscript},
		{`struct S { subscript(i: Int) -> Int { set { } } }`, diag.SubscriptWithoutGet},
		{`struct S { static subscript(i: Int) -> Int { get { return i } } }`, diag.SubscriptStatic},
	}

	for _, tt := range tests {
		p, _ := parseLibrary(t, tt.input)
		checkHasDiagnostics(t, p, tt.diag)
	}
}

func TestDestructorOutsideClassIsKept(t *testing.T) {
	_, file := parseLibrary(t, `struct S { destructor() {} }`)

	ms := members(t, file.Arena, file.Decls[0])
	if len(ms) != 1 {
		t.Fatalf("expected the destructor to be kept, got %d members", len(ms))
	}
	d := ast.As[*ast.DestructorDecl](file.Arena, ms[0])
	if d == nil || !d.Invalid {
		t.Error("expected an invalid destructor")
	}
}

func TestSubscriptAccessors(t *testing.T) {
	p, file := parseLibrary(t, `class C { subscript(i: Int, j: Int) -> Double { get { return 0 } set { } } }`)
	checkNoDiagnostics(t, p)
	a := file.Arena

	ms := members(t, a, file.Decls[0])
	want := []ast.DeclKind{ast.KindSubscript, ast.KindFunc, ast.KindFunc}
	if diff := cmp.Diff(want, declKinds(a, ms)); diff != "" {
		t.Fatalf("member kinds mismatch (-want +got):\n%s", diff)
	}

	sd := ast.As[*ast.SubscriptDecl](a, ms[0])
	get := ast.As[*ast.FuncDecl](a, sd.Getter)
	set := ast.As[*ast.FuncDecl](a, sd.Setter)
	if get.Storage != sd.ID || set.Storage != sd.ID {
		t.Error("expected accessors to point at the subscript")
	}

	// self、下标参数的副本、value 元组
	for _, fd := range []*ast.FuncDecl{get, set} {
		if len(fd.Params) != 3 {
			t.Fatalf("%s: expected 3 parameter lists, got %d", fd.Accessor, len(fd.Params))
		}
	}
	getIdx := ast.PatternVars(get.Params[1])
	setIdx := ast.PatternVars(set.Params[1])
	if len(getIdx) != 2 || len(setIdx) != 2 {
		t.Fatalf("expected two index vars per accessor, got %d and %d", len(getIdx), len(setIdx))
	}
	if getIdx[0] == setIdx[0] {
		t.Error("expected each accessor to own its index pattern")
	}
	if a.Decl(getIdx[0]).Base().Context != get.BodyContext {
		t.Error("expected cloned index vars to live in the accessor body")
	}
}

func TestStaticVarDiagnostics(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`struct S { static var x: Int }`, false},
		{`struct S<T> { static var x: Int }`, true},
		{`class C { static var x: Int }`, true},
		{`protocol P { static var x: Int }`, true},
	}

	for _, tt := range tests {
		p, _ := parseLibrary(t, tt.input)
		if got := p.Diagnostics().Has(diag.UnimplementedStaticVar); got != tt.want {
			t.Errorf("%q: expected unimplemented static var diagnostic=%v, got %v", tt.input, tt.want, got)
		}
	}
}

func TestStaticOnNonFunctionDecl(t *testing.T) {
	p, _ := parseLibrary(t, `struct S { static typealias T = Int }`)
	checkHasDiagnostics(t, p, diag.DeclNotStatic)

	d := p.Diagnostics().Filter(diag.DeclNotStatic)[0]
	if len(d.FixIts) != 1 || d.FixIts[0].Kind != diag.FixRemove {
		t.Errorf("expected a remove fix-it, got %v", d.FixIts)
	}
}

// ============================================================================
// 放置限制
// ============================================================================

func TestDeclPlacementErrors(t *testing.T) {
	tests := []struct {
		input string
		diag  diag.ID
	}{
		{`func f() { import Foundation }`, diag.DeclInnerScope},
		{`func f() { extension Int {} }`, diag.DeclInnerScope},
		{`func f() { protocol P {} }`, diag.DeclInnerScope},
		{`protocol P { struct S {} }`, diag.DisallowedType},
		{`protocol P { typealias T = Int }`, diag.AssociatedTypeDef},
		{`protocol P { var x: Int = 1 }`, diag.DisallowedInit},
		{`protocol P { var x: Int { get { return 1 } } }`, diag.DisallowedComputedVarDecl},
		{`enum E { var x: Int }`, diag.DisallowedStoredVarDecl},
		{`extension Int { var x: Int }`, diag.DisallowedStoredVarDecl},
		{`import struct Swift`, diag.DeclExpectedModuleName},
		{`@final import Foundation`, diag.ImportAttributes},
		{`@final typealias T = Int`, diag.TypeAliasAttributes},
		{`typealias T Int`, diag.ExpectedEqualInTypeAlias},
	}

	for _, tt := range tests {
		p, _ := parseLibrary(t, tt.input)
		checkHasDiagnostics(t, p, tt.diag)
	}
}

func TestStaticStoredVarAllowedInEnum(t *testing.T) {
	p, _ := parseLibrary(t, `enum E { static var count: Int }`)
	if p.Diagnostics().Has(diag.DisallowedStoredVarDecl) {
		t.Error("static stored var must be allowed in enum")
	}
}

// ============================================================================
// 错误恢复
// ============================================================================

func TestRecoverMissingColonInVar(t *testing.T) {
	p, file := parseLibrary(t, `struct S { var x Int }`)
	checkHasDiagnostics(t, p, diag.ExpectedColonInVar)

	if len(file.Decls) != 1 {
		t.Fatalf("expected struct S to survive, got %v", declKinds(file.Arena, file.Decls))
	}
	s := ast.As[*ast.StructDecl](file.Arena, file.Decls[0])
	if s == nil || s.Name != "S" {
		t.Fatal("expected struct S")
	}
	want := []ast.DeclKind{ast.KindPatternBinding, ast.KindVar}
	if diff := cmp.Diff(want, declKinds(file.Arena, s.Members)); diff != "" {
		t.Errorf("member kinds mismatch (-want +got):\n%s", diff)
	}

	fix := p.Diagnostics().Filter(diag.ExpectedColonInVar)[0].FixIts
	if len(fix) != 1 || fix[0].Text != ":" {
		t.Errorf("expected fix-it inserting ':', got %v", fix)
	}
}

func TestRecoverKeywordAsName(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.DeclKind
		name  string
	}{
		{`struct class {}`, ast.KindStruct, "class#"},
		{`class struct : Base {}`, ast.KindClass, "struct#"},
		{`enum var<T> {}`, ast.KindEnum, "var#"},
		{`protocol func {}`, ast.KindProtocol, "func#"},
		{`typealias import = Int`, ast.KindTypeAlias, "import#"},
		{`func enum() {}`, ast.KindFunc, "enum#"},
	}

	for _, tt := range tests {
		p, file := parseLibrary(t, tt.input)
		checkHasDiagnostics(t, p, diag.ExpectedIdentifierInDecl)

		if len(file.Decls) != 1 {
			t.Errorf("%q: expected 1 decl, got %v", tt.input, declKinds(file.Arena, file.Decls))
			continue
		}
		d, ok := file.Arena.Decl(file.Decls[0]).(ast.ValueDecl)
		if !ok || d.Kind() != tt.kind {
			t.Errorf("%q: expected %s", tt.input, tt.kind)
			continue
		}
		if d.Value().Name != tt.name {
			t.Errorf("%q: expected name %q, got %q", tt.input, tt.name, d.Value().Name)
		}
	}
}

func TestRecoverExtensionKeywordType(t *testing.T) {
	p, file := parseLibrary(t, "extension class {\n  func f() {}\n}")
	checkHasDiagnostics(t, p, diag.ExpectedType)

	if len(file.Decls) != 1 {
		t.Fatalf("expected the extension to survive, got %v", declKinds(file.Arena, file.Decls))
	}
	ext := ast.As[*ast.ExtensionDecl](file.Arena, file.Decls[0])
	if len(ext.Members) != 1 {
		t.Errorf("expected the member to be attached, got %d", len(ext.Members))
	}
}

func TestRecoveryNamesStayOutOfScope(t *testing.T) {
	p := New("", "test.kes", DefaultOptions())
	module := p.arena.NewContext(ast.ModuleContext, ast.NoContext)
	s := p.pushScope(ScopeTopLevel)
	defer p.popScope(s)

	p.addToScope(p.arena.NewVarDecl(module, "class#", token.NoPos, false))
	p.addToScope(p.arena.NewVarDecl(module, "count", token.NoPos, false))

	if _, ok := s.Lookup("class#"); ok {
		t.Error("recovery name must not be registered")
	}
	if _, ok := s.Lookup("class"); ok {
		t.Error("keyword must not be registered")
	}
	if _, ok := s.Lookup("count"); !ok {
		t.Error("expected count to be registered")
	}
	if displayName("class#") != "class" {
		t.Errorf("unexpected display name %q", displayName("class#"))
	}
}

func TestRecoverUnknownTopLevelToken(t *testing.T) {
	p, file := parseLibrary(t, "struct A {}\n123\nstruct B {}")
	checkHasDiagnostics(t, p, diag.ExpectedDecl)

	want := []ast.DeclKind{ast.KindStruct, ast.KindStruct}
	if diff := cmp.Diff(want, declKinds(file.Arena, file.Decls)); diff != "" {
		t.Errorf("decl kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestRecoverExtraRBrace(t *testing.T) {
	p, file := parseLibrary(t, "struct A {}\n}\nstruct B {}")
	checkHasDiagnostics(t, p, diag.ExtraRBrace)

	if len(file.Decls) != 2 {
		t.Errorf("expected both structs, got %v", declKinds(file.Arena, file.Decls))
	}
}

func TestMemberErrorDoesNotAffectSiblings(t *testing.T) {
	input := `struct S {
  var a: Int
  garbage garbage
  func f() {}
  var b = ;
  func g() {}
}
struct T {}`
	p, file := parseLibrary(t, input)
	checkHasDiagnostics(t, p, diag.ExpectedDecl, diag.ExpectedInitValue)

	if len(file.Decls) != 2 {
		t.Fatalf("expected both structs, got %v", declKinds(file.Arena, file.Decls))
	}
	var names []string
	for _, id := range members(t, file.Arena, file.Decls[0]) {
		if fd := ast.As[*ast.FuncDecl](file.Arena, id); fd != nil {
			names = append(names, fd.Name)
		}
	}
	if diff := cmp.Diff([]string{"f", "g"}, names); diff != "" {
		t.Errorf("member funcs mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingBraceKeepsNominal(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.DeclKind
	}{
		{`struct S`, ast.KindStruct},
		{`class C : Base`, ast.KindClass},
		{`protocol P`, ast.KindProtocol},
		{`extension Int`, ast.KindExtension},
	}

	for _, tt := range tests {
		p, file := parseLibrary(t, tt.input)
		checkHasDiagnostics(t, p, diag.ExpectedLBrace)
		if diff := cmp.Diff([]ast.DeclKind{tt.kind}, declKinds(file.Arena, file.Decls)); diff != "" {
			t.Errorf("%q: decl kinds mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestMissingClosingBrace(t *testing.T) {
	p, file := parseLibrary(t, "struct S {\n  var x: Int\n")
	checkHasDiagnostics(t, p, diag.ExpectedRBrace, diag.OpeningBraceNote)

	if ms := members(t, file.Arena, file.Decls[0]); len(ms) != 2 {
		t.Errorf("expected members to be kept, got %v", declKinds(file.Arena, ms))
	}
}

func TestSameLineWithoutSemicolon(t *testing.T) {
	p, _ := parseLibrary(t, `struct S { var a: Int var b: Int }`)
	checkHasDiagnostics(t, p, diag.SameLineWithoutSemi)
	if p.HasErrors() {
		t.Errorf("missing semicolon between members is only a warning, got %v", p.Diagnostics().IDs())
	}

	p, _ = parseLibrary(t, `struct S { var a: Int; var b: Int }`)
	checkNoDiagnostics(t, p)
}

func TestTrailingSemicolonRecorded(t *testing.T) {
	p, file := parseLibrary(t, `typealias T = Int;`)
	checkNoDiagnostics(t, p)

	if !file.Arena.Decl(file.Decls[0]).Base().HasTrailingSemi() {
		t.Error("expected trailing semicolon on typealias")
	}
}

func TestMaxErrors(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxErrors = 2
	p, _ := parseWith(t, "struct A\nstruct B\nstruct C\nstruct D\n", opts)

	if got := len(p.Errors()); got != 2 {
		t.Errorf("expected 2 stored errors, got %d", got)
	}
	if p.Diagnostics().Dropped() == 0 {
		t.Error("expected dropped errors")
	}
}

// ============================================================================
// 脚本模式
// ============================================================================

func TestScriptModeTopLevelCode(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = ScriptMode
	p, file := parseWith(t, "var x = 1\nx + 1\nfunc f() {}\n", opts)
	checkNoDiagnostics(t, p)

	want := []ast.DeclKind{ast.KindTopLevelCode, ast.KindVar, ast.KindTopLevelCode, ast.KindFunc}
	if diff := cmp.Diff(want, declKinds(file.Arena, file.Decls)); diff != "" {
		t.Fatalf("decl kinds mismatch (-want +got):\n%s", diff)
	}
	if !file.HasTopLevelCode {
		t.Error("expected HasTopLevelCode")
	}

	a := file.Arena
	wrapper := ast.As[*ast.TopLevelCodeDecl](a, file.Decls[0])
	if wrapper.Body == nil || len(wrapper.Body.Items) != 1 {
		t.Fatal("expected the binding to be wrapped")
	}
	pbd := ast.As[*ast.PatternBindingDecl](a, wrapper.Body.Items[0].Decl)
	if pbd == nil {
		t.Fatal("expected a pattern binding inside top-level code")
	}
	if pbd.Context != wrapper.CodeContext {
		t.Error("expected the binding to be reparented into the top-level code context")
	}

	x := findVar(t, a, file.Decls, "x")
	if x.Binding != pbd.ID {
		t.Error("expected var to point at its binding")
	}
}

func TestLibraryModeRejectsStatements(t *testing.T) {
	p, file := parseLibrary(t, "x + 1\nfunc f() {}")
	checkHasDiagnostics(t, p, diag.ExpectedDecl)

	if diff := cmp.Diff([]ast.DeclKind{ast.KindFunc}, declKinds(file.Arena, file.Decls)); diff != "" {
		t.Errorf("decl kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalDiscriminators(t *testing.T) {
	input := `func f() {
  var x = 1
  if true {
    var x = 2
  }
}`
	p, file := parseLibrary(t, input)
	checkNoDiagnostics(t, p)

	var discriminators []int
	file.Arena.Each(func(d ast.Decl) {
		if v, ok := d.(*ast.VarDecl); ok && v.Name == "x" {
			discriminators = append(discriminators, v.LocalDiscriminator)
		}
	})
	if diff := cmp.Diff([]int{0, 1}, discriminators); diff != "" {
		t.Errorf("discriminators mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// 上下文
// ============================================================================

func TestDeclContexts(t *testing.T) {
	p, file := parseLibrary(t, "class C {\n  func f() {}\n}")
	checkNoDiagnostics(t, p)
	a := file.Arena

	c := ast.As[*ast.ClassDecl](a, file.Decls[0])
	if c.Context != file.Context {
		t.Error("expected class to live in the module context")
	}
	if a.Owner(c.MemberContext) != ast.Decl(c) {
		t.Error("expected class to own its member context")
	}

	f := ast.As[*ast.FuncDecl](a, c.Members[0])
	if f.Context != c.MemberContext {
		t.Error("expected method to live in the class member context")
	}
	if ctx := a.Context(f.BodyContext); ctx.Parent != c.MemberContext || ctx.Kind != ast.FunctionContext {
		t.Errorf("unexpected body context: %+v", ctx)
	}
	self := a.Decl(f.ImplicitSelf)
	if self == nil || !self.Base().Implicit || self.Base().Context != f.BodyContext {
		t.Error("expected implicit self in the method body context")
	}
}

// ============================================================================
// 字符串插值
// ============================================================================

func TestInterpolationWithNestedString(t *testing.T) {
	p, file := parseLibrary(t, `var s = "\(")")"`)
	checkNoDiagnostics(t, p)

	var pb *ast.PatternBindingDecl
	for _, id := range file.Decls {
		if d := ast.As[*ast.PatternBindingDecl](file.Arena, id); d != nil {
			pb = d
		}
	}
	if pb == nil {
		t.Fatal("pattern binding not found")
	}
	lit, ok := pb.Init.(*ast.InterpolatedStringLiteralExpr)
	if !ok || len(lit.Segments) != 1 {
		t.Fatalf("expected one interpolated segment, got %v", pb.Init)
	}
	if s, ok := lit.Segments[0].(*ast.StringLiteralExpr); !ok || s.Value != ")" {
		t.Errorf("expected the nested string \")\", got %v", lit.Segments[0])
	}
}

// ============================================================================
// 嵌套深度
// ============================================================================

func TestDeepNestingIsRejected(t *testing.T) {
	const n = 1000
	tests := []struct {
		name  string
		input string
	}{
		{"type", "var x: " + strings.Repeat("(", n) + "Int" + strings.Repeat(")", n)},
		{"function type", "var x: " + strings.Repeat("Int -> ", n) + "Int"},
		{"pattern", "var " + strings.Repeat("(", n) + "x" + strings.Repeat(")", n) + ": Int"},
		{"expression", "var x = " + strings.Repeat("(", n) + "1" + strings.Repeat(")", n)},
		{"block", "func f() " + strings.Repeat("{", n) + strings.Repeat("}", n)},
		{"members", strings.Repeat("struct S {", n) + strings.Repeat("}", n)},
	}

	for _, tt := range tests {
		p, _ := parseLibrary(t, tt.input)
		if !p.Diagnostics().Has(diag.NestingTooDeep) {
			t.Errorf("%s: expected %s, got %v", tt.name, diag.NestingTooDeep, p.Diagnostics().IDs())
		}
	}
}

func TestNestingBelowLimit(t *testing.T) {
	const n = 50
	p, _ := parseLibrary(t, "var x: "+strings.Repeat("(", n)+"Int"+strings.Repeat(")", n))
	checkNoDiagnostics(t, p)

	p, _ = parseLibrary(t, "func f() "+strings.Repeat("{", n)+strings.Repeat("}", n))
	checkNoDiagnostics(t, p)
}
