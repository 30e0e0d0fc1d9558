package lexer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tangzhangming/kestrel/internal/token"
)

func scanTypes(src string) []token.TokenType {
	var types []token.TokenType
	for _, tok := range New(src, "test.kes").ScanTokens() {
		types = append(types, tok.Type)
	}
	return types
}

func scanLiterals(src string) []string {
	var lits []string
	for _, tok := range New(src, "test.kes").ScanTokens() {
		if tok.Type != token.EOF {
			lits = append(lits, tok.Literal)
		}
	}
	return lits
}

func TestLexerPunctuation(t *testing.T) {
	input := `( ) { } [ ] , ; : @ = -> .`

	expected := []token.TokenType{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET,
		token.COMMA, token.SEMICOLON, token.COLON, token.AT,
		token.EQUAL, token.ARROW, token.PERIOD,
		token.EOF,
	}

	if diff := cmp.Diff(expected, scanTypes(input)); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"+ == ?? !", []string{"+", "==", "??", "!"}},
		{"..< ...", []string{"..<", "..."}},
		{"x=-1", []string{"x", "=-", "1"}},
		{"a+/*c*/b", []string{"a", "+", "b"}},
		{"a+//c\nb", []string{"a", "+", "b"}},
		{"==>", []string{"==>"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, scanLiterals(tt.input)); diff != "" {
			t.Errorf("%q: literals mismatch (-want +got):\n%s", tt.input, diff)
		}
	}

	// 只有单独的 = 与 -> 是标点
	types := scanTypes("== => -> =")
	want := []token.TokenType{token.OPERATOR, token.OPERATOR, token.ARROW, token.EQUAL, token.EOF}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerKeywords(t *testing.T) {
	input := `import extension typealias enum struct class protocol func init destructor subscript var static case
	where return if else while for in true false nil self`

	expected := []token.TokenType{
		token.IMPORT, token.EXTENSION, token.TYPEALIAS, token.ENUM, token.STRUCT,
		token.CLASS, token.PROTOCOL, token.FUNC, token.INIT, token.DESTRUCTOR,
		token.SUBSCRIPT, token.VAR, token.STATIC, token.CASE,
		token.WHERE, token.RETURN, token.IF, token.ELSE, token.WHILE, token.FOR, token.IN,
		token.TRUE, token.FALSE, token.NIL, token.SELF,
		token.EOF,
	}

	tokens := New(input, "test.kes").ScanTokens()
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
		if tok.Type != token.EOF && !tok.IsKeyword() {
			t.Errorf("token[%d] %q should be a keyword", i, tok.Literal)
		}
	}
}

func TestLexerContextualKeywords(t *testing.T) {
	input := `get set operator infix prefix postfix mutating associativity precedence`

	for _, tok := range New(input, "test.kes").ScanTokens() {
		if tok.Type == token.EOF {
			break
		}
		if tok.Type != token.IDENT {
			t.Errorf("%q: expected IDENT, got %s", tok.Literal, tok.Type)
		}
		if !tok.IsContextual(tok.Literal) {
			t.Errorf("%q: expected contextual keyword match", tok.Literal)
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	input := `_a b2 名字 Int`

	tokens := New(input, "test.kes").ScanTokens()
	want := []string{"_a", "b2", "名字", "Int"}
	if len(tokens) != len(want)+1 {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(want)+1)
	}
	for i, lit := range want {
		if tokens[i].Type != token.IDENT || tokens[i].Literal != lit {
			t.Errorf("token[%d]: got %s %q, want IDENT %q", i, tokens[i].Type, tokens[i].Literal, lit)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input   string
		tokType token.TokenType
		literal string
	}{
		{"42", token.INT, "42"},
		{"0x1F", token.INT, "0x1F"},
		{"1_000", token.INT, "1_000"},
		{"3.14", token.FLOAT, "3.14"},
		{"1e10", token.FLOAT, "1e10"},
		{"2.5E-3", token.FLOAT, "2.5E-3"},
	}

	for _, tt := range tests {
		tok := New(tt.input, "test.kes").Next()
		if tok.Type != tt.tokType {
			t.Errorf("%q: type mismatch: got %s, want %s", tt.input, tok.Type, tt.tokType)
		}
		if tok.Literal != tt.literal {
			t.Errorf("%q: literal mismatch: got %q, want %q", tt.input, tok.Literal, tt.literal)
		}
	}

	// 小数点后不是数字时是成员访问；指数后没有数字时 e 属于下一个标识符
	types := scanTypes("1.foo 7e")
	want := []token.TokenType{token.INT, token.PERIOD, token.IDENT, token.INT, token.IDENT, token.EOF}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{`"hello"`, `"hello"`},
		{`""`, `""`},
		{`"a\"b"`, `"a\"b"`},
		{`"x \(y) z"`, `"x \(y) z"`},
		{`"x \("y" + f(1)) z"`, `"x \("y" + f(1)) z"`},
	}

	for _, tt := range tests {
		l := New(tt.input+" w", "test.kes")
		tok := l.Next()
		if tok.Type != token.STRING {
			t.Errorf("%s: expected STRING, got %s", tt.input, tok.Type)
			continue
		}
		if tok.Literal != tt.literal {
			t.Errorf("%s: literal mismatch: got %q, want %q", tt.input, tok.Literal, tt.literal)
		}
		if next := l.Next(); !next.IsContextual("w") {
			t.Errorf("%s: expected trailing identifier, got %s", tt.input, next)
		}
		if l.HasErrors() {
			t.Errorf("%s: unexpected errors: %v", tt.input, l.Errors())
		}
	}
}

func TestLexerComments(t *testing.T) {
	input := `a // line
	/* block /* nested */ still comment */ b
	/** doc */ c`

	if diff := cmp.Diff([]string{"a", "b", "c"}, scanLiterals(input)); diff != "" {
		t.Errorf("literals mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
		types []token.TokenType
	}{
		{"illegal char", "a # b", ErrUnexpectedChar,
			[]token.TokenType{token.IDENT, token.ILLEGAL, token.IDENT, token.EOF}},
		{"unterminated string at newline", "\"abc\nx", ErrUnterminatedString,
			[]token.TokenType{token.STRING, token.IDENT, token.EOF}},
		{"unterminated string at eof", `"abc`, ErrUnterminatedString,
			[]token.TokenType{token.STRING, token.EOF}},
		{"unterminated comment", "a /* /* */", ErrUnterminatedComment,
			[]token.TokenType{token.IDENT, token.EOF}},
		{"unterminated interpolation", `"a\(b`, ErrUnterminatedInterp,
			[]token.TokenType{token.STRING, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input, "test.kes")
			var types []token.TokenType
			for _, tok := range l.ScanTokens() {
				types = append(types, tok.Type)
			}
			if diff := cmp.Diff(tt.types, types); diff != "" {
				t.Errorf("token types mismatch (-want +got):\n%s", diff)
			}
			if !l.HasErrors() {
				t.Fatal("expected a lexer error")
			}
			errs := l.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
			}
			if errs[0].Kind != tt.kind {
				t.Errorf("error kind mismatch: got %d, want %d", errs[0].Kind, tt.kind)
			}
			if errs[0].Message == "" || !strings.HasPrefix(errs[0].Error(), "test.kes:1:") {
				t.Errorf("unexpected error text %q", errs[0].Error())
			}
		})
	}
}

func TestLexerErrorsDeduplicatedOnRescan(t *testing.T) {
	l := New("a # b", "test.kes")
	l.Next()
	saved := l.State()
	l.Next()
	l.Restore(saved)
	l.Next()

	if len(l.Errors()) != 1 {
		t.Errorf("expected 1 error after rescanning, got %d", len(l.Errors()))
	}
}

func TestLexerPositions(t *testing.T) {
	l := New("a\n  bc", "test.kes")
	l.Next()
	tok := l.Next()

	want := token.Position{Filename: "test.kes", Line: 2, Column: 3, Offset: 4}
	if diff := cmp.Diff(want, tok.Pos); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if end := tok.EndPos(); end.Column != 5 || end.Offset != 6 {
		t.Errorf("unexpected end position %v", end)
	}
}

func TestLexerAtLineStart(t *testing.T) {
	input := "a b\n  c /*\n */ d\ne"

	want := map[string]bool{"a": true, "b": false, "c": true, "d": true, "e": true}
	for _, tok := range New(input, "test.kes").ScanTokens() {
		if tok.Type == token.EOF {
			if tok.AtLineStart {
				t.Error("EOF on the same line as e should not be at line start")
			}
			break
		}
		if tok.AtLineStart != want[tok.Literal] {
			t.Errorf("%q: AtLineStart = %v, want %v", tok.Literal, tok.AtLineStart, want[tok.Literal])
		}
	}
}

func TestLexerStateRestore(t *testing.T) {
	l := New("func f() {}", "test.kes")
	l.Next()

	saved := l.State()
	first := l.Next()
	l.Next()
	l.Next()

	l.Restore(saved)
	again := l.Next()
	if diff := cmp.Diff(first, again); diff != "" {
		t.Errorf("token after restore differs (-first +again):\n%s", diff)
	}
}

func TestLexerRewind(t *testing.T) {
	l := New("==< x", "test.kes")
	tok := l.Next()
	if tok.Literal != "==<" {
		t.Fatalf("expected a single operator, got %q", tok.Literal)
	}

	l.Rewind(tok.Pos.Advance(2))
	next := l.Next()
	if next.Type != token.OPERATOR || next.Literal != "<" {
		t.Errorf("expected '<' after rewind, got %s", next)
	}
	if next.Pos.Column != 3 {
		t.Errorf("expected column 3, got %d", next.Pos.Column)
	}
}

func TestLexerSlice(t *testing.T) {
	src := "func f() { return 1 }\nstruct S {}"
	l := New(src, "test.kes")
	for tok := l.Next(); !tok.Is(token.LBRACE); tok = l.Next() {
	}

	end := strings.Index(src, "}")
	sub := l.Slice(l.State(), end)

	var types []token.TokenType
	var last token.Token
	for _, tok := range sub.ScanTokens() {
		types = append(types, tok.Type)
		last = tok
	}
	if diff := cmp.Diff([]token.TokenType{token.RETURN, token.INT, token.EOF}, types); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
	if last.Pos.Offset != end {
		t.Errorf("expected EOF at offset %d, got %d", end, last.Pos.Offset)
	}
	if sub.End() != end || sub.Source() != src || sub.Filename() != "test.kes" {
		t.Error("sub lexer must share the source and stop at the slice end")
	}

	// 原 Lexer 不受影响
	if tok := l.Next(); tok.Type != token.RETURN {
		t.Errorf("expected parent lexer to continue at return, got %s", tok)
	}
}

func TestLexerSliceSharesErrors(t *testing.T) {
	src := "{ # }"
	l := New(src, "test.kes")
	l.Next()
	sub := l.Slice(l.State(), len(src))
	sub.ScanTokens()

	if !l.HasErrors() {
		t.Error("errors found by the sub lexer must be reported on the parent")
	}
}

func TestLexerCodeCompletion(t *testing.T) {
	tests := []struct {
		input string
		at    int
		want  []token.TokenType
	}{
		{"var x: Int", 7,
			[]token.TokenType{token.VAR, token.IDENT, token.COLON, token.CODE_COMPLETE, token.IDENT, token.EOF}},
		{"var x", 5,
			[]token.TokenType{token.VAR, token.IDENT, token.CODE_COMPLETE, token.EOF}},
		{"var   x", 4,
			[]token.TokenType{token.VAR, token.CODE_COMPLETE, token.IDENT, token.EOF}},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.kes")
		l.SetCodeCompletionOffset(tt.at)
		var types []token.TokenType
		for _, tok := range l.ScanTokens() {
			types = append(types, tok.Type)
		}
		if diff := cmp.Diff(tt.want, types); diff != "" {
			t.Errorf("%q at %d: token types mismatch (-want +got):\n%s", tt.input, tt.at, diff)
		}
	}
}

func TestLexerSliceAfterCompletionPoint(t *testing.T) {
	src := "a b c"
	l := New(src, "test.kes")
	l.SetCodeCompletionOffset(0)
	l.Next()
	l.Next()

	// 从补全位置之后开始的子 Lexer 不再产生补全 Token
	sub := l.Slice(l.State(), len(src))
	if tok := sub.Next(); tok.Type != token.IDENT {
		t.Errorf("expected IDENT, got %s", tok.Type)
	}
}

func TestSegments(t *testing.T) {
	type seg struct {
		Kind SegmentKind
		Text string
	}
	tests := []struct {
		input string
		want  []seg
	}{
		{`""`, []seg{{SegmentLiteral, ""}}},
		{`"plain"`, []seg{{SegmentLiteral, "plain"}}},
		{`"\t\"q\\"`, []seg{{SegmentLiteral, "\t\"q\\"}}},
		{`"a\n\(x)b"`, []seg{{SegmentLiteral, "a\n"}, {SegmentExpr, "x"}, {SegmentLiteral, "b"}}},
		{`"\(f(1))"`, []seg{{SegmentExpr, "f(1)"}}},
		{`"\(")")"`, []seg{{SegmentExpr, `")"`}}},
		{`"\(g("(", "\")"))!"`, []seg{{SegmentExpr, `g("(", "\")")`}, {SegmentLiteral, "!"}}},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.kes")
		tok := l.Next()
		if l.HasErrors() {
			t.Errorf("%s: unexpected lexer errors: %v", tt.input, l.Errors())
		}
		if tok.Literal != tt.input {
			t.Errorf("%s: token literal = %s", tt.input, tok.Literal)
		}
		var got []seg
		for _, s := range Segments(tok) {
			got = append(got, seg{s.Kind, s.Text})
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: segments mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestSegmentPositions(t *testing.T) {
	tok := New(`"a\n\(x)b"`, "test.kes").Next()
	segs := Segments(tok)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if segs[0].Pos.Column != 2 || segs[1].Pos.Column != 7 || segs[2].Pos.Column != 9 {
		t.Errorf("unexpected segment columns: %d %d %d", segs[0].Pos.Column, segs[1].Pos.Column, segs[2].Pos.Column)
	}
}

func TestIsSimpleString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`"abc"`, true},
		{`""`, true},
		{`"a\nb"`, true},
		{`"\(x)"`, false},
		{`"a\(x)b"`, false},
		{`abc`, false},
	}

	for _, tt := range tests {
		tok := New(tt.input, "test.kes").Next()
		if got := IsSimpleString(tok); got != tt.want {
			t.Errorf("IsSimpleString(%s) = %v, want %v", tt.input, got, tt.want)
		}
	}
	if Segments(token.Token{Type: token.IDENT, Literal: "x"}) != nil {
		t.Error("expected nil segments for a non-string token")
	}
}
