package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF, CODE_COMPLETE）
// 2. 字面量（标识符、数字、字符串、运算符）
// 3. 分隔符（括号、逗号、分号等）
// 4. 关键字（声明、控制流、值）
//
// operator / prefix / get / set 等是上下文关键字，词法上仍为 IDENT，
// 由 Parser 通过 IsContextual 按文本比较。
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL       TokenType = iota // 非法字符
	EOF                            // 文件结束
	CODE_COMPLETE                  // 代码补全请求位置

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT    // 标识符
	INT      // 整数字面量
	FLOAT    // 浮点数字面量
	STRING   // 字符串字面量（可含 \(expr) 插值段）
	OPERATOR // 运算符（由运算符字符组成的最长序列）

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	AT        // @
	EQUAL     // =
	ARROW     // ->
	PERIOD    // .

	// ----------------------------------------------------------
	// 关键字
	// ----------------------------------------------------------
	keyword_beg

	// 声明关键字
	IMPORT
	EXTENSION
	TYPEALIAS
	ENUM
	STRUCT
	CLASS
	PROTOCOL
	FUNC
	INIT
	DESTRUCTOR
	SUBSCRIPT
	VAR
	STATIC
	CASE

	// 语句关键字
	WHERE
	RETURN
	IF
	ELSE
	WHILE
	FOR
	IN

	// 值关键字
	TRUE
	FALSE
	NIL
	SELF

	keyword_end
)

// tokenNames Token 类型名称映射（用于调试和错误信息）
var tokenNames = map[TokenType]string{
	ILLEGAL:       "ILLEGAL",
	EOF:           "EOF",
	CODE_COMPLETE: "CODE_COMPLETE",

	IDENT:    "IDENT",
	INT:      "INT",
	FLOAT:    "FLOAT",
	STRING:   "STRING",
	OPERATOR: "OPERATOR",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	AT:        "@",
	EQUAL:     "=",
	ARROW:     "->",
	PERIOD:    ".",

	IMPORT:     "import",
	EXTENSION:  "extension",
	TYPEALIAS:  "typealias",
	ENUM:       "enum",
	STRUCT:     "struct",
	CLASS:      "class",
	PROTOCOL:   "protocol",
	FUNC:       "func",
	INIT:       "init",
	DESTRUCTOR: "destructor",
	SUBSCRIPT:  "subscript",
	VAR:        "var",
	STATIC:     "static",
	CASE:       "case",
	WHERE:      "where",
	RETURN:     "return",
	IF:         "if",
	ELSE:       "else",
	WHILE:      "while",
	FOR:        "for",
	IN:         "in",
	TRUE:       "true",
	FALSE:      "false",
	NIL:        "nil",
	SELF:       "self",
}

// keywords 关键字映射表
var keywords = map[string]TokenType{
	"import":     IMPORT,
	"extension":  EXTENSION,
	"typealias":  TYPEALIAS,
	"enum":       ENUM,
	"struct":     STRUCT,
	"class":      CLASS,
	"protocol":   PROTOCOL,
	"func":       FUNC,
	"init":       INIT,
	"destructor": DESTRUCTOR,
	"subscript":  SUBSCRIPT,
	"var":        VAR,
	"static":     STATIC,
	"case":       CASE,
	"where":      WHERE,
	"return":     RETURN,
	"if":         IF,
	"else":       ELSE,
	"while":      WHILE,
	"for":        FOR,
	"in":         IN,
	"true":       TRUE,
	"false":      FALSE,
	"nil":        NIL,
	"self":       SELF,
}

// ============================================================================
// 关键字查找函数
// ============================================================================

// LookupIdent 查找标识符是否为关键字
//
// 短关键字（2-3 字符）用 switch 直接匹配，其余走 map。
func LookupIdent(ident string) TokenType {
	switch len(ident) {
	case 2:
		switch ident {
		case "if":
			return IF
		case "in":
			return IN
		}
	case 3:
		switch ident {
		case "var":
			return VAR
		case "for":
			return FOR
		case "nil":
			return NIL
		}
	}

	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// NoPos 无效位置
var NoPos = Position{}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before 判断 p 是否在 q 之前（同一缓冲区内按偏移比较）
func (p Position) Before(q Position) bool {
	return p.Offset < q.Offset
}

// Advance 返回同一行上向后移动 n 个字节的位置
func (p Position) Advance(n int) Position {
	p.Column += n
	p.Offset += n
	return p
}

// ============================================================================
// Span - 源代码范围
// ============================================================================

// Span 表示源代码中的一个范围（开始到结束）
//
// End 指向范围内最后一个 Token 的起始位置，与诊断的高亮/fix-it 用法一致。
type Span struct {
	Start Position // 开始位置
	End   Position // 结束位置
}

// NewSpan 创建新的 Span
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// SpanFromToken 从 Token 创建 Span
func SpanFromToken(t Token) Span {
	return Span{Start: t.Pos, End: t.Pos}
}

// IsValid 检查范围是否有效
func (s Span) IsValid() bool {
	return s.Start.IsValid()
}

// String 返回 Span 的字符串表示
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
// Token 是不可变的值：Parser 只读取，从不修改。
// AtLineStart 表示该 Token 是所在行的第一个 Token。
type Token struct {
	Type        TokenType // Token 类型
	Literal     string    // 原始字面量
	Pos         Position  // 位置信息
	AtLineStart bool      // 是否位于行首
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, INT, FLOAT, STRING, OPERATOR:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// Is 判断 Token 类型
func (t Token) Is(tt TokenType) bool { return t.Type == tt }

// IsAny 判断 Token 是否为给定类型之一
func (t Token) IsAny(types ...TokenType) bool {
	for _, tt := range types {
		if t.Type == tt {
			return true
		}
	}
	return false
}

// IsContextual 判断 Token 是否为指定文本的上下文关键字
func (t Token) IsContextual(word string) bool {
	return t.Type == IDENT && t.Literal == word
}

// IsKeyword 判断 Token 是否为关键字
func (t Token) IsKeyword() bool { return IsKeyword(t.Type) }

// IsAnyOperator 判断 Token 是否为运算符（可作为函数名）
func (t Token) IsAnyOperator() bool {
	return t.Type == OPERATOR
}

// StartsWithLess 判断 Token 是否以 '<' 开头（泛型参数列表的起点）
func (t Token) StartsWithLess() bool {
	return t.Type == OPERATOR && len(t.Literal) > 0 && t.Literal[0] == '<'
}

// StartsWithGreater 判断 Token 是否以 '>' 开头（泛型参数列表的终点）
func (t Token) StartsWithGreater() bool {
	return t.Type == OPERATOR && len(t.Literal) > 0 && t.Literal[0] == '>'
}

// EndPos 返回 Token 之后紧邻的位置（不跨行）
func (t Token) EndPos() Position {
	return t.Pos.Advance(len(t.Literal))
}

// ============================================================================
// Token 构造函数
// ============================================================================

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}
