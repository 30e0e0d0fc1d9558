package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/tangzhangming/kestrel/internal/i18n"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器按需产生 Token：每次调用 Next 扫描一个 Token。
//
// 全部可变状态都在 State 值里，源码本身不可变，因此：
// 1. 回溯只需保存/恢复一个 State（Parser 的 mark/restore）
// 2. 向前看（peek）= 保存 State、扫描、恢复 State，不会留下副作用
// 3. 延迟解析的函数体可以用 Slice 构造一个以保存位置为终点的新 Lexer
//
// ============================================================================

// State 词法分析器的可恢复状态
type State struct {
	Offset    int  // 当前扫描位置（字节偏移）
	Line      int  // 当前行号（从1开始）
	LineStart int  // 当前行的起始偏移（用于计算列号）
	newline   bool // 自上一个 Token 以来是否跨过换行
	ccDone    bool // 代码补全 Token 是否已经产生
}

// Lexer 词法分析器结构体
type Lexer struct {
	source   string // 源代码字符串
	filename string // 源文件名（用于错误报告）

	st       State // 当前状态
	end      int   // 扫描终点（不含），Slice 出的子 Lexer 小于 len(source)
	ccOffset int   // 代码补全位置，-1 表示关闭

	sink *errorSink // 词法错误（Slice 出的子 Lexer 共享同一个）
}

// errorSink 词法错误列表
type errorSink struct {
	errors []Error
	seen   map[int]struct{} // 已记录错误的偏移（回溯会重复扫描同一段源码）
}

// ErrorKind 词法错误类别
type ErrorKind int

const (
	ErrUnexpectedChar ErrorKind = iota
	ErrUnterminatedString
	ErrUnterminatedComment
	ErrUnterminatedInterp
)

// Error 表示词法分析错误
type Error struct {
	Kind    ErrorKind      // 错误类别
	Pos     token.Position // 错误位置
	Message string         // 错误信息
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的词法分析器
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		st:       State{Line: 1, newline: true},
		end:      len(source),
		ccOffset: -1,
		sink:     &errorSink{seen: make(map[int]struct{})},
	}
}

// Slice 创建一个从 begin 开始、在偏移 end 处停止的子词法分析器
//
// 子 Lexer 与原 Lexer 共享源码，但状态完全独立；错误会回写到原 Lexer。
func (l *Lexer) Slice(begin State, end int) *Lexer {
	if end > len(l.source) {
		end = len(l.source)
	}
	if l.ccOffset >= 0 && begin.Offset > l.ccOffset {
		begin.ccDone = true
	}
	return &Lexer{
		source:   l.source,
		filename: l.filename,
		st:       begin,
		end:      end,
		ccOffset: l.ccOffset,
		sink:     l.sink,
	}
}

// SetCodeCompletionOffset 设置代码补全位置；到达该位置时产生 CODE_COMPLETE
func (l *Lexer) SetCodeCompletionOffset(offset int) {
	l.ccOffset = offset
}

// ============================================================================
// 公共方法
// ============================================================================

// State 返回当前状态的副本
func (l *Lexer) State() State {
	return l.st
}

// Restore 恢复到之前保存的状态
func (l *Lexer) Restore(s State) {
	l.st = s
}

// Rewind 将扫描位置移回同一行上的 pos，用于拆分 Token（如 "==<" 拆为 "==" 和 "<"）
func (l *Lexer) Rewind(pos token.Position) {
	l.st.Offset = pos.Offset
	l.st.Line = pos.Line
	l.st.LineStart = pos.Offset - (pos.Column - 1)
	l.st.newline = false
}

// End 返回扫描终点
func (l *Lexer) End() int {
	return l.end
}

// Source 返回源代码
func (l *Lexer) Source() string {
	return l.source
}

// Filename 返回文件名
func (l *Lexer) Filename() string {
	return l.filename
}

// ScanTokens 扫描所有 tokens
//
// 最后一个 Token 总是 EOF。用于 token 转储等一次性场景，Parser 使用 Next。
func (l *Lexer) ScanTokens() []token.Token {
	estimated := (l.end - l.st.Offset) / 5
	if estimated < 16 {
		estimated = 16
	}
	tokens := make([]token.Token, 0, estimated)
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.sink.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.sink.errors) > 0
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

// Next 扫描并返回下一个 Token
//
// 到达终点后一直返回 EOF。
func (l *Lexer) Next() token.Token {
	l.skipTrivia()

	atLineStart := l.st.newline
	l.st.newline = false

	if l.ccOffset >= 0 && !l.st.ccDone && l.st.Offset >= l.ccOffset {
		l.st.ccDone = true
		return token.Token{Type: token.CODE_COMPLETE, Pos: l.currentPos(), AtLineStart: atLineStart}
	}

	if l.isAtEnd() {
		return token.Token{Type: token.EOF, Pos: l.currentPos(), AtLineStart: atLineStart}
	}

	start := l.st
	startPos := l.currentPos()
	tt := l.scanToken(startPos)

	return token.Token{
		Type:        tt,
		Literal:     l.source[start.Offset:l.st.Offset],
		Pos:         startPos,
		AtLineStart: atLineStart,
	}
}

// scanToken 扫描单个 token，返回其类型
func (l *Lexer) scanToken(startPos token.Position) token.TokenType {
	ch := l.advance()

	switch ch {
	case '(':
		return token.LPAREN
	case ')':
		return token.RPAREN
	case '{':
		return token.LBRACE
	case '}':
		return token.RBRACE
	case '[':
		return token.LBRACKET
	case ']':
		return token.RBRACKET
	case ',':
		return token.COMMA
	case ';':
		return token.SEMICOLON
	case ':':
		return token.COLON
	case '@':
		return token.AT

	case '.':
		// 单个 . 是成员访问，连续的 . 组成运算符（如 ..<）
		if l.peekByte() != '.' {
			return token.PERIOD
		}
		for !l.isAtEnd() && (l.peekByte() == '.' || isOperatorByte(l.peekByte())) {
			l.advanceByte()
		}
		return token.OPERATOR

	case '"':
		l.string(startPos)
		return token.STRING
	}

	if ch < utf8.RuneSelf && isOperatorByte(byte(ch)) {
		return l.operator(startPos)
	}
	if isDigit(ch) {
		return l.number()
	}
	if isAlpha(ch) {
		return l.identifier(startPos)
	}

	l.error(ErrUnexpectedChar, startPos, i18n.T(i18n.ErrUnexpectedChar, ch))
	return token.ILLEGAL
}

// ============================================================================
// 空白与注释
// ============================================================================

// skipTrivia 跳过空白和注释，记录是否跨过换行
func (l *Lexer) skipTrivia() {
	for !l.isAtEnd() {
		switch l.peekByte() {
		case ' ', '\t', '\r':
			l.advanceByte()
		case '\n':
			l.advanceByte()
			l.newLine()
		case '/':
			switch l.peekNextByte() {
			case '/':
				l.lineComment()
			case '*':
				l.blockComment()
			default:
				return
			}
		default:
			return
		}
	}
}

// lineComment 处理单行注释 //
func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peekByte() != '\n' {
		l.advance()
	}
}

// blockComment 处理多行注释 /* */，支持嵌套
func (l *Lexer) blockComment() {
	startPos := l.currentPos()
	l.advanceByte()
	l.advanceByte()
	depth := 1

	for depth > 0 && !l.isAtEnd() {
		if l.peekByte() == '/' && l.peekNextByte() == '*' {
			l.advanceByte()
			l.advanceByte()
			depth++
			continue
		}
		if l.peekByte() == '*' && l.peekNextByte() == '/' {
			l.advanceByte()
			l.advanceByte()
			depth--
			continue
		}
		if l.peekByte() == '\n' {
			l.advanceByte()
			l.newLine()
			continue
		}
		l.advance()
	}

	if depth > 0 {
		l.error(ErrUnterminatedComment, startPos, i18n.T(i18n.ErrUnterminatedComment))
	}
}

// ============================================================================
// 字面量
// ============================================================================

// string 扫描字符串字面量，跳过转义和 \( ... ) 插值段
//
// 插值段内部的括号需要配对，段内可以出现字符串。
func (l *Lexer) string(startPos token.Position) {
	for !l.isAtEnd() {
		ch := l.peekByte()
		switch ch {
		case '"':
			l.advanceByte()
			return
		case '\n':
			l.error(ErrUnterminatedString, startPos, i18n.T(i18n.ErrUnterminatedString))
			return
		case '\\':
			l.advanceByte()
			if l.isAtEnd() {
				break
			}
			if l.peekByte() == '(' {
				l.advanceByte()
				if !l.skipInterpolation() {
					l.error(ErrUnterminatedInterp, startPos, i18n.T(i18n.ErrUnterminatedInterp))
					return
				}
				continue
			}
			l.advance()
		default:
			l.advance()
		}
	}
	l.error(ErrUnterminatedString, startPos, i18n.T(i18n.ErrUnterminatedString))
}

// skipInterpolation 跳过插值表达式直到配对的 ')'
func (l *Lexer) skipInterpolation() bool {
	end, ok := interpolationEnd(l.source[:l.end], l.st.Offset)
	l.st.Offset = end
	return ok
}

// number 扫描数字字面量（十进制、0x 十六进制、浮点数）
func (l *Lexer) number() token.TokenType {
	first := l.source[l.st.Offset-1]
	if first == '0' && (l.peekByte() == 'x' || l.peekByte() == 'X') {
		l.advanceByte()
		for !l.isAtEnd() && (isHexDigit(rune(l.peekByte())) || l.peekByte() == '_') {
			l.advanceByte()
		}
		return token.INT
	}

	for !l.isAtEnd() && (isDigit(rune(l.peekByte())) || l.peekByte() == '_') {
		l.advanceByte()
	}

	tt := token.INT
	if l.peekByte() == '.' && isDigit(rune(l.peekNextByte())) {
		tt = token.FLOAT
		l.advanceByte()
		for !l.isAtEnd() && (isDigit(rune(l.peekByte())) || l.peekByte() == '_') {
			l.advanceByte()
		}
	}
	if b := l.peekByte(); b == 'e' || b == 'E' {
		save := l.st
		l.advanceByte()
		if b := l.peekByte(); b == '+' || b == '-' {
			l.advanceByte()
		}
		if !isDigit(rune(l.peekByte())) {
			l.st = save
			return tt
		}
		tt = token.FLOAT
		for !l.isAtEnd() && isDigit(rune(l.peekByte())) {
			l.advanceByte()
		}
	}
	return tt
}

// identifier 扫描标识符或关键字
func (l *Lexer) identifier(startPos token.Position) token.TokenType {
	for !l.isAtEnd() {
		r, size := utf8.DecodeRuneInString(l.source[l.st.Offset:l.end])
		if !isAlphaNumeric(r) {
			break
		}
		l.st.Offset += size
	}
	return token.LookupIdent(l.source[startPos.Offset:l.st.Offset])
}

// operator 扫描运算符：最长的运算符字符序列
//
// 单独的 '=' 是 EQUAL，单独的 '->' 是 ARROW；序列遇到注释起始符时截断。
func (l *Lexer) operator(startPos token.Position) token.TokenType {
	for !l.isAtEnd() && isOperatorByte(l.peekByte()) {
		if l.peekByte() == '/' && (l.peekNextByte() == '/' || l.peekNextByte() == '*') {
			break
		}
		l.advanceByte()
	}
	switch l.source[startPos.Offset:l.st.Offset] {
	case "=":
		return token.EQUAL
	case "->":
		return token.ARROW
	}
	return token.OPERATOR
}

// ============================================================================
// 底层字符操作
// ============================================================================

func (l *Lexer) isAtEnd() bool {
	return l.st.Offset >= l.end
}

func (l *Lexer) advance() rune {
	b := l.source[l.st.Offset]
	if b < utf8.RuneSelf {
		l.st.Offset++
		return rune(b)
	}
	r, size := utf8.DecodeRuneInString(l.source[l.st.Offset:l.end])
	l.st.Offset += size
	return r
}

func (l *Lexer) advanceByte() {
	l.st.Offset++
}

func (l *Lexer) peekByte() byte {
	if l.st.Offset >= l.end {
		return 0
	}
	return l.source[l.st.Offset]
}

func (l *Lexer) peekNextByte() byte {
	if l.st.Offset+1 >= l.end {
		return 0
	}
	return l.source[l.st.Offset+1]
}

func (l *Lexer) newLine() {
	l.st.Line++
	l.st.LineStart = l.st.Offset
	l.st.newline = true
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.st.Line,
		Column:   l.st.Offset - l.st.LineStart + 1,
		Offset:   l.st.Offset,
	}
}

// error 记录词法错误；同一偏移只记录一次
func (l *Lexer) error(kind ErrorKind, pos token.Position, message string) {
	if _, dup := l.sink.seen[pos.Offset]; dup {
		return
	}
	l.sink.seen[pos.Offset] = struct{}{}
	l.sink.errors = append(l.sink.errors, Error{Kind: kind, Pos: pos, Message: message})
}

// ============================================================================
// 字符分类
// ============================================================================

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' ||
		(ch >= utf8.RuneSelf && unicode.IsLetter(ch))
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}

func isOperatorByte(b byte) bool {
	switch b {
	case '/', '=', '-', '+', '*', '%', '<', '>', '!', '&', '|', '^', '~', '?':
		return true
	}
	return false
}
