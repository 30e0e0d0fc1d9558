package parser

import (
	"unicode/utf8"

	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/lexer"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// Token 游标
// ============================================================================

// mark 解析位置快照
type mark struct {
	before  lexer.State // 扫描 tok 之前
	after   lexer.State // 扫描 tok 之后
	tok     token.Token
	prevLoc token.Position
	prevEnd token.Position
}

// next 扫描下一个 Token 作为当前 Token
func (p *Parser) next() {
	p.tokStart = p.lex.State()
	p.tok = p.lex.Next()
	p.forwardLexErrors()
}

// mark 记录当前位置
func (p *Parser) mark() mark {
	return mark{
		before:  p.tokStart,
		after:   p.lex.State(),
		tok:     p.tok,
		prevLoc: p.prevLoc,
		prevEnd: p.prevEnd,
	}
}

// restore 回到之前记录的位置
func (p *Parser) restore(m mark) {
	p.lex.Restore(m.after)
	p.tokStart = m.before
	p.tok = m.tok
	p.prevLoc = m.prevLoc
	p.prevEnd = m.prevEnd
}

// peek 返回下一个 Token，不移动游标
func (p *Parser) peek() token.Token {
	st := p.lex.State()
	t := p.lex.Next()
	p.lex.Restore(st)
	return t
}

// consume 消费当前 Token，返回其位置；EOF 不会被消费
func (p *Parser) consume() token.Position {
	loc := p.tok.Pos
	if p.tok.Is(token.EOF) {
		return loc
	}
	p.prevLoc = loc
	p.prevEnd = p.tok.EndPos()
	p.next()
	return loc
}

// consumeIf 当前 Token 为 tt 时消费它
func (p *Parser) consumeIf(tt token.TokenType) bool {
	if !p.tok.Is(tt) {
		return false
	}
	p.consume()
	return true
}

// expect 期望当前 Token 为 tt，否则在当前位置报告 id
func (p *Parser) expect(tt token.TokenType, id diag.ID, args ...interface{}) (token.Position, bool) {
	if p.tok.Is(tt) {
		return p.consume(), true
	}
	p.diagnose(p.tok.Pos, id, args...)
	return p.tok.Pos, false
}

// parseMatchingToken 解析与 open 处开括号配对的闭括号
//
// 失败时报告 id 并在开括号处附加提示，返回上一个 Token 的位置。
func (p *Parser) parseMatchingToken(tt token.TokenType, id diag.ID, open token.Position, args ...interface{}) (token.Position, bool) {
	if p.tok.Is(tt) {
		return p.consume(), true
	}
	p.diagnose(p.tok.Pos, id, args...)
	switch tt {
	case token.RBRACE:
		p.diagnose(open, diag.OpeningBraceNote)
	case token.RPAREN:
		p.diagnose(open, diag.OpeningParenNote)
	}
	return p.prevLoc, false
}

// splitToken 把当前运算符 Token 拆成前 n 个字符与剩余部分
//
// 用于 "==<" 这类粘连的 Token：拆分后当前 Token 为前半部分，
// 词法分析器从后半部分重新扫描。
func (p *Parser) splitToken(n int) {
	if n <= 0 || n >= len(p.tok.Literal) {
		return
	}
	lit := p.tok.Literal[:n]
	tt := token.OPERATOR
	switch lit {
	case "=":
		tt = token.EQUAL
	case "->":
		tt = token.ARROW
	case ".":
		tt = token.PERIOD
	}
	p.tok = token.Token{Type: tt, Literal: lit, Pos: p.tok.Pos, AtLineStart: p.tok.AtLineStart}
	p.lex.Rewind(p.tok.Pos.Advance(n))
}

// forwardLexErrors 把新产生的词法错误转成诊断
func (p *Parser) forwardLexErrors() {
	errs := p.lex.Errors()
	for ; p.lexErrs < len(errs); p.lexErrs++ {
		e := errs[p.lexErrs]
		switch e.Kind {
		case lexer.ErrUnexpectedChar:
			r, _ := utf8.DecodeRuneInString(p.lex.Source()[e.Pos.Offset:])
			p.diagnose(e.Pos, diag.UnexpectedChar, r)
		case lexer.ErrUnterminatedString:
			p.diagnose(e.Pos, diag.UnterminatedString)
		case lexer.ErrUnterminatedComment:
			p.diagnose(e.Pos, diag.UnterminatedComment)
		case lexer.ErrUnterminatedInterp:
			p.diagnose(e.Pos, diag.UnterminatedInterpolation)
		}
	}
}

// ============================================================================
// 错误恢复
// ============================================================================

// skipSingle 跳过一个 Token；遇到开括号时跳过整个括号组
func (p *Parser) skipSingle() {
	switch p.tok.Type {
	case token.LPAREN:
		p.consume()
		p.skipUntil(token.RPAREN, token.RBRACE)
		p.consumeIf(token.RPAREN)
	case token.LBRACKET:
		p.consume()
		p.skipUntil(token.RBRACKET, token.RBRACE)
		p.consumeIf(token.RBRACKET)
	case token.LBRACE:
		p.consume()
		p.skipUntil(token.RBRACE)
		p.consumeIf(token.RBRACE)
	default:
		p.consume()
	}
}

// skipUntil 跳过 Token 直到遇到 types 之一或 EOF
func (p *Parser) skipUntil(types ...token.TokenType) {
	for !p.tok.Is(token.EOF) && !p.tok.IsAny(types...) {
		p.skipSingle()
	}
}

// skipUntilDeclRBrace 跳到下一个 '}' 或声明起点
func (p *Parser) skipUntilDeclRBrace() {
	for !p.tok.IsAny(token.EOF, token.RBRACE) && !p.isStartOfDecl() {
		p.skipSingle()
	}
}

// skipUntilDeclStmtRBrace 跳到下一个 '}'、声明起点或语句起点
func (p *Parser) skipUntilDeclStmtRBrace() {
	for !p.tok.IsAny(token.EOF, token.RBRACE) && !p.isStartOfDecl() && !p.isStartOfStmt() {
		p.skipSingle()
	}
}

// skipUntilTokenOrDecl 跳到 types 之一、'}' 或声明起点
func (p *Parser) skipUntilTokenOrDecl(types ...token.TokenType) {
	for !p.tok.IsAny(token.EOF, token.RBRACE) && !p.tok.IsAny(types...) && !p.isStartOfDecl() {
		p.skipSingle()
	}
}

// isStartOfDecl 当前 Token 是否可以开始一个声明
func (p *Parser) isStartOfDecl() bool {
	switch p.tok.Type {
	case token.IMPORT, token.EXTENSION, token.TYPEALIAS, token.ENUM, token.CASE,
		token.STRUCT, token.CLASS, token.PROTOCOL, token.FUNC, token.INIT,
		token.DESTRUCTOR, token.SUBSCRIPT, token.VAR, token.STATIC, token.AT:
		return true
	case token.IDENT:
		return p.isStartOfOperatorDecl()
	}
	return false
}

// isStartOfOperatorDecl 'operator' 后跟 prefix/postfix/infix
func (p *Parser) isStartOfOperatorDecl() bool {
	if !p.tok.IsContextual("operator") {
		return false
	}
	next := p.peek()
	return next.IsContextual("prefix") || next.IsContextual("postfix") || next.IsContextual("infix")
}

// isStartOfStmt 当前 Token 是否可以开始一个语句关键字
func (p *Parser) isStartOfStmt() bool {
	return p.tok.IsAny(token.RETURN, token.IF, token.WHILE, token.FOR)
}

// ============================================================================
// 切换词法分析器
// ============================================================================

// cursor 游标的完整状态，切换到子 Lexer 前保存
type cursor struct {
	lex      *lexer.Lexer
	tok      token.Token
	tokStart lexer.State
	prevLoc  token.Position
	prevEnd  token.Position
}

func (p *Parser) saveCursor() cursor {
	return cursor{lex: p.lex, tok: p.tok, tokStart: p.tokStart, prevLoc: p.prevLoc, prevEnd: p.prevEnd}
}

func (p *Parser) restoreCursor(c cursor) {
	p.lex, p.tok, p.tokStart, p.prevLoc, p.prevEnd = c.lex, c.tok, c.tokStart, c.prevLoc, c.prevEnd
}

// withLexer 用子 Lexer 执行 fn，结束后恢复原游标
func (p *Parser) withLexer(sub *lexer.Lexer, prevLoc token.Position, fn func()) {
	saved := p.saveCursor()
	defer p.restoreCursor(saved)

	p.lex = sub
	p.prevLoc = prevLoc
	p.prevEnd = prevLoc
	p.next()
	fn()
}

// stateAt 构造位于 pos 的词法状态
func stateAt(pos token.Position) lexer.State {
	return lexer.State{Offset: pos.Offset, Line: pos.Line, LineStart: pos.Offset - (pos.Column - 1)}
}
