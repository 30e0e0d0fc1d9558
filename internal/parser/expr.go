package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/lexer"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 表达式解析
// ============================================================================
//
// 声明解析器只需要表达式作为初始值、默认参数与枚举原始值，
// 这里实现一个精简的表达式语法：
//
//   expr         ::= expr-unary (binary-operator expr-unary)*
//   expr-unary   ::= prefix-operator* expr-postfix
//   expr-postfix ::= expr-primary ('.' name | '(' args ')' | '[' expr ']')*
//
// 二元运算序列不折叠，保留为 SequenceExpr。
//
// ============================================================================

// parseExpr 解析表达式，不是表达式时报告 id
func (p *Parser) parseExpr(id diag.ID) Result[ast.Expr] {
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	if p.exprDepth > maxNestingDepth {
		p.diagnose(p.tok.Pos, diag.NestingTooDeep, "expression")
		p.skipSingle()
		return nullResult[ast.Expr](errorStatus())
	}

	first := p.parseExprUnary(id)
	if first.IsNull() || first.HasCodeCompletion() {
		return first
	}
	status := first.Status
	elements := []ast.Expr{first.Node}

	for p.tok.IsAny(token.OPERATOR, token.EQUAL) && !p.tok.AtLineStart {
		op := &ast.OperatorRefExpr{Op: p.tok.Literal, Loc: p.tok.Pos}
		p.consume()
		rhs := p.parseExprUnary(diag.ExpectedExpr)
		status.Merge(rhs.Status)
		if rhs.IsNull() {
			break
		}
		elements = append(elements, op, rhs.Node)
		if rhs.HasCodeCompletion() {
			break
		}
	}

	if len(elements) == 1 {
		return makeResult(status, elements[0])
	}
	return makeResult[ast.Expr](status, &ast.SequenceExpr{Elements: elements})
}

// parseExprUnary 解析前缀运算
func (p *Parser) parseExprUnary(id diag.ID) Result[ast.Expr] {
	if !p.tok.Is(token.OPERATOR) {
		return p.parseExprPostfix(id)
	}
	op := p.tok.Literal
	opLoc := p.consume()
	operand := p.parseExprUnary(id)
	if operand.IsNull() {
		return operand
	}
	return makeResult[ast.Expr](operand.Status, &ast.PrefixUnaryExpr{Op: op, OpLoc: opLoc, Operand: operand.Node})
}

// parseExprPostfix 解析成员访问、调用与下标
func (p *Parser) parseExprPostfix(id diag.ID) Result[ast.Expr] {
	res := p.parseExprPrimary(id)
	if res.IsNull() || res.HasCodeCompletion() {
		return res
	}
	status := res.Status
	e := res.Node

	for {
		switch {
		case p.tok.Is(token.PERIOD):
			dot := p.consume()
			if p.tok.Is(token.CODE_COMPLETE) {
				loc := p.consume()
				status.SetCodeCompletion()
				return makeResult[ast.Expr](status, &ast.MemberExpr{Base: e, DotLoc: dot, Name: "", NameLoc: loc})
			}
			if !p.tok.IsAny(token.IDENT, token.INT, token.INIT, token.SELF) {
				p.diagnose(p.tok.Pos, diag.ExpectedIdentifier)
				status.SetError()
				return makeResult(status, e)
			}
			name := p.tok.Literal
			e = &ast.MemberExpr{Base: e, DotLoc: dot, Name: name, NameLoc: p.consume()}

		case p.tok.Is(token.LPAREN) && !p.tok.AtLineStart:
			args := p.parseExprParen()
			status.Merge(args.Status)
			e = &ast.CallExpr{Fn: e, Args: args.Node}
			if args.HasCodeCompletion() {
				return makeResult(status, e)
			}

		case p.tok.Is(token.LBRACKET) && !p.tok.AtLineStart:
			lb := p.consume()
			idx := p.parseExpr(diag.ExpectedExpr)
			status.Merge(idx.Status)
			if idx.IsNull() || idx.HasCodeCompletion() {
				return makeResult(status, e)
			}
			rb, ok := p.expect(token.RBRACKET, diag.ExpectedRBracket, "subscript expression")
			if !ok {
				status.SetError()
			}
			e = &ast.SubscriptExpr{Base: e, Index: idx.Node, Brackets: token.NewSpan(lb, rb)}

		default:
			return makeResult(status, e)
		}
	}
}

// parseExprPrimary 解析基本表达式
func (p *Parser) parseExprPrimary(id diag.ID) Result[ast.Expr] {
	tok := p.tok
	switch tok.Type {
	case token.INT:
		p.consume()
		return makeResult[ast.Expr](Success, &ast.IntegerLiteralExpr{Loc: tok.Pos, Text: tok.Literal})
	case token.FLOAT:
		p.consume()
		return makeResult[ast.Expr](Success, &ast.FloatLiteralExpr{Loc: tok.Pos, Text: tok.Literal})
	case token.STRING:
		return p.parseExprString()
	case token.TRUE, token.FALSE:
		p.consume()
		return makeResult[ast.Expr](Success, &ast.BoolLiteralExpr{Loc: tok.Pos, Value: tok.Is(token.TRUE)})
	case token.NIL:
		p.consume()
		return makeResult[ast.Expr](Success, &ast.NilLiteralExpr{Loc: tok.Pos})
	case token.SELF:
		p.consume()
		return makeResult[ast.Expr](Success, &ast.SelfExpr{Loc: tok.Pos})
	case token.IDENT:
		p.consume()
		return makeResult[ast.Expr](Success, &ast.IdentExpr{Name: tok.Literal, Loc: tok.Pos})
	case token.LPAREN:
		tuple := p.parseExprParen()
		return makeResult[ast.Expr](tuple.Status, tuple.Node)
	case token.CODE_COMPLETE:
		p.consume()
		return makeResult[ast.Expr](codeCompletionStatus(), &ast.CodeCompletionExpr{Loc: tok.Pos})
	}

	p.diagnose(tok.Pos, id)
	return nullResult[ast.Expr](errorStatus())
}

// parseExprParen 解析 (a, label: b)
func (p *Parser) parseExprParen() Result[*ast.TupleExpr] {
	var status Status
	tuple := &ast.TupleExpr{LParen: p.consume()}

	for !p.tok.IsAny(token.RPAREN, token.EOF) {
		label := ""
		if p.tok.Is(token.IDENT) && p.peek().Is(token.COLON) {
			label = p.tok.Literal
			p.consume()
			p.consume()
		}
		elt := p.parseExpr(diag.ExpectedExpr)
		status.Merge(elt.Status)
		if elt.IsNull() {
			p.skipUntil(token.RPAREN, token.RBRACE)
			break
		}
		tuple.Elements = append(tuple.Elements, elt.Node)
		tuple.Labels = append(tuple.Labels, label)
		if elt.HasCodeCompletion() {
			tuple.RParen = p.prevLoc
			return makeResult(status, tuple)
		}
		if !p.consumeIf(token.COMMA) {
			break
		}
	}

	rparen, ok := p.parseMatchingToken(token.RPAREN, diag.ExpectedRParen, tuple.LParen, "expression list")
	if !ok {
		status.SetError()
	}
	tuple.RParen = rparen
	return makeResult(status, tuple)
}

// parseExprString 解析字符串字面量，插值段递归解析为表达式
func (p *Parser) parseExprString() Result[ast.Expr] {
	tok := p.tok
	segs := lexer.Segments(tok)
	p.consume()

	if lexer.IsSimpleString(tok) {
		return makeResult[ast.Expr](Success, &ast.StringLiteralExpr{Loc: tok.Pos, Value: segs[0].Text})
	}

	var status Status
	lit := &ast.InterpolatedStringLiteralExpr{Loc: tok.Pos}
	for _, seg := range segs {
		if seg.Kind == lexer.SegmentLiteral {
			lit.Segments = append(lit.Segments, &ast.StringLiteralExpr{Loc: seg.Pos, Value: seg.Text})
			continue
		}

		sub := p.lex.Slice(stateAt(seg.Pos), seg.Pos.Offset+len(seg.Text))
		var e Result[ast.Expr]
		p.withLexer(sub, p.prevLoc, func() {
			e = p.parseExpr(diag.ExpectedExpr)
		})
		status.Merge(e.Status)
		if e.IsNull() {
			lit.Segments = append(lit.Segments, &ast.ErrorExpr{Loc: seg.Pos})
			continue
		}
		lit.Segments = append(lit.Segments, e.Node)
	}
	return makeResult[ast.Expr](status, lit)
}

// isRawValueLiteral 枚举原始值只能是非插值字面量（允许负号）
func isRawValueLiteral(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.IntegerLiteralExpr, *ast.FloatLiteralExpr, *ast.StringLiteralExpr:
		return true
	case *ast.PrefixUnaryExpr:
		if e.Op != "-" {
			return false
		}
		switch e.Operand.(type) {
		case *ast.IntegerLiteralExpr, *ast.FloatLiteralExpr:
			return true
		}
	}
	return false
}
