package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 模式解析
// ============================================================================
//
//   pattern      ::= pattern-atom (':' type)?
//   pattern-atom ::= identifier | '_' | pattern-tuple
//   pattern-tuple ::= '(' (pattern ('=' expr)? (',' ...)*)? ')'
//
// 模式中的名字在当前声明上下文中创建 VarDecl，但不登记到作用域，
// 由调用方决定何时可见。
//
// ============================================================================

// parsePattern 解析带可选类型标注的模式
func (p *Parser) parsePattern() Result[ast.Pattern] {
	p.patternDepth++
	defer func() { p.patternDepth-- }()
	if p.patternDepth > maxNestingDepth {
		p.diagnose(p.tok.Pos, diag.NestingTooDeep, "pattern")
		p.skipSingle()
		return nullResult[ast.Pattern](errorStatus())
	}

	atom := p.parsePatternAtom()
	if atom.IsNull() || atom.HasCodeCompletion() {
		return atom
	}
	status := atom.Status

	switch {
	case p.tok.Is(token.COLON):
		colon := p.consume()
		ty := p.parseType(diag.ExpectedType)
		status.Merge(ty.Status)
		if ty.HasCodeCompletion() {
			return makeResult(status, atom.Node)
		}
		tyRepr := ty.Node
		if ty.IsNull() {
			tyRepr = &ast.ErrorTypeRepr{Loc: p.tok.Pos}
		}
		return makeResult[ast.Pattern](status, &ast.TypedPattern{Sub: atom.Node, ColonLoc: colon, Type: tyRepr})

	case p.tok.Is(token.IDENT) && !p.tok.AtLineStart:
		// "x Int"：漏写了冒号
		if _, named := atom.Node.(*ast.NamedPattern); !named {
			break
		}
		colon := p.prevEnd
		p.diagnose(p.tok.Pos, diag.ExpectedColonInVar).FixItInsert(colon, ":")
		ty := p.parseType(diag.ExpectedType)
		status.Merge(ty.Status)
		status.SetError()
		if ty.IsNull() || ty.HasCodeCompletion() {
			return makeResult(status, atom.Node)
		}
		return makeResult[ast.Pattern](status, &ast.TypedPattern{Sub: atom.Node, ColonLoc: colon, Type: ty.Node})
	}
	return atom
}

// parsePatternAtom 解析不含类型标注的模式
func (p *Parser) parsePatternAtom() Result[ast.Pattern] {
	switch p.tok.Type {
	case token.IDENT:
		if p.tok.Literal == "_" {
			return makeResult[ast.Pattern](Success, &ast.AnyPattern{Loc: p.consume()})
		}
		name := p.tok.Literal
		loc := p.consume()
		v := p.arena.NewVarDecl(p.curDC, name, loc, false)
		return makeResult[ast.Pattern](Success, &ast.NamedPattern{Var: v.ID, Name: name, Loc: loc})

	case token.LPAREN:
		tuple := p.parsePatternTuple(false)
		if tuple.IsNull() {
			return nullResult[ast.Pattern](tuple.Status)
		}
		return makeResult[ast.Pattern](tuple.Status, tuple.Node)

	case token.CODE_COMPLETE:
		p.consume()
		return nullResult[ast.Pattern](codeCompletionStatus())
	}

	p.diagnose(p.tok.Pos, diag.ExpectedPattern)
	return nullResult[ast.Pattern](errorStatus())
}

// parsePatternTuple 解析 '(' ... ')'；allowInit 允许元素带默认值
func (p *Parser) parsePatternTuple(allowInit bool) Result[*ast.TuplePattern] {
	var status Status
	tuple := &ast.TuplePattern{LParen: p.consume()}

	for !p.tok.IsAny(token.RPAREN, token.EOF) {
		pat := p.parsePattern()
		status.Merge(pat.Status)
		if pat.HasCodeCompletion() {
			return makeResult(status, tuple)
		}
		if pat.IsNull() {
			p.skipUntil(token.RPAREN, token.RBRACE)
			break
		}

		elt := ast.TuplePatternElt{Pattern: pat.Node}
		if allowInit && p.tok.Is(token.EQUAL) {
			elt.EqualsLoc = p.consume()
			init := p.parseExpr(diag.ExpectedInitValue)
			status.Merge(init.Status)
			if init.HasCodeCompletion() {
				return makeResult(status, tuple)
			}
			if !init.IsNull() {
				elt.Init = init.Node
			}
		}
		tuple.Elements = append(tuple.Elements, elt)

		if !p.consumeIf(token.COMMA) {
			break
		}
	}

	rparen, ok := p.parseMatchingToken(token.RPAREN, diag.ExpectedRParen, tuple.LParen, "tuple pattern")
	if !ok {
		status.SetError()
	}
	tuple.RParen = rparen
	return makeResult(status, tuple)
}

// emptyTuplePattern 合成一个空参数列表
func emptyTuplePattern(loc token.Position) *ast.TuplePattern {
	return &ast.TuplePattern{LParen: loc, RParen: loc}
}

// addParametersToScope 把参数模式中的变量移入函数体上下文并登记到当前作用域
func (p *Parser) addParametersToScope(params []ast.Pattern, ctx ast.ContextID) {
	for _, pat := range params {
		for _, id := range ast.PatternVars(pat) {
			p.arena.Reparent(id, ctx)
			if v := ast.As[*ast.VarDecl](p.arena, id); v != nil {
				p.addToScope(v)
			}
		}
	}
}

// implicitSelf 创建隐式 self 参数
func (p *Parser) implicitSelf(loc token.Position) (*ast.VarDecl, ast.Pattern) {
	v := p.arena.NewVarDecl(p.curDC, "self", loc, false)
	v.Implicit = true
	return v, &ast.NamedPattern{Var: v.ID, Name: "self", Loc: loc, Implicit: true}
}
