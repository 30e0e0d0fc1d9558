package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 类型解析
// ============================================================================
//
//   type        ::= type-attributes? type-simple ('->' type)?
//   type-simple ::= type-identifier | type-tuple
//                   type-simple '?'
//                   type-simple '[' ']'
//   type-identifier ::= identifier generic-args? ('.' identifier generic-args?)*
//
// ============================================================================

// parseType 解析类型，不是类型时报告 id
func (p *Parser) parseType(id diag.ID, args ...interface{}) Result[ast.TypeRepr] {
	p.typeDepth++
	defer func() { p.typeDepth-- }()
	if p.typeDepth > maxNestingDepth {
		p.diagnose(p.tok.Pos, diag.NestingTooDeep, "type")
		p.skipSingle()
		return nullResult[ast.TypeRepr](errorStatus())
	}

	attrs := p.parseTypeAttributeList()

	base := p.parseTypeSimple(id, args...)
	if base.IsNull() || base.HasCodeCompletion() {
		return base
	}
	status := base.Status
	ty := base.Node

	if p.tok.Is(token.ARROW) {
		arrow := p.consume()
		result := p.parseType(diag.ExpectedType)
		status.Merge(result.Status)
		if result.HasCodeCompletion() {
			return makeResult(status, ty)
		}
		resTy := result.Node
		if result.IsNull() {
			resTy = &ast.ErrorTypeRepr{Loc: p.tok.Pos}
		}
		ty = &ast.FunctionTypeRepr{Arg: ty, ArrowLoc: arrow, Result: resTy}
	}

	if !attrs.Empty() {
		ty = &ast.AttributedTypeRepr{Attrs: attrs, Type: ty}
	}
	return makeResult(status, ty)
}

// parseTypeSimple 解析不含函数箭头的类型
func (p *Parser) parseTypeSimple(id diag.ID, args ...interface{}) Result[ast.TypeRepr] {
	var res Result[ast.TypeRepr]
	switch p.tok.Type {
	case token.IDENT:
		res = p.parseTypeIdentifier()
	case token.LPAREN:
		tuple := p.parseTypeTupleBody()
		if tuple.IsNull() {
			return nullResult[ast.TypeRepr](tuple.Status)
		}
		res = makeResult[ast.TypeRepr](tuple.Status, tuple.Node)
	case token.CODE_COMPLETE:
		loc := p.consume()
		return makeResult[ast.TypeRepr](codeCompletionStatus(), &ast.ErrorTypeRepr{Loc: loc})
	default:
		p.diagnose(p.tok.Pos, id, args...)
		return nullResult[ast.TypeRepr](errorStatus())
	}
	if res.IsNull() || res.HasCodeCompletion() {
		return res
	}

	// 后缀：T?  T[]
	ty := res.Node
	for !p.tok.AtLineStart {
		switch {
		case p.tok.Is(token.OPERATOR) && p.tok.Literal[0] == '?':
			p.splitToken(1)
			ty = &ast.OptionalTypeRepr{Base: ty, QuestionLoc: p.consume()}
			continue
		case p.tok.Is(token.LBRACKET) && p.peek().Is(token.RBRACKET):
			lb := p.consume()
			ty = &ast.ArrayTypeRepr{Base: ty, Brackets: token.NewSpan(lb, p.consume())}
			continue
		}
		break
	}
	return makeResult(res.Status, ty)
}

// parseTypeIdentifier 解析 A.B<C>
func (p *Parser) parseTypeIdentifier() Result[ast.TypeRepr] {
	if p.tok.Is(token.CODE_COMPLETE) {
		loc := p.consume()
		return makeResult[ast.TypeRepr](codeCompletionStatus(), &ast.ErrorTypeRepr{Loc: loc})
	}

	var status Status
	var comps []ast.IdentComponent
	for {
		if !p.tok.Is(token.IDENT) {
			if p.tok.Is(token.CODE_COMPLETE) {
				p.consume()
				status.SetCodeCompletion()
				break
			}
			p.diagnose(p.tok.Pos, diag.ExpectedIdentifier)
			status.SetError()
			break
		}

		comp := ast.IdentComponent{Name: p.tok.Literal}
		comp.NameLoc = p.consume()
		if p.tok.StartsWithLess() {
			args, rangle, st := p.parseGenericArguments()
			status.Merge(st)
			comp.GenericArgs, comp.RAngle = args, rangle
		}
		comps = append(comps, comp)

		if status.IsError() || !p.tok.Is(token.PERIOD) {
			break
		}
		if next := p.peek(); !next.IsAny(token.IDENT, token.CODE_COMPLETE) {
			break
		}
		p.consume()
	}

	if len(comps) == 0 {
		return nullResult[ast.TypeRepr](status)
	}
	return makeResult[ast.TypeRepr](status, &ast.IdentTypeRepr{Components: comps})
}

// parseTypeIdentifierWithRecovery 解析类型名；若遇到的是元组类型等非标识符类型，
// 仍然解析它，但以 nonIdentID 报错
func (p *Parser) parseTypeIdentifierWithRecovery(id, nonIdentID diag.ID) Result[ast.TypeRepr] {
	switch p.tok.Type {
	case token.IDENT, token.CODE_COMPLETE:
		return p.parseTypeIdentifier()
	case token.LPAREN:
		loc := p.tok.Pos
		ty := p.parseType(id)
		if ty.IsNull() {
			return ty
		}
		p.diagnose(loc, nonIdentID)
		return makeResult(ty.Status|statusError, ty.Node)
	}
	p.diagnose(p.tok.Pos, id)
	return nullResult[ast.TypeRepr](errorStatus())
}

// parseGenericArguments 解析 <T, U>
func (p *Parser) parseGenericArguments() ([]ast.TypeRepr, token.Position, Status) {
	var status Status
	p.splitToken(1)
	p.consume() // '<'

	var args []ast.TypeRepr
	for {
		ty := p.parseType(diag.ExpectedType)
		status.Merge(ty.Status)
		if ty.IsNull() || ty.HasCodeCompletion() {
			return args, token.NoPos, status
		}
		args = append(args, ty.Node)
		if !p.consumeIf(token.COMMA) {
			break
		}
	}

	if !p.tok.StartsWithGreater() {
		p.diagnose(p.tok.Pos, diag.ExpectedRAngle)
		status.SetError()
		return args, token.NoPos, status
	}
	p.splitToken(1)
	return args, p.consume(), status
}

// parseTypeTupleBody 解析 (a: Int, String = "x")
func (p *Parser) parseTypeTupleBody() Result[*ast.TupleTypeRepr] {
	var status Status
	tuple := &ast.TupleTypeRepr{LParen: p.consume()}

	for !p.tok.IsAny(token.RPAREN, token.EOF) {
		var elt ast.TupleTypeElt
		if p.tok.Is(token.IDENT) && p.peek().Is(token.COLON) {
			elt.Label = p.tok.Literal
			elt.LabelLoc = p.consume()
			p.consume() // ':'
		}

		ty := p.parseType(diag.ExpectedType)
		status.Merge(ty.Status)
		if ty.HasCodeCompletion() {
			return makeResult(status, tuple)
		}
		if ty.IsNull() {
			p.skipUntil(token.RPAREN, token.RBRACE)
			break
		}
		elt.Type = ty.Node

		if p.tok.Is(token.EQUAL) {
			p.consume()
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

	rparen, ok := p.parseMatchingToken(token.RPAREN, diag.ExpectedRParen, tuple.LParen, "tuple type")
	if !ok {
		status.SetError()
	}
	tuple.RParen = rparen
	return makeResult(status, tuple)
}

// parseInheritance 解析 ': A, B'，当前 Token 为 ':'
func (p *Parser) parseInheritance() ([]ast.TypeRepr, Status) {
	var status Status
	var inherited []ast.TypeRepr
	p.consume() // ':'

	for {
		ty := p.parseTypeIdentifier()
		status.Merge(ty.Status)
		if ty.IsNull() || ty.HasCodeCompletion() {
			break
		}
		inherited = append(inherited, ty.Node)
		if !p.consumeIf(token.COMMA) {
			break
		}
	}
	return inherited, status
}

// ============================================================================
// 泛型参数列表
// ============================================================================

// maybeParseGenericParams 如果当前 Token 以 '<' 开头，解析泛型参数列表
func (p *Parser) maybeParseGenericParams() (*ast.GenericParamList, Status) {
	if !p.tok.StartsWithLess() {
		return nil, Success
	}
	p.splitToken(1)
	return p.parseGenericParameters(p.consume())
}

// parseGenericParameters 解析 '<' 之后的 T, U: P>
func (p *Parser) parseGenericParameters(langle token.Position) (*ast.GenericParamList, Status) {
	var status Status
	list := &ast.GenericParamList{LAngle: langle}

	for {
		if !p.tok.Is(token.IDENT) {
			p.diagnose(p.tok.Pos, diag.ExpectedGenericParam)
			status.SetError()
			break
		}
		name := p.tok.Literal
		nameLoc := p.consume()

		var inherited []ast.TypeRepr
		if p.tok.Is(token.COLON) {
			var st Status
			inherited, st = p.parseInheritance()
			status.Merge(st)
		}

		param := p.arena.NewGenericTypeParamDecl(p.curDC, name, nameLoc, len(list.Params), inherited)
		list.Params = append(list.Params, param.ID)
		p.addToScope(param)

		if status.HasCodeCompletion() || !p.consumeIf(token.COMMA) {
			break
		}
	}

	if !p.tok.StartsWithGreater() {
		if !status.HasCodeCompletion() {
			p.diagnose(p.tok.Pos, diag.ExpectedRAngle)
		}
		status.SetError()
		if len(list.Params) == 0 {
			return nil, status
		}
		list.RAngle = p.tok.Pos
		return list, status
	}
	p.splitToken(1)
	list.RAngle = p.consume()
	return list, status
}

// reparentGenerics 把泛型参数移入其声明的上下文
func (p *Parser) reparentGenerics(list *ast.GenericParamList, ctx ast.ContextID) {
	if list == nil {
		return
	}
	for _, id := range list.Params {
		p.arena.Reparent(id, ctx)
	}
}
