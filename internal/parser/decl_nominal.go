package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 名义类型：enum / struct / class / protocol
// ============================================================================
//
//   decl-nominal  ::= ('enum'|'struct'|'class') name generic-params? inheritance?
//                     '{' decl* '}'
//   decl-protocol ::= 'protocol' name inheritance? '{' decl* '}'
//
// 泛型参数在独立的作用域中解析，之后移入类型的成员上下文。
//
// ============================================================================

// memberFlags 各种名义类型的成员限制
var memberFlags = map[token.TokenType]DeclFlags{
	token.ENUM:   HasContainerType | AllowEnumElement | DisallowStoredInstanceVar,
	token.STRUCT: HasContainerType,
	token.CLASS:  HasContainerType | AllowDestructor,
}

// protocolMemberFlags 协议成员只能是声明，不能带定义
const protocolMemberFlags = HasContainerType | DisallowComputedVar | DisallowFuncDef |
	DisallowNominalTypes | DisallowInit | DisallowTypeAliasDef | InProtocol

// parseDeclNominal 解析 enum、struct 或 class
func (p *Parser) parseDeclNominal(kw token.TokenType, flags DeclFlags, attrs *ast.DeclAttributes) (ast.Decl, Status) {
	loc := p.consume()
	what := kw.String()

	name, nameLoc, status := p.parseDeclName(diag.ExpectedIdentifierInDecl, what, true, token.COLON, token.LBRACE)
	if status.IsError() {
		return nil, status
	}

	var generics *ast.GenericParamList
	p.withScope(ScopeGenerics, func() {
		var st Status
		generics, st = p.maybeParseGenericParams()
		status.Merge(st)
	})

	memberCtx := p.arena.NewContext(ast.TypeContext, p.curDC)
	var d ast.NominalDecl
	switch kw {
	case token.ENUM:
		d = p.arena.NewEnumDecl(p.curDC, loc, name, nameLoc, generics, nil, memberCtx)
	case token.STRUCT:
		d = p.arena.NewStructDecl(p.curDC, loc, name, nameLoc, generics, nil, memberCtx)
	default:
		d = p.arena.NewClassDecl(p.curDC, loc, name, nameLoc, generics, nil, memberCtx)
	}
	p.arena.BindContext(memberCtx, d.Base().ID)
	p.setLocalDiscriminator(d)
	d.Base().Attrs = *attrs
	p.reparentGenerics(generics, memberCtx)

	nom := d.Nominal()
	if p.tok.Is(token.COLON) {
		func() {
			defer p.enterContext(memberCtx)()
			var st Status
			nom.Inherited, st = p.parseInheritance()
			status.Merge(st)
		}()
	}

	if p.tok.Is(token.LBRACE) {
		lb := p.consume()
		func() {
			defer p.enterContext(memberCtx)()
			p.withScope(ScopeNominalBody, func() {
				var rb token.Position
				var st Status
				nom.Members, rb, st = p.parseMemberList(lb, what, memberFlags[kw])
				nom.Braces = token.NewSpan(lb, rb)
				status.Merge(st)
			})
		}()
	} else {
		p.diagnose(p.tok.Pos, diag.ExpectedLBrace, what)
		nom.Braces = token.NewSpan(p.tok.Pos, p.tok.Pos)
		status.SetError()
	}
	p.addToScope(d)

	if flags.Has(DisallowNominalTypes) {
		p.diagnose(loc, diag.DisallowedType)
		status.SetError()
	}
	return d, status
}

// parseDeclProtocol 解析 protocol
func (p *Parser) parseDeclProtocol(flags DeclFlags, attrs *ast.DeclAttributes) (ast.Decl, Status) {
	loc := p.consume()

	name, nameLoc, status := p.parseDeclName(diag.ExpectedIdentifierInDecl, "protocol", false, token.COLON, token.LBRACE)
	if status.IsError() {
		return nil, status
	}

	var inherited []ast.TypeRepr
	if p.tok.Is(token.COLON) {
		var st Status
		inherited, st = p.parseInheritance()
		status.Merge(st)
	}

	memberCtx := p.arena.NewContext(ast.TypeContext, p.curDC)
	proto := p.arena.NewProtocolDecl(p.curDC, loc, name, nameLoc, inherited, memberCtx)
	p.arena.BindContext(memberCtx, proto.ID)
	proto.Attrs = *attrs

	func() {
		defer p.enterContext(memberCtx)()
		p.withScope(ScopeProtocolBody, func() {
			if !p.tok.Is(token.LBRACE) {
				p.diagnose(p.tok.Pos, diag.ExpectedLBrace, "protocol")
				proto.Braces = token.NewSpan(p.tok.Pos, p.tok.Pos)
				status.SetError()
				return
			}
			lb := p.consume()
			members, rb, st := p.parseMemberList(lb, "protocol", protocolMemberFlags)
			proto.Members = members
			proto.Braces = token.NewSpan(lb, rb)
			status.Merge(st)
		})
	}()
	p.addToScope(proto)

	switch {
	case flags.Has(DisallowNominalTypes):
		p.diagnose(loc, diag.DisallowedType)
		status.SetError()
	case !flags.Has(AllowTopLevel):
		p.diagnose(loc, diag.DeclInnerScope)
		status.SetError()
	}
	return proto, status
}

// parseMemberList 解析 '{' 之后的成员列表直到配对的 '}'
//
// 成员自身的错误已经恢复，只有缺少 '}' 或嵌套过深时返回错误状态。
func (p *Parser) parseMemberList(lb token.Position, what string, flags DeclFlags) ([]ast.DeclID, token.Position, Status) {
	var status Status
	var members []ast.DeclID
	previousHadSemi := true

	p.braceDepth++
	defer func() { p.braceDepth-- }()
	if p.braceDepth > maxNestingDepth {
		p.diagnose(p.tok.Pos, diag.NestingTooDeep, what)
		status.SetError()
		p.skipUntil(token.RBRACE)
	}

	for !p.tok.IsAny(token.RBRACE, token.EOF) {
		if p.consumeIf(token.SEMICOLON) {
			previousHadSemi = true
			continue
		}
		if !previousHadSemi && !p.tok.AtLineStart {
			end := p.prevEnd
			p.diagnose(end, diag.SameLineWithoutSemi).FixItInsert(end, ";")
		}

		start := p.tok.Pos.Offset
		st := p.parseDecl(&members, flags)
		if st.HasCodeCompletion() {
			status.SetCodeCompletion()
		}
		previousHadSemi = len(members) > 0 && p.arena.Decl(members[len(members)-1]).Base().HasTrailingSemi()

		if st.IsError() {
			p.skipUntilDeclRBrace()
		}
		if p.tok.Pos.Offset == start && !p.tok.IsAny(token.RBRACE, token.EOF) {
			p.skipSingle()
		}
	}

	rb, ok := p.parseMatchingToken(token.RBRACE, diag.ExpectedRBrace, lb, what)
	if !ok {
		status.SetError()
	}
	return members, rb, status
}

// ============================================================================
// 枚举成员
// ============================================================================

// parseDeclEnumCase 解析 case A, B(Int) = 1
//
// 成功时先追加 EnumCaseDecl，再依次追加各个 EnumElementDecl。
func (p *Parser) parseDeclEnumCase(flags DeclFlags, attrs *ast.DeclAttributes, entries *[]ast.DeclID) Status {
	var status Status
	caseLoc := p.consume()

	var elements []*ast.EnumElementDecl
	var commaLoc token.Position
	for {
		notIdent := !p.tok.Is(token.IDENT)
		name, nameLoc, st := p.parseDeclName("", "", false, token.LPAREN, token.CASE, token.COLON, token.RBRACE)
		if st.IsError() {
			nameLoc = caseLoc
			// "case X, case Y"
			if p.tok.Is(token.CASE) && commaLoc.IsValid() {
				p.diagnose(p.tok.Pos, diag.ExpectedIdentAfterCaseComma)
				return status
			}
			// 可能是 switch 的 case 标签
			p.skipUntilTokenOrDecl(token.COLON, token.WHERE)
		}
		if notIdent {
			if p.consumeIf(token.COLON) {
				p.diagnose(caseLoc, diag.CaseOutsideOfSwitch)
				status.SetError()
				return status
			}
			if commaLoc.IsValid() {
				p.diagnose(p.tok.Pos, diag.ExpectedIdentAfterCaseComma)
				return status
			}
			p.diagnose(caseLoc, diag.ExpectedIdentifierInDecl, "enum case")
		}

		var argType ast.TypeRepr
		if p.tok.Is(token.LPAREN) && !p.tok.AtLineStart {
			tuple := p.parseTypeTupleBody()
			if tuple.HasCodeCompletion() {
				status.SetCodeCompletion()
				return status
			}
			if tuple.IsNull() {
				status.SetError()
				return status
			}
			status.Merge(tuple.Status)
			argType = tuple.Node
		}

		var equalsLoc token.Position
		var rawValue ast.Expr
		if p.tok.Is(token.EQUAL) {
			equalsLoc = p.consume()
			raw := p.parseExpr(diag.ExpectedExprEnumCaseRawValue)
			if raw.HasCodeCompletion() {
				status.SetCodeCompletion()
				return status
			}
			if raw.IsNull() {
				status.SetError()
				return status
			}
			if isRawValueLiteral(raw.Node) {
				rawValue = raw.Node
			} else {
				p.diagnose(raw.Node.Pos(), diag.NonliteralEnumCaseRawValue)
			}
		}

		// "case X:" 或 "case X where ...:"
		if p.tok.IsAny(token.COLON, token.WHERE) {
			p.diagnose(caseLoc, diag.CaseOutsideOfSwitch)
			p.skipUntilDeclRBrace()
			status.SetError()
			return status
		}

		elt := p.arena.NewEnumElementDecl(p.curDC, name, nameLoc, argType, equalsLoc, rawValue)
		elt.Attrs = *attrs
		elt.Range = token.NewSpan(nameLoc, p.prevLoc)
		elements = append(elements, elt)

		if !p.tok.Is(token.COMMA) {
			break
		}
		commaLoc = p.consume()
	}

	if !flags.Has(AllowEnumElement) {
		p.diagnose(caseLoc, diag.DisallowedEnumElement)
		for _, elt := range elements {
			elt.Invalid = true
		}
		status.SetError()
		return status
	}

	ids := make([]ast.DeclID, len(elements))
	for i, elt := range elements {
		ids[i] = elt.ID
	}
	group := p.arena.NewEnumCaseDecl(p.curDC, caseLoc, ids)
	*entries = append(*entries, group.ID)
	*entries = append(*entries, ids...)
	return status
}
