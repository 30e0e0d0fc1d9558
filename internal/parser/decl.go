package parser

import (
	"strings"

	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 声明分派
// ============================================================================
//
//   decl ::= attribute-list? 'static'? (decl-import | decl-extension | decl-var
//            | decl-typealias | decl-enum | decl-case | decl-struct | decl-class
//            | decl-protocol | decl-func | decl-init | decl-destructor
//            | decl-subscript | decl-operator)
//
// 一个声明可能产生多个条目（var 产生 PatternBindingDecl 与每个 VarDecl，
// case 产生分组与每个成员），统一追加到 entries。
//
// ============================================================================

// recoveryMarker 关键字被当作名字时附加的后缀；标识符不可能包含它
const recoveryMarker = "#"

// displayName 去掉恢复标记，用于诊断文本
func displayName(name string) string {
	return strings.TrimSuffix(name, recoveryMarker)
}

// parseDecl 解析一个声明，产生的节点追加到 entries
func (p *Parser) parseDecl(entries *[]ast.DeclID, flags DeclFlags) Status {
	var begin mark
	if p.codeCompletionFirstPass() {
		begin = p.mark()
	}
	start := p.tok.Pos
	first := len(*entries)

	attrs := p.parseDeclAttributeList()

	var staticLoc token.Position
	if p.tok.Is(token.STATIC) {
		staticLoc = p.consume()
	}
	unhandledStatic := staticLoc.IsValid()

	var result ast.Decl
	var status Status

	switch p.tok.Type {
	case token.IMPORT:
		result, status = p.parseDeclImport(flags, &attrs)
	case token.EXTENSION:
		result, status = p.parseDeclExtension(flags, &attrs)
	case token.VAR:
		if staticLoc.IsValid() {
			p.diagnoseStaticVar(staticLoc)
			unhandledStatic = false
		}
		status = p.parseDeclVar(flags, &attrs, entries, staticLoc)
	case token.TYPEALIAS:
		result, status = p.parseDeclTypeAlias(!flags.Has(DisallowTypeAliasDef), flags.Has(InProtocol), &attrs)
	case token.ENUM:
		result, status = p.parseDeclNominal(token.ENUM, flags, &attrs)
	case token.CASE:
		status = p.parseDeclEnumCase(flags, &attrs, entries)
	case token.STRUCT:
		result, status = p.parseDeclNominal(token.STRUCT, flags, &attrs)
	case token.CLASS:
		result, status = p.parseDeclNominal(token.CLASS, flags, &attrs)
	case token.PROTOCOL:
		result, status = p.parseDeclProtocol(flags, &attrs)
	case token.INIT:
		result, status = p.parseDeclConstructor(flags, &attrs)
	case token.DESTRUCTOR:
		result, status = p.parseDeclDestructor(flags, &attrs)
	case token.FUNC:
		result, status = p.parseDeclFunc(staticLoc, flags, &attrs)
		unhandledStatic = false
	case token.SUBSCRIPT:
		if staticLoc.IsValid() {
			p.diagnose(p.tok.Pos, diag.SubscriptStatic).FixItRemove(tokenSpan(staticLoc, "static"))
			unhandledStatic = false
		}
		status = p.parseDeclSubscript(flags.Has(HasContainerType), !flags.Has(DisallowFuncDef), &attrs, entries)
	case token.CODE_COMPLETE:
		p.consume()
		status.SetCodeCompletion()
	default:
		if p.tok.Is(token.IDENT) && p.isStartOfOperatorDecl() {
			result, status = p.parseDeclOperator(flags.Has(AllowTopLevel), &attrs)
			break
		}
		p.diagnose(p.tok.Pos, diag.ExpectedDecl)
		status.SetError()
	}

	if status.HasCodeCompletion() && p.codeCompletionFirstPass() && !p.atModuleScope() {
		*entries = (*entries)[:first]
		p.consumeDecl(begin, flags, false)
		return Success
	}

	if result != nil {
		*entries = append(*entries, result.Base().ID)
	}
	p.setDeclRanges((*entries)[first:], start)

	if len(*entries) > first {
		last := p.arena.Decl((*entries)[len(*entries)-1])
		if status.IsSuccess() && p.tok.Is(token.SEMICOLON) {
			last.Base().TrailingSemi = p.consume()
		}
		if status.IsSuccess() && unhandledStatic {
			p.diagnose(last.Pos(), diag.DeclNotStatic).FixItRemove(tokenSpan(staticLoc, "static"))
		}
	}
	return status
}

// setDeclRanges 设置本次解析产生的声明的源码范围
//
// 枚举成员与访问器在各自的解析函数中设置范围。
func (p *Parser) setDeclRanges(ids []ast.DeclID, start token.Position) {
	end := p.prevLoc
	if end.Before(start) {
		end = start
	}
	for _, id := range ids {
		d := p.arena.Decl(id)
		switch d := d.(type) {
		case *ast.EnumElementDecl:
			continue
		case *ast.FuncDecl:
			if d.Accessor != ast.NotAccessor {
				continue
			}
		}
		d.Base().Range = token.NewSpan(start, end)
	}
}

// diagnoseStaticVar 报告尚未支持的 static var
func (p *Parser) diagnoseStaticVar(staticLoc token.Position) {
	selector := ""
	switch nom := p.arena.Owner(p.curDC).(type) {
	case *ast.StructDecl, *ast.EnumDecl:
		if nom.(ast.NominalDecl).Nominal().Generics == nil {
			return
		}
		selector = " in generic types"
	case *ast.ClassDecl:
		selector = " in classes"
		if nom.Generics != nil {
			selector = " in generic types"
		}
	case *ast.ProtocolDecl:
		selector = " in protocols"
	}
	p.diagnose(p.tok.Pos, diag.UnimplementedStaticVar, selector).
		Highlight(token.NewSpan(staticLoc, staticLoc))
}

// consumeDecl 代码补全第一遍：记录声明的检查点并跳过它
//
// 顶层声明之后的内容全部跳过。
func (p *Parser) consumeDecl(begin mark, flags DeclFlags, topLevel bool) {
	p.restore(begin)
	beginLoc := p.tok.Pos
	beginState := p.tokStart

	for !p.tok.IsAny(token.CODE_COMPLETE, token.EOF) {
		p.consume()
	}
	p.consumeIf(token.CODE_COMPLETE)

	p.state.delayDecl(&DelayedDecl{
		Flags:    flags,
		Context:  p.curDC,
		Range:    token.NewSpan(beginLoc, p.tok.Pos),
		TopLevel: topLevel,
		begin:    beginState,
		prevLoc:  begin.prevLoc,
		end:      p.tok.Pos.Offset,
		scope:    p.scope.snapshot(),
	})

	if topLevel {
		for !p.tok.Is(token.EOF) {
			p.consume()
		}
	}
}

// ============================================================================
// 声明名
// ============================================================================

// parseDeclName 解析声明名
//
// 当前 Token 不是标识符时报告 id（id 为空则不报告）。若当前 Token 是关键字
// 且下一个 Token 是 follow 之一，把关键字加上 recoveryMarker 当作名字继续，
// 例如 "struct class {" 得到名为 "class#" 的结构体。
func (p *Parser) parseDeclName(id diag.ID, arg string, allowLess bool, follow ...token.TokenType) (string, token.Position, Status) {
	if p.tok.Is(token.IDENT) {
		name := p.tok.Literal
		return name, p.consume(), Success
	}

	if id != "" {
		p.diagnose(p.tok.Pos, id, arg)
	}
	if p.tok.IsKeyword() {
		next := p.peek()
		if next.IsAny(follow...) || (allowLess && next.StartsWithLess()) {
			name := p.tok.Literal + recoveryMarker
			return name, p.consume(), Success
		}
	}
	return "", token.NoPos, errorStatus()
}

// ============================================================================
// import
// ============================================================================

var importKinds = map[token.TokenType]ast.ImportKind{
	token.TYPEALIAS: ast.ImportTypeAlias,
	token.STRUCT:    ast.ImportStruct,
	token.CLASS:     ast.ImportClass,
	token.ENUM:      ast.ImportEnum,
	token.PROTOCOL:  ast.ImportProtocol,
	token.VAR:       ast.ImportVar,
	token.FUNC:      ast.ImportFunc,
}

// parseDeclImport 解析 import [kind] a.b.c
func (p *Parser) parseDeclImport(flags DeclFlags, attrs *ast.DeclAttributes) (ast.Decl, Status) {
	importLoc := p.consume()

	exported := attrs.IsExported()
	exportedLoc := attrs.Loc(ast.AttrExported)
	attrs.Clear(ast.AttrExported)
	if !attrs.Empty() {
		p.diagnose(attrs.AtLoc, diag.ImportAttributes)
	}

	if !flags.Has(AllowTopLevel) {
		p.diagnose(importLoc, diag.DeclInnerScope)
		return nil, errorStatus()
	}

	kind := ast.ImportModule
	var kindLoc token.Position
	if p.tok.IsKeyword() {
		k, ok := importKinds[p.tok.Type]
		if !ok {
			p.diagnose(p.tok.Pos, diag.ExpectedIdentifierInDecl, "import")
			return nil, errorStatus()
		}
		kind = k
		kindLoc = p.consume()
	}

	var path []ast.ImportPathElement
	for {
		if !p.tok.IsAny(token.IDENT, token.OPERATOR) {
			if p.tok.Is(token.CODE_COMPLETE) {
				p.consume()
				return nil, codeCompletionStatus()
			}
			p.diagnose(p.tok.Pos, diag.ExpectedIdentifierInDecl, "import")
			return nil, errorStatus()
		}
		name := p.tok.Literal
		path = append(path, ast.ImportPathElement{Name: name, Loc: p.consume()})
		if !p.consumeIf(token.PERIOD) {
			break
		}
	}

	if kind != ast.ImportModule && len(path) == 1 {
		p.diagnose(path[0].Loc, diag.DeclExpectedModuleName)
		return nil, errorStatus()
	}

	d := p.arena.NewImportDecl(p.curDC, importLoc, kind, kindLoc, path)
	if exported {
		d.Attrs.Set(ast.AttrExported, exportedLoc)
	}
	return d, Success
}

// ============================================================================
// extension
// ============================================================================

// parseDeclExtension 解析 extension T: P { members }
func (p *Parser) parseDeclExtension(flags DeclFlags, attrs *ast.DeclAttributes) (ast.Decl, Status) {
	extLoc := p.consume()
	var status Status

	ty := p.parseTypeIdentifierWithRecovery(diag.ExpectedType, diag.ExpectedIdentTypeInExtension)
	if ty.HasCodeCompletion() {
		return nil, ty.Status
	}
	status.Merge(ty.Status)
	extended := ty.Node
	if ty.IsNull() {
		if !p.tok.IsKeyword() {
			return nil, errorStatus()
		}
		name, nameLoc, st := p.parseDeclName("", "", false, token.COLON, token.LBRACE)
		if st.IsError() {
			return nil, st
		}
		extended = &ast.IdentTypeRepr{Components: []ast.IdentComponent{{Name: name, NameLoc: nameLoc}}}
		status.SetError()
	}

	var inherited []ast.TypeRepr
	if p.tok.Is(token.COLON) {
		var st Status
		inherited, st = p.parseInheritance()
		status.Merge(st)
	}

	memberCtx := p.arena.NewContext(ast.ExtensionContext, p.curDC)
	ext := p.arena.NewExtensionDecl(p.curDC, extLoc, extended, inherited, memberCtx)
	p.arena.BindContext(memberCtx, ext.ID)
	ext.Attrs = *attrs

	if !p.tok.Is(token.LBRACE) {
		p.diagnose(p.tok.Pos, diag.ExpectedLBrace, "extension")
		ext.Braces = token.NewSpan(p.tok.Pos, p.tok.Pos)
		status.SetError()
	} else {
		lb := p.consume()
		var members []ast.DeclID
		var rb token.Position
		var st Status
		func() {
			defer p.enterContext(memberCtx)()
			p.withScope(ScopeExtension, func() {
				members, rb, st = p.parseMemberList(lb, "extension", HasContainerType|DisallowStoredInstanceVar)
			})
		}()
		if st.IsError() {
			status.SetError()
		}
		ext.Members = members
		ext.Braces = token.NewSpan(lb, rb)
	}

	if !flags.Has(AllowTopLevel) {
		p.diagnose(extLoc, diag.DeclInnerScope)
		ext.Invalid = true
		status.SetError()
	}
	return ext, status
}

// ============================================================================
// typealias
// ============================================================================

// parseDeclTypeAlias 解析 typealias；协议中没有 '=' 时为关联类型
func (p *Parser) parseDeclTypeAlias(wantDefinition, inProtocol bool, attrs *ast.DeclAttributes) (ast.Decl, Status) {
	loc := p.consume()
	if !attrs.Empty() {
		p.diagnose(attrs.AtLoc, diag.TypeAliasAttributes)
	}

	name, nameLoc, status := p.parseDeclName(diag.ExpectedIdentifierInDecl, "typealias", false, token.COLON, token.EQUAL)
	if status.IsError() {
		return nil, status
	}

	var inherited []ast.TypeRepr
	if p.tok.Is(token.COLON) {
		var st Status
		inherited, st = p.parseInheritance()
		status.Merge(st)
	}

	var underlying ast.TypeRepr
	var equalLoc token.Position
	if wantDefinition || p.tok.Is(token.EQUAL) {
		var ok bool
		equalLoc, ok = p.expect(token.EQUAL, diag.ExpectedEqualInTypeAlias)
		if !ok {
			status.SetError()
		}
		ty := p.parseType(diag.ExpectedTypeInTypeAlias)
		status.Merge(ty.Status)
		if ty.IsNull() || ty.HasCodeCompletion() {
			return nil, status
		}
		underlying = ty.Node

		if !wantDefinition {
			p.diagnose(nameLoc, diag.AssociatedTypeDef, displayName(name))
			underlying = nil
		}
	}

	if inProtocol {
		d := p.arena.NewAssociatedTypeDecl(p.curDC, loc, name, nameLoc, inherited)
		p.addToScope(d)
		return d, status
	}

	d := p.arena.NewTypeAliasDecl(p.curDC, loc, name, nameLoc, underlying, inherited)
	d.EqualLoc = equalLoc
	p.addToScope(d)
	return d, status
}
