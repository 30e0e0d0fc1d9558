package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 变量与访问器
// ============================================================================
//
//   decl-var ::= 'static'? 'var' pattern initializer? (',' pattern initializer?)*
//              | 'static'? 'var' identifier ':' type '{' get-set '}'
//   get-set  ::= get set? | set get | stmt-brace-item*
//   get      ::= attribute-list 'get' stmt-brace
//   set      ::= attribute-list 'set' ('(' identifier ')')? stmt-brace
//
// 访问器是普通的 FuncDecl（Accessor 字段区分 getter/setter），
// 按源码顺序排在所属变量或下标之前。
//
// ============================================================================

// accessors 一组 get/set 访问器
type accessors struct {
	get *ast.FuncDecl
	set *ast.FuncDecl
}

// inSourceOrder 按源码顺序返回存在的访问器
func (a *accessors) inSourceOrder() []*ast.FuncDecl {
	switch {
	case a.get != nil && a.set != nil:
		if a.set.Loc.Before(a.get.Loc) {
			return []*ast.FuncDecl{a.set, a.get}
		}
		return []*ast.FuncDecl{a.get, a.set}
	case a.get != nil:
		return []*ast.FuncDecl{a.get}
	case a.set != nil:
		return []*ast.FuncDecl{a.set}
	}
	return nil
}

// newAccessor 创建访问器函数及其参数列表
//
// 参数依次为：隐式 self（在类型内）、下标参数的副本、value 参数元组。
func (p *Parser) newAccessor(kind ast.AccessorKind, loc token.Position, hasContainer bool,
	indices ast.Pattern, value *ast.TuplePattern, elemTy ast.TypeRepr, staticLoc token.Position) *ast.FuncDecl {

	bodyCtx := p.arena.NewContext(ast.FunctionContext, p.curDC)
	fd := p.arena.NewFuncDecl(p.curDC, loc, "", loc, staticLoc.IsValid(), token.NoPos, bodyCtx)
	p.arena.BindContext(bodyCtx, fd.ID)
	fd.Accessor = kind

	var params []ast.Pattern
	if hasContainer {
		self, pat := p.implicitSelf(loc)
		fd.ImplicitSelf = self.ID
		params = append(params, pat)
	}
	if indices != nil {
		params = append(params, p.arena.ClonePattern(indices, bodyCtx))
	}
	if kind == ast.Getter {
		params = append(params, emptyTuplePattern(loc))
		fd.Result = elemTy
	} else {
		params = append(params, value)
	}
	fd.Params = params
	return fd
}

// parseAccessorBody 解析 get/set 之后的 '{ ... }'
func (p *Parser) parseAccessorBody(fd *ast.FuncDecl, attrs *ast.DeclAttributes) Status {
	var status Status
	p.withScope(ScopeFunctionBody, func() {
		p.addParametersToScope(fd.Params, fd.BodyContext)
		status = p.parseAbstractFunctionBody(fd, attrs)
	})
	fd.Range = token.NewSpan(fd.Loc, p.prevLoc)
	return status
}

// parseGetSet 解析 '{' 之后的访问器列表，不消费结尾的 '}'
//
// lastValid 初始为 '{' 的位置，之后更新为最后一个完整访问器的结尾。
// 重复的 get 或 set 报告后以后出现的为准。
func (p *Parser) parseGetSet(hasContainer bool, indices ast.Pattern, elemTy ast.TypeRepr,
	acc *accessors, lastValid *token.Position, staticLoc token.Position) Status {

	var status Status
	lb := *lastValid

	for !p.tok.Is(token.RBRACE) {
		if p.tok.Is(token.EOF) {
			status.SetError()
			break
		}

		attrs := p.parseDeclAttributeList()

		if !p.tok.IsContextual("set") {
			if acc.get != nil {
				p.diagnose(p.tok.Pos, diag.DuplicateGetSet, "getter")
				p.diagnose(acc.get.Loc, diag.PreviousGetSet, "getter")
				acc.get = nil
			}

			if !p.tok.IsContextual("get") {
				// 省略 get：余下的内容都是 getter 的函数体
				fd := p.newAccessor(ast.Getter, p.tok.Pos, hasContainer, indices, nil, elemTy, staticLoc)
				fd.Attrs = attrs
				var items []ast.BraceItem
				var st Status
				p.withScope(ScopeFunctionBody, func() {
					p.addParametersToScope(fd.Params, fd.BodyContext)
					defer p.enterFunctionBody(fd)()
					items, st = p.parseBraceItems(braceBlock)
				})
				fd.SetBody(&ast.BraceStmt{LBrace: lb, Items: items, RBrace: p.tok.Pos})
				fd.Range = token.NewSpan(fd.Loc, p.prevLoc)
				acc.get = fd
				*lastValid = p.tok.Pos
				if st.HasCodeCompletion() {
					status.SetCodeCompletion()
					return status
				}
				continue
			}

			getLoc := p.consume()
			if !p.tok.Is(token.LBRACE) {
				p.diagnose(p.tok.Pos, diag.ExpectedLBraceGetSet, "getter")
				status.SetError()
				break
			}
			fd := p.newAccessor(ast.Getter, getLoc, hasContainer, indices, nil, elemTy, staticLoc)
			fd.Attrs = attrs
			st := p.parseAccessorBody(fd, &attrs)
			acc.get = fd
			*lastValid = p.prevLoc
			if st.HasCodeCompletion() {
				status.SetCodeCompletion()
				return status
			}
			continue
		}

		if acc.set != nil {
			p.diagnose(p.tok.Pos, diag.DuplicateGetSet, "setter")
			p.diagnose(acc.set.Loc, diag.PreviousGetSet, "setter")
			acc.set = nil
		}
		setLoc := p.consume()

		// set(name)
		name, nameLoc := "", setLoc
		var parens token.Span
		if p.tok.Is(token.LPAREN) {
			lp := p.consume()
			if p.tok.Is(token.IDENT) {
				name = p.tok.Literal
				nameLoc = p.consume()
				rp, ok := p.parseMatchingToken(token.RPAREN, diag.ExpectedRParenSetName, lp)
				if !ok {
					rp = nameLoc
				}
				parens = token.NewSpan(lp, rp)
			} else {
				p.diagnose(p.tok.Pos, diag.ExpectedSetName)
				p.skipUntil(token.RPAREN, token.LBRACE)
				p.consumeIf(token.RPAREN)
			}
		}
		if !p.tok.Is(token.LBRACE) {
			p.diagnose(p.tok.Pos, diag.ExpectedLBraceGetSet, "setter")
			status.SetError()
			break
		}

		implicitName := name == ""
		if implicitName {
			name = "value"
		}
		v := p.arena.NewVarDecl(p.curDC, name, nameLoc, staticLoc.IsValid())
		v.Implicit = implicitName
		value := &ast.TuplePattern{
			LParen:   parens.Start,
			Elements: []ast.TuplePatternElt{{Pattern: &ast.TypedPattern{Sub: &ast.NamedPattern{Var: v.ID, Name: name, Loc: nameLoc, Implicit: implicitName}, Type: elemTy}}},
			RParen:   parens.End,
		}
		if implicitName {
			value.LParen, value.RParen = setLoc, setLoc
		}

		fd := p.newAccessor(ast.Setter, setLoc, hasContainer, indices, value, elemTy, staticLoc)
		fd.Attrs = attrs
		st := p.parseAccessorBody(fd, &attrs)
		acc.set = fd
		*lastValid = p.prevLoc
		if st.HasCodeCompletion() {
			status.SetCodeCompletion()
			return status
		}
	}
	return status
}

// parseDeclVarGetSet 解析变量的 '{ get-set }'，成功时把变量设为计算属性
//
// 访问器的错误在此处恢复，只向上传递代码补全。
func (p *Parser) parseDeclVarGetSet(pattern ast.Pattern, hasContainer bool, staticLoc token.Position) Status {
	var primary *ast.VarDecl
	sub := pattern
	if tp, ok := sub.(*ast.TypedPattern); ok {
		sub = tp.Sub
	}
	if np, ok := sub.(*ast.NamedPattern); ok {
		primary = ast.As[*ast.VarDecl](p.arena, np.Var)
	}
	if primary == nil {
		p.diagnose(pattern.Pos(), diag.GetSetNontrivialPattern)
	}

	var ty ast.TypeRepr
	if tp, ok := pattern.(*ast.TypedPattern); ok {
		ty = tp.Type
	} else {
		if primary != nil {
			p.diagnose(pattern.Pos(), diag.GetSetMissingType)
		}
		ty = &ast.ErrorTypeRepr{Loc: pattern.Pos()}
	}

	lb := p.consume()
	lastValid := lb
	var acc accessors
	status := p.parseGetSet(hasContainer, nil, ty, &acc, &lastValid, staticLoc)
	if status.HasCodeCompletion() {
		return codeCompletionStatus()
	}
	invalid := status.IsError()

	if invalid {
		p.skipUntilDeclRBrace()
	}
	rb, ok := p.parseMatchingToken(token.RBRACE, diag.ExpectedRBraceInGetSet, lb)
	if !ok {
		rb = lastValid
	}

	if acc.set != nil && acc.get == nil {
		if !invalid {
			p.diagnose(acc.set.Loc, diag.VarSetWithoutGet)
		}
		acc.set.Invalid = true
		acc.set = nil
		invalid = true
	}

	if !invalid && primary != nil && acc.get != nil {
		setter := ast.NoDecl
		if acc.set != nil {
			setter = acc.set.ID
		}
		primary.SetComputed(token.NewSpan(lb, rb), acc.get.ID, setter)
	}
	return Success
}

// parseDeclVar 解析 var，PatternBindingDecl 与其中的变量依次追加到 entries
func (p *Parser) parseDeclVar(flags DeclFlags, attrs *ast.DeclAttributes, entries *[]ast.DeclID, staticLoc token.Position) Status {
	varLoc := p.consume()
	static := staticLoc.IsValid()
	first := len(*entries)

	var status Status
	var bindings []*ast.PatternBindingDecl
	hasGetSet := false

	for {
		pat := p.parsePattern()
		if pat.HasCodeCompletion() {
			return codeCompletionStatus()
		}
		if pat.IsNull() {
			return errorStatus()
		}
		status.Merge(pat.Status)

		if p.tok.Is(token.LBRACE) {
			if st := p.parseDeclVarGetSet(pat.Node, flags.Has(HasContainerType), staticLoc); st.HasCodeCompletion() {
				return st
			}
			hasGetSet = true
		}

		var init ast.Expr
		if p.tok.Is(token.EQUAL) {
			eq := p.consume()
			e := p.parseExpr(diag.ExpectedInitValue)
			if e.HasCodeCompletion() {
				return codeCompletionStatus()
			}
			if e.IsNull() {
				status.SetError()
				break
			}
			init = e.Node
			if hasGetSet {
				p.diagnose(pat.Node.Pos(), diag.GetSetInit).Highlight(nodeSpan(init))
				init = nil
			}
			if flags.Has(DisallowInit) {
				p.diagnose(eq, diag.DisallowedInit)
				status.SetError()
			}
		}

		pbd := p.arena.NewPatternBindingDecl(p.curDC, varLoc, pat.Node, init, static)
		*entries = append(*entries, pbd.ID)
		p.addVarsToScope(pat.Node, entries, static, attrs, pbd)

		// var a, b: T 中 a 的类型取自 b
		if tp, ok := pbd.Pattern.(*ast.TypedPattern); ok && init == nil {
			if _, named := tp.Sub.(*ast.NamedPattern); named {
				for i := len(bindings) - 1; i >= 0; i-- {
					prev := bindings[i]
					prevNamed, ok := prev.Pattern.(*ast.NamedPattern)
					if !ok || prev.Init != nil {
						break
					}
					if hasGetSet {
						p.diagnose(prevNamed.Pos(), diag.GetSetCannotBeImplied)
						status.SetError()
					}
					prev.Pattern = &ast.TypedPattern{Sub: prevNamed, Type: tp.Type}
				}
			}
		}
		bindings = append(bindings, pbd)

		if !p.consumeIf(token.COMMA) {
			break
		}
	}

	if hasGetSet {
		if len(bindings) > 1 {
			p.diagnose(varLoc, diag.DisallowedVarMultipleGetSet)
			status.SetError()
		}
		if flags.Has(DisallowComputedVar) {
			p.diagnose(varLoc, diag.DisallowedComputedVarDecl)
			status.SetError()
		}
	} else if !static && flags.Has(DisallowStoredInstanceVar) {
		p.diagnose(varLoc, diag.DisallowedStoredVarDecl)
		status.SetError()
		return status
	}

	if p.allowTopLevelCode() && p.atModuleScope() {
		p.wrapTopLevelBindings((*entries)[first:])
	}
	return status
}

// addVarsToScope 设置模式中每个变量的所属绑定与属性，追加到 entries 并登记到作用域
//
// 计算属性的访问器按源码顺序排在变量之前。
func (p *Parser) addVarsToScope(pat ast.Pattern, entries *[]ast.DeclID, static bool, attrs *ast.DeclAttributes, pbd *ast.PatternBindingDecl) {
	for _, id := range ast.PatternVars(pat) {
		v := ast.As[*ast.VarDecl](p.arena, id)
		if v == nil {
			continue
		}
		v.Static = static
		v.Binding = pbd.ID
		if !attrs.Empty() {
			v.Attrs = *attrs
		}

		if v.IsComputed() {
			acc := accessors{get: ast.As[*ast.FuncDecl](p.arena, v.Getter)}
			if v.Setter != ast.NoDecl {
				acc.set = ast.As[*ast.FuncDecl](p.arena, v.Setter)
			}
			for _, fd := range acc.inSourceOrder() {
				fd.Storage = v.ID
				*entries = append(*entries, fd.ID)
			}
		}

		*entries = append(*entries, v.ID)
		p.addToScope(v)
		p.setLocalDiscriminator(v)
	}
}

// wrapTopLevelBindings 脚本顶层的绑定是可执行代码，包装进 TopLevelCodeDecl
func (p *Parser) wrapTopLevelBindings(ids []ast.DeclID) {
	for i, id := range ids {
		pbd := ast.As[*ast.PatternBindingDecl](p.arena, id)
		if pbd == nil {
			continue
		}
		codeCtx := p.arena.NewContext(ast.TopLevelCodeContext, p.curDC)
		tlcd := p.arena.NewTopLevelCodeDecl(p.curDC, codeCtx)
		p.arena.BindContext(codeCtx, tlcd.ID)
		p.arena.Reparent(pbd.ID, codeCtx)

		pbd.Range = token.NewSpan(pbd.Loc, p.prevLoc)
		tlcd.Loc = pbd.Loc
		tlcd.Body = &ast.BraceStmt{LBrace: pbd.Loc, Items: []ast.BraceItem{{Decl: pbd.ID}}, RBrace: p.prevLoc}
		ids[i] = tlcd.ID
	}
}
