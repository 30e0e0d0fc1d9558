package parser

import (
	"strings"

	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 函数类声明：func / init / destructor / subscript
// ============================================================================
//
//   decl-func       ::= 'static'? 'func' any-identifier generic-params?
//                       func-signature stmt-brace?
//   func-signature  ::= pattern-tuple+ ('->' type)?
//   decl-init       ::= 'init' generic-params? pattern-tuple stmt-brace
//   decl-destructor ::= 'destructor' '(' ')' stmt-brace
//   decl-subscript  ::= 'subscript' pattern-tuple '->' type '{' get-set '}'
//
// 函数体可以立即解析，也可以只匹配括号、记录检查点，留待 ParseDelayedBody。
//
// ============================================================================

// parseFunctionSignature 解析一个或多个参数元组与可选的返回类型
func (p *Parser) parseFunctionSignature(what string) ([]ast.Pattern, token.Position, ast.TypeRepr, Status) {
	var status Status
	var params []ast.Pattern

	if !p.tok.Is(token.LPAREN) {
		p.diagnose(p.tok.Pos, diag.ExpectedLParen, what)
		status.SetError()
		params = append(params, emptyTuplePattern(p.tok.Pos))
	}
	for p.tok.Is(token.LPAREN) && (len(params) == 0 || !p.tok.AtLineStart) {
		tuple := p.parsePatternTuple(true)
		status.Merge(tuple.Status)
		params = append(params, tuple.Node)
		if tuple.HasCodeCompletion() {
			return params, token.NoPos, nil, status
		}
	}

	if !p.tok.Is(token.ARROW) {
		return params, token.NoPos, nil, status
	}
	arrow := p.consume()
	ty := p.parseType(diag.ExpectedType)
	status.Merge(ty.Status)
	if ty.IsNull() {
		return params, arrow, nil, status
	}
	return params, arrow, ty.Node, status
}

// parseDeclFunc 解析 func 声明
func (p *Parser) parseDeclFunc(staticLoc token.Position, flags DeclFlags, attrs *ast.DeclAttributes) (ast.Decl, Status) {
	hasContainer := flags.Has(HasContainerType)

	if staticLoc.IsValid() && !hasContainer {
		p.diagnose(p.tok.Pos, diag.StaticFuncDeclGlobalScope).FixItRemove(token.NewSpan(staticLoc, p.tok.Pos))
		staticLoc = token.NoPos
	}
	funcLoc := p.consume()

	if !flags.Has(AllowTopLevel) && !flags.Has(DisallowFuncDef) && p.tok.IsAnyOperator() {
		p.diagnose(p.tok.Pos, diag.FuncDeclNonglobalOperator)
		return nil, errorStatus()
	}

	var name string
	var nameLoc token.Position
	if p.tok.IsAny(token.IDENT, token.OPERATOR) {
		name = p.tok.Literal
		nameLoc = p.consume()
	} else {
		var st Status
		name, nameLoc, st = p.parseDeclName(diag.ExpectedIdentifierInDecl, "function", false, token.LPAREN, token.ARROW, token.LBRACE)
		if st.IsError() {
			return nil, st
		}
	}

	var fd *ast.FuncDecl
	var status Status
	p.withScope(ScopeGenerics, func() {
		var generics *ast.GenericParamList
		// "func ==<T>" 中 '<' 被词法分析器并入了运算符
		if len(name) > 1 && strings.HasSuffix(name, "<") && p.tok.Is(token.IDENT) {
			name = name[:len(name)-1]
			generics, status = p.parseGenericParameters(nameLoc.Advance(len(name)))
		} else {
			generics, status = p.maybeParseGenericParams()
		}

		var params []ast.Pattern
		var self *ast.VarDecl
		if hasContainer {
			var selfPat ast.Pattern
			self, selfPat = p.implicitSelf(nameLoc)
			params = append(params, selfPat)
		}

		sig, arrow, result, sigStatus := p.parseFunctionSignature("function declaration")
		status.Merge(sigStatus)
		params = append(params, sig...)
		if sigStatus.HasCodeCompletion() && p.codeCompletionFirstPass() {
			return
		}

		p.withScope(ScopeFunctionBody, func() {
			bodyCtx := p.arena.NewContext(ast.FunctionContext, p.curDC)
			fd = p.arena.NewFuncDecl(p.curDC, funcLoc, name, nameLoc, staticLoc.IsValid(), staticLoc, bodyCtx)
			p.arena.BindContext(bodyCtx, fd.ID)
			fd.Generics = generics
			fd.Params = params
			fd.ArrowLoc = arrow
			fd.Result = result
			fd.Attrs = *attrs
			if self != nil {
				fd.ImplicitSelf = self.ID
			}

			p.addParametersToScope(params, bodyCtx)
			p.setLocalDiscriminator(fd)
			p.reparentGenerics(generics, bodyCtx)

			switch {
			case p.tok.Is(token.LBRACE) && flags.Has(DisallowFuncDef):
				p.diagnose(p.tok.Pos, diag.DisallowedFuncDef)
				p.skipSingle()
			case p.tok.Is(token.LBRACE):
				status.Merge(p.parseAbstractFunctionBody(fd, attrs))
				// 补全位置在签名中时不挂接函数体
				if sigStatus.HasCodeCompletion() && fd.BodyKind == ast.BodyParsed {
					fd.Body = nil
					fd.BodyKind = ast.BodySkipped
				}
			case !attrs.HasAsmName() && !flags.Has(DisallowFuncDef) && !sigStatus.IsError() &&
				!p.opts.LowLevel && !p.opts.Interface:
				p.diagnose(p.tok.Pos, diag.FuncDeclWithoutBrace)
			}
		})
	})

	if fd == nil {
		return nil, status
	}
	p.addToScope(fd)
	return fd, status
}

// parseDeclConstructor 解析 init 声明
func (p *Parser) parseDeclConstructor(flags DeclFlags, attrs *ast.DeclAttributes) (ast.Decl, Status) {
	loc := p.consume()

	notAllowed := !flags.Has(HasContainerType) || flags.Has(InProtocol)
	if notAllowed {
		p.diagnose(p.tok.Pos, diag.InitializerDeclWrongScope)
	}

	var cd *ast.ConstructorDecl
	var status Status
	p.withScope(ScopeGenerics, func() {
		var generics *ast.GenericParamList
		generics, status = p.maybeParseGenericParams()

		var args ast.Pattern
		var sigStatus Status
		if p.tok.Is(token.LPAREN) {
			tuple := p.parsePatternTuple(true)
			args, sigStatus = tuple.Node, tuple.Status
		} else {
			p.diagnose(p.tok.Pos, diag.ExpectedLParen, "initializer declaration")
			args, sigStatus = emptyTuplePattern(p.tok.Pos), errorStatus()
		}
		status.Merge(sigStatus)
		if sigStatus.HasCodeCompletion() && p.codeCompletionFirstPass() {
			return
		}

		self, _ := p.implicitSelf(loc)

		p.withScope(ScopeConstructorBody, func() {
			bodyCtx := p.arena.NewContext(ast.FunctionContext, p.curDC)
			c := p.arena.NewConstructorDecl(p.curDC, loc, bodyCtx)
			p.arena.BindContext(bodyCtx, c.ID)
			p.arena.Reparent(self.ID, bodyCtx)
			c.Generics = generics
			c.Params = []ast.Pattern{args}
			c.ImplicitSelf = self.ID
			c.Invalid = notAllowed

			p.reparentGenerics(generics, bodyCtx)
			p.addParametersToScope(c.Params, bodyCtx)
			p.addToScope(self)

			if !p.tok.Is(token.LBRACE) {
				if p.opts.LowLevel {
					cd = c
					return
				}
				if !sigStatus.IsError() {
					p.diagnose(p.tok.Pos, diag.ExpectedLBrace, "initializer")
				}
				status.SetError()
				return
			}
			status.Merge(p.parseAbstractFunctionBody(c, attrs))
			cd = c
		})
	})

	if cd == nil {
		return nil, status
	}
	cd.Attrs = *attrs
	return cd, status
}

// parseDeclDestructor 解析 destructor 声明
func (p *Parser) parseDeclDestructor(flags DeclFlags, attrs *ast.DeclAttributes) (ast.Decl, Status) {
	loc := p.consume()
	var status Status

	var params *ast.TuplePattern
	if p.tok.Is(token.LPAREN) {
		lparen := p.tok.Pos
		tuple := p.parsePatternTuple(true)
		params = tuple.Node
		if tuple.HasCodeCompletion() {
			status.SetCodeCompletion()
		}
		if !tuple.IsError() && len(params.Elements) > 0 {
			first := params.Elements[0].Pattern
			p.diagnose(lparen, diag.DestructorParamNonemptyTuple).
				FixItRemove(token.NewSpan(first.Pos(), params.RParen))
			params = &ast.TuplePattern{LParen: lparen, RParen: params.RParen}
		}
	} else {
		after := p.prevEnd
		p.diagnose(after, diag.ExpectedLParenDestructor).FixItInsert(after, "()")
		params = emptyTuplePattern(p.tok.Pos)
	}

	if !p.tok.Is(token.LBRACE) && !p.opts.LowLevel {
		p.diagnose(p.tok.Pos, diag.ExpectedLBrace, "destructor")
		return nil, status | errorStatus()
	}

	self, _ := p.implicitSelf(loc)

	var dd *ast.DestructorDecl
	p.withScope(ScopeDestructorBody, func() {
		bodyCtx := p.arena.NewContext(ast.FunctionContext, p.curDC)
		dd = p.arena.NewDestructorDecl(p.curDC, loc, bodyCtx)
		p.arena.BindContext(bodyCtx, dd.ID)
		p.arena.Reparent(self.ID, bodyCtx)
		dd.Params = []ast.Pattern{params}
		dd.ImplicitSelf = self.ID
		p.addToScope(self)

		if p.tok.Is(token.LBRACE) {
			status.Merge(p.parseAbstractFunctionBody(dd, attrs))
		}
	})
	dd.Attrs = *attrs

	if !flags.Has(AllowDestructor) {
		p.diagnose(loc, diag.DestructorDeclOutsideClass)
		dd.Invalid = true
	}
	return dd, status
}

// parseDeclSubscript 解析 subscript 声明，成功时追加下标及其访问器
func (p *Parser) parseDeclSubscript(hasContainer, needDefinition bool, attrs *ast.DeclAttributes, entries *[]ast.DeclID) Status {
	var status Status
	loc := p.consume()

	if !p.tok.Is(token.LPAREN) {
		p.diagnose(p.tok.Pos, diag.ExpectedLParenSubscript)
		return errorStatus()
	}
	indices := p.parsePatternTuple(false)
	if indices.IsNull() || indices.HasCodeCompletion() {
		return indices.Status
	}

	if !p.tok.Is(token.ARROW) {
		p.diagnose(p.tok.Pos, diag.ExpectedArrowSubscript)
		return errorStatus()
	}
	arrow := p.consume()

	elemTy := p.parseType(diag.ExpectedTypeSubscript)
	if elemTy.IsNull() || elemTy.HasCodeCompletion() {
		return elemTy.Status
	}

	var braces token.Span
	var acc accessors
	if p.tok.Is(token.LBRACE) {
		lb := p.consume()
		lastValid := lb
		status.Merge(p.parseGetSet(hasContainer, indices.Node, elemTy.Node, &acc, &lastValid, token.NoPos))

		var rb token.Position
		if status.IsError() {
			p.skipUntilDeclRBrace()
		}
		if r, ok := p.parseMatchingToken(token.RBRACE, diag.ExpectedRBraceInGetSet, lb); ok {
			rb = r
		} else {
			rb = lastValid
		}

		if acc.get == nil {
			if status.IsSuccess() {
				p.diagnose(loc, diag.SubscriptWithoutGet)
			}
			status.SetError()
		}
		braces = token.NewSpan(lb, rb)
	} else if needDefinition && !p.opts.LowLevel {
		p.diagnose(p.tok.Pos, diag.ExpectedLBrace, "subscript")
		return errorStatus()
	}

	if !hasContainer {
		p.diagnose(loc, diag.SubscriptDeclWrongScope)
		status.SetError()
	}
	if !status.IsSuccess() {
		return status
	}

	sd := p.arena.NewSubscriptDecl(p.curDC, loc, indices.Node, arrow, elemTy.Node)
	sd.Braces = braces
	sd.Attrs = *attrs
	*entries = append(*entries, sd.ID)

	if acc.get != nil {
		sd.Getter = acc.get.ID
	}
	if acc.set != nil {
		sd.Setter = acc.set.ID
	}
	for _, fd := range acc.inSourceOrder() {
		fd.Storage = sd.ID
		*entries = append(*entries, fd.ID)
	}
	return status
}

// ============================================================================
// 函数体
// ============================================================================

// parseAbstractFunctionBody 解析函数体，或在延迟解析时跳过它
//
// 当前 Token 必须是 '{'。
func (p *Parser) parseAbstractFunctionBody(fn ast.AbstractFunction, attrs *ast.DeclAttributes) Status {
	defer p.enterFunctionBody(fn)()

	if p.delayedParsing() {
		p.consumeAbstractFunctionBody(fn, attrs)
		return Success
	}
	body, status := p.parseFunctionBodyBlock()
	if body != nil {
		fn.Function().SetBody(body)
	}
	return status
}

// consumeAbstractFunctionBody 按括号配对跳过函数体并记录检查点
//
// 到达文件末尾仍未配对时，回到 '{' 之后，只跳过 var 与非声明 Token，
// 在下一个声明之前截断。
func (p *Parser) consumeAbstractFunctionBody(fn ast.AbstractFunction, attrs *ast.DeclAttributes) {
	begin := p.mark()
	beginState := p.tokStart
	start := p.consume() // '{'

	open := 1
	sawCompletion := false
	for open > 0 && !p.tok.Is(token.EOF) {
		switch p.tok.Type {
		case token.LBRACE:
			open++
		case token.RBRACE:
			open--
		case token.CODE_COMPLETE:
			sawCompletion = true
		}
		p.consume()
	}

	if open != 0 && !sawCompletion {
		p.restore(begin)
		p.consume()
		for p.tok.Is(token.VAR) || (!p.tok.Is(token.EOF) && !p.isStartOfDecl()) {
			p.consume()
		}
	}

	f := fn.Function()
	f.BodyRange = token.NewSpan(start, p.prevLoc)
	if !p.shouldDelay(fn, attrs, f.BodyRange) {
		f.BodyKind = ast.BodySkipped
		return
	}
	p.state.delayBody(fn.Base().ID, &bodyCheckpoint{
		begin:   beginState,
		prevLoc: begin.prevLoc,
		end:     p.prevEnd.Offset,
		scope:   p.scope.snapshot(),
	})
	f.BodyKind = ast.BodyDelayed
}
