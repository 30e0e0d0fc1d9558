package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 代码块与语句
// ============================================================================

// braceItemKind 代码块条目列表的种类
type braceItemKind int

const (
	braceBlock           braceItemKind = iota // { ... } 内部，遇到 '}' 停止
	braceTopLevelLibrary                      // 库文件顶层，只允许声明
	braceTopLevelCode                         // 脚本顶层，允许语句
)

func (k braceItemKind) isTopLevel() bool { return k != braceBlock }

// parseBraceItems 解析声明、语句与表达式组成的列表
func (p *Parser) parseBraceItems(kind braceItemKind) ([]ast.BraceItem, Status) {
	var status Status
	var items []ast.BraceItem
	previousHadSemi := true

	for !p.tok.Is(token.EOF) {
		if p.tok.Is(token.RBRACE) {
			if !kind.isTopLevel() {
				break
			}
			p.skipExtraTopLevelRBraces()
			continue
		}
		if p.consumeIf(token.SEMICOLON) {
			previousHadSemi = true
			continue
		}

		start := p.tok.Pos.Offset
		begin := p.mark()

		if p.isStartOfDecl() {
			flags := NoFlags
			if kind.isTopLevel() {
				flags = AllowTopLevel
			}
			var decls []ast.DeclID
			st := p.parseDecl(&decls, flags)
			if st.HasCodeCompletion() && kind.isTopLevel() && p.codeCompletionFirstPass() {
				p.consumeDecl(begin, flags, true)
				return items, st
			}
			status.Merge(st)
			for _, id := range decls {
				items = append(items, ast.BraceItem{Decl: id})
			}
			previousHadSemi = len(decls) > 0 && p.arena.Decl(decls[len(decls)-1]).Base().HasTrailingSemi()
			if st.IsError() {
				p.skipUntilDeclStmtRBrace()
			}
		} else if kind == braceTopLevelLibrary {
			p.diagnose(p.tok.Pos, diag.ExpectedDecl)
			status.SetError()
			p.skipSingle()
			p.skipUntilDeclRBrace()
			continue
		} else {
			if !previousHadSemi && !p.tok.AtLineStart && len(items) > 0 {
				p.diagnose(p.prevEnd, diag.StmtSameLineWithoutSemi).FixItInsert(p.prevEnd, ";")
			}
			item, st := p.parseStmtItem(kind)
			status.Merge(st)
			if item != nil {
				items = append(items, *item)
			}
			if st.HasCodeCompletion() {
				return items, status
			}
			previousHadSemi = false
			if p.tok.Is(token.SEMICOLON) {
				previousHadSemi = true
				p.consume()
			}
		}

		// 没有任何进展时至少跳过一个 Token，避免死循环
		if p.tok.Pos.Offset == start && !p.tok.IsAny(token.EOF, token.RBRACE) {
			p.skipSingle()
		}
	}
	return items, status
}

// parseStmtItem 解析一条语句或表达式；脚本顶层时包装为 TopLevelCodeDecl
func (p *Parser) parseStmtItem(kind braceItemKind) (*ast.BraceItem, Status) {
	if kind != braceTopLevelCode {
		return p.parseStmtOrExpr()
	}

	codeCtx := p.arena.NewContext(ast.TopLevelCodeContext, p.curDC)
	tlcd := p.arena.NewTopLevelCodeDecl(p.curDC, codeCtx)
	p.arena.BindContext(codeCtx, tlcd.ID)

	start := p.tok.Pos
	var item *ast.BraceItem
	var status Status
	func() {
		defer p.enterContext(codeCtx)()
		item, status = p.parseStmtOrExpr()
	}()
	if item == nil {
		return nil, status
	}

	tlcd.Loc = start
	tlcd.Body = &ast.BraceStmt{LBrace: start, Items: []ast.BraceItem{*item}, RBrace: p.prevLoc}
	tlcd.Range = token.NewSpan(start, p.prevLoc)
	return &ast.BraceItem{Decl: tlcd.ID}, status
}

// parseStmtOrExpr 解析一条语句或表达式
func (p *Parser) parseStmtOrExpr() (*ast.BraceItem, Status) {
	switch p.tok.Type {
	case token.RETURN, token.IF, token.WHILE, token.LBRACE:
		s := p.parseStmt()
		if s.IsNull() {
			return nil, s.Status
		}
		return &ast.BraceItem{Stmt: s.Node}, s.Status
	}

	e := p.parseExpr(diag.ExpectedStmt)
	if e.IsNull() {
		return nil, e.Status
	}
	return &ast.BraceItem{Expr: e.Node}, e.Status
}

// parseStmt 解析语句
func (p *Parser) parseStmt() Result[ast.Stmt] {
	switch p.tok.Type {
	case token.RETURN:
		ret := &ast.ReturnStmt{Loc: p.consume()}
		if p.tok.IsAny(token.RBRACE, token.SEMICOLON, token.EOF) || p.tok.AtLineStart || p.isStartOfDecl() {
			return makeResult[ast.Stmt](Success, ret)
		}
		e := p.parseExpr(diag.ExpectedExpr)
		if !e.IsNull() {
			ret.Result = e.Node
		}
		return makeResult[ast.Stmt](e.Status, ret)

	case token.IF:
		return p.parseStmtIf()

	case token.WHILE:
		loc := p.consume()
		cond := p.parseExpr(diag.ExpectedExpr)
		if cond.IsNull() || cond.HasCodeCompletion() {
			return nullResult[ast.Stmt](cond.Status)
		}
		body := p.parseBraceStmt("while statement")
		if body.IsNull() {
			return nullResult[ast.Stmt](body.Status | cond.Status)
		}
		return makeResult[ast.Stmt](body.Status|cond.Status, &ast.WhileStmt{Loc: loc, Cond: cond.Node, Body: body.Node})

	case token.LBRACE:
		b := p.parseBraceStmt("block")
		if b.IsNull() {
			return nullResult[ast.Stmt](b.Status)
		}
		return makeResult[ast.Stmt](b.Status, b.Node)
	}

	p.diagnose(p.tok.Pos, diag.ExpectedStmt)
	return nullResult[ast.Stmt](errorStatus())
}

// parseStmtIf 解析 if cond { } else ...
func (p *Parser) parseStmtIf() Result[ast.Stmt] {
	loc := p.consume()
	cond := p.parseExpr(diag.ExpectedExpr)
	if cond.IsNull() || cond.HasCodeCompletion() {
		return nullResult[ast.Stmt](cond.Status)
	}
	status := cond.Status

	then := p.parseBraceStmt("if statement")
	status.Merge(then.Status)
	if then.IsNull() {
		return nullResult[ast.Stmt](status)
	}
	stmt := &ast.IfStmt{Loc: loc, Cond: cond.Node, Then: then.Node}

	if p.tok.Is(token.ELSE) {
		stmt.ElseLoc = p.consume()
		var els Result[ast.Stmt]
		if p.tok.Is(token.IF) {
			els = p.parseStmtIf()
		} else {
			b := p.parseBraceStmt("else clause")
			els = Result[ast.Stmt]{Node: b.Node, Status: b.Status, null: b.IsNull()}
		}
		status.Merge(els.Status)
		if !els.IsNull() {
			stmt.Else = els.Node
		}
	}
	return makeResult[ast.Stmt](status, stmt)
}

// parseBraceStmt 解析 { ... }，what 用于诊断
func (p *Parser) parseBraceStmt(what string) Result[*ast.BraceStmt] {
	if !p.tok.Is(token.LBRACE) {
		p.diagnose(p.tok.Pos, diag.ExpectedLBrace, what)
		return nullResult[*ast.BraceStmt](errorStatus())
	}
	if p.braceDepth >= maxNestingDepth {
		p.diagnose(p.tok.Pos, diag.NestingTooDeep, what)
		p.skipSingle()
		return nullResult[*ast.BraceStmt](errorStatus())
	}
	p.braceDepth++
	defer func() { p.braceDepth-- }()
	lb := p.consume()

	var items []ast.BraceItem
	var status Status
	p.withScope(ScopeBrace, func() {
		items, status = p.parseBraceItems(braceBlock)
	})
	if status.HasCodeCompletion() {
		return makeResult(status, &ast.BraceStmt{LBrace: lb, Items: items, RBrace: p.prevLoc})
	}

	rb, ok := p.parseMatchingToken(token.RBRACE, diag.ExpectedRBrace, lb, what)
	if !ok {
		status.SetError()
	}
	return makeResult(status, &ast.BraceStmt{LBrace: lb, Items: items, RBrace: rb})
}

// parseFunctionBodyBlock 解析函数体；当前 Token 必须是 '{'
func (p *Parser) parseFunctionBodyBlock() (*ast.BraceStmt, Status) {
	body := p.parseBraceStmt("function body")
	return body.Node, body.Status
}

// skipExtraTopLevelRBraces 跳过顶层多余的 '}'
func (p *Parser) skipExtraTopLevelRBraces() {
	for p.tok.Is(token.RBRACE) {
		p.diagnose(p.tok.Pos, diag.ExtraRBrace).FixItRemove(tokenSpan(p.tok.Pos, "}"))
		p.consume()
	}
}
