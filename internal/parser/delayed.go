package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
)

// ============================================================================
// 延迟解析的恢复
// ============================================================================
//
// 检查点只记录 [begin, end) 的词法状态与当时的作用域链。恢复时用一个
// 以 end 为终点的子 Lexer 重新扫描这段源码，解析结束后还原原来的游标、
// 作用域与声明上下文，不影响正在进行的解析。
//
// ============================================================================

// ParseDelayedBody 解析之前跳过的函数体
//
// 检查点只能使用一次；没有检查点时返回 false。
func (p *Parser) ParseDelayedBody(id ast.DeclID) bool {
	cp := p.state.takeBody(id)
	if cp == nil {
		return false
	}
	fn, ok := p.arena.Decl(id).(ast.AbstractFunction)
	if !ok {
		return false
	}

	savedScope := p.scope
	p.scope = cp.scope
	defer func() { p.scope = savedScope }()

	sub := p.lex.Slice(cp.begin, cp.end)
	p.withLexer(sub, cp.prevLoc, func() {
		defer p.enterFunctionBody(fn)()
		if body, _ := p.parseFunctionBodyBlock(); body != nil {
			fn.Function().SetBody(body)
		}
	})
	return true
}

// ParseDelayedBodies 依次解析全部延迟的函数体，返回解析的数量
//
// 函数体中嵌套的函数若再次被延迟，也会在同一轮中解析。
func (p *Parser) ParseDelayedBodies() int {
	n := 0
	for {
		ids := p.state.DelayedBodies()
		if len(ids) == 0 {
			return n
		}
		for _, id := range ids {
			if p.ParseDelayedBody(id) {
				n++
			}
		}
	}
}

// ParseDelayedDecl 代码补全第二遍：重新解析第一遍中跳过的声明
//
// 返回新产生的声明；没有延迟声明时返回 nil。
func (p *Parser) ParseDelayedDecl() []ast.DeclID {
	d := p.state.takeDecl()
	if d == nil {
		return nil
	}

	savedPass := p.secondPass
	p.secondPass = true
	defer func() { p.secondPass = savedPass }()
	savedScope := p.scope
	p.scope = d.scope
	defer func() { p.scope = savedScope }()
	defer p.enterContext(d.Context)()

	var decls []ast.DeclID
	sub := p.lex.Slice(d.begin, d.end)
	p.withLexer(sub, d.prevLoc, func() {
		p.parseDecl(&decls, d.Flags)
	})
	return decls
}
