package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 顶层
// ============================================================================
//
//   source-file ::= brace-item*
//
// 库模式下顶层只允许声明；脚本模式下语句与 var 绑定包装为 TopLevelCodeDecl。
//
// ============================================================================

// Parse 解析整个源文件
//
// 每个 Parser 只应调用一次。
func (p *Parser) Parse() *ast.SourceFile {
	module := p.arena.NewContext(ast.ModuleContext, ast.NoContext)
	file := &ast.SourceFile{
		Filename: p.filename,
		Arena:    p.arena,
		Context:  module,
	}

	defer p.enterContext(module)()

	kind := braceTopLevelLibrary
	if p.allowTopLevelCode() {
		kind = braceTopLevelCode
	}

	var items []ast.BraceItem
	p.withScope(ScopeTopLevel, func() {
		items, _ = p.parseBraceItems(kind)
	})

	for _, item := range items {
		if item.Decl == ast.NoDecl {
			continue
		}
		file.Decls = append(file.Decls, item.Decl)
		if p.arena.Decl(item.Decl).Kind() == ast.KindTopLevelCode {
			file.HasTopLevelCode = true
		}
	}

	// 代码补全第一遍可能在文件中途停止
	for !p.tok.Is(token.EOF) {
		p.consume()
	}
	return file
}
