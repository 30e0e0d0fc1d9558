package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/lexer"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// Parser - 声明解析器
// ============================================================================
//
// Parser 是一个按需拉取 Token 的递归下降解析器：
//   - 只保存当前 Token 与前一个 Token 的位置，回溯通过 mark/restore 完成
//   - 声明节点分配在 ast.Arena 中，通过句柄互相引用
//   - 诊断写入 diag.Engine，解析本身从不因错误而中止
//   - 函数体可以延迟解析，检查点保存在 State 中，之后按需恢复
//
// 使用方式：
//   p := parser.New(src, "main.kes", parser.DefaultOptions())
//   file := p.Parse()
//   if p.HasErrors() { ... p.Diagnostics() ... }
//
// ============================================================================

// maxNestingDepth 表达式、类型、模式与语句块各自的最大嵌套深度，防止栈溢出
const maxNestingDepth = 200

// Parser 语法分析器
type Parser struct {
	lex      *lexer.Lexer
	filename string
	opts     Options

	tok      token.Token    // 当前 Token
	tokStart lexer.State    // 扫描当前 Token 之前的词法状态
	prevLoc  token.Position // 上一个被消费 Token 的起始位置
	prevEnd  token.Position // 上一个被消费 Token 之后的位置
	lexErrs  int            // 已转发给诊断引擎的词法错误数

	diags *diag.Engine
	arena *ast.Arena
	state *State

	curDC        ast.ContextID // 当前声明上下文
	scope        *Scope        // 当前作用域
	fn           *funcState    // 当前函数体，函数体外为 nil
	exprDepth    int
	typeDepth    int
	patternDepth int
	braceDepth   int
	secondPass   bool // 正在重新解析代码补全时延迟的声明
}

// funcState 一个函数体内的解析状态
type funcState struct {
	discriminators map[string]int // 同名局部声明计数
}

// New 创建一个新的语法分析器
func New(source, filename string, opts Options) *Parser {
	l := lexer.New(source, filename)
	if opts.CodeCompletionOffset >= 0 {
		l.SetCodeCompletionOffset(opts.CodeCompletionOffset)
	}

	diags := diag.NewEngine()
	diags.SetMaxErrors(opts.MaxErrors)

	p := &Parser{
		lex:      l,
		filename: filename,
		opts:     opts,
		diags:    diags,
		arena:    ast.NewArena(),
		state:    NewState(),
	}
	p.next()
	return p
}

// ParseFile 解析一个源文件，返回 AST 与诊断
func ParseFile(source, filename string, opts Options) (*ast.SourceFile, *diag.Engine) {
	p := New(source, filename, opts)
	return p.Parse(), p.Diagnostics()
}

// Diagnostics 返回诊断引擎
func (p *Parser) Diagnostics() *diag.Engine {
	return p.diags
}

// Errors 返回全部错误级诊断
func (p *Parser) Errors() []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, d := range p.diags.Diagnostics() {
		if d.Level == diag.LevelError {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors 检查是否有错误
func (p *Parser) HasErrors() bool {
	return p.diags.HasErrors()
}

// Arena 返回声明存储
func (p *Parser) Arena() *ast.Arena {
	return p.arena
}

// State 返回延迟解析状态
func (p *Parser) State() *State {
	return p.state
}

// Options 返回解析选项
func (p *Parser) Options() Options {
	return p.opts
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) diagnose(pos token.Position, id diag.ID, args ...interface{}) *diag.Diagnostic {
	return p.diags.Diagnose(pos, id, args...)
}

// allowTopLevelCode 是否为脚本模式（允许顶层语句）
func (p *Parser) allowTopLevelCode() bool {
	return p.opts.Mode == ScriptMode
}

// codeCompletionFirstPass 是否处于代码补全的第一遍解析
func (p *Parser) codeCompletionFirstPass() bool {
	return p.opts.CodeCompletionOffset >= 0 && !p.secondPass
}

// delayedParsing 函数体是否应跳过、留待之后解析
func (p *Parser) delayedParsing() bool {
	return p.opts.DelayBodies || p.codeCompletionFirstPass()
}

// atModuleScope 当前声明上下文是否为模块
func (p *Parser) atModuleScope() bool {
	c := p.arena.Context(p.curDC)
	return c != nil && c.IsModule()
}

// enterContext 切换当前声明上下文，返回恢复函数
//
//	defer p.enterContext(ctx)()
func (p *Parser) enterContext(ctx ast.ContextID) func() {
	old := p.curDC
	p.curDC = ctx
	return func() { p.curDC = old }
}

// enterFunctionBody 进入函数体：切换到函数体上下文并开始新的局部计数
func (p *Parser) enterFunctionBody(fn ast.AbstractFunction) func() {
	oldDC, oldFn := p.curDC, p.fn
	p.curDC = fn.Function().BodyContext
	p.fn = &funcState{discriminators: make(map[string]int)}
	return func() {
		p.curDC, p.fn = oldDC, oldFn
	}
}

// setLocalDiscriminator 为函数体内的局部声明分配同名序号
func (p *Parser) setLocalDiscriminator(d ast.ValueDecl) {
	if p.fn == nil {
		return
	}
	v := d.Value()
	if v.Name == "" {
		return
	}
	v.LocalDiscriminator = p.fn.discriminators[v.Name]
	p.fn.discriminators[v.Name]++
}

// tokenSpan 返回从 pos 开始、长度为 len(text) 的排他范围（用于 fix-it）
func tokenSpan(pos token.Position, text string) token.Span {
	return token.NewSpan(pos, pos.Advance(len(text)))
}

// nodeSpan 返回节点的高亮范围
func nodeSpan(n ast.Node) token.Span {
	return token.NewSpan(n.Pos(), n.End())
}
