package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/token"
)

// Mode 源文件种类
type Mode int

const (
	// LibraryMode 顶层只允许声明
	LibraryMode Mode = iota
	// ScriptMode 顶层允许语句，顶层 var 包装为 TopLevelCodeDecl
	ScriptMode
)

func (m Mode) String() string {
	if m == ScriptMode {
		return "script"
	}
	return "library"
}

// DelayPredicate 决定某个函数体是否延迟解析
type DelayPredicate func(fn ast.AbstractFunction, attrs *ast.DeclAttributes, body token.Span) bool

// Options 解析选项
type Options struct {
	Mode Mode

	// DelayBodies 跳过函数体，只记录检查点
	DelayBodies bool

	// Interface 接口模式：函数可以没有函数体
	Interface bool

	// LowLevel 低级模式：允许 sil_* 等属性，init/subscript 可以没有函数体
	LowLevel bool

	// CodeCompletionOffset 代码补全位置（字节偏移），-1 表示关闭
	CodeCompletionOffset int

	// MaxErrors 错误数量上限，0 表示不限制
	MaxErrors int

	// ShouldDelay 可选；为 nil 时所有被跳过的函数体都记录检查点
	ShouldDelay DelayPredicate
}

// DefaultOptions 返回默认选项：库模式，立即解析函数体
func DefaultOptions() Options {
	return Options{CodeCompletionOffset: -1}
}

// shouldDelay 被跳过的函数体是否记录检查点
func (p *Parser) shouldDelay(fn ast.AbstractFunction, attrs *ast.DeclAttributes, body token.Span) bool {
	if p.opts.ShouldDelay == nil {
		return true
	}
	return p.opts.ShouldDelay(fn, attrs, body)
}

// ============================================================================
// 声明解析标志
// ============================================================================

// DeclFlags 控制某个位置允许哪些声明
type DeclFlags uint

const (
	AllowTopLevel DeclFlags = 1 << iota
	HasContainerType
	DisallowStoredInstanceVar
	AllowEnumElement
	DisallowComputedVar
	DisallowFuncDef
	DisallowNominalTypes
	DisallowInit
	DisallowTypeAliasDef
	InProtocol
	AllowDestructor

	// NoFlags 函数体等局部位置
	NoFlags DeclFlags = 0
)

// Has 是否包含全部给定标志
func (f DeclFlags) Has(x DeclFlags) bool { return f&x == x }
