package diag

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/tangzhangming/kestrel/internal/i18n"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// Fix-it
// ============================================================================

// FixItKind 修复建议类型
type FixItKind int

const (
	FixInsert  FixItKind = iota // 在位置处插入文本
	FixRemove                   // 删除范围
	FixReplace                  // 用文本替换范围
)

func (k FixItKind) String() string {
	switch k {
	case FixInsert:
		return "insert"
	case FixRemove:
		return "remove"
	case FixReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// FixIt 附加在诊断上的源码修改建议
type FixIt struct {
	Kind  FixItKind
	Range token.Span // End 为排他位置；插入时 Start == End
	Text  string
}

// ============================================================================
// 诊断
// ============================================================================

// Diagnostic 一条诊断
//
// 由 Engine.Diagnose 创建，随后可链式追加高亮、修复建议与帮助信息。
type Diagnostic struct {
	ID      ID
	Level   Level
	Code    string
	Pos     token.Position
	Message string
	Args    []interface{}

	Ranges []token.Span // 高亮范围
	FixIts []FixIt      // 修复建议
	Hints  []string     // 额外的帮助信息
}

// Error 实现 error 接口
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Level, d.Message)
}

// Highlight 追加高亮范围
func (d *Diagnostic) Highlight(span token.Span) *Diagnostic {
	if span.IsValid() {
		d.Ranges = append(d.Ranges, span)
	}
	return d
}

// FixItInsert 追加插入建议
func (d *Diagnostic) FixItInsert(pos token.Position, text string) *Diagnostic {
	d.FixIts = append(d.FixIts, FixIt{Kind: FixInsert, Range: token.NewSpan(pos, pos), Text: text})
	return d
}

// FixItRemove 追加删除建议
func (d *Diagnostic) FixItRemove(span token.Span) *Diagnostic {
	d.FixIts = append(d.FixIts, FixIt{Kind: FixRemove, Range: span})
	return d
}

// FixItReplace 追加替换建议
func (d *Diagnostic) FixItReplace(span token.Span, text string) *Diagnostic {
	d.FixIts = append(d.FixIts, FixIt{Kind: FixReplace, Range: span, Text: text})
	return d
}

// Hint 追加帮助信息
func (d *Diagnostic) Hint(msg string) *Diagnostic {
	if msg != "" {
		d.Hints = append(d.Hints, msg)
	}
	return d
}

// ============================================================================
// 诊断引擎
// ============================================================================

// Engine 收集一次解析产生的全部诊断
type Engine struct {
	diags      []*Diagnostic
	errorCount int
	warnCount  int
	maxErrors  int
	dropped    int

	// OnDiagnose 每记录一条诊断时回调（可选），用于日志
	OnDiagnose func(*Diagnostic)
}

// NewEngine 创建诊断引擎
func NewEngine() *Engine {
	return &Engine{}
}

// SetMaxErrors 设置错误数量上限，0 表示不限制
//
// 超过上限后新的错误仍被计数，但不再保存。
func (e *Engine) SetMaxErrors(n int) {
	e.maxErrors = n
}

// Diagnose 在 pos 处报告 id 对应的诊断
func (e *Engine) Diagnose(pos token.Position, id ID, args ...interface{}) *Diagnostic {
	info, ok := infos[id]
	if !ok {
		info = Info{Level: LevelError, Code: "E0000"}
	}
	d := &Diagnostic{
		ID:      id,
		Level:   info.Level,
		Code:    info.Code,
		Pos:     pos,
		Message: i18n.T(string(id), args...),
		Args:    args,
	}

	switch info.Level {
	case LevelError:
		e.errorCount++
		if e.maxErrors > 0 && e.errorCount > e.maxErrors {
			e.dropped++
			return d
		}
	case LevelWarning:
		e.warnCount++
	}

	e.diags = append(e.diags, d)
	if e.OnDiagnose != nil {
		e.OnDiagnose(d)
	}
	return d
}

// Diagnostics 返回按报告顺序排列的诊断
func (e *Engine) Diagnostics() []*Diagnostic {
	return e.diags
}

// HasErrors 是否报告过错误
func (e *Engine) HasErrors() bool {
	return e.errorCount > 0
}

// ErrorCount 错误数量（含因超过上限而丢弃的）
func (e *Engine) ErrorCount() int {
	return e.errorCount
}

// WarningCount 警告数量
func (e *Engine) WarningCount() int {
	return e.warnCount
}

// Dropped 因超过上限而未保存的错误数量
func (e *Engine) Dropped() int {
	return e.dropped
}

// Filter 返回指定 ID 的诊断
func (e *Engine) Filter(id ID) []*Diagnostic {
	var out []*Diagnostic
	for _, d := range e.diags {
		if d.ID == id {
			out = append(out, d)
		}
	}
	return out
}

// Has 是否报告过指定 ID 的诊断
func (e *Engine) Has(id ID) bool {
	for _, d := range e.diags {
		if d.ID == id {
			return true
		}
	}
	return false
}

// IDs 返回全部诊断的 ID 序列
func (e *Engine) IDs() []ID {
	ids := make([]ID, len(e.diags))
	for i, d := range e.diags {
		ids[i] = d.ID
	}
	return ids
}

// Err 将全部错误级诊断合并为一个 error，没有错误时返回 nil
func (e *Engine) Err() error {
	var err error
	for _, d := range e.diags {
		if d.Level == LevelError {
			err = multierr.Append(err, d)
		}
	}
	return err
}

// Clear 清空诊断
func (e *Engine) Clear() {
	e.diags = nil
	e.errorCount = 0
	e.warnCount = 0
	e.dropped = 0
}
