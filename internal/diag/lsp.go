package diag

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/tangzhangming/kestrel/internal/token"
)

// Source 诊断来源名
const Source = "kestrel"

// ToLSP 将诊断转换为 LSP 诊断
//
// 行列从 0 开始。没有高亮范围时覆盖到下一个字符。
func ToLSP(d *Diagnostic) protocol.Diagnostic {
	rng := protocol.Range{Start: lspPosition(d.Pos), End: lspPosition(d.Pos.Advance(1))}
	if len(d.Ranges) > 0 {
		rng.End = lspPosition(d.Ranges[0].End.Advance(1))
	}

	return protocol.Diagnostic{
		Range:    rng,
		Severity: lspSeverity(d.Level),
		Code:     d.Code,
		Source:   Source,
		Message:  d.Message,
	}
}

// PublishParams 构造 textDocument/publishDiagnostics 的参数
func PublishParams(path string, diags []*Diagnostic) protocol.PublishDiagnosticsParams {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, ToLSP(d))
	}
	return protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri.File(path)),
		Diagnostics: out,
	}
}

// FixItEdits 将诊断的修复建议转换为文本编辑
func FixItEdits(d *Diagnostic) []protocol.TextEdit {
	edits := make([]protocol.TextEdit, 0, len(d.FixIts))
	for _, fix := range d.FixIts {
		edits = append(edits, protocol.TextEdit{
			Range:   protocol.Range{Start: lspPosition(fix.Range.Start), End: lspPosition(fix.Range.End)},
			NewText: fix.Text,
		})
	}
	return edits
}

func lspPosition(p token.Position) protocol.Position {
	line, col := p.Line-1, p.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}

func lspSeverity(level Level) protocol.DiagnosticSeverity {
	switch level {
	case LevelError:
		return protocol.DiagnosticSeverityError
	case LevelWarning:
		return protocol.DiagnosticSeverityWarning
	case LevelNote:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}
