package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/tangzhangming/kestrel/internal/i18n"
)

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 诊断格式化器
//
// 输出格式：
//
//	error[E0201]: static variables not yet supported in classes
//	 --> main.kes:3:5
//	  |
//	3 |     static var x: Int
//	  |     ^
//	  = help: remove this
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	ShowFixIts bool // 是否显示修复建议
	TabWidth   int  // Tab 宽度

	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	green  *color.Color
	blue   *color.Color
	bold   *color.Color
}

// NewFormatter 创建默认格式化器，输出到终端时启用颜色
func NewFormatter() *Formatter {
	f := &Formatter{
		ShowSource: true,
		ShowFixIts: true,
		TabWidth:   4,
		red:        color.New(color.FgRed, color.Bold),
		yellow:     color.New(color.FgYellow, color.Bold),
		cyan:       color.New(color.FgCyan),
		green:      color.New(color.FgGreen, color.Bold),
		blue:       color.New(color.FgBlue, color.Bold),
		bold:       color.New(color.Bold),
	}
	f.SetColors(IsTerminal(os.Stderr))
	return f
}

// IsTerminal 判断文件是否连接到终端
func IsTerminal(file *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetColors 启用或关闭颜色
func (f *Formatter) SetColors(enabled bool) {
	f.Colors = enabled
	for _, c := range []*color.Color{f.red, f.yellow, f.cyan, f.green, f.blue, f.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Format 格式化单条诊断，lines 为所在文件的源码行（可为 nil）
func (f *Formatter) Format(d *Diagnostic, lines []string) string {
	var sb strings.Builder

	lc := f.levelColor(d.Level)
	sb.WriteString(lc.Sprintf("%s[%s]", d.Level, d.Code))
	sb.WriteString(f.bold.Sprintf(": %s", d.Message))
	sb.WriteByte('\n')

	sb.WriteString(fmt.Sprintf(" %s %s\n", f.cyan.Sprint("-->"), f.cyan.Sprint(d.Pos.String())))

	if f.ShowSource && d.Pos.Line > 0 && d.Pos.Line <= len(lines) {
		sb.WriteString(f.formatSource(d, lines))
	}

	for _, hint := range d.Hints {
		sb.WriteString(fmt.Sprintf("%s %s\n", f.cyan.Sprint(" = help:"), hint))
	}
	if f.ShowFixIts {
		for _, fix := range d.FixIts {
			sb.WriteString(fmt.Sprintf("%s %s\n", f.green.Sprint(" = fix:"), FixItText(fix)))
		}
	}
	return sb.String()
}

// FormatAll 格式化一组诊断并写入 w
func (f *Formatter) FormatAll(w io.Writer, diags []*Diagnostic, source string) {
	lines := strings.Split(source, "\n")
	for _, d := range diags {
		fmt.Fprintln(w, f.Format(d, lines))
	}
}

// FixItText 返回修复建议的可读描述
func FixItText(fix FixIt) string {
	switch fix.Kind {
	case FixInsert:
		return i18n.T(i18n.FixItInsertMsg, fix.Text)
	case FixRemove:
		return i18n.T(i18n.FixItRemoveMsg)
	default:
		return i18n.T(i18n.FixItReplaceMsg, fix.Text)
	}
}

// formatSource 输出源码行与标注
func (f *Formatter) formatSource(d *Diagnostic, lines []string) string {
	var sb strings.Builder

	line := lines[d.Pos.Line-1]
	width := len(fmt.Sprintf("%d", d.Pos.Line))
	gutter := f.blue.Sprint(strings.Repeat(" ", width) + " |")

	sb.WriteString(gutter + "\n")
	sb.WriteString(f.blue.Sprintf("%*d |", width, d.Pos.Line))
	sb.WriteString(" " + f.expandTabs(line) + "\n")

	length := 1
	for _, r := range d.Ranges {
		if r.Start.Line == d.Pos.Line && r.End.Line == d.Pos.Line && r.End.Column > d.Pos.Column {
			if n := r.End.Column - d.Pos.Column + 1; n > length {
				length = n
			}
		}
	}
	col := f.actualColumn(line, d.Pos.Column)
	sb.WriteString(gutter + " " + strings.Repeat(" ", col))
	sb.WriteString(f.levelColor(d.Level).Sprint(strings.Repeat("^", length)))
	sb.WriteByte('\n')
	return sb.String()
}

func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// actualColumn 计算展开 Tab 后的列偏移（0 起）
func (f *Formatter) actualColumn(line string, col int) int {
	actual := 0
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
	}
	return actual
}

func (f *Formatter) levelColor(level Level) *color.Color {
	switch level {
	case LevelError:
		return f.red
	case LevelWarning:
		return f.yellow
	case LevelNote:
		return f.cyan
	default:
		return f.green
	}
}
