package lexer

import (
	"strings"

	"github.com/tangzhangming/kestrel/internal/token"
)

// SegmentKind 字符串字面量片段类型
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota // 普通文本（已处理转义）
	SegmentExpr                       // \( ... ) 插值表达式
)

// Segment 字符串字面量的一个片段
type Segment struct {
	Kind SegmentKind
	Text string         // 文本内容；插值段为表达式源码
	Pos  token.Position // 片段在源码中的起始位置
}

// Segments 将字符串字面量 Token 分解为文本段与插值段
//
// 空字符串返回一个空文本段，相邻的文本会合并为一段。
// 非 STRING Token 返回 nil。
func Segments(tok token.Token) []Segment {
	if tok.Type != token.STRING || len(tok.Literal) < 1 {
		return nil
	}

	body := tok.Literal[1:]
	if strings.HasSuffix(body, `"`) && len(tok.Literal) >= 2 {
		body = body[:len(body)-1]
	}

	var segs []Segment
	var sb strings.Builder
	litStart := 0

	flush := func() {
		if sb.Len() > 0 {
			segs = append(segs, Segment{Kind: SegmentLiteral, Text: sb.String(), Pos: tok.Pos.Advance(1 + litStart)})
			sb.Reset()
		}
	}

	for i := 0; i < len(body); {
		if sb.Len() == 0 {
			litStart = i
		}
		ch := body[i]
		if ch != '\\' || i+1 >= len(body) {
			sb.WriteByte(ch)
			i++
			continue
		}

		esc := body[i+1]
		if esc == '(' {
			flush()
			exprStart := i + 2
			j, ok := interpolationEnd(body, exprStart)
			exprEnd := j
			if ok {
				exprEnd = j - 1
			}
			segs = append(segs, Segment{
				Kind: SegmentExpr,
				Text: body[exprStart:exprEnd],
				Pos:  tok.Pos.Advance(1 + exprStart),
			})
			i = j
			continue
		}

		switch esc {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '0':
			sb.WriteByte(0)
		default:
			// \\ \" 以及未知转义保留字符本身
			sb.WriteByte(esc)
		}
		i += 2
	}
	flush()

	if len(segs) == 0 {
		segs = append(segs, Segment{Kind: SegmentLiteral, Pos: tok.Pos.Advance(1)})
	}
	return segs
}

// interpolationEnd 从 \( 之后的偏移 i 开始查找配对的 ')'
//
// 成功时返回 ')' 之后的偏移；遇到换行或到达末尾时返回停止处的偏移和 false。
// 嵌套字符串中的括号不计数。
func interpolationEnd(s string, i int) (int, bool) {
	depth := 1
	for i < len(s) {
		switch s[i] {
		case '\n':
			return i, false
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case '"':
			i++
			for i < len(s) && s[i] != '"' && s[i] != '\n' {
				if s[i] == '\\' && i+1 < len(s) && s[i+1] != '\n' {
					i++
				}
				i++
			}
			if i >= len(s) || s[i] == '\n' {
				return i, false
			}
		}
		i++
	}
	return i, false
}

// IsSimpleString 判断字符串字面量是否恰好由一个非插值段组成
func IsSimpleString(tok token.Token) bool {
	segs := Segments(tok)
	return len(segs) == 1 && segs[0].Kind == SegmentLiteral
}
