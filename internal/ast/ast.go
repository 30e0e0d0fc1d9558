package ast

import (
	"strings"

	"github.com/tangzhangming/kestrel/internal/token"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() token.Position // 返回节点在源代码中的位置
	End() token.Position // 返回节点最后一个 Token 的位置
	String() string      // 返回节点的字符串表示（用于调试和 Dump）
}

// Expr 表示一个表达式节点
type Expr interface {
	Node
	exprNode()
}

// Stmt 表示一个语句节点
type Stmt interface {
	Node
	stmtNode()
}

// TypeRepr 表示源码中书写的类型
type TypeRepr interface {
	Node
	typeNode()
}

// ============================================================================
// 类型节点
// ============================================================================

// IdentComponent 标识符类型的一个分量 (A 或 A<B, C>)
type IdentComponent struct {
	Name        string
	NameLoc     token.Position
	GenericArgs []TypeRepr
	RAngle      token.Position
}

// IdentTypeRepr 标识符类型 (Int, Swift.Array<Int>)
type IdentTypeRepr struct {
	Components []IdentComponent
}

func (t *IdentTypeRepr) Pos() token.Position { return t.Components[0].NameLoc }
func (t *IdentTypeRepr) End() token.Position {
	last := t.Components[len(t.Components)-1]
	if last.RAngle.IsValid() {
		return last.RAngle
	}
	return last.NameLoc
}
func (t *IdentTypeRepr) String() string {
	parts := make([]string, len(t.Components))
	for i, c := range t.Components {
		parts[i] = c.Name
		if len(c.GenericArgs) > 0 {
			parts[i] += "<" + joinNodes(typeNodes(c.GenericArgs), ", ") + ">"
		}
	}
	return strings.Join(parts, ".")
}
func (t *IdentTypeRepr) typeNode() {}

// Name 返回最后一个分量的名字
func (t *IdentTypeRepr) Name() string { return t.Components[len(t.Components)-1].Name }

// TupleTypeElt 元组类型元素
type TupleTypeElt struct {
	Label    string
	LabelLoc token.Position
	Type     TypeRepr
	Init     Expr // 默认值，可为 nil
}

// TupleTypeRepr 元组类型 ((Int, b: String = "x"))
type TupleTypeRepr struct {
	LParen   token.Position
	Elements []TupleTypeElt
	RParen   token.Position
}

func (t *TupleTypeRepr) Pos() token.Position { return t.LParen }
func (t *TupleTypeRepr) End() token.Position { return t.RParen }
func (t *TupleTypeRepr) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		s := e.Type.String()
		if e.Label != "" {
			s = e.Label + ": " + s
		}
		if e.Init != nil {
			s += " = " + e.Init.String()
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TupleTypeRepr) typeNode() {}

// FunctionTypeRepr 函数类型 (Int -> Bool)
type FunctionTypeRepr struct {
	Arg      TypeRepr
	ArrowLoc token.Position
	Result   TypeRepr
}

func (t *FunctionTypeRepr) Pos() token.Position { return t.Arg.Pos() }
func (t *FunctionTypeRepr) End() token.Position { return t.Result.End() }
func (t *FunctionTypeRepr) String() string      { return t.Arg.String() + " -> " + t.Result.String() }
func (t *FunctionTypeRepr) typeNode()           {}

// OptionalTypeRepr 可选类型 (Int?)
type OptionalTypeRepr struct {
	Base        TypeRepr
	QuestionLoc token.Position
}

func (t *OptionalTypeRepr) Pos() token.Position { return t.Base.Pos() }
func (t *OptionalTypeRepr) End() token.Position { return t.QuestionLoc }
func (t *OptionalTypeRepr) String() string      { return t.Base.String() + "?" }
func (t *OptionalTypeRepr) typeNode()           {}

// ArrayTypeRepr 数组类型 (Int[])
type ArrayTypeRepr struct {
	Base     TypeRepr
	Brackets token.Span
}

func (t *ArrayTypeRepr) Pos() token.Position { return t.Base.Pos() }
func (t *ArrayTypeRepr) End() token.Position { return t.Brackets.End }
func (t *ArrayTypeRepr) String() string      { return t.Base.String() + "[]" }
func (t *ArrayTypeRepr) typeNode()           {}

// AttributedTypeRepr 带类型属性的类型 (@inout Int)
type AttributedTypeRepr struct {
	Attrs TypeAttributes
	Type  TypeRepr
}

func (t *AttributedTypeRepr) Pos() token.Position { return t.Attrs.AtLoc }
func (t *AttributedTypeRepr) End() token.Position { return t.Type.End() }
func (t *AttributedTypeRepr) String() string      { return t.Attrs.String() + " " + t.Type.String() }
func (t *AttributedTypeRepr) typeNode()           {}

// ErrorTypeRepr 解析失败处的占位类型
type ErrorTypeRepr struct {
	Loc token.Position
}

func (t *ErrorTypeRepr) Pos() token.Position { return t.Loc }
func (t *ErrorTypeRepr) End() token.Position { return t.Loc }
func (t *ErrorTypeRepr) String() string      { return "<error>" }
func (t *ErrorTypeRepr) typeNode()           {}

// ============================================================================
// 表达式节点
// ============================================================================

// IntegerLiteralExpr 整数字面量
type IntegerLiteralExpr struct {
	Loc  token.Position
	Text string
}

func (e *IntegerLiteralExpr) Pos() token.Position { return e.Loc }
func (e *IntegerLiteralExpr) End() token.Position { return e.Loc }
func (e *IntegerLiteralExpr) String() string      { return e.Text }
func (e *IntegerLiteralExpr) exprNode()           {}

// FloatLiteralExpr 浮点数字面量
type FloatLiteralExpr struct {
	Loc  token.Position
	Text string
}

func (e *FloatLiteralExpr) Pos() token.Position { return e.Loc }
func (e *FloatLiteralExpr) End() token.Position { return e.Loc }
func (e *FloatLiteralExpr) String() string      { return e.Text }
func (e *FloatLiteralExpr) exprNode()           {}

// StringLiteralExpr 不含插值的字符串字面量
type StringLiteralExpr struct {
	Loc   token.Position
	Value string // 已处理转义
}

func (e *StringLiteralExpr) Pos() token.Position { return e.Loc }
func (e *StringLiteralExpr) End() token.Position { return e.Loc }
func (e *StringLiteralExpr) String() string      { return quote(e.Value) }
func (e *StringLiteralExpr) exprNode()           {}

// InterpolatedStringLiteralExpr 含 \(expr) 插值段的字符串
type InterpolatedStringLiteralExpr struct {
	Loc      token.Position
	Segments []Expr // 文本段为 StringLiteralExpr
}

func (e *InterpolatedStringLiteralExpr) Pos() token.Position { return e.Loc }
func (e *InterpolatedStringLiteralExpr) End() token.Position { return e.Loc }
func (e *InterpolatedStringLiteralExpr) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, s := range e.Segments {
		if lit, ok := s.(*StringLiteralExpr); ok {
			sb.WriteString(lit.Value)
		} else {
			sb.WriteString(`\(` + s.String() + ")")
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
func (e *InterpolatedStringLiteralExpr) exprNode() {}

// BoolLiteralExpr true / false
type BoolLiteralExpr struct {
	Loc   token.Position
	Value bool
}

func (e *BoolLiteralExpr) Pos() token.Position { return e.Loc }
func (e *BoolLiteralExpr) End() token.Position { return e.Loc }
func (e *BoolLiteralExpr) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}
func (e *BoolLiteralExpr) exprNode() {}

// NilLiteralExpr nil
type NilLiteralExpr struct {
	Loc token.Position
}

func (e *NilLiteralExpr) Pos() token.Position { return e.Loc }
func (e *NilLiteralExpr) End() token.Position { return e.Loc }
func (e *NilLiteralExpr) String() string      { return "nil" }
func (e *NilLiteralExpr) exprNode()           {}

// IdentExpr 标识符引用
type IdentExpr struct {
	Name string
	Loc  token.Position
}

func (e *IdentExpr) Pos() token.Position { return e.Loc }
func (e *IdentExpr) End() token.Position { return e.Loc }
func (e *IdentExpr) String() string      { return e.Name }
func (e *IdentExpr) exprNode()           {}

// SelfExpr self
type SelfExpr struct {
	Loc token.Position
}

func (e *SelfExpr) Pos() token.Position { return e.Loc }
func (e *SelfExpr) End() token.Position { return e.Loc }
func (e *SelfExpr) String() string      { return "self" }
func (e *SelfExpr) exprNode()           {}

// TupleExpr 括号或元组表达式，也用作调用实参
type TupleExpr struct {
	LParen   token.Position
	Elements []Expr
	Labels   []string // 与 Elements 等长，无标签为空串
	RParen   token.Position
}

func (e *TupleExpr) Pos() token.Position { return e.LParen }
func (e *TupleExpr) End() token.Position { return e.RParen }
func (e *TupleExpr) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
		if i < len(e.Labels) && e.Labels[i] != "" {
			parts[i] = e.Labels[i] + ": " + parts[i]
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (e *TupleExpr) exprNode() {}

// CallExpr 调用表达式 fn(args)
type CallExpr struct {
	Fn   Expr
	Args *TupleExpr
}

func (e *CallExpr) Pos() token.Position { return e.Fn.Pos() }
func (e *CallExpr) End() token.Position { return e.Args.End() }
func (e *CallExpr) String() string      { return e.Fn.String() + e.Args.String() }
func (e *CallExpr) exprNode()           {}

// MemberExpr 成员访问 base.name
type MemberExpr struct {
	Base    Expr
	DotLoc  token.Position
	Name    string
	NameLoc token.Position
}

func (e *MemberExpr) Pos() token.Position { return e.Base.Pos() }
func (e *MemberExpr) End() token.Position { return e.NameLoc }
func (e *MemberExpr) String() string      { return e.Base.String() + "." + e.Name }
func (e *MemberExpr) exprNode()           {}

// SubscriptExpr 下标访问 base[index]
type SubscriptExpr struct {
	Base     Expr
	Index    Expr
	Brackets token.Span
}

func (e *SubscriptExpr) Pos() token.Position { return e.Base.Pos() }
func (e *SubscriptExpr) End() token.Position { return e.Brackets.End }
func (e *SubscriptExpr) String() string      { return e.Base.String() + "[" + e.Index.String() + "]" }
func (e *SubscriptExpr) exprNode()           {}

// PrefixUnaryExpr 前缀运算 -x, !x
type PrefixUnaryExpr struct {
	Op      string
	OpLoc   token.Position
	Operand Expr
}

func (e *PrefixUnaryExpr) Pos() token.Position { return e.OpLoc }
func (e *PrefixUnaryExpr) End() token.Position { return e.Operand.End() }
func (e *PrefixUnaryExpr) String() string      { return e.Op + e.Operand.String() }
func (e *PrefixUnaryExpr) exprNode()           {}

// OperatorRefExpr 序列表达式中的二元运算符
type OperatorRefExpr struct {
	Op  string
	Loc token.Position
}

func (e *OperatorRefExpr) Pos() token.Position { return e.Loc }
func (e *OperatorRefExpr) End() token.Position { return e.Loc }
func (e *OperatorRefExpr) String() string      { return e.Op }
func (e *OperatorRefExpr) exprNode()           {}

// SequenceExpr 未折叠的二元运算序列 a + b * c
//
// Elements 为 操作数, 运算符, 操作数, ... 交替排列，优先级由语义阶段折叠。
type SequenceExpr struct {
	Elements []Expr
}

func (e *SequenceExpr) Pos() token.Position { return e.Elements[0].Pos() }
func (e *SequenceExpr) End() token.Position { return e.Elements[len(e.Elements)-1].End() }
func (e *SequenceExpr) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return strings.Join(parts, " ")
}
func (e *SequenceExpr) exprNode() {}

// ErrorExpr 解析失败处的占位表达式
type ErrorExpr struct {
	Loc token.Position
}

func (e *ErrorExpr) Pos() token.Position { return e.Loc }
func (e *ErrorExpr) End() token.Position { return e.Loc }
func (e *ErrorExpr) String() string      { return "<error>" }
func (e *ErrorExpr) exprNode()           {}

// CodeCompletionExpr 补全请求位置
type CodeCompletionExpr struct {
	Loc token.Position
}

func (e *CodeCompletionExpr) Pos() token.Position { return e.Loc }
func (e *CodeCompletionExpr) End() token.Position { return e.Loc }
func (e *CodeCompletionExpr) String() string      { return "<complete>" }
func (e *CodeCompletionExpr) exprNode()           {}

// IsLiteral 判断表达式是否为字面量（含插值字符串）
func IsLiteral(e Expr) bool {
	switch e.(type) {
	case *IntegerLiteralExpr, *FloatLiteralExpr, *StringLiteralExpr, *InterpolatedStringLiteralExpr:
		return true
	}
	return false
}

// ============================================================================
// 语句节点
// ============================================================================

// BraceItem 代码块中的一项：表达式、语句或声明，三者恰有其一
type BraceItem struct {
	Expr Expr
	Stmt Stmt
	Decl DeclID
}

// Pos 返回条目位置（声明需通过 Arena 查询，这里返回无效位置）
func (it BraceItem) Pos() token.Position {
	switch {
	case it.Expr != nil:
		return it.Expr.Pos()
	case it.Stmt != nil:
		return it.Stmt.Pos()
	}
	return token.NoPos
}

// BraceStmt { ... }
type BraceStmt struct {
	LBrace token.Position
	Items  []BraceItem
	RBrace token.Position
}

func (s *BraceStmt) Pos() token.Position { return s.LBrace }
func (s *BraceStmt) End() token.Position { return s.RBrace }
func (s *BraceStmt) String() string      { return "{...}" }
func (s *BraceStmt) stmtNode()           {}

// ReturnStmt return [expr]
type ReturnStmt struct {
	Loc    token.Position
	Result Expr
}

func (s *ReturnStmt) Pos() token.Position { return s.Loc }
func (s *ReturnStmt) End() token.Position {
	if s.Result != nil {
		return s.Result.End()
	}
	return s.Loc
}
func (s *ReturnStmt) String() string {
	if s.Result != nil {
		return "return " + s.Result.String()
	}
	return "return"
}
func (s *ReturnStmt) stmtNode() {}

// IfStmt if cond { } [else ...]
type IfStmt struct {
	Loc     token.Position
	Cond    Expr
	Then    *BraceStmt
	ElseLoc token.Position
	Else    Stmt // *BraceStmt 或 *IfStmt，可为 nil
}

func (s *IfStmt) Pos() token.Position { return s.Loc }
func (s *IfStmt) End() token.Position {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Then.End()
}
func (s *IfStmt) String() string { return "if " + s.Cond.String() }
func (s *IfStmt) stmtNode()      {}

// WhileStmt while cond { }
type WhileStmt struct {
	Loc  token.Position
	Cond Expr
	Body *BraceStmt
}

func (s *WhileStmt) Pos() token.Position { return s.Loc }
func (s *WhileStmt) End() token.Position { return s.Body.End() }
func (s *WhileStmt) String() string      { return "while " + s.Cond.String() }
func (s *WhileStmt) stmtNode()           {}

// ============================================================================
// 辅助函数
// ============================================================================

func typeNodes(ts []TypeRepr) []Node {
	out := make([]Node, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return `"` + r.Replace(s) + `"`
}
