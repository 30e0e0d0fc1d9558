package ast

import (
	"strings"

	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 模式节点
// ============================================================================
//
// 模式描述绑定的形状，用于 var 绑定以及函数/构造器/下标的参数列表。
// NamedPattern 恰好拥有一个 VarDecl。
//
// ============================================================================

// Pattern 表示一个模式节点
type Pattern interface {
	Node
	patternNode()
}

// AnyPattern _
type AnyPattern struct {
	Loc token.Position
}

func (p *AnyPattern) Pos() token.Position { return p.Loc }
func (p *AnyPattern) End() token.Position { return p.Loc }
func (p *AnyPattern) String() string      { return "_" }
func (p *AnyPattern) patternNode()        {}

// NamedPattern 绑定一个名字
type NamedPattern struct {
	Var      DeclID
	Name     string
	Loc      token.Position
	Implicit bool
}

func (p *NamedPattern) Pos() token.Position { return p.Loc }
func (p *NamedPattern) End() token.Position { return p.Loc }
func (p *NamedPattern) String() string      { return p.Name }
func (p *NamedPattern) patternNode()        {}

// TypedPattern pattern: Type
type TypedPattern struct {
	Sub      Pattern
	ColonLoc token.Position
	Type     TypeRepr
}

func (p *TypedPattern) Pos() token.Position { return p.Sub.Pos() }
func (p *TypedPattern) End() token.Position { return p.Type.End() }
func (p *TypedPattern) String() string      { return p.Sub.String() + ": " + p.Type.String() }
func (p *TypedPattern) patternNode()        {}

// TuplePatternElt 元组模式元素，参数列表中可带默认值
type TuplePatternElt struct {
	Pattern   Pattern
	EqualsLoc token.Position
	Init      Expr
}

// TuplePattern (a, b: Int = 1)
type TuplePattern struct {
	LParen   token.Position
	Elements []TuplePatternElt
	RParen   token.Position
}

func (p *TuplePattern) Pos() token.Position { return p.LParen }
func (p *TuplePattern) End() token.Position { return p.RParen }
func (p *TuplePattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.Pattern.String()
		if e.Init != nil {
			parts[i] += " = " + e.Init.String()
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (p *TuplePattern) patternNode() {}

// ============================================================================
// 模式工具函数
// ============================================================================

// PatternVars 按出现顺序返回模式绑定的全部变量
func PatternVars(p Pattern) []DeclID {
	var out []DeclID
	walkNamed(p, func(n *NamedPattern) { out = append(out, n.Var) })
	return out
}

// SingleVar 若模式（忽略类型标注）只是一个名字，返回该变量
func SingleVar(p Pattern) (DeclID, bool) {
	switch p := p.(type) {
	case *NamedPattern:
		return p.Var, true
	case *TypedPattern:
		return SingleVar(p.Sub)
	}
	return NoDecl, false
}

// PatternType 返回模式顶层的类型标注，没有则为 nil
func PatternType(p Pattern) TypeRepr {
	if tp, ok := p.(*TypedPattern); ok {
		return tp.Type
	}
	return nil
}

func walkNamed(p Pattern, fn func(*NamedPattern)) {
	switch p := p.(type) {
	case *NamedPattern:
		fn(p)
	case *TypedPattern:
		walkNamed(p.Sub, fn)
	case *TuplePattern:
		for _, e := range p.Elements {
			walkNamed(e.Pattern, fn)
		}
	}
}

// ClonePattern 深拷贝模式，为每个命名叶子在 ctx 中创建新的 VarDecl
//
// 类型与默认值表达式按引用共享，它们在解析后不可变。
func (a *Arena) ClonePattern(p Pattern, ctx ContextID) Pattern {
	switch p := p.(type) {
	case *AnyPattern:
		cp := *p
		return &cp
	case *NamedPattern:
		old := As[*VarDecl](a, p.Var)
		v := a.NewVarDecl(ctx, p.Name, p.Loc, old.Static)
		v.Implicit = true
		return &NamedPattern{Var: v.ID, Name: p.Name, Loc: p.Loc, Implicit: true}
	case *TypedPattern:
		return &TypedPattern{Sub: a.ClonePattern(p.Sub, ctx), ColonLoc: p.ColonLoc, Type: p.Type}
	case *TuplePattern:
		cp := &TuplePattern{LParen: p.LParen, RParen: p.RParen, Elements: make([]TuplePatternElt, len(p.Elements))}
		for i, e := range p.Elements {
			cp.Elements[i] = TuplePatternElt{Pattern: a.ClonePattern(e.Pattern, ctx), EqualsLoc: e.EqualsLoc, Init: e.Init}
		}
		return cp
	}
	return p
}
