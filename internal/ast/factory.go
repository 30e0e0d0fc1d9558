package ast

import (
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 声明工厂函数
// ============================================================================
//
// 工厂函数从 Arena 分配声明并登记句柄，只填写构造时必须确定的字段，
// 其余字段由解析器在解析过程中补齐。
//
// 使用方式：
//   arena := NewArena()
//   d := arena.NewStructDecl(ctx, loc, "S", nameLoc)
//
// ============================================================================

func base(ctx ContextID, loc token.Position) DeclBase {
	return DeclBase{Loc: loc, Context: ctx, Range: token.NewSpan(loc, loc)}
}

func valueBase(ctx ContextID, loc token.Position, name string, nameLoc token.Position) ValueDeclBase {
	return ValueDeclBase{DeclBase: base(ctx, loc), Name: name, NameLoc: nameLoc}
}

// NewImportDecl 创建 import 声明
func (a *Arena) NewImportDecl(ctx ContextID, loc token.Position, kind ImportKind, kindLoc token.Position, path []ImportPathElement) *ImportDecl {
	d := &ImportDecl{DeclBase: base(ctx, loc), ImportKind: kind, KindLoc: kindLoc, Path: path}
	a.add(d)
	return d
}

// NewExtensionDecl 创建 extension 声明
func (a *Arena) NewExtensionDecl(ctx ContextID, loc token.Position, extended TypeRepr, inherited []TypeRepr, memberCtx ContextID) *ExtensionDecl {
	d := &ExtensionDecl{DeclBase: base(ctx, loc), ExtendedType: extended, Inherited: inherited, MemberContext: memberCtx}
	a.add(d)
	return d
}

// NewTypeAliasDecl 创建 typealias 声明
func (a *Arena) NewTypeAliasDecl(ctx ContextID, loc token.Position, name string, nameLoc token.Position, underlying TypeRepr, inherited []TypeRepr) *TypeAliasDecl {
	d := &TypeAliasDecl{ValueDeclBase: valueBase(ctx, loc, name, nameLoc), Underlying: underlying, Inherited: inherited}
	a.add(d)
	return d
}

// NewAssociatedTypeDecl 创建关联类型声明
func (a *Arena) NewAssociatedTypeDecl(ctx ContextID, loc token.Position, name string, nameLoc token.Position, inherited []TypeRepr) *AssociatedTypeDecl {
	d := &AssociatedTypeDecl{ValueDeclBase: valueBase(ctx, loc, name, nameLoc), Inherited: inherited}
	a.add(d)
	return d
}

// NewGenericTypeParamDecl 创建泛型参数
func (a *Arena) NewGenericTypeParamDecl(ctx ContextID, name string, nameLoc token.Position, index int, inherited []TypeRepr) *GenericTypeParamDecl {
	d := &GenericTypeParamDecl{ValueDeclBase: valueBase(ctx, nameLoc, name, nameLoc), Index: index, Inherited: inherited}
	a.add(d)
	return d
}

func nominal(ctx ContextID, loc token.Position, name string, nameLoc token.Position, generics *GenericParamList, inherited []TypeRepr, memberCtx ContextID) NominalBase {
	return NominalBase{
		ValueDeclBase: valueBase(ctx, loc, name, nameLoc),
		Generics:      generics,
		Inherited:     inherited,
		MemberContext: memberCtx,
	}
}

// NewEnumDecl 创建 enum 声明
func (a *Arena) NewEnumDecl(ctx ContextID, loc token.Position, name string, nameLoc token.Position, generics *GenericParamList, inherited []TypeRepr, memberCtx ContextID) *EnumDecl {
	d := &EnumDecl{nominal(ctx, loc, name, nameLoc, generics, inherited, memberCtx)}
	a.add(d)
	return d
}

// NewStructDecl 创建 struct 声明
func (a *Arena) NewStructDecl(ctx ContextID, loc token.Position, name string, nameLoc token.Position, generics *GenericParamList, inherited []TypeRepr, memberCtx ContextID) *StructDecl {
	d := &StructDecl{nominal(ctx, loc, name, nameLoc, generics, inherited, memberCtx)}
	a.add(d)
	return d
}

// NewClassDecl 创建 class 声明
func (a *Arena) NewClassDecl(ctx ContextID, loc token.Position, name string, nameLoc token.Position, generics *GenericParamList, inherited []TypeRepr, memberCtx ContextID) *ClassDecl {
	d := &ClassDecl{nominal(ctx, loc, name, nameLoc, generics, inherited, memberCtx)}
	a.add(d)
	return d
}

// NewProtocolDecl 创建 protocol 声明
func (a *Arena) NewProtocolDecl(ctx ContextID, loc token.Position, name string, nameLoc token.Position, inherited []TypeRepr, memberCtx ContextID) *ProtocolDecl {
	d := &ProtocolDecl{nominal(ctx, loc, name, nameLoc, nil, inherited, memberCtx)}
	a.add(d)
	return d
}

// NewEnumCaseDecl 创建 case 声明组
func (a *Arena) NewEnumCaseDecl(ctx ContextID, loc token.Position, elements []DeclID) *EnumCaseDecl {
	d := &EnumCaseDecl{DeclBase: base(ctx, loc), Elements: elements}
	a.add(d)
	return d
}

// NewEnumElementDecl 创建枚举成员
func (a *Arena) NewEnumElementDecl(ctx ContextID, name string, nameLoc token.Position, argType TypeRepr, equalsLoc token.Position, raw Expr) *EnumElementDecl {
	d := &EnumElementDecl{ValueDeclBase: valueBase(ctx, nameLoc, name, nameLoc), ArgType: argType, EqualsLoc: equalsLoc, RawValue: raw}
	a.add(d)
	return d
}

// NewFuncDecl 创建 func 声明（也用于 get/set 访问器）
func (a *Arena) NewFuncDecl(ctx ContextID, loc token.Position, name string, nameLoc token.Position, static bool, staticLoc token.Position, bodyCtx ContextID) *FuncDecl {
	d := &FuncDecl{Static: static, StaticLoc: staticLoc}
	d.ValueDeclBase = valueBase(ctx, loc, name, nameLoc)
	d.BodyContext = bodyCtx
	a.add(d)
	return d
}

// NewConstructorDecl 创建构造器
func (a *Arena) NewConstructorDecl(ctx ContextID, loc token.Position, bodyCtx ContextID) *ConstructorDecl {
	d := &ConstructorDecl{}
	d.ValueDeclBase = valueBase(ctx, loc, "init", loc)
	d.BodyContext = bodyCtx
	a.add(d)
	return d
}

// NewDestructorDecl 创建析构器
func (a *Arena) NewDestructorDecl(ctx ContextID, loc token.Position, bodyCtx ContextID) *DestructorDecl {
	d := &DestructorDecl{}
	d.ValueDeclBase = valueBase(ctx, loc, "destructor", loc)
	d.BodyContext = bodyCtx
	a.add(d)
	return d
}

// NewSubscriptDecl 创建下标声明
func (a *Arena) NewSubscriptDecl(ctx ContextID, loc token.Position, indices Pattern, arrowLoc token.Position, elemType TypeRepr) *SubscriptDecl {
	d := &SubscriptDecl{DeclBase: base(ctx, loc), Indices: indices, ArrowLoc: arrowLoc, ElementType: elemType}
	a.add(d)
	return d
}

// NewPatternBindingDecl 创建模式绑定
func (a *Arena) NewPatternBindingDecl(ctx ContextID, loc token.Position, pattern Pattern, init Expr, static bool) *PatternBindingDecl {
	d := &PatternBindingDecl{DeclBase: base(ctx, loc), Pattern: pattern, Init: init, Static: static}
	a.add(d)
	return d
}

// NewVarDecl 创建变量
func (a *Arena) NewVarDecl(ctx ContextID, name string, nameLoc token.Position, static bool) *VarDecl {
	d := &VarDecl{ValueDeclBase: valueBase(ctx, nameLoc, name, nameLoc), Static: static}
	a.add(d)
	return d
}

func operatorBase(ctx ContextID, loc token.Position, name string, nameLoc, fixityLoc token.Position, braces token.Span) OperatorBase {
	return OperatorBase{DeclBase: base(ctx, loc), Name: name, NameLoc: nameLoc, FixityLoc: fixityLoc, Braces: braces}
}

// NewPrefixOperatorDecl 创建前缀运算符声明
func (a *Arena) NewPrefixOperatorDecl(ctx ContextID, loc token.Position, name string, nameLoc, fixityLoc token.Position, braces token.Span) *PrefixOperatorDecl {
	d := &PrefixOperatorDecl{operatorBase(ctx, loc, name, nameLoc, fixityLoc, braces)}
	a.add(d)
	return d
}

// NewPostfixOperatorDecl 创建后缀运算符声明
func (a *Arena) NewPostfixOperatorDecl(ctx ContextID, loc token.Position, name string, nameLoc, fixityLoc token.Position, braces token.Span) *PostfixOperatorDecl {
	d := &PostfixOperatorDecl{operatorBase(ctx, loc, name, nameLoc, fixityLoc, braces)}
	a.add(d)
	return d
}

// NewInfixOperatorDecl 创建中缀运算符声明
func (a *Arena) NewInfixOperatorDecl(ctx ContextID, loc token.Position, name string, nameLoc, fixityLoc token.Position, braces token.Span, assoc Associativity, assocLoc token.Position, prec uint8, precLoc token.Position) *InfixOperatorDecl {
	d := &InfixOperatorDecl{
		OperatorBase:     operatorBase(ctx, loc, name, nameLoc, fixityLoc, braces),
		Associativity:    assoc,
		AssociativityLoc: assocLoc,
		Precedence:       prec,
		PrecedenceLoc:    precLoc,
	}
	a.add(d)
	return d
}

// NewTopLevelCodeDecl 创建顶层代码声明
func (a *Arena) NewTopLevelCodeDecl(ctx ContextID, codeCtx ContextID) *TopLevelCodeDecl {
	d := &TopLevelCodeDecl{CodeContext: codeCtx}
	d.Context = ctx
	a.add(d)
	return d
}
