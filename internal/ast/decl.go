package ast

import (
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 声明种类
// ============================================================================

// DeclKind 声明种类（声明是一个封闭的和类型）
type DeclKind int

const (
	KindImport DeclKind = iota
	KindExtension
	KindTypeAlias
	KindAssociatedType
	KindEnum
	KindEnumCase
	KindEnumElement
	KindStruct
	KindClass
	KindProtocol
	KindFunc
	KindConstructor
	KindDestructor
	KindSubscript
	KindPatternBinding
	KindVar
	KindGenericTypeParam
	KindPrefixOperator
	KindPostfixOperator
	KindInfixOperator
	KindTopLevelCode

	NumDeclKinds
)

var declKindNames = [NumDeclKinds]string{
	KindImport:           "import",
	KindExtension:        "extension",
	KindTypeAlias:        "typealias",
	KindAssociatedType:   "associatedtype",
	KindEnum:             "enum",
	KindEnumCase:         "enum_case",
	KindEnumElement:      "enum_element",
	KindStruct:           "struct",
	KindClass:            "class",
	KindProtocol:         "protocol",
	KindFunc:             "func",
	KindConstructor:      "constructor",
	KindDestructor:       "destructor",
	KindSubscript:        "subscript",
	KindPatternBinding:   "pattern_binding",
	KindVar:              "var",
	KindGenericTypeParam: "generic_type_param",
	KindPrefixOperator:   "prefix_operator",
	KindPostfixOperator:  "postfix_operator",
	KindInfixOperator:    "infix_operator",
	KindTopLevelCode:     "top_level_code",
}

func (k DeclKind) String() string {
	if k >= 0 && k < NumDeclKinds {
		return declKindNames[k]
	}
	return "unknown"
}

// ============================================================================
// 声明公共部分
// ============================================================================

// DeclID 声明在 Arena 中的句柄，0 表示无
type DeclID int32

// NoDecl 空句柄
const NoDecl DeclID = 0

// Decl 表示一个声明节点
type Decl interface {
	Node
	Kind() DeclKind
	Base() *DeclBase
}

// DeclBase 所有声明共有的字段
type DeclBase struct {
	ID           DeclID
	Loc          token.Position // 关键字位置
	Range        token.Span     // 从首个 Token（含属性）到最后一个 Token
	Context      ContextID      // 所属声明上下文
	Attrs        DeclAttributes
	TrailingSemi token.Position // 紧随其后的 ';'，无则无效
	Invalid      bool           // 解析或放置不合法，但仍保留在 AST 中
	Implicit     bool           // 由解析器合成
}

func (b *DeclBase) Base() *DeclBase      { return b }
func (b *DeclBase) Pos() token.Position  { return b.Loc }
func (b *DeclBase) End() token.Position  { return b.Range.End }
func (b *DeclBase) HasTrailingSemi() bool { return b.TrailingSemi.IsValid() }

// ValueDeclBase 带名字的声明
type ValueDeclBase struct {
	DeclBase
	Name    string
	NameLoc token.Position

	// LocalDiscriminator 函数体内同名局部声明的序号，非局部声明为 0
	LocalDiscriminator int
}

// ValueDecl 带名字的声明
type ValueDecl interface {
	Decl
	Value() *ValueDeclBase
}

func (v *ValueDeclBase) Value() *ValueDeclBase { return v }

// ============================================================================
// 声明上下文
// ============================================================================

// ContextID 声明上下文句柄，0 表示无
type ContextID int32

// NoContext 空句柄
const NoContext ContextID = 0

// ContextKind 声明上下文种类
type ContextKind int

const (
	ModuleContext ContextKind = iota
	ExtensionContext
	TypeContext     // enum/struct/class/protocol
	FunctionContext // func/init/destructor/accessor
	TopLevelCodeContext
)

func (k ContextKind) String() string {
	switch k {
	case ModuleContext:
		return "module"
	case ExtensionContext:
		return "extension"
	case TypeContext:
		return "type"
	case FunctionContext:
		return "function"
	case TopLevelCodeContext:
		return "top_level_code"
	}
	return "unknown"
}

// Context 拥有声明的可命名作用域
//
// 分两阶段构造：NewContext 时 Owner 为占位值，所属声明创建后由 BindContext 固定。
type Context struct {
	ID     ContextID
	Kind   ContextKind
	Parent ContextID
	Owner  DeclID
}

// IsLocal 是否为函数体或顶层代码内部
func (c *Context) IsLocal() bool {
	return c.Kind == FunctionContext || c.Kind == TopLevelCodeContext
}

// IsModule 是否为模块（文件）作用域
func (c *Context) IsModule() bool { return c.Kind == ModuleContext }

// ============================================================================
// 导入与扩展
// ============================================================================

// ImportKind import 限定的声明种类
type ImportKind int

const (
	ImportModule ImportKind = iota
	ImportTypeAlias
	ImportStruct
	ImportClass
	ImportEnum
	ImportProtocol
	ImportVar
	ImportFunc
)

var importKindNames = [...]string{"module", "typealias", "struct", "class", "enum", "protocol", "var", "func"}

func (k ImportKind) String() string { return importKindNames[k] }

// ImportPathElement import 路径分量
type ImportPathElement struct {
	Name string
	Loc  token.Position
}

// ImportDecl import [kind] a.b.c
type ImportDecl struct {
	DeclBase
	ImportKind ImportKind
	KindLoc    token.Position
	Path       []ImportPathElement
}

func (d *ImportDecl) Kind() DeclKind { return KindImport }
func (d *ImportDecl) String() string {
	s := "import "
	for i, p := range d.Path {
		if i > 0 {
			s += "."
		}
		s += p.Name
	}
	return s
}

// ExtensionDecl extension T: P { members }
type ExtensionDecl struct {
	DeclBase
	ExtendedType  TypeRepr
	Inherited     []TypeRepr
	Members       []DeclID
	Braces        token.Span
	MemberContext ContextID
}

func (d *ExtensionDecl) Kind() DeclKind { return KindExtension }
func (d *ExtensionDecl) String() string { return "extension " + d.ExtendedType.String() }

// ============================================================================
// 类型别名与泛型
// ============================================================================

// TypeAliasDecl typealias Name = Type
type TypeAliasDecl struct {
	ValueDeclBase
	Inherited  []TypeRepr
	EqualLoc   token.Position
	Underlying TypeRepr // 可为 nil
}

func (d *TypeAliasDecl) Kind() DeclKind { return KindTypeAlias }
func (d *TypeAliasDecl) String() string { return "typealias " + d.Name }

// AssociatedTypeDecl 协议中的 typealias Name: Constraints
type AssociatedTypeDecl struct {
	ValueDeclBase
	Inherited []TypeRepr
}

func (d *AssociatedTypeDecl) Kind() DeclKind { return KindAssociatedType }
func (d *AssociatedTypeDecl) String() string { return "associatedtype " + d.Name }

// GenericTypeParamDecl 泛型参数 T: Constraint
type GenericTypeParamDecl struct {
	ValueDeclBase
	Index     int
	Inherited []TypeRepr
}

func (d *GenericTypeParamDecl) Kind() DeclKind { return KindGenericTypeParam }
func (d *GenericTypeParamDecl) String() string { return d.Name }

// GenericParamList <T, U: P>
type GenericParamList struct {
	LAngle token.Position
	Params []DeclID
	RAngle token.Position
}

// ============================================================================
// 名义类型
// ============================================================================

// NominalBase enum/struct/class/protocol 共有部分
type NominalBase struct {
	ValueDeclBase
	Generics      *GenericParamList
	Inherited     []TypeRepr
	Members       []DeclID
	Braces        token.Span
	MemberContext ContextID
}

// Nominal 返回名义类型公共部分
func (n *NominalBase) Nominal() *NominalBase { return n }

// NominalDecl 名义类型声明
type NominalDecl interface {
	ValueDecl
	Nominal() *NominalBase
}

// EnumDecl enum
type EnumDecl struct{ NominalBase }

func (d *EnumDecl) Kind() DeclKind { return KindEnum }
func (d *EnumDecl) String() string { return "enum " + d.Name }

// StructDecl struct
type StructDecl struct{ NominalBase }

func (d *StructDecl) Kind() DeclKind { return KindStruct }
func (d *StructDecl) String() string { return "struct " + d.Name }

// ClassDecl class
type ClassDecl struct{ NominalBase }

func (d *ClassDecl) Kind() DeclKind { return KindClass }
func (d *ClassDecl) String() string { return "class " + d.Name }

// ProtocolDecl protocol
type ProtocolDecl struct{ NominalBase }

func (d *ProtocolDecl) Kind() DeclKind { return KindProtocol }
func (d *ProtocolDecl) String() string { return "protocol " + d.Name }

// EnumCaseDecl case A, B(Int) = 1
type EnumCaseDecl struct {
	DeclBase
	Elements []DeclID
}

func (d *EnumCaseDecl) Kind() DeclKind { return KindEnumCase }
func (d *EnumCaseDecl) String() string { return "case" }

// EnumElementDecl 枚举成员
type EnumElementDecl struct {
	ValueDeclBase
	ArgType   TypeRepr // 可为 nil
	EqualsLoc token.Position
	RawValue  Expr // 字面量或 nil
}

func (d *EnumElementDecl) Kind() DeclKind { return KindEnumElement }
func (d *EnumElementDecl) String() string { return d.Name }

// ============================================================================
// 函数类声明
// ============================================================================

// BodyKind 函数体状态
type BodyKind int

const (
	BodyNone    BodyKind = iota // 没有函数体
	BodyParsed                  // 已解析
	BodyDelayed                 // 已记录检查点，等待稍后解析
	BodySkipped                 // 已跳过，不再解析
)

func (k BodyKind) String() string {
	return [...]string{"none", "parsed", "delayed", "skipped"}[k]
}

// AccessorKind 访问器种类
type AccessorKind int

const (
	NotAccessor AccessorKind = iota
	Getter
	Setter
)

func (k AccessorKind) String() string {
	return [...]string{"", "getter", "setter"}[k]
}

// FunctionBase func/init/destructor 共有部分
type FunctionBase struct {
	ValueDeclBase
	Generics     *GenericParamList
	Params       []Pattern // 柯里化参数列表；含隐式 self 时位于首位
	ImplicitSelf DeclID
	BodyContext  ContextID
	Body         *BraceStmt
	BodyKind     BodyKind
	BodyRange    token.Span
}

// Function 返回函数公共部分
func (f *FunctionBase) Function() *FunctionBase { return f }

// AbstractFunction 可带函数体的声明
type AbstractFunction interface {
	ValueDecl
	Function() *FunctionBase
}

// SetBody 设置已解析的函数体
func (f *FunctionBase) SetBody(body *BraceStmt) {
	f.Body = body
	f.BodyKind = BodyParsed
	if body != nil {
		f.BodyRange = token.NewSpan(body.LBrace, body.RBrace)
	}
}

// FuncDecl func / get / set
type FuncDecl struct {
	FunctionBase
	Static    bool
	StaticLoc token.Position
	ArrowLoc  token.Position
	Result    TypeRepr // 可为 nil
	Accessor  AccessorKind
	Storage   DeclID // 访问器所属的变量或下标
}

func (d *FuncDecl) Kind() DeclKind { return KindFunc }
func (d *FuncDecl) String() string { return "func " + d.Name }

// IsOperator 名字是否为运算符
func (d *FuncDecl) IsOperator() bool {
	return d.Name != "" && isOperatorStart(d.Name[0])
}

// ConstructorDecl init(...)
type ConstructorDecl struct {
	FunctionBase
}

func (d *ConstructorDecl) Kind() DeclKind { return KindConstructor }
func (d *ConstructorDecl) String() string { return "init" }

// DestructorDecl destructor()
type DestructorDecl struct {
	FunctionBase
}

func (d *DestructorDecl) Kind() DeclKind { return KindDestructor }
func (d *DestructorDecl) String() string { return "destructor" }

// SubscriptDecl subscript (i: Int) -> T { get set }
type SubscriptDecl struct {
	DeclBase
	Indices     Pattern
	ArrowLoc    token.Position
	ElementType TypeRepr
	Braces      token.Span
	Getter      DeclID
	Setter      DeclID
}

func (d *SubscriptDecl) Kind() DeclKind { return KindSubscript }
func (d *SubscriptDecl) String() string { return "subscript" }

// ============================================================================
// 变量
// ============================================================================

// PatternBindingDecl var pattern [= init]
type PatternBindingDecl struct {
	DeclBase
	Pattern Pattern
	Init    Expr
	Static  bool
}

func (d *PatternBindingDecl) Kind() DeclKind { return KindPatternBinding }
func (d *PatternBindingDecl) String() string { return "var " + d.Pattern.String() }

// VarDecl 模式中绑定的一个变量
type VarDecl struct {
	ValueDeclBase
	Static       bool
	Binding      DeclID // 所属 PatternBindingDecl
	Getter       DeclID
	Setter       DeclID
	GetSetBraces token.Span
}

func (d *VarDecl) Kind() DeclKind { return KindVar }
func (d *VarDecl) String() string { return d.Name }

// IsComputed 是否为计算属性
func (d *VarDecl) IsComputed() bool { return d.Getter != NoDecl }

// SetComputed 将变量设为计算属性
func (d *VarDecl) SetComputed(braces token.Span, getter, setter DeclID) {
	d.GetSetBraces = braces
	d.Getter = getter
	d.Setter = setter
}

// ============================================================================
// 运算符声明
// ============================================================================

// Associativity 中缀运算符结合性
type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

func (a Associativity) String() string {
	return [...]string{"none", "left", "right"}[a]
}

// DefaultPrecedence 中缀运算符默认优先级
const DefaultPrecedence = 100

// OperatorBase 运算符声明共有部分
type OperatorBase struct {
	DeclBase
	Name      string
	NameLoc   token.Position
	FixityLoc token.Position
	Braces    token.Span
}

// PrefixOperatorDecl operator prefix ~~ {}
type PrefixOperatorDecl struct{ OperatorBase }

func (d *PrefixOperatorDecl) Kind() DeclKind { return KindPrefixOperator }
func (d *PrefixOperatorDecl) String() string { return "operator prefix " + d.Name }

// PostfixOperatorDecl operator postfix ~~ {}
type PostfixOperatorDecl struct{ OperatorBase }

func (d *PostfixOperatorDecl) Kind() DeclKind { return KindPostfixOperator }
func (d *PostfixOperatorDecl) String() string { return "operator postfix " + d.Name }

// InfixOperatorDecl operator infix +++ { associativity left precedence 150 }
type InfixOperatorDecl struct {
	OperatorBase
	Associativity    Associativity
	AssociativityLoc token.Position
	Precedence       uint8
	PrecedenceLoc    token.Position
}

func (d *InfixOperatorDecl) Kind() DeclKind { return KindInfixOperator }
func (d *InfixOperatorDecl) String() string { return "operator infix " + d.Name }

// ============================================================================
// 顶层代码
// ============================================================================

// TopLevelCodeDecl 脚本模式下的顶层语句或变量绑定
type TopLevelCodeDecl struct {
	DeclBase
	Body        *BraceStmt
	CodeContext ContextID
}

func (d *TopLevelCodeDecl) Kind() DeclKind { return KindTopLevelCode }
func (d *TopLevelCodeDecl) String() string { return "top_level_code" }

// ============================================================================
// 源文件
// ============================================================================

// SourceFile 一次解析的结果
type SourceFile struct {
	Filename        string
	Arena           *Arena
	Context         ContextID // 模块上下文
	Decls           []DeclID
	HasTopLevelCode bool
}

func isOperatorStart(b byte) bool {
	switch b {
	case '/', '=', '-', '+', '*', '%', '<', '>', '!', '&', '|', '^', '~', '?', '.':
		return true
	}
	return false
}
