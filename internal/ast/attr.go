package ast

import (
	"sort"
	"strings"

	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 声明属性
// ============================================================================

// DeclAttrKind 声明属性种类
type DeclAttrKind int

const (
	AttrAsmname DeclAttrKind = iota
	AttrAssignment
	AttrClassProtocol
	AttrConversion
	AttrExported
	AttrFinal
	AttrInfix
	AttrObjC
	AttrOptional
	AttrPostfix
	AttrPrefix
	AttrRequired
	AttrTransparent
	AttrWeak
	AttrUnowned
	AttrResilient
	AttrFragile
	AttrBornFragile

	numDeclAttrs
)

var declAttrNames = [numDeclAttrs]string{
	AttrAsmname:       "asmname",
	AttrAssignment:    "assignment",
	AttrClassProtocol: "class_protocol",
	AttrConversion:    "conversion",
	AttrExported:      "exported",
	AttrFinal:         "final",
	AttrInfix:         "infix",
	AttrObjC:          "objc",
	AttrOptional:      "optional",
	AttrPostfix:       "postfix",
	AttrPrefix:        "prefix",
	AttrRequired:      "required",
	AttrTransparent:   "transparent",
	AttrWeak:          "weak",
	AttrUnowned:       "unowned",
	AttrResilient:     "resilient",
	AttrFragile:       "fragile",
	AttrBornFragile:   "born_fragile",
}

func (k DeclAttrKind) String() string {
	if k >= 0 && k < numDeclAttrs {
		return declAttrNames[k]
	}
	return "unknown"
}

// LookupDeclAttr 按名字查找声明属性
func LookupDeclAttr(name string) (DeclAttrKind, bool) {
	for k, n := range declAttrNames {
		if n == name {
			return DeclAttrKind(k), true
		}
	}
	return 0, false
}

// DeclAttrNames 返回全部声明属性名（已排序）
func DeclAttrNames() []string {
	out := append([]string(nil), declAttrNames[:]...)
	sort.Strings(out)
	return out
}

// Ownership 所有权限定
type Ownership int

const (
	OwnershipStrong Ownership = iota
	OwnershipWeak
	OwnershipUnowned
)

// Resilience 弹性类别
type Resilience int

const (
	ResilienceDefault Resilience = iota
	ResilienceResilient
	ResilienceFragile
	ResilienceBornFragile
)

// DeclAttributes 声明上的属性集合
//
// 每种属性至多出现一次，位置无效表示未设置。
type DeclAttributes struct {
	AtLoc   token.Position // 第一个 '@' 的位置
	AsmName string         // @asmname="..." 的值

	locs [numDeclAttrs]token.Position
}

// Has 是否设置了属性 k
func (a *DeclAttributes) Has(k DeclAttrKind) bool { return a.locs[k].IsValid() }

// Loc 返回属性 k 的位置
func (a *DeclAttributes) Loc(k DeclAttrKind) token.Position { return a.locs[k] }

// Set 记录属性 k
func (a *DeclAttributes) Set(k DeclAttrKind, loc token.Position) { a.locs[k] = loc }

// Clear 清除属性 k
func (a *DeclAttributes) Clear(k DeclAttrKind) {
	a.locs[k] = token.NoPos
	if k == AttrAsmname {
		a.AsmName = ""
	}
}

// Empty 是否没有任何属性
func (a *DeclAttributes) Empty() bool {
	for _, l := range a.locs {
		if l.IsValid() {
			return false
		}
	}
	return true
}

// Kinds 按种类顺序返回已设置的属性
func (a *DeclAttributes) Kinds() []DeclAttrKind {
	var out []DeclAttrKind
	for k, l := range a.locs {
		if l.IsValid() {
			out = append(out, DeclAttrKind(k))
		}
	}
	return out
}

// Count 已设置的属性个数
func (a *DeclAttributes) Count() int { return len(a.Kinds()) }

func (a *DeclAttributes) IsExported() bool    { return a.Has(AttrExported) }
func (a *DeclAttributes) IsTransparent() bool { return a.Has(AttrTransparent) }
func (a *DeclAttributes) IsPrefix() bool      { return a.Has(AttrPrefix) }
func (a *DeclAttributes) IsPostfix() bool     { return a.Has(AttrPostfix) }
func (a *DeclAttributes) IsInfix() bool       { return a.Has(AttrInfix) }
func (a *DeclAttributes) HasAsmName() bool    { return a.Has(AttrAsmname) }

// HasOwnership 是否已有 weak 或 unowned
func (a *DeclAttributes) HasOwnership() bool {
	return a.Has(AttrWeak) || a.Has(AttrUnowned)
}

// Ownership 返回所有权限定
func (a *DeclAttributes) Ownership() Ownership {
	switch {
	case a.Has(AttrWeak):
		return OwnershipWeak
	case a.Has(AttrUnowned):
		return OwnershipUnowned
	}
	return OwnershipStrong
}

// Resilience 返回弹性类别
func (a *DeclAttributes) Resilience() Resilience {
	switch {
	case a.Has(AttrResilient):
		return ResilienceResilient
	case a.Has(AttrFragile):
		return ResilienceFragile
	case a.Has(AttrBornFragile):
		return ResilienceBornFragile
	}
	return ResilienceDefault
}

// HasResilience 是否已指定弹性类别
func (a *DeclAttributes) HasResilience() bool {
	return a.Resilience() != ResilienceDefault
}

// String 返回 "@a @b" 形式
func (a *DeclAttributes) String() string {
	var parts []string
	for _, k := range a.Kinds() {
		s := "@" + k.String()
		if k == AttrAsmname {
			s += "=" + quote(a.AsmName)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// ============================================================================
// 类型属性
// ============================================================================

// TypeAttrKind 类型属性种类
type TypeAttrKind int

const (
	TypeAttrAutoClosure TypeAttrKind = iota
	TypeAttrCC
	TypeAttrInOut
	TypeAttrNoReturn
	TypeAttrObjCBlock
	TypeAttrThin
	TypeAttrThick
	TypeAttrLocalStorage
	TypeAttrSILSelf
	TypeAttrSILWeak
	TypeAttrSILUnowned

	numTypeAttrs
)

var typeAttrNames = [numTypeAttrs]string{
	TypeAttrAutoClosure:  "auto_closure",
	TypeAttrCC:           "cc",
	TypeAttrInOut:        "inout",
	TypeAttrNoReturn:     "noreturn",
	TypeAttrObjCBlock:    "objc_block",
	TypeAttrThin:         "thin",
	TypeAttrThick:        "thick",
	TypeAttrLocalStorage: "local_storage",
	TypeAttrSILSelf:      "sil_self",
	TypeAttrSILWeak:      "sil_weak",
	TypeAttrSILUnowned:   "sil_unowned",
}

func (k TypeAttrKind) String() string {
	if k >= 0 && k < numTypeAttrs {
		return typeAttrNames[k]
	}
	return "unknown"
}

// LowLevelOnly 是否只允许在低级模式中使用
func (k TypeAttrKind) LowLevelOnly() bool {
	switch k {
	case TypeAttrLocalStorage, TypeAttrSILSelf, TypeAttrSILWeak, TypeAttrSILUnowned:
		return true
	}
	return false
}

// LookupTypeAttr 按名字查找类型属性
func LookupTypeAttr(name string) (TypeAttrKind, bool) {
	for k, n := range typeAttrNames {
		if n == name {
			return TypeAttrKind(k), true
		}
	}
	return 0, false
}

// TypeAttrNames 返回全部类型属性名（已排序）
func TypeAttrNames() []string {
	out := append([]string(nil), typeAttrNames[:]...)
	sort.Strings(out)
	return out
}

// CallingConventions @cc(...) 可接受的调用约定
var CallingConventions = []string{"freestanding", "method", "cdecl", "objc_method"}

// IsCallingConvention 判断名字是否为已知调用约定
func IsCallingConvention(name string) bool {
	for _, cc := range CallingConventions {
		if cc == name {
			return true
		}
	}
	return false
}

// TypeAttributes 类型上的属性集合
type TypeAttributes struct {
	AtLoc token.Position
	CC    string // @cc(name)

	locs [numTypeAttrs]token.Position
}

func (a *TypeAttributes) Has(k TypeAttrKind) bool                { return a.locs[k].IsValid() }
func (a *TypeAttributes) Loc(k TypeAttrKind) token.Position      { return a.locs[k] }
func (a *TypeAttributes) Set(k TypeAttrKind, loc token.Position) { a.locs[k] = loc }

// Clear 清除属性 k
func (a *TypeAttributes) Clear(k TypeAttrKind) {
	a.locs[k] = token.NoPos
	if k == TypeAttrCC {
		a.CC = ""
	}
}

// Empty 是否没有任何属性
func (a *TypeAttributes) Empty() bool {
	for _, l := range a.locs {
		if l.IsValid() {
			return false
		}
	}
	return true
}

// Kinds 按种类顺序返回已设置的属性
func (a *TypeAttributes) Kinds() []TypeAttrKind {
	var out []TypeAttrKind
	for k, l := range a.locs {
		if l.IsValid() {
			out = append(out, TypeAttrKind(k))
		}
	}
	return out
}

// String 返回 "@inout @cc(method)" 形式
func (a *TypeAttributes) String() string {
	var parts []string
	for _, k := range a.Kinds() {
		s := "@" + k.String()
		if k == TypeAttrCC {
			s += "(" + a.CC + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
