package parser

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/kestrel/internal/ast"
)

// ============================================================================
// 词法作用域
// ============================================================================
//
// 作用域是一条单向链表，当前作用域指向外层作用域。进入与退出严格配对：
//
//   s := p.pushScope(ScopeGenerics)
//   defer p.popScope(s)
//
// 或者使用 withScope 在闭包返回时自动退出。退出顺序不匹配视为解析器自身的
// 缺陷，直接 panic。
//
// ============================================================================

// ScopeKind 作用域种类
type ScopeKind int

const (
	ScopeTopLevel ScopeKind = iota
	ScopeExtension
	ScopeNominalBody
	ScopeProtocolBody
	ScopeGenerics
	ScopeFunctionBody
	ScopeConstructorBody
	ScopeDestructorBody
	ScopeBrace
)

var scopeKindNames = [...]string{
	ScopeTopLevel:        "top-level",
	ScopeExtension:       "extension",
	ScopeNominalBody:     "nominal-body",
	ScopeProtocolBody:    "protocol-body",
	ScopeGenerics:        "generics",
	ScopeFunctionBody:    "function-body",
	ScopeConstructorBody: "constructor-body",
	ScopeDestructorBody:  "destructor-body",
	ScopeBrace:           "brace",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return "unknown"
}

// Scope 一个词法作用域
type Scope struct {
	Kind   ScopeKind
	parent *Scope
	depth  int
	names  map[string]ast.DeclID
}

// Parent 返回外层作用域
func (s *Scope) Parent() *Scope { return s.parent }

// Depth 返回嵌套深度，顶层为 0
func (s *Scope) Depth() int { return s.depth }

// Lookup 由内向外查找名字
func (s *Scope) Lookup(name string) (ast.DeclID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.names[name]; ok {
			return id, true
		}
	}
	return ast.NoDecl, false
}

// Len 返回本层登记的名字数量
func (s *Scope) Len() int { return len(s.names) }

// snapshot 复制整条作用域链，供延迟解析恢复时使用
func (s *Scope) snapshot() *Scope {
	if s == nil {
		return nil
	}
	c := &Scope{Kind: s.Kind, parent: s.parent.snapshot(), depth: s.depth, names: make(map[string]ast.DeclID, len(s.names))}
	for k, v := range s.names {
		c.names[k] = v
	}
	return c
}

// pushScope 进入一个新作用域
func (p *Parser) pushScope(kind ScopeKind) *Scope {
	s := &Scope{Kind: kind, parent: p.scope, names: make(map[string]ast.DeclID)}
	if p.scope != nil {
		s.depth = p.scope.depth + 1
	}
	p.scope = s
	return s
}

// popScope 退出作用域 s，s 必须是当前作用域
func (p *Parser) popScope(s *Scope) {
	if p.scope != s {
		panic(fmt.Sprintf("parser: scope stack imbalance: popping %s at depth %d, current is %s", s.Kind, s.depth, p.scope.Kind))
	}
	p.scope = s.parent
}

// withScope 在新作用域中执行 fn
func (p *Parser) withScope(kind ScopeKind, fn func()) {
	s := p.pushScope(kind)
	defer p.popScope(s)
	fn()
}

// addToScope 在当前作用域登记声明的名字
//
// 错误恢复合成的名字（带 recoveryMarker）不登记。
func (p *Parser) addToScope(d ast.ValueDecl) {
	if p.scope == nil {
		return
	}
	name := d.Value().Name
	if name == "" || strings.HasSuffix(name, recoveryMarker) {
		return
	}
	p.scope.names[name] = d.Base().ID
}

// Scope 返回当前作用域
func (p *Parser) Scope() *Scope {
	return p.scope
}
