package ast

import "fmt"

// ============================================================================
// Arena 声明存储
// ============================================================================
//
// Arena 持有一个编译单元的全部声明与声明上下文，生命周期与编译单元一致。
// 声明之间通过 DeclID / ContextID 句柄互相引用，不保存指针，因此
// "先分配、后回填所有者" 的两阶段构造不会产生悬空引用：
//
//   ctx := arena.NewContext(TypeContext, parent) // 所有者为占位值
//   ... 在 ctx 中解析泛型参数与成员 ...
//   s := arena.NewStructDecl(parent, ...)
//   arena.BindContext(ctx, s.ID)                 // 固定所有者
//
// Parser 是单线程的，Arena 不加锁。
//
// ============================================================================

// Arena 声明与上下文的存储
type Arena struct {
	decls    []Decl    // 下标 0 保留
	contexts []Context // 下标 0 保留
}

// NewArena 创建一个新的 Arena
func NewArena() *Arena {
	return &Arena{
		decls:    make([]Decl, 1, 64),
		contexts: make([]Context, 1, 16),
	}
}

// add 登记声明并分配句柄
func (a *Arena) add(d Decl) DeclID {
	id := DeclID(len(a.decls))
	d.Base().ID = id
	a.decls = append(a.decls, d)
	return id
}

// Decl 按句柄取声明，NoDecl 返回 nil
func (a *Arena) Decl(id DeclID) Decl {
	if id <= NoDecl || int(id) >= len(a.decls) {
		return nil
	}
	return a.decls[id]
}

// As 按句柄取指定类型的声明，类型不符时返回零值
func As[T Decl](a *Arena, id DeclID) T {
	d, _ := a.Decl(id).(T)
	return d
}

// NumDecls 已分配的声明数量
func (a *Arena) NumDecls() int { return len(a.decls) - 1 }

// Each 按分配顺序遍历全部声明
func (a *Arena) Each(fn func(Decl)) {
	for _, d := range a.decls[1:] {
		fn(d)
	}
}

// ============================================================================
// 声明上下文
// ============================================================================

// NewContext 创建一个所有者待定的上下文
func (a *Arena) NewContext(kind ContextKind, parent ContextID) ContextID {
	id := ContextID(len(a.contexts))
	a.contexts = append(a.contexts, Context{ID: id, Kind: kind, Parent: parent})
	return id
}

// Context 按句柄取上下文
func (a *Arena) Context(id ContextID) *Context {
	if id <= NoContext || int(id) >= len(a.contexts) {
		return nil
	}
	return &a.contexts[id]
}

// BindContext 固定上下文的所有者，每个上下文只能绑定一次
func (a *Arena) BindContext(ctx ContextID, owner DeclID) {
	c := a.Context(ctx)
	if c == nil {
		panic(fmt.Sprintf("ast: bind of invalid context %d", ctx))
	}
	if c.Owner != NoDecl && c.Owner != owner {
		panic(fmt.Sprintf("ast: context %d already bound to decl %d", ctx, c.Owner))
	}
	c.Owner = owner
}

// Reparent 将声明移入另一个上下文
//
// 仅用于已知的领养场景：泛型参数归属其声明、访问器归属属性、
// 隐式 self 归属构造器。
func (a *Arena) Reparent(id DeclID, ctx ContextID) {
	if d := a.Decl(id); d != nil {
		d.Base().Context = ctx
	}
}

// Owner 返回上下文的所有者声明，模块上下文返回 nil
func (a *Arena) Owner(ctx ContextID) Decl {
	c := a.Context(ctx)
	if c == nil {
		return nil
	}
	return a.Decl(c.Owner)
}

// ============================================================================
// 统计
// ============================================================================

// Stats Arena 统计信息
type Stats struct {
	Decls    int
	Contexts int
	ByKind   [NumDeclKinds]int
	Invalid  int
	Implicit int
}

// Stats 返回统计信息
func (a *Arena) Stats() Stats {
	s := Stats{Decls: a.NumDecls(), Contexts: len(a.contexts) - 1}
	a.Each(func(d Decl) {
		s.ByKind[d.Kind()]++
		if d.Base().Invalid {
			s.Invalid++
		}
		if d.Base().Implicit {
			s.Implicit++
		}
	})
	return s
}
