package parser

import (
	"sort"

	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/lexer"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 延迟解析状态
// ============================================================================
//
// State 在多次解析之间保存检查点：
//   - 被跳过的函数体：从 '{' 开始的词法状态、结束偏移与当时的作用域链
//   - 代码补全第一遍中被整体跳过的声明
// 每个检查点只能取出一次。
//
// ============================================================================

// bodyCheckpoint 被跳过的函数体
type bodyCheckpoint struct {
	begin   lexer.State // 扫描 '{' 之前的词法状态
	prevLoc token.Position
	end     int // 结束偏移（不含）
	scope   *Scope
}

// DelayedDecl 代码补全第一遍中跳过的声明
type DelayedDecl struct {
	Flags    DeclFlags
	Context  ast.ContextID
	Range    token.Span
	TopLevel bool

	begin   lexer.State
	prevLoc token.Position
	end     int
	scope   *Scope
}

// State 延迟解析状态
type State struct {
	bodies map[ast.DeclID]*bodyCheckpoint
	decl   *DelayedDecl
}

// NewState 创建空状态
func NewState() *State {
	return &State{bodies: make(map[ast.DeclID]*bodyCheckpoint)}
}

func (s *State) delayBody(id ast.DeclID, cp *bodyCheckpoint) {
	s.bodies[id] = cp
}

// HasDelayedBody 函数体是否有未取出的检查点
func (s *State) HasDelayedBody(id ast.DeclID) bool {
	_, ok := s.bodies[id]
	return ok
}

// DelayedBodies 返回全部未取出检查点的函数，按句柄排序
func (s *State) DelayedBodies() []ast.DeclID {
	ids := make([]ast.DeclID, 0, len(s.bodies))
	for id := range s.bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *State) takeBody(id ast.DeclID) *bodyCheckpoint {
	cp, ok := s.bodies[id]
	if !ok {
		return nil
	}
	delete(s.bodies, id)
	return cp
}

func (s *State) delayDecl(d *DelayedDecl) {
	s.decl = d
}

// HasDelayedDecl 是否有未取出的延迟声明
func (s *State) HasDelayedDecl() bool {
	return s.decl != nil
}

// DelayedDecl 返回未取出的延迟声明（只读），没有则为 nil
func (s *State) DelayedDecl() *DelayedDecl {
	return s.decl
}

func (s *State) takeDecl() *DelayedDecl {
	d := s.decl
	s.decl = nil
	return d
}
