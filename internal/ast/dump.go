package ast

import (
	"fmt"
	"strings"
)

// ============================================================================
// AST 打印
// ============================================================================
//
// Dump 输出缩进的 S 表达式，不含源码位置，
// 因此同一段源码在不同偏移处解析得到的输出相同。
//
// ============================================================================

// Dump 打印整个源文件
func Dump(file *SourceFile) string {
	d := &dumper{arena: file.Arena}
	d.printf("(source_file %q", file.Filename)
	for _, id := range file.Decls {
		d.decl(id)
	}
	d.sb.WriteString(")\n")
	return d.sb.String()
}

// DumpDecl 打印单个声明
func DumpDecl(a *Arena, id DeclID) string {
	d := &dumper{arena: a, indent: -1}
	d.decl(id)
	return strings.TrimPrefix(d.sb.String(), "\n")
}

type dumper struct {
	arena  *Arena
	sb     strings.Builder
	indent int
}

func (d *dumper) printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.sb, format, args...)
}

func (d *dumper) open(head string) {
	d.indent++
	d.sb.WriteByte('\n')
	d.sb.WriteString(strings.Repeat("  ", d.indent))
	d.sb.WriteString("(" + head)
}

func (d *dumper) close() {
	d.sb.WriteByte(')')
	d.indent--
}

func (d *dumper) decl(id DeclID) {
	decl := d.arena.Decl(id)
	if decl == nil {
		d.open("<nil>")
		d.close()
		return
	}

	d.open(decl.Kind().String())
	if vd, ok := decl.(ValueDecl); ok && vd.Value().Name != "" {
		d.printf(" %s", vd.Value().Name)
	}
	if b := decl.Base(); !b.Attrs.Empty() {
		d.printf(" %s", b.Attrs.String())
	}

	switch n := decl.(type) {
	case *ImportDecl:
		if n.ImportKind != ImportModule {
			d.printf(" kind=%s", n.ImportKind)
		}
		d.printf(" path=%s", strings.TrimPrefix(n.String(), "import "))

	case *ExtensionDecl:
		d.printf(" type=%s", n.ExtendedType)
		d.inherited(n.Inherited)
		d.decls(n.Members)

	case *TypeAliasDecl:
		d.inherited(n.Inherited)
		if n.Underlying != nil {
			d.printf(" = %s", n.Underlying)
		}

	case *AssociatedTypeDecl:
		d.inherited(n.Inherited)

	case *GenericTypeParamDecl:
		d.inherited(n.Inherited)

	case NominalDecl:
		nb := n.Nominal()
		d.generics(nb.Generics)
		d.inherited(nb.Inherited)
		d.decls(nb.Members)

	case *EnumCaseDecl:
		for _, id := range n.Elements {
			d.decl(id)
		}

	case *EnumElementDecl:
		if n.ArgType != nil {
			d.printf(" type=%s", n.ArgType)
		}
		if n.RawValue != nil {
			d.printf(" raw=%s", n.RawValue)
		}

	case *FuncDecl:
		if n.Static {
			d.sb.WriteString(" static")
		}
		if n.Accessor != NotAccessor {
			d.printf(" accessor=%s", n.Accessor)
		}
		d.function(&n.FunctionBase)
		if n.Result != nil {
			d.printf(" result=%s", n.Result)
		}
		d.body(&n.FunctionBase)

	case *ConstructorDecl:
		d.function(&n.FunctionBase)
		d.body(&n.FunctionBase)

	case *DestructorDecl:
		d.function(&n.FunctionBase)
		d.body(&n.FunctionBase)

	case *SubscriptDecl:
		d.printf(" indices=%s element=%s", n.Indices, n.ElementType)
		if n.Getter != NoDecl {
			d.sb.WriteString(" get")
		}
		if n.Setter != NoDecl {
			d.sb.WriteString(" set")
		}

	case *PatternBindingDecl:
		if n.Static {
			d.sb.WriteString(" static")
		}
		d.printf(" %s", n.Pattern)
		if n.Init != nil {
			d.printf(" init=%s", n.Init)
		}

	case *VarDecl:
		if n.Static {
			d.sb.WriteString(" static")
		}
		if n.IsComputed() {
			d.sb.WriteString(" computed")
			if n.Setter != NoDecl {
				d.sb.WriteString(" settable")
			}
		}

	case *PrefixOperatorDecl:
		d.printf(" %s", n.Name)

	case *PostfixOperatorDecl:
		d.printf(" %s", n.Name)

	case *InfixOperatorDecl:
		d.printf(" %s assoc=%s prec=%d", n.Name, n.Associativity, n.Precedence)

	case *TopLevelCodeDecl:
		if n.Body != nil {
			d.items(n.Body.Items)
		}
	}

	if decl.Base().Invalid {
		d.sb.WriteString(" invalid")
	}
	d.close()
}

// decls 打印成员列表；枚举成员已经在所属的 case 下打印
func (d *dumper) decls(ids []DeclID) {
	for _, id := range ids {
		if decl := d.arena.Decl(id); decl != nil && decl.Kind() == KindEnumElement {
			continue
		}
		d.decl(id)
	}
}

func (d *dumper) inherited(ts []TypeRepr) {
	if len(ts) > 0 {
		d.printf(" inherits=(%s)", joinNodes(typeNodes(ts), ", "))
	}
}

func (d *dumper) generics(g *GenericParamList) {
	if g == nil {
		return
	}
	parts := make([]string, len(g.Params))
	for i, id := range g.Params {
		p := As[*GenericTypeParamDecl](d.arena, id)
		parts[i] = p.Name
		if len(p.Inherited) > 0 {
			parts[i] += ": " + joinNodes(typeNodes(p.Inherited), " & ")
		}
	}
	d.printf(" generics=<%s>", strings.Join(parts, ", "))
}

func (d *dumper) function(f *FunctionBase) {
	d.generics(f.Generics)
	if len(f.Params) > 0 {
		d.sb.WriteString(" params=")
		for _, p := range f.Params {
			s := p.String()
			if _, ok := p.(*TuplePattern); !ok {
				s = "(" + s + ")"
			}
			d.sb.WriteString(s)
		}
	}
}

func (d *dumper) body(f *FunctionBase) {
	if f.BodyKind != BodyNone {
		d.printf(" body=%s", f.BodyKind)
	}
	if f.Body != nil {
		d.items(f.Body.Items)
	}
}

func (d *dumper) items(items []BraceItem) {
	for _, it := range items {
		switch {
		case it.Decl != NoDecl:
			d.decl(it.Decl)
		case it.Stmt != nil:
			d.stmt(it.Stmt)
		case it.Expr != nil:
			d.open("expr " + it.Expr.String())
			d.close()
		}
	}
}

func (d *dumper) stmt(s Stmt) {
	switch s := s.(type) {
	case *BraceStmt:
		d.open("brace")
		d.items(s.Items)
		d.close()
	case *IfStmt:
		d.open("if " + s.Cond.String())
		d.stmt(s.Then)
		if s.Else != nil {
			d.stmt(s.Else)
		}
		d.close()
	case *WhileStmt:
		d.open("while " + s.Cond.String())
		d.stmt(s.Body)
		d.close()
	default:
		d.open(s.String())
		d.close()
	}
}
