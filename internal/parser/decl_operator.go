package parser

import (
	"strconv"

	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 运算符声明
// ============================================================================
//
//   decl-operator ::= 'operator' ('prefix'|'postfix') operator '{' '}'
//                   | 'operator' 'infix' operator '{' infix-attr* '}'
//   infix-attr    ::= 'associativity' ('none'|'left'|'right')
//                   | 'precedence' integer-literal
//
// 运算符只能在文件作用域声明。
//
// ============================================================================

var associativities = map[string]ast.Associativity{
	"none":  ast.AssocNone,
	"left":  ast.AssocLeft,
	"right": ast.AssocRight,
}

// parseDeclOperator 解析运算符声明；当前 Token 为 'operator'
func (p *Parser) parseDeclOperator(allowTopLevel bool, attrs *ast.DeclAttributes) (ast.Decl, Status) {
	loc := p.consume()

	if !attrs.Empty() {
		p.diagnose(attrs.AtLoc, diag.OperatorAttributes)
	}

	fixity := p.tok.Literal
	fixityLoc := p.consume()

	if !p.tok.Is(token.OPERATOR) {
		p.diagnose(p.tok.Pos, diag.ExpectedOperatorName)
		return nil, errorStatus()
	}
	name := p.tok.Literal
	nameLoc := p.consume()

	if fixity == "postfix" && name == "!" {
		p.diagnose(nameLoc, diag.CustomOperatorPostfixExclaim)
	}

	if !p.tok.Is(token.LBRACE) {
		p.diagnose(p.tok.Pos, diag.ExpectedLBraceAfterOperator)
		return nil, errorStatus()
	}

	var d ast.Decl
	switch fixity {
	case "prefix", "postfix":
		d = p.parseDeclUnaryOperator(fixity, loc, fixityLoc, name, nameLoc)
	default:
		d = p.parseDeclInfixOperator(loc, fixityLoc, name, nameLoc)
	}

	p.consumeIf(token.RBRACE)

	if !allowTopLevel {
		p.diagnose(loc, diag.OperatorDeclInnerScope)
		return nil, errorStatus()
	}
	if d == nil {
		return nil, errorStatus()
	}
	return d, Success
}

// parseDeclUnaryOperator 前缀与后缀运算符目前没有任何属性，花括号内必须为空
func (p *Parser) parseDeclUnaryOperator(fixity string, loc, fixityLoc token.Position, name string, nameLoc token.Position) ast.Decl {
	lb := p.consume()

	if !p.tok.Is(token.RBRACE) {
		if p.tok.Is(token.IDENT) {
			p.diagnose(p.tok.Pos, diag.UnknownOperatorAttribute, p.tok.Literal, fixity)
		} else {
			p.diagnose(p.tok.Pos, diag.ExpectedOperatorAttribute)
		}
		p.skipUntilDeclRBrace()
		return nil
	}

	braces := token.NewSpan(lb, p.tok.Pos)
	if fixity == "prefix" {
		return p.arena.NewPrefixOperatorDecl(p.curDC, loc, name, nameLoc, fixityLoc, braces)
	}
	return p.arena.NewPostfixOperatorDecl(p.curDC, loc, name, nameLoc, fixityLoc, braces)
}

// parseDeclInfixOperator 解析中缀运算符的结合性与优先级
//
// 默认结合性为 none，默认优先级为 ast.DefaultPrecedence；超出 0~255 的优先级报告后取 255。
func (p *Parser) parseDeclInfixOperator(loc, fixityLoc token.Position, name string, nameLoc token.Position) ast.Decl {
	lb := p.consume()

	assoc := ast.AssocNone
	prec := uint8(ast.DefaultPrecedence)
	var assocLoc, precLoc token.Position

	for !p.tok.Is(token.RBRACE) {
		if !p.tok.Is(token.IDENT) {
			p.diagnose(p.tok.Pos, diag.ExpectedOperatorAttribute)
			p.skipUntilDeclRBrace()
			return nil
		}

		switch p.tok.Literal {
		case "associativity":
			if assocLoc.IsValid() {
				p.diagnose(p.tok.Pos, diag.OperatorAssociativityRedecl)
				p.skipUntilDeclRBrace()
				return nil
			}
			assocLoc = p.consume()
			if !p.tok.Is(token.IDENT) {
				p.diagnose(p.tok.Pos, diag.ExpectedInfixAssociativity)
				p.skipUntilDeclRBrace()
				return nil
			}
			a, ok := associativities[p.tok.Literal]
			if !ok {
				p.diagnose(p.tok.Pos, diag.UnknownInfixAssociativity, p.tok.Literal)
				p.skipUntilDeclRBrace()
				return nil
			}
			assoc = a
			p.consume()

		case "precedence":
			if precLoc.IsValid() {
				p.diagnose(p.tok.Pos, diag.OperatorPrecedenceRedecl)
				p.skipUntilDeclRBrace()
				return nil
			}
			precLoc = p.consume()
			if !p.tok.Is(token.INT) {
				p.diagnose(p.tok.Pos, diag.ExpectedInfixPrecedence)
				p.skipUntilDeclRBrace()
				return nil
			}
			v, err := strconv.ParseUint(p.tok.Literal, 0, 8)
			if err != nil {
				p.diagnose(p.tok.Pos, diag.InvalidInfixPrecedence)
				v = 255
			}
			prec = uint8(v)
			p.consume()

		default:
			p.diagnose(p.tok.Pos, diag.UnknownOperatorAttribute, p.tok.Literal, "infix")
			p.skipUntilDeclRBrace()
			return nil
		}
	}

	braces := token.NewSpan(lb, p.tok.Pos)
	return p.arena.NewInfixOperatorDecl(p.curDC, loc, name, nameLoc, fixityLoc, braces, assoc, assocLoc, prec, precLoc)
}
