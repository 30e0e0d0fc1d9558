package parser

import (
	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/i18n"
	"github.com/tangzhangming/kestrel/internal/lexer"
	"github.com/tangzhangming/kestrel/internal/token"
)

// ============================================================================
// 属性解析
// ============================================================================
//
// 声明属性：  @name  @name=value  以 '@' 或 ',' 分隔
// 类型属性：  @inout  @cc(method)
//
// 属性列表遇到第一个无法识别的属性就停止，剩余 Token 交给调用方。
//
// ============================================================================

// didYouMean 返回拼写建议（没有时为空字符串）
func didYouMean(name string, candidates []string) string {
	if s := diag.FindSimilar(name, candidates, 2); s != "" {
		return i18n.T(i18n.CLIHelpDidYouMean, s)
	}
	return ""
}

// skipAttributeValue 跳过未知属性的 "= value"
func (p *Parser) skipAttributeValue() {
	if p.consumeIf(token.EQUAL) && p.tok.IsAny(token.IDENT, token.INT, token.FLOAT, token.STRING) {
		p.consume()
	}
}

// parseDeclAttributeList 解析声明属性列表
func (p *Parser) parseDeclAttributeList() ast.DeclAttributes {
	var attrs ast.DeclAttributes
	if !p.tok.Is(token.AT) {
		return attrs
	}
	attrs.AtLoc = p.tok.Pos

	for {
		if _, ok := p.expect(token.AT, diag.ExpectedAttributeName); !ok {
			break
		}
		if !p.parseDeclAttribute(&attrs) {
			break
		}
		if !p.tok.Is(token.AT) && !p.consumeIf(token.COMMA) {
			break
		}
	}
	return attrs
}

// parseDeclAttribute 解析 '@' 之后的一个声明属性
//
// 未知属性报告后跳过，返回 true；缺少属性名时返回 false，结束整个列表。
func (p *Parser) parseDeclAttribute(attrs *ast.DeclAttributes) bool {
	if !p.tok.Is(token.IDENT) {
		p.diagnose(p.tok.Pos, diag.ExpectedAttributeName)
		return false
	}

	name := p.tok.Literal
	kind, ok := ast.LookupDeclAttr(name)
	if !ok {
		if _, isType := ast.LookupTypeAttr(name); isType {
			p.diagnose(p.tok.Pos, diag.TypeAttributeAppliedToDecl)
		} else {
			p.diagnose(p.tok.Pos, diag.UnknownAttribute, name).
				Hint(didYouMean(name, ast.DeclAttrNames()))
		}
		// 跳过名字和取值后继续解析后面的属性
		p.consume()
		p.skipAttributeValue()
		return true
	}

	loc := p.consume()
	dup := attrs.Has(kind)
	if dup {
		p.diagnose(loc, diag.DuplicateAttribute)
	} else {
		attrs.Set(kind, loc)
	}

	switch kind {
	case ast.AttrWeak, ast.AttrUnowned:
		// 所有权只能有一个，保留先出现的
		if dup {
			break
		}
		attrs.Clear(kind)
		if attrs.HasOwnership() {
			p.diagnose(loc, diag.DuplicateAttribute)
			break
		}
		attrs.Set(kind, loc)

	case ast.AttrResilient, ast.AttrFragile, ast.AttrBornFragile:
		if dup {
			break
		}
		attrs.Clear(kind)
		if attrs.HasResilience() {
			p.diagnose(loc, diag.DuplicateAttribute)
			break
		}
		attrs.Set(kind, loc)

	case ast.AttrPrefix:
		if !dup && attrs.IsPostfix() {
			p.diagnose(loc, diag.CannotCombineAttribute, "postfix")
			attrs.Clear(kind)
		}

	case ast.AttrPostfix:
		if !dup && attrs.IsPrefix() {
			p.diagnose(loc, diag.CannotCombineAttribute, "prefix")
			attrs.Clear(kind)
		}

	case ast.AttrAsmname:
		p.parseAsmName(attrs, loc, dup)
	}
	return true
}

// parseAsmName 解析 @asmname 的 ="symbol" 部分
func (p *Parser) parseAsmName(attrs *ast.DeclAttributes, loc token.Position, dup bool) {
	clear := func() {
		if !dup {
			attrs.Clear(ast.AttrAsmname)
		}
	}

	if !p.consumeIf(token.EQUAL) {
		p.diagnose(loc, diag.AsmnameExpectedEquals)
		clear()
		return
	}
	if !p.tok.Is(token.STRING) {
		p.diagnose(loc, diag.AsmnameExpectedString)
		clear()
		return
	}

	if !lexer.IsSimpleString(p.tok) {
		p.diagnose(loc, diag.AsmnameInterpolatedString)
		clear()
	} else if !dup {
		attrs.AsmName = lexer.Segments(p.tok)[0].Text
	}
	p.consume()
}

// ============================================================================
// 类型属性
// ============================================================================

// parseTypeAttributeList 解析类型属性列表
func (p *Parser) parseTypeAttributeList() ast.TypeAttributes {
	var attrs ast.TypeAttributes
	if !p.tok.Is(token.AT) {
		return attrs
	}
	attrs.AtLoc = p.tok.Pos

	for {
		if _, ok := p.expect(token.AT, diag.ExpectedAttributeName); !ok {
			break
		}
		if !p.parseTypeAttribute(&attrs) {
			break
		}
		if !p.tok.Is(token.AT) && !p.consumeIf(token.COMMA) {
			break
		}
	}
	return attrs
}

// parseTypeAttribute 解析 '@' 之后的一个类型属性，缺少属性名时返回 false
func (p *Parser) parseTypeAttribute(attrs *ast.TypeAttributes) bool {
	if !p.tok.Is(token.IDENT) {
		p.diagnose(p.tok.Pos, diag.ExpectedAttributeName)
		return false
	}

	name := p.tok.Literal
	kind, ok := ast.LookupTypeAttr(name)
	if !ok {
		if _, isDecl := ast.LookupDeclAttr(name); isDecl {
			p.diagnose(p.tok.Pos, diag.DeclAttributeAppliedToType)
		} else {
			p.diagnose(p.tok.Pos, diag.UnknownAttribute, name).
				Hint(didYouMean(name, ast.TypeAttrNames()))
		}
		p.consume()
		p.skipAttributeValue()
		return true
	}

	loc := p.consume()
	dup := attrs.Has(kind)
	if dup {
		p.diagnose(loc, diag.DuplicateAttribute)
	} else {
		attrs.Set(kind, loc)
	}

	switch kind {
	case ast.TypeAttrLocalStorage, ast.TypeAttrSILSelf:
		if !p.opts.LowLevel {
			p.diagnose(loc, diag.OnlyAllowedInLowLevel, name)
			attrs.Clear(kind)
		}

	case ast.TypeAttrSILWeak, ast.TypeAttrSILUnowned:
		if dup {
			break
		}
		attrs.Clear(kind)
		if !p.opts.LowLevel {
			p.diagnose(loc, diag.OnlyAllowedInLowLevel, name)
			break
		}
		if attrs.Has(ast.TypeAttrSILWeak) || attrs.Has(ast.TypeAttrSILUnowned) {
			p.diagnose(loc, diag.DuplicateAttribute)
			break
		}
		attrs.Set(kind, loc)

	case ast.TypeAttrInOut:
		if !dup && attrs.Has(ast.TypeAttrAutoClosure) {
			p.diagnose(loc, diag.CannotCombineAttribute, "auto_closure")
			attrs.Clear(kind)
		}

	case ast.TypeAttrAutoClosure:
		if !dup && attrs.Has(ast.TypeAttrInOut) {
			p.diagnose(loc, diag.CannotCombineAttribute, "inout")
			attrs.Clear(kind)
		}

	case ast.TypeAttrCC:
		p.parseCallingConvention(attrs, loc, dup)
	}
	return true
}

// parseCallingConvention 解析 @cc(name) 的括号部分
func (p *Parser) parseCallingConvention(attrs *ast.TypeAttributes, loc token.Position, dup bool) {
	if !p.tok.Is(token.LPAREN) || p.tok.AtLineStart {
		p.diagnose(loc, diag.CCExpectedLParen)
		if !dup {
			attrs.Clear(ast.TypeAttrCC)
		}
		return
	}
	lparen := p.consume()

	var name string
	var nameLoc token.Position
	if p.tok.Is(token.IDENT) {
		name = p.tok.Literal
		nameLoc = p.consume()
	} else {
		p.diagnose(p.tok.Pos, diag.CCExpectedName)
	}
	p.parseMatchingToken(token.RPAREN, diag.CCExpectedRParen, lparen)

	if name == "" || dup {
		if !dup {
			attrs.Clear(ast.TypeAttrCC)
		}
		return
	}
	if !ast.IsCallingConvention(name) {
		p.diagnose(nameLoc, diag.CCUnknownName, name)
		attrs.Clear(ast.TypeAttrCC)
		return
	}
	attrs.CC = name
}
