package syntax

import (
	"cshantyc/ast"
	"cshantyc/report"
)

// program := {decl} EOF ;
func (p *Parser) parseProgram() *ast.Program {
	startSpan := p.tok.Span
	id := p.newID()

	var decls []ast.ASTNode
	for !p.has(TOK_EOF) {
		decls = append(decls, p.parseDecl())
	}

	return &ast.Program{
		ASTBase:   ast.NewASTBaseOver(id, startSpan, p.tok.Span),
		Decls:     decls,
		NodeCount: p.nextID,
	}
}

// decl := record_decl | type_label 'ID' (';' | fn_rest) ;
func (p *Parser) parseDecl() ast.ASTNode {
	if p.has(TOK_RECORD) {
		return p.parseRecordDecl()
	}

	typeLabel := p.parseTypeLabel()
	ident := p.parseIdent()

	if p.has(TOK_LPAREN) {
		return p.parseFnRest(typeLabel, ident)
	}

	p.want(TOK_SEMI)
	return &ast.VarDecl{
		ASTBase:   ast.NewASTBaseOver(p.newID(), typeLabel.Span(), p.lookbehind.Span),
		TypeLabel: typeLabel,
		Ident:     ident,
	}
}

// record_decl := 'record' 'ID' '{' {var_decl} '}' ;
func (p *Parser) parseRecordDecl() *ast.RecordTypeDecl {
	startSpan := p.want(TOK_RECORD).Span
	ident := p.parseIdent()

	p.want(TOK_LBRACE)

	var fields []*ast.VarDecl
	for !p.has(TOK_RBRACE) {
		fields = append(fields, p.parseVarDecl())
	}

	p.want(TOK_RBRACE)

	return &ast.RecordTypeDecl{
		ASTBase: ast.NewASTBaseOver(p.newID(), startSpan, p.lookbehind.Span),
		Ident:   ident,
		Fields:  fields,
	}
}

// fn_rest := '(' [formal {',' formal}] ')' '{' {stmt} '}' ;
// formal := type_label 'ID' ;
func (p *Parser) parseFnRest(retType *ast.TypeLabel, ident *ast.Identifier) *ast.FnDecl {
	p.want(TOK_LPAREN)

	var formals []*ast.VarDecl
	if !p.has(TOK_RPAREN) {
		for {
			formalType := p.parseTypeLabel()
			formalIdent := p.parseIdent()

			formals = append(formals, &ast.VarDecl{
				ASTBase:   ast.NewASTBaseOver(p.newID(), formalType.Span(), formalIdent.Span()),
				TypeLabel: formalType,
				Ident:     formalIdent,
			})

			if p.has(TOK_COMMA) {
				p.next()
				continue
			}

			break
		}
	}

	p.want(TOK_RPAREN)

	body := p.parseBlock()

	return &ast.FnDecl{
		ASTBase: ast.NewASTBaseOver(p.newID(), retType.Span(), p.lookbehind.Span),
		RetType: retType,
		Ident:   ident,
		Formals: formals,
		Body:    body,
	}
}

// var_decl := type_label 'ID' ';' ;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	typeLabel := p.parseTypeLabel()
	ident := p.parseIdent()
	p.want(TOK_SEMI)

	return &ast.VarDecl{
		ASTBase:   ast.NewASTBaseOver(p.newID(), typeLabel.Span(), p.lookbehind.Span),
		TypeLabel: typeLabel,
		Ident:     ident,
	}
}

// -----------------------------------------------------------------------------

// typeLabelKinds maps the primitive type keywords to their label kinds.
var typeLabelKinds = map[int]int{
	TOK_INT:    ast.TypeInt,
	TOK_BOOL:   ast.TypeBool,
	TOK_STRING: ast.TypeString,
	TOK_VOID:   ast.TypeVoid,
}

// type_label := 'int' | 'bool' | 'string' | 'void' | 'ID' ;
func (p *Parser) parseTypeLabel() *ast.TypeLabel {
	if kind, ok := typeLabelKinds[p.tok.Kind]; ok {
		p.next()

		return &ast.TypeLabel{
			ASTBase: ast.NewASTBaseOn(p.newID(), p.lookbehind.Span),
			Kind:    kind,
		}
	}

	nameTok := p.want(TOK_IDENT)
	return &ast.TypeLabel{
		ASTBase: ast.NewASTBaseOn(p.newID(), nameTok.Span),
		Kind:    ast.TypeRecord,
		Name:    nameTok.Value,
	}
}

// parseIdent parses a single identifier.
func (p *Parser) parseIdent() *ast.Identifier {
	tok := p.want(TOK_IDENT)

	return &ast.Identifier{
		ASTBase: ast.NewASTBaseOn(p.newID(), tok.Span),
		Name:    tok.Value,
	}
}

// atDecl returns whether the parser is at the start of a local variable
// declaration: a primitive type keyword or two consecutive identifiers.
func (p *Parser) atDecl() bool {
	if _, ok := typeLabelKinds[p.tok.Kind]; ok {
		return true
	}

	return p.has(TOK_IDENT) && p.peek().Kind == TOK_IDENT
}

// spanOf returns the span of a possibly nil node.
func spanOf(node ast.ASTNode) *report.TextSpan {
	if node == nil {
		return nil
	}

	return node.Span()
}
