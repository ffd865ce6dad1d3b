package syntax

import (
	"cshantyc/ast"
	"cshantyc/report"
)

// block := '{' {stmt} '}' ;
func (p *Parser) parseBlock() []ast.ASTNode {
	p.want(TOK_LBRACE)

	var stmts []ast.ASTNode
	for !p.has(TOK_RBRACE) {
		stmts = append(stmts, p.parseStmt())
	}

	p.want(TOK_RBRACE)
	return stmts
}

// stmt := var_decl | if_stmt | while_stmt | simple_stmt ';' ;
// simple_stmt := 'receive' lval | 'report' expr | 'return' [expr]
//	| lval ('++' | '--') | assign_expr | call_expr ;
func (p *Parser) parseStmt() ast.ASTNode {
	if p.atDecl() {
		return p.parseVarDecl()
	}

	switch p.tok.Kind {
	case TOK_IF:
		return p.parseIfStmt()
	case TOK_WHILE:
		return p.parseWhileStmt()
	}

	startSpan := p.tok.Span
	var stmt ast.ASTNode

	switch p.tok.Kind {
	case TOK_RECEIVE:
		p.next()

		dst := p.parseTerm()
		if !ast.IsLValue(dst) {
			panic(report.Raise(dst.Span(), "expected an lvalue"))
		}

		stmt = &ast.ReceiveStmt{
			ASTBase: ast.NewASTBaseOver(p.newID(), startSpan, dst.Span()),
			Dst:     dst,
		}
	case TOK_REPORT:
		p.next()

		src := p.parseExpr()
		stmt = &ast.ReportStmt{
			ASTBase: ast.NewASTBaseOver(p.newID(), startSpan, src.Span()),
			Src:     src,
		}
	case TOK_RETURN:
		p.next()

		var expr ast.ASTNode
		if !p.has(TOK_SEMI) {
			expr = p.parseExpr()
		}

		endSpan := startSpan
		if expr != nil {
			endSpan = spanOf(expr)
		}

		stmt = &ast.ReturnStmt{
			ASTBase: ast.NewASTBaseOver(p.newID(), startSpan, endSpan),
			Expr:    expr,
		}
	default:
		stmt = p.parseExprStmt()
	}

	p.want(TOK_SEMI)
	return stmt
}

// expr_stmt := lval ('++' | '--') | assign_expr | call_expr ;
func (p *Parser) parseExprStmt() ast.ASTNode {
	expr := p.parseExpr()

	if ast.IsLValue(expr) && p.hasOneOf(TOK_INC, TOK_DEC) {
		p.next()

		if p.lookbehind.Kind == TOK_INC {
			return &ast.PostIncStmt{
				ASTBase: ast.NewASTBaseOver(p.newID(), expr.Span(), p.lookbehind.Span),
				LVal:    expr,
			}
		}

		return &ast.PostDecStmt{
			ASTBase: ast.NewASTBaseOver(p.newID(), expr.Span(), p.lookbehind.Span),
			LVal:    expr,
		}
	}

	switch v := expr.(type) {
	case *ast.AssignExpr:
		return &ast.AssignStmt{
			ASTBase: ast.NewASTBaseOn(p.newID(), v.Span()),
			Assign:  v,
		}
	case *ast.CallExpr:
		return &ast.CallStmt{
			ASTBase: ast.NewASTBaseOn(p.newID(), v.Span()),
			Call:    v,
		}
	}

	panic(report.Raise(expr.Span(), "expression is not a statement"))
}

// if_stmt := 'if' '(' expr ')' block ['else' block] ;
func (p *Parser) parseIfStmt() ast.ASTNode {
	startSpan := p.want(TOK_IF).Span

	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	body := p.parseBlock()

	if p.has(TOK_ELSE) {
		p.next()

		elseBody := p.parseBlock()
		return &ast.IfElseStmt{
			ASTBase:   ast.NewASTBaseOver(p.newID(), startSpan, p.lookbehind.Span),
			Cond:      cond,
			BodyTrue:  body,
			BodyFalse: elseBody,
		}
	}

	return &ast.IfStmt{
		ASTBase: ast.NewASTBaseOver(p.newID(), startSpan, p.lookbehind.Span),
		Cond:    cond,
		Body:    body,
	}
}

// while_stmt := 'while' '(' expr ')' block ;
func (p *Parser) parseWhileStmt() ast.ASTNode {
	startSpan := p.want(TOK_WHILE).Span

	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	body := p.parseBlock()

	return &ast.WhileStmt{
		ASTBase: ast.NewASTBaseOver(p.newID(), startSpan, p.lookbehind.Span),
		Cond:    cond,
		Body:    body,
	}
}
