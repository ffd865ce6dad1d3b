package syntax

import (
	"strconv"

	"cshantyc/ast"
	"cshantyc/report"
)

// expr := bin_expr ['=' expr] ;
func (p *Parser) parseExpr() ast.ASTNode {
	lhs := p.parseBinExpr(0)

	if p.has(TOK_ASSIGN) {
		if !ast.IsLValue(lhs) {
			panic(report.Raise(lhs.Span(), "cannot assign to a non-lvalue"))
		}

		p.next()

		rhs := p.parseExpr()
		return &ast.AssignExpr{
			ASTBase: ast.NewASTBaseOver(p.newID(), lhs.Span(), rhs.Span()),
			Dst:     lhs,
			Src:     rhs,
		}
	}

	return lhs
}

// precTable is the operator precedence table for binary operators.  The table
// is ordered lowest to highest precedence and each level maps token kinds to
// their AST operator.
var precTable = []map[int]int{
	{TOK_LOR: ast.OpOr},
	{TOK_LAND: ast.OpAnd},
	{TOK_EQ: ast.OpEquals, TOK_NEQ: ast.OpNotEquals},
	{TOK_LT: ast.OpLess, TOK_LTEQ: ast.OpLessEq, TOK_GT: ast.OpGreater, TOK_GTEQ: ast.OpGreaterEq},
	{TOK_PLUS: ast.OpPlus, TOK_MINUS: ast.OpMinus},
	{TOK_STAR: ast.OpTimes, TOK_DIV: ast.OpDivide},
}

// or_expr := and_expr {'||' and_expr} ;
// and_expr := eq_expr {'&&' eq_expr} ;
// eq_expr := rel_expr {('==' | '!=') rel_expr} ;
// rel_expr := arith_expr {('<' | '<=' | '>' | '>=') arith_expr} ;
// arith_expr := term_expr {('+' | '-') term_expr} ;
// term_expr := unary_expr {('*' | '/') unary_expr} ;
func (p *Parser) parseBinExpr(prec int) ast.ASTNode {
	if prec == len(precTable) {
		return p.parseUnaryExpr()
	}

	lhs := p.parseBinExpr(prec + 1)

	for {
		op, ok := precTable[prec][p.tok.Kind]
		if !ok {
			return lhs
		}

		p.next()

		rhs := p.parseBinExpr(prec + 1)
		lhs = &ast.BinaryExpr{
			ASTBase: ast.NewASTBaseOver(p.newID(), lhs.Span(), rhs.Span()),
			Op:      op,
			Lhs:     lhs,
			Rhs:     rhs,
		}
	}
}

// unary_expr := ('!' | '-') unary_expr | term ;
func (p *Parser) parseUnaryExpr() ast.ASTNode {
	if p.hasOneOf(TOK_NOT, TOK_MINUS) {
		opTok := p.tok
		p.next()

		operand := p.parseUnaryExpr()

		op := ast.OpNeg
		if opTok.Kind == TOK_NOT {
			op = ast.OpNot
		}

		return &ast.UnaryExpr{
			ASTBase: ast.NewASTBaseOver(p.newID(), opTok.Span, operand.Span()),
			Op:      op,
			Operand: operand,
		}
	}

	return p.parseTerm()
}

// term := lval | call_expr | 'INTLIT' | 'STRINGLIT' | 'true' | 'false'
//	| '(' expr ')' ;
// call_expr := 'ID' '(' [expr {',' expr}] ')' ;
// lval := 'ID' {'[' 'ID' ']'} ;
func (p *Parser) parseTerm() ast.ASTNode {
	switch p.tok.Kind {
	case TOK_INTLIT:
		p.next()

		value, _ := strconv.ParseInt(p.lookbehind.Value, 10, 64)
		return &ast.IntLit{
			ASTBase: ast.NewASTBaseOn(p.newID(), p.lookbehind.Span),
			Value:   value,
		}
	case TOK_STRINGLIT:
		p.next()

		return &ast.StrLit{
			ASTBase: ast.NewASTBaseOn(p.newID(), p.lookbehind.Span),
			Value:   p.lookbehind.Value,
		}
	case TOK_TRUE, TOK_FALSE:
		p.next()

		return &ast.BoolLit{
			ASTBase: ast.NewASTBaseOn(p.newID(), p.lookbehind.Span),
			Value:   p.lookbehind.Kind == TOK_TRUE,
		}
	case TOK_LPAREN:
		p.next()

		expr := p.parseExpr()
		p.want(TOK_RPAREN)
		return expr
	case TOK_IDENT:
		ident := p.parseIdent()

		if p.has(TOK_LPAREN) {
			return p.parseCallRest(ident)
		}

		var lval ast.ASTNode = ident
		for p.has(TOK_LBRACKET) {
			p.next()

			field := p.parseIdent()
			p.want(TOK_RBRACKET)

			lval = &ast.IndexExpr{
				ASTBase: ast.NewASTBaseOver(p.newID(), lval.Span(), p.lookbehind.Span),
				Base:    lval,
				Field:   field,
			}
		}

		return lval
	}

	p.reject()
	return nil
}

// parseCallRest parses the argument list of a call to the given identifier.
func (p *Parser) parseCallRest(callee *ast.Identifier) *ast.CallExpr {
	p.want(TOK_LPAREN)

	var args []ast.ASTNode
	if !p.has(TOK_RPAREN) {
		for {
			args = append(args, p.parseExpr())

			if p.has(TOK_COMMA) {
				p.next()
				continue
			}

			break
		}
	}

	p.want(TOK_RPAREN)

	return &ast.CallExpr{
		ASTBase: ast.NewASTBaseOver(p.newID(), callee.Span(), p.lookbehind.Span),
		Callee:  callee,
		Args:    args,
	}
}
