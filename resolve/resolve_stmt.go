package resolve

import (
	"cshantyc/ast"
	"cshantyc/report"
)

// resolveBlock resolves a list of statements in the current scope.
func (r *Resolver) resolveBlock(stmts []ast.ASTNode) bool {
	ok := true
	for _, stmt := range stmts {
		ok = r.resolveStmt(stmt) && ok
	}

	return ok
}

// resolveScopedBlock resolves a block in a fresh scope.
func (r *Resolver) resolveScopedBlock(stmts []ast.ASTNode) bool {
	r.scopes.Enter()
	ok := r.resolveBlock(stmts)
	r.scopes.Leave()

	return ok
}

func (r *Resolver) resolveStmt(stmt ast.ASTNode) bool {
	switch v := stmt.(type) {
	case *ast.VarDecl:
		return r.resolveVarDecl(r.scopes, v)
	case *ast.AssignStmt:
		return r.resolveExpr(v.Assign)
	case *ast.ReceiveStmt:
		return r.resolveExpr(v.Dst)
	case *ast.ReportStmt:
		return r.resolveExpr(v.Src)
	case *ast.PostIncStmt:
		return r.resolveExpr(v.LVal)
	case *ast.PostDecStmt:
		return r.resolveExpr(v.LVal)
	case *ast.IfStmt:
		ok := r.resolveExpr(v.Cond)
		return r.resolveScopedBlock(v.Body) && ok
	case *ast.IfElseStmt:
		ok := r.resolveExpr(v.Cond)
		ok = r.resolveScopedBlock(v.BodyTrue) && ok
		return r.resolveScopedBlock(v.BodyFalse) && ok
	case *ast.WhileStmt:
		ok := r.resolveExpr(v.Cond)
		return r.resolveScopedBlock(v.Body) && ok
	case *ast.ReturnStmt:
		if v.Expr == nil {
			return true
		}

		return r.resolveExpr(v.Expr)
	case *ast.CallStmt:
		return r.resolveExpr(v.Call)
	}

	report.ICE("unknown statement %T in name resolution", stmt)
	return false
}

// -----------------------------------------------------------------------------

func (r *Resolver) resolveExpr(expr ast.ASTNode) bool {
	switch v := expr.(type) {
	case *ast.Identifier:
		sym, ok := r.scopes.Lookup(v.Name)
		if !ok {
			r.reporter.CompileError(v.Span(), "Undeclared identifier")
			return false
		}

		v.Sym = sym
		return true
	case *ast.IndexExpr:
		// The field is validated against the base's record type during type
		// checking.
		return r.resolveExpr(v.Base)
	case *ast.BinaryExpr:
		ok := r.resolveExpr(v.Lhs)
		return r.resolveExpr(v.Rhs) && ok
	case *ast.UnaryExpr:
		return r.resolveExpr(v.Operand)
	case *ast.AssignExpr:
		ok := r.resolveExpr(v.Dst)
		return r.resolveExpr(v.Src) && ok
	case *ast.CallExpr:
		ok := r.resolveExpr(v.Callee)
		for _, arg := range v.Args {
			ok = r.resolveExpr(arg) && ok
		}

		return ok
	case *ast.IntLit, *ast.StrLit, *ast.BoolLit:
		return true
	}

	report.ICE("unknown expression %T in name resolution", expr)
	return false
}
