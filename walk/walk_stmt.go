package walk

import (
	"cshantyc/ast"
	"cshantyc/report"
	"cshantyc/types"
)

// walkDecl type checks a top-level or local declaration.
func (w *Walker) walkDecl(decl ast.ASTNode) {
	switch v := decl.(type) {
	case *ast.VarDecl:
		w.setType(v, v.Ident.Sym.Type)
	case *ast.RecordTypeDecl:
		w.setType(v, w.interner.Void())
	case *ast.FnDecl:
		w.walkFnDecl(v)
	default:
		report.ICE("unknown declaration %T in type checking", decl)
	}
}

// walkFnDecl type checks a function body against its signature.
func (w *Walker) walkFnDecl(fd *ast.FnDecl) {
	fnType, ok := types.AsFunc(fd.Symbol().Type)
	if !ok {
		report.ICE("function `%s` has no function type", fd.Ident.Name)
	}

	w.setType(fd, fnType)
	for i, formal := range fd.Formals {
		w.setType(formal, fnType.Params[i])
	}

	w.currentFn = fnType
	w.walkBlock(fd.Body)
	w.currentFn = nil
}

// walkBlock type checks a list of statements.
func (w *Walker) walkBlock(stmts []ast.ASTNode) {
	for _, stmt := range stmts {
		w.walkStmt(stmt)
	}
}

// walkStmt type checks a statement.  Statements type to void or, if they
// contain an error, to the error type.
func (w *Walker) walkStmt(stmt ast.ASTNode) {
	switch v := stmt.(type) {
	case *ast.VarDecl:
		w.walkDecl(v)
	case *ast.AssignStmt:
		if types.IsError(w.walkAssign(v.Assign)) {
			w.setError(v)
		} else {
			w.setType(v, w.interner.Void())
		}
	case *ast.PostIncStmt:
		w.walkIncDec(v, v.LVal)
	case *ast.PostDecStmt:
		w.walkIncDec(v, v.LVal)
	case *ast.ReceiveStmt:
		w.walkReceive(v)
	case *ast.ReportStmt:
		w.walkReport(v)
	case *ast.IfStmt:
		ok := w.walkCond(v.Cond, errIfCond)
		w.walkBlock(v.Body)
		w.setStmtType(v, ok)
	case *ast.IfElseStmt:
		ok := w.walkCond(v.Cond, errIfCond)
		w.walkBlock(v.BodyTrue)
		w.walkBlock(v.BodyFalse)
		w.setStmtType(v, ok)
	case *ast.WhileStmt:
		ok := w.walkCond(v.Cond, errWhileCond)
		w.walkBlock(v.Body)
		w.setStmtType(v, ok)
	case *ast.ReturnStmt:
		w.walkReturn(v)
	case *ast.CallStmt:
		w.setStmtType(v, !types.IsError(w.walkCall(v.Call)))
	default:
		report.ICE("unknown statement %T in type checking", stmt)
	}
}

// setStmtType types a statement as void if ok and as an error otherwise.
func (w *Walker) setStmtType(stmt ast.ASTNode, ok bool) {
	if ok {
		w.setType(stmt, w.interner.Void())
	} else {
		w.setError(stmt)
	}
}

// -----------------------------------------------------------------------------

// walkCond type checks a control flow condition which must be a bool.
func (w *Walker) walkCond(cond ast.ASTNode, msg string) bool {
	condType := w.walkExpr(cond)

	if types.IsError(condType) {
		return false
	} else if !types.IsPrim(condType, types.PrimBool) {
		w.error(cond.Span(), msg)
		return false
	}

	return true
}

// walkIncDec type checks a post-increment or post-decrement statement.
func (w *Walker) walkIncDec(stmt, lval ast.ASTNode) {
	lvalType := w.walkExpr(lval)

	if types.IsError(lvalType) {
		w.setError(stmt)
	} else if types.IsPrim(lvalType, types.PrimInt) {
		w.setType(stmt, w.interner.Void())
	} else {
		w.error(lval.Span(), errMathOpd)
		w.setError(stmt)
	}
}

// walkReceive type checks an input statement.  Only ints and bools can be
// read.
func (w *Walker) walkReceive(rs *ast.ReceiveStmt) {
	dstType := w.walkExpr(rs.Dst)

	if isRecordName(dstType) {
		w.error(rs.Dst.Span(), errReceiveRecName)
		w.setError(rs)
		return
	}

	switch v := dstType.(type) {
	case *types.PrimitiveType:
		if v.Kind == types.PrimInt || v.Kind == types.PrimBool {
			w.setType(rs, w.interner.Void())
			return
		}
	case *types.RecordType:
		w.error(rs.Dst.Span(), errReceiveRecVar)
		w.setError(rs)
		return
	case *types.FuncType:
		w.error(rs.Dst.Span(), errReadFn)
		w.setError(rs)
		return
	case *types.ErrorType:
		w.setError(rs)
		return
	}

	w.error(rs.Dst.Span(), errReadOther)
	w.setError(rs)
}

// walkReport type checks an output statement.
func (w *Walker) walkReport(rs *ast.ReportStmt) {
	srcType := w.walkExpr(rs.Src)

	if isRecordName(srcType) {
		w.error(rs.Src.Span(), errReportRecName)
		w.setError(rs)
		return
	}

	switch v := srcType.(type) {
	case *types.ErrorType:
		w.setError(rs)
	case *types.PrimitiveType:
		if v.Kind == types.PrimVoid {
			w.error(rs.Src.Span(), errWriteVoid)
			w.setError(rs)
		} else {
			w.setType(rs, w.interner.Void())
		}
	case *types.FuncType:
		w.error(rs.Src.Span(), errWriteFn)
		w.setError(rs)
	case *types.RecordType:
		w.error(rs.Src.Span(), errReportRecVar)
		w.setError(rs)
	}
}

// walkReturn type checks a return statement against the current function.
func (w *Walker) walkReturn(rs *ast.ReturnStmt) {
	if w.currentFn == nil {
		report.ICE("return statement outside of a function")
	}

	fnRet := w.currentFn.Return

	if types.IsPrim(fnRet, types.PrimVoid) {
		if rs.Expr != nil {
			w.walkExpr(rs.Expr)
			w.error(rs.Expr.Span(), errRetExtra)
			w.setError(rs)
		} else {
			w.setType(rs, w.interner.Void())
		}

		return
	}

	if rs.Expr == nil {
		w.error(rs.Span(), errRetEmpty)
		w.setError(rs)
		return
	}

	if fnRet == nil {
		w.walkExpr(rs.Expr)
		w.error(rs.Expr.Span(), errRetWrong)
		w.setError(rs)
		return
	}

	exprType := w.walkExpr(rs.Expr)
	if types.IsError(exprType) || types.IsError(fnRet) {
		w.setError(rs)
	} else if exprType != fnRet {
		w.error(rs.Expr.Span(), errRetWrong)
		w.setError(rs)
	} else {
		w.setType(rs, w.interner.Void())
	}
}
