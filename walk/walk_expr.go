package walk

import (
	"cshantyc/ast"
	"cshantyc/report"
	"cshantyc/symtab"
	"cshantyc/types"
)

// walkExpr type checks an expression and returns its type.  A nil type is the
// record name marker.
func (w *Walker) walkExpr(expr ast.ASTNode) types.Type {
	switch v := expr.(type) {
	case *ast.IntLit:
		return w.setType(v, w.interner.Int())
	case *ast.StrLit:
		return w.setType(v, w.interner.String())
	case *ast.BoolLit:
		return w.setType(v, w.interner.Bool())
	case *ast.Identifier:
		return w.walkIdent(v)
	case *ast.IndexExpr:
		return w.walkIndex(v)
	case *ast.AssignExpr:
		return w.walkAssign(v)
	case *ast.CallExpr:
		return w.walkCall(v)
	case *ast.UnaryExpr:
		return w.walkUnary(v)
	case *ast.BinaryExpr:
		return w.walkBinary(v)
	}

	report.ICE("unknown expression %T in type checking", expr)
	return nil
}

// walkIdent types an identifier from its symbol.  Identifiers naming a record
// type are typed with the record name marker.
func (w *Walker) walkIdent(ident *ast.Identifier) types.Type {
	if ident.Sym == nil {
		report.ICE("unresolved identifier `%s` in type checking", ident.Name)
	}

	if ident.Sym.DefKind == symtab.DefKindRecord {
		return w.setType(ident, nil)
	}

	return w.setType(ident, ident.Sym.Type)
}

// walkIndex types a record field access.
func (w *Walker) walkIndex(ie *ast.IndexExpr) types.Type {
	baseType := w.walkExpr(ie.Base)

	if types.IsError(baseType) {
		return w.setError(ie)
	}

	rt, ok := types.AsRecord(baseType)
	if !ok {
		w.error(ie.Base.Span(), errRecordID)
		return w.setError(ie)
	}

	field, ok := rt.Field(ie.Field.Name)
	if !ok {
		w.error(ie.Field.Span(), errRecordIndex)
		return w.setError(ie)
	}

	return w.setType(ie, field.Type)
}

// -----------------------------------------------------------------------------

// validAssignOpd returns whether a type may be assigned.  Errors are accepted
// so that they do not cause additional diagnostics.
func validAssignOpd(typ types.Type) bool {
	switch v := typ.(type) {
	case *types.PrimitiveType:
		return v.Kind != types.PrimVoid
	case *types.ErrorType:
		return true
	}

	return false
}

// walkAssign types an assignment expression: its type is the destination's
// type.
func (w *Walker) walkAssign(ae *ast.AssignExpr) types.Type {
	dstType := w.walkExpr(ae.Dst)
	srcType := w.walkExpr(ae.Src)

	if isRecordName(dstType) || isRecordName(srcType) {
		if isRecordName(dstType) && isRecordName(srcType) {
			w.error(ae.Span(), errAssignRecName)
		} else if isRecordName(dstType) {
			w.error(ae.Dst.Span(), errAssignOpd)
			if !validAssignOpd(srcType) {
				w.error(ae.Src.Span(), errAssignOpd)
			}
		} else {
			if !validAssignOpd(dstType) {
				w.error(ae.Dst.Span(), errAssignOpd)
			}
			w.error(ae.Src.Span(), errAssignOpd)
		}

		return w.setError(ae)
	}

	_, dstIsRec := types.AsRecord(dstType)
	_, srcIsRec := types.AsRecord(srcType)
	if dstIsRec && srcIsRec {
		w.error(ae.Span(), errAssignRecVar)
		return w.setError(ae)
	}

	validOperands := true
	if !validAssignOpd(dstType) {
		w.error(ae.Dst.Span(), errAssignOpd)
		validOperands = false
	}

	if !validAssignOpd(srcType) {
		w.error(ae.Src.Span(), errAssignOpd)
		validOperands = false
	}

	if !validOperands || types.IsError(dstType) || types.IsError(srcType) {
		return w.setError(ae)
	}

	if dstType == srcType {
		return w.setType(ae, dstType)
	}

	w.error(ae.Span(), errAssignOpr)
	return w.setError(ae)
}

// walkCall types a function call.  The call is typed with the callee's
// return type even if its arguments are invalid.
func (w *Walker) walkCall(ce *ast.CallExpr) types.Type {
	actualTypes := make([]types.Type, len(ce.Args))
	for i, arg := range ce.Args {
		actualTypes[i] = w.walkExpr(arg)
	}

	calleeType := w.walkExpr(ce.Callee)
	fnType, ok := types.AsFunc(calleeType)
	if !ok {
		w.error(ce.Callee.Span(), errCallee)
		return w.setError(ce)
	}

	if len(actualTypes) != len(fnType.Params) {
		w.error(ce.Span(), errArgCount)
	}

	for i, actualType := range actualTypes {
		if i >= len(fnType.Params) {
			break
		}

		formalType := fnType.Params[i]
		if types.IsError(actualType) || types.IsError(formalType) {
			continue
		}

		if actualType != formalType {
			w.error(ce.Args[i].Span(), errArgMatch)
		}
	}

	return w.setType(ce, fnType.Return)
}
