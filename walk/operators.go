package walk

import (
	"cshantyc/ast"
	"cshantyc/types"
)

// walkUnary types a unary operator application.
func (w *Walker) walkUnary(ue *ast.UnaryExpr) types.Type {
	operandType := w.walkExpr(ue.Operand)

	if types.IsError(operandType) {
		return w.setError(ue)
	}

	if ue.Op == ast.OpNeg {
		if types.IsPrim(operandType, types.PrimInt) {
			return w.setType(ue, w.interner.Int())
		}

		w.error(ue.Operand.Span(), errMathOpd)
		return w.setError(ue)
	}

	if types.IsPrim(operandType, types.PrimBool) {
		return w.setType(ue, w.interner.Bool())
	}

	w.error(ue.Operand.Span(), errLogicOpd)
	return w.setError(ue)
}

// walkBinary types a binary operator application according to its operator
// family.
func (w *Walker) walkBinary(be *ast.BinaryExpr) types.Type {
	switch be.Op {
	case ast.OpPlus, ast.OpMinus, ast.OpTimes, ast.OpDivide:
		return w.walkMathOp(be)
	case ast.OpAnd, ast.OpOr:
		return w.walkLogicOp(be)
	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		return w.walkRelOp(be)
	default:
		return w.walkEqOp(be)
	}
}

// -----------------------------------------------------------------------------

// walkOperand types an operand that must have the primitive type kind.  An
// operand of any other type is reported with msg.  Error operands are
// rejected without a report.
func (w *Walker) walkOperand(opd ast.ASTNode, kind types.PrimKind, msg string) bool {
	typ := w.walkExpr(opd)

	if types.IsPrim(typ, kind) {
		return true
	} else if !types.IsError(typ) {
		w.error(opd.Span(), msg)
	}

	return false
}

// walkMathOp types `+ - * /`: both operands must be ints.
func (w *Walker) walkMathOp(be *ast.BinaryExpr) types.Type {
	lhsValid := w.walkOperand(be.Lhs, types.PrimInt, errMathOpd)
	rhsValid := w.walkOperand(be.Rhs, types.PrimInt, errMathOpd)

	if !lhsValid || !rhsValid {
		return w.setError(be)
	}

	return w.setType(be, w.interner.Int())
}

// walkLogicOp types `&& ||`: both operands must be bools.
func (w *Walker) walkLogicOp(be *ast.BinaryExpr) types.Type {
	lhsValid := w.walkOperand(be.Lhs, types.PrimBool, errLogicOpd)
	rhsValid := w.walkOperand(be.Rhs, types.PrimBool, errLogicOpd)

	if !lhsValid || !rhsValid {
		return w.setError(be)
	}

	return w.setType(be, w.interner.Bool())
}

// walkRelOp types `< <= > >=`: both operands must be ints.  Invalid operands
// are retyped as errors.
func (w *Walker) walkRelOp(be *ast.BinaryExpr) types.Type {
	lhsValid := w.walkRelOperand(be.Lhs)
	rhsValid := w.walkRelOperand(be.Rhs)

	if !lhsValid || !rhsValid {
		return w.setError(be)
	}

	return w.setType(be, w.interner.Bool())
}

func (w *Walker) walkRelOperand(opd ast.ASTNode) bool {
	typ := w.walkExpr(opd)

	if types.IsPrim(typ, types.PrimInt) {
		return true
	} else if !types.IsError(typ) {
		w.error(opd.Span(), errRelOpd)
		w.setError(opd)
	}

	return false
}

// -----------------------------------------------------------------------------

// walkEqOperand types an equality operand.  It returns nil for record names,
// the operand's type for ints, bools and records, and the error type for
// anything else.
func (w *Walker) walkEqOperand(opd ast.ASTNode) types.Type {
	typ := w.walkExpr(opd)

	switch v := typ.(type) {
	case nil:
		return nil
	case *types.PrimitiveType:
		if v.Kind == types.PrimInt || v.Kind == types.PrimBool {
			return v
		}
	case *types.RecordType:
		return v
	case *types.ErrorType:
		return v
	}

	w.error(opd.Span(), errEqOpd)
	return w.interner.Error()
}

// walkEqOp types `== !=`: both operands must have the same int or bool type.
// Record variables and record names are diagnosed specifically.
func (w *Walker) walkEqOp(be *ast.BinaryExpr) types.Type {
	lhsType := w.walkEqOperand(be.Lhs)
	rhsType := w.walkEqOperand(be.Rhs)

	if isRecordName(lhsType) || isRecordName(rhsType) {
		if isRecordName(lhsType) && isRecordName(rhsType) {
			w.error(be.Span(), errEqRecNames)
		} else if isRecordName(lhsType) {
			w.error(be.Lhs.Span(), errEqOpd)
		} else {
			w.error(be.Rhs.Span(), errEqRecNames)
		}

		return w.setError(be)
	}

	_, lhsIsRec := types.AsRecord(lhsType)
	_, rhsIsRec := types.AsRecord(rhsType)
	if lhsIsRec || rhsIsRec {
		if lhsIsRec && rhsIsRec {
			w.error(be.Span(), errEqRecVars)
		} else if lhsIsRec {
			w.error(be.Lhs.Span(), errEqOpd)
		} else {
			w.error(be.Rhs.Span(), errEqRecNames)
		}

		return w.setError(be)
	}

	if types.IsError(lhsType) || types.IsError(rhsType) {
		return w.setError(be)
	}

	if lhsType == rhsType {
		return w.setType(be, w.interner.Bool())
	}

	w.error(be.Span(), errEqOpr)
	return w.setError(be)
}
