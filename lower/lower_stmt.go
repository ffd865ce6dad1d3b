package lower

import (
	"cshantyc/ast"
	"cshantyc/ir"
	"cshantyc/report"
)

// lowerBlock lowers a list of statements in order.
func (l *Lowerer) lowerBlock(stmts []ast.ASTNode) {
	for _, stmt := range stmts {
		l.lowerStmt(stmt)
	}
}

// lowerStmt appends the quads of a statement to the current procedure.
func (l *Lowerer) lowerStmt(stmt ast.ASTNode) {
	switch v := stmt.(type) {
	case *ast.VarDecl:
		l.proc.GatherLocal(v.Ident.Sym)
	case *ast.AssignStmt:
		l.flatten(v.Assign)
	case *ast.PostIncStmt:
		l.lowerIncDec(v.LVal, ir.ADD64)
	case *ast.PostDecStmt:
		l.lowerIncDec(v.LVal, ir.SUB64)
	case *ast.ReceiveStmt:
		dst := l.flatten(v.Dst)
		l.proc.AddQuad(&ir.InputQuad{Dst: dst, Type: l.typeOf(v.Dst)})
	case *ast.ReportStmt:
		src := l.flatten(v.Src)
		l.proc.AddQuad(&ir.OutputQuad{Src: src, Type: l.typeOf(v.Src)})
	case *ast.IfStmt:
		l.lowerIf(v)
	case *ast.IfElseStmt:
		l.lowerIfElse(v)
	case *ast.WhileStmt:
		l.lowerWhile(v)
	case *ast.CallStmt:
		// the result of a call statement is discarded so its trailing getret
		// is removed.
		if l.flattenCall(v.Call) != nil {
			l.proc.PopQuad()
		}
	case *ast.ReturnStmt:
		l.lowerReturn(v)
	default:
		report.ICE("unknown statement %T in lowering", stmt)
	}
}

// lowerIncDec lowers `x++` and `x--` as `x := x op 1`.
func (l *Lowerer) lowerIncDec(lval ast.ASTNode, op ir.BinOp) {
	opd := l.flatten(lval)

	l.proc.AddQuad(&ir.BinOpQuad{
		Dst:  opd,
		Op:   op,
		Src1: opd,
		Src2: ir.NewIntLit("1"),
	})
}

// lowerIf lowers an if statement:
//
//	    IFZ cond GOTO after
//	    body
//	after: nop
func (l *Lowerer) lowerIf(is *ast.IfStmt) {
	cond := l.flatten(is.Cond)

	afterLabel := l.proc.MakeLabel()
	afterNop := &ir.NopQuad{}
	afterNop.AddLabel(afterLabel)

	l.proc.AddQuad(&ir.IfZeroQuad{Cond: cond, Target: afterLabel})
	l.lowerBlock(is.Body)
	l.proc.AddQuad(afterNop)
}

// lowerIfElse lowers an if-else statement:
//
//	    IFZ cond GOTO else
//	    true body
//	    goto after
//	else: nop
//	    false body
//	after: nop
func (l *Lowerer) lowerIfElse(ies *ast.IfElseStmt) {
	elseLabel := l.proc.MakeLabel()
	elseNop := &ir.NopQuad{}
	elseNop.AddLabel(elseLabel)

	afterLabel := l.proc.MakeLabel()
	afterNop := &ir.NopQuad{}
	afterNop.AddLabel(afterLabel)

	cond := l.flatten(ies.Cond)

	l.proc.AddQuad(&ir.IfZeroQuad{Cond: cond, Target: elseLabel})
	l.lowerBlock(ies.BodyTrue)
	l.proc.AddQuad(&ir.GotoQuad{Target: afterLabel})

	l.proc.AddQuad(elseNop)
	l.lowerBlock(ies.BodyFalse)
	l.proc.AddQuad(afterNop)
}

// lowerWhile lowers a while loop.  The condition is evaluated on every
// iteration:
//
//	head: nop
//	    cond
//	    IFZ cond GOTO after
//	    body
//	    goto head
//	after: nop
func (l *Lowerer) lowerWhile(ws *ast.WhileStmt) {
	headLabel := l.proc.MakeLabel()
	headNop := &ir.NopQuad{}
	headNop.AddLabel(headLabel)

	afterLabel := l.proc.MakeLabel()
	afterNop := &ir.NopQuad{}
	afterNop.AddLabel(afterLabel)

	l.proc.AddQuad(headNop)

	cond := l.flatten(ws.Cond)
	l.proc.AddQuad(&ir.IfZeroQuad{Cond: cond, Target: afterLabel})

	l.lowerBlock(ws.Body)

	l.proc.AddQuad(&ir.GotoQuad{Target: headLabel})
	l.proc.AddQuad(afterNop)
}

// lowerReturn sets the return value if there is one and jumps to the leave
// label of the procedure.
func (l *Lowerer) lowerReturn(rs *ast.ReturnStmt) {
	if rs.Expr != nil {
		res := l.flatten(rs.Expr)
		l.proc.AddQuad(&ir.SetRetQuad{Src: res, IsRecord: l.isRecordValued(rs.Expr)})
	}

	l.proc.AddQuad(&ir.GotoQuad{Target: l.proc.LeaveLabel})
}
