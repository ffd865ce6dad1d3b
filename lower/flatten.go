package lower

import (
	"strconv"

	"cshantyc/ast"
	"cshantyc/ir"
	"cshantyc/report"
	"cshantyc/types"
)

// flatten lowers an expression and returns the operand holding its value.
// Calls to void functions return nil.
func (l *Lowerer) flatten(expr ast.ASTNode) ir.Operand {
	switch v := expr.(type) {
	case *ast.IntLit:
		return ir.NewIntLit(strconv.FormatInt(v.Value, 10))
	case *ast.StrLit:
		return l.prog.MakeString(v.Value)
	case *ast.BoolLit:
		return ir.NewBoolLit(v.Value)
	case *ast.Identifier:
		opd := l.proc.GetSymOpd(v.Sym)
		if opd == nil {
			report.ICE("no operand for identifier `%s`", v.Name)
		}

		return opd
	case *ast.IndexExpr:
		return l.flattenIndex(v)
	case *ast.AssignExpr:
		src := l.flatten(v.Src)
		dst := l.flatten(v.Dst)

		aq := &ir.AssignQuad{Dst: dst, Src: src}
		aq.SetComment("Assign")
		l.proc.AddQuad(aq)
		return dst
	case *ast.CallExpr:
		if res := l.flattenCall(v); res != nil {
			return res
		}

		return nil
	case *ast.UnaryExpr:
		return l.flattenUnary(v)
	case *ast.BinaryExpr:
		return l.flattenBinary(v)
	}

	report.ICE("unknown expression %T in lowering", expr)
	return nil
}

// flattenIndex computes the address of a record field into a new address
// temporary.
func (l *Lowerer) flattenIndex(ie *ast.IndexExpr) ir.Operand {
	base := l.flatten(ie.Base)

	rt, ok := types.AsRecord(l.typeOf(ie.Base))
	if !ok {
		report.ICE("index base is not a record in lowering")
	}

	offset, ok := rt.Offset(ie.Field.Name)
	if !ok {
		report.ICE("record `%s` has no field `%s`", rt.Name, ie.Field.Name)
	}

	addr := l.proc.MakeAddrTmp(ir.SlotWidth)
	l.proc.AddQuad(&ir.IndexQuad{
		Dst:    addr,
		Base:   base,
		Offset: ir.NewIntLit(strconv.Itoa(offset)),
	})

	return addr
}

// flattenCall evaluates all the arguments of a call before passing them and
// then calls the function.  It returns the temporary holding the return value
// or nil if the function returns void.  The getret quad is always the last
// quad emitted for a non-void call.
func (l *Lowerer) flattenCall(ce *ast.CallExpr) *ir.AuxOpd {
	args := make([]ir.Operand, len(ce.Args))
	for i, arg := range ce.Args {
		args[i] = l.flatten(arg)
	}

	for i, arg := range args {
		l.proc.AddQuad(&ir.SetArgQuad{
			Index: i + 1,
			Src:   arg,
			Type:  l.typeOf(ce.Args[i]),
		})
	}

	l.proc.AddQuad(&ir.CallQuad{Callee: ce.Callee.Sym})

	fnType, ok := types.AsFunc(ce.Callee.Sym.Type)
	if !ok {
		report.ICE("call to non-function `%s` in lowering", ce.Callee.Name)
	}

	if types.IsPrim(fnType.Return, types.PrimVoid) {
		return nil
	}

	_, isRecord := types.AsRecord(fnType.Return)

	ret := l.proc.MakeTmp(fnType.Return.Size())
	l.proc.AddQuad(&ir.GetRetQuad{Dst: ret, IsRecord: isRecord})
	return ret
}

var unaryOps = map[int]ir.UnaryOp{
	ast.OpNeg: ir.NEG64,
	ast.OpNot: ir.NOT64,
}

func (l *Lowerer) flattenUnary(ue *ast.UnaryExpr) ir.Operand {
	src := l.flatten(ue.Operand)
	if src == nil {
		report.ICE("unary operator applied to a void value in lowering")
	}

	dst := l.proc.MakeTmp(l.opWidth(ue))
	l.proc.AddQuad(&ir.UnaryOpQuad{Dst: dst, Op: unaryOps[ue.Op], Src: src})
	return dst
}

var binaryOps = map[int]ir.BinOp{
	ast.OpPlus:      ir.ADD64,
	ast.OpMinus:     ir.SUB64,
	ast.OpTimes:     ir.MULT64,
	ast.OpDivide:    ir.DIV64,
	ast.OpAnd:       ir.AND64,
	ast.OpOr:        ir.OR64,
	ast.OpEquals:    ir.EQ64,
	ast.OpNotEquals: ir.NEQ64,
	ast.OpLess:      ir.LT64,
	ast.OpLessEq:    ir.LTE64,
	ast.OpGreater:   ir.GT64,
	ast.OpGreaterEq: ir.GTE64,
}

// flattenBinary evaluates both operands left to right and computes the result
// into a new temporary.  Comparisons always produce a slot-wide bool.
func (l *Lowerer) flattenBinary(be *ast.BinaryExpr) ir.Operand {
	lhs := l.flatten(be.Lhs)
	rhs := l.flatten(be.Rhs)
	if lhs == nil || rhs == nil {
		report.ICE("binary operator applied to a void value in lowering")
	}

	op := binaryOps[be.Op]

	var width int
	switch op {
	case ir.EQ64, ir.NEQ64, ir.LT64, ir.LTE64, ir.GT64, ir.GTE64:
		width = ir.SlotWidth
	default:
		width = l.opWidth(be)
	}

	dst := l.proc.MakeTmp(width)
	l.proc.AddQuad(&ir.BinOpQuad{Dst: dst, Op: op, Src1: lhs, Src2: rhs})
	return dst
}
