package codegen

import (
	"fmt"

	"cshantyc/ir"
	"cshantyc/report"
	"cshantyc/types"
)

// x64ArgRegs are the registers of the first six arguments of a call.
var x64ArgRegs = []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

var x64ArithOps = map[ir.BinOp]string{
	ir.ADD64:  "addq",
	ir.SUB64:  "subq",
	ir.MULT64: "imulq",
	ir.AND64:  "andq",
	ir.OR64:   "orq",
}

var x64SetOps = map[ir.BinOp]string{
	ir.EQ64:  "sete",
	ir.NEQ64: "setne",
	ir.LT64:  "setl",
	ir.GT64:  "setg",
	ir.LTE64: "setle",
	ir.GTE64: "setge",
}

// x64Generator emits GNU as text for x86-64.  Values are moved through %rax
// and %rbx; %r10 and %r11 hold addresses.
type x64Generator struct {
	asmBuilder

	prog *ir.Program

	// frame is the frame of the procedure being generated.
	frame *Frame

	// pushedArgs counts the stack arguments of the call being marshaled.
	pushedArgs int
}

func newX64Generator(prog *ir.Program) *x64Generator {
	return &x64Generator{prog: prog}
}

func (xg *x64Generator) generate() {
	allocGlobals(xg.prog, "%s(%%rip)")

	xg.line(".data")

	for _, entry := range xg.prog.Strings {
		xg.line("%s: .asciz %s", entry.Label.Value, entry.Text)
	}

	xg.line(".align 8")

	for _, global := range xg.prog.Globals {
		for j := 0; j < globalSlots(global); j++ {
			xg.line("%s: .quad 0", globalSlot(global, j))
		}
	}

	xg.line(".globl main")
	xg.line(".text")

	for _, proc := range xg.prog.Procs {
		xg.frame = layoutX64(proc)

		quads := proc.AllQuads()
		for i, q := range quads {
			xg.labels(q)

			if sq, ok := q.(*ir.SetArgQuad); ok && sq.Index == len(x64ArgRegs)+1 {
				xg.alignStackArgs(quads[i:])
			}

			xg.genQuad(q)
		}
	}
}

// alignStackArgs pads the stack so that it is 16-byte aligned at the call
// whose stack arguments begin the given quads.  The padding sits above the
// pushed arguments and is popped with them.
func (xg *x64Generator) alignStackArgs(quads []ir.Quad) {
	stackArgs := 0
	for _, q := range quads {
		if _, ok := q.(*ir.SetArgQuad); !ok {
			break
		}

		stackArgs++
	}

	if stackArgs%2 == 1 {
		xg.ins("subq $%d, %%rsp", ir.SlotWidth)
		xg.pushedArgs++
	}
}

func (xg *x64Generator) genQuad(q ir.Quad) {
	switch v := q.(type) {
	case *ir.EnterQuad:
		xg.ins("pushq %%rbp")
		xg.ins("movq %%rsp, %%rbp")
		xg.ins("addq $%d, %%rbp", x64FrameBase)
		xg.ins("subq $%d, %%rsp", xg.frame.Size)
	case *ir.LeaveQuad:
		xg.ins("addq $%d, %%rsp", xg.frame.Size)
		xg.ins("popq %%rbp")
		xg.ins("retq")
	case *ir.BinOpQuad:
		xg.genBinOp(v)
	case *ir.UnaryOpQuad:
		xg.load(v.Src, "%rax")
		if v.Op == ir.NEG64 {
			xg.ins("negq %%rax")
		} else {
			xg.ins("xorq $1, %%rax")
		}
		xg.store("%rax", v.Dst)
	case *ir.AssignQuad:
		xg.load(v.Src, "%rax")
		xg.store("%rax", v.Dst)
	case *ir.IndexQuad:
		xg.addressOf(v.Base, "%rax")
		xg.ins("addq $%s, %%rax", v.Offset.Value)
		xg.ins("movq %%rax, %s", v.Dst.Location())
	case *ir.GotoQuad:
		xg.ins("jmp %s", v.Target.Name)
	case *ir.IfZeroQuad:
		xg.genIfZero(v)
	case *ir.NopQuad:
		xg.ins("nop")
	case *ir.SetArgQuad:
		xg.genSetArg(v)
	case *ir.CallQuad:
		xg.ins("callq %s", ir.EntryLabel(v.Callee.Name))
		if xg.pushedArgs > 0 {
			xg.ins("addq $%d, %%rsp", xg.pushedArgs*ir.SlotWidth)
			xg.pushedArgs = 0
		}
	case *ir.GetArgQuad:
		xg.genGetArg(v)
	case *ir.SetRetQuad:
		if v.IsRecord {
			xg.addressOf(v.Src, "%rax")
		} else {
			xg.load(v.Src, "%rax")
		}
	case *ir.GetRetQuad:
		if v.IsRecord {
			xg.ins("movq %%rax, %%r10")
			xg.copyRecord(v.Dst)
		} else {
			xg.store("%rax", v.Dst)
		}
	case *ir.OutputQuad:
		xg.load(v.Src, "%rdi")
		xg.ins("callq %s", outputRoutine(v.Type))
	case *ir.InputQuad:
		xg.ins("callq %s", inputRoutine(v.Type))
		xg.store("%rax", v.Dst)
	default:
		report.ICE("unknown quad %T in x64 generation", q)
	}
}

func (xg *x64Generator) genBinOp(bq *ir.BinOpQuad) {
	xg.load(bq.Src1, "%rax")

	switch {
	case isLit(bq.Src2, "0") && bq.Op == ir.SUB64, isLit(bq.Src2, "1") && bq.Op == ir.MULT64:
		xg.store("%rax", bq.Dst)
		return
	case isLit(bq.Src2, "1") && bq.Op == ir.SUB64:
		xg.ins("decq %%rax")
		xg.store("%rax", bq.Dst)
		return
	}

	xg.load(bq.Src2, "%rbx")

	if op, ok := x64ArithOps[bq.Op]; ok {
		xg.ins("%s %%rbx, %%rax", op)
	} else if op, ok := x64SetOps[bq.Op]; ok {
		xg.ins("cmpq %%rbx, %%rax")
		xg.ins("%s %%al", op)
		xg.ins("movzbq %%al, %%rax")
	} else if bq.Op == ir.DIV64 {
		xg.ins("cqto")
		xg.ins("idivq %%rbx")
	} else {
		report.ICE("unknown binary operator %s in x64 generation", bq.Op)
	}

	xg.store("%rax", bq.Dst)
}

func (xg *x64Generator) genIfZero(iq *ir.IfZeroQuad) {
	if lit, ok := iq.Cond.(*ir.LitOpd); ok && !lit.IsString {
		// constant conditions decide the jump statically
		if lit.Value == "0" {
			xg.ins("jmp %s", iq.Target.Name)
		}

		return
	}

	xg.load(iq.Cond, "%rax")
	xg.ins("cmpq $0, %%rax")
	xg.ins("je %s", iq.Target.Name)
}

func (xg *x64Generator) genSetArg(sq *ir.SetArgQuad) {
	reg := "%rax"
	if sq.Index <= len(x64ArgRegs) {
		reg = x64ArgRegs[sq.Index-1]
	}

	if sq.IsRecord() {
		xg.addressOf(sq.Src, reg)
	} else {
		xg.load(sq.Src, reg)
	}

	if sq.Index > len(x64ArgRegs) {
		xg.ins("pushq %%rax")
		xg.pushedArgs++
	}
}

// genGetArg copies an argument into the formal's slot.  Stack arguments are
// pushed in order so the last argument is nearest the frame pointer.
func (xg *x64Generator) genGetArg(gq *ir.GetArgQuad) {
	var src string
	if gq.Index <= len(x64ArgRegs) {
		src = x64ArgRegs[gq.Index-1]
	} else {
		src = fmt.Sprintf("%d(%%rbp)", ir.SlotWidth*(gq.NumFormals-gq.Index))
	}

	if gq.IsRecord {
		xg.ins("movq %s, %%r10", src)
		xg.copyRecord(gq.Dst)
	} else if gq.Index <= len(x64ArgRegs) {
		xg.store(src, gq.Dst)
	} else {
		xg.ins("movq %s, %%rax", src)
		xg.store("%rax", gq.Dst)
	}
}

// -----------------------------------------------------------------------------

// load moves the value of an operand into a register.
func (xg *x64Generator) load(opd ir.Operand, reg string) {
	switch v := opd.(type) {
	case *ir.LitOpd:
		if v.IsString {
			xg.ins("leaq %s(%%rip), %s", v.Value, reg)
		} else {
			xg.ins("movq $%s, %s", v.Value, reg)
		}
	case *ir.AddrOpd:
		xg.ins("movq %s, %%r11", v.Location())
		xg.ins("movq (%%r11), %s", reg)
	default:
		xg.ins("movq %s, %s", opd.Location(), reg)
	}
}

// store moves the value of a register into the storage of an operand.
func (xg *x64Generator) store(reg string, opd ir.Operand) {
	if ao, ok := opd.(*ir.AddrOpd); ok {
		xg.ins("movq %s, %%r11", ao.Location())
		xg.ins("movq %s, (%%r11)", reg)
	} else {
		xg.ins("movq %s, %s", reg, opd.Location())
	}
}

// addressOf moves the address of an operand's storage into a register.  The
// storage of an address temporary is the address it holds.
func (xg *x64Generator) addressOf(opd ir.Operand, reg string) {
	if ao, ok := opd.(*ir.AddrOpd); ok {
		xg.ins("movq %s, %s", ao.Location(), reg)
	} else {
		xg.ins("leaq %s, %s", opd.Location(), reg)
	}
}

// copyRecord copies the record addressed by %r10 into dst.
func (xg *x64Generator) copyRecord(dst ir.Operand) {
	xg.addressOf(dst, "%r11")

	for off := 0; off < dst.Width(); off += ir.SlotWidth {
		xg.ins("movq %d(%%r10), %%rax", off)
		xg.ins("movq %%rax, %d(%%r11)", off)
	}
}

// -----------------------------------------------------------------------------

// isLit returns whether an operand is the non-string literal value.
func isLit(opd ir.Operand, value string) bool {
	lit, ok := opd.(*ir.LitOpd)
	return ok && !lit.IsString && lit.Value == value
}

// outputRoutine returns the runtime routine writing a value of type t.
func outputRoutine(t types.Type) string {
	switch {
	case types.IsPrim(t, types.PrimBool):
		return "printBool"
	case types.IsPrim(t, types.PrimString):
		return "printString"
	default:
		return "printInt"
	}
}

// inputRoutine returns the runtime routine reading a value of type t.
func inputRoutine(t types.Type) string {
	if types.IsPrim(t, types.PrimBool) {
		return "getBool"
	}

	return "getInt"
}
