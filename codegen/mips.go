package codegen

import (
	"strconv"

	"cshantyc/ir"
	"cshantyc/report"
	"cshantyc/types"
)

// mipsArgRegs are the registers of the first four arguments of a call.
var mipsArgRegs = []string{"$a0", "$a1", "$a2", "$a3"}

var mipsBinOps = map[ir.BinOp]string{
	ir.ADD64:  "add",
	ir.SUB64:  "sub",
	ir.MULT64: "mul",
	ir.DIV64:  "div",
	ir.AND64:  "and",
	ir.OR64:   "or",
	ir.EQ64:   "seq",
	ir.NEQ64:  "sne",
	ir.LT64:   "slt",
	ir.GT64:   "sgt",
	ir.LTE64:  "sle",
	ir.GTE64:  "sge",
}

// SPIM system call codes.
const (
	sysPrintInt    = 1
	sysPrintString = 4
	sysReadInt     = 5
	sysExit        = 17
)

// mipsWordSize is the size of a MIPS storage slot.
const mipsWordSize = ir.SlotWidth / 2

// mipsGenerator emits SPIM assembly text.  Values are moved through $t0 and
// $t1; $t8 and $t9 hold addresses.
type mipsGenerator struct {
	asmBuilder

	prog  *ir.Program
	frame *Frame

	// pushedArgs counts the stack arguments of the call being marshaled.
	pushedArgs int

	// usesBoolOutput indicates whether the boolean output helper is needed.
	usesBoolOutput bool
}

func newMIPSGenerator(prog *ir.Program) *mipsGenerator {
	return &mipsGenerator{prog: prog}
}

func (mg *mipsGenerator) generate() {
	allocGlobals(mg.prog, "%s")

	// the procedures are generated first to learn which helpers they need
	text := &asmBuilder{}
	for _, proc := range mg.prog.Procs {
		mg.frame = layoutMIPS(proc)

		for _, q := range proc.AllQuads() {
			text.labels(q)
			mg.genQuad(text, q)
		}
	}

	mg.line(".data")

	for _, entry := range mg.prog.Strings {
		mg.line("%s: .asciiz %s", entry.Label.Value, entry.Text)
	}

	if mg.usesBoolOutput {
		mg.line(`str_true: .asciiz "true"`)
		mg.line(`str_false: .asciiz "false"`)
	}

	mg.line(".align 3")

	for _, global := range mg.prog.Globals {
		for j := 0; j < globalSlots(global); j++ {
			mg.line("%s: .word 0", globalSlot(global, j))
		}
	}

	mg.line(".text")
	mg.ins("jal main")
	mg.ins("li $v0, %d", sysExit)
	mg.ins("syscall")

	if mg.usesBoolOutput {
		mg.genBoolHelper()
	}

	mg.sb.WriteString(text.sb.String())
}

// genBoolHelper emits `sys_boolstr` which prints the boolean in $a0.
func (mg *mipsGenerator) genBoolHelper() {
	mg.label("sys_boolstr")
	mg.ins("beq $a0, $zero, sys_boolstr_false")
	mg.ins("la $a0, str_true")
	mg.ins("j sys_boolstr_print")
	mg.label("sys_boolstr_false")
	mg.ins("la $a0, str_false")
	mg.label("sys_boolstr_print")
	mg.ins("li $v0, %d", sysPrintString)
	mg.ins("syscall")
	mg.ins("jr $ra")
}

func (mg *mipsGenerator) genQuad(ab *asmBuilder, q ir.Quad) {
	switch v := q.(type) {
	case *ir.EnterQuad:
		size := mg.frame.Size
		ab.ins("addi $sp, $sp, -%d", size)
		ab.ins("sw $ra, %d($sp)", size-4)
		ab.ins("sw $fp, %d($sp)", size-8)
		ab.ins("addi $fp, $sp, %d", size)
	case *ir.LeaveQuad:
		size := mg.frame.Size
		ab.ins("lw $ra, %d($sp)", size-4)
		ab.ins("lw $fp, %d($sp)", size-8)
		ab.ins("addi $sp, $sp, %d", size)
		ab.ins("jr $ra")
	case *ir.BinOpQuad:
		op, ok := mipsBinOps[v.Op]
		if !ok {
			report.ICE("unknown binary operator %s in MIPS generation", v.Op)
		}

		mg.load(ab, v.Src1, "$t0")
		mg.load(ab, v.Src2, "$t1")
		ab.ins("%s $t0, $t0, $t1", op)
		mg.store(ab, "$t0", v.Dst)
	case *ir.UnaryOpQuad:
		mg.load(ab, v.Src, "$t0")
		if v.Op == ir.NEG64 {
			ab.ins("neg $t0, $t0")
		} else {
			ab.ins("xori $t0, $t0, 1")
		}
		mg.store(ab, "$t0", v.Dst)
	case *ir.AssignQuad:
		mg.load(ab, v.Src, "$t0")
		mg.store(ab, "$t0", v.Dst)
	case *ir.IndexQuad:
		off, err := strconv.Atoi(v.Offset.Value)
		if err != nil {
			report.ICE("bad field offset `%s`", v.Offset.Value)
		}

		mg.addressOf(ab, v.Base, "$t0")
		ab.ins("addi $t0, $t0, %d", mipsWidth(off))
		ab.ins("sw $t0, %s", v.Dst.Location())
	case *ir.GotoQuad:
		ab.ins("j %s", v.Target.Name)
	case *ir.IfZeroQuad:
		if lit, ok := v.Cond.(*ir.LitOpd); ok && !lit.IsString {
			if lit.Value == "0" {
				ab.ins("j %s", v.Target.Name)
			}

			return
		}

		mg.load(ab, v.Cond, "$t0")
		ab.ins("beq $t0, $zero, %s", v.Target.Name)
	case *ir.NopQuad:
		ab.ins("nop")
	case *ir.SetArgQuad:
		mg.genSetArg(ab, v)
	case *ir.CallQuad:
		ab.ins("jal %s", ir.EntryLabel(v.Callee.Name))
		if mg.pushedArgs > 0 {
			ab.ins("addi $sp, $sp, %d", mg.pushedArgs*mipsWordSize)
			mg.pushedArgs = 0
		}
	case *ir.GetArgQuad:
		mg.genGetArg(ab, v)
	case *ir.SetRetQuad:
		if v.IsRecord {
			mg.addressOf(ab, v.Src, "$v0")
		} else {
			mg.load(ab, v.Src, "$v0")
		}
	case *ir.GetRetQuad:
		if v.IsRecord {
			ab.ins("move $t8, $v0")
			mg.copyRecord(ab, v.Dst)
		} else {
			mg.store(ab, "$v0", v.Dst)
		}
	case *ir.OutputQuad:
		mg.genOutput(ab, v)
	case *ir.InputQuad:
		ab.ins("li $v0, %d", sysReadInt)
		ab.ins("syscall")
		if types.IsPrim(v.Type, types.PrimBool) {
			ab.ins("sltu $v0, $zero, $v0")
		}
		mg.store(ab, "$v0", v.Dst)
	default:
		report.ICE("unknown quad %T in MIPS generation", q)
	}
}

func (mg *mipsGenerator) genSetArg(ab *asmBuilder, sq *ir.SetArgQuad) {
	reg := "$t0"
	if sq.Index <= len(mipsArgRegs) {
		reg = mipsArgRegs[sq.Index-1]
	}

	if sq.IsRecord() {
		mg.addressOf(ab, sq.Src, reg)
	} else {
		mg.load(ab, sq.Src, reg)
	}

	if sq.Index > len(mipsArgRegs) {
		ab.ins("addi $sp, $sp, -%d", mipsWordSize)
		ab.ins("sw $t0, 0($sp)")
		mg.pushedArgs++
	}
}

func (mg *mipsGenerator) genGetArg(ab *asmBuilder, gq *ir.GetArgQuad) {
	src := "$t0"
	if gq.Index <= len(mipsArgRegs) {
		src = mipsArgRegs[gq.Index-1]
	} else {
		ab.ins("lw $t0, %d($fp)", mipsWordSize*(gq.NumFormals-gq.Index))
	}

	if gq.IsRecord {
		ab.ins("move $t8, %s", src)
		mg.copyRecord(ab, gq.Dst)
	} else {
		mg.store(ab, src, gq.Dst)
	}
}

func (mg *mipsGenerator) genOutput(ab *asmBuilder, oq *ir.OutputQuad) {
	mg.load(ab, oq.Src, "$a0")

	switch {
	case types.IsPrim(oq.Type, types.PrimBool):
		mg.usesBoolOutput = true
		ab.ins("jal sys_boolstr")
	case types.IsPrim(oq.Type, types.PrimString):
		ab.ins("li $v0, %d", sysPrintString)
		ab.ins("syscall")
	default:
		ab.ins("li $v0, %d", sysPrintInt)
		ab.ins("syscall")
	}
}

// -----------------------------------------------------------------------------

func (mg *mipsGenerator) load(ab *asmBuilder, opd ir.Operand, reg string) {
	switch v := opd.(type) {
	case *ir.LitOpd:
		if v.IsString {
			ab.ins("la %s, %s", reg, v.Value)
		} else {
			ab.ins("li %s, %s", reg, v.Value)
		}
	case *ir.AddrOpd:
		ab.ins("lw $t9, %s", v.Location())
		ab.ins("lw %s, 0($t9)", reg)
	default:
		ab.ins("lw %s, %s", reg, opd.Location())
	}
}

func (mg *mipsGenerator) store(ab *asmBuilder, reg string, opd ir.Operand) {
	if ao, ok := opd.(*ir.AddrOpd); ok {
		ab.ins("lw $t9, %s", ao.Location())
		ab.ins("sw %s, 0($t9)", reg)
	} else {
		ab.ins("sw %s, %s", reg, opd.Location())
	}
}

func (mg *mipsGenerator) addressOf(ab *asmBuilder, opd ir.Operand, reg string) {
	if ao, ok := opd.(*ir.AddrOpd); ok {
		ab.ins("lw %s, %s", reg, ao.Location())
	} else {
		ab.ins("la %s, %s", reg, opd.Location())
	}
}

// copyRecord copies the record addressed by $t8 into dst.
func (mg *mipsGenerator) copyRecord(ab *asmBuilder, dst ir.Operand) {
	mg.addressOf(ab, dst, "$t9")

	for off := 0; off < mipsWidth(dst.Width()); off += mipsWordSize {
		ab.ins("lw $t0, %d($t8)", off)
		ab.ins("sw $t0, %d($t9)", off)
	}
}
