package codegen

import (
	"fmt"

	"cshantyc/ir"
)

// Frame is the activation record layout of a single procedure.  Laying out a
// frame assigns a location to every storage operand of the procedure.
type Frame struct {
	Proc *ir.Procedure

	// Size is the number of bytes the procedure reserves below its frame
	// pointer for its operands.
	Size int
}

// x64FrameBase is the distance below %rbp at which the first slot begins: the
// frame pointer is moved above the saved %rbp and the return address.
const x64FrameBase = 16

// layoutX64 places the operands of a procedure in 8-byte slots below %rbp.
func layoutX64(proc *ir.Procedure) *Frame {
	dist := x64FrameBase
	for _, opd := range proc.Operands() {
		dist += opd.Width()
		opd.SetLocation(fmt.Sprintf("-%d(%%rbp)", dist))
	}

	return &Frame{Proc: proc, Size: proc.ARSize()}
}

// mipsFrameBase is the distance below $fp at which the first slot begins: the
// saved $ra and $fp occupy the first two words.
const mipsFrameBase = 8

// mipsWidth converts an operand width to its MIPS storage width.  Every slot
// is one 4-byte word.
func mipsWidth(width int) int {
	return width / 2
}

// layoutMIPS places the operands of a procedure in word slots below $fp.
func layoutMIPS(proc *ir.Procedure) *Frame {
	dist := mipsFrameBase
	for _, opd := range proc.Operands() {
		dist += mipsWidth(opd.Width())
		opd.SetLocation(fmt.Sprintf("-%d($fp)", dist))
	}

	return &Frame{Proc: proc, Size: alignUp(dist, 8)}
}

// -----------------------------------------------------------------------------

// globalSlot names the data label of the j-th slot of a global.  Scalars have
// a single unnumbered slot.
func globalSlot(opd *ir.SymOpd, j int) string {
	if opd.Width() == ir.SlotWidth {
		return "var_" + opd.Name()
	}

	return fmt.Sprintf("var_%s_f%d", opd.Name(), j)
}

// globalSlots returns the number of slots a global reserves.
func globalSlots(opd *ir.SymOpd) int {
	return opd.Width() / ir.SlotWidth
}

// allocGlobals assigns every global the location of its first slot.  The
// slots of a record global are emitted contiguously so the first slot is the
// address of the whole record.
func allocGlobals(prog *ir.Program, locFmt string) {
	for _, global := range prog.Globals {
		global.SetLocation(fmt.Sprintf(locFmt, globalSlot(global, 0)))
	}
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
