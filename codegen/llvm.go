package codegen

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	cir "cshantyc/ir"
	"cshantyc/report"
	"cshantyc/types"
)

var llArithOps = map[cir.BinOp]func(*ir.Block, value.Value, value.Value) value.Value{
	cir.ADD64:  func(b *ir.Block, x, y value.Value) value.Value { return b.NewAdd(x, y) },
	cir.SUB64:  func(b *ir.Block, x, y value.Value) value.Value { return b.NewSub(x, y) },
	cir.MULT64: func(b *ir.Block, x, y value.Value) value.Value { return b.NewMul(x, y) },
	cir.DIV64:  func(b *ir.Block, x, y value.Value) value.Value { return b.NewSDiv(x, y) },
	cir.AND64:  func(b *ir.Block, x, y value.Value) value.Value { return b.NewAnd(x, y) },
	cir.OR64:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewOr(x, y) },
}

var llCmpOps = map[cir.BinOp]enum.IPred{
	cir.EQ64:  enum.IPredEQ,
	cir.NEQ64: enum.IPredNE,
	cir.LT64:  enum.IPredSLT,
	cir.GT64:  enum.IPredSGT,
	cir.LTE64: enum.IPredSLE,
	cir.GTE64: enum.IPredSGE,
}

// llvmGenerator converts a 3AC program into an LLVM module.  Every storage
// operand becomes an alloca holding i64 words: strings are stored as integers
// and converted to pointers only where they cross a call boundary.
type llvmGenerator struct {
	prog *cir.Program
	mod  *ir.Module

	// funcs maps source function names to their LLVM functions.
	funcs map[string]*ir.Func

	// globals maps global operands to their LLVM globals.
	globals map[cir.Operand]*ir.Global

	// strs maps string labels to their LLVM globals.
	strs map[string]*ir.Global

	// runtime holds the declarations of the runtime routines by name.
	runtime map[string]*ir.Func

	// The state of the procedure being generated.
	fn      *ir.Func
	block   *ir.Block
	slots   map[cir.Operand]value.Value
	blocks  map[string]*ir.Block
	retval  *ir.InstAlloca
	args    []value.Value
	lastRet value.Value
}

func newLLVMGenerator(prog *cir.Program) *llvmGenerator {
	return &llvmGenerator{
		prog:    prog,
		mod:     ir.NewModule(),
		funcs:   make(map[string]*ir.Func),
		globals: make(map[cir.Operand]*ir.Global),
		strs:    make(map[string]*ir.Global),
		runtime: make(map[string]*ir.Func),
	}
}

func (lg *llvmGenerator) generate() {
	lg.declareRuntime()

	for _, entry := range lg.prog.Strings {
		text, err := strconv.Unquote(entry.Text)
		if err != nil {
			report.ICE("malformed string literal %s", entry.Text)
		}

		lg.strs[entry.Label.Value] = lg.mod.NewGlobalDef(entry.Label.Value, constant.NewCharArrayFromString(text+"\x00"))
	}

	for _, global := range lg.prog.Globals {
		var init constant.Constant
		if typ := slotType(global); typ.Equal(lltypes.I64) {
			init = constant.NewInt(lltypes.I64, 0)
		} else {
			init = constant.NewZeroInitializer(typ)
		}

		lg.globals[global] = lg.mod.NewGlobalDef("var_"+global.Name(), init)
	}

	// all functions are declared before any body so calls may refer forward
	for _, proc := range lg.prog.Procs {
		sig, ok := proc.Type.LLType().(*lltypes.FuncType)
		if !ok {
			report.ICE("procedure `%s` has no function signature", proc.Name)
		}

		params := make([]*ir.Param, len(sig.Params))
		for i, pt := range sig.Params {
			params[i] = ir.NewParam(proc.Formals[i].Name(), pt)
		}

		lg.funcs[proc.Name] = lg.mod.NewFunc(cir.EntryLabel(proc.Name), sig.RetType, params...)
	}

	for _, proc := range lg.prog.Procs {
		lg.genProc(proc)
	}
}

func (lg *llvmGenerator) declareRuntime() {
	lg.runtime["printInt"] = lg.mod.NewFunc("printInt", lltypes.Void, ir.NewParam("n", lltypes.I64))
	lg.runtime["printBool"] = lg.mod.NewFunc("printBool", lltypes.Void, ir.NewParam("b", lltypes.I64))
	lg.runtime["printString"] = lg.mod.NewFunc("printString", lltypes.Void, ir.NewParam("s", lltypes.I8Ptr))
	lg.runtime["getInt"] = lg.mod.NewFunc("getInt", lltypes.I64)
	lg.runtime["getBool"] = lg.mod.NewFunc("getBool", lltypes.I64)
}

// slotType returns the LLVM type of an operand's storage.
func slotType(opd cir.Operand) lltypes.Type {
	if _, ok := opd.(*cir.AddrOpd); ok || opd.Width() == cir.SlotWidth {
		return lltypes.I64
	}

	return lltypes.NewArray(uint64(opd.Width()/cir.SlotWidth), lltypes.I64)
}

// -----------------------------------------------------------------------------

func (lg *llvmGenerator) genProc(proc *cir.Procedure) {
	lg.fn = lg.funcs[proc.Name]
	lg.slots = make(map[cir.Operand]value.Value)
	lg.blocks = make(map[string]*ir.Block)
	lg.retval = nil

	quads := proc.AllQuads()

	// a block begins at every labeled quad and after every jump
	starts := make(map[int]*ir.Block)
	lg.block = lg.fn.NewBlock("entry")
	starts[0] = lg.block
	for i := 1; i < len(quads); i++ {
		_, afterJump := cir.IsJump(quads[i-1])

		if labels := quads[i].Labels(); len(labels) > 0 {
			starts[i] = lg.fn.NewBlock(labels[0].Name)
			for _, l := range labels {
				lg.blocks[l.Name] = starts[i]
			}
		} else if afterJump {
			starts[i] = lg.fn.NewBlock(fmt.Sprintf("blk_%d", i))
		}
	}

	for _, opd := range proc.Operands() {
		lg.slots[opd] = lg.block.NewAlloca(slotType(opd))
	}

	if ret := lg.fn.Sig.RetType; !ret.Equal(lltypes.Void) {
		lg.retval = lg.block.NewAlloca(ret)
	}

	for i, q := range quads {
		if start, ok := starts[i]; ok && i > 0 {
			if lg.block.Term == nil {
				lg.block.NewBr(start)
			}

			lg.block = start
		}

		var next *ir.Block
		if i+1 < len(quads) {
			next = starts[i+1]
		}

		lg.genQuad(q, next)
	}
}

// genQuad generates a single quad.  next is the block beginning after the quad
// if there is one.
func (lg *llvmGenerator) genQuad(q cir.Quad, next *ir.Block) {
	switch v := q.(type) {
	case *cir.EnterQuad, *cir.NopQuad:
	case *cir.LeaveQuad:
		if lg.retval == nil {
			lg.block.NewRet(nil)
		} else {
			lg.block.NewRet(lg.block.NewLoad(lg.fn.Sig.RetType, lg.retval))
		}
	case *cir.BinOpQuad:
		x, y := lg.load(v.Src1), lg.load(v.Src2)

		if arith, ok := llArithOps[v.Op]; ok {
			lg.store(arith(lg.block, x, y), v.Dst)
		} else if pred, ok := llCmpOps[v.Op]; ok {
			lg.store(lg.block.NewZExt(lg.block.NewICmp(pred, x, y), lltypes.I64), v.Dst)
		} else {
			report.ICE("unknown binary operator %s in LLVM generation", v.Op)
		}
	case *cir.UnaryOpQuad:
		x := lg.load(v.Src)
		if v.Op == cir.NEG64 {
			lg.store(lg.block.NewSub(constant.NewInt(lltypes.I64, 0), x), v.Dst)
		} else {
			lg.store(lg.block.NewXor(x, constant.NewInt(lltypes.I64, 1)), v.Dst)
		}
	case *cir.AssignQuad:
		lg.store(lg.load(v.Src), v.Dst)
	case *cir.IndexQuad:
		off, err := strconv.ParseInt(v.Offset.Value, 10, 64)
		if err != nil {
			report.ICE("bad field offset `%s`", v.Offset.Value)
		}

		addr := lg.block.NewAdd(lg.addressOf(v.Base), constant.NewInt(lltypes.I64, off))
		lg.block.NewStore(addr, lg.slots[v.Dst])
	case *cir.GotoQuad:
		lg.block.NewBr(lg.target(v.Target))
	case *cir.IfZeroQuad:
		if next == nil {
			report.ICE("conditional jump at the end of a procedure")
		}

		isZero := lg.block.NewICmp(enum.IPredEQ, lg.load(v.Cond), constant.NewInt(lltypes.I64, 0))
		lg.block.NewCondBr(isZero, lg.target(v.Target), next)
	case *cir.SetArgQuad:
		if v.IsRecord() {
			lg.args = append(lg.args, lg.block.NewIntToPtr(lg.addressOf(v.Src), lltypes.NewPointer(lltypes.I64)))
		} else {
			lg.args = append(lg.args, lg.fromWord(lg.load(v.Src), v.Type))
		}
	case *cir.CallQuad:
		callee, ok := lg.funcs[v.Callee.Name]
		if !ok {
			report.ICE("call to unknown procedure `%s`", v.Callee.Name)
		}

		lg.lastRet = lg.block.NewCall(callee, lg.args...)
		lg.args = nil
	case *cir.GetArgQuad:
		lg.genGetArg(v)
	case *cir.SetRetQuad:
		if v.IsRecord {
			retType := lg.fn.Sig.RetType
			lg.block.NewStore(lg.block.NewLoad(retType, lg.recordPtr(v.Src, retType)), lg.retval)
		} else if lg.fn.Sig.RetType.Equal(lltypes.I8Ptr) {
			lg.block.NewStore(lg.block.NewIntToPtr(lg.load(v.Src), lltypes.I8Ptr), lg.retval)
		} else {
			lg.block.NewStore(lg.load(v.Src), lg.retval)
		}
	case *cir.GetRetQuad:
		if v.IsRecord {
			lg.block.NewStore(lg.lastRet, lg.slot(v.Dst))
		} else {
			lg.store(lg.toWord(lg.lastRet), v.Dst)
		}
	case *cir.OutputQuad:
		routine := outputRoutine(v.Type)
		lg.block.NewCall(lg.runtime[routine], lg.fromWord(lg.load(v.Src), v.Type))
	case *cir.InputQuad:
		lg.store(lg.block.NewCall(lg.runtime[inputRoutine(v.Type)]), v.Dst)
	default:
		report.ICE("unknown quad %T in LLVM generation", q)
	}
}

func (lg *llvmGenerator) genGetArg(gq *cir.GetArgQuad) {
	param := lg.fn.Params[gq.Index-1]

	if gq.IsRecord {
		recType := slotType(gq.Dst)
		src := lg.block.NewBitCast(param, lltypes.NewPointer(recType))
		lg.block.NewStore(lg.block.NewLoad(recType, src), lg.slot(gq.Dst))
	} else {
		lg.store(lg.toWord(param), gq.Dst)
	}
}

func (lg *llvmGenerator) target(label *cir.Label) *ir.Block {
	block, ok := lg.blocks[label.Name]
	if !ok {
		report.ICE("jump to unknown label `%s`", label.Name)
	}

	return block
}

// -----------------------------------------------------------------------------

// slot returns the pointer to the storage of a variable or temporary.
func (lg *llvmGenerator) slot(opd cir.Operand) value.Value {
	if global, ok := lg.globals[opd]; ok {
		return global
	}

	if slot, ok := lg.slots[opd]; ok {
		return slot
	}

	report.ICE("operand `%s` has no storage", opd.Repr())
	return nil
}

// load returns the word value of an operand.
func (lg *llvmGenerator) load(opd cir.Operand) value.Value {
	switch v := opd.(type) {
	case *cir.LitOpd:
		if v.IsString {
			str := lg.strs[v.Value]
			ptr := lg.block.NewGetElementPtr(str.ContentType, str, constant.NewInt(lltypes.I64, 0), constant.NewInt(lltypes.I64, 0))
			return lg.block.NewPtrToInt(ptr, lltypes.I64)
		}

		n, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			report.ICE("bad integer literal `%s`", v.Value)
		}

		return constant.NewInt(lltypes.I64, n)
	case *cir.AddrOpd:
		return lg.block.NewLoad(lltypes.I64, lg.wordPtr(v))
	default:
		return lg.block.NewLoad(lltypes.I64, lg.slot(opd))
	}
}

// store writes a word value into the storage of an operand.
func (lg *llvmGenerator) store(val value.Value, opd cir.Operand) {
	if ao, ok := opd.(*cir.AddrOpd); ok {
		lg.block.NewStore(val, lg.wordPtr(ao))
	} else {
		lg.block.NewStore(val, lg.slot(opd))
	}
}

// wordPtr returns the pointer held by an address temporary.
func (lg *llvmGenerator) wordPtr(ao *cir.AddrOpd) value.Value {
	addr := lg.block.NewLoad(lltypes.I64, lg.slots[ao])
	return lg.block.NewIntToPtr(addr, lltypes.NewPointer(lltypes.I64))
}

// addressOf returns the address of an operand's storage as a word.
func (lg *llvmGenerator) addressOf(opd cir.Operand) value.Value {
	if ao, ok := opd.(*cir.AddrOpd); ok {
		return lg.block.NewLoad(lltypes.I64, lg.slots[ao])
	}

	return lg.block.NewPtrToInt(lg.slot(opd), lltypes.I64)
}

// recordPtr returns a pointer to the record of type recType stored in an
// operand.
func (lg *llvmGenerator) recordPtr(opd cir.Operand, recType lltypes.Type) value.Value {
	if _, ok := opd.(*cir.AddrOpd); !ok {
		return lg.slot(opd)
	}

	return lg.block.NewIntToPtr(lg.addressOf(opd), lltypes.NewPointer(recType))
}

// fromWord converts a word into the LLVM representation of a value of type t.
func (lg *llvmGenerator) fromWord(word value.Value, t types.Type) value.Value {
	if types.IsPrim(t, types.PrimString) {
		return lg.block.NewIntToPtr(word, lltypes.I8Ptr)
	}

	return word
}

// toWord converts a scalar LLVM value into a word.
func (lg *llvmGenerator) toWord(val value.Value) value.Value {
	if val.Type().Equal(lltypes.I8Ptr) {
		return lg.block.NewPtrToInt(val, lltypes.I64)
	}

	return val
}
