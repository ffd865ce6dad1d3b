package ir

import (
	"strings"
	"testing"

	"cshantyc/report"
	"cshantyc/symtab"
	"cshantyc/types"
)

func newVar(name string, typ types.Type) *symtab.Symbol {
	return &symtab.Symbol{Name: name, DefKind: symtab.DefKindVar, Type: typ}
}

func TestOperandRepr(t *testing.T) {
	in := types.NewInterner()
	prog := NewProgram()
	proc := prog.MakeProc("f")

	x := proc.GatherLocal(newVar("x", in.Int()))
	tmp := proc.MakeTmp(8)
	addr := proc.MakeAddrTmp(8)
	str := prog.MakeString(`"hi"`)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"symbol", x.Repr(), "[x]"},
		{"temp", tmp.Repr(), "[tmp0]"},
		{"address", addr.Repr(), "[[addrTmp1]]"},
		{"address location", addr.LocRepr(), "[addrTmp1]"},
		{"int literal", NewIntLit("5").Repr(), "5"},
		{"true literal", NewBoolLit(true).Repr(), "1"},
		{"false literal", NewBoolLit(false).Repr(), "0"},
		{"string label", str.Repr(), "str_0"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.got != test.want {
				t.Errorf("expected %q, got %q", test.want, test.got)
			}
		})
	}
}

func TestLiteralLocationIsInternalError(t *testing.T) {
	defer func() {
		if _, ok := recover().(*report.InternalError); !ok {
			t.Errorf("expected an internal error")
		}
	}()

	NewIntLit("1").Location()
}

func TestFormatQuad(t *testing.T) {
	prog := NewProgram()

	nop := &NopQuad{}
	if got := FormatQuad(nop, false); got != "            nop" {
		t.Errorf("unexpected unlabeled quad: %q", got)
	}

	nop.AddLabel(prog.MakeLabel())
	if got := FormatQuad(nop, false); got != "lbl_0:      nop" {
		t.Errorf("unexpected labeled quad: %q", got)
	}

	nop.AddLabel(prog.MakeLabel())
	if got := FormatQuad(nop, false); got != "lbl_0,lbl_1: nop" {
		t.Errorf("unexpected multi-labeled quad: %q", got)
	}

	assign := &AssignQuad{Dst: &AuxOpd{Name: "tmp0"}, Src: NewIntLit("3")}
	assign.SetComment("Assign")
	if got := FormatQuad(assign, true); got != "            [tmp0] := 3  #Assign" {
		t.Errorf("unexpected verbose quad: %q", got)
	}

	if got := FormatQuad(assign, false); got != "            [tmp0] := 3" {
		t.Errorf("comment should only appear in verbose listings: %q", got)
	}
}

func TestQuadRepr(t *testing.T) {
	x := &AuxOpd{Name: "x"}
	y := &AuxOpd{Name: "y"}
	addr := &AddrOpd{Name: "addrTmp2"}
	lbl := &Label{Name: "lbl_3"}
	fn := &symtab.Symbol{Name: "f", DefKind: symtab.DefKindFunc}

	tests := []struct {
		quad Quad
		want string
	}{
		{&BinOpQuad{Dst: x, Op: LTE64, Src1: y, Src2: NewIntLit("2")}, "[x] := [y] LTE64 2"},
		{&UnaryOpQuad{Dst: x, Op: NOT64, Src: y}, "[x] := NOT64 [y]"},
		{&IndexQuad{Dst: addr, Base: y, Offset: NewIntLit("8")}, "[addrTmp2] := y ADD64 8"},
		{&GotoQuad{Target: lbl}, "goto lbl_3"},
		{&IfZeroQuad{Cond: x, Target: lbl}, "IFZ [x] GOTO lbl_3"},
		{&CallQuad{Callee: fn}, "call f"},
		{&SetArgQuad{Index: 1, Src: x}, "setarg 1 [x]"},
		{&GetArgQuad{Index: 2, NumFormals: 2, Dst: x}, "getarg 2 [x]"},
		{&SetRetQuad{Src: addr}, "setret [[addrTmp2]]"},
		{&GetRetQuad{Dst: x}, "getret [x]"},
		{&OutputQuad{Src: x}, "REPORT [x]"},
		{&InputQuad{Dst: x}, "RECEIVE [x]"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			if got := test.quad.Repr(); got != test.want {
				t.Errorf("expected %q, got %q", test.want, got)
			}
		})
	}
}

func TestProcedure(t *testing.T) {
	in := types.NewInterner()
	rec, _ := in.Record("R", []*types.RecordField{{Name: "a", Type: in.Int()}, {Name: "b", Type: in.Bool()}})

	prog := NewProgram()
	g := newVar("g", in.Int())
	prog.GatherGlobal(g)

	main := prog.MakeProc("main")
	f := prog.MakeProc("f")

	if main.Enter.Labels()[0].Name != "main" || f.Enter.Labels()[0].Name != "fun_f" {
		t.Errorf("unexpected entry labels")
	}

	if main.LeaveLabel.Name != "lbl_0" || f.LeaveLabel.Name != "lbl_1" {
		t.Errorf("leave labels should come from the program counter")
	}

	n := newVar("n", in.Int())
	r := newVar("r", rec)
	f.GatherFormal(n)
	f.GatherLocal(r)
	f.MakeTmp(8)

	if f.GetSymOpd(n) != f.Formals[0] || f.GetSymOpd(r) != f.Locals[0] || f.GetSymOpd(g) != prog.Globals[0] {
		t.Errorf("symbol operands were not found")
	}

	if f.GetSymOpd(newVar("z", in.Int())) != nil {
		t.Errorf("unknown symbols should have no operand")
	}

	// 8 + 16 + 8 rounded to 16
	if size := f.ARSize(); size != 32 {
		t.Errorf("expected an activation record of 32 bytes, got %d", size)
	}

	f.AddQuad(&NopQuad{})
	f.AddQuad(&GotoQuad{Target: f.LeaveLabel})
	if _, ok := f.PopQuad().(*GotoQuad); !ok || len(f.Quads) != 1 {
		t.Errorf("pop should remove the last quad")
	}

	listing := prog.String(false)
	for _, want := range []string{
		"[BEGIN GLOBALS]\ng\n[END GLOBALS]\n",
		"[BEGIN f LOCALS]\nn (formal arg of 8 bytes)\nr (local var of 16 bytes)\ntmp0 (tmp var of 8 bytes)\n[END f LOCALS]\n",
		"fun_f:      enter f\n            nop\nlbl_1:      leave f\n",
	} {
		if !strings.Contains(listing, want) {
			t.Errorf("expected %q in listing:\n%s", want, listing)
		}
	}
}

func TestStringsAreInterned(t *testing.T) {
	prog := NewProgram()

	a := prog.MakeString(`"a"`)
	b := prog.MakeString(`"b"`)

	if prog.MakeString(`"a"`) != a || a == b || len(prog.Strings) != 2 {
		t.Errorf("each distinct string should be interned once")
	}

	if b.Repr() != "str_1" {
		t.Errorf("unexpected string label %s", b.Repr())
	}
}
