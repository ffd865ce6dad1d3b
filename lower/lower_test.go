package lower

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"cshantyc/ir"
	"cshantyc/report"
	"cshantyc/resolve"
	"cshantyc/syntax"
	"cshantyc/types"
	"cshantyc/walk"
)

func lowerSource(t *testing.T, src string) *ir.Program {
	t.Helper()

	r := report.NewReporter(report.LogLevelSilent, "test.cshanty", src)
	prog, ok := syntax.ParseSource(r, src)
	if !ok {
		t.Fatalf("parse failed: %s", r.Summary())
	}

	interner := types.NewInterner()
	if !resolve.Resolve(prog, interner, r) {
		t.Fatalf("resolution failed: %s", r.Summary())
	}

	table, ok := walk.Check(prog, interner, r)
	if !ok {
		t.Fatalf("type checking failed: %s", r.Summary())
	}

	return Lower(prog, table)
}

func procNamed(t *testing.T, prog *ir.Program, name string) *ir.Procedure {
	t.Helper()

	for _, proc := range prog.Procs {
		if proc.Name == name {
			return proc
		}
	}

	t.Fatalf("no procedure %s", name)
	return nil
}

// bodyLines returns the formatted body quads of a procedure.
func bodyLines(proc *ir.Procedure) []string {
	lines := make([]string, len(proc.Quads))
	for i, q := range proc.Quads {
		lines[i] = ir.FormatQuad(q, false)
	}

	return lines
}

func assertBody(t *testing.T, proc *ir.Procedure, want ...string) {
	t.Helper()

	if diff := pretty.Diff(want, bodyLines(proc)); len(diff) > 0 {
		t.Errorf("unexpected quads for %s: %v\n%s", proc.Name, diff, strings.Join(bodyLines(proc), "\n"))
	}
}

func TestAssignAndReport(t *testing.T) {
	prog := lowerSource(t, "int x; void main() { x = 5; report x; }")

	if len(prog.Globals) != 1 || prog.Globals[0].Name() != "x" {
		t.Fatalf("expected global x")
	}

	assertBody(t, procNamed(t, prog, "main"),
		"            [x] := 5",
		"            REPORT [x]",
	)
}

func TestWhileLoop(t *testing.T) {
	prog := lowerSource(t, "void main() { int x; while (x < 10) { x++; } }")

	main := procNamed(t, prog, "main")
	assertBody(t, main,
		"lbl_1:      nop",
		"            [tmp0] := [x] LT64 10",
		"            IFZ [tmp0] GOTO lbl_2",
		"            [x] := [x] ADD64 1",
		"            goto lbl_1",
		"lbl_2:      nop",
	)

	want := `[BEGIN main LOCALS]
x (local var of 8 bytes)
tmp0 (tmp var of 8 bytes)
[END main LOCALS]
main:       enter main
lbl_1:      nop
            [tmp0] := [x] LT64 10
            IFZ [tmp0] GOTO lbl_2
            [x] := [x] ADD64 1
            goto lbl_1
lbl_2:      nop
lbl_0:      leave main
`

	if got := main.String(false); got != want {
		t.Errorf("unexpected listing:\n%s", got)
	}
}

func TestIfElse(t *testing.T) {
	prog := lowerSource(t, `void main() {
	bool b;
	if (b) { report 1; } else { report "no"; }
	if (!b) { b = true; }
}`)

	assertBody(t, procNamed(t, prog, "main"),
		"            IFZ [b] GOTO lbl_1",
		"            REPORT 1",
		"            goto lbl_2",
		"lbl_1:      nop",
		"            REPORT str_0",
		"lbl_2:      nop",
		"            [tmp0] := NOT64 [b]",
		"            IFZ [tmp0] GOTO lbl_3",
		"            [b] := 1",
		"lbl_3:      nop",
	)

	if len(prog.Strings) != 1 || prog.Strings[0].Text != `"no"` {
		t.Errorf("expected one interned string, got %# v", pretty.Formatter(prog.Strings))
	}
}

func TestCalls(t *testing.T) {
	prog := lowerSource(t, `int f(int a, int b) { return a; }
int g(int a) { return a * 2; }
void h() { return; }
void main() {
	int x;
	f(1, 2);
	x = f(g(1), 2);
	h();
}`)

	assertBody(t, procNamed(t, prog, "f"),
		"            getarg 1 [a]",
		"            getarg 2 [b]",
		"            setret [a]",
		"            goto lbl_0",
	)

	assertBody(t, procNamed(t, prog, "h"),
		"            goto lbl_2",
	)

	assertBody(t, procNamed(t, prog, "main"),
		"            setarg 1 1",
		"            setarg 2 2",
		"            call f",
		"            setarg 1 1",
		"            call g",
		"            getret [tmp1]",
		"            setarg 1 [tmp1]",
		"            setarg 2 2",
		"            call f",
		"            getret [tmp2]",
		"            [x] := [tmp2]",
		"            call h",
	)
}

func TestRecordFields(t *testing.T) {
	prog := lowerSource(t, `record P { int a; int b; }
record Q { bool c; P p; }
void main() {
	Q q;
	q[p][b] = 3;
	report q[c];
}`)

	main := procNamed(t, prog, "main")
	assertBody(t, main,
		"            [addrTmp0] := q ADD64 8",
		"            [addrTmp1] := [addrTmp0] ADD64 8",
		"            [[addrTmp1]] := 3",
		"            [addrTmp2] := q ADD64 0",
		"            REPORT [[addrTmp2]]",
	)

	if main.Locals[0].Width() != 24 {
		t.Errorf("record local should be 24 bytes wide, got %d", main.Locals[0].Width())
	}
}

func TestEveryProcedureHasOneEnterAndLeave(t *testing.T) {
	prog := lowerSource(t, `int f(int n) {
	if (n > 0) { return n; }
	return 0 - n;
}
void main() { report f(3); }`)

	if len(prog.Procs) != 2 {
		t.Fatalf("expected 2 procedures, got %d", len(prog.Procs))
	}

	for _, proc := range prog.Procs {
		enters, leaves := 0, 0
		for _, q := range proc.AllQuads() {
			switch q.(type) {
			case *ir.EnterQuad:
				enters++
			case *ir.LeaveQuad:
				leaves++
			}
		}

		if enters != 1 || leaves != 1 {
			t.Errorf("%s has %d enters and %d leaves", proc.Name, enters, leaves)
		}

		if len(proc.Quads) == 0 {
			t.Errorf("%s has an empty body", proc.Name)
		}
	}

	f := procNamed(t, prog, "f")
	returns := 0
	for _, q := range f.Quads {
		if gq, ok := q.(*ir.GotoQuad); ok && gq.Target == f.LeaveLabel {
			returns++
		}
	}

	if returns != 2 {
		t.Errorf("expected both returns to jump to the leave label, got %d", returns)
	}
}
