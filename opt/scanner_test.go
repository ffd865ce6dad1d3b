package opt

import (
	"testing"

	"github.com/kr/pretty"

	"cshantyc/ir"
	"cshantyc/lower"
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

	return lower.Lower(prog, table)
}

func listing(proc *ir.Procedure) []string {
	var lines []string
	for _, q := range proc.AllQuads() {
		lines = append(lines, ir.FormatQuad(q, false))
	}

	return lines
}

func assertListing(t *testing.T, proc *ir.Procedure, want ...string) {
	t.Helper()

	if diff := pretty.Diff(want, listing(proc)); len(diff) > 0 {
		t.Errorf("unexpected quads for %s: %v", proc.Name, diff)
	}
}

func TestWhileLoopOptimization(t *testing.T) {
	prog := lowerSource(t, "void main() { int x; while (x < 10) { x++; } }")

	if removed := Optimize(prog); removed != 2 {
		t.Errorf("expected 2 quads to be removed, got %d", removed)
	}

	assertListing(t, prog.Procs[0],
		"main:       enter main",
		"lbl_1:      [tmp0] := [x] LT64 10",
		"            IFZ [tmp0] GOTO lbl_2",
		"            [x] := [x] ADD64 1",
		"            goto lbl_1",
		"lbl_0,lbl_2: leave main",
	)
}

func TestRedundantJumpsReachFixedPoint(t *testing.T) {
	prog := lowerSource(t, `void f() { return; }
void main() {
	bool b;
	if (b) {} else {}
	report b;
}`)

	Optimize(prog)

	assertListing(t, prog.Procs[0],
		"fun_f:      enter f",
		"lbl_0:      leave f",
	)

	// the else jump goes first, which exposes the IFZ on the next pass.
	assertListing(t, prog.Procs[1],
		"main:       enter main",
		"lbl_3,lbl_2: REPORT [b]",
		"lbl_1:      leave main",
	)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	sources := []string{
		"void main() { int x; while (x < 10) { x++; } }",
		`int f(int n) {
	if (n > 0) { return n; } else { return 0 - n; }
	return 0;
}
void main() {
	int i;
	i = 0;
	while (i < 3) {
		if (i == 1) { report "one"; }
		i++;
	}
	report f(i);
}`,
	}

	for _, src := range sources {
		prog := lowerSource(t, src)

		Optimize(prog)
		first := prog.String(false)

		if removed := Optimize(prog); removed != 0 {
			t.Errorf("second run removed %d quads", removed)
		}

		if second := prog.String(false); second != first {
			t.Errorf("second run changed the program:\n%s\n%s", first, second)
		}

		for _, proc := range prog.Procs {
			quads := proc.AllQuads()
			for i, q := range quads {
				if _, ok := q.(*ir.NopQuad); ok {
					t.Errorf("nop left in %s", proc.Name)
				}

				if target, ok := ir.IsJump(q); ok && quads[i+1].HasLabel(target) {
					t.Errorf("jump to its successor left in %s: %s", proc.Name, q.Repr())
				}
			}
		}
	}
}

func TestLabelsAreNeverLost(t *testing.T) {
	prog := lowerSource(t, `void main() {
	int i;
	while (i < 3) {
		if (i == 1) { i = 2; } else { i++; }
	}
}`)

	Optimize(prog)

	labels := make(map[string]bool)
	for _, proc := range prog.Procs {
		for _, q := range proc.AllQuads() {
			for _, l := range q.Labels() {
				labels[l.Name] = true
			}
		}
	}

	for _, proc := range prog.Procs {
		for _, q := range proc.AllQuads() {
			if target, ok := ir.IsJump(q); ok && !labels[target.Name] {
				t.Errorf("jump target %s was lost", target.Name)
			}
		}
	}
}

func TestEmptyProgram(t *testing.T) {
	if removed := Optimize(ir.NewProgram()); removed != 0 {
		t.Errorf("nothing should be removed from an empty program")
	}
}
