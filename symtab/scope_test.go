package symtab

import (
	"testing"

	"cshantyc/report"
	"cshantyc/types"
)

func TestScopeShadowing(t *testing.T) {
	in := types.NewInterner()
	sc := NewScopeChain()

	sc.Enter()
	outer := &Symbol{Name: "x", DefKind: DefKindVar, Type: in.Int()}
	if !sc.Insert(outer) {
		t.Fatalf("insert into empty scope failed")
	}

	if sc.Insert(&Symbol{Name: "x", DefKind: DefKindVar, Type: in.Bool()}) {
		t.Errorf("duplicate insert in one scope must fail")
	}

	sc.Enter()
	inner := &Symbol{Name: "x", DefKind: DefKindVar, Type: in.Bool()}
	if !sc.Insert(inner) {
		t.Errorf("shadowing in a nested scope must succeed")
	}

	if sym, _ := sc.Lookup("x"); sym != inner {
		t.Errorf("lookup should find the innermost symbol")
	}

	sc.Leave()

	if sym, _ := sc.Lookup("x"); sym != outer {
		t.Errorf("lookup should find the outer symbol after leaving")
	}

	sc.Enter()
	if _, ok := sc.LookupLocal("x"); ok {
		t.Errorf("local lookup must not see outer scopes")
	}
	sc.Leave()
	sc.Leave()

	if sc.Entered != sc.Left || sc.Depth() != 0 {
		t.Errorf("unbalanced scope counters: %d entered, %d left", sc.Entered, sc.Left)
	}
}

func TestLeaveEmptyChainAborts(t *testing.T) {
	defer func() {
		x := recover()
		ie, ok := x.(*report.InternalError)
		if !ok {
			t.Fatalf("expected an internal error, got %v", x)
		}

		if ie.Message != "Attempt to pop empty symbol table" {
			t.Errorf("unexpected message: %s", ie.Message)
		}
	}()

	NewScopeChain().Leave()
}

func TestKindStrings(t *testing.T) {
	for kind, want := range map[int]string{DefKindVar: "var", DefKindFunc: "fn", DefKindRecord: "record"} {
		if got := (&Symbol{DefKind: kind}).KindString(); got != want {
			t.Errorf("kind %d: expected %s, got %s", kind, want, got)
		}
	}
}
