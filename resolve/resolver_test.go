package resolve

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"cshantyc/ast"
	"cshantyc/report"
	"cshantyc/symtab"
	"cshantyc/syntax"
	"cshantyc/types"
)

func resolveSource(t *testing.T, src string) (*ast.Program, *Resolver, *report.Reporter, bool) {
	t.Helper()

	r := report.NewReporter(report.LogLevelSilent, "test.cshanty", src)
	prog, ok := syntax.ParseSource(r, src)
	if !ok {
		t.Fatalf("parse failed: %s", r.Summary())
	}

	res := NewResolver(types.NewInterner(), r)
	return prog, res, r, res.Resolve(prog)
}

func TestResolveValidProgram(t *testing.T) {
	src := `record P { int a; bool b; }
int g;
int f(int n, P p) {
	int x;
	x = n;
	if (x > 0) {
		int y;
		y = f(x - 1, p);
	} else {
		bool y;
		y = p[b];
	}
	while (true) { string s; s = "hi"; }
	return g;
}
`

	prog, res, r, ok := resolveSource(t, src)
	if !ok {
		t.Fatalf("resolution failed: %s", r.Summary())
	}

	sc := res.Scopes()
	if sc.Entered != sc.Left || sc.Depth() != 0 {
		t.Errorf("unbalanced scopes: %d entered, %d left", sc.Entered, sc.Left)
	}

	// global + function + if + else + while
	if sc.Entered != 5 {
		t.Errorf("expected 5 scopes, got %d", sc.Entered)
	}

	fn := prog.Decls[2].(*ast.FnDecl)
	if fn.Symbol().DefKind != symtab.DefKindFunc || fn.Symbol().Type.Repr() != "int,P->int" {
		t.Errorf("unexpected function symbol: %# v", pretty.Formatter(fn.Symbol()))
	}

	got := ast.Unparse(prog)
	for _, want := range []string{"x(int) = n(int)", "y(int) = f(int,P->int)(", "y(bool) = p(P)[b]", "return g(int)"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in names output:\n%s", want, got)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"undeclared call", "void main() { foo(1, 2); }", []string{"Undeclared identifier"}},
		{"multiply declared", "int x; bool x;", []string{"Multiply declared identifier"}},
		{"void variable", "void v;", []string{"Invalid type in declaration"}},
		{"void variable clash", "int v; void v;", []string{"Invalid type in declaration", "Multiply declared identifier"}},
		{"unknown record", "Q q;", []string{"Invalid type in declaration"}},
		{"non-record type name", "int q; q r;", []string{"Invalid type in declaration"}},
		{"duplicate field", "record R { int a; bool a; }", []string{"Multiply declared identifier"}},
		{"fields are not visible", "record R { int a; } void main() { a = 1; }", []string{"Undeclared identifier"}},
		{"block scope ends", "void main() { if (true) { int z; } z = 1; }", []string{"Undeclared identifier"}},
		{"errors accumulate", "void main() { a = b; }", []string{"Undeclared identifier", "Undeclared identifier"}},
		{"function clash", "int f; void f() {}", []string{"Multiply declared identifier"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, res, r, ok := resolveSource(t, test.src)
			if ok {
				t.Fatalf("expected resolution to fail")
			}

			if diff := pretty.Diff(test.want, r.Errors()); len(diff) > 0 {
				t.Errorf("unexpected diagnostics: %v", diff)
			}

			if sc := res.Scopes(); sc.Entered != sc.Left {
				t.Errorf("unbalanced scopes: %d entered, %d left", sc.Entered, sc.Left)
			}
		})
	}
}

func TestSelfRecursionResolves(t *testing.T) {
	_, _, r, ok := resolveSource(t, "int fact(int n) { return fact(n - 1); }")
	if !ok {
		t.Errorf("self recursion should resolve: %s", r.Summary())
	}
}

func TestUndeclaredPosition(t *testing.T) {
	_, _, r, _ := resolveSource(t, "void main() {\n  foo(1,2);\n}")

	msgs := r.Messages()
	if len(msgs) != 1 || msgs[0].String() != "[2,3]-[2,6]: Undeclared identifier" {
		t.Errorf("unexpected messages: %s", r.Summary())
	}
}
