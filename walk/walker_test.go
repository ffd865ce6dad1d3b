package walk

import (
	"testing"

	"github.com/kr/pretty"

	"cshantyc/ast"
	"cshantyc/report"
	"cshantyc/resolve"
	"cshantyc/syntax"
	"cshantyc/types"
)

type checkResult struct {
	prog     *ast.Program
	table    *TypeTable
	interner *types.Interner
	reporter *report.Reporter
	ok       bool
}

func checkSource(t *testing.T, src string) *checkResult {
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

	table, ok := Check(prog, interner, r)
	return &checkResult{prog: prog, table: table, interner: interner, reporter: r, ok: ok}
}

func mainBody(t *testing.T, prog *ast.Program) []ast.ASTNode {
	t.Helper()

	for _, decl := range prog.Decls {
		if fd, ok := decl.(*ast.FnDecl); ok && fd.Ident.Name == "main" {
			return fd.Body
		}
	}

	t.Fatalf("no main function")
	return nil
}

func TestCheckValidProgram(t *testing.T) {
	res := checkSource(t, `record P { int a; bool b; }
int x;
string s;
int f(int n, P p) {
	if (p[b] && n > 0) {
		return f(n - 1, p) * 2;
	}
	return -n;
}
void main() {
	P p;
	x = 5;
	report x;
	s = "hi";
	report s;
	p[a] = f(x, p);
	receive p[b];
	while (!(x == 0)) {
		x--;
	}
	f(1, p);
}
`)

	if !res.ok {
		t.Fatalf("type checking failed: %s", res.reporter.Summary())
	}

	body := mainBody(t, res.prog)
	for i, stmt := range body {
		if i == 0 {
			continue
		}

		if typ := res.table.TypeOf(stmt); typ != res.interner.Void() {
			t.Errorf("statement %d typed %v, expected void", i, typ)
		}
	}

	assign := body[1].(*ast.AssignStmt).Assign
	if res.table.TypeOf(assign) != res.interner.Int() {
		t.Errorf("assignment should have the destination's type")
	}

	if typ, ok := res.table.Lookup(res.prog); !ok || typ != res.interner.Void() {
		t.Errorf("program should type to void")
	}
}

func TestAssignIntToBool(t *testing.T) {
	res := checkSource(t, "void main() { bool b; b = 5; }")
	if res.ok {
		t.Fatalf("expected type checking to fail")
	}

	if diff := pretty.Diff([]string{"Invalid assignment operation"}, res.reporter.Errors()); len(diff) > 0 {
		t.Errorf("unexpected diagnostics: %v", diff)
	}

	stmt := mainBody(t, res.prog)[1].(*ast.AssignStmt)
	if res.table.TypeOf(stmt.Assign) != res.interner.Error() {
		t.Errorf("assignment should type to error")
	}

	if res.table.TypeOf(stmt) != res.interner.Error() {
		t.Errorf("assignment statement should type to error")
	}
}

func TestRecordNamesTypeToMarker(t *testing.T) {
	res := checkSource(t, "record R { int a; } void main() { report R; }")

	stmt := mainBody(t, res.prog)[0].(*ast.ReportStmt)
	typ, ok := res.table.Lookup(stmt.Src)
	if !ok || typ != nil {
		t.Errorf("record name should type to the marker, got %v", typ)
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"error does not cascade", "void main() { int x; x = (true + 1) * 2; }", []string{
			"Arithmetic operator applied to invalid operand",
		}},
		{"nested errors do not cascade", "void main() { bool b; b = !((1 && true) || false); }", []string{
			"Logical operator applied to non-bool operand",
		}},
		{"report void", "void f() { return; } void main() { report f(); }", []string{"Attempt to write void"}},
		{"report function", "void f() { return; } void main() { report f; }", []string{"Attempt to output a function"}},
		{"report record name", "record R { int a; } void main() { report R; }", []string{"Attempt to report record name"}},
		{"report record variable", "record R { int a; } void main() { R r; report r; }", []string{
			"Attempt to output a record variable",
		}},
		{"receive record variable", "record R { int a; } void main() { R r; receive r; }", []string{
			"Attempt to read a record variable",
		}},
		{"receive record name", "record R { int a; } void main() { receive R; }", []string{"Attempt to read a record name"}},
		{"receive function", "void f() { return; } void main() { receive f; }", []string{
			"Attempt to assign input to function",
		}},
		{"receive string", "void main() { string s; receive s; }", []string{"Attempt to read to illegal type"}},
		{"call non-function", "int x; void main() { x(1); }", []string{"Attempt to call a non-function"}},
		{"call record name", "record R { int a; } void main() { R(1); }", []string{"Attempt to call a non-function"}},
		{"wrong arg count", "int f(int a) { return a; } void main() { f(1, 2); }", []string{
			"Function call with wrong number of args",
		}},
		{"arg count and mismatch", "int f(int a, int b) { return a; } void main() { f(true); }", []string{
			"Function call with wrong number of args",
			"Type of actual does not match type of formal",
		}},
		{"arg mismatch", "int f(int a, bool b) { return a; } void main() { f(1, 2); }", []string{
			"Type of actual does not match type of formal",
		}},
		{"error arg is skipped", "int f(int a) { return a; } void main() { f(true + 1); }", []string{
			"Arithmetic operator applied to invalid operand",
		}},
		{"missing return value", "int f() { return; }", []string{"Missing return value"}},
		{"return in void function", "void f() { return 1; }", []string{"Return with a value in void function"}},
		{"bad return value", "int f() { return true; }", []string{"Bad return value"}},
		{"relational operand", "void main() { bool b; b = 1 < true; }", []string{
			"Relational operator applied to non-numeric operand",
		}},
		{"logical operand", "void main() { bool b; b = 1 && true; }", []string{
			"Logical operator applied to non-bool operand",
		}},
		{"if condition", "void main() { if (1) { report 1; } }", []string{"Non-bool expression used as an if condition"}},
		{"if-else condition", "void main() { if (\"s\") { report 1; } else { report 2; } }", []string{
			"Non-bool expression used as an if condition",
		}},
		{"while condition", "void main() { while (1) { report 1; } }", []string{
			"Non-bool expression used as a while condition",
		}},
		{"equality operands", "void main() { bool b; b = \"a\" == \"b\"; }", []string{
			"Invalid equality operand",
			"Invalid equality operand",
		}},
		{"equality operation", "void main() { bool b; b = 1 == true; }", []string{"Invalid equality operation"}},
		{"equality on record variables", "record R { int a; } void main() { R r; R s; bool b; b = r == s; }", []string{
			"Equality operator applied to record variables",
		}},
		{"equality on record names", "record R { int a; } void main() { bool b; b = R == R; }", []string{
			"Equality operator applied to record names",
		}},
		{"record variable assignment", "record R { int a; } void main() { R r; R s; r = s; }", []string{
			"Record variable assignment",
		}},
		{"record name assignment", "record R { int a; } void main() { R = R; }", []string{"Record name assignment"}},
		{"assign record to int", "record R { int a; } void main() { R r; int x; x = r; }", []string{
			"Invalid assignment operand",
		}},
		{"index non-record", "void main() { int x; x[a] = 1; }", []string{"Attempt to index a non-record"}},
		{"bad index", "record R { int a; } void main() { R r; r[b] = 1; }", []string{"Bad index"}},
		{"negate bool", "void main() { int x; x = -true; }", []string{"Arithmetic operator applied to invalid operand"}},
		{"not int", "void main() { bool b; b = !1; }", []string{"Logical operator applied to non-bool operand"}},
		{"increment bool", "void main() { bool b; b++; }", []string{"Arithmetic operator applied to invalid operand"}},
		{"errors accumulate", "void main() { int x; bool b; x = true; b = 1; }", []string{
			"Invalid assignment operation",
			"Invalid assignment operation",
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := checkSource(t, test.src)
			if res.ok {
				t.Fatalf("expected type checking to fail")
			}

			if diff := pretty.Diff(test.want, res.reporter.Errors()); len(diff) > 0 {
				t.Errorf("unexpected diagnostics: %v", diff)
			}
		})
	}
}

func TestStringAssignmentIsValid(t *testing.T) {
	res := checkSource(t, `void main() { string s; s = "hi"; report s; }`)
	if !res.ok {
		t.Errorf("string assignment should type check: %s", res.reporter.Summary())
	}
}

func TestDiagnosticPosition(t *testing.T) {
	res := checkSource(t, "void main() {\n  int x;\n  x = true;\n}")

	msgs := res.reporter.Messages()
	if len(msgs) != 1 || msgs[0].String() != "[3,3]-[3,11]: Invalid assignment operation" {
		t.Errorf("unexpected messages: %s", res.reporter.Summary())
	}
}
