package report

import (
	"testing"
)

func TestReporterRecordsMessages(t *testing.T) {
	r := NewReporter(LogLevelSilent, "test.cshanty", "")

	r.CompileError(&TextSpan{StartLine: 0, StartCol: 4, EndLine: 0, EndCol: 5}, "Undeclared identifier")
	r.Warning(nil, "unused %s", "x")

	if !r.AnyErrors() {
		t.Fatalf("expected errors to be recorded")
	}

	if r.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", r.ErrorCount())
	}

	errs := r.Errors()
	if len(errs) != 1 || errs[0] != "Undeclared identifier" {
		t.Errorf("unexpected errors: %v", errs)
	}

	if got := r.Messages()[0].String(); got != "[1,5]-[1,6]: Undeclared identifier" {
		t.Errorf("unexpected message rendering: %q", got)
	}
}

func TestCatchErrorsReportsLocalErrors(t *testing.T) {
	r := NewReporter(LogLevelSilent, "test.cshanty", "")

	func() {
		defer r.CatchErrors()
		panic(Raise(&TextSpan{}, "unexpected token: `%s`", "}"))
	}()

	if r.ErrorCount() != 1 || r.Errors()[0] != "unexpected token: `}`" {
		t.Errorf("local compile error was not reported: %v", r.Errors())
	}
}

func TestCatchErrorsPropagatesAborts(t *testing.T) {
	r := NewReporter(LogLevelSilent, "test.cshanty", "")

	defer func() {
		x := recover()
		if _, ok := x.(*InternalError); !ok {
			t.Errorf("expected internal error to propagate, got %v", x)
		}

		if r.AnyErrors() {
			t.Errorf("internal error must not become a diagnostic")
		}
	}()

	func() {
		defer r.CatchErrors()
		ICE("Attempt to pop empty symbol table")
	}()
}

func TestCatchAbortsSetsExitCode(t *testing.T) {
	for _, abort := range []func(){
		func() { ICE("bad") },
		func() { ToDo("later") },
	} {
		code := 0
		func() {
			defer CatchAborts(&code)
			abort()
		}()

		if code != 1 {
			t.Errorf("expected exit code 1, got %d", code)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	if lvl, ok := ParseLogLevel("warn"); !ok || lvl != LogLevelWarn {
		t.Errorf("expected warn level")
	}

	if _, ok := ParseLogLevel("loud"); ok {
		t.Errorf("unknown level accepted")
	}
}
