package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cshantyc/codegen"
	"cshantyc/profile"
	"cshantyc/report"
)

const counterSource = `int total;
int step(int n) {
	return n + 1;
}
void main() {
	int i;
	while (i < 3) {
		i = step(i);
	}
	total = i;
	report total;
}
`

func writeSource(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prog.cshanty")
	if err := ioutil.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	buff, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("missing output %s: %s", path, err)
	}

	return string(buff)
}

func TestCompileWritesArtifacts(t *testing.T) {
	srcPath := writeSource(t, counterSource)
	dir := filepath.Dir(srcPath)

	artifacts := &Artifacts{
		Tokens:  filepath.Join(dir, "prog.tokens"),
		Unparse: filepath.Join(dir, "prog.unparse"),
		Names:   filepath.Join(dir, "prog.names"),
		ThreeAC: filepath.Join(dir, "dbg", "prog.3ac"),
	}

	prof := &profile.BuildProfile{Target: codegen.TargetMIPS, Optimize: true}
	c := NewCompiler(srcPath, counterSource, prof, artifacts, report.LogLevelSilent)

	if !c.Compile() {
		t.Fatalf("compilation failed: %s", c.reporter.Summary())
	}

	tests := []struct {
		path, snippet string
	}{
		{artifacts.Tokens, "ID:total [1,5]\n"},
		{artifacts.Unparse, "int step(int n){\n"},
		{artifacts.Names, "total(int) = i(int);"},
		{artifacts.ThreeAC, "[BEGIN GLOBALS]\ntotal\n[END GLOBALS]\n"},
		{filepath.Join(dir, "prog.asm"), "\tjal fun_step\n"},
	}

	for _, test := range tests {
		t.Run(filepath.Base(test.path), func(t *testing.T) {
			if out := readFile(t, test.path); !strings.Contains(out, test.snippet) {
				t.Errorf("expected %q in:\n%s", test.snippet, out)
			}
		})
	}

	// the optimizer removes every nop
	if strings.Contains(readFile(t, artifacts.ThreeAC), "nop") {
		t.Errorf("optimized listing contains a nop")
	}
}

func TestCompileWithoutOptimization(t *testing.T) {
	srcPath := writeSource(t, counterSource)
	threeAC := filepath.Join(filepath.Dir(srcPath), "prog.3ac")

	prof := &profile.BuildProfile{Target: codegen.TargetLLVM, OutputPath: "out/prog.ll", Verbose3AC: true}
	c := NewCompiler(srcPath, counterSource, prof, &Artifacts{ThreeAC: threeAC}, report.LogLevelSilent)

	if !c.Compile() {
		t.Fatalf("compilation failed: %s", c.reporter.Summary())
	}

	listing := readFile(t, threeAC)
	if !strings.Contains(listing, "nop") || !strings.Contains(listing, "#") {
		t.Errorf("expected an unoptimized verbose listing:\n%s", listing)
	}

	outPath := filepath.Join(filepath.Dir(srcPath), "out", "prog.ll")
	if c.OutputPath() != outPath {
		t.Errorf("unexpected output path %s", c.OutputPath())
	}

	if !strings.Contains(readFile(t, outPath), "define i64 @fun_step(") {
		t.Errorf("missing LLVM function definition")
	}
}

func TestCheckStopsAtErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"syntax", "int x", ""},
		{"resolution", "void main() { y = 1; }", "Undeclared identifier"},
		{"types", "void main() { int x; x = true; }", "Invalid assignment operation"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srcPath := writeSource(t, test.src)
			names := filepath.Join(filepath.Dir(srcPath), "prog.names")

			c := NewCompiler(srcPath, test.src, profile.Default(), &Artifacts{Names: names}, report.LogLevelSilent)
			if c.Check() {
				t.Fatalf("expected check to fail")
			}

			if c.reporter.ErrorCount() == 0 {
				t.Errorf("no errors were reported")
			}

			if test.want != "" && !strings.Contains(c.reporter.Summary(), test.want) {
				t.Errorf("expected %q, got %s", test.want, c.reporter.Summary())
			}

			// the names artifact is only written after successful resolution
			_, err := os.Stat(names)
			if test.name != "types" && err == nil {
				t.Errorf("names artifact written after a failed phase")
			}
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		target codegen.Target
		want   string
	}{
		{codegen.TargetX64, "/src/prog.s"},
		{codegen.TargetMIPS, "/src/prog.asm"},
		{codegen.TargetLLVM, "/src/prog.ll"},
	}

	for _, test := range tests {
		c := NewCompiler("/src/prog.cshanty", "", &profile.BuildProfile{Target: test.target}, nil, report.LogLevelSilent)
		if got := c.OutputPath(); got != filepath.FromSlash(test.want) {
			t.Errorf("expected %s, got %s", test.want, got)
		}
	}

	c := NewCompiler("/src/prog.cshanty", "", &profile.BuildProfile{OutputPath: StdoutPath}, nil, report.LogLevelSilent)
	if c.OutputPath() != StdoutPath {
		t.Errorf("stdout path was rewritten")
	}
}

func TestLoadProfileWithoutProject(t *testing.T) {
	srcPath := writeSource(t, counterSource)

	prof, err := loadProfile(srcPath, "")
	if err != nil || prof.Target != codegen.TargetX64 {
		t.Errorf("expected the default profile, got %v %v", prof, err)
	}

	if _, err := loadProfile(srcPath, "release"); err == nil {
		t.Errorf("selecting a profile without a project file should fail")
	}
}
