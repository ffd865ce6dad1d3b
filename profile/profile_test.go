package profile

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"cshantyc/codegen"
)

func writeProject(t *testing.T, text string) string {
	t.Helper()

	dir := t.TempDir()
	if err := ioutil.WriteFile(filepath.Join(dir, FileName), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	return dir
}

const sampleProject = `[project]
name = "demo"

[[profiles]]
name = "debug"
target = "mips"
output = "demo.asm"
verbose-3ac = true
default = true

[[profiles]]
name = "release"
target = "llvm"
optimize = true
`

func TestLoadSelectsProfile(t *testing.T) {
	dir := writeProject(t, sampleProject)

	tests := []struct {
		selected string
		want     *BuildProfile
	}{
		{"", &BuildProfile{Name: "debug", Target: codegen.TargetMIPS, OutputPath: "demo.asm", Verbose3AC: true}},
		{"release", &BuildProfile{Name: "release", Target: codegen.TargetLLVM, Optimize: true}},
	}

	for _, test := range tests {
		t.Run("profile="+test.selected, func(t *testing.T) {
			proj, err := Load(dir, test.selected)
			if err != nil {
				t.Fatalf("load failed: %s", err)
			}

			if proj.Name != "demo" || proj.Root != dir {
				t.Errorf("bad project %# v", pretty.Formatter(proj))
			}

			if diff := pretty.Diff(test.want, proj.Profile); len(diff) > 0 {
				t.Errorf("unexpected profile: %v", diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, text, selected string
	}{
		{"missing name", "[project]\n", ""},
		{"unknown profile", sampleProject, "fast"},
		{"bad target", "[project]\nname = \"x\"\n[[profiles]]\nname = \"p\"\ntarget = \"arm\"\ndefault = true\n", ""},
		{"no default", "[project]\nname = \"x\"\n[[profiles]]\nname = \"p\"\n", ""},
		{"malformed", "[project\n", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Load(writeProject(t, test.text), test.selected); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestLoadWithoutProfilesUsesDefault(t *testing.T) {
	proj, err := Load(writeProject(t, "[project]\nname = \"bare\"\n"), "")
	if err != nil {
		t.Fatalf("load failed: %s", err)
	}

	if diff := pretty.Diff(Default(), proj.Profile); len(diff) > 0 {
		t.Errorf("unexpected profile: %v", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir(), ""); errors.Cause(err) != ErrNoProject {
		t.Errorf("expected ErrNoProject, got %v", err)
	}
}

func TestInitRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := Init(dir, "demo"); err != nil {
		t.Fatalf("init failed: %s", err)
	}

	if err := Init(dir, "demo"); err == nil {
		t.Errorf("init should refuse to overwrite a project file")
	}

	proj, err := Load(dir, "")
	if err != nil {
		t.Fatalf("load failed: %s", err)
	}

	want := &BuildProfile{
		Name:       "debug",
		Target:     codegen.TargetX64,
		OutputPath: filepath.Join("out", "demo_debug.s"),
		Verbose3AC: true,
	}

	if diff := pretty.Diff(want, proj.Profile); len(diff) > 0 {
		t.Errorf("unexpected default profile: %v", diff)
	}

	if proj, err = Load(dir, "release"); err != nil || !proj.Profile.Optimize {
		t.Errorf("release profile should optimize: %v", err)
	}
}
