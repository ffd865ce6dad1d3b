package profile

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"cshantyc/codegen"
)

// FileName is the name of the project file read next to a source file.
const FileName = "shanty.toml"

// ErrNoProject is returned by Load when the directory contains no project file.
var ErrNoProject = errors.New("no project file")

// tomlProjectFile represents the project file as it is encoded in TOML
type tomlProjectFile struct {
	Project  *tomlProject   `toml:"project"`
	Profiles []*tomlProfile `toml:"profiles"`
}

// tomlProject represents the project table as it is encoded in TOML
type tomlProject struct {
	Name string `toml:"name"`
}

// tomlProfile represents a build profile as it is encoded in TOML
type tomlProfile struct {
	Name        string `toml:"name"`
	Target      string `toml:"target"`
	OutputPath  string `toml:"output,omitempty"`
	Optimize    bool   `toml:"optimize"`
	Verbose3AC  bool   `toml:"verbose-3ac"`
	DefaultProf bool   `toml:"default"` // in absence of a selected profile, choose this profile
}

// Project is a loaded project file.
type Project struct {
	// Name is the name of the project
	Name string

	// Root is the directory containing the project file
	Root string

	// Profile is the build profile selected for this compilation
	Profile *BuildProfile
}

// BuildProfile is the set of options controlling a single build.
type BuildProfile struct {
	// Name is the name of the profile or empty for the built-in profile
	Name string

	// Target is the code generation target
	Target codegen.Target

	// OutputPath is the path of the generated code.  An empty path means the
	// output is placed next to the source file.
	OutputPath string

	// Optimize indicates whether the peephole optimizer should be run
	Optimize bool

	// Verbose3AC indicates whether 3AC listings include quad comments
	Verbose3AC bool
}

// Default returns the profile used when no project file selects one.
func Default() *BuildProfile {
	return &BuildProfile{
		Target:   codegen.TargetX64,
		Optimize: true,
	}
}

// Load reads the project file in dir and selects a build profile from it.
// `selected` names the profile to use and may be empty in which case the
// profile marked default is used.  A project without profiles builds with the
// default profile.
func Load(dir, selected string) (*Project, error) {
	path := filepath.Join(dir, FileName)

	buff, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoProject
		}

		return nil, errors.Wrapf(err, "failed to read project file %s", path)
	}

	tpf := &tomlProjectFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return nil, errors.Wrapf(err, "failed to decode project file %s", path)
	}

	if tpf.Project == nil || tpf.Project.Name == "" {
		return nil, errors.Errorf("missing project name in %s", path)
	}

	proj := &Project{Name: tpf.Project.Name, Root: dir}

	prof, err := selectProfile(tpf, selected)
	if err != nil {
		return nil, errors.Wrapf(err, "in project `%s`", proj.Name)
	}

	proj.Profile = prof
	return proj, nil
}

// selectProfile finds and converts the profile to build with.
func selectProfile(tpf *tomlProjectFile, selected string) (*BuildProfile, error) {
	if selected != "" {
		for _, prof := range tpf.Profiles {
			if prof.Name == selected {
				return convertProfile(prof)
			}
		}

		return nil, errors.Errorf("no profile named `%s`", selected)
	}

	if len(tpf.Profiles) == 0 {
		return Default(), nil
	}

	for _, prof := range tpf.Profiles {
		if prof.DefaultProf {
			return convertProfile(prof)
		}
	}

	return nil, errors.New("no default profile; the `-p` argument is required")
}

func convertProfile(prof *tomlProfile) (*BuildProfile, error) {
	bp := &BuildProfile{
		Name:       prof.Name,
		Target:     codegen.TargetX64,
		OutputPath: prof.OutputPath,
		Optimize:   prof.Optimize,
		Verbose3AC: prof.Verbose3AC,
	}

	if prof.Target != "" {
		target, err := codegen.ParseTarget(prof.Target)
		if err != nil {
			return nil, errors.Wrapf(err, "in profile `%s`", prof.Name)
		}

		bp.Target = target
	}

	return bp, nil
}
