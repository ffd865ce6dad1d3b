package profile

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"cshantyc/codegen"
)

// Init writes a new project file with a debug and a release profile to dir.
// It fails if a project file already exists.
func Init(dir, name string) error {
	path := filepath.Join(dir, FileName)

	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("project file %s already exists", path)
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "project file error")
	}

	if name == "" {
		return errors.New("project name must not be empty")
	}

	tpf := &tomlProjectFile{
		Project:  &tomlProject{Name: name},
		Profiles: []*tomlProfile{newInitProfile(name, true), newInitProfile(name, false)},
	}

	buff, err := toml.Marshal(tpf)
	if err != nil {
		return errors.Wrap(err, "failed to encode project file")
	}

	if err := ioutil.WriteFile(path, buff, 0644); err != nil {
		return errors.Wrapf(err, "failed to write project file %s", path)
	}

	return nil
}

// newInitProfile creates one of the initial profiles of a project.  The debug
// profile is the default.
func newInitProfile(name string, debug bool) *tomlProfile {
	prof := &tomlProfile{
		Target:      string(codegen.TargetX64),
		DefaultProf: debug,
	}

	if debug {
		prof.Name = "debug"
		prof.OutputPath = filepath.Join("out", name+"_debug.s")
		prof.Verbose3AC = true
	} else {
		prof.Name = "release"
		prof.OutputPath = filepath.Join("out", name+".s")
		prof.Optimize = true
	}

	return prof
}
