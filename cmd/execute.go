package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"
	"github.com/pkg/errors"

	"cshantyc/codegen"
	"cshantyc/profile"
	"cshantyc/report"
)

// Version is the current cshantyc version.
const Version = "0.1.0"

// Execute runs the `cshantyc` CLI utility on the given command line and
// returns the process exit code.
func Execute(args []string) int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("cshantyc", "cshantyc is the C-Shanty compiler", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a source file", true)
	buildCmd.AddPrimaryArg("source-path", "the path to the source file to build", true)
	buildCmd.AddStringArg("profile", "p", "the name of the profile to build", false)
	buildCmd.AddSelectorArg("target", "t", "the code generation target", false, []string{"x64", "mips", "llvm"})
	buildCmd.AddStringArg("output", "o", "the path of the generated code (-- for stdout)", false)
	buildCmd.AddStringArg("3ac", "a", "write the 3AC listing to a file (-- for stdout)", false)
	buildCmd.AddStringArg("tokens", "tk", "write the token dump to a file (-- for stdout)", false)
	buildCmd.AddStringArg("unparse", "u", "write the unparsed program to a file (-- for stdout)", false)
	buildCmd.AddStringArg("names", "n", "write the program after name analysis to a file (-- for stdout)", false)
	buildCmd.AddFlag("noopt", "no", "disable the peephole optimizer")
	buildCmd.AddFlag("dump-ast", "da", "print the parsed AST")

	checkCmd := cli.AddSubcommand("check", "check a source file for errors", true)
	checkCmd.AddPrimaryArg("source-path", "the path to the source file to check", true)

	initCmd := cli.AddSubcommand("init", "create a project file in the working directory", true)
	initCmd.AddPrimaryArg("project-name", "the name of the project", true)

	cli.AddSubcommand("version", "print the cshantyc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		report.PrintErrorMessage("CLI Usage Error", err)
		return 1
	}

	logLevel, ok := report.ParseLogLevel(result.Arguments["loglevel"].(string))
	if !ok {
		report.PrintErrorMessage("CLI Usage Error", errors.New("invalid log level"))
		return 1
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		return execBuildCommand(subResult, logLevel)
	case "check":
		return execCheckCommand(subResult, logLevel)
	case "init":
		return execInitCommand(subResult)
	case "version":
		report.PrintInfoMessage("cshantyc Version", Version)
	}

	return 0
}

// execBuildCommand executes the build subcommand and handles all errors
func execBuildCommand(result *olive.ArgParseResult, logLevel int) int {
	srcPath, src, err := loadSource(result)
	if err != nil {
		report.PrintErrorMessage("Source Error", err)
		return 1
	}

	prof, err := loadProfile(srcPath, stringArg(result, "profile"))
	if err != nil {
		report.PrintErrorMessage("Project Error", err)
		return 1
	}

	// command line arguments override the profile
	if targetName := stringArg(result, "target"); targetName != "" {
		if prof.Target, err = codegen.ParseTarget(targetName); err != nil {
			report.PrintErrorMessage("CLI Usage Error", err)
			return 1
		}
	}

	if output := stringArg(result, "output"); output != "" {
		prof.OutputPath = output
	}

	if result.HasFlag("noopt") {
		prof.Optimize = false
	}

	artifacts := &Artifacts{
		Tokens:  stringArg(result, "tokens"),
		Unparse: stringArg(result, "unparse"),
		Names:   stringArg(result, "names"),
		ThreeAC: stringArg(result, "3ac"),
		DumpAST: result.HasFlag("dump-ast"),
	}

	if !NewCompiler(srcPath, src, prof, artifacts, logLevel).Compile() {
		return 1
	}

	return 0
}

// execCheckCommand executes the check subcommand: analysis without generation
func execCheckCommand(result *olive.ArgParseResult, logLevel int) int {
	srcPath, src, err := loadSource(result)
	if err != nil {
		report.PrintErrorMessage("Source Error", err)
		return 1
	}

	if !NewCompiler(srcPath, src, profile.Default(), nil, logLevel).Check() {
		return 1
	}

	return 0
}

// execInitCommand executes the init subcommand in the working directory
func execInitCommand(result *olive.ArgParseResult) int {
	name, _ := result.PrimaryArg()

	workDir, err := os.Getwd()
	if err != nil {
		report.PrintErrorMessage("Path Error", err)
		return 1
	}

	if err := profile.Init(workDir, name); err != nil {
		report.PrintErrorMessage("Project Init Error", err)
		return 1
	}

	return 0
}

// -----------------------------------------------------------------------------

// loadSource reads the source file named by the primary argument.
func loadSource(result *olive.ArgParseResult) (string, string, error) {
	relPath, _ := result.PrimaryArg()

	srcPath, err := filepath.Abs(relPath)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to compute source path")
	}

	buff, err := ioutil.ReadFile(srcPath)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to read %s", relPath)
	}

	return srcPath, string(buff), nil
}

// loadProfile loads the build profile from the project file next to the source
// file.  Without a project file the default profile is used unless a profile
// was explicitly selected.
func loadProfile(srcPath, selected string) (*profile.BuildProfile, error) {
	proj, err := profile.Load(filepath.Dir(srcPath), selected)
	if errors.Cause(err) == profile.ErrNoProject {
		if selected != "" {
			return nil, errors.Errorf("profile `%s` selected but no %s found", selected, profile.FileName)
		}

		return profile.Default(), nil
	} else if err != nil {
		return nil, err
	}

	return proj.Profile, nil
}

// stringArg returns the value of an optional argument or empty if it was not
// given.
func stringArg(result *olive.ArgParseResult, name string) string {
	if val, ok := result.Arguments[name]; ok {
		return val.(string)
	}

	return ""
}
