// Package cmd is the top-level driver package for the C-Shanty compiler: it
// parses the command line, loads build profiles and runs the phases of the
// compiler in order.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"cshantyc/ast"
	"cshantyc/codegen"
	"cshantyc/ir"
	"cshantyc/lower"
	"cshantyc/opt"
	"cshantyc/profile"
	"cshantyc/report"
	"cshantyc/resolve"
	"cshantyc/syntax"
	"cshantyc/types"
	"cshantyc/walk"
)

// StdoutPath is the output path which designates standard output.
const StdoutPath = "--"

// Artifacts lists the optional debug outputs of a compilation.  An empty path
// disables an artifact.
type Artifacts struct {
	Tokens  string
	Unparse string
	Names   string
	ThreeAC string

	// DumpAST indicates whether the parsed AST should be printed.
	DumpAST bool
}

// Compiler represents the state of a single compilation.
type Compiler struct {
	// srcPath is the path to the source file being compiled.
	srcPath string

	// src is the text of the source file.
	src string

	// profile is the build profile of the compilation.
	profile *profile.BuildProfile

	artifacts *Artifacts

	reporter *report.Reporter
	interner *types.Interner

	// The outputs of each phase.
	astProg *ast.Program
	table   *walk.TypeTable
	irProg  *ir.Program
}

// NewCompiler creates a compiler for the given source text.
func NewCompiler(srcPath, src string, prof *profile.BuildProfile, artifacts *Artifacts, logLevel int) *Compiler {
	if artifacts == nil {
		artifacts = &Artifacts{}
	}

	return &Compiler{
		srcPath:   srcPath,
		src:       src,
		profile:   prof,
		artifacts: artifacts,
		reporter:  report.NewReporter(logLevel, srcPath, src),
		interner:  types.NewInterner(),
	}
}

// Compile runs every phase of the compiler and displays the concluding
// message.  It returns whether compilation succeeded.
func (c *Compiler) Compile() bool {
	ok := c.Analyze() && c.Generate()
	c.reporter.Finished()
	return ok
}

// Check runs only the analysis phases of the compiler.
func (c *Compiler) Check() bool {
	ok := c.Analyze()
	c.reporter.Finished()
	return ok
}

// Analyze parses, resolves and type checks the source file.  Each phase only
// runs if all the previous phases succeeded.
func (c *Compiler) Analyze() bool {
	c.reporter.BeginPhase("Parsing")
	if !c.parse() {
		c.reporter.EndPhase(false)
		return false
	}
	c.reporter.EndPhase(true)

	c.reporter.BeginPhase("Resolving")
	ok := resolve.Resolve(c.astProg, c.interner, c.reporter)
	c.reporter.EndPhase(ok)
	if !ok {
		return false
	}

	if !c.writeArtifact(c.artifacts.Names, "names", func(w io.Writer) error {
		_, err := io.WriteString(w, ast.Unparse(c.astProg))
		return err
	}) {
		return false
	}

	c.reporter.BeginPhase("Checking")
	c.table, ok = walk.Check(c.astProg, c.interner, c.reporter)
	c.reporter.EndPhase(ok)

	return ok
}

// parse runs the lexer and parser and writes the syntactic artifacts.
func (c *Compiler) parse() bool {
	if c.artifacts.Tokens != "" {
		tokens, ok := syntax.DumpTokens(c.reporter, c.src)
		if !ok {
			return false
		}

		if !c.writeArtifact(c.artifacts.Tokens, "tokens", func(w io.Writer) error {
			_, err := io.WriteString(w, tokens)
			return err
		}) {
			return false
		}
	}

	prog, ok := syntax.ParseSource(c.reporter, c.src)
	if !ok {
		return false
	}
	c.astProg = prog

	if c.artifacts.DumpAST {
		fmt.Printf("%# v\n", pretty.Formatter(prog))
	}

	return c.writeArtifact(c.artifacts.Unparse, "unparse", func(w io.Writer) error {
		_, err := io.WriteString(w, ast.Unparse(prog))
		return err
	})
}

// Generate lowers the checked program, optimizes it if the profile asks for
// it and emits code for the profile's target.
func (c *Compiler) Generate() bool {
	c.reporter.BeginPhase("Lowering")
	c.irProg = lower.Lower(c.astProg, c.table)
	c.reporter.EndPhase(true)

	if c.profile.Optimize {
		c.reporter.BeginPhase("Optimizing")
		opt.Optimize(c.irProg)
		c.reporter.EndPhase(true)
	}

	if !c.writeArtifact(c.artifacts.ThreeAC, "3AC", func(w io.Writer) error {
		_, err := io.WriteString(w, c.irProg.String(c.profile.Verbose3AC))
		return err
	}) {
		return false
	}

	c.reporter.BeginPhase("Generating")
	ok := c.writeArtifact(c.OutputPath(), "output", func(w io.Writer) error {
		return codegen.Emit(c.irProg, c.profile.Target, w)
	})
	c.reporter.EndPhase(ok)

	return ok
}

// OutputPath returns the path code is generated to.  Without an explicit path
// the output is placed next to the source file with the target's extension.
// Relative paths are relative to the directory of the source file.
func (c *Compiler) OutputPath() string {
	path := c.profile.OutputPath
	if path == StdoutPath {
		return path
	}

	if path == "" {
		ext := filepath.Ext(c.srcPath)
		return c.srcPath[:len(c.srcPath)-len(ext)] + targetExtensions[c.profile.Target]
	}

	if !filepath.IsAbs(path) {
		return filepath.Join(filepath.Dir(c.srcPath), path)
	}

	return path
}

var targetExtensions = map[codegen.Target]string{
	codegen.TargetX64:  ".s",
	codegen.TargetMIPS: ".asm",
	codegen.TargetLLVM: ".ll",
}

// writeArtifact writes an output of the compiler.  An empty path skips the
// output.  Failures are displayed and reported by returning false.
func (c *Compiler) writeArtifact(path, what string, write func(w io.Writer) error) bool {
	if path == "" {
		return true
	}

	if err := writeOutput(path, write); err != nil {
		report.PrintErrorMessage("Output Error", errors.Wrapf(err, "failed to write %s", what))
		return false
	}

	return true
}

// writeOutput opens the file at path, creating its directory if necessary, and
// runs write on it.
func writeOutput(path string, write func(w io.Writer) error) error {
	if path == StdoutPath {
		return write(os.Stdout)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	return write(f)
}
