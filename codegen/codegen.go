package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"cshantyc/ir"
)

// Target is a code generation target.
type Target string

// Enumeration of supported targets.
const (
	TargetX64  Target = "x64"
	TargetMIPS Target = "mips"
	TargetLLVM Target = "llvm"
)

// ParseTarget converts a target name into a Target.
func ParseTarget(name string) (Target, error) {
	switch Target(name) {
	case TargetX64, TargetMIPS, TargetLLVM:
		return Target(name), nil
	}

	return "", errors.Errorf("unknown target `%s`: expected one of x64, mips or llvm", name)
}

// Emit generates the code of a program for the given target and writes it to
// w.  Emitting lays out the storage of the program so the operand locations of
// prog are those of the last target emitted.
func Emit(prog *ir.Program, target Target, w io.Writer) error {
	switch target {
	case TargetX64:
		xg := newX64Generator(prog)
		xg.generate()
		return xg.writeTo(w, "x64 assembly")
	case TargetMIPS:
		mg := newMIPSGenerator(prog)
		mg.generate()
		return mg.writeTo(w, "MIPS assembly")
	case TargetLLVM:
		lg := newLLVMGenerator(prog)
		lg.generate()

		if _, err := lg.mod.WriteTo(w); err != nil {
			return errors.Wrap(err, "failed to write LLVM IR")
		}

		return nil
	}

	return errors.Errorf("unknown target `%s`", target)
}

// -----------------------------------------------------------------------------

// asmBuilder accumulates the text of an assembly file.
type asmBuilder struct {
	sb strings.Builder
}

// ins writes a single indented instruction.
func (ab *asmBuilder) ins(format string, args ...interface{}) {
	ab.sb.WriteRune('\t')
	fmt.Fprintf(&ab.sb, format, args...)
	ab.sb.WriteRune('\n')
}

// line writes an unindented line: a directive or data definition.
func (ab *asmBuilder) line(format string, args ...interface{}) {
	fmt.Fprintf(&ab.sb, format, args...)
	ab.sb.WriteRune('\n')
}

func (ab *asmBuilder) label(name string) {
	ab.sb.WriteString(name)
	ab.sb.WriteString(":\n")
}

// labels writes every label of a quad.
func (ab *asmBuilder) labels(q ir.Quad) {
	for _, l := range q.Labels() {
		ab.label(l.Name)
	}
}

func (ab *asmBuilder) writeTo(w io.Writer, what string) error {
	if _, err := io.WriteString(w, ab.sb.String()); err != nil {
		return errors.Wrapf(err, "failed to write %s", what)
	}

	return nil
}
