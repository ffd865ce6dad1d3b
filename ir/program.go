package ir

import (
	"fmt"
	"strings"

	"cshantyc/symtab"
)

// StringEntry is an interned string literal.
type StringEntry struct {
	Label *LitOpd

	// Text is the source text of the literal including its quotes.
	Text string
}

// Program is the 3AC of a whole C-Shanty program: the unit handed between
// lowering, optimization and code generation.
type Program struct {
	// Globals lists the global variables in declaration order.
	Globals []*SymOpd

	// Strings lists the interned string literals in order of first use.
	Strings []*StringEntry

	// Procs lists the procedures in declaration order.
	Procs []*Procedure

	globalsMap map[*symtab.Symbol]*SymOpd
	stringsMap map[string]*LitOpd

	maxLabel int
}

// NewProgram creates a new empty program.
func NewProgram() *Program {
	return &Program{
		globalsMap: make(map[*symtab.Symbol]*SymOpd),
		stringsMap: make(map[string]*LitOpd),
	}
}

// MakeProc creates and appends a new procedure.
func (p *Program) MakeProc(name string) *Procedure {
	proc := newProcedure(p, name)
	p.Procs = append(p.Procs, proc)
	return proc
}

// MakeLabel creates a new program-unique label.
func (p *Program) MakeLabel() *Label {
	label := &Label{Name: fmt.Sprintf("lbl_%d", p.maxLabel)}
	p.maxLabel++
	return label
}

// MakeString interns a string literal and returns the operand naming its data
// label.  Each distinct literal is interned once.
func (p *Program) MakeString(text string) *LitOpd {
	if opd, ok := p.stringsMap[text]; ok {
		return opd
	}

	opd := &LitOpd{
		Value:    fmt.Sprintf("str_%d", len(p.Strings)),
		IsString: true,
		width:    SlotWidth,
	}

	p.stringsMap[text] = opd
	p.Strings = append(p.Strings, &StringEntry{Label: opd, Text: text})
	return opd
}

// GatherGlobal creates the storage operand for a global variable.
func (p *Program) GatherGlobal(sym *symtab.Symbol) *SymOpd {
	opd := &SymOpd{Sym: sym, width: sym.Type.Size()}
	p.Globals = append(p.Globals, opd)
	p.globalsMap[sym] = opd
	return opd
}

// GetGlobal returns the operand of a global variable or nil if the symbol is
// not a global.
func (p *Program) GetGlobal(sym *symtab.Symbol) *SymOpd {
	return p.globalsMap[sym]
}

// IsGlobal returns whether an operand is the operand of a global variable.
func (p *Program) IsGlobal(opd Operand) bool {
	so, ok := opd.(*SymOpd)
	return ok && p.globalsMap[so.Sym] == so
}

// String renders the program as a 3AC listing.
func (p *Program) String(verbose bool) string {
	sb := strings.Builder{}

	sb.WriteString("[BEGIN GLOBALS]\n")

	for _, global := range p.Globals {
		sb.WriteString(global.Name())
		sb.WriteRune('\n')
	}

	for _, entry := range p.Strings {
		fmt.Fprintf(&sb, "%s %s\n", entry.Label.Repr(), entry.Text)
	}

	sb.WriteString("[END GLOBALS]\n")

	for _, proc := range p.Procs {
		sb.WriteString(proc.String(verbose))
	}

	return sb.String()
}
