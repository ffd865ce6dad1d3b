package ir

import (
	"fmt"
	"strings"

	"cshantyc/report"
	"cshantyc/symtab"
	"cshantyc/types"
)

// Procedure is the 3AC of a single function.
type Procedure struct {
	Name string

	// Type is the signature of the function the procedure implements.
	Type *types.FuncType

	// Enter and Leave bracket the body quads.  The leave quad carries the
	// procedure's leave label which every return jumps to.
	Enter      *EnterQuad
	Leave      *LeaveQuad
	LeaveLabel *Label

	// Quads is the body of the procedure.
	Quads []Quad

	// Formals lists the formal parameters in declaration order.
	Formals []*SymOpd

	// Locals lists the local variables in declaration order.
	Locals []*SymOpd

	Temps     []*AuxOpd
	AddrTemps []*AddrOpd

	prog      *Program
	localsMap map[*symtab.Symbol]*SymOpd

	// maxTmp is the temporary counter: it is shared by scalar and address
	// temporaries.
	maxTmp int
}

func newProcedure(prog *Program, name string) *Procedure {
	proc := &Procedure{
		Name:      name,
		prog:      prog,
		localsMap: make(map[*symtab.Symbol]*SymOpd),
	}

	proc.Enter = &EnterQuad{Proc: proc}
	proc.Leave = &LeaveQuad{Proc: proc}

	proc.Enter.AddLabel(&Label{Name: EntryLabel(name)})
	proc.LeaveLabel = prog.MakeLabel()
	proc.Leave.AddLabel(proc.LeaveLabel)

	return proc
}

// EntryLabel returns the entry label of the procedure with the given name:
// `main` keeps its name, all other functions are prefixed by `fun_`.
func EntryLabel(name string) string {
	if name == "main" {
		return name
	}

	return "fun_" + name
}

// Prog returns the program containing the procedure.
func (p *Procedure) Prog() *Program {
	return p.prog
}

// AddQuad appends a quad to the body of the procedure.
func (p *Procedure) AddQuad(q Quad) {
	p.Quads = append(p.Quads, q)
}

// PopQuad removes and returns the last quad of the body of the procedure.
func (p *Procedure) PopQuad() Quad {
	if len(p.Quads) == 0 {
		report.ICE("pop from empty procedure `%s`", p.Name)
	}

	last := p.Quads[len(p.Quads)-1]
	p.Quads = p.Quads[:len(p.Quads)-1]
	return last
}

// MakeLabel creates a new program-unique label.
func (p *Procedure) MakeLabel() *Label {
	return p.prog.MakeLabel()
}

// GatherLocal creates the storage operand for a local variable.
func (p *Procedure) GatherLocal(sym *symtab.Symbol) *SymOpd {
	opd := &SymOpd{Sym: sym, width: sym.Type.Size()}
	p.Locals = append(p.Locals, opd)
	p.localsMap[sym] = opd
	return opd
}

// GatherFormal creates the storage operand for the next formal parameter.
func (p *Procedure) GatherFormal(sym *symtab.Symbol) *SymOpd {
	opd := &SymOpd{Sym: sym, width: sym.Type.Size()}
	p.Formals = append(p.Formals, opd)
	return opd
}

// GetSymOpd returns the operand of a variable visible in the procedure.  The
// formals are searched first, then the locals and finally the globals.  It
// returns nil if no operand exists for the symbol.
func (p *Procedure) GetSymOpd(sym *symtab.Symbol) *SymOpd {
	for _, formal := range p.Formals {
		if formal.Sym == sym {
			return formal
		}
	}

	if opd, ok := p.localsMap[sym]; ok {
		return opd
	}

	return p.prog.GetGlobal(sym)
}

// MakeTmp creates a new scalar temporary of the given width.
func (p *Procedure) MakeTmp(width int) *AuxOpd {
	tmp := &AuxOpd{Name: fmt.Sprintf("tmp%d", p.maxTmp), width: width}
	p.maxTmp++
	p.Temps = append(p.Temps, tmp)
	return tmp
}

// MakeAddrTmp creates a new address temporary of the given width.
func (p *Procedure) MakeAddrTmp(width int) *AddrOpd {
	tmp := &AddrOpd{Name: fmt.Sprintf("addrTmp%d", p.maxTmp), width: width}
	p.maxTmp++
	p.AddrTemps = append(p.AddrTemps, tmp)
	return tmp
}

// Operands returns all the storage operands of the procedure in frame layout
// order: formals, locals, temporaries and address temporaries.
func (p *Procedure) Operands() []Operand {
	opds := make([]Operand, 0, len(p.Formals)+len(p.Locals)+len(p.Temps)+len(p.AddrTemps))

	for _, formal := range p.Formals {
		opds = append(opds, formal)
	}

	for _, local := range p.Locals {
		opds = append(opds, local)
	}

	for _, tmp := range p.Temps {
		opds = append(opds, tmp)
	}

	for _, tmp := range p.AddrTemps {
		opds = append(opds, tmp)
	}

	return opds
}

// ARSize returns the size of the procedure's activation record rounded up to
// a multiple of 16.
func (p *Procedure) ARSize() int {
	size := 0
	for _, opd := range p.Operands() {
		size += opd.Width()
	}

	return alignUp(size, 16)
}

// AllQuads returns the full instruction sequence of the procedure including
// its enter and leave quads.
func (p *Procedure) AllQuads() []Quad {
	quads := make([]Quad, 0, len(p.Quads)+2)
	quads = append(quads, p.Enter)
	quads = append(quads, p.Quads...)
	return append(quads, p.Leave)
}

// String renders the procedure as a 3AC listing.
func (p *Procedure) String(verbose bool) string {
	sb := strings.Builder{}

	fmt.Fprintf(&sb, "[BEGIN %s LOCALS]\n", p.Name)

	for _, formal := range p.Formals {
		fmt.Fprintf(&sb, "%s (formal arg of %d bytes)\n", formal.Name(), formal.Width())
	}

	for _, local := range p.Locals {
		fmt.Fprintf(&sb, "%s (local var of %d bytes)\n", local.Name(), local.Width())
	}

	for _, tmp := range p.Temps {
		fmt.Fprintf(&sb, "%s (tmp var of %d bytes)\n", tmp.LocRepr(), tmp.Width())
	}

	for _, tmp := range p.AddrTemps {
		fmt.Fprintf(&sb, "%s (tmp loc of %d bytes)\n", tmp.LocRepr(), tmp.Width())
	}

	fmt.Fprintf(&sb, "[END %s LOCALS]\n", p.Name)

	for _, q := range p.AllQuads() {
		sb.WriteString(FormatQuad(q, verbose))
		sb.WriteRune('\n')
	}

	return sb.String()
}

// alignUp rounds n up to the nearest multiple of align.
func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
