package ir

import (
	"cshantyc/report"
	"cshantyc/symtab"
	"cshantyc/types"
)

// Operand is an operand of a quad.  Every operand has a width in bytes and a
// textual representation used in 3AC listings.  Operands other than literals
// also have a storage location which is assigned during frame layout.
type Operand interface {
	// Repr returns the operand's value representation: `[x]` for variables and
	// temporaries, `[[x]]` for address temporaries and the literal text for
	// literals.
	Repr() string

	// LocRepr returns the representation of the operand's location.
	LocRepr() string

	// Width returns the width of the operand in bytes.
	Width() int

	// Location returns the storage location assigned to the operand.
	Location() string

	// SetLocation assigns a storage location to the operand.
	SetLocation(loc string)
}

// SymOpd is an operand backing a declared variable: a global, local or formal.
type SymOpd struct {
	Sym *symtab.Symbol

	width int
	loc   string
}

// Name returns the name of the variable backed by the operand.
func (so *SymOpd) Name() string {
	return so.Sym.Name
}

func (so *SymOpd) Repr() string {
	return "[" + so.Sym.Name + "]"
}

func (so *SymOpd) LocRepr() string {
	return so.Sym.Name
}

func (so *SymOpd) Width() int {
	return so.width
}

func (so *SymOpd) Location() string {
	return so.loc
}

func (so *SymOpd) SetLocation(loc string) {
	so.loc = loc
}

// -----------------------------------------------------------------------------

// LitOpd is an immediate operand: an integer or boolean constant or the label
// of an interned string.  Literals never have storage locations.
type LitOpd struct {
	Value    string
	IsString bool

	width int
}

// NewIntLit creates a new integer literal operand.
func NewIntLit(value string) *LitOpd {
	return &LitOpd{Value: value, width: SlotWidth}
}

// NewBoolLit creates a new boolean literal operand: `1` or `0`.
func NewBoolLit(value bool) *LitOpd {
	if value {
		return &LitOpd{Value: "1", width: SlotWidth}
	}

	return &LitOpd{Value: "0", width: SlotWidth}
}

func (lo *LitOpd) Repr() string {
	return lo.Value
}

func (lo *LitOpd) LocRepr() string {
	report.ICE("tried to get the location of constant `%s`", lo.Value)
	return ""
}

func (lo *LitOpd) Width() int {
	return lo.width
}

func (lo *LitOpd) Location() string {
	report.ICE("tried to get the location of constant `%s`", lo.Value)
	return ""
}

func (lo *LitOpd) SetLocation(loc string) {
	report.ICE("tried to set the location of constant `%s`", lo.Value)
}

// -----------------------------------------------------------------------------

// AuxOpd is a compiler-generated scalar temporary.
type AuxOpd struct {
	Name string

	width int
	loc   string
}

func (ao *AuxOpd) Repr() string {
	return "[" + ao.Name + "]"
}

func (ao *AuxOpd) LocRepr() string {
	return ao.Name
}

func (ao *AuxOpd) Width() int {
	return ao.width
}

func (ao *AuxOpd) Location() string {
	return ao.loc
}

func (ao *AuxOpd) SetLocation(loc string) {
	ao.loc = loc
}

// -----------------------------------------------------------------------------

// AddrOpd is a compiler-generated temporary holding a computed address.  Loads
// and stores through it go through one more level of indirection than through
// an AuxOpd.
type AddrOpd struct {
	Name string

	width int
	loc   string
}

func (ao *AddrOpd) Repr() string {
	return "[[" + ao.Name + "]]"
}

func (ao *AddrOpd) LocRepr() string {
	return "[" + ao.Name + "]"
}

func (ao *AddrOpd) Width() int {
	return ao.width
}

func (ao *AddrOpd) Location() string {
	return ao.loc
}

func (ao *AddrOpd) SetLocation(loc string) {
	ao.loc = loc
}

// -----------------------------------------------------------------------------

// SlotWidth is the width of a single storage slot: every scalar value
// including booleans occupies one slot.
const SlotWidth = types.SlotSize

// IsLocated returns whether an operand has storage: ie. it is not a literal.
func IsLocated(opd Operand) bool {
	_, ok := opd.(*LitOpd)
	return !ok
}
