package ir

import (
	"fmt"
	"strings"

	"cshantyc/symtab"
	"cshantyc/types"
)

// Label is a jump target.  Labels are unique within a program.
type Label struct {
	Name string
}

// Quad is a single three-address code instruction.  A quad may carry any
// number of labels and an optional comment.
type Quad interface {
	// Repr returns the instruction text of the quad without its labels.
	Repr() string

	Labels() []*Label
	AddLabel(label *Label)
	HasLabel(label *Label) bool

	// TransferLabels moves all the labels of this quad onto another quad.
	TransferLabels(other Quad)

	Comment() string
	SetComment(comment string)
}

// QuadBase is the base struct for all quads.
type QuadBase struct {
	labels  []*Label
	comment string
}

func (qb *QuadBase) Labels() []*Label {
	return qb.labels
}

func (qb *QuadBase) AddLabel(label *Label) {
	if label != nil {
		qb.labels = append(qb.labels, label)
	}
}

func (qb *QuadBase) HasLabel(label *Label) bool {
	for _, l := range qb.labels {
		if l.Name == label.Name {
			return true
		}
	}

	return false
}

func (qb *QuadBase) TransferLabels(other Quad) {
	for _, l := range qb.labels {
		other.AddLabel(l)
	}

	qb.labels = nil
}

func (qb *QuadBase) Comment() string {
	return qb.comment
}

func (qb *QuadBase) SetComment(comment string) {
	qb.comment = comment
}

// labelColumn is the column at which quad instruction text begins.
const labelColumn = 12

// FormatQuad renders a quad as a line of a 3AC listing: its labels followed by
// the instruction text.  Verbose listings include the quad's comment.
func FormatQuad(q Quad, verbose bool) string {
	sb := strings.Builder{}

	if labels := q.Labels(); len(labels) > 0 {
		for i, l := range labels {
			if i > 0 {
				sb.WriteRune(',')
			}

			sb.WriteString(l.Name)
		}

		sb.WriteString(": ")
	} else {
		sb.WriteString("  ")
	}

	for sb.Len() < labelColumn {
		sb.WriteRune(' ')
	}

	sb.WriteString(q.Repr())

	if verbose && q.Comment() != "" {
		sb.WriteString("  #")
		sb.WriteString(q.Comment())
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// BinOp is a binary operator of the 3AC.
type BinOp int

// Enumeration of binary operators.
const (
	ADD64 BinOp = iota
	SUB64
	DIV64
	MULT64
	EQ64
	NEQ64
	LT64
	GT64
	LTE64
	GTE64
	OR64
	AND64
)

var binOpNames = [...]string{
	"ADD64", "SUB64", "DIV64", "MULT64", "EQ64", "NEQ64",
	"LT64", "GT64", "LTE64", "GTE64", "OR64", "AND64",
}

func (op BinOp) String() string {
	return binOpNames[op]
}

// UnaryOp is a unary operator of the 3AC.
type UnaryOp int

// Enumeration of unary operators.
const (
	NEG64 UnaryOp = iota
	NOT64
)

func (op UnaryOp) String() string {
	if op == NEG64 {
		return "NEG64"
	}

	return "NOT64"
}

// -----------------------------------------------------------------------------

// BinOpQuad computes `Dst := Src1 Op Src2`.
type BinOpQuad struct {
	QuadBase

	Dst, Src1, Src2 Operand
	Op              BinOp
}

func (bq *BinOpQuad) Repr() string {
	return fmt.Sprintf("%s := %s %s %s", bq.Dst.Repr(), bq.Src1.Repr(), bq.Op, bq.Src2.Repr())
}

// UnaryOpQuad computes `Dst := Op Src`.
type UnaryOpQuad struct {
	QuadBase

	Dst, Src Operand
	Op       UnaryOp
}

func (uq *UnaryOpQuad) Repr() string {
	return fmt.Sprintf("%s := %s %s", uq.Dst.Repr(), uq.Op, uq.Src.Repr())
}

// AssignQuad copies Src into Dst.
type AssignQuad struct {
	QuadBase

	Dst, Src Operand
}

func (aq *AssignQuad) Repr() string {
	return aq.Dst.Repr() + " := " + aq.Src.Repr()
}

// IndexQuad computes the address of a record field: `Dst := &Base + Offset`.
type IndexQuad struct {
	QuadBase

	Dst    *AddrOpd
	Base   Operand
	Offset *LitOpd
}

func (iq *IndexQuad) Repr() string {
	return fmt.Sprintf("%s := %s ADD64 %s", iq.Dst.LocRepr(), iq.Base.LocRepr(), iq.Offset.Repr())
}

// GotoQuad is an unconditional jump.
type GotoQuad struct {
	QuadBase

	Target *Label
}

func (gq *GotoQuad) Repr() string {
	return "goto " + gq.Target.Name
}

// IfZeroQuad jumps to Target if Cond is zero (false).
type IfZeroQuad struct {
	QuadBase

	Cond   Operand
	Target *Label
}

func (iq *IfZeroQuad) Repr() string {
	return fmt.Sprintf("IFZ %s GOTO %s", iq.Cond.Repr(), iq.Target.Name)
}

// NopQuad does nothing: it exists to carry labels.
type NopQuad struct {
	QuadBase
}

func (nq *NopQuad) Repr() string {
	return "nop"
}

// CallQuad calls a function.
type CallQuad struct {
	QuadBase

	Callee *symtab.Symbol
}

func (cq *CallQuad) Repr() string {
	return "call " + cq.Callee.Name
}

// EnterQuad is the entry point of a procedure.
type EnterQuad struct {
	QuadBase

	Proc *Procedure
}

func (eq *EnterQuad) Repr() string {
	return "enter " + eq.Proc.Name
}

// LeaveQuad is the single exit point of a procedure.
type LeaveQuad struct {
	QuadBase

	Proc *Procedure
}

func (lq *LeaveQuad) Repr() string {
	return "leave " + lq.Proc.Name
}

// SetArgQuad passes Src as the 1-based Index-th argument of the next call.
type SetArgQuad struct {
	QuadBase

	Index int
	Src   Operand
	Type  types.Type
}

func (sq *SetArgQuad) Repr() string {
	return fmt.Sprintf("setarg %d %s", sq.Index, sq.Src.Repr())
}

// IsRecord returns whether the argument is passed by address.
func (sq *SetArgQuad) IsRecord() bool {
	_, ok := types.AsRecord(sq.Type)
	return ok
}

// GetArgQuad receives the 1-based Index-th of NumFormals arguments into Dst.
type GetArgQuad struct {
	QuadBase

	Index, NumFormals int
	Dst               Operand
	IsRecord          bool
}

func (gq *GetArgQuad) Repr() string {
	return fmt.Sprintf("getarg %d %s", gq.Index, gq.Dst.Repr())
}

// SetRetQuad sets the return value of the current procedure.
type SetRetQuad struct {
	QuadBase

	Src      Operand
	IsRecord bool
}

func (sq *SetRetQuad) Repr() string {
	return "setret " + sq.Src.Repr()
}

// GetRetQuad retrieves the return value of the last call into Dst.
type GetRetQuad struct {
	QuadBase

	Dst      Operand
	IsRecord bool
}

func (gq *GetRetQuad) Repr() string {
	return "getret " + gq.Dst.Repr()
}

// OutputQuad writes Src to standard output.
type OutputQuad struct {
	QuadBase

	Src  Operand
	Type types.Type
}

func (oq *OutputQuad) Repr() string {
	return "REPORT " + oq.Src.Repr()
}

// InputQuad reads a value from standard input into Dst.
type InputQuad struct {
	QuadBase

	Dst  Operand
	Type types.Type
}

func (iq *InputQuad) Repr() string {
	return "RECEIVE " + iq.Dst.Repr()
}

// IsJump returns the target of a quad if it is a jump.
func IsJump(q Quad) (*Label, bool) {
	switch v := q.(type) {
	case *GotoQuad:
		return v.Target, true
	case *IfZeroQuad:
		return v.Target, true
	}

	return nil, false
}
