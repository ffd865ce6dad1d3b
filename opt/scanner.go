package opt

import (
	"cshantyc/ir"
	"cshantyc/report"
)

// QuadScanner performs peephole optimization over the quads of a program.  It
// threads every procedure's enter, body and leave quads into one doubly linked
// chain in program order.  Jumps never cross procedure boundaries so the
// cross-procedure links are only used for traversal.
type QuadScanner struct {
	prog *ir.Program

	next, prev map[ir.Quad]ir.Quad

	// owner maps each body quad to its procedure.
	owner map[ir.Quad]*ir.Procedure

	head, tail ir.Quad

	// removed counts the quads removed so far.
	removed int
}

// Optimize runs the peephole optimizer over a program in place and returns
// the number of quads it removed.  Running it again on its own output removes
// nothing.
func Optimize(prog *ir.Program) int {
	if len(prog.Procs) == 0 {
		return 0
	}

	qs := &QuadScanner{
		prog:  prog,
		next:  make(map[ir.Quad]ir.Quad),
		prev:  make(map[ir.Quad]ir.Quad),
		owner: make(map[ir.Quad]*ir.Procedure),
	}

	qs.sequenceQuads()
	qs.removeNops()

	for qs.removeJumps() {
	}

	return qs.removed
}

// sequenceQuads builds the quad chain.
func (qs *QuadScanner) sequenceQuads() {
	var trail ir.Quad

	for _, proc := range qs.prog.Procs {
		for _, q := range proc.AllQuads() {
			if trail == nil {
				qs.head = q
			} else {
				qs.link(trail, q)
			}

			trail = q
		}

		for _, q := range proc.Quads {
			qs.owner[q] = proc
		}
	}

	qs.tail = trail
}

func (qs *QuadScanner) link(a, b ir.Quad) {
	qs.next[a] = b
	qs.prev[b] = a
}

// chain returns the quads of the chain in order.
func (qs *QuadScanner) chain() []ir.Quad {
	var quads []ir.Quad
	for q := qs.head; q != nil; q = qs.next[q] {
		quads = append(quads, q)
	}

	return quads
}

// removeNops removes every nop.  Each nop's labels move to its successor.
func (qs *QuadScanner) removeNops() {
	for _, q := range qs.chain() {
		if _, ok := q.(*ir.NopQuad); ok {
			qs.removeQuad(q)
		}
	}
}

// removeJumps removes every jump whose immediate successor carries its target
// label.  It returns whether any jump was removed.
func (qs *QuadScanner) removeJumps() bool {
	var deadJumps []ir.Quad

	for _, q := range qs.chain() {
		if target, ok := ir.IsJump(q); ok {
			if succ := qs.next[q]; succ != nil && succ.HasLabel(target) {
				deadJumps = append(deadJumps, q)
			}
		}
	}

	for _, q := range deadJumps {
		qs.removeQuad(q)
	}

	return len(deadJumps) > 0
}

// removeQuad unlinks a body quad from the chain and from its procedure.  Its
// labels are transferred to its successor before it is removed.
func (qs *QuadScanner) removeQuad(q ir.Quad) {
	proc, ok := qs.owner[q]
	if !ok {
		report.ICE("attempt to remove a quad outside of a procedure body: `%s`", q.Repr())
	}

	succ, pred := qs.next[q], qs.prev[q]
	if succ == nil {
		report.ICE("quad `%s` has no successor", q.Repr())
	}

	q.TransferLabels(succ)

	for i, bq := range proc.Quads {
		if bq == q {
			proc.Quads = append(proc.Quads[:i], proc.Quads[i+1:]...)
			break
		}
	}

	if pred != nil {
		qs.next[pred] = succ
	}
	qs.prev[succ] = pred

	delete(qs.next, q)
	delete(qs.prev, q)
	delete(qs.owner, q)

	qs.removed++
}
