package ast

import "cshantyc/report"

// ASTNode is the abstract interface for all AST nodes.
type ASTNode interface {
	// ID returns the node's stable identifier.  Identifiers are assigned by the
	// parser in creation order and are unique within a program.  Per-node
	// annotations (eg. the type table) are keyed by this value.
	ID() int

	// Span returns the text span of the node.
	Span() *report.TextSpan
}

// ASTBase is a utility base struct for all AST nodes.
type ASTBase struct {
	id int

	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(id int, span *report.TextSpan) ASTBase {
	return ASTBase{id: id, span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(id int, start, end *report.TextSpan) ASTBase {
	return ASTBase{id: id, span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) ID() int {
	return ab.id
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// Program is the root of a C-Shanty AST: an ordered list of top-level
// declarations.
type Program struct {
	ASTBase

	// Each declaration is a *VarDecl, *RecordTypeDecl or *FnDecl.
	Decls []ASTNode

	// NodeCount is one greater than the largest node ID in the program.
	NodeCount int
}
