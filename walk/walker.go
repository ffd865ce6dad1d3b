package walk

import (
	"cshantyc/ast"
	"cshantyc/report"
	"cshantyc/types"
)

// TypeTable maps AST node IDs to the type assigned to the node by the type
// checker.  A node may be mapped to nil: this marks an identifier that names a
// record type rather than a value.
type TypeTable struct {
	types map[int]types.Type
}

// NewTypeTable creates a new empty type table.
func NewTypeTable() *TypeTable {
	return &TypeTable{types: make(map[int]types.Type)}
}

// Set assigns a type to a node, replacing any previous assignment.
func (tt *TypeTable) Set(node ast.ASTNode, typ types.Type) {
	tt.types[node.ID()] = typ
}

// Lookup returns the type of a node and whether the node has been typed.
func (tt *TypeTable) Lookup(node ast.ASTNode) (types.Type, bool) {
	typ, ok := tt.types[node.ID()]
	return typ, ok
}

// TypeOf returns the type of a node which must have been typed.
func (tt *TypeTable) TypeOf(node ast.ASTNode) types.Type {
	typ, ok := tt.types[node.ID()]
	if !ok {
		report.ICE("no type for node %d (%T)", node.ID(), node)
	}

	return typ
}

// Len returns the number of typed nodes.
func (tt *TypeTable) Len() int {
	return len(tt.types)
}

// -----------------------------------------------------------------------------

// Walker performs type checking over a resolved program.  It is a single
// post-order pass: every node is typed after its children.
type Walker struct {
	interner *types.Interner
	reporter *report.Reporter

	table *TypeTable

	// The function whose body is currently being checked.  This is nil outside
	// of function bodies.
	currentFn *types.FuncType
}

// NewWalker creates a new type checking walker.
func NewWalker(interner *types.Interner, reporter *report.Reporter) *Walker {
	return &Walker{
		interner: interner,
		reporter: reporter,
		table:    NewTypeTable(),
	}
}

// Check type checks a resolved program.  It returns the type table and whether
// type checking succeeded.
func Check(prog *ast.Program, interner *types.Interner, reporter *report.Reporter) (*TypeTable, bool) {
	w := NewWalker(interner, reporter)
	ok := w.WalkProgram(prog)
	return w.table, ok
}

// WalkProgram type checks every declaration of a program.
func (w *Walker) WalkProgram(prog *ast.Program) bool {
	startErrors := w.reporter.ErrorCount()

	for _, decl := range prog.Decls {
		w.walkDecl(decl)
	}

	w.table.Set(prog, w.interner.Void())
	return w.reporter.ErrorCount() == startErrors
}

// Table returns the walker's type table.
func (w *Walker) Table() *TypeTable {
	return w.table
}

// -----------------------------------------------------------------------------

// setType assigns a type to a node and returns that type.
func (w *Walker) setType(node ast.ASTNode, typ types.Type) types.Type {
	w.table.Set(node, typ)
	return typ
}

// setError marks a node as erroneous.
func (w *Walker) setError(node ast.ASTNode) types.Type {
	return w.setType(node, w.interner.Error())
}

// isRecordName returns whether typ is the record name marker.
func isRecordName(typ types.Type) bool {
	return typ == nil
}
