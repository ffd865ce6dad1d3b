package ast

import "cshantyc/symtab"

// Enumeration of type label kinds.
const (
	TypeInt = iota
	TypeBool
	TypeString
	TypeVoid
	TypeRecord
)

// TypeLabel is a type annotation as written in the source.
type TypeLabel struct {
	ASTBase

	// Kind must be one of the enumerated type label kinds.
	Kind int

	// Name is the record name for record labels.
	Name string
}

// VarDecl represents a variable declaration.  Formal parameters and record
// fields are also represented as variable declarations.
type VarDecl struct {
	ASTBase

	TypeLabel *TypeLabel
	Ident     *Identifier
}

// RecordTypeDecl represents a record type declaration.
type RecordTypeDecl struct {
	ASTBase

	Ident  *Identifier
	Fields []*VarDecl
}

// FnDecl represents a function declaration.
type FnDecl struct {
	ASTBase

	RetType *TypeLabel
	Ident   *Identifier
	Formals []*VarDecl
	Body    []ASTNode
}

// Symbol returns the function's symbol: it is nil before resolution.
func (fd *FnDecl) Symbol() *symtab.Symbol {
	return fd.Ident.Sym
}
