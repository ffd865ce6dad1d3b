package ast

import "cshantyc/symtab"

// Enumeration of binary operators.
const (
	OpPlus = iota
	OpMinus
	OpTimes
	OpDivide
	OpAnd
	OpOr
	OpEquals
	OpNotEquals
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
)

// Enumeration of unary operators.
const (
	OpNeg = iota
	OpNot
)

// BinOpSymbols maps binary operators to their source text.
var BinOpSymbols = map[int]string{
	OpPlus:      "+",
	OpMinus:     "-",
	OpTimes:     "*",
	OpDivide:    "/",
	OpAnd:       "&&",
	OpOr:        "||",
	OpEquals:    "==",
	OpNotEquals: "!=",
	OpLess:      "<",
	OpLessEq:    "<=",
	OpGreater:   ">",
	OpGreaterEq: ">=",
}

// BinaryExpr represents a binary operator application.
type BinaryExpr struct {
	ASTBase

	Op       int
	Lhs, Rhs ASTNode
}

// UnaryExpr represents a unary operator application.
type UnaryExpr struct {
	ASTBase

	Op      int
	Operand ASTNode
}

// AssignExpr represents `dst = src`.  Its value is the destination.
type AssignExpr struct {
	ASTBase

	Dst ASTNode
	Src ASTNode
}

// CallExpr represents a function call.
type CallExpr struct {
	ASTBase

	Callee *Identifier
	Args   []ASTNode
}

// -----------------------------------------------------------------------------

// IntLit is an integer literal.
type IntLit struct {
	ASTBase

	Value int64
}

// StrLit is a string literal.  Value holds the literal as written, including
// the enclosing quotes and escape sequences.
type StrLit struct {
	ASTBase

	Value string
}

// BoolLit is a `true` or `false` literal.
type BoolLit struct {
	ASTBase

	Value bool
}

// -----------------------------------------------------------------------------

// Identifier is a named reference.  Sym is attached by the resolver and is a
// non-owning reference into the symbol table.
type Identifier struct {
	ASTBase

	Name string
	Sym  *symtab.Symbol
}

// IndexExpr represents a record field access: `base[field]`.  The field
// identifier is never resolved: it is validated against the base's record
// type during type checking.
type IndexExpr struct {
	ASTBase

	Base  ASTNode
	Field *Identifier
}

// IsLValue returns whether node may appear on the left of an assignment.
func IsLValue(node ASTNode) bool {
	switch node.(type) {
	case *Identifier, *IndexExpr:
		return true
	}

	return false
}
