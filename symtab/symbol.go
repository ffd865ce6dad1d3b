package symtab

import (
	"cshantyc/report"
	"cshantyc/types"
)

// Symbol represents a semantic symbol: a named variable, function or record.
type Symbol struct {
	// The name of the symbol.
	Name string

	// The symbol's kind.  This must be one of the enumerated definition kinds.
	DefKind int

	// The type of the symbol.  For records, this is the record type itself.
	Type types.Type

	// Where the symbol was defined.
	DefSpan *report.TextSpan
}

// Enumeration of different symbol kinds.
const (
	DefKindVar = iota
	DefKindFunc
	DefKindRecord
)

// KindString returns the short name of the symbol's kind.
func (s *Symbol) KindString() string {
	switch s.DefKind {
	case DefKindVar:
		return "var"
	case DefKindFunc:
		return "fn"
	default:
		return "record"
	}
}
