package syntax

import (
	"fmt"

	"cshantyc/report"
)

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.  String literal values keep their
	// enclosing quotes and escape sequences as written.
	Value string

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_INT = iota
	TOK_BOOL
	TOK_STRING
	TOK_VOID
	TOK_RECORD

	TOK_IF
	TOK_ELSE
	TOK_WHILE
	TOK_RETURN
	TOK_RECEIVE
	TOK_REPORT
	TOK_TRUE
	TOK_FALSE

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_NOT
	TOK_LAND
	TOK_LOR

	TOK_ASSIGN
	TOK_INC
	TOK_DEC

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_SEMI

	TOK_IDENT
	TOK_INTLIT
	TOK_STRINGLIT

	TOK_EOF
)

// tokenKindNames maps token kinds to their names in token dumps.
var tokenKindNames = map[int]string{
	TOK_INT:     "INT",
	TOK_BOOL:    "BOOL",
	TOK_STRING:  "STRING",
	TOK_VOID:    "VOID",
	TOK_RECORD:  "RECORD",
	TOK_IF:      "IF",
	TOK_ELSE:    "ELSE",
	TOK_WHILE:   "WHILE",
	TOK_RETURN:  "RETURN",
	TOK_RECEIVE: "RECEIVE",
	TOK_REPORT:  "REPORT",
	TOK_TRUE:    "TRUE",
	TOK_FALSE:   "FALSE",

	TOK_PLUS:  "PLUS",
	TOK_MINUS: "MINUS",
	TOK_STAR:  "TIMES",
	TOK_DIV:   "DIVIDE",

	TOK_EQ:   "EQUALS",
	TOK_NEQ:  "NOTEQUALS",
	TOK_LT:   "LESS",
	TOK_GT:   "GREATER",
	TOK_LTEQ: "LESSEQ",
	TOK_GTEQ: "GREATEREQ",

	TOK_NOT:  "NOT",
	TOK_LAND: "AND",
	TOK_LOR:  "OR",

	TOK_ASSIGN: "ASSIGN",
	TOK_INC:    "INC",
	TOK_DEC:    "DEC",

	TOK_LPAREN:   "LPAREN",
	TOK_RPAREN:   "RPAREN",
	TOK_LBRACE:   "LBRACE",
	TOK_RBRACE:   "RBRACE",
	TOK_LBRACKET: "OPEN",
	TOK_RBRACKET: "CLOSE",
	TOK_COMMA:    "COMMA",
	TOK_SEMI:     "SEMICOL",

	TOK_IDENT:     "ID",
	TOK_INTLIT:    "INTLITERAL",
	TOK_STRINGLIT: "STRINGLITERAL",

	TOK_EOF: "EOF",
}

// String renders the token as a line of a token dump: the kind name, the
// value for identifiers and literals, then the one-indexed start position.
func (tok *Token) String() string {
	name := tokenKindNames[tok.Kind]

	switch tok.Kind {
	case TOK_IDENT, TOK_INTLIT, TOK_STRINGLIT:
		name += ":" + tok.Value
	}

	if tok.Span == nil {
		return name
	}

	return fmt.Sprintf("%s [%d,%d]", name, tok.Span.StartLine+1, tok.Span.StartCol+1)
}
