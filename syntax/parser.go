package syntax

import (
	"bufio"
	"strings"

	"cshantyc/ast"
	"cshantyc/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.

// Parser is a recursive descent parser for a C-Shanty source file.  All
// parsing functions assume that they begin with the parser centered on the
// first token of their production and must consume all tokens (including the
// last) of their production, leaving the parser on the next token.  Syntax
// errors are raised as panics and caught at the parser's boundary.
type Parser struct {
	// The reporter for the file being parsed.
	reporter *report.Reporter

	// The lexer this parser is using to lex the source file.
	lexer *Lexer

	// The current token the parser is positioned on.
	tok *Token

	// The token the parser was positioned on before the current token.
	lookbehind *Token

	// The token after the current token if it has been read.
	ahead *Token

	// The next node ID to assign.
	nextID int
}

// NewParser creates a new parser for the given file reader.
func NewParser(reporter *report.Reporter, r *bufio.Reader) *Parser {
	return &Parser{
		reporter: reporter,
		lexer:    NewLexer(r, reporter),
	}
}

// ParseSource parses a source string.  This is primarily a convenience for
// tests and for the driver when the source is already in memory.
func ParseSource(reporter *report.Reporter, src string) (*ast.Program, bool) {
	return NewParser(reporter, bufio.NewReader(strings.NewReader(src))).Parse()
}

// Parse parses the whole file.  It returns false if any syntax error was
// encountered.
func (p *Parser) Parse() (*ast.Program, bool) {
	prog := p.tryParse()
	return prog, prog != nil
}

// tryParse parses the file, converting raised syntax errors into reported
// compile errors.
func (p *Parser) tryParse() (prog *ast.Program) {
	defer p.reporter.CatchErrors()

	p.next()
	prog = p.parseProgram()
	return
}

// -----------------------------------------------------------------------------

// newID returns a fresh AST node ID.
func (p *Parser) newID() int {
	id := p.nextID
	p.nextID++
	return id
}

// next moves the parser forward one token.
func (p *Parser) next() {
	p.lookbehind = p.tok

	if p.ahead != nil {
		p.tok = p.ahead
		p.ahead = nil
		return
	}

	p.tok = p.lexToken()
}

// peek returns the token after the current token without moving the parser.
func (p *Parser) peek() *Token {
	if p.ahead == nil {
		p.ahead = p.lexToken()
	}

	return p.ahead
}

// lexToken reads the next token from the lexer, raising any lexical error.
func (p *Parser) lexToken() *Token {
	tok, err := p.lexer.NextToken()
	if err != nil {
		if lce, ok := err.(*report.LocalCompileError); ok {
			panic(lce)
		}

		panic(report.Raise(nil, "error reading file: %s", err))
	}

	return tok
}

// has returns whether the parser is on a token of the given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// hasOneOf returns whether the parser is on a token of one of the given kinds.
func (p *Parser) hasOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// want asserts that the parser is on a token of the given kind, moves past
// it, and returns it.
func (p *Parser) want(kind int) *Token {
	if !p.has(kind) {
		p.reject()
	}

	p.next()
	return p.lookbehind
}

// reject raises an unexpected token error on the current token.
func (p *Parser) reject() {
	if p.tok.Kind == TOK_EOF {
		panic(report.Raise(p.tok.Span, "unexpected end of file"))
	}

	panic(report.Raise(p.tok.Span, "unexpected token: `%s`", p.tok.Value))
}

// -----------------------------------------------------------------------------

// DumpTokens lexes a whole source string and renders the token stream one
// token per line, ending with the EOF token.
func DumpTokens(reporter *report.Reporter, src string) (string, bool) {
	l := NewLexer(bufio.NewReader(strings.NewReader(src)), reporter)
	sb := strings.Builder{}

	for {
		tok, err := l.NextToken()
		if err != nil {
			if lce, ok := err.(*report.LocalCompileError); ok {
				reporter.CompileError(lce.Span, "%s", lce.Message)
			} else {
				reporter.CompileError(nil, "error reading file: %s", err)
			}

			return sb.String(), false
		}

		sb.WriteString(tok.String())
		sb.WriteRune('\n')

		if tok.Kind == TOK_EOF {
			return sb.String(), true
		}
	}
}
