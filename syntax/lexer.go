package syntax

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"cshantyc/report"
)

// MaxIntLit is the largest integer literal value.  Larger literals are
// clamped to it with a warning.
const MaxIntLit = math.MaxInt32

// Lexer is responsible for tokenizing a source file.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	// The reporter used for lexical warnings.
	reporter *report.Reporter

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given source file.
func NewLexer(file *bufio.Reader, reporter *report.Reporter) *Lexer {
	return &Lexer{
		file:     file,
		tokBuff:  &strings.Builder{},
		reporter: reporter,
	}
}

// NextToken retrieves the next token from the input file.  If the file has
// ended, this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '/':
			if tok, err := l.lexCommentOrDiv(); tok != nil || err != nil {
				return tok, err
			}
		case '"':
			return l.lexStringLit()
		default:
			if isDecimalDigit(c) {
				return l.lexIntLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF), nil
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	// Division operator is handled with comment logic.

	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"&&": TOK_LAND,
	"||": TOK_LOR,
	"!":  TOK_NOT,

	"=":  TOK_ASSIGN,
	"++": TOK_INC,
	"--": TOK_DEC,

	"(": TOK_LPAREN,
	")": TOK_RPAREN,
	"{": TOK_LBRACE,
	"}": TOK_RBRACE,
	"[": TOK_LBRACKET,
	"]": TOK_RBRACKET,
	",": TOK_COMMA,
	";": TOK_SEMI,
}

// symbolPrefixes are the single runes that only begin a longer symbol.
var symbolPrefixes = map[string]struct{}{
	"&": {},
	"|": {},
}

// lexPunctOrOper lexes a punctuation or operator symbol.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	l.mark()
	l.eat()

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		if _, isPrefix := symbolPrefixes[l.tokBuff.String()]; !isPrefix {
			return nil, report.Raise(l.getSpan(), "Illegal character %s", l.tokBuff.String())
		}
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if c == -1 {
			break
		}

		if _kind, ok := symbolPatterns[l.tokBuff.String()+string(c)]; ok {
			l.eat()
			kind = _kind
		} else {
			break
		}
	}

	if _, ok := symbolPatterns[l.tokBuff.String()]; !ok {
		return nil, report.Raise(l.getSpan(), "Illegal character %s", l.tokBuff.String())
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"int":    TOK_INT,
	"bool":   TOK_BOOL,
	"string": TOK_STRING,
	"void":   TOK_VOID,
	"record": TOK_RECORD,

	"if":      TOK_IF,
	"else":    TOK_ELSE,
	"while":   TOK_WHILE,
	"return":  TOK_RETURN,
	"receive": TOK_RECEIVE,
	"report":  TOK_REPORT,

	"true":  TOK_TRUE,
	"false": TOK_FALSE,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	var kind int
	if _kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		kind = _kind
	} else {
		kind = TOK_IDENT
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// lexIntLit lexes a decimal integer literal.
func (l *Lexer) lexIntLit() (*Token, error) {
	l.mark()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	tok := l.makeToken(TOK_INTLIT)
	if n, err := strconv.ParseInt(tok.Value, 10, 64); err != nil || n > MaxIntLit {
		if l.reporter != nil {
			l.reporter.Warning(tok.Span, "Integer literal too large; using max value")
		}

		tok.Value = strconv.Itoa(MaxIntLit)
	}

	return tok, nil
}

// -----------------------------------------------------------------------------

// lexStringLit lexes a string literal.  The token's value includes the
// enclosing quotes.
func (l *Lexer) lexStringLit() (*Token, error) {
	l.mark()
	l.eat()

	badEscape := false
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1, '\n':
			if badEscape {
				return nil, report.Raise(l.getSpan(), "Unterminated string literal with bad escape sequence ignored")
			}

			return nil, report.Raise(l.getSpan(), "Unterminated string literal ignored")
		case '"':
			l.eat()

			if badEscape {
				return nil, report.Raise(l.getSpan(), "String literal with bad escape sequence ignored")
			}

			return l.makeToken(TOK_STRINGLIT), nil
		case '\\':
			l.eat()

			c, err = l.peek()
			if err != nil {
				return nil, err
			}

			switch c {
			case 'n', 't', '"', '\\':
				l.eat()
			case -1, '\n':
				badEscape = true
			default:
				badEscape = true
				l.eat()
			}
		default:
			l.eat()
		}
	}
}

// -----------------------------------------------------------------------------

// lexCommentOrDiv lexes a line comment or a division token.
func (l *Lexer) lexCommentOrDiv() (*Token, error) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	if c == '/' {
		for ; err == nil && c != '\n' && c != -1; c, err = l.skip() {
		}

		return nil, err
	}

	tok := l.makeToken(TOK_DIV)
	tok.Value = "/"
	return tok, nil
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, err := l.skip()
	if err == nil && c != -1 {
		l.tokBuff.WriteRune(c)
	}

	return c, err
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the file without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on the rune it just read.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isFirstIdentChar(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}
