package report

import "fmt"

// TextSpan represents a range or "span" of source text.  Text spans are
// inclusive at the start and exclusive at the end column.  The line and column
// numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// String renders the span one-indexed as `[l,c]-[l,c]`.
func (ts *TextSpan) String() string {
	if ts == nil {
		return "[0,0]-[0,0]"
	}

	return fmt.Sprintf("[%d,%d]-[%d,%d]", ts.StartLine+1, ts.StartCol+1, ts.EndLine+1, ts.EndCol+1)
}
