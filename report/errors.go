package report

import "fmt"

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.
type LocalCompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	return lce.Message
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// -----------------------------------------------------------------------------

// InternalError signals a violated compiler invariant: a bug, never a user
// error.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "InternalError: " + ie.Message
}

// ToDoError signals a code path that is intentionally left unfinished.
type ToDoError struct {
	Message string
}

func (te *ToDoError) Error() string {
	return "ToDoError: " + te.Message
}

// ICE aborts compilation with an internal compiler error.  It never returns.
func ICE(msg string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(msg, args...)})
}

// ToDo aborts compilation on an unimplemented feature.  It never returns.
func ToDo(msg string, args ...interface{}) {
	panic(&ToDoError{Message: fmt.Sprintf(msg, args...)})
}

// -----------------------------------------------------------------------------

// CatchErrors catches local compile errors thrown by a `panic` during a stage
// of compilation and reports them.  Internal errors and unimplemented markers
// keep propagating.
// NB: This function must ALWAYS be deferred.
func (r *Reporter) CatchErrors() {
	if x := recover(); x != nil {
		if cerr, ok := x.(*LocalCompileError); ok {
			r.CompileError(cerr.Span, "%s", cerr.Message)
		} else {
			panic(x)
		}
	}
}

// CatchAborts converts internal errors and unimplemented markers into a
// labeled message and a failing exit code.  Any other panic is reported as an
// internal error as well.
// NB: This function must ALWAYS be deferred.
func CatchAborts(exitCode *int) {
	if x := recover(); x != nil {
		switch v := x.(type) {
		case *InternalError:
			displayAbort("InternalError", v.Message)
		case *ToDoError:
			displayAbort("ToDoError", v.Message)
		case error:
			displayAbort("InternalError", v.Error())
		default:
			displayAbort("InternalError", fmt.Sprint(v))
		}

		*exitCode = 1
	}
}
