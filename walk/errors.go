package walk

import "cshantyc/report"

// Type checking diagnostics.
const (
	errWriteFn        = "Attempt to output a function"
	errWriteVoid      = "Attempt to write void"
	errReportRecName  = "Attempt to report record name"
	errReportRecVar   = "Attempt to output a record variable"
	errReceiveRecVar  = "Attempt to read a record variable"
	errReceiveRecName = "Attempt to read a record name"
	errReadFn         = "Attempt to assign input to function"
	errReadOther      = "Attempt to read to illegal type"
	errCallee         = "Attempt to call a non-function"
	errArgCount       = "Function call with wrong number of args"
	errArgMatch       = "Type of actual does not match type of formal"
	errRetEmpty       = "Missing return value"
	errRetExtra       = "Return with a value in void function"
	errRetWrong       = "Bad return value"
	errMathOpd        = "Arithmetic operator applied to invalid operand"
	errRelOpd         = "Relational operator applied to non-numeric operand"
	errLogicOpd       = "Logical operator applied to non-bool operand"
	errIfCond         = "Non-bool expression used as an if condition"
	errWhileCond      = "Non-bool expression used as a while condition"
	errEqOpd          = "Invalid equality operand"
	errEqOpr          = "Invalid equality operation"
	errEqRecVars      = "Equality operator applied to record variables"
	errEqRecNames     = "Equality operator applied to record names"
	errAssignOpd      = "Invalid assignment operand"
	errAssignOpr      = "Invalid assignment operation"
	errAssignRecVar   = "Record variable assignment"
	errAssignRecName  = "Record name assignment"
	errRecordID       = "Attempt to index a non-record"
	errRecordIndex    = "Bad index"
)

// error reports a type error over the given span.
func (w *Walker) error(span *report.TextSpan, msg string) {
	w.reporter.CompileError(span, "%s", msg)
}
