package ast

// AssignStmt is an assignment expression used as a statement.
type AssignStmt struct {
	ASTBase

	Assign *AssignExpr
}

// ReceiveStmt reads input into an lvalue.
type ReceiveStmt struct {
	ASTBase

	Dst ASTNode
}

// ReportStmt writes an expression to the output.
type ReportStmt struct {
	ASTBase

	Src ASTNode
}

// PostIncStmt represents `lval++`.
type PostIncStmt struct {
	ASTBase

	LVal ASTNode
}

// PostDecStmt represents `lval--`.
type PostDecStmt struct {
	ASTBase

	LVal ASTNode
}

// IfStmt represents an if statement with no else branch.
type IfStmt struct {
	ASTBase

	Cond ASTNode
	Body []ASTNode
}

// IfElseStmt represents an if statement with an else branch.
type IfElseStmt struct {
	ASTBase

	Cond      ASTNode
	BodyTrue  []ASTNode
	BodyFalse []ASTNode
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	ASTBase

	Cond ASTNode
	Body []ASTNode
}

// ReturnStmt represents a return statement.  Expr may be nil.
type ReturnStmt struct {
	ASTBase

	Expr ASTNode
}

// CallStmt is a call expression used as a statement.
type CallStmt struct {
	ASTBase

	Call *CallExpr
}
