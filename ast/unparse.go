package ast

import (
	"strconv"
	"strings"

	"cshantyc/report"
)

// Unparse renders a program as canonical C-Shanty source.  Identifiers that
// have been resolved are followed by their symbol's type: eg. `x(int)`.
func Unparse(prog *Program) string {
	u := &unparser{sb: &strings.Builder{}}

	for _, decl := range prog.Decls {
		u.unparseDecl(decl, 0)
	}

	return u.sb.String()
}

// unparser holds the output buffer of a single unparse.
type unparser struct {
	sb *strings.Builder
}

func (u *unparser) write(strs ...string) {
	for _, s := range strs {
		u.sb.WriteString(s)
	}
}

func (u *unparser) indent(n int) {
	u.sb.WriteString(strings.Repeat("\t", n))
}

// -----------------------------------------------------------------------------

func (u *unparser) unparseDecl(decl ASTNode, indent int) {
	switch v := decl.(type) {
	case *VarDecl:
		u.indent(indent)
		u.unparseVarDecl(v)
		u.write(";\n")
	case *RecordTypeDecl:
		u.indent(indent)
		u.write("record ")
		u.unparseIdent(v.Ident)
		u.write("{\n")
		for _, field := range v.Fields {
			u.unparseDecl(field, indent+1)
		}
		u.indent(indent)
		u.write("}\n")
	case *FnDecl:
		u.indent(indent)
		u.unparseTypeLabel(v.RetType)
		u.write(" ")
		u.unparseIdent(v.Ident)
		u.write("(")
		for i, formal := range v.Formals {
			if i > 0 {
				u.write(", ")
			}

			u.unparseVarDecl(formal)
		}
		u.write("){\n")
		u.unparseBlock(v.Body, indent+1)
		u.indent(indent)
		u.write("}\n")
	default:
		report.ICE("unparse of unknown declaration %T", decl)
	}
}

func (u *unparser) unparseVarDecl(vd *VarDecl) {
	u.unparseTypeLabel(vd.TypeLabel)
	u.write(" ")
	u.unparseIdent(vd.Ident)
}

func (u *unparser) unparseTypeLabel(tl *TypeLabel) {
	switch tl.Kind {
	case TypeInt:
		u.write("int")
	case TypeBool:
		u.write("bool")
	case TypeString:
		u.write("string")
	case TypeVoid:
		u.write("void")
	case TypeRecord:
		u.write(tl.Name)
	}
}

func (u *unparser) unparseBlock(stmts []ASTNode, indent int) {
	for _, stmt := range stmts {
		u.unparseStmt(stmt, indent)
	}
}

// -----------------------------------------------------------------------------

func (u *unparser) unparseStmt(stmt ASTNode, indent int) {
	switch v := stmt.(type) {
	case *VarDecl:
		u.unparseDecl(v, indent)
		return
	case *IfStmt:
		u.indent(indent)
		u.write("if (")
		u.unparseExpr(v.Cond)
		u.write("){\n")
		u.unparseBlock(v.Body, indent+1)
		u.indent(indent)
		u.write("}\n")
		return
	case *IfElseStmt:
		u.indent(indent)
		u.write("if (")
		u.unparseExpr(v.Cond)
		u.write("){\n")
		u.unparseBlock(v.BodyTrue, indent+1)
		u.indent(indent)
		u.write("} else {\n")
		u.unparseBlock(v.BodyFalse, indent+1)
		u.indent(indent)
		u.write("}\n")
		return
	case *WhileStmt:
		u.indent(indent)
		u.write("while (")
		u.unparseExpr(v.Cond)
		u.write("){\n")
		u.unparseBlock(v.Body, indent+1)
		u.indent(indent)
		u.write("}\n")
		return
	}

	u.indent(indent)

	switch v := stmt.(type) {
	case *AssignStmt:
		u.unparseExpr(v.Assign)
	case *ReceiveStmt:
		u.write("receive ")
		u.unparseExpr(v.Dst)
	case *ReportStmt:
		u.write("report ")
		u.unparseExpr(v.Src)
	case *PostIncStmt:
		u.unparseExpr(v.LVal)
		u.write("++")
	case *PostDecStmt:
		u.unparseExpr(v.LVal)
		u.write("--")
	case *ReturnStmt:
		u.write("return")
		if v.Expr != nil {
			u.write(" ")
			u.unparseExpr(v.Expr)
		}
	case *CallStmt:
		u.unparseExpr(v.Call)
	default:
		report.ICE("unparse of unknown statement %T", stmt)
	}

	u.write(";\n")
}

// -----------------------------------------------------------------------------

func (u *unparser) unparseExpr(expr ASTNode) {
	switch v := expr.(type) {
	case *BinaryExpr:
		u.unparseNested(v.Lhs)
		u.write(" ", BinOpSymbols[v.Op], " ")
		u.unparseNested(v.Rhs)
	case *UnaryExpr:
		if v.Op == OpNeg {
			u.write("-")
		} else {
			u.write("!")
		}
		u.unparseNested(v.Operand)
	case *AssignExpr:
		u.unparseNested(v.Dst)
		u.write(" = ")
		u.unparseNested(v.Src)
	case *CallExpr:
		u.unparseIdent(v.Callee)
		u.write("(")
		for i, arg := range v.Args {
			if i > 0 {
				u.write(", ")
			}

			u.unparseExpr(arg)
		}
		u.write(")")
	case *IndexExpr:
		u.unparseNested(v.Base)
		u.write("[")
		u.unparseIdent(v.Field)
		u.write("]")
	case *Identifier:
		u.unparseIdent(v)
	case *IntLit:
		u.write(strconv.FormatInt(v.Value, 10))
	case *StrLit:
		u.write(v.Value)
	case *BoolLit:
		u.write(strconv.FormatBool(v.Value))
	default:
		report.ICE("unparse of unknown expression %T", expr)
	}
}

// unparseNested unparses a subexpression, parenthesizing compound operands.
func (u *unparser) unparseNested(expr ASTNode) {
	switch expr.(type) {
	case *BinaryExpr, *UnaryExpr, *AssignExpr:
		u.write("(")
		u.unparseExpr(expr)
		u.write(")")
	default:
		u.unparseExpr(expr)
	}
}

func (u *unparser) unparseIdent(ident *Identifier) {
	u.write(ident.Name)

	if ident.Sym != nil && ident.Sym.Type != nil {
		u.write("(", ident.Sym.Type.Repr(), ")")
	}
}
