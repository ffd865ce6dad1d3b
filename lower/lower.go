package lower

import (
	"cshantyc/ast"
	"cshantyc/ir"
	"cshantyc/report"
	"cshantyc/types"
	"cshantyc/walk"
)

// Lowerer converts a type checked AST into three-address code.  It must only
// be run on programs which passed type checking.
type Lowerer struct {
	prog  *ir.Program
	table *walk.TypeTable

	// proc is the procedure currently being lowered.
	proc *ir.Procedure
}

// Lower converts a type checked program into its 3AC representation.
func Lower(prog *ast.Program, table *walk.TypeTable) *ir.Program {
	l := &Lowerer{
		prog:  ir.NewProgram(),
		table: table,
	}

	for _, decl := range prog.Decls {
		l.lowerGlobal(decl)
	}

	return l.prog
}

func (l *Lowerer) lowerGlobal(decl ast.ASTNode) {
	switch v := decl.(type) {
	case *ast.VarDecl:
		l.prog.GatherGlobal(v.Ident.Sym)
	case *ast.RecordTypeDecl:
		// records only contribute type information
	case *ast.FnDecl:
		l.lowerFnDecl(v)
	default:
		report.ICE("unknown global declaration %T in lowering", decl)
	}
}

// lowerFnDecl creates the procedure for a function.  The formals are received
// before any statement of the body is lowered.
func (l *Lowerer) lowerFnDecl(fd *ast.FnDecl) {
	fnType, ok := types.AsFunc(fd.Symbol().Type)
	if !ok {
		report.ICE("function `%s` has no function type", fd.Ident.Name)
	}

	l.proc = l.prog.MakeProc(fd.Ident.Name)
	l.proc.Type = fnType

	for _, formal := range fd.Formals {
		l.proc.GatherFormal(formal.Ident.Sym)
	}

	for i, formal := range fd.Formals {
		_, isRecord := types.AsRecord(formal.Ident.Sym.Type)

		l.proc.AddQuad(&ir.GetArgQuad{
			Index:      i + 1,
			NumFormals: len(fd.Formals),
			Dst:        l.proc.GetSymOpd(formal.Ident.Sym),
			IsRecord:   isRecord,
		})
	}

	l.lowerBlock(fd.Body)
	l.proc = nil
}

// -----------------------------------------------------------------------------

// typeOf returns the checked type of a node.
func (l *Lowerer) typeOf(node ast.ASTNode) types.Type {
	return l.table.TypeOf(node)
}

// opWidth returns the storage width of the value of a node.
func (l *Lowerer) opWidth(node ast.ASTNode) int {
	typ := l.typeOf(node)
	if typ == nil {
		report.ICE("record name used as a value in lowering")
	}

	return typ.Size()
}

// isRecordValued returns whether the node's value is a record.
func (l *Lowerer) isRecordValued(node ast.ASTNode) bool {
	_, ok := types.AsRecord(l.typeOf(node))
	return ok
}
