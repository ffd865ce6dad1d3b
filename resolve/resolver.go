package resolve

import (
	"cshantyc/ast"
	"cshantyc/report"
	"cshantyc/symtab"
	"cshantyc/types"
)

// Resolver is responsible for binding every identifier in a program to the
// symbol it names.  Resolution errors are reported and accumulated: the
// resolver always walks the whole program.
type Resolver struct {
	interner *types.Interner
	reporter *report.Reporter

	// The scope chain threaded through the walk.
	scopes *symtab.ScopeChain
}

// NewResolver creates a new resolver.
func NewResolver(interner *types.Interner, reporter *report.Reporter) *Resolver {
	return &Resolver{
		interner: interner,
		reporter: reporter,
		scopes:   symtab.NewScopeChain(),
	}
}

// Resolve resolves a program.  It returns false if any resolution error was
// reported.
func Resolve(prog *ast.Program, interner *types.Interner, reporter *report.Reporter) bool {
	return NewResolver(interner, reporter).Resolve(prog)
}

// Resolve resolves a program using the resolver's scope chain.
func (r *Resolver) Resolve(prog *ast.Program) bool {
	r.scopes.Enter()

	ok := true
	for _, decl := range prog.Decls {
		switch v := decl.(type) {
		case *ast.VarDecl:
			ok = r.resolveVarDecl(r.scopes, v) && ok
		case *ast.RecordTypeDecl:
			ok = r.resolveRecordDecl(v) && ok
		case *ast.FnDecl:
			ok = r.resolveFnDecl(v) && ok
		default:
			report.ICE("unknown top-level declaration %T", decl)
		}
	}

	r.scopes.Leave()
	return ok
}

// Scopes returns the resolver's scope chain.
func (r *Resolver) Scopes() *symtab.ScopeChain {
	return r.scopes
}

// -----------------------------------------------------------------------------

// resolveVarDecl declares a variable in the innermost scope of sc.
func (r *Resolver) resolveVarDecl(sc *symtab.ScopeChain, vd *ast.VarDecl) bool {
	typ, labelOk := r.resolveTypeLabel(sc, vd.TypeLabel)

	validType := labelOk && types.IsValidVarType(typ)
	if labelOk && !validType {
		r.reporter.CompileError(vd.Span(), "Invalid type in declaration")
	}

	if _, clash := sc.LookupLocal(vd.Ident.Name); clash {
		r.reporter.CompileError(vd.Ident.Span(), "Multiply declared identifier")
		return false
	}

	if !validType {
		return false
	}

	sym := &symtab.Symbol{
		Name:    vd.Ident.Name,
		DefKind: symtab.DefKindVar,
		Type:    typ,
		DefSpan: vd.Ident.Span(),
	}

	sc.Insert(sym)
	vd.Ident.Sym = sym
	return true
}

// resolveRecordDecl declares a record type.  The fields are resolved in an
// isolated scope chain so they are not visible outside the record.
func (r *Resolver) resolveRecordDecl(rd *ast.RecordTypeDecl) bool {
	name := rd.Ident.Name
	if _, clash := r.scopes.LookupLocal(name); clash {
		r.reporter.CompileError(rd.Ident.Span(), "Multiply declared identifier")
		return false
	}

	fieldScopes := symtab.NewScopeChain()
	fieldScopes.Enter()

	var fields []*types.RecordField
	for _, field := range rd.Fields {
		if _, clash := fieldScopes.LookupLocal(field.Ident.Name); clash {
			r.reporter.CompileError(field.Span(), "Multiply declared identifier")
			return false
		}

		if !r.resolveFieldDecl(fieldScopes, field) {
			return false
		}

		fields = append(fields, &types.RecordField{Name: field.Ident.Name, Type: field.Ident.Sym.Type})
	}

	fieldScopes.Leave()

	rt, ok := r.interner.Record(name, fields)
	if !ok {
		r.reporter.CompileError(rd.Ident.Span(), "Multiply declared identifier")
		return false
	}

	sym := &symtab.Symbol{
		Name:    name,
		DefKind: symtab.DefKindRecord,
		Type:    rt,
		DefSpan: rd.Ident.Span(),
	}

	r.scopes.Insert(sym)
	rd.Ident.Sym = sym
	return true
}

// resolveFieldDecl resolves a record field.  Record type labels on fields are
// looked up in the resolver's main scope chain.
func (r *Resolver) resolveFieldDecl(fieldScopes *symtab.ScopeChain, field *ast.VarDecl) bool {
	if field.TypeLabel.Kind != ast.TypeRecord {
		return r.resolveVarDecl(fieldScopes, field)
	}

	typ, ok := r.resolveTypeLabel(r.scopes, field.TypeLabel)
	if !ok {
		return false
	}

	sym := &symtab.Symbol{
		Name:    field.Ident.Name,
		DefKind: symtab.DefKindVar,
		Type:    typ,
		DefSpan: field.Ident.Span(),
	}

	fieldScopes.Insert(sym)
	field.Ident.Sym = sym
	return true
}

// resolveFnDecl declares a function and resolves its body.  The function
// symbol is inserted in the enclosing scope before the body is resolved so
// that the function may call itself.
func (r *Resolver) resolveFnDecl(fd *ast.FnDecl) bool {
	retType, validRet := r.resolveTypeLabel(r.scopes, fd.RetType)
	if !validRet {
		retType = r.interner.Error()
	}

	_, clash := r.scopes.LookupLocal(fd.Ident.Name)
	if clash {
		r.reporter.CompileError(fd.Ident.Span(), "Multiply declared identifier")
	}

	// The function symbol must be inserted into the declaring scope so we
	// capture it before entering the function's scope.
	fnSym := &symtab.Symbol{
		Name:    fd.Ident.Name,
		DefKind: symtab.DefKindFunc,
		DefSpan: fd.Ident.Span(),
	}

	if !clash {
		r.scopes.Insert(fnSym)
		fd.Ident.Sym = fnSym
	}

	r.scopes.Enter()

	validFormals := true
	formalTypes := make([]types.Type, len(fd.Formals))
	for i, formal := range fd.Formals {
		if r.resolveVarDecl(r.scopes, formal) {
			formalTypes[i] = formal.Ident.Sym.Type
		} else {
			formalTypes[i] = r.interner.Error()
			validFormals = false
		}
	}

	fnSym.Type = types.NewFunction(formalTypes, retType)

	validBody := r.resolveBlock(fd.Body)

	r.scopes.Leave()

	return validRet && !clash && validFormals && validBody
}

// resolveTypeLabel converts a type label into a type.  Record labels must name
// a record symbol visible in sc.
func (r *Resolver) resolveTypeLabel(sc *symtab.ScopeChain, tl *ast.TypeLabel) (types.Type, bool) {
	switch tl.Kind {
	case ast.TypeInt:
		return r.interner.Int(), true
	case ast.TypeBool:
		return r.interner.Bool(), true
	case ast.TypeString:
		return r.interner.String(), true
	case ast.TypeVoid:
		return r.interner.Void(), true
	}

	if sym, ok := sc.Lookup(tl.Name); ok && sym.DefKind == symtab.DefKindRecord {
		return sym.Type, true
	}

	r.reporter.CompileError(tl.Span(), "Invalid type in declaration")
	return nil, false
}
