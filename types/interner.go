package types

// Interner owns every interned type instance of a single compilation.  It is
// constructed once per compilation and threaded through the passes.
type Interner struct {
	intType, boolType, stringType, voidType *PrimitiveType

	errorType *ErrorType

	records map[string]*RecordType
}

// NewInterner creates a new type interner.
func NewInterner() *Interner {
	return &Interner{
		intType:    &PrimitiveType{Kind: PrimInt},
		boolType:   &PrimitiveType{Kind: PrimBool},
		stringType: &PrimitiveType{Kind: PrimString},
		voidType:   &PrimitiveType{Kind: PrimVoid},
		errorType:  &ErrorType{},
		records:    make(map[string]*RecordType),
	}
}

func (in *Interner) Int() *PrimitiveType    { return in.intType }
func (in *Interner) Bool() *PrimitiveType   { return in.boolType }
func (in *Interner) String() *PrimitiveType { return in.stringType }
func (in *Interner) Void() *PrimitiveType   { return in.voidType }
func (in *Interner) Error() *ErrorType      { return in.errorType }

// Prim returns the primitive singleton of the given kind.
func (in *Interner) Prim(kind PrimKind) *PrimitiveType {
	switch kind {
	case PrimInt:
		return in.intType
	case PrimBool:
		return in.boolType
	case PrimString:
		return in.stringType
	default:
		return in.voidType
	}
}

// Record interns a record type by name.  The first declaration of a name wins:
// later calls return the original instance.  The returned flag is false when
// the name was already interned with a different field layout.
func (in *Interner) Record(name string, fields []*RecordField) (*RecordType, bool) {
	if rt, ok := in.records[name]; ok {
		return rt, rt.sameLayout(fields)
	}

	rt := newRecordType(name, fields)
	in.records[name] = rt
	return rt, true
}

// LookupRecord returns the interned record with the given name.
func (in *Interner) LookupRecord(name string) (*RecordType, bool) {
	rt, ok := in.records[name]
	return rt, ok
}
