package types

import (
	"strings"

	lltypes "github.com/llir/llvm/ir/types"
)

// Type represents a C-Shanty data type.  Primitive and record types are
// interned: two types are equal if and only if they are the same pointer.
type Type interface {
	// Returns the size of this type in bytes.
	Size() int

	// Returns the representative string for this type.
	Repr() string

	// Returns the LLVM type used to store a value of this type.
	LLType() lltypes.Type
}

// SlotSize is the size in bytes of every scalar storage slot.
const SlotSize = 8

// -----------------------------------------------------------------------------

// PrimKind enumerates the primitive types.
type PrimKind int

// Enumeration of primitive kinds.
const (
	PrimInt PrimKind = iota
	PrimBool
	PrimString
	PrimVoid
)

// PrimitiveType represents a primitive type.  There is exactly one instance
// per kind for each Interner.
type PrimitiveType struct {
	Kind PrimKind
}

func (pt *PrimitiveType) Size() int {
	if pt.Kind == PrimVoid {
		return 0
	}

	return SlotSize
}

func (pt *PrimitiveType) Repr() string {
	switch pt.Kind {
	case PrimInt:
		return "int"
	case PrimBool:
		return "bool"
	case PrimString:
		return "string"
	default:
		return "void"
	}
}

func (pt *PrimitiveType) LLType() lltypes.Type {
	switch pt.Kind {
	case PrimString:
		return lltypes.I8Ptr
	case PrimVoid:
		return lltypes.Void
	default:
		return lltypes.I64
	}
}

// -----------------------------------------------------------------------------

// RecordField is a single named field of a record.
type RecordField struct {
	Name   string
	Type   Type
	Offset int
}

// RecordType represents a nominal record type.
type RecordType struct {
	Name string

	// The fields in declaration order.
	fields []*RecordField

	// Maps field names to their index in fields.
	fieldIndex map[string]int

	size int
}

func newRecordType(name string, fields []*RecordField) *RecordType {
	rt := &RecordType{
		Name:       name,
		fieldIndex: make(map[string]int),
	}

	for _, field := range fields {
		if _, ok := rt.fieldIndex[field.Name]; ok {
			continue
		}

		rt.fieldIndex[field.Name] = len(rt.fields)
		rt.fields = append(rt.fields, &RecordField{Name: field.Name, Type: field.Type, Offset: rt.size})
		rt.size += field.Type.Size()
	}

	return rt
}

func (rt *RecordType) Size() int {
	return rt.size
}

func (rt *RecordType) Repr() string {
	return rt.Name
}

// LLType returns the word array holding the record.  Single-slot records are
// stored as a plain word.
func (rt *RecordType) LLType() lltypes.Type {
	if rt.size == SlotSize {
		return lltypes.I64
	}

	return lltypes.NewArray(uint64(rt.size/SlotSize), lltypes.I64)
}

// Fields returns the record's fields in declaration order.
func (rt *RecordType) Fields() []*RecordField {
	return rt.fields
}

// Field returns the field with the given name if it exists.
func (rt *RecordType) Field(name string) (*RecordField, bool) {
	if ndx, ok := rt.fieldIndex[name]; ok {
		return rt.fields[ndx], true
	}

	return nil, false
}

// Offset returns the byte offset of the named field within the record.
func (rt *RecordType) Offset(name string) (int, bool) {
	if field, ok := rt.Field(name); ok {
		return field.Offset, true
	}

	return 0, false
}

// sameLayout returns whether the record has exactly the given fields.
func (rt *RecordType) sameLayout(fields []*RecordField) bool {
	if len(fields) != len(rt.fields) {
		return false
	}

	for i, field := range fields {
		if rt.fields[i].Name != field.Name || rt.fields[i].Type != field.Type {
			return false
		}
	}

	return true
}

// -----------------------------------------------------------------------------

// FuncType represents a function type.  Function types are not interned.
type FuncType struct {
	Params []Type
	Return Type
}

// NewFunction creates a new function type.
func NewFunction(params []Type, ret Type) *FuncType {
	return &FuncType{Params: params, Return: ret}
}

func (ft *FuncType) Size() int {
	return 0
}

func (ft *FuncType) Repr() string {
	paramReprs := make([]string, len(ft.Params))
	for i, param := range ft.Params {
		paramReprs[i] = param.Repr()
	}

	return strings.Join(paramReprs, ",") + "->" + ft.Return.Repr()
}

// LLType returns the LLVM signature of the function.  Record parameters are
// passed by address and records are returned by value.
func (ft *FuncType) LLType() lltypes.Type {
	params := make([]lltypes.Type, len(ft.Params))
	for i, param := range ft.Params {
		if _, ok := param.(*RecordType); ok {
			params[i] = lltypes.NewPointer(lltypes.I64)
		} else {
			params[i] = param.LLType()
		}
	}

	return lltypes.NewFunc(ft.Return.LLType(), params...)
}

// -----------------------------------------------------------------------------

// ErrorType is the sentinel type of an expression whose error has already
// been reported.
type ErrorType struct{}

func (et *ErrorType) Size() int {
	return 0
}

func (et *ErrorType) Repr() string {
	return "ERROR"
}

func (et *ErrorType) LLType() lltypes.Type {
	return lltypes.Void
}

// -----------------------------------------------------------------------------

// IsPrim returns whether t is the primitive type of the given kind.
func IsPrim(t Type, kind PrimKind) bool {
	if pt, ok := t.(*PrimitiveType); ok {
		return pt.Kind == kind
	}

	return false
}

// IsError returns whether t is the error sentinel.
func IsError(t Type) bool {
	_, ok := t.(*ErrorType)
	return ok
}

// AsRecord returns t as a record type if it is one.
func AsRecord(t Type) (*RecordType, bool) {
	rt, ok := t.(*RecordType)
	return rt, ok
}

// AsFunc returns t as a function type if it is one.
func AsFunc(t Type) (*FuncType, bool) {
	ft, ok := t.(*FuncType)
	return ft, ok
}

// IsValidVarType returns whether a variable may be declared with type t:
// primitives other than void and records are valid.
func IsValidVarType(t Type) bool {
	switch v := t.(type) {
	case *PrimitiveType:
		return v.Kind != PrimVoid
	case *RecordType:
		return true
	}

	return false
}
