// Package types implements the cp language's symbol table: scopes,
// declarations, and the BasicType sum type (§3, §4.5).
package types

import "fmt"

// Kind tags a BasicType's variant. Expressed as a struct-with-Kind rather
// than an interface hierarchy (§9: tagged variants, not inheritance).
type Kind int

const (
	KInt Kind = iota
	KDouble
	KArray
	KFunction
)

func (k Kind) String() string {
	switch k {
	case KInt:
		return "int"
	case KDouble:
		return "double"
	case KArray:
		return "array"
	case KFunction:
		return "function"
	default:
		return "unknown"
	}
}

// FuncSig describes a declared function's signature: its return type, its
// ordered parameter types, and the scope index of its body.
type FuncSig struct {
	Return    *BasicType
	Params    []*BasicType
	BodyScope int
}

// BasicType is Int | Double | Array(inner, size) | Function{...} (§3).
type BasicType struct {
	Kind Kind
	Elem *BasicType // KArray only
	Size int32      // KArray only: element count
	Func *FuncSig   // KFunction only
}

func Int() *BasicType    { return &BasicType{Kind: KInt} }
func Double() *BasicType { return &BasicType{Kind: KDouble} }
func Array(elem *BasicType, size int32) *BasicType {
	return &BasicType{Kind: KArray, Elem: elem, Size: size}
}
func Function(sig *FuncSig) *BasicType { return &BasicType{Kind: KFunction, Func: sig} }

// Equal compares two BasicTypes structurally. Array element type and size
// both participate; Function types are compared by identity of signature
// shape only (return + param types), matching §4.5's AddFuncCheck/CheckParamType
// contracts, which only ever compare scalar operand types against each other.
func (t *BasicType) Equal(other *BasicType) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KArray:
		return t.Size == other.Size && t.Elem.Equal(other.Elem)
	case KFunction:
		if !t.Func.Return.Equal(other.Func.Return) || len(t.Func.Params) != len(other.Func.Params) {
			return false
		}
		for i := range t.Func.Params {
			if !t.Func.Params[i].Equal(other.Func.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// UnitSize returns the storage size in units: 4 for scalars, 4*Size for
// arrays (§3).
func (t *BasicType) UnitSize() int32 {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case KArray:
		return 4 * t.Size
	case KFunction:
		return 0
	default:
		return 4
	}
}

// ElementType returns the element type of an array, or t itself otherwise,
// unwrapping Array(inner, size) back to inner.
func (t *BasicType) ElementType() *BasicType {
	if t.Kind == KArray {
		return t.Elem
	}
	return t
}

func (t *BasicType) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KArray:
		return fmt.Sprintf("%s[%d]", t.Elem, t.Size)
	case KFunction:
		return fmt.Sprintf("function(...) -> %s", t.Func.Return)
	default:
		return t.Kind.String()
	}
}
