// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package types contains the type representation for the query language: monomorphic and
// polymorphic types, extensible records with label polymorphism, kinds, substitutions and
// unification.
package types

// Tvar is the unique identifier of an unresolved type.
type Tvar uint64

// MonoType is the base interface for all monomorphic types.
type MonoType interface {
	TypeName() string
	monoType()
}

var (
	_ MonoType = Error{}
	_ MonoType = (*Var)(nil)
	_ MonoType = (*BoundVar)(nil)
	_ MonoType = (*Builtin)(nil)
	_ MonoType = (*Label)(nil)
	_ MonoType = (*Collection)(nil)
	_ MonoType = (*Dict)(nil)
	_ MonoType = RecordEmpty{}
	_ MonoType = (*RecordExtend)(nil)
	_ MonoType = (*Function)(nil)
)

func (Error) TypeName() string         { return "Error" }
func (*Var) TypeName() string          { return "Var" }
func (*BoundVar) TypeName() string     { return "BoundVar" }
func (*Builtin) TypeName() string      { return "Builtin" }
func (*Label) TypeName() string        { return "Label" }
func (*Collection) TypeName() string   { return "Collection" }
func (*Dict) TypeName() string         { return "Dict" }
func (RecordEmpty) TypeName() string   { return "RecordEmpty" }
func (*RecordExtend) TypeName() string { return "RecordExtend" }
func (*Function) TypeName() string     { return "Function" }

func (Error) monoType()         {}
func (*Var) monoType()          {}
func (*BoundVar) monoType()     {}
func (*Builtin) monoType()      {}
func (*Label) monoType()        {}
func (*Collection) monoType()   {}
func (*Dict) monoType()         {}
func (RecordEmpty) monoType()   {}
func (*RecordExtend) monoType() {}
func (*Function) monoType()     {}

// Error is the type of an expression which previously failed to type-check.
// It unifies with every type, so a single failure is reported once.
type Error struct{}

// Unification type-variable
type Var struct {
	Tvar Tvar
}

// BoundVar is a type-variable quantified by an enclosing PolyType. The Tvar refers to
// an entry in the quantifier list of the PolyType. Substitutions never affect bound variables.
type BoundVar struct {
	Tvar Tvar
}

// Builtin is a primitive type: `int`, `string`, `time`, etc.
type Builtin struct {
	Name string
}

// Label is a phantom type for a string literal which names a record field.
type Label struct {
	Name string
}

// CollectionKind distinguishes the element-wise containers.
type CollectionKind int

const (
	Array CollectionKind = iota
	Stream
	Vector
)

func (k CollectionKind) String() string {
	switch k {
	case Array:
		return "array"
	case Stream:
		return "stream"
	case Vector:
		return "vector"
	}
	return "collection"
}

// Collection type: `[int]`, `stream[int]`, `vector[int]`
type Collection struct {
	Kind CollectionKind
	Elem MonoType
}

// Dictionary type: `[string:int]`
type Dict struct {
	Key MonoType
	Val MonoType
}

// Builtin type names
const (
	IntName      = "int"
	UintName     = "uint"
	FloatName    = "float"
	StringName   = "string"
	BoolName     = "bool"
	DurationName = "duration"
	TimeName     = "time"
	RegexpName   = "regexp"
	BytesName    = "bytes"
)

// Builtin types
var (
	Int      = &Builtin{IntName}
	Uint     = &Builtin{UintName}
	Float    = &Builtin{FloatName}
	String   = &Builtin{StringName}
	Bool     = &Builtin{BoolName}
	Duration = &Builtin{DurationName}
	Time     = &Builtin{TimeName}
	Regexp   = &Builtin{RegexpName}
	Bytes    = &Builtin{BytesName}
)

var builtins = map[string]*Builtin{
	IntName:      Int,
	UintName:     Uint,
	FloatName:    Float,
	StringName:   String,
	BoolName:     Bool,
	DurationName: Duration,
	TimeName:     Time,
	RegexpName:   Regexp,
	BytesName:    Bytes,
}

// LookupBuiltin returns the builtin type with the given name.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

// Create a new unification type-variable.
func NewVar(tv Tvar) *Var { return &Var{Tvar: tv} }

// Create a new bound type-variable.
func NewBoundVar(tv Tvar) *BoundVar { return &BoundVar{Tvar: tv} }

// Create a new label type.
func NewLabel(name string) *Label { return &Label{Name: name} }

// Array type: `[elem]`
func NewArray(elem MonoType) *Collection { return &Collection{Kind: Array, Elem: elem} }

// Stream type: `stream[elem]`
func NewStream(elem MonoType) *Collection { return &Collection{Kind: Stream, Elem: elem} }

// Vector type: `vector[elem]`
func NewVector(elem MonoType) *Collection { return &Collection{Kind: Vector, Elem: elem} }

// Dictionary type: `[key:val]`
func NewDict(key, val MonoType) *Dict { return &Dict{Key: key, Val: val} }

// IsError reports whether t is the absorbing error type.
func IsError(t MonoType) bool {
	_, ok := t.(Error)
	return ok
}

// IsRecord reports whether t is a record type.
func IsRecord(t MonoType) bool {
	switch t.(type) {
	case RecordEmpty, *RecordExtend:
		return true
	}
	return false
}

// Equal reports whether two types are structurally identical. Records are compared
// after grouping their fields by label, so construction order does not matter.
func Equal(a, b MonoType) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case Error:
		_, ok := b.(Error)
		return ok
	case *Var:
		bv, ok := b.(*Var)
		return ok && a.Tvar == bv.Tvar
	case *BoundVar:
		bv, ok := b.(*BoundVar)
		return ok && a.Tvar == bv.Tvar
	case *Builtin:
		bb, ok := b.(*Builtin)
		return ok && a.Name == bb.Name
	case *Label:
		bl, ok := b.(*Label)
		return ok && a.Name == bl.Name
	case *Collection:
		bc, ok := b.(*Collection)
		return ok && a.Kind == bc.Kind && Equal(a.Elem, bc.Elem)
	case *Dict:
		bd, ok := b.(*Dict)
		return ok && Equal(a.Key, bd.Key) && Equal(a.Val, bd.Val)
	case RecordEmpty, *RecordExtend:
		if !IsRecord(b) {
			return false
		}
		return recordsEqual(a, b)
	case *Function:
		bf, ok := b.(*Function)
		return ok && a.Equal(bf)
	}
	return false
}

func recordsEqual(a, b MonoType) bool {
	la, ta := CollectRecord(a)
	lb, tb := CollectRecord(b)
	if la.Len() != lb.Len() || !Equal(ta, tb) {
		return false
	}
	equal := true
	la.Range(func(label string, ts TypeList) bool {
		us, ok := lb.Get(label)
		if !ok || us.Len() != ts.Len() {
			equal = false
			return false
		}
		ts.Range(func(i int, t MonoType) bool {
			equal = Equal(t, us.Get(i))
			return equal
		})
		return equal
	})
	return equal
}
