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

package types

import (
	"strconv"
	"strings"
)

// RecordEmpty is the empty (closed) record: `{}`
type RecordEmpty struct{}

// RecordExtend extends the record Tail with a single field. Tail is RecordEmpty, another
// RecordExtend, a Var or BoundVar (an open record), or Error.
//
// Labels may be repeated within a record. Each extension shadows earlier (inner) fields with
// the same label: reading `r.x` yields the outermost field labelled `x`.
type RecordExtend struct {
	Head Property
	Tail MonoType
}

// Property is a single field of a record.
type Property struct {
	Label RecordLabel
	Value MonoType
}

// RecordLabel is either a concrete field name or a label type-variable (*Var or *BoundVar),
// which is resolved to a concrete name once the variable is bound to a Label type.
type RecordLabel struct {
	Name string
	Var  MonoType
}

// Create a concrete record label.
func ConcreteLabel(name string) RecordLabel { return RecordLabel{Name: name} }

// Create a polymorphic record label from a type-variable.
func VarLabel(v MonoType) RecordLabel { return RecordLabel{Var: v} }

// IsVar reports whether the label is polymorphic.
func (l RecordLabel) IsVar() bool { return l.Var != nil }

// Key returns the map key for the label. Polymorphic labels are encoded with a leading NUL byte,
// which cannot occur within a concrete field name.
func (l RecordLabel) Key() string {
	switch v := l.Var.(type) {
	case *Var:
		return "\x00v" + strconv.FormatUint(uint64(v.Tvar), 10)
	case *BoundVar:
		return "\x00b" + strconv.FormatUint(uint64(v.Tvar), 10)
	}
	return l.Name
}

// LabelFromKey decodes a label produced by RecordLabel.Key.
func LabelFromKey(key string) RecordLabel {
	if len(key) < 3 || key[0] != 0 {
		return RecordLabel{Name: key}
	}
	id, err := strconv.ParseUint(key[2:], 10, 64)
	if err != nil {
		return RecordLabel{Name: key}
	}
	if key[1] == 'b' {
		return RecordLabel{Var: &BoundVar{Tvar(id)}}
	}
	return RecordLabel{Var: &Var{Tvar(id)}}
}

// IsVarKey reports whether a TypeMap key names a polymorphic label.
func IsVarKey(key string) bool { return strings.HasPrefix(key, "\x00") }

// Create a record type with the given fields in order, terminated by tail. Later fields extend
// (and shadow) earlier fields. A nil tail produces a closed record.
func NewRecord(tail MonoType, props ...Property) MonoType {
	var t MonoType = RecordEmpty{}
	if tail != nil {
		t = tail
	}
	for _, p := range props {
		t = &RecordExtend{Head: p, Tail: t}
	}
	return t
}

// Create a record field with a concrete label.
func Field(label string, t MonoType) Property {
	return Property{Label: ConcreteLabel(label), Value: t}
}

// CollectRecord walks a chain of record extensions. The result maps each label to the list of
// field types for the label, ordered from the innermost extension to the outermost. The returned
// tail is nil for a closed record.
func CollectRecord(t MonoType) (TypeMap, MonoType) {
	var props []Property
	var tail MonoType
	for done := false; !done; {
		switch r := t.(type) {
		case *RecordExtend:
			props = append(props, r.Head)
			t = r.Tail
		case RecordEmpty:
			done = true
		default:
			tail = r
			done = true
		}
	}
	if len(props) == 0 {
		return EmptyTypeMap, tail
	}
	b := NewTypeMapBuilder()
	for i := len(props) - 1; i >= 0; i-- {
		p := props[i]
		key := p.Label.Key()
		ts, ok := b.Get(key)
		if !ok {
			ts = EmptyTypeList
		}
		b.Set(key, ts.Append(p.Value))
	}
	return b.Build(), tail
}

// ExtendRecord rebuilds a record from a map produced by CollectRecord. A nil tail produces a
// closed record. Labels are extended in sorted order, innermost fields first.
func ExtendRecord(labels TypeMap, tail MonoType) MonoType {
	var t MonoType = RecordEmpty{}
	if tail != nil {
		t = tail
	}
	labels.Range(func(key string, ts TypeList) bool {
		label := LabelFromKey(key)
		ts.Range(func(_ int, v MonoType) bool {
			t = &RecordExtend{Head: Property{Label: label, Value: v}, Tail: t}
			return true
		})
		return true
	})
	return t
}

// LookupField returns the outermost field with the given label.
func LookupField(t MonoType, label string) (MonoType, bool) {
	for {
		r, ok := t.(*RecordExtend)
		if !ok {
			return nil, false
		}
		if !r.Head.Label.IsVar() && r.Head.Label.Name == label {
			return r.Head.Value, true
		}
		t = r.Tail
	}
}
