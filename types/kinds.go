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
	"golang.org/x/exp/slices"
)

// Kind is a constraint family which restricts the types a type-variable may be bound to.
type Kind int

const (
	Addable Kind = iota
	Subtractable
	Divisible
	Numeric
	Comparable
	Equatable
	LabelKind
	Nullable
	Record
	Negatable
	Timeable
	Stringable
	Basic
)

var kindNames = [...]string{
	Addable:      "Addable",
	Subtractable: "Subtractable",
	Divisible:    "Divisible",
	Numeric:      "Numeric",
	Comparable:   "Comparable",
	Equatable:    "Equatable",
	LabelKind:    "Label",
	Nullable:     "Nullable",
	Record:       "Record",
	Negatable:    "Negatable",
	Timeable:     "Timeable",
	Stringable:   "Stringable",
	Basic:        "Basic",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// LookupKind returns the kind with the given name.
func LookupKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Builtin type names accepted by each kind, excluding the structural kinds (Equatable,
// Label and Record).
var kindBuiltins = map[Kind][]string{
	Addable:      {IntName, UintName, FloatName, StringName, DurationName},
	Subtractable: {IntName, UintName, FloatName, DurationName},
	Divisible:    {IntName, UintName, FloatName, DurationName},
	Numeric:      {IntName, UintName, FloatName},
	Comparable:   {IntName, UintName, FloatName, StringName, DurationName, TimeName},
	Nullable:     {IntName, UintName, FloatName, StringName, BoolName, TimeName, DurationName},
	Basic:        {IntName, UintName, FloatName, StringName, BoolName, TimeName, DurationName},
	Negatable:    {IntName, UintName, FloatName, DurationName},
	Timeable:     {TimeName, DurationName},
	Stringable:   {BoolName, IntName, UintName, FloatName, StringName, DurationName, TimeName},
}

// Constrain checks that t belongs to kind. Constraining a type-variable records the kind in
// kinds, to be checked once the variable is bound.
func Constrain(t MonoType, kind Kind, kinds TvarKinds) error {
	switch t := t.(type) {
	case Error:
		return nil
	case *Var:
		kinds.Add(t.Tvar, kind)
		return nil
	case *Builtin:
		if kind == Equatable {
			if t.Name == RegexpName {
				break
			}
			return nil
		}
		if slices.Contains(kindBuiltins[kind], t.Name) {
			return nil
		}
	case *Label:
		switch kind {
		case LabelKind, Equatable:
			return nil
		case Addable, Comparable, Nullable, Basic, Stringable:
			// labels are string literals
			return nil
		}
	case *Collection:
		if kind == Equatable {
			return Constrain(t.Elem, kind, kinds)
		}
	case *Dict:
		if kind == Equatable {
			if err := Constrain(t.Key, kind, kinds); err != nil {
				return err
			}
			return Constrain(t.Val, kind, kinds)
		}
	case RecordEmpty, *RecordExtend:
		switch kind {
		case Record:
			return nil
		case Equatable:
			labels, tail := CollectRecord(t)
			var err error
			labels.Range(func(_ string, ts TypeList) bool {
				ts.Range(func(_ int, v MonoType) bool {
					err = Constrain(v, kind, kinds)
					return err == nil
				})
				return err == nil
			})
			if err != nil {
				return err
			}
			if tail != nil {
				return Constrain(tail, kind, kinds)
			}
			return nil
		}
	}
	return &KindError{Kind: kind, Type: t}
}

// TvarKinds holds the deferred kind obligations of unbound type-variables.
type TvarKinds map[Tvar][]Kind

// Add records kind against tv, ignoring duplicates. Kinds are kept in sorted order.
func (k TvarKinds) Add(tv Tvar, kind Kind) {
	ks := k[tv]
	i, found := slices.BinarySearch(ks, kind)
	if found {
		return
	}
	ks = slices.Insert(slices.Clone(ks), i, kind)
	k[tv] = ks
}

// Get returns the kinds recorded against tv.
func (k TvarKinds) Get(tv Tvar) []Kind { return k[tv] }

// Clone returns a copy of the table.
func (k TvarKinds) Clone() TvarKinds {
	c := make(TvarKinds, len(k))
	for tv, ks := range k {
		c[tv] = slices.Clone(ks)
	}
	return c
}
