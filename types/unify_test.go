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
	"errors"
	"testing"
)

func fn(req map[string]MonoType, retn MonoType) *Function { return NewFunction(req, retn) }

func reasonOf(err error) (Reason, bool) {
	var te *TypeError
	if errors.As(err, &te) {
		return te.Reason, true
	}
	return 0, false
}

func TestUnifyBuiltins(t *testing.T) {
	f := NewFresher(100)
	if s, err := Unify(Int, Int, TvarKinds{}, f); err != nil || len(s) != 0 {
		t.Fatalf("int/int: %v %v", s, err)
	}
	_, err := Unify(Int, String, TvarKinds{}, f)
	if r, ok := reasonOf(err); !ok || r != Mismatch {
		t.Fatalf("int/string: %v", err)
	}
	if err.Error() != "expected int but found string" {
		t.Fatalf("message: %s", err)
	}
	if _, err := Unify(String, NewLabel("a"), TvarKinds{}, f); err != nil {
		t.Fatalf("string/label: %v", err)
	}
	if _, err := Unify(NewLabel("a"), NewLabel("b"), TvarKinds{}, f); err == nil {
		t.Fatalf("expected label mismatch")
	}
}

func TestUnifyErrorAbsorbs(t *testing.T) {
	f := NewFresher(100)
	for _, other := range []MonoType{Int, v(0), NewArray(String), fn(nil, Int), RecordEmpty{}} {
		s, err := Unify(Error{}, other, TvarKinds{}, f)
		if err != nil || len(s) != 0 {
			t.Fatalf("%s: %v %v", TypeString(other), s, err)
		}
		if _, err = Unify(other, Error{}, TvarKinds{}, f); err != nil {
			t.Fatalf("%s: %v", TypeString(other), err)
		}
	}
}

func TestUnifyVars(t *testing.T) {
	f := NewFresher(100)
	kinds := TvarKinds{}
	kinds.Add(0, Addable)
	s, err := Unify(v(0), v(1), kinds, f)
	if err != nil {
		t.Fatal(err)
	}
	if TypeString(s.Apply(0)) != "t1" {
		t.Fatalf("t0: %s", TypeString(s.Apply(0)))
	}
	if ks := kinds.Get(1); len(ks) != 1 || ks[0] != Addable {
		t.Fatalf("kinds were not moved: %v", kinds)
	}
	if _, ok := kinds[0]; ok {
		t.Fatalf("kinds were not moved: %v", kinds)
	}

	// binding a constrained variable checks its kinds:
	if _, err := Unify(v(1), Bool, kinds, f); err == nil {
		t.Fatalf("expected kind error")
	} else if _, ok := err.(*KindError); !ok {
		t.Fatalf("error: %v", err)
	}
	// a failed unification leaves the kinds untouched:
	if ks := kinds.Get(1); len(ks) != 1 {
		t.Fatalf("kinds were modified: %v", kinds)
	}
	if _, err := Unify(v(1), String, kinds, f); err != nil {
		t.Fatal(err)
	}
	if _, ok := kinds[1]; ok {
		t.Fatalf("kinds were not discharged: %v", kinds)
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	_, err := Unify(v(0), NewArray(v(0)), TvarKinds{}, NewFresher(100))
	if r, ok := reasonOf(err); !ok || r != OccursCheck {
		t.Fatalf("error: %v", err)
	}
}

func TestUnifyCollections(t *testing.T) {
	f := NewFresher(100)
	s, err := Unify(NewArray(v(0)), NewArray(Int), TvarKinds{}, f)
	if err != nil || TypeString(s.Apply(0)) != "int" {
		t.Fatalf("array: %v %v", s, err)
	}
	_, err = Unify(NewArray(Int), NewStream(Int), TvarKinds{}, f)
	if r, ok := reasonOf(err); !ok || r != CollectionKindMismatch {
		t.Fatalf("array/stream: %v", err)
	}
	s, err = Unify(NewDict(v(0), v(1)), NewDict(String, NewArray(v(0))), TvarKinds{}, f)
	if err != nil {
		t.Fatal(err)
	}
	if got := TypeString(s.ApplyType(NewDict(v(0), v(1)))); got != "[string:[string]]" {
		t.Fatalf("dict: %s", got)
	}
}

func TestUnifyRecordTails(t *testing.T) {
	f := NewFresher(100)
	open := func(tail MonoType) MonoType { return NewRecord(tail, Field("a", Int), Field("b", Int)) }
	closed := NewRecord(nil, Field("a", Int), Field("b", Int))

	// identical open records
	s, err := Unify(open(v(5)), open(v(5)), TvarKinds{}, f)
	if err != nil || len(s) != 0 {
		t.Fatalf("open/open: %v %v", s, err)
	}
	// a rigid tail never unifies with a closed record, in either direction
	C := &BoundVar{Tvar: 5}
	for _, pair := range [][2]MonoType{{closed, open(C)}, {open(C), closed}} {
		_, err := Unify(pair[0], pair[1], TvarKinds{}, f)
		if r, ok := reasonOf(err); !ok || r != RecordTail {
			t.Fatalf("%s / %s: %v", TypeString(pair[0]), TypeString(pair[1]), err)
		}
	}
	// a free tail is closed by the other side; only a quantified tail keeps an open record
	// distinct from a closed one
	for _, pair := range [][2]MonoType{{closed, open(v(5))}, {open(v(5)), closed}} {
		s, err := Unify(pair[0], pair[1], TvarKinds{}, f)
		if err != nil {
			t.Fatalf("%s / %s: %v", TypeString(pair[0]), TypeString(pair[1]), err)
		}
		if TypeString(s.Apply(5)) != "{}" {
			t.Fatalf("tail: %s", TypeString(s.Apply(5)))
		}
	}
}

func TestUnifyRecordLabels(t *testing.T) {
	f := NewFresher(100)
	// fields are compared regardless of construction order
	a := NewRecord(nil, Field("x", Int), Field("y", String))
	b := NewRecord(nil, Field("y", String), Field("x", Int))
	if _, err := Unify(a, b, TvarKinds{}, f); err != nil {
		t.Fatal(err)
	}

	// missing and extra labels against closed records
	_, err := Unify(NewRecord(nil, Field("x", Int)), RecordEmpty{}, TvarKinds{}, f)
	if te, ok := err.(*TypeError); !ok || te.Reason != MissingLabel || te.Name != "x" {
		t.Fatalf("missing: %v", err)
	}
	_, err = Unify(RecordEmpty{}, NewRecord(nil, Field("x", Int)), TvarKinds{}, f)
	if te, ok := err.(*TypeError); !ok || te.Reason != ExtraLabel || te.Name != "x" {
		t.Fatalf("extra: %v", err)
	}

	// an open expected record accepts extra fields
	s, err := Unify(NewRecord(v(0), Field("x", v(1))), NewRecord(nil, Field("x", Int), Field("y", Bool)), TvarKinds{}, f)
	if err != nil {
		t.Fatal(err)
	}
	if got := TypeString(s.Apply(0)); got != "{y: bool}" {
		t.Fatalf("tail: %s", got)
	}

	// both sides open, each missing a label
	s, err = Unify(NewRecord(v(0), Field("x", Int)), NewRecord(v(1), Field("y", Int)), TvarKinds{}, f)
	if err != nil {
		t.Fatal(err)
	}
	left := s.ApplyType(NewRecord(v(0), Field("x", Int)))
	right := s.ApplyType(NewRecord(v(1), Field("y", Int)))
	if !Equal(left, right) {
		t.Fatalf("records differ: %s / %s", TypeString(left), TypeString(right))
	}
}

func TestUnifyRecordSymmetry(t *testing.T) {
	cases := []MonoType{
		RecordEmpty{},
		NewRecord(nil, Field("a", Int)),
		NewRecord(nil, Field("a", String)),
		NewRecord(nil, Field("a", Int), Field("b", Int)),
		NewRecord(&BoundVar{Tvar: 9}, Field("a", Int)),
		NewRecord(nil, Field("a", Int), Field("a", String)),
		Int,
		String,
	}
	for _, a := range cases {
		for _, b := range cases {
			_, e1 := Unify(a, b, TvarKinds{}, NewFresher(100))
			_, e2 := Unify(b, a, TvarKinds{}, NewFresher(100))
			if (e1 == nil) != (e2 == nil) {
				t.Fatalf("%s / %s: %v, %v", TypeString(a), TypeString(b), e1, e2)
			}
		}
	}
}

func TestUnifyScopedLabels(t *testing.T) {
	f := NewFresher(100)
	// {a: string, a: int} read as {r with a: int}: the outermost field is matched first
	exp := NewRecord(v(0), Field("a", v(1)))
	act := NewRecord(nil, Field("a", String), Field("a", Int))
	s, err := Unify(exp, act, TvarKinds{}, f)
	if err != nil {
		t.Fatal(err)
	}
	if TypeString(s.Apply(1)) != "int" || TypeString(s.Apply(0)) != "{a: string}" {
		t.Fatalf("t1: %s, t0: %s", TypeString(s.Apply(1)), TypeString(s.Apply(0)))
	}
	if got, _ := LookupField(act, "a"); got != MonoType(Int) {
		t.Fatalf("lookup: %s", TypeString(got))
	}
}

func TestUnifyLabelVariables(t *testing.T) {
	f := NewFresher(100)
	kinds := TvarKinds{}
	kinds.Add(1, LabelKind)
	// {A with B: C} against {a: int}, once B is bound to the label "a"
	exp := NewRecord(v(0), Property{Label: VarLabel(v(1)), Value: v(2)})
	s, err := Unify(v(1), NewLabel("a"), kinds, f)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := Unify(s.ApplyType(exp), NewRecord(nil, Field("a", Int)), kinds, f)
	if err != nil {
		t.Fatal(err)
	}
	s = s.Merge(s2)
	if TypeString(s.Apply(2)) != "int" || TypeString(s.Apply(0)) != "{}" {
		t.Fatalf("t2: %s, t0: %s", TypeString(s.Apply(2)), TypeString(s.Apply(0)))
	}

	kinds.Add(7, LabelKind)
	if _, err := Unify(v(7), Int, kinds, f); err == nil {
		t.Fatalf("expected kind error")
	}
}

func TestUnifyFunctions(t *testing.T) {
	f := NewFresher(100)
	a := fn(map[string]MonoType{"a": Int}, Int)
	ab := fn(map[string]MonoType{"a": Int}, Int).WithOpt("b", Int, nil)
	none := fn(nil, Int)

	// additional optional parameters are accepted in either direction
	if _, err := Unify(a, ab, TvarKinds{}, f); err != nil {
		t.Fatal(err)
	}
	if _, err := Unify(ab, a, TvarKinds{}, f); err != nil {
		t.Fatal(err)
	}
	// a required parameter may not be dropped or added
	_, err := Unify(a, none, TvarKinds{}, f)
	if te, ok := err.(*TypeError); !ok || te.Reason != MissingArgument || te.Name != "a" {
		t.Fatalf("missing: %v", err)
	}
	_, err = Unify(none, a, TvarKinds{}, f)
	if te, ok := err.(*TypeError); !ok || te.Reason != ExtraArgument || te.Name != "a" {
		t.Fatalf("extra: %v", err)
	}
	// optional parameter types and defaults must agree
	if _, err := Unify(ab, fn(map[string]MonoType{"a": Int}, Int).WithOpt("b", String, nil), TvarKinds{}, f); err == nil {
		t.Fatalf("expected optional mismatch")
	}
	s, err := Unify(
		fn(nil, Int).WithOpt("n", v(0), v(1)),
		fn(nil, Int).WithOpt("n", v(2), Int),
		TvarKinds{}, f)
	if err != nil {
		t.Fatal(err)
	}
	if TypeString(s.Apply(1)) != "int" {
		t.Fatalf("default: %s", TypeString(s.Apply(1)))
	}
	// optional parameters of exp may be passed as required arguments
	if _, err := Unify(ab, fn(map[string]MonoType{"a": Int, "b": Int}, Int), TvarKinds{}, f); err != nil {
		t.Fatal(err)
	}
}

func TestUnifyPipes(t *testing.T) {
	f := NewFresher(100)
	piped := fn(nil, Int).WithPipe("tables", NewArray(Int))
	anon := fn(nil, Int).WithPipe(AnonymousPipe, NewArray(v(0)))
	plain := fn(nil, Int)

	// pipes unify by type, regardless of name
	s, err := Unify(piped, anon, TvarKinds{}, f)
	if err != nil || TypeString(s.Apply(0)) != "int" {
		t.Fatalf("pipes: %v %v", s, err)
	}
	_, err = Unify(piped, plain, TvarKinds{}, f)
	if r, ok := reasonOf(err); !ok || r != MissingPipeArgument {
		t.Fatalf("missing pipe: %v", err)
	}
	_, err = Unify(plain, piped, TvarKinds{}, f)
	if r, ok := reasonOf(err); !ok || r != UnexpectedPipeArgument {
		t.Fatalf("unexpected pipe: %v", err)
	}
	// a named pipe may be passed as a required argument
	if _, err := Unify(piped, fn(map[string]MonoType{"tables": NewArray(Int)}, Int), TvarKinds{}, f); err != nil {
		t.Fatal(err)
	}
	if _, err := Unify(anon, fn(map[string]MonoType{"tables": NewArray(Int)}, Int), TvarKinds{}, f); err == nil {
		t.Fatalf("anonymous pipes may not be passed by name")
	}
}

func TestUnifyIdempotent(t *testing.T) {
	f := NewFresher(100)
	exp := fn(map[string]MonoType{"a": v(0), "b": v(1)}, NewRecord(v(2), Field("x", v(0))))
	act := fn(map[string]MonoType{"a": v(1), "b": NewArray(v(3))}, NewRecord(nil, Field("x", v(4)), Field("y", Int)))
	s, err := Unify(exp, act, TvarKinds{}, f)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []MonoType{exp, act} {
		once := s.ApplyType(p)
		if !Equal(once, s.ApplyType(once)) {
			t.Fatalf("not idempotent: %s", TypeString(once))
		}
	}
	if !Equal(s.ApplyType(exp), s.ApplyType(act)) {
		t.Fatalf("types differ: %s / %s", TypeString(s.ApplyType(exp)), TypeString(s.ApplyType(act)))
	}
}

func TestGeneralizeInstantiate(t *testing.T) {
	f := NewFresher(100)
	kinds := TvarKinds{}
	kinds.Add(0, Addable)
	mono := fn(map[string]MonoType{"a": v(0), "b": NewRecord(v(1), Field("x", v(0)))}, v(0))
	pt := Generalize(nil, kinds, mono)
	if got := PolyString(pt); got != "(a: A, b: {B with x: A}) => A where A: Addable" {
		t.Fatalf("type: %s", got)
	}
	inst, obligations := Instantiate(pt, f)
	if len(obligations) != 1 || obligations[0].Kind != Addable {
		t.Fatalf("obligations: %v", obligations)
	}
	if len(FreeVars(inst)) != 2 || Occurs(0, inst) {
		t.Fatalf("instance: %s", TypeString(inst))
	}
	// the instance unifies with the original type under a fresh substitution
	if _, err := Unify(mono, inst, kinds.Clone(), f); err != nil {
		t.Fatal(err)
	}
}

func TestGeneralizeExcludesEnvironment(t *testing.T) {
	kinds := TvarKinds{}
	mono := fn(map[string]MonoType{"a": v(0)}, v(1))
	env := FreeVarSet(v(1))
	pt := Generalize(env, kinds, mono)
	if len(pt.Vars) != 1 || pt.Vars[0] != 0 {
		t.Fatalf("vars: %v", pt.Vars)
	}
	if got := PolyString(pt); got != "(a: A) => t1" {
		t.Fatalf("type: %s", got)
	}
}

func TestPolyTypeEqual(t *testing.T) {
	a := NewPolyType([]Tvar{4, 7}, map[Tvar][]Kind{7: {Comparable}}, fn(map[string]MonoType{"x": &BoundVar{4}}, &BoundVar{7}))
	b := NewPolyType([]Tvar{1, 2}, map[Tvar][]Kind{2: {Comparable}}, fn(map[string]MonoType{"x": &BoundVar{1}}, &BoundVar{2}))
	if !a.Equal(b) {
		t.Fatalf("%s != %s", a, b)
	}
	c := NewPolyType([]Tvar{1, 2}, nil, fn(map[string]MonoType{"x": &BoundVar{1}}, &BoundVar{2}))
	if a.Equal(c) {
		t.Fatalf("%s == %s", a, c)
	}
}
