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
	"testing"
)

func TestTypeString(t *testing.T) {
	A, B, C := &BoundVar{Tvar: 10}, &BoundVar{Tvar: 11}, &BoundVar{Tvar: 12}
	cases := []struct {
		t    MonoType
		want string
	}{
		{Int, "int"},
		{Error{}, "<error>"},
		{v(3), "t3"},
		{NewLabel("a"), `"a"`},
		{NewArray(Int), "[int]"},
		{NewStream(Int), "stream[int]"},
		{NewVector(Float), "vector[float]"},
		{NewDict(String, Int), "[string:int]"},
		{RecordEmpty{}, "{}"},
		{NewRecord(nil, Field("b", String), Field("a", Int)), "{a: int, b: string}"},
		{NewRecord(A, Field("a", Int)), "{A with a: int}"},
		{NewRecord(nil, Field("my field", Int)), `{"my field": int}`},
		{NewRecord(nil, Field("a", Int), Field("a", String)), "{a: string, a: int}"},
		{NewRecord(v(1), Property{Label: VarLabel(v(2)), Value: Int}), "{t1 with t2: int}"},
		{fn(nil, Int), "() => int"},
		{fn(map[string]MonoType{"b": A, "a": B}, A).WithOpt("c", Int, nil).WithPipe("tables", NewArray(C)),
			"(<-tables: [A], a: B, b: C, ?c: int) => C"},
		{fn(nil, Int).WithPipe(AnonymousPipe, NewArray(Int)), "(<-: [int]) => int"},
	}
	for _, c := range cases {
		if got := TypeString(c.t); got != c.want {
			t.Fatalf("type: %s, expected %s", got, c.want)
		}
	}
}

func TestPolyString(t *testing.T) {
	A, B, C, D := &BoundVar{Tvar: 1}, &BoundVar{Tvar: 2}, &BoundVar{Tvar: 3}, &BoundVar{Tvar: 4}
	fill := fn(map[string]MonoType{"column": B, "value": D},
		NewArray(NewRecord(A, Property{Label: VarLabel(B), Value: D}))).
		WithPipe("tables", NewArray(NewRecord(A, Property{Label: VarLabel(B), Value: C})))
	pt := NewPolyType([]Tvar{1, 2, 3, 4}, map[Tvar][]Kind{1: {Record}, 2: {LabelKind}}, fill)
	want := "(<-tables: [{A with B: C}], column: B, value: D) => [{A with B: D}] where A: Record, B: Label"
	if got := PolyString(pt); got != want {
		t.Fatalf("type: %s", got)
	}

	k := TvarKinds{}
	k.Add(1, Comparable)
	k.Add(1, Addable)
	k.Add(1, Addable)
	pt = NewPolyType([]Tvar{1}, map[Tvar][]Kind{1: k.Get(1)}, fn(map[string]MonoType{"a": A}, A))
	if got := PolyString(pt); got != "(a: A) => A where A: Addable + Comparable" {
		t.Fatalf("type: %s", got)
	}
}
