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

package vectorize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/flowtype"
	. "github.com/wdamron/flowtype/construct"
	"github.com/wdamron/flowtype/semantic"
	"github.com/wdamron/flowtype/types"
)

func infer(t *testing.T, stmts ...semantic.Statement) *semantic.Package {
	pkg := Package("main", File("main.flux", nil, stmts...))
	_, err := flowtype.NewContext(flowtype.Options{}).InferPackage(pkg, nil, nil)
	require.NoError(t, err)
	return pkg
}

// fields returns the concrete fields of a record, ignoring its tail.
func fields(t types.MonoType) map[string]string {
	labels, _ := types.CollectRecord(t)
	m := make(map[string]string)
	labels.Range(func(key string, ts types.TypeList) bool {
		m[key] = types.TypeString(ts.Last())
		return true
	})
	return m
}

func TestVectorize(t *testing.T) {
	f := Func1("r", Object(
		Prop("c", Binary(semantic.MultiplicationOperator, Member(Ident("r"), "a"), Float(2))),
		Prop("ok", And(Member(Ident("r"), "b"), Unary(semantic.NotOperator, Bool(false)))),
	))
	pkg := infer(t, Assign("f", f))
	warnings := Package(pkg, Options{})
	require.Empty(t, warnings)
	require.NotNil(t, f.Vectorized)

	vt, ok := f.Vectorized.Type().(*types.Function)
	require.True(t, ok)
	assert.Equal(t, "{c: vector[float], ok: vector[bool]}", types.TypeString(vt.Retn))
	assert.Equal(t, map[string]string{"a": "vector[float]", "b": "vector[bool]"}, fields(vt.Req["r"]))

	// the original function keeps its row types
	ft := f.Type().(*types.Function)
	assert.Equal(t, "{c: float, ok: bool}", types.TypeString(ft.Retn))

	obj := f.Vectorized.Block.ReturnStatement().Argument.(*semantic.ObjectExpression)
	mul := obj.Properties[0].Value.(*semantic.BinaryExpression)
	assert.Equal(t, "vector[float]", types.TypeString(mul.Type()))
	assert.Equal(t, "vector[float]", types.TypeString(mul.Right.Type()))
	assert.Equal(t, "float", types.TypeString(f.Block.ReturnStatement().Argument.(*semantic.ObjectExpression).Properties[0].Value.Type()))
}

func TestVectorizeWith(t *testing.T) {
	f := Func1("r", With("r", Prop("c", Add(Member(Ident("r"), "a"), Int(1)))))
	pkg := infer(t, Assign("f", f))
	require.Empty(t, Package(pkg, Options{}))
	require.NotNil(t, f.Vectorized)

	vt := f.Vectorized.Type().(*types.Function)
	assert.Equal(t, map[string]string{"a": "vector[int]", "c": "vector[int]"}, fields(vt.Retn))
	_, tail := types.CollectRecord(vt.Retn)
	assert.NotNil(t, tail, "open row")
}

func TestUnableToVectorize(t *testing.T) {
	pkg := infer(t,
		Assign("n", Int(1)),
		Assign("g", Func1("r", Member(Ident("r"), "a"))),
		Assign("h", Func1("r", Object(Prop("a", Member(Member(Ident("r"), "x"), "y"))))),
		Assign("k", Func1("r", Object(Prop("a", Ident("n"))))),
		Assign("m", FuncBlock([]*semantic.FunctionParameter{Param("r")}, Assign("x", Member(Ident("r"), "a")), Return(Object(Prop("a", Ident("x")))))),
		Assign("p", Func1("r", Object(Prop("a", If(Member(Ident("r"), "b"), Int(1), Int(2)))))),
		Assign("q", Func1("x", Object(Prop("a", Member(Ident("x"), "a"))))),
		Assign("ok", Func1("r", Object(Prop("a", Member(Ident("r"), "a"))))),
	)
	warnings := Package(pkg, Options{})

	var reasons []string
	for _, w := range warnings {
		var u *flowtype.UnableToVectorize
		require.True(t, errors.As(w, &u))
		reasons = append(reasons, u.Function+": "+u.Reason)
	}
	assert.Equal(t, []string{
		"g: function must return a record",
		"h: only direct field accesses of r are supported",
		"k: unknown identifier n",
		"m: function body must be a single return statement",
		"p: unsupported expression if r.b then 1 else 2",
	}, reasons)
	assert.Equal(t, "unable to vectorize g: function must return a record", warnings[0].Error())
}

func TestVectorizeParam(t *testing.T) {
	f := Func1("row", Object(Prop("a", Member(Ident("row"), "a"))))
	g := Func1("r", Object(Prop("a", Member(Ident("r"), "a"))))
	pkg := infer(t, Assign("f", f), Assign("g", g))
	require.Empty(t, Package(pkg, Options{Param: "row"}))
	assert.NotNil(t, f.Vectorized)
	assert.Nil(t, g.Vectorized)
}

func TestVectorHelpers(t *testing.T) {
	assert.Equal(t, "vector[int]", types.TypeString(Vector(types.Int)))
	assert.Equal(t, "vector[int]", types.TypeString(Vector(types.NewVector(types.Int))))
	assert.Equal(t, "<error>", types.TypeString(Vector(types.Error{})))

	scoped := types.NewRecord(nil, types.Field("a", types.Int), types.Field("a", types.String))
	assert.Equal(t, "{a: vector[string], a: vector[int]}", types.TypeString(Record(scoped)))
	assert.Equal(t, "int", types.TypeString(Record(types.Int)))
}
