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

package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/flowtype/types"
)

func fn(req map[string]types.MonoType, retn types.MonoType) *types.Function {
	return types.NewFunction(req, retn)
}

func rec(tail types.MonoType, fields ...string) types.MonoType {
	props := make([]types.Property, len(fields))
	for i, f := range fields {
		props[i] = types.Field(f, types.Int)
	}
	return types.NewRecord(tail, props...)
}

func TestIdentityIsPatch(t *testing.T) {
	A := types.NewBoundVar(0)
	for _, ty := range []types.MonoType{
		types.Int,
		types.Error{},
		types.NewArray(types.String),
		types.NewDict(types.String, types.Float),
		rec(nil, "a", "b"),
		rec(types.NewVar(3), "a"),
		fn(map[string]types.MonoType{"a": types.Int}, types.Bool).WithOpt("n", types.Int, types.Int).WithPipe("tables", types.NewArray(A)),
	} {
		assert.Equal(t, Patch, Types(ty, ty), types.TypeString(ty))
	}
}

func TestFunctions(t *testing.T) {
	base := fn(map[string]types.MonoType{"a": types.Int}, types.Int)

	assert.Equal(t, Minor, Types(base, base.WithOpt("b", types.Int, nil)), "new optional parameter")
	assert.Equal(t, Major, Types(base, fn(nil, types.Int)), "removed required parameter")
	assert.Equal(t, Major, Types(base, fn(map[string]types.MonoType{"a": types.String}, types.Int)), "retyped required parameter")
	assert.Equal(t, Major, Types(base, fn(map[string]types.MonoType{"a": types.Int, "b": types.Int}, types.Int)), "new required parameter")
	assert.Equal(t, Major, Types(base, fn(map[string]types.MonoType{"a": types.Int}, types.Float)), "retyped return")
	assert.Equal(t, Major, Types(base.WithOpt("b", types.Int, nil), base), "removed optional parameter")
	assert.Equal(t, Major, Types(base, base.WithPipe("tables", types.Int)), "new pipe")
	assert.Equal(t, Major, Types(base.WithPipe("tables", types.Int), base.WithPipe("tables", types.String)), "retyped pipe")
}

func TestRecords(t *testing.T) {
	assert.Equal(t, Major, Types(rec(nil, "a"), rec(nil, "a", "b")), "added field")
	assert.Equal(t, Major, Types(rec(nil, "a", "b"), rec(nil, "a")), "removed field")
	assert.Equal(t, Major, Types(rec(nil, "a"), rec(types.NewBoundVar(0), "a")), "opened")
	assert.Equal(t, Minor, Types(rec(types.NewVar(9), "a"), rec(types.NewVar(9), "a", "b")), "added field to unresolved record")
	assert.Equal(t, Patch, Types(rec(nil, "a", "b"), rec(nil, "b", "a")), "reordered fields")

	scoped := types.NewRecord(nil, types.Field("a", types.Int), types.Field("a", types.String))
	assert.Equal(t, Major, Types(rec(nil, "a"), scoped), "shadowed field")
}

func TestCollections(t *testing.T) {
	assert.Equal(t, Major, Types(types.NewArray(types.Int), types.NewStream(types.Int)))
	assert.Equal(t, Major, Types(types.NewArray(types.Int), types.NewArray(types.Float)))
	assert.Equal(t, Minor, Types(types.NewArray(types.NewVar(1)), types.NewArray(types.Int)))
}

func TestPolyTypes(t *testing.T) {
	A := types.NewBoundVar(5)
	id := types.NewPolyType([]types.Tvar{5}, nil, fn(map[string]types.MonoType{"v": A}, A))
	renamed := types.NewPolyType([]types.Tvar{7}, nil, fn(map[string]types.MonoType{"v": types.NewBoundVar(7)}, types.NewBoundVar(7)))
	addable := types.NewPolyType([]types.Tvar{5}, map[types.Tvar][]types.Kind{5: {types.Addable}}, id.Expr)

	assert.Equal(t, Patch, PolyTypes(id, renamed))
	assert.Equal(t, Major, PolyTypes(id, addable), "new kind")
	assert.Equal(t, Minor, PolyTypes(addable, id), "dropped kind")
	assert.Equal(t, Major, PolyTypes(id, types.Mono(fn(map[string]types.MonoType{"v": types.Int}, types.Int))))

	// (v: A) => A  becomes  (v: A, ?w: B) => A
	B := types.NewBoundVar(6)
	withOpt := types.NewPolyType([]types.Tvar{5, 6}, map[types.Tvar][]types.Kind{6: {types.Comparable}},
		fn(map[string]types.MonoType{"v": A}, A).WithOpt("w", B, nil))
	assert.Equal(t, Minor, PolyTypes(id, withOpt), "new polymorphic optional parameter")
	assert.Equal(t, Major, PolyTypes(withOpt, id), "removed optional parameter")

	// (v: A) => A  becomes  (v: A, ?w: B) => B
	retnChanged := types.NewPolyType([]types.Tvar{5, 6}, nil, fn(map[string]types.MonoType{"v": A}, B).WithOpt("w", B, nil))
	assert.Equal(t, Major, PolyTypes(id, retnChanged))

	// a new variable outside any optional parameter
	twoVars := types.NewPolyType([]types.Tvar{5, 6}, nil, fn(map[string]types.MonoType{"v": A, "u": B}, A))
	assert.Equal(t, Major, PolyTypes(id, twoVars))
}

func TestMax(t *testing.T) {
	all := []Severity{Patch, Minor, Major}
	assert.Equal(t, Patch, Max())
	for _, a := range all {
		for _, b := range all {
			assert.Equal(t, Max(a, b), Max(b, a))
			for _, c := range all {
				assert.Equal(t, Max(a, Max(b, c)), Max(Max(a, b), c))
			}
		}
	}
	assert.Equal(t, Major, Max(Patch, Major, Minor))
	assert.Equal(t, "minor", Minor.String())
}

func TestPackages(t *testing.T) {
	f := types.Mono(fn(map[string]types.MonoType{"a": types.Int}, types.Int))
	g := types.Mono(fn(map[string]types.MonoType{"a": types.Int}, types.Int).WithOpt("b", types.Int, nil))

	r := Packages(map[string]types.PolyType{"f": f}, map[string]types.PolyType{"f": f})
	require.Equal(t, Patch, r.Severity)
	require.Empty(t, r.Added)
	require.Empty(t, r.Removed)

	r = Packages(map[string]types.PolyType{"f": f}, map[string]types.PolyType{"f": g, "h": f})
	require.Equal(t, Minor, r.Severity)
	require.Equal(t, []string{"h"}, r.Added)
	require.Equal(t, Minor, r.Members["f"])
	require.Equal(t, []string{"f", "h"}, r.Changed(Minor))

	r = Packages(map[string]types.PolyType{"f": f, "x": types.Mono(types.Int)}, map[string]types.PolyType{"f": f})
	require.Equal(t, Major, r.Severity)
	require.Equal(t, []string{"x"}, r.Removed)
	require.Equal(t, []string{"x"}, r.Changed(Major))
}
