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

package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/flowtype"
	"github.com/wdamron/flowtype/config"
	"github.com/wdamron/flowtype/diff"
	. "github.com/wdamron/flowtype/construct"
	"github.com/wdamron/flowtype/semantic"
	"github.com/wdamron/flowtype/types"
)

func mathPackage() *semantic.Package {
	return Package("math", File("math.flux", nil,
		Assign("pi", Float(3.14)),
		Assign("square", Func1("x", Binary(semantic.MultiplicationOperator, Ident("x"), Ident("x")))),
	))
}

func mainPackage() *semantic.Package {
	return Package("main", File("main.flux", []*semantic.ImportDeclaration{Import("math", "")},
		Assign("a", Call(Member(Ident("math"), "square"), Prop("x", Member(Ident("math"), "pi")))),
	))
}

func stringsPackage() *semantic.Package {
	return Package("strings", File("strings.flux", nil,
		Assign("title", Func1("v", Add(Ident("v"), Str("")))),
		Assign("row", Func1("r", Member(Ident("r"), "a"))),
	))
}

func export(t *testing.T, r Result, name string) string {
	p, ok := r.Exports.Lookup(name)
	require.True(t, ok, "missing export %s", name)
	return p.String()
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, config.Default(), nil, nil)
	require.NoError(t, err)
	defer a.Close()

	results, err := a.Analyze(ctx, []*semantic.Package{mainPackage(), stringsPackage(), mathPackage()})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"main", "strings", "math"}, []string{results[0].Path(), results[1].Path(), results[2].Path()})
	for _, r := range results {
		require.Empty(t, r.Errors, r.Path())
		require.Empty(t, r.Warnings, r.Path())
	}
	assert.Equal(t, "float", export(t, results[0], "a"))
	assert.Equal(t, "(v: string) => string", export(t, results[1], "title"))
	assert.Equal(t, "(x: A) => A where A: Divisible", export(t, results[2], "square"))

	for _, r := range results {
		assert.Nil(t, r.Changes, r.Path())
	}

	p, ok := a.Store.Import("math")
	require.True(t, ok)
	assert.Equal(t, "{pi: float, square: (x: A) => A} where A: Divisible", p.String())
}

func TestAnalyzeReportsChanges(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, config.Default(), nil, nil)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Analyze(ctx, []*semantic.Package{mathPackage()})
	require.NoError(t, err)

	same, err := a.Analyze(ctx, []*semantic.Package{mathPackage()})
	require.NoError(t, err)
	require.NotNil(t, same[0].Changes)
	assert.Equal(t, diff.Patch, same[0].Changes.Severity)

	added := mathPackage()
	added.Files[0].Body = append(added.Files[0].Body, Assign("tau", Float(6.28)))
	results, err := a.Analyze(ctx, []*semantic.Package{added})
	require.NoError(t, err)
	require.NotNil(t, results[0].Changes)
	assert.Equal(t, diff.Minor, results[0].Changes.Severity)
	assert.Equal(t, []string{"tau"}, results[0].Changes.Added)

	retyped := Package("math", File("math.flux", nil,
		Assign("pi", Int(3)),
		Assign("square", Func1("x", Binary(semantic.MultiplicationOperator, Ident("x"), Ident("x")))),
		Assign("tau", Float(6.28)),
	))
	results, err = a.Analyze(ctx, []*semantic.Package{retyped})
	require.NoError(t, err)
	require.NotNil(t, results[0].Changes)
	assert.Equal(t, diff.Major, results[0].Changes.Severity)
	assert.Equal(t, diff.Major, results[0].Changes.Members["pi"])
	assert.Equal(t, diff.Patch, results[0].Changes.Members["square"])
}

func TestAnalyzeUsesImporter(t *testing.T) {
	ctx := context.Background()
	math := types.Mono(types.NewRecord(nil, types.Field("pi", types.Float), types.Field("square",
		types.NewFunction(map[string]types.MonoType{"x": types.Float}, types.Float))))
	a := &Analyzer{Importer: flowtype.ImporterFunc(func(path string) (types.PolyType, bool) {
		return math, path == "math"
	})}

	results, err := a.Analyze(ctx, []*semantic.Package{mainPackage()})
	require.NoError(t, err)
	require.Empty(t, results[0].Errors)
	assert.Equal(t, "float", export(t, results[0], "a"))
}

func TestAnalyzeReportsTypeErrors(t *testing.T) {
	ctx := context.Background()
	a := &Analyzer{}
	results, err := a.Analyze(ctx, []*semantic.Package{mainPackage()})
	require.NoError(t, err)
	require.Len(t, results[0].Errors, 1)
	var unresolved *flowtype.UnresolvedImport
	require.True(t, errors.As(results[0].Errors[0], &unresolved))
	assert.Equal(t, "math", unresolved.Path)
}

func TestAnalyzeVectorizes(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Vectorize = true
	cfg.Parallelism = 1
	a, err := New(ctx, cfg, nil, nil)
	require.NoError(t, err)
	defer a.Close()

	results, err := a.Analyze(ctx, []*semantic.Package{stringsPackage()})
	require.NoError(t, err)
	require.Len(t, results[0].Warnings, 1)
	var u *flowtype.UnableToVectorize
	require.True(t, errors.As(results[0].Warnings[0], &u))
	assert.Equal(t, "row", u.Function)
}

func TestAnalyzeCycle(t *testing.T) {
	a := &Analyzer{}
	pa := Package("a", File("a.flux", []*semantic.ImportDeclaration{Import("b", "")}, Assign("x", Int(1))))
	pb := Package("b", File("b.flux", []*semantic.ImportDeclaration{Import("a", "")}, Assign("y", Int(1))))
	_, err := a.Analyze(context.Background(), []*semantic.Package{pa, pb, mathPackage()})
	var cycle *ImportCycleError
	require.True(t, errors.As(err, &cycle), "error: %v", err)
	assert.ElementsMatch(t, []string{"a", "b"}, cycle.Packages)
}

func TestAnalyzeDuplicate(t *testing.T) {
	a := &Analyzer{}
	_, err := a.Analyze(context.Background(), []*semantic.Package{mathPackage(), mathPackage()})
	require.ErrorContains(t, err, "duplicate package math")
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &Analyzer{}
	_, err := a.Analyze(ctx, []*semantic.Package{mathPackage()})
	require.ErrorIs(t, err, context.Canceled)
}
