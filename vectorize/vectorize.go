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

// Package vectorize rewrites row functions to operate on vectors of column values.
//
// A row function takes a single record parameter and returns a record built from the
// parameter's fields:
//
//	(r) => ({r with c: r.a + r.b, ok: r.a > 0})
//
// Its vectorized form has the same body, with each field typed as a vector of the row field's
// type. Vectorization is best-effort: functions of any other shape are left unchanged, and the
// reasons are reported as warnings.
package vectorize

import (
	"log/slog"

	"github.com/samber/lo"

	"github.com/wdamron/flowtype"
	"github.com/wdamron/flowtype/internal/astutil"
	"github.com/wdamron/flowtype/semantic"
	"github.com/wdamron/flowtype/types"
)

// Options configure the vectorization pass.
type Options struct {
	// Param is the parameter name of row functions; functions with any other single parameter
	// are not considered. Defaults to "r".
	Param string
	// Logger receives a warning for each function which cannot be vectorized; nil uses
	// slog.Default().
	Logger *slog.Logger
}

func (o Options) param() string {
	if o.Param == "" {
		return "r"
	}
	return o.Param
}

// Package vectorizes each row function of an inferred package. Each function is attempted
// independently; the returned warnings hold an UnableToVectorize error for each function which
// could not be vectorized.
func Package(pkg *semantic.Package, opts Options) flowtype.Errors {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	param := opts.param()

	names := make(map[*semantic.FunctionExpression]string)
	var fns []*semantic.FunctionExpression
	semantic.WalkFunc(pkg, func(n semantic.Node) {
		switch n := n.(type) {
		case *semantic.NativeVariableAssignment:
			if fn, ok := n.Init.(*semantic.FunctionExpression); ok {
				names[fn] = n.Identifier.Name
			}
		case *semantic.FunctionExpression:
			if isRowFunction(n, param) {
				fns = append(fns, n)
			}
		}
	})

	var warnings flowtype.Errors
	for _, fn := range fns {
		vec, err := Function(fn, param)
		if err != nil {
			err.Function = names[fn]
			logger.Warn("unable to vectorize", "function", err.Function, "loc", fn.Loc.String(), "reason", err.Reason)
			warnings = append(warnings, &flowtype.Error{Loc: fn.Loc, Err: err})
			continue
		}
		fn.Vectorized = vec
		logger.Debug("vectorized", "function", names[fn], "loc", fn.Loc.String())
	}
	return warnings
}

func isRowFunction(fn *semantic.FunctionExpression, param string) bool {
	if len(fn.Parameters) != 1 {
		return false
	}
	p := fn.Parameters[0]
	return !p.IsPipe && p.Default == nil && p.Key != nil && p.Key.Name == param
}

func unable(reason string) *flowtype.UnableToVectorize {
	return &flowtype.UnableToVectorize{Reason: reason}
}

// Function returns the vectorized form of a row function whose parameter is named param. The
// function must have been inferred; fn itself is not modified.
func Function(fn *semantic.FunctionExpression, param string) (*semantic.FunctionExpression, *flowtype.UnableToVectorize) {
	if !isRowFunction(fn, param) {
		return nil, unable("function must have the single parameter " + param)
	}
	ft, ok := fn.Type().(*types.Function)
	if !ok {
		return nil, unable("function has not been type checked")
	}
	if fn.Block == nil || len(fn.Block.Body) != 1 {
		return nil, unable("function body must be a single return statement")
	}
	ret := fn.Block.ReturnStatement()
	if ret == nil {
		return nil, unable("function body must be a single return statement")
	}
	obj, ok := ret.Argument.(*semantic.ObjectExpression)
	if !ok {
		return nil, unable("function must return a record")
	}
	free, err := astutil.FreeIdentifiers(fn)
	if err != nil {
		return nil, unable(err.Error())
	}
	if len(free) > 0 {
		return nil, unable("unknown identifier " + free[0])
	}
	if obj.With != nil && obj.With.Name != param {
		return nil, unable("record may only extend " + param)
	}
	for _, p := range obj.Properties {
		if reason := check(p.Value, param); reason != "" {
			return nil, unable(reason)
		}
	}
	row, ok := ft.Req[param]
	if !ok || !types.IsRecord(row) && !isRecordVar(row) {
		return nil, unable("parameter " + param + " must be a record")
	}

	vec := semantic.CopyExpr(fn).(*semantic.FunctionExpression)
	vec.Vectorized = nil
	semantic.WalkFunc(vec.Block, func(n semantic.Node) {
		switch n := n.(type) {
		case *semantic.IdentifierExpression, *semantic.ObjectExpression:
			n.(semantic.Expression).SetType(Record(n.(semantic.Expression).Type()))
		case semantic.Expression:
			if t := n.Type(); t != nil {
				n.SetType(Vector(t))
			}
		}
	})
	vt := types.NewFunction(map[string]types.MonoType{param: Record(row)}, Record(ft.Retn))
	vec.SetType(vt)
	return vec, nil
}

func isRecordVar(t types.MonoType) bool {
	switch t.(type) {
	case *types.Var, *types.BoundVar:
		return true
	}
	return false
}

// check returns the reason e cannot be vectorized, or an empty string.
func check(e semantic.Expression, param string) string {
	switch e := e.(type) {
	case *semantic.MemberExpression:
		if id, ok := e.Object.(*semantic.IdentifierExpression); ok && id.Name == param {
			return ""
		}
		return "only direct field accesses of " + param + " are supported"
	case *semantic.IntegerLiteral, *semantic.UnsignedIntegerLiteral, *semantic.FloatLiteral,
		*semantic.StringLiteral, *semantic.BooleanLiteral, *semantic.DurationLiteral,
		*semantic.DateTimeLiteral:
		return ""
	case *semantic.BinaryExpression:
		if lo.Contains(unsupportedOperators, e.Operator) {
			return "unsupported operator " + e.Operator.String()
		}
		if r := check(e.Left, param); r != "" {
			return r
		}
		return check(e.Right, param)
	case *semantic.LogicalExpression:
		if r := check(e.Left, param); r != "" {
			return r
		}
		return check(e.Right, param)
	case *semantic.UnaryExpression:
		return check(e.Argument, param)
	case nil:
		return "missing expression"
	}
	return "unsupported expression " + semantic.ExprString(e)
}

var unsupportedOperators = []semantic.Operator{
	semantic.RegexpMatchOperator,
	semantic.NotRegexpMatchOperator,
}

// Vector wraps t in a vector, unless t is already a vector.
func Vector(t types.MonoType) types.MonoType {
	if c, ok := t.(*types.Collection); ok && c.Kind == types.Vector {
		return t
	}
	if types.IsError(t) {
		return t
	}
	return types.NewVector(t)
}

// Record wraps each field of the record t in a vector. Fields are kept in scope order; the tail
// of an open record is kept unchanged.
func Record(t types.MonoType) types.MonoType {
	if !types.IsRecord(t) {
		return t
	}
	labels, tail := types.CollectRecord(t)
	b := labels.Builder()
	labels.Range(func(key string, ts types.TypeList) bool {
		b = b.Set(key, ts.Map(Vector))
		return true
	})
	return types.ExtendRecord(b.Build(), tail)
}
