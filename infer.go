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

package flowtype

import (
	"github.com/wdamron/flowtype/semantic"
	"github.com/wdamron/flowtype/types"
)

// inferStatement generates constraints for s. retn is the return type of the enclosing
// function, or nil at the top level of a file. Bindings made at the top level are exported.
func (ti *InferenceContext) inferStatement(s semantic.Statement, retn types.MonoType, top bool) {
	switch s := s.(type) {
	case *semantic.NativeVariableAssignment:
		ti.inferAssignment(s, top, top)

	case *semantic.OptionStatement:
		ti.inferOption(s.Assignment, top)

	case *semantic.TestStatement:
		ti.inferAssignment(s.Assignment, top, false)

	case *semantic.BuiltinStatement:
		ti.bind(s.ID.Name, s.Type, top, top)

	case *semantic.ExpressionStatement:
		ti.infer(s.Expression)

	case *semantic.ReturnStatement:
		t := ti.infer(s.Argument)
		if retn == nil {
			ti.report(s.Loc, errReturnOutsideFunction)
			return
		}
		ti.equal(retn, t, s.Loc)

	default:
		panic("unknown statement type: " + s.NodeName())
	}
}

type inferError string

func (e inferError) Error() string { return string(e) }

const errReturnOutsideFunction = inferError("return statement outside of a function")

func (ti *InferenceContext) bind(name string, p types.PolyType, root, export bool) {
	if root {
		ti.env.AddRoot(name, p)
	} else {
		ti.env.Add(name, p)
	}
	if export {
		ti.exports.Add(name, p)
	}
}

// Assignments are generalized against the enclosing environment before binding.
func (ti *InferenceContext) inferAssignment(s *semantic.NativeVariableAssignment, root, export bool) {
	t := ti.infer(s.Init)
	ti.solve()
	p := ti.generalize(t)
	s.SetType(p)
	ti.bind(s.Identifier.Name, p, root, export)
}

// Options must remain compatible with the type of an existing binding for the same name.
func (ti *InferenceContext) inferOption(s *semantic.NativeVariableAssignment, root bool) {
	t := ti.infer(s.Init)
	if prev, ok := ti.env.Lookup(s.Identifier.Name); ok {
		ti.equal(ti.instantiate(prev, s.Loc), t, s.Loc)
	}
	ti.solve()
	p := ti.generalize(t)
	s.SetType(p)
	ti.bind(s.Identifier.Name, p, root, root)
}

func (ti *InferenceContext) infer(e semantic.Expression) types.MonoType {
	t := ti.inferExpr(e)
	e.SetType(t)
	return t
}

func (ti *InferenceContext) inferExpr(e semantic.Expression) types.MonoType {
	switch e := e.(type) {
	case *semantic.IdentifierExpression:
		p, ok := ti.env.Lookup(e.Name)
		if !ok {
			ti.report(e.Loc, &UndefinedIdentifier{Name: e.Name})
			return types.Error{}
		}
		return ti.instantiate(p, e.Loc)

	case *semantic.IntegerLiteral:
		return types.Int
	case *semantic.UnsignedIntegerLiteral:
		return types.Uint
	case *semantic.FloatLiteral:
		return types.Float
	case *semantic.StringLiteral:
		return types.String
	case *semantic.BooleanLiteral:
		return types.Bool
	case *semantic.DurationLiteral:
		return types.Duration
	case *semantic.DateTimeLiteral:
		return types.Time
	case *semantic.RegexpLiteral:
		return types.Regexp

	case *semantic.StringExpression:
		for _, part := range e.Parts {
			if p, ok := part.(*semantic.InterpolatedPart); ok {
				ti.constrain(types.Stringable, ti.infer(p.Expression), p.Loc)
			}
		}
		return types.String

	case *semantic.ArrayExpression:
		elem := ti.fresh()
		for _, el := range e.Elements {
			ti.equal(elem, ti.infer(el), el.Location())
		}
		return types.NewArray(elem)

	case *semantic.DictExpression:
		key, val := ti.fresh(), ti.fresh()
		ti.constrain(types.Comparable, key, e.Loc)
		for _, item := range e.Elements {
			ti.equal(key, ti.infer(item.Key), item.Key.Location())
			ti.equal(val, ti.infer(item.Val), item.Val.Location())
		}
		return types.NewDict(key, val)

	case *semantic.ObjectExpression:
		return ti.inferObject(e)

	case *semantic.MemberExpression:
		obj := ti.infer(e.Object)
		field := ti.fresh()
		ti.equal(types.NewRecord(ti.fresh(), types.Field(e.Property, field)), obj, e.Loc)
		return field

	case *semantic.IndexExpression:
		arr := ti.infer(e.Array)
		idx := ti.infer(e.Index)
		elem := ti.fresh()
		ti.equal(types.NewArray(elem), arr, e.Array.Location())
		ti.equal(types.Int, idx, e.Index.Location())
		return elem

	case *semantic.FunctionExpression:
		return ti.inferFunction(e)

	case *semantic.CallExpression:
		return ti.inferCall(e, e.Pipe)

	case *semantic.PipeExpression:
		t := ti.inferCall(e.Call, e.Argument)
		e.Call.SetType(t)
		return t

	case *semantic.BinaryExpression:
		return ti.inferBinary(e)

	case *semantic.UnaryExpression:
		t := ti.infer(e.Argument)
		switch e.Operator {
		case semantic.SubtractionOperator:
			ti.constrain(types.Negatable, t, e.Loc)
			return t
		case semantic.AdditionOperator:
			ti.constrain(types.Numeric, t, e.Loc)
			return t
		case semantic.NotOperator:
			ti.equal(types.Bool, t, e.Argument.Location())
			return types.Bool
		case semantic.ExistsOperator:
			ti.constrain(types.Nullable, t, e.Loc)
			return types.Bool
		}
		ti.report(e.Loc, inferError("invalid unary operator "+e.Operator.String()))
		return types.Error{}

	case *semantic.LogicalExpression:
		ti.equal(types.Bool, ti.infer(e.Left), e.Left.Location())
		ti.equal(types.Bool, ti.infer(e.Right), e.Right.Location())
		return types.Bool

	case *semantic.ConditionalExpression:
		ti.equal(types.Bool, ti.infer(e.Test), e.Test.Location())
		t := ti.infer(e.Consequent)
		ti.equal(t, ti.infer(e.Alternate), e.Alternate.Location())
		return t
	}
	panic("unknown expression type: " + e.NodeName())
}

// Properties extend the record in order, so later properties shadow earlier ones.
func (ti *InferenceContext) inferObject(e *semantic.ObjectExpression) types.MonoType {
	var tail types.MonoType
	if e.With != nil {
		tail = ti.infer(e.With)
		ti.constrain(types.Record, tail, e.With.Loc)
	}
	props := make([]types.Property, len(e.Properties))
	for i, p := range e.Properties {
		props[i] = types.Field(p.Key.Name, ti.infer(p.Value))
	}
	return types.NewRecord(tail, props...)
}

func (ti *InferenceContext) inferFunction(e *semantic.FunctionExpression) types.MonoType {
	f := &types.Function{Req: make(map[string]types.MonoType)}
	ti.env.Enter()
	for _, p := range e.Parameters {
		tv := ti.fresh()
		switch {
		case p.IsPipe:
			f.Pipe = &types.Pipe{Name: p.Key.Name, Type: tv}
		case p.Default != nil:
			def := ti.infer(p.Default)
			ti.equal(tv, def, p.Default.Location())
			if f.Opt == nil {
				f.Opt = make(map[string]types.Argument)
			}
			f.Opt[p.Key.Name] = types.Argument{Type: tv, Default: def}
		default:
			f.Req[p.Key.Name] = tv
		}
		ti.env.Add(p.Key.Name, types.Mono(tv))
	}
	retn := ti.fresh()
	f.Retn = retn
	if e.Block != nil {
		for _, s := range e.Block.Body {
			ti.inferStatement(s, retn, false)
		}
	}
	ti.env.Exit()
	return f
}

// inferCall unifies the callee with a function built from the call's arguments. pipe is the
// piped argument, if any.
func (ti *InferenceContext) inferCall(e *semantic.CallExpression, pipe semantic.Expression) types.MonoType {
	callee := ti.infer(e.Callee)
	declared, _ := ti.sub.ApplyType(callee).(*types.Function)

	act := &types.Function{Req: make(map[string]types.MonoType), Retn: ti.fresh()}
	if e.Arguments != nil {
		for _, p := range e.Arguments.Properties {
			act.Req[p.Key.Name] = ti.inferArgument(declared, p)
		}
	}
	if pipe != nil {
		act.Pipe = &types.Pipe{Name: types.AnonymousPipe, Type: ti.infer(pipe)}
	}
	ti.equal(callee, act, e.Loc)
	return act.Retn
}

// String literals passed for Label-kinded parameters are typed as labels.
func (ti *InferenceContext) inferArgument(declared *types.Function, p *semantic.Property) types.MonoType {
	if lit, ok := p.Value.(*semantic.StringLiteral); ok && declared != nil {
		if pt, ok := declared.Param(p.Key.Name); ok {
			if v, ok := pt.(*types.Var); ok && ti.labelVars.Contains(v.Tvar) {
				t := types.NewLabel(lit.Value)
				lit.SetType(t)
				return t
			}
		}
	}
	return ti.infer(p.Value)
}

var binaryKinds = map[semantic.Operator]types.Kind{
	semantic.AdditionOperator:         types.Addable,
	semantic.SubtractionOperator:      types.Subtractable,
	semantic.MultiplicationOperator:   types.Divisible,
	semantic.DivisionOperator:         types.Divisible,
	semantic.ModuloOperator:           types.Divisible,
	semantic.PowerOperator:            types.Numeric,
	semantic.LessThanOperator:         types.Comparable,
	semantic.LessThanEqualOperator:    types.Comparable,
	semantic.GreaterThanOperator:      types.Comparable,
	semantic.GreaterThanEqualOperator: types.Comparable,
	semantic.EqualOperator:            types.Equatable,
	semantic.NotEqualOperator:         types.Equatable,
}

func (ti *InferenceContext) inferBinary(e *semantic.BinaryExpression) types.MonoType {
	l, r := ti.infer(e.Left), ti.infer(e.Right)
	switch e.Operator {
	case semantic.RegexpMatchOperator, semantic.NotRegexpMatchOperator:
		ti.equal(types.String, l, e.Left.Location())
		ti.equal(types.Regexp, r, e.Right.Location())
		return types.Bool
	}
	kind, ok := binaryKinds[e.Operator]
	if !ok {
		ti.report(e.Loc, inferError("invalid binary operator "+e.Operator.String()))
		return types.Error{}
	}
	ti.constrain(kind, l, e.Loc)
	ti.equal(l, r, e.Loc)
	switch kind {
	case types.Comparable, types.Equatable:
		return types.Bool
	}
	return l
}
