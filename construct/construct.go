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

// Package construct provides shorthand constructors for types and semantic nodes.
package construct

import (
	"github.com/wdamron/flowtype/semantic"
	"github.com/wdamron/flowtype/types"
)

// Types

// Type-variable: `t1`
func TVar(id types.Tvar) *types.Var { return types.NewVar(id) }

// Quantified type-variable, bound by an enclosing type scheme: `A`
func TBound(id types.Tvar) *types.BoundVar { return types.NewBoundVar(id) }

// Label type: `"a"`
func TLabel(name string) *types.Label { return types.NewLabel(name) }

// Array type: `[int]`
func TArray(elem types.MonoType) *types.Collection { return types.NewArray(elem) }

// Stream type: `stream[int]`
func TStream(elem types.MonoType) *types.Collection { return types.NewStream(elem) }

// Vector type: `vector[int]`
func TVector(elem types.MonoType) *types.Collection { return types.NewVector(elem) }

// Dictionary type: `[string:int]`
func TDict(key, val types.MonoType) *types.Dict { return types.NewDict(key, val) }

// Closed record type: `{a: int, b: string}`
func TRecord(props ...types.Property) types.MonoType { return types.NewRecord(nil, props...) }

// Open record type: `{A with a: int}`
func TExtend(tail types.MonoType, props ...types.Property) types.MonoType {
	return types.NewRecord(tail, props...)
}

// Record field: `a: int`
func TField(label string, t types.MonoType) types.Property { return types.Field(label, t) }

// Record field with a variable label: `B: int`
func TVarField(label, t types.MonoType) types.Property {
	return types.Property{Label: types.VarLabel(label), Value: t}
}

// Function type with required parameters: `(a: int, b: int) => int`
func TFunc(req map[string]types.MonoType, retn types.MonoType) *types.Function {
	return types.NewFunction(req, retn)
}

// Function type with a single required parameter: `(a: int) => int`
func TFunc1(name string, arg, retn types.MonoType) *types.Function {
	return types.NewFunction(map[string]types.MonoType{name: arg}, retn)
}

// Type scheme: `(a: A) => A where A: Addable`
func TPoly(vars []types.Tvar, cons map[types.Tvar][]types.Kind, expr types.MonoType) types.PolyType {
	return types.NewPolyType(vars, cons, expr)
}

// Locations

// Loc creates a location spanning a single line.
func Loc(line, start, end int) semantic.Loc {
	return semantic.Loc{Start: semantic.Position{Line: line, Column: start}, End: semantic.Position{Line: line, Column: end}}
}

// At assigns a location to a node.
func At[N interface {
	semantic.Node
	SetLocation(semantic.Loc)
}](n N, loc semantic.Loc) N {
	n.SetLocation(loc)
	return n
}

// Expressions

// Variable reference
func Ident(name string) *semantic.IdentifierExpression {
	return &semantic.IdentifierExpression{Name: name}
}

// Integer literal: `1`
func Int(v int64) *semantic.IntegerLiteral { return &semantic.IntegerLiteral{Value: v} }

// Float literal: `1.0`
func Float(v float64) *semantic.FloatLiteral { return &semantic.FloatLiteral{Value: v} }

// String literal: `"a"`
func Str(v string) *semantic.StringLiteral { return &semantic.StringLiteral{Value: v} }

// Boolean literal: `true`
func Bool(v bool) *semantic.BooleanLiteral { return &semantic.BooleanLiteral{Value: v} }

// Regular expression literal: `/a/`
func Regexp(v string) *semantic.RegexpLiteral { return &semantic.RegexpLiteral{Value: v} }

// Array: `[1, 2]`
func Array(elems ...semantic.Expression) *semantic.ArrayExpression {
	return &semantic.ArrayExpression{Elements: elems}
}

// Dictionary: `["a": 1]`
func Dict(items ...semantic.DictItem) *semantic.DictExpression {
	return &semantic.DictExpression{Elements: items}
}

// Paired dictionary key and value
func Item(key, val semantic.Expression) semantic.DictItem {
	return semantic.DictItem{Key: key, Val: val}
}

// Paired record label and value: `a: 1`
func Prop(name string, v semantic.Expression) *semantic.Property {
	return &semantic.Property{Key: &semantic.Identifier{Name: name}, Value: v}
}

// Record: `{a: 1, b: 2}`
func Object(props ...*semantic.Property) *semantic.ObjectExpression {
	return &semantic.ObjectExpression{Properties: props}
}

// Record extension: `{r with a: 1}`
func With(name string, props ...*semantic.Property) *semantic.ObjectExpression {
	return &semantic.ObjectExpression{With: Ident(name), Properties: props}
}

// Selecting value of label: `r.a`
func Member(obj semantic.Expression, label string) *semantic.MemberExpression {
	return &semantic.MemberExpression{Object: obj, Property: label}
}

// Indexing an array: `a[0]`
func Index(arr, idx semantic.Expression) *semantic.IndexExpression {
	return &semantic.IndexExpression{Array: arr, Index: idx}
}

// Required parameter: `a`
func Param(name string) *semantic.FunctionParameter {
	return &semantic.FunctionParameter{Key: &semantic.Identifier{Name: name}}
}

// Optional parameter: `a=1`
func Default(name string, v semantic.Expression) *semantic.FunctionParameter {
	return &semantic.FunctionParameter{Key: &semantic.Identifier{Name: name}, Default: v}
}

// Pipe parameter: `tables=<-`
func PipeParam(name string) *semantic.FunctionParameter {
	return &semantic.FunctionParameter{Key: &semantic.Identifier{Name: name}, IsPipe: true}
}

// Abstraction with an expression body: `(a, b) => a + b`
func Func(params []*semantic.FunctionParameter, body semantic.Expression) *semantic.FunctionExpression {
	return &semantic.FunctionExpression{Parameters: params, Block: &semantic.Block{Body: []semantic.Statement{Return(body)}}}
}

// Abstraction with a single parameter: `(a) => a`
func Func1(param string, body semantic.Expression) *semantic.FunctionExpression {
	return Func([]*semantic.FunctionParameter{Param(param)}, body)
}

// Abstraction with a block body: `(a) => { b = a; return b }`
func FuncBlock(params []*semantic.FunctionParameter, body ...semantic.Statement) *semantic.FunctionExpression {
	return &semantic.FunctionExpression{Parameters: params, Block: &semantic.Block{Body: body}}
}

// Application: `f(a: 1)`
func Call(callee semantic.Expression, args ...*semantic.Property) *semantic.CallExpression {
	return &semantic.CallExpression{Callee: callee, Arguments: &semantic.ObjectExpression{Properties: args}}
}

// Pipeline: `tables |> f(a: 1)`
func Pipe(arg semantic.Expression, call *semantic.CallExpression) *semantic.PipeExpression {
	return &semantic.PipeExpression{Argument: arg, Call: call}
}

// Binary operation: `a + b`
func Binary(op semantic.Operator, l, r semantic.Expression) *semantic.BinaryExpression {
	return &semantic.BinaryExpression{Operator: op, Left: l, Right: r}
}

// Addition: `a + b`
func Add(l, r semantic.Expression) *semantic.BinaryExpression {
	return Binary(semantic.AdditionOperator, l, r)
}

// Unary operation: `-a`
func Unary(op semantic.Operator, arg semantic.Expression) *semantic.UnaryExpression {
	return &semantic.UnaryExpression{Operator: op, Argument: arg}
}

// Logical conjunction: `a and b`
func And(l, r semantic.Expression) *semantic.LogicalExpression {
	return &semantic.LogicalExpression{Operator: semantic.AndOperator, Left: l, Right: r}
}

// Logical disjunction: `a or b`
func Or(l, r semantic.Expression) *semantic.LogicalExpression {
	return &semantic.LogicalExpression{Operator: semantic.OrOperator, Left: l, Right: r}
}

// Conditional: `if a then b else c`
func If(test, cons, alt semantic.Expression) *semantic.ConditionalExpression {
	return &semantic.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}
}

// Statements

// Variable assignment: `a = 1`
func Assign(name string, init semantic.Expression) *semantic.NativeVariableAssignment {
	return &semantic.NativeVariableAssignment{Identifier: &semantic.Identifier{Name: name}, Init: init}
}

// Option assignment: `option a = 1`
func Option(name string, init semantic.Expression) *semantic.OptionStatement {
	return &semantic.OptionStatement{Assignment: Assign(name, init)}
}

// Test case: `test t = () => ...`
func Test(name string, init semantic.Expression) *semantic.TestStatement {
	return &semantic.TestStatement{Assignment: Assign(name, init)}
}

// Builtin declaration: `builtin f : (a: A) => A`
func Builtin(name string, p types.PolyType) *semantic.BuiltinStatement {
	return &semantic.BuiltinStatement{ID: &semantic.Identifier{Name: name}, Type: p}
}

// Expression statement
func Expr(e semantic.Expression) *semantic.ExpressionStatement {
	return &semantic.ExpressionStatement{Expression: e}
}

// Return statement: `return a`
func Return(e semantic.Expression) *semantic.ReturnStatement {
	return &semantic.ReturnStatement{Argument: e}
}

// Packages

// Import declaration: `import "path"` or `import as "path"`
func Import(path, as string) *semantic.ImportDeclaration {
	d := &semantic.ImportDeclaration{Path: Str(path)}
	if as != "" {
		d.As = &semantic.Identifier{Name: as}
	}
	return d
}

// Source file
func File(name string, imports []*semantic.ImportDeclaration, body ...semantic.Statement) *semantic.File {
	return &semantic.File{Name: name, Imports: imports, Body: body}
}

// Package of files
func Package(name string, files ...*semantic.File) *semantic.Package {
	return &semantic.Package{Package: name, Files: files}
}
