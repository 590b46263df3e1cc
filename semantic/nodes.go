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

// Package semantic contains the semantic graph of the query language: packages, files,
// statements and expressions produced from a checked syntax tree. Every expression carries a
// source location and a type slot which is filled during inference.
package semantic

import (
	"time"

	"github.com/wdamron/flowtype/types"
)

// Node is the base for all nodes of the semantic graph.
type Node interface {
	// Name of the syntax-type of the node.
	NodeName() string
	// Location of the node within its source file.
	Location() Loc
}

// Expression is the base for all expressions.
type Expression interface {
	Node
	// Type returns the inferred type of an expression. Expression types are only available after type-inference.
	Type() types.MonoType
	// Assign a type to an expression. Type assignments should occur indirectly, during inference.
	SetType(types.MonoType)
}

// Statement is the base for all statements.
type Statement interface {
	Node
	stmt()
}

var (
	_ Expression = (*IdentifierExpression)(nil)
	_ Expression = (*IntegerLiteral)(nil)
	_ Expression = (*UnsignedIntegerLiteral)(nil)
	_ Expression = (*FloatLiteral)(nil)
	_ Expression = (*StringLiteral)(nil)
	_ Expression = (*BooleanLiteral)(nil)
	_ Expression = (*DurationLiteral)(nil)
	_ Expression = (*DateTimeLiteral)(nil)
	_ Expression = (*RegexpLiteral)(nil)
	_ Expression = (*StringExpression)(nil)
	_ Expression = (*ArrayExpression)(nil)
	_ Expression = (*DictExpression)(nil)
	_ Expression = (*ObjectExpression)(nil)
	_ Expression = (*MemberExpression)(nil)
	_ Expression = (*IndexExpression)(nil)
	_ Expression = (*FunctionExpression)(nil)
	_ Expression = (*CallExpression)(nil)
	_ Expression = (*PipeExpression)(nil)
	_ Expression = (*BinaryExpression)(nil)
	_ Expression = (*UnaryExpression)(nil)
	_ Expression = (*LogicalExpression)(nil)
	_ Expression = (*ConditionalExpression)(nil)

	_ Statement = (*NativeVariableAssignment)(nil)
	_ Statement = (*OptionStatement)(nil)
	_ Statement = (*BuiltinStatement)(nil)
	_ Statement = (*ExpressionStatement)(nil)
	_ Statement = (*ReturnStatement)(nil)
	_ Statement = (*TestStatement)(nil)
)

// Base holds the source location of a node.
type Base struct {
	Loc Loc
}

// Location of the node within its source file.
func (b *Base) Location() Loc { return b.Loc }

// Assign the source location of the node.
func (b *Base) SetLocation(l Loc) { b.Loc = l }

type typed struct {
	typ types.MonoType
}

// Get the inferred (or assigned) type of e.
func (e *typed) Type() types.MonoType { return e.typ }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *typed) SetType(t types.MonoType) { e.typ = t }

// Package is a set of files sharing a package clause.
type Package struct {
	Base
	Package string
	Files   []*File
}

func (*Package) NodeName() string { return "Package" }

// File is a single source file.
type File struct {
	Base
	Name    string
	Package *PackageClause
	Imports []*ImportDeclaration
	Body    []Statement
}

func (*File) NodeName() string { return "File" }

// PackageClause names the package of a file: `package csv`
type PackageClause struct {
	Base
	Name *Identifier
}

func (*PackageClause) NodeName() string { return "PackageClause" }

// ImportDeclaration: `import c "csv"`
type ImportDeclaration struct {
	Base
	As   *Identifier
	Path *StringLiteral
}

func (*ImportDeclaration) NodeName() string { return "ImportDeclaration" }

// Name returns the identifier the import is bound to: the alias, or the last element of the path.
func (d *ImportDeclaration) Name() string {
	if d.As != nil {
		return d.As.Name
	}
	path := d.Path.Value
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// Identifier names a binding, a property or a parameter.
type Identifier struct {
	Base
	Name string
}

func (*Identifier) NodeName() string { return "Identifier" }

// Block is a sequence of statements forming a function body. The last statement of a function
// body is a ReturnStatement.
type Block struct {
	Base
	Body []Statement
}

func (*Block) NodeName() string { return "Block" }

// ReturnStatement returns the value of the block's function.
func (b *Block) ReturnStatement() *ReturnStatement {
	if len(b.Body) == 0 {
		return nil
	}
	ret, _ := b.Body[len(b.Body)-1].(*ReturnStatement)
	return ret
}

// Statements

// Variable assignment: `x = 1`
type NativeVariableAssignment struct {
	Base
	Identifier *Identifier
	Init       Expression
	// generalized type of the binding, assigned during inference
	typ types.PolyType
}

func (*NativeVariableAssignment) NodeName() string { return "NativeVariableAssignment" }
func (*NativeVariableAssignment) stmt()            {}

// Get the generalized type of the binding.
func (s *NativeVariableAssignment) Type() types.PolyType { return s.typ }

// Assign a generalized type to the binding. Type assignments should occur indirectly, during inference.
func (s *NativeVariableAssignment) SetType(t types.PolyType) { s.typ = t }

// Option statement: `option now = () => 2020-01-01T00:00:00Z`
type OptionStatement struct {
	Base
	Assignment *NativeVariableAssignment
}

func (*OptionStatement) NodeName() string { return "OptionStatement" }
func (*OptionStatement) stmt()            {}

// Builtin statement declares the type of a value provided by the runtime:
// `builtin fill : (<-tables: [A], column: B, value: C) => [A] where B: Label`
type BuiltinStatement struct {
	Base
	ID   *Identifier
	Type types.PolyType
}

func (*BuiltinStatement) NodeName() string { return "BuiltinStatement" }
func (*BuiltinStatement) stmt()            {}

// Expression statement
type ExpressionStatement struct {
	Base
	Expression Expression
}

func (*ExpressionStatement) NodeName() string { return "ExpressionStatement" }
func (*ExpressionStatement) stmt()            {}

// Return statement: `return r`
type ReturnStatement struct {
	Base
	Argument Expression
}

func (*ReturnStatement) NodeName() string { return "ReturnStatement" }
func (*ReturnStatement) stmt()            {}

// Test statement: `test t = () => ({input: ..., want: ...})`
type TestStatement struct {
	Base
	Assignment *NativeVariableAssignment
}

func (*TestStatement) NodeName() string { return "TestStatement" }
func (*TestStatement) stmt()            {}

// Expressions

// Variable reference
type IdentifierExpression struct {
	Base
	typed
	Name string
}

func (*IdentifierExpression) NodeName() string { return "IdentifierExpression" }

// Integer literal: `1`
type IntegerLiteral struct {
	Base
	typed
	Value int64
}

func (*IntegerLiteral) NodeName() string { return "IntegerLiteral" }

// Unsigned integer literal
type UnsignedIntegerLiteral struct {
	Base
	typed
	Value uint64
}

func (*UnsignedIntegerLiteral) NodeName() string { return "UnsignedIntegerLiteral" }

// Float literal: `1.0`
type FloatLiteral struct {
	Base
	typed
	Value float64
}

func (*FloatLiteral) NodeName() string { return "FloatLiteral" }

// String literal: `"a"`
type StringLiteral struct {
	Base
	typed
	Value string
}

func (*StringLiteral) NodeName() string { return "StringLiteral" }

// Boolean literal: `true`
type BooleanLiteral struct {
	Base
	typed
	Value bool
}

func (*BooleanLiteral) NodeName() string { return "BooleanLiteral" }

// Duration is a single magnitude and unit of a duration literal.
type Duration struct {
	Magnitude int64
	Unit      string
}

// Duration literal: `1h30m`
type DurationLiteral struct {
	Base
	typed
	Values []Duration
}

func (*DurationLiteral) NodeName() string { return "DurationLiteral" }

// Date-time literal: `2020-01-01T00:00:00Z`
type DateTimeLiteral struct {
	Base
	typed
	Value time.Time
}

func (*DateTimeLiteral) NodeName() string { return "DateTimeLiteral" }

// Regular expression literal: `/^a+$/`
type RegexpLiteral struct {
	Base
	typed
	Value string
}

func (*RegexpLiteral) NodeName() string { return "RegexpLiteral" }

// StringPart is a part of an interpolated string: TextPart or InterpolatedPart.
type StringPart interface {
	Node
	stringPart()
}

// Literal text within an interpolated string
type TextPart struct {
	Base
	Value string
}

func (*TextPart) NodeName() string { return "TextPart" }
func (*TextPart) stringPart()      {}

// Interpolated expression: `${x}`
type InterpolatedPart struct {
	Base
	Expression Expression
}

func (*InterpolatedPart) NodeName() string { return "InterpolatedPart" }
func (*InterpolatedPart) stringPart()      {}

// Interpolated string: `"a${x}b"`
type StringExpression struct {
	Base
	typed
	Parts []StringPart
}

func (*StringExpression) NodeName() string { return "StringExpression" }

// Array: `[1, 2, 3]`
type ArrayExpression struct {
	Base
	typed
	Elements []Expression
}

func (*ArrayExpression) NodeName() string { return "ArrayExpression" }

// Paired key and value of a dictionary
type DictItem struct {
	Key Expression
	Val Expression
}

// Dictionary: `["a": 1, "b": 2]`
type DictExpression struct {
	Base
	typed
	Elements []DictItem
}

func (*DictExpression) NodeName() string { return "DictExpression" }

// Paired key and value of a record
type Property struct {
	Base
	Key   *Identifier
	Value Expression
}

func (*Property) NodeName() string { return "Property" }

// Record: `{a: 1, b: 2}` or `{r with a: 1}`. Later properties shadow earlier ones.
type ObjectExpression struct {
	Base
	typed
	With       *IdentifierExpression
	Properties []*Property
}

func (*ObjectExpression) NodeName() string { return "ObjectExpression" }

// Selecting value of label: `r.a` or `r["a"]`
type MemberExpression struct {
	Base
	typed
	Object   Expression
	Property string
}

func (*MemberExpression) NodeName() string { return "MemberExpression" }

// Indexing an array: `a[0]`
type IndexExpression struct {
	Base
	typed
	Array Expression
	Index Expression
}

func (*IndexExpression) NodeName() string { return "IndexExpression" }

// Function parameter. A pipe parameter receives the left-hand side of `|>`; Default is nil
// for required parameters.
type FunctionParameter struct {
	Base
	Key     *Identifier
	Default Expression
	IsPipe  bool
}

func (*FunctionParameter) NodeName() string { return "FunctionParameter" }

// Abstraction: `(r, n=1) => r.a + n`
type FunctionExpression struct {
	Base
	typed
	Parameters []*FunctionParameter
	Block      *Block
	// vectorized form of the function, assigned by the vectorization pass
	Vectorized *FunctionExpression
}

func (*FunctionExpression) NodeName() string { return "FunctionExpression" }

// Pipe returns the pipe parameter, or nil.
func (e *FunctionExpression) Pipe() *FunctionParameter {
	for _, p := range e.Parameters {
		if p.IsPipe {
			return p
		}
	}
	return nil
}

// Application: `f(a: 1)`. Pipe holds the left-hand side of an enclosing PipeExpression.
type CallExpression struct {
	Base
	typed
	Callee    Expression
	Arguments *ObjectExpression
	Pipe      Expression
}

func (*CallExpression) NodeName() string { return "CallExpression" }

// Pipeline: `tables |> f(a: 1)`
type PipeExpression struct {
	Base
	typed
	Argument Expression
	Call     *CallExpression
}

func (*PipeExpression) NodeName() string { return "PipeExpression" }

// Binary operation: `a + b`
type BinaryExpression struct {
	Base
	typed
	Operator Operator
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) NodeName() string { return "BinaryExpression" }

// Unary operation: `-a`, `not a`, `exists r.a`
type UnaryExpression struct {
	Base
	typed
	Operator Operator
	Argument Expression
}

func (*UnaryExpression) NodeName() string { return "UnaryExpression" }

// Logical operation: `a and b`
type LogicalExpression struct {
	Base
	typed
	Operator LogicalOperator
	Left     Expression
	Right    Expression
}

func (*LogicalExpression) NodeName() string { return "LogicalExpression" }

// Conditional: `if a then b else c`
type ConditionalExpression struct {
	Base
	typed
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (*ConditionalExpression) NodeName() string { return "ConditionalExpression" }

// Operator of a binary or unary expression
type Operator int

const (
	AdditionOperator Operator = iota
	SubtractionOperator
	MultiplicationOperator
	DivisionOperator
	ModuloOperator
	PowerOperator
	LessThanOperator
	LessThanEqualOperator
	GreaterThanOperator
	GreaterThanEqualOperator
	EqualOperator
	NotEqualOperator
	RegexpMatchOperator
	NotRegexpMatchOperator
	NotOperator
	ExistsOperator
)

var operatorNames = [...]string{
	AdditionOperator:         "+",
	SubtractionOperator:      "-",
	MultiplicationOperator:   "*",
	DivisionOperator:         "/",
	ModuloOperator:           "%",
	PowerOperator:            "^",
	LessThanOperator:         "<",
	LessThanEqualOperator:    "<=",
	GreaterThanOperator:      ">",
	GreaterThanEqualOperator: ">=",
	EqualOperator:            "==",
	NotEqualOperator:         "!=",
	RegexpMatchOperator:      "=~",
	NotRegexpMatchOperator:   "!~",
	NotOperator:              "not",
	ExistsOperator:           "exists",
}

func (o Operator) String() string {
	if o >= 0 && int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return "?"
}

// Operator of a logical expression
type LogicalOperator int

const (
	AndOperator LogicalOperator = iota
	OrOperator
)

func (o LogicalOperator) String() string {
	if o == OrOperator {
		return "or"
	}
	return "and"
}
