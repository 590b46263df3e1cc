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

package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/flowtype/types"
)

func ident(name string) *IdentifierExpression { return &IdentifierExpression{Name: name} }

func prop(name string, v Expression) *Property {
	return &Property{Key: &Identifier{Name: name}, Value: v}
}

func ret(e Expression) *Block {
	return &Block{Body: []Statement{&ReturnStatement{Argument: e}}}
}

// (r) => r.a + 1
func addFn() *FunctionExpression {
	return &FunctionExpression{
		Parameters: []*FunctionParameter{{Key: &Identifier{Name: "r"}}},
		Block: ret(&BinaryExpression{
			Operator: AdditionOperator,
			Left:     &MemberExpression{Object: ident("r"), Property: "a"},
			Right:    &IntegerLiteral{Value: 1},
		}),
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		e    Expression
		want string
	}{
		{addFn(), "(r) => r.a + 1"},
		{&ObjectExpression{With: ident("r"), Properties: []*Property{prop("b", &StringLiteral{Value: "x"})}}, `{r with b: "x"}`},
		{&ArrayExpression{Elements: []Expression{&FloatLiteral{Value: 1}, &FloatLiteral{Value: 2.5}}}, "[1.0, 2.5]"},
		{&DictExpression{}, "[:]"},
		{&MemberExpression{Object: ident("r"), Property: "my field"}, `r["my field"]`},
		{&PipeExpression{
			Argument: ident("tables"),
			Call: &CallExpression{
				Callee:    ident("fill"),
				Arguments: &ObjectExpression{Properties: []*Property{prop("column", &StringLiteral{Value: "a"})}},
			},
		}, `tables |> fill(column: "a")`},
		{&BinaryExpression{
			Operator: MultiplicationOperator,
			Left:     &BinaryExpression{Operator: AdditionOperator, Left: ident("a"), Right: ident("b")},
			Right:    ident("c"),
		}, "(a + b) * c"},
		{&UnaryExpression{Operator: NotOperator, Argument: ident("a")}, "not a"},
		{&LogicalExpression{Operator: OrOperator, Left: ident("a"), Right: ident("b")}, "a or b"},
		{&ConditionalExpression{Test: ident("a"), Consequent: &IntegerLiteral{Value: 1}, Alternate: &IntegerLiteral{Value: 2}}, "if a then 1 else 2"},
		{&StringExpression{Parts: []StringPart{&TextPart{Value: "n="}, &InterpolatedPart{Expression: ident("n")}}}, `"n=${n}"`},
		{&DurationLiteral{Values: []Duration{{1, "h"}, {30, "m"}}}, "1h30m"},
		{&RegexpLiteral{Value: "a/b"}, `/a\/b/`},
		{&FunctionExpression{
			Parameters: []*FunctionParameter{{Key: &Identifier{Name: "tables"}, IsPipe: true}, {Key: &Identifier{Name: "n"}, Default: &IntegerLiteral{Value: 2}}},
			Block:      ret(ident("tables")),
		}, "(tables=<-, n=2) => tables"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExprString(c.e))
	}
}

func TestWalkOrder(t *testing.T) {
	var names []string
	WalkFunc(addFn(), func(n Node) { names = append(names, n.NodeName()) })
	want := []string{
		"FunctionExpression", "FunctionParameter", "Identifier", "Block", "ReturnStatement",
		"BinaryExpression", "MemberExpression", "IdentifierExpression", "IntegerLiteral",
	}
	require.Equal(t, want, names)
}

type countVisitor struct {
	visited, done int
	skip          string
}

func (v *countVisitor) Visit(n Node) Visitor {
	v.visited++
	if n.NodeName() == v.skip {
		return nil
	}
	return v
}

func (v *countVisitor) Done(Node) { v.done++ }

func TestWalkSkipsChildren(t *testing.T) {
	v := &countVisitor{skip: "Block"}
	Walk(v, addFn())
	// FunctionExpression, FunctionParameter, Identifier, Block
	assert.Equal(t, 4, v.visited)
	assert.Equal(t, 3, v.done)
}

func TestCopyExpr(t *testing.T) {
	orig := addFn()
	orig.SetType(types.NewFunction(map[string]types.MonoType{"r": types.NewVar(1)}, types.Int))
	c := CopyExpr(orig).(*FunctionExpression)
	require.Equal(t, ExprString(orig), ExprString(c))
	require.Same(t, orig.Type(), c.Type())

	c.Parameters[0].Key.Name = "s"
	c.Block.ReturnStatement().Argument.(*BinaryExpression).Right.(*IntegerLiteral).Value = 2
	assert.Equal(t, "(r) => r.a + 1", ExprString(orig))
	assert.Equal(t, "(s) => r.a + 2", ExprString(c))
}

func TestImportName(t *testing.T) {
	assert.Equal(t, "csv", (&ImportDeclaration{Path: &StringLiteral{Value: "experimental/csv"}}).Name())
	assert.Equal(t, "c", (&ImportDeclaration{As: &Identifier{Name: "c"}, Path: &StringLiteral{Value: "csv"}}).Name())
}

func TestLoc(t *testing.T) {
	a := Loc{File: "a.flux", Start: Position{1, 5}, End: Position{1, 9}}
	b := Loc{File: "a.flux", Start: Position{2, 1}, End: Position{2, 3}}
	assert.Equal(t, "a.flux@1:5-1:9", a.String())
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, Loc{}.IsValid())
}

func TestDump(t *testing.T) {
	e := &IntegerLiteral{Base: Base{Loc: Loc{Start: Position{3, 4}}}, Value: 42}
	out := Dump(e)
	assert.True(t, strings.Contains(out, "IntegerLiteral"), out)
	assert.True(t, strings.Contains(out, "42"), out)
}
