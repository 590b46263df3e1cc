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

// Visitor visits nodes of the semantic graph. If Visit returns a non-nil visitor w, the children
// of node are walked with w and w.Done(node) is called afterwards.
type Visitor interface {
	Visit(node Node) Visitor
	Done(node Node)
}

// Walk traverses the graph rooted at node in depth-first, source order.
func Walk(v Visitor, node Node) {
	if node == nil || isNilNode(node) {
		return
	}
	w := v.Visit(node)
	if w == nil {
		return
	}
	walkChildren(w, node)
	w.Done(node)
}

// WalkFunc calls f for each node of the graph rooted at node, in pre-order.
func WalkFunc(node Node, f func(Node)) {
	Walk(funcVisitor(f), node)
}

type funcVisitor func(Node)

func (f funcVisitor) Visit(node Node) Visitor {
	f(node)
	return f
}

func (funcVisitor) Done(Node) {}

// CreateVisitor adapts a function to a Visitor which always continues into children.
func CreateVisitor(f func(Node)) Visitor { return funcVisitor(f) }

func walkChildren(v Visitor, node Node) {
	switch n := node.(type) {
	case *Package:
		for _, f := range n.Files {
			Walk(v, f)
		}

	case *File:
		if n.Package != nil {
			Walk(v, n.Package)
		}
		for _, imp := range n.Imports {
			Walk(v, imp)
		}
		for _, s := range n.Body {
			Walk(v, s)
		}

	case *PackageClause:
		if n.Name != nil {
			Walk(v, n.Name)
		}

	case *ImportDeclaration:
		if n.As != nil {
			Walk(v, n.As)
		}
		if n.Path != nil {
			Walk(v, n.Path)
		}

	case *Block:
		for _, s := range n.Body {
			Walk(v, s)
		}

	case *NativeVariableAssignment:
		if n.Identifier != nil {
			Walk(v, n.Identifier)
		}
		Walk(v, n.Init)

	case *OptionStatement:
		if n.Assignment != nil {
			Walk(v, n.Assignment)
		}

	case *TestStatement:
		if n.Assignment != nil {
			Walk(v, n.Assignment)
		}

	case *BuiltinStatement:
		if n.ID != nil {
			Walk(v, n.ID)
		}

	case *ExpressionStatement:
		Walk(v, n.Expression)

	case *ReturnStatement:
		Walk(v, n.Argument)

	case *StringExpression:
		for _, p := range n.Parts {
			Walk(v, p)
		}

	case *InterpolatedPart:
		Walk(v, n.Expression)

	case *ArrayExpression:
		for _, e := range n.Elements {
			Walk(v, e)
		}

	case *DictExpression:
		for _, item := range n.Elements {
			Walk(v, item.Key)
			Walk(v, item.Val)
		}

	case *ObjectExpression:
		if n.With != nil {
			Walk(v, n.With)
		}
		for _, p := range n.Properties {
			Walk(v, p)
		}

	case *Property:
		if n.Key != nil {
			Walk(v, n.Key)
		}
		Walk(v, n.Value)

	case *MemberExpression:
		Walk(v, n.Object)

	case *IndexExpression:
		Walk(v, n.Array)
		Walk(v, n.Index)

	case *FunctionExpression:
		for _, p := range n.Parameters {
			Walk(v, p)
		}
		if n.Block != nil {
			Walk(v, n.Block)
		}

	case *FunctionParameter:
		if n.Key != nil {
			Walk(v, n.Key)
		}
		Walk(v, n.Default)

	case *CallExpression:
		Walk(v, n.Callee)
		if n.Arguments != nil {
			Walk(v, n.Arguments)
		}

	case *PipeExpression:
		Walk(v, n.Argument)
		if n.Call != nil {
			Walk(v, n.Call)
		}

	case *BinaryExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *UnaryExpression:
		Walk(v, n.Argument)

	case *LogicalExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *ConditionalExpression:
		Walk(v, n.Test)
		Walk(v, n.Consequent)
		Walk(v, n.Alternate)

	case *Identifier, *IdentifierExpression, *TextPart,
		*IntegerLiteral, *UnsignedIntegerLiteral, *FloatLiteral, *StringLiteral, *BooleanLiteral,
		*DurationLiteral, *DateTimeLiteral, *RegexpLiteral:

	default:
		panic("unknown node type: " + node.NodeName())
	}
}

// isNilNode reports whether node is a typed nil pointer, such as an absent optional child.
func isNilNode(node Node) bool {
	switch n := node.(type) {
	case Expression:
		return isNilExpr(n)
	case *Identifier:
		return n == nil
	case *Block:
		return n == nil
	case *Property:
		return n == nil
	case *FunctionParameter:
		return n == nil
	}
	return false
}

func isNilExpr(e Expression) bool {
	switch e := e.(type) {
	case *IdentifierExpression:
		return e == nil
	case *ObjectExpression:
		return e == nil
	case *CallExpression:
		return e == nil
	case *FunctionExpression:
		return e == nil
	case *StringLiteral:
		return e == nil
	}
	return false
}
