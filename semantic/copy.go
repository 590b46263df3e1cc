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

// CopyExpr returns a deep copy of e. Inferred types are shared with the original.
func CopyExpr(e Expression) Expression {
	switch e := e.(type) {
	case *IdentifierExpression:
		c := *e
		return &c

	case *IntegerLiteral:
		c := *e
		return &c

	case *UnsignedIntegerLiteral:
		c := *e
		return &c

	case *FloatLiteral:
		c := *e
		return &c

	case *StringLiteral:
		c := *e
		return &c

	case *BooleanLiteral:
		c := *e
		return &c

	case *DurationLiteral:
		c := *e
		c.Values = append([]Duration(nil), e.Values...)
		return &c

	case *DateTimeLiteral:
		c := *e
		return &c

	case *RegexpLiteral:
		c := *e
		return &c

	case *StringExpression:
		c := *e
		c.Parts = make([]StringPart, len(e.Parts))
		for i, p := range e.Parts {
			switch p := p.(type) {
			case *TextPart:
				pc := *p
				c.Parts[i] = &pc
			case *InterpolatedPart:
				c.Parts[i] = &InterpolatedPart{Base: p.Base, Expression: CopyExpr(p.Expression)}
			}
		}
		return &c

	case *ArrayExpression:
		c := *e
		c.Elements = copyExprs(e.Elements)
		return &c

	case *DictExpression:
		c := *e
		c.Elements = make([]DictItem, len(e.Elements))
		for i, item := range e.Elements {
			c.Elements[i] = DictItem{Key: CopyExpr(item.Key), Val: CopyExpr(item.Val)}
		}
		return &c

	case *ObjectExpression:
		return copyObject(e)

	case *MemberExpression:
		c := *e
		c.Object = CopyExpr(e.Object)
		return &c

	case *IndexExpression:
		c := *e
		c.Array, c.Index = CopyExpr(e.Array), CopyExpr(e.Index)
		return &c

	case *FunctionExpression:
		return copyFunction(e)

	case *CallExpression:
		return copyCall(e)

	case *PipeExpression:
		c := *e
		c.Argument = CopyExpr(e.Argument)
		c.Call = copyCall(e.Call)
		return &c

	case *BinaryExpression:
		c := *e
		c.Left, c.Right = CopyExpr(e.Left), CopyExpr(e.Right)
		return &c

	case *UnaryExpression:
		c := *e
		c.Argument = CopyExpr(e.Argument)
		return &c

	case *LogicalExpression:
		c := *e
		c.Left, c.Right = CopyExpr(e.Left), CopyExpr(e.Right)
		return &c

	case *ConditionalExpression:
		c := *e
		c.Test, c.Consequent, c.Alternate = CopyExpr(e.Test), CopyExpr(e.Consequent), CopyExpr(e.Alternate)
		return &c

	case nil:
		return nil

	default:
		panic("unknown expression type: " + e.NodeName())
	}
}

// CopyStatement returns a deep copy of s.
func CopyStatement(s Statement) Statement {
	switch s := s.(type) {
	case *NativeVariableAssignment:
		return copyAssignment(s)
	case *OptionStatement:
		return &OptionStatement{Base: s.Base, Assignment: copyAssignment(s.Assignment)}
	case *TestStatement:
		return &TestStatement{Base: s.Base, Assignment: copyAssignment(s.Assignment)}
	case *BuiltinStatement:
		c := *s
		c.ID = copyIdent(s.ID)
		return &c
	case *ExpressionStatement:
		return &ExpressionStatement{Base: s.Base, Expression: CopyExpr(s.Expression)}
	case *ReturnStatement:
		return &ReturnStatement{Base: s.Base, Argument: CopyExpr(s.Argument)}
	case nil:
		return nil
	default:
		panic("unknown statement type: " + s.NodeName())
	}
}

// CopyBlock returns a deep copy of b.
func CopyBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	body := make([]Statement, len(b.Body))
	for i, s := range b.Body {
		body[i] = CopyStatement(s)
	}
	return &Block{Base: b.Base, Body: body}
}

func copyExprs(es []Expression) []Expression {
	if es == nil {
		return nil
	}
	c := make([]Expression, len(es))
	for i, e := range es {
		c[i] = CopyExpr(e)
	}
	return c
}

func copyIdent(id *Identifier) *Identifier {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func copyAssignment(s *NativeVariableAssignment) *NativeVariableAssignment {
	if s == nil {
		return nil
	}
	c := *s
	c.Identifier = copyIdent(s.Identifier)
	c.Init = CopyExpr(s.Init)
	return &c
}

func copyObject(e *ObjectExpression) *ObjectExpression {
	if e == nil {
		return nil
	}
	c := *e
	if e.With != nil {
		w := *e.With
		c.With = &w
	}
	c.Properties = make([]*Property, len(e.Properties))
	for i, p := range e.Properties {
		c.Properties[i] = &Property{Base: p.Base, Key: copyIdent(p.Key), Value: CopyExpr(p.Value)}
	}
	return &c
}

func copyFunction(e *FunctionExpression) *FunctionExpression {
	if e == nil {
		return nil
	}
	c := *e
	c.Parameters = make([]*FunctionParameter, len(e.Parameters))
	for i, p := range e.Parameters {
		c.Parameters[i] = &FunctionParameter{Base: p.Base, Key: copyIdent(p.Key), Default: CopyExpr(p.Default), IsPipe: p.IsPipe}
	}
	c.Block = CopyBlock(e.Block)
	c.Vectorized = copyFunction(e.Vectorized)
	return &c
}

func copyCall(e *CallExpression) *CallExpression {
	if e == nil {
		return nil
	}
	c := *e
	c.Callee = CopyExpr(e.Callee)
	c.Arguments = copyObject(e.Arguments)
	c.Pipe = CopyExpr(e.Pipe)
	return &c
}
