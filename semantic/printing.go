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
	"strconv"
	"strings"
	"time"

	"github.com/smasher164/xid"
)

// ExprString returns a source-like string representation of an expression.
func ExprString(e Expression) string {
	var sb strings.Builder
	exprString(&sb, false, e)
	return sb.String()
}

// StatementString returns a source-like string representation of a statement.
func StatementString(s Statement) string {
	var sb strings.Builder
	stmtString(&sb, s)
	return sb.String()
}

func stmtString(sb *strings.Builder, s Statement) {
	switch s := s.(type) {
	case *NativeVariableAssignment:
		sb.WriteString(s.Identifier.Name)
		sb.WriteString(" = ")
		exprString(sb, false, s.Init)
	case *OptionStatement:
		sb.WriteString("option ")
		stmtString(sb, s.Assignment)
	case *TestStatement:
		sb.WriteString("test ")
		stmtString(sb, s.Assignment)
	case *BuiltinStatement:
		sb.WriteString("builtin ")
		sb.WriteString(s.ID.Name)
		sb.WriteString(" : ")
		sb.WriteString(s.Type.String())
	case *ExpressionStatement:
		exprString(sb, false, s.Expression)
	case *ReturnStatement:
		sb.WriteString("return ")
		exprString(sb, false, s.Argument)
	default:
		panic("unknown statement type: " + s.NodeName())
	}
}

// simple is set when e appears as an operand and compound expressions must be parenthesized.
func exprString(sb *strings.Builder, simple bool, e Expression) {
	switch e := e.(type) {
	case *IdentifierExpression:
		sb.WriteString(e.Name)

	case *IntegerLiteral:
		sb.WriteString(strconv.FormatInt(e.Value, 10))

	case *UnsignedIntegerLiteral:
		sb.WriteString(strconv.FormatUint(e.Value, 10))

	case *FloatLiteral:
		s := strconv.FormatFloat(e.Value, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		sb.WriteString(s)

	case *StringLiteral:
		sb.WriteString(strconv.Quote(e.Value))

	case *BooleanLiteral:
		sb.WriteString(strconv.FormatBool(e.Value))

	case *DurationLiteral:
		for _, d := range e.Values {
			sb.WriteString(strconv.FormatInt(d.Magnitude, 10))
			sb.WriteString(d.Unit)
		}

	case *DateTimeLiteral:
		sb.WriteString(e.Value.Format(time.RFC3339Nano))

	case *RegexpLiteral:
		sb.WriteByte('/')
		sb.WriteString(strings.ReplaceAll(e.Value, "/", `\/`))
		sb.WriteByte('/')

	case *StringExpression:
		sb.WriteByte('"')
		for _, p := range e.Parts {
			switch p := p.(type) {
			case *TextPart:
				q := strconv.Quote(p.Value)
				sb.WriteString(q[1 : len(q)-1])
			case *InterpolatedPart:
				sb.WriteString("${")
				exprString(sb, false, p.Expression)
				sb.WriteByte('}')
			}
		}
		sb.WriteByte('"')

	case *ArrayExpression:
		sb.WriteByte('[')
		for i, el := range e.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, false, el)
		}
		sb.WriteByte(']')

	case *DictExpression:
		if len(e.Elements) == 0 {
			sb.WriteString("[:]")
			return
		}
		sb.WriteByte('[')
		for i, item := range e.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, false, item.Key)
			sb.WriteString(": ")
			exprString(sb, false, item.Val)
		}
		sb.WriteByte(']')

	case *ObjectExpression:
		sb.WriteByte('{')
		if e.With != nil {
			sb.WriteString(e.With.Name)
			sb.WriteString(" with ")
		}
		propertiesString(sb, e.Properties)
		sb.WriteByte('}')

	case *MemberExpression:
		exprString(sb, true, e.Object)
		if IsIdentifier(e.Property) {
			sb.WriteByte('.')
			sb.WriteString(e.Property)
		} else {
			sb.WriteByte('[')
			sb.WriteString(strconv.Quote(e.Property))
			sb.WriteByte(']')
		}

	case *IndexExpression:
		exprString(sb, true, e.Array)
		sb.WriteByte('[')
		exprString(sb, false, e.Index)
		sb.WriteByte(']')

	case *FunctionExpression:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteByte('(')
		for i, p := range e.Parameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Key.Name)
			if p.IsPipe {
				sb.WriteString("=<-")
			} else if p.Default != nil {
				sb.WriteByte('=')
				exprString(sb, false, p.Default)
			}
		}
		sb.WriteString(") => ")
		blockString(sb, e.Block)
		if simple {
			sb.WriteByte(')')
		}

	case *CallExpression:
		exprString(sb, true, e.Callee)
		sb.WriteByte('(')
		if e.Arguments != nil {
			propertiesString(sb, e.Arguments.Properties)
		}
		sb.WriteByte(')')

	case *PipeExpression:
		if simple {
			sb.WriteByte('(')
		}
		exprString(sb, false, e.Argument)
		sb.WriteString(" |> ")
		exprString(sb, false, e.Call)
		if simple {
			sb.WriteByte(')')
		}

	case *BinaryExpression:
		if simple {
			sb.WriteByte('(')
		}
		exprString(sb, true, e.Left)
		sb.WriteByte(' ')
		sb.WriteString(e.Operator.String())
		sb.WriteByte(' ')
		exprString(sb, true, e.Right)
		if simple {
			sb.WriteByte(')')
		}

	case *UnaryExpression:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString(e.Operator.String())
		if e.Operator != SubtractionOperator && e.Operator != AdditionOperator {
			sb.WriteByte(' ')
		}
		exprString(sb, true, e.Argument)
		if simple {
			sb.WriteByte(')')
		}

	case *LogicalExpression:
		if simple {
			sb.WriteByte('(')
		}
		exprString(sb, true, e.Left)
		sb.WriteByte(' ')
		sb.WriteString(e.Operator.String())
		sb.WriteByte(' ')
		exprString(sb, true, e.Right)
		if simple {
			sb.WriteByte(')')
		}

	case *ConditionalExpression:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("if ")
		exprString(sb, false, e.Test)
		sb.WriteString(" then ")
		exprString(sb, false, e.Consequent)
		sb.WriteString(" else ")
		exprString(sb, false, e.Alternate)
		if simple {
			sb.WriteByte(')')
		}

	case nil:
		sb.WriteString("<nil>")

	default:
		panic("unknown expression type: " + e.NodeName())
	}
}

func propertiesString(sb *strings.Builder, props []*Property) {
	for i, p := range props {
		if i > 0 {
			sb.WriteString(", ")
		}
		if IsIdentifier(p.Key.Name) {
			sb.WriteString(p.Key.Name)
		} else {
			sb.WriteString(strconv.Quote(p.Key.Name))
		}
		sb.WriteString(": ")
		exprString(sb, false, p.Value)
	}
}

// Single-return blocks print as the returned expression.
func blockString(sb *strings.Builder, b *Block) {
	if b == nil {
		sb.WriteString("{}")
		return
	}
	if len(b.Body) == 1 {
		if ret, ok := b.Body[0].(*ReturnStatement); ok {
			if _, isObj := ret.Argument.(*ObjectExpression); isObj {
				sb.WriteByte('(')
				exprString(sb, false, ret.Argument)
				sb.WriteByte(')')
				return
			}
			exprString(sb, false, ret.Argument)
			return
		}
	}
	sb.WriteString("{ ")
	for i, s := range b.Body {
		if i > 0 {
			sb.WriteString("; ")
		}
		stmtString(sb, s)
	}
	sb.WriteString(" }")
}

// IsIdentifier reports whether s may be written as a bare identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !(r == '_' || xid.Start(r)) {
			return false
		}
		if i > 0 && !xid.Continue(r) {
			return false
		}
	}
	return true
}
