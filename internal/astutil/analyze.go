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

package astutil

import (
	"github.com/pkg/errors"

	"github.com/wdamron/flowtype/semantic"
)

// Analysis finds the identifiers referenced by a semantic node which are not bound within it.
//
//   Bindings are introduced by imports, variable assignments (for the statements which follow
//   the assignment), builtin statements and function parameters. A shadowed binding is stashed
//   and restored when the shadowing scope ends.
type Analysis struct {
	Scopes     map[string]int // map from bound name to the depth of its innermost binding
	ScopeStash []StashedScope // shadowed bindings
	Free       []string       // free identifiers, in order of first reference
	Err        error
	Invalid    semantic.Node

	depth int
	free  map[string]struct{}

	// initial space:
	_scopeStash [16]StashedScope
	_free       [16]string
}

type StashedScope struct {
	Name  string
	Depth int
}

func (a *Analysis) Init() {
	a.Scopes = make(map[string]int, 32)
	a.free = make(map[string]struct{}, 16)
	a.ScopeStash, a.Free = a._scopeStash[:0], a._free[:0]
}

func (a *Analysis) Reset() {
	for v := range a.Scopes {
		delete(a.Scopes, v)
	}
	for v := range a.free {
		delete(a.free, v)
	}
	for i := range a._scopeStash {
		a._scopeStash[i] = StashedScope{}
	}
	for i := range a._free {
		a._free[i] = ""
	}
	a.ScopeStash, a.Free, a.Err, a.Invalid, a.depth = a._scopeStash[:0], a._free[:0], nil, nil, 0
}

// FreeIdentifiers returns the identifiers referenced but not bound within node, in order of
// first reference.
func FreeIdentifiers(node semantic.Node) ([]string, error) {
	var a Analysis
	a.Init()
	if err := a.Analyze(node); err != nil {
		return nil, err
	}
	return append([]string(nil), a.Free...), nil
}

func (a *Analysis) Analyze(node semantic.Node) error {
	if a.Scopes == nil {
		a.Init()
	}
	if err := a.analyze(node); err != nil {
		a.Err = err
		return err
	}
	return nil
}

// returns 1 if the name was stashed, otherwise 0
func (a *Analysis) stash(name string) int {
	if depth, exists := a.Scopes[name]; exists {
		a.ScopeStash = append(a.ScopeStash, StashedScope{name, depth})
		return 1
	}
	return 0
}

func (a *Analysis) unstash(count int) {
	if count <= 0 {
		return
	}
	stash := a.ScopeStash
	unstashed := 0
	for i := len(stash) - 1; unstashed < count && i >= 0; i, unstashed = i-1, unstashed+1 {
		a.Scopes[stash[i].Name] = stash[i].Depth
	}
	a.ScopeStash = a.ScopeStash[0 : len(stash)-unstashed]
}

// scope tracks the bindings introduced within a single lexical scope.
type scope struct {
	names   []string
	stashed int
}

func (a *Analysis) bind(sc *scope, name string) {
	sc.stashed += a.stash(name)
	sc.names = append(sc.names, name)
	a.Scopes[name] = a.depth
}

func (a *Analysis) exit(sc *scope) {
	for i := len(sc.names) - 1; i >= 0; i-- {
		delete(a.Scopes, sc.names[i])
	}
	a.unstash(sc.stashed)
}

func (a *Analysis) ref(name string) {
	if _, bound := a.Scopes[name]; bound {
		return
	}
	if _, seen := a.free[name]; !seen {
		a.free[name] = struct{}{}
		a.Free = append(a.Free, name)
	}
}

func (a *Analysis) statements(sc *scope, body []semantic.Statement) error {
	for _, s := range body {
		if err := a.statement(sc, s); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analysis) statement(sc *scope, s semantic.Statement) error {
	switch s := s.(type) {
	case *semantic.NativeVariableAssignment:
		if err := a.analyze(s.Init); err != nil {
			return err
		}
		a.bind(sc, s.Identifier.Name)
	case *semantic.OptionStatement:
		return a.statement(sc, s.Assignment)
	case *semantic.TestStatement:
		return a.statement(sc, s.Assignment)
	case *semantic.BuiltinStatement:
		a.bind(sc, s.ID.Name)
	case *semantic.ExpressionStatement:
		return a.analyze(s.Expression)
	case *semantic.ReturnStatement:
		return a.analyze(s.Argument)
	case nil:
		return errors.New("failed to analyze nil statement")
	default:
		a.Invalid = s
		return errors.New("failed to analyze " + s.NodeName() + " statement")
	}
	return nil
}

func (a *Analysis) analyze(node semantic.Node) error {
	switch n := node.(type) {
	case *semantic.Package:
		for _, f := range n.Files {
			if err := a.analyze(f); err != nil {
				return err
			}
		}

	case *semantic.File:
		var sc scope
		for _, imp := range n.Imports {
			a.bind(&sc, imp.Name())
		}
		err := a.statements(&sc, n.Body)
		a.exit(&sc)
		return err

	case *semantic.Block:
		var sc scope
		err := a.statements(&sc, n.Body)
		a.exit(&sc)
		return err

	case semantic.Statement:
		// a lone statement binds within its own scope
		var sc scope
		err := a.statement(&sc, n)
		a.exit(&sc)
		return err

	case *semantic.IdentifierExpression:
		a.ref(n.Name)

	case *semantic.IntegerLiteral, *semantic.UnsignedIntegerLiteral, *semantic.FloatLiteral,
		*semantic.StringLiteral, *semantic.BooleanLiteral, *semantic.DurationLiteral,
		*semantic.DateTimeLiteral, *semantic.RegexpLiteral:
		// nothing to check

	case *semantic.StringExpression:
		for _, p := range n.Parts {
			if ip, ok := p.(*semantic.InterpolatedPart); ok {
				if err := a.analyze(ip.Expression); err != nil {
					return err
				}
			}
		}

	case *semantic.ArrayExpression:
		for _, e := range n.Elements {
			if err := a.analyze(e); err != nil {
				return err
			}
		}

	case *semantic.DictExpression:
		for _, item := range n.Elements {
			if err := a.analyze(item.Key); err != nil {
				return err
			}
			if err := a.analyze(item.Val); err != nil {
				return err
			}
		}

	case *semantic.ObjectExpression:
		if n.With != nil {
			a.ref(n.With.Name)
		}
		for _, p := range n.Properties {
			if err := a.analyze(p.Value); err != nil {
				return err
			}
		}

	case *semantic.MemberExpression:
		return a.analyze(n.Object)

	case *semantic.IndexExpression:
		if err := a.analyze(n.Array); err != nil {
			return err
		}
		return a.analyze(n.Index)

	case *semantic.FunctionExpression:
		// a default may refer to the parameters which precede it
		a.depth++
		var sc scope
		var err error
		for _, p := range n.Parameters {
			if p.Default != nil {
				if err = a.analyze(p.Default); err != nil {
					break
				}
			}
			a.bind(&sc, p.Key.Name)
		}
		if err == nil && n.Block != nil {
			err = a.analyze(n.Block)
		}
		a.exit(&sc)
		a.depth--
		return err

	case *semantic.CallExpression:
		if err := a.analyze(n.Callee); err != nil {
			return err
		}
		if n.Arguments != nil {
			if err := a.analyze(n.Arguments); err != nil {
				return err
			}
		}
		if n.Pipe != nil {
			return a.analyze(n.Pipe)
		}

	case *semantic.PipeExpression:
		if err := a.analyze(n.Argument); err != nil {
			return err
		}
		if n.Call != nil {
			return a.analyze(n.Call)
		}

	case *semantic.BinaryExpression:
		if err := a.analyze(n.Left); err != nil {
			return err
		}
		return a.analyze(n.Right)

	case *semantic.UnaryExpression:
		return a.analyze(n.Argument)

	case *semantic.LogicalExpression:
		if err := a.analyze(n.Left); err != nil {
			return err
		}
		return a.analyze(n.Right)

	case *semantic.ConditionalExpression:
		for _, e := range []semantic.Expression{n.Test, n.Consequent, n.Alternate} {
			if err := a.analyze(e); err != nil {
				return err
			}
		}

	case nil:
		return errors.New("failed to analyze nil node")

	default:
		a.Invalid = node
		return errors.New("failed to analyze " + node.NodeName() + " node")
	}

	return nil
}
