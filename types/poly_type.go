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

package types

import (
	set "github.com/hashicorp/go-set/v3"
	"golang.org/x/exp/slices"
)

// PolyType is a type scheme. Each quantified variable in Vars appears within Expr as a
// BoundVar with the same Tvar. Cons holds the kinds required of each quantified variable.
//
// Expr may also contain free variables (Var) belonging to an enclosing scope.
type PolyType struct {
	Vars []Tvar
	Cons map[Tvar][]Kind
	Expr MonoType
}

var _ Substitutable = PolyType{}

// Create a monomorphic type scheme.
func Mono(t MonoType) PolyType { return PolyType{Expr: t} }

// Create a type scheme quantifying the given variables. Each quantified variable must appear
// within expr as a BoundVar.
func NewPolyType(vars []Tvar, cons map[Tvar][]Kind, expr MonoType) PolyType {
	return PolyType{Vars: vars, Cons: cons, Expr: expr}
}

// IsMono reports whether p quantifies no variables.
func (p PolyType) IsMono() bool { return len(p.Vars) == 0 }

// ApplySubst applies s to the free variables of p. Quantified variables are unaffected.
func (p PolyType) ApplySubst(s Substitution) Substitutable {
	return p.Apply(s)
}

// Apply applies s to the free variables of p. Quantified variables are unaffected.
func (p PolyType) Apply(s Substitution) PolyType {
	return PolyType{Vars: p.Vars, Cons: p.Cons, Expr: s.ApplyType(p.Expr)}
}

// FreeVars adds the free (unquantified) variables of p to vars.
func (p PolyType) FreeVars(vars *set.Set[Tvar]) {
	AddFreeVars(p.Expr, vars)
}

// Normalize renumbers the quantified variables of p from zero, in order of first appearance,
// so that equivalent schemes compare equal.
func (p PolyType) Normalize() PolyType {
	if len(p.Vars) == 0 {
		return p
	}
	order := boundVarsInOrder(p.Expr)
	// quantified variables which do not appear in the expression keep their relative order:
	for _, tv := range p.Vars {
		if !slices.Contains(order, tv) {
			order = append(order, tv)
		}
	}
	rename := make(map[Tvar]Tvar, len(order))
	vars := make([]Tvar, len(order))
	var cons map[Tvar][]Kind
	for i, tv := range order {
		rename[tv] = Tvar(i)
		vars[i] = Tvar(i)
		if ks := p.Cons[tv]; len(ks) > 0 {
			if cons == nil {
				cons = make(map[Tvar][]Kind)
			}
			cons[Tvar(i)] = ks
		}
	}
	expr := replaceVars(p.Expr, nil, func(tv Tvar) MonoType {
		if n, ok := rename[tv]; ok {
			return &BoundVar{Tvar: n}
		}
		return nil
	})
	return PolyType{Vars: vars, Cons: cons, Expr: expr}
}

// Equal reports whether p and q are identical after normalization.
func (p PolyType) Equal(q PolyType) bool {
	p, q = p.Normalize(), q.Normalize()
	if len(p.Vars) != len(q.Vars) || !Equal(p.Expr, q.Expr) {
		return false
	}
	for _, tv := range p.Vars {
		if !slices.Equal(p.Cons[tv], q.Cons[tv]) {
			return false
		}
	}
	return true
}

// BoundVars returns the bound variables of t in order of first appearance.
func BoundVars(t MonoType) []Tvar { return boundVarsInOrder(t) }

func boundVarsInOrder(t MonoType) []Tvar {
	var order []Tvar
	seen := set.New[Tvar](0)
	visitBoundVars(t, func(tv Tvar) {
		if seen.Insert(tv) {
			order = append(order, tv)
		}
	})
	return order
}

func visitBoundVars(t MonoType, f func(Tvar)) {
	switch t := t.(type) {
	case *BoundVar:
		f(t.Tvar)
	case *Collection:
		visitBoundVars(t.Elem, f)
	case *Dict:
		visitBoundVars(t.Key, f)
		visitBoundVars(t.Val, f)
	case *RecordExtend:
		labels, tail := CollectRecord(t)
		labels.Range(func(key string, ts TypeList) bool {
			if l := LabelFromKey(key); l.IsVar() {
				visitBoundVars(l.Var, f)
			}
			ts.Range(func(_ int, v MonoType) bool {
				visitBoundVars(v, f)
				return true
			})
			return true
		})
		if tail != nil {
			visitBoundVars(tail, f)
		}
	case *Function:
		if t.Pipe != nil {
			visitBoundVars(t.Pipe.Type, f)
		}
		for _, name := range t.ReqNames() {
			visitBoundVars(t.Req[name], f)
		}
		for _, name := range t.OptNames() {
			a := t.Opt[name]
			visitBoundVars(a.Type, f)
			if a.Default != nil {
				visitBoundVars(a.Default, f)
			}
		}
		visitBoundVars(t.Retn, f)
	}
}
