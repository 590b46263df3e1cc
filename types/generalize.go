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

// Generalize quantifies the free type-variables of t which are not free in the enclosing
// environment (envVars). Quantified variables are replaced with bound variables, in order of
// first appearance, and their recorded kinds become the constraints of the polytype.
func Generalize(envVars *set.Set[Tvar], kinds TvarKinds, t MonoType) PolyType {
	var vars []Tvar
	for _, tv := range FreeVars(t) {
		if envVars == nil || !envVars.Contains(tv) {
			vars = append(vars, tv)
		}
	}
	if len(vars) == 0 {
		return PolyType{Expr: t}
	}
	bind := make(map[Tvar]bool, len(vars))
	var cons map[Tvar][]Kind
	for _, tv := range vars {
		bind[tv] = true
		if ks := kinds.Get(tv); len(ks) > 0 {
			if cons == nil {
				cons = make(map[Tvar][]Kind)
			}
			cons[tv] = slices.Clone(ks)
		}
	}
	return PolyType{Vars: vars, Cons: cons, Expr: replaceVars(t, func(tv Tvar) MonoType {
		if bind[tv] {
			return &BoundVar{Tvar: tv}
		}
		return nil
	}, nil)}
}

// Obligation is a kind which must be satisfied by an instantiated type-variable.
type Obligation struct {
	Var  *Var
	Kind Kind
}

// Instantiate replaces each quantified variable of p with a fresh type-variable. The kinds
// required of the fresh variables are returned in quantifier order.
func Instantiate(p PolyType, fresher *Fresher) (MonoType, []Obligation) {
	if len(p.Vars) == 0 {
		return p.Expr, nil
	}
	fresh := make(map[Tvar]*Var, len(p.Vars))
	var obligations []Obligation
	for _, tv := range p.Vars {
		v := fresher.FreshVar()
		fresh[tv] = v
		for _, k := range p.Cons[tv] {
			obligations = append(obligations, Obligation{Var: v, Kind: k})
		}
	}
	t := replaceVars(p.Expr, nil, func(tv Tvar) MonoType {
		if v, ok := fresh[tv]; ok {
			return v
		}
		return nil
	})
	return t, obligations
}

// replaceVars rebuilds t, replacing free variables with the result of free and bound variables
// with the result of bound. A nil function or a nil result leaves the variable unchanged.
func replaceVars(t MonoType, free, bound func(Tvar) MonoType) MonoType {
	r := varReplacer{free: free, bound: bound}
	return r.replace(t)
}

type varReplacer struct {
	free, bound func(Tvar) MonoType
}

func (r varReplacer) replace(t MonoType) MonoType {
	switch t := t.(type) {
	case *Var:
		if r.free != nil {
			if u := r.free(t.Tvar); u != nil {
				return u
			}
		}
	case *BoundVar:
		if r.bound != nil {
			if u := r.bound(t.Tvar); u != nil {
				return u
			}
		}
	case *Collection:
		return &Collection{Kind: t.Kind, Elem: r.replace(t.Elem)}
	case *Dict:
		return &Dict{Key: r.replace(t.Key), Val: r.replace(t.Val)}
	case *RecordExtend:
		var props []Property
		var rt MonoType = t
		for {
			ext, ok := rt.(*RecordExtend)
			if !ok {
				break
			}
			props = append(props, ext.Head)
			rt = ext.Tail
		}
		out := r.replace(rt)
		for i := len(props) - 1; i >= 0; i-- {
			p := props[i]
			label := p.Label
			if label.IsVar() {
				label = RecordLabel{Var: r.replace(label.Var)}
			}
			out = &RecordExtend{Head: Property{Label: label, Value: r.replace(p.Value)}, Tail: out}
		}
		return out
	case *Function:
		f := &Function{
			Req:  make(map[string]MonoType, len(t.Req)),
			Opt:  make(map[string]Argument, len(t.Opt)),
			Retn: r.replace(t.Retn),
		}
		for name, v := range t.Req {
			f.Req[name] = r.replace(v)
		}
		for name, a := range t.Opt {
			arg := Argument{Type: r.replace(a.Type)}
			if a.Default != nil {
				arg.Default = r.replace(a.Default)
			}
			f.Opt[name] = arg
		}
		if t.Pipe != nil {
			f.Pipe = &Pipe{Name: t.Pipe.Name, Type: r.replace(t.Pipe.Type)}
		}
		return f
	}
	return t
}
