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
)

// Substitution maps type-variables to the types they are bound to.
//
// Bound variables (BoundVar) are never affected by a substitution.
type Substitution map[Tvar]MonoType

// Substitutable is implemented by values containing free type-variables.
type Substitutable interface {
	// ApplySubst returns a copy of the value with the substitution applied.
	ApplySubst(s Substitution) Substitutable
	// FreeVars adds the free type-variables of the value to vars.
	FreeVars(vars *set.Set[Tvar])
}

// Apply returns the type bound to tv, or tv itself when tv is unbound.
func (s Substitution) Apply(tv Tvar) MonoType {
	if t, ok := s[tv]; ok {
		return t
	}
	return &Var{Tvar: tv}
}

// Compose updates s in place to the equivalent of s.Merge(other). other must not bind any
// variable bound by s, and its types must not mention them, as when other was computed from
// types which s was already applied to.
func (s Substitution) Compose(other Substitution) {
	if len(other) == 0 {
		return
	}
	for tv, t := range s {
		if u, changed := other.apply(t, false, nil); changed {
			s[tv] = u
		}
	}
	for tv, t := range other {
		s[tv] = t
	}
}

// Merge returns a substitution equivalent to applying s then other:
//
//	s.Merge(other).Apply(tv) == other.ApplyType(s.Apply(tv))
func (s Substitution) Merge(other Substitution) Substitution {
	if len(other) == 0 {
		return s
	}
	if len(s) == 0 {
		return other
	}
	m := make(Substitution, len(s)+len(other))
	for tv, t := range s {
		m[tv] = other.ApplyType(t)
	}
	for tv := range other {
		if _, ok := s[tv]; !ok {
			m[tv] = other.ApplyType(&Var{Tvar: tv})
		}
	}
	return m
}

// Normalize returns an idempotent substitution by resolving chains of bound variables: no type
// in the result refers to a variable bound by the result.
func (s Substitution) Normalize() Substitution {
	n := make(Substitution, len(s))
	for tv, t := range s {
		n[tv] = s.resolve(t)
	}
	return n
}

// ApplyType replaces every free type-variable in t with the type it is bound to. Substitutions
// produced by Unify are idempotent, so a single pass resolves every variable.
func (s Substitution) ApplyType(t MonoType) MonoType {
	if len(s) == 0 || t == nil {
		return t
	}
	if u, changed := s.apply(t, false, nil); changed {
		return u
	}
	return t
}

// resolve applies s repeatedly, following chains of bound variables until an unbound variable
// or a non-variable type is reached.
func (s Substitution) resolve(t MonoType) MonoType {
	if len(s) == 0 || t == nil {
		return t
	}
	if u, changed := s.apply(t, true, nil); changed {
		return u
	}
	return t
}

// apply returns the substituted type and whether any change occurred. Unchanged subtrees are
// shared with the input. When deep is set, the types variables are bound to are substituted
// as well; seen guards against cycles.
func (s Substitution) apply(t MonoType, deep bool, seen []Tvar) (MonoType, bool) {
	switch t := t.(type) {
	case *Var:
		u, ok := s[t.Tvar]
		if !ok {
			return t, false
		}
		if !deep {
			return u, true
		}
		for _, tv := range seen {
			if tv == t.Tvar {
				return t, false
			}
		}
		if r, changed := s.apply(u, deep, append(seen, t.Tvar)); changed {
			return r, true
		}
		return u, true

	case *Collection:
		if elem, changed := s.apply(t.Elem, deep, seen); changed {
			return &Collection{Kind: t.Kind, Elem: elem}, true
		}

	case *Dict:
		key, kc := s.apply(t.Key, deep, seen)
		val, vc := s.apply(t.Val, deep, seen)
		if kc || vc {
			return &Dict{Key: key, Val: val}, true
		}

	case *RecordExtend:
		label, lc := s.applyLabel(t.Head.Label, deep, seen)
		val, vc := s.apply(t.Head.Value, deep, seen)
		tail, tc := s.apply(t.Tail, deep, seen)
		if lc || vc || tc {
			return &RecordExtend{Head: Property{Label: label, Value: val}, Tail: tail}, true
		}

	case *Function:
		return s.applyFunction(t, deep, seen)
	}
	return t, false
}

func (s Substitution) applyLabel(l RecordLabel, deep bool, seen []Tvar) (RecordLabel, bool) {
	if _, ok := l.Var.(*Var); !ok {
		return l, false
	}
	v, changed := s.apply(l.Var, deep, seen)
	if !changed {
		return l, false
	}
	switch v := v.(type) {
	case *Label:
		return RecordLabel{Name: v.Name}, true
	case *Var, *BoundVar:
		return RecordLabel{Var: v}, true
	}
	return l, false
}

func (s Substitution) applyFunction(f *Function, deep bool, seen []Tvar) (MonoType, bool) {
	changed := false
	req := f.Req
	for name, t := range f.Req {
		if u, c := s.apply(t, deep, seen); c {
			if !changed {
				req, changed = copyReq(f.Req), true
			}
			req[name] = u
		}
	}
	opt := f.Opt
	optChanged := false
	for name, a := range f.Opt {
		t, tc := s.apply(a.Type, deep, seen)
		var def MonoType
		dc := false
		if a.Default != nil {
			def, dc = s.apply(a.Default, deep, seen)
		}
		if tc || dc {
			if !optChanged {
				opt, optChanged = copyOpt(f.Opt), true
			}
			opt[name] = Argument{Type: t, Default: def}
		}
	}
	pipe := f.Pipe
	pipeChanged := false
	if f.Pipe != nil {
		if t, c := s.apply(f.Pipe.Type, deep, seen); c {
			pipe, pipeChanged = &Pipe{Name: f.Pipe.Name, Type: t}, true
		}
	}
	retn, retnChanged := s.apply(f.Retn, deep, seen)
	if !changed && !optChanged && !pipeChanged && !retnChanged {
		return f, false
	}
	return &Function{Req: req, Opt: opt, Pipe: pipe, Retn: retn}, true
}

func copyReq(m map[string]MonoType) map[string]MonoType {
	c := make(map[string]MonoType, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func copyOpt(m map[string]Argument) map[string]Argument {
	c := make(map[string]Argument, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// FreeVars returns the free type-variables of t in order of first appearance. Record fields
// are visited in canonical label order.
func FreeVars(t MonoType) []Tvar {
	var vars []Tvar
	seen := set.New[Tvar](0)
	visitFreeVars(t, func(tv Tvar) {
		if seen.Insert(tv) {
			vars = append(vars, tv)
		}
	})
	return vars
}

// FreeVarSet returns the set of free type-variables in ts.
func FreeVarSet(ts ...MonoType) *set.Set[Tvar] {
	vars := set.New[Tvar](0)
	for _, t := range ts {
		AddFreeVars(t, vars)
	}
	return vars
}

// AddFreeVars adds the free type-variables of t to vars.
func AddFreeVars(t MonoType, vars *set.Set[Tvar]) {
	visitFreeVars(t, func(tv Tvar) { vars.Insert(tv) })
}

// Occurs reports whether tv occurs free in t.
func Occurs(tv Tvar, t MonoType) bool {
	found := false
	visitFreeVars(t, func(v Tvar) {
		if v == tv {
			found = true
		}
	})
	return found
}

func visitFreeVars(t MonoType, f func(Tvar)) {
	switch t := t.(type) {
	case *Var:
		f(t.Tvar)
	case *Collection:
		visitFreeVars(t.Elem, f)
	case *Dict:
		visitFreeVars(t.Key, f)
		visitFreeVars(t.Val, f)
	case *RecordExtend:
		labels, tail := CollectRecord(t)
		labels.Range(func(key string, ts TypeList) bool {
			if l := LabelFromKey(key); l.IsVar() {
				visitFreeVars(l.Var, f)
			}
			ts.Range(func(_ int, v MonoType) bool {
				visitFreeVars(v, f)
				return true
			})
			return true
		})
		if tail != nil {
			visitFreeVars(tail, f)
		}
	case *Function:
		if t.Pipe != nil {
			visitFreeVars(t.Pipe.Type, f)
		}
		for _, name := range t.ReqNames() {
			visitFreeVars(t.Req[name], f)
		}
		for _, name := range t.OptNames() {
			a := t.Opt[name]
			visitFreeVars(a.Type, f)
			if a.Default != nil {
				visitFreeVars(a.Default, f)
			}
		}
		visitFreeVars(t.Retn, f)
	}
}
