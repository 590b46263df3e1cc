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

// Package diff classifies changes between versions of a type as patch, minor or major.
package diff

import (
	"github.com/samber/lo"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/wdamron/flowtype/types"
)

// Severity is the compatibility impact of a change.
type Severity int

const (
	// Patch: the types are identical.
	Patch Severity = iota
	// Minor: the change is backward-compatible.
	Minor
	// Major: the change may break existing callers.
	Major
)

func (s Severity) String() string {
	switch s {
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	}
	return "unknown"
}

// Max returns the greatest of the given severities, or Patch when none are given.
func Max(ss ...Severity) Severity {
	m := Patch
	for _, s := range ss {
		if s > m {
			m = s
		}
	}
	return m
}

// PolyTypes compares two versions of a type scheme. Quantified variables are compared after
// normalization; requiring a new kind of a variable is major, dropping one is minor. A new
// variable used only by newly added optional parameters is minor.
func PolyTypes(old, new types.PolyType) Severity {
	old, new = old.Normalize(), new.Normalize()
	if len(old.Vars) != len(new.Vars) {
		if stripped, ok := withoutAddedOpts(old, new); ok && len(stripped.Vars) == len(old.Vars) {
			return Max(Minor, PolyTypes(old, stripped))
		}
		return Major
	}
	s := Types(old.Expr, new.Expr)
	for _, tv := range old.Vars {
		s = Max(s, kinds(old.Cons[tv], new.Cons[tv]))
	}
	return s
}

// withoutAddedOpts removes the optional parameters which new adds to old, along with the
// variables only they quantify.
func withoutAddedOpts(old, new types.PolyType) (types.PolyType, bool) {
	of, ok := old.Expr.(*types.Function)
	if !ok {
		return types.PolyType{}, false
	}
	nf, ok := new.Expr.(*types.Function)
	if !ok {
		return types.PolyType{}, false
	}
	f := &types.Function{Req: nf.Req, Opt: make(map[string]types.Argument, len(nf.Opt)), Pipe: nf.Pipe, Retn: nf.Retn}
	for name, a := range nf.Opt {
		if _, ok := of.Opt[name]; ok {
			f.Opt[name] = a
		}
	}
	if len(f.Opt) == len(nf.Opt) {
		return types.PolyType{}, false
	}
	used := types.BoundVars(f)
	cons := make(map[types.Tvar][]types.Kind, len(new.Cons))
	for _, tv := range used {
		if ks, ok := new.Cons[tv]; ok {
			cons[tv] = ks
		}
	}
	return types.NewPolyType(used, cons, f).Normalize(), true
}

func kinds(old, new []types.Kind) Severity {
	for _, k := range new {
		if !slices.Contains(old, k) {
			return Major
		}
	}
	if len(lo.Uniq(old)) != len(lo.Uniq(new)) {
		return Minor
	}
	return Patch
}

// Types compares two versions of a monotype.
func Types(old, new types.MonoType) Severity {
	switch o := old.(type) {
	case nil:
		if new == nil {
			return Patch
		}
		return Major
	case types.Error:
		if _, ok := new.(types.Error); ok {
			return Patch
		}
	case *types.Var:
		// an unresolved variable accepts any replacement
		if n, ok := new.(*types.Var); ok && n.Tvar == o.Tvar {
			return Patch
		}
		return Minor
	case *types.BoundVar, *types.Builtin, *types.Label:
		if types.Equal(old, new) {
			return Patch
		}
	case *types.Collection:
		if n, ok := new.(*types.Collection); ok && n.Kind == o.Kind {
			return Types(o.Elem, n.Elem)
		}
	case *types.Dict:
		if n, ok := new.(*types.Dict); ok {
			return Max(Types(o.Key, n.Key), Types(o.Val, n.Val))
		}
	case types.RecordEmpty, *types.RecordExtend:
		if types.IsRecord(new) {
			return records(old, new)
		}
		if _, ok := new.(*types.Var); ok {
			return Minor
		}
	case *types.Function:
		if n, ok := new.(*types.Function); ok {
			return functions(o, n)
		}
	}
	return Major
}

// records compares records field by field. Any added or removed field changes the shape of a
// closed record; a record with an unresolved tail may gain fields as a minor change.
func records(old, new types.MonoType) Severity {
	ol, ot := types.CollectRecord(old)
	nl, nt := types.CollectRecord(new)

	s := Patch
	if ot == nil && nt != nil || ot != nil && nt == nil {
		return Major
	}
	if ot != nil {
		s = Types(ot, nt)
	}
	_, openTail := ot.(*types.Var)

	ol.Range(func(label string, ots types.TypeList) bool {
		nts, ok := nl.Get(label)
		if !ok || nts.Len() != ots.Len() {
			s = Major
			return false
		}
		ots.Range(func(i int, t types.MonoType) bool {
			s = Max(s, Types(t, nts.Get(i)))
			return s != Major
		})
		return s != Major
	})
	if s == Major {
		return s
	}
	nl.Range(func(label string, _ types.TypeList) bool {
		if _, ok := ol.Get(label); !ok {
			if !openTail {
				s = Major
				return false
			}
			s = Max(s, Minor)
		}
		return true
	})
	return s
}

func functions(old, new *types.Function) Severity {
	s := Patch

	// required parameters must be kept, and none may be added
	if len(old.Req) != len(new.Req) {
		return Major
	}
	for _, name := range old.ReqNames() {
		nt, ok := new.Req[name]
		if !ok {
			return Major
		}
		s = Max(s, Types(old.Req[name], nt))
	}

	for _, name := range old.OptNames() {
		oa := old.Opt[name]
		na, ok := new.Opt[name]
		if !ok {
			return Major
		}
		s = Max(s, Types(oa.Type, na.Type))
		if oa.Default != nil || na.Default != nil {
			s = Max(s, Types(oa.Default, na.Default))
		}
	}
	added := lo.Without(maps.Keys(new.Opt), old.OptNames()...)
	if len(added) > 0 {
		s = Max(s, Minor)
	}

	switch {
	case old.Pipe == nil && new.Pipe == nil:
	case old.Pipe == nil || new.Pipe == nil || old.Pipe.Name != new.Pipe.Name:
		return Major
	default:
		s = Max(s, Types(old.Pipe.Type, new.Pipe.Type))
	}

	return Max(s, Types(old.Retn, new.Retn))
}

// Report describes the changes between two versions of a package's exports.
type Report struct {
	// Severity of each member present in both versions
	Members map[string]Severity
	Added   []string
	Removed []string
	// Overall severity
	Severity Severity
}

// Packages compares two versions of a package's exports. Added members are minor changes and
// removed members are major changes.
func Packages(old, new map[string]types.PolyType) Report {
	r := Report{Members: make(map[string]Severity, len(old))}
	for _, name := range sortedKeys(old) {
		np, ok := new[name]
		if !ok {
			r.Removed = append(r.Removed, name)
			r.Severity = Major
			continue
		}
		s := PolyTypes(old[name], np)
		r.Members[name] = s
		r.Severity = Max(r.Severity, s)
	}
	r.Added = lo.Filter(sortedKeys(new), func(name string, _ int) bool {
		_, ok := old[name]
		return !ok
	})
	if len(r.Added) > 0 {
		r.Severity = Max(r.Severity, Minor)
	}
	return r
}

// Changed returns the names of members changed with at least the given severity, in sorted order.
// Removed members are always included.
func (r Report) Changed(least Severity) []string {
	names := lo.Filter(sortedKeys(r.Members), func(name string, _ int) bool { return r.Members[name] >= least })
	names = append(names, r.Removed...)
	if least <= Minor {
		names = append(names, r.Added...)
	}
	slices.Sort(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
