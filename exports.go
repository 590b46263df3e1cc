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

package flowtype

import (
	"golang.org/x/exp/slices"

	"github.com/wdamron/flowtype/types"
)

// PackageExports holds the generalized types of a package's top-level bindings, in
// declaration order.
type PackageExports struct {
	names  []string
	values map[string]types.PolyType
}

// NewPackageExports creates an empty set of exports.
func NewPackageExports() *PackageExports {
	return &PackageExports{values: make(map[string]types.PolyType)}
}

// Add or replace an exported binding. Replaced bindings keep their original position.
func (x *PackageExports) Add(name string, p types.PolyType) {
	if _, ok := x.values[name]; !ok {
		x.names = append(x.names, name)
	}
	x.values[name] = p
}

// Lookup the type of an exported binding.
func (x *PackageExports) Lookup(name string) (types.PolyType, bool) {
	p, ok := x.values[name]
	return p, ok
}

// Len returns the number of exported bindings.
func (x *PackageExports) Len() int { return len(x.names) }

// Names returns the exported names in declaration order.
func (x *PackageExports) Names() []string {
	return append([]string(nil), x.names...)
}

// Range calls f for each exported binding in declaration order.
func (x *PackageExports) Range(f func(name string, p types.PolyType) bool) {
	for _, name := range x.names {
		if !f(name, x.values[name]) {
			return
		}
	}
}

// Map returns a copy of the exported bindings.
func (x *PackageExports) Map() map[string]types.PolyType {
	m := make(map[string]types.PolyType, len(x.values))
	for name, p := range x.values {
		m[name] = p
	}
	return m
}

// PolyType returns the type of the package as a closed record of its exports, quantified over
// the variables of every export.
func (x *PackageExports) PolyType() types.PolyType {
	fresher := types.NewFresher(0)
	kinds := types.TvarKinds{}
	props := make([]types.Property, 0, len(x.names))
	for _, name := range x.names {
		t, obligations := types.Instantiate(x.values[name], fresher)
		for _, o := range obligations {
			kinds.Add(o.Var.Tvar, o.Kind)
		}
		props = append(props, types.Field(name, t))
	}
	return types.Generalize(nil, kinds, types.NewRecord(nil, props...)).Normalize()
}

// ExportsFromPolyType recovers the exports of a package from its record type. Every export is
// quantified over the variables it uses.
func ExportsFromPolyType(p types.PolyType) (*PackageExports, bool) {
	labels, tail := types.CollectRecord(p.Expr)
	if tail != nil {
		return nil, false
	}
	x := NewPackageExports()
	labels.Range(func(key string, ts types.TypeList) bool {
		if types.IsVarKey(key) {
			return true
		}
		t := ts.Last()
		used := types.NewPolyType(nil, nil, t)
		for _, tv := range types.BoundVars(t) {
			if slices.Contains(p.Vars, tv) {
				used.Vars = append(used.Vars, tv)
				if ks, ok := p.Cons[tv]; ok {
					if used.Cons == nil {
						used.Cons = make(map[types.Tvar][]types.Kind)
					}
					used.Cons[tv] = ks
				}
			}
		}
		x.Add(key, used.Normalize())
		return true
	})
	return x, true
}
