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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// AnonymousPipe is the name of a pipe parameter which may only be passed with `|>`.
const AnonymousPipe = "<-"

// Function type: `(<-tables: [A], column: string, ?n: int) => [A]`
//
// A parameter name appears in at most one of Req, Opt and Pipe.
type Function struct {
	Req  map[string]MonoType
	Opt  map[string]Argument
	Pipe *Pipe
	Retn MonoType
}

// Argument is an optional parameter. Default is the type of the default value, or nil when
// the parameter has no default expression.
type Argument struct {
	Type    MonoType
	Default MonoType
}

// Pipe is the parameter which receives the left-hand side of `|>`.
type Pipe struct {
	Name string
	Type MonoType
}

// Create a function type with required parameters only.
func NewFunction(req map[string]MonoType, retn MonoType) *Function {
	if req == nil {
		req = map[string]MonoType{}
	}
	return &Function{Req: req, Opt: map[string]Argument{}, Retn: retn}
}

// WithOpt returns a copy of f with an additional optional parameter.
func (f *Function) WithOpt(name string, t, def MonoType) *Function {
	g := f.shallowCopy()
	g.Opt[name] = Argument{Type: t, Default: def}
	return g
}

// WithPipe returns a copy of f with the given pipe parameter.
func (f *Function) WithPipe(name string, t MonoType) *Function {
	g := f.shallowCopy()
	g.Pipe = &Pipe{Name: name, Type: t}
	return g
}

func (f *Function) shallowCopy() *Function {
	g := &Function{
		Req:  make(map[string]MonoType, len(f.Req)),
		Opt:  make(map[string]Argument, len(f.Opt)+1),
		Retn: f.Retn,
	}
	maps.Copy(g.Req, f.Req)
	maps.Copy(g.Opt, f.Opt)
	if f.Pipe != nil {
		p := *f.Pipe
		g.Pipe = &p
	}
	return g
}

// Param returns the type of the named parameter, searching required, optional and pipe
// parameters.
func (f *Function) Param(name string) (MonoType, bool) {
	if t, ok := f.Req[name]; ok {
		return t, true
	}
	if a, ok := f.Opt[name]; ok {
		return a.Type, true
	}
	if f.Pipe != nil && f.Pipe.Name == name {
		return f.Pipe.Type, true
	}
	return nil, false
}

// ReqNames returns the names of required parameters in sorted order.
func (f *Function) ReqNames() []string {
	names := maps.Keys(f.Req)
	slices.Sort(names)
	return names
}

// OptNames returns the names of optional parameters in sorted order.
func (f *Function) OptNames() []string {
	names := maps.Keys(f.Opt)
	slices.Sort(names)
	return names
}

// Equal reports whether f and g are structurally identical.
func (f *Function) Equal(g *Function) bool {
	if len(f.Req) != len(g.Req) || len(f.Opt) != len(g.Opt) || (f.Pipe == nil) != (g.Pipe == nil) {
		return false
	}
	for name, t := range f.Req {
		u, ok := g.Req[name]
		if !ok || !Equal(t, u) {
			return false
		}
	}
	for name, a := range f.Opt {
		b, ok := g.Opt[name]
		if !ok || !Equal(a.Type, b.Type) || !Equal(a.Default, b.Default) {
			return false
		}
	}
	if f.Pipe != nil && (f.Pipe.Name != g.Pipe.Name || !Equal(f.Pipe.Type, g.Pipe.Type)) {
		return false
	}
	return Equal(f.Retn, g.Retn)
}
