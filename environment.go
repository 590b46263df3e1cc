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
	set "github.com/hashicorp/go-set/v3"

	"github.com/wdamron/flowtype/types"
)

// Environment maps identifiers to type schemes within nested lexical scopes.
//
// Scopes are frames in an arena; each frame refers to its parent by index. The root frame may
// inherit from a frozen environment, such as a prelude, which is shared read-only between
// inference runs. An environment cannot be used concurrently for inference; to share an
// environment across threads, freeze it and create a new environment for each thread which
// inherits from the frozen environment.
type Environment struct {
	parent *Environment
	frames []frame
	top    int
	frozen bool
}

type frame struct {
	parent int
	values map[string]types.PolyType
	// readwrite frames hold bindings which may contain free type-variables
	readwrite bool
}

var _ types.Substitutable = (*Environment)(nil)

// Create an environment with a single root frame. The environment inherits bindings from
// prelude, if prelude is not nil. prelude must be frozen.
func NewEnvironment(prelude *Environment) *Environment {
	if prelude != nil && !prelude.Frozen() {
		panic("flowtype: parent environment must be frozen")
	}
	return &Environment{
		parent: prelude,
		frames: []frame{{parent: -1, values: make(map[string]types.PolyType), readwrite: true}},
	}
}

// Enter pushes a new scope.
func (e *Environment) Enter() {
	e.checkWritable()
	e.frames = append(e.frames, frame{parent: e.top, values: make(map[string]types.PolyType), readwrite: true})
	e.top = len(e.frames) - 1
}

// Exit discards the innermost scope. Exiting the root scope panics.
func (e *Environment) Exit() {
	if e.top == 0 {
		panic("flowtype: cannot exit the root scope of an environment")
	}
	parent := e.frames[e.top].parent
	e.frames[e.top] = frame{}
	e.frames, e.top = e.frames[:e.top], parent
}

// Add binds name within the innermost scope.
func (e *Environment) Add(name string, p types.PolyType) {
	e.checkWritable()
	e.frames[e.top].values[name] = p
}

// AddRoot binds name within the root scope.
func (e *Environment) AddRoot(name string, p types.PolyType) {
	e.checkWritable()
	e.frames[0].values[name] = p
}

// Remove the binding for name within the innermost scope. Bindings in enclosing scopes are
// not affected and remain visible.
func (e *Environment) Remove(name string) {
	e.checkWritable()
	delete(e.frames[e.top].values, name)
}

// Lookup the type scheme bound to name in the innermost scope which binds it.
func (e *Environment) Lookup(name string) (types.PolyType, bool) {
	for i := e.top; i >= 0; i = e.frames[i].parent {
		if p, ok := e.frames[i].values[name]; ok {
			return p, true
		}
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return types.PolyType{}, false
}

// Range calls f for each binding visible from the innermost scope, innermost scopes first.
// Shadowed bindings are skipped.
func (e *Environment) Range(f func(name string, p types.PolyType) bool) {
	seen := set.New[string](0)
	for env := e; env != nil; env = env.parent {
		for i := env.top; i >= 0; i = env.frames[i].parent {
			for name, p := range env.frames[i].values {
				if !seen.Insert(name) {
					continue
				}
				if !f(name, p) {
					return
				}
			}
		}
	}
}

// FreeVars adds the free type-variables of bindings in readwrite scopes to vars. Frozen
// environments hold closed type schemes and are not visited.
func (e *Environment) FreeVars(vars *set.Set[types.Tvar]) {
	for i := e.top; i >= 0; i = e.frames[i].parent {
		fr := &e.frames[i]
		if !fr.readwrite {
			continue
		}
		for _, p := range fr.values {
			p.FreeVars(vars)
		}
	}
}

// Apply applies s to the bindings of readwrite scopes in place.
func (e *Environment) Apply(s types.Substitution) {
	if len(s) == 0 {
		return
	}
	for i := e.top; i >= 0; i = e.frames[i].parent {
		fr := &e.frames[i]
		if !fr.readwrite {
			continue
		}
		for name, p := range fr.values {
			fr.values[name] = p.Apply(s)
		}
	}
}

// ApplySubst returns a copy of the environment with s applied to the bindings of readwrite
// scopes. The inherited environment is shared with the copy.
func (e *Environment) ApplySubst(s types.Substitution) types.Substitutable {
	c := &Environment{parent: e.parent, frames: make([]frame, len(e.frames)), top: e.top, frozen: e.frozen}
	for i, fr := range e.frames {
		values := make(map[string]types.PolyType, len(fr.values))
		for name, p := range fr.values {
			if fr.readwrite {
				p = p.Apply(s)
			}
			values[name] = p
		}
		c.frames[i] = frame{parent: fr.parent, values: values, readwrite: fr.readwrite}
	}
	return c
}

// Freeze marks every scope of the environment read-only. A frozen environment may be shared
// by concurrent inference runs as the parent of new environments.
func (e *Environment) Freeze() *Environment {
	for i := range e.frames {
		e.frames[i].readwrite = false
	}
	e.frozen = true
	return e
}

// Frozen reports whether the environment is read-only.
func (e *Environment) Frozen() bool { return e.frozen }

func (e *Environment) checkWritable() {
	if e.frozen {
		panic("flowtype: cannot modify a frozen environment")
	}
}
