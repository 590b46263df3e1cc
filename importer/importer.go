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

// Package importer provides Importer implementations which resolve the types of packages by
// import path.
package importer

import (
	"golang.org/x/exp/maps"

	"github.com/wdamron/flowtype"
	"github.com/wdamron/flowtype/types"
)

var (
	_ flowtype.Importer = (*Map)(nil)
	_ flowtype.Importer = (*Store)(nil)
	_ flowtype.Importer = Chain{}
)

// Map resolves imports from a fixed set of packages. A Map is read-only after construction and
// may be shared by concurrent inference runs.
type Map struct {
	packages map[string]types.PolyType
}

// NewMap creates an importer for the given package types, keyed by import path.
func NewMap(packages map[string]types.PolyType) *Map {
	return &Map{packages: maps.Clone(packages)}
}

// FromExports creates an importer for previously inferred packages.
func FromExports(packages map[string]*flowtype.PackageExports) *Map {
	m := &Map{packages: make(map[string]types.PolyType, len(packages))}
	for path, x := range packages {
		m.packages[path] = x.PolyType()
	}
	return m
}

func (m *Map) Import(path string) (types.PolyType, bool) {
	p, ok := m.packages[path]
	return p, ok
}

// Len returns the number of packages in the map.
func (m *Map) Len() int { return len(m.packages) }

// Chain resolves each import from the first importer which knows the path.
type Chain []flowtype.Importer

func (c Chain) Import(path string) (types.PolyType, bool) {
	for _, imp := range c {
		if imp == nil {
			continue
		}
		if p, ok := imp.Import(path); ok {
			return p, true
		}
	}
	return types.PolyType{}, false
}
