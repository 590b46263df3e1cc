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

// Package flowtype infers types for packages of the query language's semantic graph.
//
// Inference generates kind and equality constraints while walking a package, solves them at
// statement boundaries, generalizes top-level and nested bindings, and finally rewrites the
// type of every expression with the solved substitution. Type errors are accumulated rather
// than aborting inference, so a single run reports every independent error in a package.
package flowtype

import (
	"log/slog"

	"github.com/wdamron/flowtype/types"
)

// Options configure an inference run.
type Options struct {
	// Maximum number of errors to report; 0 reports all errors.
	MaxErrors int
	// Vectorize enables the vectorization pass for callers which run it after inference.
	Vectorize bool
	// Logger receives debug output for each run; nil uses slog.Default().
	Logger *slog.Logger
}

// Importer resolves the types of previously inferred packages by import path.
//
// Implementations may cache results but must not otherwise change observable state.
type Importer interface {
	Import(path string) (types.PolyType, bool)
}

// ImporterFunc adapts a function to an Importer.
type ImporterFunc func(path string) (types.PolyType, bool)

func (f ImporterFunc) Import(path string) (types.PolyType, bool) { return f(path) }
