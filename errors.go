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
	"strings"

	"golang.org/x/exp/slices"

	"github.com/wdamron/flowtype/semantic"
)

// Error is a diagnostic located within a source file.
type Error struct {
	Loc semantic.Loc
	Err error
}

func (e *Error) Error() string {
	if e.Loc.IsValid() {
		return e.Loc.String() + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Errors is an ordered list of diagnostics.
type Errors []*Error

func (es Errors) Error() string {
	var sb strings.Builder
	for i, e := range es {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

func (es Errors) Unwrap() []error {
	errs := make([]error, len(es))
	for i, e := range es {
		errs[i] = e
	}
	return errs
}

// Sort orders the errors by location. Errors at the same location keep their relative order.
func (es Errors) Sort() {
	slices.SortStableFunc(es, func(a, b *Error) bool { return a.Loc.Less(b.Loc) })
}

// UndefinedIdentifier is reported for references to unbound names.
type UndefinedIdentifier struct {
	Name string
}

func (e *UndefinedIdentifier) Error() string { return "undefined identifier " + e.Name }

// UnresolvedImport is reported for imports which the importer cannot resolve.
type UnresolvedImport struct {
	Path string
}

func (e *UnresolvedImport) Error() string { return "unresolved import " + e.Path }

// UnableToVectorize is a warning reported when a function cannot be vectorized.
type UnableToVectorize struct {
	Function string
	Reason   string
}

func (e *UnableToVectorize) Error() string {
	if e.Function == "" {
		return "unable to vectorize function: " + e.Reason
	}
	return "unable to vectorize " + e.Function + ": " + e.Reason
}
