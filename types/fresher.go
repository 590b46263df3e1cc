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

// Fresher generates unique type-variables. A single Fresher must be used for an entire
// inference run; it is not safe for concurrent use.
type Fresher struct {
	next uint64
}

// Create a Fresher which will return start as its first type-variable.
func NewFresher(start Tvar) *Fresher { return &Fresher{next: uint64(start)} }

// Fresh returns a new type-variable id.
func (f *Fresher) Fresh() Tvar {
	tv := Tvar(f.next)
	f.next++
	return tv
}

// FreshVar returns a new unification type-variable.
func (f *Fresher) FreshVar() *Var { return &Var{Tvar: f.Fresh()} }

// Next returns the id the next call to Fresh will return.
func (f *Fresher) Next() Tvar { return Tvar(f.next) }
