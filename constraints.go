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
	"github.com/wdamron/flowtype/semantic"
	"github.com/wdamron/flowtype/types"
)

// Constraint is a requirement on types generated during inference.
type Constraint interface {
	Location() semantic.Loc
	constraint()
}

// KindConstraint requires Type to belong to Kind.
type KindConstraint struct {
	Kind types.Kind
	Type types.MonoType
	Loc  semantic.Loc
}

// EqualConstraint requires Act to unify with Exp.
type EqualConstraint struct {
	Exp types.MonoType
	Act types.MonoType
	Loc semantic.Loc
}

func (c *KindConstraint) Location() semantic.Loc  { return c.Loc }
func (c *EqualConstraint) Location() semantic.Loc { return c.Loc }
func (*KindConstraint) constraint()               {}
func (*EqualConstraint) constraint()              {}

// Solve folds constraints in order into a substitution. Each constraint is checked against the
// types produced by the substitution accumulated so far. Failures do not stop solving: every
// failing constraint contributes an error located at the constraint.
func Solve(constraints []Constraint, kinds types.TvarKinds, fresher *types.Fresher) (types.Substitution, Errors) {
	return solve(types.Substitution{}, constraints, kinds, fresher)
}

func solve(sub types.Substitution, constraints []Constraint, kinds types.TvarKinds, fresher *types.Fresher) (types.Substitution, Errors) {
	var errs Errors
	for _, c := range constraints {
		switch c := c.(type) {
		case *KindConstraint:
			if err := types.Constrain(sub.ApplyType(c.Type), c.Kind, kinds); err != nil {
				errs = append(errs, &Error{Loc: c.Loc, Err: err})
			}
		case *EqualConstraint:
			s, err := types.Unify(sub.ApplyType(c.Exp), sub.ApplyType(c.Act), kinds, fresher)
			if err != nil {
				errs = append(errs, &Error{Loc: c.Loc, Err: err})
				continue
			}
			sub.Compose(s)
		}
	}
	return sub, errs
}
