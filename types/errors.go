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
	"fmt"
)

// Reason classifies a unification failure.
type Reason int

const (
	Mismatch Reason = iota
	MissingLabel
	ExtraLabel
	MissingArgument
	ExtraArgument
	MissingPipeArgument
	UnexpectedPipeArgument
	RecordTail
	CollectionKindMismatch
	OccursCheck
)

var reasonNames = [...]string{
	Mismatch:               "mismatch",
	MissingLabel:           "missing label",
	ExtraLabel:             "extra label",
	MissingArgument:        "missing argument",
	ExtraArgument:          "extra argument",
	MissingPipeArgument:    "missing pipe argument",
	UnexpectedPipeArgument: "unexpected pipe argument",
	RecordTail:             "record tail",
	CollectionKindMismatch: "collection kind",
	OccursCheck:            "occurs check",
}

func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// TypeError is returned when two types fail to unify. Name holds the record label or
// parameter name for label and argument failures.
type TypeError struct {
	Reason   Reason
	Expected MonoType
	Found    MonoType
	Name     string
}

func (e *TypeError) Error() string {
	switch e.Reason {
	case MissingLabel:
		return "record is missing label " + e.Name
	case ExtraLabel:
		return "found unexpected label " + e.Name
	case MissingArgument:
		return "missing required argument " + e.Name
	case ExtraArgument:
		return "found unexpected argument " + e.Name
	case MissingPipeArgument:
		return "missing pipe argument"
	case UnexpectedPipeArgument:
		return "unexpected pipe argument"
	case OccursCheck:
		return fmt.Sprintf("type variable %s occurs in %s", TypeString(e.Expected), TypeString(e.Found))
	case RecordTail:
		return fmt.Sprintf("cannot extend record tail %s with %s", TypeString(e.Expected), TypeString(e.Found))
	}
	return fmt.Sprintf("expected %s but found %s", TypeString(e.Expected), TypeString(e.Found))
}

// KindError is returned when a type does not belong to a required kind.
type KindError struct {
	Kind Kind
	Type MonoType
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s is not %s", TypeString(e.Type), e.Kind)
}

func mismatch(exp, act MonoType) *TypeError {
	return &TypeError{Reason: Mismatch, Expected: exp, Found: act}
}
