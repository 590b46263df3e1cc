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

// Package serial encodes types and type environments in a compact tagged binary format.
//
// Each type is a message whose fields are protobuf wire-format tags. A monotype message holds
// exactly one variant field; unknown fields are skipped, so readers accept encodings written
// by newer versions which add variants to unrelated messages.
package serial

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/wdamron/flowtype/types"
)

// MonoType variant fields
const (
	monoError    protowire.Number = 1
	monoVar      protowire.Number = 2
	monoBoundVar protowire.Number = 3
	monoBuiltin  protowire.Number = 4
	monoLabel    protowire.Number = 5
	monoColl     protowire.Number = 6
	monoDict     protowire.Number = 7
	monoRecord   protowire.Number = 8
	monoFunction protowire.Number = 9
)

// Collection and Dict fields
const (
	collKind protowire.Number = 1
	collElem protowire.Number = 2

	dictKey protowire.Number = 1
	dictVal protowire.Number = 2
)

// Record fields. Properties are written innermost first.
const (
	recordProp protowire.Number = 1
	recordTail protowire.Number = 2

	propName  protowire.Number = 1
	propVar   protowire.Number = 2
	propValue protowire.Number = 3
)

// Function fields
const (
	funcReq  protowire.Number = 1
	funcOpt  protowire.Number = 2
	funcPipe protowire.Number = 3
	funcRetn protowire.Number = 4

	paramName    protowire.Number = 1
	paramType    protowire.Number = 2
	paramDefault protowire.Number = 3
)

// PolyType fields
const (
	polyVar  protowire.Number = 1
	polyCons protowire.Number = 2
	polyExpr protowire.Number = 3

	consVar  protowire.Number = 1
	consKind protowire.Number = 2
)

// Environment fields
const (
	envBinding protowire.Number = 1

	bindingName protowire.Number = 1
	bindingType protowire.Number = 2
)

// MarshalMonoType encodes t.
func MarshalMonoType(t types.MonoType) ([]byte, error) {
	return appendMono(nil, t)
}

// MarshalPolyType encodes p, including its quantified variables and kind constraints.
func MarshalPolyType(p types.PolyType) ([]byte, error) {
	return appendPoly(nil, p)
}

// Binding is a named type scheme within an environment.
type Binding struct {
	Name string
	Type types.PolyType
}

// MarshalEnvironment encodes a set of bindings in sorted name order.
func MarshalEnvironment(env map[string]types.PolyType) ([]byte, error) {
	names := maps.Keys(env)
	slices.Sort(names)
	bindings := make([]Binding, len(names))
	for i, name := range names {
		bindings[i] = Binding{Name: name, Type: env[name]}
	}
	return MarshalBindings(bindings)
}

// MarshalBindings encodes an ordered list of bindings.
func MarshalBindings(bindings []Binding) ([]byte, error) {
	var b []byte
	for _, binding := range bindings {
		msg := protowire.AppendTag(nil, bindingName, protowire.BytesType)
		msg = protowire.AppendString(msg, binding.Name)
		pb, err := appendPoly(nil, binding.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "binding %s", binding.Name)
		}
		msg = appendMessage(msg, bindingType, pb)
		b = appendMessage(b, envBinding, msg)
	}
	return b, nil
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// appendField appends t as an embedded message field.
func appendField(b []byte, num protowire.Number, t types.MonoType) ([]byte, error) {
	msg, err := appendMono(nil, t)
	if err != nil {
		return nil, err
	}
	return appendMessage(b, num, msg), nil
}

func appendPoly(b []byte, p types.PolyType) ([]byte, error) {
	for _, tv := range p.Vars {
		b = appendVarint(b, polyVar, uint64(tv))
	}
	tvs := maps.Keys(p.Cons)
	slices.Sort(tvs)
	for _, tv := range tvs {
		msg := appendVarint(nil, consVar, uint64(tv))
		for _, k := range p.Cons[tv] {
			msg = appendVarint(msg, consKind, uint64(k))
		}
		b = appendMessage(b, polyCons, msg)
	}
	return appendField(b, polyExpr, p.Expr)
}

func appendMono(b []byte, t types.MonoType) ([]byte, error) {
	var err error
	switch t := t.(type) {
	case types.Error:
		b = appendMessage(b, monoError, nil)
	case *types.Var:
		b = appendVarint(b, monoVar, uint64(t.Tvar))
	case *types.BoundVar:
		b = appendVarint(b, monoBoundVar, uint64(t.Tvar))
	case *types.Builtin:
		b = appendString(b, monoBuiltin, t.Name)
	case *types.Label:
		b = appendString(b, monoLabel, t.Name)
	case *types.Collection:
		msg := appendVarint(nil, collKind, uint64(t.Kind))
		if msg, err = appendField(msg, collElem, t.Elem); err != nil {
			return nil, err
		}
		b = appendMessage(b, monoColl, msg)
	case *types.Dict:
		msg, err := appendField(nil, dictKey, t.Key)
		if err != nil {
			return nil, err
		}
		if msg, err = appendField(msg, dictVal, t.Val); err != nil {
			return nil, err
		}
		b = appendMessage(b, monoDict, msg)
	case types.RecordEmpty, *types.RecordExtend:
		msg, err := appendRecord(t)
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, monoRecord, msg)
	case *types.Function:
		msg, err := appendFunction(t)
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, monoFunction, msg)
	case nil:
		return nil, errors.New("serial: nil type")
	default:
		return nil, errors.Errorf("serial: unsupported type %T", t)
	}
	return b, nil
}

// appendRecord walks the extension chain iteratively, so deeply nested records do not grow
// the stack.
func appendRecord(t types.MonoType) ([]byte, error) {
	var heads []types.Property
	for {
		ext, ok := t.(*types.RecordExtend)
		if !ok {
			break
		}
		heads = append(heads, ext.Head)
		t = ext.Tail
	}
	var b []byte
	var err error
	for i := len(heads) - 1; i >= 0; i-- {
		p := heads[i]
		var msg []byte
		if p.Label.IsVar() {
			if msg, err = appendField(msg, propVar, p.Label.Var); err != nil {
				return nil, err
			}
		} else {
			msg = appendString(msg, propName, p.Label.Name)
		}
		if msg, err = appendField(msg, propValue, p.Value); err != nil {
			return nil, err
		}
		b = appendMessage(b, recordProp, msg)
	}
	if _, closed := t.(types.RecordEmpty); !closed {
		if b, err = appendField(b, recordTail, t); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func appendParam(b []byte, num protowire.Number, name string, t, def types.MonoType) ([]byte, error) {
	msg, err := appendField(appendString(nil, paramName, name), paramType, t)
	if err != nil {
		return nil, errors.Wrapf(err, "parameter %s", name)
	}
	if def != nil {
		if msg, err = appendField(msg, paramDefault, def); err != nil {
			return nil, errors.Wrapf(err, "default of %s", name)
		}
	}
	return appendMessage(b, num, msg), nil
}

func appendFunction(f *types.Function) (b []byte, err error) {
	for _, name := range f.ReqNames() {
		if b, err = appendParam(b, funcReq, name, f.Req[name], nil); err != nil {
			return nil, err
		}
	}
	for _, name := range f.OptNames() {
		arg := f.Opt[name]
		if b, err = appendParam(b, funcOpt, name, arg.Type, arg.Default); err != nil {
			return nil, err
		}
	}
	if f.Pipe != nil {
		if b, err = appendParam(b, funcPipe, f.Pipe.Name, f.Pipe.Type, nil); err != nil {
			return nil, err
		}
	}
	return appendField(b, funcRetn, f.Retn)
}
