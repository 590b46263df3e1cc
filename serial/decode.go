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

package serial

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/wdamron/flowtype/types"
)

// UnmarshalMonoType decodes a monotype encoded by MarshalMonoType.
func UnmarshalMonoType(b []byte) (types.MonoType, error) {
	t, err := consumeMono(b)
	return t, errors.Wrap(err, "serial: decoding monotype")
}

// UnmarshalPolyType decodes a type scheme encoded by MarshalPolyType.
func UnmarshalPolyType(b []byte) (types.PolyType, error) {
	p, err := consumePoly(b)
	return p, errors.Wrap(err, "serial: decoding polytype")
}

// UnmarshalEnvironment decodes bindings encoded by MarshalEnvironment or MarshalBindings.
// When a name is bound more than once, the last binding wins.
func UnmarshalEnvironment(b []byte) (map[string]types.PolyType, error) {
	bindings, err := UnmarshalBindings(b)
	if err != nil {
		return nil, err
	}
	env := make(map[string]types.PolyType, len(bindings))
	for _, binding := range bindings {
		env[binding.Name] = binding.Type
	}
	return env, nil
}

// UnmarshalBindings decodes an ordered list of bindings.
func UnmarshalBindings(b []byte) ([]Binding, error) {
	var bindings []Binding
	err := readFields(b, func(f field) error {
		if f.num != envBinding {
			return nil
		}
		msg, err := f.message()
		if err != nil {
			return err
		}
		var binding Binding
		hasType := false
		err = readFields(msg, func(f field) (err error) {
			switch f.num {
			case bindingName:
				binding.Name, err = f.string()
			case bindingType:
				var pb []byte
				if pb, err = f.message(); err == nil {
					binding.Type, err = consumePoly(pb)
					hasType = true
				}
			}
			return err
		})
		if err != nil {
			return errors.Wrapf(err, "binding %q", binding.Name)
		}
		if !hasType {
			return errors.Errorf("binding %q has no type", binding.Name)
		}
		bindings = append(bindings, binding)
		return nil
	})
	return bindings, errors.Wrap(err, "serial: decoding environment")
}

// field is a single decoded field. Only one of varint and bytes is set, according to typ.
type field struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

func (f field) uint() (uint64, error) {
	if f.typ != protowire.VarintType {
		return 0, errors.Errorf("field %d: expected varint", f.num)
	}
	return f.varint, nil
}

func (f field) message() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, errors.Errorf("field %d: expected bytes", f.num)
	}
	return f.bytes, nil
}

func (f field) string() (string, error) {
	b, err := f.message()
	return string(b), err
}

// readFields calls fn for each varint or length-delimited field of the message b. Fields of
// other wire types are skipped.
func readFields(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			if n = protowire.ConsumeFieldValue(num, typ, b); n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// fieldType decodes a monotype embedded as a message field.
func fieldType(f field) (types.MonoType, error) {
	msg, err := f.message()
	if err != nil {
		return nil, err
	}
	return consumeMono(msg)
}

func consumePoly(b []byte) (types.PolyType, error) {
	var p types.PolyType
	err := readFields(b, func(f field) error {
		switch f.num {
		case polyVar:
			tv, err := f.uint()
			if err != nil {
				return err
			}
			p.Vars = append(p.Vars, types.Tvar(tv))
		case polyCons:
			msg, err := f.message()
			if err != nil {
				return err
			}
			var tv types.Tvar
			var ks []types.Kind
			err = readFields(msg, func(f field) error {
				v, err := f.uint()
				if err != nil {
					return err
				}
				switch f.num {
				case consVar:
					tv = types.Tvar(v)
				case consKind:
					k := types.Kind(v)
					if _, ok := types.LookupKind(k.String()); !ok {
						return errors.Errorf("unknown kind %d", v)
					}
					ks = append(ks, k)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if p.Cons == nil {
				p.Cons = make(map[types.Tvar][]types.Kind)
			}
			p.Cons[tv] = append(p.Cons[tv], ks...)
		case polyExpr:
			t, err := fieldType(f)
			if err != nil {
				return err
			}
			p.Expr = t
		}
		return nil
	})
	if err == nil && p.Expr == nil {
		err = errors.New("missing type expression")
	}
	return p, err
}

func consumeMono(b []byte) (types.MonoType, error) {
	var t types.MonoType
	err := readFields(b, func(f field) (err error) {
		switch f.num {
		case monoError:
			t = types.Error{}
		case monoVar:
			var tv uint64
			tv, err = f.uint()
			t = types.NewVar(types.Tvar(tv))
		case monoBoundVar:
			var tv uint64
			tv, err = f.uint()
			t = types.NewBoundVar(types.Tvar(tv))
		case monoBuiltin:
			var name string
			if name, err = f.string(); err != nil {
				return err
			}
			builtin, ok := types.LookupBuiltin(name)
			if !ok {
				return errors.Errorf("unknown builtin type %q", name)
			}
			t = builtin
		case monoLabel:
			var name string
			name, err = f.string()
			t = types.NewLabel(name)
		case monoColl:
			var msg []byte
			if msg, err = f.message(); err == nil {
				t, err = consumeCollection(msg)
			}
		case monoDict:
			var msg []byte
			if msg, err = f.message(); err == nil {
				t, err = consumeDict(msg)
			}
		case monoRecord:
			var msg []byte
			if msg, err = f.message(); err == nil {
				t, err = consumeRecord(msg)
			}
		case monoFunction:
			var msg []byte
			if msg, err = f.message(); err == nil {
				t, err = consumeFunction(msg)
			}
		}
		return err
	})
	if err == nil && t == nil {
		err = errors.New("missing type")
	}
	return t, err
}

func consumeCollection(b []byte) (types.MonoType, error) {
	c := &types.Collection{}
	err := readFields(b, func(f field) (err error) {
		switch f.num {
		case collKind:
			var k uint64
			if k, err = f.uint(); err == nil && k > uint64(types.Vector) {
				err = errors.Errorf("unknown collection kind %d", k)
			}
			c.Kind = types.CollectionKind(k)
		case collElem:
			c.Elem, err = fieldType(f)
		}
		return err
	})
	if err == nil && c.Elem == nil {
		err = errors.New("collection has no element type")
	}
	return c, err
}

func consumeDict(b []byte) (types.MonoType, error) {
	d := &types.Dict{}
	err := readFields(b, func(f field) (err error) {
		switch f.num {
		case dictKey:
			d.Key, err = fieldType(f)
		case dictVal:
			d.Val, err = fieldType(f)
		}
		return err
	})
	if err == nil && (d.Key == nil || d.Val == nil) {
		err = errors.New("dictionary has no key or value type")
	}
	return d, err
}

func consumeRecord(b []byte) (types.MonoType, error) {
	var props []types.Property
	var tail types.MonoType
	err := readFields(b, func(f field) error {
		switch f.num {
		case recordProp:
			msg, err := f.message()
			if err != nil {
				return err
			}
			p, err := consumeProperty(msg)
			if err != nil {
				return err
			}
			props = append(props, p)
		case recordTail:
			t, err := fieldType(f)
			if err != nil {
				return err
			}
			tail = t
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return types.NewRecord(tail, props...), nil
}

func consumeProperty(b []byte) (types.Property, error) {
	var p types.Property
	err := readFields(b, func(f field) (err error) {
		switch f.num {
		case propName:
			p.Label.Name, err = f.string()
		case propVar:
			var v types.MonoType
			if v, err = fieldType(f); err != nil {
				return err
			}
			switch v.(type) {
			case *types.Var, *types.BoundVar:
				p.Label.Var = v
			default:
				err = errors.Errorf("record label must be a type variable, found %s", v.TypeName())
			}
		case propValue:
			p.Value, err = fieldType(f)
		}
		return err
	})
	if err == nil && p.Value == nil {
		err = errors.Errorf("record field %s has no type", types.LabelString(p.Label))
	}
	return p, err
}

type param struct {
	name string
	typ  types.MonoType
	def  types.MonoType
}

func consumeParam(f field) (param, error) {
	var p param
	msg, err := f.message()
	if err != nil {
		return p, err
	}
	err = readFields(msg, func(f field) (err error) {
		switch f.num {
		case paramName:
			p.name, err = f.string()
		case paramType:
			p.typ, err = fieldType(f)
		case paramDefault:
			p.def, err = fieldType(f)
		}
		return err
	})
	if err == nil && p.typ == nil {
		err = errors.Errorf("parameter %s has no type", p.name)
	}
	return p, err
}

func consumeFunction(b []byte) (types.MonoType, error) {
	fn := types.NewFunction(nil, nil)
	err := readFields(b, func(f field) error {
		switch f.num {
		case funcReq, funcOpt, funcPipe:
			p, err := consumeParam(f)
			if err != nil {
				return err
			}
			switch f.num {
			case funcReq:
				fn.Req[p.name] = p.typ
			case funcOpt:
				fn.Opt[p.name] = types.Argument{Type: p.typ, Default: p.def}
			default:
				fn.Pipe = &types.Pipe{Name: p.name, Type: p.typ}
			}
		case funcRetn:
			t, err := fieldType(f)
			if err != nil {
				return err
			}
			fn.Retn = t
		}
		return nil
	})
	if err == nil && fn.Retn == nil {
		err = errors.New("function has no return type")
	}
	return fn, err
}
