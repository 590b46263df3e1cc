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
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

var printerPool = sync.Pool{
	New: func() interface{} {
		p := &typePrinter{names: make(map[Tvar]string, 16)}
		p.order = p._order[:0]
		return p
	},
}

func newTypePrinter() *typePrinter { return printerPool.Get().(*typePrinter) }

func (p *typePrinter) Release() {
	for k := range p.names {
		delete(p.names, k)
	}
	p.order = p._order[:0]
	p.sb.Reset()
	printerPool.Put(p)
}

type typePrinter struct {
	// names of bound variables, assigned in order of first appearance
	names  map[Tvar]string
	order  []Tvar
	_order [16]Tvar
	sb     strings.Builder
}

// TypeString returns a string representation of a MonoType. Free variables are printed as
// `t<id>`; bound variables are named A, B, C... in order of first appearance.
func TypeString(t MonoType) string {
	p := newTypePrinter()
	p.typeString(t)
	s := p.sb.String()
	p.Release()
	return s
}

// PolyString returns a string representation of a PolyType, followed by the kinds required of
// its quantified variables:
//
//	(a: A, b: A) => A where A: Addable
func PolyString(pt PolyType) string {
	p := newTypePrinter()
	p.typeString(pt.Expr)
	// quantified variables which do not appear within the expression:
	for _, tv := range pt.Vars {
		p.boundName(tv)
	}
	first := true
	for _, tv := range p.order {
		ks := pt.Cons[tv]
		if len(ks) == 0 {
			continue
		}
		if first {
			p.sb.WriteString(" where ")
			first = false
		} else {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(p.names[tv])
		p.sb.WriteString(": ")
		for i, k := range ks {
			if i > 0 {
				p.sb.WriteString(" + ")
			}
			p.sb.WriteString(k.String())
		}
	}
	s := p.sb.String()
	p.Release()
	return s
}

// String returns a string representation of the type scheme.
func (p PolyType) String() string { return PolyString(p) }

// LabelString returns the printed form of a record label.
func LabelString(l RecordLabel) string {
	if l.IsVar() {
		return TypeString(l.Var)
	}
	return labelName(l.Name)
}

func getBoundVarName(i int) string {
	name := string(rune('A' + i%26))
	if i >= 26 {
		name += strconv.Itoa(i / 26)
	}
	return name
}

func (p *typePrinter) boundName(tv Tvar) string {
	if name, ok := p.names[tv]; ok {
		return name
	}
	name := getBoundVarName(len(p.order))
	p.names[tv] = name
	p.order = append(p.order, tv)
	return name
}

// Labels which are not identifiers are quoted.
func labelName(name string) string {
	if isIdentifier(name) {
		return name
	}
	return strconv.Quote(name)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == utf8.RuneError {
			return false
		}
		if i == 0 {
			if r != '_' && !xid.Start(r) {
				return false
			}
			continue
		}
		if !xid.Continue(r) {
			return false
		}
	}
	return true
}

func (p *typePrinter) typeString(t MonoType) {
	switch t := t.(type) {
	case nil:
		p.sb.WriteString("<nil>")

	case Error:
		p.sb.WriteString("<error>")

	case *Var:
		p.sb.WriteByte('t')
		p.sb.WriteString(strconv.FormatUint(uint64(t.Tvar), 10))

	case *BoundVar:
		p.sb.WriteString(p.boundName(t.Tvar))

	case *Builtin:
		p.sb.WriteString(t.Name)

	case *Label:
		p.sb.WriteString(strconv.Quote(t.Name))

	case *Collection:
		switch t.Kind {
		case Stream:
			p.sb.WriteString("stream")
		case Vector:
			p.sb.WriteString("vector")
		}
		p.sb.WriteByte('[')
		p.typeString(t.Elem)
		p.sb.WriteByte(']')

	case *Dict:
		p.sb.WriteByte('[')
		p.typeString(t.Key)
		p.sb.WriteByte(':')
		p.typeString(t.Val)
		p.sb.WriteByte(']')

	case RecordEmpty:
		p.sb.WriteString("{}")

	case *RecordExtend:
		labels, tail := CollectRecord(t)
		p.sb.WriteByte('{')
		if tail != nil {
			p.typeString(tail)
			p.sb.WriteString(" with ")
		}
		i := 0
		labels.Range(func(key string, ts TypeList) bool {
			label := LabelFromKey(key)
			// outermost fields first:
			for j := ts.Len() - 1; j >= 0; j-- {
				if i > 0 {
					p.sb.WriteString(", ")
				}
				if label.IsVar() {
					p.typeString(label.Var)
				} else {
					p.sb.WriteString(labelName(label.Name))
				}
				p.sb.WriteString(": ")
				p.typeString(ts.Get(j))
				i++
			}
			return true
		})
		p.sb.WriteByte('}')

	case *Function:
		p.sb.WriteByte('(')
		i := 0
		sep := func() {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			i++
		}
		if t.Pipe != nil {
			sep()
			p.sb.WriteString("<-")
			if t.Pipe.Name != AnonymousPipe {
				p.sb.WriteString(t.Pipe.Name)
			}
			p.sb.WriteString(": ")
			p.typeString(t.Pipe.Type)
		}
		for _, name := range t.ReqNames() {
			sep()
			p.sb.WriteString(name)
			p.sb.WriteString(": ")
			p.typeString(t.Req[name])
		}
		for _, name := range t.OptNames() {
			sep()
			p.sb.WriteByte('?')
			p.sb.WriteString(name)
			p.sb.WriteString(": ")
			p.typeString(t.Opt[name].Type)
		}
		p.sb.WriteString(") => ")
		p.typeString(t.Retn)
	}
}
