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
	"github.com/benbjohnson/immutable"
)

var (
	emptyMap  = immutable.NewSortedMap(nil)
	emptyList = immutable.NewList()
)

// EmptyTypeMap holds no labels; CollectRecord returns it for records without fields.
var EmptyTypeMap = TypeMap{emptyMap}

// EmptyTypeList holds no field types.
var EmptyTypeList = TypeList{emptyList}

// TypeMap maps record label keys (see RecordLabel.Key) to the field types recorded under each
// label. Keys are kept in sorted order, so label variables, whose keys begin with a NUL byte,
// come before concrete labels.
type TypeMap struct {
	m *immutable.SortedMap
}

// Len returns the number of distinct labels.
func (m TypeMap) Len() int {
	if m.m == nil {
		return 0
	}
	return m.m.Len()
}

// First returns the entry with the smallest key.
func (m TypeMap) First() (string, TypeList) {
	if m.Len() == 0 {
		return "", EmptyTypeList
	}
	k, v := m.m.Iterator().Next()
	return k.(string), TypeList{v.(*immutable.List)}
}

// Get the field types recorded for a label key.
func (m TypeMap) Get(key string) (TypeList, bool) {
	if m.m == nil {
		return TypeList{}, false
	}
	l, ok := m.m.Get(key)
	if !ok {
		return TypeList{}, false
	}
	return TypeList{l.(*immutable.List)}, true
}

// Range calls f for each label in key order until f returns false.
func (m TypeMap) Range(f func(key string, ts TypeList) bool) {
	if m.m == nil {
		return
	}
	iter := m.m.Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		if !f(k.(string), TypeList{v.(*immutable.List)}) {
			return
		}
	}
}

// Builder returns a builder initialized with the entries of m. m is not modified.
func (m TypeMap) Builder() TypeMapBuilder {
	imm := m.m
	if imm == nil {
		imm = emptyMap
	}
	return TypeMapBuilder{immutable.NewSortedMapBuilder(imm)}
}

// TypeMapBuilder accumulates labels in place. The zero value must be initialized with
// EnsureInitialized before Set is called.
type TypeMapBuilder struct {
	b *immutable.SortedMapBuilder
}

func NewTypeMapBuilder() TypeMapBuilder {
	return TypeMapBuilder{immutable.NewSortedMapBuilder(emptyMap)}
}

func (b *TypeMapBuilder) EnsureInitialized() {
	if b.b == nil {
		b.b = immutable.NewSortedMapBuilder(emptyMap)
	}
}

func (b TypeMapBuilder) Len() int {
	if b.b == nil {
		return 0
	}
	return b.b.Len()
}

func (b TypeMapBuilder) Get(key string) (TypeList, bool) {
	if b.b == nil {
		return TypeList{}, false
	}
	l, ok := b.b.Get(key)
	if !ok {
		return TypeList{}, false
	}
	return TypeList{l.(*immutable.List)}, true
}

func (b TypeMapBuilder) Set(key string, ts TypeList) TypeMapBuilder {
	b.b.Set(key, ts.list())
	return b
}

// Build returns the accumulated map. A builder which was never initialized builds an empty map.
func (b TypeMapBuilder) Build() TypeMap {
	if b.b == nil {
		return EmptyTypeMap
	}
	return TypeMap{b.b.Map()}
}

// TypeList holds the field types recorded under one label, innermost extension first. The last
// element is the visible (outermost) field.
type TypeList struct {
	l *immutable.List
}

func (l TypeList) list() *immutable.List {
	if l.l == nil {
		return emptyList
	}
	return l.l
}

func (l TypeList) Len() int                      { return l.list().Len() }
func (l TypeList) Get(i int) MonoType            { return l.list().Get(i).(MonoType) }
func (l TypeList) Last() MonoType                { return l.Get(l.Len() - 1) }
func (l TypeList) Slice(start, end int) TypeList { return TypeList{l.list().Slice(start, end)} }
func (l TypeList) Append(t MonoType) TypeList    { return TypeList{l.list().Append(t)} }

// Range calls f for each field type, innermost first, until f returns false.
func (l TypeList) Range(f func(int, MonoType) bool) {
	iter := l.list().Iterator()
	for !iter.Done() {
		i, v := iter.Next()
		if !f(i, v.(MonoType)) {
			return
		}
	}
}

// Map returns a list holding f applied to each field type.
func (l TypeList) Map(f func(MonoType) MonoType) TypeList {
	b := immutable.NewListBuilder(l.list())
	l.Range(func(i int, t MonoType) bool {
		b.Set(i, f(t))
		return true
	})
	return TypeList{b.List()}
}
