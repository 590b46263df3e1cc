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

package importer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/flowtype"
	"github.com/wdamron/flowtype/types"
)

func identity() types.PolyType {
	A := types.NewBoundVar(0)
	return types.NewPolyType([]types.Tvar{0}, nil,
		types.NewRecord(nil, types.Field("id", types.NewFunction(map[string]types.MonoType{"v": A}, A))))
}

func TestMap(t *testing.T) {
	src := map[string]types.PolyType{"strings": types.Mono(types.NewRecord(nil, types.Field("title", types.String)))}
	m := NewMap(src)
	delete(src, "strings")

	p, ok := m.Import("strings")
	require.True(t, ok)
	assert.Equal(t, "{title: string}", p.String())
	_, ok = m.Import("math")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestFromExports(t *testing.T) {
	x := flowtype.NewPackageExports()
	x.Add("pi", types.Mono(types.Float))
	m := FromExports(map[string]*flowtype.PackageExports{"math": x})
	p, ok := m.Import("math")
	require.True(t, ok)
	assert.Equal(t, "{pi: float}", p.String())
}

func TestChain(t *testing.T) {
	a := NewMap(map[string]types.PolyType{"a": types.Mono(types.Int), "b": types.Mono(types.Int)})
	b := importerFunc(map[string]types.PolyType{"b": types.Mono(types.String), "c": types.Mono(types.Bool)})
	c := Chain{nil, a, b}

	for path, want := range map[string]string{"a": "int", "b": "int", "c": "bool"} {
		p, ok := c.Import(path)
		require.True(t, ok, path)
		assert.Equal(t, want, p.String(), path)
	}
	_, ok := c.Import("d")
	assert.False(t, ok)
}

func importerFunc(m map[string]types.PolyType) flowtype.Importer {
	return flowtype.ImporterFunc(func(path string) (types.PolyType, bool) {
		p, ok := m[path]
		return p, ok
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "", nil)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Import("universe")
	require.False(t, ok)

	require.NoError(t, s.Put(ctx, "universe", identity()))
	p, ok := s.Import("universe")
	require.True(t, ok)
	assert.Equal(t, "{id: (v: A) => A}", p.String())

	p, ok, err = s.Load(ctx, "universe")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, identity().Equal(p))

	require.NoError(t, s.Put(ctx, "universe", types.Mono(types.NewRecord(nil))))
	p, ok = s.Import("universe")
	require.True(t, ok)
	assert.Equal(t, "{}", p.String())

	x := flowtype.NewPackageExports()
	x.Add("e", types.Mono(types.Float))
	require.NoError(t, s.PutExports(ctx, "math", x))

	paths, err := s.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"math", "universe"}, paths)
}

func TestStorePersists(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "types.db")

	s, err := Open(ctx, dsn, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "universe", identity()))
	require.NoError(t, s.Close())

	s, err = Open(ctx, dsn, nil)
	require.NoError(t, err)
	defer s.Close()
	p, ok := s.Import("universe")
	require.True(t, ok)
	assert.True(t, identity().Equal(p), "type: %s", p)
}
