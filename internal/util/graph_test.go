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

package util_test

import (
	"sort"
	"strings"
	"testing"

	. "github.com/wdamron/flowtype/internal/util"
)

func names(g *Graph, c []int) string {
	ns := make([]string, len(c))
	for i, v := range c {
		ns[i] = g.Name(v)
	}
	sort.Strings(ns)
	return strings.Join(ns, ",")
}

func TestSCC(t *testing.T) {
	g := NewGraph()
	// universe <- strings <- csv; a <-> b; b <- c
	g.AddEdge("universe", "strings")
	g.AddEdge("strings", "csv")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddEdge("b", "c")
	g.AddVert("alone")

	if g.Len() != 7 {
		t.Fatalf("vertices: %d", g.Len())
	}

	pos := make(map[string]int)
	for i, c := range g.SCC() {
		pos[names(g, c)] = i
	}
	if len(pos) != 6 {
		t.Fatalf("components: %v", pos)
	}
	if !(pos["universe"] < pos["strings"] && pos["strings"] < pos["csv"]) {
		t.Fatalf("order: %v", pos)
	}
	if pos["a,b"] > pos["c"] {
		t.Fatalf("order: %v", pos)
	}

	cycles := g.Cycles()
	if len(cycles) != 1 || names(g, cycles[0]) != "a,b" {
		t.Fatalf("cycles: %v", cycles)
	}

	g.AddEdge("csv", "csv")
	if cycles = g.Cycles(); len(cycles) != 2 {
		t.Fatalf("cycles: %v", cycles)
	}
}

func TestLayers(t *testing.T) {
	g := NewGraph()
	g.AddEdge("universe", "strings")
	g.AddEdge("universe", "math")
	g.AddEdge("strings", "csv")
	g.AddEdge("math", "csv")
	g.AddEdge("universe", "csv")
	g.AddVert("alone")

	var layers []string
	for _, layer := range g.Layers() {
		var ls []string
		for _, c := range layer {
			ls = append(ls, names(g, c))
		}
		sort.Strings(ls)
		layers = append(layers, strings.Join(ls, " "))
	}
	if got := strings.Join(layers, " | "); got != "alone universe | math strings | csv" {
		t.Fatalf("layers: %s", got)
	}
}

func TestVert(t *testing.T) {
	g := NewGraph()
	a := g.AddVert("a")
	if g.AddVert("a") != a {
		t.Fatalf("duplicate vertex")
	}
	if v, ok := g.Vert("a"); !ok || v != a {
		t.Fatalf("vert: %d %v", v, ok)
	}
	if _, ok := g.Vert("b"); ok {
		t.Fatalf("unexpected vertex")
	}
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	b, _ := g.Vert("b")
	if !g.HasEdge(a, b) || g.HasEdge(b, a) {
		t.Fatalf("edges")
	}
}
