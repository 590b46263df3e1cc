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

package util

// Graph is a directed graph over named vertices. Edges point from a dependency to the vertices
// which depend on it.
type Graph struct {
	names []string
	verts map[string]int
	edges [][]int
}

func NewGraph() *Graph { return &Graph{verts: make(map[string]int)} }

// AddVert adds a vertex if it does not exist, and returns its index.
func (g *Graph) AddVert(name string) int {
	if v, ok := g.verts[name]; ok {
		return v
	}
	v := len(g.names)
	g.verts[name] = v
	g.names = append(g.names, name)
	g.edges = append(g.edges, nil)
	return v
}

// Vert returns the index of a vertex.
func (g *Graph) Vert(name string) (int, bool) {
	v, ok := g.verts[name]
	return v, ok
}

// Name returns the name of a vertex.
func (g *Graph) Name(v int) string { return g.names[v] }

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.names) }

// AddEdge adds an edge between named vertices, adding the vertices if they do not exist.
func (g *Graph) AddEdge(from, to string) {
	f, t := g.AddVert(from), g.AddVert(to)
	if !g.HasEdge(f, t) {
		g.edges[f] = append(g.edges[f], t)
	}
}

func (g *Graph) HasEdge(from, to int) bool {
	for _, succ := range g.edges[from] {
		if succ == to {
			return true
		}
	}
	return false
}

// SCC returns the strongly-connected components of the graph in topological order: each
// component precedes the components which depend on it.
func (g *Graph) SCC() [][]int {
	state := sccState{
		indexTable: make([]int, len(g.edges)),
		lowLink:    make([]int, len(g.edges)),
		onStack:    make([]bool, len(g.edges)),
	}
	for v := range g.edges {
		if state.indexTable[v] == 0 {
			g.tarjanSCC(&state, v)
		}
	}
	sccs := state.sccs
	// Reverse the slice for topological ordering:
	for i, j := 0, len(sccs)-1; i < j; i, j = i+1, j-1 {
		sccs[i], sccs[j] = sccs[j], sccs[i]
	}
	return sccs
}

// Cycles returns the components of the graph which contain a cycle, including vertices with an
// edge to themselves.
func (g *Graph) Cycles() [][]int {
	var cycles [][]int
	for _, c := range g.SCC() {
		if len(c) > 1 || g.HasEdge(c[0], c[0]) {
			cycles = append(cycles, c)
		}
	}
	return cycles
}

// Layers partitions the strongly-connected components of the graph into layers. Every
// dependency of a component lies within the component or in an earlier layer, so the components
// of a single layer are independent of each other.
func (g *Graph) Layers() [][][]int {
	sccs := g.SCC()
	comp := make([]int, len(g.edges))
	for i, c := range sccs {
		for _, v := range c {
			comp[v] = i
		}
	}
	level := make([]int, len(sccs))
	depth := 0
	for i, c := range sccs {
		for _, v := range c {
			for _, succ := range g.edges[v] {
				if j := comp[succ]; j != i && level[j] < level[i]+1 {
					level[j] = level[i] + 1
				}
			}
		}
		if level[i]+1 > depth {
			depth = level[i] + 1
		}
	}
	layers := make([][][]int, depth)
	for i, c := range sccs {
		layers[level[i]] = append(layers[level[i]], c)
	}
	return layers
}

type sccState struct {
	index      int
	indexTable []int
	lowLink    []int
	onStack    []bool

	stack []int
	sccs  [][]int
}

// Tarjan's SCC algorithm, based on https://github.com/gonum/gonum/blob/master/graph/topo/tarjan.go
//
// Components will be output in reversed dependency-order. Reversing the output creates a proper topological sort.
func (g *Graph) tarjanSCC(state *sccState, v int) {
	state.index++
	state.indexTable[v] = state.index
	state.lowLink[v] = state.index
	state.stack = append(state.stack, v)
	state.onStack[v] = true

	for _, succ := range g.edges[v] {
		if state.indexTable[succ] == 0 {
			g.tarjanSCC(state, succ)
			state.lowLink[v] = min(state.lowLink[v], state.lowLink[succ])
		} else if state.onStack[succ] {
			state.lowLink[v] = min(state.lowLink[v], state.indexTable[succ])
		}
	}

	// If v is a root node, pop the stack and generate an SCC
	if state.lowLink[v] == state.indexTable[v] {
		var (
			c    []int
			succ int
		)
		for {
			succ, state.stack = state.stack[len(state.stack)-1], state.stack[:len(state.stack)-1]
			state.onStack[succ] = false
			c = append(c, succ)
			if succ == v {
				break
			}
		}
		state.sccs = append(state.sccs, c)
	}
}
