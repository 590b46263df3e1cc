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

package semantic

import (
	"strconv"
)

// Position is a line and column within a source file, both starting at 1.
type Position struct {
	Line   int
	Column int
}

// Less reports whether p precedes q.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Loc is a range within a source file.
type Loc struct {
	File  string
	Start Position
	End   Position
}

// IsValid reports whether the location refers to a source position.
func (l Loc) IsValid() bool { return l.Start.Line > 0 }

// Less orders locations by file, then by start and end positions.
func (l Loc) Less(m Loc) bool {
	if l.File != m.File {
		return l.File < m.File
	}
	if l.Start != m.Start {
		return l.Start.Less(m.Start)
	}
	return l.End.Less(m.End)
}

func (l Loc) String() string {
	if !l.IsValid() {
		return l.File
	}
	s := strconv.Itoa(l.Start.Line) + ":" + strconv.Itoa(l.Start.Column)
	if l.End.Line > 0 {
		s += "-" + strconv.Itoa(l.End.Line) + ":" + strconv.Itoa(l.End.Column)
	}
	if l.File != "" {
		s = l.File + "@" + s
	}
	return s
}
