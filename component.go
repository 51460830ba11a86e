// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.


package galign

import (
	"fmt"
	"io"
	"math"
)

// negInf is the score of unreachable states.
// It is far enough from math.MinInt to absorb any sum of penalties.
const negInf = math.MinInt / 4

// Component is one of the three DP matrices (M, Ix, Iy).
// Scores are saved row by row: rows are query prefixes (0..len(q))
// and columns are reference prefixes (0..len(t)).
type Component struct {
	State  State
	H, W   int // the number of rows and columns
	Scores []int
}

func newComponent(s State) *Component {
	return &Component{
		State:  s,
		Scores: make([]int, 0, 1024),
	}
}

// reset resizes the matrix, values are not cleared as all cells will be overwritten.
func (cpt *Component) reset(h, w int) {
	cpt.H, cpt.W = h, w
	n := h * w
	if n <= cap(cpt.Scores) {
		cpt.Scores = cpt.Scores[:n]
		return
	}
	cpt.Scores = make([]int, n)
}

// Get returns the score of cell (i, j), and if the state is reachable.
func (cpt *Component) Get(i, j int) (int, bool) {
	if i < 0 || j < 0 || i >= cpt.H || j >= cpt.W {
		return 0, false
	}
	s := cpt.Scores[idx(i, j, cpt.W)]
	return s, s > negInf/2
}

// Print lists the scores row by row.
func (cpt *Component) Print(wtr io.Writer, name string) {
	var s int
	var ok bool
	for i := 0; i < cpt.H; i++ {
		fmt.Fprintf(wtr, "%s%d:", name, i)
		for j := 0; j < cpt.W; j++ {
			s, ok = cpt.Get(i, j)
			if ok {
				fmt.Fprintf(wtr, " %d", s)
			} else {
				fmt.Fprintf(wtr, " .")
			}
		}
		fmt.Fprintln(wtr)
	}
}
