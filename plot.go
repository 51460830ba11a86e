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
)

// Plot plots one DP matrix of the last alignment as a tab-delimited text table.
// q and t must be the sequences of the last alignment.
//
// A table cell contains the back pointer symbol and the score.
// Symbols:
//
//	⬊    M, from M
//	⬂    M, from Ix
//	⬃    M, from Iy
//	↧    Ix, gap open
//	🠧    Ix, gap extension
//	⟼    Iy, gap open
//	🠦    Iy, gap extension
//	⊕    the origin
//
// Unreachable cells are shown as ".".
func (algn *Aligner) Plot(q, t []byte, wtr io.Writer, cpt *Component) {
	if cpt.H != len(q)+1 || cpt.W != len(t)+1 {
		fmt.Fprintf(wtr, "sequence lengths (%d, %d) do not match the matrix (%d x %d)\n",
			len(q), len(t), cpt.H, cpt.W)
		return
	}

	w := cpt.W

	fmt.Fprintf(wtr, "%s\t ", cpt.State)
	for j := 0; j < w; j++ {
		fmt.Fprintf(wtr, "\t%4d", j)
	}
	fmt.Fprintln(wtr)
	fmt.Fprintf(wtr, "   \t ")
	fmt.Fprintf(wtr, "\t%4c", ' ')
	for _, b := range t {
		fmt.Fprintf(wtr, "\t%4c", b)
	}
	fmt.Fprintln(wtr)

	var s int
	var ok bool
	var k int
	for i := 0; i < cpt.H; i++ {
		if i == 0 {
			fmt.Fprintf(wtr, "%3d\t ", i)
		} else {
			fmt.Fprintf(wtr, "%3d\t%c", i, q[i-1])
		}
		for j := 0; j < w; j++ {
			k = idx(i, j, w)
			s, ok = cpt.Get(i, j)
			if !ok {
				fmt.Fprintf(wtr, "\t   .")
				continue
			}
			if k == 0 {
				fmt.Fprintf(wtr, "\t%c%3d", arrows[7], s)
				continue
			}
			fmt.Fprintf(wtr, "\t%c%3d", arrow(cpt.State, algn.ptrs[k]), s)
		}
		fmt.Fprintln(wtr)
	}
}
