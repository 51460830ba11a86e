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

// State is one of the three DP states.
type State uint8

const (
	// StateM means the last column is a substitution (match or mismatch).
	StateM State = iota
	// StateIx means the last column consumes a query base only,
	// i.e., an insertion relative to the reference.
	StateIx
	// StateIy means the last column consumes a reference base only,
	// i.e., a deletion relative to the reference.
	StateIy

	stateNone // origin or unreachable
)

func (s State) String() string {
	switch s {
	case StateM:
		return "M"
	case StateIx:
		return "Ix"
	case StateIy:
		return "Iy"
	default:
		return "N/A"
	}
}

// Back pointers of the three states of a cell are packed in one byte:
//
//	bits 0-1: the state of cell (i-1, j-1) the M value comes from.
//	bit 2:    Ix is opened from M(i-1, j), otherwise extended from Ix(i-1, j).
//	bit 3:    Iy is opened from M(i, j-1), otherwise extended from Iy(i, j-1).
const (
	ptrMMask  uint8 = 0b0011
	ptrIxOpen uint8 = 0b0100
	ptrIyOpen uint8 = 0b1000
)

// CIGAR operations of the columns.
const (
	opMatch     byte = '='
	opMismatch  byte = 'X'
	opInsertion byte = 'I' // query base only
	opDeletion  byte = 'D' // reference base only
)

// for visualization, index: M from M/Ix/Iy, Ix open/extension, Iy open/extension.
var arrows []rune = []rune{'⬊', '⬂', '⬃', '↧', '🠧', '⟼', '🠦', '⊕'}

// arrow returns the back pointer symbol of a state in a cell.
func arrow(s State, ptr uint8) rune {
	switch s {
	case StateM:
		p := ptr & ptrMMask
		if State(p) == stateNone {
			return arrows[7]
		}
		return arrows[p]
	case StateIx:
		if ptr&ptrIxOpen > 0 {
			return arrows[3]
		}
		return arrows[4]
	case StateIy:
		if ptr&ptrIyOpen > 0 {
			return arrows[5]
		}
		return arrows[6]
	default:
		return arrows[7]
	}
}
