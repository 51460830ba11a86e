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
	"sync"
)

// Penalties contains the affine gap penalties, which are usually negative.
// A gap of length L costs GapOpen + (L-1)*GapExtend.
type Penalties struct {
	GapOpen   int
	GapExtend int
}

// DefaultPenalties is the default setting for aligning amplicon reads.
var DefaultPenalties = Penalties{
	GapOpen:   -20,
	GapExtend: -2,
}

var defaultMatrix = DefaultScores.Matrix()

// Aligner performs global alignment with affine gap penalties and
// a position-specific gap incentive over the reference coordinates.
//
// It can be used for multiple pairs of query and reference sequences,
// but not concurrently. Aligners come from an object pool, remember to
// recycle them with RecycleAligner.
type Aligner struct {
	p *Penalties
	m *ScoringMatrix

	// DP matrices of the last alignment:
	//   M:  the last column is a substitution,
	//   Ix: the last column consumes a query base only (insertion),
	//   Iy: the last column consumes a reference base only (deletion).
	M, Ix, Iy *Component

	ptrs []uint8 // back pointers, see backtrace_types.go

	q, t []byte // encoded sequences
}

// object pool of aligners.
var poolAligner = &sync.Pool{New: func() interface{} {
	algn := Aligner{
		M:    newComponent(StateM),
		Ix:   newComponent(StateIx),
		Iy:   newComponent(StateIy),
		ptrs: make([]uint8, 0, 1024),
		q:    make([]byte, 0, 256),
		t:    make([]byte, 0, 256),
	}
	return &algn
}}

// RecycleAligner recycles an Aligner object.
func RecycleAligner(algn *Aligner) {
	if algn != nil {
		poolAligner.Put(algn)
	}
}

// New returns a new Aligner with the default penalties and scoring matrix.
func New() *Aligner {
	return NewWithPenalties(&DefaultPenalties, defaultMatrix)
}

// NewWithPenalties returns a new Aligner from the object pool.
// Nil values are replaced with the default ones.
func NewWithPenalties(p *Penalties, m *ScoringMatrix) *Aligner {
	if p == nil {
		p = &DefaultPenalties
	}
	if m == nil {
		m = defaultMatrix
	}
	algn := poolAligner.Get().(*Aligner)
	algn.p = p
	algn.m = m
	return algn
}

// Penalties returns the gap penalties.
func (algn *Aligner) Penalties() Penalties {
	return *algn.p
}

// Align aligns the query q to the reference t end to end.
// The gap incentive vector must have len(t)+1 values, where incentive[j] is added
// to every gap event at reference coordinate j.
//
// Input is validated before any DP computation, a *ValidationError is returned
// for an incentive vector of wrong length, an incentive value or a gap penalty
// out of ±MaxAbsScore, or a symbol out of the alphabet.
// Do not forget to recycle the result with RecycleAlignmentResult().
func (algn *Aligner) Align(q, t []byte, incentive []int) (*AlignmentResult, error) {
	if err := ValidateGapIncentive(incentive, len(t)); err != nil {
		return nil, err
	}
	if err := validatePenalties(algn.p); err != nil {
		return nil, err
	}
	if err := ValidateSequence("query", q); err != nil {
		return nil, err
	}
	if err := ValidateSequence("reference", t); err != nil {
		return nil, err
	}

	algn.encode(q, t)

	s := algn.fill(incentive)

	return algn.backtrace(q, t, s), nil
}

// encode converts bases to indexes of the alphabet.
func (algn *Aligner) encode(q, t []byte) {
	algn.q = algn.q[:0]
	for _, b := range q {
		algn.q = append(algn.q, byte(symbolCodes[b]))
	}
	algn.t = algn.t[:0]
	for _, b := range t {
		algn.t = append(algn.t, byte(symbolCodes[b]))
	}
}

// fill computes the three DP matrices and returns the terminal state.
//
// Recurrence:
//
//	M[i][j]  = S(q[i], t[j]) + max(M[i-1][j-1], Ix[i-1][j-1], Iy[i-1][j-1])
//	Ix[i][j] = max(M[i-1][j] + open + inc[j], Ix[i-1][j] + extend + inc[j])
//	Iy[i][j] = max(M[i][j-1] + open + inc[j], Iy[i][j-1] + extend + inc[j])
//
// Ties are broken in a fixed order:
//   - the predecessor of M, and the terminal state: M, then Ix, then Iy.
//     A later state is chosen only when its score is strictly higher.
//   - Ix and Iy: extension, unless opening is strictly higher.
func (algn *Aligner) fill(incentive []int) State {
	q, t := algn.q, algn.t
	h, w := len(q)+1, len(t)+1
	n := h * w

	algn.M.reset(h, w)
	algn.Ix.reset(h, w)
	algn.Iy.reset(h, w)
	if n <= cap(algn.ptrs) {
		algn.ptrs = algn.ptrs[:n]
	} else {
		algn.ptrs = make([]uint8, n)
	}

	sm, sx, sy := algn.M.Scores, algn.Ix.Scores, algn.Iy.Scores
	ptrs := algn.ptrs
	mat := algn.m
	open, ext := algn.p.GapOpen, algn.p.GapExtend

	var i, j, k, kd, ku, kl int
	var inc, best, vOpen, vExt int
	var from State
	var ptr uint8

	// the origin
	sm[0], sx[0], sy[0] = 0, negInf, negInf
	ptrs[0] = uint8(stateNone)

	// the first column: leading query bases against nothing
	inc = incentive[0]
	for i = 1; i < h; i++ {
		k = i * w
		ku = k - w
		sm[k], sy[k] = negInf, negInf
		ptr = uint8(stateNone)

		vOpen = sm[ku] + open + inc
		vExt = sx[ku] + ext + inc
		if vOpen > vExt {
			sx[k] = vOpen
			ptr |= ptrIxOpen
		} else {
			sx[k] = vExt
		}

		ptrs[k] = ptr
	}

	// the first row: leading reference bases against nothing
	for j = 1; j < w; j++ {
		kl = j - 1
		inc = incentive[j]
		sm[j], sx[j] = negInf, negInf
		ptr = uint8(stateNone)

		vOpen = sm[kl] + open + inc
		vExt = sy[kl] + ext + inc
		if vOpen > vExt {
			sy[j] = vOpen
			ptr |= ptrIyOpen
		} else {
			sy[j] = vExt
		}

		ptrs[j] = ptr
	}

	var cq byte
	for i = 1; i < h; i++ {
		cq = q[i-1]
		for j = 1; j < w; j++ {
			k = i*w + j
			kd, ku, kl = k-w-1, k-w, k-1
			inc = incentive[j]

			// M
			best, from = sm[kd], StateM
			if sx[kd] > best {
				best, from = sx[kd], StateIx
			}
			if sy[kd] > best {
				best, from = sy[kd], StateIy
			}
			sm[k] = best + mat.score(cq, t[j-1])
			ptr = uint8(from)

			// Ix
			vOpen = sm[ku] + open + inc
			vExt = sx[ku] + ext + inc
			if vOpen > vExt {
				sx[k] = vOpen
				ptr |= ptrIxOpen
			} else {
				sx[k] = vExt
			}

			// Iy
			vOpen = sm[kl] + open + inc
			vExt = sy[kl] + ext + inc
			if vOpen > vExt {
				sy[k] = vOpen
				ptr |= ptrIyOpen
			} else {
				sy[k] = vExt
			}

			ptrs[k] = ptr
		}
	}

	// the terminal state
	k = n - 1
	best, from = sm[k], StateM
	if sx[k] > best {
		best, from = sx[k], StateIx
	}
	if sy[k] > best {
		from = StateIy
	}
	return from
}

// backtrace walks from the terminal cell back to the origin,
// following the back pointers, and builds the alignment.
func (algn *Aligner) backtrace(q, t []byte, s State) *AlignmentResult {
	r := NewAlignmentResult()

	w := len(t) + 1
	i, j := len(q), len(t)
	ptrs := algn.ptrs

	switch s {
	case StateM:
		r.Score = algn.M.Scores[idx(i, j, w)]
	case StateIx:
		r.Score = algn.Ix.Scores[idx(i, j, w)]
	default:
		r.Score = algn.Iy.Scores[idx(i, j, w)]
	}
	r.QLen, r.TLen = len(q), len(t)

	var ptr uint8
	for i > 0 || j > 0 {
		ptr = ptrs[idx(i, j, w)]

		switch s {
		case StateM:
			if algn.q[i-1] == algn.t[j-1] {
				r.add(opMatch, q[i-1], t[j-1])
			} else {
				r.add(opMismatch, q[i-1], t[j-1])
			}
			s = State(ptr & ptrMMask)
			i--
			j--
		case StateIx:
			r.add(opInsertion, q[i-1], GapSymbol)
			if ptr&ptrIxOpen > 0 {
				s = StateM
			}
			i--
		case StateIy:
			r.add(opDeletion, GapSymbol, t[j-1])
			if ptr&ptrIyOpen > 0 {
				s = StateM
			}
			j--
		default: // should not happen
			panic("galign: backtrace reached an unreachable cell")
		}
	}

	r.process()

	return r
}

// GlobalAlign aligns a query (read) to a reference (amplicon) end to end
// and returns the aligned query, the aligned reference and the match percentage.
// A nil matrix means the default scoring matrix.
func GlobalAlign(query, reference []byte, matrix *ScoringMatrix, gapIncentive []int,
	gapOpen, gapExtend int) (alignedQuery, alignedReference []byte, matchPercentage float64, err error) {

	p := Penalties{GapOpen: gapOpen, GapExtend: gapExtend}
	algn := NewWithPenalties(&p, matrix)
	defer RecycleAligner(algn)

	r, err := algn.Align(query, reference, gapIncentive)
	if err != nil {
		return nil, nil, 0, err
	}
	defer RecycleAlignmentResult(r)

	alignedQuery = append(make([]byte, 0, len(r.AlignedQuery)), r.AlignedQuery...)
	alignedReference = append(make([]byte, 0, len(r.AlignedRef)), r.AlignedRef...)
	return alignedQuery, alignedReference, r.MatchPercentage, nil
}
