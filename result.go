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

	"github.com/biogo/hts/sam"
)

// AlignmentResult represents a global alignment.
type AlignmentResult struct {
	Score int // Alignment score, including gap incentives

	// Aligned sequences of the same length, with GapSymbol for gaps.
	// Bases are kept as they are in the input sequences.
	AlignedQuery []byte
	AlignedRef   []byte

	// 100 * Matches / AlignLen, rounded to 3 decimal places.
	MatchPercentage float64

	Ops []*CIGARRecord

	QLen, TLen int // lengths of the input sequences

	// Stats of the whole alignment, including terminal gaps.
	AlignLen   int
	Matches    int
	Mismatches int
	Gaps       int // Insertions + Deletions
	GapRegions int
	Insertions int // query bases aligned to gaps
	Deletions  int // reference bases aligned to gaps

	processed bool
}

// CIGARRecord records the operation and the number.
type CIGARRecord struct {
	N  uint32
	Op byte
}

// NewAlignmentResult returns a new AlignmentResult from the object pool.
func NewAlignmentResult() *AlignmentResult {
	r := poolAlignmentResult.Get().(*AlignmentResult)
	r.reset()
	return r
}

// reset resets an AlignmentResult.
func (r *AlignmentResult) reset() {
	for _, op := range r.Ops {
		poolCIGARRecord.Put(op)
	}
	r.Ops = r.Ops[:0]
	r.Score = 0
	r.AlignedQuery = r.AlignedQuery[:0]
	r.AlignedRef = r.AlignedRef[:0]
	r.MatchPercentage = 0
	r.QLen, r.TLen = 0, 0

	r.AlignLen = 0
	r.Matches = 0
	r.Mismatches = 0
	r.Gaps = 0
	r.GapRegions = 0
	r.Insertions = 0
	r.Deletions = 0

	r.processed = false
}

// RecycleAlignmentResult recycles an AlignmentResult object.
func RecycleAlignmentResult(r *AlignmentResult) {
	if r != nil {
		poolAlignmentResult.Put(r)
	}
}

// object pool of AlignmentResult.
var poolAlignmentResult = &sync.Pool{New: func() interface{} {
	r := AlignmentResult{
		Ops:          make([]*CIGARRecord, 0, 128),
		AlignedQuery: make([]byte, 0, 1024),
		AlignedRef:   make([]byte, 0, 1024),
	}
	return &r
}}

// object pool of CIGARRecord.
var poolCIGARRecord = &sync.Pool{New: func() interface{} {
	return &CIGARRecord{}
}}

// add adds a column in backtrace, i.e., in the reversed order.
func (r *AlignmentResult) add(op byte, q, t byte) {
	r.AlignedQuery = append(r.AlignedQuery, q)
	r.AlignedRef = append(r.AlignedRef, t)

	if l := len(r.Ops); l > 0 && r.Ops[l-1].Op == op {
		r.Ops[l-1].N++
		return
	}
	rec := poolCIGARRecord.Get().(*CIGARRecord)
	rec.Op = op
	rec.N = 1
	r.Ops = append(r.Ops, rec)
}

// process reverses the data collected in backtrace and counts matches and gaps.
func (r *AlignmentResult) process() {
	if r.processed {
		return
	}

	reverse(r.AlignedQuery)
	reverse(r.AlignedRef)
	reverse(r.Ops)

	var n int
	for _, op := range r.Ops {
		n = int(op.N)
		r.AlignLen += n
		switch op.Op {
		case opMatch:
			r.Matches += n
		case opMismatch:
			r.Mismatches += n
		case opInsertion:
			r.Insertions += n
			r.GapRegions++
		case opDeletion:
			r.Deletions += n
			r.GapRegions++
		}
	}
	r.Gaps = r.Insertions + r.Deletions
	r.MatchPercentage = percent(r.Matches, r.AlignLen)

	r.processed = true
}

// SAMCigar returns the CIGAR in the biogo/hts format.
// If extended is true, matches and mismatches are reported with "=" and "X",
// otherwise both are merged into "M".
func (r *AlignmentResult) SAMCigar(extended bool) sam.Cigar {
	r.process()

	cigar := make(sam.Cigar, 0, len(r.Ops))
	var t sam.CigarOpType
	var l int
	for _, op := range r.Ops {
		switch op.Op {
		case opMatch:
			t = sam.CigarEqual
		case opMismatch:
			t = sam.CigarMismatch
		case opInsertion:
			t = sam.CigarInsertion
		case opDeletion:
			t = sam.CigarDeletion
		}
		if !extended && (t == sam.CigarEqual || t == sam.CigarMismatch) {
			t = sam.CigarMatch
		}

		l = len(cigar)
		if l > 0 && cigar[l-1].Type() == t {
			cigar[l-1] = sam.NewCigarOp(t, cigar[l-1].Len()+int(op.N))
			continue
		}
		cigar = append(cigar, sam.NewCigarOp(t, int(op.N)))
	}
	return cigar
}

// CIGAR returns the extended CIGAR string, with "=" for matches and "X" for mismatches.
// It returns "*" for an empty alignment.
func (r *AlignmentResult) CIGAR() string {
	return r.SAMCigar(true).String()
}

// AlignmentText returns the formatted alignment text for Query, Alignment, and Target.
// Do not forget to recycle them with RecycleAlignmentText().
func (r *AlignmentResult) AlignmentText() (*[]byte, *[]byte, *[]byte) {
	r.process()

	Q := poolBytes.Get().(*[]byte)
	A := poolBytes.Get().(*[]byte)
	T := poolBytes.Get().(*[]byte)

	*Q = append(*Q, r.AlignedQuery...)
	*T = append(*T, r.AlignedRef...)
	var q, t byte
	for i := range r.AlignedQuery {
		q, t = r.AlignedQuery[i], r.AlignedRef[i]
		if q != GapSymbol && upper(q) == upper(t) {
			*A = append(*A, '|')
		} else {
			*A = append(*A, ' ')
		}
	}

	return Q, A, T
}

// RecycleAlignmentText recycles alignment text.
func RecycleAlignmentText(Q, A, T *[]byte) {
	if Q != nil {
		*Q = (*Q)[:0]
		poolBytes.Put(Q)
	}
	if A != nil {
		*A = (*A)[:0]
		poolBytes.Put(A)
	}
	if T != nil {
		*T = (*T)[:0]
		poolBytes.Put(T)
	}
}

// MatchPercentage computes the percentage of columns where both sides are
// non-gap identical bases (case-insensitive), over the whole alignment length
// including gap columns. The value is rounded to 3 decimal places,
// and it is 0 for an empty alignment.
func MatchPercentage(alignedQuery, alignedReference []byte) (float64, error) {
	if len(alignedQuery) != len(alignedReference) {
		return 0, ErrAlignedLengthMismatch
	}
	var matches int
	var q, t byte
	for i := range alignedQuery {
		q, t = alignedQuery[i], alignedReference[i]
		if q == GapSymbol || t == GapSymbol {
			continue
		}
		if upper(q) == upper(t) {
			matches++
		}
	}
	return percent(matches, len(alignedQuery)), nil
}
