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
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

type alignCase struct {
	name      string
	q, t      string
	incentive []int // nil for zeros
	Q, T      string
	score     int
	pct       float64
	cigar     string
}

func zeros(n int) []int {
	return make([]int, n)
}

func TestAlign(t *testing.T) {
	cases := []alignCase{
		{name: "identity", q: "ATCG", t: "ATCG",
			Q: "ATCG", T: "ATCG", score: 20, pct: 100, cigar: "4="},
		{name: "single deletion", q: "ATG", t: "ATCG",
			Q: "AT-G", T: "ATCG", score: -5, pct: 75, cigar: "2=1D1="},
		{name: "single insertion", q: "ACGAT", t: "ACGT",
			Q: "ACGAT", T: "ACG-T", score: 0, pct: 80, cigar: "3=1I1="},
		{name: "mismatch", q: "ACGT", t: "AGGT",
			Q: "ACGT", T: "AGGT", score: 11, pct: 75, cigar: "1=1X2="},
		{name: "ambiguous base", q: "ANGT", t: "ACGT",
			Q: "ANGT", T: "ACGT", score: 13, pct: 75, cigar: "1=1X2="},
		{name: "lowercase", q: "acgT", t: "ACGT",
			Q: "acgT", T: "ACGT", score: 20, pct: 100, cigar: "4="},
		{name: "flat incentive tie", q: "ACG", t: "ACCG",
			Q: "A-CG", T: "ACCG", score: -5, pct: 75, cigar: "1=1D2="},
		{name: "incentive at 2", q: "ACG", t: "ACCG", incentive: []int{0, 0, 50, 0, 0},
			Q: "A-CG", T: "ACCG", score: 45, pct: 75, cigar: "1=1D2="},
		{name: "incentive at 3", q: "ACG", t: "ACCG", incentive: []int{0, 0, 0, 50, 0},
			Q: "AC-G", T: "ACCG", score: 45, pct: 75, cigar: "2=1D1="},
		{name: "empty query", q: "", t: "ACG",
			Q: "---", T: "ACG", score: -24, pct: 0, cigar: "3D"},
		{name: "empty reference", q: "AC", t: "",
			Q: "AC", T: "--", score: -22, pct: 0, cigar: "2I"},
		{name: "both empty", q: "", t: "",
			Q: "", T: "", score: 0, pct: 0, cigar: "*"},
	}

	algn := New()
	defer RecycleAligner(algn)

	for _, c := range cases {
		incentive := c.incentive
		if incentive == nil {
			incentive = zeros(len(c.t) + 1)
		}
		r, err := algn.Align([]byte(c.q), []byte(c.t), incentive)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.name, err)
			continue
		}
		if string(r.AlignedQuery) != c.Q || string(r.AlignedRef) != c.T {
			t.Errorf("%s: alignment: expected %s/%s, returned %s/%s",
				c.name, c.Q, c.T, r.AlignedQuery, r.AlignedRef)
		}
		if r.Score != c.score {
			t.Errorf("%s: score: expected %d, returned %d", c.name, c.score, r.Score)
		}
		if r.MatchPercentage != c.pct {
			t.Errorf("%s: match percentage: expected %f, returned %f", c.name, c.pct, r.MatchPercentage)
		}
		if cigar := r.CIGAR(); cigar != c.cigar {
			t.Errorf("%s: cigar: expected %s, returned %s", c.name, c.cigar, cigar)
		}
		RecycleAlignmentResult(r)
	}
}

func TestAffineGap(t *testing.T) {
	// TGC deleted from the middle
	ref := []byte("ACGTTGCAGGCTA")
	query := []byte("ACGTAGGCTA")

	algn := New()
	defer RecycleAligner(algn)

	r, err := algn.Align(query, ref, zeros(len(ref)+1))
	if err != nil {
		t.Error(err)
		return
	}
	defer RecycleAlignmentResult(r)

	if r.Score != 10*5-20-2*2 {
		t.Errorf("score: expected %d, returned %d", 10*5-20-2*2, r.Score)
	}
	if r.GapRegions != 1 || r.Deletions != 3 || r.Insertions != 0 || r.Matches != 10 {
		t.Errorf("unexpected stats: gap regions: %d, deletions: %d, insertions: %d, matches: %d",
			r.GapRegions, r.Deletions, r.Insertions, r.Matches)
	}
}

func TestValidation(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	var verr *ValidationError

	// one value short
	r, err := algn.Align([]byte("ATG"), []byte("ATCG"), zeros(4))
	if r != nil {
		t.Errorf("no alignment expected for a wrong gap incentive length")
	}
	if !errors.Is(err, ErrGapIncentiveLength) {
		t.Errorf("ErrGapIncentiveLength expected, returned: %v", err)
	}
	if !errors.As(err, &verr) || verr.Got != 4 || verr.Want != 5 {
		t.Errorf("unexpected validation error: %v", err)
	}

	// one value more
	_, err = algn.Align([]byte("ATG"), []byte("ATCG"), zeros(6))
	if !errors.Is(err, ErrGapIncentiveLength) {
		t.Errorf("ErrGapIncentiveLength expected, returned: %v", err)
	}

	_, err = algn.Align([]byte("ATXG"), []byte("ATCG"), zeros(5))
	if !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("ErrInvalidSymbol expected, returned: %v", err)
	}
	if !errors.As(err, &verr) || verr.Field != "query" || verr.Pos != 2 || verr.Symbol != 'X' {
		t.Errorf("unexpected validation error: %v", err)
	}

	_, err = algn.Align([]byte("ATG"), []byte("AT-G"), zeros(5))
	if !errors.As(err, &verr) || verr.Field != "reference" || verr.Pos != 2 {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestGlobalAlign(t *testing.T) {
	Q, T, pct, err := GlobalAlign([]byte("ATG"), []byte("ATCG"), NewScoringMatrix(5, -4, -2, -1),
		[]int{0, 0, 0, 0, 0}, -20, -2)
	if err != nil {
		t.Error(err)
		return
	}
	if string(Q) != "AT-G" || string(T) != "ATCG" || pct != 75 {
		t.Errorf("unexpected result: %s, %s, %f", Q, T, pct)
	}

	_, _, _, err = GlobalAlign([]byte("ATG"), []byte("ATCG"), nil, []int{0}, -20, -2)
	if !errors.Is(err, ErrGapIncentiveLength) {
		t.Errorf("ErrGapIncentiveLength expected, returned: %v", err)
	}
}

func TestAlignerReuse(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	long := bytes.Repeat([]byte("ACGTTGCA"), 20)
	r, err := algn.Align(long, long, zeros(len(long)+1))
	if err != nil {
		t.Error(err)
		return
	}
	RecycleAlignmentResult(r)

	// a smaller alignment after a larger one
	r, err = algn.Align([]byte("ATG"), []byte("ATCG"), zeros(5))
	if err != nil {
		t.Error(err)
		return
	}
	defer RecycleAlignmentResult(r)
	if string(r.AlignedQuery) != "AT-G" || string(r.AlignedRef) != "ATCG" {
		t.Errorf("unexpected alignment after reusing the aligner: %s/%s", r.AlignedQuery, r.AlignedRef)
	}
}

// bruteForce returns the best score of all alignments allowed by the recurrence.
func bruteForce(q, t []byte, incentive []int, m *ScoringMatrix, p Penalties) int {
	var rec func(i, j int, s State) int
	rec = func(i, j int, s State) int {
		if i == len(q) && j == len(t) {
			return 0
		}
		best := negInf
		var cost int
		if i < len(q) && j < len(t) {
			best = max(best, m.Score(q[i], t[j])+rec(i+1, j+1, StateM))
		}
		if i < len(q) && s != StateIy {
			cost = p.GapOpen
			if s == StateIx {
				cost = p.GapExtend
			}
			best = max(best, cost+incentive[j]+rec(i+1, j, StateIx))
		}
		if j < len(t) && s != StateIx {
			cost = p.GapOpen
			if s == StateIy {
				cost = p.GapExtend
			}
			best = max(best, cost+incentive[j+1]+rec(i, j+1, StateIy))
		}
		return best
	}
	return rec(0, 0, StateM)
}

// rescore computes the score of an alignment column by column.
func rescore(Q, T []byte, incentive []int, m *ScoringMatrix, p Penalties) int {
	var score, j int
	prev := StateM
	for k := range Q {
		switch {
		case Q[k] == GapSymbol:
			j++
			if prev == StateIy {
				score += p.GapExtend
			} else {
				score += p.GapOpen
			}
			score += incentive[j]
			prev = StateIy
		case T[k] == GapSymbol:
			if prev == StateIx {
				score += p.GapExtend
			} else {
				score += p.GapOpen
			}
			score += incentive[j]
			prev = StateIx
		default:
			j++
			score += m.Score(Q[k], T[k])
			prev = StateM
		}
	}
	return score
}

func degap(s []byte) []byte {
	return bytes.ReplaceAll(s, []byte{GapSymbol}, nil)
}

func randSeq(rnd *rand.Rand, n int) []byte {
	const symbols = "ACGTNacgtn"
	s := make([]byte, n)
	for i := range s {
		if rnd.Intn(10) == 0 {
			s[i] = symbols[rnd.Intn(len(symbols))]
		} else {
			s[i] = symbols[rnd.Intn(4)]
		}
	}
	return s
}

func TestAlignProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	p := Penalties{GapOpen: -6, GapExtend: -1}
	m := DefaultScores.Matrix()

	algn := NewWithPenalties(&p, m)
	defer RecycleAligner(algn)

	var q, ref []byte
	var incentive []int
	for n := 0; n < 300; n++ {
		q = randSeq(rnd, rnd.Intn(6))
		ref = randSeq(rnd, rnd.Intn(6))
		incentive = zeros(len(ref) + 1)
		if n%2 == 1 {
			for i := range incentive {
				incentive[i] = rnd.Intn(9) - 4
			}
		}

		r, err := algn.Align(q, ref, incentive)
		if err != nil {
			t.Error(err)
			return
		}

		Q, T := r.AlignedQuery, r.AlignedRef
		if len(Q) != len(T) {
			t.Errorf("%s/%s: aligned lengths differ: %s/%s", q, ref, Q, T)
		}
		if !bytes.Equal(degap(Q), q) || !bytes.Equal(degap(T), ref) {
			t.Errorf("%s/%s: round trip failed: %s/%s", q, ref, Q, T)
		}
		if r.MatchPercentage < 0 || r.MatchPercentage > 100 {
			t.Errorf("%s/%s: match percentage out of range: %f", q, ref, r.MatchPercentage)
		}
		if pct, _ := MatchPercentage(Q, T); pct != r.MatchPercentage {
			t.Errorf("%s/%s: match percentage: %f != %f", q, ref, pct, r.MatchPercentage)
		}
		if s := rescore(Q, T, incentive, m, p); s != r.Score {
			t.Errorf("%s/%s (%v): score of %s/%s is %d, reported %d", q, ref, incentive, Q, T, s, r.Score)
		}
		if s := bruteForce(q, ref, incentive, m, p); s != r.Score {
			t.Errorf("%s/%s (%v): optimal score is %d, reported %d", q, ref, incentive, s, r.Score)
		}
		if r.AlignLen != len(Q) || r.Matches+r.Mismatches+r.Gaps != r.AlignLen {
			t.Errorf("%s/%s: inconsistent stats", q, ref)
		}

		RecycleAlignmentResult(r)
	}
}

func TestAlignDeterministic(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	q := randSeq(rnd, 120)
	ref := randSeq(rnd, 130)
	incentive := zeros(len(ref) + 1)
	incentive[60] = 3

	Q1, T1, p1, err := GlobalAlign(q, ref, nil, incentive, -20, -2)
	if err != nil {
		t.Error(err)
		return
	}
	for i := 0; i < 5; i++ {
		Q2, T2, p2, _ := GlobalAlign(q, ref, nil, incentive, -20, -2)
		if !bytes.Equal(Q1, Q2) || !bytes.Equal(T1, T2) || p1 != p2 {
			t.Errorf("results differ between runs")
			return
		}
	}
}
