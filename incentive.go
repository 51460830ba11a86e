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
	"math"
)

// MaxAbsScore is the largest magnitude accepted for a gap incentive value
// or a gap penalty. Sums of such values along any alignment path stay
// far away from the score of unreachable states.
const MaxAbsScore = math.MaxInt32

func outOfRange(v int) bool {
	return v > MaxAbsScore || v < -MaxAbsScore
}

// ValidateGapIncentive checks that a gap incentive vector has one value
// for each reference coordinate, i.e., len(reference)+1 values,
// and that every value is within ±MaxAbsScore.
func ValidateGapIncentive(incentive []int, refLen int) error {
	if len(incentive) != refLen+1 {
		return &ValidationError{
			Field: "gap incentive",
			Got:   len(incentive),
			Want:  refLen + 1,
			Err:   ErrGapIncentiveLength,
		}
	}
	for j, v := range incentive {
		if outOfRange(v) {
			return &ValidationError{
				Field: "gap incentive",
				Pos:   j,
				Got:   v,
				Err:   ErrValueOutOfRange,
			}
		}
	}
	return nil
}

// validatePenalties checks that both gap penalties are within ±MaxAbsScore.
func validatePenalties(p *Penalties) error {
	if outOfRange(p.GapOpen) {
		return &ValidationError{Field: "gap open", Got: p.GapOpen, Err: ErrValueOutOfRange}
	}
	if outOfRange(p.GapExtend) {
		return &ValidationError{Field: "gap extend", Got: p.GapExtend, Err: ErrValueOutOfRange}
	}
	return nil
}

// NewGapIncentive creates a gap incentive vector for a reference of refLen bases,
// where gaps next to the given cut sites receive a bonus.
// A cut site c is the 0-based position of the base right before the cut,
// and the bonus is added to coordinate c+1.
func NewGapIncentive(refLen int, cutSites []int, value int) ([]int, error) {
	if refLen < 0 {
		return nil, fmt.Errorf("negative reference length: %d", refLen)
	}
	incentive := make([]int, refLen+1)
	for _, c := range cutSites {
		if c < -1 || c >= refLen {
			return nil, fmt.Errorf("cut site %d out of range [-1, %d)", c, refLen)
		}
		incentive[c+1] += value
	}
	return incentive, nil
}
