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
	"errors"
	"fmt"
)

// ErrGapIncentiveLength means the length of a gap incentive vector is not len(reference)+1.
var ErrGapIncentiveLength = errors.New("gap incentive length mismatch")

// ErrInvalidSymbol means a sequence contains a symbol out of the alphabet.
var ErrInvalidSymbol = errors.New("invalid symbol")

// ErrValueOutOfRange means a gap incentive value or a gap penalty exceeds MaxAbsScore in magnitude.
var ErrValueOutOfRange = errors.New("value out of range")

// ErrAlignedLengthMismatch means two aligned sequences have different lengths.
var ErrAlignedLengthMismatch = errors.New("aligned sequences have different lengths")

// ValidationError is returned for malformed input, before any DP work is done.
type ValidationError struct {
	Field  string // "query", "reference" or "gap incentive"
	Pos    int    // 0-based position of the invalid symbol
	Symbol byte

	Got, Want int // lengths for ErrGapIncentiveLength, or the value for ErrValueOutOfRange

	Err error
}

func (e *ValidationError) Error() string {
	switch e.Err {
	case ErrGapIncentiveLength:
		return fmt.Sprintf("%s: %s (gap incentive: %d, reference+1: %d)", e.Field, e.Err, e.Got, e.Want)
	case ErrValueOutOfRange:
		if e.Field == "gap incentive" {
			return fmt.Sprintf("%s: %s: %d at coordinate %d, the limit is ±%d", e.Field, e.Err, e.Got, e.Pos, MaxAbsScore)
		}
		return fmt.Sprintf("%s: %s: %d, the limit is ±%d", e.Field, e.Err, e.Got, MaxAbsScore)
	case ErrInvalidSymbol:
		return fmt.Sprintf("%s: %s '%c' at position %d", e.Field, e.Err, e.Symbol, e.Pos+1)
	default:
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
