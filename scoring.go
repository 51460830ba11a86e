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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// GapSymbol is the placeholder for gaps in aligned sequences.
const GapSymbol byte = '-'

// Alphabet is the list of supported symbols.
// Lowercase letters are accepted and scored as their uppercase forms.
const Alphabet = "ACGTN"

// number of symbols in the alphabet.
const nSymbols = len(Alphabet)

// codeN is the code of the ambiguous base.
const codeN int8 = 4

// symbolCodes maps a byte to its index in Alphabet, -1 for unsupported symbols.
var symbolCodes [256]int8

func init() {
	for i := range symbolCodes {
		symbolCodes[i] = -1
	}
	for i := 0; i < nSymbols; i++ {
		symbolCodes[Alphabet[i]] = int8(i)
		symbolCodes[Alphabet[i]+('a'-'A')] = int8(i)
	}
}

// ValidSymbol tells if a byte is in the alphabet.
func ValidSymbol(b byte) bool {
	return symbolCodes[b] >= 0
}

// ValidateSequence checks every symbol of a sequence.
// The name is only used in the error message.
func ValidateSequence(name string, s []byte) error {
	for i, b := range s {
		if symbolCodes[b] < 0 {
			return &ValidationError{Field: name, Pos: i, Symbol: b, Err: ErrInvalidSymbol}
		}
	}
	return nil
}

// Scores contains the four parameters of a scoring matrix.
type Scores struct {
	Match     int // identical non-N bases
	Mismatch  int // different non-N bases
	NMismatch int // exactly one of the bases is N
	NMatch    int // both bases are N
}

// DefaultScores is the EDNAFULL-like scoring used for amplicon reads.
var DefaultScores = Scores{
	Match:     5,
	Mismatch:  -4,
	NMismatch: -2,
	NMatch:    -1,
}

// Matrix builds the scoring matrix.
func (s Scores) Matrix() *ScoringMatrix {
	return NewScoringMatrix(s.Match, s.Mismatch, s.NMismatch, s.NMatch)
}

// ScoringMatrix is a symmetric substitution score table over the alphabet.
type ScoringMatrix struct {
	scores [nSymbols][nSymbols]int
}

// NewScoringMatrix builds a scoring matrix from four scores:
//
//	both bases equal and not N:  match
//	both bases differ, no N:     mismatch
//	exactly one base is N:       nMismatch
//	both bases are N:            nMatch
func NewScoringMatrix(match, mismatch, nMismatch, nMatch int) *ScoringMatrix {
	m := &ScoringMatrix{}
	var a, b int8
	for a = 0; a < int8(nSymbols); a++ {
		for b = 0; b < int8(nSymbols); b++ {
			switch {
			case a == codeN && b == codeN:
				m.scores[a][b] = nMatch
			case a == codeN || b == codeN:
				m.scores[a][b] = nMismatch
			case a == b:
				m.scores[a][b] = match
			default:
				m.scores[a][b] = mismatch
			}
		}
	}
	return m
}

// Score returns the score of a pair of symbols.
// Unsupported symbols score 0, they are rejected before alignment anyway.
func (m *ScoringMatrix) Score(a, b byte) int {
	ca, cb := symbolCodes[a], symbolCodes[b]
	if ca < 0 || cb < 0 {
		return 0
	}
	return m.scores[ca][cb]
}

// score is used in the DP loop with encoded symbols.
func (m *ScoringMatrix) score(ca, cb byte) int {
	return m.scores[ca][cb]
}

// Symmetric tells if score(a,b) == score(b,a) for all pairs.
func (m *ScoringMatrix) Symmetric() bool {
	for a := 0; a < nSymbols; a++ {
		for b := a + 1; b < nSymbols; b++ {
			if m.scores[a][b] != m.scores[b][a] {
				return false
			}
		}
	}
	return true
}

// String returns the matrix in the NCBI format.
func (m *ScoringMatrix) String() string {
	var sb strings.Builder
	sb.WriteString(" ")
	for a := 0; a < nSymbols; a++ {
		fmt.Fprintf(&sb, " %3c", Alphabet[a])
	}
	sb.WriteByte('\n')
	for a := 0; a < nSymbols; a++ {
		sb.WriteByte(Alphabet[a])
		for b := 0; b < nSymbols; b++ {
			fmt.Fprintf(&sb, " %3d", m.scores[a][b])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseScoringMatrix reads a substitution matrix in the NCBI/EMBOSS format,
// e.g., EDNAFULL. Lines starting with "#" are comments, the first other line
// lists the column symbols, and each following line starts with a row symbol.
// Only rows and columns of A, C, G, T and N are used, and all of their pairs
// must be present and symmetric.
func ParseScoringMatrix(r io.Reader) (*ScoringMatrix, error) {
	m := &ScoringMatrix{}
	var filled [nSymbols][nSymbols]bool

	scanner := bufio.NewScanner(r)
	var header []string
	var line string
	var items []string
	var ca, cb int8
	var v int
	var err error
	var nLine int
	for scanner.Scan() {
		nLine++
		line = strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		items = strings.Fields(line)

		if header == nil {
			for _, s := range items {
				if len(s) != 1 {
					return nil, fmt.Errorf("scoring matrix: invalid column symbol in line %d: %q", nLine, s)
				}
			}
			header = items
			continue
		}

		if len(items[0]) != 1 {
			return nil, fmt.Errorf("scoring matrix: invalid row symbol in line %d: %q", nLine, items[0])
		}
		if len(items)-1 != len(header) {
			return nil, fmt.Errorf("scoring matrix: %d values expected in line %d, %d given",
				len(header), nLine, len(items)-1)
		}
		ca = symbolCodes[items[0][0]]
		if ca < 0 {
			continue
		}
		for i, s := range items[1:] {
			cb = symbolCodes[header[i][0]]
			if cb < 0 {
				continue
			}
			v, err = strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("scoring matrix: invalid score in line %d: %q", nLine, s)
			}
			if outOfRange(v) {
				return nil, fmt.Errorf("scoring matrix: score out of ±%d in line %d: %d", MaxAbsScore, nLine, v)
			}
			m.scores[ca][cb] = v
			filled[ca][cb] = true
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}

	for a := 0; a < nSymbols; a++ {
		for b := 0; b < nSymbols; b++ {
			if !filled[a][b] {
				return nil, fmt.Errorf("scoring matrix: score of %c-%c is missing", Alphabet[a], Alphabet[b])
			}
		}
	}
	if !m.Symmetric() {
		return nil, fmt.Errorf("scoring matrix: not symmetric")
	}
	return m, nil
}
