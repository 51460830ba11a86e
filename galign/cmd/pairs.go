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


package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/galign"
	"github.com/spf13/cobra"
)

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Align two sequences, or sequence pairs in a file, and show the alignment text",
	Long: `Align two sequences, or sequence pairs in a file, and show the alignment text

Input file format:
  Each pair has two lines, a query line starting with ">" and a reference line starting with "<".
  Example:
  >ACGTAGGCTA
  <ACGTTGCAGGCTA
  >ATG
  <ATCG

Usage:
  1. Align two sequences from the positional arguments.

        galign pairs [options] <query seq> <reference seq>

  2. Align sequence pairs from the input file (described above).

        galign pairs [options] -i input.txt

Gap incentives:
  By default, all values of the gap incentive vector are 0. Use -c/--cut-site
  (0-based position of the base before a cut, multiple values supported) to add
  the value of -I/--incentive to the reference coordinate right after the cut.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		defer startProfiling(opt).Stop()

		infile := getFlagString(cmd, "infile")
		outFile := getFlagString(cmd, "out-file")
		noOutput := getFlagBool(cmd, "no-output")
		plot := getFlagBool(cmd, "plot")
		cutSites := getFlagIntSlice(cmd, "cut-site")
		incentiveValue := getFlagInt(cmd, "incentive")

		outfh, err := openOut(outFile)
		checkError(err)
		outfh2 := bufio.NewWriter(outfh)

		algn := galign.NewWithPenalties(&opt.Penalties, opt.Matrix)

		defer func() {
			galign.RecycleAligner(algn)
			outfh2.Flush()
			if outfh != os.Stdout {
				outfh.Close()
			}
		}()

		pa := &pairAligner{
			algn:      algn,
			cutSites:  cutSites,
			incentive: incentiveValue,
			noOutput:  noOutput,
			plot:      plot,
		}

		// two sequences from positional arguments

		if infile == "" {
			if len(args) != 2 {
				checkError(fmt.Errorf("if flag -i not given, please give me two sequences"))
			}
			checkError(pa.align(outfh2, []byte(args[0]), []byte(args[1])))
			return
		}

		// sequence pairs from a file

		timeStart := time.Now()

		fh, err := openIn(infile)
		checkError(err)
		n, err := pa.alignPairs(outfh2, fh)
		if fh != os.Stdin {
			fh.Close()
		}
		checkError(err)

		if opt.Verbose {
			log.Infof("%s pairs aligned in %s", humanize.Comma(int64(n)), time.Since(timeStart))
		}
	},
}

func init() {
	RootCmd.AddCommand(pairsCmd)

	pairsCmd.Flags().StringP("infile", "i", "",
		`input file of sequence pairs, "-" for stdin`)
	pairsCmd.Flags().StringP("out-file", "o", "-",
		`out file, "-" for stdout`)
	pairsCmd.Flags().BoolP("no-output", "N", false,
		"do not output alignment (for benchmark)")
	pairsCmd.Flags().BoolP("plot", "p", false,
		"plot the three DP matrices (for debugging short sequences)")
	pairsCmd.Flags().IntSliceP("cut-site", "c", []int{},
		"0-based position of the base before a cut site in the reference, multiple values supported")
	pairsCmd.Flags().IntP("incentive", "I", 1,
		"gap incentive value added at the coordinate right after each cut site")
}

// pairAligner aligns sequence pairs and writes the alignment text.
type pairAligner struct {
	algn *galign.Aligner

	cutSites  []int
	incentive int

	noOutput bool
	plot     bool
}

// align aligns one pair.
func (pa *pairAligner) align(outfh io.Writer, q, t []byte) error {
	incentive, err := galign.NewGapIncentive(len(t), pa.cutSites, pa.incentive)
	if err != nil {
		return err
	}

	r, err := pa.algn.Align(q, t, incentive)
	if err != nil {
		return err
	}
	defer galign.RecycleAlignmentResult(r)

	if pa.noOutput {
		return nil
	}

	Q, A, T := r.AlignmentText()

	fmt.Fprintf(outfh, "query   %s\n", *Q)
	fmt.Fprintf(outfh, "        %s\n", *A)
	fmt.Fprintf(outfh, "target  %s\n", *T)
	fmt.Fprintf(outfh, "cigar   %s\n", r.CIGAR())
	fmt.Fprintf(outfh, "score: %d, length: %d, matches: %d (%.3f%%), gaps: %d, gap regions: %d\n",
		r.Score, r.AlignLen, r.Matches, r.MatchPercentage, r.Gaps, r.GapRegions)
	fmt.Fprintln(outfh)

	galign.RecycleAlignmentText(Q, A, T)

	if pa.plot {
		for _, cpt := range []*galign.Component{pa.algn.M, pa.algn.Ix, pa.algn.Iy} {
			pa.algn.Plot(q, t, outfh, cpt)
			fmt.Fprintln(outfh)
		}
	}

	return nil
}

// alignPairs aligns all pairs in the input, and returns the number of pairs.
func (pa *pairAligner) alignPairs(outfh io.Writer, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<28)

	var q, t string
	var n, nLine int
	var hasQuery bool
	for scanner.Scan() {
		nLine++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line[0] {
		case '>':
			if hasQuery {
				return n, fmt.Errorf("line %d: a reference line starting with '<' expected", nLine)
			}
			q = line[1:]
			hasQuery = true
		case '<':
			if !hasQuery {
				return n, fmt.Errorf("line %d: a query line starting with '>' expected", nLine)
			}
			t = line[1:]
			hasQuery = false

			if err := pa.align(outfh, []byte(q), []byte(t)); err != nil {
				return n, fmt.Errorf("pair #%d: %s", n+1, err)
			}
			n++
		default:
			return n, fmt.Errorf("line %d: a line starting with '>' or '<' expected", nLine)
		}
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("something wrong in reading the input: %s", err)
	}
	if hasQuery {
		return n, fmt.Errorf("the last query has no reference")
	}
	return n, nil
}
