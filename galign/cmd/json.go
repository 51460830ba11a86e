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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "Align cases given in JSON, one case or a batch",
	Long: `Align cases given in JSON, one case or a batch

A case is a JSON object:

    {"seqJ": "ATG", "seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0]}

  seqJ           the read (query), required.
  seqI           the reference amplicon, required.
  gapIncentive   len(seqI)+1 integers, required. gapIncentive[j] is added to
                 every gap event at reference coordinate j.
  gapOpen        optional, default: the value of --gap-open.
  gapExtend      optional, default: the value of --gap-extend.

Usage:

  1. Single-case mode. The case is given as the positional argument:

        galign json '{"seqJ": "ATG", "seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0]}'

     Output:

        {"success":true,"result":{"alignedSeqJ":"AT-G","alignedSeqI":"ATCG","matchPercentage":75}}

     On failure, {"success":false,"error":"..."} is printed and the exit status is 1.

  2. Batch mode. A JSON array of cases is read from stdin or the file of -i/--infile:

        galign json --batch < cases.json

     Output is a JSON array in the input order:

        [{"index":0,"success":true,"result":{...}},{"index":1,"success":false,"error":"..."}]

     A failed case does not stop the others. Identical cases are aligned only once.

Alphabet: A, C, G, T, N, case-insensitive.
Match percentage: 100 * identical columns / alignment length (including gaps),
rounded to 3 decimal places (halfway values to even). Whole numbers are
printed without a fraction, e.g., 100 rather than 100.0.
Gap incentive values and gap penalties must be within ±2147483647.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		defer startProfiling(opt).Stop()

		batch := getFlagBool(cmd, "batch")
		infile := getFlagString(cmd, "infile")
		outFile := getFlagString(cmd, "out-file")
		progress := getFlagBool(cmd, "progress")

		outfh, err := openOut(outFile)
		checkError(err)
		outfh2 := bufio.NewWriter(outfh)
		defer func() {
			outfh2.Flush()
			if outfh != os.Stdout {
				outfh.Close()
			}
		}()
		enc := json.NewEncoder(outfh2)

		// single-case mode

		if !batch {
			var rec Record
			if len(args) != 1 {
				rec = Record{Success: false, Error: "one case in JSON is needed as the positional argument, or use --batch"}
			} else {
				rec = runSingle([]byte(args[0]), opt.Matrix, opt.Penalties)
			}
			checkError(enc.Encode(rec))
			if !rec.Success {
				outfh2.Flush()
				os.Exit(1)
			}
			return
		}

		// batch mode

		if len(args) > 0 {
			log.Warningf("positional arguments ignored in batch mode: %s", args)
		}

		timeStart := time.Now()

		fh, err := openIn(infile)
		checkError(err)
		data, err := io.ReadAll(fh)
		if fh != os.Stdin {
			fh.Close()
		}
		checkError(err)

		var cases []json.RawMessage
		if err = json.Unmarshal(data, &cases); err != nil {
			checkError(fmt.Errorf("a JSON array of cases expected: %s", err))
		}
		if opt.Verbose {
			log.Infof("%s cases to align", humanize.Comma(int64(len(cases))))
		}

		records, stats := runBatch(cases, &BatchOptions{
			Threads:   opt.NumCPUs,
			Matrix:    opt.Matrix,
			Penalties: opt.Penalties,
			Progress:  progress,
		})
		checkError(enc.Encode(records))

		if opt.Verbose {
			log.Infof("%s cases (%s unique) aligned in %s, failed: %s",
				humanize.Comma(int64(stats.Cases)), humanize.Comma(int64(stats.Unique)),
				time.Since(timeStart), humanize.Comma(int64(stats.Failures)))
		}
	},
}

func init() {
	RootCmd.AddCommand(jsonCmd)

	jsonCmd.Flags().BoolP("batch", "b", false,
		"batch mode: read a JSON array of cases from stdin or -i/--infile")
	jsonCmd.Flags().StringP("infile", "i", "-",
		`input file of a JSON array of cases in batch mode, "-" for stdin`)
	jsonCmd.Flags().StringP("out-file", "o", "-",
		`out file, "-" for stdout`)
	jsonCmd.Flags().BoolP("progress", "", false,
		"show a progress bar in batch mode")
}
