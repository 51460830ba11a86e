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
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// VERSION of galign.
const VERSION = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "galign",
	Short: "Global alignment of reads to amplicons with positional gap incentives",
	Long: fmt.Sprintf(`galign -- Global alignment of reads to amplicons with positional gap incentives

Reads are aligned end to end to a reference amplicon with an affine gap
penalty, where a gap incentive vector of len(reference)+1 values biases
gaps towards expected edit sites, e.g., predicted cut sites.

Version: v%s

 Author: Wei Shen <shenwei356@gmail.com>

`, VERSION),
	Version: VERSION,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()

	RootCmd.PersistentFlags().IntP("threads", "j", defaultThreads,
		"number of CPUs to use")
	RootCmd.PersistentFlags().BoolP("verbose", "", false,
		"print verbose information")
	RootCmd.PersistentFlags().BoolP("quiet", "", false,
		"only print error messages")

	RootCmd.PersistentFlags().BoolP("pprof-cpu", "", false,
		"cpu pprof. go tool pprof -http=:8080 cpu.pprof")
	RootCmd.PersistentFlags().BoolP("pprof-mem", "", false,
		"mem pprof. go tool pprof -http=:8080 mem.pprof")

	// scoring

	RootCmd.PersistentFlags().IntP("match", "", 5,
		"score of identical bases (not N)")
	RootCmd.PersistentFlags().IntP("mismatch", "", -4,
		"score of different bases (not N)")
	RootCmd.PersistentFlags().IntP("n-mismatch", "", -2,
		"score of a base against N")
	RootCmd.PersistentFlags().IntP("n-match", "", -1,
		"score of N against N")
	RootCmd.PersistentFlags().StringP("matrix", "", "",
		"substitution matrix file in the NCBI format (e.g., EDNAFULL), "+
			"overriding --match, --mismatch, --n-mismatch and --n-match")
	RootCmd.PersistentFlags().IntP("gap-open", "", -20,
		"gap opening score")
	RootCmd.PersistentFlags().IntP("gap-extend", "", -2,
		"gap extension score")

	RootCmd.CompletionOptions.DisableDefaultCmd = true
	RootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
