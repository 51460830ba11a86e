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

	"github.com/pkg/profile"
	"github.com/shenwei356/galign"
	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

var log *logging.Logger

func init() {
	logFormat := logging.MustStringFormatter(`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`)
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	backendFormatter := logging.NewBackendFormatter(backend, logFormat)
	logging.SetBackend(backendFormatter)
	log = logging.MustGetLogger("galign")
}

// Options contains the global flags.
type Options struct {
	NumCPUs int
	Verbose bool

	PprofCPU bool
	PprofMem bool

	Matrix    *galign.ScoringMatrix
	Penalties galign.Penalties
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagPositiveInt(cmd, "threads")

	quiet := getFlagBool(cmd, "quiet")
	verbose := getFlagBool(cmd, "verbose")
	switch {
	case quiet:
		logging.SetLevel(logging.ERROR, "galign")
	case verbose:
		logging.SetLevel(logging.INFO, "galign")
	default:
		logging.SetLevel(logging.WARNING, "galign")
	}

	var matrix *galign.ScoringMatrix
	if file := getFlagString(cmd, "matrix"); file != "" {
		fh, err := os.Open(file)
		checkError(err)
		matrix, err = galign.ParseScoringMatrix(fh)
		fh.Close()
		checkError(err)
	} else {
		matrix = galign.Scores{
			Match:     getFlagInt(cmd, "match"),
			Mismatch:  getFlagInt(cmd, "mismatch"),
			NMismatch: getFlagInt(cmd, "n-mismatch"),
			NMatch:    getFlagInt(cmd, "n-match"),
		}.Matrix()
	}

	return &Options{
		NumCPUs: threads,
		Verbose: verbose && !quiet,

		PprofCPU: getFlagBool(cmd, "pprof-cpu"),
		PprofMem: getFlagBool(cmd, "pprof-mem"),

		Matrix: matrix,
		Penalties: galign.Penalties{
			GapOpen:   getFlagInt(cmd, "gap-open"),
			GapExtend: getFlagInt(cmd, "gap-extend"),
		},
	}
}

type stopper interface {
	Stop()
}

type noProfile struct{}

func (noProfile) Stop() {}

// startProfiling starts CPU or memory profiling, the pprof file is saved in the current directory.
func startProfiling(opt *Options) stopper {
	switch {
	case opt.PprofCPU:
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	case opt.PprofMem:
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
	}
	return noProfile{}
}

func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return value
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	if value <= 0 {
		checkError(fmt.Errorf("value of flag --%s should be greater than 0", flag))
	}
	return value
}

func getFlagIntSlice(cmd *cobra.Command, flag string) []int {
	value, err := cmd.Flags().GetIntSlice(flag)
	checkError(err)
	return value
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

// openIn opens a file, "-" for stdin.
func openIn(file string) (*os.File, error) {
	if file == "-" {
		return os.Stdin, nil
	}
	fh, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %s", err)
	}
	return fh, nil
}

// openOut creates a file, "-" for stdout.
func openOut(file string) (*os.File, error) {
	if file == "-" {
		return os.Stdout, nil
	}
	fh, err := os.Create(file)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %s", err)
	}
	return fh, nil
}
