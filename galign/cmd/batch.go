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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/shenwei356/galign"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"github.com/zeebo/wyhash"
)

// Case is one alignment task. SeqJ (read) and SeqI (reference) and GapIncentive are required,
// and GapOpen and GapExtend fall back to the command defaults.
type Case struct {
	SeqJ         *string `json:"seqJ"`
	SeqI         *string `json:"seqI"`
	GapIncentive []int   `json:"gapIncentive"`
	GapOpen      *int    `json:"gapOpen,omitempty"`
	GapExtend    *int    `json:"gapExtend,omitempty"`
}

// CaseResult is the alignment of a case.
type CaseResult struct {
	AlignedSeqJ     string  `json:"alignedSeqJ"`
	AlignedSeqI     string  `json:"alignedSeqI"`
	MatchPercentage float64 `json:"matchPercentage"`
}

// Record is the output of single-case mode.
type Record struct {
	Success bool        `json:"success"`
	Result  *CaseResult `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// BatchRecord is the output of one case in batch mode.
type BatchRecord struct {
	Index   int         `json:"index"`
	Success bool        `json:"success"`
	Result  *CaseResult `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// errors of the missing required fields.
var (
	errMissingSeqJ         = errors.New("missing field: seqJ")
	errMissingSeqI         = errors.New("missing field: seqI")
	errMissingGapIncentive = errors.New("missing field: gapIncentive")
)

// parseCase parses and checks one case.
func parseCase(data []byte) (*Case, error) {
	var c Case
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("invalid case: %s", err)
	}
	switch {
	case c.SeqJ == nil:
		return nil, errMissingSeqJ
	case c.SeqI == nil:
		return nil, errMissingSeqI
	case c.GapIncentive == nil:
		return nil, errMissingGapIncentive
	}
	return &c, nil
}

// penalties returns the gap penalties of the case.
func (c *Case) penalties(defaults galign.Penalties) galign.Penalties {
	p := defaults
	if c.GapOpen != nil {
		p.GapOpen = *c.GapOpen
	}
	if c.GapExtend != nil {
		p.GapExtend = *c.GapExtend
	}
	return p
}

// key returns a string identifying the input of a case.
func (c *Case) key(p galign.Penalties) []byte {
	buf := make([]byte, 0, len(*c.SeqJ)+len(*c.SeqI)+len(c.GapIncentive)*3+16)
	buf = append(buf, *c.SeqJ...)
	buf = append(buf, 0)
	buf = append(buf, *c.SeqI...)
	buf = append(buf, 0)
	for _, v := range c.GapIncentive {
		buf = strconv.AppendInt(buf, int64(v), 10)
		buf = append(buf, ',')
	}
	buf = append(buf, 0)
	buf = strconv.AppendInt(buf, int64(p.GapOpen), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(p.GapExtend), 10)
	return buf
}

// align aligns a case.
func (c *Case) align(matrix *galign.ScoringMatrix, p galign.Penalties) (*CaseResult, error) {
	Q, T, pct, err := galign.GlobalAlign([]byte(*c.SeqJ), []byte(*c.SeqI), matrix,
		c.GapIncentive, p.GapOpen, p.GapExtend)
	if err != nil {
		return nil, err
	}
	return &CaseResult{
		AlignedSeqJ:     string(Q),
		AlignedSeqI:     string(T),
		MatchPercentage: pct,
	}, nil
}

// runSingle aligns one case given as a JSON object.
func runSingle(data []byte, matrix *galign.ScoringMatrix, defaults galign.Penalties) Record {
	c, err := parseCase(data)
	if err != nil {
		return Record{Success: false, Error: err.Error()}
	}
	r, err := c.align(matrix, c.penalties(defaults))
	if err != nil {
		return Record{Success: false, Error: err.Error()}
	}
	return Record{Success: true, Result: r}
}

// BatchOptions contains the options of batch mode.
type BatchOptions struct {
	Threads   int
	Matrix    *galign.ScoringMatrix
	Penalties galign.Penalties

	Progress bool // show a progress bar in stderr
}

// BatchStats contains some numbers of a batch.
type BatchStats struct {
	Cases    int
	Unique   int // cases actually aligned
	Failures int
}

type task struct {
	idx int
	c   *Case
	p   galign.Penalties
}

// runBatch aligns cases in parallel, the failure of one case does not affect others.
// Identical cases are aligned only once.
func runBatch(cases []json.RawMessage, opt *BatchOptions) ([]BatchRecord, BatchStats) {
	records := make([]BatchRecord, len(cases))
	stats := BatchStats{Cases: len(cases)}

	// parse, and find duplicated cases.
	// m maps the hash of a case to the index of its first appearance.
	m := make(map[uint64]int, len(cases))
	keys := make([][]byte, len(cases))
	dupOf := make([]int, len(cases))
	tasks := make([]task, 0, len(cases))
	var h uint64
	for i, data := range cases {
		records[i].Index = i
		dupOf[i] = -1

		c, err := parseCase(data)
		if err != nil {
			records[i].Error = err.Error()
			continue
		}
		p := c.penalties(opt.Penalties)
		keys[i] = c.key(p)

		h = wyhash.Hash(keys[i], 1)
		if j, ok := m[h]; ok && bytes.Equal(keys[j], keys[i]) {
			dupOf[i] = j
			continue
		}
		m[h] = i

		tasks = append(tasks, task{idx: i, c: c, p: p})
	}
	stats.Unique = len(tasks)

	// progress bar
	var pbs *mpb.Progress
	var bar *mpb.Bar
	if opt.Progress && len(tasks) > 0 {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(len(tasks)),
			mpb.PrependDecorators(
				decor.Name("aligned cases: ", decor.WC{W: len("aligned cases: "), C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.EwmaETA(decor.ET_STYLE_GO, 1024),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
	}

	// workers
	threads := opt.Threads
	if threads <= 0 {
		threads = 1
	}
	ch := make(chan task, threads)
	var wg sync.WaitGroup
	for n := 0; n < threads; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range ch {
				r, err := t.c.align(opt.Matrix, t.p)
				if err != nil {
					records[t.idx].Error = err.Error()
				} else {
					records[t.idx].Success = true
					records[t.idx].Result = r
				}
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}
	for _, t := range tasks {
		ch <- t
	}
	close(ch)
	wg.Wait()

	if pbs != nil {
		pbs.Wait()
	}

	// copy results of duplicated cases
	for i, j := range dupOf {
		if j < 0 {
			continue
		}
		records[i].Success = records[j].Success
		records[i].Error = records[j].Error
		if records[j].Result != nil {
			r := *records[j].Result
			records[i].Result = &r
		}
	}

	for i := range records {
		if !records[i].Success {
			stats.Failures++
		}
	}

	return records, stats
}
