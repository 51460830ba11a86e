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
	"strings"
	"testing"

	"github.com/shenwei356/galign"
)

func TestRunSingle(t *testing.T) {
	matrix := galign.DefaultScores.Matrix()

	rec := runSingle([]byte(`{"seqJ": "ATCG", "seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0]}`),
		matrix, galign.DefaultPenalties)
	if !rec.Success || rec.Result == nil {
		t.Errorf("unexpected failure: %s", rec.Error)
		return
	}
	if rec.Result.AlignedSeqJ != "ATCG" || rec.Result.AlignedSeqI != "ATCG" || rec.Result.MatchPercentage != 100 {
		t.Errorf("unexpected result: %+v", rec.Result)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(rec); err != nil {
		t.Error(err)
		return
	}
	if buf.String() != `{"success":true,"result":{"alignedSeqJ":"ATCG","alignedSeqI":"ATCG","matchPercentage":100}}`+"\n" {
		t.Errorf("unexpected output: %s", buf.String())
	}

	// a large gap opening penalty given in the case
	rec = runSingle([]byte(`{"seqJ": "ATG", "seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0], "gapOpen": -100}`),
		matrix, galign.DefaultPenalties)
	if !rec.Success || rec.Result.AlignedSeqJ != "AT-G" {
		t.Errorf("unexpected result: %+v", rec)
	}

	for _, c := range []struct {
		data string
		err  string
	}{
		{`{"seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0]}`, "missing field: seqJ"},
		{`{"seqJ": "ATCG", "gapIncentive": [0, 0, 0, 0, 0]}`, "missing field: seqI"},
		{`{"seqJ": "ATCG", "seqI": "ATCG"}`, "missing field: gapIncentive"},
		{`{"seqJ": "ATCG", "seqI": "ATCG", "gapIncentive": [0, 0, 0]}`, "gap incentive length mismatch"},
		{`{"seqJ": "ATXG", "seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0]}`, "invalid symbol"},
		{`{"seqJ": "ACG", "seqI": "ACCG", "gapIncentive": [0, 0, 4611686018427387903, 0, 0]}`, "value out of range"},
		{`{"seqJ": "ACG", "seqI": "ACCG", "gapIncentive": [0, 0, 0, 0, 0], "gapOpen": -4611686018427387903}`, "value out of range"},
		{`{"seqJ": 1}`, "invalid case"},
		{`not json`, "invalid case"},
	} {
		rec = runSingle([]byte(c.data), matrix, galign.DefaultPenalties)
		if rec.Success || rec.Result != nil {
			t.Errorf("%s: failure expected", c.data)
			continue
		}
		if !strings.Contains(rec.Error, c.err) {
			t.Errorf("%s: error containing %q expected, returned %q", c.data, c.err, rec.Error)
		}
	}
}

func TestRunBatch(t *testing.T) {
	input := `[
	{"seqJ": "ATCG", "seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0]},
	{"seqJ": "ATG", "seqI": "ATCG", "gapIncentive": [0, 0, 0]},
	{"seqJ": "ATG", "seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0]},
	{"seqJ": "ACG", "seqI": "ACCG", "gapIncentive": [0, 0, 0, 50, 0]},
	{"seqI": "ACCG", "gapIncentive": [0, 0, 0, 50, 0]},
	{"seqJ": "ATG", "seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0]},
	{"seqJ": "ATG", "seqI": "ATCG", "gapIncentive": [0, 0, 0, 0, 0], "gapOpen": -20, "gapExtend": -2}
]`
	var cases []json.RawMessage
	if err := json.Unmarshal([]byte(input), &cases); err != nil {
		t.Error(err)
		return
	}

	for _, threads := range []int{1, 4} {
		records, stats := runBatch(cases, &BatchOptions{
			Threads:   threads,
			Matrix:    galign.DefaultScores.Matrix(),
			Penalties: galign.DefaultPenalties,
		})

		if len(records) != len(cases) {
			t.Errorf("%d records expected, returned %d", len(cases), len(records))
			return
		}
		if stats.Cases != 7 || stats.Unique != 4 || stats.Failures != 2 {
			t.Errorf("unexpected stats: %+v", stats)
		}

		expected := []struct {
			success bool
			Q       string
		}{
			{true, "ATCG"},
			{false, ""},
			{true, "AT-G"},
			{true, "AC-G"},
			{false, ""},
			{true, "AT-G"},
			{true, "AT-G"},
		}
		for i, rec := range records {
			if rec.Index != i {
				t.Errorf("record %d: unexpected index %d", i, rec.Index)
			}
			if rec.Success != expected[i].success {
				t.Errorf("record %d: success: expected %v, returned %v (%s)", i, expected[i].success, rec.Success, rec.Error)
				continue
			}
			if !rec.Success {
				if rec.Error == "" || rec.Result != nil {
					t.Errorf("record %d: an error message and no result expected", i)
				}
				continue
			}
			if rec.Result.AlignedSeqJ != expected[i].Q {
				t.Errorf("record %d: expected %s, returned %s", i, expected[i].Q, rec.Result.AlignedSeqJ)
			}
		}

		// results of duplicated cases are copies
		if records[2].Result == records[5].Result {
			t.Errorf("results of duplicated cases should not be shared")
		}
	}
}

func TestBatchRecordJSON(t *testing.T) {
	records := []BatchRecord{
		{Index: 0, Success: true, Result: &CaseResult{AlignedSeqJ: "AT-G", AlignedSeqI: "ATCG", MatchPercentage: 75}},
		{Index: 1, Success: false, Error: "gap incentive: gap incentive length mismatch (gap incentive: 3, reference+1: 5)"},
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Error(err)
		return
	}
	expected := `[{"index":0,"success":true,"result":{"alignedSeqJ":"AT-G","alignedSeqI":"ATCG","matchPercentage":75}},` +
		`{"index":1,"success":false,"error":"gap incentive: gap incentive length mismatch (gap incentive: 3, reference+1: 5)"}]`
	if string(data) != expected {
		t.Errorf("unexpected output: %s", data)
	}
}
