// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
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

package matchstore

import "gonum.org/v1/gonum/stat"

// Summary is the end-of-run statistics line: mean/stdev of match
// length and error count across every surviving match in the store.
type Summary struct {
	NumMatches        int
	MeanLength, StdLength float64
	MeanErrors, StdErrors float64
	NumDisabled       int
}

// Summarize computes Summary over every query's surviving matches.
func (s *Store) Summarize() Summary {
	var lengths, errs []float64
	for _, qm := range s.perQuery {
		for _, m := range qm.Matches {
			lengths = append(lengths, float64(m.Length))
			errs = append(errs, float64(m.Errors))
		}
	}

	var sum Summary
	sum.NumMatches = len(lengths)
	sum.NumDisabled = len(s.DisabledQueryIDs())
	if len(lengths) == 0 {
		return sum
	}
	sum.MeanLength, sum.StdLength = stat.MeanStdDev(lengths, nil)
	sum.MeanErrors, sum.StdErrors = stat.MeanStdDev(errs, nil)
	return sum
}
