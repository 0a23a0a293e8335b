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

package output

import (
	"fmt"
	"io"

	"github.com/bixbio/stellar/internal/alphabet"
	"github.com/bixbio/stellar/internal/matchstore"
)

// blastTabularFormatter writes matches in a tab-separated report
// shape ("query\tsubject\tstrand\t...\n"), one row per match, the last
// column a CIGAR-equivalent alignment string.
type blastTabularFormatter struct {
	w io.Writer
}

func (f *blastTabularFormatter) WriteHeader() error {
	_, err := fmt.Fprintf(f.w, "query\tsubject\tstrand\tqstart\tqend\tsstart\tsend\tlength\tpident\tmismatches\tcigar\n")
	return err
}

func (f *blastTabularFormatter) WriteMatch(m *matchstore.Match, queries, database *alphabet.Set) error {
	_, err := fmt.Fprintf(f.w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.2f\t%d\t%s\n",
		seqName(queries, m.QueryID), seqName(database, m.DatabaseID), m.Strand,
		m.BeginQ+1, m.EndQ, m.BeginD+1, m.EndD, m.Length, pctIdentity(m), m.Errors,
		cigar(m.AlignH, m.AlignV))
	return err
}

func (f *blastTabularFormatter) Close() error { return nil }
