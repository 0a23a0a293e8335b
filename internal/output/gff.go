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

// gffFormatter writes matches as GFF3, one "match" feature per line,
// the database sequence as the feature's reference and the query id
// plus alignment carried as attributes (Target, Identity, Gaps).
type gffFormatter struct {
	w io.Writer
}

func (f *gffFormatter) WriteHeader() error {
	_, err := fmt.Fprintf(f.w, "##gff-version 3\n")
	return err
}

func (f *gffFormatter) WriteMatch(m *matchstore.Match, queries, database *alphabet.Set) error {
	dbName := seqName(database, m.DatabaseID)
	qName := seqName(queries, m.QueryID)

	strand := "+"
	if m.Strand == matchstore.Reverse {
		strand = "-"
	}

	_, err := fmt.Fprintf(f.w,
		"%s\tstellar\tmatch\t%d\t%d\t%.2f\t%s\t.\tID=%s_%d;Target=%s %d %d;Gaps=%d;Identity=%.2f\n",
		dbName, m.BeginD+1, m.EndD, pctIdentity(m), strand,
		qName, m.DatabaseID, qName, m.BeginQ+1, m.EndQ, m.Errors, pctIdentity(m))
	return err
}

func (f *gffFormatter) Close() error { return nil }
