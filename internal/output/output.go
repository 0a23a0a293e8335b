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

// Package output implements the two report formats for a finished
// run's matches: GFF and BLAST-tabular. Both share a Formatter
// interface so internal/pipeline's caller never branches on format
// after construction.
package output

import (
	"fmt"
	"io"

	"github.com/bixbio/stellar/internal/alphabet"
	"github.com/bixbio/stellar/internal/matchstore"
)

// Format names the two report variants, keyed off the CLI's
// --format flag value.
type Format int

const (
	GFF Format = iota
	BlastTabular
)

// ParseFormat maps a --format flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "gff":
		return GFF, nil
	case "blast-tabular", "tabular":
		return BlastTabular, nil
	}
	return 0, fmt.Errorf("output: unknown format %q", s)
}

// Formatter writes one match report to completion: a header, zero or
// more matches, then Close. Implementations buffer nothing queries
// or database sets don't already hold; one WriteMatch call writes
// exactly one line.
type Formatter interface {
	WriteHeader() error
	WriteMatch(m *matchstore.Match, queries, database *alphabet.Set) error
	Close() error
}

// New constructs the Formatter for format, writing to w.
func New(format Format, w io.Writer) Formatter {
	switch format {
	case BlastTabular:
		return &blastTabularFormatter{w: w}
	default:
		return &gffFormatter{w: w}
	}
}

func pctIdentity(m *matchstore.Match) float64 {
	if m.Length == 0 {
		return 0
	}
	return 100 * float64(m.Length-m.Errors) / float64(m.Length)
}

// cigar renders the gapped AlignH/AlignV rows, as produced by
// internal/extend, as a run-length CIGAR string: M for
// aligned columns (match or substitution alike — this is an alignment
// CIGAR, not a read-mapping one), D for a gap in the query row, I for
// a gap in the database row.
func cigar(alignH, alignV []byte) string {
	if len(alignH) == 0 {
		return "*"
	}
	var out []byte
	op := func(h, v byte) byte {
		switch {
		case h == '-':
			return 'I'
		case v == '-':
			return 'D'
		default:
			return 'M'
		}
	}
	runOp := op(alignH[0], alignV[0])
	runLen := 1
	for i := 1; i < len(alignH); i++ {
		o := op(alignH[i], alignV[i])
		if o == runOp {
			runLen++
			continue
		}
		out = append(out, []byte(fmt.Sprintf("%d%c", runLen, runOp))...)
		runOp = o
		runLen = 1
	}
	out = append(out, []byte(fmt.Sprintf("%d%c", runLen, runOp))...)
	return string(out)
}

func seqName(set *alphabet.Set, id int) string {
	if id < 0 || id >= len(set.Seqs) {
		return "?"
	}
	return string(set.Seqs[id].ID)
}
