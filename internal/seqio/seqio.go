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

// Package seqio handles FASTA/FASTQ I/O: reading query/database sets
// and writing disabled-query FASTA, both over github.com/shenwei356/bio.
package seqio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/bixbio/stellar/internal/alphabet"
	"github.com/bixbio/stellar/internal/stellarerr"
)

// Load reads every record of file into a Set over alphabet a,
// upper-casing bytes before encoding since fastx records preserve
// input case.
func Load(file string, a *alphabet.Alphabet) (*alphabet.Set, error) {
	reader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, stellarerr.IOError(err)
	}
	defer reader.Close()

	set := alphabet.NewSet(a)
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, stellarerr.IOError(err)
		}

		id := append([]byte{}, record.ID...)
		ascii := bytes.ToUpper(record.Seq.Seq)
		seq, err := alphabet.NewSeq(id, ascii, a)
		if err != nil {
			return nil, stellarerr.ParseError("%s: %v", string(id), err)
		}
		set.Add(seq)
	}
	return set, nil
}

// LoadMulti reads every file into one Set, preserving the order files
// were given in and the record order within each file — the ordering
// C9's worker pool and match reporting assume for stable seqID/dbID
// indices.
func LoadMulti(files []string, a *alphabet.Alphabet) (*alphabet.Set, error) {
	set := alphabet.NewSet(a)
	for _, file := range files {
		s, err := Load(file, a)
		if err != nil {
			return nil, err
		}
		for _, seq := range s.Seqs {
			set.Add(seq)
		}
	}
	return set, nil
}

// WriteDisabledFASTA writes the ids in disabled (indices into queries)
// as FASTA records, mirroring how queries were read.
func WriteDisabledFASTA(w io.Writer, queries *alphabet.Set, disabledQueryIDs []int) error {
	const lineWidth = 70
	t := bioAlphabet(queries.A.Kind())

	for _, id := range disabledQueryIDs {
		if id < 0 || id >= len(queries.Seqs) {
			continue
		}
		q := queries.Seqs[id]
		ascii := queries.A.DecodeSeq(q.Data)

		s, err := seq.NewSeq(t, ascii)
		if err != nil {
			return stellarerr.ParseError("%s: %v", string(q.ID), err)
		}
		if _, err := fmt.Fprintf(w, ">%s\n", q.ID); err != nil {
			return stellarerr.IOError(err)
		}
		if _, err := w.Write(s.FormatSeq(lineWidth)); err != nil {
			return stellarerr.IOError(err)
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return stellarerr.IOError(err)
		}
	}
	return nil
}

// bioAlphabet maps our capability-set Alphabet to bio/seq's alphabet
// constant, choosing the redundant (ambiguity-code-tolerant) variant
// since a disabled query's original letters must round-trip exactly.
func bioAlphabet(k alphabet.Kind) *seq.Alphabet {
	switch k {
	case alphabet.Dna4, alphabet.Dna5:
		return seq.DNAredundant
	case alphabet.Rna5:
		return seq.RNAredundant
	case alphabet.AminoAcid:
		return seq.Protein
	default:
		return seq.Unlimit
	}
}
