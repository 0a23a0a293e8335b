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

// Package qgram builds the over-queries bucket-directory q-gram index (C3):
// a dir/occ pair plus bucket masking for over-abundant q-grams. The index
// never stores the q-grams themselves; callers recompute codes from
// sequence bytes via Coder.
package qgram

import (
	"github.com/bixbio/stellar/internal/alphabet"
	"github.com/bixbio/stellar/internal/stellarerr"
)

// maxDirEntries bounds the dense dir array so a caller-chosen q cannot
// silently request a multi-exabyte allocation (alphabet size 20, q 32 is
// representable as a parameter but not as a dense array).
const maxDirEntries = 1 << 34

// Occurrence is one entry of occ: a (seqId, offset) position of a q-gram
// within the query set.
type Occurrence struct {
	SeqID  uint32
	Offset uint32
}

// Index is the C3 q-gram index over a Set.
type Index struct {
	Q            int
	AbundanceCut int // alpha, a percentage; values below 1 become 100 at construction time

	coder  *Coder
	numCodes uint64

	Dir    []uint64 // len numCodes+1
	Occ    []Occurrence
	Masked []bool // len numCodes
}

// Build constructs the q-gram index over qs with q-gram length q and
// abundance cutoff alpha (bucket cardinality > floor(alpha*N/100) is
// masked, N being the total number of q-gram positions in qs). Construction is single-threaded; the result is read-only
// and safe to share across goroutines thereafter.
func Build(qs *alphabet.Set, q int, alpha int) (*Index, error) {
	if q < 3 || q > 32 {
		return nil, stellarerr.InvalidOption("q-gram length q must be in [3,32], got %d", q)
	}
	if alpha < 1 {
		alpha = 100
	}

	coder, err := NewCoder(qs.A, q)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		Q:            q,
		AbundanceCut: alpha,
		coder:        coder,
		numCodes:     coder.NumCodes(),
	}

	counts := make([]uint64, idx.numCodes+1)

	// pass 1: count occurrences per code
	total := 0
	for _, s := range qs.Seqs {
		coder.ForEach(s.Data, func(code uint64, _ int) {
			counts[code+1]++
			total++
		})
	}

	// prefix-sum into dir
	for i := uint64(1); i <= idx.numCodes; i++ {
		counts[i] += counts[i-1]
	}
	idx.Dir = counts

	occ := make([]Occurrence, total)
	cursor := make([]uint64, idx.numCodes)
	copy(cursor, idx.Dir[:idx.numCodes])

	// pass 2: fill occ, grouped by seqId in stable order since we iterate
	// sequences in order
	for seqID, s := range qs.Seqs {
		coder.ForEach(s.Data, func(code uint64, offset int) {
			p := cursor[code]
			occ[p] = Occurrence{SeqID: uint32(seqID), Offset: uint32(offset)}
			cursor[code]++
		})
	}
	idx.Occ = occ

	idx.maskAbundantBuckets(total)
	return idx, nil
}

// maskAbundantBuckets is a single linear pass over dir differences,
// flagging buckets whose cardinality exceeds floor(alpha*numQGrams/100),
// numQGrams being the number of q-gram positions in Q.
// Masking never depends on the database, only on Q's own statistics.
func (idx *Index) maskAbundantBuckets(numQGrams int) {
	idx.Masked = make([]bool, idx.numCodes)
	threshold := uint64(idx.AbundanceCut) * uint64(numQGrams) / 100
	for c := uint64(0); c < idx.numCodes; c++ {
		if idx.Dir[c+1]-idx.Dir[c] > threshold {
			idx.Masked[c] = true
		}
	}
}

// Bucket returns the occurrence slice for q-gram code c: an empty slice
// if no query contains it, nil if it is masked or c is out of range.
func (idx *Index) Bucket(c uint64) []Occurrence {
	if c >= idx.numCodes || idx.Masked[c] {
		return nil
	}
	return idx.Occ[idx.Dir[c]:idx.Dir[c+1]]
}

// Coder returns the q-gram coder used to build this index, so callers
// (the SWIFT filter scanning the database) compute codes identically.
func (idx *Index) Coder() *Coder { return idx.coder }

// AttachAlphabet re-derives idx's Coder from a, for an Index just read
// back by Load (whose Coder is nil since it's stateless given a and
// idx.Q). Returns an error if a's code space doesn't match the one the
// index was built with, catching an alphabet/index mismatch early
// rather than corrupting Bucket lookups silently.
func (idx *Index) AttachAlphabet(a *alphabet.Alphabet) error {
	coder, err := NewCoder(a, idx.Q)
	if err != nil {
		return err
	}
	if coder.NumCodes() != idx.numCodes {
		return stellarerr.CorruptIndex("alphabet code space (%d) does not match index (%d)", coder.NumCodes(), idx.numCodes)
	}
	idx.coder = coder
	return nil
}

// NumCodes returns |A|^q, the dense dir array length minus one.
func (idx *Index) NumCodes() uint64 { return idx.numCodes }
