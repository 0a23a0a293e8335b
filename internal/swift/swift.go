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

// Package swift implements the q-gram SWIFT filter (C4): it streams a
// database sequence against a pre-built query q-gram index and emits
// candidate parallelograms (Hit) provably containing every ε-match of
// the required minimum length.
package swift

import (
	"encoding/binary"
	"sort"

	"github.com/zeebo/wyhash"

	"github.com/bixbio/stellar/internal/qgram"
	"github.com/bixbio/stellar/internal/repeatmask"
)

const hashSeed uint64 = 0x5357_4946_5431_4c54 // arbitrary fixed seed, for determinism across runs

// Hit is one emitted parallelogram: a rectangle in the (database,
// query) plane anchored on diagonal Diagonal, spanning at most MinLen
// text positions and that span's query image widened by Overlap on
// each side.
type Hit struct {
	SeqID    uint32
	Diagonal int
	DBBegin  int
	DBEnd    int
	QBegin   int
	QEnd     int
}

// Stats accumulates filter diagnostics for the CLI's end-of-run summary log line.
// Counting is the core's concern; printing is the collaborator's.
type Stats struct {
	HitsEmitted    int
	RepeatsBypassed int
	QGramsMasked   int
	QGramsScanned  int
}

// counter is the sliding per-(seqId,bin) hit counter.
type counter struct {
	seqID     uint32
	bin       int64
	positions []int // ascending text positions currently in the window
}

// Filter scans a database sequence against idx, emitting Hits.
type Filter struct {
	idx    *qgram.Index
	params Params
	repeat *repeatmask.Index

	table map[uint64][]*counter
}

// NewFilter builds a filter over a pre-built query q-gram index. repeat
// may be nil to disable the repeat-masker bypass.
func NewFilter(idx *qgram.Index, params Params, repeat *repeatmask.Index) *Filter {
	return &Filter{idx: idx, params: params, repeat: repeat, table: make(map[uint64][]*counter)}
}

// Scan streams database (symbol-coded, not ASCII) and returns every
// emitted Hit, sorted by (DBBegin, SeqID) ascending — the tie-break
// needed when multiple queries hit the same text column, to keep
// output order deterministic across repeated runs.
func (f *Filter) Scan(database []byte, stats *Stats) []Hit {
	coder := f.idx.Coder()
	q := coder.Q
	var hits []Hit

	coder.ForEach(database, func(code uint64, textPos int) {
		stats.QGramsScanned++

		if f.repeat != nil && f.repeat.Observe(code, textPos) {
			stats.RepeatsBypassed++
			return
		}

		bucket := f.idx.Bucket(code)
		if bucket == nil {
			if code < f.idx.NumCodes() {
				stats.QGramsMasked++
			}
			return
		}

		for _, occ := range bucket {
			diag := textPos - int(occ.Offset)
			bin := int64(diag) / int64(f.params.Delta)
			key := f.binKey(occ.SeqID, bin)

			c := f.findOrCreateCounter(key, occ.SeqID, bin)
			c.positions = append(c.positions, textPos)
			f.evictOld(c, textPos)

			if len(c.positions) >= f.params.Tau {
				hits = append(hits, f.emit(occ.SeqID, diag, textPos, q))
				stats.HitsEmitted++
				c.positions = c.positions[:0]
			}
		}
	})

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DBBegin != hits[j].DBBegin {
			return hits[i].DBBegin < hits[j].DBBegin
		}
		return hits[i].SeqID < hits[j].SeqID
	})
	return hits
}

// evictOld drops positions that have fallen out of the window of width
// params.Window: it advances only as far as the oldest surviving hit.
func (f *Filter) evictOld(c *counter, now int) {
	cut := now - f.params.Window + 1
	i := 0
	for i < len(c.positions) && c.positions[i] < cut {
		i++
	}
	if i > 0 {
		c.positions = c.positions[i:]
	}
}

// emit anchors a parallelogram at (diagonal, textPos): the triggering
// q-gram's window ends at textPos+q, and the span reaches back MinLen text
// positions — long enough that any ε-match of length MinLen ending at
// or before textPos+q is fully contained — widened on the query axis by
// Overlap so successive parallelograms tile with one-delta overlap.
func (f *Filter) emit(seqID uint32, diag, textPos, q int) Hit {
	dbEnd := textPos + q
	dbBegin := dbEnd - f.params.MinLen
	if dbBegin < 0 {
		dbBegin = 0
	}
	qBegin := dbBegin - diag - f.params.Overlap
	qEnd := dbEnd - diag + f.params.Overlap
	return Hit{
		SeqID: seqID, Diagonal: diag,
		DBBegin: dbBegin, DBEnd: dbEnd,
		QBegin: qBegin, QEnd: qEnd,
	}
}

func (f *Filter) binKey(seqID uint32, bin int64) uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], seqID)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(bin))
	return wyhash.Hash(buf[:], hashSeed)
}

func (f *Filter) findOrCreateCounter(key uint64, seqID uint32, bin int64) *counter {
	for _, c := range f.table[key] {
		if c.seqID == seqID && c.bin == bin {
			return c
		}
	}
	c := &counter{seqID: seqID, bin: bin}
	f.table[key] = append(f.table[key], c)
	return c
}
