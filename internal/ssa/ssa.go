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

// Package ssa implements the sparse suffix array (C2): every sth suffix
// array entry is stored explicitly; unsampled entries are recovered by
// walking the LF-mapping of an external FM-index collaborator.
package ssa

import "github.com/bixbio/stellar/internal/stellarerr"

// LFMapper is the narrow interface the SSA consumes from the FM-index
// collaborator: rank/select bit vectors of the underlying index are
// never this package's concern. LF(i) is the last-to-first column
// mapping of the BWT row i.
type LFMapper interface {
	LF(i int) int
	Len() int
}

// saSource is satisfied by an LFMapper that also knows the true suffix
// array value at a BWT row, needed only at construction time to sample
// it. This resolves the cyclic ownership the source entangles
// (CompressedSA <-> its FM-index): both are views over one parent that
// owns the suffix array by value, referenced here by index into rows,
// never by a shared mutable pointer.
type saSource interface {
	SAAt(i int) int
}

// SSA is the sparse suffix array: a sampled subset of SA values plus the
// machinery to recover the rest via LF-mapping walks.
type SSA struct {
	sampling   int
	n          int
	indicators []bool
	rank       []int // rank[i] = count of sampled rows in [0, i]
	values     []int // values[rank[i]-1] is SA[i] for a sampled i
	lf         LFMapper
}

// Build samples every row of src's suffix array whose value (a text
// position) is a multiple of `sampling` (src must also implement
// saSource, which BWTIndex does) and retains src as the
// LF-mapping collaborator for unsampled lookups.
func Build(src LFMapper, sampling int) (*SSA, error) {
	if sampling < 1 {
		return nil, stellarerr.InvalidOption("ssa sampling rate must be >= 1, got %d", sampling)
	}
	sp, ok := src.(saSource)
	if !ok {
		return nil, stellarerr.InvalidOption("ssa: LFMapper %T does not expose suffix-array values for sampling", src)
	}

	n := src.Len()
	s := &SSA{sampling: sampling, n: n, lf: src}
	s.indicators = make([]bool, n)
	s.rank = make([]int, n)
	s.values = make([]int, 0, (n+sampling-1)/sampling)

	var count int
	for i := 0; i < n; i++ {
		if sp.SAAt(i)%sampling == 0 {
			s.indicators[i] = true
			s.values = append(s.values, sp.SAAt(i))
			count++
		}
		s.rank[i] = count
	}
	return s, nil
}

// At answers SA[i], walking the LF-mapping when i is not a sampled row.
// Read-only and concurrency-safe: no mutation happens on any walk.
func (s *SSA) At(i int) (int, error) {
	if s.indicators[i] {
		return s.values[s.rank[i]-1], nil
	}

	j := i
	for k := 1; k <= s.sampling+1; k++ {
		j = s.lf.LF(j)
		if s.indicators[j] {
			p := s.values[s.rank[j]-1]
			return (p + k) % s.n, nil
		}
	}
	return 0, stellarerr.CorruptIndex("SSA walk from row %d did not reach a sampled row within %d steps", i, s.sampling+1)
}

// Len returns the length of the underlying sequence.
func (s *SSA) Len() int { return s.n }
