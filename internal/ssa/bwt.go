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

package ssa

import "sort"

// BWTIndex is a minimal, direct suffix-array-backed implementation of
// LFMapper (and saSource), built by sorting cyclic rotations with
// sort.Sort rather than a linear-time SA construction. O(n log² n), fine
// for a secondary structure exercised only by `stellar index --ssa` and
// by tests, never on the SWIFT hot path.
type BWTIndex struct {
	seq   []byte
	sa    []int
	invSA []int
}

// BuildBWTIndex builds the cyclic suffix array of seq (symbol codes, not
// ASCII) and its inverse.
func BuildBWTIndex(seq []byte) *BWTIndex {
	n := len(seq)
	sa := make([]int, n)
	for i := range sa {
		sa[i] = i
	}
	sort.Sort(&rotationSorter{seq: seq, sa: sa})

	inv := make([]int, n)
	for rank, pos := range sa {
		inv[pos] = rank
	}
	return &BWTIndex{seq: seq, sa: sa, invSA: inv}
}

// LF returns the last-to-first mapping of BWT row i: the row whose
// suffix starts one position before row i's, cyclically.
func (b *BWTIndex) LF(i int) int {
	n := len(b.seq)
	pos := (b.sa[i] - 1 + n) % n
	return b.invSA[pos]
}

// Len returns the sequence length.
func (b *BWTIndex) Len() int { return len(b.seq) }

// SAAt returns SA[i], the text position of the suffix ranked i.
func (b *BWTIndex) SAAt(i int) int { return b.sa[i] }

// rotationSorter sorts text positions by their cyclic rotation,
// comparing byte by byte with wraparound.
type rotationSorter struct {
	seq []byte
	sa  []int
}

func (r *rotationSorter) Len() int      { return len(r.sa) }
func (r *rotationSorter) Swap(i, j int) { r.sa[i], r.sa[j] = r.sa[j], r.sa[i] }
func (r *rotationSorter) Less(i, j int) bool {
	n := len(r.seq)
	pi, pj := r.sa[i], r.sa[j]
	for k := 0; k < n; k++ {
		a := r.seq[(pi+k)%n]
		b := r.seq[(pj+k)%n]
		if a != b {
			return a < b
		}
	}
	return false
}
