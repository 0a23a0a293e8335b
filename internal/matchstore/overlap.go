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

import (
	"cmp"
	"sort"

	"github.com/rdleal/intervalst/interval"
)

// maskOverlaps suppresses redundant overlapping matches: sort by
// begin-in-database ascending, then sweep left to right, inserting each
// match's database span into an interval search tree and querying it
// for earlier matches that overlap the current one. Intervals are never
// removed from the tree.
func maskOverlaps(matches []*Match, minLen int) []*Match {
	if len(matches) < 2 {
		return matches
	}

	ordered := append([]*Match{}, matches...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].BeginD < ordered[j].BeginD })

	tree := interval.NewSearchTree[*Match](cmp.Compare[int])
	valid := make(map[*Match]bool, len(ordered))
	for _, m := range ordered {
		valid[m] = true
	}

	for _, m := range ordered {
		if !valid[m] {
			continue
		}
		opens, _ := tree.AllIntersections(m.BeginD, m.EndD)
		redundant := false
		for _, o := range opens {
			if !valid[o] || o == m {
				continue
			}
			if redundantPair(m, o, minLen) {
				if m.Length < o.Length {
					redundant = true
				} else {
					valid[o] = false
				}
			}
		}
		if redundant {
			valid[m] = false
			continue
		}
		tree.Insert(m.BeginD, m.EndD, m)
	}

	out := make([]*Match, 0, len(ordered))
	for _, m := range ordered {
		if valid[m] {
			out = append(out, m)
		}
	}
	return out
}

// redundantPair applies a three-stage overlap test: unique database
// span first, then query-coordinate overlap plus matching diagonal,
// then a column walk counting how many positions the two matches'
// query<->database projections disagree on.
func redundantPair(a, b *Match, minLen int) bool {
	if a.Strand != b.Strand {
		return false
	}

	overlapD := intersectLen(a.BeginD, a.EndD, b.BeginD, b.EndD)
	uniqueA := (a.EndD - a.BeginD) - overlapD
	uniqueB := (b.EndD - b.BeginD) - overlapD
	if uniqueA >= minLen && uniqueB >= minLen {
		return false
	}

	if intersectLen(a.BeginQ, a.EndQ, b.BeginQ, b.EndQ) <= 0 {
		return false
	}
	if a.diagOffset() != b.diagOffset() {
		return false
	}

	return countDivergentColumns(a, b) < minLen
}

func intersectLen(aBegin, aEnd, bBegin, bEnd int) int {
	lo, hi := aBegin, aEnd
	if bBegin > lo {
		lo = bBegin
	}
	if bEnd < hi {
		hi = bEnd
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}

// countDivergentColumns walks the database-coordinate overlap of a and
// b and counts positions whose query-coordinate projection disagrees
// between the two alignments' gapped rows.
func countDivergentColumns(a, b *Match) int {
	lo := max(a.BeginD, b.BeginD)
	hi := min(a.EndD, b.EndD)
	if hi <= lo {
		return 0
	}
	projA := projection(a)
	projB := projection(b)

	diverge := 0
	for d := lo; d < hi; d++ {
		qa, okA := projA[d]
		qb, okB := projB[d]
		if !okA || !okB || qa != qb {
			diverge++
		}
	}
	return diverge
}

// projection maps each database position the alignment covers to the
// query position it is paired with at that column.
func projection(m *Match) map[int]int {
	out := make(map[int]int, len(m.AlignH))
	d, q := m.BeginD, m.BeginQ
	for k := range m.AlignH {
		if m.AlignH[k] != '-' && m.AlignV[k] != '-' {
			out[d] = q
		}
		if m.AlignH[k] != '-' {
			d++
		}
		if m.AlignV[k] != '-' {
			q++
		}
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
