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

// Package xdrop implements the Zhang-1999 X-drop splitter (C6): it
// partitions one gapped alignment into maximal sub-alignments with no
// internal score dip of magnitude greater than X.
package xdrop

import "github.com/bixbio/stellar/internal/dp"

// segment is one maximal run of same-signed columns.
type segment struct {
	positive                bool
	score                    int
	beginH, endH, beginV, endV int
}

// Split partitions align into sub-alignments, each with score >= minScore
// and no interior score dip (measured column-by-column, +1 per match,
// -1 per mismatch or gap) of magnitude greater than scoreDropOff.
func Split(align *dp.Alignment, scoreDropOff, minScore int) []*dp.Alignment {
	segs := buildSegments(align)
	if len(segs) == 0 {
		return nil
	}
	segs = fuse(segs)

	// Pad with sentinel negative segments so the leading and trailing
	// real segments each get one chance to stand as "middle" against a
	// guaranteed qualifying drop, mirroring a queue that starts and
	// ends empty rather than mid-alignment.
	sentinelScore := -(scoreDropOff + 1)
	front := &segment{score: sentinelScore, beginH: segs[0].beginH, endH: segs[0].beginH, beginV: segs[0].beginV, endV: segs[0].beginV}
	back := &segment{score: sentinelScore, beginH: segs[len(segs)-1].endH, endH: segs[len(segs)-1].endH, beginV: segs[len(segs)-1].endV, endV: segs[len(segs)-1].endV}
	padded := append(append([]*segment{front}, segs...), back)

	var out []*dp.Alignment
	// Rule 3: scan consecutive (seg, middle, drop) triples; whenever
	// drop.score <= -X and middle.score >= sigma, emit middle and
	// advance past seg and middle, keeping drop as the new front.
	i := 0
	for i+2 < len(padded) {
		mid, drop := padded[i+1], padded[i+2]
		if drop.score <= -scoreDropOff && mid.score >= minScore {
			out = append(out, toAlignment(align, mid))
			i += 2
			continue
		}
		i++
	}
	return out
}

// buildSegments walks align's gapped rows column by column, scoring
// +1 for a match, -1 for a mismatch or gap, and grouping consecutive
// same-signed columns into segments carrying the source-coordinate span
// they consumed.
func buildSegments(align *dp.Alignment) []*segment {
	h, v := align.BeginH, align.BeginV
	var segs []*segment
	var cur *segment

	for k := range align.AlignH {
		hc, vc := align.AlignH[k], align.AlignV[k]
		positive := hc != '-' && vc != '-' && hc == vc
		if hc != '-' {
			h++
		}
		if vc != '-' {
			v++
		}

		if cur == nil || cur.positive != positive {
			cur = &segment{positive: positive, beginH: h - boolToInt(hc != '-'), beginV: v - boolToInt(vc != '-')}
			segs = append(segs, cur)
		}
		if positive {
			cur.score++
		} else {
			cur.score--
		}
		cur.endH, cur.endV = h, v
	}
	return segs
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// fuse applies the negative-merge (Lemma 5) and positive-merge (Lemma 6)
// rewrite rules until a pass produces no change or a small bound on
// iterations is reached — the rules' preconditions only ever shrink the
// segment list, so this converges quickly in practice.
func fuse(segs []*segment) []*segment {
	for round := 0; round < 4; round++ {
		next, changed := negativeMerge(segs)
		if changed {
			segs = next
			continue
		}
		next, changed = positiveMerge(segs)
		if !changed {
			break
		}
		segs = next
	}
	return segs
}

// negativeMerge: if three consecutive segments are (ab+, bc-, cd+) and
// |bc| < max(|ab|, |cd|), fuse them into one.
func negativeMerge(segs []*segment) ([]*segment, bool) {
	for i := 0; i+2 < len(segs); i++ {
		ab, bc, cd := segs[i], segs[i+1], segs[i+2]
		if ab.positive && !bc.positive && cd.positive && length(bc) < max(length(ab), length(cd)) {
			merged := mergeRange(segs[i : i+3])
			out := append(append(append([]*segment{}, segs[:i]...), merged), segs[i+3:]...)
			return out, true
		}
	}
	return segs, false
}

// positiveMerge: if five consecutive segments are (ab, bc, cd, de, ef)
// with cd negative and |cd| < max(|ab|, |ef|), fuse bc, cd, de into one.
func positiveMerge(segs []*segment) ([]*segment, bool) {
	for i := 0; i+4 < len(segs); i++ {
		ab, bc, cd, de, ef := segs[i], segs[i+1], segs[i+2], segs[i+3], segs[i+4]
		if !cd.positive && bc.positive && de.positive && length(cd) < max(length(ab), length(ef)) {
			merged := mergeRange(segs[i+1 : i+4])
			out := append(append(append([]*segment{}, segs[:i+1]...), merged), segs[i+4:]...)
			return out, true
		}
	}
	return segs, false
}

func length(s *segment) int {
	if s.score < 0 {
		return -s.score
	}
	return s.score
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func mergeRange(segs []*segment) *segment {
	m := &segment{
		beginH: segs[0].beginH, beginV: segs[0].beginV,
		endH: segs[len(segs)-1].endH, endV: segs[len(segs)-1].endV,
	}
	for _, s := range segs {
		m.score += s.score
	}
	m.positive = m.score >= 0
	return m
}

// toAlignment clips align to the source span of seg and recomputes the
// gapped rows for that clipped span.
func toAlignment(align *dp.Alignment, seg *segment) *dp.Alignment {
	h0, v0 := align.BeginH, align.BeginV
	var startCol, endCol int
	h, v := h0, v0
	for k := range align.AlignH {
		if h == seg.beginH && v == seg.beginV {
			startCol = k
		}
		if align.AlignH[k] != '-' {
			h++
		}
		if align.AlignV[k] != '-' {
			v++
		}
		if h == seg.endH && v == seg.endV {
			endCol = k + 1
			break
		}
	}
	return &dp.Alignment{
		Score:  seg.score,
		BeginH: seg.beginH, EndH: seg.endH,
		BeginV: seg.beginV, EndV: seg.endV,
		AlignH: append([]byte{}, align.AlignH[startCol:endCol]...),
		AlignV: append([]byte{}, align.AlignV[startCol:endCol]...),
	}
}
