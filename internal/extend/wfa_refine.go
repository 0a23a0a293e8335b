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

package extend

import "github.com/shenwei356/wfa"

// gappedRefiner produces the gapped continuation of an extension once
// the ungapped fast path gives up. Kept as a narrow interface so the
// X-drop bound and the ungapped fast path stay independent of the
// wavefront aligner's exact API surface.
type gappedRefiner interface {
	// Refine aligns a prefix of h against a prefix of v under the
	// given X-drop bound and returns the gapped rows it found,
	// clipped to where the wavefront's own drop-off stopped.
	Refine(h, v []byte, xDrop int) (alignH, alignV []byte)
}

// wfaRefiner wraps github.com/shenwei356/wfa's wavefront aligner: its
// running time scales with the edit distance of the region being
// refined rather than its length, which fits "extend a seed by at most
// a few hundred bases under an X-drop bound" far better than a
// hand-rolled banded Needleman-Wunsch would.
type wfaRefiner struct{}

func (wfaRefiner) Refine(h, v []byte, xDrop int) (alignH, alignV []byte) {
	if len(h) == 0 || len(v) == 0 {
		return nil, nil
	}
	aligner := wfa.New(wfa.DefaultPenalties, wfa.DefaultOptions)
	cigar, err := aligner.Align(v, h)
	if err != nil || int(cigar.Score) > xDrop {
		return nil, nil
	}
	return cigarToRows(cigar.CIGAR(), h, v)
}

// cigarToRows expands a CIGAR string (M/=/X consume one of each row, D
// consumes h only and puts a gap in v, I consumes v only and puts a gap
// in h) into gapped byte rows over h and v.
func cigarToRows(cigar string, h, v []byte) (alignH, alignV []byte) {
	hi, vi := 0, 0
	count := 0
	for i := 0; i < len(cigar); i++ {
		c := cigar[i]
		if c >= '0' && c <= '9' {
			count = count*10 + int(c-'0')
			continue
		}
		if count == 0 {
			count = 1
		}
		switch c {
		case 'M', '=', 'X':
			for k := 0; k < count && hi < len(h) && vi < len(v); k++ {
				alignH = append(alignH, h[hi])
				alignV = append(alignV, v[vi])
				hi++
				vi++
			}
		case 'D':
			for k := 0; k < count && hi < len(h); k++ {
				alignH = append(alignH, h[hi])
				alignV = append(alignV, '-')
				hi++
			}
		case 'I':
			for k := 0; k < count && vi < len(v); k++ {
				alignH = append(alignH, '-')
				alignV = append(alignV, v[vi])
				vi++
			}
		}
		count = 0
	}
	return alignH, alignV
}
