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

// Package extend implements the bidirectional extender (C7): given a
// seed sub-alignment inside a parallelogram, it grows the seed left
// and/or right into the full source sequences under an X-drop bound,
// then shrinks the result to the longest contained epsilon-match.
package extend

// Side selects which direction(s) of a seed get extended.
type Side int

const (
	// Neither leaves the seed untouched — a middle seed in a chain of
	// several.
	Neither Side = iota
	Left
	Right
	Both
)

// Policy returns the direction to extend the idx'th of n seeds drawn
// from the same parent local alignment: a lone seed extends both ways,
// the first of several extends right only, the last extends left only,
// and middle seeds are not extended — this avoids emitting nested
// duplicates when one local alignment was split into several X-drop
// segments.
func Policy(idx, n int) Side {
	if n == 1 {
		return Both
	}
	if idx == 0 {
		return Right
	}
	if idx == n-1 {
		return Left
	}
	return Neither
}

// Seed is the sub-alignment to extend, anchored at source positions
// [BeginH, EndH) x [BeginV, EndV).
type Seed struct {
	BeginH, EndH int
	BeginV, EndV int
}

// Result is the extended-then-shrunk alignment: the longest contained
// epsilon-match of length >= minLen found within the X-drop extension.
type Result struct {
	BeginH, EndH int
	BeginV, EndV int
	Errors       int
	Length       int
	AlignH, AlignV []byte
}

// Extender grows seeds into full epsilon-matches.
type Extender struct {
	eps    float64
	minLen int
	xDrop  int
	refine gappedRefiner
}

// NewExtender builds an Extender over the given error rate, minimum
// match length, and X-drop score bound.
func NewExtender(eps float64, minLen, xDrop int) *Extender {
	return &Extender{eps: eps, minLen: minLen, xDrop: xDrop, refine: wfaRefiner{}}
}

// Extend grows seed within h (database infix) and v (query infix)
// according to side, then shrinks the extension to the longest
// contained epsilon-match. It returns nil if no sub-alignment of
// length >= minLen with error rate <= eps survives.
func (x *Extender) Extend(h, v []byte, seed Seed, side Side) *Result {
	beginH, endH := seed.BeginH, seed.EndH
	beginV, endV := seed.BeginV, seed.EndV
	var leftH, leftV, rightH, rightV []byte

	if side == Left || side == Both {
		lh, lv := x.extendOne(reversed(h[:beginH]), reversed(v[:beginV]))
		leftH, leftV = reversed(lh), reversed(lv)
		beginH -= len(leftH) - countGaps(leftH)
		beginV -= len(leftV) - countGaps(leftV)
	}
	if side == Right || side == Both {
		rightH, rightV = x.extendOne(h[endH:], v[endV:])
		endH += len(rightH) - countGaps(rightH)
		endV += len(rightV) - countGaps(rightV)
	}

	alignH := concat(leftH, h[seed.BeginH:seed.EndH], rightH)
	alignV := concat(leftV, v[seed.BeginV:seed.EndV], rightV)
	return shrinkToLongestEpsilonMatch(alignH, alignV, beginH, beginV, x.eps, x.minLen)
}

// extendOne runs the ungapped fast path first; if the ungapped run
// stops short of the X-drop bound because of a mismatch run that a few
// gaps could repair, it hands off to the gapped refiner for the
// remaining tail. Both operate on forward-oriented h, v (extendOne's
// caller is responsible for reversing a left extension beforehand and
// reversing the result back).
func (x *Extender) extendOne(h, v []byte) (alignH, alignV []byte) {
	n := ungappedXDrop(h, v, x.xDrop)
	alignH = append(alignH, h[:n]...)
	alignV = append(alignV, v[:n]...)
	if n >= len(h) || n >= len(v) {
		return alignH, alignV
	}
	gh, gv := x.refine.Refine(h[n:], v[n:], x.xDrop)
	alignH = append(alignH, gh...)
	alignV = append(alignV, gv...)
	return alignH, alignV
}

// shrinkToLongestEpsilonMatch scans every (i, j) column-pair window of
// the gapped rows and selects the maximum-length window whose error
// rate is within eps and whose length is >= minLen, breaking ties by
// earliest i.
func shrinkToLongestEpsilonMatch(alignH, alignV []byte, beginH, beginV int, eps float64, minLen int) *Result {
	n := len(alignH)
	// prefix[k] = number of mismatching/gapped columns among the first
	// k columns, so errors(i,j) = prefix[j]-prefix[i].
	prefix := make([]int, n+1)
	hPos := make([]int, n+1)
	vPos := make([]int, n+1)
	for k := 0; k < n; k++ {
		prefix[k+1] = prefix[k]
		if alignH[k] == '-' || alignV[k] == '-' || alignH[k] != alignV[k] {
			prefix[k+1]++
		}
		hPos[k+1] = hPos[k]
		if alignH[k] != '-' {
			hPos[k+1]++
		}
		vPos[k+1] = vPos[k]
		if alignV[k] != '-' {
			vPos[k+1]++
		}
	}

	bestLen, bestI, bestJ := -1, 0, 0
	for i := 0; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			length := j - i
			if length < minLen {
				continue
			}
			errs := prefix[j] - prefix[i]
			if float64(errs) > eps*float64(length) {
				continue
			}
			if length > bestLen {
				bestLen, bestI, bestJ = length, i, j
			}
		}
	}
	if bestLen < 0 {
		return nil
	}

	return &Result{
		BeginH: beginH + hPos[bestI], EndH: beginH + hPos[bestJ],
		BeginV: beginV + vPos[bestI], EndV: beginV + vPos[bestJ],
		Errors: prefix[bestJ] - prefix[bestI],
		Length: bestLen,
		AlignH: append([]byte{}, alignH[bestI:bestJ]...),
		AlignV: append([]byte{}, alignV[bestI:bestJ]...),
	}
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func countGaps(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '-' {
			n++
		}
	}
	return n
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
