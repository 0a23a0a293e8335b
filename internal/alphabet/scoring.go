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

package alphabet

import "math"

// Scoring holds the match/mismatch/gap costs derived from an error
// rate: match = +1, mismatch = gap = max(ceil(-1/eps)+1, -|H|).
type Scoring struct {
	Match    int
	Mismatch int
	Gap      int
}

// DeriveScoring computes the scoring scheme for a banded DP call over a
// text infix of length hLen, given the error rate eps.
func DeriveScoring(eps float64, hLen int) Scoring {
	mm := int(math.Ceil(-1/eps)) + 1
	floor := -hLen
	if mm < floor {
		mm = floor
	}
	return Scoring{Match: 1, Mismatch: mm, Gap: mm}
}

// ScoreFloor computes sigma, the minimum score a local alignment must
// reach to be worth reporting:
//
//	e      = floor(eps*l)
//	l1     = max(0, ceil((e+1)/eps))
//	e1     = floor(eps*l1)
//	sigma  = min(ceil((l-e)/(e+1)), ceil((l1-e1)/(e1+1)))
func ScoreFloor(eps float64, l int) int {
	e := int(math.Floor(eps * float64(l)))
	l1 := int(math.Ceil(float64(e+1) / eps))
	if l1 < 0 {
		l1 = 0
	}
	e1 := int(math.Floor(eps * float64(l1)))

	s1 := ceilDiv(l-e, e+1)
	s2 := ceilDiv(l1-e1, e1+1)
	if s1 < s2 {
		return s1
	}
	return s2
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	} else if a%b != 0 && (a < 0) != (b < 0) {
		// Go division truncates toward zero, which for operands of
		// mixed sign is already the ceiling, so no adjustment is needed.
	}
	return q
}

// MaxErrors returns floor(eps*l), the maximum number of errors allowed in
// an alignment of length l under error rate eps.
func MaxErrors(eps float64, l int) int {
	return int(math.Floor(eps * float64(l)))
}

// ErrorRate returns errs/length as a float64, the quantity a reported
// match's error rate must stay within eps of.
func ErrorRate(errs, length int) float64 {
	if length == 0 {
		return 0
	}
	return float64(errs) / float64(length)
}
