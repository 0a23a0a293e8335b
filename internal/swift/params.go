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

package swift

import (
	"math"

	"github.com/bixbio/stellar/internal/alphabet"
)

// Params are the derived SWIFT geometry for a fixed (eps, minLen, q).
type Params struct {
	Eps    float64
	MinLen int
	Q      int

	Tau     int // minimum shared q-grams per parallelogram
	Delta   int // diagonal tolerance, rounded to the next power of two
	Overlap int // = Delta, so successive parallelograms tile with one overlap

	// Window is the width, in text positions, of the sliding counter
	// window: a (query, bin) counter only counts hits within the most
	// recent Window text positions before it must reach Tau.
	Window int
}

// DeriveParams computes tau, delta and the counting window from (eps,
// minLen, q). delta is empirically tuned and rounded to the next power
// of two so bin arithmetic is a shift; this rounding is locked in by
// the tests in swift_test.go rather than re-derived per call.
func DeriveParams(eps float64, minLen, q int) Params {
	e := alphabet.MaxErrors(eps, minLen)
	tau := (minLen + 1) - q*(e+1)
	if tau < 1 {
		tau = 1
	}

	raw := int(math.Ceil(eps * float64(minLen) / (1 - eps)))
	delta := nextPow2(raw)

	window := minLen - q + 1
	if window < 1 {
		window = 1
	}

	return Params{
		Eps: eps, MinLen: minLen, Q: q,
		Tau: tau, Delta: delta, Overlap: delta,
		Window: window,
	}
}

func nextPow2(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
