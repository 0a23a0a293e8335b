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

package qgram

import (
	"github.com/bixbio/stellar/internal/alphabet"
	"github.com/bixbio/stellar/internal/stellarerr"
)

// Coder computes q-gram codes over symbol-coded bytes (not ASCII) by
// treating a window of q symbol codes as a base-|A| numeral, rolled
// across a sequence in O(1) amortized work per position. The base is
// the alphabet's size rather than hardcoded to 4, so this generalizes
// past plain 2-bit DNA4 packing.
type Coder struct {
	A        *alphabet.Alphabet
	Q        int
	base     uint64
	highPow  uint64 // base^(q-1), the weight of the leaving symbol
	numCodes uint64
}

// NewCoder builds a Coder for q-grams of length q over alphabet a,
// rejecting q values whose dense code space would overflow a sane
// in-memory dir array.
func NewCoder(a *alphabet.Alphabet, q int) (*Coder, error) {
	base := uint64(a.Size())
	numCodes, overflowed := pow(base, q)
	if overflowed || numCodes > maxDirEntries {
		return nil, stellarerr.InvalidOption(
			"q-gram length q=%d over alphabet size %d needs %d dense buckets, exceeds the %d limit",
			q, a.Size(), numCodes, maxDirEntries)
	}
	highPow, _ := pow(base, q-1)
	return &Coder{A: a, Q: q, base: base, highPow: highPow, numCodes: numCodes}, nil
}

// NumCodes returns |A|^q.
func (c *Coder) NumCodes() uint64 { return c.numCodes }

// ForEach calls fn(code, offset) for every q-gram in data (symbol-coded
// bytes, not ASCII), rolling the code across the sequence.
func (c *Coder) ForEach(data []byte, fn func(code uint64, offset int)) {
	n := len(data)
	q := c.Q
	if n < q {
		return
	}

	var code uint64
	for i := 0; i < q; i++ {
		code = code*c.base + uint64(data[i])
	}
	fn(code, 0)

	for i := q; i < n; i++ {
		code = (code-uint64(data[i-q])*c.highPow)*c.base + uint64(data[i])
		fn(code, i-q+1)
	}
}

// Code returns the q-gram code for data[off:off+q], or false if the
// window runs past the end of data.
func (c *Coder) Code(data []byte, off int) (uint64, bool) {
	if off < 0 || off+c.Q > len(data) {
		return 0, false
	}
	var code uint64
	for i := 0; i < c.Q; i++ {
		code = code*c.base + uint64(data[off+i])
	}
	return code, true
}

// pow computes base^exp for small integer exponents, reporting overflow
// past a uint64 rather than wrapping silently.
func pow(base uint64, exp int) (result uint64, overflowed bool) {
	result = 1
	for i := 0; i < exp; i++ {
		next := result * base
		if base != 0 && next/base != result {
			return 0, true
		}
		result = next
	}
	return result, false
}
