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

import "sync"

// Pack bit-packs a coded sequence into ceil(len(s)*bits/8) bytes, most
// significant symbol first within each byte. The bit width is derived
// from the alphabet rather than hardcoded to 2-bit DNA4, so Dna5/Rna5/
// AminoAcid sequences pack too, at 3 or 5 bits per symbol.
func (a *Alphabet) Pack(s []byte) *[]byte {
	bits := int(a.bits)
	nbytes := (len(s)*bits + 7) / 8
	buf := poolPacked.Get().(*[]byte)
	*buf = growZero(*buf, nbytes)

	var bitPos int
	for _, c := range s {
		byteIdx := bitPos >> 3
		shift := 8 - (bitPos & 7) - bits
		if shift >= 0 {
			(*buf)[byteIdx] |= c << uint(shift)
		} else {
			// symbol straddles a byte boundary
			left := -shift
			(*buf)[byteIdx] |= c >> uint(left)
			(*buf)[byteIdx+1] |= c << uint(8-left)
		}
		bitPos += bits
	}
	return buf
}

// Unpack reverses Pack, given the original symbol count n.
func (a *Alphabet) Unpack(packed []byte, n int) []byte {
	bits := int(a.bits)
	mask := byte(1<<uint(bits) - 1)
	out := make([]byte, n)
	var bitPos int
	for i := 0; i < n; i++ {
		byteIdx := bitPos >> 3
		shift := 8 - (bitPos & 7) - bits
		var c byte
		if shift >= 0 {
			c = (packed[byteIdx] >> uint(shift)) & mask
		} else {
			left := -shift
			c = (packed[byteIdx] << uint(left)) & mask
			if byteIdx+1 < len(packed) {
				c |= packed[byteIdx+1] >> uint(8-left)
			}
		}
		out[i] = c
		bitPos += bits
	}
	return out
}

// RecyclePacked returns a buffer obtained from Pack to the pool.
func RecyclePacked(b *[]byte) { poolPacked.Put(b) }

var poolPacked = &sync.Pool{New: func() interface{} {
	b := make([]byte, 0, 1<<20)
	return &b
}}

func growZero(b []byte, n int) []byte {
	if cap(b) < n {
		b = make([]byte, n)
		return b
	}
	b = b[:n]
	for i := range b {
		b[i] = 0
	}
	return b
}
