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

import "github.com/shenwei356/kmers"

// DNA4KmerCode encodes a q-gram over Dna4 via the canonical 2-bit packing
// of github.com/shenwei356/kmers. The q-gram index and filter do not
// call it; they compute codes with their own base-|A| qgram.Coder for
// every alphabet. ascii must
// be definite ACGT bytes (upper or lower case); q <= 32.
func DNA4KmerCode(ascii []byte) (uint64, error) {
	return kmers.Encode(ascii)
}

// MustDNA4KmerCode panics on invalid input; used only where the caller
// has already validated the bytes (e.g. after Alphabet.IsDefinite).
func MustDNA4KmerCode(ascii []byte) uint64 {
	code, err := kmers.Encode(ascii)
	if err != nil {
		panic(err)
	}
	return code
}

// DecodeDNA4KmerCode renders a code back to its ACGT string, for
// diagnostics and tests.
func DecodeDNA4KmerCode(code uint64, q int) []byte {
	return kmers.MustDecode(code, q)
}
