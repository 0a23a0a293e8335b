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

// Package alphabet implements the symbol codes, complement map and
// match/mismatch/gap scoring of component C1. Alphabets are not a type
// hierarchy; an Alphabet is a capability set (code width, size, and a
// complement function), per the "Generic alphabets" design note.
package alphabet

import "fmt"

// Kind identifies one of the fixed alphabets the aligner supports.
type Kind uint8

const (
	Dna4 Kind = iota
	Dna5
	Rna5
	AminoAcid
	Char
)

func (k Kind) String() string {
	switch k {
	case Dna4:
		return "dna"
	case Dna5:
		return "dna5"
	case Rna5:
		return "rna5"
	case AminoAcid:
		return "protein"
	case Char:
		return "char"
	}
	return "unknown"
}

// ParseKind maps the CLI's --alphabet flag value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "dna":
		return Dna4, nil
	case "dna5":
		return Dna5, nil
	case "rna5":
		return Rna5, nil
	case "protein":
		return AminoAcid, nil
	case "char":
		return Char, nil
	}
	return 0, fmt.Errorf("alphabet: unknown alphabet %q", s)
}

// Alphabet is the capability set §9 asks for: symbol-code width, size,
// and a complement function. It never carries a vtable of virtual
// methods, only plain functions/tables computed once at construction.
type Alphabet struct {
	kind     Kind
	size     int      // number of distinct symbols, e.g. 4 for Dna4
	bits     uint8    // bits needed to store one code, ceil(log2(size))
	encode   [256]int8 // ASCII byte -> code, -1 if not definite
	decode   []byte    // code -> ASCII byte
	complement []int8  // code -> complement code, -1 if not applicable
	definite []bool    // code -> is a definite (non-ambiguous) symbol
}

// New constructs the Alphabet for a given Kind.
func New(k Kind) *Alphabet {
	a := &Alphabet{kind: k}
	for i := range a.encode {
		a.encode[i] = -1
	}
	switch k {
	case Dna4:
		a.buildFromLetters("ACGT", map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}, nil)
	case Dna5:
		a.buildFromLetters("ACGTN", map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}, map[byte]bool{'N': false})
	case Rna5:
		a.buildFromLetters("ACGUN", map[byte]byte{'A': 'U', 'C': 'G', 'G': 'C', 'U': 'A'}, map[byte]bool{'N': false})
	case AminoAcid:
		a.buildFromLetters("ACDEFGHIKLMNPQRSTVWYX*", nil, map[byte]bool{'X': false, '*': false})
	case Char:
		a.buildRawBytes()
	}
	return a
}

func (a *Alphabet) buildFromLetters(letters string, complement map[byte]byte, indefinite map[byte]bool) {
	a.size = len(letters)
	a.bits = bitsFor(a.size)
	a.decode = make([]byte, a.size)
	a.complement = make([]int8, a.size)
	a.definite = make([]bool, a.size)

	for code, ch := range []byte(letters) {
		a.encode[ch] = int8(code)
		a.encode[lower(ch)] = int8(code)
		a.decode[code] = ch
		a.definite[code] = !indefinite[ch]
		a.complement[code] = -1
	}
	for code, ch := range []byte(letters) {
		if cch, ok := complement[ch]; ok {
			a.complement[code] = a.encode[cch]
		}
	}
}

func (a *Alphabet) buildRawBytes() {
	a.size = 256
	a.bits = 8
	a.decode = make([]byte, 256)
	a.complement = make([]int8, 256)
	a.definite = make([]bool, 256)
	for i := 0; i < 256; i++ {
		a.encode[i] = int8(int32(i) & 0xff)
		a.decode[i] = byte(i)
		a.complement[i] = -1
		a.definite[i] = true
	}
}

func bitsFor(n int) uint8 {
	var b uint8
	for (1 << b) < n {
		b++
	}
	if b == 0 {
		b = 1
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Kind returns the alphabet's kind.
func (a *Alphabet) Kind() Kind { return a.kind }

// Size returns the number of distinct symbol codes.
func (a *Alphabet) Size() int { return a.size }

// Bits returns the number of bits needed to store one symbol code.
func (a *Alphabet) Bits() uint8 { return a.bits }

// Encode maps one ASCII byte to its symbol code, or -1 if undefined in
// this alphabet (callers must reject such input upstream; the aligner
// core never sees undefined codes).
func (a *Alphabet) Encode(b byte) int8 { return a.encode[b] }

// EncodeSeq encodes a whole ASCII sequence into codes, reusing dst's
// backing array when it has enough capacity.
func (a *Alphabet) EncodeSeq(s []byte, dst []byte) ([]byte, error) {
	if cap(dst) < len(s) {
		dst = make([]byte, len(s))
	}
	dst = dst[:len(s)]
	for i, b := range s {
		c := a.encode[b]
		if c < 0 {
			return nil, fmt.Errorf("alphabet: byte %q at position %d is not in the %s alphabet", b, i, a.kind)
		}
		dst[i] = byte(c)
	}
	return dst, nil
}

// Decode maps one symbol code back to its ASCII byte.
func (a *Alphabet) Decode(c byte) byte { return a.decode[c] }

// DecodeSeq decodes a whole coded sequence into ASCII bytes.
func (a *Alphabet) DecodeSeq(s []byte) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		out[i] = a.decode[c]
	}
	return out
}

// Complement returns the complement code of c, or -1 if this alphabet has
// no complement relation for c (e.g. amino acids, or ambiguity codes).
func (a *Alphabet) Complement(c byte) int8 { return a.complement[c] }

// HasComplement reports whether every definite symbol of this alphabet has
// a complement — true for Dna4/Dna5/Rna5, false for AminoAcid/Char. The
// orchestrator (C9) uses this to decide whether a reverse-complement pass
// is even meaningful for the configured alphabet.
func (a *Alphabet) HasComplement() bool {
	switch a.kind {
	case Dna4, Dna5, Rna5:
		return true
	}
	return false
}

// IsDefinite reports whether code c is an unambiguous symbol (not N/X/*).
func (a *Alphabet) IsDefinite(c byte) bool {
	if int(c) >= len(a.definite) {
		return false
	}
	return a.definite[c]
}

// ReverseComplement reverse-complements the coded sequence seq in
// place, swapping symbols from both ends inward. Symbols without a complement pass through unchanged reversed,
// matching SeqAn STELLAR's behaviour for ambiguity codes.
func (a *Alphabet) ReverseComplement(seq []byte) {
	n := len(seq)
	for i, j := 0, n-1; i <= j; i, j = i+1, j-1 {
		ci, cj := seq[i], seq[j]
		rci, rcj := a.complement[ci], a.complement[cj]
		if rcj < 0 {
			rcj = int8(cj)
		}
		if rci < 0 {
			rci = int8(ci)
		}
		seq[i] = byte(rcj)
		if i != j {
			seq[j] = byte(rci)
		}
	}
}
