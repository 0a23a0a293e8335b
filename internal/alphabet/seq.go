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

// Seq is an immutable ordered sequence of symbol codes over a fixed
// Alphabet. Positions are zero-based; Infix returns a half-open [b, e)
// zero-copy view.
type Seq struct {
	ID   []byte
	Data []byte // symbol codes, not ASCII
	A    *Alphabet
}

// NewSeq encodes an ASCII FASTA record into a Seq.
func NewSeq(id, ascii []byte, a *Alphabet) (*Seq, error) {
	coded, err := a.EncodeSeq(ascii, nil)
	if err != nil {
		return nil, err
	}
	return &Seq{ID: id, Data: coded, A: a}, nil
}

// Len returns the number of symbols.
func (s *Seq) Len() int { return len(s.Data) }

// Infix returns the half-open view [b, e) of s, a zero-copy slice.
func (s *Seq) Infix(b, e int) []byte {
	if b < 0 {
		b = 0
	}
	if e > len(s.Data) {
		e = len(s.Data)
	}
	if e < b {
		e = b
	}
	return s.Data[b:e]
}

// Set is an ordered collection of sequences, either the query set or
// the database set. Both are fully materialized in memory; sequences
// are not streamed.
type Set struct {
	Seqs []*Seq
	A    *Alphabet
}

// NewSet creates an empty Set over the given alphabet.
func NewSet(a *Alphabet) *Set {
	return &Set{A: a}
}

// Add appends one sequence to the set.
func (s *Set) Add(seq *Seq) { s.Seqs = append(s.Seqs, seq) }

// Len returns the number of sequences in the set.
func (s *Set) Len() int { return len(s.Seqs) }
