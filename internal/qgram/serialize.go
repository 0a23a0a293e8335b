// Copyright © 2018-2024 Wei Shen <shenwei356@gmail.com>
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
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"

	"github.com/bixbio/stellar/internal/stellarerr"
)

// magic identifies a persisted q-gram index file, distinguishing it from
// other stellar on-disk artifacts (e.g. a future SSA file).
var magic = [4]byte{'s', 't', 'q', 'g'}

// byteLenOffsets lists the bit shifts of a uint32's bytes, most
// significant first, for a var-length integer scheme where
// each Occurrence is a (seqId, offset) uint32 pair packed into 2-8
// bytes with one control byte recording how many bytes each half used.
var byteLenOffsets = []uint8{24, 16, 8, 0}

func byteLength(n uint32) uint8 {
	switch {
	case n < 256:
		return 1
	case n < 65536:
		return 2
	case n < 16777216:
		return 3
	default:
		return 4
	}
}

func putOccurrence(buf []byte, o Occurrence) (ctrl byte, n int) {
	blen := byteLength(o.SeqID)
	ctrl |= byte(blen-1) << 4
	for _, off := range byteLenOffsets[4-blen:] {
		buf[n] = byte(o.SeqID >> off)
		n++
	}

	blen = byteLength(o.Offset)
	ctrl |= byte(blen - 1)
	for _, off := range byteLenOffsets[4-blen:] {
		buf[n] = byte(o.Offset >> off)
		n++
	}
	return
}

func readOccurrence(ctrl byte, buf []byte) (o Occurrence, n int) {
	blen1 := int((ctrl>>4)&0xf) + 1
	blen2 := int(ctrl&0xf) + 1
	var v1, v2 uint32
	for i := 0; i < blen1; i++ {
		v1 = v1<<8 | uint32(buf[n])
		n++
	}
	for i := 0; i < blen2; i++ {
		v2 = v2<<8 | uint32(buf[n])
		n++
	}
	return Occurrence{SeqID: v1, Offset: v2}, n
}

// Save persists the index to path: header (magic, q, abundanceCut,
// numCodes, dir, masked bitset) followed by the varint-packed occ table.
// A ".gz" path suffix gets transparent gzip compression, courtesy of xopen.
func Save(idx *Index, path string) error {
	f, err := xopen.Wopen(path)
	if err != nil {
		return stellarerr.IOError(errors.Wrap(err, "creating q-gram index file"))
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	if _, err := w.Write(magic[:]); err != nil {
		return stellarerr.IOError(err)
	}

	hdr := make([]byte, 8*3)
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(idx.Q))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(idx.AbundanceCut))
	binary.LittleEndian.PutUint64(hdr[16:24], idx.numCodes)
	if _, err := w.Write(hdr); err != nil {
		return stellarerr.IOError(err)
	}

	dirBytes := make([]byte, 8*len(idx.Dir))
	for i, v := range idx.Dir {
		binary.LittleEndian.PutUint64(dirBytes[i*8:], v)
	}
	if _, err := w.Write(dirBytes); err != nil {
		return stellarerr.IOError(err)
	}

	maskedBytes := make([]byte, (len(idx.Masked)+7)/8)
	for i, m := range idx.Masked {
		if m {
			maskedBytes[i/8] |= 1 << (i % 8)
		}
	}
	if _, err := w.Write(maskedBytes); err != nil {
		return stellarerr.IOError(err)
	}

	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(idx.Occ)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return stellarerr.IOError(err)
	}

	var buf [8]byte
	for _, o := range idx.Occ {
		ctrl, n := putOccurrence(buf[:], o)
		if err := w.WriteByte(ctrl); err != nil {
			return stellarerr.IOError(err)
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return stellarerr.IOError(err)
		}
	}
	return stellarerr.IOError(w.Flush())
}

// Load reads an index persisted by Save. The returned Index has no
// Coder set; callers must call AttachAlphabet before using Bucket-based
// lookups that need to re-derive codes (the coder itself is stateless
// given the alphabet and q already stored on disk).
func Load(path string) (*Index, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, stellarerr.IOError(errors.Wrap(err, "opening q-gram index file"))
	}
	defer f.Close()
	r := bufio.NewReaderSize(f, 1<<20)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, stellarerr.CorruptIndex("truncated q-gram index header")
	}
	if gotMagic != magic {
		return nil, stellarerr.CorruptIndex("not a stellar q-gram index file")
	}

	hdr := make([]byte, 8*3)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, stellarerr.CorruptIndex("truncated q-gram index header")
	}
	idx := &Index{
		Q:            int(binary.LittleEndian.Uint64(hdr[0:8])),
		AbundanceCut: int(binary.LittleEndian.Uint64(hdr[8:16])),
		numCodes:     binary.LittleEndian.Uint64(hdr[16:24]),
	}

	dirBytes := make([]byte, 8*(idx.numCodes+1))
	if _, err := io.ReadFull(r, dirBytes); err != nil {
		return nil, stellarerr.CorruptIndex("truncated dir array")
	}
	idx.Dir = make([]uint64, idx.numCodes+1)
	for i := range idx.Dir {
		idx.Dir[i] = binary.LittleEndian.Uint64(dirBytes[i*8:])
	}

	maskedBytes := make([]byte, (idx.numCodes+7)/8)
	if _, err := io.ReadFull(r, maskedBytes); err != nil {
		return nil, stellarerr.CorruptIndex("truncated masked bitset")
	}
	idx.Masked = make([]bool, idx.numCodes)
	for i := range idx.Masked {
		idx.Masked[i] = maskedBytes[i/8]&(1<<(i%8)) != 0
	}

	var countBuf [8]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, stellarerr.CorruptIndex("truncated occ count")
	}
	count := binary.LittleEndian.Uint64(countBuf[:])

	idx.Occ = make([]Occurrence, count)
	var rec [8]byte
	for i := uint64(0); i < count; i++ {
		ctrl, err := r.ReadByte()
		if err != nil {
			return nil, stellarerr.CorruptIndex("truncated occ table")
		}
		blen1 := int((ctrl>>4)&0xf) + 1
		blen2 := int(ctrl&0xf) + 1
		if _, err := io.ReadFull(r, rec[:blen1+blen2]); err != nil {
			return nil, stellarerr.CorruptIndex("truncated occ record")
		}
		o, _ := readOccurrence(ctrl, rec[:blen1+blen2])
		idx.Occ[i] = o
	}
	return idx, nil
}

// AttachCoder sets idx's Coder to c as given, without the code-space
// check that AttachAlphabet makes; Save/Load do not round-trip *alphabet.Alphabet itself since it is a
// small fixed set identified by Kind elsewhere (the database/query
// loading code already knows it).
func (idx *Index) AttachCoder(c *Coder) { idx.coder = c }
