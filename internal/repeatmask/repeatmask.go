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

// Package repeatmask detects long, tightly periodic runs in the database
// stream so the SWIFT filter can bypass counting their q-grams. It is a
// radix trie over q-gram codes —
// the same path-compressed insert/split shape as a k-mer trie — but
// keyed generically by the alphabet's bit width rather than hardcoded to
// 2-bit DNA4, and its leaves carry a small ring of recent occurrence
// offsets instead of a growing value list, since the only question asked
// of a leaf is "have I seen this q-gram recur at a short period lately".
package repeatmask

// node is one trie node, path-compressed: prefix holds the bits not yet
// consumed by an ancestor, k the number of symbols it represents.
type node struct {
	prefix   uint64
	k        uint8
	children map[uint64]*node
	leaf     *leaf
}

// leaf tracks the most recent occurrence offsets of one q-gram code,
// newest last, trimmed to a small window.
type leaf struct {
	key       uint64
	positions []int
}

// Index is a repeat-run detector: Observe(code, pos) records one
// database occurrence of a q-gram code at offset pos and reports
// whether pos currently falls inside a detected repeat run.
type Index struct {
	k    uint8 // q-gram length in symbols
	bits uint8 // bits per symbol

	root *node

	minRepeatLength int
	maxRepeatPeriod int

	// activeRunEnd is set to pos+period when a run is detected at pos;
	// Observe reports every position before it as inside the run in
	// O(1), without touching the trie.
	activeRunEnd int
}

// New creates a detector for q-grams of length k over an alphabet whose
// symbol codes need `bits` bits, flagging runs of length >= minLen with
// period <= maxPeriod.
func New(k int, bits uint8, minLen, maxPeriod int) *Index {
	return &Index{
		k:               uint8(k),
		bits:            bits,
		root:            &node{children: map[uint64]*node{}},
		minRepeatLength: minLen,
		maxRepeatPeriod: maxPeriod,
	}
}

// baseAt returns symbol i (0-based) of a k-symbol code.
func (idx *Index) baseAt(code uint64, k, i uint8) uint64 {
	return (code >> ((k - i - 1) * idx.bits)) & idx.mask(1)
}

func (idx *Index) mask(n uint8) uint64 { return 1<<(n*idx.bits) - 1 }

func (idx *Index) prefixOf(code uint64, k, n uint8) uint64 { return code >> ((k - n) * idx.bits) }

func (idx *Index) suffixOf(code uint64, k, i uint8) uint64 { return code & idx.mask(k-i) }

func (idx *Index) hasPrefix(code, prefix uint64, k, n uint8) bool {
	return idx.prefixOf(code, k, n) == prefix
}

// longestCommonPrefix returns, in symbols, how much of a (length ka) and
// b (length kb, kb<=ka) agree from the left.
func (idx *Index) longestCommonPrefix(a, b uint64, ka, kb uint8) uint8 {
	a >>= (ka - kb) * idx.bits
	x := a ^ b
	var n uint8
	for n = 0; n < kb; n++ {
		if (x>>((kb-n-1)*idx.bits))&idx.mask(1) != 0 {
			break
		}
	}
	return n
}

// insert records a new occurrence of code at pos, returning the leaf so
// Observe can inspect its position history.
func (idx *Index) insert(code uint64, pos int) *leaf {
	var parent *node
	n := idx.root
	search := code
	k := idx.k

	for {
		if k == 0 {
			if n.leaf == nil {
				n.leaf = &leaf{key: code}
				return appendPos(n.leaf, pos)
			}
			return appendPos(n.leaf, pos)
		}

		parent = n
		first := idx.baseAt(search, k, 0)
		n = n.children[first]

		if n == nil {
			newLeaf := &leaf{key: code}
			appendPos(newLeaf, pos)
			parent.children[first] = &node{
				leaf:     newLeaf,
				prefix:   search,
				k:        k,
				children: map[uint64]*node{},
			}
			return newLeaf
		}

		common := idx.longestCommonPrefix(search, n.prefix, k, n.k)
		if common == n.k {
			search = idx.suffixOf(search, k, common)
			k -= common
			continue
		}

		child := &node{
			prefix:   idx.prefixOf(search, k, common),
			k:        common,
			children: map[uint64]*node{},
		}
		parent.children[first] = child
		child.children[idx.baseAt(n.prefix, n.k, common)] = n
		n.prefix = idx.suffixOf(n.prefix, n.k, common)
		n.k -= common

		search = idx.suffixOf(search, k, common)
		k -= common
		newLeaf := &leaf{key: code}
		appendPos(newLeaf, pos)
		if k == 0 {
			child.leaf = newLeaf
			return newLeaf
		}
		child.children[idx.baseAt(search, k, 0)] = &node{
			leaf:     newLeaf,
			prefix:   search,
			k:        k,
			children: map[uint64]*node{},
		}
		return newLeaf
	}
}

func appendPos(l *leaf, pos int) *leaf {
	const window = 8
	l.positions = append(l.positions, pos)
	if len(l.positions) > window {
		l.positions = l.positions[len(l.positions)-window:]
	}
	return l
}

// Observe records one occurrence of a q-gram code at database offset
// pos and reports whether pos lies inside a run that is exactly
// periodic with a period <= maxRepeatPeriod for at least minRepeatLength
// bases.
func (idx *Index) Observe(code uint64, pos int) bool {
	if pos < idx.activeRunEnd {
		return true
	}

	l := idx.insert(code, pos)
	n := len(l.positions)
	if n < 2 {
		return false
	}

	period := l.positions[n-1] - l.positions[n-2]
	if period <= 0 || period > idx.maxRepeatPeriod {
		return false
	}

	run := 1
	for i := n - 1; i > 0; i-- {
		if l.positions[i]-l.positions[i-1] != period {
			break
		}
		run++
	}
	length := run * period
	if length >= idx.minRepeatLength {
		idx.activeRunEnd = pos + period
		return true
	}
	return false
}
