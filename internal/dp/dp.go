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

// Package dp implements the banded local DP verifier (C5): a
// Waterman-Eggert-style enumerator of successive, non-overlapping local
// alignments above a score floor, confined to a diagonal band. The
// pointer-matrix traceback shape is adapted from a plain Needleman-Wunsch
// global aligner: a dense score/pointer matrix with a from-cell tag per
// entry, reused across calls via a pool.
package dp

import "github.com/bixbio/stellar/internal/alphabet"

// Pointer records which predecessor produced a cell's score.
type Pointer uint8

const (
	None Pointer = iota
	Diag
	Up
	Left
)

// Options configures one banded local-alignment call.
type Options struct {
	Scoring alphabet.Scoring

	// LowerDiag/UpperDiag bound the band: only cells with
	// LowerDiag <= (j-i) <= UpperDiag are scored. The band is used
	// exactly as given.
	LowerDiag, UpperDiag int

	// ScoreFloor (sigma) is the minimum score worth reporting.
	ScoreFloor int

	// BestExit enables a fast exit: stop after emitting the first,
	// highest-scoring alignment instead of enumerating the rest.
	BestExit bool
}

// Alignment is one local alignment inside H (text/database infix) and V
// (pattern/query infix), in half-open source coordinates.
type Alignment struct {
	Score           int
	BeginH, EndH    int
	BeginV, EndV    int
	AlignH, AlignV  []byte // gapped rows; '-' marks a gap
}

// Aligner runs banded local DP over reusable score/pointer buffers.
type Aligner struct {
	scores   []int
	pointers []Pointer
	used     []bool
}

// NewAligner returns a zero-value-ready Aligner; its buffers grow to fit
// the first call and are reused thereafter.
func NewAligner() *Aligner { return &Aligner{} }

// Align enumerates local alignments inside the band in descending score
// order, each scoring at least opts.ScoreFloor, suppressing overlap with
// alignments already emitted by this call (Waterman-Eggert "subsequent
// calls suppress overlap with already-emitted cells" realized here as a
// single multi-alignment call since overlap is confined to one
// parallelogram's verification).
func (a *Aligner) Align(h, v []byte, opts Options) []*Alignment {
	rows := len(h) + 1
	cols := len(v) + 1
	n := rows * cols

	if cap(a.scores) < n {
		a.scores = make([]int, n)
		a.pointers = make([]Pointer, n)
		a.used = make([]bool, n)
	}
	scores := a.scores[:n]
	pointers := a.pointers[:n]
	used := a.used[:n]
	for i := range scores {
		scores[i] = 0
		pointers[i] = None
		used[i] = false
	}

	inBand := func(i, j int) bool {
		d := j - i
		return d >= opts.LowerDiag && d <= opts.UpperDiag
	}

	idx := func(i, j int) int { return i*cols + j }

	match, mismatch, gap := opts.Scoring.Match, opts.Scoring.Mismatch, opts.Scoring.Gap

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			if !inBand(i, j) {
				continue
			}
			sub := mismatch
			p := Diag
			if h[i-1] == v[j-1] {
				sub = match
			}

			best := 0
			bestP := None
			if s := scores[idx(i-1, j-1)] + sub; s > best {
				best, bestP = s, p
			}
			if inBand(i-1, j) {
				if s := scores[idx(i-1, j)] + gap; s > best {
					best, bestP = s, Up
				}
			}
			if inBand(i, j-1) {
				if s := scores[idx(i, j-1)] + gap; s > best {
					best, bestP = s, Left
				}
			}
			scores[idx(i, j)] = best
			pointers[idx(i, j)] = bestP
		}
	}

	var results []*Alignment
	for {
		bi, bj, bs := -1, -1, 0
		for i := 1; i < rows; i++ {
			for j := 1; j < cols; j++ {
				if !inBand(i, j) || used[idx(i, j)] {
					continue
				}
				if s := scores[idx(i, j)]; s > bs {
					bs, bi, bj = s, i, j
				}
			}
		}
		if bi < 0 || bs < opts.ScoreFloor {
			break
		}

		align := a.traceback(h, v, scores, pointers, used, cols, bi, bj, bs)
		results = append(results, align)
		if opts.BestExit {
			break
		}
	}
	return results
}

// traceback walks pointers back from (i,j) to the first cell with score
// 0 or an already-used predecessor, marking every visited cell as used
// so later calls to Align's outer loop in this invocation will not
// re-emit an overlapping alignment.
func (a *Aligner) traceback(h, v []byte, scores []int, pointers []Pointer, used []bool, cols, i, j, score int) *Alignment {
	align := &Alignment{Score: score, EndH: i, EndV: j}

	var alignH, alignV []byte
	for i > 0 && j > 0 && scores[i*cols+j] > 0 && !used[i*cols+j] {
		used[i*cols+j] = true
		switch pointers[i*cols+j] {
		case Diag:
			alignH = append(alignH, h[i-1])
			alignV = append(alignV, v[j-1])
			i--
			j--
		case Up:
			alignH = append(alignH, h[i-1])
			alignV = append(alignV, '-')
			i--
		case Left:
			alignH = append(alignH, '-')
			alignV = append(alignV, v[j-1])
			j--
		default:
			i, j = 0, 0
		}
	}
	align.BeginH, align.BeginV = i, j
	reverse(alignH)
	reverse(alignV)
	align.AlignH, align.AlignV = alignH, alignV
	return align
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
