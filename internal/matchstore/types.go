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

// Package matchstore implements the per-query match bookkeeping layer
// (C8): insertion, overlap suppression, length-based compaction with
// adaptive backoff, and the per-query disable mechanism.
package matchstore

// Strand identifies which orientation of the database a match was
// found against.
type Strand int

const (
	Forward Strand = iota
	Reverse
)

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// Match is one reported epsilon-match: errors/length <= eps and
// length >= minLen are invariants the producer (internal/extend) is
// responsible for upholding.
type Match struct {
	QueryID    int
	DatabaseID int
	Strand     Strand
	BeginQ, EndQ int
	BeginD, EndD int
	AlignH, AlignV []byte // AlignH over the database row, AlignV over the query row
	Length, Errors int
}

// diagOffset is the match's diagonal in the (query, database) plane,
// measured at its begin anchor — the "viewPos_query - viewPos_db"
// quantity the overlap test compares between two matches.
func (m *Match) diagOffset() int { return m.BeginQ - m.BeginD }

// Options configures one QueryMatches' lifecycle thresholds.
type Options struct {
	MinLen        int
	NumMatches    int
	DisableThresh int
	CompactThresh int
}
