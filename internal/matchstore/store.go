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

package matchstore

import (
	"sort"

	"github.com/twotwotwo/sorts"
)

// canonicalOrder adapts a []*Match to sort.Interface so the final
// output ordering (which can run to thousands of matches per query)
// sorts with twotwotwo/sorts' parallel quicksort rather than the
// single-threaded standard library, the same MaxProcs-governed
// parallelism the CLI layer already configures for other large sorts.
type canonicalOrder []*Match

func (c canonicalOrder) Len() int           { return len(c) }
func (c canonicalOrder) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c canonicalOrder) Less(i, j int) bool { return lessCanonical(c[i], c[j]) }

// QueryMatches is one query's match list plus its lifecycle state:
// insert/compact/disable rules. compactThresh is this instance's
// private, monotonically-growing copy — never shared across workers.
type QueryMatches struct {
	QueryID       int
	Matches       []*Match
	Disabled      bool
	compactThresh int
	opts          Options
}

// NewQueryMatches starts an empty match list for one query.
func NewQueryMatches(queryID int, opts Options) *QueryMatches {
	return &QueryMatches{QueryID: queryID, compactThresh: opts.CompactThresh, opts: opts}
}

// Insert appends m, disables the query if its list has grown past
// disableThresh, and otherwise compacts once the list exceeds the
// current (adaptive) compactThresh.
func (qm *QueryMatches) Insert(m *Match) {
	if qm.Disabled {
		return
	}
	qm.Matches = append(qm.Matches, m)
	if len(qm.Matches) > qm.opts.DisableThresh {
		qm.Disabled = true
		qm.Matches = nil
		return
	}
	if len(qm.Matches) > qm.compactThresh {
		qm.compact()
	}
}

// compact runs maskOverlaps, keeps the numMatches longest survivors,
// and raises compactThresh by 50% if compaction didn't buy back at
// least half the threshold's headroom — an adaptive backoff that
// prevents repeated thrash on pathologically dense queries.
func (qm *QueryMatches) compact() {
	qm.Matches = maskOverlaps(qm.Matches, qm.opts.MinLen)

	sort.SliceStable(qm.Matches, func(i, j int) bool { return qm.Matches[i].Length > qm.Matches[j].Length })
	if len(qm.Matches) > qm.opts.NumMatches {
		qm.Matches = qm.Matches[:qm.opts.NumMatches]
	}

	if 2*len(qm.Matches) > qm.compactThresh {
		qm.compactThresh += qm.compactThresh / 2
	}
}

// FinalCompact forces compaction regardless of size and leaves
// Matches in a canonical deterministic order for the final output.
func (qm *QueryMatches) FinalCompact() {
	qm.compact()
	sorts.Quicksort(canonicalOrder(qm.Matches))
}

func lessCanonical(a, b *Match) bool {
	if a.Strand != b.Strand {
		return a.Strand < b.Strand
	}
	if a.DatabaseID != b.DatabaseID {
		return a.DatabaseID < b.DatabaseID
	}
	if a.BeginD != b.BeginD {
		return a.BeginD < b.BeginD
	}
	if a.EndD != b.EndD {
		return a.EndD < b.EndD
	}
	return a.BeginQ < b.BeginQ
}

// Store owns one QueryMatches per query seen so far. Each pipeline
// worker owns a private Store during the parallel phase, partitioning
// per-query match lists; Merge reduces worker stores into the
// orchestrator's global one.
type Store struct {
	perQuery map[int]*QueryMatches
	opts     Options
}

// NewStore creates an empty store governed by opts.
func NewStore(opts Options) *Store {
	return &Store{perQuery: make(map[int]*QueryMatches), opts: opts}
}

// Insert routes m into its query's QueryMatches, creating one lazily.
func (s *Store) Insert(m *Match) {
	s.queryMatches(m.QueryID).Insert(m)
}

func (s *Store) queryMatches(id int) *QueryMatches {
	qm, ok := s.perQuery[id]
	if !ok {
		qm = NewQueryMatches(id, s.opts)
		s.perQuery[id] = qm
	}
	return qm
}

// Merge folds other's per-query state into s: compactThresh takes the
// maximum of the two, since it only grows; a disabled query stays
// disabled; and otherwise other's surviving matches are re-inserted so
// compaction and disable bookkeeping stay consistent.
func (s *Store) Merge(other *Store) {
	for id, oqm := range other.perQuery {
		qm := s.queryMatches(id)
		if oqm.compactThresh > qm.compactThresh {
			qm.compactThresh = oqm.compactThresh
		}
		if qm.Disabled {
			continue
		}
		if oqm.Disabled {
			qm.Disabled = true
			qm.Matches = nil
			continue
		}
		for _, m := range oqm.Matches {
			qm.Insert(m)
		}
	}
}

// FinalCompact forces a final compaction pass over every query.
func (s *Store) FinalCompact() {
	for _, qm := range s.perQuery {
		qm.FinalCompact()
	}
}

// Matches returns queryID's surviving match list.
func (s *Store) Matches(queryID int) []*Match {
	qm, ok := s.perQuery[queryID]
	if !ok {
		return nil
	}
	return qm.Matches
}

// DisabledQueryIDs returns every query id whose match count exceeded
// disableThresh at some point during the run.
func (s *Store) DisabledQueryIDs() []int {
	var ids []int
	for id, qm := range s.perQuery {
		if qm.Disabled {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// QueryIDs returns every query id the store has seen, sorted.
func (s *Store) QueryIDs() []int {
	ids := make([]int, 0, len(s.perQuery))
	for id := range s.perQuery {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
