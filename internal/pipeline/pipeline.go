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

// Package pipeline implements the orchestrator (C9): it builds the
// query q-gram index once, runs the forward (and optional
// reverse-complement) SWIFT -> DP -> X-drop -> extension chain across
// database contigs in parallel, and reduces per-worker match stores
// into one final, compacted matchstore.Store.
package pipeline

import (
	"runtime"
	"sync"

	"github.com/bixbio/stellar/internal/alphabet"
	"github.com/bixbio/stellar/internal/dp"
	"github.com/bixbio/stellar/internal/extend"
	"github.com/bixbio/stellar/internal/matchstore"
	"github.com/bixbio/stellar/internal/qgram"
	"github.com/bixbio/stellar/internal/repeatmask"
	"github.com/bixbio/stellar/internal/stellarerr"
	"github.com/bixbio/stellar/internal/swift"
	"github.com/bixbio/stellar/internal/xdrop"
)

// VerificationMethod selects C5's enumeration mode.
type VerificationMethod int

const (
	AllLocal VerificationMethod = iota
	BestLocal
	BandedGlobal
	BandedGlobalExtend
)

// Options holds every tunable that affects a Run call's output: the
// filter/extension thresholds, which strands to search, and how the
// final matches are compacted and reported.
type Options struct {
	Eps               float64
	MinLen            int
	Q                 int
	AbundanceCut      int
	XDrop             int
	MinRepeatLength   int
	MaxRepeatPeriod   int
	DisableThresh     int
	CompactThresh     int
	NumMatches        int
	Forward           bool
	Reverse           bool
	Verification      VerificationMethod
	ThreadCount       int

	// Index, if non-nil, is a precomputed query q-gram index (from
	// "stellar index") to reuse instead of building one from queries.
	// Its Coder is attached fresh from queries.A, since a loaded Index
	// carries none of its own.
	Index *qgram.Index
}

// Progress reports per-database-contig completion to an external
// collaborator (a CLI progress bar, typically); the core never prints.
type Progress interface {
	ContigDone(seqID int, name string)
}

type noopProgress struct{}

func (noopProgress) ContigDone(int, string) {}

// Run is the orchestrator's entry point: build the index over queries,
// run every enabled strand against database, and return the final,
// compacted store plus swift.Stats accumulated across every contig and
// strand.
func Run(queries, database *alphabet.Set, opts Options, progress Progress) (*matchstore.Store, swift.Stats, error) {
	if opts.Eps <= 0 || opts.Eps > 0.25 {
		return nil, swift.Stats{}, stellarerr.InvalidOption("eps must be in (0, 0.25], got %v", opts.Eps)
	}
	if opts.MinLen <= 0 {
		return nil, swift.Stats{}, stellarerr.InvalidOption("minLen must be > 0, got %d", opts.MinLen)
	}
	if float64(opts.MinLen)*opts.Eps < 1 {
		return nil, swift.Stats{}, stellarerr.InvalidOption("eps*minLen must be >= 1 (got %v)", opts.Eps*float64(opts.MinLen))
	}
	if opts.Verification == BandedGlobal {
		return nil, swift.Stats{}, stellarerr.InvalidOption("verification method BandedGlobal is not implemented")
	}
	if progress == nil {
		progress = noopProgress{}
	}

	idx := opts.Index
	if idx != nil {
		if err := idx.AttachAlphabet(queries.A); err != nil {
			return nil, swift.Stats{}, err
		}
	} else {
		var err error
		idx, err = qgram.Build(queries, opts.Q, opts.AbundanceCut)
		if err != nil {
			return nil, swift.Stats{}, err
		}
	}
	params := swift.DeriveParams(opts.Eps, opts.MinLen, opts.Q)

	matchOpts := matchstore.Options{
		MinLen:        opts.MinLen,
		NumMatches:    opts.NumMatches,
		DisableThresh: opts.DisableThresh,
		CompactThresh: opts.CompactThresh,
	}
	global := matchstore.NewStore(matchOpts)

	strands := []matchstore.Strand{}
	if opts.Forward {
		strands = append(strands, matchstore.Forward)
	}
	if opts.Reverse && database.A.HasComplement() {
		strands = append(strands, matchstore.Reverse)
	}

	var stats swift.Stats
	for _, strand := range strands {
		if strand == matchstore.Reverse {
			for _, seq := range database.Seqs {
				database.A.ReverseComplement(seq.Data)
			}
		}

		strandStore, strandStats, err := runStrand(queries, database, idx, params, matchOpts, opts, strand, progress)
		if err != nil {
			return nil, swift.Stats{}, err
		}
		global.Merge(strandStore)
		stats.HitsEmitted += strandStats.HitsEmitted
		stats.RepeatsBypassed += strandStats.RepeatsBypassed
		stats.QGramsMasked += strandStats.QGramsMasked
		stats.QGramsScanned += strandStats.QGramsScanned

		if strand == matchstore.Reverse {
			for _, seq := range database.Seqs {
				database.A.ReverseComplement(seq.Data)
			}
		}
	}

	global.FinalCompact()
	return global, stats, nil
}

// runStrand partitions database contigs across a bounded worker pool
// (tokens-channel + WaitGroup), each with a private matchstore.Store
// and swift.Filter, and reduces them into one strand-level store.
func runStrand(queries, database *alphabet.Set, idx *qgram.Index, params swift.Params, matchOpts matchstore.Options, opts Options, strand matchstore.Strand, progress Progress) (*matchstore.Store, swift.Stats, error) {
	threads := opts.ThreadCount
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	type result struct {
		store *matchstore.Store
		stats swift.Stats
	}
	results := make(chan result, len(database.Seqs))
	tokens := make(chan struct{}, threads)
	var wg sync.WaitGroup

	for dbID, seq := range database.Seqs {
		wg.Add(1)
		tokens <- struct{}{}
		go func(dbID int, seq *alphabet.Seq) {
			defer func() { <-tokens; wg.Done() }()

			local := matchstore.NewStore(matchOpts)
			var localStats swift.Stats
			repeat := repeatmask.New(opts.Q, queries.A.Bits(), opts.MinRepeatLength, opts.MaxRepeatPeriod)
			filter := swift.NewFilter(idx, params, repeat)

			hits := filter.Scan(seq.Data, &localStats)
			for _, hit := range hits {
				verifyHit(queries, seq, dbID, hit, strand, opts, local)
			}

			progress.ContigDone(dbID, string(seq.ID))
			results <- result{store: local, stats: localStats}
		}(dbID, seq)
	}

	wg.Wait()
	close(results)

	merged := matchstore.NewStore(matchOpts)
	var stats swift.Stats
	for r := range results {
		merged.Merge(r.store)
		stats.HitsEmitted += r.stats.HitsEmitted
		stats.RepeatsBypassed += r.stats.RepeatsBypassed
		stats.QGramsMasked += r.stats.QGramsMasked
		stats.QGramsScanned += r.stats.QGramsScanned
	}
	return merged, stats, nil
}

// verifyHit runs C5/C6/C7 inside one SWIFT parallelogram and inserts
// every surviving epsilon-match into local.
func verifyHit(queries *alphabet.Set, dbSeq *alphabet.Seq, dbID int, hit swift.Hit, strand matchstore.Strand, opts Options, local *matchstore.Store) {
	query := queries.Seqs[hit.SeqID]

	dbBegin, dbEnd := clip(hit.DBBegin, hit.DBEnd, dbSeq.Len())
	qBegin, qEnd := clip(hit.QBegin, hit.QEnd, query.Len())
	if dbEnd <= dbBegin || qEnd <= qBegin {
		return
	}
	h := dbSeq.Infix(dbBegin, dbEnd)
	v := query.Infix(qBegin, qEnd)

	scoring := alphabet.DeriveScoring(opts.Eps, len(h))
	sigma := alphabet.ScoreFloor(opts.Eps, opts.MinLen)

	aligner := dp.NewAligner()
	locals := aligner.Align(h, v, dp.Options{
		Scoring:    scoring,
		LowerDiag:  -len(v),
		UpperDiag:  len(h),
		ScoreFloor: sigma,
		BestExit:   opts.Verification == BestLocal,
	})

	extender := extend.NewExtender(opts.Eps, opts.MinLen, opts.XDrop)

	for _, align := range locals {
		seeds := xdrop.Split(align, opts.XDrop, sigma)
		for i, seg := range seeds {
			side := extend.Policy(i, len(seeds))
			seed := extend.Seed{
				BeginH: dbBegin + seg.BeginH, EndH: dbBegin + seg.EndH,
				BeginV: qBegin + seg.BeginV, EndV: qBegin + seg.EndV,
			}
			res := extender.Extend(dbSeq.Data, query.Data, seed, side)
			if res == nil {
				continue
			}
			if res.Length < opts.MinLen || alphabet.ErrorRate(res.Errors, res.Length) > opts.Eps {
				continue
			}
			local.Insert(&matchstore.Match{
				QueryID: int(hit.SeqID), DatabaseID: dbID, Strand: strand,
				BeginQ: res.BeginV, EndQ: res.EndV,
				BeginD: res.BeginH, EndD: res.EndH,
				AlignH: res.AlignH, AlignV: res.AlignV,
				Length: res.Length, Errors: res.Errors,
			})
		}
	}
}

func clip(b, e, n int) (int, int) {
	if b < 0 {
		b = 0
	}
	if e > n {
		e = n
	}
	if e < b {
		e = b
	}
	return b, e
}

