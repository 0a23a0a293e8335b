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

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/bixbio/stellar/internal/alphabet"
	"github.com/bixbio/stellar/internal/diag"
	"github.com/bixbio/stellar/internal/output"
	"github.com/bixbio/stellar/internal/pipeline"
	"github.com/bixbio/stellar/internal/qgram"
	"github.com/bixbio/stellar/internal/seqio"
)

// progressLogger adapts pipeline.Progress to an mpb bar under --debug,
// rather than printing one line per contig.
type progressLogger struct {
	verbose bool
	pbs     *mpb.Progress
	bar     *mpb.Bar
}

func newProgressLogger(verbose bool, total int) *progressLogger {
	p := &progressLogger{verbose: verbose}
	if !verbose {
		return p
	}
	p.pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	p.bar = p.pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("searched: ", decor.WC{W: len("searched: "), C: decor.DindentRight}),
			decor.Name("", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.EwmaETA(decor.ET_STYLE_GO, 10),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return p
}

func (p *progressLogger) ContigDone(seqID int, name string) {
	if !p.verbose {
		return
	}
	p.bar.Increment()
}

func (p *progressLogger) wait() {
	if p.verbose {
		p.pbs.Wait()
	}
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "search query sequences against a database for epsilon-matches",
	Long: `search finds all epsilon-matches of query sequences against
database sequences: gapped local alignments of length >= minLen with
an error rate <= eps, forward and (optionally) reverse-complement.`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		if cfgPath := getFlagString(cmd, "config"); true {
			cfg, err := loadConfig(cfgPath)
			checkError(err)
			applySearchConfig(cmd, &cfg.Search)
		}

		queryFile := getFlagString(cmd, "queries")
		dbFile := getFlagString(cmd, "database")
		if queryFile == "" {
			checkError(fmt.Errorf("flag -q/--queries is required"))
		}
		if dbFile == "" {
			checkError(fmt.Errorf("flag -d/--database is required"))
		}

		alphaKind, err := alphabet.ParseKind(getFlagString(cmd, "alphabet"))
		checkError(err)
		a := alphabet.New(alphaKind)

		eps := getFlagFloat64(cmd, "eps")
		minLen := getFlagPositiveInt(cmd, "min-len")
		q := getFlagPositiveInt(cmd, "q")

		format, err := output.ParseFormat(getFlagString(cmd, "format"))
		checkError(err)

		outFile := getFlagString(cmd, "out-file")
		disabledFile := getFlagString(cmd, "disabled-out-file")

		opts := pipeline.Options{
			Eps:             eps,
			MinLen:          minLen,
			Q:               q,
			AbundanceCut:    getFlagPositiveInt(cmd, "abundance-cut"),
			XDrop:           getFlagPositiveInt(cmd, "x-drop"),
			MinRepeatLength: getFlagPositiveInt(cmd, "min-repeat-length"),
			MaxRepeatPeriod: getFlagPositiveInt(cmd, "max-repeat-period"),
			DisableThresh:   getFlagPositiveInt(cmd, "disable-thresh"),
			CompactThresh:   getFlagPositiveInt(cmd, "compact-thresh"),
			NumMatches:      getFlagPositiveInt(cmd, "num-matches"),
			Forward:         true,
			Reverse:         !getFlagBool(cmd, "forward-only"),
			ThreadCount:     opt.NumCPUs,
		}

		timeStart := time.Now()
		if opt.Verbose {
			log.Infof("stellar search v%s", VERSION)
			log.Info()
			log.Infof("loading queries: %s", queryFile)
		}
		queries, err := seqio.LoadMulti(resolveInputFiles(queryFile, opt.NumCPUs), a)
		checkError(err)
		if opt.Verbose {
			log.Infof("  %d query sequence(s)", queries.Len())
			log.Infof("loading database: %s", dbFile)
		}
		database, err := seqio.LoadMulti(resolveInputFiles(dbFile, opt.NumCPUs), a)
		checkError(err)
		if opt.Verbose {
			log.Infof("  %d database sequence(s)", database.Len())
		}

		if indexDir := getFlagString(cmd, "index"); indexDir != "" {
			idx, err := qgram.Load(filepath.Join(indexDir, indexFileName))
			checkError(errors.Wrapf(err, "loading precomputed index from %s", indexDir))
			opts.Index = idx
			if opt.Verbose {
				log.Infof("loaded precomputed query index: %s", indexDir)
			}
		}
		if opt.Verbose {
			log.Infof("searching with %d threads...", opt.NumCPUs)
		}

		progress := newProgressLogger(getFlagBool(cmd, "debug"), database.Len())
		store, stats, err := pipeline.Run(queries, database, opts, progress)
		checkError(err)
		progress.wait()

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), 6)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		formatter := output.New(format, outfh)
		checkError(formatter.WriteHeader())
		for _, qid := range store.QueryIDs() {
			for _, m := range store.Matches(qid) {
				checkError(formatter.WriteMatch(m, queries, database))
			}
		}
		checkError(formatter.Close())

		if disabled := store.DisabledQueryIDs(); len(disabled) > 0 {
			if disabledFile == "" {
				disabledFile = outFile + ".disabled.fasta"
			}
			fh, err := os.Create(disabledFile)
			checkError(err)
			checkError(seqio.WriteDisabledFASTA(fh, queries, disabled))
			checkError(fh.Close())
			if opt.Verbose {
				log.Infof("%d disabled queries written to: %s", len(disabled), disabledFile)
			}
		}

		if opt.Verbose {
			summary := store.Summarize()
			log.Info()
			log.Infof("hits emitted: %d, repeats bypassed: %d, q-grams masked: %d, q-grams scanned: %d",
				stats.HitsEmitted, stats.RepeatsBypassed, stats.QGramsMasked, stats.QGramsScanned)
			log.Infof("matches: %d (mean length %.1f +/- %.1f, mean errors %.1f +/- %.1f), %d queries disabled",
				summary.NumMatches, summary.MeanLength, summary.StdLength, summary.MeanErrors, summary.StdErrors, summary.NumDisabled)
			log.Infof("elapsed time: %s", time.Since(timeStart))
		}

		if plotFile := getFlagString(cmd, "plot-score-hist"); plotFile != "" {
			checkError(diag.PlotScoreHistogram(store, plotFile))
		}
	},
}

func init() {
	RootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("queries", "q", "", formatFlagUsage("Query sequences, FASTA/FASTQ, optionally compressed."))
	searchCmd.Flags().StringP("database", "d", "", formatFlagUsage("Database sequences, FASTA/FASTQ, optionally compressed."))
	searchCmd.Flags().StringP("out-file", "o", "-", formatFlagUsage(`Match report file ("-" for stdout), a ".gz" suffix writes gzip-compressed output.`))
	searchCmd.Flags().StringP("disabled-out-file", "", "", formatFlagUsage("FASTA file for disabled queries (default: <out-file>.disabled.fasta)."))
	searchCmd.Flags().StringP("format", "f", "gff", formatFlagUsage(`Match report format: "gff" or "blast-tabular".`))
	searchCmd.Flags().StringP("alphabet", "", "dna", formatFlagUsage("Sequence alphabet: dna, dna5, rna5, protein, char."))
	searchCmd.Flags().StringP("index", "", "", formatFlagUsage("Directory written by \"stellar index\"; reuse its query q-gram index instead of rebuilding."))

	searchCmd.Flags().Float64P("eps", "e", 0.05, formatFlagUsage("Maximum error rate of a reported match, in (0, 0.25]."))
	searchCmd.Flags().IntP("min-len", "l", 50, formatFlagUsage("Minimum length of a reported match."))
	searchCmd.Flags().IntP("q", "", 7, formatFlagUsage("Q-gram length for the SWIFT filter."))
	searchCmd.Flags().IntP("abundance-cut", "", 90, formatFlagUsage("Abundance cutoff percentage for masking over-abundant q-gram buckets."))
	searchCmd.Flags().IntP("x-drop", "", 10, formatFlagUsage("X-drop score threshold for splitting and extending alignments."))
	searchCmd.Flags().IntP("min-repeat-length", "", 8, formatFlagUsage("Minimum period-repeat run length bypassed by the repeat mask."))
	searchCmd.Flags().IntP("max-repeat-period", "", 4, formatFlagUsage("Maximum period considered by the repeat mask."))
	searchCmd.Flags().IntP("disable-thresh", "", 1000, formatFlagUsage("Disable a query once its match count exceeds this threshold."))
	searchCmd.Flags().IntP("compact-thresh", "", 100, formatFlagUsage("Initial per-query match count that triggers overlap compaction."))
	searchCmd.Flags().IntP("num-matches", "", 50, formatFlagUsage("Target number of matches a query keeps after compaction."))
	searchCmd.Flags().BoolP("forward-only", "", false, formatFlagUsage("Only search the forward strand of the database."))
	searchCmd.Flags().BoolP("debug", "", false, formatFlagUsage("Print progress information."))
	searchCmd.Flags().StringP("plot-score-hist", "", "", formatFlagUsage("Write a PNG histogram of HSP scores to this path."))

	searchCmd.SetUsageTemplate(usageTemplate(""))
}
