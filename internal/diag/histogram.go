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

// Package diag holds optional, flag-requested diagnostics that have no
// bearing on search results: currently a single PNG histogram of HSP
// score distribution, plotted with gonum/plot.
package diag

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/bixbio/stellar/internal/matchstore"
)

// PlotScoreHistogram renders a histogram of every surviving match's
// Length-2*Errors score (matching columns minus errors, recomputed
// from the report) across store, writing a PNG to path.
func PlotScoreHistogram(store *matchstore.Store, path string) error {
	var scores plotter.Values
	for _, qid := range store.QueryIDs() {
		for _, m := range store.Matches(qid) {
			scores = append(scores, float64(m.Length-2*m.Errors))
		}
	}

	p := plot.New()
	p.Title.Text = "HSP score distribution"
	p.X.Label.Text = "score"
	p.Y.Label.Text = "count"

	if len(scores) == 0 {
		return p.Save(6*vg.Inch, 4*vg.Inch, path)
	}

	h, err := plotter.NewHist(scores, 40)
	if err != nil {
		return err
	}
	h.Normalize(1)
	p.Add(h)
	p.Legend.Add("scores", h)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
