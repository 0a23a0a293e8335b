package swift

import (
	"testing"

	"github.com/bixbio/stellar/internal/alphabet"
	"github.com/bixbio/stellar/internal/qgram"
)

func TestDeriveParamsSanity(t *testing.T) {
	p := DeriveParams(0.1, 10, 4)
	if p.Tau < 1 {
		t.Fatalf("tau must be >= 1, got %d", p.Tau)
	}
	if p.Delta&(p.Delta-1) != 0 {
		t.Fatalf("delta must be a power of two, got %d", p.Delta)
	}
	if p.Overlap != p.Delta {
		t.Fatalf("overlap must equal delta")
	}
}

// TestFilterCompleteness checks that a hand-constructed unique
// ε-match is covered by at least one emitted parallelogram.
func TestFilterCompleteness(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	qset := alphabet.NewSet(a)
	query, err := alphabet.NewSeq([]byte("q0"), []byte("ACGTACGTAC"), a)
	if err != nil {
		t.Fatal(err)
	}
	qset.Add(query)

	q := 4
	idx, err := qgram.Build(qset, q, 100)
	if err != nil {
		t.Fatal(err)
	}

	params := DeriveParams(0.0, 10, q)
	filter := NewFilter(idx, params, nil)

	db, err := alphabet.NewSeq([]byte("d0"), []byte("TTACGTACGTACTT"), a)
	if err != nil {
		t.Fatal(err)
	}

	var stats Stats
	hits := filter.Scan(db.Data, &stats)
	if len(hits) == 0 {
		t.Fatal("expected at least one parallelogram covering the planted match")
	}

	// the match is at dbBegin=2, dbEnd=12, qBegin=0, qEnd=10
	covered := false
	for _, h := range hits {
		if h.SeqID == 0 && h.DBBegin <= 2 && h.DBEnd >= 12 && h.QBegin <= 0 && h.QEnd >= 10 {
			covered = true
		}
	}
	if !covered {
		t.Fatalf("no parallelogram covers the planted match: %+v", hits)
	}
}

func TestFilterEmitsNothingForUnrelatedSequences(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	qset := alphabet.NewSet(a)
	query, _ := alphabet.NewSeq([]byte("q0"), []byte("ACGTACGTAC"), a)
	qset.Add(query)

	q := 4
	idx, err := qgram.Build(qset, q, 100)
	if err != nil {
		t.Fatal(err)
	}
	params := DeriveParams(0.1, 10, q)
	filter := NewFilter(idx, params, nil)

	db, _ := alphabet.NewSeq([]byte("d0"), []byte("TTTTTTTTTT"), a)
	var stats Stats
	hits := filter.Scan(db.Data, &stats)
	if len(hits) != 0 {
		t.Fatalf("expected no hits for an unrelated database, got %+v", hits)
	}
}
