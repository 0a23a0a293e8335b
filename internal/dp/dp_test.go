package dp

import (
	"testing"

	"github.com/bixbio/stellar/internal/alphabet"
)

func codes(a *alphabet.Alphabet, s string) []byte {
	c, err := a.EncodeSeq([]byte(s), nil)
	if err != nil {
		panic(err)
	}
	return c
}

// TestS1PerfectMatch exercises scenario S1: a perfect 10bp match embedded
// in a slightly longer database infix must score exactly its length.
func TestS1PerfectMatch(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	h := codes(a, "TTACGTACGTACTT")
	v := codes(a, "ACGTACGTAC")

	// a vanishingly small eps approximates the "no errors allowed" S1
	// scenario without dividing by zero in DeriveScoring/ScoreFloor.
	scoring := alphabet.DeriveScoring(0.0001, len(h))
	sigma := alphabet.ScoreFloor(0.0001, 10)

	al := NewAligner()
	results := al.Align(h, v, Options{
		Scoring:    scoring,
		LowerDiag:  -len(v),
		UpperDiag:  len(h),
		ScoreFloor: sigma,
	})
	if len(results) == 0 {
		t.Fatal("expected at least one local alignment")
	}
	best := results[0]
	if best.Score != 10 {
		t.Fatalf("expected score 10 for a perfect 10bp match, got %d", best.Score)
	}
	if best.BeginH != 2 || best.EndH != 12 {
		t.Fatalf("expected beginH=2 endH=12, got beginH=%d endH=%d", best.BeginH, best.EndH)
	}
}

func TestBestExitStopsAfterFirst(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	h := codes(a, "ACGTACGTACGTACGT")
	v := codes(a, "ACGT")

	scoring := alphabet.Scoring{Match: 1, Mismatch: -3, Gap: -3}
	al := NewAligner()
	results := al.Align(h, v, Options{
		Scoring:    scoring,
		LowerDiag:  -len(v),
		UpperDiag:  len(h),
		ScoreFloor: 1,
		BestExit:   true,
	})
	if len(results) != 1 {
		t.Fatalf("expected exactly one alignment under BestExit, got %d", len(results))
	}
}

func TestNoAlignmentBelowFloor(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	h := codes(a, "TTTTTTTTTT")
	v := codes(a, "ACGTACGTAC")

	scoring := alphabet.Scoring{Match: 1, Mismatch: -10, Gap: -10}
	al := NewAligner()
	results := al.Align(h, v, Options{
		Scoring:    scoring,
		LowerDiag:  -len(v),
		UpperDiag:  len(h),
		ScoreFloor: 8,
	})
	if len(results) != 0 {
		t.Fatalf("expected no alignments above the floor, got %d", len(results))
	}
}
