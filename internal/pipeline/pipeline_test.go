package pipeline

import (
	"testing"

	"github.com/bixbio/stellar/internal/alphabet"
)

func mkSet(a *alphabet.Alphabet, id, seq string) *alphabet.Set {
	s := alphabet.NewSet(a)
	rec, err := alphabet.NewSeq([]byte(id), []byte(seq), a)
	if err != nil {
		panic(err)
	}
	s.Add(rec)
	return s
}

func TestRunFindsPlantedMatch(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	queries := mkSet(a, "q0", "ACGTACGTACGTACGTACGT")
	database := mkSet(a, "d0", "TTTTTACGTACGTACGTACGTACGTTTTTT")

	// The planted ACGT run is itself a period-4 tandem repeat, so
	// MinRepeatLength exceeds the whole database to keep the repeat
	// bypass from skipping its q-grams.
	opts := Options{
		Eps: 0.1, MinLen: 20, Q: 4, AbundanceCut: 100,
		XDrop: 10, MinRepeatLength: 1000, MaxRepeatPeriod: 4,
		DisableThresh: 1000, CompactThresh: 50, NumMatches: 10,
		Forward: true, ThreadCount: 1,
	}
	store, _, err := Run(queries, database, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	matches := store.Matches(0)
	if len(matches) == 0 {
		t.Fatal("expected at least one match for the planted 20bp repeat")
	}
	for _, m := range matches {
		if m.Length < opts.MinLen {
			t.Fatalf("match shorter than minLen: %+v", m)
		}
	}
}

func TestRunRejectsInvalidEps(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	queries := mkSet(a, "q0", "ACGT")
	database := mkSet(a, "d0", "ACGT")

	_, _, err := Run(queries, database, Options{Eps: 0.5, MinLen: 4, Q: 3}, nil)
	if err == nil {
		t.Fatal("expected an error for eps outside (0, 0.25]")
	}
}
