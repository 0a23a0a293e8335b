package qgram

import (
	"os"
	"testing"

	"github.com/bixbio/stellar/internal/alphabet"
)

func mustSeq(t *testing.T, a *alphabet.Alphabet, id, ascii string) *alphabet.Seq {
	t.Helper()
	s, err := alphabet.NewSeq([]byte(id), []byte(ascii), a)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBuildAndBucket(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	set := alphabet.NewSet(a)
	set.Add(mustSeq(t, a, "q1", "ACGTACGT"))
	set.Add(mustSeq(t, a, "q2", "TTTTACGT"))

	idx, err := Build(set, 4, 100)
	if err != nil {
		t.Fatal(err)
	}

	coder := idx.Coder()
	code, ok := coder.Code(set.Seqs[0].Data, 0)
	if !ok {
		t.Fatal("expected a valid code")
	}
	bucket := idx.Bucket(code)
	if len(bucket) == 0 {
		t.Fatal("expected ACGT q-gram to be present in the index")
	}
	found := false
	for _, o := range bucket {
		if o.SeqID == 0 && o.Offset == 0 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected occurrence (seq 0, offset 0) in bucket")
	}
}

func TestMaskingIndependentOfAbundance(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	set := alphabet.NewSet(a)
	// 5 queries, all identical short repeats -> one q-gram dominates.
	for i := 0; i < 5; i++ {
		set.Add(mustSeq(t, a, "q", "AAAA"))
	}
	idx, err := Build(set, 4, 50) // alpha=50 -> threshold = 50*5/100 = 2
	if err != nil {
		t.Fatal(err)
	}
	code, _ := idx.Coder().Code([]byte{0, 0, 0, 0}, 0)
	if !idx.Masked[code] {
		t.Fatal("expected AAAA bucket to be masked above the abundance cutoff")
	}
}

func TestRejectsOversizedQ(t *testing.T) {
	a := alphabet.New(alphabet.AminoAcid)
	set := alphabet.NewSet(a)
	set.Add(mustSeq(t, a, "q", "ACDEFGHIKLMNPQRSTVWY"))
	if _, err := Build(set, 32, 100); err == nil {
		t.Fatal("expected InvalidOption for an oversized dense code space")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := alphabet.New(alphabet.Dna4)
	set := alphabet.NewSet(a)
	set.Add(mustSeq(t, a, "q1", "ACGTACGTTTGG"))

	idx, err := Build(set, 4, 100)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.CreateTemp("", "stellar-qgram-*.idx")
	if err != nil {
		t.Fatal(err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := Save(idx, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Q != idx.Q || loaded.AbundanceCut != idx.AbundanceCut {
		t.Fatalf("header mismatch: %+v vs %+v", loaded, idx)
	}
	if len(loaded.Occ) != len(idx.Occ) {
		t.Fatalf("occ length mismatch: %d vs %d", len(loaded.Occ), len(idx.Occ))
	}
	for i := range idx.Occ {
		if loaded.Occ[i] != idx.Occ[i] {
			t.Fatalf("occ[%d] mismatch: %+v vs %+v", i, loaded.Occ[i], idx.Occ[i])
		}
	}
}
