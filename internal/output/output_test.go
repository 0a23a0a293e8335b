package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bixbio/stellar/internal/alphabet"
	"github.com/bixbio/stellar/internal/matchstore"
)

func mkSet(t *testing.T, id, seq string) *alphabet.Set {
	a := alphabet.New(alphabet.Dna4)
	s := alphabet.NewSet(a)
	rec, err := alphabet.NewSeq([]byte(id), []byte(seq), a)
	if err != nil {
		t.Fatal(err)
	}
	s.Add(rec)
	return s
}

func TestCigarRunLength(t *testing.T) {
	alignH := []byte("AACC--GG")
	alignV := []byte("AA--TTGG")
	got := cigar(alignH, alignV)
	if got != "2M2D2I2M" {
		t.Fatalf("got %q", got)
	}
}

func TestGFFWritesOneFeaturePerMatch(t *testing.T) {
	queries := mkSet(t, "q0", "ACGTACGTACGT")
	database := mkSet(t, "d0", "ACGTACGTACGT")
	m := &matchstore.Match{
		QueryID: 0, DatabaseID: 0, Strand: matchstore.Forward,
		BeginQ: 0, EndQ: 12, BeginD: 0, EndD: 12,
		AlignH: []byte("ACGTACGTACGT"), AlignV: []byte("ACGTACGTACGT"),
		Length: 12, Errors: 0,
	}
	var buf bytes.Buffer
	f := New(GFF, &buf)
	if err := f.WriteHeader(); err != nil {
		t.Fatal(err)
	}
	if err := f.WriteMatch(m, queries, database); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "##gff-version 3\n") {
		t.Fatalf("missing gff header: %q", out)
	}
	if !strings.Contains(out, "d0\tstellar\tmatch\t1\t12") {
		t.Fatalf("unexpected feature line: %q", out)
	}
}

func TestBlastTabularWritesRow(t *testing.T) {
	queries := mkSet(t, "q0", "ACGTACGTACGT")
	database := mkSet(t, "d0", "ACGTACGTACGT")
	m := &matchstore.Match{
		QueryID: 0, DatabaseID: 0, Strand: matchstore.Forward,
		BeginQ: 0, EndQ: 12, BeginD: 0, EndD: 12,
		AlignH: []byte("ACGTACGTACGT"), AlignV: []byte("ACGTACGTACGT"),
		Length: 12, Errors: 0,
	}
	var buf bytes.Buffer
	f := New(BlastTabular, &buf)
	if err := f.WriteHeader(); err != nil {
		t.Fatal(err)
	}
	if err := f.WriteMatch(m, queries, database); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "q0\td0\t+\t1\t12\t1\t12\t12\t100.00\t0\t12M") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}
