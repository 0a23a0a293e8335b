package alphabet

import (
	"bytes"
	"testing"
)

func TestDna4RoundTrip(t *testing.T) {
	a := New(Dna4)
	coded, err := a.EncodeSeq([]byte("ACGTacgt"), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := a.DecodeSeq(coded)
	if string(got) != "ACGTACGT" {
		t.Fatalf("got %s", got)
	}
}

func TestDna4RejectsN(t *testing.T) {
	a := New(Dna4)
	if _, err := a.EncodeSeq([]byte("ACGN"), nil); err == nil {
		t.Fatal("expected error for N in strict dna4 alphabet")
	}
}

func TestReverseComplement(t *testing.T) {
	a := New(Dna4)
	coded, _ := a.EncodeSeq([]byte("AAAAAAAAAA"), nil)
	a.ReverseComplement(coded)
	if string(a.DecodeSeq(coded)) != "TTTTTTTTTT" {
		t.Fatalf("got %s", a.DecodeSeq(coded))
	}

	coded2, _ := a.EncodeSeq([]byte("ACGT"), nil)
	a.ReverseComplement(coded2)
	if string(a.DecodeSeq(coded2)) != "ACGT" {
		t.Fatalf("got %s", a.DecodeSeq(coded2))
	}
}

func TestPackUnpack(t *testing.T) {
	for _, kind := range []Kind{Dna4, Dna5, AminoAcid} {
		a := New(kind)
		var input string
		switch kind {
		case Dna4:
			input = "ACGTACGTACGTA"
		case Dna5:
			input = "ACGTNACGTNACG"
		case AminoAcid:
			input = "ACDEFGHIKLMNPQR"
		}
		coded, err := a.EncodeSeq([]byte(input), nil)
		if err != nil {
			t.Fatal(err)
		}
		packed := a.Pack(coded)
		unpacked := a.Unpack(*packed, len(coded))
		if !bytes.Equal(unpacked, coded) {
			t.Fatalf("%v: round trip mismatch: got %v want %v", kind, unpacked, coded)
		}
		RecyclePacked(packed)
	}
}

func TestScoreFloorS1(t *testing.T) {
	// S1: eps=0, l=10 -> a perfect match of length 10 should just clear
	// the floor (sigma should equal l when eps==0... but eps==0 is a
	// degenerate boundary; ScoreFloor is exercised for eps>0 cases by dp
	// package tests. Here we just check it doesn't panic for a small
	// eps close to zero and produces a positive floor.)
	sigma := ScoreFloor(0.1, 10)
	if sigma <= 0 {
		t.Fatalf("expected positive floor, got %d", sigma)
	}
}
