package xdrop

import (
	"testing"

	"github.com/bixbio/stellar/internal/dp"
)

func rows(h, v string) (alignH, alignV []byte) {
	return []byte(h), []byte(v)
}

// TestSplitKeepsCleanAlignmentWhole exercises a gapless run with only a
// shallow dip: the whole thing should come back as one sub-alignment.
func TestSplitKeepsCleanAlignmentWhole(t *testing.T) {
	h, v := rows("AAAAXAAAA", "AAAATAAAA")
	align := &dp.Alignment{Score: 7, BeginH: 0, EndH: 9, BeginV: 0, EndV: 9, AlignH: h, AlignV: v}

	out := Split(align, 5, 3)
	if len(out) != 1 {
		t.Fatalf("expected exactly one sub-alignment, got %d: %+v", len(out), out)
	}
	if out[0].BeginH != 0 || out[0].EndH != 9 {
		t.Fatalf("expected the full span to survive, got beginH=%d endH=%d", out[0].BeginH, out[0].EndH)
	}
}

// TestSplitBreaksOnDeepDip exercises a big run of mismatches in the
// middle of two long matching runs: with a tight X, it should come back
// split into two pieces, one per flanking run.
func TestSplitBreaksOnDeepDip(t *testing.T) {
	h, v := rows("AAAAAAAAXXXXXXXXAAAAAAAA", "AAAAAAAAYYYYYYYYAAAAAAAA")
	align := &dp.Alignment{Score: 0, BeginH: 0, EndH: 24, BeginV: 0, EndV: 24, AlignH: h, AlignV: v}

	out := Split(align, 3, 4)
	if len(out) != 2 {
		t.Fatalf("expected two sub-alignments, got %d: %+v", len(out), out)
	}
	if out[0].EndH > out[1].BeginH {
		t.Fatalf("expected non-overlapping sub-alignments in order, got %+v", out)
	}
}
