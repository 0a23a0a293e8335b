package repeatmask

import "testing"

func TestObserveDetectsPeriodicRun(t *testing.T) {
	idx := New(4, 2, 20, 4) // q=4, dna4 2-bit codes, minLen=20, maxPeriod=4

	var flagged bool
	// q-gram codes 0,1,2,3 cycling with period 4 over many windows
	for pos := 0; pos < 30; pos++ {
		flagged = idx.Observe(uint64(pos%4), pos) || flagged
	}
	if !flagged {
		t.Fatal("expected a periodic run to be flagged")
	}
}

func TestObserveIgnoresNonPeriodicCodes(t *testing.T) {
	idx := New(4, 2, 20, 4)
	codes := []uint64{1, 7, 2, 9, 3, 11, 0, 5, 8, 6}
	for pos, c := range codes {
		if idx.Observe(c, pos) {
			t.Fatalf("unexpected repeat flag at pos %d for non-periodic input", pos)
		}
	}
}
