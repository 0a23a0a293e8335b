package ssa

import "testing"

func TestSSARecoversFullSuffixArray(t *testing.T) {
	seq := []byte{0, 1, 2, 3, 0, 1, 2, 3, 0, 1} // ACGTACGTAC-ish codes
	bwt := BuildBWTIndex(seq)

	for _, sampling := range []int{1, 2, 3, 4} {
		s, err := Build(bwt, sampling)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < len(seq); i++ {
			got, err := s.At(i)
			if err != nil {
				t.Fatalf("sampling=%d At(%d): %v", sampling, i, err)
			}
			if got != bwt.SAAt(i) {
				t.Fatalf("sampling=%d At(%d)=%d want %d", sampling, i, got, bwt.SAAt(i))
			}
		}
	}
}

func TestBuildRejectsInvalidSampling(t *testing.T) {
	bwt := BuildBWTIndex([]byte{0, 1, 2})
	if _, err := Build(bwt, 0); err == nil {
		t.Fatal("expected InvalidOption for sampling < 1")
	}
}
