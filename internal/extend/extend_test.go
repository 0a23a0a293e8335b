package extend

import "testing"

func TestPolicy(t *testing.T) {
	cases := []struct {
		idx, n int
		want   Side
	}{
		{0, 1, Both},
		{0, 3, Right},
		{2, 3, Left},
		{1, 3, Neither},
	}
	for _, c := range cases {
		if got := Policy(c.idx, c.n); got != c.want {
			t.Fatalf("Policy(%d,%d) = %v, want %v", c.idx, c.n, got, c.want)
		}
	}
}

func TestUngappedXDropStopsAtMismatchRun(t *testing.T) {
	h := []byte{0, 1, 2, 3, 3, 3, 3, 0}
	v := []byte{0, 1, 2, 3, 0, 0, 0, 0}
	n := ungappedXDrop(h, v, 1)
	if n != 4 {
		t.Fatalf("expected to stop right after the 4-base match, got %d", n)
	}
}

func TestShrinkToLongestEpsilonMatch(t *testing.T) {
	// 10 matching columns, then a run of 4 mismatches, then 10 more
	// matches: at eps=0.1 and minLen=10 both 10-column runs qualify, and
	// either can absorb one adjacent mismatch (1 error in 11 columns), so
	// the longest epsilon-match found by exhaustive scan is 11 columns.
	alignH := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 1, 2, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3}
	alignV := append(append([]byte{}, alignH[:10]...), []byte{5, 5, 5, 5}...)
	alignV = append(alignV, alignH[14:]...)

	res := shrinkToLongestEpsilonMatch(alignH, alignV, 100, 200, 0.1, 10)
	if res == nil {
		t.Fatal("expected a surviving epsilon-match")
	}
	if res.Length < 10 {
		t.Fatalf("expected length >= 10, got %d", res.Length)
	}
}
