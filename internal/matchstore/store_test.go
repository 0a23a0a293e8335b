package matchstore

import "testing"

func straightMatch(queryID, databaseID, beginD, length int) *Match {
	row := make([]byte, length)
	for i := range row {
		row[i] = 0
	}
	return &Match{
		QueryID: queryID, DatabaseID: databaseID,
		BeginD: beginD, EndD: beginD + length,
		BeginQ: beginD, EndQ: beginD + length,
		AlignH: row, AlignV: row,
		Length: length,
	}
}

func TestInsertTriggersCompactionAboveThreshold(t *testing.T) {
	qm := NewQueryMatches(0, Options{MinLen: 5, NumMatches: 10, DisableThresh: 100, CompactThresh: 2})
	qm.Insert(straightMatch(0, 0, 0, 10))
	qm.Insert(straightMatch(0, 0, 100, 10))
	if qm.compactThresh != 2 {
		t.Fatalf("compactThresh should not have grown yet, got %d", qm.compactThresh)
	}
	qm.Insert(straightMatch(0, 0, 200, 10))
	// after this third insert len(Matches)=3 > compactThresh=2, triggers
	// compact(); 2*3=6 > 2 so compactThresh should grow by 50%.
	if qm.compactThresh != 3 {
		t.Fatalf("expected compactThresh to grow to 3, got %d", qm.compactThresh)
	}
}

func TestDisableClearsMatches(t *testing.T) {
	qm := NewQueryMatches(0, Options{MinLen: 5, NumMatches: 10, DisableThresh: 2, CompactThresh: 100})
	qm.Insert(straightMatch(0, 0, 0, 10))
	qm.Insert(straightMatch(0, 0, 100, 10))
	qm.Insert(straightMatch(0, 0, 200, 10))
	if !qm.Disabled {
		t.Fatal("expected query to be disabled after exceeding disableThresh")
	}
	if len(qm.Matches) != 0 {
		t.Fatalf("expected matches to be cleared once disabled, got %d", len(qm.Matches))
	}
	qm.Insert(straightMatch(0, 0, 300, 10))
	if len(qm.Matches) != 0 {
		t.Fatal("expected inserts to be no-ops once disabled")
	}
}

func TestMaskOverlapsKeepsNonOverlapping(t *testing.T) {
	a := straightMatch(0, 0, 0, 10)
	b := straightMatch(0, 0, 50, 10)
	out := maskOverlaps([]*Match{a, b}, 5)
	if len(out) != 2 {
		t.Fatalf("expected both matches to survive, got %d", len(out))
	}
}

func TestMaskOverlapsDropsRedundantShorterMatch(t *testing.T) {
	// a and b overlap fully on the same diagonal, with identical
	// straight-line projections, and b lies wholly inside a's database
	// span (its unique span, 0, is below minLen), so the shorter one
	// should be invalidated.
	a := straightMatch(0, 0, 0, 20)
	b := straightMatch(0, 0, 2, 10)
	out := maskOverlaps([]*Match{a, b}, 5)
	if len(out) != 1 {
		t.Fatalf("expected exactly one survivor, got %d: %+v", len(out), out)
	}
	if out[0] != a {
		t.Fatalf("expected the longer match to survive")
	}
}

func TestMergeTakesMaxCompactThresh(t *testing.T) {
	opts := Options{MinLen: 5, NumMatches: 10, DisableThresh: 1000, CompactThresh: 4}
	s1 := NewStore(opts)
	s2 := NewStore(opts)
	s1.Insert(straightMatch(0, 0, 0, 10))
	s2.Insert(straightMatch(0, 0, 100, 10))
	s2.queryMatches(0).compactThresh = 9

	s1.Merge(s2)
	if s1.queryMatches(0).compactThresh != 9 {
		t.Fatalf("expected merged compactThresh to take the max, got %d", s1.queryMatches(0).compactThresh)
	}
	if len(s1.Matches(0)) != 2 {
		t.Fatalf("expected both matches present after merge, got %d", len(s1.Matches(0)))
	}
}
