package region

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []string{"chr1", "chr1:1-1", "chrX:1000-2000"}
	for _, s := range cases {
		r, err := Parse(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if got := Format(r); got != s {
			t.Fatalf("%s: round trip got %s", s, got)
		}
	}
}

func TestParseCommaDigitGroups(t *testing.T) {
	r, err := Parse("chrX:1,500-2,000")
	if err != nil {
		t.Fatal(err)
	}
	if r.SeqName != "chrX" || r.BeginPos != 1499 || r.EndPos != 2000 {
		t.Fatalf("got %+v", r)
	}
}

func TestParseNameOnly(t *testing.T) {
	r, err := Parse("chr1")
	if err != nil {
		t.Fatal(err)
	}
	if r.SeqName != "chr1" || r.BeginPos != Unset || r.EndPos != Unset {
		t.Fatalf("got %+v", r)
	}
}

func TestParseBeginLessThanOne(t *testing.T) {
	if _, err := Parse("chr1:0-100"); err == nil {
		t.Fatal("expected ParseError for start < 1")
	}
}

func TestParseEndLessThanOne(t *testing.T) {
	if _, err := Parse("chr1:1-0"); err == nil {
		t.Fatal("expected ParseError for end < 1")
	}
}
