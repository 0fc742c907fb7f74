package gallery

import "testing"

func TestBandBoundariesAreStrict(t *testing.T) {
	cases := []struct {
		score float64
		want  ScoreBand
	}{
		{0.95, BandHigh},
		{0.81, BandHigh},
		{0.8, BandMedium},
		{0.51, BandMedium},
		{0.5, BandLow},
		{0.2, BandLow},
		{0, BandLow},
	}
	for _, tc := range cases {
		if got := BandFor(tc.score); got != tc.want {
			t.Errorf("BandFor(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(0.87); got != "0.87 (High)" {
		t.Fatalf("FormatScore = %q", got)
	}
	if got := FormatScore(0.5); got != "0.50 (Low)" {
		t.Fatalf("FormatScore = %q", got)
	}
}
