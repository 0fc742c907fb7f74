package gallery

import "fmt"

// ScoreBand buckets a clip's composite score for display.
type ScoreBand string

const (
	BandHigh   ScoreBand = "high"
	BandMedium ScoreBand = "medium"
	BandLow    ScoreBand = "low"
)

// BandFor maps a composite score to its band. Both boundaries are strict:
// a score of exactly 0.8 is medium and exactly 0.5 is low.
func BandFor(score float64) ScoreBand {
	switch {
	case score > 0.8:
		return BandHigh
	case score > 0.5:
		return BandMedium
	default:
		return BandLow
	}
}

// Label returns the human-readable band name.
func (b ScoreBand) Label() string {
	switch b {
	case BandHigh:
		return "High"
	case BandMedium:
		return "Medium"
	case BandLow:
		return "Low"
	default:
		return string(b)
	}
}

// FormatScore renders a composite score alongside its band.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f (%s)", score, BandFor(score).Label())
}
