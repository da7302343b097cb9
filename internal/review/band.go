package review

import (
	"fmt"
	"strings"
	"time"
)

// DifficultyBand groups cards by how hard they currently are to recall.
type DifficultyBand int

const (
	// BandAny is a selection wildcard; Classify never returns it.
	BandAny DifficultyBand = iota
	BandVeryHard
	BandHard
	BandMedium
	BandEasy
)

// Bands lists the bands Classify can return, hardest first.
var Bands = []DifficultyBand{BandVeryHard, BandHard, BandMedium, BandEasy}

func (b DifficultyBand) String() string {
	switch b {
	case BandAny:
		return "Any"
	case BandVeryHard:
		return "Very Hard"
	case BandHard:
		return "Hard"
	case BandMedium:
		return "Medium"
	case BandEasy:
		return "Easy"
	default:
		return fmt.Sprintf("DifficultyBand(%d)", int(b))
	}
}

func (b DifficultyBand) IsValid() bool {
	return b >= BandAny && b <= BandEasy
}

// ParseBand accepts a band name case-insensitively; "veryhard" and "very-hard" also match Very Hard.
func ParseBand(s string) (DifficultyBand, error) {
	normalized := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, b := range append([]DifficultyBand{BandAny}, Bands...) {
		if normalized == strings.ReplaceAll(strings.ToLower(b.String()), " ", "") {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty band %q", s)
}

const day = 24 * time.Hour

// Classify assigns a card to a difficulty band from its stability and due date.
// Rules are checked in order and the first match wins.
func Classify(card Card, now time.Time) DifficultyBand {
	daysUntilDue := float64(card.Due.Sub(now)) / float64(day)
	isOverdue := daysUntilDue < 0
	daysOverdue := -daysUntilDue

	switch {
	case card.Stability < 3 || (isOverdue && daysOverdue > 5):
		return BandVeryHard
	case card.Stability < 7 || isOverdue:
		return BandHard
	case card.Stability <= 30 && daysUntilDue <= 7:
		return BandMedium
	case card.Stability > 30 && daysUntilDue > 7:
		return BandEasy
	default:
		return BandMedium
	}
}
