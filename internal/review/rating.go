package review

import (
	"fmt"
	"strconv"
	"strings"
)

// Rating is the recall quality of one review, ordered Again < Hard < Good < Easy.
type Rating int

const (
	Again Rating = iota + 1
	Hard
	Good
	Easy
)

// Ratings lists every rating in ascending order.
var Ratings = []Rating{Again, Hard, Good, Easy}

func (r Rating) String() string {
	switch r {
	case Again:
		return "Again"
	case Hard:
		return "Hard"
	case Good:
		return "Good"
	case Easy:
		return "Easy"
	default:
		return fmt.Sprintf("Rating(%d)", int(r))
	}
}

func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// ParseRating accepts a rating name (case-insensitive) or its number 1-4.
func ParseRating(s string) (Rating, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if r := Rating(n); r.IsValid() {
			return r, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnknownRating, s)
	}
	for _, r := range Ratings {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRating, s)
}
