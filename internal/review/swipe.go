package review

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the direction of a swipe gesture on a revealed card.
type Direction int

const (
	SwipeLeft Direction = iota + 1
	SwipeRight
	SwipeUp
	SwipeDown
)

func (d Direction) String() string {
	switch d {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func (d Direction) IsValid() bool {
	return d >= SwipeLeft && d <= SwipeDown
}

// IsNegative reports whether the swipe means the answer was not recalled.
func (d Direction) IsNegative() bool {
	return d == SwipeLeft
}

func ParseDirection(s string) (Direction, error) {
	for _, d := range []Direction{SwipeLeft, SwipeRight, SwipeUp, SwipeDown} {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown swipe direction %q", s)
}

const (
	quickRecall = 2 * time.Second
	slowRecall  = 5 * time.Second
)

// RatingFromSwipe infers a rating from a swipe and the time since the card was flipped.
// A negative swipe is always Again. Otherwise a faster answer rates higher:
// under 2s is Easy, 2s to 5s inclusive is Good and anything slower is Hard.
func RatingFromSwipe(direction Direction, sinceFlip time.Duration) Rating {
	switch {
	case direction.IsNegative():
		return Again
	case sinceFlip < quickRecall:
		return Easy
	case sinceFlip <= slowRecall:
		return Good
	default:
		return Hard
	}
}
