package review

import "errors"

var (
	ErrDeckNotFound          = errors.New("deck not found")
	ErrCardNotFound          = errors.New("card not found")
	ErrInvalidCardState      = errors.New("invalid card state")
	ErrUnknownRating         = errors.New("unknown rating")
	ErrInvalidModeTransition = errors.New("invalid mode transition")
	ErrInvalidLimit          = errors.New("limit must be a positive integer")
	// ErrStaleCard means the card changed between load and write; the review was not saved.
	ErrStaleCard = errors.New("card was modified concurrently")
)
