package fsrs

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

var fuzzRanges = []struct {
	start, end, factor float64
}{
	{2.5, 7.0, 0.15},
	{7.0, 20.0, 0.10},
	{20.0, math.Inf(1), 0.05},
}

// fuzzInterval spreads intervals of 3 days or more across a small window
// so that cards added together do not stay due together.
func fuzzInterval(days, maxInterval int, rng *rand.Rand) int {
	interval := float64(days)
	if interval < 2.5 {
		return days
	}

	delta := 1.0
	for _, r := range fuzzRanges {
		delta += r.factor * math.Max(math.Min(interval, r.end)-r.start, 0)
	}

	upper := min(int(math.Round(interval+delta)), maxInterval)
	lower := min(max(2, int(math.Round(interval-delta))), upper)
	return min(lower+rng.Intn(upper-lower+1), maxInterval)
}

// fuzzSeed derives the fuzz seed from the review inputs.
func fuzzSeed(salt int64, card Card, rating Rating, now time.Time) int64 {
	h := fnv.New64a()
	var lastReview int64
	if card.LastReview != nil {
		lastReview = card.LastReview.UnixNano()
	}
	for _, v := range []int64{salt, lastReview, int64(card.Reps), int64(rating), now.UnixNano()} {
		_ = binary.Write(h, binary.LittleEndian, v)
	}
	return int64(h.Sum64())
}
