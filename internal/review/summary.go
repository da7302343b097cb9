package review

import "time"

// Counters counts ratings given during a session.
type Counters struct {
	Again int
	Hard  int
	Good  int
	Easy  int
}

func (c *Counters) Add(r Rating) {
	switch r {
	case Again:
		c.Again++
	case Hard:
		c.Hard++
	case Good:
		c.Good++
	case Easy:
		c.Easy++
	}
}

func (c Counters) Total() int {
	return c.Again + c.Hard + c.Good + c.Easy
}

// Score is the percentage of Good and Easy ratings, 0 when nothing was rated.
func (c Counters) Score() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return 100 * float64(c.Good+c.Easy) / float64(total)
}

// AverageRating weighs Again..Easy as 1..4, 0 when nothing was rated.
func (c Counters) AverageRating() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Again+2*c.Hard+3*c.Good+4*c.Easy) / float64(total)
}

// SessionSummary is written once when a session runs through all of its cards.
type SessionSummary struct {
	ID            string
	DeckID        string
	Mode          Mode
	Counters      Counters
	Score         float64
	AverageRating float64
	CreatedAt     time.Time
}

func newSessionSummary(id, deckID string, mode Mode, counters Counters, now time.Time) *SessionSummary {
	return &SessionSummary{
		ID:            id,
		DeckID:        deckID,
		Mode:          mode,
		Counters:      counters,
		Score:         counters.Score(),
		AverageRating: counters.AverageRating(),
		CreatedAt:     now,
	}
}
