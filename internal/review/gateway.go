package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Gateway commits a single review: it loads the card, asks the oracle for the
// next state and stores the state together with the review log.
type Gateway struct {
	repo   Repository
	oracle *Oracle
}

func NewGateway(repo Repository, oracle *Oracle) *Gateway {
	return &Gateway{repo: repo, oracle: oracle}
}

// Commit rates the card at now and returns the stored log.
func (g *Gateway) Commit(ctx context.Context, cardID, deckID string, rating Rating, now time.Time) (*ReviewLog, error) {
	card, err := g.repo.FindCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil || card.DeckID != deckID {
		return nil, fmt.Errorf("%w: %s in deck %s", ErrCardNotFound, cardID, deckID)
	}

	updated, log, err := g.oracle.Apply(card, rating, now)
	if err != nil {
		return nil, err
	}
	if err := g.repo.SaveReview(ctx, updated, card.Reps, log); err != nil {
		return nil, err
	}

	slog.Default().DebugContext(ctx, "review committed",
		"card_id", cardID,
		"deck_id", deckID,
		"rating", rating,
		"state", updated.State,
		"due", updated.Due,
	)
	return log, nil
}
