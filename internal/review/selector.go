package review

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Selector builds the list of cards for a session.
type Selector struct {
	repo    Repository
	shuffle func(n int, swap func(i, j int))
}

func NewSelector(repo Repository) *Selector {
	return &Selector{
		repo:    repo,
		shuffle: rand.Shuffle,
	}
}

// Due returns every card of the deck that is due at now, earliest due first.
func (s *Selector) Due(ctx context.Context, deckID string, now time.Time) ([]Card, error) {
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return nil, err
	}
	cards, err := s.repo.FindDueCards(ctx, deckID, now)
	if err != nil {
		return nil, err
	}
	slog.Default().DebugContext(ctx, "selected due cards", "deck_id", deckID, "count", len(cards))
	return cards, nil
}

// ByBand returns up to limit cards of the deck in random order whose current band
// is band. BandAny takes cards regardless of band or due date.
func (s *Selector) ByBand(ctx context.Context, deckID string, band DifficultyBand, limit int, now time.Time) ([]Card, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if !band.IsValid() {
		return nil, fmt.Errorf("unknown difficulty band %d", int(band))
	}
	if err := s.ensureDeck(ctx, deckID); err != nil {
		return nil, err
	}

	cards, err := s.repo.FindCardsByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	matched := cards
	if band != BandAny {
		matched = make([]Card, 0, len(cards))
		for _, c := range cards {
			if Classify(c, now) == band {
				matched = append(matched, c)
			}
		}
	}

	s.shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	slog.Default().DebugContext(ctx, "selected cards by band",
		"deck_id", deckID,
		"band", band,
		"deck_size", len(cards),
		"count", len(matched),
	)
	return matched, nil
}

func (s *Selector) ensureDeck(ctx context.Context, deckID string) error {
	exists, err := s.repo.DeckExists(ctx, deckID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, deckID)
	}
	return nil
}
