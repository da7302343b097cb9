package deck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/decklearn/internal/database"
	"github.com/at-ishikawa/decklearn/internal/review"
)

//go:generate mockgen -source=repository.go -destination=../mocks/deck/mock_repository.go -package=mock_deck Repository

type Repository interface {
	// Create inserts the deck together with its initial cards.
	Create(ctx context.Context, deck *Deck, cards []CardInput) ([]review.Card, error)
	FindAll(ctx context.Context) ([]Deck, error)
	// FindByID returns nil without error when the deck does not exist.
	FindByID(ctx context.Context, id string) (*Deck, error)
	// Delete removes the deck with its cards, review logs and session summaries.
	Delete(ctx context.Context, id string) error
	AddCards(ctx context.Context, deckID string, cards []CardInput, now time.Time) ([]review.Card, error)
}

var cardInsertColumns = []string{
	"id", "deck_id", "question", "answer", "created_at", "due", "stability", "difficulty",
	"elapsed_days", "scheduled_days", "learning_steps", "reps", "lapses", "state", "last_review",
}

const cardInsertBatchSize = 100

type deckRecord struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Creator     string `db:"creator"`
	CardCount   int    `db:"card_count"`
	CreatedAt   string `db:"created_at"`
}

func (r deckRecord) toDeck() (Deck, error) {
	createdAt, err := database.ParseTimestamp(r.CreatedAt)
	if err != nil {
		return Deck{}, fmt.Errorf("deck %s: %w", r.ID, err)
	}
	return Deck{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Creator:     r.Creator,
		CardCount:   r.CardCount,
		CreatedAt:   createdAt,
	}, nil
}

// DBRepository implements Repository on MySQL or SQLite.
type DBRepository struct {
	db    *sqlx.DB
	newID func() string
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db, newID: review.NewID}
}

func (r *DBRepository) Create(ctx context.Context, deck *Deck, cards []CardInput) ([]review.Card, error) {
	if deck.ID == "" {
		deck.ID = r.newID()
	}
	if deck.Creator == "" {
		deck.Creator = DefaultCreator
	}

	var created []review.Card
	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO decks (id, title, description, creator, card_count, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			deck.ID, deck.Title, deck.Description, deck.Creator, 0, database.FormatTimestamp(deck.CreatedAt)); err != nil {
			return fmt.Errorf("insert deck: %w", err)
		}

		var err error
		created, err = r.addCards(ctx, tx, deck.ID, cards, deck.CreatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	deck.CardCount = len(created)
	return created, nil
}

func (r *DBRepository) FindAll(ctx context.Context) ([]Deck, error) {
	var records []deckRecord
	if err := r.db.SelectContext(ctx, &records, "SELECT * FROM decks ORDER BY created_at DESC, id"); err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}

	decks := make([]Deck, 0, len(records))
	for _, rec := range records {
		d, err := rec.toDeck()
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, nil
}

func (r *DBRepository) FindByID(ctx context.Context, id string) (*Deck, error) {
	var record deckRecord
	err := r.db.GetContext(ctx, &record, "SELECT * FROM decks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load deck %s: %w", id, err)
	}
	d, err := record.toDeck()
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DBRepository) Delete(ctx context.Context, id string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, table := range []string{"review_logs", "session_summaries", "cards"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE deck_id = ?", id); err != nil {
				return fmt.Errorf("delete %s of deck %s: %w", table, id, err)
			}
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM decks WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete deck %s: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete deck %s: %w", id, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", review.ErrDeckNotFound, id)
		}
		return nil
	})
}

// AddCards appends New cards due at now to the deck.
func (r *DBRepository) AddCards(ctx context.Context, deckID string, cards []CardInput, now time.Time) ([]review.Card, error) {
	var created []review.Card
	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM decks WHERE id = ?", deckID); err != nil {
			return fmt.Errorf("check deck %s: %w", deckID, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", review.ErrDeckNotFound, deckID)
		}

		var err error
		created, err = r.addCards(ctx, tx, deckID, cards, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *DBRepository) addCards(ctx context.Context, tx *sqlx.Tx, deckID string, inputs []CardInput, now time.Time) ([]review.Card, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	cards := make([]review.Card, 0, len(inputs))
	for _, in := range inputs {
		cards = append(cards, review.NewCard(r.newID(), deckID, in.Question, in.Answer, now))
	}

	for start := 0; start < len(cards); start += cardInsertBatchSize {
		batch := cards[start:min(start+cardInsertBatchSize, len(cards))]
		args := make([]any, 0, len(batch)*len(cardInsertColumns))
		for _, c := range batch {
			args = append(args,
				c.ID, c.DeckID, c.Question, c.Answer,
				database.FormatTimestamp(c.CreatedAt), database.FormatTimestamp(c.Due),
				c.Stability, c.Difficulty, c.ElapsedDays, c.ScheduledDays, c.LearningSteps,
				c.Reps, c.Lapses, int(c.State), nil,
			)
		}
		query := database.BuildMultiRowInsert("cards", cardInsertColumns, len(batch))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert cards into deck %s: %w", deckID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE decks SET card_count = card_count + ? WHERE id = ?", len(cards), deckID); err != nil {
		return nil, fmt.Errorf("update card count of deck %s: %w", deckID, err)
	}
	return cards, nil
}
