package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/decklearn/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/review/mock_repository.go -package=mock_review Repository

// Repository is the storage boundary of the review engine.
type Repository interface {
	DeckExists(ctx context.Context, deckID string) (bool, error)
	FindCard(ctx context.Context, cardID string) (*Card, error)
	FindCardsByDeck(ctx context.Context, deckID string) ([]Card, error)
	// FindDueCards returns the deck's cards with due <= now, earliest due first.
	FindDueCards(ctx context.Context, deckID string, now time.Time) ([]Card, error)
	// SaveReview overwrites the card's scheduling state and appends log atomically.
	// It fails with ErrStaleCard when the stored reps no longer equal previousReps.
	SaveReview(ctx context.Context, card *Card, previousReps int, log *ReviewLog) error
	CreateSessionSummary(ctx context.Context, summary *SessionSummary) error
	FindReviewLogs(ctx context.Context, deckID string) ([]ReviewLog, error)
	FindSessionSummaries(ctx context.Context, deckID string, limit int) ([]SessionSummary, error)
}

const cardColumns = "id, deck_id, question, answer, created_at, due, stability, difficulty, elapsed_days, scheduled_days, learning_steps, reps, lapses, state, last_review"

type cardRecord struct {
	ID            string         `db:"id"`
	DeckID        string         `db:"deck_id"`
	Question      string         `db:"question"`
	Answer        string         `db:"answer"`
	CreatedAt     string         `db:"created_at"`
	Due           string         `db:"due"`
	Stability     float64        `db:"stability"`
	Difficulty    float64        `db:"difficulty"`
	ElapsedDays   int            `db:"elapsed_days"`
	ScheduledDays int            `db:"scheduled_days"`
	LearningSteps int            `db:"learning_steps"`
	Reps          int            `db:"reps"`
	Lapses        int            `db:"lapses"`
	State         int            `db:"state"`
	LastReview    sql.NullString `db:"last_review"`
}

func (r cardRecord) toCard() (Card, error) {
	createdAt, err := database.ParseTimestamp(r.CreatedAt)
	if err != nil {
		return Card{}, fmt.Errorf("%w: card %s created_at: %v", ErrInvalidCardState, r.ID, err)
	}
	due, err := database.ParseTimestamp(r.Due)
	if err != nil {
		return Card{}, fmt.Errorf("%w: card %s due: %v", ErrInvalidCardState, r.ID, err)
	}
	var lastReview *time.Time
	if r.LastReview.Valid {
		t, err := database.ParseTimestamp(r.LastReview.String)
		if err != nil {
			return Card{}, fmt.Errorf("%w: card %s last_review: %v", ErrInvalidCardState, r.ID, err)
		}
		lastReview = &t
	}

	return Card{
		ID:        r.ID,
		DeckID:    r.DeckID,
		Question:  r.Question,
		Answer:    r.Answer,
		CreatedAt: createdAt,
		SchedulingState: SchedulingState{
			Due:           due,
			Stability:     r.Stability,
			Difficulty:    r.Difficulty,
			ElapsedDays:   r.ElapsedDays,
			ScheduledDays: r.ScheduledDays,
			LearningSteps: r.LearningSteps,
			Reps:          r.Reps,
			Lapses:        r.Lapses,
			State:         State(r.State),
			LastReview:    lastReview,
		},
	}, nil
}

func toCards(records []cardRecord) ([]Card, error) {
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		c, err := r.toCard()
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func nullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: database.FormatTimestamp(*t), Valid: true}
}

type reviewLogRecord struct {
	ID              string  `db:"id"`
	CardID          string  `db:"card_id"`
	DeckID          string  `db:"deck_id"`
	Rating          int     `db:"rating"`
	State           int     `db:"state"`
	Due             string  `db:"due"`
	Stability       float64 `db:"stability"`
	Difficulty      float64 `db:"difficulty"`
	ElapsedDays     int     `db:"elapsed_days"`
	LastElapsedDays int     `db:"last_elapsed_days"`
	ScheduledDays   int     `db:"scheduled_days"`
	LearningSteps   int     `db:"learning_steps"`
	ReviewedAt      string  `db:"reviewed_at"`
}

type sessionSummaryRecord struct {
	ID            string  `db:"id"`
	DeckID        string  `db:"deck_id"`
	Mode          string  `db:"mode"`
	Total         int     `db:"total"`
	AgainCount    int     `db:"again_count"`
	HardCount     int     `db:"hard_count"`
	GoodCount     int     `db:"good_count"`
	EasyCount     int     `db:"easy_count"`
	Score         float64 `db:"score"`
	AverageRating float64 `db:"average_rating"`
	CreatedAt     string  `db:"created_at"`
}

// DBRepository implements Repository on MySQL or SQLite.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) DeckExists(ctx context.Context, deckID string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM decks WHERE id = ?", deckID); err != nil {
		return false, fmt.Errorf("check deck %s: %w", deckID, err)
	}
	return count > 0, nil
}

// FindCard returns nil without error when the card does not exist.
func (r *DBRepository) FindCard(ctx context.Context, cardID string) (*Card, error) {
	var record cardRecord
	err := r.db.GetContext(ctx, &record, "SELECT "+cardColumns+" FROM cards WHERE id = ?", cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load card %s: %w", cardID, err)
	}
	card, err := record.toCard()
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *DBRepository) FindCardsByDeck(ctx context.Context, deckID string) ([]Card, error) {
	var records []cardRecord
	if err := r.db.SelectContext(ctx, &records,
		"SELECT "+cardColumns+" FROM cards WHERE deck_id = ? ORDER BY created_at, id", deckID); err != nil {
		return nil, fmt.Errorf("load cards of deck %s: %w", deckID, err)
	}
	return toCards(records)
}

func (r *DBRepository) FindDueCards(ctx context.Context, deckID string, now time.Time) ([]Card, error) {
	var records []cardRecord
	if err := r.db.SelectContext(ctx, &records,
		"SELECT "+cardColumns+" FROM cards WHERE deck_id = ? AND due <= ? ORDER BY due, created_at, id",
		deckID, database.FormatTimestamp(now)); err != nil {
		return nil, fmt.Errorf("load due cards of deck %s: %w", deckID, err)
	}
	return toCards(records)
}

func (r *DBRepository) SaveReview(ctx context.Context, card *Card, previousReps int, log *ReviewLog) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE cards SET due = ?, stability = ?, difficulty = ?, elapsed_days = ?, scheduled_days = ?, learning_steps = ?, reps = ?, lapses = ?, state = ?, last_review = ? WHERE id = ? AND reps = ?`,
			database.FormatTimestamp(card.Due),
			card.Stability,
			card.Difficulty,
			card.ElapsedDays,
			card.ScheduledDays,
			card.LearningSteps,
			card.Reps,
			card.Lapses,
			int(card.State),
			nullTimestamp(card.LastReview),
			card.ID,
			previousReps,
		)
		if err != nil {
			return fmt.Errorf("update card %s: %w", card.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update card %s: %w", card.ID, err)
		}
		if affected != 1 {
			return fmt.Errorf("update card %s: %w", card.ID, ErrStaleCard)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO review_logs (id, card_id, deck_id, rating, state, due, stability, difficulty, elapsed_days, last_elapsed_days, scheduled_days, learning_steps, reviewed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			log.ID,
			log.CardID,
			log.DeckID,
			int(log.Rating),
			int(log.State),
			database.FormatTimestamp(log.Due),
			log.Stability,
			log.Difficulty,
			log.ElapsedDays,
			log.LastElapsedDays,
			log.ScheduledDays,
			log.LearningSteps,
			database.FormatTimestamp(log.Reviewed),
		); err != nil {
			return fmt.Errorf("insert review log for card %s: %w", card.ID, err)
		}
		return nil
	})
}

func (r *DBRepository) CreateSessionSummary(ctx context.Context, summary *SessionSummary) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO session_summaries (id, deck_id, mode, total, again_count, hard_count, good_count, easy_count, score, average_rating, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.ID,
		summary.DeckID,
		summary.Mode.String(),
		summary.Counters.Total(),
		summary.Counters.Again,
		summary.Counters.Hard,
		summary.Counters.Good,
		summary.Counters.Easy,
		summary.Score,
		summary.AverageRating,
		database.FormatTimestamp(summary.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert session summary for deck %s: %w", summary.DeckID, err)
	}
	return nil
}

// FindReviewLogs returns the deck's review logs, oldest first.
func (r *DBRepository) FindReviewLogs(ctx context.Context, deckID string) ([]ReviewLog, error) {
	var records []reviewLogRecord
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM review_logs WHERE deck_id = ? ORDER BY reviewed_at, id", deckID); err != nil {
		return nil, fmt.Errorf("load review logs of deck %s: %w", deckID, err)
	}

	logs := make([]ReviewLog, 0, len(records))
	for _, rec := range records {
		due, err := database.ParseTimestamp(rec.Due)
		if err != nil {
			return nil, fmt.Errorf("review log %s: %w", rec.ID, err)
		}
		reviewed, err := database.ParseTimestamp(rec.ReviewedAt)
		if err != nil {
			return nil, fmt.Errorf("review log %s: %w", rec.ID, err)
		}
		logs = append(logs, ReviewLog{
			ID:     rec.ID,
			CardID: rec.CardID,
			DeckID: rec.DeckID,
			LogSnapshot: LogSnapshot{
				Rating:          Rating(rec.Rating),
				State:           State(rec.State),
				Due:             due,
				Stability:       rec.Stability,
				Difficulty:      rec.Difficulty,
				ElapsedDays:     rec.ElapsedDays,
				LastElapsedDays: rec.LastElapsedDays,
				ScheduledDays:   rec.ScheduledDays,
				LearningSteps:   rec.LearningSteps,
				Reviewed:        reviewed,
			},
		})
	}
	return logs, nil
}

// FindSessionSummaries returns up to limit summaries of the deck, newest first.
func (r *DBRepository) FindSessionSummaries(ctx context.Context, deckID string, limit int) ([]SessionSummary, error) {
	var records []sessionSummaryRecord
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM session_summaries WHERE deck_id = ? ORDER BY created_at DESC, id LIMIT ?", deckID, limit); err != nil {
		return nil, fmt.Errorf("load session summaries of deck %s: %w", deckID, err)
	}

	summaries := make([]SessionSummary, 0, len(records))
	for _, rec := range records {
		createdAt, err := database.ParseTimestamp(rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("session summary %s: %w", rec.ID, err)
		}
		mode, err := ParseMode(rec.Mode)
		if err != nil {
			return nil, fmt.Errorf("session summary %s: %w", rec.ID, err)
		}
		summaries = append(summaries, SessionSummary{
			ID:     rec.ID,
			DeckID: rec.DeckID,
			Mode:   mode,
			Counters: Counters{
				Again: rec.AgainCount,
				Hard:  rec.HardCount,
				Good:  rec.GoodCount,
				Easy:  rec.EasyCount,
			},
			Score:         rec.Score,
			AverageRating: rec.AverageRating,
			CreatedAt:     createdAt,
		})
	}
	return summaries, nil
}
