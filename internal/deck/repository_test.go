package deck_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/decklearn/internal/config"
	"github.com/at-ishikawa/decklearn/internal/deck"
	"github.com/at-ishikawa/decklearn/internal/review"
	"github.com/at-ishikawa/decklearn/internal/testutil"
)

var testNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func countRows(t *testing.T, db *sqlx.DB, table, deckID string) int {
	t.Helper()
	var n int
	column := "deck_id"
	if table == "decks" {
		column = "id"
	}
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table+" WHERE "+column+" = ?", deckID))
	return n
}

func TestDBRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := deck.NewDBRepository(db)

	older := &deck.Deck{Title: "Verbs", CreatedAt: testNow.Add(-time.Hour)}
	_, err := repo.Create(ctx, older, nil)
	require.NoError(t, err)

	capitals := &deck.Deck{Title: "Capitals", Description: "European capitals", CreatedAt: testNow}
	created, err := repo.Create(ctx, capitals, []deck.CardInput{
		{Question: "France", Answer: "Paris"},
		{Question: "Italy", Answer: "Rome"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEmpty(t, capitals.ID)
	assert.Equal(t, deck.DefaultCreator, capitals.Creator)
	assert.Equal(t, 2, capitals.CardCount)
	for _, c := range created {
		assert.Equal(t, capitals.ID, c.DeckID)
		assert.Equal(t, review.StateNew, c.State)
		assert.True(t, c.Due.Equal(testNow))
	}

	decks, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "Capitals", decks[0].Title)
	assert.Equal(t, "Verbs", decks[1].Title)

	inputs := make([]deck.CardInput, 150)
	for i := range inputs {
		inputs[i] = deck.CardInput{Question: fmt.Sprintf("q%d", i), Answer: fmt.Sprintf("a%d", i)}
	}
	added, err := repo.AddCards(ctx, capitals.ID, inputs, testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, added, 150)

	found, err := repo.FindByID(ctx, capitals.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 152, found.CardCount)
	assert.Equal(t, "European capitals", found.Description)
	assert.True(t, found.CreatedAt.Equal(testNow))

	reviewRepo := review.NewDBRepository(db)
	due, err := reviewRepo.FindDueCards(ctx, capitals.ID, testNow)
	require.NoError(t, err)
	assert.Len(t, due, 2)

	scheduler, err := review.NewFSRSScheduler(config.SchedulerConfig{})
	require.NoError(t, err)
	gateway := review.NewGateway(reviewRepo, review.NewOracle(scheduler))
	_, err = gateway.Commit(ctx, created[0].ID, capitals.ID, review.Good, testNow)
	require.NoError(t, err)
	require.NoError(t, reviewRepo.CreateSessionSummary(ctx, &review.SessionSummary{
		ID: "summary-1", DeckID: capitals.ID, Counters: review.Counters{Good: 1}, CreatedAt: testNow,
	}))

	require.NoError(t, repo.Delete(ctx, capitals.ID))
	for _, table := range []string{"decks", "cards", "review_logs", "session_summaries"} {
		assert.Zero(t, countRows(t, db, table, capitals.ID), table)
	}
	assert.Equal(t, 1, countRows(t, db, "decks", older.ID))

	missing, err := repo.FindByID(ctx, capitals.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.ErrorIs(t, repo.Delete(ctx, capitals.ID), review.ErrDeckNotFound)
	_, err = repo.AddCards(ctx, capitals.ID, inputs[:1], testNow)
	assert.ErrorIs(t, err, review.ErrDeckNotFound)
}

func TestDBRepository_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
		wantMsg   string
	}{
		{
			name: "deletes dependents before the deck",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM review_logs WHERE deck_id = \\?").WithArgs("deck-1").WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec("DELETE FROM session_summaries WHERE deck_id = \\?").WithArgs("deck-1").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("DELETE FROM cards WHERE deck_id = \\?").WithArgs("deck-1").WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec("DELETE FROM decks WHERE id = \\?").WithArgs("deck-1").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "failure rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM review_logs WHERE deck_id = \\?").WithArgs("deck-1").WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec("DELETE FROM session_summaries WHERE deck_id = \\?").WithArgs("deck-1").
					WillReturnError(fmt.Errorf("lock wait timeout"))
				mock.ExpectRollback()
			},
			wantMsg: "delete session_summaries of deck deck-1: lock wait timeout",
		},
		{
			name: "unknown deck",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM review_logs").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("DELETE FROM session_summaries").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("DELETE FROM cards").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("DELETE FROM decks").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantErr: review.ErrDeckNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := deck.NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			err = repo.Delete(context.Background(), "deck-1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantMsg, err.Error())
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_AddCards(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM decks WHERE id = \\?").
		WithArgs("deck-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO cards \\(id, deck_id, question, answer, .+\\) VALUES \\(.+\\), \\(.+\\)").
		WillReturnError(fmt.Errorf("duplicate entry"))
	mock.ExpectRollback()

	repo := deck.NewDBRepository(sqlx.NewDb(db, "mysql"))
	_, err = repo.AddCards(context.Background(), "deck-1", []deck.CardInput{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}, testNow)
	require.Error(t, err)
	assert.Equal(t, "insert cards into deck deck-1: duplicate entry", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}
