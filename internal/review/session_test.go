package review_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_review "github.com/at-ishikawa/decklearn/internal/mocks/review"
	"github.com/at-ishikawa/decklearn/internal/review"
)

type sessionFixture struct {
	repo    *mock_review.MockRepository
	clock   *fakeClock
	session *review.Session
}

func newSessionFixture(t *testing.T, opts review.SessionOptions) *sessionFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_review.NewMockRepository(ctrl)
	clock := &fakeClock{now: testNow}
	if opts.Limit == 0 {
		opts.Limit = 10
	}
	opts.Now = clock.Now

	session, err := review.NewSession(repo, newFSRSOracle(t), "deck-1", opts)
	require.NoError(t, err)
	return &sessionFixture{repo: repo, clock: clock, session: session}
}

// expectDue makes the repository serve cards as the due list and as single cards.
func (f *sessionFixture) expectDue(cards ...review.Card) {
	f.repo.EXPECT().DeckExists(gomock.Any(), "deck-1").Return(true, nil)
	f.repo.EXPECT().FindDueCards(gomock.Any(), "deck-1", gomock.Any()).Return(cards, nil)
}

func (f *sessionFixture) expectCommit(card review.Card) {
	c := card
	f.repo.EXPECT().FindCard(gomock.Any(), card.ID).Return(&c, nil)
	f.repo.EXPECT().SaveReview(gomock.Any(), gomock.Any(), card.Reps, gomock.Any()).Return(nil)
}

func TestSession_FSRSScenario(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
	cards := []review.Card{
		newTestCard("c1", testNow),
		newTestCard("c2", testNow),
		newTestCard("c3", testNow),
	}
	f.expectDue(cards...)
	for _, c := range cards {
		f.expectCommit(c)
	}
	var written []*review.SessionSummary
	f.repo.EXPECT().
		CreateSessionSummary(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *review.SessionSummary) error {
			written = append(written, s)
			return nil
		}).
		Times(1)

	ctx := context.Background()
	require.NoError(t, f.session.Start(ctx))
	view := f.session.View()
	assert.Equal(t, review.PhasePresenting, view.Phase)
	assert.Equal(t, 3, view.Size)
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, "question c1", view.Question)
	assert.False(t, view.Revealed)

	swipes := []struct {
		direction review.Direction
		wait      time.Duration
	}{
		{direction: review.SwipeRight, wait: 3 * time.Second},
		{direction: review.SwipeLeft, wait: time.Second},
		{direction: review.SwipeRight, wait: time.Second},
	}
	for i, s := range swipes {
		require.NoError(t, f.session.Flip())
		assert.True(t, f.session.View().Revealed)
		f.clock.Advance(s.wait)
		require.NoError(t, f.session.Swipe(ctx, s.direction))
		if i < len(swipes)-1 {
			view := f.session.View()
			assert.Equal(t, review.PhasePresenting, view.Phase)
			assert.Equal(t, i+1, view.Index)
			assert.False(t, view.Revealed)
		}
	}

	view = f.session.View()
	assert.Equal(t, review.PhaseComplete, view.Phase)
	assert.Equal(t, review.Counters{Again: 1, Good: 1, Easy: 1}, view.Counters)
	require.Len(t, written, 1)
	summary := written[0]
	assert.Same(t, summary, view.Summary)
	assert.Equal(t, "deck-1", summary.DeckID)
	assert.Equal(t, review.ModeFSRS, summary.Mode)
	assert.Equal(t, 3, summary.Counters.Total())
	assert.InDelta(t, 66.67, summary.Score, 0.01)
	assert.InDelta(t, 2.67, summary.AverageRating, 0.01)
}

func TestSession_NothingDue(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
	f.expectDue()

	require.NoError(t, f.session.Start(context.Background()))

	view := f.session.View()
	assert.Equal(t, review.PhaseNothingDue, view.Phase)
	assert.NotEqual(t, review.PhaseComplete, view.Phase)
	assert.Nil(t, view.Summary)
	assert.Equal(t, review.Counters{}, view.Counters)
	assert.ErrorIs(t, f.session.Flip(), review.ErrInvalidModeTransition)
}

func TestSession_RatingRequiresFlip(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeManual, Band: review.BandAny})
	f.repo.EXPECT().DeckExists(gomock.Any(), "deck-1").Return(true, nil)
	f.repo.EXPECT().FindCardsByDeck(gomock.Any(), "deck-1").Return([]review.Card{newTestCard("c1", testNow)}, nil)

	ctx := context.Background()
	require.NoError(t, f.session.Start(ctx))

	assert.ErrorIs(t, f.session.Rate(ctx, review.Good), review.ErrInvalidModeTransition)
	assert.ErrorIs(t, f.session.ResolveSwipe(ctx, review.SwipeRight, time.Second), review.ErrInvalidModeTransition)
	assert.ErrorIs(t, f.session.Swipe(ctx, review.SwipeLeft), review.ErrInvalidModeTransition)

	// Flipping twice hides the back again.
	require.NoError(t, f.session.Flip())
	require.NoError(t, f.session.Flip())
	assert.ErrorIs(t, f.session.Rate(ctx, review.Good), review.ErrInvalidModeTransition)

	require.NoError(t, f.session.Flip())
	assert.ErrorIs(t, f.session.Rate(ctx, review.Rating(0)), review.ErrUnknownRating)

	view := f.session.View()
	assert.Equal(t, review.PhaseRevealed, view.Phase)
	assert.Equal(t, review.Counters{}, view.Counters)
}

func TestSession_SwipeTiming(t *testing.T) {
	tests := []struct {
		name      string
		direction review.Direction
		wait      time.Duration
		want      review.Rating
	}{
		{name: "positive after 1s", direction: review.SwipeRight, wait: time.Second, want: review.Easy},
		{name: "positive after 4s", direction: review.SwipeRight, wait: 4 * time.Second, want: review.Good},
		{name: "positive after 6s", direction: review.SwipeUp, wait: 6 * time.Second, want: review.Hard},
		{name: "negative after 1s", direction: review.SwipeLeft, wait: time.Second, want: review.Again},
		{name: "negative after 6s", direction: review.SwipeLeft, wait: 6 * time.Second, want: review.Again},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
			card := newTestCard("c1", testNow)
			f.expectDue(card)
			c := card
			f.repo.EXPECT().FindCard(gomock.Any(), "c1").Return(&c, nil)
			f.repo.EXPECT().
				SaveReview(gomock.Any(), gomock.Any(), 0, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *review.Card, _ int, log *review.ReviewLog) error {
					assert.Equal(t, tt.want, log.Rating)
					return nil
				})
			f.repo.EXPECT().CreateSessionSummary(gomock.Any(), gomock.Any()).Return(nil)

			ctx := context.Background()
			require.NoError(t, f.session.Start(ctx))
			require.NoError(t, f.session.Flip())
			f.clock.Advance(tt.wait)
			require.NoError(t, f.session.Swipe(ctx, tt.direction))

			var want review.Counters
			want.Add(tt.want)
			assert.Equal(t, want, f.session.View().Counters)
		})
	}
}

func TestSession_ResolveSwipeRejectsNegativeDuration(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
	card := newTestCard("c1", testNow)
	f.expectDue(card)
	f.expectCommit(card)
	f.repo.EXPECT().CreateSessionSummary(gomock.Any(), gomock.Any()).Return(nil)

	ctx := context.Background()
	require.NoError(t, f.session.Start(ctx))
	require.NoError(t, f.session.Flip())

	err := f.session.ResolveSwipe(ctx, review.SwipeRight, -time.Second)
	assert.ErrorIs(t, err, review.ErrInvalidModeTransition)
	assert.Equal(t, review.PhaseRevealed, f.session.View().Phase)

	require.NoError(t, f.session.ResolveSwipe(ctx, review.SwipeRight, 3*time.Second))
	assert.Equal(t, review.Counters{Good: 1}, f.session.View().Counters)
}

func TestSession_SwipeWithClockBeforeFlip(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
	card := newTestCard("c1", testNow)
	f.expectDue(card)
	f.expectCommit(card)
	f.repo.EXPECT().CreateSessionSummary(gomock.Any(), gomock.Any()).Return(nil)

	ctx := context.Background()
	require.NoError(t, f.session.Start(ctx))
	require.NoError(t, f.session.Flip())
	f.clock.Advance(-time.Minute)

	require.NoError(t, f.session.Swipe(ctx, review.SwipeRight))
	assert.Equal(t, review.Counters{Easy: 1}, f.session.View().Counters)
}

func TestSession_SwipeRacingFlip(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
	card := newTestCard("c1", testNow)
	f.expectDue(card)
	c := card
	f.repo.EXPECT().FindCard(gomock.Any(), "c1").Return(&c, nil).MaxTimes(1)
	f.repo.EXPECT().SaveReview(gomock.Any(), gomock.Any(), 0, gomock.Any()).Return(nil).MaxTimes(1)
	f.repo.EXPECT().CreateSessionSummary(gomock.Any(), gomock.Any()).Return(nil).MaxTimes(1)

	ctx := context.Background()
	require.NoError(t, f.session.Start(ctx))
	require.NoError(t, f.session.Flip())
	f.clock.Advance(3 * time.Second)

	var (
		wg                sync.WaitGroup
		swipeErr, flipErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		swipeErr = f.session.Swipe(ctx, review.SwipeRight)
	}()
	go func() {
		defer wg.Done()
		flipErr = f.session.Flip()
	}()
	wg.Wait()

	view := f.session.View()
	if swipeErr == nil {
		assert.ErrorIs(t, flipErr, review.ErrInvalidModeTransition)
		assert.Equal(t, review.PhaseComplete, view.Phase)
		assert.Equal(t, review.Counters{Good: 1}, view.Counters)
	} else {
		assert.ErrorIs(t, swipeErr, review.ErrInvalidModeTransition)
		assert.NoError(t, flipErr)
		assert.Equal(t, review.PhasePresenting, view.Phase)
		assert.Zero(t, view.Counters.Total())
	}
}

func TestSession_CommitFailureIsFatal(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
	cards := []review.Card{newTestCard("c1", testNow), newTestCard("c2", testNow)}
	f.expectDue(cards...)
	f.expectCommit(cards[0])
	c := cards[1]
	f.repo.EXPECT().FindCard(gomock.Any(), "c2").Return(&c, nil)
	f.repo.EXPECT().SaveReview(gomock.Any(), gomock.Any(), 0, gomock.Any()).Return(errors.New("disk full"))

	ctx := context.Background()
	require.NoError(t, f.session.Start(ctx))
	require.NoError(t, f.session.Flip())
	require.NoError(t, f.session.Rate(ctx, review.Good))
	require.NoError(t, f.session.Flip())

	err := f.session.Rate(ctx, review.Easy)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	view := f.session.View()
	assert.Equal(t, review.PhaseFailed, view.Phase)
	assert.Equal(t, err, view.Err)
	assert.Nil(t, view.Summary)
	assert.Equal(t, review.Counters{}, view.Counters)

	assert.ErrorIs(t, f.session.Flip(), review.ErrInvalidModeTransition)
	assert.ErrorIs(t, f.session.SwitchMode(ctx), review.ErrInvalidModeTransition)
	assert.ErrorIs(t, f.session.Start(ctx), review.ErrInvalidModeTransition)
}

func TestSession_SelectorFailureIsFatal(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
	f.repo.EXPECT().DeckExists(gomock.Any(), "deck-1").Return(false, nil)

	err := f.session.Start(context.Background())
	assert.ErrorIs(t, err, review.ErrDeckNotFound)
	assert.Equal(t, review.PhaseFailed, f.session.View().Phase)
}

func TestSession_SummaryFailureIsFatal(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
	card := newTestCard("c1", testNow)
	f.expectDue(card)
	f.expectCommit(card)
	f.repo.EXPECT().CreateSessionSummary(gomock.Any(), gomock.Any()).Return(errors.New("read-only database"))

	ctx := context.Background()
	require.NoError(t, f.session.Start(ctx))
	require.NoError(t, f.session.Flip())
	err := f.session.Rate(ctx, review.Hard)
	require.Error(t, err)

	view := f.session.View()
	assert.Equal(t, review.PhaseFailed, view.Phase)
	assert.Nil(t, view.Summary)
}

func TestSession_CancellationFinishesDispatchedCommit(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
	cards := []review.Card{newTestCard("c1", testNow), newTestCard("c2", testNow)}
	f.expectDue(cards...)

	ctx, cancel := context.WithCancel(context.Background())
	c := cards[0]
	f.repo.EXPECT().FindCard(gomock.Any(), "c1").Return(&c, nil)
	f.repo.EXPECT().
		SaveReview(gomock.Any(), gomock.Any(), 0, gomock.Any()).
		DoAndReturn(func(commitCtx context.Context, _ *review.Card, _ int, _ *review.ReviewLog) error {
			// The user leaves while the commit is in flight.
			cancel()
			assert.NoError(t, commitCtx.Err())
			return nil
		})

	require.NoError(t, f.session.Start(ctx))
	require.NoError(t, f.session.Flip())
	require.NoError(t, f.session.Rate(ctx, review.Good))

	view := f.session.View()
	assert.Equal(t, review.PhaseAbandoned, view.Phase)
	assert.Equal(t, review.Counters{Good: 1}, view.Counters)
	assert.Empty(t, view.Question)
	assert.Nil(t, view.Summary)
	assert.ErrorIs(t, f.session.Flip(), review.ErrInvalidModeTransition)
}

func TestSession_SwitchModeResets(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS, Band: review.BandHard, Limit: 5})
	dueCards := []review.Card{newTestCard("c1", testNow), newTestCard("c2", testNow)}
	f.expectDue(dueCards...)
	f.expectCommit(dueCards[0])

	ctx := context.Background()
	require.NoError(t, f.session.Start(ctx))
	require.NoError(t, f.session.Flip())
	require.NoError(t, f.session.Rate(ctx, review.Again))
	require.NoError(t, f.session.Flip())
	assert.Equal(t, review.Counters{Again: 1}, f.session.View().Counters)

	hardCard := cardWith("hard-1", 5, testNow.Add(24*time.Hour))
	f.repo.EXPECT().DeckExists(gomock.Any(), "deck-1").Return(true, nil)
	f.repo.EXPECT().FindCardsByDeck(gomock.Any(), "deck-1").
		Return([]review.Card{hardCard, cardWith("easy-1", 100, testNow.Add(60*24*time.Hour))}, nil)
	require.NoError(t, f.session.SwitchMode(ctx))

	view := f.session.View()
	assert.Equal(t, review.ModeManual, view.Mode)
	assert.Equal(t, review.PhasePresenting, view.Phase)
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, 1, view.Size)
	assert.False(t, view.Revealed)
	assert.Equal(t, review.Counters{}, view.Counters)
	assert.Equal(t, hardCard.Question, view.Question)

	// Back to fsrs queries the due cards again.
	f.expectDue(dueCards[1])
	require.NoError(t, f.session.SwitchMode(ctx))
	view = f.session.View()
	assert.Equal(t, review.ModeFSRS, view.Mode)
	assert.Equal(t, 1, view.Size)
	assert.Equal(t, "question c2", view.Question)
}

func TestSession_SwitchModeAfterComplete(t *testing.T) {
	f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeManual, Band: review.BandAny, Limit: 1})
	card := newTestCard("c1", testNow)
	f.repo.EXPECT().DeckExists(gomock.Any(), "deck-1").Return(true, nil)
	f.repo.EXPECT().FindCardsByDeck(gomock.Any(), "deck-1").Return([]review.Card{card}, nil)
	f.expectCommit(card)
	f.repo.EXPECT().CreateSessionSummary(gomock.Any(), gomock.Any()).Return(nil)

	ctx := context.Background()
	require.NoError(t, f.session.Start(ctx))
	require.NoError(t, f.session.Flip())
	require.NoError(t, f.session.Rate(ctx, review.Easy))
	assert.Equal(t, review.PhaseComplete, f.session.View().Phase)

	f.expectDue()
	require.NoError(t, f.session.SwitchMode(ctx))
	assert.Equal(t, review.PhaseNothingDue, f.session.View().Phase)
}

func TestSession_SetBandAndLimit(t *testing.T) {
	t.Run("manual session reloads with the new settings", func(t *testing.T) {
		f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeManual, Band: review.BandAny, Limit: 10})
		deck := []review.Card{
			cardWith("hard-1", 5, testNow.Add(24*time.Hour)),
			cardWith("hard-2", 4, testNow.Add(24*time.Hour)),
			cardWith("easy-1", 100, testNow.Add(60*24*time.Hour)),
		}
		f.repo.EXPECT().DeckExists(gomock.Any(), "deck-1").Return(true, nil).Times(3)
		f.repo.EXPECT().FindCardsByDeck(gomock.Any(), "deck-1").Return(deck, nil).Times(3)

		ctx := context.Background()
		require.NoError(t, f.session.Start(ctx))
		assert.Equal(t, 3, f.session.View().Size)

		require.NoError(t, f.session.SetBand(ctx, review.BandHard))
		view := f.session.View()
		assert.Equal(t, review.BandHard, view.Band)
		assert.Equal(t, 2, view.Size)

		require.NoError(t, f.session.SetLimit(ctx, 1))
		view = f.session.View()
		assert.Equal(t, 1, view.Limit)
		assert.Equal(t, 1, view.Size)
	})

	t.Run("fsrs session keeps its cards", func(t *testing.T) {
		f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeFSRS})
		f.expectDue(newTestCard("c1", testNow))

		ctx := context.Background()
		require.NoError(t, f.session.Start(ctx))
		require.NoError(t, f.session.SetBand(ctx, review.BandEasy))
		require.NoError(t, f.session.SetLimit(ctx, 3))

		view := f.session.View()
		assert.Equal(t, review.BandEasy, view.Band)
		assert.Equal(t, 3, view.Limit)
		assert.Equal(t, 1, view.Size)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		f := newSessionFixture(t, review.SessionOptions{Mode: review.ModeManual})

		ctx := context.Background()
		assert.ErrorIs(t, f.session.SetLimit(ctx, 0), review.ErrInvalidLimit)
		assert.Error(t, f.session.SetBand(ctx, review.DifficultyBand(42)))
		assert.Equal(t, review.PhaseIdle, f.session.View().Phase)
	})
}

func TestNewSession_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_review.NewMockRepository(ctrl)
	oracle := newFSRSOracle(t)

	_, err := review.NewSession(repo, oracle, "deck-1", review.SessionOptions{Limit: 0})
	assert.ErrorIs(t, err, review.ErrInvalidLimit)

	_, err = review.NewSession(repo, oracle, "deck-1", review.SessionOptions{Mode: review.Mode(5), Limit: 1})
	assert.Error(t, err)

	_, err = review.NewSession(repo, oracle, "deck-1", review.SessionOptions{Band: review.DifficultyBand(-1), Limit: 1})
	assert.Error(t, err)
}
