package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Mode selects how a session picks its cards.
type Mode int

const (
	// ModeFSRS studies every card that is due.
	ModeFSRS Mode = iota
	// ModeManual practises a random sample of one difficulty band.
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeFSRS:
		return "fsrs"
	case ModeManual:
		return "manual"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fsrs":
		return ModeFSRS, nil
	case "manual":
		return ModeManual, nil
	default:
		return 0, fmt.Errorf("unknown session mode %q", s)
	}
}

// Phase is where a session is in its flow.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhasePresenting shows the front of the current card.
	PhasePresenting
	// PhaseRevealed shows the back and waits for a rating.
	PhaseRevealed
	PhaseComplete
	// PhaseNothingDue means the selector returned no cards; no summary is written.
	PhaseNothingDue
	// PhaseFailed is entered on any selection or persistence error.
	PhaseFailed
	PhaseAbandoned
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePresenting:
		return "presenting"
	case PhaseRevealed:
		return "revealed"
	case PhaseComplete:
		return "complete"
	case PhaseNothingDue:
		return "nothing due"
	case PhaseFailed:
		return "failed"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// IsTerminal reports whether no card is being shown.
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseComplete, PhaseNothingDue, PhaseFailed, PhaseAbandoned:
		return true
	default:
		return false
	}
}

type SessionOptions struct {
	Mode  Mode
	Band  DifficultyBand
	Limit int
	// Now defaults to time.Now.
	Now func() time.Time
}

// View is a snapshot of a session for presentation.
type View struct {
	DeckID   string
	Mode     Mode
	Band     DifficultyBand
	Limit    int
	Phase    Phase
	Index    int
	Size     int
	Question string
	Answer   string
	Revealed bool
	Counters Counters
	Summary  *SessionSummary
	Err      error
}

type sessionState struct {
	phase     Phase
	cards     []Card
	index     int
	flippedAt time.Time
	counters  Counters
	summary   *SessionSummary
	err       error
}

// Session runs one study session over a deck. Operations are serialized, so at
// most one review is committed at a time.
type Session struct {
	mu       sync.Mutex
	repo     Repository
	selector *Selector
	gateway  *Gateway
	deckID   string
	mode     Mode
	band     DifficultyBand
	limit    int
	now      func() time.Time
	newID    func() string
	state    sessionState
}

func NewSession(repo Repository, oracle *Oracle, deckID string, opts SessionOptions) (*Session, error) {
	if opts.Mode != ModeFSRS && opts.Mode != ModeManual {
		return nil, fmt.Errorf("unknown session mode %d", int(opts.Mode))
	}
	if !opts.Band.IsValid() {
		return nil, fmt.Errorf("unknown difficulty band %d", int(opts.Band))
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, opts.Limit)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Session{
		repo:     repo,
		selector: NewSelector(repo),
		gateway:  NewGateway(repo, oracle),
		deckID:   deckID,
		mode:     opts.Mode,
		band:     opts.Band,
		limit:    opts.Limit,
		now:      now,
		newID:    NewID,
	}, nil
}

// Start loads the cards for the current mode and shows the first one.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUsable(); err != nil {
		return err
	}
	return s.load(ctx)
}

// Flip turns the current card over, showing the back or hiding it again.
func (s *Session) Flip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.phase {
	case PhasePresenting:
		s.state.phase = PhaseRevealed
		s.state.flippedAt = s.now()
	case PhaseRevealed:
		s.state.phase = PhasePresenting
		s.state.flippedAt = time.Time{}
	default:
		return fmt.Errorf("%w: cannot flip while %s", ErrInvalidModeTransition, s.state.phase)
	}
	return nil
}

// Rate commits rating for the current card.
func (s *Session) Rate(ctx context.Context, rating Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rate(ctx, rating)
}

// ResolveSwipe rates the current card from a swipe made sinceFlip after it was flipped.
// A negative sinceFlip is rejected.
func (s *Session) ResolveSwipe(ctx context.Context, direction Direction, sinceFlip time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resolveSwipe(ctx, direction, sinceFlip)
}

// Swipe is ResolveSwipe timed by the session clock.
func (s *Session) Swipe(ctx context.Context, direction Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sinceFlip time.Duration
	if s.state.phase == PhaseRevealed {
		sinceFlip = max(s.now().Sub(s.state.flippedAt), 0)
	}
	return s.resolveSwipe(ctx, direction, sinceFlip)
}

func (s *Session) resolveSwipe(ctx context.Context, direction Direction, sinceFlip time.Duration) error {
	if !direction.IsValid() {
		return fmt.Errorf("unknown swipe direction %d", int(direction))
	}
	if s.state.phase != PhaseRevealed {
		return fmt.Errorf("%w: cannot swipe while %s", ErrInvalidModeTransition, s.state.phase)
	}
	if sinceFlip < 0 {
		return fmt.Errorf("%w: swipe %s before the flip", ErrInvalidModeTransition, -sinceFlip)
	}
	return s.rate(ctx, RatingFromSwipe(direction, sinceFlip))
}

// SwitchMode toggles between fsrs and manual mode and restarts with fresh cards.
// Counters and the position in the previous list are discarded.
func (s *Session) SwitchMode(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUsable(); err != nil {
		return err
	}
	if s.mode == ModeFSRS {
		s.mode = ModeManual
	} else {
		s.mode = ModeFSRS
	}
	return s.load(ctx)
}

// SetBand changes the band used in manual mode. A started manual session is
// restarted with the new band.
func (s *Session) SetBand(ctx context.Context, band DifficultyBand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !band.IsValid() {
		return fmt.Errorf("unknown difficulty band %d", int(band))
	}
	if err := s.checkUsable(); err != nil {
		return err
	}
	s.band = band
	return s.reloadManual(ctx)
}

// SetLimit changes the number of cards taken in manual mode. A started manual
// session is restarted with the new limit.
func (s *Session) SetLimit(ctx context.Context, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if err := s.checkUsable(); err != nil {
		return err
	}
	s.limit = limit
	return s.reloadManual(ctx)
}

// Abandon ends the session without a summary. Reviews already committed stay.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abandon()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		DeckID:   s.deckID,
		Mode:     s.mode,
		Band:     s.band,
		Limit:    s.limit,
		Phase:    s.state.phase,
		Index:    s.state.index,
		Size:     len(s.state.cards),
		Revealed: s.state.phase == PhaseRevealed,
		Counters: s.state.counters,
		Summary:  s.state.summary,
		Err:      s.state.err,
	}
	if s.state.phase == PhasePresenting || s.state.phase == PhaseRevealed {
		card := s.state.cards[s.state.index]
		v.Question = card.Question
		v.Answer = card.Answer
	}
	return v
}

func (s *Session) checkUsable() error {
	switch s.state.phase {
	case PhaseFailed:
		return fmt.Errorf("%w: session failed: %w", ErrInvalidModeTransition, s.state.err)
	case PhaseAbandoned:
		return fmt.Errorf("%w: session was abandoned", ErrInvalidModeTransition)
	}
	return nil
}

func (s *Session) reloadManual(ctx context.Context) error {
	if s.mode != ModeManual || s.state.phase == PhaseIdle {
		return nil
	}
	return s.load(ctx)
}

func (s *Session) load(ctx context.Context) error {
	now := s.now()
	var (
		cards []Card
		err   error
	)
	switch s.mode {
	case ModeFSRS:
		cards, err = s.selector.Due(ctx, s.deckID, now)
	default:
		cards, err = s.selector.ByBand(ctx, s.deckID, s.band, s.limit, now)
	}
	if err != nil {
		return s.fail(err)
	}

	s.state = sessionState{cards: cards}
	if len(cards) == 0 {
		s.state.phase = PhaseNothingDue
		slog.Default().InfoContext(ctx, "nothing to study", "deck_id", s.deckID, "mode", s.mode)
		return nil
	}
	s.state.phase = PhasePresenting
	slog.Default().InfoContext(ctx, "session started",
		"deck_id", s.deckID,
		"mode", s.mode,
		"band", s.band,
		"cards", len(cards),
	)
	return nil
}

func (s *Session) rate(ctx context.Context, rating Rating) error {
	if s.state.phase != PhaseRevealed {
		return fmt.Errorf("%w: cannot rate while %s", ErrInvalidModeTransition, s.state.phase)
	}
	if !rating.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownRating, int(rating))
	}

	card := s.state.cards[s.state.index]
	// A dispatched commit always runs to completion, even if ctx is cancelled meanwhile.
	if _, err := s.gateway.Commit(context.WithoutCancel(ctx), card.ID, s.deckID, rating, s.now()); err != nil {
		return s.fail(err)
	}
	s.state.counters.Add(rating)

	if ctx.Err() != nil {
		s.abandon()
		return nil
	}

	s.state.index++
	s.state.flippedAt = time.Time{}
	if s.state.index < len(s.state.cards) {
		s.state.phase = PhasePresenting
		return nil
	}
	return s.finish(ctx)
}

func (s *Session) finish(ctx context.Context) error {
	summary := newSessionSummary(s.newID(), s.deckID, s.mode, s.state.counters, s.now())
	if err := s.repo.CreateSessionSummary(ctx, summary); err != nil {
		return s.fail(err)
	}
	s.state.phase = PhaseComplete
	s.state.summary = summary
	slog.Default().InfoContext(ctx, "session completed",
		"deck_id", s.deckID,
		"mode", s.mode,
		"total", summary.Counters.Total(),
		"score", summary.Score,
	)
	return nil
}

func (s *Session) fail(err error) error {
	s.state = sessionState{phase: PhaseFailed, err: err}
	slog.Default().Error("session failed", "deck_id", s.deckID, "mode", s.mode, "error", err)
	return err
}

func (s *Session) abandon() {
	switch s.state.phase {
	case PhaseComplete, PhaseNothingDue, PhaseFailed:
		return
	}
	s.state.phase = PhaseAbandoned
	s.state.flippedAt = time.Time{}
	slog.Default().Info("session abandoned",
		"deck_id", s.deckID,
		"reviewed", s.state.counters.Total(),
	)
}
