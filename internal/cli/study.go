package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/decklearn/internal/review"
)

// StudyCLI drives a review session from the terminal
type StudyCLI struct {
	*InteractiveCLI
	session *review.Session
}

// NewStudyCLI creates a study CLI. Nil readers and writers default to stdin and stdout.
func NewStudyCLI(session *review.Session, stdin io.Reader, stdout io.Writer) *StudyCLI {
	return &StudyCLI{
		InteractiveCLI: newInteractiveCLI(stdin, stdout),
		session:        session,
	}
}

// Study runs the session until it ends. An interrupt abandons it.
func (r *StudyCLI) Study(ctx context.Context) error {
	return r.Run(ctx, r, r.session.Abandon)
}

// Session handles one command of the study loop
func (r *StudyCLI) Session(ctx context.Context) error {
	view := r.session.View()
	switch view.Phase {
	case review.PhaseIdle:
		return r.session.Start(ctx)
	case review.PhaseNothingDue:
		if view.Mode == review.ModeFSRS {
			_, _ = fmt.Fprintln(r.stdoutWriter, "No cards are due. Come back later!")
		} else {
			_, _ = fmt.Fprintf(r.stdoutWriter, "No cards in the %s band.\n", view.Band)
		}
		return errEnd
	case review.PhaseComplete:
		r.printSummary(view.Summary)
		return errEnd
	case review.PhaseAbandoned:
		_, _ = fmt.Fprintf(r.stdoutWriter, "Session abandoned after %d reviews.\n", view.Counters.Total())
		return errEnd
	case review.PhaseFailed:
		return view.Err
	}

	r.printCard(view)

	line, err := r.stdinReader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error reading input: %w", err)
	}
	if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
		r.session.Abandon()
		return nil
	}
	return r.handleCommand(ctx, strings.TrimSpace(line))
}

func (r *StudyCLI) printCard(view review.View) {
	w := r.stdoutWriter
	_, _ = r.faint.Fprintf(w, "[%d/%d] %s", view.Index+1, view.Size, view.Mode)
	if view.Mode == review.ModeManual {
		_, _ = r.faint.Fprintf(w, " (%s, limit %d)", view.Band, view.Limit)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Q: %s\n", r.bold.Sprint(view.Question))

	if !view.Revealed {
		_, _ = fmt.Fprint(w, "[enter/f] flip, [m] mode, [b <band>] band, [n <limit>] limit, [q] quit: ")
		return
	}
	_, _ = fmt.Fprintf(w, "A: %s\n", r.italic.Sprint(view.Answer))
	if view.Mode == review.ModeFSRS {
		_, _ = fmt.Fprint(w, "[l] forgot, [r] remembered, [1-4] rate, [f] hide, [q] quit: ")
	} else {
		_, _ = fmt.Fprint(w, "[1] again, [2] hard, [3] good, [4] easy, [f] hide, [q] quit: ")
	}
}

func (r *StudyCLI) handleCommand(ctx context.Context, line string) error {
	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(command) {
	case "", "f", "flip":
		err = r.session.Flip()
	case "l", "left":
		err = r.session.Swipe(ctx, review.SwipeLeft)
	case "r", "right":
		err = r.session.Swipe(ctx, review.SwipeRight)
	case "1", "2", "3", "4":
		rating, parseErr := review.ParseRating(command)
		if parseErr != nil {
			return parseErr
		}
		err = r.session.Rate(ctx, rating)
	case "m", "mode":
		err = r.session.SwitchMode(ctx)
	case "b", "band":
		band, parseErr := review.ParseBand(arg)
		if parseErr != nil {
			r.warn(parseErr)
			return nil
		}
		err = r.session.SetBand(ctx, band)
	case "n", "limit":
		limit, parseErr := strconv.Atoi(arg)
		if parseErr != nil {
			r.warn(fmt.Errorf("invalid limit %q", arg))
			return nil
		}
		err = r.session.SetLimit(ctx, limit)
	case "q", "quit":
		r.session.Abandon()
		return nil
	default:
		r.warn(fmt.Errorf("unknown command %q", line))
		return nil
	}

	if err == nil {
		return nil
	}
	if r.session.View().Phase == review.PhaseFailed {
		return err
	}
	r.warn(err)
	return nil
}

func (r *StudyCLI) warn(err error) {
	_, _ = color.New(color.FgYellow).Fprintf(r.stdoutWriter, "%v\n", err)
}

func (r *StudyCLI) printSummary(summary *review.SessionSummary) {
	w := r.stdoutWriter
	_, _ = fmt.Fprintln(w)
	_, _ = r.bold.Fprintf(w, "Session complete: %d cards\n", summary.Counters.Total())
	_, _ = fmt.Fprintf(w, "  Again: %d  Hard: %d  Good: %d  Easy: %d\n",
		summary.Counters.Again, summary.Counters.Hard, summary.Counters.Good, summary.Counters.Easy)
	scoreColor := color.New(color.FgGreen)
	if summary.Score < 60 {
		scoreColor = color.New(color.FgRed)
	}
	_, _ = scoreColor.Fprintf(w, "  Score: %.1f%%", summary.Score)
	_, _ = fmt.Fprintf(w, "  Average rating: %.2f\n", summary.AverageRating)
}
