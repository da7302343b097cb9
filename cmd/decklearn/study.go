package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/decklearn/internal/bootstrap"
	"github.com/at-ishikawa/decklearn/internal/cli"
	"github.com/at-ishikawa/decklearn/internal/config"
	"github.com/at-ishikawa/decklearn/internal/review"
)

type studyFlags struct {
	mode  string
	band  string
	limit int
}

func (f *studyFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.mode, "mode", "", "session mode: fsrs or manual (default from config)")
	fs.StringVar(&f.band, "band", "", `difficulty band for manual mode: "Very Hard", Hard, Medium, Easy or Any`)
	fs.IntVar(&f.limit, "limit", 0, "maximum number of cards in manual mode")
}

// sessionOptions resolves the flags, falling back to the configured session defaults.
func (f studyFlags) sessionOptions(fs *pflag.FlagSet, defaults config.SessionConfig) (review.SessionOptions, error) {
	modeName, bandName, limit := defaults.Mode, defaults.Band, defaults.Limit
	if fs.Changed("mode") {
		modeName = f.mode
	}
	if fs.Changed("band") {
		bandName = f.band
	}
	if fs.Changed("limit") {
		limit = f.limit
	}

	mode, err := review.ParseMode(modeName)
	if err != nil {
		return review.SessionOptions{}, err
	}
	band, err := review.ParseBand(bandName)
	if err != nil {
		return review.SessionOptions{}, err
	}
	if limit <= 0 {
		return review.SessionOptions{}, fmt.Errorf("%w: %d", review.ErrInvalidLimit, limit)
	}
	return review.SessionOptions{Mode: mode, Band: band, Limit: limit}, nil
}

func newStudyCommand() *cobra.Command {
	var flags studyFlags
	command := &cobra.Command{
		Use:   "study <deck-id>",
		Short: "Study a deck interactively",
		Long: `Study a deck interactively.

In fsrs mode every due card is shown; in manual mode a random sample of one
difficulty band. Flip a card with enter or f, then swipe with l (forgot) or
r (remembered), or rate it directly with 1 (again) to 4 (easy).
Type m to switch modes, "b <band>" or "n <limit>" to change the manual
selection, and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				opts, err := flags.sessionOptions(cmd.Flags(), app.Config.Session)
				if err != nil {
					return err
				}
				d, err := deckExists(ctx, app, args[0])
				if err != nil {
					return err
				}

				session, err := review.NewSession(app.Reviews, app.Oracle, d.ID, opts)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Studying %s\n\n", d.Title)
				return cli.NewStudyCLI(session, cmd.InOrStdin(), cmd.OutOrStdout()).Study(ctx)
			})
		},
	}
	flags.register(command.Flags())
	return command
}
