package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/decklearn/internal/bootstrap"
	"github.com/at-ishikawa/decklearn/internal/deck"
	"github.com/at-ishikawa/decklearn/internal/review"
)

func newDeckCommand() *cobra.Command {
	deckCommand := &cobra.Command{
		Use:   "deck",
		Short: "Manage decks and their cards",
	}

	deckCommand.AddCommand(
		newDeckCreateCommand(),
		newDeckListCommand(),
		newDeckDeleteCommand(),
		newDeckImportCommand(),
		newDeckAddCommand(),
	)
	return deckCommand
}

func newDeckCreateCommand() *cobra.Command {
	var title, description string
	command := &cobra.Command{
		Use:   "create",
		Short: "Create an empty deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				d := &deck.Deck{
					Title:       title,
					Description: description,
					Creator:     deck.DefaultCreator,
					CreatedAt:   time.Now(),
				}
				if _, err := app.Decks.Create(ctx, d, nil); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created deck %s (%s)\n", d.Title, d.ID)
				return nil
			})
		},
	}
	command.Flags().StringVar(&title, "title", "", "deck title")
	command.Flags().StringVar(&description, "description", "", "deck description")
	_ = command.MarkFlagRequired("title")
	return command
}

func newDeckListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				decks, err := app.Decks.FindAll(ctx)
				if err != nil {
					return err
				}
				if len(decks) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No decks yet. Create one with `decklearn deck create` or `decklearn deck import`.")
					return nil
				}

				t := newTable(cmd)
				t.AppendHeader(table.Row{"ID", "Title", "Description", "Cards", "Created"})
				for _, d := range decks {
					t.AppendRow(table.Row{
						d.ID,
						truncate(d.Title, 30),
						truncate(d.Description, 40),
						d.CardCount,
						d.CreatedAt.Local().Format(time.DateTime),
					})
				}
				t.Render()
				return nil
			})
		},
	}
}

func newDeckDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck with its cards and review history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.Decks.Delete(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %s\n", args[0])
				return nil
			})
		},
	}
}

func newDeckImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create a deck from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := deck.LoadDefinition(args[0])
			if err != nil {
				return err
			}
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				d, err := deck.Import(ctx, app.Decks, def, time.Now())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards into deck %s (%s)\n", d.CardCount, d.Title, d.ID)
				return nil
			})
		},
	}
}

func newDeckAddCommand() *cobra.Command {
	var question, answer string
	command := &cobra.Command{
		Use:   "add <deck-id>",
		Short: "Add a card to a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := deck.CardInput{Question: question, Answer: answer}
			if err := input.Validate(); err != nil {
				return err
			}
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				cards, err := app.Decks.AddCards(ctx, args[0], []deck.CardInput{input}, time.Now())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added card %s\n", cards[0].ID)
				return nil
			})
		},
	}
	command.Flags().StringVar(&question, "question", "", "front of the card")
	command.Flags().StringVar(&answer, "answer", "", "back of the card")
	_ = command.MarkFlagRequired("question")
	_ = command.MarkFlagRequired("answer")
	return command
}

// deckExists fails with review.ErrDeckNotFound for an unknown deck.
func deckExists(ctx context.Context, app *bootstrap.App, deckID string) (*deck.Deck, error) {
	d, err := app.Decks.FindByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %s", review.ErrDeckNotFound, deckID)
	}
	return d, nil
}
