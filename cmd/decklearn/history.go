package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/decklearn/internal/bootstrap"
	"github.com/at-ishikawa/decklearn/internal/statistics"
)

func newHistoryCommand() *cobra.Command {
	var limit int
	command := &cobra.Command{
		Use:   "history <deck-id>",
		Short: "Show the most recent completed sessions of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				d, err := deckExists(ctx, app, args[0])
				if err != nil {
					return err
				}
				summaries, err := app.Reviews.FindSessionSummaries(ctx, d.ID, limit)
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No completed sessions for %s yet.\n", d.Title)
					return nil
				}

				t := newTable(cmd)
				t.SetTitle(truncate(d.Title, 60))
				t.AppendHeader(table.Row{"Date", "Mode", "Cards", "Again", "Hard", "Good", "Easy", "Score", "Avg"})
				for _, s := range summaries {
					t.AppendRow(table.Row{
						s.CreatedAt.Local().Format(time.DateTime),
						s.Mode,
						s.Counters.Total(),
						s.Counters.Again,
						s.Counters.Hard,
						s.Counters.Good,
						s.Counters.Easy,
						fmt.Sprintf("%.1f%%", s.Score),
						fmt.Sprintf("%.2f", s.AverageRating),
					})
				}
				t.Render()
				return nil
			})
		},
	}
	command.Flags().IntVar(&limit, "limit", 10, "number of sessions to show")
	return command
}

func newStatsCommand() *cobra.Command {
	var month string
	command := &cobra.Command{
		Use:   "stats <deck-id>",
		Short: "Show review statistics of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, monthNumber, err := statistics.ParseMonth(month)
			if err != nil {
				return err
			}
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				d, err := deckExists(ctx, app, args[0])
				if err != nil {
					return err
				}
				logs, err := app.Reviews.FindReviewLogs(ctx, d.ID)
				if err != nil {
					return err
				}
				cards, err := app.Reviews.FindCardsByDeck(ctx, d.ID)
				if err != nil {
					return err
				}

				result := statistics.CalculateStatistics(logs, year, monthNumber)
				renderPeriods(cmd, result)
				if monthNumber != 0 {
					renderDays(cmd, result.Days)
				}
				renderBands(cmd, statistics.BandDistribution(cards, time.Now()))
				return nil
			})
		},
	}
	command.Flags().StringVar(&month, "month", "", "only count reviews of this month (YYYY-MM)")
	return command
}

func renderPeriods(cmd *cobra.Command, result statistics.StatisticsResult) {
	t := newTable(cmd)
	t.SetTitle("Reviews")
	t.AppendHeader(table.Row{"Period", "Reviews", "Cards", "New", "Again", "Hard", "Good", "Easy", "Retention"})
	for _, p := range result.Periods {
		t.AppendRow(table.Row{
			p.Period, p.Reviews, p.CardsReviewed, p.NewCards,
			p.Ratings.Again, p.Ratings.Hard, p.Ratings.Good, p.Ratings.Easy,
			fmt.Sprintf("%.1f%%", p.RetentionRate),
		})
	}
	a := result.Aggregate
	t.AppendFooter(table.Row{
		"Total", a.Reviews, a.CardsReviewed, a.NewCards,
		a.Ratings.Again, a.Ratings.Hard, a.Ratings.Good, a.Ratings.Easy,
		fmt.Sprintf("%.1f%%", a.RetentionRate),
	})
	t.Render()
}

func renderDays(cmd *cobra.Command, days []statistics.DailyStatistics) {
	t := newTable(cmd)
	t.SetTitle("Days")
	t.AppendHeader(table.Row{"Date", "Reviews", "Lapses"})
	for _, d := range days {
		t.AppendRow(table.Row{d.Date, d.Reviews, d.Lapses})
	}
	t.Render()
}

func renderBands(cmd *cobra.Command, bands []statistics.BandCount) {
	t := newTable(cmd)
	t.SetTitle("Difficulty")
	t.AppendHeader(table.Row{"Band", "Cards"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, b := range bands {
		t.AppendRow(table.Row{b.Band, b.Count})
	}
	t.Render()
}
