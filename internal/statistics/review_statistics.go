package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/at-ishikawa/decklearn/internal/review"
)

// PeriodStatistics holds review statistics for one month
type PeriodStatistics struct {
	Period        string // "2025-01"
	Reviews       int
	CardsReviewed int // Unique cards reviewed in the period
	NewCards      int // Cards reviewed for the first time ever
	Ratings       review.Counters
	RetentionRate float64
}

// DailyStatistics holds the reviews of one day
type DailyStatistics struct {
	Date    string // "2025-01-31"
	Reviews int
	Lapses  int
}

// AggregateStatistics holds totals across all periods
type AggregateStatistics struct {
	Reviews       int
	CardsReviewed int // Deduplicated across periods
	NewCards      int
	Ratings       review.Counters
	RetentionRate float64
}

// StatisticsResult holds per-period, per-day and aggregate statistics
type StatisticsResult struct {
	Periods   []PeriodStatistics
	Days      []DailyStatistics
	Aggregate AggregateStatistics
}

type periodData struct {
	reviews  int
	cards    map[string]struct{}
	newCards int
	ratings  review.Counters
}

// CalculateStatistics aggregates review logs by month and day.
// It accepts optional year and month filters (0 means no filter).
// A card counts as new in the period of its first review, even when that review
// is outside the filter.
func CalculateStatistics(logs []review.ReviewLog, year, month int) StatisticsResult {
	sorted := make([]review.ReviewLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Reviewed.Before(sorted[j].Reviewed)
	})

	periods := make(map[string]*periodData)
	days := make(map[string]*DailyStatistics)
	seen := make(map[string]struct{})
	globalCards := make(map[string]struct{})

	for _, log := range sorted {
		_, reviewedBefore := seen[log.CardID]
		seen[log.CardID] = struct{}{}

		if log.Reviewed.IsZero() {
			continue
		}
		if !matchesFilter(log.Reviewed.Year(), int(log.Reviewed.Month()), year, month) {
			continue
		}

		period := log.Reviewed.Format("2006-01")
		data := periods[period]
		if data == nil {
			data = &periodData{cards: make(map[string]struct{})}
			periods[period] = data
		}
		data.reviews++
		data.cards[log.CardID] = struct{}{}
		data.ratings.Add(log.Rating)
		if !reviewedBefore {
			data.newCards++
		}
		globalCards[log.CardID] = struct{}{}

		date := log.Reviewed.Format(time.DateOnly)
		d := days[date]
		if d == nil {
			d = &DailyStatistics{Date: date}
			days[date] = d
		}
		d.Reviews++
		if log.Rating == review.Again {
			d.Lapses++
		}
	}

	return buildResult(periods, days, globalCards)
}

// RetentionRate is the percentage of reviews not rated Again, 0 without reviews.
func RetentionRate(c review.Counters) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return 100 * float64(total-c.Again) / float64(total)
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(periods map[string]*periodData, days map[string]*DailyStatistics, globalCards map[string]struct{}) StatisticsResult {
	result := StatisticsResult{
		Periods: make([]PeriodStatistics, 0, len(periods)),
		Days:    make([]DailyStatistics, 0, len(days)),
	}

	for period, data := range periods {
		result.Periods = append(result.Periods, PeriodStatistics{
			Period:        period,
			Reviews:       data.reviews,
			CardsReviewed: len(data.cards),
			NewCards:      data.newCards,
			Ratings:       data.ratings,
			RetentionRate: RetentionRate(data.ratings),
		})
		result.Aggregate.Reviews += data.reviews
		result.Aggregate.NewCards += data.newCards
		result.Aggregate.Ratings.Again += data.ratings.Again
		result.Aggregate.Ratings.Hard += data.ratings.Hard
		result.Aggregate.Ratings.Good += data.ratings.Good
		result.Aggregate.Ratings.Easy += data.ratings.Easy
	}
	result.Aggregate.CardsReviewed = len(globalCards)
	result.Aggregate.RetentionRate = RetentionRate(result.Aggregate.Ratings)

	// Newest first
	sort.Slice(result.Periods, func(i, j int) bool {
		return result.Periods[i].Period > result.Periods[j].Period
	})

	for _, d := range days {
		result.Days = append(result.Days, *d)
	}
	sort.Slice(result.Days, func(i, j int) bool {
		return result.Days[i].Date > result.Days[j].Date
	})
	return result
}

// BandCount is the number of cards currently in one difficulty band.
type BandCount struct {
	Band  review.DifficultyBand
	Count int
}

// BandDistribution classifies every card at now, hardest band first.
func BandDistribution(cards []review.Card, now time.Time) []BandCount {
	counts := make(map[review.DifficultyBand]int, len(review.Bands))
	for _, c := range cards {
		counts[review.Classify(c, now)]++
	}

	result := make([]BandCount, 0, len(review.Bands))
	for _, band := range review.Bands {
		result = append(result, BandCount{Band: band, Count: counts[band]})
	}
	return result
}

// ParseMonth parses "YYYY-MM" into a year and month filter. An empty string means no filter.
func ParseMonth(s string) (year, month int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM: %w", s, err)
	}
	return t.Year(), int(t.Month()), nil
}
