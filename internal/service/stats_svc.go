package service

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
)

// StatsService aggregates events and comments into the statistics views.
// It does not check that a player exists; callers resolve the player first.
type StatsService struct {
	events   *repository.EventRepo
	comments *repository.CommentRepo
	now      func() time.Time
}

func NewStatsService(events *repository.EventRepo, comments *repository.CommentRepo) *StatsService {
	return &StatsService{events: events, comments: comments, now: time.Now}
}

func (s *StatsService) CountByType(ctx context.Context, playerID int64) (model.CountMap, error) {
	return s.events.CountByType(ctx, playerID)
}

func (s *StatsService) CountByTypeForUser(ctx context.Context, playerID, userID int64) (model.CountMap, error) {
	return s.events.CountByTypeForUser(ctx, playerID, userID)
}

func (s *StatsService) CountByDimension(ctx context.Context, playerID int64, dim repository.Dimension, value string) (model.CountMap, error) {
	return s.events.CountByDimension(ctx, playerID, dim, value)
}

// CountByYear returns the per-type count and latest event date of one year.
func (s *StatsService) CountByYear(ctx context.Context, playerID int64, year int) (model.YearStatistics, error) {
	return s.events.YearStats(ctx, playerID, year)
}

// CountByDateRange returns per-type daily counts between start and end
// inclusive. Only days with events appear.
func (s *StatsService) CountByDateRange(ctx context.Context, playerID int64, start, end time.Time) (model.RangeStatistics, error) {
	rows, err := s.events.CountByDay(ctx, playerID, start, end)
	if err != nil {
		return nil, err
	}
	return BuildRangeStatistics(rows), nil
}

// PlayerStatistics compares today with yesterday for every type. The count
// of each entry is the all-time total.
func (s *StatsService) PlayerStatistics(ctx context.Context, playerID int64) (model.PlayerStatistics, error) {
	p, _ := PeriodsFor(s.now(), CompareDay)
	rows, err := s.events.CountPeriods(ctx, playerID, p.This.Start, p.This.End, p.Last.Start, p.Last.End)
	if err != nil {
		return nil, err
	}
	return BuildPlayerStatistics(rows), nil
}

// Chart returns the 12-month series of the current year.
func (s *StatsService) Chart(ctx context.Context, playerID int64) ([]model.ChartSeries, error) {
	rows, err := s.events.MonthlyCounts(ctx, playerID, s.now().UTC().Year())
	if err != nil {
		return nil, err
	}
	return BuildYearChart(rows), nil
}

// Countries returns per-country statistics. compare is empty or one of the
// compare selectors; it is checked before any query runs.
func (s *StatsService) Countries(ctx context.Context, playerID int64, compare string) ([]model.CountryStat, error) {
	now := s.now()
	if compare != "" {
		if _, err := PeriodsFor(now, compare); err != nil {
			return nil, err
		}
	}
	rows, err := s.events.CountryRows(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return BuildCountryStats(rows, compare, now)
}

// CommentTotals counts comments by state. A playerID of 0 covers all players.
func (s *StatsService) CommentTotals(ctx context.Context, playerID int64) (model.CommentTotals, error) {
	return s.comments.Totals(ctx, playerID)
}

// MonthlyComments compares this calendar month's comments with the previous
// month's, per moderation state.
func (s *StatsService) MonthlyComments(ctx context.Context, playerID int64) (model.MonthlyCommentStats, error) {
	p := CalendarMonthPeriods(s.now())
	this, err := s.comments.TotalsBetween(ctx, playerID, p.This.Start, p.This.End)
	if err != nil {
		return model.MonthlyCommentStats{}, err
	}
	last, err := s.comments.TotalsBetween(ctx, playerID, p.Last.Start, p.Last.End)
	if err != nil {
		return model.MonthlyCommentStats{}, err
	}
	return BuildMonthlyCommentStats(this, last), nil
}

// Users returns the formatted user counts.
func (s *StatsService) Users(ctx context.Context) (model.UserStats, error) {
	t, err := s.events.UserTotals(ctx, startOfDay(s.now()))
	if err != nil {
		return model.UserStats{}, err
	}
	return model.UserStats{
		Total:  humanize.Comma(int64(t.Total)),
		New:    humanize.Comma(int64(t.New)),
		Banned: humanize.Comma(int64(t.Banned)),
	}, nil
}

// BuildRangeStatistics groups daily rows per type. Every type key is present.
func BuildRangeStatistics(rows []model.DailyCount) model.RangeStatistics {
	out := make(model.RangeStatistics, len(model.EventTypes))
	for _, t := range model.EventTypes {
		out[t] = map[string]int{}
	}
	for _, r := range rows {
		days, ok := out[r.Type]
		if !ok {
			continue
		}
		days[r.Day.UTC().Format(time.DateOnly)] += r.Count
	}
	return out
}

// BuildPlayerStatistics turns period rows into the per-type comparison. A
// period with no events counts as absent.
func BuildPlayerStatistics(rows []model.PeriodCount) model.PlayerStatistics {
	out := make(model.PlayerStatistics, len(model.EventTypes))
	for _, t := range model.EventTypes {
		out[t] = model.Comparison{Trend: model.TrendEqual}
	}
	for _, r := range rows {
		if _, ok := out[r.Type]; !ok {
			continue
		}
		cmp := Compare(presence(r.This), presence(r.Last))
		cmp.Count = r.Total
		out[r.Type] = cmp
	}
	return out
}

// BuildMonthlyCommentStats compares two months of comment totals.
func BuildMonthlyCommentStats(this, last model.CommentTotals) model.MonthlyCommentStats {
	return model.MonthlyCommentStats{
		Total:    Compare(presence(this.Total), presence(last.Total)),
		Approved: Compare(presence(this.Approved), presence(last.Approved)),
		Rejected: Compare(presence(this.Rejected), presence(last.Rejected)),
		Pending:  Compare(presence(this.Pending), presence(last.Pending)),
	}
}

func presence(n int) model.Bucket {
	return model.Bucket{Count: n, Present: n > 0}
}
