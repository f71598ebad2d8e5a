package service

import (
	"errors"
	"math"
	"time"

	"github.com/sf-developer/video-player/internal/model"
)

// ErrInvalidCompare is returned for a compare selector outside day|week|month|year.
var ErrInvalidCompare = errors.New("invalid compare parameter")

// Compare selectors.
const (
	CompareDay   = "day"
	CompareWeek  = "week"
	CompareMonth = "month"
	CompareYear  = "year"
)

// Compare computes the symmetric rate of change and trend between two
// buckets. The returned count is this period's count.
func Compare(this, last model.Bucket) model.Comparison {
	return model.Comparison{
		Count: this.Count,
		Rate:  changeRate(this.Count, last.Count),
		Trend: trend(this, last),
	}
}

// CompareCounts compares two buckets that are both known to exist.
func CompareCounts(this, last int) model.Comparison {
	return Compare(model.Bucket{Count: this, Present: true}, model.Bucket{Count: last, Present: true})
}

// changeRate returns round(|this-last| / (this+last) * 100, 2), or 0 when
// both are zero.
func changeRate(this, last int) float64 {
	sum := this + last
	if sum == 0 {
		return 0
	}
	rate := math.Abs(float64(this-last)/float64(sum)) * 100
	return math.Round(rate*100) / 100
}

func trend(this, last model.Bucket) model.Trend {
	switch {
	case this.Present && !last.Present:
		return model.TrendIncrease
	case !this.Present && last.Present:
		return model.TrendDecrease
	}
	diff := this.Count - last.Count
	switch {
	case diff < 0:
		return model.TrendDecrease
	case diff == 0:
		return model.TrendEqual
	default:
		return model.TrendIncrease
	}
}

// Window is a half-open [Start, End) date range. A zero End means unbounded.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	if d.Before(w.Start) {
		return false
	}
	return w.End.IsZero() || d.Before(w.End)
}

// Periods holds the current and previous comparison windows.
type Periods struct {
	This Window
	Last Window
}

// PeriodsFor returns the windows of the given selector relative to now (UTC,
// truncated to the day).
func PeriodsFor(now time.Time, selector string) (Periods, error) {
	today := startOfDay(now)

	switch selector {
	case CompareDay:
		yesterday := today.AddDate(0, 0, -1)
		tomorrow := today.AddDate(0, 0, 1)
		return Periods{
			This: Window{Start: today, End: tomorrow},
			Last: Window{Start: yesterday, End: today},
		}, nil
	case CompareWeek:
		return rollingPeriods(today.AddDate(0, 0, -7), today.AddDate(0, 0, -14)), nil
	case CompareMonth:
		return rollingPeriods(today.AddDate(0, -1, 0), today.AddDate(0, -2, 0)), nil
	case CompareYear:
		return rollingPeriods(today.AddDate(-1, 0, 0), today.AddDate(-2, 0, 0)), nil
	}
	return Periods{}, ErrInvalidCompare
}

// rollingPeriods builds this = [thisStart, ∞) and last = [lastStart, thisStart).
func rollingPeriods(thisStart, lastStart time.Time) Periods {
	return Periods{
		This: Window{Start: thisStart},
		Last: Window{Start: lastStart, End: thisStart},
	}
}

// CalendarMonthPeriods returns the current calendar month and the full
// previous calendar month.
func CalendarMonthPeriods(now time.Time) Periods {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Periods{
		This: Window{Start: first, End: first.AddDate(0, 1, 0)},
		Last: Window{Start: first.AddDate(0, -1, 0), End: first},
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
