package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sf-developer/video-player/internal/model"
)

func present(n int) model.Bucket { return model.Bucket{Count: n, Present: true} }

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		this      model.Bucket
		last      model.Bucket
		wantRate  float64
		wantTrend model.Trend
	}{
		{"increase", present(5), present(3), 25, model.TrendIncrease},
		{"decrease", present(3), present(5), 25, model.TrendDecrease},
		{"equal", present(4), present(4), 0, model.TrendEqual},
		{"rounded to two decimals", present(1), present(2), 33.33, model.TrendDecrease},
		{"only this present", present(2), model.Bucket{}, 100, model.TrendIncrease},
		{"only last present", model.Bucket{}, present(3), 100, model.TrendDecrease},
		{"both absent", model.Bucket{}, model.Bucket{}, 0, model.TrendEqual},
		{"both present and zero", present(0), present(0), 0, model.TrendEqual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.this, tt.last)
			if got.Count != tt.this.Count {
				t.Errorf("Count = %d, want %d", got.Count, tt.this.Count)
			}
			if got.Rate != tt.wantRate {
				t.Errorf("Rate = %v, want %v", got.Rate, tt.wantRate)
			}
			if got.Trend != tt.wantTrend {
				t.Errorf("Trend = %q, want %q", got.Trend, tt.wantTrend)
			}
		})
	}
}

func TestCompareCounts_ZeroIsEqual(t *testing.T) {
	got := CompareCounts(0, 0)
	if got.Rate != 0 || got.Trend != model.TrendEqual {
		t.Errorf("CompareCounts(0, 0) = %+v, want rate 0 and equal", got)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodsFor(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		selector string
		want     Periods
	}{
		{CompareDay, Periods{
			This: Window{Start: date(2024, 3, 15), End: date(2024, 3, 16)},
			Last: Window{Start: date(2024, 3, 14), End: date(2024, 3, 15)},
		}},
		{CompareWeek, Periods{
			This: Window{Start: date(2024, 3, 8)},
			Last: Window{Start: date(2024, 3, 1), End: date(2024, 3, 8)},
		}},
		{CompareMonth, Periods{
			This: Window{Start: date(2024, 2, 15)},
			Last: Window{Start: date(2024, 1, 15), End: date(2024, 2, 15)},
		}},
		{CompareYear, Periods{
			This: Window{Start: date(2023, 3, 15)},
			Last: Window{Start: date(2022, 3, 15), End: date(2023, 3, 15)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := PeriodsFor(now, tt.selector)
			if err != nil {
				t.Fatalf("PeriodsFor(%q) error: %v", tt.selector, err)
			}
			if !got.This.Start.Equal(tt.want.This.Start) || !got.This.End.Equal(tt.want.This.End) {
				t.Errorf("This = %+v, want %+v", got.This, tt.want.This)
			}
			if !got.Last.Start.Equal(tt.want.Last.Start) || !got.Last.End.Equal(tt.want.Last.End) {
				t.Errorf("Last = %+v, want %+v", got.Last, tt.want.Last)
			}
		})
	}
}

func TestPeriodsFor_InvalidSelector(t *testing.T) {
	for _, sel := range []string{"", "hour", "DAY", "weeks"} {
		if _, err := PeriodsFor(time.Now(), sel); !errors.Is(err, ErrInvalidCompare) {
			t.Errorf("PeriodsFor(%q) error = %v, want ErrInvalidCompare", sel, err)
		}
	}
}

func TestCalendarMonthPeriods(t *testing.T) {
	tests := []struct {
		now      time.Time
		thisFrom time.Time
		lastFrom time.Time
	}{
		{time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC), date(2024, 3, 1), date(2024, 2, 1)},
		{time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC), date(2024, 1, 1), date(2023, 12, 1)},
	}

	for _, tt := range tests {
		p := CalendarMonthPeriods(tt.now)
		if !p.This.Start.Equal(tt.thisFrom) {
			t.Errorf("This.Start = %v, want %v", p.This.Start, tt.thisFrom)
		}
		if !p.This.End.Equal(tt.thisFrom.AddDate(0, 1, 0)) {
			t.Errorf("This.End = %v, want %v", p.This.End, tt.thisFrom.AddDate(0, 1, 0))
		}
		if !p.Last.Start.Equal(tt.lastFrom) || !p.Last.End.Equal(tt.thisFrom) {
			t.Errorf("Last = %+v, want [%v, %v)", p.Last, tt.lastFrom, tt.thisFrom)
		}
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: date(2024, 3, 1), End: date(2024, 3, 8)}
	if !w.Contains(date(2024, 3, 1)) {
		t.Error("start should be inside the window")
	}
	if w.Contains(date(2024, 3, 8)) {
		t.Error("end should be outside the window")
	}
	if w.Contains(date(2024, 2, 29)) {
		t.Error("day before start should be outside the window")
	}

	open := Window{Start: date(2024, 3, 1)}
	if !open.Contains(date(2030, 1, 1)) {
		t.Error("unbounded window should contain any later day")
	}
}
