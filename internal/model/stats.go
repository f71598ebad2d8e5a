package model

import (
	"time"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
)

// CountMap holds a count per event type. All four types are always present.
type CountMap map[EventType]int

// NewCountMap returns a zero-filled CountMap.
func NewCountMap() CountMap {
	m := make(CountMap, len(EventTypes))
	for _, t := range EventTypes {
		m[t] = 0
	}
	return m
}

// Trend is the direction of change between two buckets.
type Trend string

const (
	TrendIncrease Trend = "increase"
	TrendDecrease Trend = "decrease"
	TrendEqual    Trend = "equal"
)

// Bucket is a count of events matching a filter. Present distinguishes an
// empty bucket from one that had no matching rows at all.
type Bucket struct {
	Count   int
	Present bool
}

// Comparison is the result of comparing two buckets.
type Comparison struct {
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
	Trend Trend   `json:"type"`
}

// PlayerStatistics maps each event type to its today-vs-yesterday comparison.
// Counts serialize thousands-separated, like the other dashboard totals.
type PlayerStatistics map[EventType]Comparison

func (p PlayerStatistics) MarshalJSON() ([]byte, error) {
	type formatted struct {
		Count string  `json:"count"`
		Rate  float64 `json:"rate"`
		Trend Trend   `json:"type"`
	}
	out := make(map[EventType]formatted, len(p))
	for t, c := range p {
		out[t] = formatted{Count: humanize.Comma(int64(c.Count)), Rate: c.Rate, Trend: c.Trend}
	}
	return json.Marshal(out)
}

// YearBucket is the per-type entry of the year statistics. A type without
// events serializes as 0; otherwise as [formattedCount, "YYYY-MM-DD"].
type YearBucket struct {
	Count int
	Date  string
}

func (b YearBucket) MarshalJSON() ([]byte, error) {
	if b.Count == 0 && b.Date == "" {
		return []byte("0"), nil
	}
	return json.Marshal([2]string{humanize.Comma(int64(b.Count)), b.Date})
}

// YearStatistics maps each event type to its YearBucket.
type YearStatistics map[EventType]YearBucket

// RangeStatistics maps each event type to per-date counts.
type RangeStatistics map[EventType]map[string]int

// ChartPoint is one month of a chart series.
type ChartPoint struct {
	X string `json:"x"`
	Y int    `json:"y"`
}

// ChartSeries is the 12-month series of one event type.
type ChartSeries struct {
	ID   EventType    `json:"id"`
	Data []ChartPoint `json:"data"`
}

// MonthlyCount is a raw (type, month, count) row of the current year.
type MonthlyCount struct {
	Type  EventType
	Month int
	Count int
}

// CountryRow is a raw count grouped by country, type and day.
type CountryRow struct {
	Country     string
	CountryCode string
	Type        EventType
	Day         time.Time
	Count       int
}

// TypeStat is one entry of a country's types list. It serializes as a
// single-key object: {"like": {"count": N}} or {"like": {count, rate, type}}.
type TypeStat struct {
	Type       EventType
	Count      int
	Comparison *Comparison
}

func (s TypeStat) MarshalJSON() ([]byte, error) {
	if s.Comparison != nil {
		return json.Marshal(map[EventType]Comparison{s.Type: *s.Comparison})
	}
	return json.Marshal(map[EventType]map[string]int{s.Type: {"count": s.Count}})
}

// CountryStat is the per-country statistics entry.
type CountryStat struct {
	Country *string    `json:"country"`
	Flag    *string    `json:"flag"`
	Types   []TypeStat `json:"types"`
}

// CommentTotals counts comments by moderation state.
type CommentTotals struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// MonthlyCommentStats compares this calendar month to the previous one.
type MonthlyCommentStats struct {
	Total    Comparison `json:"total"`
	Approved Comparison `json:"approved"`
	Rejected Comparison `json:"rejected"`
	Pending  Comparison `json:"pending"`
}

// UserTotals are the raw user counts behind UserStats.
type UserTotals struct {
	Total  int
	New    int
	Banned int
}

// UserStats is the formatted users statistics response.
type UserStats struct {
	Total  string `json:"total"`
	New    string `json:"new"`
	Banned string `json:"banned"`
}

// DailyCount is a raw (type, day, count) row.
type DailyCount struct {
	Type  EventType
	Day   time.Time
	Count int
}

// PeriodCount holds the all-time, current-period and previous-period count
// of one event type.
type PeriodCount struct {
	Type  EventType
	Total int
	This  int
	Last  int
}
