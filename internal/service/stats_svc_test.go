package service

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sf-developer/video-player/internal/model"
)

func TestBuildRangeStatistics(t *testing.T) {
	rows := []model.DailyCount{
		{Type: model.EventView, Day: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Count: 4},
		{Type: model.EventView, Day: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Count: 1},
		{Type: model.EventLike, Day: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Count: 2},
		{Type: "share", Day: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Count: 9},
	}

	got := BuildRangeStatistics(rows)

	assert.Len(t, got, 4)
	assert.Equal(t, map[string]int{"2024-03-01": 4, "2024-03-02": 1}, got[model.EventView])
	assert.Equal(t, map[string]int{"2024-03-02": 2}, got[model.EventLike])
	assert.Empty(t, got[model.EventDislike])
	assert.Empty(t, got[model.EventComment])
	assert.NotContains(t, got, model.EventType("share"))
}

func TestBuildPlayerStatistics(t *testing.T) {
	rows := []model.PeriodCount{
		{Type: model.EventView, Total: 120, This: 5, Last: 3},
		{Type: model.EventLike, Total: 2, This: 1, Last: 1},
		{Type: model.EventComment, Total: 9, This: 0, Last: 4},
	}

	got := BuildPlayerStatistics(rows)

	assert.Equal(t, model.Comparison{Count: 120, Rate: 25, Trend: model.TrendIncrease}, got[model.EventView])
	assert.Equal(t, model.Comparison{Count: 2, Rate: 0, Trend: model.TrendEqual}, got[model.EventLike])
	assert.Equal(t, model.Comparison{Count: 9, Rate: 100, Trend: model.TrendDecrease}, got[model.EventComment])
	assert.Equal(t, model.Comparison{Trend: model.TrendEqual}, got[model.EventDislike])
}

func TestBuildMonthlyCommentStats(t *testing.T) {
	this := model.CommentTotals{Total: 6, Approved: 4, Rejected: 0, Pending: 2}
	last := model.CommentTotals{Total: 2, Approved: 2, Rejected: 1, Pending: 0}

	got := BuildMonthlyCommentStats(this, last)

	assert.Equal(t, model.Comparison{Count: 6, Rate: 50, Trend: model.TrendIncrease}, got.Total)
	assert.Equal(t, model.Comparison{Count: 4, Rate: 33.33, Trend: model.TrendIncrease}, got.Approved)
	assert.Equal(t, model.Comparison{Count: 0, Rate: 100, Trend: model.TrendDecrease}, got.Rejected)
	assert.Equal(t, model.Comparison{Count: 2, Rate: 100, Trend: model.TrendIncrease}, got.Pending)
}

func TestYearBucketJSON(t *testing.T) {
	empty, err := model.YearBucket{}.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, "0", string(empty))

	full, err := model.YearBucket{Count: 12345, Date: "2024-06-01"}.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `["12,345","2024-06-01"]`, string(full))
}

func TestPlayerStatisticsJSON(t *testing.T) {
	stats := BuildPlayerStatistics([]model.PeriodCount{
		{Type: model.EventView, Total: 12345, This: 5, Last: 3},
	})

	body, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"view":    {"count":"12,345","rate":25,"type":"increase"},
		"like":    {"count":"0","rate":0,"type":"equal"},
		"dislike": {"count":"0","rate":0,"type":"equal"},
		"comment": {"count":"0","rate":0,"type":"equal"}
	}`, string(body))

	// Period comparisons outside the dashboard totals keep integer counts.
	monthly, err := json.Marshal(BuildMonthlyCommentStats(model.CommentTotals{Total: 1200}, model.CommentTotals{}))
	require.NoError(t, err)
	assert.Contains(t, string(monthly), `"total":{"count":1200,`)
}
