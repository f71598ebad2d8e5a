package service

import (
	"time"

	"github.com/sf-developer/video-player/internal/model"
)

// BuildYearChart lays the monthly counts of one year out as four series
// (like, dislike, comment, view) of twelve points each. Months without
// events stay at zero.
func BuildYearChart(rows []model.MonthlyCount) []model.ChartSeries {
	series := make([]model.ChartSeries, len(model.EventTypes))
	index := make(map[model.EventType]int, len(model.EventTypes))

	for i, t := range model.EventTypes {
		points := make([]model.ChartPoint, 12)
		for m := range points {
			points[m] = model.ChartPoint{X: time.Month(m + 1).String()[:3]}
		}
		series[i] = model.ChartSeries{ID: t, Data: points}
		index[t] = i
	}

	for _, r := range rows {
		i, ok := index[r.Type]
		if !ok || r.Month < 1 || r.Month > 12 {
			continue
		}
		series[i].Data[r.Month-1].Y += r.Count
	}

	return series
}
