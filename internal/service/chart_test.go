package service

import (
	"testing"

	"github.com/sf-developer/video-player/internal/model"
)

func TestBuildYearChart_Shape(t *testing.T) {
	series := BuildYearChart(nil)

	if len(series) != 4 {
		t.Fatalf("len(series) = %d, want 4", len(series))
	}
	wantIDs := []model.EventType{model.EventLike, model.EventDislike, model.EventComment, model.EventView}
	wantMonths := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

	for i, s := range series {
		if s.ID != wantIDs[i] {
			t.Errorf("series[%d].ID = %q, want %q", i, s.ID, wantIDs[i])
		}
		if len(s.Data) != 12 {
			t.Fatalf("series[%d] has %d points, want 12", i, len(s.Data))
		}
		for m, p := range s.Data {
			if p.X != wantMonths[m] {
				t.Errorf("series[%d].Data[%d].X = %q, want %q", i, m, p.X, wantMonths[m])
			}
			if p.Y != 0 {
				t.Errorf("series[%d].Data[%d].Y = %d, want 0", i, m, p.Y)
			}
		}
	}
}

func TestBuildYearChart_PlacesCounts(t *testing.T) {
	rows := []model.MonthlyCount{
		{Type: model.EventLike, Month: 1, Count: 5},
		{Type: model.EventView, Month: 12, Count: 7},
		{Type: model.EventComment, Month: 6, Count: 2},
		{Type: model.EventView, Month: 13, Count: 99},
		{Type: "share", Month: 2, Count: 4},
	}

	series := BuildYearChart(rows)

	if got := series[0].Data[0].Y; got != 5 {
		t.Errorf("like Jan = %d, want 5", got)
	}
	if got := series[3].Data[11].Y; got != 7 {
		t.Errorf("view Dec = %d, want 7", got)
	}
	if got := series[2].Data[5].Y; got != 2 {
		t.Errorf("comment Jun = %d, want 2", got)
	}
	if got := series[1].Data[1].Y; got != 0 {
		t.Errorf("dislike Feb = %d, want 0", got)
	}
}
