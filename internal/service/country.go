package service

import (
	"time"

	"github.com/sf-developer/video-player/internal/model"
)

// FlagBaseURL is the CDN serving country flag images by ISO code.
const FlagBaseURL = "https://cdn.ipinfo.io/static/images/countries-flags/"

// FlagURL returns the flag image URL for a country code.
func FlagURL(code string) string {
	return FlagBaseURL + code + ".svg"
}

type countryAgg struct {
	name  string
	code  string
	total map[model.EventType]int
	this  map[model.EventType]model.Bucket
	last  map[model.EventType]model.Bucket
}

// BuildCountryStats groups per-day country rows into one entry per country
// name, so codes sharing a name collapse into a single entry.
// With an empty compare selector each type carries its total count; with a
// selector each type carries the comparison of the two periods.
func BuildCountryStats(rows []model.CountryRow, compare string, now time.Time) ([]model.CountryStat, error) {
	var periods Periods
	if compare != "" {
		p, err := PeriodsFor(now, compare)
		if err != nil {
			return nil, err
		}
		periods = p
	}

	if len(rows) == 0 {
		return []model.CountryStat{emptyCountryStat()}, nil
	}

	var order []string
	byName := make(map[string]*countryAgg)
	for _, r := range rows {
		agg, ok := byName[r.Country]
		if !ok {
			agg = &countryAgg{
				name:  r.Country,
				total: make(map[model.EventType]int),
				this:  make(map[model.EventType]model.Bucket),
				last:  make(map[model.EventType]model.Bucket),
			}
			byName[r.Country] = agg
			order = append(order, r.Country)
		}
		// The flag follows the last code seen under a name.
		agg.code = r.CountryCode

		agg.total[r.Type] += r.Count
		if compare == "" {
			continue
		}
		switch {
		case periods.This.Contains(r.Day):
			agg.this[r.Type] = addToBucket(agg.this[r.Type], r.Count)
		case periods.Last.Contains(r.Day):
			agg.last[r.Type] = addToBucket(agg.last[r.Type], r.Count)
		}
	}

	out := make([]model.CountryStat, 0, len(order))
	for _, name := range order {
		agg := byName[name]
		flag := FlagURL(agg.code)

		types := make([]model.TypeStat, 0, len(model.EventTypes))
		for _, t := range model.EventTypes {
			stat := model.TypeStat{Type: t, Count: agg.total[t]}
			if compare != "" {
				cmp := Compare(agg.this[t], agg.last[t])
				stat.Comparison = &cmp
			}
			types = append(types, stat)
		}

		out = append(out, model.CountryStat{Country: &agg.name, Flag: &flag, Types: types})
	}

	return out, nil
}

func addToBucket(b model.Bucket, n int) model.Bucket {
	return model.Bucket{Count: b.Count + n, Present: true}
}

// emptyCountryStat is the placeholder returned when no event carries geo data.
func emptyCountryStat() model.CountryStat {
	types := make([]model.TypeStat, 0, len(model.EventTypes))
	for _, t := range model.EventTypes {
		types = append(types, model.TypeStat{
			Type:       t,
			Comparison: &model.Comparison{Trend: model.TrendEqual},
		})
	}
	return model.CountryStat{Types: types}
}
