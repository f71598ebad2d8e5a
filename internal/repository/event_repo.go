package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sf-developer/video-player/internal/model"
)

// Dimension is a column events can be filtered on.
type Dimension string

const (
	DimCountry Dimension = "country_code"
	DimState   Dimension = "state"
	DimCity    Dimension = "city"
	DimDate    Dimension = "date"
	DimYear    Dimension = "year"
)

// dimensionPredicates are the only SQL fragments interpolated into queries.
var dimensionPredicates = map[Dimension]string{
	DimCountry: "country_code = $2",
	DimState:   "state = $2",
	DimCity:    "city = $2",
	DimDate:    "(created_at AT TIME ZONE 'UTC')::date = CAST($2::text AS date)",
	DimYear:    "EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC') = CAST($2::text AS int)",
}

// ValidDimension reports whether d can be used with CountByDimension.
func ValidDimension(d Dimension) bool {
	_, ok := dimensionPredicates[d]
	return ok
}

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Insert appends an event and returns its id.
func (r *EventRepo) Insert(ctx context.Context, e *model.Event) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO events (type, player_id, user_id, ip, country, country_code, state, city, zip,
			lat, lon, device, os, browser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`,
		e.Type, e.PlayerID, e.UserID, e.IP, e.Country, e.CountryCode, e.State, e.City, e.Zip,
		e.Lat, e.Lon, e.Device, e.OS, e.Browser).Scan(&id, &e.CreatedAt)
	if err != nil {
		return 0, err
	}
	e.ID = id
	return id, nil
}

// FindByID returns one event of a player.
func (r *EventRepo) FindByID(ctx context.Context, playerID, id int64) (*model.Event, error) {
	var e model.Event
	err := r.pool.QueryRow(ctx, `
		SELECT id, type, player_id, user_id, device, os, browser, created_at
		FROM events WHERE id = $1 AND player_id = $2`, id, playerID).
		Scan(&e.ID, &e.Type, &e.PlayerID, &e.UserID, &e.Device, &e.OS, &e.Browser, &e.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// Delete removes an event of a player.
func (r *EventRepo) Delete(ctx context.Context, playerID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1 AND player_id = $2`, id, playerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByType counts all events of a player per type.
func (r *EventRepo) CountByType(ctx context.Context, playerID int64) (model.CountMap, error) {
	return r.countMap(ctx, `
		SELECT type, COUNT(*) FROM events WHERE player_id = $1 GROUP BY type`, playerID)
}

// CountByTypeForUser counts the events of one user per type.
func (r *EventRepo) CountByTypeForUser(ctx context.Context, playerID, userID int64) (model.CountMap, error) {
	return r.countMap(ctx, `
		SELECT type, COUNT(*) FROM events WHERE player_id = $1 AND user_id = $2 GROUP BY type`,
		playerID, userID)
}

// CountByDimension counts events per type matching one dimension value.
func (r *EventRepo) CountByDimension(ctx context.Context, playerID int64, dim Dimension, value string) (model.CountMap, error) {
	pred, ok := dimensionPredicates[dim]
	if !ok {
		return nil, fmt.Errorf("unsupported dimension %q", dim)
	}
	return r.countMap(ctx,
		"SELECT type, COUNT(*) FROM events WHERE player_id = $1 AND "+pred+" GROUP BY type",
		playerID, value)
}

// YearStats counts events per type in one year along with the most recent
// event date of each type.
func (r *EventRepo) YearStats(ctx context.Context, playerID int64, year int) (model.YearStatistics, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type, COUNT(*), MAX(created_at)
		FROM events
		WHERE player_id = $1 AND EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC') = $2
		GROUP BY type`, playerID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(model.YearStatistics, len(model.EventTypes))
	for _, t := range model.EventTypes {
		stats[t] = model.YearBucket{}
	}
	for rows.Next() {
		var (
			t     model.EventType
			count int
			last  time.Time
		)
		if err := rows.Scan(&t, &count, &last); err != nil {
			return nil, err
		}
		stats[t] = model.YearBucket{Count: count, Date: last.UTC().Format(time.DateOnly)}
	}
	return stats, rows.Err()
}

// CountByDay counts events per type and UTC day between two dates inclusive.
func (r *EventRepo) CountByDay(ctx context.Context, playerID int64, start, end time.Time) ([]model.DailyCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type, (created_at AT TIME ZONE 'UTC')::date AS day, COUNT(*)
		FROM events
		WHERE player_id = $1 AND (created_at AT TIME ZONE 'UTC')::date BETWEEN $2::date AND $3::date
		GROUP BY type, day
		ORDER BY day`, playerID, start, end)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DailyCount, error) {
		var d model.DailyCount
		err := row.Scan(&d.Type, &d.Day, &d.Count)
		return d, err
	})
}

// CountPeriods returns, per type, the all-time count and the counts inside
// the [thisStart, thisEnd) and [lastStart, lastEnd) windows.
func (r *EventRepo) CountPeriods(ctx context.Context, playerID int64, thisStart, thisEnd, lastStart, lastEnd time.Time) ([]model.PeriodCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type,
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $2 AND created_at < $3),
			COUNT(*) FILTER (WHERE created_at >= $4 AND created_at < $5)
		FROM events
		WHERE player_id = $1
		GROUP BY type`, playerID, thisStart, thisEnd, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PeriodCount, error) {
		var p model.PeriodCount
		err := row.Scan(&p.Type, &p.Total, &p.This, &p.Last)
		return p, err
	})
}

// MonthlyCounts counts events per type and month of one year.
func (r *EventRepo) MonthlyCounts(ctx context.Context, playerID int64, year int) ([]model.MonthlyCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type, EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month, COUNT(*)
		FROM events
		WHERE player_id = $1 AND EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC') = $2
		GROUP BY type, month`, playerID, year)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.MonthlyCount, error) {
		var m model.MonthlyCount
		err := row.Scan(&m.Type, &m.Month, &m.Count)
		return m, err
	})
}

// CountryRows groups geo-tagged events by country code, type and day.
func (r *EventRepo) CountryRows(ctx context.Context, playerID int64) ([]model.CountryRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT MIN(COALESCE(country, '')), country_code, type,
			(created_at AT TIME ZONE 'UTC')::date AS day, COUNT(*)
		FROM events
		WHERE player_id = $1 AND country_code IS NOT NULL AND country_code <> ''
		GROUP BY country_code, type, day
		ORDER BY country_code, day`, playerID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.CountryRow, error) {
		var c model.CountryRow
		err := row.Scan(&c.Country, &c.CountryCode, &c.Type, &c.Day, &c.Count)
		return c, err
	})
}

// UserTotals counts identified users seen in events or comments, those first
// seen on or after since, and banned users.
func (r *EventRepo) UserTotals(ctx context.Context, since time.Time) (model.UserTotals, error) {
	var t model.UserTotals
	err := r.pool.QueryRow(ctx, `
		WITH seen AS (
			SELECT user_id, MIN(created_at) AS first_seen FROM (
				SELECT user_id, created_at FROM events WHERE user_id <> 0
				UNION ALL
				SELECT user_id, created_at FROM comments WHERE user_id <> 0
			) u GROUP BY user_id
		)
		SELECT
			(SELECT COUNT(*) FROM seen),
			(SELECT COUNT(*) FROM seen WHERE first_seen >= $1),
			(SELECT COUNT(*) FROM banned_users)`, since).Scan(&t.Total, &t.New, &t.Banned)
	return t, err
}

// Total counts all events, for metrics.
func (r *EventRepo) Total(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

func (r *EventRepo) countMap(ctx context.Context, sql string, args ...any) (model.CountMap, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := model.NewCountMap()
	for rows.Next() {
		var (
			t     model.EventType
			count int
		)
		if err := rows.Scan(&t, &count); err != nil {
			return nil, err
		}
		counts[t] = count
	}
	return counts, rows.Err()
}
