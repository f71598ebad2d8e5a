package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sf-developer/video-player/internal/model"
)

// Setting keys.
const (
	SettingAPIKey    = "api_key"
	SettingCustomCSS = "custom_css"
)

type SettingRepo struct {
	pool *pgxpool.Pool
}

func NewSettingRepo(pool *pgxpool.Pool) *SettingRepo {
	return &SettingRepo{pool: pool}
}

// Get returns a setting value, or "" when unset.
func (r *SettingRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&v)
	if err = notFound(err); err == ErrNotFound {
		return "", nil
	}
	return v, err
}

// Set upserts a setting value.
func (r *SettingRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, key, value)
	return err
}

// All returns every known setting.
func (r *SettingRepo) All(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	rows, err := r.pool.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return s, err
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return s, err
		}
		switch k {
		case SettingAPIKey:
			s.APIKey = v
		case SettingCustomCSS:
			s.CustomCSS = v
		}
	}
	return s, rows.Err()
}
