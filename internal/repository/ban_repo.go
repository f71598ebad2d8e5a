package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sf-developer/video-player/internal/model"
)

type BanRepo struct {
	pool *pgxpool.Pool
}

func NewBanRepo(pool *pgxpool.Pool) *BanRepo {
	return &BanRepo{pool: pool}
}

// Insert bans a user identity.
func (r *BanRepo) Insert(ctx context.Context, b *model.BannedUser) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO banned_users (user_id, email, ip, note, banned_for)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`, b.UserID, b.Email, b.IP, b.Note, b.BannedFor).
		Scan(&b.ID, &b.CreatedAt)
}

// Delete lifts a ban.
func (r *BanRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM banned_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every ban, newest first.
func (r *BanRepo) List(ctx context.Context) ([]model.BannedUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, email, ip, note, banned_for, created_at
		FROM banned_users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.BannedUser, error) {
		var b model.BannedUser
		err := row.Scan(&b.ID, &b.UserID, &b.Email, &b.IP, &b.Note, &b.BannedFor, &b.CreatedAt)
		return b, err
	})
}

// IsBanned reports whether any of the given identifiers is banned. Zero or
// empty identifiers are ignored.
func (r *BanRepo) IsBanned(ctx context.Context, userID int64, email, ip string) (bool, error) {
	var banned bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM banned_users
			WHERE ($1 <> 0 AND user_id = $1)
			OR ($2 <> '' AND email = $2)
			OR ($3 <> '' AND ip = $3)
		)`, userID, email, ip).Scan(&banned)
	return banned, err
}

// Count returns the number of bans, for metrics.
func (r *BanRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM banned_users`).Scan(&n)
	return n, err
}
