package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sf-developer/video-player/internal/model"
)

type EmailRepo struct {
	pool *pgxpool.Pool
}

func NewEmailRepo(pool *pgxpool.Pool) *EmailRepo {
	return &EmailRepo{pool: pool}
}

func (r *EmailRepo) Insert(ctx context.Context, e *model.EmailEntry) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO user_emails (player_id, name, email, registrar)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, e.PlayerID, e.Name, e.Email, e.Registrar).Scan(&e.ID, &e.CreatedAt)
}

func (r *EmailRepo) ListByPlayer(ctx context.Context, playerID int64) ([]model.EmailEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, player_id, name, email, registrar, created_at
		FROM user_emails WHERE player_id = $1
		ORDER BY created_at DESC, id DESC`, playerID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.EmailEntry, error) {
		var e model.EmailEntry
		err := row.Scan(&e.ID, &e.PlayerID, &e.Name, &e.Email, &e.Registrar, &e.CreatedAt)
		return e, err
	})
}

func (r *EmailRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_emails WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
