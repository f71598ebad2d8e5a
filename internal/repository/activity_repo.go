package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sf-developer/video-player/internal/model"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

// Insert records a user's reaction. A repeated reaction is a no-op.
func (r *ActivityRepo) Insert(ctx context.Context, playerID, userID int64, t model.EventType) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_activity (player_id, user_id, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, user_id, type) DO NOTHING`, playerID, userID, t)
	return err
}

// Delete removes a user's reaction of the given type.
func (r *ActivityRepo) Delete(ctx context.Context, playerID, userID int64, t model.EventType) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_activity WHERE player_id = $1 AND user_id = $2 AND type = $3`,
		playerID, userID, t)
	return err
}

// Types returns the reaction types a user currently holds on a player.
func (r *ActivityRepo) Types(ctx context.Context, playerID, userID int64) ([]model.EventType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type FROM user_activity WHERE player_id = $1 AND user_id = $2`, playerID, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[model.EventType])
}
