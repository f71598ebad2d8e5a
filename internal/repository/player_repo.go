package repository

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sf-developer/video-player/internal/model"
)

// PlayerStore persists player configurations.
type PlayerStore interface {
	Get(ctx context.Context, id int64) (*model.Player, error)
	List(ctx context.Context) ([]model.Player, error)
	Create(ctx context.Context, p *model.Player) error
	Update(ctx context.Context, p *model.Player) error
	Delete(ctx context.Context, id int64) error
}

type PlayerRepo struct {
	pool *pgxpool.Pool
}

func NewPlayerRepo(pool *pgxpool.Pool) *PlayerRepo {
	return &PlayerRepo{pool: pool}
}

var _ PlayerStore = (*PlayerRepo)(nil)

const playerColumns = `id, tag_id, options, videos, created_at, updated_at`

// Get returns one player or ErrNotFound.
func (r *PlayerRepo) Get(ctx context.Context, id int64) (*model.Player, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// List returns every player, oldest first.
func (r *PlayerRepo) List(ctx context.Context) ([]model.Player, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+playerColumns+` FROM players ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Player, error) {
		p, err := scanPlayer(row)
		if err != nil {
			return model.Player{}, err
		}
		return *p, nil
	})
}

// Create inserts a player and fills in its id, tag id and timestamps.
func (r *PlayerRepo) Create(ctx context.Context, p *model.Player) error {
	options, videos, err := encodePlayer(p)
	if err != nil {
		return err
	}
	if p.TagID == uuid.Nil {
		p.TagID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO players (tag_id, options, videos)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`, p.TagID, options, videos).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update replaces a player's options and videos.
func (r *PlayerRepo) Update(ctx context.Context, p *model.Player) error {
	options, videos, err := encodePlayer(p)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx, `
		UPDATE players SET options = $2, videos = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`, p.ID, options, videos).Scan(&p.UpdatedAt)
	return notFound(err)
}

// Delete removes a player configuration.
func (r *PlayerRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func encodePlayer(p *model.Player) ([]byte, []byte, error) {
	options, err := json.Marshal(p.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("encode options: %w", err)
	}
	videos, err := json.Marshal(p.Videos)
	if err != nil {
		return nil, nil, fmt.Errorf("encode videos: %w", err)
	}
	return options, videos, nil
}

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var (
		p       model.Player
		options []byte
		videos  []byte
	)
	if err := row.Scan(&p.ID, &p.TagID, &options, &videos, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &p.Options); err != nil {
		return nil, fmt.Errorf("decode options of player %d: %w", p.ID, err)
	}
	if err := json.Unmarshal(videos, &p.Videos); err != nil {
		return nil, fmt.Errorf("decode videos of player %d: %w", p.ID, err)
	}
	return &p, nil
}
