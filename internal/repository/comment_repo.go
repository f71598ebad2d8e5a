package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sf-developer/video-player/internal/model"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

const commentColumns = `id, player_id, parent_id, user_id, author_name, author_email, author_ip, content, approved, created_at`

func scanComment(row pgx.CollectableRow) (model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.PlayerID, &c.ParentID, &c.UserID, &c.AuthorName, &c.AuthorEmail,
		&c.AuthorIP, &c.Content, &c.Approved, &c.CreatedAt)
	return c, err
}

// Insert stores a comment and fills in its id and creation time.
func (r *CommentRepo) Insert(ctx context.Context, c *model.Comment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO comments (player_id, parent_id, user_id, author_name, author_email, author_ip, content, approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		c.PlayerID, c.ParentID, c.UserID, c.AuthorName, c.AuthorEmail, c.AuthorIP, c.Content, c.Approved).
		Scan(&c.ID, &c.CreatedAt)
}

// FindByID returns one comment or ErrNotFound.
func (r *CommentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanComment)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListApproved returns approved top-level comments of a player, newest first.
func (r *CommentRepo) ListApproved(ctx context.Context, playerID int64, limit, offset int) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE player_id = $1 AND parent_id = 0 AND approved = 1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, playerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanComment)
}

// ListReplies returns the approved replies to the given parents, oldest first.
func (r *CommentRepo) ListReplies(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE parent_id = ANY($1) AND approved = 1
		ORDER BY created_at, id`, parentIDs)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanComment)
}

// ListAll returns every comment whose author is not banned, newest first.
// A playerID of 0 lists all players.
func (r *CommentRepo) ListAll(ctx context.Context, playerID int64) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+` FROM comments c
		WHERE ($1 = 0 OR c.player_id = $1)
		AND NOT EXISTS (SELECT 1 FROM banned_users b WHERE b.email = c.author_email)
		ORDER BY created_at DESC, id DESC`, playerID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanComment)
}

// SetApproval changes a comment's moderation state.
func (r *CommentRepo) SetApproval(ctx context.Context, id int64, state model.CommentState) error {
	tag, err := r.pool.Exec(ctx, `UPDATE comments SET approved = $2 WHERE id = $1`, id, state)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a comment and its replies.
func (r *CommentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1 OR parent_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Totals counts comments by state. A playerID of 0 counts all players.
func (r *CommentRepo) Totals(ctx context.Context, playerID int64) (model.CommentTotals, error) {
	return r.totals(ctx, playerID, time.Time{}, time.Time{})
}

// TotalsBetween counts comments by state created in [start, end).
func (r *CommentRepo) TotalsBetween(ctx context.Context, playerID int64, start, end time.Time) (model.CommentTotals, error) {
	return r.totals(ctx, playerID, start, end)
}

func (r *CommentRepo) totals(ctx context.Context, playerID int64, start, end time.Time) (model.CommentTotals, error) {
	var t model.CommentTotals
	var from, to *time.Time
	if !start.IsZero() {
		from, to = &start, &end
	}
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE approved = 1),
			COUNT(*) FILTER (WHERE approved = -1),
			COUNT(*) FILTER (WHERE approved = 0)
		FROM comments
		WHERE ($1 = 0 OR player_id = $1)
		AND ($2::timestamptz IS NULL OR created_at >= $2)
		AND ($3::timestamptz IS NULL OR created_at < $3)`, playerID, from, to).
		Scan(&t.Total, &t.Approved, &t.Rejected, &t.Pending)
	return t, err
}

// Authors returns one row per distinct commenter email that is not banned.
func (r *CommentRepo) Authors(ctx context.Context) ([]model.CommentAuthorSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (c.author_email)
			c.author_email, c.author_name, c.author_ip,
			CASE WHEN c.user_id = 0 THEN 'Guest' ELSE c.user_id::text END,
			c.created_at, c.content
		FROM comments c
		WHERE NOT EXISTS (SELECT 1 FROM banned_users b WHERE b.email = c.author_email)
		ORDER BY c.author_email, c.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.CommentAuthorSummary, error) {
		var a model.CommentAuthorSummary
		err := row.Scan(&a.UserEmail, &a.UserName, &a.UserIP, &a.UserID, &a.CommentDate, &a.Content)
		return a, err
	})
}
