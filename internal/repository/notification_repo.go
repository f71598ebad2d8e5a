package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sf-developer/video-player/internal/model"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

// Insert stores an unread notification. eventID is nil for direct comment
// insertions.
func (r *NotificationRepo) Insert(ctx context.Context, eventID *int64, playerID int64, t model.EventType, registrar int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (event_id, player_id, type, status, registrar)
		VALUES ($1, $2, $3, 'unread', $4)
		RETURNING id`, eventID, playerID, t, registrar).Scan(&id)
	return id, err
}

// List returns notifications newest first. A limit <= 0 returns all.
func (r *NotificationRepo) List(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error) {
	sql := `SELECT id, event_id, player_id, type, status, registrar, created_at FROM notifications`
	args := []any{}
	if unreadOnly {
		sql += ` WHERE status = 'unread'`
	}
	sql += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		sql += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Notification, error) {
		var n model.Notification
		err := row.Scan(&n.ID, &n.EventID, &n.PlayerID, &n.Type, &n.Status, &n.Registrar, &n.CreatedAt)
		return n, err
	})
}

// MarkRead sets a notification's status to read.
func (r *NotificationRepo) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET status = 'read' WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByEvent removes the notification created for an event.
func (r *NotificationRepo) DeleteByEvent(ctx context.Context, eventID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE event_id = $1`, eventID)
	return err
}

// CountUnread counts unread notifications.
func (r *NotificationRepo) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE status = 'unread'`).Scan(&n)
	return n, err
}
