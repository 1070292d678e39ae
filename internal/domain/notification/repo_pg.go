package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telecare/telecare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type notificationRepoPG struct{ pool *pgxpool.Pool }

func NewNotificationRepoPG(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepoPG{pool: pool}
}

func (r *notificationRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const notifCols = `id, user_id, message, kind, bind_id, read, created_at`

func (r *notificationRepoPG) Create(ctx context.Context, n *Notification) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO notification (id, user_id, message, kind, bind_id, read)
		VALUES ($1,$2,$3,$4,$5,false)`,
		n.ID, n.UserID, n.Message, n.Kind, n.BindID)
	return err
}

func (r *notificationRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM notification WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+notifCols+` FROM notification
		WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Kind, &n.BindID, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &n)
	}
	return items, total, rows.Err()
}

func (r *notificationRepoPG) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM notification WHERE user_id = $1 AND NOT read`, userID).Scan(&count)
	return count, err
}

func (r *notificationRepoPG) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE notification SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *notificationRepoPG) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE notification SET read = true WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
