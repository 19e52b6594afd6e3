package db

import (
	"context"

	"github.com/google/uuid"

	"taskhub/internal/models"
)

// CreateNotification delivers an in-app notification for an event.
func (d *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, event_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return d.Pool.QueryRow(ctx, query, n.UserID, n.EventID).Scan(&n.ID, &n.CreatedAt)
}

// ListNotifications returns a user's notifications, newest first, with the
// triggering event attached.
func (d *DB) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.event_id, n.read_at, n.created_at,
			e.id, e.workspace_id, e.actor_id, e.kind, e.task_id, e.list_id, e.detail, e.priority, e.created_at
		FROM notifications n
		JOIN activity_events e ON e.id = n.event_id
		WHERE n.user_id = $1 AND ($2 = FALSE OR n.read_at IS NULL)
		ORDER BY n.created_at DESC
		LIMIT $3
	`
	rows, err := d.Pool.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var event models.ActivityEvent
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.EventID, &n.ReadAt, &n.CreatedAt,
			&event.ID, &event.WorkspaceID, &event.ActorID, &event.Kind,
			&event.TaskID, &event.ListID, &event.Detail, &event.Priority, &event.CreatedAt,
		); err != nil {
			return nil, err
		}
		n.Event = &event
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnreadNotifications returns how many unread notifications a user has.
func (d *DB) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := d.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL
	`, userID).Scan(&count)
	return count, err
}

// MarkNotificationRead marks one notification as read. Only the owner's
// notifications are affected.
func (d *DB) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks all of a user's notifications as read.
func (d *DB) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error {
	_, err := d.Pool.Exec(ctx, `
		UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL
	`, userID)
	return err
}
