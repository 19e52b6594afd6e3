package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskhub/internal/models"
)

const eventColumns = `id, workspace_id, actor_id, kind, task_id, list_id, detail, priority, created_at`

// CreateEvent records an activity event.
func (d *DB) CreateEvent(ctx context.Context, event *models.ActivityEvent) error {
	priority := event.Priority
	if priority == 0 {
		priority = models.PriorityNormal
	}
	query := `
		INSERT INTO activity_events (workspace_id, actor_id, kind, task_id, list_id, detail, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := d.Pool.QueryRow(ctx, query,
		event.WorkspaceID,
		event.ActorID,
		event.Kind,
		event.TaskID,
		event.ListID,
		event.Detail,
		priority,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return err
	}
	event.Priority = priority
	return nil
}

// GetEventByID retrieves an activity event by ID.
func (d *DB) GetEventByID(ctx context.Context, id uuid.UUID) (*models.ActivityEvent, error) {
	var event models.ActivityEvent
	err := d.Pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM activity_events WHERE id = $1`, id).Scan(
		&event.ID,
		&event.WorkspaceID,
		&event.ActorID,
		&event.Kind,
		&event.TaskID,
		&event.ListID,
		&event.Detail,
		&event.Priority,
		&event.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents returns a workspace's activity feed, newest first.
func (d *DB) ListEvents(ctx context.Context, workspaceID uuid.UUID, limit, offset int) ([]models.ActivityEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM activity_events
		WHERE workspace_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := d.Pool.Query(ctx, query, workspaceID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ActivityEvent
	for rows.Next() {
		var event models.ActivityEvent
		if err := rows.Scan(
			&event.ID,
			&event.WorkspaceID,
			&event.ActorID,
			&event.Kind,
			&event.TaskID,
			&event.ListID,
			&event.Detail,
			&event.Priority,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneEvents deletes activity events older than the cutoff and returns how
// many were removed. Notifications referencing them cascade.
func (d *DB) PruneEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM activity_events WHERE created_at < $1
	`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
