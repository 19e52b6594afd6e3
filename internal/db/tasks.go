package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskhub/internal/models"
	"taskhub/internal/validation"
)

// taskColumns is the standard column list for task queries.
const taskColumns = `id, workspace_id, list_id, title, description, status, priority,
	position, labels, assignee_id, created_by, created_at, updated_at`

// scanTask scans a row into a Task struct.
func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.WorkspaceID,
		&task.ListID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Position,
		&task.Labels,
		&task.AssigneeID,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Tasks.
func scanTasks(rows pgx.Rows) ([]models.Task, error) {
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(
			&task.ID,
			&task.WorkspaceID,
			&task.ListID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.Position,
			&task.Labels,
			&task.AssigneeID,
			&task.CreatedBy,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CreateTask creates a task at the end of its list.
func (d *DB) CreateTask(ctx context.Context, task *models.Task) error {
	status := task.Status
	if status == "" {
		status = models.StatusTodo
	}
	priority := task.Priority
	if priority == 0 {
		priority = models.PriorityNormal
	}
	labels := task.Labels
	if labels == nil {
		labels = []string{}
	}

	query := `
		INSERT INTO tasks (workspace_id, list_id, title, description, status, priority, position, labels, assignee_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE list_id = $2),
			$7, $8, $9)
		RETURNING id, position, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		task.WorkspaceID,
		task.ListID,
		task.Title,
		task.Description,
		status,
		priority,
		labels,
		task.AssigneeID,
		task.CreatedBy,
	).Scan(&task.ID, &task.Position, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return err
	}

	task.Status = status
	task.Priority = priority
	task.Labels = labels
	return nil
}

// GetTaskByID retrieves a task by ID.
func (d *DB) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(d.Pool.QueryRow(ctx, query, id))
}

// TasksForList returns a list's tasks in position order.
func (d *DB) TasksForList(ctx context.Context, listID uuid.UUID) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE list_id = $1 ORDER BY position ASC`
	rows, err := d.Pool.Query(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

// UpdateTask updates a task's editable fields.
func (d *DB) UpdateTask(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, labels = $5, assignee_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	labels := task.Labels
	if labels == nil {
		labels = []string{}
	}
	err := d.Pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		labels,
		task.AssigneeID,
		task.ID,
	).Scan(&task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTaskNotFound
	}
	return err
}

// DeleteTask deletes a task and closes the position gap it leaves behind.
func (d *DB) DeleteTask(ctx context.Context, id uuid.UUID) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var listID uuid.UUID
	var position int
	err = tx.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING list_id, position`, id).
		Scan(&listID, &position)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTaskNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE tasks SET position = position - 1 WHERE list_id = $1 AND position > $2
	`, listID, position)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MoveTask moves a task to a position in a target list, shifting neighbors so
// positions stay dense. This is the persistence side of drag-and-drop reorder;
// moving within the source list is handled the same way as moving across lists.
func (d *DB) MoveTask(ctx context.Context, taskID, toListID uuid.UUID, newPosition int) (*models.Task, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var workspaceID, fromListID uuid.UUID
	var oldPosition int
	err = tx.QueryRow(ctx, `
		SELECT workspace_id, list_id, position FROM tasks WHERE id = $1 FOR UPDATE
	`, taskID).Scan(&workspaceID, &fromListID, &oldPosition)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	var targetWorkspaceID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT workspace_id FROM task_lists WHERE id = $1 FOR UPDATE
	`, toListID).Scan(&targetWorkspaceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, err
	}
	if targetWorkspaceID != workspaceID {
		return nil, ErrListNotInWorkspace
	}

	// Close the gap in the source list.
	_, err = tx.Exec(ctx, `
		UPDATE tasks SET position = position - 1 WHERE list_id = $1 AND position > $2
	`, fromListID, oldPosition)
	if err != nil {
		return nil, err
	}

	// Clamp the target position to the length of the target list (with the
	// moving task excluded).
	var count int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks WHERE list_id = $1 AND id <> $2
	`, toListID, taskID).Scan(&count)
	if err != nil {
		return nil, err
	}
	if newPosition < 0 {
		newPosition = 0
	}
	if newPosition > count {
		newPosition = count
	}

	// Open a slot in the target list.
	_, err = tx.Exec(ctx, `
		UPDATE tasks SET position = position + 1 WHERE list_id = $1 AND id <> $2 AND position >= $3
	`, toListID, taskID, newPosition)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE tasks
		SET list_id = $1, position = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + taskColumns
	task, err := scanTask(tx.QueryRow(ctx, query, toListID, newPosition, taskID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

// SearchTasks searches a workspace's tasks by title, description, or label.
func (d *DB) SearchTasks(ctx context.Context, workspaceID uuid.UUID, queryStr string, limit int) ([]models.Task, error) {
	pattern := "%" + validation.EscapeLike(queryStr) + "%"
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE workspace_id = $1
			AND (title ILIKE $2 OR description ILIKE $2
				OR EXISTS (SELECT 1 FROM unnest(labels) AS label WHERE label ILIKE $2))
		ORDER BY priority DESC, updated_at DESC
		LIMIT $3
	`
	rows, err := d.Pool.Query(ctx, query, workspaceID, pattern, limit)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}
