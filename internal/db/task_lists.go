package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taskhub/internal/models"
)

const listColumns = `id, workspace_id, name, position, created_at, updated_at`

// scanList scans a row into a TaskList struct.
func scanList(row pgx.Row) (*models.TaskList, error) {
	var list models.TaskList
	err := row.Scan(
		&list.ID,
		&list.WorkspaceID,
		&list.Name,
		&list.Position,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateList creates a task list at the end of the workspace's list order.
func (d *DB) CreateList(ctx context.Context, list *models.TaskList) error {
	query := `
		INSERT INTO task_lists (workspace_id, name, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM task_lists WHERE workspace_id = $1))
		RETURNING id, position, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, list.WorkspaceID, list.Name).
		Scan(&list.ID, &list.Position, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateListName
		}
		return err
	}
	return nil
}

// GetListByID retrieves a task list by ID.
func (d *DB) GetListByID(ctx context.Context, id uuid.UUID) (*models.TaskList, error) {
	query := `SELECT ` + listColumns + ` FROM task_lists WHERE id = $1`
	return scanList(d.Pool.QueryRow(ctx, query, id))
}

// ListsForWorkspace returns the workspace's lists in display order.
func (d *DB) ListsForWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.TaskList, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+listColumns+`
		FROM task_lists
		WHERE workspace_id = $1
		ORDER BY position ASC
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.TaskList
	for rows.Next() {
		var list models.TaskList
		if err := rows.Scan(&list.ID, &list.WorkspaceID, &list.Name, &list.Position, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// RenameList updates a list's name.
func (d *DB) RenameList(ctx context.Context, list *models.TaskList) error {
	query := `
		UPDATE task_lists
		SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query, list.Name, list.ID).Scan(&list.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrListNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateListName
		}
	}
	return err
}

// DeleteList deletes a task list and its tasks.
func (d *DB) DeleteList(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM task_lists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrListNotFound
	}
	return nil
}
