package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taskhub/internal/models"
)

const workspaceColumns = `id, slug, name, created_by, created_at, updated_at`

// scanWorkspace scans a row into a Workspace struct.
func scanWorkspace(row pgx.Row) (*models.Workspace, error) {
	var ws models.Workspace
	err := row.Scan(
		&ws.ID,
		&ws.Slug,
		&ws.Name,
		&ws.CreatedBy,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// CreateWorkspace creates a workspace and adds the creator as an admin member.
func (d *DB) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO workspaces (slug, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, ws.Slug, ws.Name, ws.CreatedBy).
		Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}

	if ws.CreatedBy != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO workspace_members (workspace_id, user_id, role)
			VALUES ($1, $2, $3)
		`, ws.ID, *ws.CreatedBy, models.RoleAdmin)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetWorkspaceBySlug retrieves a workspace by slug.
func (d *DB) GetWorkspaceBySlug(ctx context.Context, slug string) (*models.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE slug = $1`
	return scanWorkspace(d.Pool.QueryRow(ctx, query, slug))
}

// GetWorkspaceByID retrieves a workspace by ID.
func (d *DB) GetWorkspaceByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`
	return scanWorkspace(d.Pool.QueryRow(ctx, query, id))
}

// ListWorkspacesForUser returns the workspaces the user belongs to.
func (d *DB) ListWorkspacesForUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	query := `
		SELECT w.id, w.slug, w.name, w.created_by, w.created_at, w.updated_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = $1
		ORDER BY w.name ASC
	`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []models.Workspace
	for rows.Next() {
		var ws models.Workspace
		if err := rows.Scan(&ws.ID, &ws.Slug, &ws.Name, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

// AddMember adds a user to a workspace. Adding an existing member updates the role.
func (d *DB) AddMember(ctx context.Context, workspaceID, userID uuid.UUID, role string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`, workspaceID, userID, role)
	return err
}

// GetMember returns the membership row for a user in a workspace.
func (d *DB) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*models.WorkspaceMember, error) {
	var m models.WorkspaceMember
	err := d.Pool.QueryRow(ctx, `
		SELECT workspace_id, user_id, role, added_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID).Scan(&m.WorkspaceID, &m.UserID, &m.Role, &m.AddedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotAMember
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMembers returns all members of a workspace.
func (d *DB) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT workspace_id, user_id, role, added_at
		FROM workspace_members
		WHERE workspace_id = $1
		ORDER BY added_at ASC
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.WorkspaceMember
	for rows.Next() {
		var m models.WorkspaceMember
		if err := rows.Scan(&m.WorkspaceID, &m.UserID, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// RemoveMember removes a user from a workspace.
func (d *DB) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotAMember
	}
	return nil
}
