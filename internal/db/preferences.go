package db

import (
	"context"

	"github.com/google/uuid"

	"taskhub/internal/models"
)

const preferenceColumns = `id, user_id, workspace_id, kind, muted, min_priority`

// UpsertPreference creates or replaces a notification preference for
// (user, workspace, kind). A nil workspace means the rule applies everywhere.
func (d *DB) UpsertPreference(ctx context.Context, pref *models.NotificationPreference) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The uniqueness index coalesces NULL workspace ids, which plain
	// ON CONFLICT targets cannot reference, so update-then-insert.
	result, err := tx.Exec(ctx, `
		UPDATE notification_preferences
		SET muted = $1, min_priority = $2
		WHERE user_id = $3 AND workspace_id IS NOT DISTINCT FROM $4 AND kind = $5
	`, pref.Muted, pref.MinPriority, pref.UserID, pref.WorkspaceID, pref.Kind)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO notification_preferences (user_id, workspace_id, kind, muted, min_priority)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, pref.UserID, pref.WorkspaceID, pref.Kind, pref.Muted, pref.MinPriority).Scan(&pref.ID)
		if err != nil {
			return err
		}
	} else {
		err = tx.QueryRow(ctx, `
			SELECT id FROM notification_preferences
			WHERE user_id = $1 AND workspace_id IS NOT DISTINCT FROM $2 AND kind = $3
		`, pref.UserID, pref.WorkspaceID, pref.Kind).Scan(&pref.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListPreferencesForUser returns all of a user's notification preferences.
func (d *DB) ListPreferencesForUser(ctx context.Context, userID uuid.UUID) ([]models.NotificationPreference, error) {
	return d.queryPreferences(ctx, `
		SELECT `+preferenceColumns+`
		FROM notification_preferences
		WHERE user_id = $1
	`, userID)
}

// ListPreferencesForUsers returns the preferences of a set of users, used by
// the notification matcher when fanning out an event.
func (d *DB) ListPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]models.NotificationPreference, error) {
	return d.queryPreferences(ctx, `
		SELECT `+preferenceColumns+`
		FROM notification_preferences
		WHERE user_id = ANY($1)
	`, userIDs)
}

// DeletePreference removes a preference owned by the user.
func (d *DB) DeletePreference(ctx context.Context, id, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM notification_preferences WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPreferenceNotFound
	}
	return nil
}

func (d *DB) queryPreferences(ctx context.Context, query string, args ...any) ([]models.NotificationPreference, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []models.NotificationPreference
	for rows.Next() {
		var p models.NotificationPreference
		if err := rows.Scan(&p.ID, &p.UserID, &p.WorkspaceID, &p.Kind, &p.Muted, &p.MinPriority); err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}
