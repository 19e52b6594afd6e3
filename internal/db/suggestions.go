package db

import (
	"context"

	"github.com/google/uuid"

	"taskhub/internal/suggest"
	"taskhub/internal/validation"
)

// SuggestTerms aggregates autocomplete candidates for a workspace: task
// titles, task labels, and list names matching the query prefix, grouped with
// how many entities carry each term. This is the fetch function behind the
// suggestion engine.
func (d *DB) SuggestTerms(ctx context.Context, workspaceID uuid.UUID, queryStr string, limit int) ([]suggest.Suggestion, error) {
	pattern := validation.EscapeLike(queryStr) + "%"
	query := `
		SELECT suggestion, entity_type, cnt FROM (
			SELECT lower(title) AS suggestion, 'task' AS entity_type, COUNT(*) AS cnt
			FROM tasks
			WHERE workspace_id = $1 AND title ILIKE $2
			GROUP BY lower(title)

			UNION ALL

			SELECT lower(l.label), 'label', COUNT(*)
			FROM (
				SELECT unnest(labels) AS label FROM tasks WHERE workspace_id = $1
			) l
			WHERE l.label ILIKE $2
			GROUP BY lower(l.label)

			UNION ALL

			SELECT lower(name), 'list', COUNT(*)
			FROM task_lists
			WHERE workspace_id = $1 AND name ILIKE $2
			GROUP BY lower(name)
		) candidates
		ORDER BY cnt DESC, suggestion ASC
		LIMIT $3
	`
	rows, err := d.Pool.Query(ctx, query, workspaceID, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []suggest.Suggestion
	for rows.Next() {
		var s suggest.Suggestion
		if err := rows.Scan(&s.Text, &s.EntityType, &s.Count); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}
