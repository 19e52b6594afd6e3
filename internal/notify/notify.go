// Package notify fans activity events out to workspace members as in-app
// notifications, filtered through per-user preference rules.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/models"
)

// Store is the database surface the dispatcher needs.
type Store interface {
	ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error)
	ListPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]models.NotificationPreference, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Dispatcher delivers notifications for recorded activity events.
type Dispatcher struct {
	db      Store
	timeout time.Duration
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(db Store) *Dispatcher {
	return &Dispatcher{db: db, timeout: 10 * time.Second}
}

// EventRecorded asynchronously fans the event out to matching recipients.
// Failures are logged, never surfaced to the request path.
func (d *Dispatcher) EventRecorded(event *models.ActivityEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.Dispatch(ctx, event); err != nil {
			slog.Error("failed to dispatch notifications", "event", event.ID, "kind", event.Kind, "error", err)
		}
	}()
}

// Dispatch delivers the event to every matching member synchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, event *models.ActivityEvent) error {
	members, err := d.db.ListMembers(ctx, event.WorkspaceID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}

	userIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}

	prefs, err := d.db.ListPreferencesForUsers(ctx, userIDs)
	if err != nil {
		return err
	}

	for _, userID := range Recipients(event, members, prefs) {
		n := &models.Notification{UserID: userID, EventID: event.ID}
		if err := d.db.CreateNotification(ctx, n); err != nil {
			slog.Error("failed to create notification", "user", userID, "event", event.ID, "error", err)
		}
	}
	return nil
}

// Recipients applies the preference rules and returns the users to notify.
// The actor is never notified. Without a matching rule, members are notified
// by default.
func Recipients(event *models.ActivityEvent, members []models.WorkspaceMember, prefs []models.NotificationPreference) []uuid.UUID {
	byUser := make(map[uuid.UUID][]models.NotificationPreference)
	for _, p := range prefs {
		byUser[p.UserID] = append(byUser[p.UserID], p)
	}

	var recipients []uuid.UUID
	for _, m := range members {
		if m.UserID == event.ActorID {
			continue
		}
		pref := matchPreference(event, byUser[m.UserID])
		if pref != nil {
			if pref.Muted || event.Priority < pref.MinPriority {
				continue
			}
		}
		recipients = append(recipients, m.UserID)
	}
	return recipients
}

// matchPreference picks the most specific rule for the event, in order:
// workspace+kind, workspace+all, global+kind, global+all.
func matchPreference(event *models.ActivityEvent, prefs []models.NotificationPreference) *models.NotificationPreference {
	var best *models.NotificationPreference
	bestRank := -1
	for i := range prefs {
		p := &prefs[i]
		if p.WorkspaceID != nil && *p.WorkspaceID != event.WorkspaceID {
			continue
		}
		if p.Kind != models.PrefKindAll && p.Kind != event.Kind {
			continue
		}
		rank := 0
		if p.WorkspaceID != nil {
			rank += 2
		}
		if p.Kind != models.PrefKindAll {
			rank++
		}
		if rank > bestRank {
			best = p
			bestRank = rank
		}
	}
	return best
}
