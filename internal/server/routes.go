package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskhub/internal/db"
	"taskhub/internal/handlers/api"
	"taskhub/internal/middleware"
	"taskhub/internal/notify"
	"taskhub/internal/suggest"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, manager *suggest.Manager, notifier *notify.Dispatcher) {
	// Initialize middleware
	identity := middleware.NewIdentityMiddleware(database, s.Cfg)

	// Initialize handlers
	healthHandler := api.NewHealthHandler(database)
	userHandler := api.NewUserHandler(database)
	workspaceHandler := api.NewWorkspaceHandler(database, s.Cfg)
	taskHandler := api.NewTaskHandler(database, s.Cfg, notifier)
	searchHandler := api.NewSearchHandler(database, s.Cfg, manager)
	activityHandler := api.NewActivityHandler(database)
	notificationHandler := api.NewNotificationHandler(database)
	preferenceHandler := api.NewPreferenceHandler(database)

	// Probes and metrics
	s.App.Get("/healthz", healthHandler.Live)
	s.App.Get("/readyz", healthHandler.Ready)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Registration happens before an identity can resolve
	s.App.Post("/api/users", userHandler.Register)

	// Profile
	s.App.Get("/api/me", identity.RequireIdentity, userHandler.Me)
	s.App.Put("/api/me", identity.RequireIdentity, userHandler.UpdateMe)

	// Workspaces and membership
	s.App.Get("/api/workspaces", identity.RequireIdentity, workspaceHandler.List)
	s.App.Post("/api/workspaces", identity.RequireIdentity, workspaceHandler.Create)
	s.App.Get("/api/workspaces/:slug", identity.RequireIdentity, workspaceHandler.Get)
	s.App.Get("/api/workspaces/:slug/members", identity.RequireIdentity, workspaceHandler.Members)
	s.App.Post("/api/workspaces/:slug/members", identity.RequireIdentity, workspaceHandler.AddMember)
	s.App.Delete("/api/workspaces/:slug/members/:userID", identity.RequireIdentity, workspaceHandler.RemoveMember)

	// Board, lists, and tasks
	s.App.Get("/api/workspaces/:slug/board", identity.RequireIdentity, taskHandler.Board)
	s.App.Post("/api/workspaces/:slug/lists", identity.RequireIdentity, taskHandler.CreateList)
	s.App.Put("/api/workspaces/:slug/lists/:id", identity.RequireIdentity, taskHandler.RenameList)
	s.App.Delete("/api/workspaces/:slug/lists/:id", identity.RequireIdentity, taskHandler.DeleteList)
	s.App.Post("/api/workspaces/:slug/tasks", identity.RequireIdentity, taskHandler.CreateTask)
	s.App.Put("/api/workspaces/:slug/tasks/:id", identity.RequireIdentity, taskHandler.UpdateTask)
	s.App.Delete("/api/workspaces/:slug/tasks/:id", identity.RequireIdentity, taskHandler.DeleteTask)
	s.App.Post("/api/workspaces/:slug/tasks/:id/move", identity.RequireIdentity, taskHandler.Move)

	// Search and typeahead suggestions
	s.App.Get("/api/workspaces/:slug/search", identity.RequireIdentity, searchHandler.Search)
	s.App.Get("/api/workspaces/:slug/suggest", identity.RequireIdentity, searchHandler.Suggest)
	s.App.Post("/api/workspaces/:slug/suggest/input", identity.RequireIdentity, searchHandler.SuggestInput)

	// Activity feed
	s.App.Get("/api/workspaces/:slug/activity", identity.RequireIdentity, activityHandler.Feed)

	// Notifications
	s.App.Get("/api/notifications", identity.RequireIdentity, notificationHandler.List)
	s.App.Get("/api/notifications/unread", identity.RequireIdentity, notificationHandler.UnreadCount)
	s.App.Post("/api/notifications/:id/read", identity.RequireIdentity, notificationHandler.MarkRead)
	s.App.Post("/api/notifications/read-all", identity.RequireIdentity, notificationHandler.MarkAllRead)

	// Notification preferences
	s.App.Get("/api/preferences", identity.RequireIdentity, preferenceHandler.List)
	s.App.Put("/api/preferences", identity.RequireIdentity, preferenceHandler.Upsert)
	s.App.Delete("/api/preferences/:id", identity.RequireIdentity, preferenceHandler.Delete)
}
