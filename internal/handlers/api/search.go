package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/metrics"
	"taskhub/internal/models"
	"taskhub/internal/suggest"
	"taskhub/internal/validation"
)

// SessionHeader distinguishes concurrent clients of the same user so each
// gets its own suggestion engine.
const SessionHeader = "X-Session-ID"

// SearchHandler handles full search and typeahead suggestions.
type SearchHandler struct {
	db      *db.DB
	cfg     *config.Config
	manager *suggest.Manager
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(database *db.DB, cfg *config.Config, manager *suggest.Manager) *SearchHandler {
	return &SearchHandler{db: database, cfg: cfg, manager: manager}
}

// Search runs a full task search across the workspace.
func (h *SearchHandler) Search(c fiber.Ctx) error {
	ws, _, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	query := suggest.Normalize(c.Query("q", ""))
	if query == "" {
		return jsonError(c, fiber.StatusBadRequest, "missing query parameter q")
	}
	limit := validation.ClampLimit(fiber.Query(c, "limit", 0), 50, 200)

	tasks, err := h.db.SearchTasks(c.Context(), ws.ID, query, limit)
	if err != nil {
		metrics.RecordSearchLookup(query, models.OutcomeError)
		return jsonError(c, fiber.StatusInternalServerError, "search failed")
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	outcome := models.OutcomeResults
	if len(tasks) == 0 {
		outcome = models.OutcomeEmpty
	}
	metrics.RecordSearchLookup(query, outcome)

	return jsonSuccess(c, fiber.Map{
		"query": query,
		"tasks": tasks,
	})
}

// Suggest feeds a typed query into the caller's suggestion engine and
// returns the resulting panel state. Fetches are debounced and cached
// inside the engine; a failed lookup comes back as state with an error
// message, never as an HTTP error.
func (h *SearchHandler) Suggest(c fiber.Ctx) error {
	ws, _, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	eng := h.manager.Acquire(h.sessionKey(c))
	eng.Request(c.Context(), c.Query("q", ""), ws.ID.String())
	return jsonSuccess(c, eng.State())
}

// SuggestInput applies a keyboard event to the caller's suggestion panel.
// Arrow keys move the selection, Escape dismisses, Enter and Tab confirm.
func (h *SearchHandler) SuggestInput(c fiber.Ctx) error {
	_, _, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	var body struct {
		Key   string `json:"key"`
		Index *int   `json:"index"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	eng := h.manager.Acquire(h.sessionKey(c))

	switch body.Key {
	case "ArrowDown":
		eng.Apply(suggest.EventNext)
	case "ArrowUp":
		eng.Apply(suggest.EventPrev)
	case "Escape":
		eng.Apply(suggest.EventDismiss)
	case "Enter", "Tab":
		index := -1
		if body.Index != nil {
			index = *body.Index
		}
		selected, ok := eng.Confirm(index)
		resp := fiber.Map{"state": eng.State(), "confirmed": ok}
		if ok {
			resp["selected"] = selected
		}
		return jsonSuccess(c, resp)
	default:
		return jsonError(c, fiber.StatusBadRequest, "unsupported key")
	}

	return jsonSuccess(c, fiber.Map{"state": eng.State()})
}

// sessionKey scopes engines per user, and per client session when the
// client sends one.
func (h *SearchHandler) sessionKey(c fiber.Ctx) string {
	user, _ := currentUser(c)
	key := user.ID.String()
	if session := c.Get(SessionHeader); session != "" {
		key += "/" + session
	}
	return key
}
