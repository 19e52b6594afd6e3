package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/models"
	"taskhub/internal/notify"
	"taskhub/internal/validation"
)

// TaskHandler handles task list and task operations via JSON API.
type TaskHandler struct {
	db       *db.DB
	cfg      *config.Config
	notifier *notify.Dispatcher
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(database *db.DB, cfg *config.Config, notifier *notify.Dispatcher) *TaskHandler {
	return &TaskHandler{db: database, cfg: cfg, notifier: notifier}
}

// boardList is one column of the board response.
type boardList struct {
	models.TaskList
	Tasks []models.Task `json:"tasks"`
}

// Board returns the workspace's lists with their tasks in display order.
func (h *TaskHandler) Board(c fiber.Ctx) error {
	ws, _, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	lists, err := h.db.ListsForWorkspace(c.Context(), ws.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch lists")
	}

	board := make([]boardList, 0, len(lists))
	for _, list := range lists {
		tasks, err := h.db.TasksForList(c.Context(), list.ID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch tasks")
		}
		if tasks == nil {
			tasks = []models.Task{}
		}
		board = append(board, boardList{TaskList: list, Tasks: tasks})
	}
	return jsonSuccess(c, board)
}

// CreateList creates a task list at the end of the board.
func (h *TaskHandler) CreateList(c fiber.Ctx) error {
	ws, member, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := validation.ValidateTitle(body.Name); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	list := &models.TaskList{WorkspaceID: ws.ID, Name: body.Name}
	if err := h.db.CreateList(c.Context(), list); err != nil {
		if errors.Is(err, db.ErrDuplicateListName) {
			return jsonError(c, fiber.StatusConflict, "a list with this name already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create list")
	}

	h.recordEvent(&models.ActivityEvent{
		WorkspaceID: ws.ID,
		ActorID:     member.UserID,
		Kind:        models.EventListCreated,
		ListID:      &list.ID,
		Detail:      list.Name,
	})
	return jsonSuccess(c, list)
}

// RenameList renames a task list.
func (h *TaskHandler) RenameList(c fiber.Ctx) error {
	ws, _, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	list, errResp := h.listInWorkspace(c, ws)
	if errResp != nil {
		return errResp
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := validation.ValidateTitle(body.Name); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	list.Name = body.Name
	if err := h.db.RenameList(c.Context(), list); err != nil {
		if errors.Is(err, db.ErrDuplicateListName) {
			return jsonError(c, fiber.StatusConflict, "a list with this name already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to rename list")
	}
	return jsonSuccess(c, list)
}

// DeleteList deletes a task list along with its tasks.
func (h *TaskHandler) DeleteList(c fiber.Ctx) error {
	ws, member, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}
	if !member.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "workspace admin access required")
	}

	list, errResp := h.listInWorkspace(c, ws)
	if errResp != nil {
		return errResp
	}

	if err := h.db.DeleteList(c.Context(), list.ID); err != nil {
		if errors.Is(err, db.ErrListNotFound) {
			return jsonError(c, fiber.StatusNotFound, "list not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete list")
	}
	return jsonSuccess(c, fiber.Map{"deleted": list.ID})
}

// CreateTask creates a task at the end of a list.
func (h *TaskHandler) CreateTask(c fiber.Ctx) error {
	ws, member, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	var body struct {
		ListID      string   `json:"list_id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Priority    int      `json:"priority"`
		Labels      []string `json:"labels"`
		AssigneeID  string   `json:"assignee_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	listID, err := uuid.Parse(body.ListID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid list id")
	}
	if valid, msg := validation.ValidateTitle(body.Title); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if body.Priority != 0 && !validation.ValidPriority(body.Priority) {
		return jsonError(c, fiber.StatusBadRequest, "invalid priority")
	}

	list, err := h.db.GetListByID(c.Context(), listID)
	if err != nil {
		if errors.Is(err, db.ErrListNotFound) {
			return jsonError(c, fiber.StatusNotFound, "list not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch list")
	}
	if list.WorkspaceID != ws.ID {
		return jsonError(c, fiber.StatusBadRequest, "list belongs to a different workspace")
	}

	task := &models.Task{
		WorkspaceID: ws.ID,
		ListID:      listID,
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Labels:      validation.NormalizeLabels(body.Labels),
		CreatedBy:   &member.UserID,
	}
	if body.AssigneeID != "" {
		assigneeID, err := uuid.Parse(body.AssigneeID)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid assignee id")
		}
		task.AssigneeID = &assigneeID
	}

	if err := h.db.CreateTask(c.Context(), task); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create task")
	}

	h.recordEvent(&models.ActivityEvent{
		WorkspaceID: ws.ID,
		ActorID:     member.UserID,
		Kind:        models.EventTaskCreated,
		TaskID:      &task.ID,
		ListID:      &listID,
		Detail:      task.Title,
		Priority:    task.Priority,
	})
	if task.AssigneeID != nil {
		h.recordEvent(&models.ActivityEvent{
			WorkspaceID: ws.ID,
			ActorID:     member.UserID,
			Kind:        models.EventTaskAssigned,
			TaskID:      &task.ID,
			Detail:      task.Title,
			Priority:    task.Priority,
		})
	}
	return jsonSuccess(c, task)
}

// UpdateTask updates a task's editable fields.
func (h *TaskHandler) UpdateTask(c fiber.Ctx) error {
	ws, member, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	task, errResp := h.taskInWorkspace(c, ws)
	if errResp != nil {
		return errResp
	}

	var body struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Status      *string  `json:"status"`
		Priority    *int     `json:"priority"`
		Labels      []string `json:"labels"`
		AssigneeID  *string  `json:"assignee_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	wasDone := task.IsDone()
	previousAssignee := task.AssigneeID

	if body.Title != nil {
		if valid, msg := validation.ValidateTitle(*body.Title); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
		task.Title = *body.Title
	}
	if body.Description != nil {
		task.Description = *body.Description
	}
	if body.Status != nil {
		if !validation.ValidStatus(*body.Status) {
			return jsonError(c, fiber.StatusBadRequest, "invalid status")
		}
		task.Status = *body.Status
	}
	if body.Priority != nil {
		if !validation.ValidPriority(*body.Priority) {
			return jsonError(c, fiber.StatusBadRequest, "invalid priority")
		}
		task.Priority = *body.Priority
	}
	if body.Labels != nil {
		task.Labels = validation.NormalizeLabels(body.Labels)
	}
	if body.AssigneeID != nil {
		if *body.AssigneeID == "" {
			task.AssigneeID = nil
		} else {
			assigneeID, err := uuid.Parse(*body.AssigneeID)
			if err != nil {
				return jsonError(c, fiber.StatusBadRequest, "invalid assignee id")
			}
			task.AssigneeID = &assigneeID
		}
	}

	if err := h.db.UpdateTask(c.Context(), task); err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			return jsonError(c, fiber.StatusNotFound, "task not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update task")
	}

	kind := models.EventTaskUpdated
	if !wasDone && task.IsDone() {
		kind = models.EventTaskCompleted
	}
	h.recordEvent(&models.ActivityEvent{
		WorkspaceID: ws.ID,
		ActorID:     member.UserID,
		Kind:        kind,
		TaskID:      &task.ID,
		Detail:      task.Title,
		Priority:    task.Priority,
	})
	if task.AssigneeID != nil && (previousAssignee == nil || *previousAssignee != *task.AssigneeID) {
		h.recordEvent(&models.ActivityEvent{
			WorkspaceID: ws.ID,
			ActorID:     member.UserID,
			Kind:        models.EventTaskAssigned,
			TaskID:      &task.ID,
			Detail:      task.Title,
			Priority:    task.Priority,
		})
	}
	return jsonSuccess(c, task)
}

// DeleteTask deletes a task.
func (h *TaskHandler) DeleteTask(c fiber.Ctx) error {
	ws, _, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	task, errResp := h.taskInWorkspace(c, ws)
	if errResp != nil {
		return errResp
	}

	if err := h.db.DeleteTask(c.Context(), task.ID); err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			return jsonError(c, fiber.StatusNotFound, "task not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete task")
	}
	return jsonSuccess(c, fiber.Map{"deleted": task.ID})
}

// Move reorders a task: drop it at a position within a target list. Both
// same-list and cross-list drags land here.
func (h *TaskHandler) Move(c fiber.Ctx) error {
	ws, member, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	task, errResp := h.taskInWorkspace(c, ws)
	if errResp != nil {
		return errResp
	}

	var body struct {
		ListID   string `json:"list_id"`
		Position int    `json:"position"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	toListID := task.ListID
	if body.ListID != "" {
		parsed, err := uuid.Parse(body.ListID)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid list id")
		}
		toListID = parsed
	}

	moved, err := h.db.MoveTask(c.Context(), task.ID, toListID, body.Position)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrTaskNotFound):
			return jsonError(c, fiber.StatusNotFound, "task not found")
		case errors.Is(err, db.ErrListNotFound):
			return jsonError(c, fiber.StatusNotFound, "target list not found")
		case errors.Is(err, db.ErrListNotInWorkspace):
			return jsonError(c, fiber.StatusBadRequest, "target list belongs to a different workspace")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to move task")
	}

	h.recordEvent(&models.ActivityEvent{
		WorkspaceID: ws.ID,
		ActorID:     member.UserID,
		Kind:        models.EventTaskMoved,
		TaskID:      &moved.ID,
		ListID:      &moved.ListID,
		Detail:      fmt.Sprintf("%s to position %d", moved.Title, moved.Position),
		Priority:    moved.Priority,
	})
	return jsonSuccess(c, moved)
}

// listInWorkspace loads the :id list and verifies it belongs to the workspace.
func (h *TaskHandler) listInWorkspace(c fiber.Ctx, ws *models.Workspace) (*models.TaskList, error) {
	listID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid list id")
	}

	list, err := h.db.GetListByID(c.Context(), listID)
	if err != nil {
		if errors.Is(err, db.ErrListNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "list not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "failed to fetch list")
	}
	if list.WorkspaceID != ws.ID {
		return nil, jsonError(c, fiber.StatusNotFound, "list not found")
	}
	return list, nil
}

// taskInWorkspace loads the :id task and verifies it belongs to the workspace.
func (h *TaskHandler) taskInWorkspace(c fiber.Ctx, ws *models.Workspace) (*models.Task, error) {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid task id")
	}

	task, err := h.db.GetTaskByID(c.Context(), taskID)
	if err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "task not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "failed to fetch task")
	}
	if task.WorkspaceID != ws.ID {
		return nil, jsonError(c, fiber.StatusNotFound, "task not found")
	}
	return task, nil
}

// recordEvent persists an activity event and fans out notifications.
// Event recording is best-effort; the triggering operation already succeeded.
func (h *TaskHandler) recordEvent(event *models.ActivityEvent) {
	ctx := context.Background()
	if err := h.db.CreateEvent(ctx, event); err != nil {
		slog.Error("failed to record activity event", "kind", event.Kind, "error", err)
		return
	}
	if h.notifier != nil {
		h.notifier.EventRecorded(event)
	}
}
