package db

import (
	"context"
	"testing"

	"taskhub/internal/models"
)

func TestSuggestTermsAggregatesAcrossEntities(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "suggester")
	ws := createTestWorkspace(t, db, "board", user)
	list := createTestList(t, db, ws, "Deploy queue")

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		task := &models.Task{
			WorkspaceID: ws.ID,
			ListID:      list.ID,
			Title:       "deploy service",
			Labels:      []string{"deploy"},
		}
		if err := db.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
	}

	suggestions, err := db.SuggestTerms(ctx, ws.ID, "dep", 10)
	if err != nil {
		t.Fatalf("SuggestTerms() error = %v", err)
	}

	byType := make(map[string]int)
	for _, s := range suggestions {
		byType[s.EntityType] = s.Count
	}
	if byType["task"] != 2 {
		t.Errorf("task suggestion count = %d, want 2", byType["task"])
	}
	if byType["label"] != 2 {
		t.Errorf("label suggestion count = %d, want 2", byType["label"])
	}
	if byType["list"] != 1 {
		t.Errorf("list suggestion count = %d, want 1", byType["list"])
	}
}

func TestSuggestTermsScopedToWorkspace(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "suggester")
	ws := createTestWorkspace(t, db, "board", user)
	other := createTestWorkspace(t, db, "other", user)
	list := createTestList(t, db, other, "Todo")
	createTestTask(t, db, other, list, "elsewhere only")

	suggestions, err := db.SuggestTerms(context.Background(), ws.ID, "else", 10)
	if err != nil {
		t.Fatalf("SuggestTerms() error = %v", err)
	}
	if len(suggestions) != 0 {
		t.Errorf("SuggestTerms() leaked %d suggestions from another workspace", len(suggestions))
	}
}

func TestSuggestTermsRespectsLimit(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "suggester")
	ws := createTestWorkspace(t, db, "board", user)
	list := createTestList(t, db, ws, "Todo")

	titles := []string{"fix login", "fix logout", "fix layout", "fix lint"}
	for _, title := range titles {
		createTestTask(t, db, ws, list, title)
	}

	suggestions, err := db.SuggestTerms(context.Background(), ws.ID, "fix", 2)
	if err != nil {
		t.Fatalf("SuggestTerms() error = %v", err)
	}
	if len(suggestions) != 2 {
		t.Errorf("SuggestTerms() = %d suggestions, want 2", len(suggestions))
	}
}
