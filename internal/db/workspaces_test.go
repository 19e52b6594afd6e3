package db

import (
	"context"
	"errors"
	"testing"

	"taskhub/internal/models"
)

func TestCreateWorkspaceMakesCreatorAdmin(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "owner")
	ws := createTestWorkspace(t, db, "team", user)

	member, err := db.GetMember(context.Background(), ws.ID, user.ID)
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if !member.IsAdmin() {
		t.Errorf("creator role = %q, want %q", member.Role, models.RoleAdmin)
	}
}

func TestCreateWorkspaceDuplicateSlug(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "owner")
	createTestWorkspace(t, db, "team", user)

	dup := &models.Workspace{Slug: "team", Name: "Another", CreatedBy: &user.ID}
	err := db.CreateWorkspace(context.Background(), dup)
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("CreateWorkspace() error = %v, want ErrDuplicateSlug", err)
	}
}

func TestGetMemberNotAMember(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := createTestUser(t, db, "owner")
	outsider := createTestUser(t, db, "outsider")
	ws := createTestWorkspace(t, db, "team", owner)

	_, err := db.GetMember(context.Background(), ws.ID, outsider.ID)
	if !errors.Is(err, ErrNotAMember) {
		t.Errorf("GetMember() error = %v, want ErrNotAMember", err)
	}
}

func TestAddMemberUpdatesRole(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := createTestUser(t, db, "owner")
	joiner := createTestUser(t, db, "joiner")
	ws := createTestWorkspace(t, db, "team", owner)

	ctx := context.Background()
	if err := db.AddMember(ctx, ws.ID, joiner.ID, models.RoleMember); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	// Adding again with a new role promotes rather than failing
	if err := db.AddMember(ctx, ws.ID, joiner.ID, models.RoleAdmin); err != nil {
		t.Fatalf("AddMember() promote error = %v", err)
	}

	member, err := db.GetMember(ctx, ws.ID, joiner.ID)
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if member.Role != models.RoleAdmin {
		t.Errorf("role after promote = %q, want %q", member.Role, models.RoleAdmin)
	}
}

func TestListWorkspacesForUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	createTestWorkspace(t, db, "mine", owner)
	createTestWorkspace(t, db, "theirs", other)

	workspaces, err := db.ListWorkspacesForUser(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListWorkspacesForUser() error = %v", err)
	}
	if len(workspaces) != 1 || workspaces[0].Slug != "mine" {
		t.Errorf("ListWorkspacesForUser() = %+v, want just 'mine'", workspaces)
	}
}

func TestRemoveMember(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := createTestUser(t, db, "owner")
	joiner := createTestUser(t, db, "joiner")
	ws := createTestWorkspace(t, db, "team", owner)

	ctx := context.Background()
	if err := db.AddMember(ctx, ws.ID, joiner.ID, models.RoleMember); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if err := db.RemoveMember(ctx, ws.ID, joiner.ID); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	if err := db.RemoveMember(ctx, ws.ID, joiner.ID); !errors.Is(err, ErrNotAMember) {
		t.Errorf("RemoveMember() twice error = %v, want ErrNotAMember", err)
	}
}
