package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"taskhub/internal/models"
)

func TestCreateUserDuplicateHandle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, db, "alice")

	dup := &models.User{Email: "other@example.com", Name: "Alice 2", Handle: "alice"}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, ErrDuplicateHandle) {
		t.Errorf("CreateUser() error = %v, want ErrDuplicateHandle", err)
	}
}

func TestGetUserByHandle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")

	ctx := context.Background()
	found, err := db.GetUserByHandle(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByHandle() error = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("GetUserByHandle() ID = %v, want %v", found.ID, user.ID)
	}

	if _, err := db.GetUserByHandle(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByHandle() error = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")

	ctx := context.Background()
	user.Name = "Alice Cooper"
	user.Email = "cooper@example.com"
	if err := db.UpdateUserProfile(ctx, user); err != nil {
		t.Fatalf("UpdateUserProfile() error = %v", err)
	}

	fetched, err := db.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if fetched.Name != "Alice Cooper" || fetched.Email != "cooper@example.com" {
		t.Errorf("profile after update = %+v", fetched)
	}

	missing := &models.User{ID: uuid.New(), Name: "x", Email: "x@example.com"}
	if err := db.UpdateUserProfile(ctx, missing); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdateUserProfile(missing) error = %v, want ErrUserNotFound", err)
	}
}
