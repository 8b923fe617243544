package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFileUserRepo_CreateAndGet(t *testing.T) {
	repo, err := NewUserRepoFile(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := &User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: "$2a$10$fakehash",
		CreatedAt:    time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != u.ID || got.PasswordHash != u.PasswordHash {
		t.Errorf("round trip mismatch: %+v vs %+v", got, u)
	}
	if !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("expected created_at %s, got %s", u.CreatedAt, got.CreatedAt)
	}
}

func TestFileUserRepo_Duplicate(t *testing.T) {
	repo, err := NewUserRepoFile(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u := &User{ID: uuid.New(), Username: "alice", PasswordHash: "h", CreatedAt: time.Now()}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := &User{ID: uuid.New(), Username: "alice", PasswordHash: "h2", CreatedAt: time.Now()}
	if err := repo.Create(context.Background(), dup); err != ErrUsernameTaken {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestFileUserRepo_UnknownUser(t *testing.T) {
	repo, err := NewUserRepoFile(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByUsername(context.Background(), "nobody"); err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
