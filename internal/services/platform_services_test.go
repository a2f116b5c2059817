package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/models/dtos"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
)

func TestNotificationService_ListAndOwnership(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewNotificationService(e.notifications)

	for _, uid := range []string{"u-1", "u-1", "u-2"} {
		n := &gormModels.Notification{UserID: uid, Title: "t", Message: "m", Type: "assignment"}
		if err := e.notifications.Create(ctx, n); err != nil {
			t.Fatalf("Failed to seed notification: %v", err)
		}
	}

	items, unread, err := svc.List(ctx, "u-1", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 2 || unread != 2 {
		t.Fatalf("Expected 2 notifications and 2 unread, got %d and %d", len(items), unread)
	}

	if err := svc.MarkRead(ctx, "u-2", items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a foreign notification, got %v", err)
	}
	if err := svc.MarkRead(ctx, "u-1", items[0].ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	_, unread, _ = svc.List(ctx, "u-1", 10)
	if unread != 1 {
		t.Errorf("Expected 1 unread, got %d", unread)
	}

	if err := svc.Delete(ctx, "u-1", items[1].ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := svc.Delete(ctx, "u-1", items[1].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPinnedPostService_Lifecycle(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewPinnedPostService(repositories.NewPinnedPostRepository(e.db))

	if _, err := svc.Create(ctx, "root", dtos.PinnedPostRequest{Title: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	post, err := svc.Create(ctx, "root", dtos.PinnedPostRequest{Title: "Welcome", Content: "Read the rules"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !post.IsPinned {
		t.Error("Expected new posts to be pinned by default")
	}

	unpin := false
	if _, err := svc.Update(ctx, post.ID, dtos.PinnedPostRequest{IsPinned: &unpin}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	list, _ := svc.List(ctx)
	if len(list) != 0 {
		t.Errorf("Expected unpinned post to be hidden, got %d", len(list))
	}

	if _, err := svc.Update(ctx, "missing", dtos.PinnedPostRequest{Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := svc.Delete(ctx, post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBadgeService_Award(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.addUser("u-1", "ada", false)
	svc := NewBadgeService(repositories.NewBadgeRepository(e.db), e.users)

	if _, err := svc.Award(ctx, "u-1", dtos.AwardBadgeRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Award(ctx, "ghost", dtos.AwardBadgeRequest{BadgeType: "helper"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	_, err := svc.Award(ctx, "u-1", dtos.AwardBadgeRequest{
		BadgeType: "helper",
		BadgeData: json.RawMessage(`{"reason":"answered 10 questions"}`),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	badges, err := svc.ListForUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(badges) != 1 || badges[0].BadgeType != "helper" {
		t.Errorf("Unexpected badges: %+v", badges)
	}
}
