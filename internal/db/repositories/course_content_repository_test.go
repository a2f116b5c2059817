package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/tenant"
	"infinite-experiment/coursehub/internal/tenancy"
)

func newPost(title string, kind constants.PostKind) *tenant.Post {
	return &tenant.Post{Title: title, Content: title + " body", Type: kind, AuthorID: "author-1"}
}

func TestCourseContentRepo_UnconfiguredCourseDegrades(t *testing.T) {
	repo := setupCourseRepo(t)
	ctx := context.Background()

	posts, err := repo.GetPosts(ctx, "no-credentials", ListOptions{})
	if posts == nil || len(posts) != 0 {
		t.Errorf("Expected empty non-nil list, got %v", posts)
	}
	if !errors.Is(err, tenancy.ErrTenantNotConfigured) {
		t.Errorf("Expected ErrTenantNotConfigured, got %v", err)
	}

	post, err := repo.GetPostByID(ctx, "no-credentials", "p1")
	if post != nil || !errors.Is(err, tenancy.ErrTenantUnavailable) {
		t.Errorf("Expected nil post and unavailable error, got %v, %v", post, err)
	}

	created, err := repo.CreatePost(ctx, "no-credentials", newPost("hello", constants.PostKindPost))
	if created != nil {
		t.Error("Expected write to return nil")
	}
	if !errors.Is(err, tenancy.ErrTenantUnavailable) {
		t.Errorf("Expected unavailable error on write, got %v", err)
	}
}

func TestCourseContentRepo_UnreachableCourseFailsWrites(t *testing.T) {
	repo := setupCourseRepo(t, "offline")
	ctx := context.Background()

	_, _, err := repo.SetAssignmentCompletion(ctx, "offline", "post-1", "user-1", true, nil)
	if !errors.Is(err, tenancy.ErrTenantUnreachable) {
		t.Errorf("Expected ErrTenantUnreachable, got %v", err)
	}

	stats, err := repo.ListUserStats(ctx, "offline")
	if len(stats) != 0 || !errors.Is(err, tenancy.ErrTenantUnavailable) {
		t.Errorf("Expected empty stats and unavailable error, got %v, %v", stats, err)
	}
}

func TestCourseContentRepo_PostLifecycle(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		p, err := repo.CreatePost(ctx, "course-1", newPost(fmt.Sprintf("post-%d", i), constants.PostKindPost))
		if err != nil {
			t.Fatalf("Failed to create post: %v", err)
		}
		if p.State != constants.StateActive {
			t.Errorf("Expected new post to be active, got %s", p.State)
		}
		ids = append(ids, p.ID)
		time.Sleep(2 * time.Millisecond)
	}

	posts, err := repo.GetPosts(ctx, "course-1", ListOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(posts))
	}
	for i, p := range posts {
		if p.ID != ids[i] {
			t.Errorf("Expected creation order, position %d has %s", i, p.Title)
		}
	}

	deleted, err := repo.SoftDeletePost(ctx, "course-1", ids[1])
	if err != nil || !deleted {
		t.Fatalf("Expected post to be deleted, got %v, %v", deleted, err)
	}

	posts, _ = repo.GetPosts(ctx, "course-1", ListOptions{})
	if len(posts) != 2 {
		t.Errorf("Expected deleted post to be hidden, got %d posts", len(posts))
	}
	if p, _ := repo.GetPostByID(ctx, "course-1", ids[1]); p != nil {
		t.Error("Expected GetPostByID to hide a deleted post")
	}

	all, _ := repo.GetPosts(ctx, "course-1", ListOptions{IncludeDeleted: true})
	if len(all) != 3 {
		t.Errorf("Expected 3 posts including deleted, got %d", len(all))
	}

	again, err := repo.SoftDeletePost(ctx, "course-1", ids[1])
	if err != nil || again {
		t.Errorf("Expected second delete to be a no-op, got %v, %v", again, err)
	}
}

func TestCourseContentRepo_GetPostsPageSize(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()

	for i := 0; i < constants.DefaultPostPageSize+5; i++ {
		if _, err := repo.CreatePost(ctx, "course-1", newPost(fmt.Sprintf("p%d", i), constants.PostKindPost)); err != nil {
			t.Fatalf("Failed to create post: %v", err)
		}
	}

	posts, _ := repo.GetPosts(ctx, "course-1", ListOptions{})
	if len(posts) != constants.DefaultPostPageSize {
		t.Errorf("Expected default page of %d, got %d", constants.DefaultPostPageSize, len(posts))
	}

	posts, _ = repo.GetPosts(ctx, "course-1", ListOptions{Limit: 10, Offset: 50})
	if len(posts) != 5 {
		t.Errorf("Expected 5 posts on the last page, got %d", len(posts))
	}
}

func TestCourseContentRepo_GetPostsByKind(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()

	repo.CreatePost(ctx, "course-1", newPost("a1", constants.PostKindAssignment))
	repo.CreatePost(ctx, "course-1", newPost("p1", constants.PostKindPost))
	a2, _ := repo.CreatePost(ctx, "course-1", newPost("a2", constants.PostKindAssignment))
	repo.SoftDeletePost(ctx, "course-1", a2.ID)

	assignments, err := repo.GetPostsByKind(ctx, "course-1", constants.PostKindAssignment)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(assignments) != 1 || assignments[0].Title != "a1" {
		t.Errorf("Expected only active assignment a1, got %+v", assignments)
	}

	filtered, _ := repo.GetPosts(ctx, "course-1", ListOptions{Kind: constants.PostKindPost})
	if len(filtered) != 1 || filtered[0].Title != "p1" {
		t.Errorf("Expected kind filter to return p1, got %+v", filtered)
	}
}

func TestCourseContentRepo_UpdatePost(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()

	deadline := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	p := newPost("draft", constants.PostKindAssignment)
	p.Deadline = &deadline
	created, _ := repo.CreatePost(ctx, "course-1", p)

	title := "final"
	pinned := true
	urls := []string{"https://cdn.example/a.png"}
	updated, err := repo.UpdatePost(ctx, "course-1", created.ID, PostUpdate{
		Title:     &title,
		IsPinned:  &pinned,
		MediaURLs: &urls,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Title != "final" || !updated.IsPinned {
		t.Errorf("Expected title and pin to change, got %+v", updated)
	}
	if updated.Content != "draft body" {
		t.Errorf("Expected content untouched, got %q", updated.Content)
	}
	if len(updated.MediaURLs) != 1 || updated.MediaURLs[0] != urls[0] {
		t.Errorf("Expected media urls to be stored, got %v", updated.MediaURLs)
	}
	if updated.Deadline == nil {
		t.Error("Expected deadline to be kept")
	}

	cleared, _ := repo.UpdatePost(ctx, "course-1", created.ID, PostUpdate{ClearDeadline: true})
	if cleared.Deadline != nil {
		t.Error("Expected deadline to be cleared")
	}

	missing, err := repo.UpdatePost(ctx, "course-1", "no-such-post", PostUpdate{Title: &title})
	if missing != nil || err != nil {
		t.Errorf("Expected nil, nil for a missing post, got %v, %v", missing, err)
	}
}

func TestCourseContentRepo_CoursesAreIsolated(t *testing.T) {
	repo := setupCourseRepo(t, "course-a", "course-b")
	ctx := context.Background()

	repo.CreatePost(ctx, "course-a", newPost("only in a", constants.PostKindPost))

	b, err := repo.GetPosts(ctx, "course-b", ListOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(b) != 0 {
		t.Errorf("Expected course-b to be empty, got %d posts", len(b))
	}
}

func TestCourseContentRepo_Comments(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()

	post, _ := repo.CreatePost(ctx, "course-1", newPost("thread", constants.PostKindPost))
	first, _ := repo.CreateComment(ctx, "course-1", &tenant.Comment{PostID: post.ID, AuthorID: "u1", Content: "first"})
	time.Sleep(2 * time.Millisecond)
	second, _ := repo.CreateComment(ctx, "course-1", &tenant.Comment{PostID: post.ID, AuthorID: "u2", Content: "second", ParentID: &first.ID})

	comments, err := repo.GetComments(ctx, "course-1", post.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(comments) != 2 || comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Fatalf("Expected comments oldest first, got %+v", comments)
	}

	edited, err := repo.UpdateComment(ctx, "course-1", second.ID, "edited")
	if err != nil || edited.Content != "edited" {
		t.Errorf("Expected edited content, got %v, %v", edited, err)
	}

	if ok, _ := repo.SoftDeleteComment(ctx, "course-1", first.ID); !ok {
		t.Error("Expected comment to be deleted")
	}
	comments, _ = repo.GetComments(ctx, "course-1", post.ID)
	if len(comments) != 1 {
		t.Errorf("Expected 1 visible comment, got %d", len(comments))
	}
	if c, _ := repo.GetCommentByID(ctx, "course-1", first.ID); c != nil {
		t.Error("Expected deleted comment to be hidden")
	}
}

func TestCourseContentRepo_ToggleReaction(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()
	target := ReactionTarget{ID: "post-1", Kind: constants.TargetPost}

	steps := []struct {
		kind       constants.ReactionKind
		wantAction ReactionAction
		wantCount  int
	}{
		{constants.ReactionLike, ReactionAdded, 1},
		{constants.ReactionLove, ReactionSwitched, 1},
		{constants.ReactionLove, ReactionRemoved, 0},
		{constants.ReactionLaugh, ReactionAdded, 1},
	}

	for i, step := range steps {
		reaction, action, err := repo.ToggleReaction(ctx, "course-1", target, "user-1", step.kind)
		if err != nil {
			t.Fatalf("Step %d: expected no error, got %v", i, err)
		}
		if action != step.wantAction {
			t.Errorf("Step %d: expected %s, got %s", i, step.wantAction, action)
		}
		if action != ReactionRemoved && reaction.ReactionType != step.kind {
			t.Errorf("Step %d: expected kind %s, got %s", i, step.kind, reaction.ReactionType)
		}

		all, _ := repo.GetReactions(ctx, "course-1", target)
		if len(all) != step.wantCount {
			t.Errorf("Step %d: expected %d reactions, got %d", i, step.wantCount, len(all))
		}
	}
}

func TestCourseContentRepo_SetReactionKeepsOneRowPerUser(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()
	target := ReactionTarget{ID: "comment-1", Kind: constants.TargetComment}

	first, err := repo.SetReaction(ctx, "course-1", target, "user-1", constants.ReactionLike)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := repo.SetReaction(ctx, "course-1", target, "user-1", constants.ReactionLaugh)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if first.ID != second.ID {
		t.Error("Expected the same row to be updated")
	}
	repo.SetReaction(ctx, "course-1", target, "user-2", constants.ReactionLaugh)

	counts, err := repo.CountReactions(ctx, "course-1", target)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if counts[constants.ReactionLaugh] != 2 || counts[constants.ReactionLike] != 0 {
		t.Errorf("Unexpected counts: %v", counts)
	}

	if ok, _ := repo.DeleteReaction(ctx, "course-1", target, "user-1"); !ok {
		t.Error("Expected reaction to be deleted")
	}
	all, _ := repo.GetReactions(ctx, "course-1", target)
	if len(all) != 1 {
		t.Errorf("Expected 1 reaction left, got %d", len(all))
	}
}

func TestCourseContentRepo_SetAssignmentCompletion(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()
	note := "submitted via LMS"

	status, changed, err := repo.SetAssignmentCompletion(ctx, "course-1", "post-1", "user-1", true, &note)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !changed || !status.IsCompleted || status.CompletedAt == nil {
		t.Errorf("Expected first completion to change state, got %+v changed=%v", status, changed)
	}

	_, changed, _ = repo.SetAssignmentCompletion(ctx, "course-1", "post-1", "user-1", true, nil)
	if changed {
		t.Error("Expected repeated completion to be unchanged")
	}

	status, changed, _ = repo.SetAssignmentCompletion(ctx, "course-1", "post-1", "user-1", false, nil)
	if !changed || status.IsCompleted || status.CompletedAt != nil {
		t.Errorf("Expected un-complete to clear state, got %+v changed=%v", status, changed)
	}
	if status.SubmissionNote == nil || *status.SubmissionNote != note {
		t.Error("Expected submission note to be kept")
	}

	statuses, _ := repo.GetUserAssignmentStatuses(ctx, "course-1", "user-1")
	if len(statuses) != 1 {
		t.Errorf("Expected a single status row, got %d", len(statuses))
	}
}

func TestCourseContentRepo_AssignmentStatusCRUD(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()

	created, err := repo.CreateAssignmentStatus(ctx, "course-1", &tenant.AssignmentStatus{PostID: "p", UserID: "u"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	created.IsCompleted = true
	if err := repo.UpdateAssignmentStatus(ctx, "course-1", created); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, _ := repo.GetAssignmentStatus(ctx, "course-1", "p", "u")
	if got == nil || !got.IsCompleted {
		t.Errorf("Expected stored completion, got %+v", got)
	}
	if none, _ := repo.GetAssignmentStatus(ctx, "course-1", "p", "other"); none != nil {
		t.Error("Expected nil for a missing status")
	}
}

func TestCourseContentRepo_IncrementUserStats(t *testing.T) {
	repo := setupCourseRepo(t, "course-1")
	ctx := context.Background()

	repo.IncrementUserStats(ctx, "course-1", "user-1", StatsDelta{Posts: 1, Points: 10})
	repo.IncrementUserStats(ctx, "course-1", "user-1", StatsDelta{Comments: 1, Points: 2})
	repo.IncrementUserStats(ctx, "course-1", "user-2", StatsDelta{Points: 50})
	repo.IncrementUserStats(ctx, "course-1", "user-3", StatsDelta{Points: 12})

	stats, err := repo.GetUserStats(ctx, "course-1", "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if stats.PostsCount != 1 || stats.CommentsCount != 1 || stats.Points != 12 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.Contributions() != 2 {
		t.Errorf("Expected 2 contributions, got %d", stats.Contributions())
	}

	board, err := repo.GetCourseLeaderboard(ctx, "course-1", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(board) != 3 || board[0].UserID != "user-2" {
		t.Fatalf("Expected user-2 on top, got %+v", board)
	}
	// equal points fall back to user id order
	if board[1].UserID != "user-1" || board[2].UserID != "user-3" {
		t.Errorf("Expected tie order user-1, user-3, got %s, %s", board[1].UserID, board[2].UserID)
	}

	top, _ := repo.GetCourseLeaderboard(ctx, "course-1", 1)
	if len(top) != 1 {
		t.Errorf("Expected limit to apply, got %d", len(top))
	}

	if missing, _ := repo.GetUserStats(ctx, "course-1", "nobody"); missing != nil {
		t.Error("Expected nil stats for an inactive user")
	}
}
