package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/models/dtos"
	"infinite-experiment/coursehub/internal/tenancy"
)

type contentFixture struct {
	*testEnv
	courseID string
}

func newContentFixture(t *testing.T) *contentFixture {
	e := newTestEnv(t)
	e.addUser("lecturer", "lecturer", false)
	e.addUser("ada", "ada", false)
	e.addUser("grace", "grace", false)
	course := e.addCourse("alpha")
	e.enroll("lecturer", course.ID, constants.MembershipCourseAdmin)
	e.enroll("ada", course.ID, constants.MembershipStudent)
	e.enroll("grace", course.ID, constants.MembershipStudent)
	return &contentFixture{testEnv: e, courseID: course.ID}
}

func TestContentService_CreatePostAwardsPoints(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	post, err := f.contentSvc.CreatePost(ctx, f.claims("ada"), f.courseID, dtos.CreatePostRequest{Title: "Notes", Content: "week 1"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if post.Type != constants.PostKindPost || post.AuthorID != "ada" {
		t.Errorf("Unexpected post: %+v", post)
	}
	if got := f.points(f.courseID, "ada"); got != constants.PointsPerPost {
		t.Errorf("Expected %d points, got %d", constants.PointsPerPost, got)
	}

	_, err = f.contentSvc.CreatePost(ctx, f.claims("ada"), f.courseID, dtos.CreatePostRequest{Title: " ", Content: "x"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestContentService_AssignmentsNeedModerator(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	req := dtos.CreatePostRequest{Title: "HW1", Content: "solve", Type: constants.PostKindAssignment}

	if _, err := f.contentSvc.CreatePost(ctx, f.claims("ada"), f.courseID, req); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for a student, got %v", err)
	}
	if _, err := f.contentSvc.CreatePost(ctx, f.claims("lecturer"), f.courseID, req); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, user := range []string{"ada", "grace"} {
		n, _ := f.notifications.CountUnread(ctx, user)
		if n != 1 {
			t.Errorf("Expected 1 assignment notification for %s, got %d", user, n)
		}
	}
	if n, _ := f.notifications.CountUnread(ctx, "lecturer"); n != 0 {
		t.Errorf("Expected no notification for the author, got %d", n)
	}
}

func TestContentService_UpdateAndDeletePermissions(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	post, _ := f.contentSvc.CreatePost(ctx, f.claims("ada"), f.courseID, dtos.CreatePostRequest{Title: "Notes", Content: "v1"})

	title := "Hijacked"
	if _, err := f.contentSvc.UpdatePost(ctx, f.claims("grace"), f.courseID, post.ID, dtos.UpdatePostRequest{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for another student, got %v", err)
	}

	pinned := true
	if _, err := f.contentSvc.UpdatePost(ctx, f.claims("ada"), f.courseID, post.ID, dtos.UpdatePostRequest{IsPinned: &pinned}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden when the author pins, got %v", err)
	}

	updated, err := f.contentSvc.UpdatePost(ctx, f.claims("lecturer"), f.courseID, post.ID, dtos.UpdatePostRequest{IsPinned: &pinned})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !updated.IsPinned {
		t.Error("Expected moderator to pin the post")
	}

	if err := f.contentSvc.DeletePost(ctx, f.claims("ada"), f.courseID, post.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := f.contentSvc.GetPost(ctx, f.courseID, post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if got := f.points(f.courseID, "ada"); got != constants.PointsPerPost {
		t.Errorf("Expected points to survive deletion, got %d", got)
	}
}

func TestContentService_Comments(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	post, _ := f.contentSvc.CreatePost(ctx, f.claims("ada"), f.courseID, dtos.CreatePostRequest{Title: "Q", Content: "?"})

	parent, err := f.contentSvc.CreateComment(ctx, f.claims("grace"), f.courseID, post.ID, dtos.CreateCommentRequest{Content: "answer"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := f.points(f.courseID, "grace"); got != constants.PointsPerComment {
		t.Errorf("Expected %d points, got %d", constants.PointsPerComment, got)
	}

	reply, err := f.contentSvc.CreateComment(ctx, f.claims("ada"), f.courseID, post.ID, dtos.CreateCommentRequest{Content: "thanks", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != parent.ID {
		t.Errorf("Expected reply to reference its parent")
	}

	bogus := "not-a-comment"
	_, err = f.contentSvc.CreateComment(ctx, f.claims("ada"), f.courseID, post.ID, dtos.CreateCommentRequest{Content: "x", ParentID: &bogus})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown parent, got %v", err)
	}
	_, err = f.contentSvc.CreateComment(ctx, f.claims("ada"), f.courseID, "missing", dtos.CreateCommentRequest{Content: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown post, got %v", err)
	}

	if err := f.contentSvc.DeleteComment(ctx, f.claims("ada"), f.courseID, parent.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden deleting someone else's comment, got %v", err)
	}
	if err := f.contentSvc.DeleteComment(ctx, f.claims("lecturer"), f.courseID, parent.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	comments, err := f.contentSvc.ListComments(ctx, f.courseID, post.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(comments) != 1 || comments[0].ID != reply.ID {
		t.Errorf("Expected only the reply to remain, got %+v", comments)
	}
}

func TestContentService_ReactionPoints(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	post, _ := f.contentSvc.CreatePost(ctx, f.claims("ada"), f.courseID, dtos.CreatePostRequest{Title: "Notes", Content: "x"})
	base := f.points(f.courseID, "ada")

	like := dtos.ReactionRequest{TargetID: post.ID, TargetType: constants.TargetPost, ReactionType: constants.ReactionLike}
	love := like
	love.ReactionType = constants.ReactionLove

	steps := []struct {
		name       string
		user       string
		req        dtos.ReactionRequest
		wantAction repositories.ReactionAction
		wantPoints int
	}{
		{"self reaction earns nothing", "ada", like, repositories.ReactionAdded, base},
		{"other user adds", "grace", like, repositories.ReactionAdded, base + 1},
		{"switching kind is neutral", "grace", love, repositories.ReactionSwitched, base + 1},
		{"same kind again removes", "grace", love, repositories.ReactionRemoved, base},
	}

	for _, step := range steps {
		res, err := f.contentSvc.ToggleReaction(ctx, f.claims(step.user), f.courseID, step.req)
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", step.name, err)
		}
		if res.Action != step.wantAction {
			t.Errorf("%s: expected action %s, got %s", step.name, step.wantAction, res.Action)
		}
		if got := f.points(f.courseID, "ada"); got != step.wantPoints {
			t.Errorf("%s: expected %d points, got %d", step.name, step.wantPoints, got)
		}
	}

	summary, err := f.contentSvc.Reactions(ctx, f.claims("ada"), f.courseID, constants.TargetPost, post.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Counts[constants.ReactionLike] != 1 || summary.Counts[constants.ReactionLove] != 0 {
		t.Errorf("Unexpected counts: %v", summary.Counts)
	}
	if summary.Mine == nil || *summary.Mine != constants.ReactionLike {
		t.Errorf("Expected caller's own like, got %v", summary.Mine)
	}

	bad := like
	bad.ReactionType = "angry"
	if _, err := f.contentSvc.ToggleReaction(ctx, f.claims("grace"), f.courseID, bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	missing := like
	missing.TargetID = "missing"
	if _, err := f.contentSvc.ToggleReaction(ctx, f.claims("grace"), f.courseID, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestContentService_AssignmentCompletion(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	deadline := time.Now().Add(48 * time.Hour)
	hw, _ := f.contentSvc.CreatePost(ctx, f.claims("lecturer"), f.courseID, dtos.CreatePostRequest{
		Title: "HW1", Content: "solve", Type: constants.PostKindAssignment, Deadline: &deadline,
	})
	plain, _ := f.contentSvc.CreatePost(ctx, f.claims("ada"), f.courseID, dtos.CreatePostRequest{Title: "Notes", Content: "x"})
	base := f.points(f.courseID, "grace")

	steps := []struct {
		completed bool
		want      int
	}{
		{true, base + constants.PointsPerAssignmentComplete},
		{true, base + constants.PointsPerAssignmentComplete},
		{false, base},
		{false, base},
	}
	for i, step := range steps {
		status, err := f.contentSvc.SetAssignmentCompletion(ctx, f.claims("grace"), f.courseID, hw.ID, dtos.AssignmentCompletionRequest{IsCompleted: step.completed})
		if err != nil {
			t.Fatalf("step %d: expected no error, got %v", i, err)
		}
		if status.IsCompleted != step.completed {
			t.Errorf("step %d: expected completed=%v", i, step.completed)
		}
		if got := f.points(f.courseID, "grace"); got != step.want {
			t.Errorf("step %d: expected %d points, got %d", i, step.want, got)
		}
	}

	_, err := f.contentSvc.SetAssignmentCompletion(ctx, f.claims("grace"), f.courseID, plain.ID, dtos.AssignmentCompletionRequest{IsCompleted: true})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a non-assignment, got %v", err)
	}
}

func TestContentService_CourseLeaderboard(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	_, _ = f.contentSvc.CreatePost(ctx, f.claims("ada"), f.courseID, dtos.CreatePostRequest{Title: "a", Content: "a"})
	post, _ := f.contentSvc.CreatePost(ctx, f.claims("ada"), f.courseID, dtos.CreatePostRequest{Title: "b", Content: "b"})
	_, _ = f.contentSvc.CreateComment(ctx, f.claims("grace"), f.courseID, post.ID, dtos.CreateCommentRequest{Content: "c"})

	board, err := f.contentSvc.CourseLeaderboard(ctx, f.courseID, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(board))
	}
	if board[0].Username != "ada" || board[0].Rank != 1 || board[0].Points != 2*constants.PointsPerPost {
		t.Errorf("Unexpected leader: %+v", board[0])
	}
	if board[1].Username != "grace" || board[1].Rank != 2 {
		t.Errorf("Unexpected runner-up: %+v", board[1])
	}

	// stats left behind by a user no longer in the registry
	err = f.content.IncrementUserStats(ctx, f.courseID, "ghost", repositories.StatsDelta{Points: 1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	board, err = f.contentSvc.CourseLeaderboard(ctx, f.courseID, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(board) != 3 || board[2].UserID != "ghost" || board[2].Username != constants.UnknownUsername {
		t.Errorf("Expected ghost labelled %q last, got %+v", constants.UnknownUsername, board)
	}
}

func TestContentService_UnreachableCourseFailsWrites(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.addUser("root", "root", true)
	offline := e.addCourse("offline")

	_, err := e.contentSvc.CreatePost(ctx, e.claims("root"), offline.ID, dtos.CreatePostRequest{Title: "x", Content: "y"})
	if !errors.Is(err, tenancy.ErrTenantUnavailable) {
		t.Errorf("Expected ErrTenantUnavailable, got %v", err)
	}

	posts, err := e.contentSvc.ListPosts(ctx, offline.ID, repositories.ListOptions{})
	if !errors.Is(err, tenancy.ErrTenantUnavailable) || len(posts) != 0 {
		t.Errorf("Expected empty read with ErrTenantUnavailable, got %v, %v", posts, err)
	}
}
